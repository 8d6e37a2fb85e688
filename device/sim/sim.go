// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package sim is a controller that generates smooth changing values,
// so every binary in this repo can run without hardware attached.
package sim

import (
	"fmt"
	"math"
	"time"

	"github.com/relabs-tech/motion_controller/device"
)

// Device is a simulated six-axis puck. Each axis follows its own slow
// sine wave and the buttons toggle on long periods, which exercises
// both the change detector and the scaler without any I/O.
type Device struct {
	start time.Time
	axes  [6]float64
	btn   [2]bool
}

// New creates a simulated device. The waveforms are anchored to the
// creation time.
func New() *Device {
	return &Device{start: time.Now()}
}

func (d *Device) Name() string { return "Simulated 6DOF Puck" }

func (d *Device) Components() []string { return device.Required() }

// Poll advances the waveforms to the current time.
func (d *Device) Poll() error {
	elapsed := time.Since(d.start).Seconds()

	d.axes = [6]float64{
		0.8 * math.Sin(elapsed),
		0.8 * math.Cos(elapsed*0.7),
		0.5 * math.Sin(elapsed*0.3),
		0.4 * math.Sin(elapsed*1.3),
		0.4 * math.Cos(elapsed*0.9),
		0.6 * math.Sin(elapsed*0.5),
	}
	d.btn[0] = math.Sin(elapsed*0.25) > 0.6
	d.btn[1] = math.Cos(elapsed*0.15) < -0.6
	return nil
}

func (d *Device) Read(component string) (float64, error) {
	switch component {
	case device.ComponentX:
		return d.axes[0], nil
	case device.ComponentY:
		return d.axes[1], nil
	case device.ComponentZ:
		return d.axes[2], nil
	case device.ComponentRX:
		return d.axes[3], nil
	case device.ComponentRY:
		return d.axes[4], nil
	case device.ComponentRZ:
		return d.axes[5], nil
	case device.ComponentButton0:
		return buttonValue(d.btn[0]), nil
	case device.ComponentButton1:
		return buttonValue(d.btn[1]), nil
	default:
		return 0, fmt.Errorf("sim: unknown component %q", component)
	}
}

func buttonValue(pressed bool) float64 {
	if pressed {
		return 1
	}
	return 0
}
