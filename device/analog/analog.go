// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package analog drives the DIY controller rig: six hall sensors read
// through two ADS1115 ADCs on the I2C bus, plus two push buttons on
// GPIO pins. The sensors idle at half the supply rail and swing toward
// the rails under force.
package analog

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/ads1x15"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/motion_controller/device"
)

// railVoltage is the sensor supply rail. Readings are normalized
// against half of it.
const railVoltage = 3300 * physic.MilliVolt

// sampleRate is the per-channel ADC data rate. 250 SPS leaves
// headroom over the 100Hz calibration probe.
const sampleRate = 250 * physic.Hertz

// Options selects the buses and pins of the rig. Zero values get the
// defaults of the reference build.
type Options struct {
	// I2CBus names the bus both ADCs sit on, e.g. "1". Empty selects
	// the first available bus.
	I2CBus string
	// ButtonLeftPin and ButtonRightPin are GPIO pin names. The
	// buttons are wired active-low with internal pull-ups.
	ButtonLeftPin  string
	ButtonRightPin string
}

// Device is one attached rig: ADC A (0x48) carries x, y, z, rx and
// ADC B (0x49) carries ry, rz.
type Device struct {
	name string
	bus  i2c.BusCloser
	pins [6]ads1x15.PinADC
	btns [2]gpio.PinIO

	axes    [6]float64
	pressed [2]bool
}

// Open initializes the periph host, claims the I2C bus and the button
// pins, and configures all six ADC channels.
func Open(opts Options) (*Device, error) {
	if opts.ButtonLeftPin == "" {
		opts.ButtonLeftPin = "GPIO23"
	}
	if opts.ButtonRightPin == "" {
		opts.ButtonRightPin = "GPIO24"
	}

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("analog: periph host init: %w", err)
	}

	bus, err := i2creg.Open(opts.I2CBus)
	if err != nil {
		return nil, fmt.Errorf("analog: i2c open %q: %w", opts.I2CBus, err)
	}

	adcA, err := ads1x15.NewADS1115(bus, &ads1x15.DefaultOpts)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("analog: ADC A init: %w", err)
	}
	optsB := ads1x15.Opts{I2cAddress: 0x49}
	adcB, err := ads1x15.NewADS1115(bus, &optsB)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("analog: ADC B init: %w", err)
	}

	d := &Device{name: "Analog 6DOF Rig (ADS1115)", bus: bus}

	channels := []struct {
		adc  *ads1x15.Dev
		ch   ads1x15.Channel
		axis string
	}{
		{adcA, ads1x15.Channel0, "x"},
		{adcA, ads1x15.Channel1, "y"},
		{adcA, ads1x15.Channel2, "z"},
		{adcA, ads1x15.Channel3, "rx"},
		{adcB, ads1x15.Channel0, "ry"},
		{adcB, ads1x15.Channel1, "rz"},
	}
	for i, c := range channels {
		pin, err := c.adc.PinForChannel(c.ch, railVoltage, sampleRate, ads1x15.BestQuality)
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("analog: channel %s: %w", c.axis, err)
		}
		d.pins[i] = pin
	}

	for i, name := range []string{opts.ButtonLeftPin, opts.ButtonRightPin} {
		p := gpioreg.ByName(name)
		if p == nil {
			d.Close()
			return nil, fmt.Errorf("analog: button pin %q not found", name)
		}
		if err := p.In(gpio.PullUp, gpio.NoEdge); err != nil {
			d.Close()
			return nil, fmt.Errorf("analog: button pin %q: %w", name, err)
		}
		d.btns[i] = p
	}

	return d, nil
}

func (d *Device) Name() string { return d.name }

func (d *Device) Components() []string { return device.Required() }

// Close halts the ADC channels and releases the bus.
func (d *Device) Close() error {
	for _, pin := range d.pins {
		if pin != nil {
			pin.Halt()
		}
	}
	return d.bus.Close()
}

// Poll samples all six channels and both buttons once.
func (d *Device) Poll() error {
	for i, pin := range d.pins {
		sample, err := pin.Read()
		if err != nil {
			return fmt.Errorf("analog: read %s: %w", pin.Name(), err)
		}
		d.axes[i] = normalize(sample.V)
	}
	for i, b := range d.btns {
		d.pressed[i] = b.Read() == gpio.Low
	}
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
		if d.pressed[0] {
			return 1, nil
		}
		return 0, nil
	case device.ComponentButton1:
		if d.pressed[1] {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("analog: unknown component %q", component)
	}
}

// normalize maps a mid-rail sensor voltage onto -1..1.
func normalize(v physic.ElectricPotential) float64 {
	half := float64(railVoltage) / 2
	return (float64(v) - half) / half
}
