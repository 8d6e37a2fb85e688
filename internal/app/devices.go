package app

import (
	"fmt"
	"log"

	"github.com/relabs-tech/motion_controller/device"
	"github.com/relabs-tech/motion_controller/device/analog"
	"github.com/relabs-tech/motion_controller/device/magellan"
	"github.com/relabs-tech/motion_controller/device/sim"
	"github.com/relabs-tech/motion_controller/internal/config"
)

// openDevices builds the list a session can match against: the serial
// puck when SERIAL_PORT is set, the analog rig when ANALOG_I2C_BUS is
// set, and the simulator last as the always-present fallback. The
// returned cleanup releases whatever hardware was opened.
func openDevices(cfg *config.Config) ([]device.Device, func(), error) {
	var devs []device.Device
	var closers []func()

	if cfg.SerialPort != "" {
		m, err := magellan.Open(cfg.SerialPort)
		if err != nil {
			return nil, nil, fmt.Errorf("serial device: %w", err)
		}
		devs = append(devs, m)
		closers = append(closers, func() {
			if err := m.Close(); err != nil {
				log.Printf("serial close error: %v", err)
			}
		})
	}

	if cfg.AnalogI2CBus != "" {
		a, err := analog.Open(analog.Options{
			I2CBus:         cfg.AnalogI2CBus,
			ButtonLeftPin:  cfg.ButtonPinLeft,
			ButtonRightPin: cfg.ButtonPinRight,
		})
		if err != nil {
			for _, f := range closers {
				f()
			}
			return nil, nil, fmt.Errorf("analog rig: %w", err)
		}
		devs = append(devs, a)
		closers = append(closers, func() {
			if err := a.Close(); err != nil {
				log.Printf("analog close error: %v", err)
			}
		})
	}

	devs = append(devs, sim.New())

	cleanup := func() {
		for _, f := range closers {
			f()
		}
	}
	return devs, cleanup, nil
}
