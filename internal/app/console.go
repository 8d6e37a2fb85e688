// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/relabs-tech/motion_controller/internal/config"
	"github.com/relabs-tech/motion_controller/motion"
	"github.com/relabs-tech/motion_controller/session"
)

// RunConsole streams change notifications from the configured device
// to stdout until Ctrl+C or a device failure.
func RunConsole(cfg *config.Config) error {
	devs, cleanup, err := openDevices(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ses, err := session.Create(cfg.DevicePattern, devs)
	if err != nil {
		return err
	}
	log.Printf("console: using device %q", ses.Device().Name())

	notifier, err := ses.Notify(printSnapshot,
		session.WithInterval(time.Duration(cfg.SampleIntervalMS)*time.Millisecond),
		session.WithTolerance(cfg.Tolerance),
		session.WithTargetRanges(cfg.TargetRanges()),
		session.WithCalibratedRanges(cfg.CalibratedRanges()),
	)
	if err != nil {
		return err
	}

	// Wait for Ctrl+C or the loop dying on its own.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		log.Println("console: shutting down")
		notifier.Stop()
		<-notifier.Done()
		return nil
	case <-notifier.Done():
		last := notifier.Last()
		log.Printf("console: device lost, last snapshot X=%.3f Y=%.3f Z=%.3f", last.X, last.Y, last.Z)
		return notifier.Err()
	}
}

func printSnapshot(s motion.Snapshot) {
	fmt.Printf(
		"[MOVE]  X=%7.3f  Y=%7.3f  Z=%7.3f  RX=%7.3f  RY=%7.3f  RZ=%7.3f  L=%s R=%s\n",
		s.X, s.Y, s.Z, s.RX, s.RY, s.RZ,
		buttonMark(s.BtnLeft), buttonMark(s.BtnRight),
	)
}

func buttonMark(pressed bool) string {
	if pressed {
		return "DOWN"
	}
	return "up"
}
