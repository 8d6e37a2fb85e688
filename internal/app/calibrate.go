// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/relabs-tech/motion_controller/internal/config"
	"github.com/relabs-tech/motion_controller/motion"
	"github.com/relabs-tech/motion_controller/scale"
	"github.com/relabs-tech/motion_controller/session"
)

const (
	restCheckDuration = 2 * time.Second
	restSampleHz      = 100 // target loop frequency (best-effort)

	// Stillness quality heuristics, in raw axis units.
	stillStdGood = 0.005 // "good" standard deviation threshold for stillness
	stillStdBad  = 0.05  // above this confidence drops steeply

	// Confidence floor (never hard zero unless we error out)
	confFloor = 0.05
)

// RunCalibrate walks the user through a range probe and prints the
// resulting CAL_* lines for the config file. Nothing is written to
// disk; the user decides what to keep.
func RunCalibrate(cfg *config.Config) error {
	in := bufio.NewReader(os.Stdin)

	fmt.Println("=== Guided Range Calibration ===")
	fmt.Println("This workflow measures the raw travel of every axis and prints")
	fmt.Println("CAL_* lines to paste into your config file.")
	fmt.Println()

	devs, cleanup, err := openDevices(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ses, err := session.Create(cfg.DevicePattern, devs)
	if err != nil {
		return err
	}
	fmt.Printf("Selected device: %s\n\n", ses.Device().Name())

	// The probe range always brackets the rest position, so the
	// controller has to actually be at rest when it starts.
	fmt.Println("Step 1/2 — Rest check")
	fmt.Println("Place the controller on a stable surface and do not touch it.")
	waitEnter(in, "Press ENTER to start the rest check (2s)...")

	conf, err := restConfidence(ses, restCheckDuration)
	if err != nil {
		return err
	}
	fmt.Printf("Rest confidence: %.2f\n", conf)
	if conf < 0.5 {
		fmt.Println("WARNING: the controller does not look at rest; the probed ranges may be off-center.")
	}

	probeDur := time.Duration(cfg.ProbeSeconds) * time.Second
	fmt.Println("\nStep 2/2 — Range probe")
	fmt.Printf("Push, pull and twist every axis to its extremes, repeatedly, for %s.\n", probeDur)
	waitEnter(in, "Press ENTER to start the probe...")

	ranges, err := ses.Probe(probeDur)
	if err != nil {
		return err
	}
	fmt.Println("Probe finished.")

	for i, name := range motion.AxisNames() {
		if axisOf(ranges, i) == (scale.AxisRange{}) {
			fmt.Printf("NOTE: axis %s saw no travel; it will fall back to the default range.\n", name)
		}
	}

	fmt.Println("\nPaste these lines into your config file:")
	fmt.Println()
	printRanges(ranges)
	return nil
}

// restConfidence samples the device briefly and maps the average
// per-axis standard deviation onto 0..1, 1 meaning perfectly still.
func restConfidence(ses *session.Session, dur time.Duration) (float64, error) {
	targetPeriod := time.Second / time.Duration(restSampleHz)
	deadline := time.Now().Add(dur)

	var sums, sqSums [6]float64
	n := 0
	for time.Now().Before(deadline) {
		snap, err := ses.ReadSnapshot()
		if err != nil {
			return 0, err
		}
		for i, v := range snap.Axes() {
			sums[i] += v
			sqSums[i] += v * v
		}
		n++
		time.Sleep(targetPeriod)
	}
	if n == 0 {
		return confFloor, nil
	}

	var stdSum float64
	for i := range sums {
		mean := sums[i] / float64(n)
		variance := sqSums[i]/float64(n) - mean*mean
		if variance < 0 {
			variance = 0
		}
		stdSum += math.Sqrt(variance)
	}
	s := stdSum / 6

	switch {
	case s <= stillStdGood:
		return 1.0, nil
	case s >= stillStdBad:
		return confFloor, nil
	default:
		// Linear interpolation between good and bad
		t := (s - stillStdGood) / (stillStdBad - stillStdGood)
		return clamp01(1.0 - 0.95*t), nil
	}
}

func printRanges(r scale.RangeConfig) {
	fmt.Printf("CAL_MIN_X=%.6f\n", r.X.Min)
	fmt.Printf("CAL_MAX_X=%.6f\n", r.X.Max)
	fmt.Printf("CAL_MIN_Y=%.6f\n", r.Y.Min)
	fmt.Printf("CAL_MAX_Y=%.6f\n", r.Y.Max)
	fmt.Printf("CAL_MIN_Z=%.6f\n", r.Z.Min)
	fmt.Printf("CAL_MAX_Z=%.6f\n", r.Z.Max)
	fmt.Printf("CAL_MIN_RX=%.6f\n", r.RX.Min)
	fmt.Printf("CAL_MAX_RX=%.6f\n", r.RX.Max)
	fmt.Printf("CAL_MIN_RY=%.6f\n", r.RY.Min)
	fmt.Printf("CAL_MAX_RY=%.6f\n", r.RY.Max)
	fmt.Printf("CAL_MIN_RZ=%.6f\n", r.RZ.Min)
	fmt.Printf("CAL_MAX_RZ=%.6f\n", r.RZ.Max)
}

func axisOf(r scale.RangeConfig, i int) scale.AxisRange {
	switch i {
	case 0:
		return r.X
	case 1:
		return r.Y
	case 2:
		return r.Z
	case 3:
		return r.RX
	case 4:
		return r.RY
	default:
		return r.RZ
	}
}

func waitEnter(in *bufio.Reader, prompt string) {
	fmt.Print(prompt)
	_, _ = in.ReadString('\n')
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
