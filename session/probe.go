package session

import (
	"math"
	"time"

	"github.com/relabs-tech/motion_controller/scale"
)

// probeHz is the sampling frequency of the calibration probe
// (best-effort; the per-iteration delay is fixed, device I/O adds on
// top).
const probeHz = 100

// Probe watches the device for dur while the user drives every axis
// through its full travel, and reports the observed per-axis extremes
// as a calibrated-range config for building a scaler.
//
// Minima and maxima are seeded at zero, so the discovered range always
// brackets the rest position even on an axis pushed only one way. Axes
// that never move come back as the zero AxisRange, which scale treats
// as unset. Buttons are ignored.
//
// Probe runs to completion and returns synchronously; it is a
// pre-flight diagnostic, not part of the notification path. A device
// failure aborts it with a *device.DisconnectedError.
func (s *Session) Probe(dur time.Duration) (scale.RangeConfig, error) {
	targetPeriod := time.Second / time.Duration(probeHz)
	deadline := time.Now().Add(dur)

	var mins, maxs [6]float64
	for time.Now().Before(deadline) {
		snap, err := s.ReadSnapshot()
		if err != nil {
			return scale.RangeConfig{}, err
		}
		for i, v := range snap.Axes() {
			mins[i] = math.Min(mins[i], v)
			maxs[i] = math.Max(maxs[i], v)
		}
		time.Sleep(targetPeriod)
	}

	return scale.RangeConfig{
		X:  scale.AxisRange{Min: mins[0], Max: maxs[0]},
		Y:  scale.AxisRange{Min: mins[1], Max: maxs[1]},
		Z:  scale.AxisRange{Min: mins[2], Max: maxs[2]},
		RX: scale.AxisRange{Min: mins[3], Max: maxs[3]},
		RY: scale.AxisRange{Min: mins[4], Max: maxs[4]},
		RZ: scale.AxisRange{Min: mins[5], Max: maxs[5]},
	}, nil
}
