// Package scale maps raw controller readings into caller-chosen
// output ranges via per-axis affine transforms.
package scale

import (
	"fmt"

	"github.com/relabs-tech/motion_controller/motion"
)

// DefaultRange is the range assumed for any axis left as the zero
// value in a RangeConfig: the nominal -1..1 travel of the supported
// pucks, with 0 at rest.
var DefaultRange = AxisRange{Min: -1, Max: 1}

// AxisRange bounds one axis. The zero value means "unset" and resolves
// to DefaultRange wherever a RangeConfig is consumed.
type AxisRange struct {
	Min float64
	Max float64
}

func (r AxisRange) orDefault() AxisRange {
	if r == (AxisRange{}) {
		return DefaultRange
	}
	return r
}

// RangeConfig holds one range per motion axis. It is used both for
// target ranges (the output bounds the caller wants) and calibrated
// ranges (the raw bounds the hardware actually reaches). Axes left at
// the zero value resolve to DefaultRange.
type RangeConfig struct {
	X  AxisRange
	Y  AxisRange
	Z  AxisRange
	RX AxisRange
	RY AxisRange
	RZ AxisRange
}

// DegenerateRangeError reports a calibrated axis whose minimum and
// maximum coincide, which leaves the scale factor undefined.
type DegenerateRangeError struct {
	Axis  string
	Value float64
}

func (e *DegenerateRangeError) Error() string {
	return fmt.Sprintf("calibrated range for axis %q is degenerate: min == max == %g", e.Axis, e.Value)
}

// axisMap is the precomputed affine map for one axis:
// scaled = offset + raw*gain.
type axisMap struct {
	gain   float64
	offset float64
}

func newAxisMap(axis string, target, calibrated AxisRange) (axisMap, error) {
	t := target.orDefault()
	c := calibrated.orDefault()
	if c.Min == c.Max {
		return axisMap{}, &DegenerateRangeError{Axis: axis, Value: c.Min}
	}
	gain := (t.Max - t.Min) / (c.Max - c.Min)
	return axisMap{gain: gain, offset: t.Min - c.Min*gain}, nil
}

func (m axisMap) apply(raw float64) float64 {
	return m.offset + raw*m.gain
}

// Scaler maps raw snapshots into their target ranges. Built once by
// NewScaler, immutable afterwards, and safe to share across
// goroutines.
type Scaler struct {
	x, y, z, rx, ry, rz axisMap
}

// NewScaler resolves both configs (zero-value axes become
// DefaultRange) and precomputes one affine map per axis:
//
//	scaled = t.Min + ((raw - c.Min) / (c.Max - c.Min)) * (t.Max - t.Min)
//
// Construction fails with *DegenerateRangeError if any resolved
// calibrated axis has zero width. With both configs left at their zero
// values the scaler is the identity on every axis.
func NewScaler(target, calibrated RangeConfig) (*Scaler, error) {
	var s Scaler
	var err error
	if s.x, err = newAxisMap("x", target.X, calibrated.X); err != nil {
		return nil, err
	}
	if s.y, err = newAxisMap("y", target.Y, calibrated.Y); err != nil {
		return nil, err
	}
	if s.z, err = newAxisMap("z", target.Z, calibrated.Z); err != nil {
		return nil, err
	}
	if s.rx, err = newAxisMap("rx", target.RX, calibrated.RX); err != nil {
		return nil, err
	}
	if s.ry, err = newAxisMap("ry", target.RY, calibrated.RY); err != nil {
		return nil, err
	}
	if s.rz, err = newAxisMap("rz", target.RZ, calibrated.RZ); err != nil {
		return nil, err
	}
	return &s, nil
}

// Apply maps the six axes of a snapshot into their target ranges and
// copies the button states verbatim. The map is not clamped: raw
// values outside the calibrated range land outside the target range.
func (s *Scaler) Apply(in motion.Snapshot) motion.Snapshot {
	return motion.Snapshot{
		X:        s.x.apply(in.X),
		Y:        s.y.apply(in.Y),
		Z:        s.z.apply(in.Z),
		RX:       s.rx.apply(in.RX),
		RY:       s.ry.apply(in.RY),
		RZ:       s.rz.apply(in.RZ),
		BtnLeft:  in.BtnLeft,
		BtnRight: in.BtnRight,
	}
}
