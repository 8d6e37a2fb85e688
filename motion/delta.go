package motion

import "math"

// DefaultTolerance is the per-axis change below which two snapshots
// are considered the same reading. It is calibrated to sit just above
// the idle jitter of the supported pucks.
const DefaultTolerance = 0.01

// IsDifferent reports whether two snapshots differ enough to be worth
// delivering: any axis moved by strictly more than tolerance, or any
// button changed state. A difference of exactly tolerance does not
// count. Symmetric in a and b.
func IsDifferent(a, b Snapshot, tolerance float64) bool {
	if a.BtnLeft != b.BtnLeft || a.BtnRight != b.BtnRight {
		return true
	}
	av, bv := a.Axes(), b.Axes()
	for i := range av {
		if math.Abs(av[i]-bv[i]) > tolerance {
			return true
		}
	}
	return false
}
