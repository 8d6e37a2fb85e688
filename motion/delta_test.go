package motion

import "testing"

func TestIsDifferentSameSnapshot(t *testing.T) {
	snaps := []Snapshot{
		{},
		{X: 0.5, Y: -0.3, RZ: 0.9, BtnLeft: true},
		{X: -1, Y: 1, Z: 0.25, RX: -0.25, RY: 0.125, RZ: -0.125, BtnLeft: true, BtnRight: true},
	}
	for _, tol := range []float64{0, 0.01, 0.5, 10} {
		for _, s := range snaps {
			if IsDifferent(s, s, tol) {
				t.Errorf("IsDifferent(s, s, %v) = true for %+v", tol, s)
			}
		}
	}
}

func TestIsDifferentAxisThreshold(t *testing.T) {
	tol := 0.01
	base := Snapshot{}

	// A delta of exactly the tolerance is not a change. Measured from
	// zero so the subtraction yields exactly tol.
	at := base
	at.X = tol
	if IsDifferent(base, at, tol) {
		t.Errorf("delta of exactly tolerance reported as different")
	}

	// Just beyond it is.
	over := base
	over.X = 0.011
	if !IsDifferent(base, over, tol) {
		t.Errorf("delta beyond tolerance not reported as different")
	}

	// Adding tol to a nonzero baseline rounds the delta a hair past
	// tol; strictly greater still counts as a change.
	off := Snapshot{X: 0.5}
	bumped := off
	bumped.X = off.X + tol
	if !IsDifferent(off, bumped, tol) {
		t.Errorf("delta just past tolerance not reported as different")
	}
}

func TestIsDifferentEachAxis(t *testing.T) {
	cases := []struct {
		name string
		mod  func(*Snapshot)
	}{
		{"x", func(s *Snapshot) { s.X += 0.02 }},
		{"y", func(s *Snapshot) { s.Y += 0.02 }},
		{"z", func(s *Snapshot) { s.Z += 0.02 }},
		{"rx", func(s *Snapshot) { s.RX += 0.02 }},
		{"ry", func(s *Snapshot) { s.RY += 0.02 }},
		{"rz", func(s *Snapshot) { s.RZ += 0.02 }},
	}
	for _, tc := range cases {
		a := Snapshot{X: 0.1, Y: 0.2, Z: 0.3, RX: 0.4, RY: 0.5, RZ: 0.6}
		b := a
		tc.mod(&b)
		if !IsDifferent(a, b, DefaultTolerance) {
			t.Errorf("axis %s: change of 0.02 not detected at default tolerance", tc.name)
		}
	}
}

func TestIsDifferentSymmetric(t *testing.T) {
	a := Snapshot{X: 0.1, RY: -0.7}
	b := Snapshot{X: 0.3, RY: -0.7, BtnRight: true}
	for _, tol := range []float64{0, 0.01, 0.1, 1} {
		if IsDifferent(a, b, tol) != IsDifferent(b, a, tol) {
			t.Errorf("IsDifferent not symmetric at tolerance %v", tol)
		}
	}
}

func TestIsDifferentButtons(t *testing.T) {
	a := Snapshot{X: 0.5}
	b := a
	b.BtnLeft = true
	// A button flip alone is always a change, however large the
	// tolerance.
	if !IsDifferent(a, b, 100) {
		t.Errorf("left button flip not detected")
	}
	c := a
	c.BtnRight = true
	if !IsDifferent(a, c, 100) {
		t.Errorf("right button flip not detected")
	}
}

func TestAxesOrder(t *testing.T) {
	s := Snapshot{X: 1, Y: 2, Z: 3, RX: 4, RY: 5, RZ: 6}
	got := s.Axes()
	want := [6]float64{1, 2, 3, 4, 5, 6}
	if got != want {
		t.Errorf("Axes() = %v, want %v", got, want)
	}
	names := AxisNames()
	if names != [6]string{"x", "y", "z", "rx", "ry", "rz"} {
		t.Errorf("AxisNames() = %v", names)
	}
}
