// Package motion holds the value types shared by every layer of the
// controller pipeline: the eight-component snapshot and the change
// predicate that gates notification delivery.
package motion

// Snapshot is one consistent set of all eight component readings taken
// within a single poll cycle. Axis values are dimensionless floats:
// raw snapshots carry whatever the hardware reports (nominally -1..1),
// scaled snapshots carry values mapped into the caller's target
// ranges. Buttons are true while pressed.
//
// Snapshots are plain values; a fresh one is produced on every read
// and nothing is shared between them.
type Snapshot struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	Z  float64 `json:"z"`
	RX float64 `json:"rx"`
	RY float64 `json:"ry"`
	RZ float64 `json:"rz"`

	BtnLeft  bool `json:"btn_left"`
	BtnRight bool `json:"btn_right"`
}

// AxisNames lists the six motion axes in canonical order, matching the
// order of Axes.
func AxisNames() [6]string {
	return [6]string{"x", "y", "z", "rx", "ry", "rz"}
}

// Axes returns the six axis values in canonical order.
func (s Snapshot) Axes() [6]float64 {
	return [6]float64{s.X, s.Y, s.Z, s.RX, s.RY, s.RZ}
}
