// Package device defines the contract a six-axis controller must
// satisfy and the identifiers of the components it exposes. Concrete
// backends live in the subpackages: sim (no hardware needed),
// magellan (serial pucks) and analog (the ADS1115 rig).
package device

// Component identifiers. Every controller exposes six motion axes and
// two buttons under these names. Axis reads are dimensionless floats,
// nominally -1..1 with 0 at rest; button reads are 0 or 1.
const (
	ComponentX  = "x"
	ComponentY  = "y"
	ComponentZ  = "z"
	ComponentRX = "rx"
	ComponentRY = "ry"
	ComponentRZ = "rz"

	ComponentButton0 = "button-0"
	ComponentButton1 = "button-1"
)

// Required returns the component set a controller must expose, in
// canonical order.
func Required() []string {
	return []string{
		ComponentX, ComponentY, ComponentZ,
		ComponentRX, ComponentRY, ComponentRZ,
		ComponentButton0, ComponentButton1,
	}
}

// Device is one attached controller.
//
// Poll refreshes the device's internal cache from hardware once and
// may block briefly on I/O. Read returns the most recently polled
// value for one component without touching the hardware again, so a
// Poll followed by Reads of every component yields a mutually
// consistent snapshot.
type Device interface {
	Name() string
	Components() []string
	Poll() error
	Read(component string) (float64, error)
}
