package session

import (
	"errors"
	"sync"
	"testing"

	"github.com/relabs-tech/motion_controller/device"
)

// fakeDevice is a scriptable controller for tests. Poll pops the next
// state off the queue when one is scripted, otherwise the current
// values stay; Read serves the values of the last Poll.
type fakeDevice struct {
	name  string
	comps []string

	mu           sync.Mutex
	values       map[string]float64
	queue        []map[string]float64
	polls        int
	reads        int
	pollErr      error // returned by Poll once polls >= pollErrAfter
	pollErrAfter int
	readErr      error // returned by every Read while set
}

func newFakeDevice(name string) *fakeDevice {
	return &fakeDevice{
		name:   name,
		comps:  device.Required(),
		values: map[string]float64{},
	}
}

func (f *fakeDevice) Name() string { return f.name }

func (f *fakeDevice) Components() []string { return f.comps }

func (f *fakeDevice) Poll() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.polls++
	if f.pollErr != nil && f.polls >= f.pollErrAfter {
		return f.pollErr
	}
	if len(f.queue) > 0 {
		f.values = f.queue[0]
		f.queue = f.queue[1:]
	}
	return nil
}

func (f *fakeDevice) Read(component string) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return 0, f.readErr
	}
	f.reads++
	return f.values[component], nil
}

func (f *fakeDevice) set(component string, v float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[component] = v
}

func (f *fakeDevice) failPollsFrom(n int, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pollErr = err
	f.pollErrAfter = n
}

func (f *fakeDevice) pollCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.polls
}

func TestCreateMatching(t *testing.T) {
	serial := newFakeDevice("Magellan SpaceMouse (/dev/ttyUSB0)")
	puck := newFakeDevice("Simulated 6DOF Puck")
	devices := []device.Device{serial, puck}

	ses, err := Create("MAGELLAN", devices)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if ses.Device() != device.Device(serial) {
		t.Errorf("pattern MAGELLAN matched %q", ses.Device().Name())
	}

	ses, err = Create("6dof", devices)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if ses.Device() != device.Device(puck) {
		t.Errorf("pattern 6dof matched %q", ses.Device().Name())
	}

	// First match wins; both names contain "s".
	ses, err = Create("s", devices)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if ses.Device() != device.Device(serial) {
		t.Errorf("pattern s matched %q, want the first device", ses.Device().Name())
	}

	// The empty pattern is a substring of everything.
	ses, err = Create("", devices)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if ses.Device() != device.Device(serial) {
		t.Errorf("empty pattern matched %q, want the first device", ses.Device().Name())
	}
}

func TestCreateNotFound(t *testing.T) {
	devices := []device.Device{newFakeDevice("Simulated 6DOF Puck")}
	_, err := Create("spaceball", devices)
	if err == nil {
		t.Fatalf("Create matched nothing but did not fail")
	}
	var notFound *device.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error is %T, want *device.NotFoundError", err)
	}
	if notFound.Pattern != "spaceball" {
		t.Errorf("error carries pattern %q", notFound.Pattern)
	}
}

func TestCreateCapabilityMismatch(t *testing.T) {
	crippled := newFakeDevice("Half a Puck")
	crippled.comps = []string{"x", "y", "z", "rx", "ry", "rz"} // no buttons

	_, err := Create("puck", []device.Device{crippled})
	if err == nil {
		t.Fatalf("Create accepted a device without buttons")
	}
	var capErr *device.CapabilityError
	if !errors.As(err, &capErr) {
		t.Fatalf("error is %T, want *device.CapabilityError", err)
	}
	if len(capErr.Found) != 6 || len(capErr.Required) != 8 {
		t.Errorf("error enumerates %d found / %d required, want 6 / 8", len(capErr.Found), len(capErr.Required))
	}
}

func TestReadSnapshotConsistency(t *testing.T) {
	f := newFakeDevice("Test Puck")
	f.queue = []map[string]float64{
		{"x": 0.1, "y": 0.2, "z": 0.3, "rx": 0.4, "ry": 0.5, "rz": 0.6, "button-0": 1},
		{"x": -0.1, "button-1": 1},
	}

	ses, err := Create("test", []device.Device{f})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	snap, err := ses.ReadSnapshot()
	if err != nil {
		t.Fatalf("ReadSnapshot: %v", err)
	}
	if snap.X != 0.1 || snap.Y != 0.2 || snap.Z != 0.3 || snap.RX != 0.4 || snap.RY != 0.5 || snap.RZ != 0.6 {
		t.Errorf("first snapshot axes: %+v", snap)
	}
	if !snap.BtnLeft || snap.BtnRight {
		t.Errorf("first snapshot buttons: %+v", snap)
	}
	if f.polls != 1 || f.reads != 8 {
		t.Errorf("snapshot cost %d polls / %d reads, want 1 / 8", f.polls, f.reads)
	}

	snap, err = ses.ReadSnapshot()
	if err != nil {
		t.Fatalf("ReadSnapshot: %v", err)
	}
	if snap.X != -0.1 || snap.BtnLeft || !snap.BtnRight {
		t.Errorf("second snapshot: %+v", snap)
	}
}

func TestReadSnapshotDisconnect(t *testing.T) {
	f := newFakeDevice("Test Puck")
	cause := errors.New("usb gone")
	f.failPollsFrom(1, cause)

	ses, err := Create("test", []device.Device{f})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = ses.ReadSnapshot()
	var disc *device.DisconnectedError
	if !errors.As(err, &disc) {
		t.Fatalf("error is %T, want *device.DisconnectedError", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("disconnect error does not wrap the cause")
	}
	if disc.Name != "Test Puck" {
		t.Errorf("disconnect error names %q", disc.Name)
	}
}

func TestReadSnapshotReadFailure(t *testing.T) {
	f := newFakeDevice("Test Puck")
	f.readErr = errors.New("i2c timeout")

	ses, err := Create("test", []device.Device{f})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = ses.ReadSnapshot()
	var disc *device.DisconnectedError
	if !errors.As(err, &disc) {
		t.Fatalf("error is %T, want *device.DisconnectedError", err)
	}
}
