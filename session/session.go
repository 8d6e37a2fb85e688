// Package session ties one controller to the value pipeline: select a
// device by name, take consistent snapshots of it, probe its raw
// travel, and stream change-filtered notifications.
package session

import (
	"strings"
	"sync"

	"github.com/relabs-tech/motion_controller/device"
	"github.com/relabs-tech/motion_controller/motion"
)

// Session is an open handle on one matched device. It is immutable
// after Create; the mutex only serializes poll+read cycles so a
// caller and a running notification loop cannot interleave halfway
// through a snapshot.
type Session struct {
	dev device.Device
	mu  sync.Mutex
}

// Create matches pattern against the attached devices and opens a
// session on the first hit. Matching is a case-insensitive substring
// test on the device name.
//
// Fails with *device.NotFoundError when nothing matches, and with
// *device.CapabilityError when the matched device does not expose all
// eight required components.
func Create(pattern string, devices []device.Device) (*Session, error) {
	var dev device.Device
	needle := strings.ToLower(pattern)
	for _, d := range devices {
		if strings.Contains(strings.ToLower(d.Name()), needle) {
			dev = d
			break
		}
	}
	if dev == nil {
		return nil, &device.NotFoundError{Pattern: pattern}
	}

	if !hasAllComponents(dev) {
		return nil, &device.CapabilityError{
			Name:     dev.Name(),
			Found:    dev.Components(),
			Required: device.Required(),
		}
	}

	return &Session{dev: dev}, nil
}

// Device returns the underlying device handle.
func (s *Session) Device() device.Device { return s.dev }

// ReadSnapshot polls the device once and reads all eight components
// from that single refresh, so axes and buttons are mutually
// consistent. Blocks for the duration of the device I/O. A failure
// comes back as a *device.DisconnectedError.
func (s *Session) ReadSnapshot() (motion.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readRaw()
}

// readRaw is ReadSnapshot without the lock; the caller must hold
// s.mu.
func (s *Session) readRaw() (motion.Snapshot, error) {
	if err := s.dev.Poll(); err != nil {
		return motion.Snapshot{}, s.disconnected(err)
	}

	x, err := s.dev.Read(device.ComponentX)
	if err != nil {
		return motion.Snapshot{}, s.disconnected(err)
	}
	y, err := s.dev.Read(device.ComponentY)
	if err != nil {
		return motion.Snapshot{}, s.disconnected(err)
	}
	z, err := s.dev.Read(device.ComponentZ)
	if err != nil {
		return motion.Snapshot{}, s.disconnected(err)
	}
	rx, err := s.dev.Read(device.ComponentRX)
	if err != nil {
		return motion.Snapshot{}, s.disconnected(err)
	}
	ry, err := s.dev.Read(device.ComponentRY)
	if err != nil {
		return motion.Snapshot{}, s.disconnected(err)
	}
	rz, err := s.dev.Read(device.ComponentRZ)
	if err != nil {
		return motion.Snapshot{}, s.disconnected(err)
	}
	b0, err := s.dev.Read(device.ComponentButton0)
	if err != nil {
		return motion.Snapshot{}, s.disconnected(err)
	}
	b1, err := s.dev.Read(device.ComponentButton1)
	if err != nil {
		return motion.Snapshot{}, s.disconnected(err)
	}

	return motion.Snapshot{
		X: x, Y: y, Z: z,
		RX: rx, RY: ry, RZ: rz,
		BtnLeft:  b0 > 0.5,
		BtnRight: b1 > 0.5,
	}, nil
}

func (s *Session) disconnected(err error) error {
	return &device.DisconnectedError{Name: s.dev.Name(), Err: err}
}

func hasAllComponents(d device.Device) bool {
	have := make(map[string]bool)
	for _, c := range d.Components() {
		have[c] = true
	}
	for _, c := range device.Required() {
		if !have[c] {
			return false
		}
	}
	return true
}
