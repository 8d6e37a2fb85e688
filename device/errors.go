package device

import (
	"fmt"
	"strings"
)

// NotFoundError means no attached device name matched the selection
// pattern.
type NotFoundError struct {
	Pattern string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no device matching %q", e.Pattern)
}

// CapabilityError means a matched device does not expose every
// required component. The message enumerates what was found against
// what is required.
type CapabilityError struct {
	Name     string
	Found    []string
	Required []string
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("device %q is missing required components: found [%s], required [%s]",
		e.Name, strings.Join(e.Found, " "), strings.Join(e.Required, " "))
}

// DisconnectedError means a poll or read failed on a device that was
// working, typically because it was unplugged. It is terminal for the
// session that hit it.
type DisconnectedError struct {
	Name string
	Err  error
}

func (e *DisconnectedError) Error() string {
	return fmt.Sprintf("device %q disconnected: %v", e.Name, e.Err)
}

func (e *DisconnectedError) Unwrap() error { return e.Err }
