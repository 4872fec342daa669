package soap

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// InvalidArgumentError is a caller-supplied value that violates an action
// precondition. No request is sent.
type InvalidArgumentError struct {
	Op     string
	Field  string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("%s: invalid %s: %s", e.Op, e.Field, e.Reason)
}

// TransportError is a network-level failure: the device could not be reached,
// the call timed out, or the HTTP exchange was malformed. Status is the HTTP
// status code when a response was received, 0 otherwise.
type TransportError struct {
	Action string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("sonos action %s failed: http %d: %v", e.Action, e.Status, e.Err)
	}
	return fmt.Sprintf("sonos action %s unreachable: %v", e.Action, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the failure was a deadline or network timeout.
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// DeviceFault is a well-formed UPnP fault returned by the device. Code and
// Description are passed through verbatim.
type DeviceFault struct {
	Action      string
	Code        int
	Description string
	Detail      []byte
}

func (e *DeviceFault) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("sonos action %s rejected: code %d", e.Action, e.Code)
	}
	return fmt.Sprintf("sonos action %s rejected: code %d (%s)", e.Action, e.Code, e.Description)
}

// DecodeError is a success response that lacked a required field or carried a
// value that could not be converted.
type DecodeError struct {
	Action string
	Field  string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("sonos action %s: decode %s: %v", e.Action, e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ErrMissingField is wrapped by DecodeError when a required field is absent.
var ErrMissingField = errors.New("required field missing")
