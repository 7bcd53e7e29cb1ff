package device

import (
	"errors"
	"fmt"

	"github.com/harp-tech/faststepper-go/pkg/harp"
)

// Client errors.
var (
	ErrUnexpectedDeviceIdentity = errors.New("unexpected device identity")
	ErrTimeout                  = errors.New("request timed out")
	ErrNotReady                 = errors.New("client is not ready")
)

// UnexpectedDeviceIdentityError is returned by Open when the device on the
// link reports a different WhoAmI than the client was built for.
type UnexpectedDeviceIdentityError struct {
	Expected uint16
	Actual   uint16
	Target   string
}

func (e *UnexpectedDeviceIdentityError) Error() string {
	target := e.Target
	if target == "" {
		target = "device"
	}
	return fmt.Sprintf("%s: expected WhoAmI %d, got %d", target, e.Expected, e.Actual)
}

// Is reports whether target is ErrUnexpectedDeviceIdentity.
func (e *UnexpectedDeviceIdentityError) Is(target error) bool {
	return target == ErrUnexpectedDeviceIdentity
}

// TransportError wraps a failure of the underlying link.
type TransportError struct {
	Op       string
	Register string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: transport: %v", e.Op, e.Register, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DeviceError is returned when the device answers with the error flag set,
// e.g. for a payload the firmware rejects.
type DeviceError struct {
	Address     uint8
	Register    string
	MessageType harp.MessageType
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("device rejected %s %s(%d)", e.MessageType.Base(), e.Register, e.Address)
}
