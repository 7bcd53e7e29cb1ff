package register

import "errors"

// Schema and codec errors. They indicate a caller used the wrong address or a
// malformed message reached the codec, and are never retried.
var (
	ErrUnknownRegister     = errors.New("unknown register")
	ErrPayloadSizeMismatch = errors.New("payload does not match register wire type")
	ErrMissingTimestamp    = errors.New("message has no timestamp")
	ErrAddressMismatch     = errors.New("message addressed to another register")
	ErrReadOnly            = errors.New("register is not writable")
	ErrValueOutOfRange     = errors.New("value out of range for register wire type")
	ErrTypeMismatch        = errors.New("Go type does not match register wire type")
)
