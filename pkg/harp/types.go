package harp

import "fmt"

// MessageType is the protocol-level intent of a frame.
type MessageType uint8

const (
	// Read requests the current value of a register, or replies to such a request.
	Read MessageType = 0x01
	// Write requests a register update, or acknowledges one.
	Write MessageType = 0x02
	// Event is an unsolicited notification from the device.
	Event MessageType = 0x03

	// ErrorFlag is set on replies when the device rejected the request.
	ErrorFlag MessageType = 0x08
)

// Base returns the message type without the error flag.
func (t MessageType) Base() MessageType {
	return t &^ ErrorFlag
}

// IsError reports whether the error flag is set.
func (t MessageType) IsError() bool {
	return t&ErrorFlag != 0
}

// IsValid reports whether the base type is Read, Write or Event.
func (t MessageType) IsValid() bool {
	switch t.Base() {
	case Read, Write, Event:
		return t&^(ErrorFlag|0x03) == 0
	default:
		return false
	}
}

// String returns the message type name.
func (t MessageType) String() string {
	var name string
	switch t.Base() {
	case Read:
		name = "READ"
	case Write:
		name = "WRITE"
	case Event:
		name = "EVENT"
	default:
		return fmt.Sprintf("UNKNOWN(0x%02X)", uint8(t))
	}
	if t.IsError() {
		return name + "_ERROR"
	}
	return name
}

// PayloadType describes how payload bytes are laid out.
// The low nibble is the element size in bytes; the high bits flag
// signedness (0x80) and floating point (0x40).
type PayloadType uint8

const (
	U8    PayloadType = 0x01
	S8    PayloadType = 0x81
	U16   PayloadType = 0x02
	S16   PayloadType = 0x82
	U32   PayloadType = 0x04
	S32   PayloadType = 0x84
	U64   PayloadType = 0x08
	S64   PayloadType = 0x88
	Float PayloadType = 0x44

	// TimestampFlag marks frames that carry a timestamp. It is never part of
	// the PayloadType stored in a Message; see Message.HasTimestamp.
	TimestampFlag PayloadType = 0x10
)

const (
	payloadSignedFlag PayloadType = 0x80
	payloadFloatFlag  PayloadType = 0x40
	payloadSizeMask   PayloadType = 0x0F
)

// Size returns the element size in bytes.
func (p PayloadType) Size() int {
	return int(p & payloadSizeMask)
}

// IsSigned reports whether elements are two's-complement signed integers.
func (p PayloadType) IsSigned() bool {
	return p&payloadSignedFlag != 0
}

// IsFloat reports whether elements are IEEE 754 single precision values.
func (p PayloadType) IsFloat() bool {
	return p&payloadFloatFlag != 0
}

// IsValid reports whether p is one of the defined payload types.
func (p PayloadType) IsValid() bool {
	switch p {
	case U8, S8, U16, S16, U32, S32, U64, S64, Float:
		return true
	default:
		return false
	}
}

// String returns the payload type name.
func (p PayloadType) String() string {
	switch p {
	case U8:
		return "U8"
	case S8:
		return "S8"
	case U16:
		return "U16"
	case S16:
		return "S16"
	case U32:
		return "U32"
	case S32:
		return "S32"
	case U64:
		return "U64"
	case S64:
		return "S64"
	case Float:
		return "Float"
	default:
		return fmt.Sprintf("UNKNOWN(0x%02X)", uint8(p))
	}
}
