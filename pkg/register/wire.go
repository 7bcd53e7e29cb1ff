package register

import (
	"fmt"

	"github.com/harp-tech/faststepper-go/pkg/harp"
)

// WireType is the on-wire encoding of a single payload element.
type WireType uint8

const (
	U8 WireType = iota + 1
	S16
	U16
	S32
	U32
)

var wireTypePayload = map[WireType]harp.PayloadType{
	U8:  harp.U8,
	S16: harp.S16,
	U16: harp.U16,
	S32: harp.S32,
	U32: harp.U32,
}

// PayloadType returns the Harp payload type carrying this wire type.
func (w WireType) PayloadType() harp.PayloadType {
	return wireTypePayload[w]
}

// Size returns the element size in bytes.
func (w WireType) Size() int {
	return w.PayloadType().Size()
}

// Bits returns the element width in bits.
func (w WireType) Bits() int {
	return w.Size() * 8
}

// Signed reports whether elements are two's-complement signed.
func (w WireType) Signed() bool {
	return w.PayloadType().IsSigned()
}

// IsValid reports whether w is a defined wire type.
func (w WireType) IsValid() bool {
	_, ok := wireTypePayload[w]
	return ok
}

// Range returns the smallest and largest representable element values.
func (w WireType) Range() (lo, hi int64) {
	bits := w.Bits()
	if w.Signed() {
		return -(1 << (bits - 1)), 1<<(bits-1) - 1
	}
	return 0, 1<<bits - 1
}

// String returns the wire type name.
func (w WireType) String() string {
	switch w {
	case U8:
		return "U8"
	case S16:
		return "S16"
	case U16:
		return "U16"
	case S32:
		return "S32"
	case U32:
		return "U32"
	default:
		return fmt.Sprintf("WireType(%d)", uint8(w))
	}
}

// ParseWireType parses a wire type name such as "U16" or "S32".
func ParseWireType(s string) (WireType, error) {
	for w := U8; w <= U32; w++ {
		if w.String() == s {
			return w, nil
		}
	}
	return 0, fmt.Errorf("unknown wire type %q", s)
}
