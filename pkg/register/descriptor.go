package register

import (
	"fmt"
	"strings"
)

// Kind distinguishes how a register value is consumed.
type Kind uint8

const (
	// RawInteger values are plain numbers.
	RawInteger Kind = iota
	// BitFlags values are sets of independent named bits.
	BitFlags
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case RawInteger:
		return "integer"
	case BitFlags:
		return "flags"
	default:
		return "unknown"
	}
}

// Semantic describes the value type a register decodes to.
type Semantic struct {
	Kind   Kind
	Width  int // bits
	Signed bool
}

// Scalar returns the semantic type of a plain number of the given wire shape.
func Scalar(w WireType) Semantic {
	return Semantic{Kind: RawInteger, Width: w.Bits(), Signed: w.Signed()}
}

// Flags returns the semantic type of a bit set over the given wire shape.
func Flags(w WireType) Semantic {
	return Semantic{Kind: BitFlags, Width: w.Bits()}
}

// String returns e.g. "integer(s32)" or "flags(16)".
func (s Semantic) String() string {
	if s.Kind == BitFlags {
		return fmt.Sprintf("flags(%d)", s.Width)
	}
	sign := "u"
	if s.Signed {
		sign = "s"
	}
	return fmt.Sprintf("integer(%s%d)", sign, s.Width)
}

// Access describes which message types a register accepts from the host.
type Access uint8

const (
	// ReadWrite registers accept both read and write requests.
	ReadWrite Access = iota
	// ReadOnly registers accept read requests only.
	ReadOnly
	// EventOnly registers are reported by the device; hosts may read them but never write.
	EventOnly
)

// Writable reports whether the host may write the register.
func (a Access) Writable() bool {
	return a == ReadWrite
}

// String returns the access name.
func (a Access) String() string {
	switch a {
	case ReadWrite:
		return "read-write"
	case ReadOnly:
		return "read-only"
	case EventOnly:
		return "event"
	default:
		return "unknown"
	}
}

// Bit names one flag of a BitFlags register.
type Bit struct {
	Name  string
	Mask  uint32
	Usage string
}

// Descriptor is the static definition of one register.
type Descriptor struct {
	Address     uint8
	Name        string
	Wire        WireType
	Semantic    Semantic
	Length      int // wire elements per payload
	Access      Access
	Description string
	Bits        []Bit
}

// PayloadSize returns the expected payload size in bytes.
func (d Descriptor) PayloadSize() int {
	return d.Wire.Size() * d.Length
}

// Validate checks that the wire and semantic shapes agree.
func (d Descriptor) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("register %d: missing name", d.Address)
	}
	if !d.Wire.IsValid() {
		return fmt.Errorf("register %s: invalid wire type %d", d.Name, d.Wire)
	}
	if d.Length < 1 {
		return fmt.Errorf("register %s: length %d < 1", d.Name, d.Length)
	}
	if d.Semantic.Width != d.Wire.Bits() {
		return fmt.Errorf("register %s: semantic width %d does not match %s", d.Name, d.Semantic.Width, d.Wire)
	}
	switch d.Semantic.Kind {
	case RawInteger:
		if d.Semantic.Signed != d.Wire.Signed() {
			return fmt.Errorf("register %s: semantic signedness does not match %s", d.Name, d.Wire)
		}
		if len(d.Bits) > 0 {
			return fmt.Errorf("register %s: integer register declares flag bits", d.Name)
		}
	case BitFlags:
		if d.Wire.Signed() || d.Semantic.Signed {
			return fmt.Errorf("register %s: flags require an unsigned wire type, got %s", d.Name, d.Wire)
		}
		_, hi := d.Wire.Range()
		var seen uint32
		for _, b := range d.Bits {
			if b.Mask == 0 || int64(b.Mask) > hi {
				return fmt.Errorf("register %s: bit %s (0x%X) outside %d-bit width", d.Name, b.Name, b.Mask, d.Semantic.Width)
			}
			if seen&b.Mask != 0 {
				return fmt.Errorf("register %s: bit %s overlaps another bit", d.Name, b.Name)
			}
			seen |= b.Mask
		}
	default:
		return fmt.Errorf("register %s: unknown semantic kind %d", d.Name, d.Semantic.Kind)
	}
	return nil
}

// FormatFlags renders v using the descriptor's bit names, e.g. "EnableMotor|EnableEncoder".
// Bits without a name are appended in hex. Zero renders as "None".
func (d Descriptor) FormatFlags(v uint32) string {
	return formatBits(v, d.Bits)
}

// String returns "Name(address)".
func (d Descriptor) String() string {
	return fmt.Sprintf("%s(%d)", d.Name, d.Address)
}

func formatBits(v uint32, bits []Bit) string {
	if v == 0 {
		return "None"
	}
	var parts []string
	rest := v
	for _, b := range bits {
		if v&b.Mask == b.Mask {
			parts = append(parts, b.Name)
			rest &^= b.Mask
		}
	}
	if rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%X", rest))
	}
	return strings.Join(parts, "|")
}
