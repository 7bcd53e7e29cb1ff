package register

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseValue parses one register element from text. Integers accept Go
// number syntax ("100", "-5", "0x1F"). Flag registers also accept bit names
// joined with "|" ("EnableMotor|EnableEncoder") and "None".
func (d Descriptor) ParseValue(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if d.Semantic.Kind == BitFlags {
		return d.parseFlags(s)
	}
	v, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid value %q", d.Name, s)
	}
	return v, d.checkRange(v)
}

func (d Descriptor) parseFlags(s string) (int64, error) {
	if strings.EqualFold(s, "None") {
		return 0, nil
	}
	var v int64
	for _, tok := range strings.Split(s, "|") {
		tok = strings.TrimSpace(tok)
		if n, err := strconv.ParseInt(tok, 0, 64); err == nil {
			v |= n
			continue
		}
		bit, ok := d.lookupBit(tok)
		if !ok {
			return 0, fmt.Errorf("%s: unknown flag %q", d.Name, tok)
		}
		v |= int64(bit.Mask)
	}
	return v, d.checkRange(v)
}

func (d Descriptor) lookupBit(name string) (Bit, bool) {
	for _, b := range d.Bits {
		if strings.EqualFold(b.Name, name) {
			return b, true
		}
	}
	return Bit{}, false
}

func (d Descriptor) checkRange(v int64) error {
	lo, hi := d.Wire.Range()
	if v < lo || v > hi {
		return fmt.Errorf("%w: %s value %d outside [%d, %d]", ErrValueOutOfRange, d.Name, v, lo, hi)
	}
	return nil
}

// FormatValue renders one register element: flag names for flag registers,
// decimal otherwise.
func (d Descriptor) FormatValue(v int64) string {
	if d.Semantic.Kind == BitFlags {
		return d.FormatFlags(uint32(v))
	}
	return strconv.FormatInt(v, 10)
}
