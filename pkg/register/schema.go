package register

import (
	"fmt"
	"iter"
	"slices"
)

// Schema is an immutable address -> descriptor table. It is safe for
// concurrent use.
type Schema struct {
	name      string
	byAddress map[uint8]Descriptor
	addresses []uint8
}

// NewSchema validates the descriptors and builds a schema. Addresses must be
// unique and every descriptor must pass Validate.
func NewSchema(name string, descriptors ...Descriptor) (*Schema, error) {
	s := &Schema{
		name:      name,
		byAddress: make(map[uint8]Descriptor, len(descriptors)),
	}
	names := make(map[string]uint8, len(descriptors))
	for _, d := range descriptors {
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("schema %s: %w", name, err)
		}
		if prev, ok := s.byAddress[d.Address]; ok {
			return nil, fmt.Errorf("schema %s: address %d used by both %s and %s", name, d.Address, prev.Name, d.Name)
		}
		if addr, ok := names[d.Name]; ok {
			return nil, fmt.Errorf("schema %s: name %s used by both %d and %d", name, d.Name, addr, d.Address)
		}
		d.Bits = slices.Clone(d.Bits)
		s.byAddress[d.Address] = d
		names[d.Name] = d.Address
		s.addresses = append(s.addresses, d.Address)
	}
	slices.Sort(s.addresses)
	return s, nil
}

// MustSchema is like NewSchema but panics on error. It is meant for
// package-level tables.
func MustSchema(name string, descriptors ...Descriptor) *Schema {
	s, err := NewSchema(name, descriptors...)
	if err != nil {
		panic(err)
	}
	return s
}

// Merge builds a schema holding the registers of all given schemas.
func Merge(name string, schemas ...*Schema) (*Schema, error) {
	var all []Descriptor
	for _, s := range schemas {
		all = append(all, s.Descriptors()...)
	}
	return NewSchema(name, all...)
}

// Name returns the schema name.
func (s *Schema) Name() string { return s.name }

// Len returns the number of registers.
func (s *Schema) Len() int { return len(s.addresses) }

// Lookup returns the descriptor registered at addr.
func (s *Schema) Lookup(addr uint8) (Descriptor, error) {
	d, ok := s.byAddress[addr]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: address %d in %s", ErrUnknownRegister, addr, s.name)
	}
	d.Bits = slices.Clone(d.Bits)
	return d, nil
}

// LookupName returns the descriptor with the given register name.
func (s *Schema) LookupName(name string) (Descriptor, error) {
	for _, addr := range s.addresses {
		if d := s.byAddress[addr]; d.Name == name {
			return s.Lookup(addr)
		}
	}
	return Descriptor{}, fmt.Errorf("%w: %q in %s", ErrUnknownRegister, name, s.name)
}

// Contains reports whether addr is defined.
func (s *Schema) Contains(addr uint8) bool {
	_, ok := s.byAddress[addr]
	return ok
}

// Addresses returns every defined address in ascending order.
func (s *Schema) Addresses() []uint8 {
	return slices.Clone(s.addresses)
}

// Descriptors returns every descriptor in address order.
func (s *Schema) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(s.addresses))
	for d := range s.All() {
		out = append(out, d)
	}
	return out
}

// All iterates the descriptors in address order.
func (s *Schema) All() iter.Seq[Descriptor] {
	return func(yield func(Descriptor) bool) {
		for _, addr := range s.addresses {
			d := s.byAddress[addr]
			d.Bits = slices.Clone(d.Bits)
			if !yield(d) {
				return
			}
		}
	}
}
