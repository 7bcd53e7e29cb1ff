package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/harp-tech/faststepper-go/pkg/register"
)

// RawDeviceDef represents a device register map loaded from YAML.
type RawDeviceDef struct {
	Device          string           `yaml:"device"`
	WhoAmI          uint16           `yaml:"whoAmI"`
	FirmwareVersion string           `yaml:"firmwareVersion"`
	HardwareTargets string           `yaml:"hardwareTargets"`
	Registers       []RawRegisterDef `yaml:"registers"`
	BitMasks        []RawBitMaskDef  `yaml:"bitMasks"`
}

// RawRegisterDef represents a single register.
type RawRegisterDef struct {
	Name        string `yaml:"name"`
	Address     uint8  `yaml:"address"`
	Type        string `yaml:"type"`     // "U8", "S16", "U16", "S32", "U32"
	Length      int    `yaml:"length"`   // defaults to 1
	Access      string `yaml:"access"`   // "Write", "Event" or "Read"
	MaskType    string `yaml:"maskType"` // Optional: references a bit mask name
	Description string `yaml:"description"`
}

// RawBitMaskDef represents a flag type over an unsigned wire type.
type RawBitMaskDef struct {
	Name        string      `yaml:"name"`
	Type        string      `yaml:"type"`
	Prefix      string      `yaml:"prefix"` // constant prefix, e.g. "Control" for ControlEnableMotor
	Description string      `yaml:"description"`
	Bits        []RawBitDef `yaml:"bits"`
}

// RawBitDef represents one named bit.
type RawBitDef struct {
	Name        string `yaml:"name"`
	Value       uint32 `yaml:"value"`
	Description string `yaml:"description"`
}

// LoadDeviceDef loads and validates a device definition from a YAML file.
func LoadDeviceDef(path string) (*RawDeviceDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	def, err := ParseDeviceDef(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return def, nil
}

// ParseDeviceDef parses and validates a device definition from YAML bytes.
func ParseDeviceDef(data []byte) (*RawDeviceDef, error) {
	var def RawDeviceDef
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("unmarshaling YAML: %w", err)
	}
	for i := range def.Registers {
		if def.Registers[i].Length == 0 {
			def.Registers[i].Length = 1
		}
	}
	if err := validate(&def); err != nil {
		return nil, err
	}
	return &def, nil
}

func validate(def *RawDeviceDef) error {
	if def.Device == "" {
		return fmt.Errorf("missing device name")
	}
	if def.WhoAmI == 0 {
		return fmt.Errorf("device %s: missing whoAmI", def.Device)
	}

	masks := make(map[string]RawBitMaskDef, len(def.BitMasks))
	for _, m := range def.BitMasks {
		w, err := register.ParseWireType(m.Type)
		if err != nil {
			return fmt.Errorf("bit mask %s: %w", m.Name, err)
		}
		if w.Signed() {
			return fmt.Errorf("bit mask %s: flags need an unsigned type, got %s", m.Name, m.Type)
		}
		if m.Prefix == "" {
			return fmt.Errorf("bit mask %s: missing prefix", m.Name)
		}
		if _, dup := masks[m.Name]; dup {
			return fmt.Errorf("bit mask %s defined twice", m.Name)
		}
		masks[m.Name] = m
	}

	// Build the schema once to reuse its address, width and overlap checks.
	descriptors := make([]register.Descriptor, 0, len(def.Registers))
	for _, r := range def.Registers {
		d, err := toDescriptor(r, masks)
		if err != nil {
			return err
		}
		descriptors = append(descriptors, d)
	}
	if _, err := register.NewSchema(def.Device, descriptors...); err != nil {
		return err
	}
	return nil
}

func toDescriptor(r RawRegisterDef, masks map[string]RawBitMaskDef) (register.Descriptor, error) {
	w, err := register.ParseWireType(r.Type)
	if err != nil {
		return register.Descriptor{}, fmt.Errorf("register %s: %w", r.Name, err)
	}
	access, err := parseAccess(r.Access)
	if err != nil {
		return register.Descriptor{}, fmt.Errorf("register %s: %w", r.Name, err)
	}
	d := register.Descriptor{
		Address:     r.Address,
		Name:        r.Name,
		Wire:        w,
		Semantic:    register.Scalar(w),
		Length:      r.Length,
		Access:      access,
		Description: r.Description,
	}
	if r.MaskType != "" {
		m, ok := masks[r.MaskType]
		if !ok {
			return register.Descriptor{}, fmt.Errorf("register %s: unknown mask type %q", r.Name, r.MaskType)
		}
		if m.Type != r.Type {
			return register.Descriptor{}, fmt.Errorf("register %s: mask %s is %s, register is %s", r.Name, m.Name, m.Type, r.Type)
		}
		d.Semantic = register.Flags(w)
		for _, b := range m.Bits {
			d.Bits = append(d.Bits, register.Bit{Name: b.Name, Mask: b.Value, Usage: b.Description})
		}
	}
	return d, nil
}

func parseAccess(s string) (register.Access, error) {
	switch s {
	case "Write":
		return register.ReadWrite, nil
	case "Read":
		return register.ReadOnly, nil
	case "Event":
		return register.EventOnly, nil
	default:
		return 0, fmt.Errorf("unknown access %q", s)
	}
}
