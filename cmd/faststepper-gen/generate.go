package main

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/harp-tech/faststepper-go/pkg/register"
)

// GenerateRegisters renders the register table, flag types and typed
// registers of the register package.
func GenerateRegisters(def *RawDeviceDef) (string, error) {
	regs, err := registerDataFor(def, "")
	if err != nil {
		return "", err
	}
	var b strings.Builder
	renderTemplate(&b, "registerFile", registerFileData{
		Device:    def.Device,
		WhoAmI:    def.WhoAmI,
		Firmware:  def.FirmwareVersion,
		Registers: regs,
		BitMasks:  def.BitMasks,
	})
	return b.String(), nil
}

// GenerateClient renders the typed Client accessors of the device package.
// Event registers get read accessors only.
func GenerateClient(def *RawDeviceDef, registerImport string) (string, error) {
	regs, err := registerDataFor(def, "register.")
	if err != nil {
		return "", err
	}
	var b strings.Builder
	renderTemplate(&b, "clientFile", clientFileData{
		Device:         def.Device,
		RegisterImport: registerImport,
		Registers:      regs,
	})
	return b.String(), nil
}

func registerDataFor(def *RawDeviceDef, qualifier string) ([]registerData, error) {
	out := make([]registerData, 0, len(def.Registers))
	for _, r := range def.Registers {
		w, err := register.ParseWireType(r.Type)
		if err != nil {
			return nil, fmt.Errorf("register %s: %w", r.Name, err)
		}
		access, err := parseAccess(r.Access)
		if err != nil {
			return nil, fmt.Errorf("register %s: %w", r.Name, err)
		}
		d := registerData{
			Name:        r.Name,
			Address:     r.Address,
			Wire:        w.String(),
			Length:      r.Length,
			AccessExpr:  accessExpr(access),
			Semantic:    fmt.Sprintf("Scalar(%s)", w),
			ElemType:    goType(r.Type),
			ValueType:   goType(r.Type),
			Array:       r.Length > 1,
			Writable:    access.Writable(),
			Description: r.Description,
		}
		if r.MaskType != "" {
			d.Semantic = fmt.Sprintf("Flags(%s)", w)
			d.BitsVar = firstLower(r.MaskType) + "Bits"
			d.ElemType = r.MaskType
			d.ValueType = qualifier + r.MaskType
		}
		if d.Array {
			d.Suffix = "Array"
			d.ValueType = "[]" + d.ValueType
		}
		out = append(out, d)
	}
	return out, nil
}

func accessExpr(a register.Access) string {
	switch a {
	case register.ReadOnly:
		return "ReadOnly"
	case register.EventOnly:
		return "EventOnly"
	default:
		return "ReadWrite"
	}
}

// goType maps a wire type name to the Go type of one element.
func goType(wire string) string {
	switch wire {
	case "U8":
		return "uint8"
	case "S8":
		return "int8"
	case "U16":
		return "uint16"
	case "S16":
		return "int16"
	case "U32":
		return "uint32"
	case "S32":
		return "int32"
	default:
		return "int64"
	}
}

// firstLower lowercases the first rune: "ControlFlags" -> "controlFlags".
func firstLower(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

// sentence makes sure s ends with a period.
func sentence(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasSuffix(s, ".") {
		return s
	}
	return s + "."
}
