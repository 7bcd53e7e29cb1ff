package main

import (
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/harp-tech/faststepper-go/pkg/register"
)

// registersFile returns the absolute path to the FastStepper register map.
func registersFile(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine test file path")
	}
	return filepath.Join(filepath.Dir(thisFile), "..", "..", "registers", "faststepper.yaml")
}

const minimalDevice = `
device: Pump
whoAmI: 1280
registers:
  - name: Enable
    address: 32
    type: U8
    access: Write
    maskType: EnableFlags
    description: Enables outputs
  - name: Steps
    address: 33
    type: S32
    length: 2
    access: Event
bitMasks:
  - name: EnableFlags
    type: U8
    prefix: Enable
    bits:
      - {name: Pump, value: 0x1, description: Drives the pump}
      - {name: Valve, value: 0x2}
`

func TestParseDeviceDefMinimal(t *testing.T) {
	def, err := ParseDeviceDef([]byte(minimalDevice))
	if err != nil {
		t.Fatalf("ParseDeviceDef failed: %v", err)
	}

	if def.Device != "Pump" {
		t.Errorf("device = %q, want Pump", def.Device)
	}
	if def.WhoAmI != 1280 {
		t.Errorf("whoAmI = %d, want 1280", def.WhoAmI)
	}
	if len(def.Registers) != 2 {
		t.Fatalf("registers = %d, want 2", len(def.Registers))
	}
	if def.Registers[0].Length != 1 {
		t.Errorf("default length = %d, want 1", def.Registers[0].Length)
	}
	if def.Registers[1].Length != 2 {
		t.Errorf("length = %d, want 2", def.Registers[1].Length)
	}
	if len(def.BitMasks) != 1 || len(def.BitMasks[0].Bits) != 2 {
		t.Errorf("unexpected bit masks: %+v", def.BitMasks)
	}
}

func TestParseDeviceDefErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"missing device", "whoAmI: 1\n", "missing device name"},
		{"missing whoAmI", "device: X\n", "missing whoAmI"},
		{"unknown type", `
device: X
whoAmI: 1
registers:
  - {name: A, address: 32, type: F32, access: Write}
`, "unknown wire type"},
		{"unknown access", `
device: X
whoAmI: 1
registers:
  - {name: A, address: 32, type: U8, access: Sometimes}
`, "unknown access"},
		{"duplicate address", `
device: X
whoAmI: 1
registers:
  - {name: A, address: 32, type: U8, access: Write}
  - {name: B, address: 32, type: U8, access: Write}
`, "address 32"},
		{"unknown mask", `
device: X
whoAmI: 1
registers:
  - {name: A, address: 32, type: U8, access: Write, maskType: Missing}
`, "unknown mask type"},
		{"signed mask", `
device: X
whoAmI: 1
bitMasks:
  - {name: M, type: S16, prefix: M}
`, "unsigned type"},
		{"mask without prefix", `
device: X
whoAmI: 1
bitMasks:
  - {name: M, type: U8}
`, "missing prefix"},
		{"mask type mismatch", `
device: X
whoAmI: 1
registers:
  - {name: A, address: 32, type: U16, access: Write, maskType: M}
bitMasks:
  - {name: M, type: U8, prefix: M}
`, "mask M is U8"},
		{"bad yaml", "device: [", "unmarshaling YAML"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDeviceDef([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestRegisterMapMatchesSchema(t *testing.T) {
	def, err := LoadDeviceDef(registersFile(t))
	if err != nil {
		t.Fatalf("LoadDeviceDef failed: %v", err)
	}

	if def.WhoAmI != register.FastStepperWhoAmI {
		t.Errorf("whoAmI = %d, want %d", def.WhoAmI, register.FastStepperWhoAmI)
	}
	if len(def.Registers) != register.FastStepper.Len() {
		t.Fatalf("registers = %d, schema has %d", len(def.Registers), register.FastStepper.Len())
	}

	masks := make(map[string]RawBitMaskDef)
	for _, m := range def.BitMasks {
		masks[m.Name] = m
	}
	for _, r := range def.Registers {
		want, err := toDescriptor(r, masks)
		if err != nil {
			t.Fatalf("toDescriptor(%s): %v", r.Name, err)
		}
		got, err := register.FastStepper.Lookup(r.Address)
		if err != nil {
			t.Errorf("register %s missing from schema: %v", r.Name, err)
			continue
		}
		if got.Name != want.Name || got.Wire != want.Wire || got.Length != want.Length || got.Access != want.Access {
			t.Errorf("register %d: schema %+v, map %+v", r.Address, got, want)
		}
		if len(got.Bits) != len(want.Bits) {
			t.Errorf("register %s: schema has %d bits, map has %d", r.Name, len(got.Bits), len(want.Bits))
		}
	}
}

func TestLoadDeviceDefMissingFile(t *testing.T) {
	if _, err := LoadDeviceDef(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
