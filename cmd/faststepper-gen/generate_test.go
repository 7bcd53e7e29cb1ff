package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/tools/imports"
)

func mustContain(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Errorf("output does not contain %q\n\nFull output:\n%s", want, output)
	}
}

func mustNotContain(t *testing.T, output, unwanted string) {
	t.Helper()
	if strings.Contains(output, unwanted) {
		t.Errorf("output unexpectedly contains %q", unwanted)
	}
}

func pumpDef(t *testing.T) *RawDeviceDef {
	t.Helper()
	def, err := ParseDeviceDef([]byte(minimalDevice))
	if err != nil {
		t.Fatalf("ParseDeviceDef failed: %v", err)
	}
	return def
}

func TestGenerateRegisterConstants(t *testing.T) {
	output, err := GenerateRegisters(pumpDef(t))
	if err != nil {
		t.Fatalf("GenerateRegisters failed: %v", err)
	}

	mustContain(t, output, "// Code generated by faststepper-gen. DO NOT EDIT.")
	mustContain(t, output, "const PumpWhoAmI uint16 = 1280")
	mustContain(t, output, "AddressEnable uint8 = 32")
	mustContain(t, output, "AddressSteps uint8 = 33")
	mustNotContain(t, output, "PumpFirmwareVersion")
}

func TestGenerateBitMask(t *testing.T) {
	output, err := GenerateRegisters(pumpDef(t))
	if err != nil {
		t.Fatalf("GenerateRegisters failed: %v", err)
	}

	mustContain(t, output, "type EnableFlags uint8")
	mustContain(t, output, "EnableNone EnableFlags = 0x0")
	mustContain(t, output, "EnablePump EnableFlags = 0x1")
	mustContain(t, output, "EnableValve EnableFlags = 0x2")
	mustContain(t, output, `{Name: "Pump", Mask: 0x1, Usage: "Drives the pump"}`)
	mustContain(t, output, `{Name: "Valve", Mask: 0x2}`)
	mustContain(t, output, "func (f EnableFlags) String() string { return formatBits(uint32(f), enableFlagsBits) }")
}

func TestGenerateSchemaAndTypedRegisters(t *testing.T) {
	output, err := GenerateRegisters(pumpDef(t))
	if err != nil {
		t.Fatalf("GenerateRegisters failed: %v", err)
	}

	mustContain(t, output, `var Pump = MustSchema("Pump",`)
	mustContain(t, output, "Semantic: Flags(U8), Length: 1, Access: ReadWrite")
	mustContain(t, output, `Description: "Enables outputs", Bits: enableFlagsBits}`)
	mustContain(t, output, "Semantic: Scalar(S32), Length: 2, Access: EventOnly")
	mustContain(t, output, "Enable = MustDefine[EnableFlags](Pump, AddressEnable)")
	mustContain(t, output, "Steps = MustDefineArray[int32](Pump, AddressSteps)")
}

func TestGenerateClientAccessors(t *testing.T) {
	output, err := GenerateClient(pumpDef(t), defaultRegisterImport)
	if err != nil {
		t.Fatalf("GenerateClient failed: %v", err)
	}

	mustContain(t, output, "package device")
	mustContain(t, output, `"`+defaultRegisterImport+`"`)
	mustContain(t, output, "func (c *Client) ReadEnable(ctx context.Context) (register.EnableFlags, error) {")
	mustContain(t, output, "func (c *Client) WriteEnable(ctx context.Context, value register.EnableFlags) error {")
	mustContain(t, output, "return ReadArray(ctx, c, register.Steps)")
	mustContain(t, output, "(register.Timestamped[[]int32], error)")
	// Event registers are read-only from the host.
	mustNotContain(t, output, "WriteSteps")
}

func TestGeneratedCodeFormats(t *testing.T) {
	def, err := LoadDeviceDef(registersFile(t))
	if err != nil {
		t.Fatalf("LoadDeviceDef failed: %v", err)
	}

	regs, err := GenerateRegisters(def)
	if err != nil {
		t.Fatalf("GenerateRegisters failed: %v", err)
	}
	if _, err := imports.Process("faststepper_gen.go", []byte(regs), nil); err != nil {
		t.Errorf("register output is not valid Go: %v", err)
	}

	client, err := GenerateClient(def, defaultRegisterImport)
	if err != nil {
		t.Fatalf("GenerateClient failed: %v", err)
	}
	if _, err := imports.Process("faststepper_gen.go", []byte(client), nil); err != nil {
		t.Errorf("client output is not valid Go: %v", err)
	}
}

func TestCommittedFilesAreUpToDate(t *testing.T) {
	def, err := LoadDeviceDef(registersFile(t))
	if err != nil {
		t.Fatalf("LoadDeviceDef failed: %v", err)
	}
	root := filepath.Join(filepath.Dir(registersFile(t)), "..")

	regs, err := GenerateRegisters(def)
	if err != nil {
		t.Fatalf("GenerateRegisters failed: %v", err)
	}
	client, err := GenerateClient(def, defaultRegisterImport)
	if err != nil {
		t.Fatalf("GenerateClient failed: %v", err)
	}

	for path, code := range map[string]string{
		filepath.Join(root, "pkg", "register", "faststepper_gen.go"): regs,
		filepath.Join(root, "pkg", "device", "faststepper_gen.go"):   client,
	} {
		want, err := imports.Process(path, []byte(code), nil)
		if err != nil {
			t.Fatalf("formatting %s: %v", path, err)
		}
		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("reading %s: %v", path, err)
		}
		if string(got) != string(want) {
			t.Errorf("%s is stale; run go generate ./pkg/register", path)
		}
	}
}

func TestRunWritesFiles(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "pump.yaml")
	if err := os.WriteFile(input, []byte(minimalDevice), 0o644); err != nil {
		t.Fatal(err)
	}
	registerOut := filepath.Join(dir, "register", "pump_gen.go")
	deviceOut := filepath.Join(dir, "device", "pump_gen.go")

	if err := run(input, registerOut, deviceOut, defaultRegisterImport); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	for _, path := range []string{registerOut, deviceOut} {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("reading %s: %v", path, err)
		}
		mustContain(t, string(data), "DO NOT EDIT")
	}
}
