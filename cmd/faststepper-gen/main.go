// Command faststepper-gen generates the FastStepper register table and the
// typed client accessors from a YAML register map.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/tools/imports"
)

const defaultRegisterImport = "github.com/harp-tech/faststepper-go/pkg/register"

func main() {
	input := flag.String("input", "", "Path to the device register map YAML")
	registerOut := flag.String("register-out", "", "Output path for the generated register table")
	deviceOut := flag.String("device-out", "", "Output path for the generated client accessors (optional)")
	registerImport := flag.String("register-import", defaultRegisterImport, "Import path of the register package")
	flag.Parse()

	if *input == "" || *registerOut == "" {
		fmt.Fprintln(os.Stderr, "Usage: faststepper-gen -input <yaml> -register-out <path> [-device-out <path>] [-register-import <path>]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := run(*input, *registerOut, *deviceOut, *registerImport); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(input, registerOut, deviceOut, registerImport string) error {
	def, err := LoadDeviceDef(input)
	if err != nil {
		return err
	}

	code, err := GenerateRegisters(def)
	if err != nil {
		return fmt.Errorf("generating registers: %w", err)
	}
	if err := writeFormatted(registerOut, code); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(registerOut), err)
	}
	fmt.Printf("  generated %s\n", registerOut)

	if deviceOut == "" {
		return nil
	}
	code, err = GenerateClient(def, registerImport)
	if err != nil {
		return fmt.Errorf("generating client: %w", err)
	}
	if err := writeFormatted(deviceOut, code); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(deviceOut), err)
	}
	fmt.Printf("  generated %s\n", deviceOut)
	return nil
}

// writeFormatted formats Go source code with goimports and writes it to a file.
func writeFormatted(path string, code string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	formatted, err := imports.Process(path, []byte(code), nil)
	if err != nil {
		// Write unformatted so you can debug the generator output
		_ = os.WriteFile(path+".broken", []byte(code), 0o644)
		return fmt.Errorf("goimports %s: %w", filepath.Base(path), err)
	}
	return os.WriteFile(path, formatted, 0o644)
}
