// Command faststepper reads, writes and monitors a FastStepper motor
// controller over its serial port.
//
// Usage:
//
//	faststepper [flags] <command> [args]
//
// Commands:
//
//	info                      Show identity, versions and name of the device
//	registers                 List the register map (no device needed)
//	read <register>...        Read registers by name or address
//	write <register> <value>  Write a register
//	monitor [register]...     Print device events as they arrive
//	shell                     Interactive session
//
// Flags:
//
//	-config string     Configuration file path
//	-port string       Serial port (e.g. /dev/ttyUSB0, COM3)
//	-baud int          Serial line rate (default 1000000)
//	-timeout duration  Per-request timeout (default 1s)
//	-capture string    Write a protocol capture to this file
//	-simulate          Talk to a built-in simulated device instead of a port
//	-metrics string    Serve Prometheus metrics on this address
//	-log-level string  Log level: debug, info, warn, error
//
// Examples:
//
//	# Enable the motor and move to step 1000
//	faststepper -port /dev/ttyUSB0 write Control EnableMotor
//	faststepper -port /dev/ttyUSB0 write MoveTo 1000
//
//	# Watch encoder and moving events, capturing the session
//	faststepper -port /dev/ttyUSB0 -capture run.hlog monitor Encoder Moving
//
//	# Try the tool without hardware
//	faststepper -simulate shell
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/harp-tech/faststepper-go/pkg/config"
)

var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// options holds the command-line flags.
type options struct {
	configFile string
	port       string
	baud       int
	timeout    time.Duration
	capture    string
	simulate   bool
	metrics    string
	logLevel   string
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("faststepper", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.StringVar(&opts.configFile, "config", "", "Configuration file path")
	fs.StringVar(&opts.port, "port", "", "Serial port (e.g. /dev/ttyUSB0, COM3)")
	fs.IntVar(&opts.baud, "baud", 0, "Serial line rate (default 1000000)")
	fs.DurationVar(&opts.timeout, "timeout", 0, "Per-request timeout (default 1s)")
	fs.StringVar(&opts.capture, "capture", "", "Write a protocol capture to this file")
	fs.BoolVar(&opts.simulate, "simulate", false, "Use a built-in simulated device")
	fs.StringVar(&opts.metrics, "metrics", "", "Serve Prometheus metrics on this address (e.g. :9100)")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	fs.Usage = func() { printUsage(fs) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return errUsage
	}
	if fs.NArg() == 0 {
		printUsage(fs)
		return errUsage
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	level, _ := cfg.Log.SlogLevel()
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cmd, cmdArgs := fs.Arg(0), fs.Args()[1:]
	if cmd == "registers" {
		return cmdRegisters(stdout, cmdArgs)
	}

	s, err := openSession(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	switch cmd {
	case "info":
		return cmdInfo(ctx, s, stdout)
	case "read":
		return cmdRead(ctx, s, stdout, cmdArgs)
	case "write":
		return cmdWrite(ctx, s, stdout, cmdArgs)
	case "monitor":
		return cmdMonitor(ctx, s, stdout, cmdArgs)
	case "shell":
		return runShell(ctx, s)
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", cmd)
		printUsage(fs)
		return errUsage
	}
}

// loadConfig reads the configuration file, if any, and applies flag
// overrides on top of it.
func loadConfig(opts options) (config.Config, error) {
	cfg := config.Default()
	if opts.configFile != "" {
		var err error
		if cfg, err = config.Load(opts.configFile); err != nil {
			return cfg, err
		}
	}
	if opts.port != "" {
		cfg.Serial.Port = opts.port
	}
	if opts.baud != 0 {
		cfg.Serial.Baud = opts.baud
	}
	if opts.timeout != 0 {
		cfg.Client.RequestTimeout = opts.timeout
	}
	if opts.capture != "" {
		cfg.Capture.File = opts.capture
	}
	if opts.simulate {
		cfg.Client.Simulate = true
	}
	if opts.metrics != "" {
		cfg.Metrics.Listen = opts.metrics
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	return cfg, cfg.Validate()
}

func printUsage(fs *flag.FlagSet) {
	out := fs.Output()
	fmt.Fprintln(out, "Usage: faststepper [flags] <command> [args]")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  info                      Show identity, versions and name of the device")
	fmt.Fprintln(out, "  registers                 List the register map")
	fmt.Fprintln(out, "  read <register>...        Read registers by name or address")
	fmt.Fprintln(out, "  write <register> <value>  Write a register")
	fmt.Fprintln(out, "  monitor [register]...     Print device events as they arrive")
	fmt.Fprintln(out, "  shell                     Interactive session")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Flags:")
	fs.PrintDefaults()
}
