// Command faststepper-log views and analyzes Harp protocol capture files.
//
// Capture files are written by faststepper with the -capture flag or the
// capture.file config setting.
//
// Usage:
//
//	faststepper-log <command> [flags] <file.hlog>
//
// Commands:
//
//	view     View log file in human-readable format
//	export   Export log file to JSON or CSV format
//	filter   Filter log file and write to new file
//	stats    Show statistics about the log file
//
// Examples:
//
//	# View only wire-layer events
//	faststepper-log view --layer wire session.hlog
//
//	# View traffic for one register
//	faststepper-log view --address Moving session.hlog
//
//	# Export to CSV
//	faststepper-log export --format csv -o session.csv session.hlog
//
//	# Keep client-layer errors
//	faststepper-log filter --layer client --category error -o errors.hlog session.hlog
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/harp-tech/faststepper-go/cmd/faststepper-log/commands"
)

const usage = `faststepper-log - Harp Protocol Log Analyzer

Usage:
  faststepper-log <command> [flags] <file.hlog>

Commands:
  view     View log file in human-readable format
  export   Export log file to JSON or CSV format
  filter   Filter log file and write to new file
  stats    Show statistics about the log file

Use "faststepper-log <command> -help" for more information about a command.
`

var errUsage = errors.New("usage")

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) && !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) < 1 {
		fmt.Fprint(stderr, usage)
		return errUsage
	}

	cmd, args := args[0], args[1:]
	switch cmd {
	case "view":
		return runView(args, stdout, stderr)
	case "export":
		return runExport(args, stdout, stderr)
	case "filter":
		return runFilter(args, stdout, stderr)
	case "stats":
		return runStats(args, stdout, stderr)
	case "-h", "-help", "--help", "help":
		fmt.Fprint(stdout, usage)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(stderr, usage)
		return errUsage
	}
}

// newFlagSet returns a flag set whose usage text names the command.
func newFlagSet(name, summary string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "faststepper-log %s - %s\n\nUsage:\n  faststepper-log %s [flags] <file.hlog>\n\nFlags:\n",
			name, summary, name)
		fs.PrintDefaults()
	}
	return fs
}

// parsePath parses the flags and returns the single log file argument.
func parsePath(fs *flag.FlagSet, args []string, stderr io.Writer) (string, error) {
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(stderr, "Error: log file path required")
		fs.Usage()
		return "", errUsage
	}
	return fs.Arg(0), nil
}

func runView(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("view", "View log file in human-readable format", stderr)
	layer := fs.String("layer", "", "Filter by layer (transport, wire, client)")
	direction := fs.String("direction", "", "Filter by direction (in, out)")
	category := fs.String("category", "", "Filter by category (message, state, error)")
	address := fs.String("address", "", "Filter by register name or address")
	msgType := fs.String("type", "", "Filter by message type (read, write, event)")

	path, err := parsePath(fs, args, stderr)
	if err != nil {
		return err
	}

	var filter commands.ViewFilter
	if *layer != "" {
		l, err := commands.ParseLayerFlag(*layer)
		if err != nil {
			return err
		}
		filter.Layer = &l
	}
	if *direction != "" {
		d, err := commands.ParseDirectionFlag(*direction)
		if err != nil {
			return err
		}
		filter.Direction = &d
	}
	if *category != "" {
		c, err := commands.ParseCategoryFlag(*category)
		if err != nil {
			return err
		}
		filter.Category = &c
	}
	if *address != "" {
		a, err := commands.ParseAddressFlag(*address)
		if err != nil {
			return err
		}
		filter.Address = &a
	}
	if *msgType != "" {
		mt, err := commands.ParseTypeFlag(*msgType)
		if err != nil {
			return err
		}
		filter.Type = &mt
	}

	return commands.RunView(path, filter, stdout)
}

func runExport(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("export", "Export log file to JSON or CSV format", stderr)
	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")

	path, err := parsePath(fs, args, stderr)
	if err != nil {
		return err
	}
	return commands.RunExport(path, *format, *output, stdout)
}

func runFilter(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("filter", "Filter log file and write to new file", stderr)
	var opts commands.FilterOptions
	fs.StringVar(&opts.Output, "o", "", "Output file (required)")
	fs.StringVar(&opts.ConnID, "conn-id", "", "Filter by connection ID")
	fs.StringVar(&opts.TimeStart, "time-start", "", "Filter by start time (RFC3339)")
	fs.StringVar(&opts.TimeEnd, "time-end", "", "Filter by end time (RFC3339)")
	fs.StringVar(&opts.Layer, "layer", "", "Filter by layer (transport, wire, client)")
	fs.StringVar(&opts.Direction, "direction", "", "Filter by direction (in, out)")
	fs.StringVar(&opts.Category, "category", "", "Filter by category (message, state, error)")
	fs.StringVar(&opts.Address, "address", "", "Filter by register name or address")
	fs.StringVar(&opts.Type, "type", "", "Filter by message type (read, write, event)")

	path, err := parsePath(fs, args, stderr)
	if err != nil {
		return err
	}
	if opts.Output == "" {
		fmt.Fprintln(stderr, "Error: output file (-o) required")
		fs.Usage()
		return errUsage
	}
	return commands.RunFilter(path, opts, stdout)
}

func runStats(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("stats", "Show statistics about the log file", stderr)
	path, err := parsePath(fs, args, stderr)
	if err != nil {
		return err
	}
	return commands.RunStats(path, stdout)
}
