package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/harp-tech/faststepper-go/pkg/log"
)

// FilterOptions specifies filtering criteria for the filter command.
type FilterOptions struct {
	Output    string
	ConnID    string
	TimeStart string
	TimeEnd   string
	Layer     string
	Direction string
	Category  string
	Address   string
	Type      string
}

// RunFilter filters the log file and writes matching events to a new file.
// It reports the number of copied events on w.
func RunFilter(path string, opts FilterOptions, w io.Writer) error {
	filter, err := buildFilter(opts)
	if err != nil {
		return err
	}

	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	logger, err := log.NewFileLogger(opts.Output)
	if err != nil {
		return fmt.Errorf("failed to create output logger: %w", err)
	}

	count := 0
	for event, err := range reader.Events() {
		if err != nil {
			logger.Close()
			return fmt.Errorf("failed to read event: %w", err)
		}
		logger.Log(event)
		count++
	}
	if err := logger.Close(); err != nil {
		return fmt.Errorf("failed to close output: %w", err)
	}

	fmt.Fprintf(w, "Filtered %d events to %s\n", count, opts.Output)
	return nil
}

func buildFilter(opts FilterOptions) (log.Filter, error) {
	filter := log.Filter{ConnectionID: opts.ConnID}

	if opts.TimeStart != "" {
		t, err := time.Parse(time.RFC3339, opts.TimeStart)
		if err != nil {
			return filter, fmt.Errorf("invalid time-start format: %w", err)
		}
		filter.TimeStart = &t
	}
	if opts.TimeEnd != "" {
		t, err := time.Parse(time.RFC3339, opts.TimeEnd)
		if err != nil {
			return filter, fmt.Errorf("invalid time-end format: %w", err)
		}
		filter.TimeEnd = &t
	}
	if opts.Layer != "" {
		l, err := ParseLayerFlag(opts.Layer)
		if err != nil {
			return filter, err
		}
		filter.Layer = &l
	}
	if opts.Direction != "" {
		d, err := ParseDirectionFlag(opts.Direction)
		if err != nil {
			return filter, err
		}
		filter.Direction = &d
	}
	if opts.Category != "" {
		c, err := ParseCategoryFlag(opts.Category)
		if err != nil {
			return filter, err
		}
		filter.Category = &c
	}
	if opts.Address != "" {
		a, err := ParseAddressFlag(opts.Address)
		if err != nil {
			return filter, err
		}
		filter.Address = &a
	}
	if opts.Type != "" {
		mt, err := ParseTypeFlag(opts.Type)
		if err != nil {
			return filter, err
		}
		filter.MessageType = &mt
	}
	return filter, nil
}
