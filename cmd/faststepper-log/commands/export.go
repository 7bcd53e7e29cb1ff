package commands

import (
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/harp-tech/faststepper-go/pkg/log"
)

// RunExport exports the log file as jsonl or csv to output, or to w when
// output is empty.
func RunExport(path, format, output string, w io.Writer) error {
	if format != "jsonl" && format != "csv" {
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}

	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if format == "csv" {
		return exportCSV(reader, w)
	}
	return exportJSONL(reader, w)
}

func exportJSONL(reader *log.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for event, err := range reader.Events() {
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := encoder.Encode(event); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
	return nil
}

var csvHeader = []string{
	"timestamp", "connection_id", "direction", "layer", "category",
	"target", "type", "address", "register", "payload_type", "payload", "device_time",
}

func exportCSV(reader *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for event, err := range reader.Events() {
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := cw.Write(csvRow(event)); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvRow(event log.Event) []string {
	var address, name, payloadType, payload, deviceTime string
	eventType := "unknown"
	switch {
	case event.Frame != nil:
		eventType = "frame"
	case event.Message != nil:
		msg := event.Message
		eventType = msg.Type.String()
		address = strconv.Itoa(int(msg.Address))
		name = msg.Register
		if name == "" {
			name = registerName(msg.Address)
		}
		payloadType = msg.PayloadType.String()
		payload = hex.EncodeToString(msg.Payload)
		if msg.DeviceTime != nil {
			deviceTime = strconv.FormatFloat(*msg.DeviceTime, 'f', 6, 64)
		}
	case event.StateChange != nil:
		eventType = "state"
	case event.Error != nil:
		eventType = "error"
		if event.Error.Address != nil {
			address = strconv.Itoa(int(*event.Error.Address))
			name = registerName(*event.Error.Address)
		}
	}

	return []string{
		event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z"),
		event.ConnectionID,
		event.Direction.String(),
		event.Layer.String(),
		event.Category.String(),
		event.Target,
		eventType,
		address,
		name,
		payloadType,
		payload,
		deviceTime,
	}
}
