// Package commands implements the faststepper-log CLI commands.
package commands

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/harp-tech/faststepper-go/pkg/harp"
	"github.com/harp-tech/faststepper-go/pkg/log"
	"github.com/harp-tech/faststepper-go/pkg/register"
)

// ViewFilter specifies criteria for filtering events in the view command.
type ViewFilter struct {
	Layer     *log.Layer
	Direction *log.Direction
	Category  *log.Category
	Address   *uint8
	Type      *harp.MessageType
}

// RunView reads the log file and prints every matching event.
func RunView(path string, filter ViewFilter, w io.Writer) error {
	reader, err := log.NewFilteredReader(path, log.Filter{
		Layer:       filter.Layer,
		Direction:   filter.Direction,
		Category:    filter.Category,
		Address:     filter.Address,
		MessageType: filter.Type,
	})
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for event, err := range reader.Events() {
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(w, event)
	}
	return nil
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// timestamp [conn:id] DIRECTION LAYER Type
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	fmt.Fprintf(w, "%s [conn:%s] %-3s %s %s\n",
		ts, shortenConnID(event.ConnectionID), event.Direction.String(), event.Layer.String(), eventLabel(event))

	switch {
	case event.Frame != nil:
		formatFrameDetails(w, event.Frame)
	case event.Message != nil:
		formatMessageDetails(w, event.Message)
	case event.StateChange != nil:
		formatStateChangeDetails(w, event.StateChange)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}
	fmt.Fprintln(w)
}

func eventLabel(event log.Event) string {
	switch {
	case event.Frame != nil:
		return "Frame"
	case event.Message != nil:
		return event.Message.Type.String()
	case event.StateChange != nil:
		return "State"
	case event.Error != nil:
		return "Error"
	default:
		return "Unknown"
	}
}

// shortenConnID returns the first 8 characters of the connection ID.
func shortenConnID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func formatFrameDetails(w io.Writer, frame *log.FrameEvent) {
	fmt.Fprintf(w, "  Size: %d bytes\n", frame.Size)
	if len(frame.Data) > 0 {
		fmt.Fprintf(w, "  Data: %s", hex.EncodeToString(frame.Data))
		if frame.Truncated {
			fmt.Fprintf(w, " (truncated)")
		}
		fmt.Fprintln(w)
	}
	if frame.Discarded > 0 {
		fmt.Fprintf(w, "  Discarded: %d bytes\n", frame.Discarded)
	}
}

func formatMessageDetails(w io.Writer, msg *log.MessageEvent) {
	name := msg.Register
	if name == "" {
		name = registerName(msg.Address)
	}
	if name != "" {
		fmt.Fprintf(w, "  Register: %s (%d)\n", name, msg.Address)
	} else {
		fmt.Fprintf(w, "  Address: %d\n", msg.Address)
	}
	fmt.Fprintf(w, "  PayloadType: %s\n", msg.PayloadType.String())
	if msg.Port != 0 && msg.Port != harp.DefaultPort {
		fmt.Fprintf(w, "  Port: %d\n", msg.Port)
	}
	if len(msg.Payload) > 0 {
		fmt.Fprintf(w, "  Payload: %s\n", hex.EncodeToString(msg.Payload))
		if values := decodePayload(msg); values != "" {
			fmt.Fprintf(w, "  Value: %s\n", values)
		}
	}
	if msg.DeviceTime != nil {
		fmt.Fprintf(w, "  DeviceTime: %.6fs\n", *msg.DeviceTime)
	}
	if msg.Latency != nil {
		fmt.Fprintf(w, "  Latency: %s\n", formatDuration(*msg.Latency))
	}
}

// registerName resolves an address against the FastStepper register map.
func registerName(addr uint8) string {
	d, err := register.FastStepperDevice.Lookup(addr)
	if err != nil {
		return ""
	}
	return d.Name
}

// decodePayload renders the payload as register values when the address
// and payload type agree with the register map.
func decodePayload(msg *log.MessageEvent) string {
	if msg.Type.IsError() {
		return ""
	}
	d, err := register.FastStepperDevice.Lookup(msg.Address)
	if err != nil {
		return ""
	}
	values, err := register.DecodeValues(d, harp.NewMessage(msg.Type, msg.Address, msg.PayloadType, msg.Payload))
	if err != nil {
		return ""
	}
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = d.FormatValue(v)
	}
	return strings.Join(parts, " ")
}

func formatStateChangeDetails(w io.Writer, sc *log.StateChangeEvent) {
	fmt.Fprintf(w, "  Entity: %s\n", sc.Entity.String())
	if sc.OldState != "" {
		fmt.Fprintf(w, "  %s -> %s\n", sc.OldState, sc.NewState)
	} else {
		fmt.Fprintf(w, "  -> %s\n", sc.NewState)
	}
	if sc.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", sc.Reason)
	}
}

func formatErrorDetails(w io.Writer, err *log.ErrorEventData) {
	fmt.Fprintf(w, "  Layer: %s\n", err.Layer.String())
	fmt.Fprintf(w, "  Message: %s\n", err.Message)
	if err.Address != nil {
		if name := registerName(*err.Address); name != "" {
			fmt.Fprintf(w, "  Register: %s (%d)\n", name, *err.Address)
		} else {
			fmt.Fprintf(w, "  Address: %d\n", *err.Address)
		}
	}
	if err.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", err.Context)
	}
}

// formatDuration formats a duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.3fus", float64(d.Nanoseconds())/1000)
	}
	if d < time.Second {
		return fmt.Sprintf("%.3fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.3fs", d.Seconds())
}

// ParseLayerFlag parses a layer name (case-insensitive).
func ParseLayerFlag(s string) (log.Layer, error) {
	switch strings.ToLower(s) {
	case "transport":
		return log.LayerTransport, nil
	case "wire":
		return log.LayerWire, nil
	case "client":
		return log.LayerClient, nil
	default:
		return 0, fmt.Errorf("invalid layer: %s (must be transport, wire, or client)", s)
	}
}

// ParseDirectionFlag parses a direction name (case-insensitive).
func ParseDirectionFlag(s string) (log.Direction, error) {
	switch strings.ToLower(s) {
	case "in":
		return log.DirectionIn, nil
	case "out":
		return log.DirectionOut, nil
	default:
		return 0, fmt.Errorf("invalid direction: %s (must be in or out)", s)
	}
}

// ParseCategoryFlag parses a category name (case-insensitive).
func ParseCategoryFlag(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "message":
		return log.CategoryMessage, nil
	case "state":
		return log.CategoryState, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be message, state, or error)", s)
	}
}

// ParseTypeFlag parses a Harp message type name (case-insensitive).
func ParseTypeFlag(s string) (harp.MessageType, error) {
	switch strings.ToLower(s) {
	case "read":
		return harp.Read, nil
	case "write":
		return harp.Write, nil
	case "event":
		return harp.Event, nil
	default:
		return 0, fmt.Errorf("invalid message type: %s (must be read, write, or event)", s)
	}
}

// ParseAddressFlag accepts a register name or a numeric address.
func ParseAddressFlag(s string) (uint8, error) {
	if d, err := register.FastStepperDevice.LookupName(s); err == nil {
		return d.Address, nil
	}
	var addr uint8
	if _, err := fmt.Sscan(s, &addr); err != nil {
		return 0, fmt.Errorf("invalid address: %s (must be a register name or 0-255)", s)
	}
	return addr, nil
}
