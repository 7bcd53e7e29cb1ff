package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/harp-tech/faststepper-go/pkg/harp"
	"github.com/harp-tech/faststepper-go/pkg/log"
)

func TestStatsCountsByLayer(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: ts, Layer: log.LayerTransport, Category: log.CategoryMessage},
		{Timestamp: ts, Layer: log.LayerTransport, Category: log.CategoryMessage},
		{Timestamp: ts, Layer: log.LayerWire, Category: log.CategoryMessage},
		{Timestamp: ts, Layer: log.LayerClient, Category: log.CategoryState},
	}
	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	output := buf.String()

	for _, want := range []string{"Total Events: 4", "TRANSPORT:", "WIRE:", "CLIENT:", "STATE:"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
}

func TestStatsCountsRegisters(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: ts, Layer: log.LayerWire, Message: &log.MessageEvent{Type: harp.Read, Address: 37, PayloadType: harp.U8}},
		{Timestamp: ts, Layer: log.LayerWire, Message: &log.MessageEvent{Type: harp.Event, Address: 37, PayloadType: harp.U8}},
		{Timestamp: ts, Layer: log.LayerWire, Message: &log.MessageEvent{Type: harp.Write, Address: 32, PayloadType: harp.U16}},
		{Timestamp: ts, Layer: log.LayerWire, Message: &log.MessageEvent{Type: harp.Write | harp.ErrorFlag, Address: 32, PayloadType: harp.U16}},
		{Timestamp: ts, Layer: log.LayerClient, Message: &log.MessageEvent{Type: harp.Write, Address: 32, PayloadType: harp.U16}},
	}

	stats := newStats()
	for _, e := range events {
		stats.add(e)
	}

	moving := stats.Registers[37]
	if moving == nil || moving.Name != "Moving" || moving.Reads != 1 || moving.Events != 1 {
		t.Errorf("unexpected Moving stats: %+v", moving)
	}
	control := stats.Registers[32]
	if control == nil || control.Writes != 1 || control.Errors != 1 {
		t.Errorf("unexpected Control stats: %+v", control)
	}

	var buf bytes.Buffer
	printStats(&buf, stats)
	if !strings.Contains(buf.String(), "Moving") {
		t.Errorf("expected register table, got: %s", buf.String())
	}
}

func TestStatsConnections(t *testing.T) {
	base := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: base, ConnectionID: "conn-aaaaaaaa-1", Target: "COM3", WhoAmI: 2120},
		{Timestamp: base.Add(250 * time.Millisecond), ConnectionID: "conn-aaaaaaaa-1", Frame: &log.FrameEvent{Size: 6, Discarded: 2}},
		{Timestamp: base.Add(time.Second), ConnectionID: "conn-bbbbbbbb-2", Error: &log.ErrorEventData{Message: "timeout"}},
	}
	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	output := buf.String()

	for _, want := range []string{
		"Connections: 2",
		"[conn-aaa] 2 events, duration 250ms",
		"Target: COM3",
		"WhoAmI: 2120",
		"Discarded: 2 bytes",
		"Errors: 1",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got: %s", want, output)
		}
	}
}

func TestStatsMissingFile(t *testing.T) {
	if err := RunStats("/nonexistent/file.hlog", &bytes.Buffer{}); err == nil {
		t.Error("expected error for missing file")
	}
}
