package log

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/harp-tech/faststepper-go/pkg/harp"
)

func createTestLogFile(t *testing.T, events []Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.hlog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create test log: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

func TestReaderIteratesEvents(t *testing.T) {
	path := createTestLogFile(t, []Event{
		{Timestamp: time.Now(), ConnectionID: "conn-1", Layer: LayerTransport},
		{Timestamp: time.Now(), ConnectionID: "conn-2", Layer: LayerWire},
		{Timestamp: time.Now(), ConnectionID: "conn-3", Layer: LayerClient, Category: CategoryState},
	})

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	var read []Event
	for event, err := range reader.Events() {
		if err != nil {
			t.Fatalf("Events failed: %v", err)
		}
		read = append(read, event)
	}

	if len(read) != 3 {
		t.Fatalf("got %d events, want 3", len(read))
	}
	if read[0].ConnectionID != "conn-1" || read[2].ConnectionID != "conn-3" {
		t.Errorf("order: got %q..%q", read[0].ConnectionID, read[2].ConnectionID)
	}
	if _, err := reader.Next(); err != io.EOF {
		t.Errorf("Next after end: got %v, want io.EOF", err)
	}
}

func TestReaderFiltersByAddress(t *testing.T) {
	encoder := uint8(33)
	path := createTestLogFile(t, []Event{
		{Layer: LayerWire, Message: &MessageEvent{Address: 32}},
		{Layer: LayerWire, Message: &MessageEvent{Address: 33}},
		{Layer: LayerClient, Category: CategoryState, StateChange: &StateChangeEvent{NewState: "READY"}},
		{Layer: LayerWire, Message: &MessageEvent{Address: 33}},
	})

	reader, err := NewFilteredReader(path, Filter{Address: &encoder})
	if err != nil {
		t.Fatalf("NewFilteredReader failed: %v", err)
	}
	defer reader.Close()

	n := 0
	for event, err := range reader.Events() {
		if err != nil {
			t.Fatalf("Events failed: %v", err)
		}
		if event.Message.Address != 33 {
			t.Errorf("got address %d", event.Message.Address)
		}
		n++
	}
	if n != 2 {
		t.Errorf("got %d events, want 2", n)
	}
}

func TestFilterMatches(t *testing.T) {
	now := time.Now()
	in := DirectionIn
	state := CategoryState
	start := now.Add(-time.Second)
	end := now.Add(time.Second)
	addr := uint8(32)
	write := harp.Write

	ev := Event{Timestamp: now, ConnectionID: "c", Direction: DirectionIn, Category: CategoryState}

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"empty", Filter{}, true},
		{"conn match", Filter{ConnectionID: "c"}, true},
		{"conn mismatch", Filter{ConnectionID: "d"}, false},
		{"direction", Filter{Direction: &in}, true},
		{"category", Filter{Category: &state}, true},
		{"window", Filter{TimeStart: &start, TimeEnd: &end}, true},
		{"before window", Filter{TimeStart: &end}, false},
		{"target mismatch", Filter{Target: "COM4"}, false},
		{"address without message", Filter{Address: &addr}, false},
		{"message type without message", Filter{MessageType: &write}, false},
	}
	for _, tt := range tests {
		if got := tt.filter.matches(ev); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestFilterMatchesMessages(t *testing.T) {
	addr := uint8(37)
	read := harp.Read
	write := harp.Write

	reply := Event{Message: &MessageEvent{Type: harp.Read | harp.ErrorFlag, Address: 37}}
	failure := Event{Error: &ErrorEventData{Message: "timeout", Address: &addr}}

	if f := (Filter{Address: &addr}); !f.matches(reply) || !f.matches(failure) {
		t.Error("address filter should keep message and error events for the register")
	}
	if f := (Filter{MessageType: &read}); !f.matches(reply) {
		t.Error("error reply should match its base message type")
	}
	if f := (Filter{MessageType: &write}); f.matches(reply) {
		t.Error("read reply should not match write filter")
	}
}

func TestStreamReaderCountsSkipped(t *testing.T) {
	var buf bytes.Buffer
	for _, layer := range []Layer{LayerTransport, LayerWire, LayerWire, LayerClient} {
		data, err := EncodeEvent(Event{Layer: layer})
		if err != nil {
			t.Fatalf("EncodeEvent failed: %v", err)
		}
		buf.Write(data)
	}

	wire := LayerWire
	r := NewStreamReader(&buf, Filter{Layer: &wire})
	count := 0
	for _, err := range r.Events() {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		count++
	}
	if count != 2 {
		t.Errorf("got %d events, want 2", count)
	}
	if r.Skipped() != 2 {
		t.Errorf("skipped = %d, want 2", r.Skipped())
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close on stream reader: %v", err)
	}
}

func TestReaderMissingFile(t *testing.T) {
	if _, err := NewReader(filepath.Join(t.TempDir(), "missing.hlog")); err == nil {
		t.Error("expected error for missing file")
	}
}
