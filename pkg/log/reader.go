package log

import (
	"errors"
	"io"
	"iter"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/harp-tech/faststepper-go/pkg/harp"
)

// Filter selects capture events. Zero-valued fields match everything.
type Filter struct {
	ConnectionID string
	Target       string

	Direction *Direction
	Layer     *Layer
	Category  *Category

	// TimeStart is inclusive, TimeEnd exclusive.
	TimeStart *time.Time
	TimeEnd   *time.Time

	// Address keeps message events and error events for one register.
	Address *uint8

	// MessageType keeps message events of one base type; error replies
	// match their base type.
	MessageType *harp.MessageType
}

func (f *Filter) matches(e Event) bool {
	switch {
	case f.ConnectionID != "" && e.ConnectionID != f.ConnectionID,
		f.Target != "" && e.Target != f.Target,
		f.Direction != nil && e.Direction != *f.Direction,
		f.Layer != nil && e.Layer != *f.Layer,
		f.Category != nil && e.Category != *f.Category,
		f.TimeStart != nil && e.Timestamp.Before(*f.TimeStart),
		f.TimeEnd != nil && !e.Timestamp.Before(*f.TimeEnd):
		return false
	}
	if f.Address != nil {
		addr, ok := eventAddress(e)
		if !ok || addr != *f.Address {
			return false
		}
	}
	if f.MessageType != nil && (e.Message == nil || e.Message.Type.Base() != f.MessageType.Base()) {
		return false
	}
	return true
}

// eventAddress returns the register address an event refers to, if any.
func eventAddress(e Event) (uint8, bool) {
	switch {
	case e.Message != nil:
		return e.Message.Address, true
	case e.Error != nil && e.Error.Address != nil:
		return *e.Error.Address, true
	default:
		return 0, false
	}
}

// Reader streams events from a capture file, skipping those the filter rejects.
type Reader struct {
	closer  io.Closer
	decoder *cbor.Decoder
	filter  Filter
	skipped int
}

// NewReader opens a capture file and reads every event in it.
func NewReader(path string) (*Reader, error) {
	return NewFilteredReader(path, Filter{})
}

// NewFilteredReader opens a capture file and reads the events matching filter.
func NewFilteredReader(path string, filter Filter) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r := NewStreamReader(f, filter)
	r.closer = f
	return r, nil
}

// NewStreamReader reads capture events from src, which the Reader does not close.
func NewStreamReader(src io.Reader, filter Filter) *Reader {
	return &Reader{decoder: NewDecoder(src), filter: filter}
}

// Next returns the next matching event, or io.EOF at the end of the capture.
func (r *Reader) Next() (Event, error) {
	for {
		var event Event
		if err := r.decoder.Decode(&event); err != nil {
			if errors.Is(err, io.EOF) {
				return Event{}, io.EOF
			}
			return Event{}, err
		}
		if !r.filter.matches(event) {
			r.skipped++
			continue
		}
		return event, nil
	}
}

// Events iterates the remaining matching events. Iteration stops after the
// first decode error, which is yielded with a zero Event.
func (r *Reader) Events() iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		for {
			event, err := r.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(event, err) || err != nil {
				return
			}
		}
	}
}

// Skipped returns how many decoded events the filter rejected so far.
func (r *Reader) Skipped() int { return r.skipped }

// Close closes the capture file opened by NewReader or NewFilteredReader.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
