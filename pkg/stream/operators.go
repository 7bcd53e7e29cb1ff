package stream

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/harp-tech/faststepper-go/pkg/harp"
	"github.com/harp-tech/faststepper-go/pkg/register"
)

// ErrErrorReply is reported by Parse for replies carrying the error flag.
var ErrErrorReply = errors.New("device replied with error")

// Target identifies a register by address. Both register.Register and
// register.Array satisfy it.
type Target interface {
	Address() uint8
}

// Group is the ordered sub-sequence of messages for one register.
type Group struct {
	Register register.Descriptor
	Messages []harp.Message
}

// Command is a value to format into a message of the given type.
type Command[T any] struct {
	Type  harp.MessageType
	Value T
}

// Decoded is a message with the values decoded by its register's descriptor.
type Decoded struct {
	Register register.Descriptor
	Message  harp.Message
	Values   []int64
}

// TimestampedCommand is a Command carrying a device timestamp in seconds.
type TimestampedCommand[T any] struct {
	Seconds float64
	Type    harp.MessageType
	Value   T
}

// GroupByRegister pairs every message with the descriptor of its register.
// Messages for addresses outside the schema are skipped and reported with
// register.ErrUnknownRegister.
func GroupByRegister(s *register.Schema, msgs iter.Seq[harp.Message], opts ...Option) iter.Seq2[register.Descriptor, harp.Message] {
	o := buildOptions(opts)
	return func(yield func(register.Descriptor, harp.Message) bool) {
		for msg := range msgs {
			d, err := s.Lookup(msg.Address())
			if err != nil {
				o.report(msg, err)
				continue
			}
			if !yield(d, msg) {
				return
			}
		}
	}
}

// Groups drains a finite sequence into per-register groups, ordered by the
// first arrival of each register. Order within a group is arrival order.
func Groups(s *register.Schema, msgs iter.Seq[harp.Message], opts ...Option) []Group {
	var groups []Group
	index := make(map[uint8]int)
	for d, msg := range GroupByRegister(s, msgs, opts...) {
		i, ok := index[d.Address]
		if !ok {
			i = len(groups)
			index[d.Address] = i
			groups = append(groups, Group{Register: d})
		}
		groups[i].Messages = append(groups[i].Messages, msg)
	}
	return groups
}

// FilterRegister keeps the messages addressed to target. Messages pass
// through unchanged, timestamp included.
func FilterRegister(target Target, msgs iter.Seq[harp.Message], opts ...Option) iter.Seq[harp.Message] {
	o := buildOptions(opts)
	addr := target.Address()
	return func(yield func(harp.Message) bool) {
		for msg := range msgs {
			if msg.Address() != addr || !o.matchType(msg) {
				continue
			}
			if !yield(msg) {
				return
			}
		}
	}
}

// Parse decodes the messages addressed to r. Error replies and messages
// whose payload does not decode are skipped and reported.
func Parse[T register.Integer](r register.Register[T], msgs iter.Seq[harp.Message], opts ...Option) iter.Seq[T] {
	return parse(r, msgs, r.Decode, opts)
}

// ParseTimestamped is Parse keeping the device timestamp. Messages without a
// timestamp are skipped and reported with register.ErrMissingTimestamp.
func ParseTimestamped[T register.Integer](r register.Register[T], msgs iter.Seq[harp.Message], opts ...Option) iter.Seq[register.Timestamped[T]] {
	return parse(r, msgs, r.DecodeTimestamped, opts)
}

// ParseArray decodes the messages addressed to an array register.
func ParseArray[T register.Integer](a register.Array[T], msgs iter.Seq[harp.Message], opts ...Option) iter.Seq[[]T] {
	return parse(a, msgs, a.Decode, opts)
}

// ParseRegisters is Parse over a whole schema. Each message is grouped by
// register and decoded as widened integers by its descriptor.
func ParseRegisters(s *register.Schema, msgs iter.Seq[harp.Message], opts ...Option) iter.Seq[Decoded] {
	o := buildOptions(opts)
	return func(yield func(Decoded) bool) {
		for d, msg := range GroupByRegister(s, msgs, opts...) {
			if !o.matchType(msg) {
				continue
			}
			if msg.IsError() {
				o.report(msg, fmt.Errorf("%w: %s", ErrErrorReply, msg.Type()))
				continue
			}
			values, err := register.DecodeValues(d, msg)
			if err != nil {
				o.report(msg, err)
				continue
			}
			if !yield(Decoded{Register: d, Message: msg, Values: values}) {
				return
			}
		}
	}
}

func parse[V any](target Target, msgs iter.Seq[harp.Message], decode func(harp.Message) (V, error), opts []Option) iter.Seq[V] {
	o := buildOptions(opts)
	return func(yield func(V) bool) {
		for msg := range FilterRegister(target, msgs, opts...) {
			if msg.IsError() {
				o.report(msg, fmt.Errorf("%w: %s", ErrErrorReply, msg.Type()))
				continue
			}
			v, err := decode(msg)
			if err != nil {
				o.report(msg, err)
				continue
			}
			if !yield(v) {
				return
			}
		}
	}
}

// Format encodes each command as a message for r.
func Format[T register.Integer](r register.Register[T], cmds iter.Seq[Command[T]]) iter.Seq[harp.Message] {
	return func(yield func(harp.Message) bool) {
		for c := range cmds {
			if !yield(r.Encode(c.Type, c.Value)) {
				return
			}
		}
	}
}

// FormatTimestamped encodes each command as a timestamped message for r.
func FormatTimestamped[T register.Integer](r register.Register[T], cmds iter.Seq[TimestampedCommand[T]]) iter.Seq[harp.Message] {
	return func(yield func(harp.Message) bool) {
		for c := range cmds {
			if !yield(r.EncodeTimestamped(c.Seconds, c.Type, c.Value)) {
				return
			}
		}
	}
}

// Writes turns plain values into Write commands for Format.
func Writes[T any](values iter.Seq[T]) iter.Seq[Command[T]] {
	return func(yield func(Command[T]) bool) {
		for v := range values {
			if !yield(Command[T]{Type: harp.Write, Value: v}) {
				return
			}
		}
	}
}

// FromChannel adapts a message channel to a sequence. The sequence ends when
// the channel closes or ctx is done.
func FromChannel(ctx context.Context, ch <-chan harp.Message) iter.Seq[harp.Message] {
	return func(yield func(harp.Message) bool) {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok || !yield(msg) {
					return
				}
			}
		}
	}
}

// Send writes every message of the sequence with send, stopping at the first
// error.
func Send(msgs iter.Seq[harp.Message], send func(harp.Message) error) error {
	for msg := range msgs {
		if err := send(msg); err != nil {
			return err
		}
	}
	return nil
}
