package register

import (
	"encoding/binary"
	"fmt"

	"github.com/harp-tech/faststepper-go/pkg/harp"
)

// Integer is the set of Go types a register value can decode to. Named types
// such as ControlFlags qualify through their underlying type.
type Integer interface {
	~uint8 | ~int8 | ~uint16 | ~int16 | ~uint32 | ~int32
}

// Timestamped pairs a decoded value with the timestamp of its source message.
type Timestamped[T any] struct {
	Seconds float64
	Value   T
}

// Register is the typed codec of a single-element register.
type Register[T Integer] struct {
	desc Descriptor
}

// Define binds T to the register at addr. T must have the width and
// signedness of the register's wire type.
func Define[T Integer](s *Schema, addr uint8) (Register[T], error) {
	d, err := s.Lookup(addr)
	if err != nil {
		return Register[T]{}, err
	}
	if d.Length != 1 {
		return Register[T]{}, fmt.Errorf("register %s: length %d needs an array codec", d.Name, d.Length)
	}
	if err := checkType[T](d); err != nil {
		return Register[T]{}, err
	}
	return Register[T]{desc: d}, nil
}

// MustDefine is like Define but panics on error.
func MustDefine[T Integer](s *Schema, addr uint8) Register[T] {
	r, err := Define[T](s, addr)
	if err != nil {
		panic(err)
	}
	return r
}

// Descriptor returns the register descriptor.
func (r Register[T]) Descriptor() Descriptor { return r.desc }

// Address returns the register address.
func (r Register[T]) Address() uint8 { return r.desc.Address }

// Name returns the register name.
func (r Register[T]) Name() string { return r.desc.Name }

// Decode reinterprets the message payload as T. Unknown flag bits are kept.
func (r Register[T]) Decode(msg harp.Message) (T, error) {
	var zero T
	if err := checkMessage(r.desc, msg); err != nil {
		return zero, err
	}
	return decodeElement[T](msg.Payload()), nil
}

// DecodeTimestamped decodes the message and pairs the value with its timestamp.
func (r Register[T]) DecodeTimestamped(msg harp.Message) (Timestamped[T], error) {
	seconds, ok := msg.Timestamp()
	if !ok {
		return Timestamped[T]{}, fmt.Errorf("%w: %s", ErrMissingTimestamp, r.desc)
	}
	v, err := r.Decode(msg)
	if err != nil {
		return Timestamped[T]{}, err
	}
	return Timestamped[T]{Seconds: seconds, Value: v}, nil
}

// Encode builds a message of the given type carrying v. Every value of T is
// representable, so Encode cannot fail.
func (r Register[T]) Encode(messageType harp.MessageType, v T) harp.Message {
	return harp.NewMessage(messageType, r.desc.Address, r.desc.Wire.PayloadType(), encodeElement(r.desc.Wire.Size(), v))
}

// EncodeTimestamped is Encode with an explicit timestamp, for replay and simulation.
func (r Register[T]) EncodeTimestamped(seconds float64, messageType harp.MessageType, v T) harp.Message {
	return r.Encode(messageType, v).WithTimestamp(seconds)
}

// ReadRequest returns the read request for this register.
func (r Register[T]) ReadRequest() harp.Message {
	return harp.NewReadRequest(r.desc.Address, r.desc.Wire.PayloadType())
}

// Array is the typed codec of a register carrying several elements.
type Array[T Integer] struct {
	desc Descriptor
}

// DefineArray binds T to the elements of the register at addr.
func DefineArray[T Integer](s *Schema, addr uint8) (Array[T], error) {
	d, err := s.Lookup(addr)
	if err != nil {
		return Array[T]{}, err
	}
	if err := checkType[T](d); err != nil {
		return Array[T]{}, err
	}
	return Array[T]{desc: d}, nil
}

// MustDefineArray is like DefineArray but panics on error.
func MustDefineArray[T Integer](s *Schema, addr uint8) Array[T] {
	a, err := DefineArray[T](s, addr)
	if err != nil {
		panic(err)
	}
	return a
}

// Descriptor returns the register descriptor.
func (a Array[T]) Descriptor() Descriptor { return a.desc }

// Address returns the register address.
func (a Array[T]) Address() uint8 { return a.desc.Address }

// Decode returns the payload elements.
func (a Array[T]) Decode(msg harp.Message) ([]T, error) {
	if err := checkMessage(a.desc, msg); err != nil {
		return nil, err
	}
	payload := msg.Payload()
	size := a.desc.Wire.Size()
	out := make([]T, a.desc.Length)
	for i := range out {
		out[i] = decodeElement[T](payload[i*size:])
	}
	return out, nil
}

// DecodeTimestamped decodes the message and pairs the elements with its timestamp.
func (a Array[T]) DecodeTimestamped(msg harp.Message) (Timestamped[[]T], error) {
	seconds, ok := msg.Timestamp()
	if !ok {
		return Timestamped[[]T]{}, fmt.Errorf("%w: %s", ErrMissingTimestamp, a.desc)
	}
	v, err := a.Decode(msg)
	if err != nil {
		return Timestamped[[]T]{}, err
	}
	return Timestamped[[]T]{Seconds: seconds, Value: v}, nil
}

// Encode builds a message carrying values. Short inputs are zero padded;
// inputs longer than the register fail with ErrPayloadSizeMismatch.
func (a Array[T]) Encode(messageType harp.MessageType, values []T) (harp.Message, error) {
	if len(values) > a.desc.Length {
		return harp.Message{}, fmt.Errorf("%w: %s holds %d elements, got %d", ErrPayloadSizeMismatch, a.desc, a.desc.Length, len(values))
	}
	size := a.desc.Wire.Size()
	payload := make([]byte, 0, a.desc.PayloadSize())
	for _, v := range values {
		payload = append(payload, encodeElement(size, v)...)
	}
	payload = append(payload, make([]byte, a.desc.PayloadSize()-len(payload))...)
	return harp.NewMessage(messageType, a.desc.Address, a.desc.Wire.PayloadType(), payload), nil
}

// ReadRequest returns the read request for this register.
func (a Array[T]) ReadRequest() harp.Message {
	return harp.NewReadRequest(a.desc.Address, a.desc.Wire.PayloadType())
}

// DecodeValues decodes any register payload into plain integers, for callers
// that only know the register at run time.
func DecodeValues(d Descriptor, msg harp.Message) ([]int64, error) {
	if err := checkMessage(d, msg); err != nil {
		return nil, err
	}
	payload := msg.Payload()
	size := d.Wire.Size()
	out := make([]int64, d.Length)
	for i := range out {
		el := payload[i*size:]
		switch d.Wire {
		case U8:
			out[i] = int64(el[0])
		case U16:
			out[i] = int64(binary.LittleEndian.Uint16(el))
		case S16:
			out[i] = int64(int16(binary.LittleEndian.Uint16(el)))
		case U32:
			out[i] = int64(binary.LittleEndian.Uint32(el))
		case S32:
			out[i] = int64(int32(binary.LittleEndian.Uint32(el)))
		}
	}
	return out, nil
}

// EncodeValues is the inverse of DecodeValues. Values outside the wire range
// fail with ErrValueOutOfRange.
func EncodeValues(d Descriptor, messageType harp.MessageType, values []int64) (harp.Message, error) {
	if len(values) != d.Length {
		return harp.Message{}, fmt.Errorf("%w: %s holds %d elements, got %d", ErrPayloadSizeMismatch, d, d.Length, len(values))
	}
	lo, hi := d.Wire.Range()
	size := d.Wire.Size()
	payload := make([]byte, 0, d.PayloadSize())
	for _, v := range values {
		if v < lo || v > hi {
			return harp.Message{}, fmt.Errorf("%w: %d not in [%d, %d] for %s", ErrValueOutOfRange, v, lo, hi, d)
		}
		payload = append(payload, encodeElement(size, uint32(v))...)
	}
	return harp.NewMessage(messageType, d.Address, d.Wire.PayloadType(), payload), nil
}

func checkType[T Integer](d Descriptor) error {
	var zero T
	size := binary.Size(zero)
	signed := zero-1 < zero
	if size != d.Wire.Size() || signed != d.Wire.Signed() {
		return fmt.Errorf("%w: %s is %s, Go type %T has %d bytes (signed=%t)", ErrTypeMismatch, d, d.Wire, zero, size, signed)
	}
	return nil
}

func checkMessage(d Descriptor, msg harp.Message) error {
	if msg.Address() != d.Address {
		return fmt.Errorf("%w: %s got message for address %d", ErrAddressMismatch, d, msg.Address())
	}
	if msg.PayloadType() != d.Wire.PayloadType() {
		return fmt.Errorf("%w: %s expects %s, got %s", ErrPayloadSizeMismatch, d, d.Wire.PayloadType(), msg.PayloadType())
	}
	if msg.PayloadLen() != d.PayloadSize() {
		return fmt.Errorf("%w: %s expects %d bytes, got %d", ErrPayloadSizeMismatch, d, d.PayloadSize(), msg.PayloadLen())
	}
	return nil
}

func decodeElement[T Integer](b []byte) T {
	var zero T
	switch binary.Size(zero) {
	case 1:
		return T(b[0])
	case 2:
		return T(binary.LittleEndian.Uint16(b))
	default:
		return T(binary.LittleEndian.Uint32(b))
	}
}

func encodeElement[T Integer](size int, v T) []byte {
	b := make([]byte, size)
	switch size {
	case 1:
		b[0] = byte(v)
	case 2:
		binary.LittleEndian.PutUint16(b, uint16(v))
	default:
		binary.LittleEndian.PutUint32(b, uint32(v))
	}
	return b
}
