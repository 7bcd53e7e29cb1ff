package harp

import (
	"fmt"
	"math"
)

// DefaultPort is the port byte used by hosts talking to a single device.
const DefaultPort uint8 = 0xFF

// Timestamp resolution: the sub-second field counts ticks of 32 µs.
const (
	TimestampTickMicros = 32
	ticksPerSecond      = 1_000_000 / TimestampTickMicros
)

// Message is a single Harp protocol message addressed to one register.
// Messages are immutable: every method returns a copy.
type Message struct {
	messageType  MessageType
	address      uint8
	port         uint8
	payloadType  PayloadType
	payload      []byte
	timestamp    float64
	hasTimestamp bool
}

// NewMessage creates a message without a timestamp. The payload is copied.
func NewMessage(messageType MessageType, address uint8, payloadType PayloadType, payload []byte) Message {
	return Message{
		messageType: messageType,
		address:     address,
		port:        DefaultPort,
		payloadType: payloadType,
		payload:     append([]byte(nil), payload...),
	}
}

// NewTimestampedMessage creates a message carrying a timestamp in seconds.
func NewTimestampedMessage(seconds float64, messageType MessageType, address uint8, payloadType PayloadType, payload []byte) Message {
	return NewMessage(messageType, address, payloadType, payload).WithTimestamp(seconds)
}

// NewReadRequest creates a read request for a register of the given payload type.
// Read requests carry no payload.
func NewReadRequest(address uint8, payloadType PayloadType) Message {
	return NewMessage(Read, address, payloadType, nil)
}

// Type returns the message type, including the error flag.
func (m Message) Type() MessageType { return m.messageType }

// Address returns the register address.
func (m Message) Address() uint8 { return m.address }

// Port returns the port byte.
func (m Message) Port() uint8 { return m.port }

// PayloadType returns the payload element type, without the timestamp flag.
func (m Message) PayloadType() PayloadType { return m.payloadType }

// Payload returns a copy of the raw payload bytes.
func (m Message) Payload() []byte {
	return append([]byte(nil), m.payload...)
}

// PayloadLen returns the payload size in bytes.
func (m Message) PayloadLen() int { return len(m.payload) }

// Count returns the number of payload elements.
func (m Message) Count() int {
	size := m.payloadType.Size()
	if size == 0 {
		return 0
	}
	return len(m.payload) / size
}

// IsError reports whether the device flagged this message as an error reply.
func (m Message) IsError() bool { return m.messageType.IsError() }

// HasTimestamp reports whether the message carries a timestamp.
func (m Message) HasTimestamp() bool { return m.hasTimestamp }

// Timestamp returns the timestamp in seconds and whether one is present.
func (m Message) Timestamp() (float64, bool) {
	return m.timestamp, m.hasTimestamp
}

// WithTimestamp returns a copy of the message carrying the given timestamp.
func (m Message) WithTimestamp(seconds float64) Message {
	m.payload = append([]byte(nil), m.payload...)
	m.timestamp = seconds
	m.hasTimestamp = true
	return m
}

// WithoutTimestamp returns a copy of the message with the timestamp removed.
func (m Message) WithoutTimestamp() Message {
	m.payload = append([]byte(nil), m.payload...)
	m.timestamp = 0
	m.hasTimestamp = false
	return m
}

// WithPort returns a copy of the message addressed to another port.
func (m Message) WithPort(port uint8) Message {
	m.payload = append([]byte(nil), m.payload...)
	m.port = port
	return m
}

// WithType returns a copy of the message with a different message type.
func (m Message) WithType(messageType MessageType) Message {
	m.payload = append([]byte(nil), m.payload...)
	m.messageType = messageType
	return m
}

// Equal reports whether two messages carry the same header, payload and timestamp.
func (m Message) Equal(other Message) bool {
	if m.messageType != other.messageType || m.address != other.address ||
		m.port != other.port || m.payloadType != other.payloadType ||
		m.hasTimestamp != other.hasTimestamp || m.timestamp != other.timestamp {
		return false
	}
	if len(m.payload) != len(other.payload) {
		return false
	}
	for i := range m.payload {
		if m.payload[i] != other.payload[i] {
			return false
		}
	}
	return true
}

// String returns a compact human-readable form used in logs.
func (m Message) String() string {
	if m.hasTimestamp {
		return fmt.Sprintf("%s addr=%d %s[%d] t=%.6f % X", m.messageType, m.address, m.payloadType, m.Count(), m.timestamp, m.payload)
	}
	return fmt.Sprintf("%s addr=%d %s[%d] % X", m.messageType, m.address, m.payloadType, m.Count(), m.payload)
}

// splitTimestamp quantizes seconds to the wire representation.
func splitTimestamp(seconds float64) (uint32, uint16) {
	if seconds <= 0 || math.IsNaN(seconds) {
		return 0, 0
	}
	if seconds >= math.MaxUint32 {
		return math.MaxUint32, ticksPerSecond - 1
	}
	whole := math.Floor(seconds)
	ticks := math.Round((seconds - whole) * ticksPerSecond)
	if ticks >= ticksPerSecond {
		whole++
		ticks = 0
	}
	return uint32(whole), uint16(ticks)
}

// joinTimestamp converts the wire representation to seconds.
// Computed from integer microseconds so that whole-tick values are exact.
func joinTimestamp(seconds uint32, ticks uint16) float64 {
	return float64(seconds) + float64(uint32(ticks)*TimestampTickMicros)/1e6
}
