package log

import (
	"time"

	"github.com/harp-tech/faststepper-go/pkg/harp"
)

// Event represents a protocol log event captured at any layer.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// ConnectionID uniquely identifies the serial session (UUID).
	ConnectionID string `cbor:"2,keyasint"`

	// Direction indicates message flow relative to the host.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// Target is the serial port name or other connection target.
	Target string `cbor:"6,keyasint,omitempty"`

	// WhoAmI is the device identity (populated after the handshake).
	WhoAmI uint16 `cbor:"7,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Frame       *FrameEvent       `cbor:"10,keyasint,omitempty"` // Transport layer
	Message     *MessageEvent     `cbor:"11,keyasint,omitempty"` // Wire layer (decoded)
	StateChange *StateChangeEvent `cbor:"12,keyasint,omitempty"` // Connection/client state
	Error       *ErrorEventData   `cbor:"14,keyasint,omitempty"` // Errors at any layer
}

// Direction indicates the direction of message flow.
type Direction uint8

const (
	// DirectionIn indicates a message from the device.
	DirectionIn Direction = 0
	// DirectionOut indicates a message to the device.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which protocol layer captured the event.
type Layer uint8

const (
	// LayerTransport is the framing layer (raw bytes).
	LayerTransport Layer = 0
	// LayerWire is the decoded message layer.
	LayerWire Layer = 1
	// LayerClient is the typed command client.
	LayerClient Layer = 2
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerTransport:
		return "TRANSPORT"
	case LayerWire:
		return "WIRE"
	case LayerClient:
		return "CLIENT"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryMessage indicates a protocol message (request, reply or event).
	CategoryMessage Category = 0
	// CategoryState indicates a state change.
	CategoryState Category = 2
	// CategoryError indicates an error event.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryMessage:
		return "MESSAGE"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// FrameEvent captures raw frame data at the transport layer.
type FrameEvent struct {
	// Size is the frame size in bytes (including checksum).
	Size int `cbor:"1,keyasint"`

	// Data is the raw frame bytes (may be truncated for large frames).
	Data []byte `cbor:"2,keyasint,omitempty"`

	// Truncated indicates if Data was truncated.
	Truncated bool `cbor:"3,keyasint,omitempty"`

	// Discarded counts bytes skipped while resynchronizing before this frame.
	Discarded int `cbor:"4,keyasint,omitempty"`
}

// MessageEvent captures a decoded Harp message.
type MessageEvent struct {
	// Type is the message type, including the error flag.
	Type harp.MessageType `cbor:"1,keyasint"`

	// Address is the register address.
	Address uint8 `cbor:"2,keyasint"`

	// Port is the port byte.
	Port uint8 `cbor:"3,keyasint"`

	// PayloadType is the payload element type.
	PayloadType harp.PayloadType `cbor:"4,keyasint"`

	// Payload is the raw payload.
	Payload []byte `cbor:"5,keyasint,omitempty"`

	// DeviceTime is the message timestamp in seconds, if present.
	DeviceTime *float64 `cbor:"6,keyasint,omitempty"`

	// Register is the resolved register name (empty when unknown).
	Register string `cbor:"7,keyasint,omitempty"`

	// Latency is the time between request and reply (replies only).
	// Stored as nanoseconds.
	Latency *time.Duration `cbor:"8,keyasint,omitempty"`
}

// NewMessageEvent captures msg.
func NewMessageEvent(msg harp.Message) *MessageEvent {
	ev := &MessageEvent{
		Type:        msg.Type(),
		Address:     msg.Address(),
		Port:        msg.Port(),
		PayloadType: msg.PayloadType(),
		Payload:     msg.Payload(),
	}
	if ts, ok := msg.Timestamp(); ok {
		ev.DeviceTime = &ts
	}
	return ev
}

// StateChangeEvent captures connection and client lifecycle events.
type StateChangeEvent struct {
	// Entity being changed.
	Entity StateEntity `cbor:"1,keyasint"`

	// OldState is the previous state (may be empty).
	OldState string `cbor:"2,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"3,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"4,keyasint,omitempty"`
}

// StateEntity indicates what entity changed state.
type StateEntity uint8

const (
	// StateEntityConnection indicates a connection state change.
	StateEntityConnection StateEntity = 0
	// StateEntityClient indicates a command client state change.
	StateEntityClient StateEntity = 1
)

// String returns the state entity name.
func (s StateEntity) String() string {
	switch s {
	case StateEntityConnection:
		return "CONNECTION"
	case StateEntityClient:
		return "CLIENT"
	default:
		return "UNKNOWN"
	}
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Address is the register involved (if applicable).
	Address *uint8 `cbor:"3,keyasint,omitempty"`

	// Context describes what operation was being performed.
	Context string `cbor:"4,keyasint,omitempty"`
}
