package harp

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Frame layout constants.
const (
	// HeaderSize covers message type and the short length byte.
	HeaderSize = 2

	// extendedLengthMarker in the length byte announces a u16 length that follows.
	extendedLengthMarker = 0xFF

	// fixedBodySize counts address, port, payload type and checksum.
	fixedBodySize = 4

	timestampSize = 6

	// MaxPayloadSize is the largest payload an extended-length frame can carry.
	MaxPayloadSize = 0xFFFF - fixedBodySize - timestampSize

	// MinFrameSize is the smallest valid frame (no payload, no timestamp).
	MinFrameSize = HeaderSize + fixedBodySize
)

// Frame errors.
var (
	ErrChecksum        = errors.New("harp: checksum mismatch")
	ErrFrameTruncated  = errors.New("harp: frame truncated")
	ErrInvalidFrame    = errors.New("harp: invalid frame")
	ErrPayloadTooLarge = errors.New("harp: payload too large")
)

// Checksum returns the sum of all bytes modulo 256.
func Checksum(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum += b
	}
	return sum
}

// MarshalBinary encodes the message as a complete frame including the checksum.
func (m Message) MarshalBinary() ([]byte, error) {
	if !m.messageType.IsValid() {
		return nil, fmt.Errorf("%w: message type 0x%02X", ErrInvalidFrame, uint8(m.messageType))
	}
	if !m.payloadType.IsValid() {
		return nil, fmt.Errorf("%w: payload type 0x%02X", ErrInvalidFrame, uint8(m.payloadType))
	}
	if len(m.payload) > MaxPayloadSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrPayloadTooLarge, len(m.payload), MaxPayloadSize)
	}

	body := fixedBodySize + len(m.payload)
	if m.hasTimestamp {
		body += timestampSize
	}

	frame := make([]byte, 0, HeaderSize+2+body)
	frame = append(frame, byte(m.messageType))
	if body < extendedLengthMarker {
		frame = append(frame, byte(body))
	} else {
		frame = append(frame, extendedLengthMarker)
		frame = binary.LittleEndian.AppendUint16(frame, uint16(body))
	}

	payloadType := m.payloadType
	if m.hasTimestamp {
		payloadType |= TimestampFlag
	}
	frame = append(frame, m.address, m.port, byte(payloadType))

	if m.hasTimestamp {
		seconds, ticks := splitTimestamp(m.timestamp)
		frame = binary.LittleEndian.AppendUint32(frame, seconds)
		frame = binary.LittleEndian.AppendUint16(frame, ticks)
	}

	frame = append(frame, m.payload...)
	frame = append(frame, Checksum(frame))
	return frame, nil
}

// FrameSize inspects the start of a frame and returns its total size in bytes.
// It needs HeaderSize bytes, or HeaderSize+2 for extended-length frames;
// ok is false when more bytes are required.
func FrameSize(prefix []byte) (size int, ok bool, err error) {
	if len(prefix) < HeaderSize {
		return 0, false, nil
	}
	if !MessageType(prefix[0]).IsValid() {
		return 0, false, fmt.Errorf("%w: message type 0x%02X", ErrInvalidFrame, prefix[0])
	}
	if prefix[1] != extendedLengthMarker {
		body := int(prefix[1])
		if body < fixedBodySize {
			return 0, false, fmt.Errorf("%w: length %d", ErrInvalidFrame, body)
		}
		return HeaderSize + body, true, nil
	}
	if len(prefix) < HeaderSize+2 {
		return 0, false, nil
	}
	body := int(binary.LittleEndian.Uint16(prefix[2:4]))
	if body < extendedLengthMarker {
		return 0, false, fmt.Errorf("%w: extended length %d", ErrInvalidFrame, body)
	}
	return HeaderSize + 2 + body, true, nil
}

// Unmarshal decodes a complete frame, verifying its checksum.
func Unmarshal(frame []byte) (Message, error) {
	size, ok, err := FrameSize(frame)
	if err != nil {
		return Message{}, err
	}
	if !ok || len(frame) < size {
		return Message{}, ErrFrameTruncated
	}
	if len(frame) > size {
		return Message{}, fmt.Errorf("%w: %d trailing bytes", ErrInvalidFrame, len(frame)-size)
	}

	if sum := Checksum(frame[:size-1]); sum != frame[size-1] {
		return Message{}, fmt.Errorf("%w: got 0x%02X, want 0x%02X", ErrChecksum, frame[size-1], sum)
	}

	offset := HeaderSize
	if frame[1] == extendedLengthMarker {
		offset += 2
	}

	m := Message{
		messageType: MessageType(frame[0]),
		address:     frame[offset],
		port:        frame[offset+1],
	}
	rawType := PayloadType(frame[offset+2])
	offset += 3

	m.hasTimestamp = rawType&TimestampFlag != 0
	m.payloadType = rawType &^ TimestampFlag
	if !m.payloadType.IsValid() {
		return Message{}, fmt.Errorf("%w: payload type 0x%02X", ErrInvalidFrame, uint8(rawType))
	}

	end := size - 1
	if m.hasTimestamp {
		if end-offset < timestampSize {
			return Message{}, fmt.Errorf("%w: timestamp truncated", ErrInvalidFrame)
		}
		seconds := binary.LittleEndian.Uint32(frame[offset:])
		ticks := binary.LittleEndian.Uint16(frame[offset+4:])
		m.timestamp = joinTimestamp(seconds, ticks)
		offset += timestampSize
	}

	m.payload = append([]byte(nil), frame[offset:end]...)
	if size := m.payloadType.Size(); size > 0 && len(m.payload)%size != 0 {
		return Message{}, fmt.Errorf("%w: payload of %d bytes is not a multiple of %s", ErrInvalidFrame, len(m.payload), m.payloadType)
	}
	return m, nil
}
