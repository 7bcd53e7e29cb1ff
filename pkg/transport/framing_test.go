package transport

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harp-tech/faststepper-go/pkg/harp"
	"github.com/harp-tech/faststepper-go/pkg/log"
)

func mustFrame(t *testing.T, msg harp.Message) []byte {
	t.Helper()
	frame, err := msg.MarshalBinary()
	require.NoError(t, err)
	return frame
}

func TestFrameWriterReader(t *testing.T) {
	tests := []struct {
		name string
		msg  harp.Message
	}{
		{"read request", harp.NewReadRequest(32, harp.U16)},
		{"write", harp.NewMessage(harp.Write, 39, harp.S32, []byte{0x90, 0x01, 0, 0})},
		{"timestamped event", harp.NewTimestampedMessage(10.25, harp.Event, 33, harp.S16, []byte{1, 0})},
		{"error reply", harp.NewMessage(harp.Write|harp.ErrorFlag, 33, harp.S16, []byte{0, 0})},
		{"extended length", harp.NewMessage(harp.Event, 12, harp.U8, bytes.Repeat([]byte{'a'}, 300))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, NewFrameWriter(&buf).WriteMessage(tt.msg))

			got, err := NewFrameReader(&buf).ReadMessage()
			require.NoError(t, err)
			assert.True(t, tt.msg.Equal(got), "got %v, want %v", got, tt.msg)
		})
	}
}

func TestFrameReaderSequence(t *testing.T) {
	var buf bytes.Buffer
	w := NewFrameWriter(&buf)
	for addr := uint8(32); addr < 36; addr++ {
		require.NoError(t, w.WriteMessage(harp.NewReadRequest(addr, harp.U8)))
	}

	r := NewFrameReader(&buf)
	for addr := uint8(32); addr < 36; addr++ {
		msg, err := r.ReadMessage()
		require.NoError(t, err)
		assert.Equal(t, addr, msg.Address())
	}
	_, err := r.ReadMessage()
	assert.ErrorIs(t, err, io.EOF)
}

func TestFrameReaderResynchronizes(t *testing.T) {
	good := mustFrame(t, harp.NewMessage(harp.Event, 37, harp.U8, []byte{1}))
	// None of the bytes after the first one of this frame parse as a frame header.
	corrupt := mustFrame(t, harp.NewMessage(harp.Write, 0x30, harp.S8, []byte{0x30}))
	require.NotEqual(t, byte(0x00), corrupt[len(corrupt)-1])
	corrupt[len(corrupt)-1] = 0x00

	var stream []byte
	stream = append(stream, 0x00, 0x42) // line noise
	stream = append(stream, corrupt...)
	stream = append(stream, good...)

	r := NewFrameReader(bytes.NewReader(stream))
	msg, err := r.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, uint8(37), msg.Address())
	assert.Equal(t, 2+len(corrupt), r.Discarded())
}

func TestFrameReaderTruncated(t *testing.T) {
	frame := mustFrame(t, harp.NewMessage(harp.Write, 40, harp.S32, []byte{1, 2, 3, 4}))

	_, err := NewFrameReader(bytes.NewReader(frame[:len(frame)-2])).ReadMessage()
	assert.True(t, errors.Is(err, harp.ErrFrameTruncated), "got %v", err)

	_, err = NewFrameReader(bytes.NewReader(frame[:1])).ReadMessage()
	assert.ErrorIs(t, err, harp.ErrFrameTruncated)
}

type captureLogger struct {
	events []log.Event
}

func (c *captureLogger) Log(e log.Event) { c.events = append(c.events, e) }

func TestFramerLogsFrames(t *testing.T) {
	var buf bytes.Buffer
	capture := &captureLogger{}
	f := NewFramer(&buf)
	f.SetLogger(capture, "conn-1")

	msg := harp.NewMessage(harp.Write, 32, harp.U16, []byte{0x11, 0})
	require.NoError(t, f.WriteMessage(msg))
	_, err := f.ReadMessage()
	require.NoError(t, err)

	require.Len(t, capture.events, 2)
	out, in := capture.events[0], capture.events[1]
	assert.Equal(t, log.DirectionOut, out.Direction)
	assert.Equal(t, log.DirectionIn, in.Direction)
	assert.Equal(t, "conn-1", in.ConnectionID)
	assert.Equal(t, log.LayerTransport, in.Layer)
	require.NotNil(t, in.Frame)
	assert.Equal(t, mustFrame(t, msg), in.Frame.Data)
	assert.Equal(t, len(in.Frame.Data), in.Frame.Size)
}

func TestFrameWriterRejectsInvalidMessage(t *testing.T) {
	var buf bytes.Buffer
	err := NewFrameWriter(&buf).WriteMessage(harp.NewMessage(harp.MessageType(0x07), 1, harp.U8, nil))
	assert.Error(t, err)
	assert.Zero(t, buf.Len())
}
