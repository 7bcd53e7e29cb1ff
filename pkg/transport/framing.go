package transport

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/harp-tech/faststepper-go/pkg/harp"
	"github.com/harp-tech/faststepper-go/pkg/log"
)

// Framing constants.
const (
	// readBufferSize holds the largest extended-length frame.
	readBufferSize = harp.HeaderSize + 2 + 0xFFFF

	// MaxLogFrameDataSize is the maximum frame data size to include in logs (4 KB).
	// Larger frames are truncated in log events.
	MaxLogFrameDataSize = 4096
)

// FrameWriter writes Harp frames to an underlying writer.
type FrameWriter struct {
	w  io.Writer
	mu sync.Mutex

	// Logging support (optional)
	logger log.Logger
	connID string
}

// NewFrameWriter creates a new frame writer.
func NewFrameWriter(w io.Writer) *FrameWriter {
	return &FrameWriter{w: w}
}

// SetLogger configures logging for this writer.
// Pass nil to disable logging.
func (fw *FrameWriter) SetLogger(logger log.Logger, connID string) {
	fw.logger = logger
	fw.connID = connID
}

// WriteMessage encodes msg and writes it as a single frame.
// Thread-safe: can be called from multiple goroutines.
func (fw *FrameWriter) WriteMessage(msg harp.Message) error {
	frame, err := msg.MarshalBinary()
	if err != nil {
		return err
	}

	fw.mu.Lock()
	defer fw.mu.Unlock()

	if _, err := fw.w.Write(frame); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}

	if fw.logger != nil {
		fw.logger.Log(makeFrameEvent(fw.connID, frame, log.DirectionOut, 0))
	}
	return nil
}

// FrameReader reads Harp frames from an underlying reader. Bytes that do not
// start a valid frame are skipped one at a time until the stream is back in
// sync.
type FrameReader struct {
	r *bufio.Reader

	// Logging support (optional)
	logger log.Logger
	connID string

	discarded int
}

// NewFrameReader creates a new frame reader.
func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{r: bufio.NewReaderSize(r, readBufferSize)}
}

// SetLogger configures logging for this reader.
// Pass nil to disable logging.
func (fr *FrameReader) SetLogger(logger log.Logger, connID string) {
	fr.logger = logger
	fr.connID = connID
}

// Discarded returns the total number of bytes skipped while resynchronizing.
func (fr *FrameReader) Discarded() int {
	return fr.discarded
}

// ReadMessage reads the next valid frame. It returns io.EOF when the stream
// ends on a frame boundary and harp.ErrFrameTruncated when it ends mid-frame.
func (fr *FrameReader) ReadMessage() (harp.Message, error) {
	skipped := 0
	for {
		size, err := fr.peekSize()
		if err != nil {
			if errors.Is(err, harp.ErrInvalidFrame) {
				fr.skip()
				skipped++
				continue
			}
			return harp.Message{}, err
		}

		frame, err := fr.r.Peek(size)
		if err != nil {
			return harp.Message{}, eofAsTruncated(err)
		}
		msg, err := harp.Unmarshal(frame)
		if err != nil {
			fr.skip()
			skipped++
			continue
		}

		if fr.logger != nil {
			fr.logger.Log(makeFrameEvent(fr.connID, frame, log.DirectionIn, skipped))
		}
		_, _ = fr.r.Discard(size)
		return msg, nil
	}
}

func (fr *FrameReader) peekSize() (int, error) {
	prefix, err := fr.r.Peek(harp.HeaderSize)
	if err != nil {
		if errors.Is(err, io.EOF) && len(prefix) == 0 {
			return 0, io.EOF
		}
		return 0, eofAsTruncated(err)
	}
	size, ok, err := harp.FrameSize(prefix)
	if err != nil {
		return 0, err
	}
	if ok {
		return size, nil
	}
	prefix, err = fr.r.Peek(harp.HeaderSize + 2)
	if err != nil {
		return 0, eofAsTruncated(err)
	}
	size, _, err = harp.FrameSize(prefix)
	return size, err
}

func (fr *FrameReader) skip() {
	_, _ = fr.r.Discard(1)
	fr.discarded++
}

func eofAsTruncated(err error) error {
	if errors.Is(err, io.EOF) {
		return harp.ErrFrameTruncated
	}
	return err
}

// makeFrameEvent creates a log event for a frame.
func makeFrameEvent(connID string, frame []byte, direction log.Direction, discarded int) log.Event {
	data := frame
	truncated := false
	if len(data) > MaxLogFrameDataSize {
		data = data[:MaxLogFrameDataSize]
		truncated = true
	}

	return log.Event{
		Timestamp:    time.Now(),
		ConnectionID: connID,
		Direction:    direction,
		Layer:        log.LayerTransport,
		Category:     log.CategoryMessage,
		Frame: &log.FrameEvent{
			Size:      len(frame),
			Data:      append([]byte(nil), data...),
			Truncated: truncated,
			Discarded: discarded,
		},
	}
}

// Framer combines frame reading and writing.
type Framer struct {
	*FrameReader
	*FrameWriter
}

// NewFramer creates a new framer for bidirectional communication.
func NewFramer(rw io.ReadWriter) *Framer {
	return &Framer{
		FrameReader: NewFrameReader(rw),
		FrameWriter: NewFrameWriter(rw),
	}
}

// SetLogger configures logging for both reader and writer.
// Pass nil to disable logging.
func (f *Framer) SetLogger(logger log.Logger, connID string) {
	f.FrameReader.SetLogger(logger, connID)
	f.FrameWriter.SetLogger(logger, connID)
}
