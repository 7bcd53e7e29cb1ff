package transport

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// timeoutPort returns empty reads the way a serial port does when its read
// timeout expires.
type timeoutPort struct {
	reads  [][]byte
	eof    bool // POSIX ports report a timeout as io.EOF
	closed bool
}

func (p *timeoutPort) Read(b []byte) (int, error) {
	if len(p.reads) == 0 {
		if p.eof {
			return 0, io.EOF
		}
		return 0, nil
	}
	next := p.reads[0]
	p.reads = p.reads[1:]
	if next == nil {
		if p.eof {
			return 0, io.EOF
		}
		return 0, nil
	}
	return copy(b, next), nil
}

func (p *timeoutPort) Write(b []byte) (int, error) { return len(b), nil }

func (p *timeoutPort) Close() error {
	p.closed = true
	return nil
}

func TestSerialPortSkipsTimeouts(t *testing.T) {
	for _, eof := range []bool{false, true} {
		p := newSerialPort(&timeoutPort{reads: [][]byte{nil, nil, {0x01, 0x02}}, eof: eof})
		buf := make([]byte, 8)
		n, err := p.Read(buf)
		require.NoError(t, err)
		assert.Equal(t, []byte{0x01, 0x02}, buf[:n])
	}
}

func TestSerialPortCloseEndsReads(t *testing.T) {
	raw := &timeoutPort{eof: true}
	p := newSerialPort(raw)
	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assert.True(t, raw.closed)

	_, err := p.Read(make([]byte, 4))
	assert.ErrorIs(t, err, io.EOF)

	_, err = p.Write([]byte{1})
	assert.True(t, errors.Is(err, ErrClosed))
}

func TestOpenRequiresPort(t *testing.T) {
	_, err := Open(SerialConfig{})
	assert.Error(t, err)
}
