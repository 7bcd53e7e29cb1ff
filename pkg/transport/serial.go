package transport

import (
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/tarm/serial"
)

// Serial defaults for Harp devices.
const (
	DefaultBaud        = 1_000_000
	DefaultReadTimeout = 100 * time.Millisecond
)

// SerialConfig configures a serial port.
type SerialConfig struct {
	// Port is the device path, e.g. /dev/ttyUSB0 or COM3.
	Port string

	// Baud is the line rate (default: 1 Mbaud).
	Baud int

	// ReadTimeout bounds each read so Close is noticed (default: 100ms).
	ReadTimeout time.Duration
}

// Open opens the serial port and starts a connection over it.
func Open(cfg SerialConfig, opts ...Option) (*Conn, error) {
	if cfg.Port == "" {
		return nil, fmt.Errorf("serial port name is required")
	}
	if cfg.Baud == 0 {
		cfg.Baud = DefaultBaud
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}

	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Port,
		Baud:        cfg.Baud,
		ReadTimeout: cfg.ReadTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", cfg.Port, err)
	}
	// Drop bytes queued before we attached.
	_ = port.Flush()

	opts = append([]Option{WithTarget(cfg.Port)}, opts...)
	return New(newSerialPort(port), opts...), nil
}

// serialPort adapts timed-out serial reads to the blocking io.Reader contract
// bufio expects. A timed-out read returns no data with a nil error on Windows
// and with io.EOF on POSIX systems.
type serialPort struct {
	port   io.ReadWriteCloser
	closed atomic.Bool
}

func newSerialPort(port io.ReadWriteCloser) *serialPort {
	return &serialPort{port: port}
}

func (p *serialPort) Read(b []byte) (int, error) {
	for {
		n, err := p.port.Read(b)
		if p.closed.Load() {
			if n > 0 {
				return n, nil
			}
			return 0, io.EOF
		}
		if n > 0 {
			return n, nil
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return 0, err
		}
	}
}

func (p *serialPort) Write(b []byte) (int, error) {
	if p.closed.Load() {
		return 0, ErrClosed
	}
	return p.port.Write(b)
}

func (p *serialPort) Close() error {
	if p.closed.Swap(true) {
		return nil
	}
	return p.port.Close()
}
