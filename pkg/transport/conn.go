package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/harp-tech/faststepper-go/pkg/harp"
	"github.com/harp-tech/faststepper-go/pkg/log"
	"github.com/harp-tech/faststepper-go/pkg/register"
)

// ConnectionState is the lifecycle state of a Conn.
type ConnectionState int32

const (
	// StateConnected indicates the read loop is running.
	StateConnected ConnectionState = iota

	// StateClosed indicates the connection was closed or the link failed.
	StateClosed
)

// String returns the connection state name.
func (s ConnectionState) String() string {
	switch s {
	case StateConnected:
		return "CONNECTED"
	case StateClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}

// Connection errors.
var (
	ErrClosed = errors.New("transport: connection closed")
)

// DefaultEventBuffer is the default capacity of the event stream.
const DefaultEventBuffer = 256

// closeTimeout bounds how long Close waits for the read loop to exit.
const closeTimeout = time.Second

// DefaultLateReplyWindow bounds how long a cancelled request's reply is expected.
const DefaultLateReplyWindow = 2 * time.Second

// Conn is a Harp connection over any byte stream. It correlates each request
// with the next reply of the same address and message type, and delivers
// every other inbound message on the event stream.
//
// Harp frames carry no sequence number, so Conn keeps at most one request in
// flight. When a request is abandoned after it was written, the next reply
// for the same address and message type is treated as its late reply and
// delivered on the event stream, not to the following request.
type Conn struct {
	id     string
	target string
	rwc    io.ReadWriteCloser
	framer *Framer

	logger   *slog.Logger
	protocol log.Logger
	schema   *register.Schema

	// sem serializes Command callers.
	sem chan struct{}

	mu        sync.Mutex
	pending   *pendingRequest
	abandoned map[replyKey]*abandonedReplies
	lateReply time.Duration

	events  chan harp.Message
	dropped atomic.Uint64

	state     atomic.Int32
	closeOnce sync.Once
	closeCh   chan struct{}
	done      chan struct{}
	errMu     sync.Mutex
	err       error
}

type replyKey struct {
	address     uint8
	messageType harp.MessageType
}

// abandonedReplies counts replies still owed to cancelled requests. The
// entry expires so a reply the device never sent cannot hold the key.
type abandonedReplies struct {
	count    int
	deadline time.Time
}

type pendingRequest struct {
	address     uint8
	messageType harp.MessageType
	sent        time.Time
	reply       chan harp.Message
}

// Option configures a Conn.
type Option func(*Conn)

// WithLogger sets the operational logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Conn) { c.logger = logger }
}

// WithProtocolLogger captures frames, messages and state changes.
func WithProtocolLogger(logger log.Logger) Option {
	return func(c *Conn) { c.protocol = logger }
}

// WithSchema names registers in captured message events.
func WithSchema(schema *register.Schema) Option {
	return func(c *Conn) { c.schema = schema }
}

// WithTarget records the connection target, e.g. the serial port name.
func WithTarget(target string) Option {
	return func(c *Conn) { c.target = target }
}

// WithLateReplyWindow sets how long a reply owed to a cancelled request is
// expected before the next reply of the same kind is matched normally again.
func WithLateReplyWindow(d time.Duration) Option {
	return func(c *Conn) {
		if d > 0 {
			c.lateReply = d
		}
	}
}

// WithEventBuffer sets the event stream capacity. When the buffer is full
// the oldest event is dropped.
func WithEventBuffer(n int) Option {
	return func(c *Conn) {
		if n > 0 {
			c.events = make(chan harp.Message, n)
		}
	}
}

// New starts a connection over rwc. The connection owns rwc and closes it on
// Close.
func New(rwc io.ReadWriteCloser, opts ...Option) *Conn {
	c := &Conn{
		id:      uuid.New().String(),
		rwc:     rwc,
		framer:  NewFramer(rwc),
		logger:  slog.Default(),
		sem:       make(chan struct{}, 1),
		abandoned: make(map[replyKey]*abandonedReplies),
		lateReply: DefaultLateReplyWindow,
		events:    make(chan harp.Message, DefaultEventBuffer),
		closeCh:   make(chan struct{}),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.protocol = log.OrNoop(c.protocol)
	c.framer.SetLogger(c.protocol, c.id)
	c.state.Store(int32(StateConnected))

	c.notifyStateChange("", StateConnected, "")
	go c.readLoop()
	return c
}

// ID returns the connection ID used in protocol capture.
func (c *Conn) ID() string { return c.id }

// Target returns the connection target.
func (c *Conn) Target() string { return c.target }

// State returns the current connection state.
func (c *Conn) State() ConnectionState {
	return ConnectionState(c.state.Load())
}

// Err returns the error that stopped the read loop, if any.
func (c *Conn) Err() error {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	return c.err
}

// Dropped returns the number of events dropped because the stream was full.
func (c *Conn) Dropped() uint64 { return c.dropped.Load() }

// Events returns the stream of inbound messages that are not replies to the
// current request. The channel is closed when the connection closes.
func (c *Conn) Events() <-chan harp.Message { return c.events }

// Send writes msg without waiting for a reply.
func (c *Conn) Send(msg harp.Message) error {
	if c.State() == StateClosed {
		return ErrClosed
	}
	c.logMessage(msg, log.DirectionOut, nil)
	return c.framer.WriteMessage(msg)
}

// Command writes req and waits for the correlated reply. Replies flagged as
// errors are returned as messages; the caller decides how to treat them.
// On cancellation Command returns ctx.Err() and leaves the connection ready
// for the next request.
func (c *Conn) Command(ctx context.Context, req harp.Message) (harp.Message, error) {
	if err := ctx.Err(); err != nil {
		return harp.Message{}, err
	}
	select {
	case c.sem <- struct{}{}:
	case <-ctx.Done():
		return harp.Message{}, ctx.Err()
	case <-c.closeCh:
		return harp.Message{}, ErrClosed
	}
	defer func() { <-c.sem }()

	p := &pendingRequest{
		address:     req.Address(),
		messageType: req.Type().Base(),
		sent:        time.Now(),
		reply:       make(chan harp.Message, 1),
	}
	c.mu.Lock()
	c.pending = p
	c.mu.Unlock()
	defer c.clearPending(p)

	if err := c.Send(req); err != nil {
		return harp.Message{}, err
	}

	select {
	case reply := <-p.reply:
		return reply, nil
	case <-ctx.Done():
		if reply, ok := c.abandon(p); ok {
			return reply, nil
		}
		return harp.Message{}, ctx.Err()
	case <-c.closeCh:
		return harp.Message{}, ErrClosed
	}
}

// abandon gives up on a written request. If the reply was matched while the
// context was ending it is returned; otherwise the reply is still owed and
// the next one for the same key is diverted to the event stream.
func (c *Conn) abandon(p *pendingRequest) (harp.Message, bool) {
	c.mu.Lock()
	if c.pending != p {
		c.mu.Unlock()
		// dispatch sends on the buffered channel after releasing c.mu.
		select {
		case reply := <-p.reply:
			return reply, true
		case <-c.done:
			return harp.Message{}, false
		}
	}
	c.pending = nil
	key := replyKey{address: p.address, messageType: p.messageType}
	a := c.abandoned[key]
	if a == nil {
		a = &abandonedReplies{}
		c.abandoned[key] = a
	}
	a.count++
	a.deadline = time.Now().Add(c.lateReply)
	c.mu.Unlock()
	return harp.Message{}, false
}

// takeAbandoned reports whether msg is the late reply of a cancelled request.
// c.mu must be held.
func (c *Conn) takeAbandoned(msg harp.Message) bool {
	if msg.Type().Base() == harp.Event {
		return false
	}
	key := replyKey{address: msg.Address(), messageType: msg.Type().Base()}
	a := c.abandoned[key]
	if a == nil {
		return false
	}
	if time.Now().After(a.deadline) {
		delete(c.abandoned, key)
		return false
	}
	a.count--
	if a.count == 0 {
		delete(c.abandoned, key)
	}
	return true
}

func (c *Conn) clearPending(p *pendingRequest) {
	c.mu.Lock()
	if c.pending == p {
		c.pending = nil
	}
	c.mu.Unlock()
}

// Close stops the read loop and closes the underlying stream. It is safe to
// call Close multiple times.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.state.Store(int32(StateClosed))
		close(c.closeCh)
		err = c.rwc.Close()

		select {
		case <-c.done:
		case <-time.After(closeTimeout):
			c.logger.Warn("read loop did not exit", "conn_id", c.id)
		}
		c.notifyStateChange(StateConnected.String(), StateClosed, "closed by host")
	})
	return err
}

func (c *Conn) readLoop() {
	defer close(c.done)
	defer close(c.events)

	for {
		before := c.framer.Discarded()
		msg, err := c.framer.ReadMessage()
		if skipped := c.framer.Discarded() - before; skipped > 0 {
			c.logger.Warn("resynchronized harp stream", "conn_id", c.id, "discarded", skipped)
		}
		if err != nil {
			c.fail(err)
			return
		}
		c.dispatch(msg)
	}
}

func (c *Conn) dispatch(msg harp.Message) {
	c.mu.Lock()
	late := c.takeAbandoned(msg)
	p := c.pending
	matched := !late && p != nil && msg.Address() == p.address && msg.Type().Base() == p.messageType && p.messageType != harp.Event
	if matched {
		c.pending = nil
	}
	c.mu.Unlock()

	if matched {
		latency := time.Since(p.sent)
		c.logMessage(msg, log.DirectionIn, &latency)
		p.reply <- msg
		return
	}
	if late {
		c.logger.Debug("late reply delivered as event", "conn_id", c.id, "address", msg.Address())
	}
	c.logMessage(msg, log.DirectionIn, nil)
	c.publish(msg)
}

// publish delivers msg on the event stream, dropping the oldest event if full.
func (c *Conn) publish(msg harp.Message) {
	for {
		select {
		case c.events <- msg:
			return
		default:
		}
		select {
		case <-c.events:
			c.dropped.Add(1)
			c.logger.Debug("event stream full, dropped oldest event", "conn_id", c.id)
		default:
		}
	}
}

func (c *Conn) fail(err error) {
	closing := c.State() == StateClosed
	if !closing {
		c.errMu.Lock()
		c.err = err
		c.errMu.Unlock()
		c.logger.Error("harp link failed", "conn_id", c.id, "target", c.target, "error", err)
		c.protocol.Log(log.Event{
			Timestamp:    time.Now(),
			ConnectionID: c.id,
			Layer:        log.LayerTransport,
			Category:     log.CategoryError,
			Target:       c.target,
			Error:        &log.ErrorEventData{Layer: log.LayerTransport, Message: err.Error(), Context: "read"},
		})
		// Unblock any waiting Command and reject new ones.
		c.closeOnce.Do(func() {
			c.state.Store(int32(StateClosed))
			close(c.closeCh)
			_ = c.rwc.Close()
			c.notifyStateChange(StateConnected.String(), StateClosed, fmt.Sprintf("link failed: %v", err))
		})
	}
}

func (c *Conn) logMessage(msg harp.Message, direction log.Direction, latency *time.Duration) {
	ev := log.NewMessageEvent(msg)
	ev.Latency = latency
	if c.schema != nil {
		if d, err := c.schema.Lookup(msg.Address()); err == nil {
			ev.Register = d.Name
		}
	}
	c.protocol.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: c.id,
		Direction:    direction,
		Layer:        log.LayerWire,
		Category:     log.CategoryMessage,
		Target:       c.target,
		Message:      ev,
	})
}

func (c *Conn) notifyStateChange(old string, state ConnectionState, reason string) {
	c.logger.Debug("connection state", "conn_id", c.id, "target", c.target, "state", state.String())
	c.protocol.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: c.id,
		Layer:        log.LayerTransport,
		Category:     log.CategoryState,
		Target:       c.target,
		StateChange: &log.StateChangeEvent{
			Entity:   log.StateEntityConnection,
			OldState: old,
			NewState: state.String(),
			Reason:   reason,
		},
	})
}
