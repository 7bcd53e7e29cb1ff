package device

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/harp-tech/faststepper-go/pkg/harp"
	"github.com/harp-tech/faststepper-go/pkg/log"
	"github.com/harp-tech/faststepper-go/pkg/register"
)

// Transport sends one request and waits for its reply. Messages that are not
// replies are delivered on Events. *transport.Conn implements it.
type Transport interface {
	Command(ctx context.Context, req harp.Message) (harp.Message, error)
	Events() <-chan harp.Message
}

// State is the lifecycle state of a Client.
type State int32

const (
	// StateUninitialized is the state before the identity check passed.
	StateUninitialized State = iota

	// StateReady accepts register operations.
	StateReady
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "UNINITIALIZED"
	case StateReady:
		return "READY"
	default:
		return "UNKNOWN"
	}
}

// Client reads and writes FastStepper registers over a Transport.
//
// Requests are serialized: a call waits until the previous one finished or
// its own context is done. Cancelling a call never affects later calls.
type Client struct {
	transport Transport
	target    string
	connID    string
	expected  uint16
	timeout   time.Duration
	logger    *slog.Logger
	protocol  log.Logger
	metrics   *Metrics

	sem    chan struct{}
	state  atomic.Int32
	whoAmI uint16
}

// Option configures a Client.
type Option func(*Client)

// WithRequestTimeout bounds every request in addition to the caller's
// context. Zero disables it.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger sets the operational logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithProtocolLogger sets the capture logger for client state and errors.
func WithProtocolLogger(logger log.Logger) Option {
	return func(c *Client) {
		c.protocol = log.OrNoop(logger)
	}
}

// WithTarget names the connection target in errors and logs. By default the
// transport's Target is used when it has one.
func WithTarget(target string) Option {
	return func(c *Client) {
		c.target = target
	}
}

// WithMetrics enables request instrumentation.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithExpectedIdentity overrides the WhoAmI value checked by Open.
func WithExpectedIdentity(id uint16) Option {
	return func(c *Client) {
		c.expected = id
	}
}

// Open creates a client and checks the device identity. It returns an
// UnexpectedDeviceIdentityError when the device is not a FastStepper; no
// other register is touched in that case.
func Open(ctx context.Context, t Transport, opts ...Option) (*Client, error) {
	c := &Client{
		transport: t,
		expected:  register.FastStepperWhoAmI,
		logger:    slog.Default(),
		protocol:  log.NoopLogger{},
		sem:       make(chan struct{}, 1),
	}
	if tt, ok := t.(interface{ Target() string }); ok {
		c.target = tt.Target()
	}
	if id, ok := t.(interface{ ID() string }); ok {
		c.connID = id.ID()
	}
	for _, opt := range opts {
		opt(c)
	}

	reply, err := c.exchange(ctx, "read", register.WhoAmI.Descriptor(), register.WhoAmI.ReadRequest())
	if err != nil {
		c.logError(err, register.AddressWhoAmI)
		return nil, fmt.Errorf("identity check: %w", err)
	}
	id, err := register.WhoAmI.Decode(reply)
	if err != nil {
		c.logError(err, register.AddressWhoAmI)
		return nil, fmt.Errorf("identity check: %w", err)
	}
	if id != c.expected {
		err := &UnexpectedDeviceIdentityError{Expected: c.expected, Actual: id, Target: c.target}
		c.logError(err, register.AddressWhoAmI)
		return nil, err
	}

	c.whoAmI = id
	c.state.Store(int32(StateReady))
	c.notifyStateChange(StateUninitialized, StateReady)
	c.logger.Info("device ready", "target", c.target, "who_am_i", id)
	return c, nil
}

// State returns the client state.
func (c *Client) State() State { return State(c.state.Load()) }

// Target returns the connection target.
func (c *Client) Target() string { return c.target }

// WhoAmI returns the identity reported during Open.
func (c *Client) WhoAmI() uint16 { return c.whoAmI }

// Events returns the device events and unmatched replies of the transport.
func (c *Client) Events() <-chan harp.Message { return c.transport.Events() }

// Read reads a register.
func Read[T register.Integer](ctx context.Context, c *Client, r register.Register[T]) (T, error) {
	reply, err := c.roundTrip(ctx, "read", r.Descriptor(), r.ReadRequest())
	if err != nil {
		var zero T
		return zero, err
	}
	v, err := r.Decode(reply)
	if err != nil {
		return v, fmt.Errorf("read %s: %w", r.Name(), err)
	}
	return v, nil
}

// ReadTimestamped reads a register together with the device timestamp of
// the reply.
func ReadTimestamped[T register.Integer](ctx context.Context, c *Client, r register.Register[T]) (register.Timestamped[T], error) {
	reply, err := c.roundTrip(ctx, "read", r.Descriptor(), r.ReadRequest())
	if err != nil {
		return register.Timestamped[T]{}, err
	}
	v, err := r.DecodeTimestamped(reply)
	if err != nil {
		return v, fmt.Errorf("read %s: %w", r.Name(), err)
	}
	return v, nil
}

// Write writes a register and waits for the device to acknowledge it.
// Registers the device only reports return register.ErrReadOnly without
// touching the link.
func Write[T register.Integer](ctx context.Context, c *Client, r register.Register[T], value T) error {
	d := r.Descriptor()
	if !d.Access.Writable() {
		return fmt.Errorf("write %s: %w", d.Name, register.ErrReadOnly)
	}
	_, err := c.roundTrip(ctx, "write", d, r.Encode(harp.Write, value))
	return err
}

// ReadArray reads a multi-element register.
func ReadArray[T register.Integer](ctx context.Context, c *Client, a register.Array[T]) ([]T, error) {
	reply, err := c.roundTrip(ctx, "read", a.Descriptor(), a.ReadRequest())
	if err != nil {
		return nil, err
	}
	v, err := a.Decode(reply)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", a.Descriptor().Name, err)
	}
	return v, nil
}

// ReadTimestampedArray reads a multi-element register with its timestamp.
func ReadTimestampedArray[T register.Integer](ctx context.Context, c *Client, a register.Array[T]) (register.Timestamped[[]T], error) {
	reply, err := c.roundTrip(ctx, "read", a.Descriptor(), a.ReadRequest())
	if err != nil {
		return register.Timestamped[[]T]{}, err
	}
	v, err := a.DecodeTimestamped(reply)
	if err != nil {
		return v, fmt.Errorf("read %s: %w", a.Descriptor().Name, err)
	}
	return v, nil
}

// WriteArray writes a multi-element register. Shorter inputs are padded
// with zeros.
func WriteArray[T register.Integer](ctx context.Context, c *Client, a register.Array[T], values []T) error {
	d := a.Descriptor()
	if !d.Access.Writable() {
		return fmt.Errorf("write %s: %w", d.Name, register.ErrReadOnly)
	}
	msg, err := a.Encode(harp.Write, values)
	if err != nil {
		return fmt.Errorf("write %s: %w", d.Name, err)
	}
	_, err = c.roundTrip(ctx, "write", d, msg)
	return err
}

// roundTrip sends a request once the client is ready.
func (c *Client) roundTrip(ctx context.Context, op string, d register.Descriptor, req harp.Message) (harp.Message, error) {
	if c.State() != StateReady {
		return harp.Message{}, ErrNotReady
	}
	return c.exchange(ctx, op, d, req)
}

func (c *Client) exchange(ctx context.Context, op string, d register.Descriptor, req harp.Message) (harp.Message, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	select {
	case c.sem <- struct{}{}:
	case <-ctx.Done():
		err := c.contextError(op, d, ctx.Err())
		c.metrics.observe(op, d.Name, resultOf(err), time.Since(start))
		return harp.Message{}, err
	}
	defer func() { <-c.sem }()

	reply, err := c.transport.Command(ctx, req)
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			err = c.contextError(op, d, err)
		} else {
			err = &TransportError{Op: op, Register: d.Name, Err: err}
		}
		c.metrics.observe(op, d.Name, resultOf(err), time.Since(start))
		c.logger.Debug("request failed", "op", op, "register", d.Name, "error", err)
		return harp.Message{}, err
	}
	if reply.IsError() {
		err := &DeviceError{Address: d.Address, Register: d.Name, MessageType: reply.Type()}
		c.metrics.observe(op, d.Name, resultDeviceError, time.Since(start))
		c.logError(err, d.Address)
		return harp.Message{}, err
	}
	c.metrics.observe(op, d.Name, resultOK, time.Since(start))
	return reply, nil
}

// contextError maps an expired deadline to ErrTimeout. Cancellation is
// returned as is.
func (c *Client) contextError(op string, d register.Descriptor, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s %s: %w: %w", op, d.Name, ErrTimeout, err)
	}
	return fmt.Errorf("%s %s: %w", op, d.Name, err)
}

func resultOf(err error) string {
	var te *TransportError
	switch {
	case err == nil:
		return resultOK
	case errors.Is(err, ErrTimeout):
		return resultTimeout
	case errors.Is(err, context.Canceled):
		return resultCanceled
	case errors.As(err, &te):
		return resultTransport
	default:
		return resultDeviceError
	}
}

func (c *Client) notifyStateChange(old, state State) {
	c.protocol.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: c.connID,
		Layer:        log.LayerClient,
		Category:     log.CategoryState,
		Target:       c.target,
		WhoAmI:       c.whoAmI,
		StateChange: &log.StateChangeEvent{
			Entity:   log.StateEntityClient,
			OldState: old.String(),
			NewState: state.String(),
		},
	})
}

func (c *Client) logError(err error, addr uint8) {
	c.protocol.Log(log.Event{
		Timestamp:    time.Now(),
		ConnectionID: c.connID,
		Layer:        log.LayerClient,
		Category:     log.CategoryError,
		Target:       c.target,
		Error: &log.ErrorEventData{
			Layer:   log.LayerClient,
			Message: err.Error(),
			Address: &addr,
		},
	})
}
