package simulator

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/harp-tech/faststepper-go/pkg/harp"
	"github.com/harp-tech/faststepper-go/pkg/register"
	"github.com/harp-tech/faststepper-go/pkg/transport"
)

// Firmware defaults for the motion registers.
const (
	DefaultMinVelocity      = 400
	DefaultMaxVelocity      = 2000
	DefaultAcceleration     = 1000
	DefaultDeceleration     = -1000
	DefaultAccelerationJerk = 0
	DefaultDecelerationJerk = 0
	DefaultHomeVelocity     = 400

	DefaultDeviceName = "FastStepper"
	eventBuffer       = 64
)

// controlPairs lists the enable/disable pairs of the Control register. The
// firmware reports exactly one bit of each pair.
var controlPairs = [][2]register.ControlFlags{
	{register.ControlEnableMotor, register.ControlDisableMotor},
	{register.ControlEnableAnalogInput, register.ControlDisableAnalogInput},
	{register.ControlEnableEncoder, register.ControlDisableEncoder},
	{register.ControlEnableHoming, register.ControlDisableHoming},
}

// Device is an emulated FastStepper.
type Device struct {
	mu     sync.Mutex
	schema *register.Schema
	values map[uint8][]byte
	start  time.Time
	clock  func() float64
	offset float64
	events chan harp.Message
	logger *slog.Logger
}

// Option configures a Device.
type Option func(*Device)

// WithWhoAmI overrides the reported device identity.
func WithWhoAmI(id uint16) Option {
	return func(d *Device) {
		d.store(register.WhoAmI.Encode(harp.Write, id))
	}
}

// WithDeviceName sets the device name register.
func WithDeviceName(name string) Option {
	return func(d *Device) {
		d.setName(name)
	}
}

// WithSerialNumber sets the serial number register.
func WithSerialNumber(n uint16) Option {
	return func(d *Device) {
		d.store(register.SerialNumber.Encode(harp.Write, n))
	}
}

// WithClock replaces the device clock. It returns seconds since power-up.
func WithClock(clock func() float64) Option {
	return func(d *Device) {
		d.clock = clock
	}
}

// WithLogger sets the logger for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Device) {
		d.logger = logger
	}
}

// New creates a device with the firmware defaults.
func New(opts ...Option) *Device {
	d := &Device{
		schema: register.FastStepperDevice,
		values: make(map[uint8][]byte),
		start:  time.Now(),
		events: make(chan harp.Message, eventBuffer),
		logger: slog.Default(),
	}
	d.clock = func() float64 { return time.Since(d.start).Seconds() }
	d.reset()
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Device) reset() {
	for desc := range d.schema.All() {
		d.values[desc.Address] = make([]byte, desc.PayloadSize())
	}
	d.store(register.WhoAmI.Encode(harp.Write, register.FastStepperWhoAmI))
	d.store(register.HardwareVersionHigh.Encode(harp.Write, 1))
	d.store(register.CoreVersionHigh.Encode(harp.Write, 1))
	d.store(register.CoreVersionLow.Encode(harp.Write, 12))
	d.store(register.FirmwareVersionHigh.Encode(harp.Write, 0))
	d.store(register.FirmwareVersionLow.Encode(harp.Write, 2))
	d.store(register.OperationControl.Encode(harp.Write, register.OperationControlActive))
	d.setName(DefaultDeviceName)

	d.store(register.Control.Encode(harp.Write, readBackControl(0)))
	d.store(register.MinVelocity.Encode(harp.Write, DefaultMinVelocity))
	d.store(register.MaxVelocity.Encode(harp.Write, DefaultMaxVelocity))
	d.store(register.Acceleration.Encode(harp.Write, DefaultAcceleration))
	d.store(register.Deceleration.Encode(harp.Write, DefaultDeceleration))
	d.store(register.AccelerationJerk.Encode(harp.Write, DefaultAccelerationJerk))
	d.store(register.DecelerationJerk.Encode(harp.Write, DefaultDecelerationJerk))
	d.store(register.HomeVelocity.Encode(harp.Write, DefaultHomeVelocity))
}

// restoreDefaults resets the register banks, keeping the device identity.
func (d *Device) restoreDefaults() {
	keep := make(map[uint8][]byte)
	for _, addr := range []uint8{register.AddressWhoAmI, register.AddressDeviceName, register.AddressSerialNumber} {
		keep[addr] = d.values[addr]
	}
	d.reset()
	for addr, v := range keep {
		d.values[addr] = v
	}
}

func (d *Device) setName(name string) {
	buf := make([]uint8, register.DeviceNameLength)
	copy(buf[:register.DeviceNameLength-1], name)
	msg, _ := register.DeviceName.Encode(harp.Write, buf)
	d.store(msg)
}

func (d *Device) store(msg harp.Message) {
	d.values[msg.Address()] = msg.Payload()
}

func (d *Device) now() float64 {
	return d.clock() + d.offset
}

// syncClock refreshes the timestamp registers from the device clock.
func (d *Device) syncClock() {
	now := d.now()
	sec := math.Floor(now)
	d.store(register.TimestampSeconds.Encode(harp.Read, uint32(sec)))
	d.store(register.TimestampMicroseconds.Encode(harp.Read, uint16((now-sec)*1e6/32)))
}

// Handle answers one request. Every request gets exactly one reply.
func (d *Device) Handle(req harp.Message) harp.Message {
	d.mu.Lock()
	defer d.mu.Unlock()

	reply, events := d.handle(req)
	for _, ev := range events {
		d.queue(ev)
	}
	return reply
}

func (d *Device) handle(req harp.Message) (harp.Message, []harp.Message) {
	desc, err := d.schema.Lookup(req.Address())
	if err != nil {
		d.logger.Debug("request for unknown register", "address", req.Address())
		return d.errorReply(req), nil
	}
	if req.PayloadType() != desc.Wire.PayloadType() {
		d.logger.Debug("payload type mismatch", "register", desc.Name, "got", req.PayloadType())
		return d.errorReply(req), nil
	}

	switch req.Type() {
	case harp.Read:
		if desc.Address == register.AddressTimestampSeconds || desc.Address == register.AddressTimestampMicroseconds {
			d.syncClock()
		}
		return d.reply(harp.Read, desc), nil
	case harp.Write:
		if !desc.Access.Writable() || req.PayloadLen() != desc.PayloadSize() {
			d.logger.Debug("write rejected", "register", desc.Name, "access", desc.Access)
			return d.errorReply(req), nil
		}
		events := d.write(desc, req)
		return d.reply(harp.Write, desc), events
	default:
		return d.errorReply(req), nil
	}
}

// write stores a value and returns the events the firmware raises for it.
func (d *Device) write(desc register.Descriptor, req harp.Message) []harp.Message {
	switch desc.Address {
	case register.AddressTimestampSeconds:
		sec, _ := register.TimestampSeconds.Decode(req)
		d.offset = float64(sec) - d.clock()
		d.syncClock()
		return nil
	case register.AddressResetDevice:
		flags, _ := register.ResetDevice.Decode(req)
		if flags.Has(register.ResetDeviceRestoreDefault) {
			d.restoreDefaults()
		}
		return nil
	case register.AddressControl:
		current, _ := register.Control.Decode(d.message(harp.Write, desc))
		requested, _ := register.Control.Decode(req)
		d.store(register.Control.Encode(harp.Write, readBackControl(applyControl(current, requested))))
		return nil
	case register.AddressMoveTo:
		// Moves complete at once: the motor starts and stops.
		d.store(req)
		return []harp.Message{
			d.setEvent(register.Moving.Encode(harp.Event, register.MovingIsMoving)),
			d.setEvent(register.Moving.Encode(harp.Event, 0)),
		}
	case register.AddressDirectVelocity:
		d.store(req)
		v, _ := register.DirectVelocity.Decode(req)
		moving := register.MovingFlags(0)
		if v != 0 {
			moving = register.MovingIsMoving
		}
		return []harp.Message{d.setEvent(register.Moving.Encode(harp.Event, moving))}
	case register.AddressStopMovement:
		d.store(req)
		return []harp.Message{d.setEvent(register.Moving.Encode(harp.Event, 0))}
	default:
		d.store(req)
		return nil
	}
}

// setEvent stores an event value and stamps it with the device clock.
func (d *Device) setEvent(msg harp.Message) harp.Message {
	d.store(msg)
	return msg.WithTimestamp(d.now())
}

func (d *Device) message(t harp.MessageType, desc register.Descriptor) harp.Message {
	return harp.NewMessage(t, desc.Address, desc.Wire.PayloadType(), d.values[desc.Address])
}

func (d *Device) reply(t harp.MessageType, desc register.Descriptor) harp.Message {
	return d.message(t, desc).WithTimestamp(d.now())
}

func (d *Device) errorReply(req harp.Message) harp.Message {
	return req.WithType(req.Type().Base() | harp.ErrorFlag).WithTimestamp(d.now())
}

// applyControl merges a Control write into the current state. Within a
// pair, the disable bit wins when both are set.
func applyControl(current, requested register.ControlFlags) register.ControlFlags {
	next := current
	for _, p := range controlPairs {
		enable, disable := p[0], p[1]
		if requested.Has(enable) {
			next = next.With(enable).Without(disable)
		}
		if requested.Has(disable) {
			next = next.Without(enable).With(disable)
		}
	}
	return next
}

// readBackControl reports exactly one bit of each enable/disable pair.
func readBackControl(state register.ControlFlags) register.ControlFlags {
	var out register.ControlFlags
	for _, p := range controlPairs {
		if state.Has(p[0]) {
			out = out.With(p[0])
		} else {
			out = out.With(p[1])
		}
	}
	return out
}

// Emit queues a device event for Serve to send. When the queue is full the
// event is dropped and Emit returns false.
func (d *Device) Emit(msg harp.Message) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !msg.HasTimestamp() {
		msg = msg.WithTimestamp(d.now())
	}
	if desc, err := d.schema.Lookup(msg.Address()); err == nil && msg.Type() == harp.Event && msg.PayloadLen() == desc.PayloadSize() {
		d.store(msg)
	}
	return d.queue(msg)
}

func (d *Device) queue(msg harp.Message) bool {
	select {
	case d.events <- msg:
		return true
	default:
		d.logger.Warn("simulator event queue full", "address", msg.Address())
		return false
	}
}

// Events returns the queue of pending device events. Serve drains it; use
// it directly only when driving the device through Handle.
func (d *Device) Events() <-chan harp.Message { return d.events }

// Set stores a register value without raising an event.
func Set[T register.Integer](d *Device, r register.Register[T], v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.store(r.Encode(harp.Write, v))
}

// Get returns the current value of a register.
func Get[T register.Integer](d *Device, r register.Register[T]) T {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, _ := r.Decode(d.message(harp.Read, r.Descriptor()))
	return v
}

// EmitValue stores v and emits it as an event of r.
func EmitValue[T register.Integer](d *Device, r register.Register[T], v T) bool {
	return d.Emit(r.Encode(harp.Event, v))
}

// Serve answers requests read from rw until ctx is done or the stream ends.
// Queued events are written as they arrive. rw is closed when ctx is done if
// it implements io.Closer.
func (d *Device) Serve(ctx context.Context, rw io.ReadWriter) error {
	framer := transport.NewFramer(rw)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if c, ok := rw.(io.Closer); ok {
		go func() {
			<-ctx.Done()
			_ = c.Close()
		}()
	}

	writeErr := make(chan error, 1)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-d.events:
				if err := framer.WriteMessage(ev); err != nil {
					writeErr <- err
					cancel()
					return
				}
			}
		}
	}()

	for {
		req, err := framer.ReadMessage()
		if err != nil {
			select {
			case werr := <-writeErr:
				return werr
			default:
			}
			if ctx.Err() != nil || errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) {
				return nil
			}
			return err
		}
		d.logger.Debug("simulator request", "message", req)
		if err := framer.WriteMessage(d.Handle(req)); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
}
