package device

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/harp-tech/faststepper-go/pkg/harp"
	"github.com/harp-tech/faststepper-go/pkg/log"
	"github.com/harp-tech/faststepper-go/pkg/register"
)

type mockTransport struct {
	mock.Mock
	events chan harp.Message
}

func (m *mockTransport) Command(ctx context.Context, req harp.Message) (harp.Message, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(harp.Message), args.Error(1)
}

func (m *mockTransport) Events() <-chan harp.Message { return m.events }

func (m *mockTransport) Target() string { return "mock" }

func isRead(addr uint8) any {
	return mock.MatchedBy(func(req harp.Message) bool {
		return req.Type() == harp.Read && req.Address() == addr
	})
}

// funcTransport answers requests with a function.
type funcTransport struct {
	handle func(ctx context.Context, req harp.Message) (harp.Message, error)
	events chan harp.Message
}

func (f *funcTransport) Command(ctx context.Context, req harp.Message) (harp.Message, error) {
	return f.handle(ctx, req)
}

func (f *funcTransport) Events() <-chan harp.Message { return f.events }

// echoTransport answers writes with the written value and reads with the
// last written value, reporting WhoAmI as a FastStepper.
func echoTransport() *funcTransport {
	var mu sync.Mutex
	values := map[uint8][]byte{
		register.AddressWhoAmI: register.WhoAmI.Encode(harp.Read, register.FastStepperWhoAmI).Payload(),
	}
	return &funcTransport{handle: func(_ context.Context, req harp.Message) (harp.Message, error) {
		mu.Lock()
		defer mu.Unlock()
		if req.Type() == harp.Write {
			values[req.Address()] = req.Payload()
			return req.WithTimestamp(1), nil
		}
		payload, ok := values[req.Address()]
		if !ok {
			payload = make([]byte, req.PayloadType().Size())
		}
		return harp.NewTimestampedMessage(2, harp.Read, req.Address(), req.PayloadType(), payload), nil
	}}
}

func openEcho(t *testing.T, opts ...Option) *Client {
	t.Helper()
	c, err := Open(context.Background(), echoTransport(), opts...)
	require.NoError(t, err)
	return c
}

func TestOpenRejectsWrongIdentity(t *testing.T) {
	tr := &mockTransport{}
	tr.On("Command", mock.Anything, isRead(register.AddressWhoAmI)).
		Return(register.WhoAmI.Encode(harp.Read, 1234), nil).Once()

	c, err := Open(context.Background(), tr)
	require.Error(t, err)
	assert.Nil(t, c)
	assert.ErrorIs(t, err, ErrUnexpectedDeviceIdentity)

	var idErr *UnexpectedDeviceIdentityError
	require.True(t, errors.As(err, &idErr))
	assert.Equal(t, uint16(2120), idErr.Expected)
	assert.Equal(t, uint16(1234), idErr.Actual)
	assert.Equal(t, "mock", idErr.Target)

	// Nothing but the identity read reached the device.
	tr.AssertNumberOfCalls(t, "Command", 1)
	tr.AssertExpectations(t)
}

func TestOpenAcceptsFastStepper(t *testing.T) {
	tr := &mockTransport{}
	tr.On("Command", mock.Anything, isRead(register.AddressWhoAmI)).
		Return(register.WhoAmI.Encode(harp.Read, 2120), nil).Once()

	c, err := Open(context.Background(), tr)
	require.NoError(t, err)
	assert.Equal(t, StateReady, c.State())
	assert.Equal(t, uint16(2120), c.WhoAmI())
	assert.Equal(t, "mock", c.Target())
	tr.AssertExpectations(t)
}

func TestOpenWithExpectedIdentity(t *testing.T) {
	tr := &mockTransport{}
	tr.On("Command", mock.Anything, isRead(register.AddressWhoAmI)).
		Return(register.WhoAmI.Encode(harp.Read, 1234), nil)

	_, err := Open(context.Background(), tr, WithExpectedIdentity(1234), WithTarget("bench"))
	require.NoError(t, err)
}

func TestOpenTransportFailure(t *testing.T) {
	tr := &mockTransport{}
	tr.On("Command", mock.Anything, isRead(register.AddressWhoAmI)).
		Return(harp.Message{}, errors.New("port gone"))

	_, err := Open(context.Background(), tr)
	var te *TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "read", te.Op)
	assert.Equal(t, "WhoAmI", te.Register)
}

func TestWriteThenReadEchoesValue(t *testing.T) {
	c := openEcho(t)
	ctx := context.Background()

	flags := register.ControlEnableMotor | register.ControlEnableEncoder
	require.NoError(t, c.WriteControl(ctx, flags))

	got, err := c.ReadControl(ctx)
	require.NoError(t, err)
	assert.Equal(t, register.ControlFlags(0x11), got)
	assert.Equal(t, "EnableMotor|EnableEncoder", got.String())

	stamped, err := c.ReadTimestampedControl(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2.0, stamped.Seconds)
	assert.Equal(t, flags, stamped.Value)
}

func TestSignedRegisters(t *testing.T) {
	c := openEcho(t)
	ctx := context.Background()

	require.NoError(t, c.WriteMoveTo(ctx, -100000))
	v, err := c.ReadMoveTo(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(-100000), v)

	require.NoError(t, c.WriteDeceleration(ctx, -1000))
	d, err := c.ReadDeceleration(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(-1000), d)
}

func TestWriteEventOnlyRegisterIsRejectedLocally(t *testing.T) {
	calls := 0
	tr := echoTransport()
	inner := tr.handle
	tr.handle = func(ctx context.Context, req harp.Message) (harp.Message, error) {
		calls++
		return inner(ctx, req)
	}
	c, err := Open(context.Background(), tr)
	require.NoError(t, err)

	err = Write(context.Background(), c, register.Encoder, 5)
	assert.ErrorIs(t, err, register.ErrReadOnly)
	assert.Equal(t, 1, calls)
}

func TestCancelledReadDoesNotBlockNextRead(t *testing.T) {
	echo := echoTransport()
	var block atomic.Bool
	tr := &funcTransport{handle: func(ctx context.Context, req harp.Message) (harp.Message, error) {
		if block.Load() {
			<-ctx.Done()
			return harp.Message{}, ctx.Err()
		}
		return echo.handle(ctx, req)
	}}
	c, err := Open(context.Background(), tr)
	require.NoError(t, err)

	block.Store(true)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := c.ReadMoveTo(ctx)
		done <- err
	}()
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
		assert.NotErrorIs(t, err, ErrTimeout)
	case <-time.After(time.Second):
		t.Fatal("cancelled read did not return")
	}

	block.Store(false)
	v, err := c.ReadMaxVelocity(context.Background())
	require.NoError(t, err)
	assert.Zero(t, v)
}

func TestRequestTimeout(t *testing.T) {
	echo := echoTransport()
	var block atomic.Bool
	tr := &funcTransport{handle: func(ctx context.Context, req harp.Message) (harp.Message, error) {
		if block.Load() {
			<-ctx.Done()
			return harp.Message{}, ctx.Err()
		}
		return echo.handle(ctx, req)
	}}
	c, err := Open(context.Background(), tr, WithRequestTimeout(20*time.Millisecond))
	require.NoError(t, err)

	block.Store(true)
	_, err = c.ReadEncoder(context.Background())
	assert.ErrorIs(t, err, ErrTimeout)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDeviceErrorReply(t *testing.T) {
	echo := echoTransport()
	tr := &funcTransport{handle: func(ctx context.Context, req harp.Message) (harp.Message, error) {
		if req.Address() == register.AddressMinVelocity {
			return req.WithType(harp.Write | harp.ErrorFlag), nil
		}
		return echo.handle(ctx, req)
	}}
	c, err := Open(context.Background(), tr)
	require.NoError(t, err)

	err = c.WriteMinVelocity(context.Background(), 10)
	var de *DeviceError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, register.AddressMinVelocity, de.Address)
	assert.Equal(t, "MinVelocity", de.Register)
	assert.Contains(t, de.Error(), "WRITE")
}

func TestDecodeErrorIsReported(t *testing.T) {
	echo := echoTransport()
	tr := &funcTransport{handle: func(ctx context.Context, req harp.Message) (harp.Message, error) {
		if req.Address() == register.AddressHomeSteps {
			return harp.NewMessage(harp.Read, req.Address(), harp.S32, []byte{1, 2}), nil
		}
		return echo.handle(ctx, req)
	}}
	c, err := Open(context.Background(), tr)
	require.NoError(t, err)

	_, err = c.ReadHomeSteps(context.Background())
	assert.ErrorIs(t, err, register.ErrPayloadSizeMismatch)
}

func TestRequestsAreSerialized(t *testing.T) {
	echo := echoTransport()
	var inFlight, maxInFlight atomic.Int32
	tr := &funcTransport{handle: func(ctx context.Context, req harp.Message) (harp.Message, error) {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			m := maxInFlight.Load()
			if n <= m || maxInFlight.CompareAndSwap(m, n) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		return echo.handle(ctx, req)
	}}
	c, err := Open(context.Background(), tr)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.ReadAcceleration(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), maxInFlight.Load())
}

func TestQueuedRequestHonoursItsContext(t *testing.T) {
	release := make(chan struct{})
	echo := echoTransport()
	var block atomic.Bool
	tr := &funcTransport{handle: func(ctx context.Context, req harp.Message) (harp.Message, error) {
		if block.Load() {
			<-release
		}
		return echo.handle(ctx, req)
	}}
	c, err := Open(context.Background(), tr)
	require.NoError(t, err)

	block.Store(true)
	go func() { _, _ = c.ReadMoveTo(context.Background()) }()
	time.Sleep(10 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.ReadMoveTo(ctx)
	assert.ErrorIs(t, err, ErrTimeout)
	close(release)
}

func TestCoreHelpers(t *testing.T) {
	c := openEcho(t)
	ctx := context.Background()

	require.NoError(t, c.WriteDeviceName(ctx, "Rig"))
	name, err := c.ReadDeviceName(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Rig", name)

	err = c.WriteDeviceName(ctx, "a name that does not fit the register")
	assert.ErrorIs(t, err, register.ErrValueOutOfRange)

	id, err := c.ReadWhoAmI(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint16(2120), id)

	v, err := c.ReadFirmwareVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, "0.0", v.String())
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	c := openEcho(t, WithMetrics(m))
	_, err = c.ReadMoving(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("read", "WhoAmI", resultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("read", "Moving", resultOK)))
	assert.Equal(t, 2, testutil.CollectAndCount(m.duration))

	_, err = NewMetrics(reg)
	assert.Error(t, err, "duplicate registration")
}

type recorder struct {
	mu     sync.Mutex
	events []log.Event
}

func (r *recorder) Log(e log.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func TestProtocolLoggerRecordsReady(t *testing.T) {
	rec := &recorder{}
	openEcho(t, WithProtocolLogger(rec))

	require.Len(t, rec.events, 1)
	ev := rec.events[0]
	assert.Equal(t, log.LayerClient, ev.Layer)
	require.NotNil(t, ev.StateChange)
	assert.Equal(t, "UNINITIALIZED", ev.StateChange.OldState)
	assert.Equal(t, "READY", ev.StateChange.NewState)
	assert.Equal(t, uint16(2120), ev.WhoAmI)
}

func TestProtocolLoggerRecordsIdentityError(t *testing.T) {
	rec := &recorder{}
	tr := &funcTransport{handle: func(_ context.Context, req harp.Message) (harp.Message, error) {
		return register.WhoAmI.Encode(harp.Read, 1), nil
	}}
	_, err := Open(context.Background(), tr, WithProtocolLogger(rec))
	require.Error(t, err)

	require.Len(t, rec.events, 1)
	require.NotNil(t, rec.events[0].Error)
	assert.Equal(t, log.CategoryError, rec.events[0].Category)
	assert.Equal(t, uint8(0), *rec.events[0].Error.Address)
}

func TestValuesByDescriptor(t *testing.T) {
	c := openEcho(t)
	ctx := context.Background()

	d, err := register.FastStepper.LookupName("HomeSteps")
	require.NoError(t, err)
	require.NoError(t, c.WriteValues(ctx, d, -250))

	got, err := c.ReadValues(ctx, d)
	require.NoError(t, err)
	assert.Equal(t, []int64{-250}, got.Value)
	assert.Equal(t, 2.0, got.Seconds)

	err = c.WriteValues(ctx, d, 1<<40)
	assert.ErrorIs(t, err, register.ErrValueOutOfRange)

	err = c.WriteValues(ctx, register.HomeSwitch.Descriptor(), 1)
	assert.ErrorIs(t, err, register.ErrReadOnly)
}
