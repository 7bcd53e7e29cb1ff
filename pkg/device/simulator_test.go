package device_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harp-tech/faststepper-go/pkg/device"
	"github.com/harp-tech/faststepper-go/pkg/harp"
	"github.com/harp-tech/faststepper-go/pkg/register"
	"github.com/harp-tech/faststepper-go/pkg/simulator"
	"github.com/harp-tech/faststepper-go/pkg/stream"
	"github.com/harp-tech/faststepper-go/pkg/transport"
)

func startSimulator(t *testing.T, opts ...simulator.Option) (*transport.Conn, *simulator.Device) {
	t.Helper()
	host, dev := net.Pipe()
	sim := simulator.New(opts...)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = sim.Serve(ctx, dev)
	}()

	conn := transport.New(host, transport.WithSchema(register.FastStepperDevice), transport.WithTarget("sim"))
	t.Cleanup(func() {
		_ = conn.Close()
		cancel()
		<-done
	})
	return conn, sim
}

func TestClientAgainstSimulator(t *testing.T) {
	conn, _ := startSimulator(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	c, err := device.Open(ctx, conn)
	require.NoError(t, err)
	assert.Equal(t, "sim", c.Target())

	name, err := c.ReadDeviceName(ctx)
	require.NoError(t, err)
	assert.Equal(t, "FastStepper", name)

	fw, err := c.ReadFirmwareVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, register.FastStepperFirmwareVersion, fw.String())

	require.NoError(t, c.WriteControl(ctx, register.ControlEnableMotor|register.ControlEnableEncoder))
	ctrl, err := c.ReadControl(ctx)
	require.NoError(t, err)
	assert.True(t, ctrl.Has(register.ControlEnableMotor|register.ControlEnableEncoder))
	assert.True(t, ctrl.Has(register.ControlDisableHoming))

	vel, err := c.ReadTimestampedMaxVelocity(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint16(simulator.DefaultMaxVelocity), vel.Value)
}

func TestClientRejectsOtherDevice(t *testing.T) {
	conn, _ := startSimulator(t, simulator.WithWhoAmI(1216))
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := device.Open(ctx, conn)
	assert.ErrorIs(t, err, device.ErrUnexpectedDeviceIdentity)
}

func TestSimulatorRejectsWriteToEventRegister(t *testing.T) {
	conn, _ := startSimulator(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// Bypass the client's local access check to see the device reply.
	reply, err := conn.Command(ctx, register.Moving.Encode(harp.Write, register.MovingIsMoving))
	require.NoError(t, err)
	assert.True(t, reply.IsError())
}

func TestMoveToEventsReachStream(t *testing.T) {
	conn, _ := startSimulator(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	c, err := device.Open(ctx, conn)
	require.NoError(t, err)
	require.NoError(t, c.WriteMoveTo(ctx, 1000))

	for v := range stream.Parse(register.Moving, stream.FromChannel(ctx, c.Events())) {
		assert.Equal(t, register.MovingIsMoving, v)
		return
	}
	t.Fatal("no Moving event received")
}
