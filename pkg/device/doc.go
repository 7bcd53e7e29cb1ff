// Package device is the command client for the FastStepper controller.
//
// Open checks the device identity before anything else:
//
//	conn, err := transport.Open(transport.SerialConfig{Port: "/dev/ttyUSB0"})
//	...
//	client, err := device.Open(ctx, conn)
//	if errors.Is(err, device.ErrUnexpectedDeviceIdentity) {
//		// not a FastStepper
//	}
//
// Every register has typed accessors generated from the register map,
// e.g. ReadEncoder, WriteMoveTo and ReadTimestampedMoving. Registers that
// the device only reports have no write accessor. The generic Read, Write
// and ReadTimestamped functions accept any register.Register value.
//
// A client issues one request at a time. Concurrent callers queue; each
// waits only as long as its own context allows. A deadline that expires is
// reported as ErrTimeout, a cancelled context as context.Canceled.
// Replies with the error flag set are returned as *DeviceError, link
// failures as *TransportError.
package device
