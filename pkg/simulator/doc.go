// Package simulator emulates a FastStepper controller at the register level.
//
// A Device holds the core and application register banks with the firmware
// defaults and answers Harp requests the way the hardware does: reads return
// the current value, writes store it and echo it back, and requests the
// firmware rejects (unknown address, wrong payload type, writes to
// device-reported registers) are answered with the error flag set.
//
// Handle is the pure request/reply core. Serve speaks Harp frames over any
// io.ReadWriter, which lets tests and the -simulate command-line flag run
// the full client stack over net.Pipe:
//
//	host, dev := net.Pipe()
//	sim := simulator.New()
//	go sim.Serve(ctx, dev)
//	conn := transport.New(host)
package simulator
