// Package register binds Harp register addresses to typed values.
//
// A Schema is an immutable table of Descriptors, one per register. Each
// descriptor fixes the wire encoding (payload type and element count) and the
// semantic shape of the value: a plain integer or a set of independent bits.
//
// Register[T] is the typed view of one descriptor. It decodes protocol
// messages into T and encodes T back into messages:
//
//	msg := register.Control.Encode(harp.Write, register.ControlEnableMotor|register.ControlEnableEncoder)
//	flags, err := register.Control.Decode(msg)
//
// The FastStepper table, its flag types and the typed registers are generated
// from registers/faststepper.yaml by cmd/faststepper-gen. The registers common
// to every Harp device (WhoAmI, versions, device name) live in the Core schema.
//
// Flag values are never masked: bits the table does not name survive a
// decode/encode round trip unchanged.
package register

//go:generate go run ../../cmd/faststepper-gen -input ../../registers/faststepper.yaml -register-out faststepper_gen.go -device-out ../device/faststepper_gen.go
