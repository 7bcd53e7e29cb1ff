// Package harp defines the binary message format of the Harp protocol.
//
// Harp devices exchange little-endian, checksummed frames over a serial link.
// Every frame addresses a single register:
//
//	[messageType][length][address][port][payloadType][timestamp?][payload...][checksum]
//
// The length byte counts every byte that follows it. When the payload type carries
// the timestamp flag, six bytes of timestamp (u32 seconds, u16 ticks of 32 µs)
// precede the payload. The checksum is the sum of all preceding bytes modulo 256.
//
// # Messages
//
// A Message is constructed once and never mutated. Use the typed constructors
// to build outbound messages:
//
//	msg := harp.NewMessage(harp.Write, 32, harp.U16, payload)
//	msg = msg.WithTimestamp(12.5)
//
// and Marshal/Unmarshal to convert to and from frames:
//
//	frame, err := msg.MarshalBinary()
//	msg, err := harp.Unmarshal(frame)
//
// Register semantics (what a payload means) live in package register; this
// package only knows about bytes.
package harp
