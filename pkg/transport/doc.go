// Package transport carries Harp messages over a serial link.
//
// The transport layer handles:
//   - Harp framing with checksum verification and stream resynchronization
//   - Serial port access (github.com/tarm/serial)
//   - Request/reply correlation with at most one request in flight
//   - The inbound event stream
//   - Protocol capture of frames, messages and state changes
//
// # Protocol Stack
//
//	┌────────────────────────────────┐
//	│      Register values           │
//	├────────────────────────────────┤
//	│   Harp messages (harp pkg)     │
//	├────────────────────────────────┤
//	│   Harp framing + checksum      │
//	├────────────────────────────────┤
//	│      Serial (1 Mbaud)          │
//	└────────────────────────────────┘
//
// # Correlation
//
// A reply matches the pending request when its address and base message
// type agree. Everything else, including late replies to cancelled
// requests, goes to the event stream. The stream buffer drops its oldest
// message when a consumer falls behind.
package transport
