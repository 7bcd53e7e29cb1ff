// Package log provides structured protocol capture for Harp sessions.
//
// This package defines the Logger interface and Event types for capturing
// protocol-level events at multiple layers (transport, wire, client).
// It is separate from operational logging (slog) - protocol capture provides
// a complete machine-readable event trace for debugging and analysis.
//
// # Basic Usage
//
// Components accept a Logger through their options:
//
//	// For development: log to console via slog
//	conn := transport.New(port, transport.WithProtocolLogger(log.NewSlogAdapter(slog.Default())))
//
//	// For bench sessions: write to a binary capture file
//	capture, _ := log.NewFileLogger("/var/log/faststepper/session.hlog")
//
//	// Both: use MultiLogger
//	logger := log.NewMultiLogger(log.NewSlogAdapter(slog.Default()), capture)
//
// # Event Types
//
// Events are captured at multiple layers:
//   - Transport: Raw frame bytes (FrameEvent)
//   - Wire: Decoded messages (MessageEvent)
//   - Client: Handshake and state changes (StateChangeEvent)
//
// Errors at any layer use ErrorEventData.
//
// # File Format
//
// Capture files use CBOR encoding with the .hlog extension. The faststepper-log
// CLI tool provides viewing, filtering, and export capabilities.
package log
