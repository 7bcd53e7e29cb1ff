package log

import (
	"context"
	"encoding/hex"
	"log/slog"
)

// SlogAdapter writes protocol events to an slog.Logger at Debug level.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("conn_id", event.ConnectionID),
		slog.String("direction", event.Direction.String()),
		slog.String("layer", event.Layer.String()),
		slog.String("category", event.Category.String()),
	}

	if event.Target != "" {
		attrs = append(attrs, slog.String("target", event.Target))
	}
	if event.WhoAmI != 0 {
		attrs = append(attrs, slog.Uint64("who_am_i", uint64(event.WhoAmI)))
	}

	switch {
	case event.Frame != nil:
		attrs = append(attrs,
			slog.Int("frame_size", event.Frame.Size),
			slog.String("frame", hex.EncodeToString(event.Frame.Data)),
		)
		if event.Frame.Truncated {
			attrs = append(attrs, slog.Bool("truncated", true))
		}
		if event.Frame.Discarded > 0 {
			attrs = append(attrs, slog.Int("discarded", event.Frame.Discarded))
		}
	case event.Message != nil:
		m := event.Message
		attrs = append(attrs,
			slog.String("msg_type", m.Type.String()),
			slog.Uint64("address", uint64(m.Address)),
			slog.String("payload_type", m.PayloadType.String()),
			slog.String("payload", hex.EncodeToString(m.Payload)),
		)
		if m.Register != "" {
			attrs = append(attrs, slog.String("register", m.Register))
		}
		if m.DeviceTime != nil {
			attrs = append(attrs, slog.Float64("device_time", *m.DeviceTime))
		}
		if m.Latency != nil {
			attrs = append(attrs, slog.Duration("latency", *m.Latency))
		}
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("entity", event.StateChange.Entity.String()),
			slog.String("old_state", event.StateChange.OldState),
			slog.String("new_state", event.StateChange.NewState),
		)
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error_layer", event.Error.Layer.String()),
			slog.String("error_msg", event.Error.Message),
			slog.String("error_context", event.Error.Context),
		)
		if event.Error.Address != nil {
			attrs = append(attrs, slog.Uint64("error_address", uint64(*event.Error.Address)))
		}
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "protocol", attrs...)
}

var _ Logger = (*SlogAdapter)(nil)
