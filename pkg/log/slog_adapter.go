package log

import (
	"context"
	"fmt"
	"log/slog"
)

// SlogAdapter writes exchange events to an slog.Logger.
// Useful for development when you want to see exchanges in the console.
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
		slog.String("exchange_id", event.ExchangeID),
		slog.String("direction", event.Direction.String()),
		slog.String("layer", event.Layer.String()),
		slog.String("category", event.Category.String()),
	}

	if event.RemoteAddr != "" {
		attrs = append(attrs, slog.String("remote", event.RemoteAddr))
	}
	if event.Path != "" {
		attrs = append(attrs, slog.String("path", event.Path))
	}

	switch {
	case event.Frame != nil:
		attrs = append(attrs,
			slog.Int("frame_size", event.Frame.Size),
			slog.Bool("truncated", event.Frame.Truncated),
		)
		if event.Frame.Multicast {
			attrs = append(attrs, slog.Bool("multicast", true))
		}
	case event.Message != nil:
		attrs = append(attrs,
			slog.Uint64("msg_id", uint64(event.Message.MessageID)),
			slog.String("msg_type", event.Message.Type.String()),
			slog.String("code", event.Message.Code.String()),
		)
		if len(event.Message.Token) > 0 {
			attrs = append(attrs, slog.String("token", fmt.Sprintf("%x", event.Message.Token)))
		}
		if event.Message.Observe != nil {
			attrs = append(attrs, slog.Uint64("observe", uint64(*event.Message.Observe)))
		}
		if event.Message.Block2 != nil {
			attrs = append(attrs, slog.Uint64("block2", uint64(*event.Message.Block2)))
		}
		if event.Message.ProcessingTime != nil {
			attrs = append(attrs, slog.Duration("processing_time", *event.Message.ProcessingTime))
		}
	case event.Block != nil:
		attrs = append(attrs,
			slog.Int("cursor", int(event.Block.Cursor)),
			slog.Int("length", event.Block.Length),
			slog.Int("next", int(event.Block.Next)),
			slog.Int("total", event.Block.Total),
		)
	case event.Notify != nil:
		attrs = append(attrs,
			slog.Uint64("seq", uint64(event.Notify.Sequence)),
			slog.Int("observers", event.Notify.Observers),
		)
		if event.Notify.Suppressed {
			attrs = append(attrs, slog.Bool("suppressed", true))
		}
	case event.Group != nil:
		attrs = append(attrs,
			slog.String("action", event.Group.Action.String()),
			slog.String("group", fmt.Sprintf("%#04x", event.Group.GroupID)),
		)
		if event.Group.Handler != "" {
			attrs = append(attrs, slog.String("handler", event.Group.Handler))
		}
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error_layer", event.Error.Layer.String()),
			slog.String("error_msg", event.Error.Message),
			slog.String("error_context", event.Error.Context),
		)
		if event.Error.Code != nil {
			attrs = append(attrs, slog.Int("error_code", *event.Error.Code))
		}
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "exchange", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
