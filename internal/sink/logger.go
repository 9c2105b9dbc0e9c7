package sink

import (
	"context"
	"log/slog"
)

// Logger writes events to a structured logger.
type Logger struct {
	logger *slog.Logger
}

// NewLogger creates a Logger sink. A nil logger uses slog.Default().
func NewLogger(logger *slog.Logger) *Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logger{logger: logger}
}

// Emit logs the event.
func (l *Logger) Emit(ev Event) {
	attrs := []slog.Attr{
		slog.String("conn_id", ev.ConnID.String()),
	}

	level := slog.LevelInfo
	var msg string

	switch ev.Kind {
	case KindConnecting:
		msg = "ws connecting"
		attrs = append(attrs, slog.String("endpoint", ev.Endpoint))
	case KindOpen:
		msg = "ws open"
	case KindMessage:
		msg = "got message"
		attrs = append(attrs, slog.String("data", ev.Payload))
	case KindSent:
		msg = "sent message"
		level = slog.LevelDebug
		attrs = append(attrs, slog.String("data", ev.Payload))
	case KindDropped:
		msg = "send dropped"
		level = slog.LevelDebug
		attrs = append(attrs, slog.String("data", ev.Payload))
	case KindClosed:
		msg = "ws closed"
	default:
		msg = "ws event"
		attrs = append(attrs, slog.String("kind", string(ev.Kind)))
	}

	if ev.Err != nil {
		attrs = append(attrs, slog.String("error", ev.Err.Error()))
	}

	l.logger.LogAttrs(context.Background(), level, msg, attrs...)
}
