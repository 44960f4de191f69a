package log

import (
	"context"
	"log/slog"
)

// SlogAdapter forwards entries to an slog.Logger.
// Useful for development when you want to see entries in the console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// SlogLevel maps a level onto the slog scale. Trace folds into Debug and
// Critical into Error.
func SlogLevel(level Level) slog.Level {
	switch level {
	case LevelTrace, LevelDebug:
		return slog.LevelDebug
	case LevelInformation:
		return slog.LevelInfo
	case LevelWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// Log writes the entry to the slog logger.
func (a *SlogAdapter) Log(e *Entry) {
	if e == nil {
		return
	}
	level := SlogLevel(e.Level())
	ctx := context.Background()
	if !a.logger.Enabled(ctx, level) {
		return
	}

	ev := e.Evaluate()
	attrs := []slog.Attr{
		slog.String("category", e.Category()),
	}

	// Add operation identifiers
	if op := e.Operation(); op != nil {
		attrs = append(attrs,
			slog.String("op_id", op.ID),
			slog.String("op_name", op.Name),
		)
		switch {
		case op.IsStart:
			attrs = append(attrs, slog.String("op_event", "start"))
		case op.IsEnd:
			attrs = append(attrs,
				slog.String("op_event", "end"),
				slog.String("outcome", op.Outcome.String()),
			)
		default:
			attrs = append(attrs, slog.String("op_event", "checkpoint"))
		}
		if op.Duration != nil {
			attrs = append(attrs, slog.Duration("duration", *op.Duration))
		}
	}

	if err := e.Err(); err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}

	for _, p := range ev.Properties {
		attrs = append(attrs, slog.Any(p.Key, p.Value))
	}

	a.logger.LogAttrs(ctx, level, ev.Message, attrs...)
}

// Compile-time interface satisfaction check.
var _ Sink = (*SlogAdapter)(nil)
