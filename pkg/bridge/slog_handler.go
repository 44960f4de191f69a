package bridge

import (
	"context"
	"log/slog"

	"github.com/pocketlog/pocketlog-go/pkg/log"
)

// SlogHandler is an slog.Handler that posts every record to a bus.
type SlogHandler struct {
	bus      *log.Bus
	category string
	pred     Predicate
	attrs    []boundAttr
	prefix   string
}

// boundAttr is an attr added with WithAttrs, together with the group prefix
// that was open at the time.
type boundAttr struct {
	prefix string
	attr   slog.Attr
}

// NewSlogHandler returns a handler that posts to bus with the given category.
// A nil bus means log.Default().
func NewSlogHandler(bus *log.Bus, category string, pred Predicate) *SlogHandler {
	if bus == nil {
		bus = log.Default()
	}
	return &SlogHandler{bus: bus, category: category, pred: pred}
}

// FromSlogLevel maps an slog level onto log levels. Levels between the named
// slog levels round down; anything at least four above Error is Critical.
func FromSlogLevel(l slog.Level) log.Level {
	switch {
	case l < slog.LevelDebug:
		return log.LevelTrace
	case l < slog.LevelInfo:
		return log.LevelDebug
	case l < slog.LevelWarn:
		return log.LevelInformation
	case l < slog.LevelError:
		return log.LevelWarning
	case l < slog.LevelError+4:
		return log.LevelError
	default:
		return log.LevelCritical
	}
}

// Enabled implements slog.Handler.
func (h *SlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.pred.allows(h.category, FromSlogLevel(level))
}

// Handle implements slog.Handler. The record message is taken as is; attrs
// become properties in order, with group names joined by ".".
func (h *SlogHandler) Handle(_ context.Context, r slog.Record) error {
	e := log.NewMessage(FromSlogLevel(r.Level), r.Message).WithCategory(h.category)

	for _, b := range h.attrs {
		addAttr(e, b.prefix, b.attr)
	}
	r.Attrs(func(a slog.Attr) bool {
		addAttr(e, h.prefix, a)
		return true
	})

	h.bus.Post(e)
	return nil
}

// WithAttrs implements slog.Handler.
func (h *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	h2 := *h
	h2.attrs = make([]boundAttr, len(h.attrs), len(h.attrs)+len(attrs))
	copy(h2.attrs, h.attrs)
	for _, a := range attrs {
		h2.attrs = append(h2.attrs, boundAttr{prefix: h.prefix, attr: a})
	}
	return &h2
}

// WithGroup implements slog.Handler.
func (h *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.prefix = h.prefix + name + "."
	return &h2
}

func addAttr(e *log.Entry, prefix string, a slog.Attr) {
	if a.Equal(slog.Attr{}) {
		return
	}

	v := a.Value
	switch v.Kind() {
	case slog.KindGroup:
		group := v.Group()
		p := prefix
		if a.Key != "" {
			p = prefix + a.Key + "."
		}
		for _, ga := range group {
			addAttr(e, p, ga)
		}
		return
	case slog.KindLogValuer:
		_ = e.AddProperty(prefix+a.Key, log.Lazy(func() any {
			return v.Resolve().Any()
		}))
		return
	case slog.KindAny:
		if err, ok := v.Any().(error); ok && isErrorKey(a.Key) && e.Err() == nil {
			e.WithError(err)
			return
		}
	}

	_ = e.AddProperty(prefix+a.Key, v.Any())
}

func isErrorKey(key string) bool {
	return key == "err" || key == "error"
}

// Compile-time interface satisfaction check.
var _ slog.Handler = (*SlogHandler)(nil)
