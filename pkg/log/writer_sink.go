package log

import (
	"io"
	"sync"
)

// WriterSink writes one formatted line per entry to an io.Writer.
// It is safe for concurrent use.
type WriterSink struct {
	mu       sync.Mutex
	w        io.Writer
	minLevel Level
	format   Formatter
}

// WriterOption configures a WriterSink.
type WriterOption func(*WriterSink)

// WithMinLevel drops entries below level.
func WithMinLevel(level Level) WriterOption {
	return func(s *WriterSink) {
		s.minLevel = level
	}
}

// WithFormatter replaces Format as the line renderer.
func WithFormatter(f Formatter) WriterOption {
	return func(s *WriterSink) {
		if f != nil {
			s.format = f
		}
	}
}

// NewWriterSink creates a sink that writes to w.
func NewWriterSink(w io.Writer, opts ...WriterOption) *WriterSink {
	s := &WriterSink{
		w:        w,
		minLevel: LevelTrace,
		format:   Format,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Log writes the formatted entry followed by a newline. Write errors are
// ignored.
func (s *WriterSink) Log(e *Entry) {
	if e == nil || e.Level() < s.minLevel {
		return
	}
	line := s.format(e) + "\n"

	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = io.WriteString(s.w, line)
}

// Compile-time interface satisfaction check.
var _ Sink = (*WriterSink)(nil)
