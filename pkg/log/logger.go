package log

// Sink is the interface for subscribers that consume entries, such as
// FileLogger, WriterSink and SlogAdapter. Attach a Sink to a Bus with
// Bus.Attach.
type Sink interface {
	// Log handles a posted entry. Implementations must be thread-safe.
	// Log runs on the posting goroutine; blocking affects the producer.
	Log(e *Entry)
}

// NoopSink discards all entries.
// NoopSink is safe for concurrent use and usable as a zero value.
type NoopSink struct{}

// Log discards the entry.
func (NoopSink) Log(*Entry) {}

// Compile-time interface satisfaction check.
var _ Sink = NoopSink{}

// Logger posts entries with a fixed category to a bus.
// The zero value posts to Default() with an empty category.
type Logger struct {
	bus      *Bus
	category string
}

// Logger returns a Logger that posts to b with the given category.
func (b *Bus) Logger(category string) Logger {
	return Logger{bus: b, category: category}
}

// Category returns the logger's category.
func (l Logger) Category() string { return l.category }

// Bus returns the bus the logger posts to.
func (l Logger) Bus() *Bus {
	if l.bus == nil {
		return Default()
	}
	return l.bus
}

// Log posts an entry at the given level.
func (l Logger) Log(level Level, err error, msg string, args ...any) {
	l.Bus().Post(NewEntry(level, msg, args...).WithCategory(l.category).WithError(err))
}

// Trace posts an entry at LevelTrace.
func (l Logger) Trace(msg string, args ...any) { l.Log(LevelTrace, nil, msg, args...) }

// Debug posts an entry at LevelDebug.
func (l Logger) Debug(msg string, args ...any) { l.Log(LevelDebug, nil, msg, args...) }

// Info posts an entry at LevelInformation.
func (l Logger) Info(msg string, args ...any) { l.Log(LevelInformation, nil, msg, args...) }

// Warning posts an entry at LevelWarning.
func (l Logger) Warning(msg string, args ...any) { l.Log(LevelWarning, nil, msg, args...) }

// Error posts an entry at LevelError.
func (l Logger) Error(err error, msg string, args ...any) { l.Log(LevelError, err, msg, args...) }

// Critical posts an entry at LevelCritical.
func (l Logger) Critical(err error, msg string, args ...any) {
	l.Log(LevelCritical, err, msg, args...)
}

// OnExit opens an operation in the logger's category. See Bus.OnExit.
func (l Logger) OnExit(opts ...OperationOption) *Operation {
	return l.Bus().begin(callerName(2), operationConfig{}, l.options(opts))
}

// OnEnterAndExit opens an operation in the logger's category.
// See Bus.OnEnterAndExit.
func (l Logger) OnEnterAndExit(opts ...OperationOption) *Operation {
	return l.Bus().begin(callerName(2), operationConfig{logOnStart: true}, l.options(opts))
}

// ConfirmOnExit opens an operation in the logger's category.
// See Bus.ConfirmOnExit.
func (l Logger) ConfirmOnExit(opts ...OperationOption) *Operation {
	return l.Bus().begin(callerName(2), operationConfig{requireConfirm: true}, l.options(opts))
}

// options puts the logger's category first so callers can still override it.
func (l Logger) options(opts []OperationOption) []OperationOption {
	all := make([]OperationOption, 0, len(opts)+1)
	all = append(all, WithCategory(l.category))
	return append(all, opts...)
}
