package log

import "sync"

var (
	defaultOnce sync.Once
	defaultBus  *Bus
)

// Default returns the process-wide bus used by the package-level functions.
// It is created on first use with NewBus() and lives for the rest of the
// process; there is nothing to tear down besides the subscriptions callers
// hold.
func Default() *Bus {
	defaultOnce.Do(func() {
		defaultBus = NewBus()
	})
	return defaultBus
}

// Subscribe registers fn on the default bus.
func Subscribe(fn func(*Entry)) (*Subscription, error) {
	return Default().Subscribe(fn)
}

// Post posts e to the default bus.
func Post(e *Entry) {
	Default().Post(e)
}

// OnExit opens an operation on the default bus. See Bus.OnExit.
func OnExit(opts ...OperationOption) *Operation {
	return Default().begin(callerName(2), operationConfig{}, opts)
}

// OnEnterAndExit opens an operation on the default bus.
// See Bus.OnEnterAndExit.
func OnEnterAndExit(opts ...OperationOption) *Operation {
	return Default().begin(callerName(2), operationConfig{logOnStart: true}, opts)
}

// ConfirmOnExit opens an operation on the default bus.
// See Bus.ConfirmOnExit.
func ConfirmOnExit(opts ...OperationOption) *Operation {
	return Default().begin(callerName(2), operationConfig{requireConfirm: true}, opts)
}

// Trace posts an uncategorized entry to the default bus at LevelTrace.
func Trace(msg string, args ...any) { Logger{}.Log(LevelTrace, nil, msg, args...) }

// Debug posts an uncategorized entry to the default bus at LevelDebug.
func Debug(msg string, args ...any) { Logger{}.Log(LevelDebug, nil, msg, args...) }

// Info posts an uncategorized entry to the default bus at LevelInformation.
func Info(msg string, args ...any) { Logger{}.Log(LevelInformation, nil, msg, args...) }

// Warning posts an uncategorized entry to the default bus at LevelWarning.
func Warning(msg string, args ...any) { Logger{}.Log(LevelWarning, nil, msg, args...) }

// Error posts an uncategorized entry to the default bus at LevelError.
func Error(err error, msg string, args ...any) { Logger{}.Log(LevelError, err, msg, args...) }

// Critical posts an uncategorized entry to the default bus at LevelCritical.
func Critical(err error, msg string, args ...any) {
	Logger{}.Log(LevelCritical, err, msg, args...)
}
