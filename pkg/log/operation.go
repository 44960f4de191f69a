package log

import (
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Operation logs a scoped unit of work as a correlated sequence of entries:
// an optional start entry, any number of checkpoints and exactly one end
// entry. All of them share the operation's ID, and every entry after the
// start carries the time elapsed since the operation began.
//
// The end entry is posted by Succeed, Fail, FailWith or Close, whichever
// comes first. Any call after that is a no-op, so
//
//	op := bus.ConfirmOnExit()
//	defer op.Close()
//
// is always safe. Entries from one operation are posted in the order they are
// produced, even when it is shared between goroutines. Subscribers must not
// log through the operation whose entry they are handling.
type Operation struct {
	bus            *Bus
	id             string
	name           string
	category       string
	level          Level
	requireConfirm bool
	start          time.Time

	mu        sync.Mutex  // held while an entry is built and posted
	completed atomic.Bool // written under mu
}

type operationConfig struct {
	id             string
	name           string
	category       string
	level          Level
	logOnStart     bool
	requireConfirm bool
}

// OperationOption configures an Operation.
type OperationOption func(*operationConfig)

// WithCategory sets the category of every entry the operation posts.
func WithCategory(category string) OperationOption {
	return func(c *operationConfig) {
		c.category = category
	}
}

// WithID sets the operation ID. An empty ID means one is generated.
func WithID(id string) OperationOption {
	return func(c *operationConfig) {
		c.id = id
	}
}

// WithName overrides the operation name, which defaults to the name of the
// function that opened the operation.
func WithName(name string) OperationOption {
	return func(c *operationConfig) {
		c.name = name
	}
}

// LogOnStart controls whether a start entry is posted when the operation is
// opened.
func LogOnStart(enabled bool) OperationOption {
	return func(c *operationConfig) {
		c.logOnStart = enabled
	}
}

// RequireConfirm makes an operation that is closed without Succeed or Fail
// end as failed instead of untracked.
func RequireConfirm() OperationOption {
	return func(c *operationConfig) {
		c.requireConfirm = true
	}
}

// WithLevel sets the level of start, Info and end entries. Failed end
// entries are posted at LevelError or above.
func WithLevel(level Level) OperationOption {
	return func(c *operationConfig) {
		c.level = level
	}
}

// OnExit opens an operation that posts a single entry when it completes.
func (b *Bus) OnExit(opts ...OperationOption) *Operation {
	return b.begin(callerName(2), operationConfig{}, opts)
}

// OnEnterAndExit opens an operation that posts a start entry now and an end
// entry when it completes.
func (b *Bus) OnEnterAndExit(opts ...OperationOption) *Operation {
	return b.begin(callerName(2), operationConfig{logOnStart: true}, opts)
}

// ConfirmOnExit opens an operation that must be confirmed with Succeed or
// Fail. Closing it unconfirmed posts a failed end entry.
func (b *Bus) ConfirmOnExit(opts ...OperationOption) *Operation {
	return b.begin(callerName(2), operationConfig{requireConfirm: true}, opts)
}

func (b *Bus) begin(name string, cfg operationConfig, opts []OperationOption) *Operation {
	cfg.name = name
	cfg.level = LevelInformation
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.id == "" {
		cfg.id = uuid.NewString()
	}

	op := &Operation{
		bus:            b,
		id:             cfg.id,
		name:           cfg.name,
		category:       cfg.category,
		level:          cfg.level,
		requireConfirm: cfg.requireConfirm,
		start:          time.Now(),
	}

	if cfg.logOnStart {
		op.mu.Lock()
		op.post(NewEntry(op.level, ""), &OperationInfo{
			ID:      op.id,
			Name:    op.name,
			IsStart: true,
		})
		op.mu.Unlock()
	}
	return op
}

// ID returns the operation ID shared by all of its entries.
func (o *Operation) ID() string { return o.id }

// Name returns the operation name.
func (o *Operation) Name() string { return o.name }

// Category returns the category of the operation's entries.
func (o *Operation) Category() string { return o.category }

// Elapsed returns the time since the operation began.
func (o *Operation) Elapsed() time.Duration { return time.Since(o.start) }

// Completed reports whether the operation has ended. It does not take the
// operation lock, so subscribers may call it while handling its entries.
func (o *Operation) Completed() bool {
	return o.completed.Load()
}

// Trace posts a checkpoint at LevelTrace.
func (o *Operation) Trace(msg string, args ...any) {
	o.checkpoint(LevelTrace, nil, msg, args)
}

// Debug posts a checkpoint at LevelDebug.
func (o *Operation) Debug(msg string, args ...any) {
	o.checkpoint(LevelDebug, nil, msg, args)
}

// Info posts a checkpoint at the operation's level.
func (o *Operation) Info(msg string, args ...any) {
	o.checkpoint(o.level, nil, msg, args)
}

// Warning posts a checkpoint at LevelWarning.
func (o *Operation) Warning(msg string, args ...any) {
	o.checkpoint(LevelWarning, nil, msg, args)
}

// Error posts a checkpoint at LevelError. It does not complete the operation.
func (o *Operation) Error(err error, msg string, args ...any) {
	o.checkpoint(LevelError, err, msg, args)
}

// Critical posts a checkpoint at LevelCritical.
func (o *Operation) Critical(err error, msg string, args ...any) {
	o.checkpoint(LevelCritical, err, msg, args)
}

// Log posts a checkpoint at the given level.
func (o *Operation) Log(level Level, err error, msg string, args ...any) {
	o.checkpoint(level, err, msg, args)
}

// Succeed completes the operation as successful. msg may be empty.
func (o *Operation) Succeed(msg string, args ...any) {
	o.complete(OutcomeSucceeded, nil, msg, args)
}

// Fail completes the operation as failed. msg may be empty.
func (o *Operation) Fail(msg string, args ...any) {
	o.complete(OutcomeFailed, nil, msg, args)
}

// FailWith completes the operation as failed and attaches err.
func (o *Operation) FailWith(err error, msg string, args ...any) {
	o.complete(OutcomeFailed, err, msg, args)
}

// Close completes the operation if nothing else has. The outcome is
// OutcomeUntracked, or OutcomeFailed if confirmation was required.
// Close always returns nil.
func (o *Operation) Close() error {
	outcome := OutcomeUntracked
	if o.requireConfirm {
		outcome = OutcomeFailed
	}
	o.complete(outcome, nil, "", nil)
	return nil
}

func (o *Operation) checkpoint(level Level, err error, msg string, args []any) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.completed.Load() {
		return
	}

	elapsed := time.Since(o.start)
	o.post(NewEntry(level, msg, args...).WithError(err), &OperationInfo{
		ID:       o.id,
		Name:     o.name,
		Duration: &elapsed,
	})
}

func (o *Operation) complete(outcome Outcome, err error, msg string, args []any) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.completed.Load() {
		return
	}
	o.completed.Store(true)

	level := o.level
	if outcome == OutcomeFailed && level < LevelError {
		level = LevelError
	}

	elapsed := time.Since(o.start)
	o.post(NewEntry(level, msg, args...).WithError(err), &OperationInfo{
		ID:       o.id,
		Name:     o.name,
		IsEnd:    true,
		Outcome:  outcome,
		Duration: &elapsed,
	})
}

// post must be called with o.mu held.
func (o *Operation) post(e *Entry, info *OperationInfo) {
	o.bus.Post(e.WithCategory(o.category).withOperation(info))
}

// callerName returns the short name of the function skip frames above it.
func callerName(skip int) string {
	pc, _, _, ok := runtime.Caller(skip)
	if !ok {
		return ""
	}
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return ""
	}
	return shortFuncName(fn.Name())
}

// shortFuncName trims the import path and package from a qualified function
// name: "example.com/pkg/store.(*DB).Get" becomes "(*DB).Get".
func shortFuncName(name string) string {
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}
