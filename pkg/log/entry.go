package log

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Property is a key/value pair attached to an entry. Keys need not be unique.
type Property struct {
	Key   string `cbor:"1,keyasint" json:"key" yaml:"key"`
	Value any    `cbor:"2,keyasint,omitempty" json:"value" yaml:"value"`
}

// Lazy is a deferred value. When a Lazy (or a plain func() any) is used as a
// template argument or property value, it is called once, when the entry is
// first evaluated.
type Lazy func() any

// OperationInfo stamps an entry as belonging to an operation.
// CBOR encoding uses integer keys for compactness.
type OperationInfo struct {
	// ID correlates all entries of one operation instance.
	ID string `cbor:"1,keyasint" json:"id" yaml:"id"`

	// Name is the operation name, by default the function that opened it.
	Name string `cbor:"2,keyasint,omitempty" json:"name,omitempty" yaml:"name,omitempty"`

	// IsStart is set on the entry posted when the operation begins.
	IsStart bool `cbor:"3,keyasint,omitempty" json:"is_start,omitempty" yaml:"is_start,omitempty"`

	// IsEnd is set on the single entry posted when the operation completes.
	IsEnd bool `cbor:"4,keyasint,omitempty" json:"is_end,omitempty" yaml:"is_end,omitempty"`

	// Outcome is only meaningful when IsEnd is set. Untracked is the zero
	// value and is left out of JSON and YAML.
	Outcome Outcome `cbor:"5,keyasint,omitempty" json:"outcome,omitempty" yaml:"outcome,omitempty"`

	// Duration is the time elapsed since the operation began. Nil on the start entry.
	Duration *time.Duration `cbor:"6,keyasint,omitempty" json:"duration,omitempty" yaml:"duration,omitempty"`
}

// IsCheckpoint reports whether the entry is an intermediate operation entry.
func (o *OperationInfo) IsCheckpoint() bool {
	return o != nil && !o.IsStart && !o.IsEnd
}

// Evaluated is the rendered form of an entry. The Properties slice is shared
// between all readers and must not be modified.
type Evaluated struct {
	Message    string
	Properties []Property
}

// Entry is one logged event.
//
// An entry is cheap to construct: the template, its arguments and any added
// properties are stored as given and only rendered by Evaluate. Evaluation
// happens at most once and is safe to call from multiple goroutines.
//
// WithCategory, WithError and AddProperty are construction steps and must
// happen before the entry is posted.
type Entry struct {
	timestamp time.Time
	level     Level
	category  string
	err       error
	operation *OperationInfo

	template string
	args     []any
	literal  bool

	mu         sync.Mutex
	properties []Property
	done       atomic.Bool
	evaluated  Evaluated
}

// NewEntry creates an entry whose message is rendered from template and args
// on first evaluation.
func NewEntry(level Level, template string, args ...any) *Entry {
	return &Entry{
		timestamp: time.Now(),
		level:     level,
		template:  template,
		args:      args,
	}
}

// NewMessage creates an entry with a precomputed message. Braces in message
// are not interpreted.
func NewMessage(level Level, message string) *Entry {
	return &Entry{
		timestamp: time.Now(),
		level:     level,
		template:  message,
		literal:   true,
	}
}

// WithCategory sets the entry's category and returns the entry.
func (e *Entry) WithCategory(category string) *Entry {
	e.category = category
	return e
}

// WithError attaches err to the entry and returns the entry.
func (e *Entry) WithError(err error) *Entry {
	e.err = err
	return e
}

func (e *Entry) withOperation(info *OperationInfo) *Entry {
	e.operation = info
	return e
}

// AddProperty appends a property. It fails with ErrEntryEvaluated once the
// entry has been evaluated.
func (e *Entry) AddProperty(key string, value any) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.done.Load() {
		return ErrEntryEvaluated
	}
	e.properties = append(e.properties, Property{Key: key, Value: value})
	return nil
}

// Timestamp returns when the entry was created.
func (e *Entry) Timestamp() time.Time { return e.timestamp }

// Level returns the entry's level.
func (e *Entry) Level() Level { return e.level }

// Category returns the entry's category. The default is the empty string.
func (e *Entry) Category() string { return e.category }

// Err returns the error attached to the entry, if any.
func (e *Entry) Err() error { return e.err }

// Operation returns the operation stamp, or nil for entries outside an
// operation. The returned value must not be modified.
func (e *Entry) Operation() *OperationInfo { return e.operation }

// Message returns the evaluated message.
func (e *Entry) Message() string { return e.Evaluate().Message }

// Evaluate renders the message and materializes property values. The first
// call does the work; later calls return the cached result.
func (e *Entry) Evaluate() Evaluated {
	if e.done.Load() {
		return e.evaluated
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.done.Load() {
		e.evaluated = e.evaluate()
		e.done.Store(true)
	}
	return e.evaluated
}

// String returns the entry rendered by Format.
func (e *Entry) String() string {
	return Format(e)
}

func (e *Entry) evaluate() Evaluated {
	var ev Evaluated

	if e.literal {
		ev.Message = e.template
	} else {
		args := make([]any, len(e.args))
		for i, a := range e.args {
			args[i] = resolve(a)
		}
		ev.Message, ev.Properties = render(e.template, args)
	}

	for _, p := range e.properties {
		ev.Properties = append(ev.Properties, Property{Key: p.Key, Value: resolve(p.Value)})
	}
	return ev
}

// resolve calls deferred values. A panicking thunk renders like fmt does for
// a panicking Stringer.
func resolve(v any) (out any) {
	var fn func() any
	switch f := v.(type) {
	case Lazy:
		fn = f
	case func() any:
		fn = f
	default:
		return v
	}
	if fn == nil {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			out = fmt.Sprintf("!(PANIC=%v)", r)
		}
	}()
	return fn()
}
