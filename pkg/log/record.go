package log

import (
	"fmt"
	"time"
)

// Record is the evaluated, serializable form of an entry. It is what
// FileLogger writes and Reader returns.
// CBOR encoding uses integer keys for compactness.
type Record struct {
	// Timestamp when the entry was created (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint" json:"timestamp" yaml:"timestamp"`

	// Level of the entry.
	Level Level `cbor:"2,keyasint" json:"level" yaml:"level"`

	// Category of the entry; empty by default.
	Category string `cbor:"3,keyasint,omitempty" json:"category" yaml:"category"`

	// Message is the rendered message.
	Message string `cbor:"4,keyasint,omitempty" json:"message" yaml:"message"`

	// Error is the text of the attached error, if any.
	Error string `cbor:"5,keyasint,omitempty" json:"error,omitempty" yaml:"error,omitempty"`

	// Properties in insertion order, with values reduced to encodable forms.
	Properties []Property `cbor:"6,keyasint,omitempty" json:"properties,omitempty" yaml:"properties,omitempty"`

	// Operation is set for entries posted by an Operation.
	Operation *OperationInfo `cbor:"7,keyasint,omitempty" json:"operation,omitempty" yaml:"operation,omitempty"`
}

// NewRecord evaluates e and captures it as a Record.
func NewRecord(e *Entry) Record {
	ev := e.Evaluate()

	r := Record{
		Timestamp: e.Timestamp(),
		Level:     e.Level(),
		Category:  e.Category(),
		Message:   ev.Message,
		Operation: e.Operation(),
	}
	if err := e.Err(); err != nil {
		r.Error = err.Error()
	}
	if len(ev.Properties) > 0 {
		r.Properties = make([]Property, len(ev.Properties))
		for i, p := range ev.Properties {
			r.Properties[i] = Property{Key: p.Key, Value: encodableValue(p.Value)}
		}
	}
	return r
}

// String returns the record rendered by FormatRecord.
func (r Record) String() string {
	return FormatRecord(r)
}

// encodableValue keeps scalars as they are and renders anything else as text.
func encodableValue(v any) any {
	switch x := v.(type) {
	case nil, string, bool, []byte,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64,
		time.Time, time.Duration:
		return x
	case error:
		return x.Error()
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
