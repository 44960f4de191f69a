package log

import (
	"fmt"
	"strings"
	"time"
)

// Markers identify operation entries in formatted output.
const (
	MarkerStart      = "▶️"
	MarkerCheckpoint = "⏺"
	MarkerEnd        = "⏹"
	MarkerSucceeded  = "✔️"
	MarkerFailed     = "✖"
)

// TimestampFormat is the layout used by Format.
const TimestampFormat = "2006-01-02T15:04:05.000Z"

// Formatter renders an entry as a single line.
type Formatter func(*Entry) string

// Format renders e as a single line:
//
//	<time> [<level>] [<category>] <marker> <name> (<id>) <message> (+<duration>) {k=v ...} error: <err>
//
// Segments that do not apply are left out. Format evaluates the entry.
func Format(e *Entry) string {
	if e == nil {
		return ""
	}
	return FormatRecord(NewRecord(e))
}

// FormatRecord renders a record the same way Format renders an entry.
func FormatRecord(r Record) string {
	var b strings.Builder

	b.WriteString(r.Timestamp.UTC().Format(TimestampFormat))
	fmt.Fprintf(&b, " [%s]", r.Level)
	if r.Category != "" {
		fmt.Fprintf(&b, " [%s]", r.Category)
	}

	op := r.Operation
	if op != nil {
		b.WriteByte(' ')
		b.WriteString(OperationMarker(op))
		if op.Name != "" {
			b.WriteByte(' ')
			b.WriteString(op.Name)
		}
		fmt.Fprintf(&b, " (%s)", op.ID)
	}

	if r.Message != "" {
		b.WriteByte(' ')
		b.WriteString(r.Message)
	}

	if op != nil && op.Duration != nil {
		fmt.Fprintf(&b, " (+%s)", FormatDuration(*op.Duration))
	}

	if len(r.Properties) > 0 {
		b.WriteString(" {")
		for i, p := range r.Properties {
			if i > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%s=%v", p.Key, p.Value)
		}
		b.WriteByte('}')
	}

	if r.Error != "" {
		b.WriteString(" error: ")
		b.WriteString(r.Error)
	}

	return b.String()
}

// OperationMarker returns the marker for an operation entry: start,
// checkpoint, or end with its outcome.
func OperationMarker(op *OperationInfo) string {
	switch {
	case op.IsStart:
		return MarkerStart
	case op.IsEnd:
		switch op.Outcome {
		case OutcomeSucceeded:
			return MarkerEnd + " -> " + MarkerSucceeded
		case OutcomeFailed:
			return MarkerEnd + " -> " + MarkerFailed
		default:
			return MarkerEnd
		}
	default:
		return MarkerCheckpoint
	}
}

// FormatDuration renders d with millisecond-scale precision.
func FormatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.3fus", float64(d.Nanoseconds())/1000)
	}
	if d < time.Second {
		return fmt.Sprintf("%.3fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.3fs", d.Seconds())
}
