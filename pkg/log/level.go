package log

import (
	"fmt"
	"strings"
)

// Level is the severity of an entry. Levels are ordered from least to most severe.
type Level uint8

const (
	// LevelTrace is the most verbose level.
	LevelTrace Level = iota
	// LevelDebug is for diagnostic detail.
	LevelDebug
	// LevelInformation is the default level for operations and ad-hoc entries.
	LevelInformation
	// LevelWarning indicates something unexpected that did not fail.
	LevelWarning
	// LevelError indicates a failure.
	LevelError
	// LevelCritical indicates a failure that needs immediate attention.
	LevelCritical
)

// String returns the level name.
func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "Trace"
	case LevelDebug:
		return "Debug"
	case LevelInformation:
		return "Information"
	case LevelWarning:
		return "Warning"
	case LevelError:
		return "Error"
	case LevelCritical:
		return "Critical"
	default:
		return "Unknown"
	}
}

// MarshalText encodes the level by name.
func (l Level) MarshalText() ([]byte, error) {
	if l > LevelCritical {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLevel, uint8(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText decodes a level name.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseLevel parses a level name. Matching is case-insensitive and accepts
// the common short forms (info, warn, err, crit).
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "information", "info":
		return LevelInformation, nil
	case "warning", "warn":
		return LevelWarning, nil
	case "error", "err":
		return LevelError, nil
	case "critical", "crit":
		return LevelCritical, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
	}
}

// Outcome is the tri-state result recorded on an operation's end entry.
//
// OutcomeUntracked means the operation did not require confirmation, which is
// distinct from a known failure.
type Outcome uint8

const (
	// OutcomeUntracked means success was not tracked for the operation.
	OutcomeUntracked Outcome = iota
	// OutcomeSucceeded means the operation was confirmed successful.
	OutcomeSucceeded
	// OutcomeFailed means the operation failed or was never confirmed.
	OutcomeFailed
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeUntracked:
		return "untracked"
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// IsSuccessful returns the nullable view of the outcome: nil when untracked.
func (o Outcome) IsSuccessful() *bool {
	var b bool
	switch o {
	case OutcomeSucceeded:
		b = true
	case OutcomeFailed:
		b = false
	default:
		return nil
	}
	return &b
}

// MarshalText encodes the outcome by name.
func (o Outcome) MarshalText() ([]byte, error) {
	if o > OutcomeFailed {
		return nil, fmt.Errorf("%w: %d", ErrInvalidOutcome, uint8(o))
	}
	return []byte(o.String()), nil
}

// UnmarshalText decodes an outcome name.
func (o *Outcome) UnmarshalText(text []byte) error {
	parsed, err := ParseOutcome(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// ParseOutcome parses an outcome name.
func ParseOutcome(s string) (Outcome, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "untracked", "none":
		return OutcomeUntracked, nil
	case "succeeded", "success", "ok":
		return OutcomeSucceeded, nil
	case "failed", "failure", "fail":
		return OutcomeFailed, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidOutcome, s)
	}
}
