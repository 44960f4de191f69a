package commands

import (
	"fmt"
	"time"

	"github.com/pocketlog/pocketlog-go/pkg/log"
)

// ParseLevelFlag parses a --min-level value. An empty value means no filter.
func ParseLevelFlag(s string) (*log.Level, error) {
	if s == "" {
		return nil, nil
	}
	l, err := log.ParseLevel(s)
	if err != nil {
		return nil, fmt.Errorf("invalid level %q (valid: trace, debug, info, warning, error, critical)", s)
	}
	return &l, nil
}

// ParseOutcomeFlag parses an --outcome value. An empty value means no filter.
func ParseOutcomeFlag(s string) (*log.Outcome, error) {
	if s == "" {
		return nil, nil
	}
	o, err := log.ParseOutcome(s)
	if err != nil {
		return nil, fmt.Errorf("invalid outcome %q (valid: untracked, succeeded, failed)", s)
	}
	return &o, nil
}

// parseTimeFlag parses an RFC3339 time. An empty value means no bound.
func parseTimeFlag(name, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s format: %w", name, err)
	}
	return &t, nil
}
