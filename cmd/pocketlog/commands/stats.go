package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/pocketlog/pocketlog-go/pkg/log"
)

// slowestOperationsShown is how many operations the stats report lists.
const slowestOperationsShown = 5

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalRecords       int
	RecordsByLevel     map[log.Level]int
	RecordsByCategory  map[string]int
	OperationsByResult map[log.Outcome]int
	Errors             int
	Slowest            []OperationStats
	TimeRange          struct {
		Start time.Time
		End   time.Time
	}
}

// OperationStats describes one completed operation.
type OperationStats struct {
	ID       string
	Name     string
	Category string
	Outcome  log.Outcome
	Duration time.Duration
}

// CollectStats reads every record of the log file.
func CollectStats(path string) (*Stats, error) {
	reader, err := log.NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		RecordsByLevel:     make(map[log.Level]int),
		RecordsByCategory:  make(map[string]int),
		OperationsByResult: make(map[log.Outcome]int),
	}

	for {
		record, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		stats.TotalRecords++
		stats.RecordsByLevel[record.Level]++
		stats.RecordsByCategory[record.Category]++

		// Track time range
		if stats.TimeRange.Start.IsZero() || record.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = record.Timestamp
		}
		if record.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = record.Timestamp
		}

		if record.Error != "" {
			stats.Errors++
		}

		op := record.Operation
		if op == nil || !op.IsEnd {
			continue
		}
		stats.OperationsByResult[op.Outcome]++
		if op.Duration != nil {
			stats.Slowest = append(stats.Slowest, OperationStats{
				ID:       op.ID,
				Name:     op.Name,
				Category: record.Category,
				Outcome:  op.Outcome,
				Duration: *op.Duration,
			})
		}
	}

	sort.SliceStable(stats.Slowest, func(i, j int) bool {
		return stats.Slowest[i].Duration > stats.Slowest[j].Duration
	})
	if len(stats.Slowest) > slowestOperationsShown {
		stats.Slowest = stats.Slowest[:slowestOperationsShown]
	}
	return stats, nil
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	stats, err := CollectStats(path)
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Log Statistics ===")
	fmt.Fprintln(w)

	// Time range
	if stats.TotalRecords > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Millisecond))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Records: %d\n", stats.TotalRecords)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Records by Level:")
	for l := log.LevelTrace; l <= log.LevelCritical; l++ {
		if count := stats.RecordsByLevel[l]; count > 0 {
			fmt.Fprintf(w, "  %-14s %d\n", l.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Records by Category:")
	categories := make([]string, 0, len(stats.RecordsByCategory))
	for c := range stats.RecordsByCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	for _, c := range categories {
		label := c
		if label == "" {
			label = "(none)"
		}
		fmt.Fprintf(w, "  %-14s %d\n", label+":", stats.RecordsByCategory[c])
	}
	fmt.Fprintln(w)

	total := 0
	for _, n := range stats.OperationsByResult {
		total += n
	}
	fmt.Fprintf(w, "Operations: %d\n", total)
	for _, o := range []log.Outcome{log.OutcomeSucceeded, log.OutcomeFailed, log.OutcomeUntracked} {
		if count := stats.OperationsByResult[o]; count > 0 {
			fmt.Fprintf(w, "  %-14s %d\n", o.String()+":", count)
		}
	}

	if len(stats.Slowest) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Slowest Operations:")
		for _, op := range stats.Slowest {
			shortID := op.ID
			if len(shortID) > 8 {
				shortID = shortID[:8]
			}
			fmt.Fprintf(w, "  [%s] %s %s %s\n", shortID, op.Name, log.FormatDuration(op.Duration), log.OperationMarker(&log.OperationInfo{IsEnd: true, Outcome: op.Outcome}))
		}
	}

	// Errors
	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
	}
}
