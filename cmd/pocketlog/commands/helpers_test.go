package commands

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/pocketlog/pocketlog-go/pkg/log"
)

var baseTime = time.Date(2026, 3, 4, 10, 15, 32, 0, time.UTC)

func durationPtr(d time.Duration) *time.Duration { return &d }

// testRecords covers plain entries and the three entry kinds of two
// operations.
func testRecords() []log.Record {
	return []log.Record{
		{Timestamp: baseTime, Level: log.LevelInformation, Category: "app", Message: "started"},
		{
			Timestamp: baseTime.Add(time.Second), Level: log.LevelInformation, Category: "db",
			Operation: &log.OperationInfo{ID: "op-import-1", Name: "Import", IsStart: true},
		},
		{
			Timestamp: baseTime.Add(2 * time.Second), Level: log.LevelDebug, Category: "db", Message: "batch 1",
			Operation: &log.OperationInfo{ID: "op-import-1", Name: "Import", Duration: durationPtr(time.Second)},
		},
		{
			Timestamp: baseTime.Add(3 * time.Second), Level: log.LevelInformation, Category: "db", Message: "done",
			Operation: &log.OperationInfo{ID: "op-import-1", Name: "Import", IsEnd: true, Outcome: log.OutcomeSucceeded, Duration: durationPtr(2 * time.Second)},
		},
		{
			Timestamp: baseTime.Add(4 * time.Second), Level: log.LevelError, Category: "http", Message: "charge rejected", Error: "card declined",
			Operation: &log.OperationInfo{ID: "op-charge-2", Name: "Charge", IsEnd: true, Outcome: log.OutcomeFailed, Duration: durationPtr(500 * time.Millisecond)},
		},
		{Timestamp: baseTime.Add(5 * time.Second), Level: log.LevelWarning, Category: "app", Message: "shutting down"},
	}
}

func createTestLogFile(t *testing.T, name string, records []log.Record) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)

	var opts []log.FileOption
	if filepath.Ext(name) == ".zst" {
		opts = append(opts, log.WithCompression())
	}
	fl, err := log.NewFileLogger(path, opts...)
	if err != nil {
		t.Fatalf("NewFileLogger: %v", err)
	}
	for _, r := range records {
		fl.LogRecord(r)
	}
	if err := fl.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return path
}

func readRecords(t *testing.T, path string) []log.Record {
	t.Helper()
	reader, err := log.NewReader(path)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer reader.Close()

	var out []log.Record
	for {
		r, err := reader.Next()
		if err != nil {
			break
		}
		out = append(out, r)
	}
	return out
}
