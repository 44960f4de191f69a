package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func newJSONAdapter(level slog.Level) (*SlogAdapter, *bytes.Buffer) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: level})
	return NewSlogAdapter(slog.New(handler)), &buf
}

func parseLine(t *testing.T, output string) map[string]any {
	t.Helper()
	var logEntry map[string]any
	if err := json.Unmarshal([]byte(output), &logEntry); err != nil {
		t.Fatalf("failed to parse log output %q: %v", output, err)
	}
	return logEntry
}

func TestSlogAdapterLogsEntry(t *testing.T) {
	adapter, buf := newJSONAdapter(slog.LevelDebug)

	adapter.Log(NewEntry(LevelWarning, "cache miss for {Key}", "user:7").
		WithCategory("cache").
		WithError(errors.New("expired")))

	output := buf.String()
	if output == "" {
		t.Fatal("no output produced")
	}
	logEntry := parseLine(t, output)

	// Verify key fields
	if logEntry["msg"] != "cache miss for user:7" {
		t.Errorf("msg: got %v", logEntry["msg"])
	}
	if logEntry["level"] != "WARN" {
		t.Errorf("level: got %v, want WARN", logEntry["level"])
	}
	if logEntry["category"] != "cache" {
		t.Errorf("category: got %v, want cache", logEntry["category"])
	}
	if logEntry["error"] != "expired" {
		t.Errorf("error: got %v, want expired", logEntry["error"])
	}
	if logEntry["Key"] != "user:7" {
		t.Errorf("Key: got %v, want user:7", logEntry["Key"])
	}
	if _, ok := logEntry["op_id"]; ok {
		t.Error("op_id present on a plain entry")
	}
}

func TestSlogAdapterLogsOperation(t *testing.T) {
	adapter, buf := newJSONAdapter(slog.LevelDebug)
	bus := NewBus()
	sub, _ := bus.Attach(adapter)
	defer sub.Close()

	op := bus.ConfirmOnExit(WithName("Sync"))
	op.Close()

	logEntry := parseLine(t, strings.TrimSpace(buf.String()))
	if logEntry["op_id"] != op.ID() {
		t.Errorf("op_id: got %v, want %v", logEntry["op_id"], op.ID())
	}
	if logEntry["op_name"] != "Sync" {
		t.Errorf("op_name: got %v, want Sync", logEntry["op_name"])
	}
	if logEntry["op_event"] != "end" {
		t.Errorf("op_event: got %v, want end", logEntry["op_event"])
	}
	if logEntry["outcome"] != "failed" {
		t.Errorf("outcome: got %v, want failed", logEntry["outcome"])
	}
	if logEntry["level"] != "ERROR" {
		t.Errorf("level: got %v, want ERROR", logEntry["level"])
	}
	if _, ok := logEntry["duration"]; !ok {
		t.Error("duration missing")
	}
}

func TestSlogAdapterSkipsDisabledLevels(t *testing.T) {
	adapter, buf := newJSONAdapter(slog.LevelInfo)
	evaluated := false

	adapter.Log(NewEntry(LevelTrace, "{X}", Lazy(func() any {
		evaluated = true
		return "x"
	})))

	if buf.Len() != 0 {
		t.Errorf("unexpected output: %s", buf.String())
	}
	if evaluated {
		t.Error("disabled entry was evaluated")
	}
}

func TestSlogLevel(t *testing.T) {
	tests := map[Level]slog.Level{
		LevelTrace:       slog.LevelDebug,
		LevelDebug:       slog.LevelDebug,
		LevelInformation: slog.LevelInfo,
		LevelWarning:     slog.LevelWarn,
		LevelError:       slog.LevelError,
		LevelCritical:    slog.LevelError,
	}
	for in, want := range tests {
		if got := SlogLevel(in); got != want {
			t.Errorf("SlogLevel(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestSlogAdapterInterfaceSatisfaction(t *testing.T) {
	// Compile-time check that SlogAdapter satisfies Sink interface
	var _ Sink = (*SlogAdapter)(nil)
}
