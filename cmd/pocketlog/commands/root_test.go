package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pocketlog/pocketlog-go/internal/config"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	loader := config.NewLoader("pocketlog", "yaml", "TESTPOCKETLOGCLI", []string{t.TempDir()})
	app := newApplication(loader)

	var stdout, stderr bytes.Buffer
	cmd := app.Command()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := app.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCLIView(t *testing.T) {
	path := createTestLogFile(t, "app.plog", testRecords())

	stdout, _, err := runCLI(t, "view", "--category", "http", path)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if !strings.Contains(stdout, "charge rejected") || strings.Count(stdout, "\n") != 1 {
		t.Errorf("unexpected output:\n%s", stdout)
	}
}

func TestCLIViewMinLevelFromConfig(t *testing.T) {
	path := createTestLogFile(t, "app.plog", testRecords())
	cfg := filepath.Join(t.TempDir(), "pocketlog.yaml")
	if err := os.WriteFile(cfg, []byte("view:\n  min_level: error\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	stdout, _, err := runCLI(t, "--config", cfg, "view", path)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if got := strings.Count(stdout, "\n"); got != 1 {
		t.Errorf("expected 1 line, got %d:\n%s", got, stdout)
	}

	// The flag wins over the file.
	stdout, _, err = runCLI(t, "--config", cfg, "view", "--min-level", "trace", path)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if got := strings.Count(stdout, "\n"); got != 6 {
		t.Errorf("expected 6 lines, got %d:\n%s", got, stdout)
	}
}

func TestCLIFilterAndStats(t *testing.T) {
	path := createTestLogFile(t, "app.plog", testRecords())
	out := filepath.Join(t.TempDir(), "ops.plog")

	stdout, _, err := runCLI(t, "filter", "--operations-only", "-o", out, path)
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if !strings.Contains(stdout, "Filtered 4 records") {
		t.Errorf("unexpected filter output: %s", stdout)
	}

	stdout, _, err = runCLI(t, "stats", out)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if !strings.Contains(stdout, "Total Records: 4") {
		t.Errorf("unexpected stats output:\n%s", stdout)
	}
}

func TestCLIExport(t *testing.T) {
	path := createTestLogFile(t, "app.plog", testRecords())

	stdout, _, err := runCLI(t, "export", "--format", "csv", path)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.HasPrefix(stdout, "timestamp,level,category") {
		t.Errorf("expected CSV header, got:\n%s", stdout)
	}
}

func TestCLIDemoLogsDiagnostics(t *testing.T) {
	stdout, stderr, err := runCLI(t, "--log-level", "info", "--log-format", "structured", "demo", "--metrics")
	if err != nil {
		t.Fatalf("demo: %v", err)
	}
	if !strings.Contains(stdout, "Metrics:") {
		t.Errorf("expected metrics summary:\n%s", stdout)
	}
	if !strings.Contains(stderr, `"msg":"demo finished"`) {
		t.Errorf("expected structured diagnostics on stderr, got:\n%s", stderr)
	}
}

func TestCLIErrors(t *testing.T) {
	path := createTestLogFile(t, "app.plog", testRecords())

	tests := []struct {
		name string
		args []string
	}{
		{"missing file argument", []string{"view"}},
		{"missing output", []string{"filter", path}},
		{"bad log level", []string{"--log-level", "loud", "stats", path}},
		{"bad log format", []string{"--log-format", "xml", "stats", path}},
		{"bad min level", []string{"view", "--min-level", "loud", path}},
		{"missing config file", []string{"--config", filepath.Join(t.TempDir(), "nope.yaml"), "stats", path}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := runCLI(t, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}
