package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pocketlog/pocketlog-go/internal/config"
)

const testEnvPrefix = "TESTPOCKETLOG"

func TestLoaderAppliesDefaults(t *testing.T) {
	loader := config.NewLoader("pocketlog", "yaml", testEnvPrefix, []string{t.TempDir()})

	var cfg config.Configuration
	loaded, err := loader.Load("", config.DefaultValues(), &cfg)
	require.NoError(t, err)
	require.Empty(t, loaded.ConfigFileUsed)

	require.Equal(t, "warn", cfg.Common.LogLevel)
	require.Equal(t, "console", cfg.Common.LogFormat)
	require.Equal(t, "trace", cfg.View.MinLevel)
	require.Equal(t, 10, cfg.Faults.Burst)
	require.InDelta(t, 1.0, cfg.Faults.RatePerSecond, 1e-9)
	require.False(t, cfg.Demo.Compress)
}

func TestLoaderReadsFileFromSearchPath(t *testing.T) {
	dir := t.TempDir()
	content := "common:\n  log_level: debug\ndemo:\n  output: demo.plog\n  compress: true\nfaults:\n  burst: 3\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pocketlog.yaml"), []byte(content), 0o600))

	loader := config.NewLoader("pocketlog", "yaml", testEnvPrefix, []string{dir})

	var cfg config.Configuration
	loaded, err := loader.Load("", config.DefaultValues(), &cfg)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "pocketlog.yaml"), loaded.ConfigFileUsed)

	require.Equal(t, "debug", cfg.Common.LogLevel)
	require.Equal(t, "console", cfg.Common.LogFormat)
	require.Equal(t, "demo.plog", cfg.Demo.Output)
	require.True(t, cfg.Demo.Compress)
	require.Equal(t, 3, cfg.Faults.Burst)
}

func TestLoaderExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("common:\n  log_format: structured\n"), 0o600))

	loader := config.NewLoader("pocketlog", "yaml", testEnvPrefix, nil)

	var cfg config.Configuration
	loaded, err := loader.Load(path, config.DefaultValues(), &cfg)
	require.NoError(t, err)
	require.Equal(t, path, loaded.ConfigFileUsed)
	require.Equal(t, "structured", cfg.Common.LogFormat)
}

func TestLoaderEnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pocketlog.yaml"), []byte("common:\n  log_level: debug\n"), 0o600))
	t.Setenv(testEnvPrefix+"_COMMON_LOG_LEVEL", "error")

	loader := config.NewLoader("pocketlog", "yaml", testEnvPrefix, []string{dir})

	var cfg config.Configuration
	_, err := loader.Load("", config.DefaultValues(), &cfg)
	require.NoError(t, err)
	require.Equal(t, "error", cfg.Common.LogLevel)
}

func TestLoaderMissingExplicitFile(t *testing.T) {
	loader := config.NewDefaultLoader()

	var cfg config.Configuration
	_, err := loader.Load(filepath.Join(t.TempDir(), "missing.yaml"), config.DefaultValues(), &cfg)
	require.Error(t, err)
}

func TestLoaderMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("common: [unterminated\n"), 0o600))

	var cfg config.Configuration
	_, err := config.NewDefaultLoader().Load(path, config.DefaultValues(), &cfg)
	require.Error(t, err)
}
