// Package config loads pocketlog CLI configuration from a YAML file,
// POCKETLOG_ environment variables and built-in defaults.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Configuration keys shared by the file, the environment and the defaults.
const (
	KeyLogLevel      = "common.log_level"
	KeyLogFormat     = "common.log_format"
	KeyViewMinLevel  = "view.min_level"
	KeyDemoOutput    = "demo.output"
	KeyDemoCompress  = "demo.compress"
	KeyDemoMinLevel  = "demo.min_level"
	KeyFaultRate     = "faults.rate_per_second"
	KeyFaultBurst    = "faults.burst"
	KeyMetricsEnable = "metrics.enabled"
)

// Configuration describes the persisted configuration for the CLI.
type Configuration struct {
	Common  CommonConfiguration  `mapstructure:"common"`
	View    ViewConfiguration    `mapstructure:"view"`
	Demo    DemoConfiguration    `mapstructure:"demo"`
	Faults  FaultConfiguration   `mapstructure:"faults"`
	Metrics MetricsConfiguration `mapstructure:"metrics"`
}

// CommonConfiguration stores the diagnostics logger settings.
type CommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// ViewConfiguration holds defaults for the view command.
type ViewConfiguration struct {
	MinLevel string `mapstructure:"min_level"`
}

// DemoConfiguration holds settings for the demo command.
type DemoConfiguration struct {
	Output   string `mapstructure:"output"`
	Compress bool   `mapstructure:"compress"`
	MinLevel string `mapstructure:"min_level"`
}

// FaultConfiguration limits how often subscriber faults are reported.
type FaultConfiguration struct {
	RatePerSecond float64 `mapstructure:"rate_per_second"`
	Burst         int     `mapstructure:"burst"`
}

// MetricsConfiguration toggles the Prometheus collector in the demo.
type MetricsConfiguration struct {
	Enabled bool `mapstructure:"enabled"`
}

// DefaultValues returns the built-in defaults keyed by configuration key.
func DefaultValues() map[string]any {
	return map[string]any{
		KeyLogLevel:      "warn",
		KeyLogFormat:     "console",
		KeyViewMinLevel:  "trace",
		KeyDemoOutput:    "",
		KeyDemoCompress:  false,
		KeyDemoMinLevel:  "trace",
		KeyFaultRate:     1.0,
		KeyFaultBurst:    10,
		KeyMetricsEnable: false,
	}
}

// Loader wraps Viper to load a configuration file and environment overrides.
type Loader struct {
	name        string
	fileType    string
	envPrefix   string
	searchPaths []string
}

// Loaded surfaces metadata about the resolved configuration.
type Loaded struct {
	ConfigFileUsed string
}

// NewLoader creates a loader that searches searchPaths for name.fileType and
// reads environment variables with envPrefix.
func NewLoader(name, fileType, envPrefix string, searchPaths []string) *Loader {
	paths := make([]string, len(searchPaths))
	copy(paths, searchPaths)
	return &Loader{
		name:        name,
		fileType:    fileType,
		envPrefix:   envPrefix,
		searchPaths: paths,
	}
}

// NewDefaultLoader returns the loader the pocketlog CLI uses: pocketlog.yaml
// in the working directory, with POCKETLOG_ environment overrides.
func NewDefaultLoader() *Loader {
	return NewLoader("pocketlog", "yaml", "POCKETLOG", []string{"."})
}

// Load populates target from the file at path (or the first file found on the
// search paths when path is empty), environment variables and defaults. A
// missing file on the search paths is not an error.
func (l *Loader) Load(path string, defaults map[string]any, target any) (Loaded, error) {
	v := viper.New()
	v.SetConfigName(l.name)
	v.SetConfigType(l.fileType)
	for _, p := range l.searchPaths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix(l.envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path != "" {
		v.SetConfigFile(path)
	}

	if err := v.MergeInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return Loaded{}, fmt.Errorf("failed to read configuration: %w", err)
		}
	}

	if err := v.Unmarshal(target); err != nil {
		return Loaded{}, fmt.Errorf("failed to parse configuration: %w", err)
	}

	return Loaded{ConfigFileUsed: v.ConfigFileUsed()}, nil
}
