// Package diag builds the zap loggers the pocketlog tools use for their own
// diagnostics, as opposed to the entries they handle.
package diag

import (
	"errors"
	"fmt"
	"strings"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level enumerates supported diagnostic log levels.
type Level string

// Supported levels.
const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Format enumerates supported output encodings.
type Format string

// Supported formats.
const (
	FormatStructured Format = "structured"
	FormatConsole    Format = "console"
)

// Errors returned by CreateLogger.
var (
	ErrUnsupportedLevel  = errors.New("unsupported log level")
	ErrUnsupportedFormat = errors.New("unsupported log format")
)

var zapLevels = map[Level]zapcore.Level{
	LevelDebug: zapcore.DebugLevel,
	LevelInfo:  zapcore.InfoLevel,
	LevelWarn:  zapcore.WarnLevel,
	LevelError: zapcore.ErrorLevel,
}

var zapEncodings = map[Format]string{
	FormatStructured: "json",
	FormatConsole:    "console",
}

// LoggerFactory builds zap.Logger instances with consistent configuration.
// The zero value writes to stderr.
type LoggerFactory struct {
	output zapcore.WriteSyncer
}

// NewLoggerFactory constructs a factory whose loggers write to stderr.
func NewLoggerFactory() *LoggerFactory {
	return &LoggerFactory{}
}

// NewLoggerFactoryWithOutput constructs a factory whose loggers write to w.
func NewLoggerFactoryWithOutput(w zapcore.WriteSyncer) *LoggerFactory {
	return &LoggerFactory{output: w}
}

// ParseLevel normalizes a level name.
func ParseLevel(s string) (Level, error) {
	l := Level(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := zapLevels[l]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedLevel, s)
	}
	return l, nil
}

// ParseFormat normalizes a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := zapEncodings[f]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, s)
	}
	return f, nil
}

// CreateLogger produces a zap.Logger honoring the requested level and format.
func (f *LoggerFactory) CreateLogger(level Level, format Format) (*zap.Logger, error) {
	zapLevel, ok := zapLevels[level]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLevel, level)
	}
	encoding, ok := zapEncodings[format]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	config.Encoding = encoding
	if format == FormatConsole {
		config.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}

	if f == nil || f.output == nil {
		return config.Build()
	}

	var encoder zapcore.Encoder
	if encoding == "json" {
		encoder = zapcore.NewJSONEncoder(config.EncoderConfig)
	} else {
		encoder = zapcore.NewConsoleEncoder(config.EncoderConfig)
	}
	return zap.New(zapcore.NewCore(encoder, f.output, config.Level)), nil
}

// Sync flushes logger, ignoring the errors stderr and pipes report for fsync.
func Sync(logger *zap.Logger) error {
	if logger == nil {
		return nil
	}

	err := logger.Sync()
	switch {
	case err == nil:
		return nil
	case errors.Is(err, syscall.ENOTSUP), errors.Is(err, syscall.EINVAL), errors.Is(err, syscall.ENOTTY):
		return nil
	default:
		return err
	}
}
