package log

import (
	"io"
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
)

// FileLogger writes entries to a file as CBOR-encoded Records.
// It is safe for concurrent use from multiple goroutines.
type FileLogger struct {
	file    *os.File
	zw      *zstd.Encoder
	encoder *cbor.Encoder
	mu      sync.Mutex
	closed  bool
}

type fileOptions struct {
	compress bool
	level    zstd.EncoderLevel
}

// FileOption configures a FileLogger.
type FileOption func(*fileOptions)

// WithCompression compresses the file with zstd. Readers detect compressed
// files by the ".zst" suffix, so name the file accordingly.
func WithCompression() FileOption {
	return func(o *fileOptions) {
		o.compress = true
	}
}

// WithCompressionLevel compresses the file with zstd at the given level.
func WithCompressionLevel(level zstd.EncoderLevel) FileOption {
	return func(o *fileOptions) {
		o.compress = true
		o.level = level
	}
}

// NewFileLogger creates a new FileLogger that writes to the specified path.
// If the file exists, new records are appended. The file is created with
// permissions 0644 if it doesn't exist.
func NewFileLogger(path string, opts ...FileOption) (*FileLogger, error) {
	o := fileOptions{level: zstd.SpeedDefault}
	for _, opt := range opts {
		opt(&o)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}

	l := &FileLogger{file: f}
	var w io.Writer = f
	if o.compress {
		zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(o.level))
		if err != nil {
			f.Close()
			return nil, err
		}
		l.zw = zw
		w = zw
	}
	l.encoder = NewEncoder(w)
	return l, nil
}

// Log evaluates the entry and appends it to the file.
// This method is safe for concurrent use.
func (l *FileLogger) Log(e *Entry) {
	if e == nil {
		return
	}
	l.LogRecord(NewRecord(e))
}

// LogRecord appends an already evaluated record.
func (l *FileLogger) LogRecord(r Record) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}

	// Ignore encoding errors - logging should not disrupt the application
	_ = l.encoder.Encode(r)
}

// Close flushes and closes the log file.
// It is safe to call Close multiple times.
// After Close is called, subsequent Log calls are silently ignored.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true

	if l.zw != nil {
		if err := l.zw.Close(); err != nil {
			l.file.Close()
			return err
		}
	}
	return l.file.Close()
}

// Compile-time interface satisfaction check.
var _ Sink = (*FileLogger)(nil)
