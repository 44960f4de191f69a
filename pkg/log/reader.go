package log

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
)

// Filter specifies criteria for filtering log records.
// Empty/nil fields match all records for that criterion.
type Filter struct {
	// Category filters by exact category match.
	Category string

	// MinLevel filters out records below this level.
	MinLevel *Level

	// OperationID filters by operation ID.
	OperationID string

	// Outcome keeps only end entries with this outcome.
	Outcome *Outcome

	// OperationsOnly keeps only records that belong to an operation.
	OperationsOnly bool

	// TimeStart filters records at or after this time.
	TimeStart *time.Time

	// TimeEnd filters records before this time.
	TimeEnd *time.Time
}

// Matches returns true if the record matches all filter criteria.
func (f *Filter) Matches(r Record) bool {
	if f.Category != "" && r.Category != f.Category {
		return false
	}
	if f.MinLevel != nil && r.Level < *f.MinLevel {
		return false
	}
	if f.OperationsOnly && r.Operation == nil {
		return false
	}
	if f.OperationID != "" && (r.Operation == nil || r.Operation.ID != f.OperationID) {
		return false
	}
	if f.Outcome != nil {
		if r.Operation == nil || !r.Operation.IsEnd || r.Operation.Outcome != *f.Outcome {
			return false
		}
	}
	if f.TimeStart != nil && r.Timestamp.Before(*f.TimeStart) {
		return false
	}
	if f.TimeEnd != nil && !r.Timestamp.Before(*f.TimeEnd) {
		return false
	}
	return true
}

// Reader reads log records from a CBOR-encoded file written by FileLogger.
// Files whose name ends in ".zst" are decompressed transparently.
// It provides an iterator interface for streaming large files.
type Reader struct {
	file    *os.File
	zr      *zstd.Decoder
	decoder *cbor.Decoder
	filter  Filter
}

// NewReader creates a Reader that reads all records from the specified log file.
func NewReader(path string) (*Reader, error) {
	return NewFilteredReader(path, Filter{})
}

// NewFilteredReader creates a Reader that reads records matching the filter.
func NewFilteredReader(path string, filter Filter) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	r := &Reader{file: f, filter: filter}
	var src io.Reader = f
	if strings.HasSuffix(path, ".zst") {
		zr, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		r.zr = zr
		src = zr
	}
	r.decoder = NewDecoder(src)
	return r, nil
}

// Next returns the next record that matches the filter.
// Returns io.EOF when no more records are available.
func (r *Reader) Next() (Record, error) {
	for {
		var rec Record
		if err := r.decoder.Decode(&rec); err != nil {
			if err == io.EOF {
				return Record{}, io.EOF
			}
			return Record{}, err
		}

		if r.filter.Matches(rec) {
			return rec, nil
		}
	}
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	if r.zr != nil {
		r.zr.Close()
	}
	return r.file.Close()
}
