package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pocketlog/pocketlog-go/pkg/log"
)

// FilterOptions specifies filtering criteria for the filter command.
type FilterOptions struct {
	Output         string
	Category       string
	MinLevel       string
	OperationID    string
	Outcome        string
	TimeStart      string
	TimeEnd        string
	OperationsOnly bool
}

// Filter converts the options into a reader filter.
func (o FilterOptions) Filter() (log.Filter, error) {
	filter := log.Filter{
		Category:       o.Category,
		OperationID:    o.OperationID,
		OperationsOnly: o.OperationsOnly,
	}

	var err error
	if filter.MinLevel, err = ParseLevelFlag(o.MinLevel); err != nil {
		return log.Filter{}, err
	}
	if filter.Outcome, err = ParseOutcomeFlag(o.Outcome); err != nil {
		return log.Filter{}, err
	}
	if filter.TimeStart, err = parseTimeFlag("time-start", o.TimeStart); err != nil {
		return log.Filter{}, err
	}
	if filter.TimeEnd, err = parseTimeFlag("time-end", o.TimeEnd); err != nil {
		return log.Filter{}, err
	}
	return filter, nil
}

// RunFilter filters the log file and writes matching records to a new file.
// The output is zstd-compressed when its name ends in ".zst". A summary line
// is written to w.
func RunFilter(path string, opts FilterOptions, w io.Writer) error {
	if opts.Output == "" {
		return errors.New("output file (-o) required")
	}

	filter, err := opts.Filter()
	if err != nil {
		return err
	}

	// Open input
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	// Create file logger to write filtered records
	var fileOpts []log.FileOption
	if strings.HasSuffix(opts.Output, ".zst") {
		fileOpts = append(fileOpts, log.WithCompression())
	}
	logger, err := log.NewFileLogger(opts.Output, fileOpts...)
	if err != nil {
		return fmt.Errorf("failed to create output logger: %w", err)
	}
	defer logger.Close()

	count := 0
	for {
		record, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read record: %w", err)
		}

		logger.LogRecord(record)
		count++
	}

	if err := logger.Close(); err != nil {
		return fmt.Errorf("failed to close output: %w", err)
	}

	fmt.Fprintf(w, "Filtered %d records to %s\n", count, opts.Output)
	return nil
}
