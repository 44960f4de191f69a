// Package commands implements the pocketlog CLI commands.
package commands

import (
	"fmt"
	"io"

	"github.com/pocketlog/pocketlog-go/pkg/log"
)

// ViewOptions specifies criteria for filtering records in the view command.
type ViewOptions struct {
	MinLevel    string
	Category    string
	OperationID string
}

// Filter converts the options into a reader filter.
func (o ViewOptions) Filter() (log.Filter, error) {
	minLevel, err := ParseLevelFlag(o.MinLevel)
	if err != nil {
		return log.Filter{}, err
	}
	return log.Filter{
		Category:    o.Category,
		MinLevel:    minLevel,
		OperationID: o.OperationID,
	}, nil
}

// RunView reads the log file and writes one formatted line per matching
// record to output.
func RunView(path string, filter log.Filter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		record, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read record: %w", err)
		}
		fmt.Fprintln(output, log.FormatRecord(record))
	}
}
