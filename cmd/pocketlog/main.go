// Command pocketlog views and analyzes log files written by FileLogger.
//
// Usage:
//
//	pocketlog <command> [flags] <file.plog>
//
// Commands:
//
//	view     View log file in human-readable format
//	filter   Filter log file and write to new file
//	stats    Show statistics about the log file
//	export   Export log file to JSONL, CSV or YAML
//	demo     Emit sample entries through a wired bus
//
// Examples:
//
//	# View warnings and above
//	pocketlog view --min-level warning app.plog
//
//	# Keep failed operations and save to a compressed file
//	pocketlog filter --outcome failed -o failed.plog.zst app.plog
//
//	# Record a demo session
//	pocketlog demo -o demo.plog
//
// Configuration is read from pocketlog.yaml in the working directory (or the
// --config file) and POCKETLOG_ environment variables.
package main

import (
	"fmt"
	"os"

	"github.com/pocketlog/pocketlog-go/cmd/pocketlog/commands"
)

func main() {
	if err := commands.NewApplication().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
