package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pocketlog/pocketlog-go/internal/config"
	"github.com/pocketlog/pocketlog-go/internal/diag"
)

const (
	applicationName        = "pocketlog"
	configFileFlagName     = "config"
	logLevelFlagName       = "log-level"
	logFormatFlagName      = "log-format"
	minLevelFlagName       = "min-level"
	categoryFlagName       = "category"
	operationFlagName      = "operation"
	outputFlagName         = "output"
	configurationLoadError = "unable to load configuration: %w"
	loggerCreationError    = "unable to create logger: %w"
	loggerSyncError        = "unable to flush logger: %w"
)

// Application wires the Cobra root command, the configuration loader and the
// diagnostics logger.
type Application struct {
	rootCommand        *cobra.Command
	loader             *config.Loader
	configuration      config.Configuration
	logger             *zap.Logger
	configFilePath     string
	logLevelFlagValue  string
	logFormatFlagValue string
}

// NewApplication assembles the pocketlog command tree.
func NewApplication() *Application {
	return newApplication(config.NewDefaultLoader())
}

func newApplication(loader *config.Loader) *Application {
	app := &Application{
		loader: loader,
		logger: zap.NewNop(),
	}

	root := &cobra.Command{
		Use:           applicationName,
		Short:         "Inspect pocketlog recordings and try the logging bus",
		Long:          "pocketlog views, filters, summarizes and exports files written by FileLogger, and runs a demo that wires the bus the way an application would.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.initialize(cmd)
		},
	}
	root.SetContext(context.Background())
	root.PersistentFlags().StringVar(&app.configFilePath, configFileFlagName, "", "Optional path to a YAML configuration file.")
	root.PersistentFlags().StringVar(&app.logLevelFlagValue, logLevelFlagName, "", "Override the diagnostics log level (debug, info, warn, error).")
	root.PersistentFlags().StringVar(&app.logFormatFlagValue, logFormatFlagName, "", "Override the diagnostics log format (structured or console).")

	root.AddCommand(
		app.viewCommand(),
		app.filterCommand(),
		app.statsCommand(),
		app.exportCommand(),
		app.demoCommand(),
	)

	app.rootCommand = root
	return app
}

// Command returns the root command.
func (app *Application) Command() *cobra.Command {
	return app.rootCommand
}

// Execute runs the command tree and flushes the diagnostics logger.
func (app *Application) Execute() error {
	err := app.rootCommand.Execute()
	if syncErr := diag.Sync(app.logger); syncErr != nil && err == nil {
		return fmt.Errorf(loggerSyncError, syncErr)
	}
	return err
}

func (app *Application) initialize(cmd *cobra.Command) error {
	loaded, err := app.loader.Load(app.configFilePath, config.DefaultValues(), &app.configuration)
	if err != nil {
		return fmt.Errorf(configurationLoadError, err)
	}

	if flagChanged(cmd, logLevelFlagName) {
		app.configuration.Common.LogLevel = app.logLevelFlagValue
	}
	if flagChanged(cmd, logFormatFlagName) {
		app.configuration.Common.LogFormat = app.logFormatFlagValue
	}

	level, err := diag.ParseLevel(app.configuration.Common.LogLevel)
	if err != nil {
		return fmt.Errorf(loggerCreationError, err)
	}
	format, err := diag.ParseFormat(app.configuration.Common.LogFormat)
	if err != nil {
		return fmt.Errorf(loggerCreationError, err)
	}
	factory := diag.NewLoggerFactoryWithOutput(zapcore.AddSync(cmd.ErrOrStderr()))
	logger, err := factory.CreateLogger(level, format)
	if err != nil {
		return fmt.Errorf(loggerCreationError, err)
	}
	app.logger = logger.Named(applicationName)

	app.logger.Debug("configuration initialized",
		zap.String("command", cmd.Name()),
		zap.String("log_level", app.configuration.Common.LogLevel),
		zap.String("log_format", app.configuration.Common.LogFormat),
		zap.String("config_file", loaded.ConfigFileUsed),
	)
	return nil
}

func (app *Application) viewCommand() *cobra.Command {
	var opts ViewOptions
	cmd := &cobra.Command{
		Use:   "view [flags] FILE",
		Short: "View a log file in human-readable format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed(minLevelFlagName) {
				opts.MinLevel = app.configuration.View.MinLevel
			}
			filter, err := opts.Filter()
			if err != nil {
				return err
			}
			return RunView(args[0], filter, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&opts.MinLevel, minLevelFlagName, "", "Hide records below this level")
	cmd.Flags().StringVar(&opts.Category, categoryFlagName, "", "Show only this category")
	cmd.Flags().StringVar(&opts.OperationID, operationFlagName, "", "Show only entries of this operation ID")
	return cmd
}

func (app *Application) filterCommand() *cobra.Command {
	var opts FilterOptions
	cmd := &cobra.Command{
		Use:   "filter -o OUT [flags] FILE",
		Short: "Filter a log file and write matching records to a new file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.logger.Debug("filtering log file", zap.String("input", args[0]), zap.String("output", opts.Output))
			return RunFilter(args[0], opts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&opts.Output, outputFlagName, "o", "", "Output file (required, .zst compresses)")
	cmd.Flags().StringVar(&opts.Category, categoryFlagName, "", "Keep only this category")
	cmd.Flags().StringVar(&opts.MinLevel, minLevelFlagName, "", "Drop records below this level")
	cmd.Flags().StringVar(&opts.OperationID, operationFlagName, "", "Keep only entries of this operation ID")
	cmd.Flags().StringVar(&opts.Outcome, "outcome", "", "Keep only end entries with this outcome (untracked, succeeded, failed)")
	cmd.Flags().StringVar(&opts.TimeStart, "time-start", "", "Keep records at or after this time (RFC3339)")
	cmd.Flags().StringVar(&opts.TimeEnd, "time-end", "", "Keep records before this time (RFC3339)")
	cmd.Flags().BoolVar(&opts.OperationsOnly, "operations-only", false, "Keep only entries that belong to an operation")
	return cmd
}

func (app *Application) statsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats FILE",
		Short: "Show statistics about a log file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunStats(args[0], cmd.OutOrStdout())
		},
	}
}

func (app *Application) exportCommand() *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "export [flags] FILE",
		Short: "Export a log file to JSONL, CSV or YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunExport(args[0], format, output, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&format, "format", "jsonl", "Output format (jsonl, csv, yaml)")
	cmd.Flags().StringVarP(&output, outputFlagName, "o", "", "Output file (default: stdout)")
	return cmd
}

func (app *Application) demoCommand() *cobra.Command {
	var opts DemoOptions
	cmd := &cobra.Command{
		Use:   "demo [flags]",
		Short: "Emit sample entries and operations through a wired bus",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			cfg := app.configuration
			if !flags.Changed(outputFlagName) {
				opts.Output = cfg.Demo.Output
			}
			if !flags.Changed("compress") {
				opts.Compress = cfg.Demo.Compress
			}
			if !flags.Changed(minLevelFlagName) {
				opts.MinLevel = cfg.Demo.MinLevel
			}
			if !flags.Changed("metrics") {
				opts.Metrics = cfg.Metrics.Enabled
			}
			opts.FaultRate = cfg.Faults.RatePerSecond
			opts.FaultBurst = cfg.Faults.Burst
			return RunDemo(opts, cmd.OutOrStdout(), app.logger)
		},
	}
	cmd.Flags().StringVarP(&opts.Output, outputFlagName, "o", "", "Also record entries to this file")
	cmd.Flags().BoolVar(&opts.Compress, "compress", false, "Compress the recording with zstd")
	cmd.Flags().StringVar(&opts.MinLevel, minLevelFlagName, "", "Hide console lines below this level")
	cmd.Flags().BoolVar(&opts.Metrics, "metrics", false, "Attach a Prometheus collector and print its values")
	cmd.Flags().BoolVar(&opts.InjectFault, "inject-fault", false, "Subscribe a panicking callback to show fault isolation")
	return cmd
}

// flagChanged reports whether a persistent flag was set on the command line.
func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil {
		return false
	}
	sets := []*pflag.FlagSet{cmd.PersistentFlags(), cmd.InheritedFlags()}
	if root := cmd.Root(); root != nil {
		sets = append(sets, root.PersistentFlags())
	}
	for _, fs := range sets {
		if fs != nil && fs.Changed(name) {
			return true
		}
	}
	return false
}
