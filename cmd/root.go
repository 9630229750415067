// =============================================================================
// Timesheet Converter - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Called without a
// subcommand it converts the export named in the configuration file, the
// same as 'timesheets process' with default flags.
//
// COBRA CLI STRUCTURE:
//   rootCmd (timesheets)
//   ├── processCmd (timesheets process)
//   └── versionCmd (timesheets version)
//
// GLOBAL FLAGS:
//   --config  : configuration file (default config.json)
//   --verbose : debug logging, overrides log_level
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/timesheet-converter/internal/config"
	"github.com/ginjaninja78/timesheet-converter/internal/logger"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "timesheets",
	Short: "Timesheet Converter - Turn time-tracking CSV exports into importable spreadsheets",
	Long: `Timesheet Converter reads a CSV export from a time-tracking tool and writes
an XLSX spreadsheet ready for bulk import as analytic lines in the business
system.

For every activity it:
  - maps the project name to its project reference
  - converts the HH:MM:SS duration to decimal hours
  - splits a leading task id out of the description
  - stamps the activities date

Example Usage:
  timesheets                              # Convert using ./config.json
  timesheets --config ./august.json       # Use another configuration file
  timesheets process --date 2023-08-18    # Override the activities date
  timesheets process --dry-run            # Run every step but the write`,

	SilenceUsage:  true,
	SilenceErrors: true,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess(cmd, processOptions{})
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. Called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		config.DefaultPath,
		"Path to the configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// newLogger builds the CLI logger. --verbose wins over the configured level.
func newLogger(cmd *cobra.Command, level string) logger.Logger {
	cfg := logger.DefaultConfig()
	cfg.Output = cmd.ErrOrStderr()
	cfg.Level = logger.ParseLevel(level)
	if verbose {
		cfg.Level = logger.DebugLevel
	}
	return logger.New(cfg)
}
