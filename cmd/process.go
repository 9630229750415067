// =============================================================================
// Timesheet Converter - Process Command
// =============================================================================
//
// This file defines the 'process' command, which runs one conversion.
//
// COMMAND USAGE:
//   timesheets process [flags]
//
// FLAGS:
//   --date       : Activities date (YYYY-MM-DD), overrides "date"
//   --output-dir : Output directory, overrides "output_dir"
//   --dry-run    : Run every step except writing the spreadsheet
//
// PROCESSING:
//   1. Load and validate the configuration file
//   2. Apply the flag overrides
//   3. Run the pipeline (read, transform, write)
//   4. Print a summary
//
// Any failure aborts the run with a non-zero exit status and no output file.
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/timesheet-converter/internal/config"
	"github.com/ginjaninja78/timesheet-converter/internal/converter"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// processOptions holds the flag overrides for one run.
type processOptions struct {
	date      string
	outputDir string
	dryRun    bool
}

var processFlags processOptions

// =============================================================================
// PROCESS COMMAND DEFINITION
// =============================================================================

// processCmd represents the 'process' command.
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Convert the configured CSV export to an XLSX timesheet",
	Long: `The process command reads the CSV export named by "path" in the
configuration file, applies the column transformations and writes
timesheets_<date>.xlsx to the output directory.

The spreadsheet is written to a temporary file first and renamed into place,
so a failed run never leaves a partial file behind.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess(cmd, processFlags)
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVar(
		&processFlags.date,
		"date",
		"",
		"Activities date written on every row (YYYY-MM-DD, default today)",
	)

	processCmd.Flags().StringVar(
		&processFlags.outputDir,
		"output-dir",
		"",
		"Directory for the output spreadsheet",
	)

	processCmd.Flags().BoolVar(
		&processFlags.dryRun,
		"dry-run",
		false,
		"Run every step except writing the spreadsheet",
	)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runProcess wires the OS filesystem, the wall clock and SIGINT handling
// into a conversion run.
func runProcess(cmd *cobra.Command, opts processOptions) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return convert(ctx, cmd, afero.NewOsFs(), time.Now, opts)
}

// convert loads the configuration from fs and runs the pipeline.
func convert(ctx context.Context, cmd *cobra.Command, fs afero.Fs, now func() time.Time, opts processOptions) error {
	// =========================================================================
	// STEP 1: LOAD CONFIGURATION
	// =========================================================================

	cfg, err := config.Load(fs, cfgFile)
	if err != nil {
		return err
	}

	// =========================================================================
	// STEP 2: APPLY FLAG OVERRIDES
	// =========================================================================

	if opts.date != "" {
		cfg.Date = opts.date
	}
	if opts.outputDir != "" {
		cfg.OutputDir = opts.outputDir
	}

	log := newLogger(cmd, cfg.LogLevel)
	log.Debug("Loaded configuration", "file", cfgFile, "path", cfg.Path, "projects", len(cfg.ProjectIDs))

	// =========================================================================
	// STEP 3: RUN THE PIPELINE
	// =========================================================================

	p, err := converter.New(cfg,
		converter.WithFs(fs),
		converter.WithLogger(log),
		converter.WithClock(now),
		converter.WithDryRun(opts.dryRun),
	)
	if err != nil {
		return err
	}

	result, err := p.Run(ctx)
	if err != nil {
		return err
	}

	// =========================================================================
	// STEP 4: PRINT SUMMARY
	// =========================================================================

	printSummary(cmd.OutOrStdout(), result)
	return nil
}

func printSummary(w io.Writer, result *converter.Result) {
	fmt.Fprintln(w, "=== Conversion Complete ===")
	if result.DryRun {
		fmt.Fprintln(w, "Output file:     (dry run, nothing written)")
	} else {
		fmt.Fprintf(w, "Output file:     %s\n", result.OutputFile)
	}
	fmt.Fprintf(w, "Rows:            %d\n", result.Rows)
	fmt.Fprintf(w, "Columns:         %d\n", len(result.Header))
	fmt.Fprintf(w, "Time elapsed:    %s\n", result.Elapsed)
}
