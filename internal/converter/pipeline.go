// =============================================================================
// Timesheet Converter - Pipeline
// =============================================================================
//
// This module orchestrates one conversion run, from the time-tracking export
// to the spreadsheet the business system imports.
//
// CONVERSION PIPELINE:
//   1. Read the CSV export into a column Table
//   2. Remove the excluded columns
//   3. Check that project, duration and description are present
//   4. Map project names to project references
//   5. Convert durations to decimal hours
//   6. Split task ids out of the descriptions
//   7. Commit the task references as the task_id/id column
//   8. Add the date column
//   9. Write the spreadsheet and verify its header row
//
// Every step runs to completion or aborts the run; nothing is written unless
// all previous steps succeeded. The context is checked between steps.
//
// =============================================================================

package converter

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/afero"

	"github.com/ginjaninja78/timesheet-converter/internal/config"
	"github.com/ginjaninja78/timesheet-converter/internal/csvparser"
	"github.com/ginjaninja78/timesheet-converter/internal/logger"
	"github.com/ginjaninja78/timesheet-converter/internal/sheetwriter"
	"github.com/ginjaninja78/timesheet-converter/internal/table"
	"github.com/ginjaninja78/timesheet-converter/internal/validation"
	"github.com/ginjaninja78/timesheet-converter/pkg/utils"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of one run.
type Result struct {
	// OutputFile is the path of the written spreadsheet.
	// Empty on a dry run.
	OutputFile string

	// Header is the header row of the spreadsheet.
	Header []string

	// Rows is the number of data rows, header excluded.
	Rows int

	// DryRun is set when nothing was written.
	DryRun bool

	// Elapsed is the time taken by the whole run.
	Elapsed time.Duration
}

// =============================================================================
// PIPELINE STRUCTURE
// =============================================================================

// Pipeline converts one export according to a Config.
type Pipeline struct {
	cfg    *config.Config
	fs     afero.Fs
	log    logger.Logger
	now    func() time.Time
	dryRun bool

	// date is written on every row, fileDate goes into the file name.
	date     time.Time
	fileDate time.Time

	writer *sheetwriter.Writer
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithFs sets the filesystem used for input and output.
// Default: the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(p *Pipeline) { p.fs = fs }
}

// WithLogger sets the logger. Default: discard.
func WithLogger(log logger.Logger) Option {
	return func(p *Pipeline) { p.log = log }
}

// WithClock sets the clock used for the default dates.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// WithDryRun runs every step except the write.
func WithDryRun(dryRun bool) Option {
	return func(p *Pipeline) { p.dryRun = dryRun }
}

// =============================================================================
// CONSTRUCTOR
// =============================================================================

// New creates a Pipeline for cfg.
//
// RETURNS:
//   - A ready Pipeline.
//   - A FormatError if date or file_date is set and not YYYY-MM-DD. No input
//     is read in that case.
func New(cfg *config.Config, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		cfg: cfg,
		fs:  afero.NewOsFs(),
		log: logger.Discard(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}

	var err error
	if p.date, err = validation.DateOrToday("date", cfg.Date, p.now); err != nil {
		return nil, err
	}
	if p.fileDate, err = validation.DateOrToday("file_date", cfg.FileDate, p.now); err != nil {
		return nil, err
	}

	p.writer = sheetwriter.New(p.fs, cfg.OutputDir, cfg.SheetName)
	return p, nil
}

// OutputPath returns the file a successful run writes.
func (p *Pipeline) OutputPath() string {
	return p.writer.Path(p.fileDate)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the conversion pipeline.
//
// RETURNS:
//   - The Result of the run.
//   - The first error of any step. ConfigError, FormatError, LookupError and
//     IOError match the types sentinels; an interrupted run returns the
//     context error.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	result := &Result{DryRun: p.dryRun}

	p.log.Info("Processing export", "path", p.cfg.Path, "date", p.date.Format(validation.DateLayout))

	var t *table.Table
	var tasks []any

	// =========================================================================
	// STEP 1: READ CSV
	// =========================================================================

	err := p.step(ctx, "read_csv", func() error {
		settings := csvparser.Settings{Encoding: p.cfg.Encoding, Delimiter: p.cfg.Delimiter}
		var err error
		t, err = csvparser.Parse(p.fs, p.cfg.Path, settings)
		return err
	})
	if err != nil {
		return nil, err
	}
	p.log.Debug("Parsed export", "rows", t.Len(), "columns", t.Names())

	// =========================================================================
	// STEPS 2-8: COLUMN TRANSFORMATIONS
	// =========================================================================

	steps := []struct {
		name string
		fn   func() error
	}{
		{"remove_keys", func() error {
			RemoveColumns(t, p.cfg.KeysToRemove)
			return nil
		}},
		{"check_columns", func() error {
			return validation.RequireColumns(t, validation.RequiredColumns...)
		}},
		{"map_projects", func() error {
			return MapProjects(t, p.cfg.ProjectIDs)
		}},
		{"convert_durations", func() error {
			return ConvertDurations(t)
		}},
		{"clean_descriptions", func() error {
			var err error
			tasks, err = SplitDescriptions(t, p.cfg.Sep)
			return err
		}},
		{"create_tasks", func() error {
			return t.Set(TaskColumn, tasks)
		}},
		{"add_date", func() error {
			return AddDateColumn(t, p.date)
		}},
	}
	for _, s := range steps {
		if err := p.step(ctx, s.name, s.fn); err != nil {
			return nil, err
		}
	}

	result.Rows = t.Len()

	// =========================================================================
	// DRY RUN
	// =========================================================================

	if p.dryRun {
		result.Header = sheetwriter.Headers(t.Names(), p.cfg.ColumnsToRename)
		if _, err := sheetwriter.BuildRows(t, result.Header); err != nil {
			return nil, err
		}
		p.log.Info("Dry run, nothing written", "would_write", p.OutputPath(), "header", result.Header, "rows", result.Rows)
		result.Elapsed = time.Since(start)
		return result, nil
	}

	// =========================================================================
	// STEP 9: WRITE OUTPUT FILE
	// =========================================================================

	if utils.FileExists(p.fs, p.OutputPath()) {
		p.log.Warn("Output file exists and will be replaced", "path", p.OutputPath())
	}

	err = p.step(ctx, "write_excel", func() error {
		path, header, err := p.writer.Write(t, p.cfg.ColumnsToRename, p.fileDate)
		if err != nil {
			return err
		}
		result.OutputFile = path
		result.Header = header
		return p.writer.VerifyHeader(path, header)
	})
	if err != nil {
		return nil, err
	}

	result.Elapsed = time.Since(start)
	p.log.Info("Wrote timesheets", "path", result.OutputFile, "rows", result.Rows, "elapsed", result.Elapsed)
	return result, nil
}

// step runs fn unless ctx is done and logs its completion time.
func (p *Pipeline) step(ctx context.Context, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("interrupted before %s: %w", name, err)
	}

	start := time.Now()
	if err := fn(); err != nil {
		p.log.Debug("step failed", "step", name, "err", err)
		return err
	}
	p.log.Debug("step done", "step", name, "elapsed", time.Since(start))
	return nil
}
