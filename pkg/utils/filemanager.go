// =============================================================================
// Timesheet Converter - File Manager Utility
// =============================================================================
//
// File helpers shared by the sheet writer and the CLI:
//   - Output file naming with a date placeholder
//   - Atomic writes (temp file + rename) so a failed run never leaves a
//     half-written spreadsheet under the final name
//   - Directory creation
//
// All helpers take an afero.Fs so they run unchanged against the OS or an
// in-memory filesystem.
//
// =============================================================================

package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// DefaultOutputFormat names the spreadsheet after the run date.
const DefaultOutputFormat = "timesheets_{date}.xlsx"

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName expands the placeholders in format.
//
// PLACEHOLDERS:
//   {date} - stamp as YYYY-MM-DD
//
// The result always ends in .xlsx.
//
// EXAMPLE:
//   format: "timesheets_{date}.xlsx", stamp: 2023-08-18
//   output: "timesheets_2023-08-18.xlsx"
func GenerateOutputFileName(format string, stamp time.Time) string {
	if format == "" {
		format = DefaultOutputFormat
	}

	result := strings.ReplaceAll(format, "{date}", stamp.Format("2006-01-02"))

	if !strings.HasSuffix(strings.ToLower(result), ".xlsx") {
		result += ".xlsx"
	}
	return result
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDir creates dir and its parents if they don't exist.
func EnsureDir(fs afero.Fs, dir string) error {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// FileExists checks if a file exists.
func FileExists(fs afero.Fs, path string) bool {
	_, err := fs.Stat(path)
	return !os.IsNotExist(err)
}

// =============================================================================
// ATOMIC WRITE
// =============================================================================

// WriteFileAtomic streams content into a uniquely named temp file next to
// path, then renames it over path. On any failure the temp file is removed
// and path is left as it was.
func WriteFileAtomic(fs afero.Fs, path string, write func(io.Writer) error) (err error) {
	tmpPath := tempName(path)

	tmp, err := fs.OpenFile(tmpPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = fs.Remove(tmpPath)
		}
	}()

	if err = write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err = fs.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// tempName returns a hidden sibling of path with a random suffix.
func tempName(path string) string {
	dir, base := filepath.Split(path)
	return filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", base, uuid.New().String()))
}
