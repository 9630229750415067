// =============================================================================
// Timesheet Converter - Validation
// =============================================================================
//
// Checks that run before any row is transformed:
//   - Date settings must match YYYY-MM-DD
//   - The input file must be a .csv export
//   - The table must carry the columns the pipeline transforms
//
// Every failure is a FormatError so the run aborts before writing anything.
//
// =============================================================================

package validation

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ginjaninja78/timesheet-converter/internal/table"
	"github.com/ginjaninja78/timesheet-converter/internal/types"
)

// DateLayout is the only accepted date format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// InputExtension is the extension the time-tracking export must have.
const InputExtension = ".csv"

// RequiredColumns are the canonical columns the pipeline rewrites.
var RequiredColumns = []string{"project", "duration", "description"}

// =============================================================================
// DATE VALIDATION
// =============================================================================

// ParseDate parses a YYYY-MM-DD date setting.
//
// PARAMETERS:
//   - setting: The configuration key, used in the error message.
//   - value: The date string.
//
// RETURNS:
//   - The date at midnight UTC.
//   - A FormatError if value does not match DateLayout.
func ParseDate(setting, value string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, &types.Error{
			Kind:  types.KindFormat,
			Op:    "parse " + setting,
			Value: value,
			Err:   fmt.Errorf("date does not match the required format YYYY-MM-DD"),
		}
	}
	return d, nil
}

// DateOrToday parses value, or returns today's date from now when value is
// empty.
func DateOrToday(setting, value string, now func() time.Time) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		y, m, d := now().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	return ParseDate(setting, value)
}

// =============================================================================
// INPUT VALIDATION
// =============================================================================

// CheckExtension fails unless path has the .csv extension.
func CheckExtension(path string) error {
	if !strings.EqualFold(filepath.Ext(path), InputExtension) {
		return &types.Error{
			Kind: types.KindFormat,
			Op:   "read csv",
			Path: path,
			Err:  fmt.Errorf("input must be a %s file", InputExtension),
		}
	}
	return nil
}

// RequireColumns fails if any of names is missing from t, listing all of
// the missing ones.
func RequireColumns(t *table.Table, names ...string) error {
	var missing []string
	for _, name := range names {
		if !t.Has(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &types.Error{
		Kind: types.KindFormat,
		Op:   "check columns",
		Err:  fmt.Errorf("missing required column(s): %s", strings.Join(missing, ", ")),
	}
}
