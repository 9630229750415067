// =============================================================================
// Timesheet Converter - Column Transformations
// =============================================================================
//
// This module holds the column-level rewrites the pipeline applies, in the
// order it applies them:
//   - RemoveColumns      : drop excluded columns
//   - MapProjects        : project name  -> "project.project_project_<id>"
//   - ConvertDurations   : "HH:MM:SS"    -> decimal hours
//   - SplitDescriptions  : "42-Text"     -> task reference + "Text"
//   - AddDateColumn      : one ISO date per row
//
// Each rewrite replaces a whole column at once so the table never holds a
// half-converted column.
//
// =============================================================================

package converter

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ginjaninja78/timesheet-converter/internal/table"
	"github.com/ginjaninja78/timesheet-converter/internal/types"
	"github.com/ginjaninja78/timesheet-converter/internal/validation"
)

// =============================================================================
// COLUMN NAMES AND REFERENCE FORMATS
// =============================================================================

const (
	// ProjectColumn holds project names, then project references.
	ProjectColumn = "project"

	// DurationColumn holds HH:MM:SS strings, then decimal hours.
	DurationColumn = "duration"

	// DescriptionColumn holds the activity text.
	DescriptionColumn = "description"

	// TaskColumn is added by the pipeline with the task references.
	TaskColumn = "task_id/id"

	// DateColumn is added by the pipeline with the activities date.
	DateColumn = "date"

	projectRefFormat = "project.project_project_%d"
	taskRefFormat    = "project.project_task_%d"
)

// NoTask is the cell value written when a description carries no task id.
const NoTask = false

// ProjectReference formats a project id as an external reference.
func ProjectReference(id int) string {
	return fmt.Sprintf(projectRefFormat, id)
}

// TaskReference formats a task id as an external reference.
func TaskReference(id int) string {
	return fmt.Sprintf(taskRefFormat, id)
}

// =============================================================================
// COLUMN REMOVAL
// =============================================================================

// RemoveColumns deletes the named columns, matched after canonicalization.
// Names that are not present are ignored.
func RemoveColumns(t *table.Table, names []string) {
	for _, name := range names {
		t.Remove(table.Canonical(name))
	}
}

// =============================================================================
// PROJECT MAPPING
// =============================================================================

// MapProjects replaces each project name with its project reference.
//
// RETURNS:
//   - A LookupError naming the first project missing from ids. The column is
//     left untouched in that case.
func MapProjects(t *table.Table, ids map[string]int) error {
	col, _ := t.Column(ProjectColumn)
	refs := make([]any, len(col))

	for i, cell := range col {
		name := table.Canonical(fmt.Sprint(cell))
		id, ok := ids[name]
		if !ok {
			return &types.Error{
				Kind:   types.KindLookup,
				Op:     "map project",
				Column: ProjectColumn,
				Row:    i + 1,
				Value:  name,
				Err:    errors.New("project has no entry in project_ids"),
			}
		}
		refs[i] = ProjectReference(id)
	}

	return t.Set(ProjectColumn, refs)
}

// =============================================================================
// DURATION CONVERSION
// =============================================================================

// maxHourDigits keeps hours*3600 well inside int range.
const maxHourDigits = 9

var durationPattern = regexp.MustCompile(`^(\d+):(\d{1,2}):(\d{1,2})$`)

// DurationToHours converts "HH:MM:SS" into decimal hours,
// (H*3600 + M*60 + S) / 3600. Hours may exceed 23 but not nine digits;
// minutes and seconds must be below 60.
func DurationToHours(s string) (float64, error) {
	m := durationPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, fmt.Errorf("duration must match HH:MM:SS")
	}

	if len(strings.TrimLeft(m[1], "0")) > maxHourDigits {
		return 0, fmt.Errorf("hours exceed %d digits", maxHourDigits)
	}
	hours, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("invalid hours: %w", err)
	}
	minutes, _ := strconv.Atoi(m[2])
	seconds, _ := strconv.Atoi(m[3])
	if minutes > 59 || seconds > 59 {
		return 0, fmt.Errorf("minutes and seconds must be below 60")
	}

	total := hours*3600 + minutes*60 + seconds
	return float64(total) / 3600, nil
}

// ConvertDurations replaces every duration string with decimal hours.
func ConvertDurations(t *table.Table) error {
	col, _ := t.Column(DurationColumn)
	hours := make([]any, len(col))

	for i, cell := range col {
		raw := fmt.Sprint(cell)
		h, err := DurationToHours(raw)
		if err != nil {
			return &types.Error{
				Kind:   types.KindFormat,
				Op:     "convert duration",
				Column: DurationColumn,
				Row:    i + 1,
				Value:  raw,
				Err:    err,
			}
		}
		hours[i] = h
	}

	return t.Set(DurationColumn, hours)
}

// =============================================================================
// DESCRIPTION SPLITTING
// =============================================================================

// SplitDescription separates a leading task id from a description.
//
// EXAMPLE:
//   SplitDescription("42-Fix login bug", "-")
//   -> "project.project_task_42", "Fix login bug"
//
// Without sep in desc, the task is NoTask and desc is returned unchanged.
// Only the first sep splits; the rest of the text is kept as is. The part
// before sep must be an integer (surrounding spaces allowed).
func SplitDescription(desc, sep string) (task any, text string, err error) {
	if sep == "" {
		return nil, "", errors.New("separator is empty")
	}

	prefix, rest, found := strings.Cut(desc, sep)
	if !found {
		return NoTask, desc, nil
	}

	id, err := strconv.Atoi(strings.TrimSpace(prefix))
	if err != nil {
		return nil, "", fmt.Errorf("task id %q before %q is not an integer", prefix, sep)
	}
	return TaskReference(id), rest, nil
}

// SplitDescriptions rewrites the description column and returns the task
// references, one per row, for the caller to commit as a column.
func SplitDescriptions(t *table.Table, sep string) ([]any, error) {
	col, _ := t.Column(DescriptionColumn)
	tasks := make([]any, len(col))
	descriptions := make([]any, len(col))

	for i, cell := range col {
		raw := fmt.Sprint(cell)
		task, text, err := SplitDescription(raw, sep)
		if err != nil {
			return nil, &types.Error{
				Kind:   types.KindFormat,
				Op:     "split description",
				Column: DescriptionColumn,
				Row:    i + 1,
				Value:  raw,
				Err:    err,
			}
		}
		tasks[i] = task
		descriptions[i] = text
	}

	if err := t.Set(DescriptionColumn, descriptions); err != nil {
		return nil, err
	}
	return tasks, nil
}

// =============================================================================
// DATE COLUMN
// =============================================================================

// AddDateColumn appends the date column, the same ISO date on every row.
func AddDateColumn(t *table.Table, date time.Time) error {
	value := date.Format(validation.DateLayout)
	dates := make([]any, t.Len())
	for i := range dates {
		dates[i] = value
	}
	return t.Set(DateColumn, dates)
}
