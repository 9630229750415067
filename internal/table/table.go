// =============================================================================
// Timesheet Converter - Column Table
// =============================================================================
//
// Table is the in-memory, column-oriented dataset the pipeline works on.
// Columns keep their insertion order: replacing a column keeps its position,
// adding a new one appends it at the end. Every column holds exactly Len()
// cells; Set rejects a column of any other length.
//
// CELL VALUES:
//   string  - raw text from the input file, formatted references
//   float64 - decimal hours
//   bool    - the "absent" task reference marker (false)
//
// =============================================================================

package table

import (
	"fmt"
	"strings"
)

// Table is an ordered set of equal-length columns.
type Table struct {
	names   []string
	columns map[string][]any
	rows    int
}

// New creates an empty table whose columns will hold rows cells each.
func New(rows int) *Table {
	return &Table{
		columns: make(map[string][]any),
		rows:    rows,
	}
}

// Canonical lower-cases and trims a column name.
func Canonical(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return t.rows
}

// Names returns the column names in iteration order.
func (t *Table) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Has reports whether the column exists.
func (t *Table) Has(name string) bool {
	_, ok := t.columns[name]
	return ok
}

// Column returns the cells of a column and whether it exists.
func (t *Table) Column(name string) ([]any, bool) {
	col, ok := t.columns[name]
	return col, ok
}

// Set stores a column. An existing column keeps its position.
func (t *Table) Set(name string, values []any) error {
	if len(values) != t.rows {
		return fmt.Errorf("column %q has %d values, table has %d rows", name, len(values), t.rows)
	}
	if _, ok := t.columns[name]; !ok {
		t.names = append(t.names, name)
	}
	t.columns[name] = values
	return nil
}

// Remove deletes a column. Removing a missing column is a no-op.
func (t *Table) Remove(name string) {
	if _, ok := t.columns[name]; !ok {
		return
	}
	delete(t.columns, name)
	for i, n := range t.names {
		if n == name {
			t.names = append(t.names[:i], t.names[i+1:]...)
			break
		}
	}
}

// Rows transposes the table into row-oriented records, one cell per column
// in iteration order. It fails instead of truncating when a column length
// does not match the row count.
func (t *Table) Rows() ([][]any, error) {
	for _, name := range t.names {
		if n := len(t.columns[name]); n != t.rows {
			return nil, fmt.Errorf("column %q has %d values, table has %d rows", name, n, t.rows)
		}
	}

	rows := make([][]any, t.rows)
	for i := range rows {
		row := make([]any, len(t.names))
		for j, name := range t.names {
			row[j] = t.columns[name][i]
		}
		rows[i] = row
	}
	return rows, nil
}

// FromStrings builds a table from canonical headers and string records.
// Every record must have len(headers) fields.
func FromStrings(headers []string, records [][]string) (*Table, error) {
	t := New(len(records))
	for j, h := range headers {
		if t.Has(h) {
			return nil, fmt.Errorf("duplicate column %q", h)
		}
		col := make([]any, len(records))
		for i, rec := range records {
			if len(rec) != len(headers) {
				return nil, fmt.Errorf("record %d has %d fields, header has %d", i+1, len(rec), len(headers))
			}
			col[i] = rec[j]
		}
		if err := t.Set(h, col); err != nil {
			return nil, err
		}
	}
	return t, nil
}
