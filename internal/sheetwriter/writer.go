// =============================================================================
// Timesheet Converter - Sheet Writer
// =============================================================================
//
// This module turns the column Table into the spreadsheet the business
// system imports:
//
//   1. Compute the header row (rename map, else the lower-cased column name)
//   2. Transpose the columns into rows (fails on unequal column lengths)
//   3. Put the header first, then the data rows in their original order
//   4. Stream every row into one worksheet with excelize
//   5. Save atomically as <output_dir>/timesheets_<date>.xlsx
//
// RENAME MATCHING:
//   Rename keys are written the way the export capitalizes its headers
//   ("Description"), so a column is first looked up by its capitalized form
//   (first letter upper, the rest lower). If that misses, any key equal to
//   the column after canonicalization matches, so "description" and
//   "DESCRIPTION" work too.
//
// =============================================================================

package sheetwriter

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/spf13/afero"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/timesheet-converter/internal/table"
	"github.com/ginjaninja78/timesheet-converter/internal/types"
	"github.com/ginjaninja78/timesheet-converter/pkg/utils"
)

// DefaultSheetName is the worksheet excelize creates in a new workbook.
const DefaultSheetName = "Sheet1"

// =============================================================================
// WRITER
// =============================================================================

// Writer saves tables as XLSX files in one directory.
type Writer struct {
	fs        afero.Fs
	dir       string
	sheetName string
	format    string
}

// New creates a Writer for dir. An empty sheetName means DefaultSheetName.
func New(fs afero.Fs, dir, sheetName string) *Writer {
	if sheetName == "" {
		sheetName = DefaultSheetName
	}
	if dir == "" {
		dir = "."
	}
	return &Writer{
		fs:        fs,
		dir:       dir,
		sheetName: sheetName,
		format:    utils.DefaultOutputFormat,
	}
}

// Path returns the file a Write with this stamp produces.
func (w *Writer) Path(stamp time.Time) string {
	return filepath.Join(w.dir, utils.GenerateOutputFileName(w.format, stamp))
}

// Write serializes t to <dir>/timesheets_<stamp>.xlsx.
//
// RETURNS:
//   - The path of the written file and the header row written to it.
//   - A FormatError if the columns have unequal lengths.
//   - An IOError if the file cannot be created or written. No file is left
//     under the final name in that case.
func (w *Writer) Write(t *table.Table, rename map[string]string, stamp time.Time) (string, []string, error) {
	header := Headers(t.Names(), rename)

	rows, err := BuildRows(t, header)
	if err != nil {
		return "", nil, err
	}

	path := w.Path(stamp)

	if err := utils.EnsureDir(w.fs, w.dir); err != nil {
		return "", nil, types.IOError("create spreadsheet", path, err)
	}

	err = utils.WriteFileAtomic(w.fs, path, func(out io.Writer) error {
		return w.encode(out, rows)
	})
	if err != nil {
		return "", nil, types.IOError("create spreadsheet", path, err)
	}
	return path, header, nil
}

// encode streams rows into a new workbook and writes it to out.
func (w *Writer) encode(out io.Writer, rows [][]any) error {
	f := excelize.NewFile()
	defer f.Close()

	if w.sheetName != DefaultSheetName {
		if err := f.SetSheetName(DefaultSheetName, w.sheetName); err != nil {
			return fmt.Errorf("failed to name sheet: %w", err)
		}
	}

	sw, err := f.NewStreamWriter(w.sheetName)
	if err != nil {
		return fmt.Errorf("failed to open stream writer: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}
	return f.Write(out)
}

// =============================================================================
// HEADER AND ROW CONSTRUCTION
// =============================================================================

// Headers computes the output header for each column name, in order.
func Headers(names []string, rename map[string]string) []string {
	canonical := canonicalRenames(rename)

	headers := make([]string, len(names))
	for i, name := range names {
		if v, ok := rename[Capitalize(name)]; ok {
			headers[i] = v
			continue
		}
		if v, ok := canonical[table.Canonical(name)]; ok {
			headers[i] = v
			continue
		}
		headers[i] = strings.ToLower(name)
	}
	return headers
}

// canonicalRenames indexes rename by canonical key. When several keys
// collapse to the same canonical name the lexically smallest key wins.
func canonicalRenames(rename map[string]string) map[string]string {
	keys := make([]string, 0, len(rename))
	for k := range rename {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]string, len(rename))
	for _, k := range keys {
		ck := table.Canonical(k)
		if _, ok := out[ck]; !ok {
			out[ck] = rename[k]
		}
	}
	return out
}

// Capitalize upper-cases the first letter of s and lower-cases the rest.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToTitle(r)) + strings.ToLower(s[size:])
}

// BuildRows returns header followed by every data row of t, columns in
// table order.
func BuildRows(t *table.Table, header []string) ([][]any, error) {
	data, err := t.Rows()
	if err != nil {
		return nil, types.FormatError("transpose table", err)
	}

	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
	}

	rows := make([][]any, 0, len(data)+1)
	rows = append(rows, headerRow)
	rows = append(rows, data...)
	return rows, nil
}
