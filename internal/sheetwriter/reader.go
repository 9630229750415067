package sheetwriter

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/timesheet-converter/internal/types"
)

// ReadBack opens a workbook written by Write and returns the rows of its
// sheet as displayed strings (numbers unformatted, booleans TRUE/FALSE).
func (w *Writer) ReadBack(path string) ([][]string, error) {
	file, err := w.fs.Open(path)
	if err != nil {
		return nil, types.IOError("read spreadsheet", path, err)
	}
	defer file.Close()

	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, types.IOError("read spreadsheet", path, fmt.Errorf("failed to open workbook: %w", err))
	}
	defer f.Close()

	rows, err := f.GetRows(w.sheetName)
	if err != nil {
		return nil, types.IOError("read spreadsheet", path, fmt.Errorf("failed to read rows: %w", err))
	}
	return rows, nil
}

// VerifyHeader re-reads path and checks that its first row equals header.
func (w *Writer) VerifyHeader(path string, header []string) error {
	rows, err := w.ReadBack(path)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return types.IOError("verify spreadsheet", path, fmt.Errorf("sheet %q is empty", w.sheetName))
	}

	got := rows[0]
	if len(got) != len(header) {
		return types.IOError("verify spreadsheet", path, fmt.Errorf("header has %d cells, expected %d", len(got), len(header)))
	}
	for i := range header {
		if got[i] != header[i] {
			return types.IOError("verify spreadsheet", path, fmt.Errorf("header cell %d is %q, expected %q", i+1, got[i], header[i]))
		}
	}
	return nil
}
