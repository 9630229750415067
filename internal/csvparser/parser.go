// =============================================================================
// Timesheet Converter - CSV Parser Module
// =============================================================================
//
// This module reads the time-tracking export into a column Table. It handles:
//   - An optional UTF-8 byte-order mark
//   - Legacy encodings (windows-1252, iso-8859-1, ...) via golang.org/x/text
//   - A configurable single-character delimiter
//   - Header canonicalization (lower-cased, trimmed)
//
// RAGGED ROWS:
//   A data row whose field count differs from the header is rejected with a
//   FormatError naming the row. Rows are never padded or truncated.
//
// =============================================================================

package csvparser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/ginjaninja78/timesheet-converter/internal/table"
	"github.com/ginjaninja78/timesheet-converter/internal/types"
	"github.com/ginjaninja78/timesheet-converter/internal/validation"
)

// =============================================================================
// PARSER SETTINGS
// =============================================================================

// Settings controls how the export is decoded.
type Settings struct {
	// Encoding is a WHATWG encoding label. Default: "utf-8".
	Encoding string

	// Delimiter separates fields. Default: ",".
	Delimiter string
}

// DefaultSettings returns UTF-8, comma-separated settings.
func DefaultSettings() Settings {
	return Settings{Encoding: "utf-8", Delimiter: ","}
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a CSV export and returns it as a Table.
//
// PARAMETERS:
//   - fs: The filesystem to read from.
//   - path: The path to the .csv export.
//   - settings: Encoding and delimiter.
//
// RETURNS:
//   - The Table, columns in header order, names canonicalized.
//   - A FormatError for a wrong extension, a malformed file or a ragged row.
//   - An IOError if the file cannot be opened or read.
func Parse(fs afero.Fs, path string, settings Settings) (*table.Table, error) {
	if err := validation.CheckExtension(path); err != nil {
		return nil, err
	}

	file, err := fs.Open(path)
	if err != nil {
		return nil, types.IOError("open csv", path, err)
	}
	defer file.Close()

	reader, err := decodingReader(file, settings.Encoding)
	if err != nil {
		return nil, &types.Error{Kind: types.KindFormat, Op: "read csv", Path: path, Err: err}
	}

	csvReader := csv.NewReader(reader)
	if err := configureReader(csvReader, settings); err != nil {
		return nil, &types.Error{Kind: types.KindFormat, Op: "read csv", Path: path, Err: err}
	}

	allRows, err := csvReader.ReadAll()
	if err != nil {
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			return nil, &types.Error{Kind: types.KindFormat, Op: "read csv", Path: path, Err: err}
		}
		return nil, types.IOError("read csv", path, err)
	}

	if len(allRows) == 0 {
		return nil, &types.Error{Kind: types.KindFormat, Op: "read csv", Path: path, Err: errors.New("file is empty")}
	}

	headers := cleanHeaders(allRows[0])

	records, err := extractDataRows(allRows[1:], len(headers))
	if err != nil {
		var e *types.Error
		if errors.As(err, &e) {
			e.Path = path
		}
		return nil, err
	}

	t, err := table.FromStrings(headers, records)
	if err != nil {
		return nil, &types.Error{Kind: types.KindFormat, Op: "read csv", Path: path, Err: err}
	}
	return t, nil
}

// decodingReader wraps r so that it yields UTF-8 with any BOM removed.
func decodingReader(r io.Reader, label string) (io.Reader, error) {
	if strings.TrimSpace(label) == "" {
		label = "utf-8"
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q: %w", label, err)
	}
	return transform.NewReader(r, unicode.BOMOverride(enc.NewDecoder())), nil
}

// configureReader applies the delimiter and the lenient quoting rules.
func configureReader(reader *csv.Reader, settings Settings) error {
	if settings.Delimiter != "" {
		runes := []rune(settings.Delimiter)
		if len(runes) != 1 {
			return fmt.Errorf("delimiter must be a single character, got %q", settings.Delimiter)
		}
		reader.Comma = runes[0]
	}

	// Field counts are checked against the header in extractDataRows so the
	// error can name the row.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return nil
}

// cleanHeaders canonicalizes header names.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	for i, header := range headers {
		cleaned[i] = table.Canonical(header)
	}
	return cleaned
}

// extractDataRows drops blank rows and rejects rows whose field count does
// not match the header.
func extractDataRows(rows [][]string, width int) ([][]string, error) {
	records := make([][]string, 0, len(rows))
	for i, row := range rows {
		if isRowEmpty(row) {
			continue
		}
		if len(row) != width {
			return nil, &types.Error{
				Kind: types.KindFormat,
				Op:   "read csv",
				Row:  i + 1,
				Err:  fmt.Errorf("row has %d fields, header has %d", len(row), width),
			}
		}
		records = append(records, row)
	}
	return records, nil
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
