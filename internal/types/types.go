// =============================================================================
// Timesheet Converter - Shared Types
// =============================================================================
//
// This package contains the error types shared by every stage of the
// conversion so that callers can classify a failure without importing the
// stage that produced it. Types defined here are used by:
//   - config
//   - csvparser
//   - converter
//   - sheetwriter
//
// ERROR KINDS:
//   ConfigError  - configuration missing, unreadable or incomplete
//   FormatError  - malformed date, duration, task prefix or input file
//   LookupError  - project name missing from the project-id map
//   IOError      - file system failure while reading or writing
//
// =============================================================================

package types

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// ERROR KINDS
// =============================================================================

// Kind classifies a conversion failure.
type Kind int

const (
	// KindConfig marks a missing, unreadable or invalid configuration.
	KindConfig Kind = iota + 1

	// KindFormat marks input that does not match the expected format.
	KindFormat

	// KindLookup marks a value that has no entry in a lookup table.
	KindLookup

	// KindIO marks a file system failure.
	KindIO
)

// String returns the name used in error messages.
func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config error"
	case KindFormat:
		return "format error"
	case KindLookup:
		return "lookup error"
	case KindIO:
		return "io error"
	default:
		return "error"
	}
}

// Sentinels for errors.Is. A *Error matches the sentinel of its Kind.
var (
	ErrConfig = &Error{Kind: KindConfig}
	ErrFormat = &Error{Kind: KindFormat}
	ErrLookup = &Error{Kind: KindLookup}
	ErrIO     = &Error{Kind: KindIO}
)

// =============================================================================
// ERROR STRUCTURE
// =============================================================================

// Error is a classified conversion failure.
type Error struct {
	// Kind is the failure class.
	Kind Kind

	// Op names the step that failed (e.g. "read csv", "convert duration").
	Op string

	// Path is the file involved, if any.
	Path string

	// Column is the table column involved, if any.
	Column string

	// Row is the 1-based data row (header excluded), or 0 when not row-specific.
	Row int

	// Value is the offending cell or setting value, if any.
	Value string

	// Err is the underlying cause.
	Err error
}

// Error renders the failure with whatever context is available.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Op != "" {
		b.WriteString(": ")
		b.WriteString(e.Op)
	}
	if e.Path != "" {
		fmt.Fprintf(&b, " %s", e.Path)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, " column %q", e.Column)
	}
	if e.Row > 0 {
		fmt.Fprintf(&b, " row %d", e.Row)
	}
	if e.Value != "" {
		fmt.Fprintf(&b, " value %q", e.Value)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Err == nil && t.Kind == e.Kind
}

// =============================================================================
// CONSTRUCTORS
// =============================================================================

// ConfigError returns a KindConfig error.
func ConfigError(op string, err error) *Error {
	return &Error{Kind: KindConfig, Op: op, Err: err}
}

// FormatError returns a KindFormat error.
func FormatError(op string, err error) *Error {
	return &Error{Kind: KindFormat, Op: op, Err: err}
}

// LookupError returns a KindLookup error.
func LookupError(op string, err error) *Error {
	return &Error{Kind: KindLookup, Op: op, Err: err}
}

// IOError returns a KindIO error for path.
func IOError(op, path string, err error) *Error {
	return &Error{Kind: KindIO, Op: op, Path: path, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
