package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Kinded is implemented by every error of this package
type Kinded interface {
	error
	Kind() ErrorType
}

// LoadError reports that a source sheet could not be read or parsed
type LoadError struct {
	Path  string
	Cause error
}

// NewLoadError wraps cause as a load failure for path
func NewLoadError(path string, cause error) *LoadError {
	return &LoadError{Path: path, Cause: cause}
}

func (e *LoadError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("[%s] failed to load %s", ErrTypeLoad, e.Path)
	}
	return fmt.Sprintf("[%s] failed to load %s: %v", ErrTypeLoad, e.Path, e.Cause)
}

func (e *LoadError) Unwrap() error { return e.Cause }

// Kind implements Kinded
func (e *LoadError) Kind() ErrorType { return ErrTypeLoad }

// MissingColumnError reports required columns absent from a table.
// Columns keeps the order of the required set.
type MissingColumnError struct {
	Columns []string
}

// NewMissingColumnError creates a schema error naming the absent columns
func NewMissingColumnError(columns ...string) *MissingColumnError {
	return &MissingColumnError{Columns: append([]string(nil), columns...)}
}

func (e *MissingColumnError) Error() string {
	quoted := make([]string, len(e.Columns))
	for i, c := range e.Columns {
		quoted[i] = fmt.Sprintf("%q", c)
	}
	noun := "column"
	if len(e.Columns) != 1 {
		noun = "columns"
	}
	return fmt.Sprintf("[%s] missing required %s: %s", ErrTypeSchema, noun, strings.Join(quoted, ", "))
}

// Kind implements Kinded
func (e *MissingColumnError) Kind() ErrorType { return ErrTypeSchema }

// Has reports whether column is among the missing columns
func (e *MissingColumnError) Has(column string) bool {
	for _, c := range e.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// ExportError reports that an output file could not be written
type ExportError struct {
	Path  string
	Cause error
}

// NewExportError wraps cause as a write failure for path
func NewExportError(path string, cause error) *ExportError {
	return &ExportError{Path: path, Cause: cause}
}

func (e *ExportError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("[%s] failed to write %s", ErrTypeExport, e.Path)
	}
	return fmt.Sprintf("[%s] failed to write %s: %v", ErrTypeExport, e.Path, e.Cause)
}

func (e *ExportError) Unwrap() error { return e.Cause }

// Kind implements Kinded
func (e *ExportError) Kind() ErrorType { return ErrTypeExport }

// KindOf returns the type of the first Kinded error in err's chain, or
// ErrTypeUnknown.
func KindOf(err error) ErrorType {
	var k Kinded
	if stderrors.As(err, &k) {
		return k.Kind()
	}
	return ErrTypeUnknown
}
