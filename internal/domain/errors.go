package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDataSource signals that the catalog source is missing, unreadable or malformed.
	ErrDataSource = errors.New("data source error")
	// ErrInternalFault signals an unexpected failure in the query path.
	ErrInternalFault = errors.New("internal fault")
	// ErrInvalidQuery signals a request without a usable query field.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrEngineNotReady signals that a query arrived before the engine was built.
	ErrEngineNotReady = errors.New("engine not ready")
)

// DataSourceError wraps ErrDataSource with the offending source and, when
// known, the required columns it lacks.
type DataSourceError struct {
	Source  string
	Missing []string
	Err     error
}

func (e *DataSourceError) Error() string {
	var b strings.Builder
	b.WriteString(ErrDataSource.Error())
	if e.Source != "" {
		fmt.Fprintf(&b, ": %s", e.Source)
	}
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, ": missing columns [%s]", strings.Join(e.Missing, ", "))
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap exposes both the sentinel and the underlying cause to errors.Is.
func (e *DataSourceError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrDataSource}
	}
	return []error{ErrDataSource, e.Err}
}

// NewDataSourceError creates a data source error for source caused by err.
func NewDataSourceError(source string, err error) error {
	return &DataSourceError{Source: source, Err: err}
}

// NewMissingColumnsError creates a data source error listing absent columns.
func NewMissingColumnsError(source string, missing []string) error {
	return &DataSourceError{Source: source, Missing: missing}
}
