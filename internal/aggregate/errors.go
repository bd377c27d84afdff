package aggregate

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyDataset is returned when a table has no rows to roll up.
	ErrEmptyDataset = errors.New("empty dataset")
	// ErrNoMatchingRows is returned when a trend is requested for a region the table lacks.
	ErrNoMatchingRows = errors.New("no matching rows")
)

// MalformedDateColumnError means a date header did not parse with the configured
// layout, which points at a table whose schema is not the expected one.
type MalformedDateColumnError struct {
	Column int
	Header string
	Err    error
}

func (e *MalformedDateColumnError) Error() string {
	return fmt.Sprintf("malformed date column %d (%q): %v", e.Column, e.Header, e.Err)
}

func (e *MalformedDateColumnError) Unwrap() error { return e.Err }
