package domain

import (
	"errors"
	"fmt"
)

// ErrNoData is the "no data found" outcome of an analytics query. It is a
// valid result for well-formed input, distinct from any failure.
var ErrNoData = errors.New("no matching transactions")

// FormatError means the file's schema could not be recognized. The whole
// file is rejected before any row is parsed.
type FormatError struct {
	Filename string
	Headers  []string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unrecognized export format for %q (headers: %v)", e.Filename, e.Headers)
}

// RowError is a failure isolated to a single data row. The batch continues;
// the row is skipped and the error collected.
type RowError struct {
	Row int // 1-based data row number, header excluded
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// EmptyResultError means a file produced zero valid transactions after all
// rows were processed. First carries the primary cause; Errors the full list.
type EmptyResultError struct {
	Filename string
	First    *RowError
	Errors   []*RowError
}

func (e *EmptyResultError) Error() string {
	if e.First != nil {
		return fmt.Sprintf("no valid transactions in %q: %v", e.Filename, e.First)
	}
	return fmt.Sprintf("no valid transactions in %q", e.Filename)
}

func (e *EmptyResultError) Unwrap() error {
	if e.First != nil {
		return e.First
	}
	return nil
}
