package timetable

import (
	"errors"
	"fmt"
)

var (
	ErrInputTooShort    = errors.New("input too short")
	ErrTruncatedRow     = errors.New("row has too few columns")
	ErrEmptyDayName     = errors.New("day name is empty")
	ErrNoDays           = errors.New("no valid day data found")
	ErrRowLabelMismatch = errors.New("row label does not match its position")
)

// ParseError reports why an input was rejected.
// Line is 1-based and zero when the failure is not tied to a line.
type ParseError struct {
	Line   int
	Err    error
	Detail string
}

func (e *ParseError) Error() string {
	msg := e.Err.Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

func newParseError(line int, err error, detail ...string) *ParseError {
	pErr := &ParseError{Line: line, Err: err}
	if len(detail) > 0 {
		pErr.Detail = detail[0]
	}
	return pErr
}
