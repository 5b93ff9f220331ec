package core

import (
	"errors"
	"fmt"
)

var (
	// ErrParse is matched by every ParseError
	ErrParse = errors.New("input is not readable as tabular text")
	// ErrMissingInput is returned when no file or sample was supplied
	ErrMissingInput = errors.New("no input supplied")
	// ErrUnsupportedFormat is returned when no extractor is registered for a format
	ErrUnsupportedFormat = errors.New("unsupported input format")
)

// ParseError reports that an upload could not be turned into rows
type ParseError struct {
	Format string
	Err    error
}

// NewParseError wraps err as a ParseError for the given input format
func NewParseError(format string, err error) *ParseError {
	return &ParseError{Format: format, Err: err}
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("parse %s: %v", e.Format, ErrParse)
	}
	return fmt.Sprintf("parse %s: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrParse) true for any ParseError
func (e *ParseError) Is(target error) bool { return target == ErrParse }
