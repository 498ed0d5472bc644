package deck

import (
	"errors"
	"fmt"
)

// ErrInvalidMarkers is returned by Parse and Open when the comment or
// keyword marker is empty or both markers are the same.
var ErrInvalidMarkers = errors.New("invalid line markers")

// BlockShapeError reports a block whose line count does not fit its format:
// a fixed block whose lines are not a whole number of cards, or a
// variable-length block shorter than its header.
type BlockShapeError struct {
	Keyword  string
	Line     int // line of the keyword marker
	GotLines int
	// ExpectedMultipleOf is the format's line count. For variable-length
	// blocks it is the minimum number of header lines.
	ExpectedMultipleOf int
	Variable           bool
}

func (e *BlockShapeError) Error() string {
	if e.Variable {
		return fmt.Sprintf("keyword %s at line %d: %d lines in variable-length block but %d header lines in format definition",
			e.Keyword, e.Line, e.GotLines, e.ExpectedMultipleOf)
	}
	return fmt.Sprintf("keyword %s at line %d: %d lines in block is not a multiple of the %d lines in format definition",
		e.Keyword, e.Line, e.GotLines, e.ExpectedMultipleOf)
}

// FieldConversionError reports a mandatory field whose column slice cannot
// be converted to its declared type.
type FieldConversionError struct {
	Keyword string
	Field   string
	Raw     string
	Line    int // 1-based line of the offending data line
	Err     error
}

func (e *FieldConversionError) Error() string {
	return fmt.Sprintf("keyword %s at line %d: conversion of field %s failed: %v", e.Keyword, e.Line, e.Field, e.Err)
}

func (e *FieldConversionError) Unwrap() error {
	return e.Err
}

// diagnosticFor describes a fatal parse error for the reporting sink.
func diagnosticFor(err error) Diagnostic {
	d := Diagnostic{Severity: SeverityError, Kind: KindRead, Message: err.Error()}
	var shapeErr *BlockShapeError
	var convErr *FieldConversionError
	switch {
	case errors.As(err, &shapeErr):
		d.Kind = KindBlockShape
		d.Keyword = shapeErr.Keyword
		d.Line = shapeErr.Line
	case errors.As(err, &convErr):
		d.Kind = KindFieldConversion
		d.Keyword = convErr.Keyword
		d.Line = convErr.Line
		d.Field = convErr.Field
		d.Raw = convErr.Raw
	}
	return d
}
