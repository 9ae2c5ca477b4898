package core

import (
	"fmt"

	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError reports invalid input. Row is set (1-indexed, header
// excluded) when the error concerns a specific CSV data row.
type ValidationError struct {
	Err    error
	Fields []FieldError
	Row    int
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{Err: err, Fields: flds}
}

func NewRowValidationError(row int, err error, flds ...FieldError) error {
	return &ValidationError{Err: err, Fields: flds, Row: row}
}

func (err ValidationError) Error() string {
	var msg string
	if err.Err != nil {
		msg = err.Err.Error()
	}
	if err.Row > 0 {
		return fmt.Sprintf("row %d: %s", err.Row, msg)
	}
	return msg
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
