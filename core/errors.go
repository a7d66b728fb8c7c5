package core

import "github.com/pkg/errors"

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError is returned when input is rejected locally, before any remote call.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		if len(err.Fields) > 0 {
			return err.Fields[0].Error
		}
		return ""
	}
	return err.Err.Error()
}

// OperationError is returned when a call to an external collaborator (the
// identity provider or the table store) fails. Op describes what was being
// attempted; the whole message is meant to be shown to the user as is.
type OperationError struct {
	Op  string
	Err error
}

func NewOperationError(op string, err error) error {
	return &OperationError{Op: op, Err: err}
}

func (err OperationError) Error() string {
	if err.Err == nil {
		return "operation failed: " + err.Op
	}
	return "operation failed: " + err.Op + ": " + err.Err.Error()
}

// Unwrap exposes the collaborator error to errors.Is / errors.As.
// errors.Cause stops here.
func (err OperationError) Unwrap() error { return err.Err }

func IsOperationError(err error) bool {
	_, ok := errors.Cause(err).(*OperationError)
	return ok
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
