package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Stage-fatal errors. Row-level data quality issues are never represented
// here; the transformer drops and counts them locally.
var (
	// ErrSourceNotFound means the input file does not exist or is unreadable.
	ErrSourceNotFound = errors.New("source file not found")
	// ErrSourceFormat means the input file exists but cannot be parsed into
	// rows with the expected column headers.
	ErrSourceFormat = errors.New("source file format invalid")
	// ErrStoreWrite means the record store cannot be opened, created or
	// written. Already-committed inserts remain; there is no rollback.
	ErrStoreWrite = errors.New("record store write failed")
	// ErrQuery means the record store is missing or malformed at report time.
	ErrQuery = errors.New("record store query failed")
	// ErrInvalidConfig means the run configuration is incomplete or malformed.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
