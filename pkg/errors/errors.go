package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for common cases.
var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrInvalidInput  = errors.New("invalid input")
	ErrConflict      = errors.New("conflict")
	ErrIO            = errors.New("i/o failure")
	ErrConfig        = errors.New("invalid configuration")
	ErrInternal      = errors.New("internal error")
)

// Process exit codes, following the BSD sysexits convention.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitDataErr = 65
	ExitIOErr   = 74
	ExitConfig  = 78
)

// AppError represents a structured application error.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound creates an error for a reference that resolves to nothing.
func NotFound(resource, field, value string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with %s %q not found", resource, field, value),
		Err:     ErrNotFound,
	}
}

// AlreadyExists creates an error for a duplicated unique value.
func AlreadyExists(resource, field, value string) *AppError {
	return &AppError{
		Code:    "ALREADY_EXISTS",
		Message: fmt.Sprintf("%s with %s %q already exists", resource, field, value),
		Err:     ErrAlreadyExists,
	}
}

// InvalidInput creates an error for malformed input data.
func InvalidInput(message string) *AppError {
	return &AppError{
		Code:    "INVALID_INPUT",
		Message: message,
		Err:     ErrInvalidInput,
	}
}

// Conflict creates an error for two inputs that cannot coexist.
func Conflict(message string) *AppError {
	return &AppError{
		Code:    "CONFLICT",
		Message: message,
		Err:     ErrConflict,
	}
}

// IO creates an error for a failed read or write of an artifact.
func IO(message string, err error) *AppError {
	return &AppError{
		Code:    "IO_ERROR",
		Message: message,
		Err:     fmt.Errorf("%w: %w", ErrIO, err),
	}
}

// Config creates an error for an invalid configuration value.
func Config(message string) *AppError {
	return &AppError{
		Code:    "CONFIG_ERROR",
		Message: message,
		Err:     ErrConfig,
	}
}

// Internal creates an error for unexpected failures.
func Internal(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
		Err:     err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// ExitCode returns the process exit code for the given error.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrAlreadyExists),
		errors.Is(err, ErrConflict),
		errors.Is(err, ErrInvalidInput):
		return ExitDataErr
	case errors.Is(err, ErrIO):
		return ExitIOErr
	case errors.Is(err, ErrConfig):
		return ExitConfig
	default:
		return ExitFailure
	}
}
