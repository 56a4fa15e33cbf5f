package model

import (
	"errors"
	"fmt"
)

// Domain errors. All are recoverable at the call site; none crash the
// process. Admission errors surface synchronously to the caller of Admit and
// never leave partial state behind.
var (
	ErrUnknownResource       = errors.New("unknown resource")
	ErrInvalidDuration       = errors.New("estimated duration must be positive")
	ErrUnknownTask           = errors.New("unknown task")
	ErrNoWorkerAvailable     = errors.New("no worker available")
	ErrConfigurationConflict = errors.New("configuration conflict")
)

// ErrorCode represents a structured API error code.
type ErrorCode string

const (
	ErrValidation ErrorCode = "VALIDATION_ERROR"
	ErrNotFound   ErrorCode = "NOT_FOUND"
	ErrConflict   ErrorCode = "CONFLICT"
	ErrInternal   ErrorCode = "INTERNAL_ERROR"
)

// APIError is a structured error returned by the servq API.
type APIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewValidationError creates a VALIDATION_ERROR APIError.
func NewValidationError(msg string) *APIError {
	return &APIError{Code: ErrValidation, Message: msg}
}

// NewNotFoundError creates a NOT_FOUND APIError.
func NewNotFoundError(resource, id string) *APIError {
	return &APIError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s '%s' not found", resource, id),
	}
}

// NewInternalError creates an INTERNAL_ERROR APIError.
func NewInternalError(msg string) *APIError {
	return &APIError{Code: ErrInternal, Message: msg}
}

// APIErrorFor maps a domain error to the API error and HTTP-ish category the
// handlers use. Unknown errors map to INTERNAL_ERROR.
func APIErrorFor(err error) *APIError {
	switch {
	case errors.Is(err, ErrUnknownResource), errors.Is(err, ErrUnknownTask):
		return &APIError{Code: ErrNotFound, Message: err.Error()}
	case errors.Is(err, ErrInvalidDuration):
		return &APIError{Code: ErrValidation, Message: err.Error()}
	case errors.Is(err, ErrConfigurationConflict):
		return &APIError{Code: ErrConflict, Message: err.Error()}
	}
	return NewInternalError(err.Error())
}
