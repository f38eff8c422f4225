package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents an Avrora error code.
type ErrorCode string

const (
	ErrInvalidRequest     ErrorCode = "INVALID_REQUEST"     // 400
	ErrNotFound           ErrorCode = "NOT_FOUND"           // 404
	ErrAlreadyRunning     ErrorCode = "ALREADY_RUNNING"     // 409
	ErrAggregationFailure ErrorCode = "AGGREGATION_FAILURE" // 422
	ErrInternal           ErrorCode = "INTERNAL"            // 500
	ErrPersistenceFailure ErrorCode = "PERSISTENCE_FAILURE" // 500
	ErrSamplerUnavailable ErrorCode = "SAMPLER_UNAVAILABLE" // 503
)

// AvroraError represents a structured error with code, status, and details.
type AvroraError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
	cause   error
}

// Error implements the error interface.
func (e *AvroraError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error, if any.
func (e *AvroraError) Unwrap() error {
	return e.cause
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *AvroraError {
	return &AvroraError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for a missing resource.
func NewNotFound(what, identifier string) *AvroraError {
	return &AvroraError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("%s not found: %s", what, identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewSamplerUnavailable creates a 503 error when the foreground-window probe
// fails or is not permitted by the OS.
func NewSamplerUnavailable(err error) *AvroraError {
	msg := "foreground window sampler unavailable"
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	return &AvroraError{
		Code:    ErrSamplerUnavailable,
		Status:  503,
		Message: msg,
		cause:   err,
	}
}

// NewPersistenceFailure creates a 500 error for a failed read or write against the store.
// op names the store operation (e.g. "record_session").
func NewPersistenceFailure(op string, err error) *AvroraError {
	msg := op + " failed"
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	return &AvroraError{
		Code:    ErrPersistenceFailure,
		Status:  500,
		Message: msg,
		Details: map[string]any{"op": op},
		cause:   err,
	}
}

// NewAggregationFailure creates a 422 error for persisted data with an unexpected shape.
func NewAggregationFailure(msg string, details map[string]any) *AvroraError {
	return &AvroraError{
		Code:    ErrAggregationFailure,
		Status:  422,
		Message: msg,
		Details: details,
	}
}

// NewAlreadyRunning creates a 409 error when a monitor is started twice.
func NewAlreadyRunning() *AvroraError {
	return &AvroraError{
		Code:    ErrAlreadyRunning,
		Status:  409,
		Message: "monitor is already running",
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *AvroraError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &AvroraError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
		cause:   err,
	}
}

// Is checks if an error is (or wraps) an AvroraError with the given code.
func Is(err error, code ErrorCode) bool {
	var aErr *AvroraError
	if stderrors.As(err, &aErr) {
		return aErr.Code == code
	}
	return false
}
