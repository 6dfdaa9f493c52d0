package model

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases.
// Use errors.Is() to check against these.
var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidRequest = errors.New("invalid request")
	ErrAuthRejected   = errors.New("auth rejected")
	ErrUpstreamError  = errors.New("upstream error")
	ErrParseFailure   = errors.New("parse failure")
)

// APIError represents a structured error for API responses.
// Implements error interface and supports unwrapping.
type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"` // HTTP status, not serialized
	Err        error  `json:"-"` // Wrapped error, not serialized
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a 404 error for missing resources.
func NewNotFoundError(resource string) *APIError {
	return &APIError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		StatusCode: 404,
		Err:        ErrNotFound,
	}
}

// NewValidationError creates a 400 error for invalid input.
// Covers required-field failures such as a missing size selection.
func NewValidationError(field, reason string) *APIError {
	return &APIError{
		Code:       "VALIDATION_ERROR",
		Message:    fmt.Sprintf("invalid %s: %s", field, reason),
		StatusCode: 400,
		Err:        ErrInvalidRequest,
	}
}

// NewAuthError creates a 401 error for rejected credentials or a role
// mismatch (e.g. a shopper account used on the admin login).
func NewAuthError(reason string) *APIError {
	return &APIError{
		Code:       "AUTH_REJECTED",
		Message:    reason,
		StatusCode: 401,
		Err:        ErrAuthRejected,
	}
}

// NewUpstreamError creates a 502 error for backend service failures.
func NewUpstreamError(service string, err error) *APIError {
	return &APIError{
		Code:       "UPSTREAM_ERROR",
		Message:    fmt.Sprintf("%s request failed", service),
		StatusCode: 502,
		Err:        fmt.Errorf("%w: %v", ErrUpstreamError, err),
	}
}

// NewParseError creates a 422 error for malformed payloads, either from a
// backend response or from locally persisted state. Callers restoring local
// state treat this as "absent", never as fatal.
func NewParseError(what string, err error) *APIError {
	return &APIError{
		Code:       "PARSE_ERROR",
		Message:    fmt.Sprintf("malformed %s", what),
		StatusCode: 422,
		Err:        fmt.Errorf("%w: %v", ErrParseFailure, err),
	}
}

// NewInternalError creates a 500 error for unexpected failures.
func NewInternalError(err error) *APIError {
	return &APIError{
		Code:       "INTERNAL_ERROR",
		Message:    "an internal error occurred",
		StatusCode: 500,
		Err:        err,
	}
}

// NewVersionError creates a 400 error for an unsupported requested
// API version.
func NewVersionError(requested, supported string) *APIError {
	return &APIError{
		Code:       "VERSION_UNSUPPORTED",
		Message:    fmt.Sprintf("requested API version %s is newer than supported %s", requested, supported),
		StatusCode: 400,
		Err:        ErrInvalidRequest,
	}
}
