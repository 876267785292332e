package models

import (
	"errors"
	"fmt"
)

// Error codes carried by AppError. The HTTP layer maps them to status codes.
const (
	CodeValidation     = "VALIDATION_ERROR"
	CodeNotFound       = "NOT_FOUND"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeForbidden      = "FORBIDDEN"
	CodeMethodNotFound = "METHOD_NOT_ALLOWED"
	CodeInternal       = "INTERNAL_ERROR"
)

// Storage-level sentinels. Repositories wrap these; services translate them
// into AppErrors with an operation prefix.
var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicate      = errors.New("duplicate record")
)

// ErrorResponse is the wire shape of every error reply.
type ErrorResponse struct {
	Name    string         `json:"name"`
	Message string         `json:"message"`
	Payload map[string]any `json:"payload"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Kind returns the error name reported to clients.
func (e *AppError) Kind() string {
	switch e.Code {
	case CodeValidation:
		return "ValidationError"
	case CodeNotFound:
		return "NotFoundError"
	case CodeUnauthorized, CodeForbidden:
		return "AuthenticationError"
	case CodeMethodNotFound:
		return "HttpError"
	default:
		return "InternalError"
	}
}

// Predefined error constructors
func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: message,
	}
}

func NewAuthenticationError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

// NewForbiddenError is an authentication failure caused by an ownership
// mismatch rather than a missing identity.
func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    CodeForbidden,
		Message: message,
	}
}

func NewHTTPError(message string) *AppError {
	return &AppError{
		Code:    CodeMethodNotFound,
		Message: message,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}
