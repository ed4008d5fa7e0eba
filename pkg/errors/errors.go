package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation    ErrorType = "validation"
	ErrorTypeNotFound      ErrorType = "not_found"
	ErrorTypeExtraction    ErrorType = "extraction"
	ErrorTypePersistence   ErrorType = "persistence"
	ErrorTypeConfiguration ErrorType = "configuration"
)

// Wire codes surfaced in the response envelope. Only validation and
// extraction failures carry a code; other errors are message-only.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeExtraction = "EXTRACTION_ERROR"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Code       string    `json:"code,omitempty"`
	StatusCode int       `json:"-"`
	Cause      error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		Code:       CodeValidation,
		StatusCode: http.StatusBadRequest,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

// NewExtractionError creates a new extraction error
func NewExtractionError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeExtraction,
		Message:    message,
		Code:       CodeExtraction,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// NewPersistenceError creates a new persistence error
func NewPersistenceError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypePersistence,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// NewConfigurationError creates a new configuration error
func NewConfigurationError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeConfiguration,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
	}
}

// IsType checks if the error is of a specific type
func IsType(err error, errorType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errorType
	}
	return false
}

// GetStatusCode returns the HTTP status code for an error
func GetStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// GetCode returns the wire code for an error, empty when none applies.
func GetCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
