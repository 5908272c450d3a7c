package models

import (
	"errors"
	"fmt"
	"time"
)

// Error codes returned in JSON responses.
const (
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeInternal           = "INTERNAL_ERROR"
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// Common errors.
var (
	ErrNotFound       = errors.New("resource not found")
	ErrUserNotFound   = errors.New("user not found")
	ErrBinNotFound    = errors.New("bin not found")
	ErrReportNotFound = errors.New("report not found")

	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameExists     = errors.New("username already exists")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUnauthorized       = errors.New("unauthorized access")
	ErrForbidden          = errors.New("forbidden access")
	ErrInvalidInput       = errors.New("invalid input")

	// ErrClassifierUnavailable means the upstream classifier collaborator
	// failed; no event is recorded and stats stay untouched.
	ErrClassifierUnavailable = errors.New("classification service unavailable")

	// ErrConflict means a concurrent-update race was detected. The
	// aggregator retries internally before surfacing it.
	ErrConflict = errors.New("concurrent update conflict")

	// ErrInvalidRule marks a malformed badge rule or taxonomy entry. It is
	// logged and the offending rule skipped, never surfaced to callers.
	ErrInvalidRule = errors.New("invalid rule configuration")
)

// AppError is the HTTP-facing error envelope.
type AppError struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	StatusCode int                    `json:"status_code,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ToHTTPError converts to the generic API response shape.
func (e *AppError) ToHTTPError() *APIResponse {
	return &APIResponse{
		Success:   false,
		Error:     e.Message,
		Message:   e.Message,
		Timestamp: time.Now(),
	}
}

// NewHTTPError wraps an underlying error with a response code and status.
func NewHTTPError(code, message string, statusCode int, err error) *AppError {
	details := map[string]interface{}{}
	if err != nil {
		details["original_error"] = err.Error()
	}
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Details:    details,
	}
}
