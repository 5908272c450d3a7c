package http

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"cleancity/pkg/models"
)

func TestToAppErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid credentials", models.ErrInvalidCredentials, 401, models.ErrCodeUnauthorized},
		{"invalid token", models.ErrInvalidToken, 401, models.ErrCodeUnauthorized},
		{"unauthorized", models.ErrUnauthorized, 401, models.ErrCodeUnauthorized},
		{"forbidden", models.ErrForbidden, 403, models.ErrCodeForbidden},
		{"username exists", models.ErrUsernameExists, 409, models.ErrCodeConflict},
		{"storage conflict", models.ErrConflict, 409, models.ErrCodeConflict},
		{"bin not found", models.ErrBinNotFound, 404, models.ErrCodeNotFound},
		{"report not found", models.ErrReportNotFound, 404, models.ErrCodeNotFound},
		{"user not found", models.ErrUserNotFound, 404, models.ErrCodeNotFound},
		{"invalid input", models.ErrInvalidInput, 400, models.ErrCodeValidation},
		{"classifier down", models.ErrClassifierUnavailable, 503, models.ErrCodeServiceUnavailable},
		{"unknown error", errors.New("boom"), 500, models.ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := toAppError(tt.err)
			assert.Equal(t, tt.status, appErr.StatusCode)
			assert.Equal(t, tt.code, appErr.Code)
			assert.NotEmpty(t, appErr.Message)
		})
	}
}

func TestToAppErrorUnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("%w: capacity must be between 0 and 100", models.ErrInvalidInput)

	appErr := toAppError(wrapped)
	assert.Equal(t, 400, appErr.StatusCode)
	assert.Equal(t, models.ErrCodeValidation, appErr.Code)
	assert.Contains(t, appErr.Message, "capacity must be between 0 and 100")
	assert.Equal(t, wrapped.Error(), appErr.Details["original_error"])
}

func TestToAppErrorHidesInternalDetail(t *testing.T) {
	appErr := toAppError(fmt.Errorf("failed to list bins: %w", errors.New("connection refused")))
	assert.Equal(t, "internal server error", appErr.Message)
	assert.NotContains(t, appErr.Message, "connection refused")
}

func TestAppErrorEnvelopeShape(t *testing.T) {
	resp := toAppError(models.ErrBinNotFound).ToHTTPError()
	assert.False(t, resp.Success)
	assert.Equal(t, "bin not found", resp.Error)
	assert.False(t, resp.Timestamp.IsZero())
}
