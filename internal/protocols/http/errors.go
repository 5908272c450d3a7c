package http

import (
	"errors"

	"github.com/gin-gonic/gin"

	"cleancity/pkg/models"
)

// toAppError maps a service error onto the HTTP error envelope. All
// handlers route failures through here so status codes and response
// codes stay consistent across endpoints.
func toAppError(err error) *models.AppError {
	switch {
	case errors.Is(err, models.ErrInvalidCredentials):
		return models.NewHTTPError(models.ErrCodeUnauthorized, "invalid credentials", 401, err)
	case errors.Is(err, models.ErrInvalidToken), errors.Is(err, models.ErrUnauthorized):
		return models.NewHTTPError(models.ErrCodeUnauthorized, "unauthorized", 401, err)
	case errors.Is(err, models.ErrForbidden):
		return models.NewHTTPError(models.ErrCodeForbidden, "forbidden: admin access required", 403, err)
	case errors.Is(err, models.ErrUsernameExists):
		return models.NewHTTPError(models.ErrCodeConflict, "username already exists", 409, err)
	case errors.Is(err, models.ErrConflict):
		return models.NewHTTPError(models.ErrCodeConflict, "concurrent update, please retry", 409, err)
	case errors.Is(err, models.ErrBinNotFound):
		return models.NewHTTPError(models.ErrCodeNotFound, "bin not found", 404, err)
	case errors.Is(err, models.ErrReportNotFound):
		return models.NewHTTPError(models.ErrCodeNotFound, "report not found", 404, err)
	case errors.Is(err, models.ErrUserNotFound), errors.Is(err, models.ErrNotFound):
		return models.NewHTTPError(models.ErrCodeNotFound, err.Error(), 404, err)
	case errors.Is(err, models.ErrInvalidInput):
		return models.NewHTTPError(models.ErrCodeValidation, err.Error(), 400, err)
	case errors.Is(err, models.ErrClassifierUnavailable):
		return models.NewHTTPError(models.ErrCodeServiceUnavailable, "classification service unavailable", 503, err)
	default:
		return models.NewHTTPError(models.ErrCodeInternal, "internal server error", 500, err)
	}
}

// respondError writes the error envelope for a service failure and
// aborts the request.
func respondError(c *gin.Context, err error) {
	respondAppError(c, toAppError(err))
}

// respondBadRequest rejects malformed request input.
func respondBadRequest(c *gin.Context, msg string) {
	respondAppError(c, models.NewHTTPError(models.ErrCodeBadRequest, msg, 400, nil))
}

func respondAppError(c *gin.Context, appErr *models.AppError) {
	c.AbortWithStatusJSON(appErr.StatusCode, appErr.ToHTTPError())
}
