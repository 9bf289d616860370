package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tripplanner-backend/internal/core"
)

// respondWithError maps errors from the core services to HTTP status codes.
// Unexpected errors are logged and answered with fallback so no internal
// detail leaks to the client.
func respondWithError(c *gin.Context, logger *zap.Logger, err error, fallback string) {
	var statusCode int
	var errResponse ErrorResponse

	switch {
	case errors.Is(err, core.ErrValidation):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: "Validation failed", Details: err.Error()}
	case errors.Is(err, core.ErrUserNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: "User profile not found"}
	case errors.Is(err, core.ErrTripNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: "Trip not found"}
	case errors.Is(err, core.ErrForbiddenAccess):
		statusCode = http.StatusForbidden
		errResponse = ErrorResponse{Error: core.ErrForbiddenAccess.Error()}
	default:
		logger.Error("Internal Server Error",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		statusCode = http.StatusInternalServerError
		errResponse = ErrorResponse{Error: fallback}
	}
	c.JSON(statusCode, errResponse)
}
