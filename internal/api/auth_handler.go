package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tripplanner-backend/internal/core"
	"tripplanner-backend/internal/middleware"
)

// AuthHandler handles authentication related API endpoints.
type AuthHandler struct {
	userService core.UserService
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(us core.UserService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{userService: us, logger: logger}
}

// SyncUserProfile handles POST /api/v1/users/sync. The client calls it after
// every sign-in; the profile is created from the token's identity on first
// call and returned unchanged afterwards.
func (h *AuthHandler) SyncUserProfile(c *gin.Context) {
	session, ok := middleware.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication error: User ID not found in context"})
		return
	}

	user, created, err := h.userService.SyncUser(c.Request.Context(), session.Identity)
	if err != nil {
		respondWithError(c, h.logger, err, "Failed to sync user profile")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, user)
}
