package middleware

import (
	"context"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tripplanner-backend/internal/models"
)

const sessionKey = "session"

// ErrorResponse mirrors api.ErrorResponse; api imports middleware, not the reverse.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// TokenVerifier verifies Firebase ID tokens. *auth.Client satisfies it.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// Session is the authenticated caller of the current request.
type Session struct {
	models.Identity
}

// SessionFrom returns the session stored by VerifyToken. ok is false on routes
// that are not behind the auth middleware.
func SessionFrom(c *gin.Context) (Session, bool) {
	v, exists := c.Get(sessionKey)
	if !exists {
		return Session{}, false
	}
	s, ok := v.(Session)
	return s, ok && s.UID != ""
}

// AuthMiddleware provides Gin middleware for Firebase token authentication.
type AuthMiddleware struct {
	verifier TokenVerifier
	logger   *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware instance. It panics on a nil
// verifier since no authenticated route can work without one.
func NewAuthMiddleware(verifier TokenVerifier, logger *zap.Logger) *AuthMiddleware {
	if verifier == nil {
		panic("Firebase Auth client is not initialized for AuthMiddleware")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthMiddleware{verifier: verifier, logger: logger}
}

// VerifyToken verifies the bearer token and stores the caller's Session in the
// Gin context.
func (m *AuthMiddleware) VerifyToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Expect "Authorization: Bearer <Firebase ID token>".
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authorization header is required"})
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authorization header format must be 'Bearer {token}'"})
			return
		}

		// Verification uses the request context so a cancelled client stops it.
		// Details are logged server-side; the client only sees a generic message.
		token, err := m.verifier.VerifyIDToken(c.Request.Context(), parts[1])
		if err != nil || token == nil || token.UID == "" {
			m.logger.Warn("Error verifying Firebase ID token", zap.Error(err), zap.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid or expired authentication token"})
			return
		}

		// Token is valid. Handlers read the caller through SessionFrom.
		c.Set(sessionKey, Session{Identity: identityFromToken(token)})
		c.Next()
	}
}

// identityFromToken maps the standard Firebase claims onto an Identity. Missing
// claims are left empty.
func identityFromToken(token *auth.Token) models.Identity {
	claim := func(name string) string {
		s, _ := token.Claims[name].(string)
		return s
	}
	return models.Identity{
		UID:         token.UID,
		DisplayName: claim("name"),
		Email:       claim("email"),
		PhoneNumber: claim("phone_number"),
		PhotoURL:    claim("picture"),
	}
}
