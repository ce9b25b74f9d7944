package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/prmhq/prm-backend/internal/common"
	"github.com/prmhq/prm-backend/pkg/logger"
)

const userIDKey = "userID"

// Authenticator resolves a session key to a user id
type Authenticator interface {
	Authenticate(ctx context.Context, key string) (uint64, error)
}

// TokenAuth session token authentication middleware.
// Accepts "Authorization: Bearer <key>" and "Authorization: Token <key>".
func TokenAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Extract Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			authFailures.WithLabelValues("missing").Inc()
			common.ErrorResponse(c, http.StatusUnauthorized, "Authentication credentials were not provided", nil)
			c.Abort()
			return
		}

		// 2. Parse scheme and key
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || (!strings.EqualFold(parts[0], "Bearer") && !strings.EqualFold(parts[0], "Token")) {
			authFailures.WithLabelValues("malformed").Inc()
			common.ErrorResponse(c, http.StatusUnauthorized, "Invalid authorization header format", nil)
			c.Abort()
			return
		}

		// 3. Resolve the session
		userID, err := auth.Authenticate(c.Request.Context(), parts[1])
		if err != nil {
			if errors.Is(err, common.ErrUnauthorized) {
				authFailures.WithLabelValues("invalid").Inc()
				common.ErrorResponse(c, http.StatusUnauthorized, "Invalid token", nil)
			} else {
				authFailures.WithLabelValues("unavailable").Inc()
				logger.Ctx(c.Request.Context()).Error().Err(err).Msg("session lookup failed")
				common.ErrorResponse(c, http.StatusServiceUnavailable, "Authentication is temporarily unavailable", nil)
			}
			c.Abort()
			return
		}

		// 4. Store user info in context
		c.Set(userIDKey, userID)
		logger.AddUserID(c.Request.Context(), userID)
		c.Next()
	}
}

// GetUserID extracts the authenticated user ID from context; 0 when anonymous
func GetUserID(c *gin.Context) uint64 {
	userID, exists := c.Get(userIDKey)
	if !exists {
		return 0
	}
	if id, ok := userID.(uint64); ok {
		return id
	}
	return 0
}

// SetUserID stores the authenticated user ID, used by tests that bypass TokenAuth
func SetUserID(c *gin.Context, userID uint64) {
	c.Set(userIDKey, userID)
}
