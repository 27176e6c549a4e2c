package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tracklane/task-tracker-api/internal/auth"
	"github.com/tracklane/task-tracker-api/internal/constants"
	apierrors "github.com/tracklane/task-tracker-api/internal/errors"
	"github.com/tracklane/task-tracker-api/internal/metrics"
	"github.com/tracklane/task-tracker-api/internal/models"
	"github.com/tracklane/task-tracker-api/internal/repository"
)

// RequireAuth resolves the acting user from a bearer token (Authorization
// header, falling back to the auth cookie for browser clients) and stores it
// in the request context. It fails closed: no valid credential, no identity.
func RequireAuth(secret []byte, users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			apierrors.Unauthorized(c, "Authentication token is required")
			c.Abort()
			return
		}

		userID, err := auth.VerifyToken(token, secret, time.Now())
		if err != nil {
			metrics.IncrementAuthFailure()
			apierrors.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		user, err := users.FindByID(userID)
		if err != nil || !user.IsActive {
			metrics.IncrementAuthFailure()
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyActor, user)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}

	cookie, err := c.Cookie(constants.AuthCookieName)
	if err != nil {
		return ""
	}
	return cookie
}

// GetActor retrieves the resolved acting user from context.
func GetActor(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(constants.ContextKeyActor)
	if !exists {
		return nil, false
	}

	actor, ok := value.(*models.User)
	if !ok {
		return nil, false
	}
	return actor, true
}

// GetUserID retrieves the current user ID from context.
func GetUserID(c *gin.Context) (uint64, bool) {
	value, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	userID, ok := value.(uint64)
	if !ok {
		return 0, false
	}
	return userID, true
}
