package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/attendly/attendance-api/internal/constants"
	apierrors "github.com/attendly/attendance-api/internal/errors"
	"github.com/attendly/attendance-api/internal/models"
	"github.com/attendly/attendance-api/internal/services"
)

// RequireAuth verifies the bearer token and resolves the authenticated user.
// A token for a deleted or deactivated account is rejected even when its
// signature is still valid.
func RequireAuth(authService *services.AuthService, tokens *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			apierrors.Unauthenticated(c, "missing token")
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		userID, err := tokens.Parse(tokenString)
		if err != nil {
			if errors.Is(err, services.ErrTokenExpired) {
				apierrors.Unauthenticated(c, "token expired")
				return
			}
			apierrors.Unauthenticated(c, "invalid token")
			return
		}

		user, err := authService.GetUser(userID)
		if err != nil || !user.IsActive {
			apierrors.Unauthenticated(c, "account unknown or inactive")
			return
		}

		c.Set(constants.ContextKeyUser, *user)
		c.Set(constants.ContextKeyUserID, user.ID)
		c.Next()
	}
}

// RequireRole rejects authenticated users whose role is not in the set.
// Must run after RequireAuth.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, exists := GetUser(c)
		if !exists {
			apierrors.Unauthenticated(c, "")
			return
		}

		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}

		apierrors.Forbidden(c, "insufficient role")
	}
}

// GetUser retrieves the authenticated user from context
func GetUser(c *gin.Context) (models.User, bool) {
	value, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return models.User{}, false
	}
	user, ok := value.(models.User)
	return user, ok
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	value, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := value.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
