package middleware

import (
	"context"

	"github.com/SscSPs/auradeploy/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// userIDKey and userKey store the authenticated caller in the request context.
const (
	userIDKey = contextKey("userID")
	userKey   = contextKey("user")
)

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, ok := c.Request.Context().Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

// GetUserFromContext returns the account loaded by AuthMiddleware.
func GetUserFromContext(c *gin.Context) (*domain.User, bool) {
	user, ok := c.Request.Context().Value(userKey).(*domain.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}

func withUser(ctx context.Context, user *domain.User) context.Context {
	ctx = context.WithValue(ctx, userIDKey, user.UserID)
	return context.WithValue(ctx, userKey, user)
}
