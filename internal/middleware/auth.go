package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/auradeploy/internal/apperrors"
	portssvc "github.com/SscSPs/auradeploy/internal/core/ports/services"
	"github.com/SscSPs/auradeploy/internal/dto"
	"github.com/gin-gonic/gin"
)

const (
	msgNoToken       = "Access denied. No token provided."
	msgTokenInvalid  = "Token is not valid."
	msgTokenExpired  = "Token has expired."
	msgUserNotFound  = "Token is not valid. User not found."
	msgUserInactive  = "Account is deactivated."
	msgAdminRequired = "Access denied. Admin privileges required."
)

func abortWith(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Success: false, Message: message})
}

// AuthMiddleware creates a Gin middleware handler that validates bearer
// tokens and loads the account they belong to.
func AuthMiddleware(tokens portssvc.TokenSvcFacade, users portssvc.UserReaderSvc) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		scheme, tokenString, found := strings.Cut(authHeader, " ")
		if authHeader == "" || !found || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(tokenString) == "" {
			abortWith(c, http.StatusUnauthorized, msgNoToken)
			return
		}

		userID, err := tokens.ParseAccessToken(c.Request.Context(), strings.TrimSpace(tokenString))
		if err != nil {
			logger.Warn("Invalid token", slog.String("error", err.Error()))
			if errors.Is(err, apperrors.ErrTokenExpired) {
				abortWith(c, http.StatusUnauthorized, msgTokenExpired)
				return
			}
			abortWith(c, http.StatusUnauthorized, msgTokenInvalid)
			return
		}

		user, err := users.GetUserByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				abortWith(c, http.StatusUnauthorized, msgUserNotFound)
				return
			}
			logger.Error("Failed to load user for token", slog.String("user_id", userID), slog.String("error", err.Error()))
			abortWith(c, http.StatusInternalServerError, "Server error")
			return
		}
		if !user.IsActive {
			abortWith(c, http.StatusUnauthorized, msgUserInactive)
			return
		}

		enrichedLogger := logger.With(slog.String("user_id", userID))
		ctx := withUser(c.Request.Context(), user)
		c.Request = c.Request.WithContext(WithLogger(ctx, enrichedLogger))

		c.Next()
	}
}

// AdminOnly must run after AuthMiddleware.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetUserFromContext(c)
		if !ok || !user.IsAdmin() {
			abortWith(c, http.StatusForbidden, msgAdminRequired)
			return
		}
		c.Next()
	}
}
