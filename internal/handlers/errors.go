package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/auradeploy/internal/apperrors"
	"github.com/SscSPs/auradeploy/internal/dto"
	"github.com/SscSPs/auradeploy/internal/middleware"
	"github.com/gin-gonic/gin"
)

const msgServerError = "Server error"

// sentinelMessages are the client-facing texts for bare sentinel errors.
var sentinelMessages = []struct {
	err     error
	message string
}{
	{apperrors.ErrInvalidCredentials, "Invalid credentials"},
	{apperrors.ErrTokenExpired, "Token has expired."},
	{apperrors.ErrTokenInvalid, "Token is not valid."},
	{apperrors.ErrNotFound, "Resource not found"},
	{apperrors.ErrUpstreamUnavailable, "Upstream service unavailable"},
}

func clientMessage(err error) string {
	for _, sm := range sentinelMessages {
		if errors.Is(err, sm.err) {
			return sm.message
		}
	}
	return err.Error()
}

// respondError translates service errors into the failure envelope.
// Anything that is not an AppError is logged and reported as a generic 500.
func respondError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Code >= http.StatusInternalServerError {
			logger.Error("Request failed", slog.Int("status", appErr.Code), slog.String("error", err.Error()))
		}
		c.AbortWithStatusJSON(appErr.Code, dto.ErrorResponse{
			Success: false,
			Message: appErr.Message,
			Errors:  appErr.Fields,
		})
		return
	}

	status := apperrors.StatusCode(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Unhandled error", slog.String("error", err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{Success: false, Message: msgServerError})
		return
	}
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Success: false, Message: clientMessage(err)})
}

// respondOK writes the success envelope.
func respondOK(c *gin.Context, status int, message string, data any) {
	c.JSON(status, dto.APIResponse{Success: true, Message: message, Data: data})
}

// recoveryHandler renders panics with the same envelope as other 500s.
func recoveryHandler(c *gin.Context, recovered any) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Error("Panic recovered", slog.Any("panic", recovered))
	c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{Success: false, Message: msgServerError})
}

func routeNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, dto.ErrorResponse{Success: false, Message: "Route not found"})
}
