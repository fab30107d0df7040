package middleware

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/SscSPs/auradeploy/internal/dto"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	limitergin "github.com/ulule/limiter/v3/drivers/middleware/gin"
)

const msgTooManyRequests = "Too many requests from this IP, please try again later."

// RateLimitExceededResponse is returned once a client exhausts the global window.
type RateLimitExceededResponse struct {
	Error      string `json:"error"`
	RetryAfter int64  `json:"retryAfter"`
}

// RateLimit creates a Gin middleware for rate limiting requests.
// It uses the provided limiter instance and answers with the standard
// failure envelope, so it suits routes such as login.
func RateLimit(limiterInstance *limiter.Limiter, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get the IP address for rate limiting
		ip := c.ClientIP()

		context, err := limiterInstance.Get(c.Request.Context(), ip)
		if err != nil {
			GetLoggerFromCtx(c.Request.Context()).Error("Failed to get rate limit context", slog.String("ip", ip), slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{Success: false, Message: "Server error"})
			return
		}

		setRateLimitHeaders(c, context)
		if context.Reached {
			GetLoggerFromCtx(c.Request.Context()).Warn("Rate limit exceeded", slog.String("ip", ip), slog.Int64("limit", context.Limit))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.ErrorResponse{Success: false, Message: message})
			return
		}

		c.Next()
	}
}

// GinMiddlewarize wraps limitergin.NewMiddleware for the global per-IP window.
func GinMiddlewarize(limiterInstance *limiter.Limiter) gin.HandlerFunc {
	return limitergin.NewMiddleware(limiterInstance,
		limitergin.WithLimitReachedHandler(func(c *gin.Context) {
			GetLoggerFromCtx(c.Request.Context()).Warn("Global rate limit exceeded", slog.String("ip", c.ClientIP()))
			c.JSON(http.StatusTooManyRequests, RateLimitExceededResponse{
				Error:      msgTooManyRequests,
				RetryAfter: int64(math.Ceil(limiterInstance.Rate.Period.Seconds())),
			})
		}),
		limitergin.WithErrorHandler(func(c *gin.Context, err error) {
			GetLoggerFromCtx(c.Request.Context()).Error("Rate limiter store failed", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Success: false, Message: "Server error"})
		}),
	)
}

func setRateLimitHeaders(c *gin.Context, lc limiter.Context) {
	c.Header("RateLimit-Limit", strconv.FormatInt(lc.Limit, 10))
	c.Header("RateLimit-Remaining", strconv.FormatInt(lc.Remaining, 10))
	reset := time.Until(time.Unix(lc.Reset, 0))
	if reset < 0 {
		reset = 0
	}
	c.Header("RateLimit-Reset", strconv.FormatInt(int64(math.Ceil(reset.Seconds())), 10))
}
