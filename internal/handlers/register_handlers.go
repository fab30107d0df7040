package handlers

import (
	"log/slog"

	"github.com/SscSPs/auradeploy/cmd/docs"
	portssvc "github.com/SscSPs/auradeploy/internal/core/ports/services"
	"github.com/SscSPs/auradeploy/internal/middleware"
	"github.com/SscSPs/auradeploy/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

const msgTooManyLogins = "Too many login attempts, please try again later."

// RateLimiters carries the limiter instances shared by the router. A nil
// limiter disables that limit.
type RateLimiters struct {
	Global *limiter.Limiter
	Login  *limiter.Limiter
}

// NewRouter builds the engine with global middleware and every route.
func NewRouter(logger *slog.Logger, cfg *config.Config, services *portssvc.ServiceContainer, limiters RateLimiters) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		gin.CustomRecovery(recoveryHandler),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.FrontendBaseURL),
	)
	if limiters.Global != nil {
		r.Use(middleware.GinMiddlewarize(limiters.Global))
	}

	RegisterRoutes(r, cfg, services, limiters)
	return r
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	limiters RateLimiters,
) {
	registerValidators()

	api := r.Group("/api")
	auth := middleware.AuthMiddleware(services.TokenService, services.User)

	loginLimit := func(c *gin.Context) { c.Next() }
	if limiters.Login != nil {
		loginLimit = middleware.RateLimit(limiters.Login, msgTooManyLogins)
	}

	registerHomeRoutes(r, api, cfg)
	registerAuthRoutes(api, cfg, services, loginLimit, auth)
	registerProfileRoutes(api, services.User, auth)
	registerServerRoutes(api, services.Server, auth)
	registerPlanRoutes(api, services.Plan)
	registerProxyRoutes(api, services.Upstream)

	r.NoRoute(routeNotFound)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
