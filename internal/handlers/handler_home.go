package handlers

import (
	"net/http"
	"time"

	"github.com/SscSPs/auradeploy/internal/platform/config"
	"github.com/gin-gonic/gin"
)

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status      string    `json:"status"`
	Message     string    `json:"message"`
	Timestamp   time.Time `json:"timestamp"`
	Uptime      float64   `json:"uptime"`
	Environment string    `json:"environment"`
}

// healthHandler godoc
// @Summary Show the status of server.
// @Description Reports uptime and the running environment.
// @Tags root
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func healthHandler(cfg *config.Config, startedAt time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		c.JSON(http.StatusOK, HealthResponse{
			Status:      "OK",
			Message:     "AuraDeploy API is running",
			Timestamp:   now.UTC(),
			Uptime:      now.Sub(startedAt).Seconds(),
			Environment: cfg.Environment(),
		})
	}
}

// registerHomeRoutes adds the health check and the root redirect to it.
func registerHomeRoutes(r *gin.Engine, api *gin.RouterGroup, cfg *config.Config) {
	api.GET("/health", healthHandler(cfg, time.Now()))
	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/api/health")
	})
}
