package handlers

import (
	"fmt"
	"net/http"

	"github.com/SscSPs/auradeploy/internal/core/domain"
	portssvc "github.com/SscSPs/auradeploy/internal/core/ports/services"
	"github.com/SscSPs/auradeploy/internal/dto"
	"github.com/SscSPs/auradeploy/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ServerHandler serves the owner-scoped mock fleet.
type ServerHandler struct {
	serverService portssvc.ServerSvcFacade
}

// NewServerHandler creates a new ServerHandler.
func NewServerHandler(ss portssvc.ServerSvcFacade) *ServerHandler {
	return &ServerHandler{serverService: ss}
}

// registerServerRoutes registers every /servers route behind auth.
func registerServerRoutes(rg *gin.RouterGroup, serverService portssvc.ServerSvcFacade, auth gin.HandlerFunc) {
	h := NewServerHandler(serverService)

	servers := rg.Group("/servers", auth)
	{
		servers.GET("", h.ListServers)
		servers.POST("", h.CreateServer)
		servers.GET("/:serverID", h.GetServer)
		servers.PUT("/:serverID", h.UpdateServer)
		servers.PUT("/:serverID/toggle", h.ToggleServer)
		servers.DELETE("/:serverID", h.DeleteServer)
	}
}

func ownerID(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Success: false, Message: "Access denied. No token provided."})
	}
	return userID, ok
}

// ListServers godoc
// @Summary List servers
// @Description Lists the caller's servers, newest first.
// @Tags servers
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size, at most 100" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.ServerListResponse}
// @Failure 401 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /servers [get]
func (h *ServerHandler) ListServers(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	var params dto.ListServersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		// Unparseable paging falls back to the defaults.
		params = dto.ListServersParams{}
	}
	params.Normalize()

	servers, total, err := h.serverService.ListServers(c.Request.Context(), owner, params)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", dto.ToServerListResponse(servers, params, total))
}

// GetServer godoc
// @Summary Get server
// @Tags servers
// @Produce json
// @Param serverID path string true "Server ID"
// @Success 200 {object} dto.APIResponse{data=dto.ServerEnvelope}
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /servers/{serverID} [get]
func (h *ServerHandler) GetServer(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	server, err := h.serverService.GetServer(c.Request.Context(), owner, c.Param("serverID"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", dto.ServerEnvelope{Server: dto.ToServerResponse(server)})
}

// CreateServer godoc
// @Summary Create server
// @Description Creates a stopped mock server. Each user may own at most 5.
// @Tags servers
// @Accept json
// @Produce json
// @Param server body dto.CreateServerRequest true "Server"
// @Success 201 {object} dto.APIResponse{data=dto.ServerEnvelope}
// @Failure 400 {object} dto.ErrorResponse "Validation failed or server limit reached"
// @Security BearerAuth
// @Router /servers [post]
func (h *ServerHandler) CreateServer(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	var req dto.CreateServerRequest
	if !bindJSON(c, &req) {
		return
	}

	server, err := h.serverService.CreateServer(c.Request.Context(), owner, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, "Server created successfully", dto.ServerEnvelope{Server: dto.ToServerResponse(server)})
}

// UpdateServer godoc
// @Summary Update server
// @Description Changes name, description or player cap.
// @Tags servers
// @Accept json
// @Produce json
// @Param serverID path string true "Server ID"
// @Param server body dto.UpdateServerRequest true "Changes"
// @Success 200 {object} dto.APIResponse{data=dto.ServerEnvelope}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /servers/{serverID} [put]
func (h *ServerHandler) UpdateServer(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	var req dto.UpdateServerRequest
	if !bindJSON(c, &req) {
		return
	}

	server, err := h.serverService.UpdateServer(c.Request.Context(), owner, c.Param("serverID"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Server updated successfully", dto.ServerEnvelope{Server: dto.ToServerResponse(server)})
}

// ToggleServer godoc
// @Summary Start or stop server
// @Description A stopped server starts, a running one stops. The change completes after a short delay.
// @Tags servers
// @Produce json
// @Param serverID path string true "Server ID"
// @Success 200 {object} dto.APIResponse{data=dto.ServerEnvelope}
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Server is currently transitioning"
// @Security BearerAuth
// @Router /servers/{serverID}/toggle [put]
func (h *ServerHandler) ToggleServer(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	server, err := h.serverService.ToggleServer(c.Request.Context(), owner, c.Param("serverID"))
	if err != nil {
		respondError(c, err)
		return
	}

	verb := "stopping"
	if server.Status == domain.StatusStarting {
		verb = "starting"
	}
	respondOK(c, http.StatusOK, fmt.Sprintf("Server %s", verb), dto.ServerEnvelope{Server: dto.ToServerResponse(server)})
}

// DeleteServer godoc
// @Summary Delete server
// @Description Running servers must be stopped first.
// @Tags servers
// @Produce json
// @Param serverID path string true "Server ID"
// @Success 200 {object} dto.APIResponse
// @Failure 400 {object} dto.ErrorResponse "Server is running"
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /servers/{serverID} [delete]
func (h *ServerHandler) DeleteServer(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		return
	}

	if err := h.serverService.DeleteServer(c.Request.Context(), owner, c.Param("serverID")); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Server deleted successfully", nil)
}
