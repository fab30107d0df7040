package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/SscSPs/auradeploy/internal/apperrors"
	portssvc "github.com/SscSPs/auradeploy/internal/core/ports/services"
	"github.com/SscSPs/auradeploy/internal/middleware"
	"github.com/gin-gonic/gin"
)

const (
	msgUpstreamKeyMissing = "Server misconfiguration: MC_API_KEY missing"
	msgInvalidJSON        = "Invalid JSON body"
	// maxProxyBody bounds client bodies forwarded upstream.
	maxProxyBody = 10 << 20
)

// ProxyErrorResponse is returned when a proxied call fails before the
// upstream answers. Upstream answers themselves are relayed untouched.
type ProxyErrorResponse struct {
	Error string `json:"error"`
}

// ProxyHandler relays hosting control-plane calls, adding the server-side API key.
type ProxyHandler struct {
	upstream portssvc.UpstreamSvcFacade
}

func NewProxyHandler(upstream portssvc.UpstreamSvcFacade) *ProxyHandler {
	return &ProxyHandler{upstream: upstream}
}

// upstreamPath builds a path from fixed segments and escaped parameters.
type upstreamPath func(c *gin.Context) string

func serverPath(suffix string) upstreamPath {
	return func(c *gin.Context) string {
		return "/servers/" + url.PathEscape(c.Param("serverID")) + suffix
	}
}

func registerProxyRoutes(rg *gin.RouterGroup, upstream portssvc.UpstreamSvcFacade) {
	h := NewProxyHandler(upstream)

	mc := rg.Group("/mc")
	{
		mc.POST("/deploy", h.forward(http.MethodPost, true, func(*gin.Context) string { return "/deploy" }))
		mc.GET("/versions/:edition", h.forward(http.MethodGet, false, func(c *gin.Context) string {
			return "/versions/" + url.PathEscape(c.Param("edition"))
		}))

		servers := mc.Group("/servers/:serverID")
		servers.DELETE("", h.forward(http.MethodDelete, false, serverPath("")))
		servers.POST("/start", h.forward(http.MethodPost, false, serverPath("/start")))
		servers.POST("/stop", h.forward(http.MethodPost, false, serverPath("/stop")))
		servers.POST("/command", h.forward(http.MethodPost, true, serverPath("/command")))
		servers.GET("/mods", h.forward(http.MethodGet, false, serverPath("/mods")))
		servers.POST("/mods", h.forward(http.MethodPost, true, serverPath("/mods")))
		servers.DELETE("/mods/:modName", h.forward(http.MethodDelete, false, func(c *gin.Context) string {
			return serverPath("/mods/")(c) + url.PathEscape(c.Param("modName"))
		}))
		servers.PATCH("/settings", h.forward(http.MethodPatch, true, serverPath("/settings")))
		servers.GET("/status", h.forward(http.MethodGet, false, serverPath("/status")))
		servers.GET("/logs/live", h.StreamLogs)
	}
}

// readJSONBody parses the client body and re-encodes it, so only valid
// JSON is ever forwarded.
func readJSONBody(c *gin.Context) ([]byte, error) {
	raw, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxProxyBody))
	if err != nil {
		return nil, err
	}
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	return json.Marshal(payload)
}

func (h *ProxyHandler) respondProxyError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	switch {
	case errors.Is(err, apperrors.ErrUpstreamMisconfigured):
		logger.Error("MC_API_KEY is not configured")
		c.JSON(http.StatusInternalServerError, ProxyErrorResponse{Error: msgUpstreamKeyMissing})
	case errors.Is(err, apperrors.ErrUpstreamUnavailable):
		logger.Warn("Upstream request failed", slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, ProxyErrorResponse{Error: "Upstream service unavailable"})
	default:
		logger.Error("Proxy request failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ProxyErrorResponse{Error: msgServerError})
	}
}

// forward returns a handler relaying one upstream route verbatim.
func (h *ProxyHandler) forward(method string, withBody bool, path upstreamPath) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := portssvc.UpstreamRequest{
			Method: method,
			Path:   path(c),
			Query:  c.Request.URL.Query(),
		}
		if withBody {
			body, err := readJSONBody(c)
			if err != nil {
				c.JSON(http.StatusBadRequest, ProxyErrorResponse{Error: msgInvalidJSON})
				return
			}
			req.Body = body
		}

		resp, err := h.upstream.Forward(c.Request.Context(), req)
		if err != nil {
			h.respondProxyError(c, err)
			return
		}

		contentType := resp.ContentType
		if contentType == "" {
			contentType = "application/json"
		}
		c.Data(resp.StatusCode, contentType, resp.Body)
	}
}

// StreamLogs godoc
// @Summary Tail server logs
// @Description Relays the upstream server-sent event log stream until either side disconnects.
// @Tags mc
// @Produce text/event-stream
// @Param serverID path string true "Upstream server ID"
// @Success 200 {string} string "event stream"
// @Failure 500 {object} ProxyErrorResponse
// @Failure 502 {object} ProxyErrorResponse
// @Router /mc/servers/{serverID}/logs/live [get]
func (h *ProxyHandler) StreamLogs(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	stream, err := h.upstream.OpenStream(ctx, serverPath("/logs/live")(c))
	if err != nil {
		h.respondProxyError(c, err)
		return
	}
	defer stream.Body.Close()

	if stream.StatusCode < 200 || stream.StatusCode > 299 {
		c.String(stream.StatusCode, fmt.Sprintf("Failed to connect: %d", stream.StatusCode))
		return
	}

	w := c.Writer
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache, no-transform")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	buf := make([]byte, 4096)
	for {
		n, readErr := stream.Body.Read(buf)
		if n > 0 {
			if _, err := w.Write(buf[:n]); err != nil {
				logger.Debug("Log stream client went away", slog.String("error", err.Error()))
				return
			}
			w.Flush()
		}
		if readErr != nil {
			if !errors.Is(readErr, io.EOF) && ctx.Err() == nil {
				logger.Warn("Log stream ended with error", slog.String("error", readErr.Error()))
			}
			return
		}
	}
}
