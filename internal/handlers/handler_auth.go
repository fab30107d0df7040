package handlers

import (
	"net/http"

	"github.com/SscSPs/auradeploy/internal/core/domain"
	portssvc "github.com/SscSPs/auradeploy/internal/core/ports/services"
	"github.com/SscSPs/auradeploy/internal/dto"
	"github.com/SscSPs/auradeploy/internal/middleware"
	"github.com/SscSPs/auradeploy/internal/platform/config"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication related requests.
type AuthHandler struct {
	userService   portssvc.UserSvcFacade
	serverService portssvc.ServerReaderSvc
	tokenService  portssvc.TokenSvcFacade
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(us portssvc.UserSvcFacade, ss portssvc.ServerReaderSvc, ts portssvc.TokenSvcFacade) *AuthHandler {
	return &AuthHandler{
		userService:   us,
		serverService: ss,
		tokenService:  ts,
	}
}

// registerAuthRoutes sets up the routes for authentication.
func registerAuthRoutes(rg *gin.RouterGroup, cfg *config.Config, services *portssvc.ServiceContainer, loginLimit, auth gin.HandlerFunc) {
	h := NewAuthHandler(services.User, services.Server, services.TokenService)

	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", loginLimit, h.Login)
		authGroup.GET("/me", auth, h.Me)
		authGroup.GET("/dashboard", auth, h.Dashboard)
	}
	registerGoogleOAuthRoutes(authGroup, cfg, services)
}

func (h *AuthHandler) respondWithToken(c *gin.Context, status int, message string, user *domain.User) {
	token, _, err := h.tokenService.GenerateAccessToken(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, status, message, dto.AuthResponse{Token: token, User: dto.ToUserResponse(user)})
}

// Register godoc
// @Summary Register new user
// @Description Creates a password account and returns a bearer token.
// @Tags auth
// @Accept json
// @Produce json
// @Param register body dto.RegisterRequest true "User Registration Info"
// @Success 201 {object} dto.APIResponse{data=dto.AuthResponse}
// @Failure 400 {object} dto.ErrorResponse "Validation failed, email or username taken"
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondWithToken(c, http.StatusCreated, "User registered successfully", user)
}

// Login godoc
// @Summary User login
// @Description Authenticates a user and returns a JWT token.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.APIResponse{data=dto.AuthResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.AuthenticateUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondWithToken(c, http.StatusOK, "Login successful", user)
}

// Me godoc
// @Summary Current user
// @Description Returns the account the bearer token belongs to.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse}
// @Failure 401 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.GetUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Success: false, Message: "Access denied. No token provided."})
		return
	}
	respondOK(c, http.StatusOK, "", dto.ProfileResponse{User: dto.ToUserResponse(user)})
}

// Dashboard godoc
// @Summary Dashboard summary
// @Description Returns the account summary and mock fleet counts.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.DashboardResponse}
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /auth/dashboard [get]
func (h *AuthHandler) Dashboard(c *gin.Context) {
	user, ok := middleware.GetUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Success: false, Message: "Access denied. No token provided."})
		return
	}

	stats, err := h.serverService.GetServerStats(c.Request.Context(), user.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Dashboard data retrieved successfully", dto.ToDashboardResponse(user, stats))
}
