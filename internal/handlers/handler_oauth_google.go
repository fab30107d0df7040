package handlers

import (
	"log/slog"
	"net/http"
	"net/url"

	portssvc "github.com/SscSPs/auradeploy/internal/core/ports/services"
	"github.com/SscSPs/auradeploy/internal/dto"
	"github.com/SscSPs/auradeploy/internal/middleware"
	"github.com/SscSPs/auradeploy/internal/platform/config"
	"github.com/gin-gonic/gin"
)

const (
	oauthStateCookie = "oauth_state"
	// oauthStateMaxAge is how long the consent screen may take, in seconds.
	oauthStateMaxAge = 10 * 60
)

// GoogleOAuthHandler handles Google OAuth related requests.
// It depends on the Google OAuth service, user service, and token service.
type GoogleOAuthHandler struct {
	googleOAuthService portssvc.GoogleOAuthHandlerSvcFacade
	userService        portssvc.UserSvcFacade
	tokenService       portssvc.TokenSvcFacade
	frontendBaseURL    string
	secureCookies      bool
}

// NewGoogleOAuthHandler creates a new instance of GoogleOAuthHandler.
func NewGoogleOAuthHandler(
	cfg *config.Config,
	googleOAuthService portssvc.GoogleOAuthHandlerSvcFacade,
	userService portssvc.UserSvcFacade,
	tokenService portssvc.TokenSvcFacade,
) *GoogleOAuthHandler {
	return &GoogleOAuthHandler{
		googleOAuthService: googleOAuthService,
		userService:        userService,
		tokenService:       tokenService,
		frontendBaseURL:    cfg.FrontendBaseURL,
		secureCookies:      cfg.IsProduction,
	}
}

// registerGoogleOAuthRoutes registers the Google OAuth routes.
func registerGoogleOAuthRoutes(rg *gin.RouterGroup, cfg *config.Config, services *portssvc.ServiceContainer) {
	h := NewGoogleOAuthHandler(cfg, services.GoogleOAuthHandler, services.User, services.TokenService)
	googleRoutes := rg.Group("/google")
	{
		googleRoutes.GET("", h.StartGoogleLogin)
		googleRoutes.GET("/callback", h.GoogleCallback)
	}
}

// StartGoogleLogin godoc
// @Summary Start Google sign-in
// @Description Redirects the browser to the Google consent screen.
// @Tags oauth
// @Success 302
// @Failure 503 {object} dto.ErrorResponse "Google OAuth is not configured"
// @Router /auth/google [get]
func (h *GoogleOAuthHandler) StartGoogleLogin(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	if !h.googleOAuthService.Enabled() {
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Success: false, Message: "Google OAuth is not configured"})
		return
	}

	state, err := h.googleOAuthService.GenerateStateString(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to generate OAuth state", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Success: false, Message: "Failed to start Google OAuth"})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, oauthStateMaxAge, "/", "", h.secureCookies, true)
	c.Redirect(http.StatusFound, h.googleOAuthService.GetGoogleLoginURL(ctx, state))
}

// GoogleCallback godoc
// @Summary Google sign-in callback
// @Description Exchanges the authorization code, signs the user in and redirects to the dashboard with a token.
// @Tags oauth
// @Param code query string true "Authorization code"
// @Param state query string true "CSRF state"
// @Success 302
// @Router /auth/google/callback [get]
func (h *GoogleOAuthHandler) GoogleCallback(c *gin.Context) {
	ctx := c.Request.Context()
	logger := middleware.GetLoggerFromCtx(ctx)

	// The state cookie is single use.
	expectedState, _ := c.Cookie(oauthStateCookie)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, "", -1, "/", "", h.secureCookies, true)

	code := c.Query("code")
	if code == "" {
		logger.WarnContext(ctx, "Authorization code missing in Google callback")
		h.redirectFailure(c)
		return
	}
	if expectedState == "" || c.Query("state") != expectedState {
		logger.WarnContext(ctx, "OAuth state mismatch")
		h.redirectFailure(c)
		return
	}

	oauth2Token, err := h.googleOAuthService.ExchangeCodeForToken(ctx, code)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to exchange authorization code with Google", slog.String("error", err.Error()))
		h.redirectFailure(c)
		return
	}

	info, err := h.googleOAuthService.GetUserInfo(ctx, oauth2Token)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to fetch Google profile", slog.String("error", err.Error()))
		h.redirectFailure(c)
		return
	}

	user, err := h.userService.FindOrCreateGoogleUser(ctx, *info)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to resolve Google user", slog.String("error", err.Error()), slog.String("google_user_id", info.ID))
		h.redirectFailure(c)
		return
	}

	accessToken, _, err := h.tokenService.GenerateAccessToken(ctx, user)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to generate application access token", slog.String("error", err.Error()), slog.String("user_id", user.UserID))
		h.redirectFailure(c)
		return
	}

	logger.InfoContext(ctx, "User signed in with Google", slog.String("user_id", user.UserID))
	c.Redirect(http.StatusFound, h.frontendBaseURL+"/auth/google/callback?token="+url.QueryEscape(accessToken))
}

func (h *GoogleOAuthHandler) redirectFailure(c *gin.Context) {
	c.Redirect(http.StatusFound, h.frontendBaseURL+"/login?error=google_oauth_failed")
}
