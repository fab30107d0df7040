package services

import (
	"context"
	"time"

	"github.com/SscSPs/auradeploy/internal/core/domain"
	"golang.org/x/oauth2"
)

// TokenSvcFacade defines the interface for bearer token management.
type TokenSvcFacade interface {
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)
	// ParseAccessToken returns the user id carried by a token, or
	// apperrors.ErrTokenExpired / apperrors.ErrTokenInvalid.
	ParseAccessToken(ctx context.Context, token string) (string, error)
}

// GoogleOAuthHandlerSvcFacade defines the interface for Google OAuth operations.
type GoogleOAuthHandlerSvcFacade interface {
	// Enabled reports whether client credentials are configured.
	Enabled() bool
	// GenerateStateString creates a secure random string to be used as a CSRF token for OAuth flow.
	GenerateStateString(ctx context.Context) (string, error)
	// GetGoogleLoginURL returns the consent URL requesting offline access.
	GetGoogleLoginURL(ctx context.Context, state string) string
	// ExchangeCodeForToken exchanges an OAuth authorization code for a token.
	ExchangeCodeForToken(ctx context.Context, code string) (*oauth2.Token, error)
	// GetUserInfo uses the access token to get user information from Google.
	GetUserInfo(ctx context.Context, token *oauth2.Token) (*domain.GoogleUserInfo, error)
}
