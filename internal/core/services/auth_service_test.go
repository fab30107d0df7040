package services_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/SscSPs/auradeploy/internal/apperrors"
	"github.com/SscSPs/auradeploy/internal/core/domain"
	"github.com/SscSPs/auradeploy/internal/core/services"
	"github.com/SscSPs/auradeploy/internal/platform/config"
	"github.com/SscSPs/auradeploy/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:          "test-secret",
		JWTExpiryDuration:  time.Hour,
		JWTIssuer:          "auradeploy-test",
		GoogleClientID:     "client-id",
		GoogleClientSecret: "client-secret",
		GoogleRedirectURL:  "http://localhost:5000/api/auth/google/callback",
	}
}

func TestTokenService_RoundTrip(t *testing.T) {
	svc := services.NewTokenService(testConfig())
	user := &domain.User{UserID: "user-123"}

	token, expiry, err := svc.GenerateAccessToken(context.Background(), user)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiry, 5*time.Second)

	userID, err := svc.ParseAccessToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestTokenService_RejectsBadTokens(t *testing.T) {
	cfg := testConfig()
	svc := services.NewTokenService(cfg)

	expired, err := utils.GenerateJWT("user-123", cfg.JWTSecret, -time.Minute, cfg.JWTIssuer)
	require.NoError(t, err)
	_, err = svc.ParseAccessToken(context.Background(), expired)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)

	foreign, err := utils.GenerateJWT("user-123", "other-secret", time.Hour, cfg.JWTIssuer)
	require.NoError(t, err)
	_, err = svc.ParseAccessToken(context.Background(), foreign)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)

	_, err = svc.ParseAccessToken(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestGoogleOAuth_LoginURL(t *testing.T) {
	svc := services.NewGoogleOAuthHandlerService(testConfig())
	require.True(t, svc.Enabled())

	raw := svc.GetGoogleLoginURL(context.Background(), "state-abc")
	u, err := url.Parse(raw)
	require.NoError(t, err)
	q := u.Query()

	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "state-abc", q.Get("state"))
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Equal(t, "consent", q.Get("prompt"))
	assert.Equal(t, "openid email profile", q.Get("scope"))
	assert.Equal(t, "http://localhost:5000/api/auth/google/callback", q.Get("redirect_uri"))
}

func TestGoogleOAuth_DisabledWithoutCredentials(t *testing.T) {
	svc := services.NewGoogleOAuthHandlerService(&config.Config{})
	assert.False(t, svc.Enabled())
}

func TestGoogleOAuth_GetUserInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/oauth2/v2/userinfo", r.URL.Path)
		assert.Equal(t, "Bearer access-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"g-42","email":"alex@example.com","verified_email":true,"name":"Alex Smith"}`))
	}))
	defer srv.Close()

	svc := services.NewGoogleOAuthHandlerService(testConfig(), option.WithEndpoint(srv.URL+"/"))

	info, err := svc.GetUserInfo(context.Background(), &oauth2.Token{AccessToken: "access-token", TokenType: "Bearer"})

	require.NoError(t, err)
	assert.Equal(t, "g-42", info.ID)
	assert.Equal(t, "alex@example.com", info.Email)
	assert.True(t, info.VerifiedEmail)
	assert.Equal(t, "Alex Smith", info.Name)
}

func TestGenerateStateString(t *testing.T) {
	svc := services.NewGoogleOAuthHandlerService(testConfig())

	a, err := svc.GenerateStateString(context.Background())
	require.NoError(t, err)
	b, err := svc.GenerateStateString(context.Background())
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}
