package utils_test

import (
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/auradeploy/internal/apperrors"
	"github.com/SscSPs/auradeploy/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugifyUsername(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{name: "display name", source: "Steve Minecraft", want: "steve_minecraft"},
		{name: "collapses symbol runs", source: "  Jöhn--Doe!! ", want: "j_hn_doe"},
		{name: "trims underscores", source: "__admin__", want: "admin"},
		{name: "truncates to 24", source: strings.Repeat("a", 40), want: strings.Repeat("a", 24)},
		{name: "empty falls back", source: "!!!", want: "user"},
		{name: "short is padded", source: "Al", want: "al_"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := utils.SlugifyUsername(tt.source)
			assert.Equal(t, tt.want, got)
			assert.True(t, utils.IsValidUsername(got))
		})
	}
}

func TestIsValidUsername(t *testing.T) {
	assert.True(t, utils.IsValidUsername("steve_01"))
	assert.False(t, utils.IsValidUsername("ab"))
	assert.False(t, utils.IsValidUsername("has space"))
	assert.False(t, utils.IsValidUsername(strings.Repeat("x", 31)))
}

func TestIsValidServerVersion(t *testing.T) {
	assert.True(t, utils.IsValidServerVersion("1.20"))
	assert.True(t, utils.IsValidServerVersion("1.20.4"))
	assert.False(t, utils.IsValidServerVersion("1.20.4.1"))
	assert.False(t, utils.IsValidServerVersion("latest"))
}

func TestFallbackUsername(t *testing.T) {
	name := utils.FallbackUsername(time.UnixMilli(1700000000000))
	assert.True(t, strings.HasPrefix(name, "user_"))
	assert.True(t, utils.IsValidUsername(name))
}

func TestGenerateRandomBase36(t *testing.T) {
	s, err := utils.GenerateRandomBase36(4)
	require.NoError(t, err)
	assert.Len(t, s, 4)
	for _, r := range s {
		assert.True(t, (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z'))
	}

	_, err = utils.GenerateRandomBase36(0)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := utils.HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)
	assert.True(t, utils.CheckPasswordHash("hunter22", hash))
	assert.False(t, utils.CheckPasswordHash("hunter23", hash))
}

func TestUserIDFromJWT(t *testing.T) {
	secret := "test-secret-key-that-is-long-enough"

	token, err := utils.GenerateJWT("user-1", secret, time.Hour, "auradeploy-test")
	require.NoError(t, err)
	userID, err := utils.UserIDFromJWT(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	expired, err := utils.GenerateJWT("user-1", secret, -time.Minute, "auradeploy-test")
	require.NoError(t, err)
	_, err = utils.UserIDFromJWT(expired, secret)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)

	_, err = utils.UserIDFromJWT(token, "some-other-secret")
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)

	_, err = utils.UserIDFromJWT("not-a-jwt", secret)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}
