package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LUCERNA_AUTH_JWT_SECRET", "test-secret")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "test-secret", cfg.Auth.JWT.Secret)
	assert.Equal(t, 30, cfg.Auth.JWT.AccessExpMinutes)
	assert.Equal(t, 30, cfg.Auth.JWT.RefreshExpDays)
	assert.Equal(t, 10, cfg.Auth.JWT.ResetPasswordExpMinutes)
	assert.Equal(t, 10, cfg.Auth.JWT.VerifyEmailExpMinutes)
	assert.Equal(t, 12, cfg.Auth.Password.BcryptCost)

	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 20, cfg.RateLimit.Requests)
	assert.Equal(t, 60, cfg.RateLimit.WindowSeconds)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("LUCERNA_AUTH_JWT_SECRET", "test-secret")
	t.Setenv("LUCERNA_RATELIMIT_REQUESTS", "5")
	t.Setenv("LUCERNA_RATELIMIT_WINDOW_SECONDS", "30")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.RateLimit.Requests)
	assert.Equal(t, 30, cfg.RateLimit.WindowSeconds)
}

func TestLoadMissingJWTSecret(t *testing.T) {
	_, err := Load("")
	require.Error(t, err)
}
