package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("SESSION_TTL", "15m")
	t.Setenv("CLIENT_URL", "https://blog.test/")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.test, ,https://b.test")
	t.Setenv("REQUIRE_VERIFIED_REACTIONS", "not-a-bool")

	cfg := Load()
	assert.Equal(t, "memory", cfg.StoreDriver)
	assert.Equal(t, 15*time.Minute, cfg.SessionTTL)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.CORSOrigins())
	assert.False(t, cfg.RequireVerifiedReactions)
	assert.Equal(t, "https://blog.test/reset-password/tok", cfg.ResetPasswordURL("tok"))
	assert.Equal(t, "https://blog.test/verify-account/tok", cfg.VerifyAccountURL("tok"))
}

func TestValidate(t *testing.T) {
	cfg := &Config{Env: "development", StoreDriver: "memory", SessionTTL: time.Hour, JWTSecret: defaultJWTSecret}
	require.NoError(t, cfg.Validate())

	cfg.StoreDriver = "mongo"
	assert.ErrorContains(t, cfg.Validate(), "STORE_DRIVER")

	prod := &Config{Env: "production", StoreDriver: "memory", SessionTTL: time.Hour, JWTSecret: defaultJWTSecret}
	err := prod.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "JWT_SECRET")
	assert.ErrorContains(t, err, "memory store")

	prod.StoreDriver = "postgres"
	prod.JWTSecret = strings.Repeat("s", 32)
	assert.NoError(t, prod.Validate())
}
