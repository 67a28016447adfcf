package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("COURSECATALOG_SECURITY_JWTSECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 5000, cfg.HTTP.Port)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, 7*24*time.Hour, cfg.Security.TokenTTL)
	assert.Equal(t, 10, cfg.Security.BcryptCost)
	assert.Equal(t, 30, cfg.Security.AuthRatePerMinute)
	assert.Equal(t, "test-secret", cfg.Security.JWTSecret)
	assert.Equal(t, "catalog:events", cfg.Events.Stream)
	assert.Equal(t, "0 0 3 * * *", cfg.Jobs.SnapshotSchedule)
	assert.True(t, cfg.Postgres.MigrateOnStart)
	assert.Equal(t, 5*time.Second, cfg.Postgres.StatementTimeout)
	assert.Equal(t, 5, cfg.Redis.ConnectAttempts)
	assert.Empty(t, cfg.LogLevel)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.AllowCORSOrigins)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("COURSECATALOG_SECURITY_JWTSECRET", "s")
	t.Setenv("COURSECATALOG_ENVIRONMENT", "production")
	t.Setenv("COURSECATALOG_HTTP_PORT", "8081")
	t.Setenv("COURSECATALOG_SECURITY_TOKENTTL", "1h")
	t.Setenv("COURSECATALOG_LOGLEVEL", "warn")
	t.Setenv("COURSECATALOG_REDIS_URL", "redis://:pw@cache:6380/2")
	t.Setenv("COURSECATALOG_ALLOWCORSORIGINS", "https://app.example.com,https://*.example.app")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, 8081, cfg.HTTP.Port)
	assert.Equal(t, time.Hour, cfg.Security.TokenTTL)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "redis://:pw@cache:6380/2", cfg.Redis.URL)
	assert.Equal(t, []string{"https://app.example.com", "https://*.example.app"}, cfg.AllowCORSOrigins)
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("COURSECATALOG_SECURITY_JWTSECRET", "")

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingJWTSecret)
}
