package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	d, err := ParseDuration("7d")
	require.NoError(t, err)
	assert.Equal(t, 7*24*time.Hour, d)

	d, err = ParseDuration("90m")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, d)

	_, err = ParseDuration("xd")
	assert.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("APP_TIMEZONE", "UTC")
	t.Setenv("JWT_EXPIRES_IN", "7d")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Environment)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.JWTExpiry)
	assert.Equal(t, 3, cfg.App.FreeHabitLimit)
	assert.Equal(t, time.UTC, cfg.App.Location)
	assert.Equal(t, int64(499), cfg.Payments.ProPriceCents)
	assert.False(t, cfg.AI.Enabled())
}

func TestAuthValidateProductionSecret(t *testing.T) {
	a := AuthConfig{JWTSecret: "short", JWTExpiry: time.Hour, RefreshTTL: time.Hour, BCryptCost: 10}
	assert.NoError(t, a.Validate(false))
	assert.Error(t, a.Validate(true))
}

func TestCacheValidate(t *testing.T) {
	assert.NoError(t, (&CacheConfig{Provider: "memory"}).Validate())
	assert.Error(t, (&CacheConfig{Provider: "redis"}).Validate())
	assert.NoError(t, (&CacheConfig{Provider: "redis", RedisURL: "redis://localhost:6379/0"}).Validate())
	assert.Error(t, (&CacheConfig{Provider: "memcached"}).Validate())
}
