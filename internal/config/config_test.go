package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "memory", cfg.StorageType)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "8080")
	t.Setenv("STORAGE_TYPE", "redis")
	t.Setenv("REDIS_URL", "redis://localhost:6380")
	t.Setenv("JWT_EXPIRES_IN", "1h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "redis", cfg.StorageType)
	assert.Equal(t, "redis://localhost:6380", cfg.RedisURL)
	assert.Equal(t, time.Hour, cfg.JWTExpiry)
}

func TestLoadMissingSecret(t *testing.T) {
	// Setenv registers the restore; the variable must be absent, not empty
	t.Setenv("JWT_SECRET", "placeholder")
	_ = os.Unsetenv("JWT_SECRET")

	_, err := Load()
	assert.Error(t, err)
}
