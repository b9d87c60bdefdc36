package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := Load()

		assert.NotEmpty(t, cfg.DBPath)
		assert.Equal(t, 5000, cfg.DBBusyTimeout)
		assert.Equal(t, "aes-gcm", cfg.Algorithm)
		assert.Equal(t, 10, cfg.MaxFailedAttempts)
		assert.Equal(t, 5*time.Minute, cfg.AutoLockTimeout)
		assert.Equal(t, time.Second, cfg.ActivityTick)
		assert.Equal(t, 5*time.Second, cfg.AutoLockCheckInterval)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.False(t, cfg.MetricsEnabled)
		assert.Equal(t, "vult", cfg.MetricsNamespace)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("VULT_DB_PATH", "/tmp/test-vault.db")
		t.Setenv("VULT_ALGORITHM", "chacha20-poly1305")
		t.Setenv("VULT_MAX_FAILED_ATTEMPTS", "3")
		t.Setenv("VULT_AUTO_LOCK_TIMEOUT_SECONDS", "60")
		t.Setenv("METRICS_ENABLED", "true")

		cfg := Load()

		assert.Equal(t, "/tmp/test-vault.db", cfg.DBPath)
		assert.Equal(t, "chacha20-poly1305", cfg.Algorithm)
		assert.Equal(t, 3, cfg.MaxFailedAttempts)
		assert.Equal(t, time.Minute, cfg.AutoLockTimeout)
		assert.True(t, cfg.MetricsEnabled)
	})
}
