// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// DBPath is the filesystem path of the vault database.
	DBPath string
	// DBBusyTimeout is the SQLite busy timeout in milliseconds.
	DBBusyTimeout int

	// Algorithm is the AEAD algorithm for newly encrypted secrets
	// ("aes-gcm" or "chacha20-poly1305").
	Algorithm string

	// MaxFailedAttempts is the number of consecutive failed unlocks before
	// the session refuses further attempts.
	MaxFailedAttempts int
	// AutoLockTimeout is the idle duration after which the vault locks itself.
	AutoLockTimeout time.Duration
	// ActivityTick is the cadence of the session's idle-accounting loop.
	ActivityTick time.Duration
	// AutoLockCheckInterval is the cadence of the session's auto-lock poll.
	AutoLockCheckInterval time.Duration

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		// Database configuration
		DBPath:        env.GetString("VULT_DB_PATH", defaultDBPath()),
		DBBusyTimeout: env.GetInt("VULT_DB_BUSY_TIMEOUT_MS", 5000),

		// Crypto
		Algorithm: env.GetString("VULT_ALGORITHM", "aes-gcm"),

		// Session
		MaxFailedAttempts:     env.GetInt("VULT_MAX_FAILED_ATTEMPTS", 10),
		AutoLockTimeout:       env.GetDuration("VULT_AUTO_LOCK_TIMEOUT_SECONDS", 300, time.Second),
		ActivityTick:          env.GetDuration("VULT_ACTIVITY_TICK_SECONDS", 1, time.Second),
		AutoLockCheckInterval: env.GetDuration("VULT_AUTO_LOCK_CHECK_INTERVAL_SECONDS", 5, time.Second),

		// Logging
		LogLevel: env.GetString("LOG_LEVEL", "info"),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", false),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "vult"),
	}
}

// defaultDBPath places the vault under the user's home directory.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "vault.db"
	}
	return filepath.Join(home, ".vult", "vault.db")
}

// loadDotEnv searches for a .env file recursively from the current directory
// up to the root directory and loads it if found.
func loadDotEnv() {
	// Get current working directory
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	// Search for .env file recursively up the directory tree
	dir := cwd
	for {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			// .env file found, load it
			_ = godotenv.Load(envPath)
			return
		}

		// Move to parent directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}
}
