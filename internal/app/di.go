// Package app provides the dependency injection container for assembling
// application components.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sync"

	authRepository "github.com/allisson/vult/internal/auth/repository"
	authService "github.com/allisson/vult/internal/auth/service"
	authUsecase "github.com/allisson/vult/internal/auth/usecase"
	"github.com/allisson/vult/internal/config"
	cryptoDomain "github.com/allisson/vult/internal/crypto/domain"
	cryptoService "github.com/allisson/vult/internal/crypto/service"
	"github.com/allisson/vult/internal/database"
	"github.com/allisson/vult/internal/metrics"
	secretsRepository "github.com/allisson/vult/internal/secrets/repository"
	secretsUsecase "github.com/allisson/vult/internal/secrets/usecase"
)

// Container holds all application dependencies and provides methods to access
// them. Components are created lazily on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Managers
	txManager database.TxManager

	// Use Cases
	session        authUsecase.SessionUseCase
	secretRegistry secretsUsecase.SecretRegistry

	// Initialization flags and mutex for thread-safety
	mu           sync.Mutex
	loggerInit   sync.Once
	dbInit       sync.Once
	metricsInit  sync.Once
	sessionInit  sync.Once
	registryInit sync.Once
	initErrors   map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the vault database connection, migrated to the current schema.
func (c *Container) DB() (*sql.DB, error) {
	c.dbInit.Do(func() {
		if err := c.initDB(); err != nil {
			c.initErrors["db"] = err
		}
	})
	if storedErr, exists := c.initErrors["db"]; exists {
		return nil, storedErr
	}
	return c.db, nil
}

// BusinessMetrics returns the metrics recorder, a no-op when disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	c.metricsInit.Do(func() {
		if err := c.initMetrics(); err != nil {
			c.initErrors["metrics"] = err
		}
	})
	if storedErr, exists := c.initErrors["metrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// Session returns the vault session use case.
func (c *Container) Session() (authUsecase.SessionUseCase, error) {
	c.sessionInit.Do(func() {
		if err := c.initSession(); err != nil {
			c.initErrors["session"] = err
		}
	})
	if storedErr, exists := c.initErrors["session"]; exists {
		return nil, storedErr
	}
	return c.session, nil
}

// SecretRegistry returns the secret registry use case, decorated with
// metrics.
func (c *Container) SecretRegistry() (secretsUsecase.SecretRegistry, error) {
	c.registryInit.Do(func() {
		if err := c.initSecretRegistry(); err != nil {
			c.initErrors["secretRegistry"] = err
		}
	})
	if storedErr, exists := c.initErrors["secretRegistry"]; exists {
		return nil, storedErr
	}
	return c.secretRegistry, nil
}

// Shutdown performs cleanup of all initialized resources: the session is
// locked so the key is zeroed, pending metrics are flushed, and the database
// is closed.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.session != nil {
		c.session.Lock()
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics shutdown: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	// Logs go to stderr so stdout stays clean for command output.
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB opens the vault file and runs schema migrations.
func (c *Container) initDB() error {
	db, err := database.Connect(database.Config{
		Path:        c.config.DBPath,
		BusyTimeout: c.config.DBBusyTimeout,
	})
	if err != nil {
		return err
	}

	migrator := database.NewMigrator(db, c.config.DBPath, c.Logger())
	if err := migrator.Run(context.Background()); err != nil {
		db.Close() //nolint:errcheck
		return err
	}

	c.db = db
	c.txManager = database.NewTxManager(db)
	return nil
}

// initMetrics wires the OpenTelemetry provider, or a no-op recorder when
// metrics are disabled.
func (c *Container) initMetrics() error {
	if !c.config.MetricsEnabled {
		c.businessMetrics = metrics.NewNoOpBusinessMetrics()
		return nil
	}

	provider, err := metrics.NewProvider()
	if err != nil {
		return err
	}
	business, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
	if err != nil {
		return err
	}

	c.metricsProvider = provider
	c.businessMetrics = business
	return nil
}

// initSession builds the session use case on top of the database, decorated
// with metrics.
func (c *Container) initSession() error {
	db, err := c.DB()
	if err != nil {
		return err
	}
	business, err := c.BusinessMetrics()
	if err != nil {
		return err
	}

	session := authUsecase.NewSessionUseCase(
		c.txManager,
		authRepository.NewSQLiteVaultConfigRepository(db),
		cryptoService.NewArgon2idDeriver(),
		authService.NewVerificationService(),
		authUsecase.SessionConfig{
			MaxFailedAttempts:     c.config.MaxFailedAttempts,
			AutoLockTimeout:       c.config.AutoLockTimeout,
			ActivityTick:          c.config.ActivityTick,
			AutoLockCheckInterval: c.config.AutoLockCheckInterval,
		},
	)
	c.session = authUsecase.NewSessionUseCaseWithMetrics(session, business)
	return nil
}

// initSecretRegistry builds the secret registry use case with the configured
// algorithm and the metrics decorator.
func (c *Container) initSecretRegistry() error {
	db, err := c.DB()
	if err != nil {
		return err
	}
	session, err := c.Session()
	if err != nil {
		return err
	}
	business, err := c.BusinessMetrics()
	if err != nil {
		return err
	}

	registry := secretsUsecase.NewSecretRegistry(
		c.txManager,
		secretsRepository.NewSQLiteSecretRepository(db),
		session,
		cryptoService.NewArgon2idDeriver(),
		cryptoService.NewManager(),
		cryptoDomain.Algorithm(c.config.Algorithm),
	)
	c.secretRegistry = secretsUsecase.NewSecretRegistryWithMetrics(registry, business)
	return nil
}
