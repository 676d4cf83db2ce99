// Package app provides the dependency injection container for assembling
// application components.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/svckit/svckit/internal/config"
	"github.com/svckit/svckit/internal/http"
	"github.com/svckit/svckit/internal/logging"
	"github.com/svckit/svckit/internal/metrics"
	"github.com/svckit/svckit/internal/token"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger     *slog.Logger
	diagLogger *logging.Logger

	// Services
	tokenService *token.Service

	// Observability
	metricsProvider *metrics.Provider
	tokenMetrics    metrics.TokenMetrics

	// Servers
	apiServer     *http.Server
	metricsServer *http.MetricsServer

	// Initialization flags and mutex for thread-safety
	mu                  sync.Mutex
	loggerInit          sync.Once
	diagLoggerInit      sync.Once
	tokenServiceInit    sync.Once
	metricsProviderInit sync.Once
	tokenMetricsInit    sync.Once
	apiServerInit       sync.Once
	metricsServerInit   sync.Once
	initErrors          map[string]error
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

// Logger returns the configured structured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DiagnosticLogger returns the self-healing file logger.
// Construction never fails: when no directory is usable, records fall back
// to the console.
func (c *Container) DiagnosticLogger() *logging.Logger {
	c.diagLoggerInit.Do(func() {
		c.diagLogger = logging.New(logging.Options{
			Directory:     c.config.LogDirectory,
			RetentionDays: c.config.LogRetentionDays,
		})
	})
	return c.diagLogger
}

// TokenService returns the token service instance.
func (c *Container) TokenService() (*token.Service, error) {
	var err error
	c.tokenServiceInit.Do(func() {
		c.tokenService, err = token.NewService(token.Config{
			Secret:     c.config.SecretKey,
			TTL:        c.config.TokenExpiration,
			BCryptCost: c.config.BCryptCost,
		})
		if err != nil {
			c.initErrors["tokenService"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenService"]; exists {
		return nil, storedErr
	}
	return c.tokenService, nil
}

// MetricsProvider returns the metrics provider instance.
// Returns nil without error when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		if !c.config.MetricsEnabled {
			return
		}
		c.metricsProvider, err = metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// TokenMetrics returns the token operation metrics recorder.
// Returns a no-op implementation when metrics are disabled.
func (c *Container) TokenMetrics() (metrics.TokenMetrics, error) {
	var err error
	c.tokenMetricsInit.Do(func() {
		provider, providerErr := c.MetricsProvider()
		if providerErr != nil {
			err = providerErr
			c.initErrors["tokenMetrics"] = providerErr
			return
		}
		if provider == nil {
			c.tokenMetrics = metrics.NewNoOpTokenMetrics()
			return
		}
		c.tokenMetrics, err = metrics.NewTokenMetrics(
			provider.MeterProvider(),
			c.config.MetricsNamespace,
		)
		if err != nil {
			c.initErrors["tokenMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenMetrics"]; exists {
		return nil, storedErr
	}
	return c.tokenMetrics, nil
}

// APIServer returns the API server instance.
func (c *Container) APIServer() (*http.Server, error) {
	var err error
	c.apiServerInit.Do(func() {
		c.apiServer, err = c.initAPIServer()
		if err != nil {
			c.initErrors["apiServer"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["apiServer"]; exists {
		return nil, storedErr
	}
	return c.apiServer, nil
}

// MetricsServer returns the metrics server instance.
// Returns nil without error when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	var err error
	c.metricsServerInit.Do(func() {
		provider, providerErr := c.MetricsProvider()
		if providerErr != nil {
			err = providerErr
			c.initErrors["metricsServer"] = providerErr
			return
		}
		if provider == nil {
			return
		}
		c.metricsServer = http.NewMetricsServer(
			c.config.ServerHost,
			c.config.MetricsPort,
			c.Logger(),
			provider,
		)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.apiServer != nil {
		if err := c.apiServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("api server shutdown: %w", err))
		}
	}

	if c.metricsServer != nil {
		if err := c.metricsServer.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.diagLogger != nil {
		c.diagLogger.Close()
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

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initAPIServer assembles the API server with its dependencies.
func (c *Container) initAPIServer() (*http.Server, error) {
	tokenService, err := c.TokenService()
	if err != nil {
		return nil, fmt.Errorf("failed to get token service for api server: %w", err)
	}

	tokenMetrics, err := c.TokenMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get token metrics for api server: %w", err)
	}

	metricsProvider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for api server: %w", err)
	}

	return http.NewServer(
		c.config,
		tokenService,
		tokenMetrics,
		metricsProvider,
		c.DiagnosticLogger(),
		c.Logger(),
	), nil
}
