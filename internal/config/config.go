// Package config provides application configuration through environment variables.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/allisson/go-env"
	"github.com/joho/godotenv"

	apperrors "github.com/svckit/svckit/internal/errors"
)

// Config holds all application configuration.
type Config struct {
	// ServerHost is the host address the server will bind to.
	ServerHost string
	// ServerPort is the port number the server will listen on.
	ServerPort int

	// LogLevel is the logging level (e.g., "debug", "info", "warn", "error").
	LogLevel string
	// LogDirectory is the preferred base directory for the diagnostic log files.
	LogDirectory string
	// LogRetentionDays is how many rotated log generations each sink keeps.
	LogRetentionDays int

	// SecretKey is the HMAC signing secret for access tokens.
	// It has no default: a missing value is a fatal startup condition.
	SecretKey string
	// TokenExpiration is the lifetime added to every issued token.
	TokenExpiration time.Duration
	// BCryptCost is the work factor used for password hashing.
	BCryptCost int

	// RateLimitEnabled indicates whether per-subject rate limiting is enabled.
	RateLimitEnabled bool
	// RateLimitRequestsPerSec is the number of requests allowed per second per subject.
	RateLimitRequestsPerSec float64
	// RateLimitBurst is the burst size for per-subject rate limiting.
	RateLimitBurst int

	// CORSEnabled indicates whether CORS is enabled.
	CORSEnabled bool
	// CORSAllowOrigins is a comma-separated list of allowed origins for CORS.
	CORSAllowOrigins string

	// MetricsEnabled indicates whether metrics collection is enabled.
	MetricsEnabled bool
	// MetricsNamespace is the namespace for the application metrics.
	MetricsNamespace string
	// MetricsPort is the port number for the metrics server.
	MetricsPort int
}

// Load loads configuration from environment variables and .env file.
func Load() *Config {
	// Try to load .env file recursively
	loadDotEnv()

	return &Config{
		// Server configuration
		ServerHost: env.GetString("SERVER_HOST", "0.0.0.0"),
		ServerPort: env.GetInt("SERVER_PORT", 8080),

		// Logging
		LogLevel:         env.GetString("LOG_LEVEL", "info"),
		LogDirectory:     env.GetString("LOG_DIRECTORY", "log"),
		LogRetentionDays: env.GetInt("LOG_RETENTION_DAYS", 30),

		// Auth
		SecretKey:       env.GetString("SECRET_KEY", ""),
		TokenExpiration: env.GetDuration("ACCESS_TOKEN_EXPIRE_MINUTES", 30, time.Minute),
		BCryptCost:      env.GetInt("BCRYPT_COST", 10),

		// Rate Limiting (authenticated endpoints)
		RateLimitEnabled:        env.GetBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequestsPerSec: env.GetFloat64("RATE_LIMIT_REQUESTS_PER_SEC", 10.0),
		RateLimitBurst:          env.GetInt("RATE_LIMIT_BURST", 20),

		// CORS
		CORSEnabled:      env.GetBool("CORS_ENABLED", false),
		CORSAllowOrigins: env.GetString("CORS_ALLOW_ORIGINS", ""),

		// Metrics
		MetricsEnabled:   env.GetBool("METRICS_ENABLED", true),
		MetricsNamespace: env.GetString("METRICS_NAMESPACE", "svckit"),
		MetricsPort:      env.GetInt("METRICS_PORT", 8081),
	}
}

// Validate checks the hard preconditions that must hold before the process can
// serve requests. A missing signing secret is a configuration error and must
// abort startup rather than surface per-request.
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "SECRET_KEY environment variable is not set")
	}
	if c.TokenExpiration <= 0 {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "ACCESS_TOKEN_EXPIRE_MINUTES must be positive")
	}
	if c.LogRetentionDays <= 0 {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "LOG_RETENTION_DAYS must be positive")
	}
	return nil
}

// GetGinMode returns the appropriate Gin mode based on log level.
func (c *Config) GetGinMode() string {
	switch c.LogLevel {
	case "debug":
		return "debug"
	case "info", "warn", "error":
		return "release"
	default:
		return "release"
	}
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
