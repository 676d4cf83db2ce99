package app

import (
	"context"
	"testing"
	"time"

	"github.com/svckit/svckit/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		LogLevel:         "info",
		LogDirectory:     t.TempDir(),
		LogRetentionDays: 30,
		ServerHost:       "localhost",
		ServerPort:       8080,
		SecretKey:        "test-secret-key",
		TokenExpiration:  30 * time.Minute,
		MetricsEnabled:   true,
		MetricsNamespace: "svckit_test",
		MetricsPort:      9090,
	}
}

// TestNewContainer verifies that a new container can be created with a valid configuration.
func TestNewContainer(t *testing.T) {
	cfg := testConfig(t)

	container := NewContainer(cfg)

	if container == nil {
		t.Fatal("expected non-nil container")
	}

	if container.Config() != cfg {
		t.Error("container config does not match provided config")
	}
}

// TestContainerLogger verifies that the logger can be retrieved from the container.
func TestContainerLogger(t *testing.T) {
	cfg := &config.Config{
		LogLevel: "debug",
	}

	container := NewContainer(cfg)
	logger := container.Logger()

	if logger == nil {
		t.Fatal("expected non-nil logger")
	}

	// Calling Logger() again should return the same instance (singleton)
	logger2 := container.Logger()
	if logger != logger2 {
		t.Error("expected same logger instance on multiple calls")
	}
}

// TestContainerDiagnosticLogger verifies the diagnostic logger singleton.
func TestContainerDiagnosticLogger(t *testing.T) {
	container := NewContainer(testConfig(t))
	defer func() {
		if err := container.Shutdown(context.Background()); err != nil {
			t.Errorf("unexpected shutdown error: %v", err)
		}
	}()

	diag := container.DiagnosticLogger()
	if diag == nil {
		t.Fatal("expected non-nil diagnostic logger")
	}

	if diag != container.DiagnosticLogger() {
		t.Error("expected same diagnostic logger instance on multiple calls")
	}
}

// TestContainerTokenService verifies token service construction and caching.
func TestContainerTokenService(t *testing.T) {
	container := NewContainer(testConfig(t))

	service, err := container.TokenService()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if service == nil {
		t.Fatal("expected non-nil token service")
	}

	service2, err := container.TokenService()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if service != service2 {
		t.Error("expected same token service instance on multiple calls")
	}
}

// TestContainerTokenServiceError verifies that initialization errors persist.
func TestContainerTokenServiceError(t *testing.T) {
	cfg := testConfig(t)
	cfg.SecretKey = ""

	container := NewContainer(cfg)

	_, err := container.TokenService()
	if err == nil {
		t.Error("expected error when secret key is missing")
	}

	// Attempting again should return the same error
	_, err2 := container.TokenService()
	if err2 == nil {
		t.Error("expected cached error on second call")
	}
}

// TestContainerMetricsDisabled verifies nil provider and no-op metrics when disabled.
func TestContainerMetricsDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.MetricsEnabled = false

	container := NewContainer(cfg)

	provider, err := container.MetricsProvider()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider != nil {
		t.Error("expected nil provider when metrics are disabled")
	}

	tokenMetrics, err := container.TokenMetrics()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tokenMetrics == nil {
		t.Error("expected no-op token metrics when metrics are disabled")
	}

	metricsServer, err := container.MetricsServer()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if metricsServer != nil {
		t.Error("expected nil metrics server when metrics are disabled")
	}
}

// TestContainerAPIServer verifies that the API server can be assembled.
func TestContainerAPIServer(t *testing.T) {
	container := NewContainer(testConfig(t))
	defer func() {
		if err := container.Shutdown(context.Background()); err != nil {
			t.Errorf("unexpected shutdown error: %v", err)
		}
	}()

	server, err := container.APIServer()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if server == nil {
		t.Fatal("expected non-nil api server")
	}
}

// TestContainerShutdown verifies shutdown with nothing initialized.
func TestContainerShutdown(t *testing.T) {
	container := NewContainer(testConfig(t))

	if err := container.Shutdown(context.Background()); err != nil {
		t.Errorf("unexpected shutdown error: %v", err)
	}
}
