// Package integration provides end-to-end tests for the API assembled
// through the dependency injection container.
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svckit/svckit/internal/app"
	"github.com/svckit/svckit/internal/config"
)

// TestMain sets Gin to test mode for all tests in this package.
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// apiTestContext holds all dependencies and state for integration testing.
type apiTestContext struct {
	container *app.Container
	server    *httptest.Server
}

func setupAPI(t *testing.T) *apiTestContext {
	t.Helper()

	cfg := &config.Config{
		LogLevel:         "error",
		LogDirectory:     t.TempDir(),
		LogRetentionDays: 30,
		ServerHost:       "localhost",
		ServerPort:       8080,
		SecretKey:        "integration-test-secret",
		TokenExpiration:  30 * time.Minute,
		MetricsEnabled:   true,
		MetricsNamespace: "svckit_integration",
		MetricsPort:      9090,
	}
	require.NoError(t, cfg.Validate())

	container := app.NewContainer(cfg)

	apiServer, err := container.APIServer()
	require.NoError(t, err)

	server := httptest.NewServer(apiServer.GetHandler())

	t.Cleanup(func() {
		server.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		assert.NoError(t, container.Shutdown(shutdownCtx))
	})

	return &apiTestContext{
		container: container,
		server:    server,
	}
}

// makeRequest performs an HTTP request and returns the response and body.
func (ctx *apiTestContext) makeRequest(
	t *testing.T,
	method, path string,
	body interface{},
	bearer string,
) (*http.Response, []byte) {
	t.Helper()

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		require.NoError(t, err, "failed to marshal request body")
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequest(method, ctx.server.URL+path, bodyReader)
	require.NoError(t, err, "failed to create request")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	require.NoError(t, err, "failed to perform request")

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")
	require.NoError(t, resp.Body.Close())

	return resp, respBody
}

// issueToken issues a token through the API and returns the signed string.
func (ctx *apiTestContext) issueToken(t *testing.T, subject, role string) string {
	t.Helper()

	resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/tokens", map[string]any{
		"subject": subject,
		"role":    role,
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &envelope))
	require.True(t, envelope.Success)
	require.NotEmpty(t, envelope.Data.AccessToken)

	return envelope.Data.AccessToken
}

func TestAPI_HealthAndReadiness(t *testing.T) {
	ctx := setupAPI(t)

	resp, body := ctx.makeRequest(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "healthy")

	resp, body = ctx.makeRequest(t, http.MethodGet, "/ready", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "ready")
}

func TestAPI_TokenLifecycle(t *testing.T) {
	ctx := setupAPI(t)

	signed := ctx.issueToken(t, "svc-reporting", "reader")

	resp, body := ctx.makeRequest(t, http.MethodGet, "/v1/whoami", nil, signed)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			Subject string `json:"subject"`
			Role    string `json:"role"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, "svc-reporting", envelope.Data.Subject)
	assert.Equal(t, "reader", envelope.Data.Role)
}

func TestAPI_RejectsBadCredentials(t *testing.T) {
	ctx := setupAPI(t)

	t.Run("NoToken", func(t *testing.T) {
		resp, body := ctx.makeRequest(t, http.MethodGet, "/v1/whoami", nil, "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		var envelope map[string]interface{}
		require.NoError(t, json.Unmarshal(body, &envelope))
		assert.Equal(t, false, envelope["Success"])
	})

	t.Run("GarbageToken", func(t *testing.T) {
		resp, _ := ctx.makeRequest(t, http.MethodGet, "/v1/whoami", nil, "garbage")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("InvalidIssueRequest", func(t *testing.T) {
		resp, body := ctx.makeRequest(t, http.MethodPost, "/v1/tokens", map[string]any{
			"subject": "",
			"role":    "reader",
		}, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var envelope map[string]interface{}
		require.NoError(t, json.Unmarshal(body, &envelope))
		assert.Equal(t, false, envelope["Success"])
	})
}

func TestAPI_MetricsEndpoint(t *testing.T) {
	ctx := setupAPI(t)

	// Generate some traffic first
	ctx.issueToken(t, "svc-metrics", "reader")

	provider, err := ctx.container.MetricsProvider()
	require.NoError(t, err)
	require.NotNil(t, provider)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	provider.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "svckit_integration_tokens_issued_total")
}

func TestAPI_DiagnosticLogCapturesTraffic(t *testing.T) {
	ctx := setupAPI(t)

	ctx.issueToken(t, "svc-logged", "reader")

	diag := ctx.container.DiagnosticLogger()
	data, err := os.ReadFile(filepath.Join(diag.Directory(), "access.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "POST /v1/tokens 201")
}
