package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/svckit/svckit/internal/config"
	"github.com/svckit/svckit/internal/http/dto"
	"github.com/svckit/svckit/internal/httputil"
	"github.com/svckit/svckit/internal/logging"
	"github.com/svckit/svckit/internal/metrics"
	"github.com/svckit/svckit/internal/response"
	"github.com/svckit/svckit/internal/token"
	customValidation "github.com/svckit/svckit/internal/validation"
)

// Server represents the API server.
type Server struct {
	server          *http.Server
	logger          *slog.Logger
	diag            *logging.Logger
	tokenService    *token.Service
	tokenMetrics    metrics.TokenMetrics
	metricsProvider *metrics.Provider
	cfg             *config.Config
}

// NewServer creates a new API server.
// The metrics provider and diagnostic logger may be nil; the corresponding
// middleware is skipped.
func NewServer(
	cfg *config.Config,
	tokenService *token.Service,
	tokenMetrics metrics.TokenMetrics,
	metricsProvider *metrics.Provider,
	diag *logging.Logger,
	logger *slog.Logger,
) *Server {
	if tokenMetrics == nil {
		tokenMetrics = metrics.NewNoOpTokenMetrics()
	}

	s := &Server{
		logger:          logger,
		diag:            diag,
		tokenService:    tokenService,
		tokenMetrics:    tokenMetrics,
		metricsProvider: metricsProvider,
		cfg:             cfg,
	}

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:      s.buildRouter(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// buildRouter assembles the gin engine with the middleware chain and routes.
func (s *Server) buildRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger, s.diag))

	if s.metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(
			s.metricsProvider.MeterProvider(),
			s.cfg.MetricsNamespace,
		))
	}

	if corsMiddleware := createCORSMiddleware(
		s.cfg.CORSEnabled,
		s.cfg.CORSAllowOrigins,
		s.logger,
	); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")
	v1.POST("/tokens", s.issueTokenHandler)

	protected := v1.Group("")
	protected.Use(AuthenticationMiddleware(s.tokenService, s.tokenMetrics, s.logger))
	if s.cfg.RateLimitEnabled {
		protected.Use(RateLimitMiddleware(
			s.cfg.RateLimitRequestsPerSec,
			s.cfg.RateLimitBurst,
			s.logger,
		))
	}
	protected.GET("/whoami", s.whoAmIHandler)

	return router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start starts the API server.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting api server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start api server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down api server")
	return s.server.Shutdown(ctx)
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can serve token operations.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{}
	ready := true

	if s.tokenService == nil {
		components["token_service"] = "error"
		ready = false
	} else {
		components["token_service"] = "ok"
	}

	if s.diag == nil {
		components["diagnostic_log"] = "disabled"
	} else {
		components["diagnostic_log"] = "ok"
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": components,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": components,
	})
}

// issueTokenHandler issues a new signed access token.
// POST /v1/tokens - No authentication required (this is the authentication endpoint).
// Returns 201 Created with the token and its expiration time.
func (s *Server) issueTokenHandler(c *gin.Context) {
	start := time.Now()

	var req dto.IssueTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequest(c, err, s.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationError(c, customValidation.WrapValidationError(err), s.logger)
		return
	}

	claims := map[string]any{
		token.ClaimSubject: req.Subject,
		token.ClaimRole:    req.Role,
	}
	for key, value := range req.Extra {
		claims[key] = value
	}

	var ttl []time.Duration
	if req.TTLMinutes > 0 {
		ttl = append(ttl, time.Duration(req.TTLMinutes)*time.Minute)
	}

	signed, err := s.tokenService.Issue(claims, ttl...)
	if err != nil {
		s.tokenMetrics.RecordIssue(c.Request.Context(), "error")
		s.tokenMetrics.RecordDuration(c.Request.Context(), "issue", time.Since(start), "error")
		httputil.HandleError(c, err, "Token", s.logger)
		return
	}

	// Decode the freshly issued token for its exact expiry
	verified, err := s.tokenService.Verify(signed)
	if err != nil {
		s.tokenMetrics.RecordIssue(c.Request.Context(), "error")
		httputil.HandleError(c, err, "Token", s.logger)
		return
	}

	s.tokenMetrics.RecordIssue(c.Request.Context(), "success")
	s.tokenMetrics.RecordDuration(c.Request.Context(), "issue", time.Since(start), "success")

	env, code := response.Created(dto.IssueTokenResponse{
		AccessToken: signed,
		TokenType:   "bearer",
		ExpiresAt:   verified.ExpiresAt,
	}, "")
	httputil.Render(c, env, code)
}

// whoAmIHandler returns the verified identity of the caller.
// GET /v1/whoami - Requires a valid Bearer token.
func (s *Server) whoAmIHandler(c *gin.Context) {
	claims, ok := GetClaims(c.Request.Context())
	if !ok {
		// Should never happen if middleware is working correctly
		env, code := response.Unauthorized("")
		httputil.Render(c, env, code)
		return
	}

	env, code := response.Success(dto.MapClaimsToWhoAmI(claims), "", 0)
	httputil.Render(c, env, code)
}
