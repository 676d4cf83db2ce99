package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	apperrors "github.com/svckit/svckit/internal/errors"
	"github.com/svckit/svckit/internal/httputil"
	"github.com/svckit/svckit/internal/logging"
	"github.com/svckit/svckit/internal/metrics"
	"github.com/svckit/svckit/internal/token"
)

// CustomLoggerMiddleware logs every HTTP request through the structured logger
// and mirrors a single line into the diagnostic access log when one is given.
func CustomLoggerMiddleware(logger *slog.Logger, diag *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()

		logger.Info("http request",
			slog.String("request_id", requestid.Get(c)),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Duration("duration", duration),
			slog.String("client_ip", c.ClientIP()),
		)

		if diag != nil {
			line := fmt.Sprintf("%s %s %d %s", c.Request.Method, c.Request.URL.Path, status, duration)
			if status >= http.StatusInternalServerError {
				diag.Error(line)
			} else {
				diag.Info(line)
			}
		}
	}
}

// AuthenticationMiddleware provides authentication via Bearer token in the
// Authorization header.
//
// The middleware:
// 1. Extracts the Bearer token from the Authorization header (case-insensitive)
// 2. Verifies the token signature, expiry, and required claims
// 3. Stores the verified claims in the request context
// 4. Allows downstream handlers to access the claims via GetClaims()
//
// Authorization header format: "Bearer <token>" (case-insensitive "bearer")
//
// Error handling:
//   - Missing Authorization header → 401 Unauthorized
//   - Malformed Authorization header → 401 Unauthorized
//   - Invalid/expired/incomplete token → 401 Unauthorized (from Service.Verify)
func AuthenticationMiddleware(
	service *token.Service,
	tokenMetrics metrics.TokenMetrics,
	logger *slog.Logger,
) gin.HandlerFunc {
	if tokenMetrics == nil {
		tokenMetrics = metrics.NewNoOpTokenMetrics()
	}

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Debug("authentication failed: missing authorization header")
			httputil.HandleError(c, apperrors.ErrUnauthorized, "", logger)
			c.Abort()
			return
		}

		// Parse Bearer token (case-insensitive)
		const bearerPrefix = "bearer "
		if len(authHeader) < len(bearerPrefix) ||
			!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			logger.Debug("authentication failed: malformed authorization header")
			httputil.HandleError(c, apperrors.ErrUnauthorized, "", logger)
			c.Abort()
			return
		}

		tokenString := authHeader[len(bearerPrefix):]
		if tokenString == "" {
			logger.Debug("authentication failed: empty bearer token")
			httputil.HandleError(c, apperrors.ErrUnauthorized, "", logger)
			c.Abort()
			return
		}

		claims, err := service.Verify(tokenString)
		if err != nil {
			tokenMetrics.RecordVerification(c.Request.Context(), "rejected")
			logger.Debug("authentication failed",
				slog.String("error", err.Error()))
			httputil.HandleError(c, err, "", logger)
			c.Abort()
			return
		}

		tokenMetrics.RecordVerification(c.Request.Context(), "success")

		ctx := WithClaims(c.Request.Context(), claims)
		c.Request = c.Request.WithContext(ctx)

		logger.Debug("authentication successful",
			slog.String("subject", claims.Subject),
			slog.String("role", claims.Role))

		c.Next()
	}
}

// rateLimiterStore holds per-subject rate limiters.
type rateLimiterStore struct {
	limiters sync.Map // map[string]*rateLimiterEntry
	rps      float64
	burst    int
}

// rateLimiterEntry holds a rate limiter and last access time for cleanup.
type rateLimiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
	mu         sync.Mutex
}

// RateLimitMiddleware enforces per-subject rate limiting on authenticated requests.
//
// MUST be used after AuthenticationMiddleware (requires verified claims in
// context). Uses the token bucket algorithm via golang.org/x/time/rate; each
// subject gets an independent limiter.
//
// Returns:
//   - 429 Too Many Requests: Rate limit exceeded (includes Retry-After header)
//   - Continues: Request allowed within rate limit
func RateLimitMiddleware(rps float64, burst int, logger *slog.Logger) gin.HandlerFunc {
	store := &rateLimiterStore{
		rps:   rps,
		burst: burst,
	}

	// Drop limiters for subjects not seen in the last hour
	go store.cleanupStale(context.Background(), 5*time.Minute)

	return func(c *gin.Context) {
		claims, ok := GetClaims(c.Request.Context())
		if !ok || claims == nil {
			// Should never happen, authentication middleware runs first
			logger.Error("rate limit middleware: no verified claims in context")
			httputil.HandleError(c, apperrors.ErrUnauthorized, "", logger)
			c.Abort()
			return
		}

		limiter := store.getLimiter(claims.Subject)

		if !limiter.Allow() {
			reservation := limiter.Reserve()
			retryAfter := int(reservation.Delay().Seconds())
			reservation.Cancel()

			logger.Debug("rate limit exceeded",
				slog.String("subject", claims.Subject),
				slog.Int("retry_after", retryAfter))

			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "rate_limit_exceeded",
				"message": "Too many requests. Please retry after the specified delay.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// getLimiter retrieves or creates a rate limiter for a subject.
func (s *rateLimiterStore) getLimiter(subject string) *rate.Limiter {
	if val, ok := s.limiters.Load(subject); ok {
		entry := val.(*rateLimiterEntry)
		entry.mu.Lock()
		entry.lastAccess = time.Now()
		entry.mu.Unlock()
		return entry.limiter
	}

	limiter := rate.NewLimiter(rate.Limit(s.rps), s.burst)
	entry := &rateLimiterEntry{
		limiter:    limiter,
		lastAccess: time.Now(),
	}

	s.limiters.Store(subject, entry)
	return limiter
}

// cleanupStale removes rate limiters that haven't been accessed recently.
// Runs periodically to prevent unbounded memory growth.
func (s *rateLimiterStore) cleanupStale(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			threshold := time.Now().Add(-1 * time.Hour)
			s.limiters.Range(func(key, value interface{}) bool {
				entry := value.(*rateLimiterEntry)
				entry.mu.Lock()
				shouldDelete := entry.lastAccess.Before(threshold)
				entry.mu.Unlock()

				if shouldDelete {
					s.limiters.Delete(key)
				}
				return true
			})
		}
	}
}
