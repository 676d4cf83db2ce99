// Package token issues and verifies the signed access tokens carried by API
// requests, and provides the password hashing used to authenticate callers.
// Tokens are HMAC-SHA256 JWTs carrying at minimum a subject and a role claim.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	validation "github.com/jellydator/validation"

	apperrors "github.com/svckit/svckit/internal/errors"
	customValidation "github.com/svckit/svckit/internal/validation"
)

// DefaultTTL is the token lifetime used when the caller does not supply one.
const DefaultTTL = 30 * time.Minute

// Claim names required in every verified token.
const (
	ClaimSubject = "sub"
	ClaimRole    = "role"
	ClaimExpires = "exp"
)

// Config holds the token service configuration.
// Secret is mandatory: NewService fails without it, so a misconfigured signing
// secret aborts startup instead of failing per request.
type Config struct {
	// Secret is the server-held HMAC signing secret.
	Secret string
	// TTL is the default token lifetime. Zero means DefaultTTL.
	TTL time.Duration
	// BCryptCost is the bcrypt work factor. Zero means bcrypt.DefaultCost.
	BCryptCost int
}

// Service signs and verifies access tokens. Instances are immutable after
// construction and safe for concurrent use.
type Service struct {
	secret []byte
	ttl    time.Duration
	cost   int
	now    func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithClock overrides the time source. Intended for tests, where a fixed clock
// makes issuance a pure function of claims, time, and secret.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a token Service from configuration.
// Returns an error when the signing secret is missing or the TTL is negative;
// callers are expected to treat this as fatal at boot.
func NewService(cfg Config, opts ...Option) (*Service, error) {
	if cfg.Secret == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "signing secret is not configured")
	}
	if cfg.TTL < 0 {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "token TTL must not be negative")
	}

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}

	s := &Service{
		secret: []byte(cfg.Secret),
		ttl:    ttl,
		cost:   cfg.BCryptCost,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Claims is the validated projection of a verified token.
type Claims struct {
	// Subject identifies the authenticated principal.
	Subject string
	// Role is the authorization role claim.
	Role string
	// ExpiresAt is the token expiry instant.
	ExpiresAt time.Time
	// Raw exposes the full decoded claim set for caller-supplied fields.
	Raw map[string]any
}

// CurrentSubject returns the authenticated subject.
// Assumes Verify has already succeeded.
func (c *Claims) CurrentSubject() string {
	return c.Subject
}

// CurrentRole returns the authorization role for downstream checks.
// Assumes Verify has already succeeded.
func (c *Claims) CurrentRole() string {
	return c.Role
}

// Issue signs a new token carrying the given claims plus an expiry of now+TTL.
// The claim set must contain non-blank "sub" and "role" string claims. An
// explicit ttl overrides the service default for this token only.
//
// Issuance is deterministic for a fixed clock: identical claims signed at the
// same instant with the same secret produce tokens with equal decoded claims.
func (s *Service) Issue(claims map[string]any, ttl ...time.Duration) (string, error) {
	subject, _ := claims[ClaimSubject].(string)
	role, _ := claims[ClaimRole].(string)

	err := validation.Errors{
		ClaimSubject: validation.Validate(subject, validation.Required, customValidation.NotBlank),
		ClaimRole:    validation.Validate(role, validation.Required, customValidation.NotBlank),
	}.Filter()
	if err != nil {
		return "", customValidation.WrapValidationError(err)
	}

	lifetime := s.ttl
	if len(ttl) > 0 && ttl[0] > 0 {
		lifetime = ttl[0]
	}

	mapClaims := jwt.MapClaims{}
	for name, value := range claims {
		mapClaims[name] = value
	}
	mapClaims[ClaimExpires] = s.now().Add(lifetime).Unix()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, mapClaims).SignedString(s.secret)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to sign token")
	}

	return signed, nil
}

// Verify decodes and validates a token string.
// It rejects tokens with a wrong signing method, an invalid signature, a
// missing or passed expiry, or missing/blank subject or role claims. Every
// rejection wraps ErrUnauthorized; Verify never panics on malformed input.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	parsed, err := parser.Parse(tokenString, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUnauthorized, "invalid token: "+err.Error())
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, apperrors.Wrap(apperrors.ErrUnauthorized, "invalid token claims")
	}

	subject, _ := mapClaims[ClaimSubject].(string)
	role, _ := mapClaims[ClaimRole].(string)
	if subject == "" || role == "" {
		return nil, apperrors.Wrap(apperrors.ErrUnauthorized, "token is missing subject or role claim")
	}

	expiresAt, err := mapClaims.GetExpirationTime()
	if err != nil || expiresAt == nil {
		return nil, apperrors.Wrap(apperrors.ErrUnauthorized, "token is missing expiry claim")
	}

	return &Claims{
		Subject:   subject,
		Role:      role,
		ExpiresAt: expiresAt.Time,
		Raw:       mapClaims,
	}, nil
}
