// Package http provides the HTTP server, middleware, and request handlers.
package http

import (
	"context"

	"github.com/svckit/svckit/internal/token"
)

// claimsKey is a context key type for storing verified token claims.
type claimsKey struct{}

// WithClaims stores verified token claims in the context.
// This is typically called by the authentication middleware after successful
// token verification.
func WithClaims(ctx context.Context, claims *token.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// GetClaims retrieves verified token claims from the context.
// Returns (claims, true) if claims are present, or (nil, false) if no claims
// were set. This is typically called by handlers or subsequent middleware that
// need the authenticated subject.
func GetClaims(ctx context.Context) (*token.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*token.Claims)
	return claims, ok
}
