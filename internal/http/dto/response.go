package dto

import (
	"time"

	"github.com/svckit/svckit/internal/token"
)

// IssueTokenResponse contains the result of issuing a token.
// SECURITY: The token is only returned once and must be saved securely.
type IssueTokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// WhoAmIResponse represents the verified identity of the caller.
type WhoAmIResponse struct {
	Subject   string    `json:"subject"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// MapClaimsToWhoAmI converts verified token claims to an API response.
func MapClaimsToWhoAmI(claims *token.Claims) WhoAmIResponse {
	return WhoAmIResponse{
		Subject:   claims.Subject,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt,
	}
}
