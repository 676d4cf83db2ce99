package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/svckit/svckit/internal/token"
)

// RunIssueToken issues a signed access token and writes it to the given writer.
// Supports both text and JSON output formats.
func RunIssueToken(
	service *token.Service,
	w io.Writer,
	subject string,
	role string,
	ttlMinutes int,
	format string,
) error {
	claims := map[string]any{
		token.ClaimSubject: subject,
		token.ClaimRole:    role,
	}

	var ttl []time.Duration
	if ttlMinutes > 0 {
		ttl = append(ttl, time.Duration(ttlMinutes)*time.Minute)
	}

	signed, err := service.Issue(claims, ttl...)
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}

	// Decode the issued token for its exact expiry
	verified, err := service.Verify(signed)
	if err != nil {
		return fmt.Errorf("failed to verify issued token: %w", err)
	}

	if format == "json" {
		return outputIssueTokenJSON(w, signed, verified.ExpiresAt)
	}
	return outputIssueTokenText(w, signed, verified.ExpiresAt)
}

// outputIssueTokenText outputs the result in human-readable text format.
func outputIssueTokenText(w io.Writer, signed string, expiresAt time.Time) error {
	fmt.Fprintf(w, "Token: %s\n", signed)
	fmt.Fprintf(w, "Expires at: %s\n", expiresAt.Format(time.RFC3339))
	return nil
}

// outputIssueTokenJSON outputs the result in JSON format for machine consumption.
func outputIssueTokenJSON(w io.Writer, signed string, expiresAt time.Time) error {
	result := map[string]interface{}{
		"token":      signed,
		"expires_at": expiresAt.Format(time.RFC3339),
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}
