// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/svckit/svckit/internal/validation"
)

// IssueTokenRequest contains the parameters for issuing a new access token.
type IssueTokenRequest struct {
	Subject    string         `json:"subject"`
	Role       string         `json:"role"`
	TTLMinutes int            `json:"ttl_minutes"`
	Extra      map[string]any `json:"extra"`
}

// Validate checks if the issue token request is valid.
func (r *IssueTokenRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Subject,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.Role,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.TTLMinutes,
			validation.Min(0),
		),
	)
}
