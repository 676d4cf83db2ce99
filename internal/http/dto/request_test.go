package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIssueTokenRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		request IssueTokenRequest
		wantErr bool
	}{
		{
			name:    "Valid",
			request: IssueTokenRequest{Subject: "user-1", Role: "admin"},
			wantErr: false,
		},
		{
			name:    "ValidWithTTL",
			request: IssueTokenRequest{Subject: "user-1", Role: "admin", TTLMinutes: 60},
			wantErr: false,
		},
		{
			name:    "MissingSubject",
			request: IssueTokenRequest{Role: "admin"},
			wantErr: true,
		},
		{
			name:    "BlankSubject",
			request: IssueTokenRequest{Subject: "   ", Role: "admin"},
			wantErr: true,
		},
		{
			name:    "MissingRole",
			request: IssueTokenRequest{Subject: "user-1"},
			wantErr: true,
		},
		{
			name:    "NegativeTTL",
			request: IssueTokenRequest{Subject: "user-1", Role: "admin", TTLMinutes: -5},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
