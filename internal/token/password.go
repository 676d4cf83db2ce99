package token

import (
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/svckit/svckit/internal/errors"
)

// maxPasswordBytes is bcrypt's hard input limit. Longer passwords are silently
// truncated before hashing and comparison, matching the underlying primitive.
// Known tradeoff: bytes past the limit do not contribute to the digest, but the
// hash/verify pair stays internally consistent for any input length.
const maxPasswordBytes = 72

// HashPassword hashes a plain text password with bcrypt.
// Input longer than 72 bytes is truncated rather than rejected.
func (s *Service) HashPassword(password string) (string, error) {
	cost := s.cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	digest, err := bcrypt.GenerateFromPassword(truncatePassword(password), cost)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash password")
	}

	return string(digest), nil
}

// VerifyPassword reports whether the password matches the stored digest.
// Applies the same 72-byte truncation as HashPassword, so long passwords
// round-trip consistently.
func (s *Service) VerifyPassword(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), truncatePassword(password)) == nil
}

func truncatePassword(password string) []byte {
	b := []byte(password)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}
