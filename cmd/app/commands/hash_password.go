package commands

import (
	"fmt"
	"io"

	"github.com/svckit/svckit/internal/token"
)

// RunHashPassword hashes a plaintext password with bcrypt and writes the
// digest to the given writer. Passwords longer than 72 bytes are silently
// truncated by the hasher.
func RunHashPassword(service *token.Service, w io.Writer, password string) error {
	if password == "" {
		return fmt.Errorf("password must not be empty")
	}

	digest, err := service.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	fmt.Fprintln(w, digest)
	return nil
}
