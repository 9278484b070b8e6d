package commands

import (
	"fmt"

	authService "github.com/ynpsss/labrador/internal/auth/service"
)

// RunHashSecret hashes an existing plain secret with Argon2id for use in the
// AUTH_CLIENTS configuration. Use create-client-secret to generate a fresh
// secret instead.
func RunHashSecret(plainSecret string, io IOTuple) error {
	if plainSecret == "" {
		return fmt.Errorf("secret is required")
	}

	secretService := authService.NewSecretService()

	hashedSecret, err := secretService.HashSecret(plainSecret)
	if err != nil {
		return fmt.Errorf("failed to hash secret: %w", err)
	}

	fmt.Fprintln(io.Writer, hashedSecret)
	return nil
}
