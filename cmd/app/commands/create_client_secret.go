package commands

import (
	"encoding/json"
	"fmt"

	authService "github.com/ynpsss/labrador/internal/auth/service"
)

// clientSecretOutput is the result of generating a client secret.
type clientSecretOutput struct {
	Name       string `json:"name"`
	Secret     string `json:"secret"`
	SecretHash string `json:"secret_hash"`
}

// RunCreateClientSecret generates a new random secret for an API client and
// prints the secret alongside its Argon2id hash. The hash goes into the
// AUTH_CLIENTS configuration; the plain secret is shown only once.
func RunCreateClientSecret(name, format string, io IOTuple) error {
	if name == "" {
		return fmt.Errorf("client name is required")
	}

	secretService := authService.NewSecretService()

	secret, secretHash, err := secretService.GenerateSecret()
	if err != nil {
		return fmt.Errorf("failed to generate secret: %w", err)
	}

	output := clientSecretOutput{
		Name:       name,
		Secret:     secret,
		SecretHash: secretHash,
	}

	if format == "json" {
		encoder := json.NewEncoder(io.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(output); err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
		return nil
	}

	entry, err := json.Marshal(map[string]string{
		"name":        output.Name,
		"secret_hash": output.SecretHash,
	})
	if err != nil {
		return fmt.Errorf("failed to encode clients entry: %w", err)
	}

	fmt.Fprintf(io.Writer, "Client name: %s\n", output.Name)
	fmt.Fprintf(io.Writer, "Secret (save it now, it is not stored): %s\n", output.Secret)
	fmt.Fprintf(io.Writer, "AUTH_CLIENTS entry: %s\n", entry)
	return nil
}
