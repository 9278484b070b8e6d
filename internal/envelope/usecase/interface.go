package usecase

import (
	"context"

	"github.com/ynpsss/labrador/internal/envelope/service"
)

// AEADResult carries the output of an AEAD seal: ciphertext and the
// detached authentication tag. The nonce and associated data are the
// caller's to transport; they are never part of the result.
type AEADResult struct {
	Ciphertext []byte
	Tag        []byte
}

// EnvelopeUseCase defines envelope cryptography operations resolved against
// a named app. Every operation looks up the app's credential context and
// dispatches to the matching cipher engine.
type EnvelopeUseCase interface {
	// EncryptMessage produces a base64 envelope for the app. An empty
	// recipientID defaults to the app's platform id.
	EncryptMessage(ctx context.Context, appName, plaintext, recipientID string) (string, error)

	// DecryptMessage opens a base64 envelope and verifies the bound
	// recipient identity. An empty recipientID defaults to the app's
	// platform id.
	DecryptMessage(ctx context.Context, appName, ciphertextBase64, recipientID string) (string, error)

	// EncryptData encrypts plaintext on the hex data path with a
	// caller-supplied IV.
	EncryptData(ctx context.Context, appName, plaintext string, iv []byte) (string, error)

	// DecryptData reverses EncryptData.
	DecryptData(ctx context.Context, appName, ciphertextHex string, iv []byte) (string, error)

	// EncryptAEAD seals plaintext with AES-256-GCM and returns the
	// ciphertext with a detached tag.
	EncryptAEAD(ctx context.Context, appName string, associatedData, nonce, plaintext []byte) (*AEADResult, error)

	// DecryptAEAD verifies and opens an AEAD ciphertext.
	DecryptAEAD(ctx context.Context, appName string, associatedData, nonce, ciphertext, tag []byte) ([]byte, error)

	// SignRSA signs content with the app's RSA private key and returns the
	// base64 signature.
	SignRSA(ctx context.Context, appName, content string, encoding service.KeyEncoding) (string, error)

	// VerifyRSA verifies a base64 RSA-SHA256 signature with the app's
	// public key. A well-formed but non-matching signature yields
	// (false, nil).
	VerifyRSA(ctx context.Context, appName, content, signatureBase64 string) (bool, error)

	// SignHMAC computes the hex HMAC-SHA256 of message with the app's
	// HMAC secret.
	SignHMAC(ctx context.Context, appName, message string) (string, error)
}
