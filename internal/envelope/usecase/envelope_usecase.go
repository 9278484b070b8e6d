// Package usecase implements business logic orchestration for envelope
// cryptography operations.
//
// The use case layer resolves named apps from the registry and dispatches
// to the cipher engines built for each app's keyset. Engines are
// constructed once per app at startup; operations are pure in-memory
// transformations with no persistence, so there is no transaction
// management here.
package usecase

import (
	"context"
	"fmt"

	"github.com/ynpsss/labrador/internal/envelope/domain"
	"github.com/ynpsss/labrador/internal/envelope/service"
	apperrors "github.com/ynpsss/labrador/internal/errors"
)

// appEngines bundles the cipher engines built for one app's keyset.
type appEngines struct {
	app   *domain.App
	block service.BlockCipher
	aead  service.AEADCipher
}

// envelopeUseCase implements the EnvelopeUseCase interface.
type envelopeUseCase struct {
	engines map[string]*appEngines
	signer  service.Signer
}

// NewEnvelopeUseCase creates an EnvelopeUseCase over the configured app
// registry. The random source feeds envelope frame prefixes.
func NewEnvelopeUseCase(registry *domain.Registry, random service.RandomSource) EnvelopeUseCase {
	engines := make(map[string]*appEngines, registry.Len())
	for _, name := range registry.Names() {
		app, _ := registry.Get(name)
		engines[name] = &appEngines{
			app:   app,
			block: service.NewBlockCipher(app.Keyset, random),
			aead:  service.NewAEADCipher(app.Keyset),
		}
	}

	return &envelopeUseCase{
		engines: engines,
		signer:  service.NewSigner(),
	}
}

// resolve returns the engines for the named app, or ErrAppNotFound.
func (e *envelopeUseCase) resolve(appName string) (*appEngines, error) {
	engines, ok := e.engines[appName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrAppNotFound, appName)
	}
	return engines, nil
}

// EncryptMessage produces a base64 envelope bound to the recipient
// identity. An empty recipientID defaults to the app's platform id.
func (e *envelopeUseCase) EncryptMessage(
	ctx context.Context,
	appName, plaintext, recipientID string,
) (string, error) {
	engines, err := e.resolve(appName)
	if err != nil {
		return "", err
	}

	if recipientID == "" {
		recipientID = engines.app.PlatformID
	}

	return engines.block.EncryptMessage(plaintext, recipientID)
}

// DecryptMessage opens a base64 envelope and verifies the bound recipient
// identity. An empty recipientID defaults to the app's platform id.
func (e *envelopeUseCase) DecryptMessage(
	ctx context.Context,
	appName, ciphertextBase64, recipientID string,
) (string, error) {
	engines, err := e.resolve(appName)
	if err != nil {
		return "", err
	}

	if recipientID == "" {
		recipientID = engines.app.PlatformID
	}

	return engines.block.DecryptMessage(ciphertextBase64, recipientID)
}

// EncryptData encrypts plaintext on the hex data path.
func (e *envelopeUseCase) EncryptData(
	ctx context.Context,
	appName, plaintext string,
	iv []byte,
) (string, error) {
	engines, err := e.resolve(appName)
	if err != nil {
		return "", err
	}

	return engines.block.EncryptData(plaintext, iv)
}

// DecryptData reverses EncryptData.
func (e *envelopeUseCase) DecryptData(
	ctx context.Context,
	appName, ciphertextHex string,
	iv []byte,
) (string, error) {
	engines, err := e.resolve(appName)
	if err != nil {
		return "", err
	}

	return engines.block.DecryptData(ciphertextHex, iv)
}

// EncryptAEAD seals plaintext with AES-256-GCM under the app's keyset.
func (e *envelopeUseCase) EncryptAEAD(
	ctx context.Context,
	appName string,
	associatedData, nonce, plaintext []byte,
) (*AEADResult, error) {
	engines, err := e.resolve(appName)
	if err != nil {
		return nil, err
	}

	ciphertext, tag, err := engines.aead.Encrypt(associatedData, nonce, plaintext)
	if err != nil {
		return nil, err
	}

	return &AEADResult{Ciphertext: ciphertext, Tag: tag}, nil
}

// DecryptAEAD verifies and opens an AEAD ciphertext.
func (e *envelopeUseCase) DecryptAEAD(
	ctx context.Context,
	appName string,
	associatedData, nonce, ciphertext, tag []byte,
) ([]byte, error) {
	engines, err := e.resolve(appName)
	if err != nil {
		return nil, err
	}

	return engines.aead.Decrypt(associatedData, nonce, ciphertext, tag)
}

// SignRSA signs content with the app's configured RSA private key.
func (e *envelopeUseCase) SignRSA(
	ctx context.Context,
	appName, content string,
	encoding service.KeyEncoding,
) (string, error) {
	engines, err := e.resolve(appName)
	if err != nil {
		return "", err
	}

	if len(engines.app.RSAPrivateKey) == 0 {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "app has no rsa private key configured")
	}

	return e.signer.SignRSASHA256(content, engines.app.RSAPrivateKey, encoding)
}

// VerifyRSA verifies a base64 RSA-SHA256 signature with the app's
// configured public key.
func (e *envelopeUseCase) VerifyRSA(
	ctx context.Context,
	appName, content, signatureBase64 string,
) (bool, error) {
	engines, err := e.resolve(appName)
	if err != nil {
		return false, err
	}

	if len(engines.app.RSAPublicKey) == 0 {
		return false, apperrors.Wrap(apperrors.ErrInvalidInput, "app has no rsa public key configured")
	}

	return e.signer.VerifyRSASHA256(engines.app.RSAPublicKey, content, signatureBase64)
}

// SignHMAC computes the hex HMAC-SHA256 of message with the app's secret.
func (e *envelopeUseCase) SignHMAC(ctx context.Context, appName, message string) (string, error) {
	engines, err := e.resolve(appName)
	if err != nil {
		return "", err
	}

	if engines.app.HMACSecret == "" {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "app has no hmac secret configured")
	}

	return e.signer.SignHMACSHA256(engines.app.HMACSecret, message), nil
}
