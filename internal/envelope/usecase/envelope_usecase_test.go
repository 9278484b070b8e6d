package usecase_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ynpsss/labrador/internal/envelope/domain"
	"github.com/ynpsss/labrador/internal/envelope/service"
	"github.com/ynpsss/labrador/internal/envelope/usecase"
	apperrors "github.com/ynpsss/labrador/internal/errors"
)

// testRegistry builds a registry with two apps: "messaging" carries a
// 16-byte key plus RSA and HMAC material, "files" carries a 32-byte key
// suitable for AEAD operations.
func testRegistry(t *testing.T) *domain.Registry {
	t.Helper()

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	privatePEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(privateKey),
	})
	publicDER, err := x509.MarshalPKIXPublicKey(&privateKey.PublicKey)
	require.NoError(t, err)
	publicPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: publicDER,
	})

	specs := []map[string]string{
		{
			"name":            "messaging",
			"platform_id":     "wx-app-42",
			"key":             "MDEyMzQ1Njc4OWFiY2RlZg==", // "0123456789abcdef"
			"rsa_private_key": string(privatePEM),
			"rsa_public_key":  string(publicPEM),
			"hmac_secret":     "key",
		},
		{
			"name":        "files",
			"platform_id": "wx-app-43",
			"key":         "MDEyMzQ1Njc4OWFiY2RlZjAxMjM0NTY3ODlhYmNkZWY=", // 32 bytes
		},
	}
	raw, err := json.Marshal(specs)
	require.NoError(t, err)

	registry, err := domain.NewRegistryFromJSON(string(raw))
	require.NoError(t, err)
	return registry
}

func newTestUseCase(t *testing.T) usecase.EnvelopeUseCase {
	t.Helper()
	random := service.NewFixedRandomSource([]byte("1234567890123456"))
	return usecase.NewEnvelopeUseCase(testRegistry(t), random)
}

func TestEnvelopeUseCase_Messages(t *testing.T) {
	ctx := context.Background()
	uc := newTestUseCase(t)

	t.Run("round trip with default recipient", func(t *testing.T) {
		envelope, err := uc.EncryptMessage(ctx, "messaging", "hello platform", "")
		require.NoError(t, err)

		plaintext, err := uc.DecryptMessage(ctx, "messaging", envelope, "")
		require.NoError(t, err)
		assert.Equal(t, "hello platform", plaintext)
	})

	t.Run("explicit recipient overrides platform id", func(t *testing.T) {
		envelope, err := uc.EncryptMessage(ctx, "messaging", "direct", "agent-7")
		require.NoError(t, err)

		plaintext, err := uc.DecryptMessage(ctx, "messaging", envelope, "agent-7")
		require.NoError(t, err)
		assert.Equal(t, "direct", plaintext)

		// The default recipient is the platform id, which does not match.
		_, err = uc.DecryptMessage(ctx, "messaging", envelope, "")
		assert.ErrorIs(t, err, domain.ErrIdentityMismatch)
	})

	t.Run("unknown app", func(t *testing.T) {
		_, err := uc.EncryptMessage(ctx, "ghost", "hello", "")
		assert.ErrorIs(t, err, domain.ErrAppNotFound)

		_, err = uc.DecryptMessage(ctx, "ghost", "aGVsbG8=", "")
		assert.ErrorIs(t, err, domain.ErrAppNotFound)
	})
}

func TestEnvelopeUseCase_Data(t *testing.T) {
	ctx := context.Background()
	uc := newTestUseCase(t)
	iv := []byte("abcdefghijklmnop")

	t.Run("round trip", func(t *testing.T) {
		ciphertext, err := uc.EncryptData(ctx, "messaging", `{"session":"ok"}`, iv)
		require.NoError(t, err)

		plaintext, err := uc.DecryptData(ctx, "messaging", ciphertext, iv)
		require.NoError(t, err)
		assert.Equal(t, `{"session":"ok"}`, plaintext)
	})

	t.Run("unknown app", func(t *testing.T) {
		_, err := uc.EncryptData(ctx, "ghost", "data", iv)
		assert.ErrorIs(t, err, domain.ErrAppNotFound)
	})
}

func TestEnvelopeUseCase_AEAD(t *testing.T) {
	ctx := context.Background()
	uc := newTestUseCase(t)
	nonce := []byte("123456789012")
	associatedData := []byte("certificate-v1")

	t.Run("round trip with 32-byte key", func(t *testing.T) {
		result, err := uc.EncryptAEAD(ctx, "files", associatedData, nonce, []byte("download token"))
		require.NoError(t, err)
		assert.Len(t, result.Tag, 16)

		plaintext, err := uc.DecryptAEAD(ctx, "files", associatedData, nonce, result.Ciphertext, result.Tag)
		require.NoError(t, err)
		assert.Equal(t, []byte("download token"), plaintext)
	})

	t.Run("16-byte key is rejected", func(t *testing.T) {
		_, err := uc.EncryptAEAD(ctx, "messaging", associatedData, nonce, []byte("x"))
		assert.ErrorIs(t, err, domain.ErrCipher)
	})

	t.Run("tampered tag", func(t *testing.T) {
		result, err := uc.EncryptAEAD(ctx, "files", associatedData, nonce, []byte("x"))
		require.NoError(t, err)

		result.Tag[0] ^= 0x01
		_, err = uc.DecryptAEAD(ctx, "files", associatedData, nonce, result.Ciphertext, result.Tag)
		assert.ErrorIs(t, err, domain.ErrAuthenticationFailed)
	})

	t.Run("unknown app", func(t *testing.T) {
		_, err := uc.EncryptAEAD(ctx, "ghost", associatedData, nonce, []byte("x"))
		assert.ErrorIs(t, err, domain.ErrAppNotFound)
	})
}

func TestEnvelopeUseCase_Signatures(t *testing.T) {
	ctx := context.Background()
	uc := newTestUseCase(t)

	t.Run("rsa sign and verify", func(t *testing.T) {
		signature, err := uc.SignRSA(ctx, "messaging", "order=1&total=10", service.KeyEncodingPKCS1)
		require.NoError(t, err)

		valid, err := uc.VerifyRSA(ctx, "messaging", "order=1&total=10", signature)
		require.NoError(t, err)
		assert.True(t, valid)

		valid, err = uc.VerifyRSA(ctx, "messaging", "order=1&total=11", signature)
		require.NoError(t, err)
		assert.False(t, valid)
	})

	t.Run("hmac known vector", func(t *testing.T) {
		mac, err := uc.SignHMAC(ctx, "messaging", "The quick brown fox jumps over the lazy dog")
		require.NoError(t, err)
		assert.Equal(t, "f7bc83f430538424b13298e6aa6fb143ef4d59a14946175997479dbc2d1a3cd8", mac)
	})

	t.Run("missing key material", func(t *testing.T) {
		_, err := uc.SignRSA(ctx, "files", "content", service.KeyEncodingPKCS1)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

		_, err = uc.VerifyRSA(ctx, "files", "content", "c2ln")
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

		_, err = uc.SignHMAC(ctx, "files", "content")
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("unknown app", func(t *testing.T) {
		_, err := uc.SignHMAC(ctx, "ghost", "content")
		assert.ErrorIs(t, err, domain.ErrAppNotFound)
	})
}
