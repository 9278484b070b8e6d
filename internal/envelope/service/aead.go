package service

import (
	"crypto/aes"
	"crypto/cipher"

	"github.com/ynpsss/labrador/internal/envelope/domain"
)

// aeadTagSize is the detached tag length of the AEAD envelope.
const aeadTagSize = 16

// aeadCipher implements AEADCipher with AES-256-GCM.
//
// Nonce and associated data are supplied explicitly and transported by the
// caller; the engine never embeds them in its output. The keyset must hold
// a 32-byte key.
type aeadCipher struct {
	keyset *domain.Keyset
}

// Encrypt seals plaintext under (associatedData, nonce) and returns the
// ciphertext with its 16-byte tag detached.
func (a *aeadCipher) Encrypt(associatedData, nonce, plaintext []byte) ([]byte, []byte, error) {
	aead, err := a.newGCM(len(nonce))
	if err != nil {
		return nil, nil, err
	}

	sealed := aead.Seal(nil, nonce, plaintext, associatedData)
	split := len(sealed) - aeadTagSize
	return sealed[:split], sealed[split:], nil
}

// Decrypt verifies tag against (associatedData, nonce, ciphertext) and
// opens the ciphertext in one atomic operation. Any alteration of the four
// inputs yields ErrAuthenticationFailed with no plaintext released.
func (a *aeadCipher) Decrypt(associatedData, nonce, ciphertext, tag []byte) ([]byte, error) {
	if len(tag) != aeadTagSize {
		return nil, domain.ErrAuthenticationFailed
	}

	aead, err := a.newGCM(len(nonce))
	if err != nil {
		return nil, err
	}

	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := aead.Open(nil, nonce, sealed, associatedData)
	if err != nil {
		return nil, domain.ErrAuthenticationFailed
	}
	return plaintext, nil
}

// newGCM builds a GCM instance sized to the caller's nonce. The key must
// be 32 bytes (AES-256).
func (a *aeadCipher) newGCM(nonceSize int) (cipher.AEAD, error) {
	if a.keyset.Len() != 32 {
		return nil, domain.ErrCipher
	}
	if nonceSize <= 0 {
		return nil, domain.ErrCipher
	}

	block, err := aes.NewCipher(a.keyset.Bytes())
	if err != nil {
		return nil, domain.ErrCipher
	}

	aead, err := cipher.NewGCMWithNonceSize(block, nonceSize)
	if err != nil {
		return nil, domain.ErrCipher
	}
	return aead, nil
}
