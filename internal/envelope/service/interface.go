// Package service implements the message-envelope cipher engines: the
// length-prefixed frame codec, the AES-CBC block-cipher engine (message and
// data paths), the AES-256-GCM AEAD engine, and the RSA/HMAC signature
// engine. All engines are pure in-memory transformations over an immutable
// Keyset and are safe for unrestricted concurrent use.
package service

import (
	"github.com/ynpsss/labrador/internal/envelope/domain"
)

// RandomSource supplies the random bytes for frame prefixes.
//
// Production code must use a cryptographically secure source (see
// NewCryptoRandomSource); tests may substitute a fixed sequence. The
// abstraction exists so deterministic tests never require a conditional
// baked into production logic.
type RandomSource interface {
	// Read fills p with random bytes.
	Read(p []byte) error
}

// BlockCipher is the AES-CBC engine of the message and data paths.
type BlockCipher interface {
	// EncryptMessage frames plaintext with a random prefix and recipientID,
	// encrypts with AES-CBC under the keyset (IV = first 16 key bytes), and
	// returns standard base64 text.
	EncryptMessage(plaintext, recipientID string) (string, error)

	// DecryptMessage reverses EncryptMessage and verifies that the identity
	// bound into the frame equals recipientID.
	DecryptMessage(ciphertextBase64, recipientID string) (string, error)

	// EncryptData encrypts plaintext with AES-CBC under the keyset and the
	// caller-supplied IV, returning lowercase hexadecimal text. No framing,
	// no identity binding.
	EncryptData(plaintext string, iv []byte) (string, error)

	// DecryptData reverses EncryptData.
	DecryptData(ciphertextHex string, iv []byte) (string, error)
}

// AEADCipher is the AES-256-GCM engine with explicit nonce, associated
// data, and detached 16-byte tag. Nonce and associated data are transport
// concerns: they are never embedded in the output.
type AEADCipher interface {
	// Encrypt seals plaintext and returns the ciphertext and detached tag.
	Encrypt(associatedData, nonce, plaintext []byte) (ciphertext, tag []byte, err error)

	// Decrypt opens ciphertext after verifying tag against (associatedData,
	// nonce, ciphertext) in a single atomic check. No plaintext is released
	// on verification failure.
	Decrypt(associatedData, nonce, ciphertext, tag []byte) ([]byte, error)
}

// Signer is the RSA-SHA256 and HMAC-SHA256 signature engine.
type Signer interface {
	// SignRSASHA256 signs content with an RSA private key (PEM or DER,
	// encoding selected explicitly) using SHA-256 and PKCS#1 v1.5 padding.
	// Returns the base64-encoded signature.
	SignRSASHA256(content string, privateKey []byte, encoding KeyEncoding) (string, error)

	// VerifyRSASHA256 verifies a base64 RSA-SHA256 signature over content
	// with a PEM public key. A structurally valid but non-matching signature
	// yields (false, nil); only malformed inputs yield an error.
	VerifyRSASHA256(publicKey []byte, content, signatureBase64 string) (bool, error)

	// SignHMACSHA256 computes HMAC-SHA256 over message keyed by key and
	// returns the hex-encoded MAC.
	SignHMACSHA256(key, message string) string
}

// NewBlockCipher creates the AES-CBC engine for a keyset. The random source
// feeds frame prefixes on the message path.
func NewBlockCipher(keyset *domain.Keyset, random RandomSource) BlockCipher {
	return &blockCipher{keyset: keyset, random: random}
}

// NewAEADCipher creates the AES-256-GCM engine for a keyset.
func NewAEADCipher(keyset *domain.Keyset) AEADCipher {
	return &aeadCipher{keyset: keyset}
}

// NewSigner creates the signature engine. It holds no key material; keys
// are supplied per call.
func NewSigner() Signer {
	return &signer{}
}
