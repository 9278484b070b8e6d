package domain

import (
	"github.com/ynpsss/labrador/internal/errors"
)

// Envelope error taxonomy.
//
// Every failure of the envelope subsystem maps to exactly one of these
// sentinel errors. All of them wrap standard errors from internal/errors
// so the HTTP layer can map them to status codes with errors.Is. None of
// the messages carry key material, plaintext, or signatures.
var (
	// ErrEncoding indicates malformed base64 or hexadecimal input.
	ErrEncoding = errors.Wrap(errors.ErrInvalidInput, "malformed encoding")

	// ErrCipher indicates a block-cipher failure: bad padding, a key or IV
	// of invalid length, or a ciphertext that is not a whole number of blocks.
	ErrCipher = errors.Wrap(errors.ErrInvalidInput, "cipher failure")

	// ErrIdentityMismatch indicates the recipient identity recovered from a
	// decrypted frame does not match the expected identity. The envelope was
	// produced for a different party.
	ErrIdentityMismatch = errors.Wrap(errors.ErrInvalidInput, "recipient identity mismatch")

	// ErrFrameTruncated indicates a decrypted frame is shorter than its own
	// length field implies.
	ErrFrameTruncated = errors.Wrap(errors.ErrInvalidInput, "frame truncated")

	// ErrTextDecode indicates decrypted content is not valid UTF-8.
	//
	// This is always surfaced as an error, never silently coerced to an
	// empty string: returning empty content from a decrypt path hides
	// corruption and wrong-key conditions from the caller.
	ErrTextDecode = errors.Wrap(errors.ErrInvalidInput, "content is not valid utf-8")

	// ErrKeyParse indicates malformed RSA key material (PEM or DER).
	ErrKeyParse = errors.Wrap(errors.ErrInvalidInput, "malformed key material")

	// ErrAuthenticationFailed indicates AEAD tag verification failed: the
	// ciphertext, tag, nonce, or associated data was altered after sealing.
	ErrAuthenticationFailed = errors.Wrap(errors.ErrInvalidInput, "authentication failed")

	// ErrAppNotFound indicates no app with the requested name is configured.
	ErrAppNotFound = errors.Wrap(errors.ErrNotFound, "app not found")
)
