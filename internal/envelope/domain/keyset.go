// Package domain provides the core types of the message-envelope subsystem:
// the immutable Keyset that binds raw key material to the cipher engines,
// the App credential context, and the envelope error taxonomy.
package domain

import (
	"crypto/aes"
)

// Keyset is an immutable container for raw symmetric key material.
//
// A Keyset is constructed once per credential set and shared by reference
// with every engine operation. The key bytes are copied on construction and
// never handed out by reference, so concurrent use from any number of
// goroutines is safe without locking.
//
// The message path additionally requires at least aes.BlockSize bytes,
// because the first 16 bytes double as the CBC initialization vector.
type Keyset struct {
	key []byte
}

// NewKeyset creates a Keyset from raw key material.
//
// The key length must be valid for AES (16, 24, or 32 bytes). A 16-byte key
// selects AES-128; the platform's production message keys are 32 bytes and
// select AES-256. Returns ErrCipher for any other length.
func NewKeyset(key []byte) (*Keyset, error) {
	switch len(key) {
	case 16, 24, 32:
	default:
		return nil, ErrCipher
	}

	owned := make([]byte, len(key))
	copy(owned, key)
	return &Keyset{key: owned}, nil
}

// Bytes returns a copy of the key material.
func (k *Keyset) Bytes() []byte {
	out := make([]byte, len(k.key))
	copy(out, k.key)
	return out
}

// IV returns a copy of the first aes.BlockSize bytes of the key, used as
// the fixed CBC initialization vector on the message path.
//
// The IV is tied to the key and never random; per-message diffusion comes
// from the random 16-byte frame prefix, so the IV must not be treated as a
// nonce.
func (k *Keyset) IV() []byte {
	out := make([]byte, aes.BlockSize)
	copy(out, k.key[:aes.BlockSize])
	return out
}

// Len returns the key length in bytes.
func (k *Keyset) Len() int {
	return len(k.key)
}
