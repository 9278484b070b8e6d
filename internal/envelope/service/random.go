package service

import (
	"crypto/rand"
	"io"

	apperrors "github.com/ynpsss/labrador/internal/errors"
)

// cryptoRandomSource reads from crypto/rand. It is the only RandomSource
// production code may use.
type cryptoRandomSource struct{}

// NewCryptoRandomSource creates a RandomSource backed by crypto/rand.
func NewCryptoRandomSource() RandomSource {
	return &cryptoRandomSource{}
}

// Read fills p from the operating system's secure random generator.
func (c *cryptoRandomSource) Read(p []byte) error {
	if _, err := io.ReadFull(rand.Reader, p); err != nil {
		return apperrors.Wrap(err, "failed to read random bytes")
	}
	return nil
}
