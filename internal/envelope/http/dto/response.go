// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"encoding/base64"

	"github.com/ynpsss/labrador/internal/envelope/usecase"
)

// EncryptMessageResponse contains a sealed message envelope.
type EncryptMessageResponse struct {
	Envelope string `json:"envelope"` // Base64-encoded envelope
}

// DecryptMessageResponse contains the content recovered from an envelope.
type DecryptMessageResponse struct {
	Plaintext string `json:"plaintext"`
}

// EncryptDataResponse contains a hex ciphertext from the data path.
type EncryptDataResponse struct {
	Ciphertext string `json:"ciphertext"` // Hex-encoded ciphertext
}

// DecryptDataResponse contains the plaintext recovered on the data path.
type DecryptDataResponse struct {
	Plaintext string `json:"plaintext"`
}

// EncryptAEADResponse contains an AEAD ciphertext with its detached tag.
type EncryptAEADResponse struct {
	Ciphertext string `json:"ciphertext"` // Base64-encoded ciphertext
	Tag        string `json:"tag"`        // Base64-encoded 16-byte tag
}

// MapEncryptAEADResponse converts an AEAD seal result to an API response.
func MapEncryptAEADResponse(result *usecase.AEADResult) EncryptAEADResponse {
	return EncryptAEADResponse{
		Ciphertext: base64.StdEncoding.EncodeToString(result.Ciphertext),
		Tag:        base64.StdEncoding.EncodeToString(result.Tag),
	}
}

// DecryptAEADResponse contains the plaintext recovered from an AEAD open.
type DecryptAEADResponse struct {
	Plaintext string `json:"plaintext"` // Base64-encoded plaintext
}

// MapDecryptAEADResponse converts recovered AEAD plaintext to an API response.
func MapDecryptAEADResponse(plaintext []byte) DecryptAEADResponse {
	return DecryptAEADResponse{
		Plaintext: base64.StdEncoding.EncodeToString(plaintext),
	}
}

// SignResponse contains a computed signature.
type SignResponse struct {
	Signature string `json:"signature"` // Base64 for RSA, hex for HMAC
}

// VerifyResponse contains the result of a signature verification.
type VerifyResponse struct {
	Valid bool `json:"valid"`
}
