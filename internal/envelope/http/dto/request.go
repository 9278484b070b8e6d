// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/ynpsss/labrador/internal/validation"
)

// EncryptMessageRequest contains the parameters for sealing a message envelope.
type EncryptMessageRequest struct {
	Plaintext   string `json:"plaintext"`
	RecipientID string `json:"recipient_id,omitempty"` // Defaults to the app's platform id
}

// Validate checks if the encrypt message request is valid.
func (r *EncryptMessageRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Plaintext,
			validation.Required,
		),
		validation.Field(&r.RecipientID,
			customValidation.NoWhitespace,
		),
	)
}

// DecryptMessageRequest contains the parameters for opening a message envelope.
type DecryptMessageRequest struct {
	Envelope    string `json:"envelope"` // Base64-encoded envelope
	RecipientID string `json:"recipient_id,omitempty"`
}

// Validate checks if the decrypt message request is valid.
func (r *DecryptMessageRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Envelope,
			validation.Required,
			customValidation.NotBlank,
			customValidation.Base64,
		),
		validation.Field(&r.RecipientID,
			customValidation.NoWhitespace,
		),
	)
}

// EncryptDataRequest contains the parameters for the hex data path.
type EncryptDataRequest struct {
	Plaintext string `json:"plaintext"`
	IV        string `json:"iv"` // Base64-encoded 16-byte IV
}

// Validate checks if the encrypt data request is valid.
func (r *EncryptDataRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Plaintext,
			validation.Required,
		),
		validation.Field(&r.IV,
			validation.Required,
			customValidation.NotBlank,
			customValidation.Base64,
		),
	)
}

// DecryptDataRequest contains the parameters for reversing the hex data path.
type DecryptDataRequest struct {
	Ciphertext string `json:"ciphertext"` // Hex-encoded ciphertext
	IV         string `json:"iv"`         // Base64-encoded 16-byte IV
}

// Validate checks if the decrypt data request is valid.
func (r *DecryptDataRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Ciphertext,
			validation.Required,
			customValidation.NotBlank,
			customValidation.Hex,
		),
		validation.Field(&r.IV,
			validation.Required,
			customValidation.NotBlank,
			customValidation.Base64,
		),
	)
}

// EncryptAEADRequest contains the parameters for an AEAD seal.
type EncryptAEADRequest struct {
	Plaintext      string `json:"plaintext"`                 // Base64-encoded plaintext
	Nonce          string `json:"nonce"`                     // Base64-encoded nonce
	AssociatedData string `json:"associated_data,omitempty"` // Base64-encoded associated data
}

// Validate checks if the encrypt AEAD request is valid.
func (r *EncryptAEADRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Plaintext,
			customValidation.Base64,
		),
		validation.Field(&r.Nonce,
			validation.Required,
			customValidation.NotBlank,
			customValidation.Base64,
		),
		validation.Field(&r.AssociatedData,
			customValidation.Base64,
		),
	)
}

// DecryptAEADRequest contains the parameters for an AEAD open.
type DecryptAEADRequest struct {
	Ciphertext     string `json:"ciphertext"` // Base64-encoded ciphertext
	Tag            string `json:"tag"`        // Base64-encoded 16-byte tag
	Nonce          string `json:"nonce"`      // Base64-encoded nonce
	AssociatedData string `json:"associated_data,omitempty"`
}

// Validate checks if the decrypt AEAD request is valid.
func (r *DecryptAEADRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Ciphertext,
			customValidation.Base64,
		),
		validation.Field(&r.Tag,
			validation.Required,
			customValidation.NotBlank,
			customValidation.Base64,
		),
		validation.Field(&r.Nonce,
			validation.Required,
			customValidation.NotBlank,
			customValidation.Base64,
		),
		validation.Field(&r.AssociatedData,
			customValidation.Base64,
		),
	)
}

// SignRSARequest contains the parameters for RSA-SHA256 signing.
type SignRSARequest struct {
	App         string `json:"app"`
	Content     string `json:"content"`
	KeyEncoding string `json:"key_encoding"` // "pkcs1" or "pkcs8"
}

// Validate checks if the RSA sign request is valid.
func (r *SignRSARequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.App,
			validation.Required,
			customValidation.NotBlank,
		),
		validation.Field(&r.Content,
			validation.Required,
		),
		validation.Field(&r.KeyEncoding,
			validation.Required,
			validation.In("pkcs1", "pkcs8"),
		),
	)
}

// VerifyRSARequest contains the parameters for RSA-SHA256 verification.
type VerifyRSARequest struct {
	App       string `json:"app"`
	Content   string `json:"content"`
	Signature string `json:"signature"` // Base64-encoded signature
}

// Validate checks if the RSA verify request is valid.
func (r *VerifyRSARequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.App,
			validation.Required,
			customValidation.NotBlank,
		),
		validation.Field(&r.Content,
			validation.Required,
		),
		validation.Field(&r.Signature,
			validation.Required,
			customValidation.NotBlank,
			customValidation.Base64,
		),
	)
}

// SignHMACRequest contains the parameters for HMAC-SHA256 signing.
type SignHMACRequest struct {
	App     string `json:"app"`
	Message string `json:"message"`
}

// Validate checks if the HMAC sign request is valid.
func (r *SignHMACRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.App,
			validation.Required,
			customValidation.NotBlank,
		),
		validation.Field(&r.Message,
			validation.Required,
		),
	)
}
