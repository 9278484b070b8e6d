// Package http provides HTTP handlers for envelope cryptography operations.
package http

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ynpsss/labrador/internal/envelope/http/dto"
	"github.com/ynpsss/labrador/internal/envelope/service"
	envelopeUseCase "github.com/ynpsss/labrador/internal/envelope/usecase"
	"github.com/ynpsss/labrador/internal/httputil"
	customValidation "github.com/ynpsss/labrador/internal/validation"
)

// EnvelopeHandler handles HTTP requests for envelope encryption, decryption,
// and signing operations.
type EnvelopeHandler struct {
	envelopeUseCase envelopeUseCase.EnvelopeUseCase
	logger          *slog.Logger
}

// NewEnvelopeHandler creates a new envelope handler with required dependencies.
func NewEnvelopeHandler(
	useCase envelopeUseCase.EnvelopeUseCase,
	logger *slog.Logger,
) *EnvelopeHandler {
	return &EnvelopeHandler{
		envelopeUseCase: useCase,
		logger:          logger,
	}
}

// appName extracts and validates the app name URL parameter.
func appName(c *gin.Context) (string, error) {
	name := c.Param("name")
	if name == "" {
		return "", fmt.Errorf("app name cannot be empty")
	}
	return name, nil
}

// EncryptMessageHandler seals plaintext into a base64 message envelope.
// POST /v1/apps/:name/messages/encrypt
func (h *EnvelopeHandler) EncryptMessageHandler(c *gin.Context) {
	name, err := appName(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	var req dto.EncryptMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	envelope, err := h.envelopeUseCase.EncryptMessage(c.Request.Context(), name, req.Plaintext, req.RecipientID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.EncryptMessageResponse{Envelope: envelope})
}

// DecryptMessageHandler opens a base64 message envelope and verifies the
// bound recipient identity.
// POST /v1/apps/:name/messages/decrypt
func (h *EnvelopeHandler) DecryptMessageHandler(c *gin.Context) {
	name, err := appName(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	var req dto.DecryptMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	plaintext, err := h.envelopeUseCase.DecryptMessage(c.Request.Context(), name, req.Envelope, req.RecipientID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.DecryptMessageResponse{Plaintext: plaintext})
}

// EncryptDataHandler encrypts plaintext on the hex data path with a
// caller-supplied IV.
// POST /v1/apps/:name/data/encrypt
func (h *EnvelopeHandler) EncryptDataHandler(c *gin.Context) {
	name, err := appName(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	var req dto.EncryptDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	iv, err := base64.StdEncoding.DecodeString(req.IV)
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid base64 iv: %w", err), h.logger)
		return
	}

	ciphertext, err := h.envelopeUseCase.EncryptData(c.Request.Context(), name, req.Plaintext, iv)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.EncryptDataResponse{Ciphertext: ciphertext})
}

// DecryptDataHandler reverses the hex data path.
// POST /v1/apps/:name/data/decrypt
func (h *EnvelopeHandler) DecryptDataHandler(c *gin.Context) {
	name, err := appName(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	var req dto.DecryptDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	iv, err := base64.StdEncoding.DecodeString(req.IV)
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid base64 iv: %w", err), h.logger)
		return
	}

	plaintext, err := h.envelopeUseCase.DecryptData(c.Request.Context(), name, req.Ciphertext, iv)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.DecryptDataResponse{Plaintext: plaintext})
}

// EncryptAEADHandler seals plaintext with AES-256-GCM and returns the
// ciphertext with a detached tag.
// POST /v1/apps/:name/aead/encrypt
func (h *EnvelopeHandler) EncryptAEADHandler(c *gin.Context) {
	name, err := appName(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	var req dto.EncryptAEADRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	plaintext, err := base64.StdEncoding.DecodeString(req.Plaintext)
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid base64 plaintext: %w", err), h.logger)
		return
	}
	nonce, err := base64.StdEncoding.DecodeString(req.Nonce)
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid base64 nonce: %w", err), h.logger)
		return
	}
	associatedData, err := base64.StdEncoding.DecodeString(req.AssociatedData)
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid base64 associated_data: %w", err), h.logger)
		return
	}

	result, err := h.envelopeUseCase.EncryptAEAD(c.Request.Context(), name, associatedData, nonce, plaintext)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapEncryptAEADResponse(result))
}

// DecryptAEADHandler verifies and opens an AEAD ciphertext.
// POST /v1/apps/:name/aead/decrypt
func (h *EnvelopeHandler) DecryptAEADHandler(c *gin.Context) {
	name, err := appName(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	var req dto.DecryptAEADRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	ciphertext, err := base64.StdEncoding.DecodeString(req.Ciphertext)
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid base64 ciphertext: %w", err), h.logger)
		return
	}
	tag, err := base64.StdEncoding.DecodeString(req.Tag)
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid base64 tag: %w", err), h.logger)
		return
	}
	nonce, err := base64.StdEncoding.DecodeString(req.Nonce)
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid base64 nonce: %w", err), h.logger)
		return
	}
	associatedData, err := base64.StdEncoding.DecodeString(req.AssociatedData)
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid base64 associated_data: %w", err), h.logger)
		return
	}

	plaintext, err := h.envelopeUseCase.DecryptAEAD(c.Request.Context(), name, associatedData, nonce, ciphertext, tag)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapDecryptAEADResponse(plaintext))
}

// SignRSAHandler signs content with the app's RSA private key.
// POST /v1/signatures/rsa
func (h *EnvelopeHandler) SignRSAHandler(c *gin.Context) {
	var req dto.SignRSARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	signature, err := h.envelopeUseCase.SignRSA(
		c.Request.Context(),
		req.App,
		req.Content,
		service.KeyEncoding(req.KeyEncoding),
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.SignResponse{Signature: signature})
}

// VerifyRSAHandler verifies a base64 RSA-SHA256 signature with the app's
// public key.
// POST /v1/signatures/rsa/verify
func (h *EnvelopeHandler) VerifyRSAHandler(c *gin.Context) {
	var req dto.VerifyRSARequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	valid, err := h.envelopeUseCase.VerifyRSA(c.Request.Context(), req.App, req.Content, req.Signature)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.VerifyResponse{Valid: valid})
}

// SignHMACHandler computes the hex HMAC-SHA256 of a message with the app's
// secret.
// POST /v1/signatures/hmac
func (h *EnvelopeHandler) SignHMACHandler(c *gin.Context) {
	var req dto.SignHMACRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	mac, err := h.envelopeUseCase.SignHMAC(c.Request.Context(), req.App, req.Message)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.SignResponse{Signature: mac})
}
