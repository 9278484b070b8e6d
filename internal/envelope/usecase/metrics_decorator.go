package usecase

import (
	"context"
	"time"

	"github.com/ynpsss/labrador/internal/envelope/service"
	"github.com/ynpsss/labrador/internal/metrics"
)

// envelopeUseCaseWithMetrics decorates EnvelopeUseCase with metrics
// instrumentation.
type envelopeUseCaseWithMetrics struct {
	next    EnvelopeUseCase
	metrics metrics.BusinessMetrics
}

// NewEnvelopeUseCaseWithMetrics wraps an EnvelopeUseCase with metrics
// recording.
func NewEnvelopeUseCaseWithMetrics(useCase EnvelopeUseCase, m metrics.BusinessMetrics) EnvelopeUseCase {
	return &envelopeUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// record emits the operation counter and duration histogram for one call.
func (e *envelopeUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	e.metrics.RecordOperation(ctx, "envelope", operation, status)
	e.metrics.RecordDuration(ctx, "envelope", operation, time.Since(start), status)
}

// EncryptMessage records metrics for message encryption operations.
func (e *envelopeUseCaseWithMetrics) EncryptMessage(
	ctx context.Context,
	appName, plaintext, recipientID string,
) (string, error) {
	start := time.Now()
	envelope, err := e.next.EncryptMessage(ctx, appName, plaintext, recipientID)
	e.record(ctx, "message_encrypt", start, err)
	return envelope, err
}

// DecryptMessage records metrics for message decryption operations.
func (e *envelopeUseCaseWithMetrics) DecryptMessage(
	ctx context.Context,
	appName, ciphertextBase64, recipientID string,
) (string, error) {
	start := time.Now()
	plaintext, err := e.next.DecryptMessage(ctx, appName, ciphertextBase64, recipientID)
	e.record(ctx, "message_decrypt", start, err)
	return plaintext, err
}

// EncryptData records metrics for data-path encryption operations.
func (e *envelopeUseCaseWithMetrics) EncryptData(
	ctx context.Context,
	appName, plaintext string,
	iv []byte,
) (string, error) {
	start := time.Now()
	ciphertext, err := e.next.EncryptData(ctx, appName, plaintext, iv)
	e.record(ctx, "data_encrypt", start, err)
	return ciphertext, err
}

// DecryptData records metrics for data-path decryption operations.
func (e *envelopeUseCaseWithMetrics) DecryptData(
	ctx context.Context,
	appName, ciphertextHex string,
	iv []byte,
) (string, error) {
	start := time.Now()
	plaintext, err := e.next.DecryptData(ctx, appName, ciphertextHex, iv)
	e.record(ctx, "data_decrypt", start, err)
	return plaintext, err
}

// EncryptAEAD records metrics for AEAD seal operations.
func (e *envelopeUseCaseWithMetrics) EncryptAEAD(
	ctx context.Context,
	appName string,
	associatedData, nonce, plaintext []byte,
) (*AEADResult, error) {
	start := time.Now()
	result, err := e.next.EncryptAEAD(ctx, appName, associatedData, nonce, plaintext)
	e.record(ctx, "aead_encrypt", start, err)
	return result, err
}

// DecryptAEAD records metrics for AEAD open operations.
func (e *envelopeUseCaseWithMetrics) DecryptAEAD(
	ctx context.Context,
	appName string,
	associatedData, nonce, ciphertext, tag []byte,
) ([]byte, error) {
	start := time.Now()
	plaintext, err := e.next.DecryptAEAD(ctx, appName, associatedData, nonce, ciphertext, tag)
	e.record(ctx, "aead_decrypt", start, err)
	return plaintext, err
}

// SignRSA records metrics for RSA signing operations.
func (e *envelopeUseCaseWithMetrics) SignRSA(
	ctx context.Context,
	appName, content string,
	encoding service.KeyEncoding,
) (string, error) {
	start := time.Now()
	signature, err := e.next.SignRSA(ctx, appName, content, encoding)
	e.record(ctx, "rsa_sign", start, err)
	return signature, err
}

// VerifyRSA records metrics for RSA verification operations.
func (e *envelopeUseCaseWithMetrics) VerifyRSA(
	ctx context.Context,
	appName, content, signatureBase64 string,
) (bool, error) {
	start := time.Now()
	valid, err := e.next.VerifyRSA(ctx, appName, content, signatureBase64)
	e.record(ctx, "rsa_verify", start, err)
	return valid, err
}

// SignHMAC records metrics for HMAC signing operations.
func (e *envelopeUseCaseWithMetrics) SignHMAC(ctx context.Context, appName, message string) (string, error) {
	start := time.Now()
	mac, err := e.next.SignHMAC(ctx, appName, message)
	e.record(ctx, "hmac_sign", start, err)
	return mac, err
}
