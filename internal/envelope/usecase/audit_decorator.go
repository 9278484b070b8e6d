package usecase

import (
	"context"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/ynpsss/labrador/internal/audit"
	"github.com/ynpsss/labrador/internal/envelope/service"
)

// envelopeUseCaseWithAudit decorates EnvelopeUseCase with tamper-evident
// audit logging. Every operation emits one signed record via slog; the
// record never carries key material, plaintext, or ciphertext.
type envelopeUseCaseWithAudit struct {
	next   EnvelopeUseCase
	signer audit.Signer
	logger *slog.Logger
}

// NewEnvelopeUseCaseWithAudit wraps an EnvelopeUseCase with signed audit
// logging.
func NewEnvelopeUseCaseWithAudit(useCase EnvelopeUseCase, signer audit.Signer, logger *slog.Logger) EnvelopeUseCase {
	return &envelopeUseCaseWithAudit{
		next:   useCase,
		signer: signer,
		logger: logger,
	}
}

// emit signs and logs one audit record. Audit failures never fail the
// operation itself; they are logged at error level instead.
func (e *envelopeUseCaseWithAudit) emit(ctx context.Context, appName, operation string, opErr error) {
	status := "success"
	if opErr != nil {
		status = "error"
	}

	record := &audit.Record{
		RequestID: audit.RequestIDFromContext(ctx),
		Client:    audit.ClientFromContext(ctx),
		App:       appName,
		Operation: operation,
		Status:    status,
		CreatedAt: time.Now().UTC(),
	}

	signature, err := e.signer.Sign(record)
	if err != nil {
		e.logger.ErrorContext(ctx, "failed to sign audit record",
			slog.String("app", appName),
			slog.String("operation", operation),
			slog.Any("error", err),
		)
		return
	}

	e.logger.InfoContext(ctx, "envelope operation",
		slog.String("request_id", record.RequestID),
		slog.String("client", record.Client),
		slog.String("app", record.App),
		slog.String("operation", record.Operation),
		slog.String("status", record.Status),
		slog.Time("created_at", record.CreatedAt),
		slog.String("signature", hex.EncodeToString(signature)),
	)
}

func (e *envelopeUseCaseWithAudit) EncryptMessage(
	ctx context.Context,
	appName, plaintext, recipientID string,
) (string, error) {
	envelope, err := e.next.EncryptMessage(ctx, appName, plaintext, recipientID)
	e.emit(ctx, appName, "message_encrypt", err)
	return envelope, err
}

func (e *envelopeUseCaseWithAudit) DecryptMessage(
	ctx context.Context,
	appName, ciphertextBase64, recipientID string,
) (string, error) {
	plaintext, err := e.next.DecryptMessage(ctx, appName, ciphertextBase64, recipientID)
	e.emit(ctx, appName, "message_decrypt", err)
	return plaintext, err
}

func (e *envelopeUseCaseWithAudit) EncryptData(
	ctx context.Context,
	appName, plaintext string,
	iv []byte,
) (string, error) {
	ciphertext, err := e.next.EncryptData(ctx, appName, plaintext, iv)
	e.emit(ctx, appName, "data_encrypt", err)
	return ciphertext, err
}

func (e *envelopeUseCaseWithAudit) DecryptData(
	ctx context.Context,
	appName, ciphertextHex string,
	iv []byte,
) (string, error) {
	plaintext, err := e.next.DecryptData(ctx, appName, ciphertextHex, iv)
	e.emit(ctx, appName, "data_decrypt", err)
	return plaintext, err
}

func (e *envelopeUseCaseWithAudit) EncryptAEAD(
	ctx context.Context,
	appName string,
	associatedData, nonce, plaintext []byte,
) (*AEADResult, error) {
	result, err := e.next.EncryptAEAD(ctx, appName, associatedData, nonce, plaintext)
	e.emit(ctx, appName, "aead_encrypt", err)
	return result, err
}

func (e *envelopeUseCaseWithAudit) DecryptAEAD(
	ctx context.Context,
	appName string,
	associatedData, nonce, ciphertext, tag []byte,
) ([]byte, error) {
	plaintext, err := e.next.DecryptAEAD(ctx, appName, associatedData, nonce, ciphertext, tag)
	e.emit(ctx, appName, "aead_decrypt", err)
	return plaintext, err
}

func (e *envelopeUseCaseWithAudit) SignRSA(
	ctx context.Context,
	appName, content string,
	encoding service.KeyEncoding,
) (string, error) {
	signature, err := e.next.SignRSA(ctx, appName, content, encoding)
	e.emit(ctx, appName, "rsa_sign", err)
	return signature, err
}

func (e *envelopeUseCaseWithAudit) VerifyRSA(
	ctx context.Context,
	appName, content, signatureBase64 string,
) (bool, error) {
	valid, err := e.next.VerifyRSA(ctx, appName, content, signatureBase64)
	e.emit(ctx, appName, "rsa_verify", err)
	return valid, err
}

func (e *envelopeUseCaseWithAudit) SignHMAC(ctx context.Context, appName, message string) (string, error) {
	mac, err := e.next.SignHMAC(ctx, appName, message)
	e.emit(ctx, appName, "hmac_sign", err)
	return mac, err
}
