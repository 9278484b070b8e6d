package commands

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ynpsss/labrador/internal/audit"
	"github.com/ynpsss/labrador/internal/config"
)

// auditRecordLine mirrors the JSON attributes of an audit log line emitted
// by the server.
type auditRecordLine struct {
	RequestID string    `json:"request_id"`
	Client    string    `json:"client"`
	App       string    `json:"app"`
	Operation string    `json:"operation"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	Signature string    `json:"signature"`
}

// RunVerifyAuditRecord checks the HMAC signature of a single audit record
// against the configured AUDIT_KEY. The record is the JSON log line as
// emitted by the server.
func RunVerifyAuditRecord(rawRecord string, io IOTuple) error {
	cfg := config.Load()
	if cfg.AuditKey == "" {
		return fmt.Errorf("AUDIT_KEY is not configured")
	}

	var line auditRecordLine
	if err := json.Unmarshal([]byte(rawRecord), &line); err != nil {
		return fmt.Errorf("failed to parse audit record: %w", err)
	}

	signature, err := hex.DecodeString(line.Signature)
	if err != nil {
		return fmt.Errorf("failed to decode signature: %w", err)
	}

	signer, err := audit.NewSigner([]byte(cfg.AuditKey))
	if err != nil {
		return fmt.Errorf("failed to create audit signer: %w", err)
	}

	record := &audit.Record{
		RequestID: line.RequestID,
		Client:    line.Client,
		App:       line.App,
		Operation: line.Operation,
		Status:    line.Status,
		CreatedAt: line.CreatedAt,
		Signature: signature,
	}

	if err := signer.Verify(record); err != nil {
		return fmt.Errorf("audit record verification failed: %w", err)
	}

	fmt.Fprintln(io.Writer, "audit record signature is valid")
	return nil
}
