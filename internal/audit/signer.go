// Package audit provides tamper-evident records of envelope operations.
// Records are signed with HMAC-SHA256 under a key derived from the
// configured audit key, and carry no key material, plaintext, or
// signatures produced by the envelope engines.
package audit

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"io"
	"time"

	"golang.org/x/crypto/hkdf"

	apperrors "github.com/ynpsss/labrador/internal/errors"
)

// Record is one audited envelope operation.
type Record struct {
	// RequestID correlates the record with the HTTP request.
	RequestID string

	// Client is the authenticated API client id.
	Client string

	// App is the envelope app the operation ran against.
	App string

	// Operation names the envelope operation (e.g. "message_encrypt").
	Operation string

	// Status is "success" or "error".
	Status string

	// CreatedAt is the operation timestamp.
	CreatedAt time.Time

	// Signature is the HMAC-SHA256 signature over the canonical record.
	Signature []byte
}

// ErrSignatureInvalid indicates a record's signature does not match its
// contents.
var ErrSignatureInvalid = apperrors.New("audit record signature invalid")

// Signer signs and verifies audit records.
type Signer interface {
	// Sign computes the record signature. The record's Signature field is
	// ignored as input.
	Sign(record *Record) ([]byte, error)

	// Verify checks the record's Signature field against its contents.
	// Returns nil when valid, ErrSignatureInvalid when tampered.
	Verify(record *Record) error
}

type hmacSigner struct {
	signingKey []byte
}

// NewSigner creates an HMAC-SHA256 signer. The 32-byte signing key is
// derived from auditKey with HKDF-SHA256, separating audit signing from
// any other use of the key material. The info string is versioned for
// future algorithm changes.
func NewSigner(auditKey []byte) (Signer, error) {
	reader := hkdf.New(sha256.New, auditKey, nil, []byte("envelope-audit-signing-v1"))

	signingKey := make([]byte, 32)
	if _, err := io.ReadFull(reader, signingKey); err != nil {
		return nil, apperrors.Wrap(err, "failed to derive audit signing key")
	}

	return &hmacSigner{signingKey: signingKey}, nil
}

// Sign computes HMAC-SHA256 over the canonical record representation.
func (s *hmacSigner) Sign(record *Record) ([]byte, error) {
	mac := hmac.New(sha256.New, s.signingKey)
	mac.Write(canonicalize(record))
	return mac.Sum(nil), nil
}

// Verify recomputes the signature and compares in constant time.
func (s *hmacSigner) Verify(record *Record) error {
	expected, err := s.Sign(record)
	if err != nil {
		return err
	}

	if !hmac.Equal(record.Signature, expected) {
		return ErrSignatureInvalid
	}
	return nil
}

// canonicalize converts a record to its canonical byte representation:
// every variable-length field is length-prefixed to prevent ambiguity,
// followed by the timestamp in big-endian unix nanoseconds.
func canonicalize(record *Record) []byte {
	buf := make([]byte, 0, 256)
	buf = appendLengthPrefixed(buf, []byte(record.RequestID))
	buf = appendLengthPrefixed(buf, []byte(record.Client))
	buf = appendLengthPrefixed(buf, []byte(record.App))
	buf = appendLengthPrefixed(buf, []byte(record.Operation))
	buf = appendLengthPrefixed(buf, []byte(record.Status))

	ts := make([]byte, 8)
	binary.BigEndian.PutUint64(ts, uint64(record.CreatedAt.UnixNano()))
	return append(buf, ts...)
}

// appendLengthPrefixed adds a 4-byte big-endian length prefix followed by
// the data bytes.
func appendLengthPrefixed(buf, data []byte) []byte {
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(len(data)))
	buf = append(buf, length...)
	return append(buf, data...)
}
