package service

import (
	"crypto"
	"crypto/hmac"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/hex"
	"encoding/pem"

	"github.com/ynpsss/labrador/internal/envelope/domain"
)

// KeyEncoding selects the private-key encoding for RSA signing. Call sites
// must state the encoding explicitly; there is no sniffing between PKCS#1
// and PKCS#8 structures.
type KeyEncoding string

const (
	// KeyEncodingPKCS1 is the RSAPrivateKey structure of PKCS#1.
	KeyEncodingPKCS1 KeyEncoding = "pkcs1"

	// KeyEncodingPKCS8 is the PrivateKeyInfo structure of PKCS#8.
	KeyEncodingPKCS8 KeyEncoding = "pkcs8"
)

// signer implements Signer. It is stateless; key material is supplied per
// call by the surrounding application layer.
type signer struct{}

// SignRSASHA256 signs the SHA-256 digest of content with RSA PKCS#1 v1.5
// padding and returns the base64-encoded signature. privateKey may be PEM
// or raw DER in the stated encoding.
func (s *signer) SignRSASHA256(content string, privateKey []byte, encoding KeyEncoding) (string, error) {
	key, err := parseRSAPrivateKey(privateKey, encoding)
	if err != nil {
		return "", err
	}

	digest := sha256.Sum256([]byte(content))
	signature, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA256, digest[:])
	if err != nil {
		return "", domain.ErrCipher
	}

	return base64.StdEncoding.EncodeToString(signature), nil
}

// VerifyRSASHA256 verifies a base64 RSA-SHA256 signature over content with
// a PEM-encoded public key (PKIX or PKCS#1). A well-formed signature that
// does not match yields (false, nil); malformed inputs yield an error.
func (s *signer) VerifyRSASHA256(publicKey []byte, content, signatureBase64 string) (bool, error) {
	signature, err := base64.StdEncoding.DecodeString(signatureBase64)
	if err != nil {
		return false, domain.ErrEncoding
	}

	key, err := parseRSAPublicKey(publicKey)
	if err != nil {
		return false, err
	}

	digest := sha256.Sum256([]byte(content))
	if err := rsa.VerifyPKCS1v15(key, crypto.SHA256, digest[:], signature); err != nil {
		return false, nil
	}
	return true, nil
}

// SignHMACSHA256 computes HMAC-SHA256 over message keyed by key and
// returns the hex-encoded MAC.
func (s *signer) SignHMACSHA256(key, message string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}

// parseRSAPrivateKey parses PEM or DER private key material in the stated
// encoding. PKCS#8 material must contain an RSA key.
func parseRSAPrivateKey(material []byte, encoding KeyEncoding) (*rsa.PrivateKey, error) {
	der := material
	if block, _ := pem.Decode(material); block != nil {
		der = block.Bytes
	}

	switch encoding {
	case KeyEncodingPKCS1:
		key, err := x509.ParsePKCS1PrivateKey(der)
		if err != nil {
			return nil, domain.ErrKeyParse
		}
		return key, nil
	case KeyEncodingPKCS8:
		parsed, err := x509.ParsePKCS8PrivateKey(der)
		if err != nil {
			return nil, domain.ErrKeyParse
		}
		key, ok := parsed.(*rsa.PrivateKey)
		if !ok {
			return nil, domain.ErrKeyParse
		}
		return key, nil
	default:
		return nil, domain.ErrKeyParse
	}
}

// parseRSAPublicKey parses a PEM public key, accepting both PKIX
// (SubjectPublicKeyInfo) and PKCS#1 (RSAPublicKey) structures.
func parseRSAPublicKey(material []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(material)
	if block == nil {
		return nil, domain.ErrKeyParse
	}

	if parsed, err := x509.ParsePKIXPublicKey(block.Bytes); err == nil {
		if key, ok := parsed.(*rsa.PublicKey); ok {
			return key, nil
		}
		return nil, domain.ErrKeyParse
	}

	key, err := x509.ParsePKCS1PublicKey(block.Bytes)
	if err != nil {
		return nil, domain.ErrKeyParse
	}
	return key, nil
}
