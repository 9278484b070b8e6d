package service

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"encoding/hex"
	"unicode/utf8"

	"github.com/ynpsss/labrador/internal/envelope/domain"
)

// blockCipher implements BlockCipher with AES-CBC and PKCS#7 padding, the
// padding OpenSSL applies by default for CBC (the platform's reference
// implementation delegates to OpenSSL).
type blockCipher struct {
	keyset *domain.Keyset
	random RandomSource
}

// EncryptMessage builds a frame binding plaintext to recipientID, encrypts
// it with AES-CBC under the keyset using the key-derived IV, and encodes
// the ciphertext as standard base64.
func (b *blockCipher) EncryptMessage(plaintext, recipientID string) (string, error) {
	frame, err := encodeFrame([]byte(plaintext), []byte(recipientID), b.random)
	if err != nil {
		return "", err
	}

	ciphertext, err := b.encrypt(frame, b.keyset.IV())
	if err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// DecryptMessage base64-decodes, decrypts with the key-derived IV, and
// decodes the frame, verifying the bound recipient identity. Content must
// be valid UTF-8; anything else is ErrTextDecode, never an empty string.
func (b *blockCipher) DecryptMessage(ciphertextBase64, recipientID string) (string, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(ciphertextBase64)
	if err != nil {
		return "", domain.ErrEncoding
	}

	frame, err := b.decrypt(ciphertext, b.keyset.IV())
	if err != nil {
		return "", err
	}

	content, err := decodeFrame(frame, []byte(recipientID))
	if err != nil {
		return "", err
	}

	if !utf8.Valid(content) {
		return "", domain.ErrTextDecode
	}

	return string(content), nil
}

// EncryptData encrypts plaintext with AES-CBC under the keyset and the
// caller-supplied IV, returning lowercase hex. The caller is responsible
// for any integrity check on this path.
func (b *blockCipher) EncryptData(plaintext string, iv []byte) (string, error) {
	ciphertext, err := b.encrypt([]byte(plaintext), iv)
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(ciphertext), nil
}

// DecryptData hex-decodes and decrypts with the caller-supplied IV.
func (b *blockCipher) DecryptData(ciphertextHex string, iv []byte) (string, error) {
	ciphertext, err := hex.DecodeString(ciphertextHex)
	if err != nil {
		return "", domain.ErrEncoding
	}

	plaintext, err := b.decrypt(ciphertext, iv)
	if err != nil {
		return "", err
	}

	if !utf8.Valid(plaintext) {
		return "", domain.ErrTextDecode
	}

	return string(plaintext), nil
}

// encrypt applies PKCS#7 padding and AES-CBC encryption.
func (b *blockCipher) encrypt(plaintext, iv []byte) ([]byte, error) {
	block, err := aes.NewCipher(b.keyset.Bytes())
	if err != nil {
		return nil, domain.ErrCipher
	}
	if len(iv) != block.BlockSize() {
		return nil, domain.ErrCipher
	}

	padded := pkcs7Pad(plaintext, block.BlockSize())
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)
	return ciphertext, nil
}

// decrypt applies AES-CBC decryption and strips PKCS#7 padding.
func (b *blockCipher) decrypt(ciphertext, iv []byte) ([]byte, error) {
	block, err := aes.NewCipher(b.keyset.Bytes())
	if err != nil {
		return nil, domain.ErrCipher
	}
	if len(iv) != block.BlockSize() {
		return nil, domain.ErrCipher
	}
	if len(ciphertext) == 0 || len(ciphertext)%block.BlockSize() != 0 {
		return nil, domain.ErrCipher
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)
	return pkcs7Unpad(plaintext, block.BlockSize())
}

// pkcs7Pad appends PKCS#7 padding up to blockSize.
func pkcs7Pad(data []byte, blockSize int) []byte {
	padLen := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+padLen)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padLen)
	}
	return padded
}

// pkcs7Unpad strips PKCS#7 padding, returning ErrCipher on any malformed
// padding byte.
func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, domain.ErrCipher
	}

	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > blockSize || padLen > len(data) {
		return nil, domain.ErrCipher
	}
	for _, b := range data[len(data)-padLen:] {
		if int(b) != padLen {
			return nil, domain.ErrCipher
		}
	}

	return data[:len(data)-padLen], nil
}
