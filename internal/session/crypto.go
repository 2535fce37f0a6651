package session

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

// BlobCipher encrypts session blobs at rest with AES-GCM. The key is
// derived per blob from the configured secret and a random salt.
// Format: salt(16) + nonce(12) + encrypted_data.
type BlobCipher struct {
	secret []byte
}

func NewBlobCipher(secret string) *BlobCipher {
	return &BlobCipher{secret: []byte(secret)}
}

func (c *BlobCipher) Seal(plain []byte) ([]byte, error) {
	salt := make([]byte, 16)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	gcm, err := c.gcm(salt)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	out := make([]byte, 0, len(salt)+len(nonce)+len(plain)+gcm.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	return gcm.Seal(out, nonce, plain, nil), nil
}

func (c *BlobCipher) Open(blob []byte) ([]byte, error) {
	if len(blob) < 28 {
		return nil, fmt.Errorf("encrypted blob too short: %d bytes", len(blob))
	}
	salt := blob[:16]
	nonce := blob[16:28]
	ciphertext := blob[28:]

	gcm, err := c.gcm(salt)
	if err != nil {
		return nil, err
	}
	plain, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("GCM decryption failed: %w", err)
	}
	return plain, nil
}

func (c *BlobCipher) gcm(salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key(c.secret, salt, 100000, 32, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}
