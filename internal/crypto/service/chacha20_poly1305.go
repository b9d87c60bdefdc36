package service

import (
	"crypto/rand"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/allisson/vult/internal/crypto/domain"
	"github.com/allisson/vult/internal/errors"
)

// ChaCha20Poly1305 implements AEAD using ChaCha20-Poly1305.
type ChaCha20Poly1305 struct{}

// NewChaCha20Poly1305 creates a new ChaCha20Poly1305.
func NewChaCha20Poly1305() *ChaCha20Poly1305 {
	return &ChaCha20Poly1305{}
}

// Encrypt seals plaintext under key with a random 12-byte nonce.
func (c *ChaCha20Poly1305) Encrypt(key, plaintext, aad []byte) (*domain.EncryptedBlob, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, errors.Wrapf(domain.ErrInvalidKeyMaterial, "key must be %d bytes, got %d", chacha20poly1305.KeySize, len(key))
	}

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, errors.Wrap(domain.ErrInvalidKeyMaterial, "create cipher")
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, errors.Wrap(domain.ErrEncryptionFailed, "generate nonce")
	}

	ciphertext := aead.Seal(nil, nonce, plaintext, aad)
	return &domain.EncryptedBlob{Ciphertext: ciphertext, Nonce: nonce}, nil
}

// Decrypt opens the blob. Any failure, including a nonce of the wrong length,
// maps to domain.ErrDecryptionFailed without disclosing the cause.
func (c *ChaCha20Poly1305) Decrypt(key []byte, blob *domain.EncryptedBlob, aad []byte) ([]byte, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, errors.Wrapf(domain.ErrInvalidKeyMaterial, "key must be %d bytes, got %d", chacha20poly1305.KeySize, len(key))
	}

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, errors.Wrap(domain.ErrInvalidKeyMaterial, "create cipher")
	}

	// cipher.AEAD panics on a wrong-length nonce, so reject it here.
	if len(blob.Nonce) != aead.NonceSize() {
		return nil, errors.Wrap(domain.ErrDecryptionFailed, "invalid nonce")
	}

	plaintext, err := aead.Open(nil, blob.Nonce, blob.Ciphertext, aad)
	if err != nil {
		return nil, domain.ErrDecryptionFailed
	}
	return plaintext, nil
}

// Algorithm returns domain.ChaCha20.
func (c *ChaCha20Poly1305) Algorithm() domain.Algorithm {
	return domain.ChaCha20
}
