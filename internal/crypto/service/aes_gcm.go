// Package service implements the cryptographic primitives for the vault:
// Argon2id key derivation and the AES-256-GCM and ChaCha20-Poly1305 AEADs.
package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"

	"github.com/allisson/vult/internal/crypto/domain"
	"github.com/allisson/vult/internal/errors"
)

// AESGCM implements AEAD using AES-256-GCM.
type AESGCM struct{}

// NewAESGCM creates a new AESGCM.
func NewAESGCM() *AESGCM {
	return &AESGCM{}
}

// Encrypt seals plaintext under key with a random 12-byte nonce.
func (a *AESGCM) Encrypt(key, plaintext, aad []byte) (*domain.EncryptedBlob, error) {
	aead, err := a.newAEAD(key)
	if err != nil {
		return nil, err
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
func (a *AESGCM) Decrypt(key []byte, blob *domain.EncryptedBlob, aad []byte) ([]byte, error) {
	aead, err := a.newAEAD(key)
	if err != nil {
		return nil, err
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

// Algorithm returns domain.AESGCM.
func (a *AESGCM) Algorithm() domain.Algorithm {
	return domain.AESGCM
}

func (a *AESGCM) newAEAD(key []byte) (cipher.AEAD, error) {
	if len(key) != domain.KeySize {
		return nil, errors.Wrapf(domain.ErrInvalidKeyMaterial, "key must be %d bytes, got %d", domain.KeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(domain.ErrInvalidKeyMaterial, "create cipher")
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Wrap(domain.ErrInvalidKeyMaterial, "create gcm")
	}
	return aead, nil
}
