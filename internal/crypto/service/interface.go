package service

import (
	"github.com/allisson/vult/internal/crypto/domain"
)

// AEAD provides authenticated encryption with associated data for a single
// algorithm. Implementations are stateless and safe for concurrent use.
type AEAD interface {
	// Encrypt seals plaintext with a fresh random nonce and returns the
	// ciphertext (tag appended) together with the nonce. The optional aad is
	// authenticated but not encrypted.
	Encrypt(key, plaintext, aad []byte) (*domain.EncryptedBlob, error)
	// Decrypt opens a previously sealed blob. It returns
	// domain.ErrDecryptionFailed for any failure: wrong key, wrong aad,
	// tampered ciphertext, or a nonce of the wrong length.
	Decrypt(key []byte, blob *domain.EncryptedBlob, aad []byte) ([]byte, error)
	// Algorithm returns the algorithm identifier of this implementation.
	Algorithm() domain.Algorithm
}

// AEADManager selects an AEAD implementation by algorithm identifier.
type AEADManager interface {
	GetAEAD(algorithm domain.Algorithm) (AEAD, error)
}

// KeyDeriver derives the key hierarchy from the user's PIN.
type KeyDeriver interface {
	// GenerateSalt returns a fresh random salt of domain.SaltSize bytes.
	GenerateSalt() ([]byte, error)
	// DeriveMasterKey stretches the PIN into the 32-byte master key using the
	// vault salt. The same PIN and salt always yield the same key.
	DeriveMasterKey(pin string, salt []byte) ([]byte, error)
	// DeriveSecretKey derives a per-secret key from the master key, the
	// secret's identity (app and key names), and a per-secret salt. Changing
	// any input yields an unrelated key.
	DeriveSecretKey(masterKey []byte, appName, keyName string, salt []byte) ([]byte, error)
}
