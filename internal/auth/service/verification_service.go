// Package service provides PIN verification for the vault using Argon2id
// password hashing in PHC string format.
package service

import (
	"github.com/allisson/go-pwdhash"

	apperrors "github.com/allisson/vult/internal/errors"
)

// VerificationService hashes and verifies master keys for PIN verification.
// The stored artifact never reveals anything about the key: verification is
// a constant-time Argon2id comparison, not a plaintext byte check.
type VerificationService interface {
	HashKey(masterKey []byte) (string, error)
	CompareKey(masterKey []byte, hash string) bool
}

// verificationService implements VerificationService using Argon2id.
type verificationService struct {
	hasher *pwdhash.PasswordHasher
}

// NewVerificationService creates a VerificationService instance.
// Uses the Interactive policy: the input is a full-entropy 32-byte key, the
// expensive stretching already happened in the master KDF.
func NewVerificationService() VerificationService {
	hasher, err := pwdhash.New(
		pwdhash.WithPolicy(pwdhash.PolicyInteractive),
	)
	if err != nil {
		// This should never happen with valid policy
		panic(err)
	}

	return &verificationService{
		hasher: hasher,
	}
}

// HashKey hashes the master key into a PHC-format verification string.
func (s *verificationService) HashKey(masterKey []byte) (string, error) {
	hash, err := s.hasher.Hash(masterKey)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash master key")
	}
	return hash, nil
}

// CompareKey performs a constant-time comparison between a master key and its
// stored verification hash.
func (s *verificationService) CompareKey(masterKey []byte, hash string) bool {
	ok, err := s.hasher.Verify(masterKey, hash)
	if err != nil {
		return false
	}
	return ok
}
