// Package domain defines the secret entity and its input types.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Secret is an encrypted credential stored in the vault. The value is sealed
// under a key derived from the master key, the secret's identity (app and
// key names), and KeySalt.
//
// An all-zero KeySalt marks a row carried over from the legacy scheme where
// values were encrypted directly under the master key; such rows are picked
// up by re-encryption.
type Secret struct {
	ID          uuid.UUID
	AppName     string // optional grouping; empty means unset
	KeyName     string // unique across the vault
	APIURL      string
	Description string
	Ciphertext  []byte
	Nonce       []byte
	KeySalt     []byte
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Plaintext holds the decrypted value after a Get. Callers MUST zero it
	// after use with cryptoDomain.Zero. Never persisted.
	Plaintext []byte
}

// NeedsReencryption reports whether the row still uses the legacy
// master-key-only encryption scheme.
func (s *Secret) NeedsReencryption() bool {
	if len(s.KeySalt) == 0 {
		return true
	}
	for _, b := range s.KeySalt {
		if b != 0 {
			return false
		}
	}
	return true
}

// CreateSecretInput carries the fields for creating a secret.
type CreateSecretInput struct {
	AppName     string
	KeyName     string
	APIURL      string
	Description string
	Value       string
}

// UpdateSecretInput carries the fields for updating a secret. Nil fields are
// left unchanged. Changing AppName, KeyName, or Value forces re-encryption
// since the encryption key is bound to all three.
type UpdateSecretInput struct {
	AppName     *string
	KeyName     *string
	APIURL      *string
	Description *string
	Value       *string
}
