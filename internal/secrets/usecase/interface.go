// Package usecase implements the business logic for managing encrypted
// secrets: creation, retrieval with decryption, search, updates with
// selective re-encryption, and bulk re-keying.
package usecase

import (
	"context"

	"github.com/google/uuid"

	secretsDomain "github.com/allisson/vult/internal/secrets/domain"
)

// SecretRepository defines the interface for Secret persistence operations.
type SecretRepository interface {
	Create(ctx context.Context, secret *secretsDomain.Secret) error
	GetByID(ctx context.Context, secretID uuid.UUID) (*secretsDomain.Secret, error)
	GetByName(ctx context.Context, appName, keyName string) (*secretsDomain.Secret, error)
	List(ctx context.Context) ([]*secretsDomain.Secret, error)
	Search(ctx context.Context, q string) ([]*secretsDomain.Secret, error)
	Update(ctx context.Context, secret *secretsDomain.Secret) error
	UpdateCiphertext(ctx context.Context, secretID uuid.UUID, ciphertext, nonce, keySalt []byte) error
	Delete(ctx context.Context, secretID uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

// Session is the slice of the vault session the registry depends on: access
// to the master key and activity bookkeeping.
type Session interface {
	// MasterKey returns an independent copy of the master key, or an
	// unauthorized error while locked.
	MasterKey() ([]byte, error)
	UpdateActivity()
}

// SecretRegistry defines the interface for secret management business logic.
// Every operation requires an unlocked session.
type SecretRegistry interface {
	Create(ctx context.Context, input *secretsDomain.CreateSecretInput) (*secretsDomain.Secret, error)
	// Get retrieves and decrypts a secret by app and key name.
	//
	// Security Note: The returned Secret contains plaintext data in the
	// Plaintext field. Callers MUST zero this data after use by calling
	// cryptoDomain.Zero(secret.Plaintext).
	Get(ctx context.Context, appName, keyName string) (*secretsDomain.Secret, error)
	// GetByID retrieves and decrypts a secret by its identifier. The same
	// security note as Get applies.
	GetByID(ctx context.Context, secretID uuid.UUID) (*secretsDomain.Secret, error)
	List(ctx context.Context) ([]*secretsDomain.Secret, error)
	Search(ctx context.Context, q string) ([]*secretsDomain.Secret, error)
	Update(ctx context.Context, secretID uuid.UUID, input *secretsDomain.UpdateSecretInput) (*secretsDomain.Secret, error)
	Delete(ctx context.Context, secretID uuid.UUID) (*secretsDomain.Secret, error)
	Count(ctx context.Context) (int64, error)
	// ReencryptAll upgrades rows still on the legacy master-key-only scheme
	// to per-secret derived keys. Returns the number of rows upgraded.
	ReencryptAll(ctx context.Context) (int, error)
	// Rekey re-encrypts every secret from oldKey to newKey. Meant to run
	// inside the PIN-change transaction.
	Rekey(ctx context.Context, oldKey, newKey []byte) error
}
