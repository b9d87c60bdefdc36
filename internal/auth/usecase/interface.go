// Package usecase implements the vault session: initialization, unlocking
// with brute-force protection, PIN changes, and automatic locking.
package usecase

import (
	"context"

	authDomain "github.com/allisson/vult/internal/auth/domain"
)

// VaultConfigRepository defines persistence operations for the vault
// configuration singleton.
type VaultConfigRepository interface {
	Get(ctx context.Context) (*authDomain.VaultConfig, error)
	Create(ctx context.Context, config *authDomain.VaultConfig) error
	Update(ctx context.Context, config *authDomain.VaultConfig) error
}

// RekeyFunc re-encrypts stored material from oldKey to newKey. It runs inside
// the PIN-change transaction so a failure rolls the whole change back.
type RekeyFunc func(ctx context.Context, oldKey, newKey []byte) error

// SessionUseCase defines the vault session operations.
type SessionUseCase interface {
	Initialize(ctx context.Context, pin string) error
	Unlock(ctx context.Context, pin string) error
	Lock()
	ChangePIN(ctx context.Context, oldPIN, newPIN string, rekey RekeyFunc) error
	// MasterKey returns an independent copy of the in-memory master key, or
	// ErrLocked. Callers should zero the copy after use.
	MasterKey() ([]byte, error)
	UpdateActivity()
	SessionState() authDomain.SessionState
	IsInitialized(ctx context.Context) (bool, error)
	Run(ctx context.Context) error
}
