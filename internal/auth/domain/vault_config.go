// Package domain defines the vault's authentication model: the stored vault
// configuration, PIN policy, and session states.
package domain

import (
	"time"
)

// VaultConfig is the singleton row holding the vault's key-derivation salt
// and the PIN verification artifact. It is created once at initialization
// and rewritten only by a PIN change.
type VaultConfig struct {
	Salt             []byte
	VerificationHash string
	CreatedAt        time.Time
}

// SessionState describes the authentication state of the vault session.
type SessionState string

const (
	// StateUninitialized means no vault configuration exists yet.
	StateUninitialized SessionState = "uninitialized"
	// StateLocked means the vault is initialized but no master key is held.
	StateLocked SessionState = "locked"
	// StateUnlocked means the master key is held in memory.
	StateUnlocked SessionState = "unlocked"
)
