package domain

import (
	"github.com/allisson/vult/internal/errors"
)

// Authentication error definitions.
var (
	// ErrPinTooShort indicates the PIN is below the minimum length.
	ErrPinTooShort = errors.Wrap(errors.ErrInvalidInput, "pin too short")

	// ErrPinTooLong indicates the PIN exceeds the maximum length.
	ErrPinTooLong = errors.Wrap(errors.ErrInvalidInput, "pin too long")

	// ErrInvalidPinCharacter indicates the PIN contains characters outside
	// printable ASCII.
	ErrInvalidPinCharacter = errors.Wrap(errors.ErrInvalidInput, "invalid pin character")

	// ErrInvalidPin indicates the PIN does not match the vault's
	// verification artifact.
	ErrInvalidPin = errors.Wrap(errors.ErrUnauthorized, "invalid pin")

	// ErrTooManyAttempts indicates consecutive failed unlocks reached the
	// configured limit and the session refuses further attempts.
	ErrTooManyAttempts = errors.Wrap(errors.ErrUnauthorized, "too many failed attempts")

	// ErrNotInitialized indicates the vault has no configuration yet;
	// initialization must happen first.
	ErrNotInitialized = errors.Wrap(errors.ErrFailedPrecondition, "vault not initialized")

	// ErrAlreadyInitialized indicates initialization was attempted on a vault
	// that already has a configuration.
	ErrAlreadyInitialized = errors.Wrap(errors.ErrConflict, "vault already initialized")

	// ErrLocked indicates an operation that needs the master key was called
	// while the session is locked.
	ErrLocked = errors.Wrap(errors.ErrUnauthorized, "vault is locked")
)
