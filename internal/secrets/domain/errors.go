package domain

import (
	"github.com/allisson/vult/internal/errors"
)

// Secret management error definitions.
var (
	// ErrSecretNotFound indicates no secret matches the given identity.
	ErrSecretNotFound = errors.Wrap(errors.ErrNotFound, "secret not found")

	// ErrDuplicateKeyName indicates the key name is already taken. Key names
	// are unique across the whole vault, not per app.
	ErrDuplicateKeyName = errors.Wrap(errors.ErrConflict, "duplicate key name")
)
