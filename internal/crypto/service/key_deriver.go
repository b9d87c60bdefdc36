package service

import (
	"crypto/rand"

	"golang.org/x/crypto/argon2"

	"github.com/allisson/vult/internal/crypto/domain"
	"github.com/allisson/vult/internal/errors"
)

// Argon2id parameters for the master key. Memory-hard to slow down offline
// guessing of short PINs.
const (
	masterKeyTime    = 3
	masterKeyMemory  = 64 * 1024 // KiB
	masterKeyThreads = 4
)

// Argon2id parameters for per-secret keys. Lighter than the master KDF since
// the input is already a 32-byte key, not a low-entropy PIN.
const (
	secretKeyTime    = 2
	secretKeyMemory  = 32 * 1024 // KiB
	secretKeyThreads = 2
)

// minPINLength is the shortest PIN the KDF accepts. Session-level validation
// enforces the full PIN policy; this is a hard floor at the primitive level.
const minPINLength = 6

// Argon2idDeriver implements KeyDeriver using Argon2id.
type Argon2idDeriver struct{}

// NewArgon2idDeriver creates a new Argon2idDeriver.
func NewArgon2idDeriver() *Argon2idDeriver {
	return &Argon2idDeriver{}
}

// GenerateSalt returns domain.SaltSize bytes from crypto/rand.
func (d *Argon2idDeriver) GenerateSalt() ([]byte, error) {
	salt := make([]byte, domain.SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, errors.Wrap(domain.ErrKeyDerivationFailed, "generate salt")
	}
	return salt, nil
}

// DeriveMasterKey stretches the PIN into the master key with the heavy
// Argon2id parameter set.
func (d *Argon2idDeriver) DeriveMasterKey(pin string, salt []byte) ([]byte, error) {
	if len(pin) < minPINLength {
		return nil, errors.Wrapf(domain.ErrKeyDerivationFailed, "pin must be at least %d characters", minPINLength)
	}
	if len(salt) != domain.SaltSize {
		return nil, errors.Wrapf(domain.ErrInvalidKeyMaterial, "salt must be %d bytes, got %d", domain.SaltSize, len(salt))
	}
	key := argon2.IDKey([]byte(pin), salt, masterKeyTime, masterKeyMemory, masterKeyThreads, domain.KeySize)
	return key, nil
}

// DeriveSecretKey binds the derived key to the secret's identity by appending
// "app|key" context bytes to the master key before stretching. Renaming a
// secret therefore requires re-encryption under a newly derived key.
func (d *Argon2idDeriver) DeriveSecretKey(masterKey []byte, appName, keyName string, salt []byte) ([]byte, error) {
	if len(masterKey) != domain.KeySize {
		return nil, errors.Wrapf(domain.ErrInvalidKeyMaterial, "master key must be %d bytes, got %d", domain.KeySize, len(masterKey))
	}
	if len(salt) != domain.SaltSize {
		return nil, errors.Wrapf(domain.ErrInvalidKeyMaterial, "salt must be %d bytes, got %d", domain.SaltSize, len(salt))
	}

	context := appName + "|" + keyName
	password := make([]byte, 0, len(masterKey)+len(context))
	password = append(password, masterKey...)
	password = append(password, context...)
	defer domain.Zero(password)

	key := argon2.IDKey(password, salt, secretKeyTime, secretKeyMemory, secretKeyThreads, domain.KeySize)
	return key, nil
}
