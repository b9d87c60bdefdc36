package domain

import (
	"github.com/allisson/vult/internal/errors"
)

// Cryptographic operation error definitions.
//
// These domain-specific errors wrap standard errors from internal/errors
// so adapters can map them to exit codes without inspecting messages.
var (
	// ErrUnsupportedAlgorithm indicates the requested AEAD algorithm is not
	// supported. Supported: AESGCM (aes-gcm), ChaCha20 (chacha20-poly1305).
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeyMaterial indicates key or salt bytes of the wrong size were
	// supplied to a derivation or cipher constructor. All keys and salts are
	// exactly 32 bytes.
	ErrInvalidKeyMaterial = errors.Wrap(errors.ErrInvalidInput, "invalid key material")

	// ErrKeyDerivationFailed indicates a key could not be derived, e.g. the
	// PIN is shorter than the minimum the KDF accepts.
	ErrKeyDerivationFailed = errors.Wrap(errors.ErrInvalidInput, "key derivation failed")

	// ErrEncryptionFailed indicates an AEAD seal operation failed. This should
	// not occur for well-formed keys and only signals a primitive-level fault.
	ErrEncryptionFailed = errors.Wrap(errors.ErrInternal, "encryption failed")

	// ErrDecryptionFailed indicates a decryption operation failed: wrong key,
	// tampered ciphertext or nonce, or a malformed blob. The specific cause is
	// deliberately not disclosed to prevent information leakage.
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "decryption failed")
)
