package domain

// Algorithm represents the AEAD algorithm used to encrypt secret values.
//
// Both supported algorithms provide authenticated encryption: tampering with
// the ciphertext or nonce is detected at decryption time.
type Algorithm string

const (
	// AESGCM is AES-256-GCM: 32-byte key, 12-byte nonce, 16-byte tag.
	// Preferred on CPUs with AES-NI hardware acceleration.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 is ChaCha20-Poly1305: 32-byte key, 12-byte nonce, 16-byte tag.
	// Constant-time in software, preferred where AES-NI is unavailable.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

const (
	// KeySize is the size in bytes of every symmetric key in the hierarchy:
	// the master key derived from the PIN and each per-secret key.
	KeySize = 32

	// SaltSize is the size in bytes of the vault salt and per-secret salts.
	SaltSize = 32

	// NonceSize is the AEAD nonce size in bytes for both algorithms.
	NonceSize = 12
)
