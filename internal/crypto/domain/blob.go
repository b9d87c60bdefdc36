// Package domain defines key-material types and constants for the vault's
// two-level key hierarchy: a master key derived from the user's PIN and one
// derived key per stored secret.
package domain

// EncryptedBlob is the output of a single AEAD encryption: the ciphertext with
// the authentication tag appended, plus the random nonce used for that call.
// A blob is useless without the exact key and nonce that produced it.
type EncryptedBlob struct {
	Ciphertext []byte
	Nonce      []byte
}
