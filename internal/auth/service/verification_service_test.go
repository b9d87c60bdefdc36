package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerificationService(t *testing.T) {
	svc := NewVerificationService()
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}

	t.Run("hash and verify round trip", func(t *testing.T) {
		hash, err := svc.HashKey(key)
		require.NoError(t, err)
		assert.NotEmpty(t, hash)
		assert.True(t, svc.CompareKey(key, hash))
	})

	t.Run("wrong key does not verify", func(t *testing.T) {
		hash, err := svc.HashKey(key)
		require.NoError(t, err)

		wrongKey := make([]byte, 32)
		copy(wrongKey, key)
		wrongKey[0] ^= 0xff
		assert.False(t, svc.CompareKey(wrongKey, hash))
	})

	t.Run("hashes are salted", func(t *testing.T) {
		hash1, err := svc.HashKey(key)
		require.NoError(t, err)
		hash2, err := svc.HashKey(key)
		require.NoError(t, err)
		assert.NotEqual(t, hash1, hash2)
	})

	t.Run("malformed hash does not verify", func(t *testing.T) {
		assert.False(t, svc.CompareKey(key, "not-a-phc-string"))
	})
}
