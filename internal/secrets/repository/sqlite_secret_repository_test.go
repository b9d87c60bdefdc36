package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	secretsDomain "github.com/allisson/vult/internal/secrets/domain"
	"github.com/allisson/vult/internal/testutil"
)

func newSecret(appName, keyName string) *secretsDomain.Secret {
	now := time.Now().UTC().Truncate(time.Second)
	keySalt := make([]byte, 32)
	keySalt[0] = 1
	return &secretsDomain.Secret{
		ID:          uuid.Must(uuid.NewV7()),
		AppName:     appName,
		KeyName:     keyName,
		APIURL:      "https://api.example.com",
		Description: "token for " + keyName,
		Ciphertext:  []byte("ciphertext"),
		Nonce:       []byte("0123456789ab"),
		KeySalt:     keySalt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestSQLiteSecretRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("create and get by id", func(t *testing.T) {
		db := testutil.NewDatabase(t)
		repo := NewSQLiteSecretRepository(db)
		secret := newSecret("github", "api-token")

		require.NoError(t, repo.Create(ctx, secret))

		got, err := repo.GetByID(ctx, secret.ID)
		require.NoError(t, err)
		assert.Equal(t, secret.ID, got.ID)
		assert.Equal(t, secret.AppName, got.AppName)
		assert.Equal(t, secret.KeyName, got.KeyName)
		assert.Equal(t, secret.APIURL, got.APIURL)
		assert.Equal(t, secret.Ciphertext, got.Ciphertext)
		assert.Equal(t, secret.Nonce, got.Nonce)
		assert.Equal(t, secret.KeySalt, got.KeySalt)
		assert.Equal(t, secret.CreatedAt, got.CreatedAt)
	})

	t.Run("duplicate key name is rejected even across apps", func(t *testing.T) {
		db := testutil.NewDatabase(t)
		repo := NewSQLiteSecretRepository(db)

		require.NoError(t, repo.Create(ctx, newSecret("github", "api-token")))
		err := repo.Create(ctx, newSecret("gitlab", "api-token"))
		assert.ErrorIs(t, err, secretsDomain.ErrDuplicateKeyName)
	})

	t.Run("empty app name round trips", func(t *testing.T) {
		db := testutil.NewDatabase(t)
		repo := NewSQLiteSecretRepository(db)
		secret := newSecret("", "api-token")

		require.NoError(t, repo.Create(ctx, secret))

		got, err := repo.GetByName(ctx, "", "api-token")
		require.NoError(t, err)
		assert.Equal(t, "", got.AppName)
	})
}

func TestSQLiteSecretRepository_GetByName(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDatabase(t)
	repo := NewSQLiteSecretRepository(db)

	secret := newSecret("github", "api-token")
	require.NoError(t, repo.Create(ctx, secret))

	t.Run("found", func(t *testing.T) {
		got, err := repo.GetByName(ctx, "github", "api-token")
		require.NoError(t, err)
		assert.Equal(t, secret.ID, got.ID)
	})

	t.Run("wrong app name", func(t *testing.T) {
		_, err := repo.GetByName(ctx, "gitlab", "api-token")
		assert.ErrorIs(t, err, secretsDomain.ErrSecretNotFound)
	})

	t.Run("unknown key name", func(t *testing.T) {
		_, err := repo.GetByName(ctx, "github", "missing")
		assert.ErrorIs(t, err, secretsDomain.ErrSecretNotFound)
	})
}

func TestSQLiteSecretRepository_ListAndSearch(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDatabase(t)
	repo := NewSQLiteSecretRepository(db)

	require.NoError(t, repo.Create(ctx, newSecret("github", "gh-token")))
	require.NoError(t, repo.Create(ctx, newSecret("gitlab", "gl-token")))
	require.NoError(t, repo.Create(ctx, newSecret("", "standalone")))

	t.Run("list returns everything ordered", func(t *testing.T) {
		secrets, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, secrets, 3)
		assert.Equal(t, "standalone", secrets[0].KeyName)
		assert.Equal(t, "gh-token", secrets[1].KeyName)
		assert.Equal(t, "gl-token", secrets[2].KeyName)
	})

	t.Run("search matches app name case-insensitively", func(t *testing.T) {
		secrets, err := repo.Search(ctx, "GITHUB")
		require.NoError(t, err)
		require.Len(t, secrets, 1)
		assert.Equal(t, "gh-token", secrets[0].KeyName)
	})

	t.Run("search matches key name", func(t *testing.T) {
		secrets, err := repo.Search(ctx, "standalone")
		require.NoError(t, err)
		assert.Len(t, secrets, 1)
	})

	t.Run("search matches description", func(t *testing.T) {
		secrets, err := repo.Search(ctx, "token for gl")
		require.NoError(t, err)
		assert.Len(t, secrets, 1)
	})

	t.Run("no match yields empty result", func(t *testing.T) {
		secrets, err := repo.Search(ctx, "nothing-here")
		require.NoError(t, err)
		assert.Empty(t, secrets)
	})
}

func TestSQLiteSecretRepository_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("update replaces mutable columns", func(t *testing.T) {
		db := testutil.NewDatabase(t)
		repo := NewSQLiteSecretRepository(db)
		secret := newSecret("github", "api-token")
		require.NoError(t, repo.Create(ctx, secret))

		secret.AppName = "gitlab"
		secret.Description = "moved"
		secret.Ciphertext = []byte("new-ciphertext")
		secret.UpdatedAt = secret.UpdatedAt.Add(time.Minute)
		require.NoError(t, repo.Update(ctx, secret))

		got, err := repo.GetByID(ctx, secret.ID)
		require.NoError(t, err)
		assert.Equal(t, "gitlab", got.AppName)
		assert.Equal(t, "moved", got.Description)
		assert.Equal(t, []byte("new-ciphertext"), got.Ciphertext)
		assert.Equal(t, secret.UpdatedAt, got.UpdatedAt)
	})

	t.Run("renaming onto a taken key name conflicts", func(t *testing.T) {
		db := testutil.NewDatabase(t)
		repo := NewSQLiteSecretRepository(db)
		first := newSecret("github", "api-token")
		second := newSecret("gitlab", "other-token")
		require.NoError(t, repo.Create(ctx, first))
		require.NoError(t, repo.Create(ctx, second))

		second.KeyName = "api-token"
		assert.ErrorIs(t, repo.Update(ctx, second), secretsDomain.ErrDuplicateKeyName)
	})

	t.Run("update of a missing secret", func(t *testing.T) {
		db := testutil.NewDatabase(t)
		repo := NewSQLiteSecretRepository(db)

		err := repo.Update(ctx, newSecret("github", "api-token"))
		assert.ErrorIs(t, err, secretsDomain.ErrSecretNotFound)
	})
}

func TestSQLiteSecretRepository_UpdateCiphertext(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDatabase(t)
	repo := NewSQLiteSecretRepository(db)

	secret := newSecret("github", "api-token")
	require.NoError(t, repo.Create(ctx, secret))

	newSalt := make([]byte, 32)
	newSalt[0] = 0xff
	require.NoError(t, repo.UpdateCiphertext(ctx, secret.ID, []byte("ct2"), []byte("ba9876543210"), newSalt))

	got, err := repo.GetByID(ctx, secret.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("ct2"), got.Ciphertext)
	assert.Equal(t, []byte("ba9876543210"), got.Nonce)
	assert.Equal(t, newSalt, got.KeySalt)
	// Metadata is untouched.
	assert.Equal(t, "github", got.AppName)

	err = repo.UpdateCiphertext(ctx, uuid.Must(uuid.NewV7()), []byte("x"), []byte("y"), newSalt)
	assert.ErrorIs(t, err, secretsDomain.ErrSecretNotFound)
}

func TestSQLiteSecretRepository_Delete(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDatabase(t)
	repo := NewSQLiteSecretRepository(db)

	secret := newSecret("github", "api-token")
	require.NoError(t, repo.Create(ctx, secret))

	require.NoError(t, repo.Delete(ctx, secret.ID))
	_, err := repo.GetByID(ctx, secret.ID)
	assert.ErrorIs(t, err, secretsDomain.ErrSecretNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, secret.ID), secretsDomain.ErrSecretNotFound)
}

func TestSQLiteSecretRepository_Count(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDatabase(t)
	repo := NewSQLiteSecretRepository(db)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	require.NoError(t, repo.Create(ctx, newSecret("github", "gh-token")))
	require.NoError(t, repo.Create(ctx, newSecret("gitlab", "gl-token")))

	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
