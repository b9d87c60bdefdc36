package database

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Connect(Config{Path: InMemoryPath, BusyTimeout: 5000})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func createV1Schema(t *testing.T, db *sql.DB) {
	t.Helper()
	ctx := context.Background()
	_, err := db.ExecContext(ctx, `
		CREATE TABLE vault_config (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			salt BLOB NOT NULL,
			verification_hash TEXT NOT NULL,
			created_at INTEGER NOT NULL
		);
		CREATE TABLE secrets (
			id TEXT PRIMARY KEY,
			app_name TEXT,
			key_name TEXT NOT NULL UNIQUE,
			api_url TEXT,
			description TEXT,
			ciphertext BLOB NOT NULL,
			nonce BLOB NOT NULL,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);
	`)
	require.NoError(t, err)
}

func TestMigrator_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("fresh database gets the current schema", func(t *testing.T) {
		db := openTestDB(t)
		migrator := NewMigrator(db, InMemoryPath, testLogger())
		require.NoError(t, migrator.Run(ctx))

		version, err := migrator.currentVersion(ctx)
		require.NoError(t, err)
		assert.Equal(t, SchemaVersion, version)

		for _, table := range []string{"vault_config", "secrets", "schema_version"} {
			exists, err := migrator.tableExists(ctx, table)
			require.NoError(t, err)
			assert.True(t, exists, "table %s should exist", table)
		}
	})

	t.Run("run is idempotent", func(t *testing.T) {
		db := openTestDB(t)
		migrator := NewMigrator(db, InMemoryPath, testLogger())
		require.NoError(t, migrator.Run(ctx))
		require.NoError(t, migrator.Run(ctx))
	})

	t.Run("newer schema version is rejected", func(t *testing.T) {
		db := openTestDB(t)
		migrator := NewMigrator(db, InMemoryPath, testLogger())
		require.NoError(t, migrator.Run(ctx))

		_, err := db.ExecContext(ctx, `INSERT INTO schema_version (version, migrated_at) VALUES (?, 0)`, SchemaVersion+1)
		require.NoError(t, err)

		err = migrator.Run(ctx)
		assert.ErrorIs(t, err, ErrIncompatibleSchemaVersion)
	})

	t.Run("v1 database is migrated to v2", func(t *testing.T) {
		db := openTestDB(t)
		createV1Schema(t, db)

		_, err := db.ExecContext(ctx, `
			INSERT INTO secrets (id, app_name, key_name, api_url, description, ciphertext, nonce, created_at, updated_at)
			VALUES ('abc', 'github', 'api-token', '', '', x'deadbeef', x'000102030405060708090a0b', 100, 100)
		`)
		require.NoError(t, err)

		migrator := NewMigrator(db, InMemoryPath, testLogger())
		require.NoError(t, migrator.Run(ctx))

		version, err := migrator.currentVersion(ctx)
		require.NoError(t, err)
		assert.Equal(t, SchemaVersion, version)

		// Carried-over rows are marked with an all-zero key salt.
		var keySalt []byte
		var keyName string
		err = db.QueryRowContext(ctx, `SELECT key_name, key_salt FROM secrets WHERE id = 'abc'`).Scan(&keyName, &keySalt)
		require.NoError(t, err)
		assert.Equal(t, "api-token", keyName)
		assert.Equal(t, make([]byte, 32), keySalt)
	})

	t.Run("orphaned temp tables are dropped", func(t *testing.T) {
		db := openTestDB(t)
		_, err := db.ExecContext(ctx, `CREATE TABLE secrets_new (id TEXT PRIMARY KEY)`)
		require.NoError(t, err)

		migrator := NewMigrator(db, InMemoryPath, testLogger())
		require.NoError(t, migrator.Run(ctx))

		exists, err := migrator.tableExists(ctx, "secrets_new")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestConnect(t *testing.T) {
	t.Run("creates parent directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "dir", "vault.db")
		db, err := Connect(Config{Path: path, BusyTimeout: 5000})
		require.NoError(t, err)
		defer db.Close()

		require.NoError(t, db.Ping())
	})

	t.Run("in-memory database", func(t *testing.T) {
		db, err := Connect(Config{Path: InMemoryPath, BusyTimeout: 5000})
		require.NoError(t, err)
		defer db.Close()

		require.NoError(t, db.Ping())
	})
}

func TestIsInMemory(t *testing.T) {
	assert.True(t, IsInMemory(":memory:"))
	assert.True(t, IsInMemory("file:test?mode=memory&cache=shared"))
	assert.False(t, IsInMemory("/home/user/.vult/vault.db"))
}

func TestTxManager(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) *sql.DB {
		db := openTestDB(t)
		_, err := db.ExecContext(ctx, `CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT)`)
		require.NoError(t, err)
		return db
	}

	t.Run("commit on success", func(t *testing.T) {
		db := setup(t)
		manager := NewTxManager(db)

		err := manager.WithTx(ctx, func(ctx context.Context) error {
			_, err := GetTx(ctx, db).ExecContext(ctx, `INSERT INTO items (name) VALUES ('a')`)
			return err
		})
		require.NoError(t, err)

		var count int
		require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&count))
		assert.Equal(t, 1, count)
	})

	t.Run("rollback on error", func(t *testing.T) {
		db := setup(t)
		manager := NewTxManager(db)

		err := manager.WithTx(ctx, func(ctx context.Context) error {
			if _, err := GetTx(ctx, db).ExecContext(ctx, `INSERT INTO items (name) VALUES ('a')`); err != nil {
				return err
			}
			return assert.AnError
		})
		assert.ErrorIs(t, err, assert.AnError)

		var count int
		require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&count))
		assert.Equal(t, 0, count)
	})

	t.Run("querier without transaction falls back to db", func(t *testing.T) {
		db := setup(t)
		_, err := GetTx(ctx, db).ExecContext(ctx, `INSERT INTO items (name) VALUES ('a')`)
		require.NoError(t, err)
	})
}
