package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/allisson/vult/internal/errors"
)

// SchemaVersion is the schema version this build reads and writes.
//
// Version history:
//
//	v1: per-secret values encrypted directly under the master key.
//	v2: adds secrets.key_salt; values encrypted under per-secret derived
//	    keys. Rows carried over from v1 get an all-zero key_salt marking
//	    them as pending re-encryption.
const SchemaVersion = 2

// ErrIncompatibleSchemaVersion indicates the vault file was written by a
// newer build. Refusing to open avoids silently corrupting data this build
// does not understand.
var ErrIncompatibleSchemaVersion = errors.Wrap(errors.ErrFailedPrecondition, "incompatible schema version")

const schemaV2 = `
CREATE TABLE IF NOT EXISTS vault_config (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	salt BLOB NOT NULL,
	verification_hash TEXT NOT NULL,
	created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS secrets (
	id TEXT PRIMARY KEY,
	app_name TEXT,
	key_name TEXT NOT NULL UNIQUE,
	api_url TEXT,
	description TEXT,
	ciphertext BLOB NOT NULL,
	nonce BLOB NOT NULL,
	key_salt BLOB NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_secrets_app_name ON secrets(app_name);

CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER PRIMARY KEY,
	migrated_at INTEGER NOT NULL
);
`

// Migrator brings a vault file up to the current schema version.
type Migrator struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// NewMigrator creates a Migrator for the database at path.
func NewMigrator(db *sql.DB, path string, logger *slog.Logger) *Migrator {
	return &Migrator{db: db, path: path, logger: logger}
}

// Run migrates the database to SchemaVersion. It is safe to call on every
// open: a fresh file gets the full schema, an up-to-date file is left alone,
// and a file written by a newer build is rejected.
func (m *Migrator) Run(ctx context.Context) error {
	if err := m.dropOrphanedTables(ctx); err != nil {
		return err
	}

	version, err := m.currentVersion(ctx)
	if err != nil {
		return err
	}

	switch {
	case version > SchemaVersion:
		return errors.Wrapf(ErrIncompatibleSchemaVersion, "vault is at version %d, this build supports up to %d", version, SchemaVersion)
	case version == SchemaVersion:
		return nil
	case version == 0:
		return m.createSchema(ctx)
	default:
		return m.migrateV1ToV2(ctx)
	}
}

// currentVersion returns the recorded schema version, 1 for a legacy file
// that predates version tracking, or 0 for a fresh database.
func (m *Migrator) currentVersion(ctx context.Context) (int, error) {
	hasVersionTable, err := m.tableExists(ctx, "schema_version")
	if err != nil {
		return 0, err
	}

	if hasVersionTable {
		var version int
		err := m.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version)
		if err != nil {
			return 0, errors.Wrapf(errors.ErrInternal, "read schema version: %v", err)
		}
		if version > 0 {
			return version, nil
		}
	}

	hasSecrets, err := m.tableExists(ctx, "secrets")
	if err != nil {
		return 0, err
	}
	if hasSecrets {
		return 1, nil
	}
	return 0, nil
}

func (m *Migrator) tableExists(ctx context.Context, name string) (bool, error) {
	var count int
	err := m.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&count)
	if err != nil {
		return false, errors.Wrapf(errors.ErrInternal, "inspect schema: %v", err)
	}
	return count > 0, nil
}

// createSchema installs the current schema on a fresh database.
func (m *Migrator) createSchema(ctx context.Context) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrapf(errors.ErrInternal, "begin migration: %v", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, schemaV2); err != nil {
		return errors.Wrapf(errors.ErrInternal, "create schema: %v", err)
	}
	if err := m.recordVersion(ctx, tx, SchemaVersion); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrapf(errors.ErrInternal, "commit migration: %v", err)
	}

	m.logger.Info("schema created", "version", SchemaVersion)
	return nil
}

// migrateV1ToV2 rebuilds the secrets table with the key_salt column. Existing
// rows get an all-zero key_salt so the re-encryption pass can find them. A
// backup copy of the vault file is taken first.
func (m *Migrator) migrateV1ToV2(ctx context.Context) error {
	if err := m.backup(ctx); err != nil {
		m.logger.Warn("backup before migration failed", "error", err)
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrapf(errors.ErrInternal, "begin migration: %v", err)
	}
	defer tx.Rollback() //nolint:errcheck

	statements := []string{
		`CREATE TABLE secrets_new (
			id TEXT PRIMARY KEY,
			app_name TEXT,
			key_name TEXT NOT NULL UNIQUE,
			api_url TEXT,
			description TEXT,
			ciphertext BLOB NOT NULL,
			nonce BLOB NOT NULL,
			key_salt BLOB NOT NULL,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		)`,
		`INSERT INTO secrets_new (id, app_name, key_name, api_url, description, ciphertext, nonce, key_salt, created_at, updated_at)
			SELECT id, app_name, key_name, api_url, description, ciphertext, nonce, zeroblob(32), created_at, updated_at FROM secrets`,
		`DROP TABLE secrets`,
		`ALTER TABLE secrets_new RENAME TO secrets`,
		`CREATE INDEX IF NOT EXISTS idx_secrets_app_name ON secrets(app_name)`,
		`CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			migrated_at INTEGER NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return errors.Wrapf(errors.ErrInternal, "migrate v1 to v2: %v", err)
		}
	}
	if err := m.recordVersion(ctx, tx, SchemaVersion); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrapf(errors.ErrInternal, "commit migration: %v", err)
	}

	m.logger.Info("schema migrated", "from", 1, "to", SchemaVersion)
	return nil
}

func (m *Migrator) recordVersion(ctx context.Context, tx *sql.Tx, version int) error {
	_, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO schema_version (version, migrated_at) VALUES (?, ?)`,
		version, time.Now().Unix())
	if err != nil {
		return errors.Wrapf(errors.ErrInternal, "record schema version: %v", err)
	}
	return nil
}

// backup copies the vault file next to itself before a destructive migration.
// Best effort: in-memory databases are skipped and failures are reported to
// the caller, which logs and proceeds.
func (m *Migrator) backup(ctx context.Context) error {
	if IsInMemory(m.path) {
		return nil
	}
	backupPath := fmt.Sprintf("%s.backup-%s", m.path, time.Now().Format("20060102-150405"))
	if _, err := m.db.ExecContext(ctx, `VACUUM INTO ?`, backupPath); err != nil {
		return fmt.Errorf("vacuum into %s: %w", backupPath, err)
	}
	m.logger.Info("vault backup created", "path", backupPath)
	return nil
}

// dropOrphanedTables removes temp tables left behind by an interrupted
// migration from an older build that did not run the rebuild transactionally.
func (m *Migrator) dropOrphanedTables(ctx context.Context) error {
	for _, name := range []string{"secrets_new", "secrets_v2"} {
		exists, err := m.tableExists(ctx, name)
		if err != nil {
			return err
		}
		if !exists {
			continue
		}
		if _, err := m.db.ExecContext(ctx, `DROP TABLE `+name); err != nil {
			return errors.Wrapf(errors.ErrInternal, "drop orphaned table %s: %v", name, err)
		}
		m.logger.Warn("dropped orphaned table from interrupted migration", "table", name)
	}
	return nil
}
