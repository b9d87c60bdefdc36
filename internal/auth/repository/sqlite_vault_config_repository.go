// Package repository implements persistence for the vault's authentication
// configuration on SQLite.
package repository

import (
	"context"
	"database/sql"

	authDomain "github.com/allisson/vult/internal/auth/domain"
	"github.com/allisson/vult/internal/database"
	apperrors "github.com/allisson/vult/internal/errors"
)

// SQLiteVaultConfigRepository persists the singleton vault configuration row.
type SQLiteVaultConfigRepository struct {
	db *sql.DB
}

// NewSQLiteVaultConfigRepository creates a new SQLite vault config repository instance.
func NewSQLiteVaultConfigRepository(db *sql.DB) *SQLiteVaultConfigRepository {
	return &SQLiteVaultConfigRepository{db: db}
}

// Get retrieves the vault configuration, or apperrors.ErrNotFound when the
// vault has not been initialized.
func (s *SQLiteVaultConfigRepository) Get(ctx context.Context) (*authDomain.VaultConfig, error) {
	querier := database.GetTx(ctx, s.db)

	query := `SELECT salt, verification_hash, created_at FROM vault_config WHERE id = 1`

	var config authDomain.VaultConfig
	var createdAt int64
	err := querier.QueryRowContext(ctx, query).Scan(
		&config.Salt,
		&config.VerificationHash,
		&createdAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get vault config")
	}
	config.CreatedAt = unixTime(createdAt)

	return &config, nil
}

// Create inserts the vault configuration. The id=1 primary key makes a second
// insert fail, which surfaces as apperrors.ErrConflict.
func (s *SQLiteVaultConfigRepository) Create(ctx context.Context, config *authDomain.VaultConfig) error {
	querier := database.GetTx(ctx, s.db)

	query := `INSERT INTO vault_config (id, salt, verification_hash, created_at) VALUES (1, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		config.Salt,
		config.VerificationHash,
		config.CreatedAt.Unix(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrConflict
		}
		return apperrors.Wrap(err, "failed to create vault config")
	}
	return nil
}

// Update replaces the salt and verification hash, used by PIN changes.
func (s *SQLiteVaultConfigRepository) Update(ctx context.Context, config *authDomain.VaultConfig) error {
	querier := database.GetTx(ctx, s.db)

	query := `UPDATE vault_config SET salt = ?, verification_hash = ? WHERE id = 1`

	result, err := querier.ExecContext(ctx, query, config.Salt, config.VerificationHash)
	if err != nil {
		return apperrors.Wrap(err, "failed to update vault config")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to update vault config")
	}
	if rows == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
