// Package repository implements secret persistence on SQLite.
package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/vult/internal/database"
	apperrors "github.com/allisson/vult/internal/errors"
	secretsDomain "github.com/allisson/vult/internal/secrets/domain"
)

const secretColumns = `id, app_name, key_name, api_url, description, ciphertext, nonce, key_salt, created_at, updated_at`

// SQLiteSecretRepository implements Secret persistence for SQLite databases.
type SQLiteSecretRepository struct {
	db *sql.DB
}

// NewSQLiteSecretRepository creates a new SQLite Secret repository instance.
func NewSQLiteSecretRepository(db *sql.DB) *SQLiteSecretRepository {
	return &SQLiteSecretRepository{db: db}
}

// Create inserts a new secret. A key name collision surfaces as
// secretsDomain.ErrDuplicateKeyName.
func (r *SQLiteSecretRepository) Create(ctx context.Context, secret *secretsDomain.Secret) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO secrets (` + secretColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		secret.ID.String(),
		nullableString(secret.AppName),
		secret.KeyName,
		secret.APIURL,
		secret.Description,
		secret.Ciphertext,
		secret.Nonce,
		secret.KeySalt,
		secret.CreatedAt.Unix(),
		secret.UpdatedAt.Unix(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return secretsDomain.ErrDuplicateKeyName
		}
		return apperrors.Wrap(err, "failed to create secret")
	}
	return nil
}

// GetByID retrieves a secret by its identifier.
func (r *SQLiteSecretRepository) GetByID(ctx context.Context, secretID uuid.UUID) (*secretsDomain.Secret, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + secretColumns + ` FROM secrets WHERE id = ?`

	secret, err := scanSecret(querier.QueryRowContext(ctx, query, secretID.String()))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, secretsDomain.ErrSecretNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get secret by id")
	}
	return secret, nil
}

// GetByName retrieves a secret by app and key name. An empty appName matches
// secrets stored without one.
func (r *SQLiteSecretRepository) GetByName(ctx context.Context, appName, keyName string) (*secretsDomain.Secret, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + secretColumns + ` FROM secrets
			  WHERE IFNULL(app_name, '') = ? AND key_name = ?`

	secret, err := scanSecret(querier.QueryRowContext(ctx, query, appName, keyName))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, secretsDomain.ErrSecretNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get secret by name")
	}
	return secret, nil
}

// List returns all secrets ordered by app and key name.
func (r *SQLiteSecretRepository) List(ctx context.Context) ([]*secretsDomain.Secret, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + secretColumns + ` FROM secrets
			  ORDER BY IFNULL(app_name, ''), key_name`

	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list secrets")
	}
	defer rows.Close()

	return collectSecrets(rows)
}

// Search returns secrets whose app name, key name, or description contains
// the query, case-insensitively, ordered by app and key name.
func (r *SQLiteSecretRepository) Search(ctx context.Context, q string) ([]*secretsDomain.Secret, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + secretColumns + ` FROM secrets
			  WHERE LOWER(IFNULL(app_name, '')) LIKE ?
			     OR LOWER(key_name) LIKE ?
			     OR LOWER(IFNULL(description, '')) LIKE ?
			  ORDER BY IFNULL(app_name, ''), key_name`

	pattern := "%" + strings.ToLower(q) + "%"
	rows, err := querier.QueryContext(ctx, query, pattern, pattern, pattern)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to search secrets")
	}
	defer rows.Close()

	return collectSecrets(rows)
}

// Update replaces all mutable columns of a secret.
func (r *SQLiteSecretRepository) Update(ctx context.Context, secret *secretsDomain.Secret) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE secrets
			  SET app_name = ?, key_name = ?, api_url = ?, description = ?,
			      ciphertext = ?, nonce = ?, key_salt = ?, updated_at = ?
			  WHERE id = ?`

	result, err := querier.ExecContext(
		ctx,
		query,
		nullableString(secret.AppName),
		secret.KeyName,
		secret.APIURL,
		secret.Description,
		secret.Ciphertext,
		secret.Nonce,
		secret.KeySalt,
		secret.UpdatedAt.Unix(),
		secret.ID.String(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return secretsDomain.ErrDuplicateKeyName
		}
		return apperrors.Wrap(err, "failed to update secret")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to update secret")
	}
	if rows == 0 {
		return secretsDomain.ErrSecretNotFound
	}
	return nil
}

// UpdateCiphertext replaces only the encrypted payload of a secret, used by
// re-encryption.
func (r *SQLiteSecretRepository) UpdateCiphertext(ctx context.Context, secretID uuid.UUID, ciphertext, nonce, keySalt []byte) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE secrets SET ciphertext = ?, nonce = ?, key_salt = ? WHERE id = ?`

	result, err := querier.ExecContext(ctx, query, ciphertext, nonce, keySalt, secretID.String())
	if err != nil {
		return apperrors.Wrap(err, "failed to update secret ciphertext")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to update secret ciphertext")
	}
	if rows == 0 {
		return secretsDomain.ErrSecretNotFound
	}
	return nil
}

// Delete removes a secret by its identifier.
func (r *SQLiteSecretRepository) Delete(ctx context.Context, secretID uuid.UUID) error {
	querier := database.GetTx(ctx, r.db)

	result, err := querier.ExecContext(ctx, `DELETE FROM secrets WHERE id = ?`, secretID.String())
	if err != nil {
		return apperrors.Wrap(err, "failed to delete secret")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to delete secret")
	}
	if rows == 0 {
		return secretsDomain.ErrSecretNotFound
	}
	return nil
}

// Count returns the number of stored secrets.
func (r *SQLiteSecretRepository) Count(ctx context.Context) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	var count int64
	err := querier.QueryRowContext(ctx, `SELECT COUNT(*) FROM secrets`).Scan(&count)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count secrets")
	}
	return count, nil
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSecret(row rowScanner) (*secretsDomain.Secret, error) {
	var secret secretsDomain.Secret
	var id string
	var appName, apiURL, description sql.NullString
	var createdAt, updatedAt int64

	err := row.Scan(
		&id,
		&appName,
		&secret.KeyName,
		&apiURL,
		&description,
		&secret.Ciphertext,
		&secret.Nonce,
		&secret.KeySalt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	secret.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	secret.AppName = appName.String
	secret.APIURL = apiURL.String
	secret.Description = description.String
	secret.CreatedAt = time.Unix(createdAt, 0).UTC()
	secret.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return &secret, nil
}

func collectSecrets(rows *sql.Rows) ([]*secretsDomain.Secret, error) {
	var secrets []*secretsDomain.Secret
	for rows.Next() {
		secret, err := scanSecret(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan secret")
		}
		secrets = append(secrets, secret)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate secrets")
	}
	return secrets, nil
}
