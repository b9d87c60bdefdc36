package database

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Driver-level failures are simulated with sqlmock since a real SQLite
// connection cannot be made to fail on demand.
func TestWithTxDriverFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("begin failure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin().WillReturnError(assert.AnError)

		manager := NewTxManager(db)
		err = manager.WithTx(ctx, func(ctx context.Context) error { return nil })

		assert.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("commit failure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectCommit().WillReturnError(assert.AnError)

		manager := NewTxManager(db)
		err = manager.WithTx(ctx, func(ctx context.Context) error { return nil })

		assert.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rollback failure masks the original error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectRollback().WillReturnError(assert.AnError)

		manager := NewTxManager(db)
		err = manager.WithTx(ctx, func(ctx context.Context) error { return context.Canceled })

		assert.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
