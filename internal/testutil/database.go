// Package testutil provides test helpers shared across packages.
package testutil

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/allisson/vult/internal/database"
)

// NewDatabase opens an in-memory SQLite database with the current schema
// installed. The database is closed when the test finishes.
func NewDatabase(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Connect(database.Config{Path: database.InMemoryPath, BusyTimeout: 5000})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	migrator := database.NewMigrator(db, database.InMemoryPath, logger)
	require.NoError(t, migrator.Run(context.Background()))

	return db
}

// Logger returns a logger that discards all output.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
