// Package database provides SQLite connection management, transactions, and
// schema migrations for the vault file.
package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// Config holds database configuration settings.
type Config struct {
	Path        string
	BusyTimeout int
}

// InMemoryPath is the SQLite path for a throwaway in-memory database. Used by
// tests; backups are skipped for it.
const InMemoryPath = ":memory:"

// Connect opens the vault database, creating parent directories as needed.
// The pool is capped at a single connection: SQLite allows one writer at a
// time and the vault is accessed by a single process.
func Connect(cfg Config) (*sql.DB, error) {
	if cfg.Path != InMemoryPath {
		dir := filepath.Dir(cfg.Path)
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("%s?_busy_timeout=%d&_foreign_keys=on", cfg.Path, cfg.BusyTimeout)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// IsInMemory reports whether path refers to an in-memory database.
func IsInMemory(path string) bool {
	return path == InMemoryPath || strings.Contains(path, "mode=memory")
}
