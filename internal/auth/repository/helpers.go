package repository

import (
	"errors"
	"time"

	"github.com/mattn/go-sqlite3"
)

func unixTime(seconds int64) time.Time {
	return time.Unix(seconds, 0).UTC()
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
