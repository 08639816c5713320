package database

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const SQLITE_MEMORY = ":memory:"

// OpenSQLite opens a single-connection pool, which also keeps an in-memory
// database alive for the lifetime of the pool.
func OpenSQLite(path string) (*sql.DB, error) {
	if path == "" {
		path = SQLITE_MEMORY
	}

	dsn := path
	if path != SQLITE_MEMORY {
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	return db, nil
}
