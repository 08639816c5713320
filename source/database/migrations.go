package database

import (
	"context"
	"database/sql"
	"fmt"
)

// The statements stay within the subset MySQL and SQLite both accept.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id VARCHAR(64) PRIMARY KEY,
		name VARCHAR(255) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS contacts (
		id VARCHAR(64) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		account_id VARCHAR(64) NULL
	)`,
	`CREATE TABLE IF NOT EXISTS pipeline_items (
		id VARCHAR(64) PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		stage VARCHAR(32) NOT NULL,
		estimated_value DOUBLE NULL,
		account_id VARCHAR(64) NULL,
		contact_id VARCHAR(64) NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS pipeline_stage_history (
		id VARCHAR(64) PRIMARY KEY,
		item_id VARCHAR(64) NOT NULL,
		from_stage VARCHAR(32) NOT NULL,
		to_stage VARCHAR(32) NOT NULL,
		changed_at DATETIME(6) NOT NULL
	)`,
}

func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	return nil
}
