package database

import (
	"commandcenter/source/schemas"
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type SeedItem struct {
	ID             string
	Title          string
	Stage          schemas.Stage
	EstimatedValue *float64
	AccountName    string
	ContactName    string
	CreatedAt      time.Time
}

// DemoPipeline is the data `migrate --seed` loads into an empty database.
func DemoPipeline(now time.Time) []SeedItem {
	value := func(v float64) *float64 { return &v }

	return []SeedItem{
		{Title: "Statewide case management modernization", Stage: schemas.STAGE_LEAD, EstimatedValue: value(1200000), AccountName: "Department of Human Services", ContactName: "Dana Whitfield", CreatedAt: now.Add(-72 * time.Hour)},
		{Title: "Transit ridership analytics", Stage: schemas.STAGE_DISCOVERY, EstimatedValue: value(340000), AccountName: "Metro Transit Authority", ContactName: "Luis Ortega", CreatedAt: now.Add(-48 * time.Hour)},
		{Title: "Permitting portal redesign", Stage: schemas.STAGE_PROPOSAL, EstimatedValue: value(560000), AccountName: "City Planning Office", ContactName: "Priya Raman", CreatedAt: now.Add(-36 * time.Hour)},
		{Title: "Grants reporting assessment", Stage: schemas.STAGE_NEGOTIATION, AccountName: "State Treasury", ContactName: "Morgan Lee", CreatedAt: now.Add(-24 * time.Hour)},
		{Title: "Emergency dispatch integration", Stage: schemas.STAGE_AWARDED, EstimatedValue: value(890000), AccountName: "County Sheriff", ContactName: "Sam Okafor", CreatedAt: now.Add(-12 * time.Hour)},
	}
}

// Seed inserts items with their accounts and contacts inside one transaction.
func Seed(ctx context.Context, db *sql.DB, items []SeedItem) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	for _, item := range items {
		id := item.ID
		if id == "" {
			id = uuid.NewString()
		}

		var accountID, contactID any
		if item.AccountName != "" {
			accountID = uuid.NewString()
			if _, err := tx.ExecContext(ctx, "INSERT INTO accounts (id, name) VALUES (?, ?)", accountID, item.AccountName); err != nil {
				return fmt.Errorf("seed account: %w", err)
			}
		}
		if item.ContactName != "" {
			contactID = uuid.NewString()
			if _, err := tx.ExecContext(ctx, "INSERT INTO contacts (id, name, account_id) VALUES (?, ?, ?)", contactID, item.ContactName, accountID); err != nil {
				return fmt.Errorf("seed contact: %w", err)
			}
		}

		var value any
		if item.EstimatedValue != nil {
			value = *item.EstimatedValue
		}

		createdAt := item.CreatedAt.UTC().Format(SQL_DATETIME_FORMAT)
		_, err := tx.ExecContext(ctx,
			`INSERT INTO pipeline_items (id, title, stage, estimated_value, account_id, contact_id, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id, item.Title, string(item.Stage), value, accountID, contactID, createdAt, createdAt)
		if err != nil {
			return fmt.Errorf("seed pipeline item %q: %w", item.Title, err)
		}
	}

	return tx.Commit()
}
