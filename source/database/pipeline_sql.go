package database

import (
	"commandcenter/source/board"
	"commandcenter/source/schemas"
	"commandcenter/source/utils"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	SQL_DATETIME_FORMAT       = "2006-01-02 15:04:05"
	SQL_DATETIME_MICRO_FORMAT = "2006-01-02 15:04:05.000000"
)

const selectPipelineItems = `SELECT p.id, p.title, p.stage, p.estimated_value, p.created_at,
	COALESCE(a.name, ''), COALESCE(c.name, '')
	FROM pipeline_items p
	LEFT JOIN accounts a ON a.id = p.account_id
	LEFT JOIN contacts c ON c.id = p.contact_id`

// SQLPipelineGateway reads and writes pipeline items through database/sql. The
// queries only use ? placeholders so MySQL and SQLite share them.
type SQLPipelineGateway struct {
	db *sql.DB
}

func NewSQLPipelineGateway(db *sql.DB) *SQLPipelineGateway {
	return &SQLPipelineGateway{db: db}
}

func (g *SQLPipelineGateway) DB() *sql.DB {
	return g.db
}

func (g *SQLPipelineGateway) FetchAll(ctx context.Context) ([]schemas.PipelineItem, error) {
	rows, err := g.db.QueryContext(ctx, selectPipelineItems+" ORDER BY p.created_at DESC, p.id")
	if err != nil {
		return nil, fmt.Errorf("query pipeline items: %w", err)
	}
	defer rows.Close()

	items := []schemas.PipelineItem{}
	for rows.Next() {
		item, err := scanPipelineItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pipeline items: %w", err)
	}

	return items, nil
}

func (g *SQLPipelineGateway) FetchOne(ctx context.Context, id string) (schemas.PipelineItem, error) {
	row := g.db.QueryRowContext(ctx, selectPipelineItems+" WHERE p.id = ?", id)

	item, err := scanPipelineItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return schemas.PipelineItem{}, fmt.Errorf("%w: %s", board.ErrItemNotFound, id)
	}
	return item, err
}

// UpdateStage moves the item and appends the move to its history in one
// transaction. Rewriting the current stage records nothing.
func (g *SQLPipelineGateway) UpdateStage(ctx context.Context, id string, stage schemas.Stage) error {
	if !stage.Valid() {
		return fmt.Errorf("%w: %q", board.ErrUnknownStage, stage)
	}

	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("update stage of %s: %w", id, err)
	}
	defer tx.Rollback()

	var previous string
	err = tx.QueryRowContext(ctx, "SELECT stage FROM pipeline_items WHERE id = ?", id).Scan(&previous)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", board.ErrItemNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("read stage of %s: %w", id, err)
	}

	now := time.Now().UTC()
	result, err := tx.ExecContext(ctx,
		"UPDATE pipeline_items SET stage = ?, updated_at = ? WHERE id = ?",
		string(stage), now.Format(SQL_DATETIME_FORMAT), id)
	if err != nil {
		return fmt.Errorf("update stage of %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update stage of %s: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", board.ErrItemNotFound, id)
	}

	if previous != string(stage) {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO pipeline_stage_history (id, item_id, from_stage, to_stage, changed_at) VALUES (?, ?, ?, ?, ?)",
			uuid.NewString(), id, previous, string(stage), now.Format(SQL_DATETIME_MICRO_FORMAT))
		if err != nil {
			return fmt.Errorf("record stage history of %s: %w", id, err)
		}
	}

	return tx.Commit()
}

// FetchHistory lists the item's stage moves, oldest first.
func (g *SQLPipelineGateway) FetchHistory(ctx context.Context, id string) ([]schemas.PipelineStageChange, error) {
	rows, err := g.db.QueryContext(ctx,
		`SELECT id, item_id, from_stage, to_stage, changed_at
		FROM pipeline_stage_history WHERE item_id = ? ORDER BY changed_at, id`, id)
	if err != nil {
		return nil, fmt.Errorf("query stage history of %s: %w", id, err)
	}
	defer rows.Close()

	changes := []schemas.PipelineStageChange{}
	for rows.Next() {
		var (
			change    schemas.PipelineStageChange
			from, to  string
			changedAt sql.NullString
		)
		if err := rows.Scan(&change.ID, &change.ItemID, &from, &to, &changedAt); err != nil {
			return nil, fmt.Errorf("scan stage history: %w", err)
		}

		change.From = schemas.Stage(from)
		change.To = schemas.Stage(to)
		if changedAt.Valid {
			if t, err := utils.ParseDate(changedAt.String); err == nil {
				change.ChangedAt = t
			}
		}
		changes = append(changes, change)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stage history of %s: %w", id, err)
	}

	return changes, nil
}

func (g *SQLPipelineGateway) Close(ctx context.Context) error {
	return g.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPipelineItem(row rowScanner) (schemas.PipelineItem, error) {
	var (
		item      schemas.PipelineItem
		stage     string
		value     sql.NullFloat64
		createdAt sql.NullString
	)

	err := row.Scan(&item.ID, &item.Title, &stage, &value, &createdAt,
		&item.Display.AccountName, &item.Display.ContactName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return item, err
		}
		return item, fmt.Errorf("scan pipeline item: %w", err)
	}

	item.Stage, err = schemas.ParseStage(stage)
	if err != nil {
		return item, fmt.Errorf("pipeline item %s: %w", item.ID, err)
	}

	if value.Valid {
		v := value.Float64
		item.EstimatedValue = &v
	}

	if createdAt.Valid {
		if t, err := utils.ParseDate(createdAt.String); err == nil {
			item.CreatedAt = t
		}
	}

	return item, nil
}
