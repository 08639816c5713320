// Package board holds the pipeline board: the in-memory board state, the drag
// controller that interprets gestures, and the writer that persists stage
// changes and reconciles by refetch when a write fails.
package board

import (
	"commandcenter/source/schemas"
	"context"
	"errors"
)

var (
	ErrItemNotFound   = errors.New("pipeline item not found")
	ErrNoStageChange  = errors.New("pipeline item already in that stage")
	ErrUnknownStage   = errors.New("unknown pipeline stage")
	ErrItemCommitting = errors.New("pipeline item has a stage change in flight")
	ErrGestureActive  = errors.New("another drag is in progress")
	ErrNotDragging    = errors.New("no drag in progress")
)

// Gateway is the persistence the board reads from and writes to.
type Gateway interface {
	// FetchAll returns every pipeline item, newest first.
	FetchAll(ctx context.Context) ([]schemas.PipelineItem, error)
	// UpdateStage persists a single stage change. It returns ErrItemNotFound
	// when no row matches id.
	UpdateStage(ctx context.Context, id string, stage schemas.Stage) error
}

// Notifier shows a transient message to the user. kind is NOTICE_SUCCESS or
// NOTICE_ERROR.
type Notifier interface {
	Notify(kind, message string)
}

type Navigator interface {
	NavigateToItem(id string)
}
