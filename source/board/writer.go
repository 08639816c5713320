package board

import (
	"commandcenter/source/metrics"
	"commandcenter/source/schemas"
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// Writer persists one stage change per finished drag. When the gateway
// rejects a write it does not try to undo locally: it reloads the whole board.
type Writer struct {
	board    *State
	gateway  Gateway
	notifier Notifier
}

func NewWriter(board *State, gateway Gateway, notifier Notifier) *Writer {
	return &Writer{
		board:    board,
		gateway:  gateway,
		notifier: notifier,
	}
}

// RELOAD_TIMEOUT bounds the reload that follows a rejected write. It gets its
// own deadline so a write that ran out of time can still restore the board.
const RELOAD_TIMEOUT = 20 * time.Second

// CommitStageChange runs the whole write in one call: Prepare, Persist and
// Reconcile. A session splits these so only Persist leaves its event loop.
func (w *Writer) CommitStageChange(ctx context.Context, itemID string, newStage schemas.Stage) error {
	if err := w.Prepare(itemID, newStage); err != nil {
		return err
	}
	return w.Reconcile(ctx, itemID, newStage, w.Persist(ctx, itemID, newStage))
}

// Prepare rejects a stage change that should never reach the gateway.
func (w *Writer) Prepare(itemID string, newStage schemas.Stage) error {
	if !newStage.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownStage, newStage)
	}

	confirmed, ok := w.board.ConfirmedStageOf(itemID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}
	if confirmed == newStage {
		metrics.StageCommits.WithLabelValues(metrics.OUTCOME_NOOP).Inc()
		return ErrNoStageChange
	}
	return nil
}

// Persist sends the write to the gateway. It touches no board state.
func (w *Writer) Persist(ctx context.Context, itemID string, newStage schemas.Stage) error {
	return w.gateway.UpdateStage(ctx, itemID, newStage)
}

// Reconcile applies the outcome of Persist to the board: a confirmed stage on
// success, a reload of the ground truth on failure.
func (w *Writer) Reconcile(ctx context.Context, itemID string, newStage schemas.Stage, persistErr error) error {
	confirmed, _ := w.board.ConfirmedStageOf(itemID)
	entry := log.WithFields(log.Fields{
		"item_id": itemID,
		"from":    confirmed,
		"to":      newStage,
	})

	if persistErr != nil {
		metrics.StageCommits.WithLabelValues(metrics.OUTCOME_FAILURE).Inc()
		entry.WithError(persistErr).Warn("stage change rejected, reloading the board")
		w.notify(schemas.NOTICE_ERROR, "Could not update the pipeline stage")

		reloadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), RELOAD_TIMEOUT)
		defer cancel()
		if loadErr := w.board.Load(reloadCtx); loadErr != nil {
			entry.WithError(loadErr).Error("reload after a failed stage change also failed")
		}
		return fmt.Errorf("commit stage change for %s: %w", itemID, persistErr)
	}

	w.board.Confirm(itemID, newStage)
	metrics.StageCommits.WithLabelValues(metrics.OUTCOME_SUCCESS).Inc()
	entry.Info("stage change committed")

	title := itemID
	if item, ok := w.board.Item(itemID); ok && item.Title != "" {
		title = item.Title
	}
	w.notify(schemas.NOTICE_SUCCESS, fmt.Sprintf("Moved %s to %s", title, newStage))
	return nil
}

func (w *Writer) notify(kind, message string) {
	if w.notifier != nil {
		w.notifier.Notify(kind, message)
	}
}
