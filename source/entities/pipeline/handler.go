package pipeline

import (
	"commandcenter/source/database"
	"context"
)

const IDEMPOTENCY_SCOPE = "pipeline_stage"

// Deduper remembers idempotency keys of stage updates.
type Deduper interface {
	Add(ctx context.Context, scope, key string) (bool, error)
	Remove(ctx context.Context, scope, key string) error
}

type Handler struct {
	store              database.PipelineStore
	deduper            Deduper
	activationDistance float64
	allowedOrigins     []string
	accessPin          string
}

// NewHandler wires the pipeline endpoints. deduper may be nil, in which case
// Idempotency-Key headers are ignored.
func NewHandler(store database.PipelineStore, deduper Deduper, activationDistance float64, allowedOrigins []string, accessPin string) *Handler {
	return &Handler{
		store:              store,
		deduper:            deduper,
		activationDistance: activationDistance,
		allowedOrigins:     allowedOrigins,
		accessPin:          accessPin,
	}
}
