package board

import (
	"commandcenter/source/metrics"
	"commandcenter/source/schemas"
	"context"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
)

// State is the board owned by one session. It is the only holder of the item
// list; callers go through its methods and get copies back.
type State struct {
	mu        sync.RWMutex
	gateway   Gateway
	notifier  Notifier
	items     []schemas.PipelineItem
	confirmed map[string]schemas.Stage
	version   uint64
}

func NewState(gateway Gateway, notifier Notifier) *State {
	return &State{
		gateway:   gateway,
		notifier:  notifier,
		confirmed: map[string]schemas.Stage{},
	}
}

// Load replaces the board with the gateway's current rows. On failure the
// board is left empty.
func (s *State) Load(ctx context.Context) error {
	items, err := s.gateway.FetchAll(ctx)
	if err == nil {
		for _, item := range items {
			if !item.Stage.Valid() {
				err = fmt.Errorf("item %s: %w: %q", item.ID, ErrUnknownStage, item.Stage)
				break
			}
		}
	}

	if err != nil {
		s.mu.Lock()
		s.items = nil
		s.confirmed = map[string]schemas.Stage{}
		s.version++
		s.mu.Unlock()

		metrics.BoardLoads.WithLabelValues(metrics.OUTCOME_FAILURE).Inc()
		log.WithError(err).Error("could not load the pipeline board")
		s.notify(schemas.NOTICE_ERROR, "Could not load the pipeline")
		return fmt.Errorf("load pipeline board: %w", err)
	}

	confirmed := make(map[string]schemas.Stage, len(items))
	loaded := make([]schemas.PipelineItem, len(items))
	copy(loaded, items)
	for _, item := range loaded {
		confirmed[item.ID] = item.Stage
	}

	s.mu.Lock()
	s.items = loaded
	s.confirmed = confirmed
	s.version++
	s.mu.Unlock()

	metrics.BoardLoads.WithLabelValues(metrics.OUTCOME_SUCCESS).Inc()
	log.WithField("items", len(loaded)).Debug("pipeline board loaded")
	return nil
}

func (s *State) ItemsInStage(stage schemas.Stage) []schemas.PipelineItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.itemsInStage(stage)
}

func (s *State) TotalValueInStage(stage schemas.Stage) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0.0
	for _, item := range s.itemsInStage(stage) {
		total += item.Value()
	}
	return total
}

func (s *State) itemsInStage(stage schemas.Stage) []schemas.PipelineItem {
	items := []schemas.PipelineItem{}
	for _, item := range s.items {
		if item.Stage == stage {
			items = append(items, item)
		}
	}
	return items
}

// Snapshot returns every column in board order with its total.
func (s *State) Snapshot() []schemas.PipelineColumn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	columns := make([]schemas.PipelineColumn, 0, len(schemas.Stages))
	for _, stage := range schemas.Stages {
		items := s.itemsInStage(stage)
		total := 0.0
		for _, item := range items {
			total += item.Value()
		}
		columns = append(columns, schemas.PipelineColumn{
			Stage:      stage,
			Items:      items,
			TotalValue: total,
		})
	}
	return columns
}

func (s *State) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.items)
}

func (s *State) Item(id string) (schemas.PipelineItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.items[i], true
	}
	return schemas.PipelineItem{}, false
}

// StageOf reports the stage the item is currently displayed in.
func (s *State) StageOf(id string) (schemas.Stage, bool) {
	item, ok := s.Item(id)
	return item.Stage, ok
}

// ConfirmedStageOf reports the stage last confirmed by the gateway.
func (s *State) ConfirmedStageOf(id string) (schemas.Stage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stage, ok := s.confirmed[id]
	return stage, ok
}

// Place moves the item to stage locally. Nothing is persisted.
func (s *State) Place(id string, stage schemas.Stage) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 || !stage.Valid() {
		return false
	}
	if s.items[i].Stage != stage {
		s.items[i].Stage = stage
		s.version++
	}
	return true
}

// Confirm records a stage the gateway accepted and displays it.
func (s *State) Confirm(id string, stage schemas.Stage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return
	}
	s.confirmed[id] = stage
	s.items[i].Stage = stage
	s.version++
}

// Version changes whenever the board's visible contents may have changed.
func (s *State) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.version
}

func (s *State) indexOf(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *State) notify(kind, message string) {
	if s.notifier != nil {
		s.notifier.Notify(kind, message)
	}
}
