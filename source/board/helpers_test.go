package board

import (
	"commandcenter/source/schemas"
	"context"
	"errors"
	"sync"
	"time"
)

var errGatewayDown = errors.New("gateway down")

type stageUpdate struct {
	id    string
	stage schemas.Stage
}

// fakeGateway keeps the ground truth in memory. Failed updates leave it
// untouched, like a server that never recorded the change.
type fakeGateway struct {
	mu        sync.Mutex
	items     []schemas.PipelineItem
	fetchErr  error
	updateErr error
	updates   []stageUpdate
	fetches   int
	// hold, when set, keeps UpdateStage waiting until it is closed or the
	// write's context ends.
	hold chan struct{}
}

func newFakeGateway(items ...schemas.PipelineItem) *fakeGateway {
	return &fakeGateway{items: items}
}

func (g *fakeGateway) FetchAll(ctx context.Context) ([]schemas.PipelineItem, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.fetches++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if g.fetchErr != nil {
		return nil, g.fetchErr
	}
	items := make([]schemas.PipelineItem, len(g.items))
	copy(items, g.items)
	return items, nil
}

func (g *fakeGateway) UpdateStage(ctx context.Context, id string, stage schemas.Stage) error {
	g.mu.Lock()
	hold := g.hold
	g.mu.Unlock()

	if hold != nil {
		select {
		case <-hold:
		case <-ctx.Done():
			g.mu.Lock()
			g.updates = append(g.updates, stageUpdate{id: id, stage: stage})
			g.mu.Unlock()
			return ctx.Err()
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.updates = append(g.updates, stageUpdate{id: id, stage: stage})
	if g.updateErr != nil {
		return g.updateErr
	}
	for i := range g.items {
		if g.items[i].ID == id {
			g.items[i].Stage = stage
			return nil
		}
	}
	return ErrItemNotFound
}

func (g *fakeGateway) Updates() []stageUpdate {
	g.mu.Lock()
	defer g.mu.Unlock()

	return append([]stageUpdate(nil), g.updates...)
}

func (g *fakeGateway) Fetches() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.fetches
}

func (g *fakeGateway) FailUpdates(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.updateErr = err
}

// Hold makes every write wait for the returned release function.
func (g *fakeGateway) Hold() (release func()) {
	g.mu.Lock()
	defer g.mu.Unlock()

	hold := make(chan struct{})
	g.hold = hold
	var once sync.Once
	return func() { once.Do(func() { close(hold) }) }
}

type notice struct {
	kind    string
	message string
}

type recorder struct {
	mu        sync.Mutex
	notices   []notice
	navigated []string
}

func (r *recorder) Notify(kind, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.notices = append(r.notices, notice{kind: kind, message: message})
}

func (r *recorder) NavigateToItem(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.navigated = append(r.navigated, id)
}

func (r *recorder) Notices() []notice {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]notice(nil), r.notices...)
}

func (r *recorder) Navigated() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.navigated...)
}

func value(v float64) *float64 {
	return &v
}

func item(id string, stage schemas.Stage, estimated *float64) schemas.PipelineItem {
	return schemas.PipelineItem{
		ID:             id,
		Title:          "Item " + id,
		Stage:          stage,
		EstimatedValue: estimated,
		CreatedAt:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func onColumn(stage schemas.Stage) schemas.DropTarget {
	return schemas.DropTarget{Kind: schemas.DROP_TARGET_COLUMN, Stage: stage}
}

func onItem(id string) schemas.DropTarget {
	return schemas.DropTarget{Kind: schemas.DROP_TARGET_ITEM, ItemID: id}
}

var nowhere = schemas.DropTarget{}
