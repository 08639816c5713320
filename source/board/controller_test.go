package board

import (
	"commandcenter/source/schemas"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type controllerFixture struct {
	gateway    *fakeGateway
	events     *recorder
	state      *State
	controller *Controller
}

func newControllerFixture(t *testing.T, distance float64, items ...schemas.PipelineItem) *controllerFixture {
	t.Helper()

	gateway := newFakeGateway(items...)
	events := &recorder{}
	state := loadedState(t, gateway, events)
	controller := NewController(state, NewWriter(state, gateway, events), events, distance)

	return &controllerFixture{
		gateway:    gateway,
		events:     events,
		state:      state,
		controller: controller,
	}
}

func (f *controllerFixture) stageOf(t *testing.T, id string) schemas.Stage {
	t.Helper()

	stage, ok := f.state.StageOf(id)
	require.True(t, ok)
	return stage
}

// drag presses on id and moves past the activation distance over target.
func (f *controllerFixture) drag(t *testing.T, id string, target schemas.DropTarget) {
	t.Helper()

	require.NoError(t, f.controller.PointerDown(id, 0, 0))
	require.NoError(t, f.controller.PointerMove(100, 0, target))
	require.Equal(t, PhaseDragging, f.controller.Phase())
}

func TestControllerEndToEndDropOntoCard(t *testing.T) {
	f := newControllerFixture(t, 8,
		item("A", schemas.STAGE_LEAD, value(1000)),
		item("B", schemas.STAGE_PROPOSAL, value(2000)),
		item("C", schemas.STAGE_PROPOSAL, value(500)),
	)
	require.Equal(t, 2500.0, f.state.TotalValueInStage(schemas.STAGE_PROPOSAL))

	f.drag(t, "A", onItem("B"))
	assert.Equal(t, schemas.STAGE_PROPOSAL, f.stageOf(t, "A"), "hover moves the card optimistically")

	commit, err := f.controller.PointerUp(onItem("B"))
	require.NoError(t, err)
	require.NotNil(t, commit)
	assert.Equal(t, schemas.STAGE_LEAD, commit.From)
	assert.Equal(t, schemas.STAGE_PROPOSAL, commit.To)
	assert.Equal(t, PhaseCommitting, f.controller.Phase())

	require.NoError(t, commit.Run(context.Background()))
	f.controller.Settle(commit)

	assert.Equal(t, []stageUpdate{{id: "A", stage: schemas.STAGE_PROPOSAL}}, f.gateway.Updates())
	assert.Equal(t, 3500.0, f.state.TotalValueInStage(schemas.STAGE_PROPOSAL))
	assert.Zero(t, f.state.TotalValueInStage(schemas.STAGE_LEAD))
	assert.Equal(t, PhaseIdle, f.controller.Phase())
	assertPartition(t, f.state)
}

func TestControllerDropOntoColumn(t *testing.T) {
	f := newControllerFixture(t, 8, item("A", schemas.STAGE_LEAD, nil))

	f.drag(t, "A", onColumn(schemas.STAGE_NEGOTIATION))
	commit, err := f.controller.PointerUp(onColumn(schemas.STAGE_NEGOTIATION))

	require.NoError(t, err)
	require.NotNil(t, commit)
	assert.Equal(t, schemas.STAGE_NEGOTIATION, commit.To)
}

func TestControllerReleaseOutsideTargetsReverts(t *testing.T) {
	f := newControllerFixture(t, 8, item("A", schemas.STAGE_LEAD, nil))

	f.drag(t, "A", onColumn(schemas.STAGE_DISCOVERY))
	require.Equal(t, schemas.STAGE_DISCOVERY, f.stageOf(t, "A"))

	commit, err := f.controller.PointerUp(nowhere)

	require.NoError(t, err)
	assert.Nil(t, commit)
	assert.Empty(t, f.gateway.Updates())
	assert.Equal(t, schemas.STAGE_LEAD, f.stageOf(t, "A"))
	assert.Len(t, f.state.ItemsInStage(schemas.STAGE_LEAD), 1)
	assert.Equal(t, PhaseIdle, f.controller.Phase())
}

func TestControllerReleaseOnOriginStageIsNoOp(t *testing.T) {
	f := newControllerFixture(t, 8,
		item("A", schemas.STAGE_LEAD, nil),
		item("B", schemas.STAGE_LEAD, nil),
	)

	f.drag(t, "A", onColumn(schemas.STAGE_PROPOSAL))
	commit, err := f.controller.PointerUp(onItem("B"))

	require.NoError(t, err)
	assert.Nil(t, commit)
	assert.Empty(t, f.gateway.Updates())
	assert.Equal(t, schemas.STAGE_LEAD, f.stageOf(t, "A"))
}

func TestControllerReleaseOverOwnCardKeepsDisplayedStage(t *testing.T) {
	f := newControllerFixture(t, 8, item("A", schemas.STAGE_LEAD, nil))

	f.drag(t, "A", onColumn(schemas.STAGE_AWARDED))
	commit, err := f.controller.PointerUp(onItem("A"))

	require.NoError(t, err)
	require.NotNil(t, commit)
	assert.Equal(t, schemas.STAGE_AWARDED, commit.To)
}

func TestControllerShortPressIsAClick(t *testing.T) {
	f := newControllerFixture(t, 8, item("A", schemas.STAGE_LEAD, nil))

	require.NoError(t, f.controller.PointerDown("A", 10, 10))
	require.NoError(t, f.controller.PointerMove(13, 14, onColumn(schemas.STAGE_LOST)))
	assert.Equal(t, PhaseIdle, f.controller.Phase())
	_, dragging := f.controller.DraggedItem()
	assert.False(t, dragging)

	commit, err := f.controller.PointerUp(onColumn(schemas.STAGE_LOST))

	require.NoError(t, err)
	assert.Nil(t, commit)
	assert.Equal(t, []string{"A"}, f.events.Navigated())
	assert.Equal(t, schemas.STAGE_LEAD, f.stageOf(t, "A"))
	assert.Empty(t, f.gateway.Updates())
}

func TestControllerZeroDistanceStartsImmediately(t *testing.T) {
	f := newControllerFixture(t, 0, item("A", schemas.STAGE_LEAD, nil))

	require.NoError(t, f.controller.PointerDown("A", 0, 0))

	assert.Equal(t, PhaseDragging, f.controller.Phase())
	id, ok := f.controller.DraggedItem()
	assert.True(t, ok)
	assert.Equal(t, "A", id)
}

func TestControllerCommittingItemIsNotDraggable(t *testing.T) {
	f := newControllerFixture(t, 8,
		item("A", schemas.STAGE_LEAD, nil),
		item("B", schemas.STAGE_LEAD, nil),
	)

	f.drag(t, "A", onColumn(schemas.STAGE_PROPOSAL))
	commit, err := f.controller.PointerUp(onColumn(schemas.STAGE_PROPOSAL))
	require.NoError(t, err)
	require.NotNil(t, commit)

	assert.True(t, f.controller.IsCommitting("A"))
	assert.ErrorIs(t, f.controller.PointerDown("A", 0, 0), ErrItemCommitting)
	assert.ErrorIs(t, f.controller.PickUp("A"), ErrItemCommitting)

	// Other items stay draggable while A is in flight.
	require.NoError(t, f.controller.PickUp("B"))
	assert.Equal(t, PhaseDragging, f.controller.Phase())
	f.controller.Cancel()
	assert.Equal(t, PhaseCommitting, f.controller.Phase())

	require.NoError(t, commit.Run(context.Background()))
	f.controller.Settle(commit)

	assert.False(t, f.controller.IsCommitting("A"))
	assert.NoError(t, f.controller.PickUp("A"))
}

func TestControllerRejectsSecondGesture(t *testing.T) {
	f := newControllerFixture(t, 8,
		item("A", schemas.STAGE_LEAD, nil),
		item("B", schemas.STAGE_LEAD, nil),
	)

	require.NoError(t, f.controller.PointerDown("A", 0, 0))
	assert.ErrorIs(t, f.controller.PointerDown("B", 0, 0), ErrGestureActive)
	assert.ErrorIs(t, f.controller.PickUp("B"), ErrGestureActive)
	assert.ErrorIs(t, f.controller.PointerDown("missing", 0, 0), ErrGestureActive)

	f.controller.Cancel()
	assert.ErrorIs(t, f.controller.PointerDown("missing", 0, 0), ErrItemNotFound)
}

func TestControllerKeyboardDrag(t *testing.T) {
	f := newControllerFixture(t, 8, item("A", schemas.STAGE_LEAD, value(40)))

	assert.ErrorIs(t, f.controller.Move(onColumn(schemas.STAGE_DISCOVERY)), ErrNotDragging)
	_, err := f.controller.Drop(onColumn(schemas.STAGE_DISCOVERY))
	assert.ErrorIs(t, err, ErrNotDragging)

	require.NoError(t, f.controller.PickUp("A"))
	require.NoError(t, f.controller.Move(onColumn(schemas.STAGE_DISCOVERY)))
	require.NoError(t, f.controller.Move(onColumn(schemas.STAGE_PROPOSAL)))
	assert.Equal(t, 40.0, f.state.TotalValueInStage(schemas.STAGE_PROPOSAL))

	commit, err := f.controller.Drop(onColumn(schemas.STAGE_PROPOSAL))
	require.NoError(t, err)
	require.NotNil(t, commit)
	assert.Equal(t, schemas.STAGE_LEAD, commit.From)
	assert.Equal(t, schemas.STAGE_PROPOSAL, commit.To)
}

func TestControllerCancelRestoresOrigin(t *testing.T) {
	f := newControllerFixture(t, 8, item("A", schemas.STAGE_LEAD, nil))

	f.drag(t, "A", onColumn(schemas.STAGE_LOST))
	require.Equal(t, schemas.STAGE_LOST, f.stageOf(t, "A"))

	f.controller.Cancel()

	assert.Equal(t, schemas.STAGE_LEAD, f.stageOf(t, "A"))
	assert.Equal(t, PhaseIdle, f.controller.Phase())
	assert.Empty(t, f.gateway.Updates())
}

func TestControllerFailedCommitRevertsByReload(t *testing.T) {
	f := newControllerFixture(t, 8, item("A", schemas.STAGE_LEAD, nil))
	f.gateway.FailUpdates(errGatewayDown)

	f.drag(t, "A", onColumn(schemas.STAGE_AWARDED))
	commit, err := f.controller.PointerUp(onColumn(schemas.STAGE_AWARDED))
	require.NoError(t, err)
	require.NotNil(t, commit)
	require.Equal(t, schemas.STAGE_AWARDED, f.stageOf(t, "A"))

	require.ErrorIs(t, commit.Run(context.Background()), errGatewayDown)
	f.controller.Settle(commit)

	assert.Len(t, f.gateway.Updates(), 1)
	assert.Equal(t, schemas.STAGE_LEAD, f.stageOf(t, "A"))
	assert.Equal(t, PhaseIdle, f.controller.Phase())
	assertPartition(t, f.state)
}

func TestControllerUnknownColumnIsNotATarget(t *testing.T) {
	f := newControllerFixture(t, 8, item("A", schemas.STAGE_LEAD, nil))

	f.drag(t, "A", onColumn(schemas.Stage("Archived")))
	assert.Equal(t, schemas.STAGE_LEAD, f.stageOf(t, "A"))

	commit, err := f.controller.PointerUp(onColumn(schemas.Stage("Archived")))
	require.NoError(t, err)
	assert.Nil(t, commit)
}

func TestControllerRebaseKeepsDragAcrossReload(t *testing.T) {
	f := newControllerFixture(t, 8, item("A", schemas.STAGE_LEAD, nil))

	f.drag(t, "A", onColumn(schemas.STAGE_PROPOSAL))
	f.gateway.mu.Lock()
	f.gateway.items[0].Stage = schemas.STAGE_DISCOVERY
	f.gateway.mu.Unlock()

	require.NoError(t, f.state.Load(context.Background()))
	require.Equal(t, schemas.STAGE_DISCOVERY, f.stageOf(t, "A"))

	f.controller.Rebase()
	assert.Equal(t, schemas.STAGE_PROPOSAL, f.stageOf(t, "A"))
	assert.Equal(t, PhaseDragging, f.controller.Phase())

	f.controller.Cancel()
	assert.Equal(t, schemas.STAGE_DISCOVERY, f.stageOf(t, "A"), "cancel returns to the reloaded stage")
}

func TestControllerRebaseDropsVanishedItem(t *testing.T) {
	f := newControllerFixture(t, 8, item("A", schemas.STAGE_LEAD, nil))

	f.drag(t, "A", onColumn(schemas.STAGE_PROPOSAL))
	f.gateway.mu.Lock()
	f.gateway.items = nil
	f.gateway.mu.Unlock()
	require.NoError(t, f.state.Load(context.Background()))

	f.controller.Rebase()
	_, dragging := f.controller.DraggedItem()
	assert.False(t, dragging)
	assert.Equal(t, PhaseIdle, f.controller.Phase())
}
