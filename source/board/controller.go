package board

import (
	"commandcenter/source/schemas"
	"context"
	"math"
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDragging
	PhaseCommitting
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDragging:
		return "dragging"
	case PhaseCommitting:
		return "committing"
	}
	return "unknown"
}

type gesture struct {
	itemID      string
	originStage schemas.Stage
	startX      float64
	startY      float64
	// placed is the stage the card was last shown in during the drag.
	placed schemas.Stage
	// armed is a pointer press that has not yet travelled far enough to count
	// as a drag.
	armed bool
}

// Commit is a stage change handed from the controller to the writer.
type Commit struct {
	ItemID string
	From   schemas.Stage
	To     schemas.Stage
	writer *Writer

	persistErr error
}

func (c *Commit) Run(ctx context.Context) error {
	return c.writer.CommitStageChange(ctx, c.ItemID, c.To)
}

func (c *Commit) prepare() error {
	return c.writer.Prepare(c.ItemID, c.To)
}

// persist is the part of a commit that may run off the session loop.
func (c *Commit) persist(ctx context.Context) {
	c.persistErr = c.writer.Persist(ctx, c.ItemID, c.To)
}

func (c *Commit) reconcile(ctx context.Context) error {
	return c.writer.Reconcile(ctx, c.ItemID, c.To, c.persistErr)
}

// Controller turns pointer and keyboard gestures into optimistic board moves
// and, on release, into at most one Commit. It is not safe for concurrent use;
// a session drives it from a single goroutine.
type Controller struct {
	board              *State
	writer             *Writer
	navigator          Navigator
	activationDistance float64

	phase      Phase
	active     *gesture
	committing map[string]struct{}
}

func NewController(board *State, writer *Writer, navigator Navigator, activationDistance float64) *Controller {
	if activationDistance < 0 {
		activationDistance = 0
	}
	return &Controller{
		board:              board,
		writer:             writer,
		navigator:          navigator,
		activationDistance: activationDistance,
		phase:              PhaseIdle,
		committing:         map[string]struct{}{},
	}
}

func (c *Controller) Phase() Phase {
	return c.phase
}

// DraggedItem returns the item being dragged, if any.
func (c *Controller) DraggedItem() (string, bool) {
	if c.active == nil || c.active.armed {
		return "", false
	}
	return c.active.itemID, true
}

func (c *Controller) IsCommitting(itemID string) bool {
	_, ok := c.committing[itemID]
	return ok
}

// PointerDown arms a gesture on a card. The drag itself starts once the
// pointer has moved past the activation distance.
func (c *Controller) PointerDown(itemID string, x, y float64) error {
	if err := c.checkDraggable(itemID); err != nil {
		return err
	}

	c.active = &gesture{itemID: itemID, startX: x, startY: y, armed: true}
	if c.activationDistance == 0 {
		c.begin()
	}
	return nil
}

func (c *Controller) PointerMove(x, y float64, target schemas.DropTarget) error {
	if c.active == nil {
		return nil
	}

	if c.active.armed {
		if math.Hypot(x-c.active.startX, y-c.active.startY) < c.activationDistance {
			return nil
		}
		c.begin()
	}

	c.hover(target)
	return nil
}

// PointerUp ends the gesture. A press that never became a drag is a click and
// navigates to the item instead.
func (c *Controller) PointerUp(target schemas.DropTarget) (*Commit, error) {
	if c.active == nil {
		return nil, nil
	}

	if c.active.armed {
		itemID := c.active.itemID
		c.active = nil
		c.settlePhase()
		if c.navigator != nil {
			c.navigator.NavigateToItem(itemID)
		}
		return nil, nil
	}

	return c.release(target), nil
}

// PickUp starts a keyboard drag. Keyboard drags have no activation distance.
func (c *Controller) PickUp(itemID string) error {
	if err := c.checkDraggable(itemID); err != nil {
		return err
	}

	c.active = &gesture{itemID: itemID}
	c.begin()
	return nil
}

func (c *Controller) Move(target schemas.DropTarget) error {
	if _, ok := c.DraggedItem(); !ok {
		return ErrNotDragging
	}

	c.hover(target)
	return nil
}

func (c *Controller) Drop(target schemas.DropTarget) (*Commit, error) {
	if _, ok := c.DraggedItem(); !ok {
		return nil, ErrNotDragging
	}

	return c.release(target), nil
}

// Cancel abandons the gesture and puts the item back where it started.
func (c *Controller) Cancel() {
	if c.active == nil {
		return
	}

	if !c.active.armed {
		c.board.Place(c.active.itemID, c.active.originStage)
	}
	c.active = nil
	c.settlePhase()
}

// Rebase carries an in-progress drag across a board reload. The reloaded
// stage becomes the new origin and the card goes back under the pointer.
func (c *Controller) Rebase() {
	if c.active == nil || c.active.armed {
		return
	}

	origin, ok := c.board.StageOf(c.active.itemID)
	if !ok {
		c.active = nil
		c.settlePhase()
		return
	}
	c.active.originStage = origin
	if c.active.placed.Valid() && c.active.placed != origin {
		c.board.Place(c.active.itemID, c.active.placed)
	}
}

// Settle clears a commit once the writer is done with it, whatever the outcome.
func (c *Controller) Settle(commit *Commit) {
	if commit == nil {
		return
	}

	delete(c.committing, commit.ItemID)
	c.settlePhase()
}

func (c *Controller) checkDraggable(itemID string) error {
	if c.active != nil {
		return ErrGestureActive
	}
	if c.IsCommitting(itemID) {
		return ErrItemCommitting
	}
	if _, ok := c.board.StageOf(itemID); !ok {
		return ErrItemNotFound
	}
	return nil
}

func (c *Controller) begin() {
	c.active.armed = false
	c.active.originStage, _ = c.board.StageOf(c.active.itemID)
	c.active.placed = c.active.originStage
	c.phase = PhaseDragging
}

func (c *Controller) hover(target schemas.DropTarget) {
	candidate, ok := c.candidateStage(target)
	if !ok {
		return
	}

	if current, found := c.board.StageOf(c.active.itemID); found && current != candidate {
		c.board.Place(c.active.itemID, candidate)
	}
	c.active.placed = candidate
}

func (c *Controller) release(target schemas.DropTarget) *Commit {
	g := c.active
	final, ok := c.candidateStage(target)
	c.active = nil

	if !ok || final == g.originStage {
		c.board.Place(g.itemID, g.originStage)
		c.settlePhase()
		return nil
	}

	if !c.board.Place(g.itemID, final) {
		// The item vanished in a reload while it was being dragged.
		c.settlePhase()
		return nil
	}

	c.committing[g.itemID] = struct{}{}
	c.settlePhase()

	return &Commit{
		ItemID: g.itemID,
		From:   g.originStage,
		To:     final,
		writer: c.writer,
	}
}

// candidateStage resolves the stage a drop target stands for: another card
// means that card's stage, a column means the column's stage.
func (c *Controller) candidateStage(target schemas.DropTarget) (schemas.Stage, bool) {
	switch target.Kind {
	case schemas.DROP_TARGET_ITEM:
		return c.board.StageOf(target.ItemID)
	case schemas.DROP_TARGET_COLUMN:
		if target.Stage.Valid() {
			return target.Stage, true
		}
	}
	return "", false
}

func (c *Controller) settlePhase() {
	switch {
	case c.active != nil && !c.active.armed:
		c.phase = PhaseDragging
	case len(c.committing) > 0:
		c.phase = PhaseCommitting
	default:
		c.phase = PhaseIdle
	}
}
