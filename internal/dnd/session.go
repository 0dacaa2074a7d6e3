package dnd

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/hylla/hemma/internal/domain"
)

// Tracker maintains one drag session: what is being dragged and where it is
// hovering right now. At most one session is active at a time; every lookup
// runs against the board snapshot passed into the call, never one captured
// at session start, so items that changed mid-gesture resolve correctly.
type Tracker struct {
	log  *log.Logger
	emit MoveFunc

	dragging     bool
	active       domain.Item
	overColumnID string
	overIndex    int
}

// NewTracker constructs an idle tracker. The emit callback receives at most
// one move per session; a nil logger discards diagnostics.
func NewTracker(emit MoveFunc, logger *log.Logger) *Tracker {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Tracker{
		log:  logger,
		emit: emit,
	}
}

// Dragging reports whether a session is active.
func (t *Tracker) Dragging() bool {
	return t.dragging
}

// ActiveItem returns the item captured at drag start.
func (t *Tracker) ActiveItem() (domain.Item, bool) {
	if !t.dragging {
		return domain.Item{}, false
	}
	return t.active, true
}

// OverTarget returns the current hover target for overlay rendering.
func (t *Tracker) OverTarget() (columnID string, index int, ok bool) {
	if !t.dragging || t.overColumnID == "" {
		return "", 0, false
	}
	return t.overColumnID, t.overIndex, true
}

// DragStart begins a session for the item with the given id. Starting a
// second session while one is active is not a supported input and is
// ignored, as is an id that resolves to nothing in the current board.
func (t *Tracker) DragStart(board domain.Board, activeID string) bool {
	if t.dragging {
		t.log.Warn("drag start ignored: session already active", "active_id", activeID)
		return false
	}
	item, ok := board.ItemByID(activeID)
	if !ok {
		t.log.Warn("drag start ignored: item not found", "active_id", activeID)
		return false
	}
	t.dragging = true
	t.active = item
	t.overColumnID = ""
	t.overIndex = 0
	t.log.Debug("drag session started", "item_id", item.ID, "kind", item.Kind)
	return true
}

// DragOver recomputes the hover target from the live board. Hovering a
// column id targets its bottom (append); hovering an item targets that
// item's current slot; anything else clears the hover target.
func (t *Tracker) DragOver(board domain.Board, overID string) {
	if !t.dragging {
		return
	}
	target, index, ok := locateTarget(board, overID)
	if !ok {
		t.overColumnID = ""
		t.overIndex = 0
		return
	}
	t.overColumnID = target.ID
	t.overIndex = index
}

// DragEnd finishes the session: the drop target is recomputed fresh from
// the board handed in at end time, then the session is cleared regardless
// of whether a move was emitted.
func (t *Tracker) DragEnd(board domain.Board, overID string) {
	if !t.dragging {
		return
	}
	activeID := t.active.ID
	t.reset()

	move, ok := Resolve(board, activeID, overID)
	if !ok {
		t.log.Debug("drag session ended without move", "item_id", activeID, "over_id", overID)
		return
	}
	t.log.Debug("drag session resolved", "item_id", move.Item.ID, "to_column", move.ToColumnID, "to_index", move.ToIndex)
	if t.emit != nil {
		t.emit(move)
	}
}

// DragCancel discards the session with no emitted instruction. From the
// emitter's point of view this is indistinguishable from a drag that never
// happened.
func (t *Tracker) DragCancel() {
	if !t.dragging {
		return
	}
	t.log.Debug("drag session canceled", "item_id", t.active.ID)
	t.reset()
}

func (t *Tracker) reset() {
	t.dragging = false
	t.active = domain.Item{}
	t.overColumnID = ""
	t.overIndex = 0
}
