package dnd

import (
	"github.com/hylla/hemma/internal/domain"
)

// Move is the resolved outcome of one completed drag: insert the item before
// whatever currently sits at ToIndex in the destination column. Any
// removed-then-inserted index renormalization is the emitter's concern.
type Move struct {
	Item       domain.Item
	ToColumnID string
	ToIndex    int
}

// MoveFunc receives one resolved move instruction. It is invoked at most
// once per drag session and is expected not to block.
type MoveFunc func(Move)

// Resolve turns a terminal drag gesture into zero or one move instructions.
// Every failing check aborts silently; dropped-in-place gestures are
// rejected so no spurious persistence call is made for a no-op.
func Resolve(board domain.Board, activeID, overID string) (Move, bool) {
	item, ok := board.ItemByID(activeID)
	if !ok {
		// The item can vanish mid-drag when an upstream update removes it.
		return Move{}, false
	}
	if !item.Editable() {
		return Move{}, false
	}
	if overID == "" {
		return Move{}, false
	}

	target, targetIndex, ok := locateTarget(board, overID)
	if !ok {
		return Move{}, false
	}
	if !target.AcceptsDrop {
		return Move{}, false
	}

	source, currentIndex, ok := board.ColumnOf(activeID)
	if !ok {
		return Move{}, false
	}
	if source.ID == target.ID && (targetIndex == currentIndex || targetIndex == currentIndex+1) {
		// Dropped in essentially the same place.
		return Move{}, false
	}

	return Move{
		Item:       item,
		ToColumnID: target.ID,
		ToIndex:    targetIndex,
	}, true
}

// locateTarget resolves a drop target id into a column and insertion index.
// A column id means "append at the end of that column"; an item id means
// "insert before that item at its current index".
func locateTarget(board domain.Board, overID string) (domain.BoardColumn, int, bool) {
	if column, ok := board.ColumnByID(overID); ok {
		return column, len(column.Items), true
	}
	if column, idx, ok := board.ColumnOf(overID); ok {
		return column, idx, true
	}
	return domain.BoardColumn{}, 0, false
}
