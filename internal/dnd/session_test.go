package dnd

import (
	"testing"
	"time"

	"github.com/hylla/hemma/internal/domain"
)

type moveRecorder struct {
	moves []Move
}

func (r *moveRecorder) record(move Move) {
	r.moves = append(r.moves, move)
}

func sessionBoard(t *testing.T) domain.Board {
	t.Helper()
	return domain.Board{Columns: []domain.BoardColumn{
		column(t, "todo", "To Do", 0, true, taskItem("A"), taskItem("B")),
		column(t, "done", "Done", 1, true),
	}}
}

func TestTrackerFullSessionEmitsOnce(t *testing.T) {
	board := sessionBoard(t)
	rec := &moveRecorder{}
	tracker := NewTracker(rec.record, nil)

	if !tracker.DragStart(board, "A") {
		t.Fatal("expected drag start to succeed")
	}
	item, ok := tracker.ActiveItem()
	if !ok || item.ID != "A" {
		t.Fatalf("ActiveItem() = %#v, %v", item, ok)
	}
	if _, _, ok := tracker.OverTarget(); ok {
		t.Fatal("expected no hover target before drag over")
	}

	tracker.DragOver(board, "B")
	columnID, index, ok := tracker.OverTarget()
	if !ok || columnID != "todo" || index != 1 {
		t.Fatalf("OverTarget() = %q, %d, %v", columnID, index, ok)
	}

	tracker.DragOver(board, "done")
	columnID, index, ok = tracker.OverTarget()
	if !ok || columnID != "done" || index != 0 {
		t.Fatalf("OverTarget() = %q, %d, %v", columnID, index, ok)
	}

	tracker.DragEnd(board, "done")
	if len(rec.moves) != 1 {
		t.Fatalf("expected exactly one move, got %d", len(rec.moves))
	}
	if rec.moves[0].ToColumnID != "done" || rec.moves[0].ToIndex != 0 {
		t.Fatalf("unexpected move %#v", rec.moves[0])
	}
	if tracker.Dragging() {
		t.Fatal("expected tracker idle after drag end")
	}
	if _, ok := tracker.ActiveItem(); ok {
		t.Fatal("expected active item cleared")
	}
}

func TestTrackerCancelEmitsNothing(t *testing.T) {
	board := sessionBoard(t)
	rec := &moveRecorder{}
	tracker := NewTracker(rec.record, nil)

	tracker.DragStart(board, "A")
	tracker.DragOver(board, "B")
	tracker.DragOver(board, "done")
	tracker.DragCancel()

	if len(rec.moves) != 0 {
		t.Fatalf("expected zero moves after cancel, got %d", len(rec.moves))
	}
	if tracker.Dragging() {
		t.Fatal("expected tracker idle after cancel")
	}
}

func TestTrackerUnknownIDStaysIdle(t *testing.T) {
	board := sessionBoard(t)
	rec := &moveRecorder{}
	tracker := NewTracker(rec.record, nil)

	if tracker.DragStart(board, "ghost") {
		t.Fatal("expected drag start to fail for unknown id")
	}
	if tracker.Dragging() {
		t.Fatal("expected tracker to remain idle")
	}
	tracker.DragEnd(board, "ghost")
	if len(rec.moves) != 0 {
		t.Fatalf("expected zero moves, got %d", len(rec.moves))
	}
}

func TestTrackerRejectsSecondStart(t *testing.T) {
	board := sessionBoard(t)
	tracker := NewTracker(nil, nil)

	tracker.DragStart(board, "A")
	if tracker.DragStart(board, "B") {
		t.Fatal("expected second drag start rejected")
	}
	item, _ := tracker.ActiveItem()
	if item.ID != "A" {
		t.Fatalf("expected original session preserved, got %q", item.ID)
	}
}

func TestTrackerResolvesAgainstEndBoard(t *testing.T) {
	board := sessionBoard(t)
	rec := &moveRecorder{}
	tracker := NewTracker(rec.record, nil)

	tracker.DragStart(board, "A")

	// A realtime update removed the dragged item before the drop landed.
	shrunk := domain.Board{Columns: []domain.BoardColumn{
		column(t, "todo", "To Do", 0, true, taskItem("B")),
		column(t, "done", "Done", 1, true),
	}}
	tracker.DragEnd(shrunk, "done")

	if len(rec.moves) != 0 {
		t.Fatalf("expected zero moves for item deleted mid-drag, got %d", len(rec.moves))
	}
	if tracker.Dragging() {
		t.Fatal("expected tracker idle")
	}
}

func TestTrackerHoverClearedForUnknownTarget(t *testing.T) {
	board := sessionBoard(t)
	tracker := NewTracker(nil, nil)

	tracker.DragStart(board, "A")
	tracker.DragOver(board, "done")
	tracker.DragOver(board, "nowhere")
	if _, _, ok := tracker.OverTarget(); ok {
		t.Fatal("expected hover target cleared")
	}
}

func TestTrackerHoverRecomputedFromLiveBoard(t *testing.T) {
	board := sessionBoard(t)
	tracker := NewTracker(nil, nil)

	tracker.DragStart(board, "A")

	// The hovered column gained an item between renders; the append index
	// must reflect the model handed in now, not a cached count.
	grown := domain.Board{Columns: []domain.BoardColumn{
		column(t, "todo", "To Do", 0, true, taskItem("A"), taskItem("B")),
		column(t, "done", "Done", 1, true, taskItem("Z")),
	}}
	tracker.DragOver(grown, "done")
	columnID, index, ok := tracker.OverTarget()
	if !ok || columnID != "done" || index != 1 {
		t.Fatalf("OverTarget() = %q, %d, %v", columnID, index, ok)
	}
}

func TestSensorActivation(t *testing.T) {
	sensors := DefaultSensors()

	if sensors.Pointer.Activates(3, 4) {
		t.Fatal("5-unit travel must not activate the pointer sensor")
	}
	if !sensors.Pointer.Activates(6, 6) {
		t.Fatal("expected pointer activation past the distance threshold")
	}

	if sensors.Touch.Activates(100*time.Millisecond, 0) {
		t.Fatal("short hold must not activate the touch sensor")
	}
	if sensors.Touch.Activates(300*time.Millisecond, 12) {
		t.Fatal("a moving touch is a scroll, not a drag")
	}
	if !sensors.Touch.Activates(300*time.Millisecond, 2) {
		t.Fatal("expected touch activation after a steady hold")
	}

	if !sensors.Keyboard.IsPickUpKey("enter") {
		t.Fatal("expected enter to pick up")
	}
	if !sensors.Keyboard.IsCancelKey("esc") {
		t.Fatal("expected esc to cancel")
	}
	if sensors.Keyboard.IsPickUpKey("x") {
		t.Fatal("unexpected pick-up key")
	}

	disabled := KeyboardSensor{PickUpKeys: []string{" "}}
	if disabled.IsPickUpKey(" ") {
		t.Fatal("disabled keyboard sensor must not activate")
	}
}
