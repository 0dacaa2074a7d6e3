package domain

import (
	"testing"
	"time"
)

func TestNewColumnValidation(t *testing.T) {
	now := time.Now()
	if _, err := NewColumn("", "Inbox", 0, true, now); err != ErrInvalidID {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
	if _, err := NewColumn("c1", "   ", 0, true, now); err != ErrInvalidName {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
	if _, err := NewColumn("c1", "Inbox", -1, true, now); err != ErrInvalidPosition {
		t.Fatalf("expected ErrInvalidPosition, got %v", err)
	}
}

func TestColumnMutations(t *testing.T) {
	now := time.Now()
	c, err := NewColumn("c1", "Inbox", 0, true, now)
	if err != nil {
		t.Fatalf("NewColumn() error = %v", err)
	}
	if err := c.Rename("  Today ", now.Add(time.Minute)); err != nil {
		t.Fatalf("Rename() error = %v", err)
	}
	if c.Name != "Today" {
		t.Fatalf("unexpected column name %q", c.Name)
	}
	c.SetAcceptsDrop(false, now.Add(2*time.Minute))
	if c.AcceptsDrop {
		t.Fatal("expected accepts_drop false")
	}
	c.Archive(now.Add(3 * time.Minute))
	if c.ArchivedAt == nil {
		t.Fatal("expected archived_at to be set")
	}
	c.Restore(now.Add(4 * time.Minute))
	if c.ArchivedAt != nil {
		t.Fatal("expected archived_at to be nil")
	}
}

func TestNewTaskTrimsAndValidates(t *testing.T) {
	now := time.Now()
	due := now.Add(24 * time.Hour)
	task, err := NewTask(TaskInput{
		ID:       "t1",
		ColumnID: "c1",
		Position: 0,
		Title:    "  Water the plants ",
		Notes:    " back garden too ",
		DueAt:    &due,
	}, now)
	if err != nil {
		t.Fatalf("NewTask() error = %v", err)
	}
	if task.Title != "Water the plants" {
		t.Fatalf("unexpected title %q", task.Title)
	}
	if task.Notes != "back garden too" {
		t.Fatalf("unexpected notes %q", task.Notes)
	}

	if _, err := NewTask(TaskInput{ID: "t2", ColumnID: "c1", Title: "   "}, now); err != ErrInvalidTitle {
		t.Fatalf("expected ErrInvalidTitle, got %v", err)
	}
	if _, err := NewTask(TaskInput{ID: "t2", ColumnID: "", Title: "x"}, now); err != ErrInvalidColumnID {
		t.Fatalf("expected ErrInvalidColumnID, got %v", err)
	}
}

func TestTaskMoveCompleteArchive(t *testing.T) {
	now := time.Now()
	task, err := NewTask(TaskInput{ID: "t1", ColumnID: "c1", Title: "x"}, now)
	if err != nil {
		t.Fatalf("NewTask() error = %v", err)
	}
	if err := task.Move("c2", 2, now.Add(time.Minute)); err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if task.ColumnID != "c2" || task.Position != 2 {
		t.Fatalf("unexpected move state: %#v", task)
	}
	if err := task.Move("", 0, now); err != ErrInvalidColumnID {
		t.Fatalf("expected ErrInvalidColumnID, got %v", err)
	}
	task.Complete(now.Add(2 * time.Minute))
	if !task.IsDone() {
		t.Fatal("expected task done")
	}
	task.Reopen(now.Add(3 * time.Minute))
	if task.IsDone() {
		t.Fatal("expected task reopened")
	}
	task.Archive(now.Add(4 * time.Minute))
	if task.ArchivedAt == nil {
		t.Fatal("expected archived_at to be set")
	}
}

func TestNewEventValidation(t *testing.T) {
	now := time.Now()
	starts := now.Add(time.Hour)
	endsBefore := starts.Add(-time.Minute)
	if _, err := NewEvent(EventInput{ID: "e1", ColumnID: "c1", Title: "Dinner", StartsAt: starts, EndsAt: &endsBefore}, now); err != ErrInvalidTimeSpan {
		t.Fatalf("expected ErrInvalidTimeSpan, got %v", err)
	}
	if _, err := NewEvent(EventInput{ID: "e1", ColumnID: "c1", Title: "Dinner"}, now); err != ErrInvalidTimeSpan {
		t.Fatalf("expected ErrInvalidTimeSpan for zero start, got %v", err)
	}
	event, err := NewEvent(EventInput{ID: "e1", ColumnID: "c1", Title: " Dinner ", Location: " Home ", StartsAt: starts}, now)
	if err != nil {
		t.Fatalf("NewEvent() error = %v", err)
	}
	if event.Title != "Dinner" || event.Location != "Home" {
		t.Fatalf("unexpected event %#v", event)
	}
}

func TestNewExternalEventRequiresFeed(t *testing.T) {
	now := time.Now()
	if _, err := NewExternalEvent(ExternalEventInput{
		ID:       "x1",
		ColumnID: "c1",
		Title:    "School recital",
		StartsAt: now.Add(time.Hour),
	}, now); err != ErrInvalidName {
		t.Fatalf("expected ErrInvalidName for missing feed, got %v", err)
	}
}

func TestNewHabitAndStreak(t *testing.T) {
	now := time.Now()
	h, err := NewHabit("h1", "Take out recycling", "", now)
	if err != nil {
		t.Fatalf("NewHabit() error = %v", err)
	}
	if h.Cadence != CadenceDaily {
		t.Fatalf("expected default daily cadence, got %q", h.Cadence)
	}
	h.MarkDone(now)
	if h.Streak != 1 {
		t.Fatalf("expected streak 1, got %d", h.Streak)
	}
	h.MarkDone(now.Add(24 * time.Hour))
	if h.Streak != 2 {
		t.Fatalf("expected streak 2, got %d", h.Streak)
	}
	h.MarkDone(now.Add(10 * 24 * time.Hour))
	if h.Streak != 1 {
		t.Fatalf("expected streak reset to 1, got %d", h.Streak)
	}
}

func TestGoalProgressClamped(t *testing.T) {
	now := time.Now()
	g, err := NewGoal("g1", "Save for summer trip", "", nil, now)
	if err != nil {
		t.Fatalf("NewGoal() error = %v", err)
	}
	g.SetProgress(150, now)
	if g.Progress != 100 {
		t.Fatalf("expected clamped progress 100, got %d", g.Progress)
	}
	g.SetProgress(-5, now)
	if g.Progress != 0 {
		t.Fatalf("expected clamped progress 0, got %d", g.Progress)
	}
}

func TestNewWishValidation(t *testing.T) {
	now := time.Now()
	if _, err := NewWish("", "Trampoline", "", "", now); err != ErrInvalidID {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
	w, err := NewWish("w1", " Trampoline ", "", " https://example.com ", now)
	if err != nil {
		t.Fatalf("NewWish() error = %v", err)
	}
	if w.Title != "Trampoline" || w.URL != "https://example.com" {
		t.Fatalf("unexpected wish %#v", w)
	}
}
