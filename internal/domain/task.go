package domain

import (
	"strings"
	"time"
)

type Task struct {
	ID         string
	ColumnID   string
	Position   int
	Title      string
	Notes      string
	AssignedTo string
	DueAt      *time.Time
	DoneAt     *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
	ArchivedAt *time.Time
}

type TaskInput struct {
	ID         string
	ColumnID   string
	Position   int
	Title      string
	Notes      string
	AssignedTo string
	DueAt      *time.Time
}

func NewTask(in TaskInput, now time.Time) (Task, error) {
	in.ID = strings.TrimSpace(in.ID)
	in.ColumnID = strings.TrimSpace(in.ColumnID)
	in.Title = strings.TrimSpace(in.Title)
	in.Notes = strings.TrimSpace(in.Notes)
	in.AssignedTo = strings.TrimSpace(in.AssignedTo)

	if in.ID == "" {
		return Task{}, ErrInvalidID
	}
	if in.ColumnID == "" {
		return Task{}, ErrInvalidColumnID
	}
	if in.Title == "" {
		return Task{}, ErrInvalidTitle
	}
	if in.Position < 0 {
		return Task{}, ErrInvalidPosition
	}

	return Task{
		ID:         in.ID,
		ColumnID:   in.ColumnID,
		Position:   in.Position,
		Title:      in.Title,
		Notes:      in.Notes,
		AssignedTo: in.AssignedTo,
		DueAt:      normalizeTimestamp(in.DueAt),
		CreatedAt:  now.UTC(),
		UpdatedAt:  now.UTC(),
	}, nil
}

func (t *Task) Move(columnID string, position int, now time.Time) error {
	columnID = strings.TrimSpace(columnID)
	if columnID == "" {
		return ErrInvalidColumnID
	}
	if position < 0 {
		return ErrInvalidPosition
	}
	t.ColumnID = columnID
	t.Position = position
	t.UpdatedAt = now.UTC()
	return nil
}

func (t *Task) UpdateDetails(title, notes, assignedTo string, dueAt *time.Time, now time.Time) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrInvalidTitle
	}
	t.Title = title
	t.Notes = strings.TrimSpace(notes)
	t.AssignedTo = strings.TrimSpace(assignedTo)
	t.DueAt = normalizeTimestamp(dueAt)
	t.UpdatedAt = now.UTC()
	return nil
}

// Complete marks the task done; Reopen clears the done marker.
func (t *Task) Complete(now time.Time) {
	ts := now.UTC()
	t.DoneAt = &ts
	t.UpdatedAt = ts
}

func (t *Task) Reopen(now time.Time) {
	t.DoneAt = nil
	t.UpdatedAt = now.UTC()
}

func (t *Task) Archive(now time.Time) {
	ts := now.UTC()
	t.ArchivedAt = &ts
	t.UpdatedAt = ts
}

func (t *Task) Restore(now time.Time) {
	t.ArchivedAt = nil
	t.UpdatedAt = now.UTC()
}

// IsDone reports whether the task carries a done marker.
func (t Task) IsDone() bool {
	return t.DoneAt != nil
}

// BoardItem projects the task into its board envelope.
func (t Task) BoardItem() Item {
	return Item{
		ID:          t.ID,
		Kind:        ItemKindTask,
		Title:       t.Title,
		Description: t.Notes,
		StartsAt:    t.DueAt,
		Done:        t.IsDone(),
	}
}

func normalizeTimestamp(ts *time.Time) *time.Time {
	if ts == nil {
		return nil
	}
	normalized := ts.UTC().Truncate(time.Second)
	return &normalized
}
