package domain

import (
	"strings"
	"time"
)

// Event represents one family-native calendar entry shown on the board.
type Event struct {
	ID         string
	ColumnID   string
	Position   int
	Title      string
	Notes      string
	Location   string
	StartsAt   time.Time
	EndsAt     *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
	ArchivedAt *time.Time
}

// EventInput holds write-time values for creating an event.
type EventInput struct {
	ID       string
	ColumnID string
	Position int
	Title    string
	Notes    string
	Location string
	StartsAt time.Time
	EndsAt   *time.Time
}

// NewEvent validates and normalizes one event.
func NewEvent(in EventInput, now time.Time) (Event, error) {
	in.ID = strings.TrimSpace(in.ID)
	in.ColumnID = strings.TrimSpace(in.ColumnID)
	in.Title = strings.TrimSpace(in.Title)

	if in.ID == "" {
		return Event{}, ErrInvalidID
	}
	if in.ColumnID == "" {
		return Event{}, ErrInvalidColumnID
	}
	if in.Title == "" {
		return Event{}, ErrInvalidTitle
	}
	if in.Position < 0 {
		return Event{}, ErrInvalidPosition
	}
	if in.StartsAt.IsZero() {
		return Event{}, ErrInvalidTimeSpan
	}
	if in.EndsAt != nil && in.EndsAt.Before(in.StartsAt) {
		return Event{}, ErrInvalidTimeSpan
	}

	return Event{
		ID:        in.ID,
		ColumnID:  in.ColumnID,
		Position:  in.Position,
		Title:     in.Title,
		Notes:     strings.TrimSpace(in.Notes),
		Location:  strings.TrimSpace(in.Location),
		StartsAt:  in.StartsAt.UTC().Truncate(time.Second),
		EndsAt:    normalizeTimestamp(in.EndsAt),
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}, nil
}

// Move repositions the event on the board.
func (e *Event) Move(columnID string, position int, now time.Time) error {
	columnID = strings.TrimSpace(columnID)
	if columnID == "" {
		return ErrInvalidColumnID
	}
	if position < 0 {
		return ErrInvalidPosition
	}
	e.ColumnID = columnID
	e.Position = position
	e.UpdatedAt = now.UTC()
	return nil
}

// UpdateDetails replaces the editable event fields.
func (e *Event) UpdateDetails(title, notes, location string, startsAt time.Time, endsAt *time.Time, now time.Time) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrInvalidTitle
	}
	if startsAt.IsZero() {
		return ErrInvalidTimeSpan
	}
	if endsAt != nil && endsAt.Before(startsAt) {
		return ErrInvalidTimeSpan
	}
	e.Title = title
	e.Notes = strings.TrimSpace(notes)
	e.Location = strings.TrimSpace(location)
	e.StartsAt = startsAt.UTC().Truncate(time.Second)
	e.EndsAt = normalizeTimestamp(endsAt)
	e.UpdatedAt = now.UTC()
	return nil
}

// Archive archives the requested operation.
func (e *Event) Archive(now time.Time) {
	ts := now.UTC()
	e.ArchivedAt = &ts
	e.UpdatedAt = ts
}

// Restore restores the requested operation.
func (e *Event) Restore(now time.Time) {
	e.ArchivedAt = nil
	e.UpdatedAt = now.UTC()
}

// BoardItem projects the event into its board envelope.
func (e Event) BoardItem() Item {
	startsAt := e.StartsAt
	return Item{
		ID:          e.ID,
		Kind:        ItemKindEvent,
		Title:       e.Title,
		Description: e.Notes,
		Location:    e.Location,
		StartsAt:    &startsAt,
	}
}

// ExternalEvent represents one read-only event imported from a calendar feed.
type ExternalEvent struct {
	ID        string
	ColumnID  string
	Position  int
	FeedName  string
	Title     string
	Location  string
	StartsAt  time.Time
	EndsAt    *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ExternalEventInput holds write-time values for importing an external event.
type ExternalEventInput struct {
	ID       string
	ColumnID string
	Position int
	FeedName string
	Title    string
	Location string
	StartsAt time.Time
	EndsAt   *time.Time
}

// NewExternalEvent validates and normalizes one imported event.
func NewExternalEvent(in ExternalEventInput, now time.Time) (ExternalEvent, error) {
	in.ID = strings.TrimSpace(in.ID)
	in.ColumnID = strings.TrimSpace(in.ColumnID)
	in.FeedName = strings.TrimSpace(in.FeedName)
	in.Title = strings.TrimSpace(in.Title)

	if in.ID == "" {
		return ExternalEvent{}, ErrInvalidID
	}
	if in.ColumnID == "" {
		return ExternalEvent{}, ErrInvalidColumnID
	}
	if in.FeedName == "" {
		return ExternalEvent{}, ErrInvalidName
	}
	if in.Title == "" {
		return ExternalEvent{}, ErrInvalidTitle
	}
	if in.Position < 0 {
		return ExternalEvent{}, ErrInvalidPosition
	}
	if in.StartsAt.IsZero() {
		return ExternalEvent{}, ErrInvalidTimeSpan
	}
	if in.EndsAt != nil && in.EndsAt.Before(in.StartsAt) {
		return ExternalEvent{}, ErrInvalidTimeSpan
	}

	return ExternalEvent{
		ID:        in.ID,
		ColumnID:  in.ColumnID,
		Position:  in.Position,
		FeedName:  in.FeedName,
		Title:     in.Title,
		Location:  strings.TrimSpace(in.Location),
		StartsAt:  in.StartsAt.UTC().Truncate(time.Second),
		EndsAt:    normalizeTimestamp(in.EndsAt),
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}, nil
}

// SetPosition absorbs an index shift caused by neighbors moving around the
// imported row. The row itself never changes columns.
func (e *ExternalEvent) SetPosition(position int, now time.Time) error {
	if position < 0 {
		return ErrInvalidPosition
	}
	e.Position = position
	e.UpdatedAt = now.UTC()
	return nil
}

// BoardItem projects the imported event into its read-only board envelope.
func (e ExternalEvent) BoardItem() Item {
	startsAt := e.StartsAt
	return Item{
		ID:       e.ID,
		Kind:     ItemKindExternal,
		Title:    e.Title,
		Location: e.Location,
		StartsAt: &startsAt,
		FeedName: e.FeedName,
	}
}
