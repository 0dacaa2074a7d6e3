package domain

import (
	"strings"
	"time"
)

// Column represents one persisted board lane.
type Column struct {
	ID          string
	Name        string
	Position    int
	AcceptsDrop bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ArchivedAt  *time.Time
}

// NewColumn constructs a new value for this package.
func NewColumn(id, name string, position int, acceptsDrop bool, now time.Time) (Column, error) {
	id = strings.TrimSpace(id)
	name = strings.TrimSpace(name)
	if id == "" {
		return Column{}, ErrInvalidID
	}
	if name == "" {
		return Column{}, ErrInvalidName
	}
	if position < 0 {
		return Column{}, ErrInvalidPosition
	}

	return Column{
		ID:          id,
		Name:        name,
		Position:    position,
		AcceptsDrop: acceptsDrop,
		CreatedAt:   now.UTC(),
		UpdatedAt:   now.UTC(),
	}, nil
}

// Rename renames the requested operation.
func (c *Column) Rename(name string, now time.Time) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidName
	}
	c.Name = name
	c.UpdatedAt = now.UTC()
	return nil
}

// SetPosition handles set position.
func (c *Column) SetPosition(position int, now time.Time) error {
	if position < 0 {
		return ErrInvalidPosition
	}
	c.Position = position
	c.UpdatedAt = now.UTC()
	return nil
}

// SetAcceptsDrop toggles whether the lane accepts dropped items.
func (c *Column) SetAcceptsDrop(acceptsDrop bool, now time.Time) {
	c.AcceptsDrop = acceptsDrop
	c.UpdatedAt = now.UTC()
}

// Archive archives the requested operation.
func (c *Column) Archive(now time.Time) {
	ts := now.UTC()
	c.ArchivedAt = &ts
	c.UpdatedAt = ts
}

// Restore restores the requested operation.
func (c *Column) Restore(now time.Time) {
	c.ArchivedAt = nil
	c.UpdatedAt = now.UTC()
}
