package domain

import (
	"strings"
	"time"
)

// Goal represents one long-running household objective.
type Goal struct {
	ID         string
	Title      string
	Notes      string
	TargetAt   *time.Time
	Progress   int
	CreatedAt  time.Time
	UpdatedAt  time.Time
	ArchivedAt *time.Time
}

// NewGoal constructs a new value for this package.
func NewGoal(id, title, notes string, targetAt *time.Time, now time.Time) (Goal, error) {
	id = strings.TrimSpace(id)
	title = strings.TrimSpace(title)
	if id == "" {
		return Goal{}, ErrInvalidID
	}
	if title == "" {
		return Goal{}, ErrInvalidTitle
	}

	return Goal{
		ID:        id,
		Title:     title,
		Notes:     strings.TrimSpace(notes),
		TargetAt:  normalizeTimestamp(targetAt),
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}, nil
}

// SetProgress records completion percentage clamped to 0-100.
func (g *Goal) SetProgress(progress int, now time.Time) {
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	g.Progress = progress
	g.UpdatedAt = now.UTC()
}

// Archive archives the requested operation.
func (g *Goal) Archive(now time.Time) {
	ts := now.UTC()
	g.ArchivedAt = &ts
	g.UpdatedAt = ts
}

// Restore restores the requested operation.
func (g *Goal) Restore(now time.Time) {
	g.ArchivedAt = nil
	g.UpdatedAt = now.UTC()
}
