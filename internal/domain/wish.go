package domain

import (
	"strings"
	"time"
)

// Wish represents one "someday" wishlist entry.
type Wish struct {
	ID         string
	Title      string
	Notes      string
	URL        string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	ArchivedAt *time.Time
}

// NewWish constructs a new value for this package.
func NewWish(id, title, notes, url string, now time.Time) (Wish, error) {
	id = strings.TrimSpace(id)
	title = strings.TrimSpace(title)
	if id == "" {
		return Wish{}, ErrInvalidID
	}
	if title == "" {
		return Wish{}, ErrInvalidTitle
	}

	return Wish{
		ID:        id,
		Title:     title,
		Notes:     strings.TrimSpace(notes),
		URL:       strings.TrimSpace(url),
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}, nil
}

// Archive archives the requested operation.
func (w *Wish) Archive(now time.Time) {
	ts := now.UTC()
	w.ArchivedAt = &ts
	w.UpdatedAt = ts
}

// Restore restores the requested operation.
func (w *Wish) Restore(now time.Time) {
	w.ArchivedAt = nil
	w.UpdatedAt = now.UTC()
}
