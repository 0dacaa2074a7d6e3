package domain

import (
	"slices"
	"strings"
	"time"
)

// HabitCadence represents a selectable repeat cadence.
type HabitCadence string

// HabitCadence values.
const (
	CadenceDaily   HabitCadence = "daily"
	CadenceWeekly  HabitCadence = "weekly"
	CadenceMonthly HabitCadence = "monthly"
)

var validCadences = []HabitCadence{CadenceDaily, CadenceWeekly, CadenceMonthly}

// Habit represents one repeating household routine.
type Habit struct {
	ID         string
	Name       string
	Cadence    HabitCadence
	Streak     int
	LastDoneAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
	ArchivedAt *time.Time
}

// NewHabit constructs a new value for this package.
func NewHabit(id, name string, cadence HabitCadence, now time.Time) (Habit, error) {
	id = strings.TrimSpace(id)
	name = strings.TrimSpace(name)
	if id == "" {
		return Habit{}, ErrInvalidID
	}
	if name == "" {
		return Habit{}, ErrInvalidName
	}
	if cadence == "" {
		cadence = CadenceDaily
	}
	if !slices.Contains(validCadences, cadence) {
		return Habit{}, ErrInvalidName
	}

	return Habit{
		ID:        id,
		Name:      name,
		Cadence:   cadence,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}, nil
}

// MarkDone records one completion and extends the streak when the previous
// completion was within the cadence window.
func (h *Habit) MarkDone(now time.Time) {
	ts := now.UTC()
	if h.LastDoneAt != nil && ts.Sub(*h.LastDoneAt) <= h.cadenceWindow() {
		h.Streak++
	} else {
		h.Streak = 1
	}
	h.LastDoneAt = &ts
	h.UpdatedAt = ts
}

// Archive archives the requested operation.
func (h *Habit) Archive(now time.Time) {
	ts := now.UTC()
	h.ArchivedAt = &ts
	h.UpdatedAt = ts
}

// Restore restores the requested operation.
func (h *Habit) Restore(now time.Time) {
	h.ArchivedAt = nil
	h.UpdatedAt = now.UTC()
}

func (h Habit) cadenceWindow() time.Duration {
	switch h.Cadence {
	case CadenceWeekly:
		return 8 * 24 * time.Hour
	case CadenceMonthly:
		return 32 * 24 * time.Hour
	default:
		return 36 * time.Hour
	}
}
