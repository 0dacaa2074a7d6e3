package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hylla/hemma/internal/domain"
)

// SnapshotVersion defines a package constant value.
const SnapshotVersion = "hemma.snapshot.v1"

// Snapshot is the portable JSON form of one household's data, used by the
// export and import commands for backup and migration between machines.
type Snapshot struct {
	Version        string                  `json:"version"`
	ExportedAt     time.Time               `json:"exported_at"`
	Columns        []SnapshotColumn        `json:"columns"`
	Tasks          []SnapshotTask          `json:"tasks"`
	Events         []SnapshotEvent         `json:"events"`
	ExternalEvents []SnapshotExternalEvent `json:"external_events,omitempty"`
	Contacts       []SnapshotContact       `json:"contacts,omitempty"`
	Habits         []SnapshotHabit         `json:"habits,omitempty"`
	Goals          []SnapshotGoal          `json:"goals,omitempty"`
	Wishes         []SnapshotWish          `json:"wishes,omitempty"`
}

// SnapshotColumn represents one persisted lane row in a snapshot.
type SnapshotColumn struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Position    int        `json:"position"`
	AcceptsDrop bool       `json:"accepts_drop"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ArchivedAt  *time.Time `json:"archived_at,omitempty"`
}

// SnapshotTask represents one persisted task row in a snapshot.
type SnapshotTask struct {
	ID         string     `json:"id"`
	ColumnID   string     `json:"column_id"`
	Position   int        `json:"position"`
	Title      string     `json:"title"`
	Notes      string     `json:"notes,omitempty"`
	AssignedTo string     `json:"assigned_to,omitempty"`
	DueAt      *time.Time `json:"due_at,omitempty"`
	DoneAt     *time.Time `json:"done_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`
}

// SnapshotEvent represents one persisted event row in a snapshot.
type SnapshotEvent struct {
	ID         string     `json:"id"`
	ColumnID   string     `json:"column_id"`
	Position   int        `json:"position"`
	Title      string     `json:"title"`
	Notes      string     `json:"notes,omitempty"`
	Location   string     `json:"location,omitempty"`
	StartsAt   time.Time  `json:"starts_at"`
	EndsAt     *time.Time `json:"ends_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`
}

// SnapshotExternalEvent represents one imported feed row in a snapshot.
type SnapshotExternalEvent struct {
	ID        string     `json:"id"`
	ColumnID  string     `json:"column_id"`
	Position  int        `json:"position"`
	FeedName  string     `json:"feed_name"`
	Title     string     `json:"title"`
	Location  string     `json:"location,omitempty"`
	StartsAt  time.Time  `json:"starts_at"`
	EndsAt    *time.Time `json:"ends_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// SnapshotContact represents one persisted contact row in a snapshot.
type SnapshotContact struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email,omitempty"`
	Phone      string     `json:"phone,omitempty"`
	Notes      string     `json:"notes,omitempty"`
	Birthday   *time.Time `json:"birthday,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`
}

// SnapshotHabit represents one persisted habit row in a snapshot.
type SnapshotHabit struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Cadence    domain.HabitCadence `json:"cadence"`
	Streak     int                 `json:"streak"`
	LastDoneAt *time.Time          `json:"last_done_at,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
	ArchivedAt *time.Time          `json:"archived_at,omitempty"`
}

// SnapshotGoal represents one persisted goal row in a snapshot.
type SnapshotGoal struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Notes      string     `json:"notes,omitempty"`
	TargetAt   *time.Time `json:"target_at,omitempty"`
	Progress   int        `json:"progress"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`
}

// SnapshotWish represents one persisted wish row in a snapshot.
type SnapshotWish struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Notes      string     `json:"notes,omitempty"`
	URL        string     `json:"url,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`
}

// Validate checks that the snapshot can be imported.
func (s Snapshot) Validate() error {
	if strings.TrimSpace(s.Version) != SnapshotVersion {
		return fmt.Errorf("unsupported snapshot version %q", s.Version)
	}
	for _, column := range s.Columns {
		if strings.TrimSpace(column.ID) == "" {
			return fmt.Errorf("snapshot column without id: %w", domain.ErrInvalidID)
		}
	}
	columnIDs := map[string]struct{}{}
	for _, column := range s.Columns {
		columnIDs[column.ID] = struct{}{}
	}
	for _, task := range s.Tasks {
		if strings.TrimSpace(task.ID) == "" {
			return fmt.Errorf("snapshot task without id: %w", domain.ErrInvalidID)
		}
		if _, ok := columnIDs[task.ColumnID]; !ok {
			return fmt.Errorf("snapshot task %q references unknown column %q", task.ID, task.ColumnID)
		}
	}
	for _, event := range s.Events {
		if strings.TrimSpace(event.ID) == "" {
			return fmt.Errorf("snapshot event without id: %w", domain.ErrInvalidID)
		}
		if _, ok := columnIDs[event.ColumnID]; !ok {
			return fmt.Errorf("snapshot event %q references unknown column %q", event.ID, event.ColumnID)
		}
	}
	return nil
}

func (s *Snapshot) sort() {
	sort.SliceStable(s.Columns, func(i, j int) bool { return s.Columns[i].Position < s.Columns[j].Position })
	sort.SliceStable(s.Tasks, func(i, j int) bool { return s.Tasks[i].ID < s.Tasks[j].ID })
	sort.SliceStable(s.Events, func(i, j int) bool { return s.Events[i].ID < s.Events[j].ID })
	sort.SliceStable(s.ExternalEvents, func(i, j int) bool { return s.ExternalEvents[i].ID < s.ExternalEvents[j].ID })
	sort.SliceStable(s.Contacts, func(i, j int) bool { return s.Contacts[i].ID < s.Contacts[j].ID })
	sort.SliceStable(s.Habits, func(i, j int) bool { return s.Habits[i].ID < s.Habits[j].ID })
	sort.SliceStable(s.Goals, func(i, j int) bool { return s.Goals[i].ID < s.Goals[j].ID })
	sort.SliceStable(s.Wishes, func(i, j int) bool { return s.Wishes[i].ID < s.Wishes[j].ID })
}

// ExportSnapshot handles export snapshot.
func (s *Service) ExportSnapshot(ctx context.Context, includeArchived bool) (Snapshot, error) {
	snap := Snapshot{
		Version:    SnapshotVersion,
		ExportedAt: s.clock().UTC(),
	}

	columns, err := s.repo.ListColumns(ctx, includeArchived)
	if err != nil {
		return Snapshot{}, err
	}
	for _, column := range columns {
		snap.Columns = append(snap.Columns, SnapshotColumn(column))
	}

	tasks, err := s.repo.ListTasks(ctx, includeArchived)
	if err != nil {
		return Snapshot{}, err
	}
	for _, task := range tasks {
		snap.Tasks = append(snap.Tasks, SnapshotTask(task))
	}

	events, err := s.repo.ListEvents(ctx, includeArchived)
	if err != nil {
		return Snapshot{}, err
	}
	for _, event := range events {
		snap.Events = append(snap.Events, SnapshotEvent(event))
	}

	externals, err := s.repo.ListExternalEvents(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	for _, event := range externals {
		snap.ExternalEvents = append(snap.ExternalEvents, SnapshotExternalEvent(event))
	}

	contacts, err := s.repo.ListContacts(ctx, includeArchived)
	if err != nil {
		return Snapshot{}, err
	}
	for _, contact := range contacts {
		snap.Contacts = append(snap.Contacts, SnapshotContact(contact))
	}

	habits, err := s.repo.ListHabits(ctx, includeArchived)
	if err != nil {
		return Snapshot{}, err
	}
	for _, habit := range habits {
		snap.Habits = append(snap.Habits, SnapshotHabit(habit))
	}

	goals, err := s.repo.ListGoals(ctx, includeArchived)
	if err != nil {
		return Snapshot{}, err
	}
	for _, goal := range goals {
		snap.Goals = append(snap.Goals, SnapshotGoal(goal))
	}

	wishes, err := s.repo.ListWishes(ctx, includeArchived)
	if err != nil {
		return Snapshot{}, err
	}
	for _, wish := range wishes {
		snap.Wishes = append(snap.Wishes, SnapshotWish(wish))
	}

	snap.sort()
	return snap, nil
}

// ImportSnapshot handles import snapshot. Rows already present are
// overwritten; rows only present locally are left alone.
func (s *Service) ImportSnapshot(ctx context.Context, snap Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}
	snap.sort()

	for _, column := range snap.Columns {
		if err := s.upsertColumn(ctx, domain.Column(column)); err != nil {
			return err
		}
	}
	for _, task := range snap.Tasks {
		if err := s.upsertTask(ctx, domain.Task(task)); err != nil {
			return err
		}
	}
	for _, event := range snap.Events {
		if err := s.upsertEvent(ctx, domain.Event(event)); err != nil {
			return err
		}
	}
	for _, event := range snap.ExternalEvents {
		if err := s.upsertExternalEvent(ctx, domain.ExternalEvent(event)); err != nil {
			return err
		}
	}
	for _, contact := range snap.Contacts {
		if err := s.upsertContact(ctx, domain.Contact(contact)); err != nil {
			return err
		}
	}
	for _, habit := range snap.Habits {
		if err := s.upsertHabit(ctx, domain.Habit(habit)); err != nil {
			return err
		}
	}
	for _, goal := range snap.Goals {
		if err := s.upsertGoal(ctx, domain.Goal(goal)); err != nil {
			return err
		}
	}
	for _, wish := range snap.Wishes {
		if err := s.upsertWish(ctx, domain.Wish(wish)); err != nil {
			return err
		}
	}
	return nil
}

// upsertColumn handles upsert column.
func (s *Service) upsertColumn(ctx context.Context, c domain.Column) error {
	if _, err := s.repo.GetColumn(ctx, c.ID); err == nil {
		return s.repo.UpdateColumn(ctx, c)
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}
	return s.repo.CreateColumn(ctx, c)
}

// upsertTask handles upsert task.
func (s *Service) upsertTask(ctx context.Context, t domain.Task) error {
	if _, err := s.repo.GetTask(ctx, t.ID); err == nil {
		return s.repo.UpdateTask(ctx, t)
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}
	return s.repo.CreateTask(ctx, t)
}

// upsertEvent handles upsert event.
func (s *Service) upsertEvent(ctx context.Context, e domain.Event) error {
	if _, err := s.repo.GetEvent(ctx, e.ID); err == nil {
		return s.repo.UpdateEvent(ctx, e)
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}
	return s.repo.CreateEvent(ctx, e)
}

// upsertExternalEvent handles upsert external event.
func (s *Service) upsertExternalEvent(ctx context.Context, e domain.ExternalEvent) error {
	if _, err := s.repo.GetExternalEvent(ctx, e.ID); err == nil {
		return s.repo.UpdateExternalEvent(ctx, e)
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}
	return s.repo.CreateExternalEvent(ctx, e)
}

// upsertContact handles upsert contact.
func (s *Service) upsertContact(ctx context.Context, c domain.Contact) error {
	if _, err := s.repo.GetContact(ctx, c.ID); err == nil {
		return s.repo.UpdateContact(ctx, c)
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}
	return s.repo.CreateContact(ctx, c)
}

// upsertHabit handles upsert habit.
func (s *Service) upsertHabit(ctx context.Context, h domain.Habit) error {
	if _, err := s.repo.GetHabit(ctx, h.ID); err == nil {
		return s.repo.UpdateHabit(ctx, h)
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}
	return s.repo.CreateHabit(ctx, h)
}

// upsertGoal handles upsert goal.
func (s *Service) upsertGoal(ctx context.Context, g domain.Goal) error {
	if _, err := s.repo.GetGoal(ctx, g.ID); err == nil {
		return s.repo.UpdateGoal(ctx, g)
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}
	return s.repo.CreateGoal(ctx, g)
}

// upsertWish handles upsert wish.
func (s *Service) upsertWish(ctx context.Context, w domain.Wish) error {
	if _, err := s.repo.GetWish(ctx, w.ID); err == nil {
		return s.repo.UpdateWish(ctx, w)
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}
	return s.repo.CreateWish(ctx, w)
}
