package app

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hylla/hemma/internal/domain"
)

// DeleteMode selects between archiving a row and removing it outright.
type DeleteMode string

// DeleteModeArchive and related constants define package defaults.
const (
	DeleteModeArchive DeleteMode = "archive"
	DeleteModeHard    DeleteMode = "hard"
)

// DefaultBirthdayWindow bounds how far ahead derived birthday cards appear.
const DefaultBirthdayWindow = 14 * 24 * time.Hour

// ServiceConfig holds configuration for service.
type ServiceConfig struct {
	DefaultDeleteMode DeleteMode
	LaneTemplates     []LaneTemplate
	BirthdayLaneID    string
	BirthdayWindow    time.Duration
}

// LaneTemplate seeds one board lane on first run.
type LaneTemplate struct {
	ID          string
	Name        string
	Position    int
	AcceptsDrop bool
}

// IDGenerator returns unique identifiers for new entities.
type IDGenerator func() string

// Clock returns the current time.
type Clock func() time.Time

// Service owns every board mutation. Adapters (HTTP, MCP, TUI) call into it
// and never touch the repository directly.
type Service struct {
	repo              Repository
	idGen             IDGenerator
	clock             Clock
	defaultDeleteMode DeleteMode
	laneTemplates     []LaneTemplate
	birthdayLaneID    string
	birthdayWindow    time.Duration
}

// NewService constructs a new value for this package.
func NewService(repo Repository, idGen IDGenerator, clock Clock, cfg ServiceConfig) *Service {
	if idGen == nil {
		idGen = func() string { return "" }
	}
	if clock == nil {
		clock = time.Now
	}
	if cfg.DefaultDeleteMode == "" {
		cfg.DefaultDeleteMode = DeleteModeArchive
	}
	templates := sanitizeLaneTemplates(cfg.LaneTemplates)
	if len(templates) == 0 {
		templates = DefaultLaneTemplates()
	}
	if cfg.BirthdayLaneID == "" {
		cfg.BirthdayLaneID = templates[0].ID
	}
	if cfg.BirthdayWindow <= 0 {
		cfg.BirthdayWindow = DefaultBirthdayWindow
	}

	return &Service{
		repo:              repo,
		idGen:             idGen,
		clock:             clock,
		defaultDeleteMode: cfg.DefaultDeleteMode,
		laneTemplates:     templates,
		birthdayLaneID:    cfg.BirthdayLaneID,
		birthdayWindow:    cfg.BirthdayWindow,
	}
}

// DefaultLaneTemplates returns the lanes a fresh household starts with. The
// calendar lane refuses drops so imported feed events keep their slots.
func DefaultLaneTemplates() []LaneTemplate {
	return []LaneTemplate{
		{ID: "today", Name: "Today", Position: 0, AcceptsDrop: true},
		{ID: "week", Name: "This Week", Position: 1, AcceptsDrop: true},
		{ID: "inbox", Name: "Inbox", Position: 2, AcceptsDrop: true},
		{ID: "done", Name: "Done", Position: 3, AcceptsDrop: true},
		{ID: "calendar", Name: "Calendar", Position: 4, AcceptsDrop: false},
	}
}

func sanitizeLaneTemplates(templates []LaneTemplate) []LaneTemplate {
	out := make([]LaneTemplate, 0, len(templates))
	seen := map[string]struct{}{}
	for _, tpl := range templates {
		tpl.ID = strings.TrimSpace(tpl.ID)
		tpl.Name = strings.TrimSpace(tpl.Name)
		if tpl.ID == "" || tpl.Name == "" {
			continue
		}
		if _, dup := seen[tpl.ID]; dup {
			continue
		}
		seen[tpl.ID] = struct{}{}
		out = append(out, tpl)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	for i := range out {
		out[i].Position = i
	}
	return out
}

// EnsureDefaultColumns seeds the configured lanes on an empty database and
// returns the active lane set either way.
func (s *Service) EnsureDefaultColumns(ctx context.Context) ([]domain.Column, error) {
	columns, err := s.repo.ListColumns(ctx, false)
	if err != nil {
		return nil, err
	}
	if len(columns) > 0 {
		return columns, nil
	}

	now := s.clock()
	created := make([]domain.Column, 0, len(s.laneTemplates))
	for _, tpl := range s.laneTemplates {
		column, err := domain.NewColumn(tpl.ID, tpl.Name, tpl.Position, tpl.AcceptsDrop, now)
		if err != nil {
			return nil, fmt.Errorf("seed lane %q: %w", tpl.ID, err)
		}
		if err := s.repo.CreateColumn(ctx, column); err != nil {
			return nil, err
		}
		created = append(created, column)
	}
	return created, nil
}

// CreateColumn creates column.
func (s *Service) CreateColumn(ctx context.Context, name string, position int, acceptsDrop bool) (domain.Column, error) {
	column, err := domain.NewColumn(s.idGen(), name, position, acceptsDrop, s.clock())
	if err != nil {
		return domain.Column{}, err
	}
	if err := s.repo.CreateColumn(ctx, column); err != nil {
		return domain.Column{}, err
	}
	return column, nil
}

// RenameColumn renames column.
func (s *Service) RenameColumn(ctx context.Context, columnID, name string) (domain.Column, error) {
	column, err := s.repo.GetColumn(ctx, columnID)
	if err != nil {
		return domain.Column{}, err
	}
	if err := column.Rename(name, s.clock()); err != nil {
		return domain.Column{}, err
	}
	if err := s.repo.UpdateColumn(ctx, column); err != nil {
		return domain.Column{}, err
	}
	return column, nil
}

// SetColumnAcceptsDrop toggles whether the lane accepts dropped items.
func (s *Service) SetColumnAcceptsDrop(ctx context.Context, columnID string, acceptsDrop bool) (domain.Column, error) {
	column, err := s.repo.GetColumn(ctx, columnID)
	if err != nil {
		return domain.Column{}, err
	}
	column.SetAcceptsDrop(acceptsDrop, s.clock())
	if err := s.repo.UpdateColumn(ctx, column); err != nil {
		return domain.Column{}, err
	}
	return column, nil
}

// ListColumns lists columns.
func (s *Service) ListColumns(ctx context.Context, includeArchived bool) ([]domain.Column, error) {
	columns, err := s.repo.ListColumns(ctx, includeArchived)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(columns, func(i, j int) bool { return columns[i].Position < columns[j].Position })
	return columns, nil
}

// CreateTaskInput holds input values for create task operations.
type CreateTaskInput struct {
	ColumnID   string
	Title      string
	Notes      string
	AssignedTo string
	DueAt      *time.Time
}

// CreateTask creates a task appended to the bottom of its lane.
func (s *Service) CreateTask(ctx context.Context, in CreateTaskInput) (domain.Task, error) {
	position, err := s.nextBoardPosition(ctx, in.ColumnID)
	if err != nil {
		return domain.Task{}, err
	}
	task, err := domain.NewTask(domain.TaskInput{
		ID:         s.idGen(),
		ColumnID:   in.ColumnID,
		Position:   position,
		Title:      in.Title,
		Notes:      in.Notes,
		AssignedTo: in.AssignedTo,
		DueAt:      in.DueAt,
	}, s.clock())
	if err != nil {
		return domain.Task{}, err
	}
	if err := s.repo.CreateTask(ctx, task); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

// UpdateTaskInput holds input values for update task operations.
type UpdateTaskInput struct {
	TaskID     string
	Title      string
	Notes      string
	AssignedTo string
	DueAt      *time.Time
}

// UpdateTask updates state for the requested operation.
func (s *Service) UpdateTask(ctx context.Context, in UpdateTaskInput) (domain.Task, error) {
	task, err := s.repo.GetTask(ctx, in.TaskID)
	if err != nil {
		return domain.Task{}, err
	}
	if err := task.UpdateDetails(in.Title, in.Notes, in.AssignedTo, in.DueAt, s.clock()); err != nil {
		return domain.Task{}, err
	}
	if err := s.repo.UpdateTask(ctx, task); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

// CompleteTask marks the task done.
func (s *Service) CompleteTask(ctx context.Context, taskID string) (domain.Task, error) {
	task, err := s.repo.GetTask(ctx, taskID)
	if err != nil {
		return domain.Task{}, err
	}
	task.Complete(s.clock())
	if err := s.repo.UpdateTask(ctx, task); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

// ReopenTask clears the done marker.
func (s *Service) ReopenTask(ctx context.Context, taskID string) (domain.Task, error) {
	task, err := s.repo.GetTask(ctx, taskID)
	if err != nil {
		return domain.Task{}, err
	}
	task.Reopen(s.clock())
	if err := s.repo.UpdateTask(ctx, task); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

// DeleteTask deletes task.
func (s *Service) DeleteTask(ctx context.Context, taskID string, mode DeleteMode) error {
	if mode == "" {
		mode = s.defaultDeleteMode
	}

	switch mode {
	case DeleteModeArchive:
		task, err := s.repo.GetTask(ctx, taskID)
		if err != nil {
			return err
		}
		task.Archive(s.clock())
		return s.repo.UpdateTask(ctx, task)
	case DeleteModeHard:
		return s.repo.DeleteTask(ctx, taskID)
	default:
		return ErrInvalidDeleteMode
	}
}

// RestoreTask restores task.
func (s *Service) RestoreTask(ctx context.Context, taskID string) (domain.Task, error) {
	task, err := s.repo.GetTask(ctx, taskID)
	if err != nil {
		return domain.Task{}, err
	}
	task.Restore(s.clock())
	if err := s.repo.UpdateTask(ctx, task); err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

// GetTask gets task.
func (s *Service) GetTask(ctx context.Context, taskID string) (domain.Task, error) {
	return s.repo.GetTask(ctx, taskID)
}

// ListTasks lists tasks.
func (s *Service) ListTasks(ctx context.Context, includeArchived bool) ([]domain.Task, error) {
	tasks, err := s.repo.ListTasks(ctx, includeArchived)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].ColumnID != tasks[j].ColumnID {
			return tasks[i].ColumnID < tasks[j].ColumnID
		}
		return tasks[i].Position < tasks[j].Position
	})
	return tasks, nil
}

// CreateEventInput holds input values for create event operations.
type CreateEventInput struct {
	ColumnID string
	Title    string
	Notes    string
	Location string
	StartsAt time.Time
	EndsAt   *time.Time
}

// CreateEvent creates an event appended to the bottom of its lane.
func (s *Service) CreateEvent(ctx context.Context, in CreateEventInput) (domain.Event, error) {
	position, err := s.nextBoardPosition(ctx, in.ColumnID)
	if err != nil {
		return domain.Event{}, err
	}
	event, err := domain.NewEvent(domain.EventInput{
		ID:       s.idGen(),
		ColumnID: in.ColumnID,
		Position: position,
		Title:    in.Title,
		Notes:    in.Notes,
		Location: in.Location,
		StartsAt: in.StartsAt,
		EndsAt:   in.EndsAt,
	}, s.clock())
	if err != nil {
		return domain.Event{}, err
	}
	if err := s.repo.CreateEvent(ctx, event); err != nil {
		return domain.Event{}, err
	}
	return event, nil
}

// UpdateEventInput holds input values for update event operations.
type UpdateEventInput struct {
	EventID  string
	Title    string
	Notes    string
	Location string
	StartsAt time.Time
	EndsAt   *time.Time
}

// UpdateEvent updates state for the requested operation.
func (s *Service) UpdateEvent(ctx context.Context, in UpdateEventInput) (domain.Event, error) {
	event, err := s.repo.GetEvent(ctx, in.EventID)
	if err != nil {
		return domain.Event{}, err
	}
	if err := event.UpdateDetails(in.Title, in.Notes, in.Location, in.StartsAt, in.EndsAt, s.clock()); err != nil {
		return domain.Event{}, err
	}
	if err := s.repo.UpdateEvent(ctx, event); err != nil {
		return domain.Event{}, err
	}
	return event, nil
}

// DeleteEvent deletes event.
func (s *Service) DeleteEvent(ctx context.Context, eventID string, mode DeleteMode) error {
	if mode == "" {
		mode = s.defaultDeleteMode
	}

	switch mode {
	case DeleteModeArchive:
		event, err := s.repo.GetEvent(ctx, eventID)
		if err != nil {
			return err
		}
		event.Archive(s.clock())
		return s.repo.UpdateEvent(ctx, event)
	case DeleteModeHard:
		return s.repo.DeleteEvent(ctx, eventID)
	default:
		return ErrInvalidDeleteMode
	}
}

// ListEvents lists events.
func (s *Service) ListEvents(ctx context.Context, includeArchived bool) ([]domain.Event, error) {
	events, err := s.repo.ListEvents(ctx, includeArchived)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].StartsAt.Before(events[j].StartsAt) })
	return events, nil
}

// FeedEventInput is one entry delivered by a calendar feed sync.
type FeedEventInput struct {
	Title    string
	Location string
	StartsAt time.Time
	EndsAt   *time.Time
}

// ImportFeedEventsInput holds input values for one feed refresh.
type ImportFeedEventsInput struct {
	FeedName string
	ColumnID string
	Events   []FeedEventInput
}

// ImportFeedEvents replaces every imported row belonging to the feed with
// the freshly synced set. Defaults to the calendar lane when no column is
// named.
func (s *Service) ImportFeedEvents(ctx context.Context, in ImportFeedEventsInput) ([]domain.ExternalEvent, error) {
	feedName := strings.TrimSpace(in.FeedName)
	if feedName == "" {
		return nil, domain.ErrInvalidName
	}
	columnID := strings.TrimSpace(in.ColumnID)
	if columnID == "" {
		columnID = s.feedLaneID()
	}

	if err := s.repo.DeleteExternalEventsByFeed(ctx, feedName); err != nil {
		return nil, err
	}

	position, err := s.nextBoardPosition(ctx, columnID)
	if err != nil {
		return nil, err
	}
	now := s.clock()
	imported := make([]domain.ExternalEvent, 0, len(in.Events))
	for _, entry := range in.Events {
		event, err := domain.NewExternalEvent(domain.ExternalEventInput{
			ID:       s.idGen(),
			ColumnID: columnID,
			Position: position,
			FeedName: feedName,
			Title:    entry.Title,
			Location: entry.Location,
			StartsAt: entry.StartsAt,
			EndsAt:   entry.EndsAt,
		}, now)
		if err != nil {
			return nil, fmt.Errorf("feed %q: %w", feedName, err)
		}
		if err := s.repo.CreateExternalEvent(ctx, event); err != nil {
			return nil, err
		}
		imported = append(imported, event)
		position++
	}
	return imported, nil
}

// DropFeed removes every imported row belonging to the feed.
func (s *Service) DropFeed(ctx context.Context, feedName string) error {
	feedName = strings.TrimSpace(feedName)
	if feedName == "" {
		return domain.ErrInvalidName
	}
	return s.repo.DeleteExternalEventsByFeed(ctx, feedName)
}

// ListExternalEvents lists imported feed events.
func (s *Service) ListExternalEvents(ctx context.Context) ([]domain.ExternalEvent, error) {
	events, err := s.repo.ListExternalEvents(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].StartsAt.Before(events[j].StartsAt) })
	return events, nil
}

func (s *Service) feedLaneID() string {
	for _, tpl := range s.laneTemplates {
		if !tpl.AcceptsDrop {
			return tpl.ID
		}
	}
	return s.laneTemplates[len(s.laneTemplates)-1].ID
}

// nextBoardPosition returns one past the highest position held by any entity
// currently occupying the column, so new rows land at the lane bottom.
func (s *Service) nextBoardPosition(ctx context.Context, columnID string) (int, error) {
	columnID = strings.TrimSpace(columnID)
	if columnID == "" {
		return 0, domain.ErrInvalidColumnID
	}

	position := 0
	tasks, err := s.repo.ListTasks(ctx, false)
	if err != nil {
		return 0, err
	}
	for _, t := range tasks {
		if t.ColumnID == columnID && t.Position >= position {
			position = t.Position + 1
		}
	}
	events, err := s.repo.ListEvents(ctx, false)
	if err != nil {
		return 0, err
	}
	for _, e := range events {
		if e.ColumnID == columnID && e.Position >= position {
			position = e.Position + 1
		}
	}
	externals, err := s.repo.ListExternalEvents(ctx)
	if err != nil {
		return 0, err
	}
	for _, e := range externals {
		if e.ColumnID == columnID && e.Position >= position {
			position = e.Position + 1
		}
	}
	return position, nil
}
