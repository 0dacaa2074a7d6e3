package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hylla/hemma/internal/app"
	"github.com/hylla/hemma/internal/domain"
	_ "modernc.org/sqlite"
)

// driverName defines a package constant value.
const driverName = "sqlite"

// Repository represents repository data used by this package.
type Repository struct {
	db *sql.DB
}

// Open opens the requested operation.
func Open(path string) (*Repository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo := &Repository{db: db}
	if err := repo.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// OpenInMemory opens in memory.
func OpenInMemory() (*Repository, error) {
	db, err := sql.Open(driverName, "file::memory:?cache=shared")
	if err != nil {
		return nil, fmt.Errorf("open sqlite memory: %w", err)
	}
	repo := &Repository{db: db}
	if err := repo.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// Close closes the requested operation.
func (r *Repository) Close() error {
	return r.db.Close()
}

// migrate handles migrate.
func (r *Repository) migrate(ctx context.Context) error {
	stmts := []string{
		`PRAGMA foreign_keys = ON;`,
		`CREATE TABLE IF NOT EXISTS columns (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			position INTEGER NOT NULL,
			accepts_drop INTEGER NOT NULL DEFAULT 1,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			archived_at TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			column_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			title TEXT NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			assigned_to TEXT NOT NULL DEFAULT '',
			due_at TEXT,
			done_at TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			archived_at TEXT,
			FOREIGN KEY(column_id) REFERENCES columns(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			column_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			title TEXT NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			starts_at TEXT NOT NULL,
			ends_at TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			archived_at TEXT,
			FOREIGN KEY(column_id) REFERENCES columns(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS external_events (
			id TEXT PRIMARY KEY,
			column_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			feed_name TEXT NOT NULL,
			title TEXT NOT NULL,
			location TEXT NOT NULL DEFAULT '',
			starts_at TEXT NOT NULL,
			ends_at TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			FOREIGN KEY(column_id) REFERENCES columns(id) ON DELETE CASCADE
		);`,
		`CREATE INDEX IF NOT EXISTS idx_external_events_feed ON external_events(feed_name);`,
		`CREATE TABLE IF NOT EXISTS contacts (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			birthday TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			archived_at TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS habits (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			cadence TEXT NOT NULL DEFAULT 'daily',
			streak INTEGER NOT NULL DEFAULT 0,
			last_done_at TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			archived_at TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS goals (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			target_at TEXT,
			progress INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			archived_at TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS wishes (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			url TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			archived_at TEXT
		);`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	return nil
}

// CreateColumn creates column.
func (r *Repository) CreateColumn(ctx context.Context, c domain.Column) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO columns(id, name, position, accepts_drop, created_at, updated_at, archived_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.Name, c.Position, boolToInt(c.AcceptsDrop), ts(c.CreatedAt), ts(c.UpdatedAt), nullableTS(c.ArchivedAt))
	return err
}

// UpdateColumn updates state for the requested operation.
func (r *Repository) UpdateColumn(ctx context.Context, c domain.Column) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE columns
		SET name = ?, position = ?, accepts_drop = ?, updated_at = ?, archived_at = ?
		WHERE id = ?
	`, c.Name, c.Position, boolToInt(c.AcceptsDrop), ts(c.UpdatedAt), nullableTS(c.ArchivedAt), c.ID)
	if err != nil {
		return err
	}
	return translateNoRows(res)
}

// GetColumn gets column.
func (r *Repository) GetColumn(ctx context.Context, id string) (domain.Column, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, position, accepts_drop, created_at, updated_at, archived_at
		FROM columns
		WHERE id = ?
	`, id)
	return scanColumn(row)
}

// ListColumns lists columns.
func (r *Repository) ListColumns(ctx context.Context, includeArchived bool) ([]domain.Column, error) {
	query := `
		SELECT id, name, position, accepts_drop, created_at, updated_at, archived_at
		FROM columns
	`
	if !includeArchived {
		query += ` WHERE archived_at IS NULL`
	}
	query += ` ORDER BY position ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Column{}
	for rows.Next() {
		c, err := scanColumn(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CreateTask creates task.
func (r *Repository) CreateTask(ctx context.Context, t domain.Task) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks(id, column_id, position, title, notes, assigned_to, due_at, done_at, created_at, updated_at, archived_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.ColumnID, t.Position, t.Title, t.Notes, t.AssignedTo,
		nullableTS(t.DueAt), nullableTS(t.DoneAt), ts(t.CreatedAt), ts(t.UpdatedAt), nullableTS(t.ArchivedAt))
	return err
}

// UpdateTask updates state for the requested operation.
func (r *Repository) UpdateTask(ctx context.Context, t domain.Task) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks
		SET column_id = ?, position = ?, title = ?, notes = ?, assigned_to = ?, due_at = ?, done_at = ?, updated_at = ?, archived_at = ?
		WHERE id = ?
	`, t.ColumnID, t.Position, t.Title, t.Notes, t.AssignedTo,
		nullableTS(t.DueAt), nullableTS(t.DoneAt), ts(t.UpdatedAt), nullableTS(t.ArchivedAt), t.ID)
	if err != nil {
		return err
	}
	return translateNoRows(res)
}

// GetTask gets task.
func (r *Repository) GetTask(ctx context.Context, id string) (domain.Task, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, column_id, position, title, notes, assigned_to, due_at, done_at, created_at, updated_at, archived_at
		FROM tasks
		WHERE id = ?
	`, id)
	return scanTask(row)
}

// ListTasks lists tasks.
func (r *Repository) ListTasks(ctx context.Context, includeArchived bool) ([]domain.Task, error) {
	query := `
		SELECT id, column_id, position, title, notes, assigned_to, due_at, done_at, created_at, updated_at, archived_at
		FROM tasks
	`
	if !includeArchived {
		query += ` WHERE archived_at IS NULL`
	}
	query += ` ORDER BY column_id ASC, position ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// DeleteTask deletes task.
func (r *Repository) DeleteTask(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return translateNoRows(res)
}

// CreateEvent creates event.
func (r *Repository) CreateEvent(ctx context.Context, e domain.Event) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO events(id, column_id, position, title, notes, location, starts_at, ends_at, created_at, updated_at, archived_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.ColumnID, e.Position, e.Title, e.Notes, e.Location,
		ts(e.StartsAt), nullableTS(e.EndsAt), ts(e.CreatedAt), ts(e.UpdatedAt), nullableTS(e.ArchivedAt))
	return err
}

// UpdateEvent updates state for the requested operation.
func (r *Repository) UpdateEvent(ctx context.Context, e domain.Event) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE events
		SET column_id = ?, position = ?, title = ?, notes = ?, location = ?, starts_at = ?, ends_at = ?, updated_at = ?, archived_at = ?
		WHERE id = ?
	`, e.ColumnID, e.Position, e.Title, e.Notes, e.Location,
		ts(e.StartsAt), nullableTS(e.EndsAt), ts(e.UpdatedAt), nullableTS(e.ArchivedAt), e.ID)
	if err != nil {
		return err
	}
	return translateNoRows(res)
}

// GetEvent gets event.
func (r *Repository) GetEvent(ctx context.Context, id string) (domain.Event, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, column_id, position, title, notes, location, starts_at, ends_at, created_at, updated_at, archived_at
		FROM events
		WHERE id = ?
	`, id)
	return scanEvent(row)
}

// ListEvents lists events.
func (r *Repository) ListEvents(ctx context.Context, includeArchived bool) ([]domain.Event, error) {
	query := `
		SELECT id, column_id, position, title, notes, location, starts_at, ends_at, created_at, updated_at, archived_at
		FROM events
	`
	if !includeArchived {
		query += ` WHERE archived_at IS NULL`
	}
	query += ` ORDER BY starts_at ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// DeleteEvent deletes event.
func (r *Repository) DeleteEvent(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return translateNoRows(res)
}

// CreateExternalEvent creates external event.
func (r *Repository) CreateExternalEvent(ctx context.Context, e domain.ExternalEvent) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO external_events(id, column_id, position, feed_name, title, location, starts_at, ends_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.ColumnID, e.Position, e.FeedName, e.Title, e.Location,
		ts(e.StartsAt), nullableTS(e.EndsAt), ts(e.CreatedAt), ts(e.UpdatedAt))
	return err
}

// UpdateExternalEvent updates state for the requested operation.
func (r *Repository) UpdateExternalEvent(ctx context.Context, e domain.ExternalEvent) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE external_events
		SET column_id = ?, position = ?, feed_name = ?, title = ?, location = ?, starts_at = ?, ends_at = ?, updated_at = ?
		WHERE id = ?
	`, e.ColumnID, e.Position, e.FeedName, e.Title, e.Location,
		ts(e.StartsAt), nullableTS(e.EndsAt), ts(e.UpdatedAt), e.ID)
	if err != nil {
		return err
	}
	return translateNoRows(res)
}

// GetExternalEvent gets external event.
func (r *Repository) GetExternalEvent(ctx context.Context, id string) (domain.ExternalEvent, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, column_id, position, feed_name, title, location, starts_at, ends_at, created_at, updated_at
		FROM external_events
		WHERE id = ?
	`, id)
	return scanExternalEvent(row)
}

// ListExternalEvents lists imported feed events.
func (r *Repository) ListExternalEvents(ctx context.Context) ([]domain.ExternalEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, column_id, position, feed_name, title, location, starts_at, ends_at, created_at, updated_at
		FROM external_events
		ORDER BY starts_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.ExternalEvent{}
	for rows.Next() {
		e, err := scanExternalEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// DeleteExternalEventsByFeed deletes every imported row for the feed.
func (r *Repository) DeleteExternalEventsByFeed(ctx context.Context, feedName string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM external_events WHERE feed_name = ?`, feedName)
	return err
}

// CreateContact creates contact.
func (r *Repository) CreateContact(ctx context.Context, c domain.Contact) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO contacts(id, name, email, phone, notes, birthday, created_at, updated_at, archived_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.Name, c.Email, c.Phone, c.Notes,
		nullableTS(c.Birthday), ts(c.CreatedAt), ts(c.UpdatedAt), nullableTS(c.ArchivedAt))
	return err
}

// UpdateContact updates state for the requested operation.
func (r *Repository) UpdateContact(ctx context.Context, c domain.Contact) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE contacts
		SET name = ?, email = ?, phone = ?, notes = ?, birthday = ?, updated_at = ?, archived_at = ?
		WHERE id = ?
	`, c.Name, c.Email, c.Phone, c.Notes,
		nullableTS(c.Birthday), ts(c.UpdatedAt), nullableTS(c.ArchivedAt), c.ID)
	if err != nil {
		return err
	}
	return translateNoRows(res)
}

// GetContact gets contact.
func (r *Repository) GetContact(ctx context.Context, id string) (domain.Contact, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, phone, notes, birthday, created_at, updated_at, archived_at
		FROM contacts
		WHERE id = ?
	`, id)
	return scanContact(row)
}

// ListContacts lists contacts.
func (r *Repository) ListContacts(ctx context.Context, includeArchived bool) ([]domain.Contact, error) {
	query := `
		SELECT id, name, email, phone, notes, birthday, created_at, updated_at, archived_at
		FROM contacts
	`
	if !includeArchived {
		query += ` WHERE archived_at IS NULL`
	}
	query += ` ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// DeleteContact deletes contact.
func (r *Repository) DeleteContact(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return translateNoRows(res)
}

// CreateHabit creates habit.
func (r *Repository) CreateHabit(ctx context.Context, h domain.Habit) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO habits(id, name, cadence, streak, last_done_at, created_at, updated_at, archived_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, h.ID, h.Name, string(h.Cadence), h.Streak,
		nullableTS(h.LastDoneAt), ts(h.CreatedAt), ts(h.UpdatedAt), nullableTS(h.ArchivedAt))
	return err
}

// UpdateHabit updates state for the requested operation.
func (r *Repository) UpdateHabit(ctx context.Context, h domain.Habit) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE habits
		SET name = ?, cadence = ?, streak = ?, last_done_at = ?, updated_at = ?, archived_at = ?
		WHERE id = ?
	`, h.Name, string(h.Cadence), h.Streak,
		nullableTS(h.LastDoneAt), ts(h.UpdatedAt), nullableTS(h.ArchivedAt), h.ID)
	if err != nil {
		return err
	}
	return translateNoRows(res)
}

// GetHabit gets habit.
func (r *Repository) GetHabit(ctx context.Context, id string) (domain.Habit, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, cadence, streak, last_done_at, created_at, updated_at, archived_at
		FROM habits
		WHERE id = ?
	`, id)
	return scanHabit(row)
}

// ListHabits lists habits.
func (r *Repository) ListHabits(ctx context.Context, includeArchived bool) ([]domain.Habit, error) {
	query := `
		SELECT id, name, cadence, streak, last_done_at, created_at, updated_at, archived_at
		FROM habits
	`
	if !includeArchived {
		query += ` WHERE archived_at IS NULL`
	}
	query += ` ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Habit{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// DeleteHabit deletes habit.
func (r *Repository) DeleteHabit(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM habits WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return translateNoRows(res)
}

// CreateGoal creates goal.
func (r *Repository) CreateGoal(ctx context.Context, g domain.Goal) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO goals(id, title, notes, target_at, progress, created_at, updated_at, archived_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, g.ID, g.Title, g.Notes,
		nullableTS(g.TargetAt), g.Progress, ts(g.CreatedAt), ts(g.UpdatedAt), nullableTS(g.ArchivedAt))
	return err
}

// UpdateGoal updates state for the requested operation.
func (r *Repository) UpdateGoal(ctx context.Context, g domain.Goal) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE goals
		SET title = ?, notes = ?, target_at = ?, progress = ?, updated_at = ?, archived_at = ?
		WHERE id = ?
	`, g.Title, g.Notes, nullableTS(g.TargetAt), g.Progress, ts(g.UpdatedAt), nullableTS(g.ArchivedAt), g.ID)
	if err != nil {
		return err
	}
	return translateNoRows(res)
}

// GetGoal gets goal.
func (r *Repository) GetGoal(ctx context.Context, id string) (domain.Goal, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, notes, target_at, progress, created_at, updated_at, archived_at
		FROM goals
		WHERE id = ?
	`, id)
	return scanGoal(row)
}

// ListGoals lists goals.
func (r *Repository) ListGoals(ctx context.Context, includeArchived bool) ([]domain.Goal, error) {
	query := `
		SELECT id, title, notes, target_at, progress, created_at, updated_at, archived_at
		FROM goals
	`
	if !includeArchived {
		query += ` WHERE archived_at IS NULL`
	}
	query += ` ORDER BY title ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Goal{}
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// DeleteGoal deletes goal.
func (r *Repository) DeleteGoal(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM goals WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return translateNoRows(res)
}

// CreateWish creates wish.
func (r *Repository) CreateWish(ctx context.Context, w domain.Wish) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO wishes(id, title, notes, url, created_at, updated_at, archived_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, w.ID, w.Title, w.Notes, w.URL, ts(w.CreatedAt), ts(w.UpdatedAt), nullableTS(w.ArchivedAt))
	return err
}

// UpdateWish updates state for the requested operation.
func (r *Repository) UpdateWish(ctx context.Context, w domain.Wish) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE wishes
		SET title = ?, notes = ?, url = ?, updated_at = ?, archived_at = ?
		WHERE id = ?
	`, w.Title, w.Notes, w.URL, ts(w.UpdatedAt), nullableTS(w.ArchivedAt), w.ID)
	if err != nil {
		return err
	}
	return translateNoRows(res)
}

// GetWish gets wish.
func (r *Repository) GetWish(ctx context.Context, id string) (domain.Wish, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, notes, url, created_at, updated_at, archived_at
		FROM wishes
		WHERE id = ?
	`, id)
	return scanWish(row)
}

// ListWishes lists wishes.
func (r *Repository) ListWishes(ctx context.Context, includeArchived bool) ([]domain.Wish, error) {
	query := `
		SELECT id, title, notes, url, created_at, updated_at, archived_at
		FROM wishes
	`
	if !includeArchived {
		query += ` WHERE archived_at IS NULL`
	}
	query += ` ORDER BY title ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Wish{}
	for rows.Next() {
		w, err := scanWish(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// DeleteWish deletes wish.
func (r *Repository) DeleteWish(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM wishes WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return translateNoRows(res)
}

type scanner interface {
	Scan(dest ...any) error
}

// scanColumn handles scan column.
func scanColumn(s scanner) (domain.Column, error) {
	var (
		c           domain.Column
		acceptsDrop int
		createdRaw  string
		updatedRaw  string
		archived    sql.NullString
	)
	if err := s.Scan(&c.ID, &c.Name, &c.Position, &acceptsDrop, &createdRaw, &updatedRaw, &archived); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Column{}, app.ErrNotFound
		}
		return domain.Column{}, err
	}
	c.AcceptsDrop = acceptsDrop != 0
	c.CreatedAt = parseTS(createdRaw)
	c.UpdatedAt = parseTS(updatedRaw)
	c.ArchivedAt = parseNullTS(archived)
	return c, nil
}

// scanTask handles scan task.
func scanTask(s scanner) (domain.Task, error) {
	var (
		t          domain.Task
		dueAt      sql.NullString
		doneAt     sql.NullString
		createdRaw string
		updatedRaw string
		archived   sql.NullString
	)
	if err := s.Scan(&t.ID, &t.ColumnID, &t.Position, &t.Title, &t.Notes, &t.AssignedTo,
		&dueAt, &doneAt, &createdRaw, &updatedRaw, &archived); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Task{}, app.ErrNotFound
		}
		return domain.Task{}, err
	}
	t.DueAt = parseNullTS(dueAt)
	t.DoneAt = parseNullTS(doneAt)
	t.CreatedAt = parseTS(createdRaw)
	t.UpdatedAt = parseTS(updatedRaw)
	t.ArchivedAt = parseNullTS(archived)
	return t, nil
}

// scanEvent handles scan event.
func scanEvent(s scanner) (domain.Event, error) {
	var (
		e          domain.Event
		startsRaw  string
		endsAt     sql.NullString
		createdRaw string
		updatedRaw string
		archived   sql.NullString
	)
	if err := s.Scan(&e.ID, &e.ColumnID, &e.Position, &e.Title, &e.Notes, &e.Location,
		&startsRaw, &endsAt, &createdRaw, &updatedRaw, &archived); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Event{}, app.ErrNotFound
		}
		return domain.Event{}, err
	}
	e.StartsAt = parseTS(startsRaw)
	e.EndsAt = parseNullTS(endsAt)
	e.CreatedAt = parseTS(createdRaw)
	e.UpdatedAt = parseTS(updatedRaw)
	e.ArchivedAt = parseNullTS(archived)
	return e, nil
}

// scanExternalEvent handles scan external event.
func scanExternalEvent(s scanner) (domain.ExternalEvent, error) {
	var (
		e          domain.ExternalEvent
		startsRaw  string
		endsAt     sql.NullString
		createdRaw string
		updatedRaw string
	)
	if err := s.Scan(&e.ID, &e.ColumnID, &e.Position, &e.FeedName, &e.Title, &e.Location,
		&startsRaw, &endsAt, &createdRaw, &updatedRaw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ExternalEvent{}, app.ErrNotFound
		}
		return domain.ExternalEvent{}, err
	}
	e.StartsAt = parseTS(startsRaw)
	e.EndsAt = parseNullTS(endsAt)
	e.CreatedAt = parseTS(createdRaw)
	e.UpdatedAt = parseTS(updatedRaw)
	return e, nil
}

// scanContact handles scan contact.
func scanContact(s scanner) (domain.Contact, error) {
	var (
		c          domain.Contact
		birthday   sql.NullString
		createdRaw string
		updatedRaw string
		archived   sql.NullString
	)
	if err := s.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Notes,
		&birthday, &createdRaw, &updatedRaw, &archived); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Contact{}, app.ErrNotFound
		}
		return domain.Contact{}, err
	}
	c.Birthday = parseNullTS(birthday)
	c.CreatedAt = parseTS(createdRaw)
	c.UpdatedAt = parseTS(updatedRaw)
	c.ArchivedAt = parseNullTS(archived)
	return c, nil
}

// scanHabit handles scan habit.
func scanHabit(s scanner) (domain.Habit, error) {
	var (
		h          domain.Habit
		cadence    string
		lastDoneAt sql.NullString
		createdRaw string
		updatedRaw string
		archived   sql.NullString
	)
	if err := s.Scan(&h.ID, &h.Name, &cadence, &h.Streak,
		&lastDoneAt, &createdRaw, &updatedRaw, &archived); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Habit{}, app.ErrNotFound
		}
		return domain.Habit{}, err
	}
	h.Cadence = domain.HabitCadence(cadence)
	h.LastDoneAt = parseNullTS(lastDoneAt)
	h.CreatedAt = parseTS(createdRaw)
	h.UpdatedAt = parseTS(updatedRaw)
	h.ArchivedAt = parseNullTS(archived)
	return h, nil
}

// scanGoal handles scan goal.
func scanGoal(s scanner) (domain.Goal, error) {
	var (
		g          domain.Goal
		targetAt   sql.NullString
		createdRaw string
		updatedRaw string
		archived   sql.NullString
	)
	if err := s.Scan(&g.ID, &g.Title, &g.Notes, &targetAt, &g.Progress,
		&createdRaw, &updatedRaw, &archived); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Goal{}, app.ErrNotFound
		}
		return domain.Goal{}, err
	}
	g.TargetAt = parseNullTS(targetAt)
	g.CreatedAt = parseTS(createdRaw)
	g.UpdatedAt = parseTS(updatedRaw)
	g.ArchivedAt = parseNullTS(archived)
	return g, nil
}

// scanWish handles scan wish.
func scanWish(s scanner) (domain.Wish, error) {
	var (
		w          domain.Wish
		createdRaw string
		updatedRaw string
		archived   sql.NullString
	)
	if err := s.Scan(&w.ID, &w.Title, &w.Notes, &w.URL, &createdRaw, &updatedRaw, &archived); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Wish{}, app.ErrNotFound
		}
		return domain.Wish{}, err
	}
	w.CreatedAt = parseTS(createdRaw)
	w.UpdatedAt = parseTS(updatedRaw)
	w.ArchivedAt = parseNullTS(archived)
	return w, nil
}

// translateNoRows handles translate no rows.
func translateNoRows(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return app.ErrNotFound
	}
	return nil
}

// ts handles ts.
func ts(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// nullableTS handles nullable ts.
func nullableTS(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTS handles parse ts.
func parseTS(v string) time.Time {
	parsed, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}
	}
	return parsed.UTC()
}

// parseNullTS handles parse null ts.
func parseNullTS(v sql.NullString) *time.Time {
	if !v.Valid || strings.TrimSpace(v.String) == "" {
		return nil
	}
	parsed := parseTS(v.String)
	return &parsed
}

// boolToInt handles bool to int.
func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
