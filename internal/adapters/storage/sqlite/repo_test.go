package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/hylla/hemma/internal/app"
	"github.com/hylla/hemma/internal/dnd"
	"github.com/hylla/hemma/internal/domain"
)

func openTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := Open(filepath.Join(t.TempDir(), "hemma.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		_ = repo.Close()
	})
	return repo
}

func TestRepository_ColumnTaskLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)
	now := time.Date(2026, 8, 21, 12, 0, 0, 0, time.UTC)

	column, err := domain.NewColumn("today", "Today", 0, true, now)
	if err != nil {
		t.Fatalf("NewColumn() error = %v", err)
	}
	if err := repo.CreateColumn(ctx, column); err != nil {
		t.Fatalf("CreateColumn() error = %v", err)
	}
	locked, err := domain.NewColumn("calendar", "Calendar", 1, false, now)
	if err != nil {
		t.Fatalf("NewColumn() error = %v", err)
	}
	if err := repo.CreateColumn(ctx, locked); err != nil {
		t.Fatalf("CreateColumn() error = %v", err)
	}

	loaded, err := repo.GetColumn(ctx, "calendar")
	if err != nil {
		t.Fatalf("GetColumn() error = %v", err)
	}
	if loaded.AcceptsDrop {
		t.Fatal("expected accepts_drop to survive the round trip as false")
	}

	due := now.Add(24 * time.Hour)
	task, err := domain.NewTask(domain.TaskInput{
		ID:         "t1",
		ColumnID:   column.ID,
		Position:   0,
		Title:      "Buy milk",
		Notes:      "Oat and whole",
		AssignedTo: "alex",
		DueAt:      &due,
	}, now)
	if err != nil {
		t.Fatalf("NewTask() error = %v", err)
	}
	if err := repo.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}

	got, err := repo.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetTask() error = %v", err)
	}
	if got.Title != "Buy milk" || got.AssignedTo != "alex" {
		t.Fatalf("unexpected task %#v", got)
	}
	if got.DueAt == nil || !got.DueAt.Equal(due.UTC().Truncate(time.Second)) {
		t.Fatalf("unexpected due date %v", got.DueAt)
	}

	task.Complete(now.Add(time.Hour))
	if err := repo.UpdateTask(ctx, task); err != nil {
		t.Fatalf("UpdateTask() error = %v", err)
	}
	got, err = repo.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetTask() after update error = %v", err)
	}
	if !got.IsDone() {
		t.Fatal("expected done marker to persist")
	}

	task.Archive(now.Add(2 * time.Hour))
	if err := repo.UpdateTask(ctx, task); err != nil {
		t.Fatalf("UpdateTask(archive) error = %v", err)
	}
	active, err := repo.ListTasks(ctx, false)
	if err != nil {
		t.Fatalf("ListTasks() error = %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("expected archived task hidden, got %d rows", len(active))
	}
	all, err := repo.ListTasks(ctx, true)
	if err != nil {
		t.Fatalf("ListTasks(includeArchived) error = %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 row with archived included, got %d", len(all))
	}

	if err := repo.DeleteTask(ctx, task.ID); err != nil {
		t.Fatalf("DeleteTask() error = %v", err)
	}
	if _, err := repo.GetTask(ctx, task.ID); !errors.Is(err, app.ErrNotFound) {
		t.Fatalf("expected app.ErrNotFound, got %v", err)
	}
	if err := repo.DeleteTask(ctx, task.ID); !errors.Is(err, app.ErrNotFound) {
		t.Fatalf("expected app.ErrNotFound on double delete, got %v", err)
	}
}

func TestRepository_EventsAndFeeds(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)
	now := time.Date(2026, 8, 21, 12, 0, 0, 0, time.UTC)

	column, _ := domain.NewColumn("calendar", "Calendar", 0, false, now)
	if err := repo.CreateColumn(ctx, column); err != nil {
		t.Fatalf("CreateColumn() error = %v", err)
	}

	ends := now.Add(26 * time.Hour)
	event, err := domain.NewEvent(domain.EventInput{
		ID:       "e1",
		ColumnID: column.ID,
		Position: 0,
		Title:    "Swim class",
		Location: "Pool",
		StartsAt: now.Add(24 * time.Hour),
		EndsAt:   &ends,
	}, now)
	if err != nil {
		t.Fatalf("NewEvent() error = %v", err)
	}
	if err := repo.CreateEvent(ctx, event); err != nil {
		t.Fatalf("CreateEvent() error = %v", err)
	}
	gotEvent, err := repo.GetEvent(ctx, event.ID)
	if err != nil {
		t.Fatalf("GetEvent() error = %v", err)
	}
	if gotEvent.Location != "Pool" || gotEvent.EndsAt == nil {
		t.Fatalf("unexpected event %#v", gotEvent)
	}

	for i, title := range []string{"Sports day", "Bake sale"} {
		external, err := domain.NewExternalEvent(domain.ExternalEventInput{
			ID:       "x" + title[:1],
			ColumnID: column.ID,
			Position: i + 1,
			FeedName: "school",
			Title:    title,
			StartsAt: now.Add(time.Duration(48+i) * time.Hour),
		}, now)
		if err != nil {
			t.Fatalf("NewExternalEvent() error = %v", err)
		}
		if err := repo.CreateExternalEvent(ctx, external); err != nil {
			t.Fatalf("CreateExternalEvent() error = %v", err)
		}
	}

	externals, err := repo.ListExternalEvents(ctx)
	if err != nil {
		t.Fatalf("ListExternalEvents() error = %v", err)
	}
	if len(externals) != 2 {
		t.Fatalf("expected 2 feed rows, got %d", len(externals))
	}

	first := externals[0]
	if err := first.SetPosition(9, now.Add(time.Hour)); err != nil {
		t.Fatalf("SetPosition() error = %v", err)
	}
	if err := repo.UpdateExternalEvent(ctx, first); err != nil {
		t.Fatalf("UpdateExternalEvent() error = %v", err)
	}
	reloaded, err := repo.GetExternalEvent(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetExternalEvent() error = %v", err)
	}
	if reloaded.Position != 9 {
		t.Fatalf("expected position 9, got %d", reloaded.Position)
	}

	if err := repo.DeleteExternalEventsByFeed(ctx, "school"); err != nil {
		t.Fatalf("DeleteExternalEventsByFeed() error = %v", err)
	}
	externals, err = repo.ListExternalEvents(ctx)
	if err != nil {
		t.Fatalf("ListExternalEvents() after delete error = %v", err)
	}
	if len(externals) != 0 {
		t.Fatalf("expected feed cleared, got %d rows", len(externals))
	}
}

func TestRepository_HouseholdEntities(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)
	now := time.Date(2026, 8, 21, 12, 0, 0, 0, time.UTC)

	birthday := time.Date(1992, 8, 23, 0, 0, 0, 0, time.UTC)
	contact, err := domain.NewContact(domain.ContactInput{
		ID:       "c1",
		Name:     "Maja",
		Email:    "maja@example.com",
		Birthday: &birthday,
	}, now)
	if err != nil {
		t.Fatalf("NewContact() error = %v", err)
	}
	if err := repo.CreateContact(ctx, contact); err != nil {
		t.Fatalf("CreateContact() error = %v", err)
	}
	gotContact, err := repo.GetContact(ctx, contact.ID)
	if err != nil {
		t.Fatalf("GetContact() error = %v", err)
	}
	if gotContact.Birthday == nil || !gotContact.Birthday.Equal(birthday) {
		t.Fatalf("unexpected birthday %v", gotContact.Birthday)
	}

	habit, err := domain.NewHabit("h1", "Water plants", domain.CadenceWeekly, now)
	if err != nil {
		t.Fatalf("NewHabit() error = %v", err)
	}
	habit.MarkDone(now)
	if err := repo.CreateHabit(ctx, habit); err != nil {
		t.Fatalf("CreateHabit() error = %v", err)
	}
	gotHabit, err := repo.GetHabit(ctx, habit.ID)
	if err != nil {
		t.Fatalf("GetHabit() error = %v", err)
	}
	if gotHabit.Cadence != domain.CadenceWeekly || gotHabit.Streak != 1 || gotHabit.LastDoneAt == nil {
		t.Fatalf("unexpected habit %#v", gotHabit)
	}

	goal, err := domain.NewGoal("g1", "Save for vacation", "", nil, now)
	if err != nil {
		t.Fatalf("NewGoal() error = %v", err)
	}
	goal.SetProgress(40, now)
	if err := repo.CreateGoal(ctx, goal); err != nil {
		t.Fatalf("CreateGoal() error = %v", err)
	}
	gotGoal, err := repo.GetGoal(ctx, goal.ID)
	if err != nil {
		t.Fatalf("GetGoal() error = %v", err)
	}
	if gotGoal.Progress != 40 {
		t.Fatalf("expected progress 40, got %d", gotGoal.Progress)
	}

	wish, err := domain.NewWish("w1", "New bike", "", "https://example.com/bike", now)
	if err != nil {
		t.Fatalf("NewWish() error = %v", err)
	}
	if err := repo.CreateWish(ctx, wish); err != nil {
		t.Fatalf("CreateWish() error = %v", err)
	}
	wishes, err := repo.ListWishes(ctx, false)
	if err != nil {
		t.Fatalf("ListWishes() error = %v", err)
	}
	if len(wishes) != 1 || wishes[0].URL != "https://example.com/bike" {
		t.Fatalf("unexpected wishes %#v", wishes)
	}
}

func TestRepository_BackedServiceApplyMove(t *testing.T) {
	ctx := context.Background()
	repo, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	t.Cleanup(func() {
		_ = repo.Close()
	})

	now := time.Date(2026, 8, 21, 12, 0, 0, 0, time.UTC)
	counter := 0
	svc := app.NewService(repo, func() string {
		counter++
		return string(rune('a' + counter - 1))
	}, func() time.Time { return now }, app.ServiceConfig{})

	if _, err := svc.EnsureDefaultColumns(ctx); err != nil {
		t.Fatalf("EnsureDefaultColumns() error = %v", err)
	}
	first, err := svc.CreateTask(ctx, app.CreateTaskInput{ColumnID: "today", Title: "Buy milk"})
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}
	second, err := svc.CreateTask(ctx, app.CreateTaskInput{ColumnID: "today", Title: "Hang shelf"})
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}

	board, err := svc.BuildBoard(ctx)
	if err != nil {
		t.Fatalf("BuildBoard() error = %v", err)
	}
	item, ok := board.ItemByID(second.ID)
	if !ok {
		t.Fatalf("item %q missing from board", second.ID)
	}

	move, ok := dnd.Resolve(board, item.ID, first.ID)
	if !ok {
		t.Fatal("expected drop onto first task to resolve")
	}
	if err := svc.ApplyMove(ctx, move); err != nil {
		t.Fatalf("ApplyMove() error = %v", err)
	}

	board, err = svc.BuildBoard(ctx)
	if err != nil {
		t.Fatalf("BuildBoard() after move error = %v", err)
	}
	today, _ := board.ColumnByID("today")
	if today.Items[0].ID != second.ID || today.Items[1].ID != first.ID {
		t.Fatalf("unexpected order after move: %#v", today.Items)
	}
}
