package app

import (
	"context"
	"slices"
	"sort"

	"github.com/hylla/hemma/internal/dnd"
	"github.com/hylla/hemma/internal/domain"
)

// BuildBoard assembles the unified board: every active lane in position
// order, each holding its tasks, events and imported feed rows merged by
// persisted position, plus derived birthday cards appended to the configured
// lane when a contact's birthday falls inside the lookahead window.
func (s *Service) BuildBoard(ctx context.Context) (domain.Board, error) {
	columns, err := s.repo.ListColumns(ctx, false)
	if err != nil {
		return domain.Board{}, err
	}
	sort.SliceStable(columns, func(i, j int) bool { return columns[i].Position < columns[j].Position })

	type slot struct {
		item     domain.Item
		position int
	}
	byColumn := map[string][]slot{}

	tasks, err := s.repo.ListTasks(ctx, false)
	if err != nil {
		return domain.Board{}, err
	}
	for _, t := range tasks {
		byColumn[t.ColumnID] = append(byColumn[t.ColumnID], slot{item: t.BoardItem(), position: t.Position})
	}

	events, err := s.repo.ListEvents(ctx, false)
	if err != nil {
		return domain.Board{}, err
	}
	for _, e := range events {
		byColumn[e.ColumnID] = append(byColumn[e.ColumnID], slot{item: e.BoardItem(), position: e.Position})
	}

	externals, err := s.repo.ListExternalEvents(ctx)
	if err != nil {
		return domain.Board{}, err
	}
	for _, e := range externals {
		byColumn[e.ColumnID] = append(byColumn[e.ColumnID], slot{item: e.BoardItem(), position: e.Position})
	}

	birthdays, err := s.birthdayItems(ctx)
	if err != nil {
		return domain.Board{}, err
	}

	board := domain.Board{Columns: make([]domain.BoardColumn, 0, len(columns))}
	for _, column := range columns {
		slots := byColumn[column.ID]
		sort.SliceStable(slots, func(i, j int) bool {
			if slots[i].position != slots[j].position {
				return slots[i].position < slots[j].position
			}
			return slots[i].item.ID < slots[j].item.ID
		})
		items := make([]domain.Item, 0, len(slots))
		for _, sl := range slots {
			items = append(items, sl.item)
		}
		if column.ID == s.birthdayLaneID {
			items = append(items, birthdays...)
		}
		board.Columns = append(board.Columns, domain.BoardColumn{Column: column, Items: items})
	}
	return board, nil
}

// birthdayItems derives the birthday cards for the board. They exist only in
// the projection and are rebuilt on every call.
func (s *Service) birthdayItems(ctx context.Context) ([]domain.Item, error) {
	upcoming, err := s.ListUpcomingBirthdays(ctx)
	if err != nil {
		return nil, err
	}
	now := s.clock()
	items := make([]domain.Item, 0, len(upcoming))
	for _, entry := range upcoming {
		item, ok := entry.Contact.BirthdayItem(now)
		if !ok {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// MoveItem moves one item by id to an insertion index in a target column.
// Remote callers hold ids rather than resolved items, so the legality
// checks a drag resolver would have made happen here instead.
func (s *Service) MoveItem(ctx context.Context, itemID, toColumnID string, toIndex int) error {
	board, err := s.BuildBoard(ctx)
	if err != nil {
		return err
	}
	item, ok := board.ItemByID(itemID)
	if !ok {
		return ErrNotFound
	}
	dest, ok := board.ColumnByID(toColumnID)
	if !ok {
		return ErrNotFound
	}
	if !dest.AcceptsDrop {
		return domain.ErrColumnLocked
	}
	return s.ApplyMove(ctx, dnd.Move{Item: item, ToColumnID: toColumnID, ToIndex: toIndex})
}

// ApplyMove persists one resolved drag outcome. The resolver hands over a
// raw insertion index against the board it saw; removal-then-insertion
// renormalization and the position rewrite for every displaced row happen
// here, against fresh repository state.
func (s *Service) ApplyMove(ctx context.Context, mv dnd.Move) error {
	if !mv.Item.Editable() {
		return domain.ErrItemNotMovable
	}

	board, err := s.BuildBoard(ctx)
	if err != nil {
		return err
	}
	source, fromIndex, ok := board.ColumnOf(mv.Item.ID)
	if !ok {
		return ErrNotFound
	}
	dest, ok := board.ColumnByID(mv.ToColumnID)
	if !ok {
		return ErrNotFound
	}

	toIndex := mv.ToIndex
	if toIndex < 0 {
		toIndex = 0
	}
	if toIndex > len(dest.Items) {
		toIndex = len(dest.Items)
	}

	if source.ID == dest.ID {
		items := slices.Clone(dest.Items)
		items = slices.Delete(items, fromIndex, fromIndex+1)
		if toIndex > fromIndex {
			toIndex--
		}
		items = slices.Insert(items, toIndex, mv.Item)
		return s.writeColumnOrder(ctx, dest.ID, items)
	}

	destItems := slices.Insert(slices.Clone(dest.Items), toIndex, mv.Item)
	sourceItems := slices.Delete(slices.Clone(source.Items), fromIndex, fromIndex+1)
	if err := s.writeColumnOrder(ctx, dest.ID, destItems); err != nil {
		return err
	}
	return s.writeColumnOrder(ctx, source.ID, sourceItems)
}

// writeColumnOrder persists the given ordering as sequential positions,
// touching only rows whose lane or index actually changed. Derived birthday
// cards hold no persisted position and are skipped.
func (s *Service) writeColumnOrder(ctx context.Context, columnID string, items []domain.Item) error {
	now := s.clock()
	for idx, item := range items {
		switch item.Kind {
		case domain.ItemKindTask:
			task, err := s.repo.GetTask(ctx, item.ID)
			if err != nil {
				return err
			}
			if task.ColumnID == columnID && task.Position == idx {
				continue
			}
			if err := task.Move(columnID, idx, now); err != nil {
				return err
			}
			if err := s.repo.UpdateTask(ctx, task); err != nil {
				return err
			}
		case domain.ItemKindEvent:
			event, err := s.repo.GetEvent(ctx, item.ID)
			if err != nil {
				return err
			}
			if event.ColumnID == columnID && event.Position == idx {
				continue
			}
			if err := event.Move(columnID, idx, now); err != nil {
				return err
			}
			if err := s.repo.UpdateEvent(ctx, event); err != nil {
				return err
			}
		case domain.ItemKindExternal:
			external, err := s.repo.GetExternalEvent(ctx, item.ID)
			if err != nil {
				return err
			}
			if external.Position == idx {
				continue
			}
			if err := external.SetPosition(idx, now); err != nil {
				return err
			}
			if err := s.repo.UpdateExternalEvent(ctx, external); err != nil {
				return err
			}
		case domain.ItemKindBirthday:
		}
	}
	return nil
}
