package domain

import (
	"slices"
	"strings"
	"time"
)

// ItemKind identifies one board item variant.
type ItemKind string

// ItemKind values.
const (
	ItemKindTask     ItemKind = "task"
	ItemKindEvent    ItemKind = "event"
	ItemKindExternal ItemKind = "external"
	ItemKindBirthday ItemKind = "birthday"
)

// validItemKinds stores all supported board item kinds.
var validItemKinds = []ItemKind{
	ItemKindTask,
	ItemKindEvent,
	ItemKindExternal,
	ItemKindBirthday,
}

// NormalizeItemKind canonicalizes item kind values.
func NormalizeItemKind(kind ItemKind) ItemKind {
	return ItemKind(strings.TrimSpace(strings.ToLower(string(kind))))
}

// IsValidItemKind reports whether a value names a supported board item kind.
func IsValidItemKind(kind ItemKind) bool {
	kind = NormalizeItemKind(kind)
	return slices.Contains(validItemKinds, kind)
}

// Item is the board-facing envelope over one household entity.
type Item struct {
	ID          string
	Kind        ItemKind
	Title       string
	Description string
	Location    string
	StartsAt    *time.Time
	Done        bool
	FeedName    string
}

// Editable reports whether the item may be changed or moved by a family member.
// The switch is exhaustive over ItemKind so new variants fail loudly here.
func (i Item) Editable() bool {
	switch NormalizeItemKind(i.Kind) {
	case ItemKindTask, ItemKindEvent:
		return true
	case ItemKindExternal, ItemKindBirthday:
		return false
	default:
		return false
	}
}

// Draggable reports whether a drag gesture may be started on the item.
func (i Item) Draggable() bool {
	return i.Editable()
}

// Completable reports whether the item carries a done/not-done state.
func (i Item) Completable() bool {
	switch NormalizeItemKind(i.Kind) {
	case ItemKindTask:
		return true
	case ItemKindEvent, ItemKindExternal, ItemKindBirthday:
		return false
	default:
		return false
	}
}

// BoardColumn is one rendered lane: the persisted column plus its ordered items.
type BoardColumn struct {
	Column
	Items []Item
}

// Board is the root aggregate for one rendering pass. It is rebuilt from
// upstream entity queries on every render and never persisted.
type Board struct {
	Columns []BoardColumn
}

// ItemByID scans all columns for an item with the given id.
func (b Board) ItemByID(id string) (Item, bool) {
	for _, column := range b.Columns {
		for _, item := range column.Items {
			if item.ID == id {
				return item, true
			}
		}
	}
	return Item{}, false
}

// ColumnByID resolves one board column by its lane id.
func (b Board) ColumnByID(id string) (BoardColumn, bool) {
	for _, column := range b.Columns {
		if column.ID == id {
			return column, true
		}
	}
	return BoardColumn{}, false
}

// ColumnOf resolves the column containing an item and the item's index within it.
func (b Board) ColumnOf(itemID string) (BoardColumn, int, bool) {
	for _, column := range b.Columns {
		for idx, item := range column.Items {
			if item.ID == itemID {
				return column, idx, true
			}
		}
	}
	return BoardColumn{}, 0, false
}
