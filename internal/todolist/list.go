package todolist

import (
	"fmt"
	"slices"
	"time"
)

// CategoryValidator supplies the admissible category set. Implementations
// live outside the domain; the aggregate consults it synchronously inside
// AddItem and nowhere else.
type CategoryValidator interface {
	IsValidCategory(category string) bool
	ValidCategories() []string
}

// TodoList is the aggregate root and consistency boundary for task items.
// It owns the id-to-item mapping exclusively and is the only entry point for
// mutation: every gate method runs the relevant rule checks first, mutates
// only on success, and reports the outcome as a Result.
//
// Single writer per instance; see the package doc for the concurrency
// contract.
type TodoList struct {
	items      map[int]*Item
	categories CategoryValidator

	modifiable    *ModificationAllowed
	progressionOK *ValidProgression
}

// NewTodoList builds an empty aggregate around the given category validator.
func NewTodoList(categories CategoryValidator) *TodoList {
	if categories == nil {
		panic("todolist: category validator is required")
	}
	return &TodoList{
		items:         make(map[int]*Item),
		categories:    categories,
		modifiable:    NewModificationAllowed(),
		progressionOK: NewValidProgression(),
	}
}

// AddItem validates the category and inserts a new item under id. An
// existing item with the same id is silently replaced: upsert is the
// intended policy, not an oversight.
func (l *TodoList) AddItem(id int, title, description, category string) Result {
	if !l.categories.IsValidCategory(category) {
		return Failure(NewInvalidCategory(category))
	}
	l.items[id] = newItem(id, title, description, category)
	return Success()
}

// UpdateItem replaces the item's description, provided the item exists and
// is not locked by the modification threshold.
func (l *TodoList) UpdateItem(id int, description string) Result {
	item, ok := l.items[id]
	if !ok {
		return Failure(NewItemNotFound(id))
	}
	if !l.modifiable.IsSatisfiedBy(item) {
		return Failure(NewCannotModify(id, item.TotalProgress()))
	}
	item.UpdateDescription(description)
	return Success()
}

// RemoveItem deletes the item, under the same existence and threshold checks
// as UpdateItem.
func (l *TodoList) RemoveItem(id int) Result {
	item, ok := l.items[id]
	if !ok {
		return Failure(NewItemNotFound(id))
	}
	if !l.modifiable.IsSatisfiedBy(item) {
		return Failure(NewCannotModify(id, item.TotalProgress()))
	}
	delete(l.items, id)
	return Success()
}

// RegisterProgression appends a dated progress entry to the item after
// checking, in order: existence, percent bounds and the 100% ceiling, and
// strict chronological ordering against the item's last progression date.
// The very first entry has no ordering constraint.
func (l *TodoList) RegisterProgression(id int, date time.Time, percent float64) Result {
	item, ok := l.items[id]
	if !ok {
		return Failure(NewItemNotFound(id))
	}
	candidate := ProgressionCandidate{Percent: percent, CurrentTotal: item.TotalProgress()}
	if !l.progressionOK.IsSatisfiedBy(candidate) {
		return Failure(NewInvalidProgression(l.progressionOK.Reason()))
	}
	if last, has := item.LastProgressionDate(); has && !date.After(last) {
		reason := fmt.Sprintf("progression date %s is not after the last recorded date %s",
			date.Format(time.RFC3339), last.Format(time.RFC3339))
		return Failure(NewInvalidProgression(reason))
	}
	item.AddProgression(date, percent)
	return Success()
}

// GetAllItems returns deep copies of all items sorted ascending by id.
// Pure read: copies cannot be used to mutate aggregate state behind the
// gate methods.
func (l *TodoList) GetAllItems() []*Item {
	out := make([]*Item, 0, len(l.items))
	for _, item := range l.items {
		out = append(out, item.clone())
	}
	slices.SortFunc(out, func(a, b *Item) int { return a.id - b.id })
	return out
}

// Len returns the number of items currently held.
func (l *TodoList) Len() int {
	return len(l.items)
}
