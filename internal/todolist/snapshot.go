package todolist

import (
	"slices"
	"time"
)

// ProgressionSnapshot is the persistence-facing form of a Progression.
type ProgressionSnapshot struct {
	Date    time.Time
	Percent float64
}

// ItemSnapshot is the persistence-facing form of an Item. Snapshots are the
// only state that crosses the repository boundary: the aggregate exposes no
// serialization format of its own beyond this plain structure.
type ItemSnapshot struct {
	ID           int
	Title        string
	Description  string
	Category     string
	Progressions []ProgressionSnapshot
}

// Snapshot exports the aggregate's state sorted ascending by id, with each
// item's progressions in append (chronological) order.
func (l *TodoList) Snapshot() []ItemSnapshot {
	out := make([]ItemSnapshot, 0, len(l.items))
	for _, item := range l.items {
		snap := ItemSnapshot{
			ID:          item.id,
			Title:       item.title,
			Description: item.description,
			Category:    item.category,
		}
		for _, p := range item.progressions {
			snap.Progressions = append(snap.Progressions, ProgressionSnapshot{
				Date:    p.date,
				Percent: p.percent,
			})
		}
		out = append(out, snap)
	}
	slices.SortFunc(out, func(a, b ItemSnapshot) int { return a.ID - b.ID })
	return out
}

// Rehydrate rebuilds an aggregate from previously snapshotted state. Stored
// state is trusted: category admissibility and progression rules were
// enforced when the entries were first accepted, so they are not re-checked
// here (the admissible set may legitimately have changed since). A snapshot
// with an out-of-range percent still panics, because it means the store
// corrupted data the aggregate validated on the way in.
func Rehydrate(categories CategoryValidator, snapshots []ItemSnapshot) *TodoList {
	list := NewTodoList(categories)
	for _, snap := range snapshots {
		item := newItem(snap.ID, snap.Title, snap.Description, snap.Category)
		for _, p := range snap.Progressions {
			item.AddProgression(p.Date, p.Percent)
		}
		list.items[snap.ID] = item
	}
	return list
}
