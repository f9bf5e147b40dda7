package todolist

import "time"

// Item is a task entity: identity, descriptive fields, and an append-only,
// chronologically ordered sequence of progressions. Its mutators are purely
// structural; rule checking belongs to the TodoList aggregate, which is the
// only sanctioned caller.
type Item struct {
	id           int
	title        string
	description  string
	category     string
	progressions []Progression
}

func newItem(id int, title, description, category string) *Item {
	return &Item{
		id:          id,
		title:       title,
		description: description,
		category:    category,
	}
}

func (i *Item) ID() int {
	return i.id
}

func (i *Item) Title() string {
	return i.title
}

func (i *Item) Description() string {
	return i.description
}

func (i *Item) Category() string {
	return i.category
}

// Progressions returns a copy of the progression sequence in append order.
func (i *Item) Progressions() []Progression {
	out := make([]Progression, len(i.progressions))
	copy(out, i.progressions)
	return out
}

// AddProgression appends a progression entry. No business validation happens
// here; out-of-range percents panic via MustProgression because reaching this
// point with one means the aggregate's pre-checks were bypassed.
func (i *Item) AddProgression(date time.Time, percent float64) {
	i.progressions = append(i.progressions, MustProgression(date, percent))
}

// UpdateDescription replaces the description. Structural only; the
// modification-lockout rule is enforced by the aggregate.
func (i *Item) UpdateDescription(text string) {
	i.description = text
}

// TotalProgress is the sum of all progression percents.
func (i *Item) TotalProgress() float64 {
	var total float64
	for _, p := range i.progressions {
		total += p.percent
	}
	return total
}

// IsCompleted reports whether total progress has reached 100.
func (i *Item) IsCompleted() bool {
	return i.TotalProgress() >= 100
}

// LastProgressionDate returns the date of the most recent progression.
// The second return is false when the item has no progressions yet.
func (i *Item) LastProgressionDate() (time.Time, bool) {
	if len(i.progressions) == 0 {
		return time.Time{}, false
	}
	return i.progressions[len(i.progressions)-1].date, true
}

// clone deep-copies the item so aggregate reads cannot leak a mutable
// reference that bypasses the gate methods.
func (i *Item) clone() *Item {
	out := newItem(i.id, i.title, i.description, i.category)
	out.progressions = i.Progressions()
	return out
}
