// Package category supplies the admissible category set consumed by the
// todolist aggregate. The aggregate only sees the todolist.CategoryValidator
// interface; the implementations here are interchangeable collaborators.
package category

import "slices"

// DefaultCategories seeds deployments that configure nothing.
var DefaultCategories = []string{"Work", "Personal", "Education"}

// StaticValidator answers from a fixed in-memory set.
type StaticValidator struct {
	names []string
	set   map[string]struct{}
}

// NewStaticValidator builds a validator over the given names. Empty input
// falls back to DefaultCategories.
func NewStaticValidator(names []string) *StaticValidator {
	if len(names) == 0 {
		names = DefaultCategories
	}
	v := &StaticValidator{
		names: slices.Clone(names),
		set:   make(map[string]struct{}, len(names)),
	}
	slices.Sort(v.names)
	for _, name := range names {
		v.set[name] = struct{}{}
	}
	return v
}

func (v *StaticValidator) IsValidCategory(category string) bool {
	_, ok := v.set[category]
	return ok
}

// ValidCategories returns the admissible names sorted ascending.
func (v *StaticValidator) ValidCategories() []string {
	return slices.Clone(v.names)
}
