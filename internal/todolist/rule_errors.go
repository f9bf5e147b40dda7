package todolist

import "fmt"

// RuleKind tags which consistency rule rejected an operation.
type RuleKind string

const (
	KindItemNotFound       RuleKind = "item_not_found"
	KindInvalidCategory    RuleKind = "invalid_category"
	KindCannotModify       RuleKind = "cannot_modify"
	KindInvalidProgression RuleKind = "invalid_progression"
)

// RuleError is an expected, permanent business outcome: the operation was
// rejected by a rule and retrying without changing the input will never
// succeed. It carries enough structure for callers to branch on the kind
// without parsing the description.
type RuleError struct {
	Kind        RuleKind
	Description string

	// ItemID is set for KindItemNotFound and KindCannotModify.
	ItemID int
	// Category is set for KindInvalidCategory.
	Category string
	// CurrentProgress is set for KindCannotModify.
	CurrentProgress float64
}

func (e *RuleError) Error() string {
	return e.Description
}

// NewItemNotFound reports an id absent from the aggregate's mapping.
func NewItemNotFound(id int) *RuleError {
	return &RuleError{
		Kind:        KindItemNotFound,
		Description: fmt.Sprintf("item %d not found", id),
		ItemID:      id,
	}
}

// NewInvalidCategory reports a category outside the admissible set.
func NewInvalidCategory(category string) *RuleError {
	return &RuleError{
		Kind:        KindInvalidCategory,
		Description: fmt.Sprintf("category %q is not valid", category),
		Category:    category,
	}
}

// NewCannotModify reports an item locked by the modification threshold.
func NewCannotModify(id int, currentProgress float64) *RuleError {
	return &RuleError{
		Kind:            KindCannotModify,
		Description:     fmt.Sprintf("item %d cannot be modified at %.6g%% progress", id, currentProgress),
		ItemID:          id,
		CurrentProgress: currentProgress,
	}
}

// NewInvalidProgression reports a progression rejected by percent bounds,
// chronological ordering, or the 100% ceiling. The reason distinguishes
// which sub-check failed.
func NewInvalidProgression(reason string) *RuleError {
	return &RuleError{
		Kind:        KindInvalidProgression,
		Description: reason,
	}
}
