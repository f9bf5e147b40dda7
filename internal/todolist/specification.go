package todolist

import "fmt"

// ModificationThreshold is the cumulative progress above which an item can no
// longer be updated or removed. The boundary is inclusive: exactly 50 is
// still modifiable, anything above is locked.
const ModificationThreshold = 50.0

// Specification is a composable boolean rule over a candidate value.
// Implementations must be pure in IsSatisfiedBy.
type Specification[T any] interface {
	IsSatisfiedBy(candidate T) bool
}

type andSpec[T any] struct {
	operands []Specification[T]
}

func (s andSpec[T]) IsSatisfiedBy(candidate T) bool {
	for _, op := range s.operands {
		if !op.IsSatisfiedBy(candidate) {
			return false
		}
	}
	return true
}

type orSpec[T any] struct {
	operands []Specification[T]
}

func (s orSpec[T]) IsSatisfiedBy(candidate T) bool {
	for _, op := range s.operands {
		if op.IsSatisfiedBy(candidate) {
			return true
		}
	}
	return false
}

type notSpec[T any] struct {
	operand Specification[T]
}

func (s notSpec[T]) IsSatisfiedBy(candidate T) bool {
	return !s.operand.IsSatisfiedBy(candidate)
}

// And returns a specification satisfied only when every operand is.
// Operands are wrapped, never mutated; composition nests to any depth.
func And[T any](operands ...Specification[T]) Specification[T] {
	return andSpec[T]{operands: operands}
}

// Or returns a specification satisfied when at least one operand is.
func Or[T any](operands ...Specification[T]) Specification[T] {
	return orSpec[T]{operands: operands}
}

// Not returns a specification inverting its operand.
func Not[T any](operand Specification[T]) Specification[T] {
	return notSpec[T]{operand: operand}
}

// FuncSpec adapts a plain predicate function into a Specification.
type FuncSpec[T any] func(candidate T) bool

func (f FuncSpec[T]) IsSatisfiedBy(candidate T) bool {
	return f(candidate)
}

// ModificationAllowed is satisfied while an item's cumulative progress is at
// or below ModificationThreshold. After a false evaluation, Reason explains
// which item was locked and at what progress.
//
// The reason state makes this type single-writer, like the aggregate that
// owns it.
type ModificationAllowed struct {
	threshold  float64
	lastReason string
}

// NewModificationAllowed builds the lockout specification at the standard
// threshold.
func NewModificationAllowed() *ModificationAllowed {
	return &ModificationAllowed{threshold: ModificationThreshold}
}

func (s *ModificationAllowed) IsSatisfiedBy(item *Item) bool {
	total := item.TotalProgress()
	if total > s.threshold {
		s.lastReason = fmt.Sprintf("item %d is %.6g%% complete, above the %.6g%% modification threshold", item.ID(), total, s.threshold)
		return false
	}
	return true
}

// Reason returns the explanation recorded by the most recent false
// evaluation.
func (s *ModificationAllowed) Reason() string {
	return s.lastReason
}

// ProgressionCandidate pairs a proposed progression percent with the owning
// item's current cumulative total.
type ProgressionCandidate struct {
	Percent      float64
	CurrentTotal float64
}

// ValidProgression is satisfied when the candidate percent lies strictly
// inside (0,100) and the cumulative total would not exceed 100. Reaching
// exactly 100 is allowed; that is what marks completion.
type ValidProgression struct {
	lastReason string
}

// NewValidProgression builds the progression-validity specification.
func NewValidProgression() *ValidProgression {
	return &ValidProgression{}
}

func (s *ValidProgression) IsSatisfiedBy(candidate ProgressionCandidate) bool {
	if candidate.Percent <= 0 || candidate.Percent >= 100 {
		s.lastReason = fmt.Sprintf("percent must be strictly between 0 and 100, got %.6g", candidate.Percent)
		return false
	}
	if projected := candidate.CurrentTotal + candidate.Percent; projected > 100 {
		s.lastReason = fmt.Sprintf("total progress would reach %.6g%%, above the 100%% ceiling", projected)
		return false
	}
	return true
}

// Reason returns the explanation recorded by the most recent false
// evaluation.
func (s *ValidProgression) Reason() string {
	return s.lastReason
}
