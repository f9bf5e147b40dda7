package todolist

import (
	"errors"
	"time"
)

// ErrPercentOutOfRange indicates a percent outside the open (0,100) interval.
// A single progression entry of exactly 0 or exactly 100 is never valid,
// even though the cumulative total may legitimately reach 100.
var ErrPercentOutOfRange = errors.New("progression percent must be strictly between 0 and 100")

// Progression is one dated percentage-of-completion record. It is immutable
// and has no lifecycle of its own: an Item creates it on append and nothing
// ever mutates or removes it afterwards.
type Progression struct {
	date    time.Time
	percent float64
}

// NewProgression creates a validated Progression.
// Returns ErrPercentOutOfRange unless 0 < percent < 100.
func NewProgression(date time.Time, percent float64) (Progression, error) {
	if percent <= 0 || percent >= 100 {
		return Progression{}, ErrPercentOutOfRange
	}
	return Progression{date: date, percent: percent}, nil
}

// MustProgression creates a Progression, panicking if the percent is out of
// range. Use only when the caller has already run the rule checks; a panic
// here means the aggregate's own pre-check logic is broken.
func MustProgression(date time.Time, percent float64) Progression {
	p, err := NewProgression(date, percent)
	if err != nil {
		panic(err)
	}
	return p
}

// Date returns when the progress was recorded.
func (p Progression) Date() time.Time {
	return p.date
}

// Percent returns the recorded share of completion.
func (p Progression) Percent() float64 {
	return p.percent
}

// Equal reports value equality: same date and same percent.
func (p Progression) Equal(other Progression) bool {
	return p.date.Equal(other.date) && p.percent == other.percent
}
