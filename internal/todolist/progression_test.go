package todolist

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(day int) time.Time {
	return time.Date(2024, time.January, day, 0, 0, 0, 0, time.UTC)
}

func TestNewProgressionValid(t *testing.T) {
	p, err := NewProgression(date(1), 25)
	require.NoError(t, err)
	assert.Equal(t, date(1), p.Date())
	assert.Equal(t, 25.0, p.Percent())
}

func TestNewProgressionRejectsClosedBoundaries(t *testing.T) {
	for _, percent := range []float64{0, 100, -10, 150} {
		_, err := NewProgression(date(1), percent)
		assert.ErrorIs(t, err, ErrPercentOutOfRange, "percent %v", percent)
	}
}

func TestNewProgressionAcceptsOpenIntervalEdges(t *testing.T) {
	for _, percent := range []float64{0.01, 50, 99.99} {
		_, err := NewProgression(date(1), percent)
		assert.NoError(t, err, "percent %v", percent)
	}
}

func TestMustProgressionPanicsOnOutOfRange(t *testing.T) {
	assert.Panics(t, func() { MustProgression(date(1), 100) })
	assert.NotPanics(t, func() { MustProgression(date(1), 99.99) })
}

func TestProgressionEqualByValue(t *testing.T) {
	a := MustProgression(date(1), 30)
	b := MustProgression(date(1), 30)
	c := MustProgression(date(2), 30)
	d := MustProgression(date(1), 31)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(d))
}
