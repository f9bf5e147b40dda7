package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStaticValidator(t *testing.T) {
	v := NewStaticValidator([]string{"Work", "Errands"})

	assert.True(t, v.IsValidCategory("Work"))
	assert.True(t, v.IsValidCategory("Errands"))
	assert.False(t, v.IsValidCategory("work"), "matching is case sensitive")
	assert.False(t, v.IsValidCategory(""))

	assert.Equal(t, []string{"Errands", "Work"}, v.ValidCategories())
}

func TestStaticValidatorDefaults(t *testing.T) {
	v := NewStaticValidator(nil)

	for _, name := range DefaultCategories {
		assert.True(t, v.IsValidCategory(name))
	}
}

func TestStaticValidatorCopiesInput(t *testing.T) {
	names := []string{"Work"}
	v := NewStaticValidator(names)
	names[0] = "mutated"

	assert.True(t, v.IsValidCategory("Work"))
	assert.Equal(t, []string{"Work"}, v.ValidCategories())
}
