package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorySuggestions_Top(t *testing.T) {
	suggestions := CategorySuggestions{
		{Category: CategoryFood, Confidence: 0.2},
		{Category: CategoryTransport, Confidence: 0.6},
		{Category: CategoryShopping, Confidence: 0.2},
		{Category: CategoryMedical, Confidence: 0.9},
	}

	top := suggestions.Top(3)

	assert.Equal(t, []Category{CategoryMedical, CategoryTransport, CategoryFood}, categoriesOf(top))
	// Input order is untouched.
	assert.Equal(t, CategoryFood, suggestions[0].Category)

	assert.Nil(t, suggestions.Top(0))
	assert.Len(t, suggestions.Top(10), 4)
	assert.Nil(t, CategorySuggestions(nil).Top(3))
}

func categoriesOf(s CategorySuggestions) []Category {
	out := make([]Category, 0, len(s))
	for _, item := range s {
		out = append(out, item.Category)
	}
	return out
}
