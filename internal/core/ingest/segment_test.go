package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fixedScorer map[string]float64

func (f fixedScorer) TitleScore(line string) float64 { return f[line] }

func TestLooksLikeIngredient(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"2 cups flour", true},
		{"1 1/2 tsp salt", true},
		{"½ cup milk", true},
		{"- a pinch of salt", true},
		{"• butter", true},
		{"1 (14 oz) can tomatoes", true},
		{"2-3 cloves garlic", true},
		{"1. Preheat the oven.", false},
		{"350°F oven", false},
		{"Tomato Soup", false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, LooksLikeIngredient(tt.line))
		})
	}
}

func TestLooksLikeHeading(t *testing.T) {
	assert.True(t, LooksLikeHeading("Grandma's Tomato Soup"))
	assert.False(t, LooksLikeHeading("Ingredients"))
	assert.False(t, LooksLikeHeading("Serves 4"))
	assert.False(t, LooksLikeHeading("2 cups flour"))
	assert.False(t, LooksLikeHeading("Stir until thick."))
	assert.False(t, LooksLikeHeading("42"))
	assert.False(t, LooksLikeHeading(strings.Repeat("word ", 13)))
}

func TestParseSegmentWithLabels(t *testing.T) {
	lines := []string{
		"Tomato Soup",
		"Serves 4",
		"Ingredients",
		"2 tbsp olive oil",
		"1 onion, diced",
		"• salt and pepper to taste",
		"Method",
		"1. Heat the oil in a pot.",
		"2. Add the onion and cook until",
		"soft and golden.",
		"Notes",
		"Keeps for three days.",
	}
	seg := ParseSegment(lines, nil)
	assert.Equal(t, "Tomato Soup", seg.Title)
	assert.Equal(t, []string{"2 tbsp olive oil", "1 onion, diced", "salt and pepper to taste"}, seg.Ingredients)
	assert.Equal(t, []string{"Heat the oil in a pot.", "Add the onion and cook until soft and golden."}, seg.Instructions)
}

func TestParseSegmentIngredientLabelOnly(t *testing.T) {
	lines := []string{
		"Pancakes",
		"Ingredients: 1 cup flour",
		"1 egg",
		"1 cup milk",
		"Whisk everything together until smooth and no lumps remain.",
		"Cook on a hot griddle until golden on both sides.",
	}
	seg := ParseSegment(lines, nil)
	assert.Equal(t, "Pancakes", seg.Title)
	assert.Equal(t, []string{"1 cup flour", "1 egg", "1 cup milk"}, seg.Ingredients)
	assert.Len(t, seg.Instructions, 2)
}

func TestParseSegmentWithoutLabels(t *testing.T) {
	lines := []string{
		"Quick Salad",
		"2 cups lettuce",
		"1 tomato",
		"Toss the lettuce and tomato with a little dressing before serving.",
	}
	seg := ParseSegment(lines, nil)
	assert.Equal(t, "Quick Salad", seg.Title)
	assert.Equal(t, []string{"2 cups lettuce", "1 tomato"}, seg.Ingredients)
	assert.Equal(t, []string{"Toss the lettuce and tomato with a little dressing before serving."}, seg.Instructions)
}

func TestParseSegmentTitleScorer(t *testing.T) {
	lines := []string{"Chapter Four", "Lemon Tart", "Ingredients", "3 lemons"}
	assert.Equal(t, "Chapter Four", ParseSegment(lines, nil).Title)
	assert.Equal(t, "Lemon Tart", ParseSegment(lines, fixedScorer{"Lemon Tart": 1}).Title)
}

func TestParseSegmentEmpty(t *testing.T) {
	seg := ParseSegment([]string{"", "  "}, nil)
	assert.Empty(t, seg.Title)
	assert.Nil(t, seg.Ingredients)
	assert.Nil(t, seg.Instructions)
}
