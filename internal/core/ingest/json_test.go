package ingest

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSONRecipesAliases(t *testing.T) {
	data := []byte(`{
		"name": "Tomato Soup",
		"ingredientLines": ["2 cups tomatoes", {"text": "1 onion"}],
		"directions": "1. Chop.\n2. Simmer.",
		"keywords": "soup, easy",
		"image": {"url": "https://example.com/soup.jpg"},
		"servings": 4,
		"rating": 4,
		"favorite": true
	}`)
	drafts, err := ParseJSONRecipes(data, false)
	require.NoError(t, err)
	require.Len(t, drafts, 1)

	d := drafts[0]
	assert.Equal(t, "Tomato Soup", d.Title)
	assert.Equal(t, []string{"2 cups tomatoes", "1 onion"}, d.Ingredients)
	assert.Equal(t, []string{"Chop.", "Simmer."}, d.Instructions)
	assert.Equal(t, []string{"soup", "easy"}, d.Tags)
	assert.Equal(t, []string{"https://example.com/soup.jpg"}, d.ImageNames)
	assert.Equal(t, 4, d.Rating)
	assert.True(t, d.Favorite)
	assert.Equal(t, json.Number("4"), d.Extra["servings"])
}

func TestParseJSONRecipesGraph(t *testing.T) {
	data := []byte(`{
		"@context": "https://schema.org",
		"@graph": [
			{"@type": "WebSite", "name": "Cooking"},
			{
				"@type": ["Recipe"],
				"name": "Pad Thai",
				"recipeIngredient": ["200 g rice noodles"],
				"recipeInstructions": [
					{"@type": "HowToSection", "name": "Prep", "itemListElement": [
						{"@type": "HowToStep", "text": "Soak noodles."}
					]},
					{"@type": "HowToStep", "text": "Stir fry."}
				],
				"recipeCategory": "Dinner",
				"recipeCuisine": ["Thai"]
			}
		]
	}`)
	drafts, err := ParseJSONRecipes(data, false)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "Pad Thai", drafts[0].Title)
	assert.Equal(t, []string{"200 g rice noodles"}, drafts[0].Ingredients)
	assert.Equal(t, []string{"Soak noodles.", "Stir fry."}, drafts[0].Instructions)
	assert.Equal(t, []string{"Dinner", "Thai"}, drafts[0].Tags)
	assert.Nil(t, drafts[0].Extra)
}

func TestParseJSONRecipesListAndLenient(t *testing.T) {
	data := []byte(`{recipes: [{title: "Crepes", ingredients: "1 egg\n- 2 cups milk",}, {title: "Toast"}]}`)
	drafts, err := ParseJSONRecipes(data, false)
	require.NoError(t, err)
	require.Len(t, drafts, 2)
	assert.Equal(t, "Crepes", drafts[0].Title)
	assert.Equal(t, []string{"1 egg", "2 cups milk"}, drafts[0].Ingredients)
	assert.Equal(t, "Toast", drafts[1].Title)

	_, err = ParseJSONRecipes([]byte(`not json at all`), false)
	assert.Error(t, err)
}

func TestParseJSONRecipesImagesAndExtra(t *testing.T) {
	data := []byte(`[{
		"title": "Flatbread",
		"images": ["data:image/png;base64,AAAA", "flatbread.jpg"],
		"extra": {"source": "family"},
		"cookTime": "PT20M"
	}]`)
	drafts, err := ParseJSONRecipes(data, false)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, []string{"data:image/png;base64,AAAA"}, drafts[0].ImageDataURLs)
	assert.Equal(t, []string{"flatbread.jpg"}, drafts[0].ImageNames)
	assert.Equal(t, "family", drafts[0].Extra["source"])
	assert.Equal(t, "PT20M", drafts[0].Extra["cookTime"])
}

func TestJSONExtractor(t *testing.T) {
	res := JSONExtractor{}.Extract(context.Background(), FileInput{
		Name: "omelette.json",
		Data: []byte(`{"ingredients": ["2 eggs"]}`),
	})
	require.Empty(t, res.Errors)
	require.Len(t, res.Drafts, 1)
	assert.Equal(t, "Omelette", res.Drafts[0].Title)
	assert.Equal(t, SourceJSON, res.Drafts[0].Source)

	res = JSONExtractor{}.Extract(context.Background(), FileInput{Name: "empty.json", Data: []byte(`[]`)})
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "empty.json", res.Errors[0].File)
	assert.Equal(t, ErrNoRecipe.Error(), res.Errors[0].Error)
}
