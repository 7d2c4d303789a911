package ingest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHTMLRecipesJSONLD(t *testing.T) {
	page := `<html><head>
<script type="application/ld+json">{"@context":"https://schema.org","@type":"Recipe","name":"Banana Bread","recipeIngredient":["3 bananas"],"recipeInstructions":"Mash and bake."}</script>
</head><body><h1>Something Else</h1></body></html>`

	drafts, err := ParseHTMLRecipes([]byte(page), nil)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "Banana Bread", drafts[0].Title)
	assert.Equal(t, []string{"3 bananas"}, drafts[0].Ingredients)
	assert.Equal(t, []string{"Mash and bake."}, drafts[0].Instructions)
	assert.Equal(t, SourceHTML, drafts[0].Source)
}

func TestParseHTMLRecipesLabeledSections(t *testing.T) {
	page := `<html><head>
<title>Tomato Soup | Cooking Site</title>
<meta name="keywords" content="soup, vegetarian">
</head><body>
<nav><ul><li>Home</li><li>Recipes</li></ul></nav>
<article>
  <h1>Tomato Soup</h1>
  <h2>Ingredients</h2>
  <ul><li>2 cups tomatoes</li><li>1 onion, diced</li></ul>
  <h3>For the garnish</h3>
  <ul><li>1 tbsp basil</li></ul>
  <h2>Instructions</h2>
  <ol><li>Chop the onion.</li><li>Simmer everything for 20 minutes.</li></ol>
  <h2>Notes</h2>
  <p>Freezes well.</p>
</article>
</body></html>`

	drafts, err := ParseHTMLRecipes([]byte(page), nil)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	d := drafts[0]
	assert.Equal(t, "Tomato Soup", d.Title)
	assert.Equal(t, []string{"2 cups tomatoes", "1 onion, diced", "1 tbsp basil"}, d.Ingredients)
	assert.Equal(t, []string{"Chop the onion.", "Simmer everything for 20 minutes."}, d.Instructions)
	assert.Equal(t, []string{"soup", "vegetarian"}, d.Tags)
}

func TestParseHTMLRecipesListHeuristics(t *testing.T) {
	page := `<html><body>
<h1>Pancakes</h1>
<ul><li>1 cup flour</li><li>2 eggs</li><li>pinch of salt</li></ul>
<ul>
  <li>Whisk the flour, eggs and salt together until smooth.</li>
  <li>Cook ladlefuls on a hot buttered pan until golden.</li>
</ul>
</body></html>`

	drafts, err := ParseHTMLRecipes([]byte(page), nil)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "Pancakes", drafts[0].Title)
	assert.Equal(t, []string{"1 cup flour", "2 eggs", "pinch of salt"}, drafts[0].Ingredients)
	assert.Len(t, drafts[0].Instructions, 2)
}

func TestParseHTMLRecipesParagraphs(t *testing.T) {
	page := `<html><body>
<p><strong>Ingredients</strong></p>
<p>2 cups rice<br>3 cups water</p>
<p><strong>Method</strong></p>
<p>Rinse the rice and bring it to a boil in the water.</p>
</body></html>`

	drafts, err := ParseHTMLRecipes([]byte(page), nil)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, []string{"2 cups rice", "3 cups water"}, drafts[0].Ingredients)
	assert.Equal(t, []string{"Rinse the rice and bring it to a boil in the water."}, drafts[0].Instructions)
}

func TestHTMLExtractorNoRecipe(t *testing.T) {
	res := HTMLExtractor{}.Extract(context.Background(), FileInput{Name: "about.html", Data: []byte(`<p>Hello</p>`)})
	assert.Empty(t, res.Drafts)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, ErrNoRecipe.Error(), res.Errors[0].Error)
}
