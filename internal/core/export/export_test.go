package export

import (
	"strings"
	"testing"

	"recipe-manager/internal/core/recipe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var soup = recipe.Recipe{
	ID:           "r1",
	Title:        "Mac & Cheese",
	Ingredients:  []string{"2 cups macaroni", "1 cup *sharp* cheddar"},
	Instructions: []string{"Boil pasta.", "Stir in cheese."},
	Tags:         []string{"comfort", "dinner"},
	Rating:       4,
	Extra:        map[string]interface{}{"serves": "4", "source": "json"},
}

func TestMarkdown(t *testing.T) {
	md := Markdown(soup)
	assert.True(t, strings.HasPrefix(md, "# Mac & Cheese\n"))
	assert.Contains(t, md, "## Ingredients\n\n- 2 cups macaroni\n- 1 cup \\*sharp\\* cheddar\n")
	assert.Contains(t, md, "1. Boil pasta.\n2. Stir in cheese.\n")
	assert.Contains(t, md, "Tags: comfort, dinner")
	assert.Contains(t, md, "Rating: ★★★★☆")
	assert.Contains(t, md, "| serves | 4 |\n| source | json |\n")
}

func TestHTML(t *testing.T) {
	doc, ct, err := Render(soup, FormatHTML)
	require.NoError(t, err)
	assert.Equal(t, "text/html; charset=utf-8", ct)
	assert.Contains(t, doc, "<title>Mac &amp; Cheese</title>")
	assert.Contains(t, doc, "<h1>Mac &amp; Cheese</h1>")
	assert.Contains(t, doc, "<li>1 cup *sharp* cheddar</li>")
	assert.Contains(t, doc, "<table>")

	_, _, err = Render(soup, "pdf")
	assert.Error(t, err)
}

func TestHTMLOmitsRawHTML(t *testing.T) {
	r := recipe.Recipe{Title: "Toast", Instructions: []string{"<script>alert(1)</script> Toast the bread."}}
	doc, _, err := Render(r, FormatHTML)
	require.NoError(t, err)
	assert.NotContains(t, doc, "<script>")
}

func TestBook(t *testing.T) {
	book := Book("Weeknights", []recipe.Recipe{soup, {Title: "Green Salad", Ingredients: []string{"1 lettuce"}}})
	assert.Contains(t, book, "# Weeknights\n\n1. Mac & Cheese\n2. Green Salad\n")
	assert.Contains(t, book, "## Green Salad\n\n### Ingredients")
}
