package ingest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestSheetExtractorCSV(t *testing.T) {
	data := "\xef\xbb\xbfTitle,Ingredients,Instructions,Tags,Servings\n" +
		"Tomato Soup,\"2 cups tomatoes\n1 onion\",Chop.|Simmer.,soup;easy,4\n" +
		",,,,\n" +
		",1 egg,,,\n"

	res := SheetExtractor{}.Extract(context.Background(), FileInput{Name: "recipes.csv", Data: []byte(data)})
	require.Len(t, res.Drafts, 1)
	d := res.Drafts[0]
	assert.Equal(t, SourceSheet, d.Source)
	assert.Equal(t, "Tomato Soup", d.Title)
	assert.Equal(t, []string{"2 cups tomatoes", "1 onion"}, d.Ingredients)
	assert.Equal(t, []string{"Chop.", "Simmer."}, d.Instructions)
	assert.Equal(t, []string{"soup", "easy"}, d.Tags)
	assert.Equal(t, "4", d.Extra["Servings"])

	require.Len(t, res.Errors, 1)
	assert.Equal(t, "row 4: missing title", res.Errors[0].Error)
}

func TestSheetExtractorXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"name", "ingredients", "method", "rating"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"Pancakes", "1 cup flour; 2 eggs", "Mix.\nFry.", "5"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	res := SheetExtractor{}.Extract(context.Background(), FileInput{Name: "book.xlsx", Data: buf.Bytes()})
	require.Empty(t, res.Errors)
	require.Len(t, res.Drafts, 1)
	assert.Equal(t, "Pancakes", res.Drafts[0].Title)
	assert.Equal(t, []string{"1 cup flour", "2 eggs"}, res.Drafts[0].Ingredients)
	assert.Equal(t, []string{"Mix.", "Fry."}, res.Drafts[0].Instructions)
	assert.Equal(t, 5, res.Drafts[0].Rating)
}

func TestSheetExtractorRejectsBrokenLegacyAndHeaderless(t *testing.T) {
	res := SheetExtractor{}.Extract(context.Background(), FileInput{Name: "old.xls", Data: []byte{0xd0, 0xcf, 0x11, 0xe0, 0xa1, 0xb1}})
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0].Error, "open xls")
	assert.NotContains(t, res.Errors[0].Error, "unsupported")

	res = SheetExtractor{}.Extract(context.Background(), FileInput{Name: "x.csv", Data: []byte("a,b\n1,2\n")})
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0].Error, "missing title")
}

func TestSheetExtractorXLSTextExport(t *testing.T) {
	data := "Title\tIngredients\tInstructions\nPea Soup\t1 cup peas; 2 cups stock\tSimmer.\n"
	res := SheetExtractor{}.Extract(context.Background(), FileInput{Name: "export.xls", Data: []byte(data)})
	require.Empty(t, res.Errors)
	require.Len(t, res.Drafts, 1)
	assert.Equal(t, "Pea Soup", res.Drafts[0].Title)
	assert.Equal(t, []string{"1 cup peas", "2 cups stock"}, res.Drafts[0].Ingredients)
	assert.Equal(t, SourceSheet, res.Drafts[0].Source)
}
