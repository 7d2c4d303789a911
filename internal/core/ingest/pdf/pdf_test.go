package pdf

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"recipe-manager/internal/core/ingest"
	"recipe-manager/internal/core/knowledge"
	"recipe-manager/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayoutGroupsByBandAndGap(t *testing.T) {
	frags := []Fragment{
		{X: 200, Y: 681.5, W: 48, FontSize: 12, S: "tomatoes"},
		{X: 72, Y: 700, W: 40, FontSize: 12, S: "Tomato"},
		{X: 116, Y: 700, W: 26, FontSize: 12, S: "Soup"},
		{X: 72, Y: 680.5, W: 36, FontSize: 12, S: "2 cups"},
	}
	assert.Equal(t, []string{"Tomato Soup", "2 cups  tomatoes"}, Layout(frags))
	assert.Nil(t, Layout(nil))
}

func TestLayoutTwoColumns(t *testing.T) {
	var frags []Fragment
	for i := 0; i < 4; i++ {
		y := 700 - float64(i)*20
		left := fmt.Sprintf("Left column line %d", i)
		right := fmt.Sprintf("Right column line %d", i)
		frags = append(frags,
			Fragment{X: 50, Y: y, W: float64(len(left)) * 6, FontSize: 10, S: left},
			Fragment{X: 300, Y: y, W: float64(len(right)) * 6, FontSize: 10, S: right},
		)
	}
	got := Layout(frags)
	require.Len(t, got, 8)
	assert.Equal(t, "Left column line 0", got[0])
	assert.Equal(t, "Left column line 3", got[3])
	assert.Equal(t, "Right column line 0", got[4])
}

func TestIsCandidatePage(t *testing.T) {
	assert.True(t, IsCandidatePage([]string{"Ingredients", "2 cups flour", "1 tsp salt", "3 eggs", "1/2 cup milk"}))
	assert.True(t, IsCandidatePage([]string{"1 cup rice", "2 tbsp oil", "3 eggs"}))
	assert.False(t, IsCandidatePage([]string{"Chapter 1", "A history of bread"}))
	assert.False(t, IsCandidatePage([]string{"1 cup rice", "2 tbsp oil"}))
}

func TestParseTOCLine(t *testing.T) {
	e, ok := ParseTOCLine("Apple Pie .......... 23")
	require.True(t, ok)
	assert.Equal(t, TOCEntry{Title: "Apple Pie", Page: 23}, e)

	e, ok = ParseTOCLine("Banana Bread   104")
	require.True(t, ok)
	assert.Equal(t, 104, e.Page)

	_, ok = ParseTOCLine("2 cups flour .... 3")
	assert.False(t, ok)
	_, ok = ParseTOCLine("Bake for 20 minutes")
	assert.False(t, ok)
}

var dishes = []string{
	"Apple Pie", "Banana Bread", "Carrot Cake", "Date Squares", "Egg Custard",
	"Fig Tart", "Garlic Knots", "Ham Hock Stew", "Irish Soda Bread", "Jam Roly Poly",
	"Key Lime Pie", "Lemon Drizzle", "Mushroom Risotto", "Nut Roast", "Onion Bhaji",
	"Pea Soup", "Quince Jelly", "Rhubarb Crumble", "Spinach Pie", "Treacle Tart",
}

func recipePage(title string) []string {
	return []string{title, "Ingredients", "2 cups flour", "1 egg", "Method", "Mix and bake until golden."}
}

func TestSegmentByTOC(t *testing.T) {
	toc := []string{"Contents"}
	pages := [][]string{nil}
	for i, d := range dishes {
		// 印刷頁碼從 3 開始，內文從第 2 頁開始
		toc = append(toc, fmt.Sprintf("%s .......... %d", d, i+3))
		pages = append(pages, recipePage(d))
	}
	pages[0] = toc

	kb := knowledge.NewAccumulator(0)
	ext := NewExtractor(config.PDFConfig{}, nil, kb)
	drafts := ext.Segment(pages, "book")
	require.Len(t, drafts, len(dishes))

	for i, d := range drafts {
		assert.Equal(t, dishes[i], d.Title)
		assert.Equal(t, []string{"2 cups flour", "1 egg"}, d.Ingredients)
		assert.Equal(t, StrategyTOC, d.Extra["strategy"])
		assert.Equal(t, i+2, d.Extra["pageStart"])
		assert.Equal(t, "pdf", d.Extra["source"])
	}
	assert.Equal(t, 1.0, kb.TitleScore("Apple Pie"))
}

func TestDetectTOCMinimumEntries(t *testing.T) {
	toc := []string{"Contents"}
	for i, d := range dishes[:6] {
		toc = append(toc, fmt.Sprintf("%s .... %d", d, i+2))
	}
	entries, _ := DetectTOC([][]string{toc}, 0)
	assert.Nil(t, entries)

	entries, last := DetectTOC([][]string{toc}, 5)
	assert.Len(t, entries, 6)
	assert.Equal(t, 0, last)
}

func TestSegmentForward(t *testing.T) {
	pages := [][]string{
		{"My Little Cookbook", "For family"},
		{"Pancakes", "Ingredients", "1 cup flour", "1 egg", "Method", "Whisk and fry until golden."},
		{"Serve them warm with syrup and plenty of fresh fruit on the side."},
		{"Omelette", "Ingredients", "3 eggs", "1 tbsp butter", "Method", "Beat the eggs and cook gently."},
	}
	drafts := NewExtractor(config.PDFConfig{}, nil, nil).Segment(pages, "book")
	require.Len(t, drafts, 2)

	assert.Equal(t, "Pancakes", drafts[0].Title)
	assert.Len(t, drafts[0].Instructions, 2)
	assert.Equal(t, StrategyForward, drafts[0].Extra["strategy"])
	assert.Equal(t, 2, drafts[0].Extra["pageStart"])
	assert.Equal(t, 3, drafts[0].Extra["pageEnd"])

	assert.Equal(t, "Omelette", drafts[1].Title)
	assert.Equal(t, []string{"3 eggs", "1 tbsp butter"}, drafts[1].Ingredients)
}

func TestSegmentWholeDocumentFallback(t *testing.T) {
	pages := [][]string{
		{"Simple Salad", "2 cups lettuce", "1 tomato"},
		{"Toss everything together with a little olive oil and salt."},
	}
	drafts := NewExtractor(config.PDFConfig{}, nil, nil).Segment(pages, "salad")
	require.Len(t, drafts, 1)
	assert.Equal(t, "Simple Salad", drafts[0].Title)
	assert.Equal(t, StrategyDocument, drafts[0].Extra["strategy"])
	assert.Equal(t, 1, drafts[0].Extra["pageStart"])
	assert.Equal(t, 2, drafts[0].Extra["pageEnd"])

	assert.Empty(t, NewExtractor(config.PDFConfig{}, nil, nil).Segment([][]string{{"Just prose here."}}, "x"))
}

func TestSegmentTitleFallback(t *testing.T) {
	pages := [][]string{
		{"2 cups lettuce", "1 tomato", "1 cucumber"},
		{"Toss everything together with a little olive oil and salt."},
	}
	drafts := NewExtractor(config.PDFConfig{}, nil, nil).Segment(pages, "salad")
	require.Len(t, drafts, 1)
	assert.Equal(t, "salad p.1", drafts[0].Title)
}

func TestExtractRejectsInvalidPDF(t *testing.T) {
	res := NewExtractor(config.PDFConfig{}, nil, nil).Extract(context.Background(), ingest.FileInput{Name: "broken.pdf", Data: []byte("not a pdf")})
	require.Len(t, res.Errors, 1)
	assert.True(t, strings.HasPrefix(res.Errors[0].Error, "open pdf"))
}

func TestSparse(t *testing.T) {
	assert.True(t, sparse(""))
	assert.True(t, sparse("one line only"))
	dense := strings.Repeat("Whisk the eggs with the sugar until pale.\n", 4)
	assert.False(t, sparse(dense))
}

func TestReverseSpans(t *testing.T) {
	pages := [][]string{
		{"Rice Bowl", "1 cup rice", "2 tbsp oil", "3 eggs", "Cook the rice and fry the eggs."},
		{"Bean Salad", "1 cup beans", "2 tbsp vinegar", "3 tomatoes", "Toss everything together."},
		{"Serve chilled with crusty bread on the side for a light lunch."},
	}
	assert.Equal(t, []Span{{Start: 0, End: 2, Strategy: StrategyForward}}, ForwardSpans(pages[:2]))
	assert.Equal(t, []Span{
		{Start: 0, End: 1, Strategy: StrategyReverse},
		{Start: 1, End: 3, Strategy: StrategyReverse},
	}, ReverseSpans(pages))
	assert.Empty(t, ReverseSpans([][]string{{"Just prose here."}}))
}

func TestSegmentFallsBackToReverse(t *testing.T) {
	pages := [][]string{
		{"Rice Bowl", "1 cup rice", "2 tbsp oil", "3 eggs", "Cook the rice and fry the eggs."},
		{"Bean Salad", "1 cup beans", "2 tbsp vinegar", "3 tomatoes", "Toss everything together."},
	}
	drafts := NewExtractor(config.PDFConfig{}, nil, nil).Segment(pages, "book")
	require.Len(t, drafts, 2)
	assert.Equal(t, "Rice Bowl", drafts[0].Title)
	assert.Equal(t, "Bean Salad", drafts[1].Title)
	for i, d := range drafts {
		assert.Equal(t, StrategyReverse, d.Extra["strategy"])
		assert.Equal(t, i+1, d.Extra["pageStart"])
	}
}

// fakeDocument 固定的逐頁文字
type fakeDocument []string

func (d fakeDocument) NumPage() int { return len(d) }

func (d fakeDocument) PageText(i int) (string, error) { return d[i-1], nil }

// pageRunner 依 pdftoppm 要求的頁碼回傳 tesseract 文字
type pageRunner struct {
	mu    sync.Mutex
	texts map[string]string
	page  string
	pages []string
}

func (r *pageRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch name {
	case "pdftoppm":
		for i, a := range args {
			if a == "-f" && i+1 < len(args) {
				r.page = args[i+1]
			}
		}
		r.pages = append(r.pages, r.page)
		return nil, nil, nil
	case "tesseract":
		return []byte(r.texts[r.page]), nil, nil
	}
	return nil, nil, errors.New("unexpected command " + name)
}

const ocrPancakes = `Pancakes
Ingredients
1 cup flour
1 egg
Method
Whisk and fry until golden.`

func extractorWithOCR(ocrCfg config.OCRConfig, runner *pageRunner, doc fakeDocument) *Extractor {
	ext := NewExtractor(config.PDFConfig{}, ingest.NewOCRWithRunner(ocrCfg, runner), nil)
	ext.open = func([]byte) (document, error) { return doc, nil }
	return ext
}

func TestReadPagesOCRsEmptyPagesWhenDisabled(t *testing.T) {
	runner := &pageRunner{texts: map[string]string{"1": "should not be used", "2": ocrPancakes}}
	ext := extractorWithOCR(config.OCRConfig{Enabled: false}, runner, fakeDocument{"Chapter One", "   "})

	pages, err := ext.readPages(context.Background(), []byte("%PDF-1.4"))
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, []string{"2"}, runner.pages)
	assert.Equal(t, []string{"Chapter One"}, pages[0])
	assert.Equal(t, "Pancakes", pages[1][0])
}

func TestReadPagesOCRsSparsePagesWhenEnabled(t *testing.T) {
	runner := &pageRunner{texts: map[string]string{"1": ocrPancakes}}
	ext := extractorWithOCR(config.OCRConfig{Enabled: true}, runner, fakeDocument{"Pancakes"})

	res := ext.Extract(context.Background(), ingest.FileInput{Name: "scan.pdf", Data: []byte("%PDF-1.4")})
	assert.Equal(t, []string{"1"}, runner.pages)
	require.Len(t, res.Drafts, 1)
	assert.Equal(t, "Pancakes", res.Drafts[0].Title)
	assert.Equal(t, []string{"1 cup flour", "1 egg"}, res.Drafts[0].Ingredients)
}

func TestReadPagesOCRBudget(t *testing.T) {
	runner := &pageRunner{texts: map[string]string{"1": ocrPancakes, "2": ocrPancakes, "3": ocrPancakes}}
	ext := extractorWithOCR(config.OCRConfig{Enabled: true, MaxPagesPerDoc: 2}, runner, fakeDocument{"", "a", ""})

	pages, err := ext.readPages(context.Background(), []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, runner.pages)
	assert.Equal(t, "Pancakes", pages[0][0])
	assert.Equal(t, "Pancakes", pages[1][0])
	assert.Empty(t, pages[2])
}

func TestReadPagesKeepsDenseText(t *testing.T) {
	dense := strings.Repeat("Whisk the eggs with the sugar until pale.\n", 4)
	runner := &pageRunner{texts: map[string]string{"1": ocrPancakes}}
	ext := extractorWithOCR(config.OCRConfig{Enabled: true}, runner, fakeDocument{dense})

	pages, err := ext.readPages(context.Background(), []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Empty(t, runner.pages)
	assert.Len(t, pages[0], 4)
}
