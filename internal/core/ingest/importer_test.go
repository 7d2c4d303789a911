package ingest

import (
	"context"
	"testing"

	"recipe-manager/internal/core/text"
	"recipe-manager/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type panicExtractor struct{}

func (panicExtractor) Extract(context.Context, FileInput) Result {
	panic("kaboom")
}

func newTestImporter() *Importer {
	return NewImporter(config.ImportConfig{MaxZipDepth: 2, MaxZipFiles: 50}, nil, nil)
}

func TestImporterSameTitleDifferentCase(t *testing.T) {
	res := newTestImporter().Import(context.Background(), []FileInput{
		{Name: "a.json", Data: []byte(`{"title": "Tomato Soup", "ingredients": ["2 cups tomatoes"]}`)},
		{Name: "b.json", Data: []byte(`{"title": "tomato soup", "ingredients": ["1 onion"], "servings": 2}`)},
	})
	require.Empty(t, res.Errors)
	require.Len(t, res.Drafts, 2)
	assert.Equal(t, text.TitleKey(res.Drafts[0].Title), text.TitleKey(res.Drafts[1].Title))
}

func TestImporterRecoversFromPanics(t *testing.T) {
	imp := newTestImporter()
	imp.Register(panicExtractor{}, ".boom")

	res := imp.Import(context.Background(), []FileInput{
		{Name: "bad.boom", Data: []byte("x")},
		{Name: "good.json", Data: []byte(`{"title": "Toast", "ingredients": ["1 slice bread"]}`)},
	})
	require.Len(t, res.Drafts, 1)
	assert.Equal(t, "Toast", res.Drafts[0].Title)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, FileError{File: "bad.boom", Error: "internal error: kaboom"}, res.Errors[0])
}

func TestImporterRejectsUnsupportedAndOversized(t *testing.T) {
	imp := NewImporter(config.ImportConfig{MaxFileBytes: 10}, nil, nil)
	res := imp.Import(context.Background(), []FileInput{
		{Name: "tool.exe", Data: []byte("MZ")},
		{Name: "big.json", Data: []byte(`{"title": "Too Big"}`)},
	})
	assert.Empty(t, res.Drafts)
	require.Len(t, res.Errors, 2)
	assert.Contains(t, res.Errors[0].Error, "unsupported")
	assert.Contains(t, res.Errors[1].Error, ErrTooLarge.Error())
}

func TestImporterHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := newTestImporter().Import(ctx, []FileInput{{Name: "a.json", Data: []byte(`{"title": "A"}`)}})
	assert.Empty(t, res.Drafts)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, context.Canceled.Error(), res.Errors[0].Error)
}

func TestImporterZip(t *testing.T) {
	archive := buildZip(t,
		zipEntry{name: "recipes/tomato-soup.json", data: []byte(`{"title": "Tomato Soup", "ingredients": ["2 cups tomatoes"]}`)},
		zipEntry{name: "recipes/Tomato Soup.jpg", data: []byte{0xff, 0xd8, 0xff}},
		zipEntry{name: "photos/random.png", data: pngHeader},
		zipEntry{name: "__MACOSX/recipes/._tomato-soup.json", data: []byte("junk")},
		zipEntry{name: ".DS_Store", data: []byte("junk")},
		zipEntry{name: "notes.txt", data: []byte("hello")},
	)

	res := newTestImporter().Import(context.Background(), []FileInput{{Name: "bundle.zip", Data: archive}})
	require.Len(t, res.Drafts, 1)
	d := res.Drafts[0]
	assert.Equal(t, "Tomato Soup", d.Title)
	assert.Equal(t, []string{"Tomato Soup.jpg"}, d.ImageNames)
	require.Len(t, d.ImageDataURLs, 1)
	assert.Contains(t, d.ImageDataURLs[0], "data:image/jpeg;base64,")
	assert.Equal(t, "bundle.zip", d.Extra["archive"])

	require.Len(t, res.Images, 1)
	assert.Equal(t, "bundle.zip/photos/random.png", res.Images[0].Name)

	require.Len(t, res.Errors, 1)
	assert.Equal(t, "bundle.zip/notes.txt", res.Errors[0].File)
}

func TestImporterZipDepthLimit(t *testing.T) {
	innermost := buildZip(t, zipEntry{name: "a.json", data: []byte(`{"title": "Deep"}`)})
	middle := buildZip(t, zipEntry{name: "inner.zip", data: innermost})
	outer := buildZip(t, zipEntry{name: "middle.zip", data: middle})

	res := newTestImporter().Import(context.Background(), []FileInput{{Name: "outer.zip", Data: outer}})
	assert.Empty(t, res.Drafts)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "outer.zip/middle.zip/inner.zip", res.Errors[0].File)
	assert.Contains(t, res.Errors[0].Error, "nested deeper")
}
