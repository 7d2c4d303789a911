package pipeline

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	imagesvc "recipe-manager/internal/core/image"
	"recipe-manager/internal/core/ingest"
	"recipe-manager/internal/core/knowledge"
	"recipe-manager/internal/core/library"
	"recipe-manager/internal/core/queue"
	"recipe-manager/internal/core/recipe"
	"recipe-manager/internal/infrastructure/config"
	"recipe-manager/internal/infrastructure/search"
	"recipe-manager/internal/infrastructure/storage"
	"recipe-manager/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc     *Service
	kv      *storage.MemoryKV
	recipes *recipe.Service
	gallery *library.Gallery
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	kv := storage.NewMemoryKV()

	recipes, err := recipe.NewService(ctx, kv, search.NewMemoryIndex())
	require.NoError(t, err)
	blobs, err := storage.OpenBlobStore(ctx, filepath.Join(t.TempDir(), "blobs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = blobs.Close() })
	gallery, err := library.NewGallery(ctx, kv, blobs, imagesvc.NewService(config.ImageConfig{}, config.FetchConfig{}))
	require.NoError(t, err)

	kb := knowledge.NewAccumulator(0)
	q := queue.NewManager(config.QueueConfig{MaxSize: 4})
	t.Cleanup(q.Close)

	svc := NewService(Deps{
		Queue:     q,
		Importer:  ingest.NewImporter(config.ImportConfig{}, nil, kb),
		Fetcher:   ingest.NewURLFetcher(config.FetchConfig{}, kb),
		Recipes:   recipes,
		Gallery:   gallery,
		Knowledge: kb,
		KV:        kv,
	})
	return fixture{svc: svc, kv: kv, recipes: recipes, gallery: gallery}
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 3, 3))))
	return buf.Bytes()
}

func TestImportFiles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	summary, err := f.svc.ImportFiles(ctx, []ingest.FileInput{
		{Name: "soup.json", Data: []byte(`{"title":"Tomato Soup","ingredients":["4 tomatoes"],"instructions":["Simmer."]}`)},
		{Name: "soup-copy.json", Data: []byte(`{"title":"tomato soup","ingredients":["5 tomatoes"]}`)},
		{Name: "photo.png", Data: pngBytes(t)},
		{Name: "notes.txt", Data: []byte("hello")},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Added)
	assert.Equal(t, 1, summary.Duplicates)
	require.Len(t, summary.Recipes, 1)
	assert.Equal(t, "Tomato Soup", summary.Recipes[0].Title)
	require.Len(t, summary.Images, 1)
	assert.Equal(t, "photo.png", summary.Images[0].Name)
	require.Len(t, summary.Errors, 1)
	assert.Equal(t, "notes.txt", summary.Errors[0].File)

	assert.Equal(t, 1, f.recipes.Count())
	assert.Len(t, f.gallery.List(ctx), 1)

	_, err = f.kv.Get(ctx, storage.KeyKnowledge)
	assert.NoError(t, err)
}

func TestImportFilesRequiresInput(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.ImportFiles(context.Background(), nil)
	assert.True(t, common.IsValidationError(err))
}

func TestImportURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head><script type="application/ld+json">
{"@type":"Recipe","name":"Garlic Bread","recipeIngredient":["1 baguette","3 cloves garlic"],"recipeInstructions":"Bake until crisp."}
</script></head></html>`))
	}))
	defer srv.Close()

	f := newFixture(t)
	summary, err := f.svc.ImportURL(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Added)
	assert.Equal(t, srv.URL, summary.Recipes[0].Extra["sourceUrl"])

	_, err = f.svc.ImportURL(context.Background(), " ")
	assert.True(t, common.IsValidationError(err))
}
