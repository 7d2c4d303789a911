package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"recipe-manager/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLFetcher(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/soup", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "recipe-test", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><script type="application/ld+json">
{"@type":"Recipe","name":"Miso Soup","recipeIngredient":["2 tbsp miso"],"recipeInstructions":[{"@type":"HowToStep","text":"Whisk miso into broth."}]}
</script></head><body></body></html>`))
	})
	mux.HandleFunc("/empty", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><p>Nothing here.</p></body></html>`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	fetcher := NewURLFetcher(config.FetchConfig{Timeout: 5 * time.Second, UserAgent: "recipe-test"}, nil)

	res := fetcher.Fetch(context.Background(), srv.URL+"/soup")
	require.Empty(t, res.Errors)
	require.Len(t, res.Drafts, 1)
	assert.Equal(t, "Miso Soup", res.Drafts[0].Title)
	assert.Equal(t, SourceURL, res.Drafts[0].Source)
	assert.Equal(t, srv.URL+"/soup", res.Drafts[0].Extra["sourceUrl"])

	res = fetcher.Fetch(context.Background(), srv.URL+"/missing")
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0].Error, "HTTP 404")

	res = fetcher.Fetch(context.Background(), srv.URL+"/empty")
	assert.Empty(t, res.Drafts)
	assert.Len(t, res.Errors, 1)

	res = fetcher.Fetch(context.Background(), "ftp://example.com/recipe")
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0].Error, "invalid url")
}
