package image

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"recipe-manager/internal/infrastructure/config"
	"recipe-manager/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestInspect(t *testing.T) {
	svc := NewService(config.ImageConfig{}, config.FetchConfig{})
	data := testPNG(t, 4, 3)

	info, err := svc.Inspect(data)
	require.NoError(t, err)
	assert.Equal(t, Info{Format: "png", MimeType: "image/png", Width: 4, Height: 3, Size: len(data)}, info)

	_, err = svc.Inspect([]byte("not an image"))
	var ce *common.CustomError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, common.ErrInvalidImageType.Code, ce.Code)

	small := NewService(config.ImageConfig{MaxSizeBytes: 10}, config.FetchConfig{})
	_, err = small.Inspect(data)
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, common.ErrFileTooLarge.Code, ce.Code)
}

func TestDecodeDataURL(t *testing.T) {
	svc := NewService(config.ImageConfig{}, config.FetchConfig{})
	data := testPNG(t, 2, 2)

	got, info, err := svc.DecodeDataURL("data:image/png;base64," + base64.StdEncoding.EncodeToString(data))
	require.NoError(t, err)
	assert.Equal(t, data, got)
	assert.Equal(t, 2, info.Width)

	_, _, err = svc.DecodeDataURL("data:text/plain;base64,aGVsbG8=")
	assert.Error(t, err)
	_, _, err = svc.DecodeDataURL("data:image/png,raw")
	assert.Error(t, err)
}

func TestFetch(t *testing.T) {
	data := testPNG(t, 5, 5)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/photo.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	svc := NewService(config.ImageConfig{}, config.FetchConfig{})
	got, info, err := svc.Fetch(context.Background(), srv.URL+"/photo.png")
	require.NoError(t, err)
	assert.Equal(t, data, got)
	assert.Equal(t, 5, info.Height)

	_, _, err = svc.Fetch(context.Background(), srv.URL+"/missing.png")
	var ce *common.CustomError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, common.ErrFetchFailed.Code, ce.Code)

	_, _, err = svc.Fetch(context.Background(), "file:///etc/passwd")
	assert.Error(t, err)
}
