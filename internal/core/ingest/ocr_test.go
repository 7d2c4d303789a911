package ingest

import (
	"context"
	"errors"
	"sync"
	"testing"

	"recipe-manager/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRunner 依命令名稱回傳固定輸出
type fakeRunner struct {
	mu    sync.Mutex
	out   map[string]string
	err   error
	calls [][]string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, append([]string{name}, args...))
	if f.err != nil {
		return nil, []byte("boom"), f.err
	}
	return []byte(f.out[name]), nil, nil
}

const garlicBreadOCR = `Garlic Bread
Ingredients
1 baguette
2 tbsp butter
Method
1. Spread the butter over the bread.
2. Bake until crisp.
`

func TestOCRImageText(t *testing.T) {
	runner := &fakeRunner{out: map[string]string{"tesseract": "hello"}}
	ocr := NewOCRWithRunner(config.OCRConfig{Enabled: true}, runner)

	got, err := ocr.ImageText(context.Background(), pngHeader, ".png")
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
	require.Len(t, runner.calls, 1)
	assert.Equal(t, "tesseract", runner.calls[0][0])
	assert.Equal(t, []string{"stdout", "-l", "eng"}, runner.calls[0][2:])
}

func TestOCRPDFPageText(t *testing.T) {
	runner := &fakeRunner{out: map[string]string{"pdftoppm": "", "tesseract": "page text"}}
	ocr := NewOCRWithRunner(config.OCRConfig{Enabled: true, DPI: 150}, runner)

	got, err := ocr.PDFPageText(context.Background(), []byte("%PDF-1.4"), 3)
	require.NoError(t, err)
	assert.Equal(t, "page text", got)
	require.Len(t, runner.calls, 2)
	assert.Equal(t, []string{"pdftoppm", "-r", "150", "-png", "-f", "3", "-l", "3", "-singlefile"}, runner.calls[0][:9])
	assert.Equal(t, "tesseract", runner.calls[1][0])
}

func TestOCRDisabledAndFailure(t *testing.T) {
	var none *OCR
	_, err := none.ImageText(context.Background(), pngHeader, ".png")
	assert.ErrorIs(t, err, ErrOCRDisabled)
	assert.False(t, none.Available())
	assert.False(t, none.Installed())

	failing := NewOCRWithRunner(config.OCRConfig{Enabled: true}, &fakeRunner{err: errors.New("exit 1")})
	_, err = failing.ImageText(context.Background(), pngHeader, ".png")
	assert.ErrorContains(t, err, "tesseract")
}

func TestOCRInstalledIndependentOfEnabled(t *testing.T) {
	runner := &fakeRunner{out: map[string]string{"tesseract": "hello"}}
	disabled := NewOCRWithRunner(config.OCRConfig{}, runner)
	assert.False(t, disabled.Enabled())
	assert.False(t, disabled.Available())
	assert.True(t, disabled.Installed())

	got, err := disabled.ImageText(context.Background(), pngHeader, ".png")
	require.NoError(t, err)
	assert.Equal(t, "hello", got)

	missing := NewOCR(config.OCRConfig{Enabled: true, Tesseract: "/nonexistent/tesseract", Pdftoppm: "/nonexistent/pdftoppm"})
	assert.False(t, missing.Installed())
	assert.False(t, missing.Available())
	_, err = missing.ImageText(context.Background(), pngHeader, ".png")
	assert.ErrorIs(t, err, ErrOCRNotInstalled)
	_, err = missing.PDFPageText(context.Background(), []byte("%PDF-1.4"), 1)
	assert.ErrorIs(t, err, ErrOCRNotInstalled)
}

func TestImageExtractorRequiresEnabledOCR(t *testing.T) {
	runner := &fakeRunner{out: map[string]string{"tesseract": garlicBreadOCR}}
	ext := ImageExtractor{OCR: NewOCRWithRunner(config.OCRConfig{}, runner)}

	res := ext.Extract(context.Background(), FileInput{Name: "scan.png", Data: pngHeader})
	assert.Empty(t, res.Drafts)
	assert.Len(t, res.Images, 1)
	assert.Empty(t, runner.calls)
}

func TestImageExtractorRecognizesRecipe(t *testing.T) {
	runner := &fakeRunner{out: map[string]string{"tesseract": garlicBreadOCR}}
	ext := ImageExtractor{OCR: NewOCRWithRunner(config.OCRConfig{Enabled: true}, runner)}

	res := ext.Extract(context.Background(), FileInput{Name: "scan.png", Data: pngHeader})
	require.Len(t, res.Drafts, 1)
	assert.Empty(t, res.Images)

	d := res.Drafts[0]
	assert.Equal(t, SourceImage, d.Source)
	assert.Equal(t, "Garlic Bread", d.Title)
	assert.Equal(t, []string{"1 baguette", "2 tbsp butter"}, d.Ingredients)
	assert.Equal(t, []string{"Spread the butter over the bread.", "Bake until crisp."}, d.Instructions)
	assert.Equal(t, []string{"scan.png"}, d.ImageNames)
	assert.Len(t, d.ImageDataURLs, 1)
}

func TestImageExtractorKeepsUnrecognizedImages(t *testing.T) {
	noText := ImageExtractor{OCR: NewOCRWithRunner(config.OCRConfig{Enabled: true}, &fakeRunner{out: map[string]string{"tesseract": "a sunset"}})}
	res := noText.Extract(context.Background(), FileInput{Name: "sunset.jpg", Data: []byte{0xff, 0xd8}})
	assert.Empty(t, res.Drafts)
	require.Len(t, res.Images, 1)
	assert.Equal(t, "image/jpeg", res.Images[0].MimeType)

	res = ImageExtractor{}.Extract(context.Background(), FileInput{Name: "photo.png", Data: pngHeader})
	assert.Empty(t, res.Drafts)
	assert.Len(t, res.Images, 1)
	assert.Empty(t, res.Errors)
}
