package recipe

import (
	"bytes"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uploadHeaders(t *testing.T, files map[string]string) []*multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, content := range files {
		fw, err := mw.CreateFormFile("files[]", name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	form, err := multipart.NewReader(&buf, mw.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["files[]"]
}

func TestCollectUploadsKeepsGoingAfterReadFailure(t *testing.T) {
	headers := uploadHeaders(t, map[string]string{"soup.json": `{"title":"Soup"}`})
	// 沒有內容也沒有暫存檔的 header 開啟時必定失敗
	broken := &multipart.FileHeader{Filename: "broken.json"}
	headers = append([]*multipart.FileHeader{broken}, headers...)

	files, errs := collectUploads(headers)

	require.Len(t, files, 1)
	assert.Equal(t, "soup.json", files[0].Name)
	assert.Equal(t, `{"title":"Soup"}`, string(files[0].Data))

	require.Len(t, errs, 1)
	assert.Equal(t, "broken.json", errs[0].File)
	assert.Contains(t, errs[0].Error, "open upload broken.json")
}

func TestCollectUploadsAllReadable(t *testing.T) {
	files, errs := collectUploads(uploadHeaders(t, map[string]string{
		"a.json": `{}`,
		"b.csv":  "title\nSoup",
	}))
	assert.Len(t, files, 2)
	assert.Empty(t, errs)
}
