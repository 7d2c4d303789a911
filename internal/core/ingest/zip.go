package ingest

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"recipe-manager/internal/core/text"
)

// skipZipEntry 略過 macOS 資源檔與隱藏檔
func skipZipEntry(name string) bool {
	for _, part := range strings.Split(strings.ReplaceAll(name, "\\", "/"), "/") {
		if part == "__MACOSX" || strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}

// extractZip 先處理非圖片項目，再把圖片依檔名對應到標題相同的食譜；
// 對不到的圖片走 OCR，仍無法辨識者成為獨立圖片
func (i *Importer) extractZip(ctx context.Context, f FileInput, depth int) Result {
	var res Result
	if depth >= i.maxZipDepth {
		res.Fail(f.Name, fmt.Errorf("zip nested deeper than %d levels", i.maxZipDepth))
		return res
	}
	zr, err := zip.NewReader(bytes.NewReader(f.Data), int64(len(f.Data)))
	if err != nil {
		res.Fail(f.Name, fmt.Errorf("open zip: %w", err))
		return res
	}

	var docs, images []FileInput
	for _, zf := range zr.File {
		if zf.FileInfo().IsDir() || skipZipEntry(zf.Name) {
			continue
		}
		name := f.Name + "/" + zf.Name
		if len(docs)+len(images) >= i.maxZipFiles {
			res.Fail(f.Name, fmt.Errorf("more than %d entries, remaining skipped", i.maxZipFiles))
			break
		}
		if i.maxFileBytes > 0 && zf.UncompressedSize64 > uint64(i.maxFileBytes) {
			res.Fail(name, fmt.Errorf("%w: %d bytes", ErrTooLarge, zf.UncompressedSize64))
			continue
		}
		data, err := readZipFile(zf)
		if err != nil {
			res.Fail(name, fmt.Errorf("read entry: %w", err))
			continue
		}
		entry := FileInput{Name: name, Data: data}
		if IsImage(zf.Name) {
			images = append(images, entry)
		} else {
			docs = append(docs, entry)
		}
	}

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			res.Fail(doc.Name, err)
			continue
		}
		res.Merge(i.safeExtract(ctx, doc, depth+1))
	}

	bySlug := make(map[string]int, len(res.Drafts))
	for idx, d := range res.Drafts {
		if slug := text.Slug(d.Title); slug != "" {
			if _, dup := bySlug[slug]; !dup {
				bySlug[slug] = idx
			}
		}
	}
	for _, img := range images {
		if idx, ok := bySlug[text.Slug(img.Stem())]; ok {
			d := &res.Drafts[idx]
			d.ImageNames = append(d.ImageNames, path.Base(img.Name))
			d.ImageDataURLs = append(d.ImageDataURLs, DataURL(ImageMimeType(img.Name, img.Data), img.Data))
			continue
		}
		if err := ctx.Err(); err != nil {
			res.Fail(img.Name, err)
			continue
		}
		res.Merge(i.safeExtract(ctx, img, depth+1))
	}
	for idx := range res.Drafts {
		res.Drafts[idx].SetExtra("archive", path.Base(f.Name))
	}
	return res
}
