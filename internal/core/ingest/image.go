package ingest

import (
	"context"
	"errors"

	"recipe-manager/internal/core/text"
	"recipe-manager/internal/pkg/common"

	"go.uber.org/zap"
)

// ImageExtractor 以 OCR 從圖片取得食譜；無法辨識時圖片保留為獨立圖片
type ImageExtractor struct {
	OCR    *OCR
	Scorer TitleScorer
}

// Extract 實作 Extractor
func (e ImageExtractor) Extract(ctx context.Context, file FileInput) Result {
	var res Result
	img := Image{Name: file.Name, MimeType: ImageMimeType(file.Name, file.Data), Data: file.Data}

	d, err := e.recipeFromImage(ctx, file)
	if err != nil {
		if !errors.Is(err, ErrOCRDisabled) && !errors.Is(err, ErrNoRecipe) {
			common.LogWarn("圖片 OCR 失敗", zap.String("file", file.Name), zap.Error(err))
		}
		res.Images = append(res.Images, img)
		return res
	}
	d.ImageNames = []string{file.Name}
	d.ImageDataURLs = []string{img.DataURL()}
	res.Drafts = append(res.Drafts, d)
	return res
}

// recipeFromImage OCR 文字需有食材或步驟才視為食譜
func (e ImageExtractor) recipeFromImage(ctx context.Context, file FileInput) (Draft, error) {
	if e.OCR == nil || !e.OCR.Available() {
		return Draft{}, ErrOCRDisabled
	}
	raw, err := e.OCR.ImageText(ctx, file.Data, file.Ext())
	if err != nil {
		return Draft{}, err
	}
	seg := ParseSegment(text.SplitLines(raw), e.Scorer)
	if len(seg.Ingredients) == 0 {
		return Draft{}, ErrNoRecipe
	}
	d := Draft{
		Source:       SourceImage,
		Title:        seg.Title,
		Ingredients:  seg.Ingredients,
		Instructions: seg.Instructions,
	}
	if d.Title == "" {
		d.Title = text.TitleCase(file.Stem())
	}
	d.SetExtra("ocr", true)
	return d, nil
}
