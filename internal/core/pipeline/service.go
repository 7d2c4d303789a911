// Package pipeline 串接匯入流程：佇列排程、格式擷取、食譜去重寫入、未歸屬圖片存入圖庫，
// 並在每次匯入後保存累積的知識詞彙。
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"recipe-manager/internal/core/ingest"
	"recipe-manager/internal/core/knowledge"
	"recipe-manager/internal/core/library"
	"recipe-manager/internal/core/queue"
	"recipe-manager/internal/core/recipe"
	"recipe-manager/internal/infrastructure/storage"
	"recipe-manager/internal/pkg/common"

	"go.uber.org/zap"
)

// Summary 一次匯入的結果
type Summary struct {
	Added      int                    `json:"added"`
	Duplicates int                    `json:"duplicates"`
	Recipes    []recipe.Recipe        `json:"recipes"`
	Images     []library.GalleryImage `json:"images"`
	Errors     []ingest.FileError     `json:"errors"`
}

// Service 匯入服務
type Service struct {
	queue     *queue.Manager
	importer  *ingest.Importer
	fetcher   *ingest.URLFetcher
	recipes   *recipe.Service
	gallery   *library.Gallery
	knowledge *knowledge.Accumulator
	kv        storage.KV
}

// Deps 匯入服務的依賴；Gallery、Fetcher 與 Knowledge 可為 nil
type Deps struct {
	Queue     *queue.Manager
	Importer  *ingest.Importer
	Fetcher   *ingest.URLFetcher
	Recipes   *recipe.Service
	Gallery   *library.Gallery
	Knowledge *knowledge.Accumulator
	KV        storage.KV
}

// NewService 創建匯入服務
func NewService(d Deps) *Service {
	return &Service{
		queue:     d.Queue,
		importer:  d.Importer,
		fetcher:   d.Fetcher,
		recipes:   d.Recipes,
		gallery:   d.Gallery,
		knowledge: d.Knowledge,
		kv:        d.KV,
	}
}

// ImportFiles 排入佇列並等待整批檔案匯入完成
func (s *Service) ImportFiles(ctx context.Context, files []ingest.FileInput) (*Summary, error) {
	if len(files) == 0 {
		return nil, common.NewValidationError("no files to import")
	}
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	return s.submit(ctx, "files:"+strings.Join(names, ","), func(ctx context.Context) ingest.Result {
		return s.importer.Import(ctx, files)
	})
}

// ImportURL 抓取網址並匯入
func (s *Service) ImportURL(ctx context.Context, rawURL string) (*Summary, error) {
	if s.fetcher == nil {
		return nil, common.ErrNotImplemented.Wrap(fmt.Errorf("url import is disabled"))
	}
	if strings.TrimSpace(rawURL) == "" {
		return nil, common.NewValidationError("url is required")
	}
	return s.submit(ctx, "url:"+rawURL, func(ctx context.Context) ingest.Result {
		return s.fetcher.Fetch(ctx, rawURL)
	})
}

func (s *Service) submit(ctx context.Context, name string, extract func(ctx context.Context) ingest.Result) (*Summary, error) {
	v, err := s.queue.Submit(ctx, name, func(ctx context.Context) (interface{}, error) {
		return s.apply(ctx, extract(ctx))
	})
	if err != nil {
		return nil, err
	}
	return v.(*Summary), nil
}

// apply 將擷取結果寫入食譜與圖庫
func (s *Service) apply(ctx context.Context, res ingest.Result) (*Summary, error) {
	summary := &Summary{
		Recipes: []recipe.Recipe{},
		Images:  []library.GalleryImage{},
		Errors:  append([]ingest.FileError{}, res.Errors...),
	}

	imported, err := s.recipes.Import(ctx, res.Drafts)
	if err != nil {
		return nil, fmt.Errorf("store recipes: %w", err)
	}
	summary.Added = imported.Added
	summary.Duplicates = imported.Duplicates
	summary.Recipes = imported.Recipes

	for _, img := range res.Images {
		if s.gallery == nil {
			break
		}
		added, err := s.gallery.Add(ctx, img.Name, img.Data, nil)
		if err != nil {
			summary.Errors = append(summary.Errors, ingest.FileError{File: img.Name, Error: err.Error()})
			continue
		}
		summary.Images = append(summary.Images, added)
	}

	if s.knowledge != nil && s.kv != nil {
		if err := s.knowledge.Save(ctx, s.kv); err != nil {
			common.LogWarn("知識詞彙保存失敗", zap.Error(err))
		}
	}

	common.LogInfo("匯入結果",
		zap.Int("added", summary.Added),
		zap.Int("duplicates", summary.Duplicates),
		zap.Int("images", len(summary.Images)),
		zap.Int("errors", len(summary.Errors)),
	)
	return summary, nil
}

// QueueStatus 佇列狀態
func (s *Service) QueueStatus() *queue.Status {
	return s.queue.Status()
}
