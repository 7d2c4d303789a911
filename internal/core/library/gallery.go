package library

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"recipe-manager/internal/core/image"
	"recipe-manager/internal/infrastructure/storage"
	"recipe-manager/internal/pkg/common"

	"go.uber.org/zap"
)

// GalleryImage 圖庫中的圖片；二進位資料在 BlobStore，以相同 id 存取
type GalleryImage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	MimeType  string    `json:"mimeType"`
	Size      int       `json:"size"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (g GalleryImage) EntityID() string { return g.ID }

// BlobStore 圖片二進位儲存
type BlobStore interface {
	Put(ctx context.Context, blob storage.Blob) error
	Get(ctx context.Context, id string) (storage.Blob, error)
	Delete(ctx context.Context, id string) error
}

// Gallery 圖庫服務
type Gallery struct {
	images    *Store[GalleryImage]
	blobs     BlobStore
	inspector *image.Service
}

// NewGallery 載入圖片中繼資料
func NewGallery(ctx context.Context, kv storage.KV, blobs BlobStore, inspector *image.Service) (*Gallery, error) {
	images, err := NewStore(ctx, kv, "images", storage.KeyImages, func(v *GalleryImage, id string) { v.ID = id })
	if err != nil {
		return nil, err
	}
	return &Gallery{images: images, blobs: blobs, inspector: inspector}, nil
}

// Add 檢查圖片後寫入二進位資料與中繼資料
func (g *Gallery) Add(ctx context.Context, name string, data []byte, tags []string) (GalleryImage, error) {
	info, err := g.inspector.Inspect(data)
	if err != nil {
		return GalleryImage{}, err
	}
	img := GalleryImage{
		ID:        common.GenerateUUID(),
		Name:      strings.TrimSpace(name),
		MimeType:  info.MimeType,
		Size:      info.Size,
		Width:     info.Width,
		Height:    info.Height,
		Tags:      tags,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	if err := g.blobs.Put(ctx, storage.Blob{ID: img.ID, MimeType: img.MimeType, Data: data, CreatedAt: img.CreatedAt}); err != nil {
		return GalleryImage{}, fmt.Errorf("store image data: %w", err)
	}
	if img, err = g.images.Create(ctx, img); err != nil {
		// 中繼資料寫入失敗時移除孤立的二進位資料
		if derr := g.blobs.Delete(ctx, img.ID); derr != nil {
			common.LogWarn("清除圖片資料失敗", zap.String("id", img.ID), zap.Error(derr))
		}
		return GalleryImage{}, err
	}
	common.LogInfo("圖片已加入圖庫",
		zap.String("id", img.ID),
		zap.String("name", img.Name),
		zap.Int("width", img.Width),
		zap.Int("height", img.Height),
	)
	return img, nil
}

// AddDataURL 從 data URL 加入
func (g *Gallery) AddDataURL(ctx context.Context, name, dataURL string) (GalleryImage, error) {
	data, _, err := g.inspector.DecodeDataURL(dataURL)
	if err != nil {
		return GalleryImage{}, err
	}
	return g.Add(ctx, name, data, nil)
}

// AddFromURL 下載遠端圖片後加入
func (g *Gallery) AddFromURL(ctx context.Context, url string) (GalleryImage, error) {
	data, _, err := g.inspector.Fetch(ctx, url)
	if err != nil {
		return GalleryImage{}, err
	}
	name := url
	if i := strings.LastIndex(url, "/"); i >= 0 && i < len(url)-1 {
		name = url[i+1:]
	}
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	return g.Add(ctx, name, data, nil)
}

// List 列出所有圖片
func (g *Gallery) List(ctx context.Context) []GalleryImage {
	return g.images.List(ctx)
}

// Get 取得中繼資料
func (g *Gallery) Get(ctx context.Context, id string) (GalleryImage, error) {
	return g.images.Get(ctx, id)
}

// Raw 取得二進位資料
func (g *Gallery) Raw(ctx context.Context, id string) (storage.Blob, error) {
	if _, err := g.images.Get(ctx, id); err != nil {
		return storage.Blob{}, err
	}
	blob, err := g.blobs.Get(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return storage.Blob{}, fmt.Errorf("%w: image data %s", ErrNotFound, id)
	}
	return blob, err
}

// Delete 刪除中繼資料與二進位資料
func (g *Gallery) Delete(ctx context.Context, id string) error {
	if err := g.images.Delete(ctx, id); err != nil {
		return err
	}
	if err := g.blobs.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete image data: %w", err)
	}
	return nil
}
