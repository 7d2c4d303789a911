package image

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"strings"
	"time"

	"recipe-manager/internal/infrastructure/config"
	"recipe-manager/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	_ "image/gif"  // 支援 GIF
	_ "image/jpeg" // 支援 JPEG
	_ "image/png"  // 支援 PNG

	_ "golang.org/x/image/bmp"  // 支援 BMP
	_ "golang.org/x/image/tiff" // 支援 TIFF
	_ "golang.org/x/image/webp" // 支援 WebP
)

// DefaultMaxSizeBytes 未設定時的圖片大小上限
const DefaultMaxSizeBytes = 10 << 20

// Info 圖片基本資訊
type Info struct {
	Format   string `json:"format"`
	MimeType string `json:"mimeType"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Size     int    `json:"size"`
}

// Service 圖片檢查與下載服務
type Service struct {
	maxSizeBytes int64
	client       *resty.Client
}

// NewService 創建新的圖片處理服務
func NewService(cfg config.ImageConfig, fetch config.FetchConfig) *Service {
	maxSize := cfg.MaxSizeBytes
	if maxSize <= 0 {
		maxSize = DefaultMaxSizeBytes
	}
	timeout := fetch.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := resty.New().
		SetTimeout(timeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5))
	if fetch.UserAgent != "" {
		client.SetHeader("User-Agent", fetch.UserAgent)
	}
	return &Service{maxSizeBytes: maxSize, client: client}
}

// Inspect 檢查大小並讀取格式與尺寸，不解碼整張圖
func (s *Service) Inspect(data []byte) (Info, error) {
	if len(data) == 0 {
		return Info{}, common.ErrInvalidImageType.Wrap(fmt.Errorf("empty image"))
	}
	if int64(len(data)) > s.maxSizeBytes {
		return Info{}, common.ErrFileTooLarge.Wrap(
			fmt.Errorf("image size exceeds maximum limit of %d bytes", s.maxSizeBytes))
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Info{}, common.ErrInvalidImageType.Wrap(fmt.Errorf("failed to decode image: %w", err))
	}
	if !isSupportedFormat(format) {
		return Info{}, common.ErrInvalidImageType.Wrap(fmt.Errorf("unsupported image format: %s", format))
	}
	return Info{
		Format:   format,
		MimeType: "image/" + format,
		Width:    cfg.Width,
		Height:   cfg.Height,
		Size:     len(data),
	}, nil
}

// DecodeDataURL 解析 data:image/...;base64, 格式
func (s *Service) DecodeDataURL(dataURL string) ([]byte, Info, error) {
	if !strings.HasPrefix(dataURL, "data:image/") {
		return nil, Info{}, common.ErrInvalidImageType.Wrap(fmt.Errorf("invalid image data format"))
	}
	header, payload, ok := strings.Cut(dataURL, ",")
	if !ok || !strings.HasSuffix(header, ";base64") {
		return nil, Info{}, common.ErrInvalidImageType.Wrap(fmt.Errorf("invalid base64 data format"))
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, Info{}, common.ErrInvalidImageType.Wrap(fmt.Errorf("failed to decode base64 data: %w", err))
	}
	info, err := s.Inspect(data)
	if err != nil {
		return nil, Info{}, err
	}
	return data, info, nil
}

// Fetch 下載遠端圖片並檢查
func (s *Service) Fetch(ctx context.Context, url string) ([]byte, Info, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return nil, Info{}, common.ErrInvalidRequest.Wrap(fmt.Errorf("invalid image url %q", url))
	}

	resp, err := s.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, Info{}, common.ErrFetchFailed.Wrap(fmt.Errorf("failed to download image: %w", err))
	}
	if resp.IsError() {
		return nil, Info{}, common.ErrFetchFailed.Wrap(
			fmt.Errorf("failed to download image: status code %d", resp.StatusCode()))
	}

	data := resp.Body()
	info, err := s.Inspect(data)
	if err != nil {
		return nil, Info{}, err
	}
	common.LogDebug("遠端圖片已下載", zap.String("url", url), zap.Int("size", info.Size))
	return data, info, nil
}

// isSupportedFormat 檢查圖片格式是否支援
func isSupportedFormat(format string) bool {
	supportedFormats := map[string]bool{
		"jpeg": true,
		"png":  true,
		"gif":  true,
		"webp": true,
		"bmp":  true,
		"tiff": true,
	}
	return supportedFormats[format]
}
