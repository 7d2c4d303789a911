package library

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"recipe-manager/internal/api/handlers"
	libraryService "recipe-manager/internal/core/library"
	"recipe-manager/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AddImageRequest 以 JSON 加入圖片：data URL 或遠端網址擇一
type AddImageRequest struct {
	Name    string `json:"name"`
	DataURL string `json:"dataUrl"`
	URL     string `json:"url"`
}

// ImageHandler 圖庫處理器
type ImageHandler struct {
	gallery *libraryService.Gallery
}

// NewImageHandler 創建圖庫處理器
func NewImageHandler(gallery *libraryService.Gallery) *ImageHandler {
	return &ImageHandler{gallery: gallery}
}

// Upload 加入圖片；multipart 欄位 file，或 JSON 的 dataUrl / url
func (h *ImageHandler) Upload(c *gin.Context) {
	var (
		img libraryService.GalleryImage
		err error
	)
	ctx := c.Request.Context()

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, ferr := c.FormFile("file")
		if ferr != nil {
			handlers.Fail(c, common.NewValidationError("file is required"))
			return
		}
		f, ferr := fh.Open()
		if ferr != nil {
			handlers.Fail(c, common.ErrInvalidRequest.Wrap(ferr))
			return
		}
		data, ferr := io.ReadAll(f)
		f.Close()
		if ferr != nil {
			handlers.Fail(c, common.ErrInvalidRequest.Wrap(fmt.Errorf("read upload: %w", ferr)))
			return
		}
		var tags []string
		for _, t := range c.PostFormArray("tags") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
		img, err = h.gallery.Add(ctx, fh.Filename, data, tags)
	} else {
		var req AddImageRequest
		if !handlers.BindJSON(c, &req) {
			return
		}
		switch {
		case req.DataURL != "":
			img, err = h.gallery.AddDataURL(ctx, req.Name, req.DataURL)
		case req.URL != "":
			img, err = h.gallery.AddFromURL(ctx, req.URL)
		default:
			err = common.NewValidationError("dataUrl or url is required")
		}
	}
	if err != nil {
		handlers.Fail(c, err)
		return
	}

	common.LogInfo("圖片已加入圖庫",
		zap.String("id", img.ID),
		zap.String("name", img.Name),
		zap.Int("size", img.Size),
	)
	c.JSON(http.StatusCreated, img)
}

// List 列出圖片中繼資料
func (h *ImageHandler) List(c *gin.Context) {
	images := h.gallery.List(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"images": images, "total": len(images)})
}

// Get 取得中繼資料
func (h *ImageHandler) Get(c *gin.Context) {
	img, err := h.gallery.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handlers.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, img)
}

// Raw 輸出圖片二進位資料
func (h *ImageHandler) Raw(c *gin.Context) {
	blob, err := h.gallery.Raw(c.Request.Context(), c.Param("id"))
	if err != nil {
		handlers.Fail(c, err)
		return
	}
	c.Header("Cache-Control", "private, max-age=86400")
	c.Data(http.StatusOK, blob.MimeType, blob.Data)
}

// Delete 刪除圖片
func (h *ImageHandler) Delete(c *gin.Context) {
	if err := h.gallery.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handlers.Fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
