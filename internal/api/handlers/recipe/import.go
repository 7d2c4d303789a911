package recipe

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"recipe-manager/internal/api/handlers"
	"recipe-manager/internal/core/ingest"
	"recipe-manager/internal/core/library"
	"recipe-manager/internal/core/pipeline"
	recipeService "recipe-manager/internal/core/recipe"
	"recipe-manager/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// multipartMemory 解析表單時保留在記憶體的上限，其餘寫入暫存檔
const multipartMemory = 32 << 20

// ImportURLRequest 網址匯入
type ImportURLRequest struct {
	URL string `json:"url" binding:"required"`
}

// ImportHandler 匯入處理器
type ImportHandler struct {
	pipeline *pipeline.Service
}

// NewImportHandler 創建匯入處理器
func NewImportHandler(p *pipeline.Service) *ImportHandler {
	return &ImportHandler{pipeline: p}
}

// ImportFiles 匯入多個上傳檔案（欄位 files[] 或 files）
func (h *ImportHandler) ImportFiles(c *gin.Context) {
	requestID := common.RequestID(c)

	form, err := c.MultipartForm()
	if err != nil {
		handlers.Fail(c, common.ErrInvalidRequest.Wrap(fmt.Errorf("parse multipart form: %w", err)))
		return
	}
	headers := append(form.File["files[]"], form.File["files"]...)
	if len(headers) == 0 {
		handlers.Fail(c, common.NewValidationError("no files uploaded; use the files[] field"))
		return
	}

	files, readErrs := collectUploads(headers)
	for _, fe := range readErrs {
		common.LogWarn("上傳檔案讀取失敗",
			zap.String("file", fe.File),
			zap.String("error", fe.Error),
			zap.String("request_id", requestID),
		)
	}
	if len(files) == 0 {
		c.JSON(http.StatusOK, &pipeline.Summary{
			Recipes: []recipeService.Recipe{},
			Images:  []library.GalleryImage{},
			Errors:  readErrs,
		})
		return
	}

	common.LogInfo("開始匯入檔案",
		zap.Int("files", len(files)),
		zap.String("request_id", requestID),
	)

	summary, err := h.pipeline.ImportFiles(c.Request.Context(), files)
	if err != nil {
		handlers.Fail(c, err)
		return
	}
	summary.Errors = append(summary.Errors, readErrs...)
	c.JSON(http.StatusOK, summary)
}

// ImportURL 抓取網頁並匯入
func (h *ImportHandler) ImportURL(c *gin.Context) {
	var req ImportURLRequest
	if !handlers.BindJSON(c, &req) {
		return
	}

	common.LogInfo("開始匯入網址",
		zap.String("url", req.URL),
		zap.String("request_id", common.RequestID(c)),
	)

	summary, err := h.pipeline.ImportURL(c.Request.Context(), req.URL)
	if err != nil {
		handlers.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Status 匯入佇列狀態
func (h *ImportHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.pipeline.QueueStatus())
}

// collectUploads 讀取所有上傳檔案；單一檔案失敗記為 FileError，其餘照常匯入
func collectUploads(headers []*multipart.FileHeader) ([]ingest.FileInput, []ingest.FileError) {
	files := make([]ingest.FileInput, 0, len(headers))
	var errs []ingest.FileError
	for _, fh := range headers {
		data, err := readUpload(fh)
		if err != nil {
			errs = append(errs, ingest.FileError{File: fh.Filename, Error: err.Error()})
			continue
		}
		files = append(files, ingest.FileInput{Name: fh.Filename, Data: data})
	}
	return files, errs
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read upload %s: %w", fh.Filename, err)
	}
	return data, nil
}
