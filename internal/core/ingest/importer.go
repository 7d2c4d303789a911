package ingest

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"recipe-manager/internal/infrastructure/config"
	"recipe-manager/internal/pkg/common"

	"go.uber.org/zap"
)

// ErrTooLarge 檔案超過大小限制
var ErrTooLarge = errors.New("file too large")

// Importer 依副檔名將檔案分派給對應的擷取器
type Importer struct {
	extractors   map[string]Extractor
	images       ImageExtractor
	maxFileBytes int64
	maxZipDepth  int
	maxZipFiles  int
}

// NewImporter 創建匯入器並註冊內建格式；PDF 等外部擷取器以 Register 加入
func NewImporter(cfg config.ImportConfig, ocr *OCR, scorer TitleScorer) *Importer {
	if cfg.MaxZipDepth <= 0 {
		cfg.MaxZipDepth = 2
	}
	if cfg.MaxZipFiles <= 0 {
		cfg.MaxZipFiles = 500
	}
	imp := &Importer{
		extractors:   make(map[string]Extractor),
		images:       ImageExtractor{OCR: ocr, Scorer: scorer},
		maxFileBytes: cfg.MaxFileBytes,
		maxZipDepth:  cfg.MaxZipDepth,
		maxZipFiles:  cfg.MaxZipFiles,
	}
	imp.Register(JSONExtractor{}, ".json", ".jsonld")
	imp.Register(HTMLExtractor{Scorer: scorer}, ".html", ".htm", ".xhtml")
	imp.Register(DOCXExtractor{Scorer: scorer}, ".docx")
	imp.Register(SheetExtractor{}, ".xlsx", ".xlsm", ".csv", ".tsv", ".xls")
	return imp
}

// Register 為副檔名註冊擷取器，後註冊者覆蓋
func (i *Importer) Register(e Extractor, exts ...string) {
	for _, ext := range exts {
		i.extractors[ext] = e
	}
}

// Import 逐一處理檔案；單一檔案失敗只記錄在結果中
func (i *Importer) Import(ctx context.Context, files []FileInput) Result {
	var res Result
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			res.Fail(f.Name, err)
			continue
		}
		start := time.Now()
		r := i.safeExtract(ctx, f, 0)
		var fileErr error
		if len(r.Errors) > 0 {
			fileErr = errors.New(r.Errors[0].Error)
		}
		common.LogImportFile(f.Name, len(r.Drafts), time.Since(start), fileErr)
		res.Merge(r)
	}
	return res
}

// safeExtract 攔截擷取器的 panic，避免中斷整批匯入
func (i *Importer) safeExtract(ctx context.Context, f FileInput, depth int) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			common.LogError("擷取器 panic",
				zap.String("file", f.Name),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()),
			)
			res = Result{}
			res.Fail(f.Name, fmt.Errorf("internal error: %v", r))
		}
	}()
	return i.extract(ctx, f, depth)
}

func (i *Importer) extract(ctx context.Context, f FileInput, depth int) Result {
	if i.maxFileBytes > 0 && int64(len(f.Data)) > i.maxFileBytes {
		var res Result
		res.Fail(f.Name, fmt.Errorf("%w: %d bytes", ErrTooLarge, len(f.Data)))
		return res
	}
	ext := f.Ext()
	switch {
	case ext == ".zip":
		return i.extractZip(ctx, f, depth)
	case IsImage(f.Name):
		return i.images.Extract(ctx, f)
	}
	if e, ok := i.extractors[ext]; ok {
		return e.Extract(ctx, f)
	}
	var res Result
	res.Fail(f.Name, fmt.Errorf("%w: %q", ErrUnsupported, ext))
	return res
}
