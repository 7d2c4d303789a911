package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"recipe-manager/internal/infrastructure/config"
	"recipe-manager/internal/pkg/common"

	"go.uber.org/zap"
)

var (
	// ErrOCRDisabled OCR 未啟用
	ErrOCRDisabled = errors.New("ocr disabled")
	// ErrOCRNotInstalled 找不到 tesseract 或 pdftoppm
	ErrOCRNotInstalled = errors.New("ocr binaries not found")
)

// Runner 執行外部命令
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// OCR 以 tesseract 辨識圖片、以 pdftoppm 將 PDF 頁面轉為圖片
type OCR struct {
	cfg    config.OCRConfig
	runner Runner
}

// NewOCR 創建 OCR；未設定的執行檔名稱使用預設值
func NewOCR(cfg config.OCRConfig) *OCR {
	return NewOCRWithRunner(cfg, execRunner{})
}

// NewOCRWithRunner 指定 Runner，測試用
func NewOCRWithRunner(cfg config.OCRConfig, runner Runner) *OCR {
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Lang == "" {
		cfg.Lang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &OCR{cfg: cfg, runner: runner}
}

// Enabled 設定啟用
func (o *OCR) Enabled() bool {
	return o != nil && o.cfg.Enabled
}

// MaxPagesPerDoc 單一文件最多 OCR 的頁數，0 表示不限
func (o *OCR) MaxPagesPerDoc() int {
	if o == nil {
		return 0
	}
	return o.cfg.MaxPagesPerDoc
}

// Available 啟用且 tesseract 可執行
func (o *OCR) Available() bool {
	return o.Enabled() && o.Installed()
}

// Installed tesseract 可執行，不論設定是否啟用
func (o *OCR) Installed() bool {
	return o.has(o.cfg.Tesseract)
}

func (o *OCR) has(names ...string) bool {
	if o == nil {
		return false
	}
	if _, ok := o.runner.(execRunner); !ok {
		return true
	}
	for _, name := range names {
		if _, err := exec.LookPath(name); err != nil {
			return false
		}
	}
	return true
}

func (o *OCR) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.cfg.Timeout > 0 {
		return context.WithTimeout(ctx, o.cfg.Timeout)
	}
	return context.WithCancel(ctx)
}

// ImageText 辨識圖片文字；ext 決定暫存檔副檔名。是否啟用由呼叫端決定
func (o *OCR) ImageText(ctx context.Context, data []byte, ext string) (string, error) {
	if o == nil {
		return "", ErrOCRDisabled
	}
	if !o.Installed() {
		return "", ErrOCRNotInstalled
	}
	dir, err := os.MkdirTemp("", "recipe-ocr-*")
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	if ext == "" {
		ext = ".png"
	}
	path := filepath.Join(dir, "image"+ext)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write temp image: %w", err)
	}
	return o.tesseract(ctx, path)
}

// PDFPageText 將 PDF 單頁（從 1 起算）轉成圖片後辨識
func (o *OCR) PDFPageText(ctx context.Context, pdf []byte, page int) (string, error) {
	if o == nil {
		return "", ErrOCRDisabled
	}
	if !o.has(o.cfg.Pdftoppm, o.cfg.Tesseract) {
		return "", ErrOCRNotInstalled
	}
	dir, err := os.MkdirTemp("", "recipe-pdf-ocr-*")
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	in := filepath.Join(dir, "doc.pdf")
	if err := os.WriteFile(in, pdf, 0o600); err != nil {
		return "", fmt.Errorf("write temp pdf: %w", err)
	}

	ctx, cancel := o.withTimeout(ctx)
	defer cancel()

	prefix := filepath.Join(dir, "page")
	n := strconv.Itoa(page)
	// -singlefile 讓輸出檔名固定為 prefix.png
	_, stderr, err := o.runner.Run(ctx, o.cfg.Pdftoppm,
		"-r", strconv.Itoa(o.cfg.DPI), "-png", "-f", n, "-l", n, "-singlefile", in, prefix)
	if err != nil {
		return "", fmt.Errorf("pdftoppm page %d: %w: %s", page, err, bytes.TrimSpace(stderr))
	}
	return o.tesseract(ctx, prefix+".png")
}

func (o *OCR) tesseract(ctx context.Context, path string) (string, error) {
	ctx, cancel := o.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	stdout, stderr, err := o.runner.Run(ctx, o.cfg.Tesseract, path, "stdout", "-l", o.cfg.Lang)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, bytes.TrimSpace(stderr))
	}
	common.LogDebug("OCR 完成",
		zap.Int("chars", len(stdout)),
		zap.Duration("duration", time.Since(start)),
	)
	return string(stdout), nil
}
