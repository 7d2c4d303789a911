// Package pdf 將食譜書 PDF 切分為多份食譜草稿：重建閱讀順序、必要時 OCR、
// 依目錄或候選頁分段，並把每頁詞頻累積到知識庫。
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"recipe-manager/internal/core/ingest"
	"recipe-manager/internal/core/knowledge"
	"recipe-manager/internal/core/text"
	"recipe-manager/internal/infrastructure/config"
	"recipe-manager/internal/pkg/common"

	pdfreader "github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// 頁面文字過少時改用 OCR
const (
	sparseWords = 12
	sparseLines = 3
	sparseChars = 60
)

// document 逐頁文字來源，頁碼從 1 起算
type document interface {
	NumPage() int
	PageText(i int) (string, error)
}

type pdfDocument struct {
	r *pdfreader.Reader
}

func openDocument(data []byte) (document, error) {
	r, err := pdfreader.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	return pdfDocument{r: r}, nil
}

func (d pdfDocument) NumPage() int { return d.r.NumPage() }

func (d pdfDocument) PageText(i int) (string, error) {
	p := d.r.Page(i)
	if p.V.IsNull() {
		return "", nil
	}
	return pageText(p)
}

// Extractor PDF 擷取器
type Extractor struct {
	ocr       *ingest.OCR
	knowledge *knowledge.Accumulator
	tocMin    int
	maxPages  int
	open      func(data []byte) (document, error)
}

// NewExtractor 創建 PDF 擷取器；ocr 與 kb 可為 nil
func NewExtractor(cfg config.PDFConfig, ocr *ingest.OCR, kb *knowledge.Accumulator) *Extractor {
	return &Extractor{
		ocr:       ocr,
		knowledge: kb,
		tocMin:    cfg.TOCMinEntries,
		maxPages:  cfg.MaxPages,
		open:      openDocument,
	}
}

// Extract 實作 ingest.Extractor
func (e *Extractor) Extract(ctx context.Context, file ingest.FileInput) ingest.Result {
	var res ingest.Result
	start := time.Now()

	pages, err := e.readPages(ctx, file.Data)
	if err != nil {
		res.Fail(file.Name, err)
		return res
	}
	drafts := e.Segment(pages, file.Stem())
	if e.knowledge != nil {
		e.knowledge.Prune()
	}
	for i := range drafts {
		drafts[i].SetExtra("file", file.Name)
	}
	if len(drafts) == 0 {
		res.Fail(file.Name, ingest.ErrNoRecipe)
	}
	res.Drafts = drafts

	common.LogInfo("PDF 分段完成",
		zap.String("file", file.Name),
		zap.Int("pages", len(pages)),
		zap.Int("recipes", len(drafts)),
		zap.Duration("耗時", time.Since(start)),
	)
	return res
}

// readPages 逐頁取得文字行；頁面之間檢查 ctx
func (e *Extractor) readPages(ctx context.Context, data []byte) ([][]string, error) {
	doc, err := e.open(data)
	if err != nil {
		return nil, err
	}
	n := doc.NumPage()
	if e.maxPages > 0 && n > e.maxPages {
		common.LogWarn("PDF 頁數超過上限，只處理前段", zap.Int("pages", n), zap.Int("max", e.maxPages))
		n = e.maxPages
	}

	ocrBudget := -1
	if e.ocr.MaxPagesPerDoc() > 0 {
		ocrBudget = e.ocr.MaxPagesPerDoc()
	}

	pages := make([][]string, 0, n)
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		raw, err := doc.PageText(i)
		if err != nil {
			common.LogWarn("PDF 頁面解析失敗", zap.Int("page", i), zap.Error(err))
		}
		if ocrBudget != 0 && e.needsOCR(raw) {
			if ocrBudget > 0 {
				ocrBudget--
			}
			ocrText, err := e.ocr.PDFPageText(ctx, data, i)
			switch {
			case err != nil:
				common.LogWarn("PDF 頁面 OCR 失敗", zap.Int("page", i), zap.Error(err))
			case len(strings.TrimSpace(ocrText)) > len(strings.TrimSpace(raw)):
				raw = ocrText
			}
		}
		if e.knowledge != nil {
			e.knowledge.AddPage(raw)
		}
		pages = append(pages, PageLines(raw))
	}
	return pages, nil
}

// needsOCR 啟用時處理文字稀少的頁面；完全沒有文字的頁面只要執行檔存在就處理
func (e *Extractor) needsOCR(raw string) bool {
	if !e.ocr.Installed() {
		return false
	}
	return strings.TrimSpace(raw) == "" || (e.ocr.Enabled() && sparse(raw))
}

// pageText 片段重建為行；內容串流損壞時 ledongthuc/pdf 會 panic
func pageText(p pdfreader.Page) (txt string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page content: %v", r)
		}
	}()
	content := p.Content()
	frags := make([]Fragment, 0, len(content.Text))
	for _, t := range content.Text {
		frags = append(frags, Fragment{X: t.X, Y: t.Y, W: t.W, FontSize: t.FontSize, S: t.S})
	}
	return strings.Join(Layout(frags), "\n"), nil
}

// PageLines 切行並去除前後空白，保留行內的欄位間距
func PageLines(raw string) []string {
	var lines []string
	for _, l := range strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n") {
		if l = strings.TrimSpace(text.StripInvisible(l)); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func sparse(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	return len(strings.Fields(trimmed)) < sparseWords ||
		len(PageLines(trimmed)) < sparseLines ||
		utf8.RuneCountInString(trimmed) < sparseChars
}

// Segment 依序嘗試目錄、前向掃描（不足兩份時改用反向）、整份文件三種策略，
// 並把採用的標題加入知識庫
func (e *Extractor) Segment(pages [][]string, fileStem string) []ingest.Draft {
	drafts, titles := e.segment(pages, fileStem)
	if e.knowledge != nil {
		for _, t := range titles {
			e.knowledge.AddTitle(t)
		}
	}
	return drafts
}

func (e *Extractor) segment(pages [][]string, fileStem string) ([]ingest.Draft, []string) {
	if len(pages) == 0 {
		return nil, nil
	}
	if entries, tocEnd := DetectTOC(pages, e.tocMin); len(entries) > 0 {
		spans := TOCSpans(pages, entries, tocEnd)
		if drafts, titles := e.draftsFromSpans(pages, spans, fileStem); len(drafts) > 0 {
			return drafts, titles
		}
	}

	drafts, titles := e.draftsFromSpans(pages, ForwardSpans(pages), fileStem)
	if len(drafts) < 2 {
		if reverse, rt := e.draftsFromSpans(pages, ReverseSpans(pages), fileStem); len(reverse) > len(drafts) {
			drafts, titles = reverse, rt
		}
	}
	if len(drafts) > 0 {
		return drafts, titles
	}

	whole := Span{Start: 0, End: len(pages), Strategy: StrategyDocument}
	seg := ingest.ParseSegment(spanLines(pages, whole, ""), e.scorer())
	if len(seg.Ingredients) < minDocIngredients || len(seg.Instructions) < minDocInstructions {
		return nil, nil
	}
	return []ingest.Draft{newDraft(seg, whole, fileStem)}, nonEmpty(seg.Title)
}

func (e *Extractor) draftsFromSpans(pages [][]string, spans []Span, fileStem string) ([]ingest.Draft, []string) {
	var drafts []ingest.Draft
	var titles []string
	for k, span := range spans {
		next := ""
		if k+1 < len(spans) {
			next = spans[k+1].Title
		}
		seg := ingest.ParseSegment(spanLines(pages, span, next), e.scorer())
		if len(seg.Ingredients) == 0 {
			continue
		}
		if span.Title != "" {
			seg.Title = span.Title
		}
		drafts = append(drafts, newDraft(seg, span, fileStem))
		titles = append(titles, nonEmpty(seg.Title)...)
	}
	return drafts, titles
}

func nonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	return []string{s}
}

// newDraft 沒有標題時以 "<檔名> p.<頁碼>" 代替
func newDraft(seg ingest.Segment, span Span, fileStem string) ingest.Draft {
	title := seg.Title
	if title == "" {
		title = fmt.Sprintf("%s p.%d", fileStem, span.Start+1)
	}
	d := ingest.Draft{
		Source:       ingest.SourcePDF,
		Title:        title,
		Ingredients:  seg.Ingredients,
		Instructions: seg.Instructions,
	}
	d.SetExtra("source", string(ingest.SourcePDF))
	d.SetExtra("pageStart", span.Start+1)
	d.SetExtra("pageEnd", span.End)
	d.SetExtra("strategy", span.Strategy)
	return d
}

// scorer nil 的 *Accumulator 不能放進介面
func (e *Extractor) scorer() ingest.TitleScorer {
	if e.knowledge == nil {
		return nil
	}
	return e.knowledge
}
