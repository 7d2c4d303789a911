package ingest

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"recipe-manager/internal/core/text"
	"recipe-manager/internal/infrastructure/config"
	"recipe-manager/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	readability "github.com/go-shiori/go-readability"
	"go.uber.org/zap"
)

// URLFetcher 抓取網頁並擷取食譜：JSON-LD、DOM 啟發式，最後以 readability 正文解析
type URLFetcher struct {
	client   *resty.Client
	scorer   TitleScorer
	maxBytes int64
}

// NewURLFetcher 創建抓取器
func NewURLFetcher(cfg config.FetchConfig, scorer TitleScorer) *URLFetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	client := resty.New().
		SetTimeout(timeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5)).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/ld+json;q=0.9,*/*;q=0.8")
	if cfg.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.UserAgent)
	}
	return &URLFetcher{client: client, scorer: scorer, maxBytes: cfg.MaxBytes}
}

// Fetch 抓取網址並回傳擷取結果，錯誤記錄於結果中
func (f *URLFetcher) Fetch(ctx context.Context, rawURL string) Result {
	var res Result
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		res.Fail(rawURL, fmt.Errorf("invalid url %q", rawURL))
		return res
	}

	start := time.Now()
	resp, err := f.client.R().SetContext(ctx).Get(u.String())
	if err != nil {
		res.Fail(rawURL, fmt.Errorf("fetch: %w", err))
		return res
	}
	if resp.IsError() {
		res.Fail(rawURL, fmt.Errorf("fetch: HTTP %d", resp.StatusCode()))
		return res
	}
	body := resp.Body()
	if f.maxBytes > 0 && int64(len(body)) > f.maxBytes {
		res.Fail(rawURL, fmt.Errorf("%w: %d bytes", ErrTooLarge, len(body)))
		return res
	}
	common.LogInfo("網頁抓取完成",
		zap.String("url", u.String()),
		zap.Int("bytes", len(body)),
		zap.Duration("耗時", time.Since(start)),
	)

	drafts, err := f.parse(body, u)
	if err != nil {
		res.Fail(rawURL, err)
		return res
	}
	for i := range drafts {
		drafts[i].Source = SourceURL
		drafts[i].SetExtra("sourceUrl", u.String())
	}
	res.Drafts = drafts
	return res
}

func (f *URLFetcher) parse(body []byte, u *url.URL) ([]Draft, error) {
	if strings.HasSuffix(strings.ToLower(u.Path), ".json") || bytes.HasPrefix(bytes.TrimSpace(body), []byte("{")) {
		if drafts, err := ParseJSONRecipes(body, false); err == nil && len(drafts) > 0 {
			return drafts, nil
		}
	}
	drafts, err := ParseHTMLRecipes(body, f.scorer)
	if err != nil {
		return nil, err
	}
	if len(drafts) > 0 {
		return drafts, nil
	}

	article, err := readability.FromReader(bytes.NewReader(body), u)
	if err != nil {
		return nil, fmt.Errorf("readability: %w", err)
	}
	seg := ParseSegment(text.SplitLines(article.TextContent), f.scorer)
	if len(seg.Ingredients) == 0 {
		return nil, ErrNoRecipe
	}
	d := Draft{
		Title:        text.NormalizeLine(article.Title),
		Ingredients:  seg.Ingredients,
		Instructions: seg.Instructions,
	}
	if d.Title == "" {
		d.Title = seg.Title
	}
	return []Draft{d}, nil
}
