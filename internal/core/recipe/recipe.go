// Package recipe 保存食譜並處理標題去重：匯入時重複的標題保留既有紀錄，
// 手動新增或更新時合併 extra 並沿用既有 id 與建立時間。
package recipe

import (
	"strings"
	"time"

	"recipe-manager/internal/core/ingest"
	"recipe-manager/internal/core/text"
	"recipe-manager/internal/infrastructure/search"
	"recipe-manager/internal/pkg/common"
)

// DefaultTitle 空標題的替代值
const DefaultTitle = "Untitled"

// MaxRating 評分上限
const MaxRating = 5

// Recipe 已整理的食譜
type Recipe struct {
	ID            string                 `json:"id"`
	Title         string                 `json:"title"`
	Ingredients   []string               `json:"ingredients,omitempty"`
	Instructions  []string               `json:"instructions,omitempty"`
	Tags          []string               `json:"tags,omitempty"`
	ImageNames    []string               `json:"imageNames,omitempty"`
	ImageDataURLs []string               `json:"imageDataUrls,omitempty"`
	Extra         map[string]interface{} `json:"extra,omitempty"`
	CreatedAt     time.Time              `json:"createdAt"`
	Favorite      bool                   `json:"favorite,omitempty"`
	Rating        int                    `json:"rating,omitempty"`
	DeletedAt     *time.Time             `json:"deletedAt,omitempty"`
}

// Deleted 是否已軟刪除
func (r Recipe) Deleted() bool {
	return r.DeletedAt != nil
}

// Key 去重用的標題鍵
func (r Recipe) Key() string {
	return text.TitleKey(r.Title)
}

// FromDraft 將草稿轉為尚未整理的食譜，來源格式記在 extra.source
func FromDraft(d ingest.Draft) Recipe {
	r := Recipe{
		Title:         d.Title,
		Ingredients:   d.Ingredients,
		Instructions:  d.Instructions,
		Tags:          d.Tags,
		ImageNames:    d.ImageNames,
		ImageDataURLs: d.ImageDataURLs,
		Extra:         copyExtra(d.Extra),
		Favorite:      d.Favorite,
		Rating:        d.Rating,
	}
	if d.Source != "" {
		if _, ok := r.Extra["source"]; !ok {
			if r.Extra == nil {
				r.Extra = make(map[string]interface{})
			}
			r.Extra["source"] = string(d.Source)
		}
	}
	return r
}

// Sanitize 整理食譜欄位，重複套用結果不變
func Sanitize(r Recipe) Recipe {
	out := r
	out.ID = strings.TrimSpace(r.ID)
	if out.ID == "" {
		out.ID = common.GenerateUUID()
	}
	if out.CreatedAt.IsZero() {
		out.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}

	out.Title = text.TitleCase(text.NormalizeLine(r.Title))
	if out.Title == "" {
		out.Title = DefaultTitle
	}

	out.Ingredients = cleanLines(r.Ingredients)
	out.Instructions = cleanLines(r.Instructions)
	out.Tags = cleanTags(r.Tags)
	out.ImageNames = uniqueNonEmpty(r.ImageNames)
	out.ImageDataURLs = uniqueNonEmpty(r.ImageDataURLs)
	out.Extra = copyExtra(r.Extra)

	switch {
	case out.Rating < 0:
		out.Rating = 0
	case out.Rating > MaxRating:
		out.Rating = MaxRating
	}
	return out
}

func cleanLines(lines []string) []string {
	var out []string
	for _, l := range lines {
		if l = text.NormalizeLine(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// cleanTags 小寫、去重，保留第一次出現的順序
func cleanTags(tags []string) []string {
	var out []string
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.ToLower(text.CollapseSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func uniqueNonEmpty(values []string) []string {
	var out []string
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// copyExtra 淺複製；空 map 回傳 nil
func copyExtra(extra map[string]interface{}) map[string]interface{} {
	if len(extra) == 0 {
		return nil
	}
	out := make(map[string]interface{}, len(extra))
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// mergeExtra 合併兩個 extra；override 為 true 時 incoming 覆蓋同名鍵
func mergeExtra(existing, incoming map[string]interface{}, override bool) map[string]interface{} {
	out := copyExtra(existing)
	for k, v := range incoming {
		if out == nil {
			out = make(map[string]interface{}, len(incoming))
		}
		if _, ok := out[k]; ok && !override {
			continue
		}
		out[k] = v
	}
	return out
}

func (r Recipe) document() search.Document {
	return search.Document{
		ID:          r.ID,
		Title:       r.Title,
		Ingredients: r.Ingredients,
		Tags:        r.Tags,
		Favorite:    r.Favorite,
		Deleted:     r.Deleted(),
	}
}
