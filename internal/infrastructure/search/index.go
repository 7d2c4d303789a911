// Package search 將食譜鏡像到全文搜尋索引。啟用時使用 Meilisearch，否則使用行程內索引。
package search

import (
	"context"
	"sort"
	"strings"
	"sync"

	"recipe-manager/internal/core/text"
	"recipe-manager/internal/infrastructure/config"
	"recipe-manager/internal/pkg/common"
)

// DefaultLimit 未指定筆數時的搜尋上限
const DefaultLimit = 20

// Document 索引中的食譜文件；已刪除的食譜以 Deleted 標記而不移除
type Document struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Ingredients []string `json:"ingredients,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Favorite    bool     `json:"favorite"`
	Deleted     bool     `json:"deleted"`
}

// Index 搜尋索引
type Index interface {
	Upsert(ctx context.Context, docs ...Document) error
	Search(ctx context.Context, query string, limit int) ([]string, error)
	Ping(ctx context.Context) error
}

// New 依設定建立索引
func New(cfg config.SearchConfig) Index {
	if !cfg.Enabled {
		common.LogInfo("搜尋索引使用記憶體模式")
		return NewMemoryIndex()
	}
	return NewMeiliIndex(cfg)
}

// MemoryIndex 行程內索引，以去變音小寫的子字串比對
type MemoryIndex struct {
	mu   sync.RWMutex
	docs map[string]Document
}

// NewMemoryIndex 創建記憶體索引
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{docs: make(map[string]Document)}
}

// Upsert 新增或覆蓋文件
func (m *MemoryIndex) Upsert(ctx context.Context, docs ...Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range docs {
		m.docs[d.ID] = d
	}
	return nil
}

// Search 每個查詢詞都必須出現；標題命中的排前面，同分依標題排序
func (m *MemoryIndex) Search(ctx context.Context, query string, limit int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	terms := strings.Fields(text.Fold(query))
	if len(terms) == 0 {
		return nil, nil
	}

	type hit struct {
		id, title string
		score     int
	}
	var hits []hit

	m.mu.RLock()
	for _, d := range m.docs {
		if d.Deleted {
			continue
		}
		title := text.Fold(d.Title)
		body := text.Fold(strings.Join(d.Ingredients, "\n") + "\n" + strings.Join(d.Tags, "\n"))
		score := 0
		for _, t := range terms {
			switch {
			case strings.Contains(title, t):
				score += 2
			case strings.Contains(body, t):
				score++
			default:
				score = -1
			}
			if score < 0 {
				break
			}
		}
		if score > 0 {
			hits = append(hits, hit{id: d.ID, title: title, score: score})
		}
	}
	m.mu.RUnlock()

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].title < hits[j].title
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}
	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.id
	}
	return ids, nil
}

// Ping 永遠可用
func (m *MemoryIndex) Ping(ctx context.Context) error {
	return ctx.Err()
}
