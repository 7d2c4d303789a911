package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"recipe-manager/internal/infrastructure/config"
	"recipe-manager/internal/pkg/common"

	"github.com/meilisearch/meilisearch-go"
	"go.uber.org/zap"
)

const defaultIndexUID = "recipes"

// MeiliIndex Meilisearch 索引
type MeiliIndex struct {
	client meilisearch.ServiceManager
	index  meilisearch.IndexManager
	uid    string
}

// NewMeiliIndex 建立索引並設定可搜尋欄位；索引已存在時沿用
func NewMeiliIndex(cfg config.SearchConfig) *MeiliIndex {
	uid := cfg.Index
	if uid == "" {
		uid = defaultIndexUID
	}
	client := meilisearch.New(cfg.URL, meilisearch.WithAPIKey(cfg.APIKey))
	if _, err := client.CreateIndex(&meilisearch.IndexConfig{Uid: uid, PrimaryKey: "id"}); err != nil {
		common.LogDebug("建立搜尋索引失敗，可能已存在", zap.String("index", uid), zap.Error(err))
	}

	index := client.Index(uid)
	searchable := []string{"title", "ingredients", "tags"}
	if _, err := index.UpdateSearchableAttributes(&searchable); err != nil {
		common.LogWarn("設定可搜尋欄位失敗", zap.String("index", uid), zap.Error(err))
	}

	common.LogInfo("Meilisearch 索引已就緒", zap.String("url", cfg.URL), zap.String("index", uid))
	return &MeiliIndex{client: client, index: index, uid: uid}
}

// Upsert 以 id 為主鍵新增或覆蓋文件
func (m *MeiliIndex) Upsert(ctx context.Context, docs ...Document) error {
	if len(docs) == 0 {
		return nil
	}
	if _, err := m.index.AddDocuments(docs, nil); err != nil {
		return fmt.Errorf("index %d documents: %w", len(docs), err)
	}
	return nil
}

// Search 回傳命中的食譜 id，略過已刪除的文件
func (m *MeiliIndex) Search(ctx context.Context, query string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	res, err := m.index.Search(query, &meilisearch.SearchRequest{Limit: int64(limit)})
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	var docs []Document
	b, err := json.Marshal(res.Hits)
	if err != nil {
		return nil, fmt.Errorf("decode hits: %w", err)
	}
	if err := json.Unmarshal(b, &docs); err != nil {
		return nil, fmt.Errorf("decode hits: %w", err)
	}

	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		if !d.Deleted {
			ids = append(ids, d.ID)
		}
	}
	return ids, nil
}

// Ping 檢查 Meilisearch 健康狀態
func (m *MeiliIndex) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !m.client.IsHealthy() {
		return errors.New("meilisearch is not healthy")
	}
	return nil
}
