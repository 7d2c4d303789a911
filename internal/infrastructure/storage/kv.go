// Package storage 提供應用狀態的鍵值持久化（記憶體或 Redis）與圖片二進位資料的 SQLite 儲存。
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"recipe-manager/internal/infrastructure/config"
	"recipe-manager/internal/pkg/common"

	"go.uber.org/zap"
)

// 版本化的狀態鍵
const (
	KeyRecipes     = "app.recipes.v1"
	KeyImages      = "app.images.v1"
	KeyLookBooks   = "app.lookbooks.v1"
	KeyTileBoards  = "app.tileboards.v1"
	KeyWorkflows   = "app.workflows.v1"
	KeyInspections = "app.inspections.v1"
	KeyCollections = "app.collections.v1"
	KeyKnowledge   = "kb:cook"
)

// ErrNotFound 鍵不存在
var ErrNotFound = errors.New("storage: key not found")

// KV 鍵值儲存
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// NewKV 依設定建立鍵值儲存
func NewKV(ctx context.Context, cfg config.StorageConfig) (KV, error) {
	switch cfg.Driver {
	case "", "memory":
		common.LogInfo("使用記憶體儲存")
		return NewMemoryKV(), nil
	case "redis":
		return NewRedisKV(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// LoadJSON 讀取鍵並解析 JSON；鍵不存在時回傳 false 且不修改 v
func LoadJSON(ctx context.Context, kv KV, key string, v interface{}) (bool, error) {
	data, err := kv.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// SaveJSON 將 v 序列化後寫入鍵
func SaveJSON(ctx context.Context, kv KV, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := kv.Set(ctx, key, data); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	common.LogDebug("狀態已寫入", zap.String("key", key), zap.Int("bytes", len(data)))
	return nil
}

// MemoryKV 行程內鍵值儲存
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryKV 創建記憶體鍵值儲存
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

// Get 讀取
func (m *MemoryKV) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Set 寫入
func (m *MemoryKV) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	buf := make([]byte, len(value))
	copy(buf, value)
	m.mu.Lock()
	m.data[key] = buf
	m.mu.Unlock()
	return nil
}

// Delete 刪除
func (m *MemoryKV) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

// Ping 永遠可用
func (m *MemoryKV) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close 無資源需釋放
func (m *MemoryKV) Close() error {
	return nil
}
