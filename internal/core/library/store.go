// Package library 保存食譜以外的獨立實體：圖庫、型錄、拼貼板、出菜流程、檢查報告與食譜集。
// 每種實體以 JSON 陣列存於各自的 app.<entity>.v1 鍵，彼此間以 id 參照但不驗證。
package library

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"recipe-manager/internal/infrastructure/storage"
	"recipe-manager/internal/pkg/common"

	"go.uber.org/zap"
)

// ErrNotFound 實體不存在
var ErrNotFound = errors.New("entity not found")

// Entity 可存入 Store 的實體
type Entity interface {
	EntityID() string
}

// validator 需要檢查欄位的實體
type validator interface {
	Validate() error
}

// Resource 不依型別操作實體，供 HTTP 層以名稱分派
type Resource interface {
	Name() string
	ListAny(ctx context.Context) []interface{}
	GetAny(ctx context.Context, id string) (interface{}, error)
	CreateFromJSON(ctx context.Context, body []byte) (interface{}, error)
	UpdateFromJSON(ctx context.Context, id string, body []byte) (interface{}, error)
	Delete(ctx context.Context, id string) error
}

// Store 單一實體類型的儲存，每次變更後整批寫回
type Store[T Entity] struct {
	mu    sync.RWMutex
	kv    storage.KV
	key   string
	name  string
	setID func(*T, string)
	items []T
}

// NewStore 載入指定鍵的實體陣列
func NewStore[T Entity](ctx context.Context, kv storage.KV, name, key string, setID func(*T, string)) (*Store[T], error) {
	s := &Store[T]{kv: kv, key: key, name: name, setID: setID}
	if _, err := storage.LoadJSON(ctx, kv, key, &s.items); err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	common.LogDebug("實體已載入", zap.String("entity", name), zap.Int("count", len(s.items)))
	return s, nil
}

// Name 實體名稱
func (s *Store[T]) Name() string {
	return s.name
}

// List 依建立順序列出
func (s *Store[T]) List(ctx context.Context) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Get 依 id 取得
func (s *Store[T]) Get(ctx context.Context, id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.items[i], nil
	}
	var zero T
	return zero, fmt.Errorf("%w: %s %s", ErrNotFound, s.name, id)
}

// Create 新增；id 空白時產生 uuid，id 已存在時覆蓋
func (s *Store[T]) Create(ctx context.Context, item T) (T, error) {
	if err := validate(item); err != nil {
		return item, err
	}
	id := strings.TrimSpace(item.EntityID())
	if id == "" {
		id = common.GenerateUUID()
	}
	s.setID(&item, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		s.items[i] = item
	} else {
		s.items = append(s.items, item)
	}
	return item, s.saveLocked(ctx)
}

// Update 以新內容取代，id 不變
func (s *Store[T]) Update(ctx context.Context, id string, item T) (T, error) {
	if err := validate(item); err != nil {
		return item, err
	}
	s.setID(&item, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return item, fmt.Errorf("%w: %s %s", ErrNotFound, s.name, id)
	}
	s.items[i] = item
	return item, s.saveLocked(ctx)
}

// Delete 刪除
func (s *Store[T]) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s %s", ErrNotFound, s.name, id)
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return s.saveLocked(ctx)
}

// ListAny 實作 Resource
func (s *Store[T]) ListAny(ctx context.Context) []interface{} {
	items := s.List(ctx)
	out := make([]interface{}, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}

// GetAny 實作 Resource
func (s *Store[T]) GetAny(ctx context.Context, id string) (interface{}, error) {
	return s.Get(ctx, id)
}

// CreateFromJSON 解析請求內容後新增，不接受未知欄位
func (s *Store[T]) CreateFromJSON(ctx context.Context, body []byte) (interface{}, error) {
	var item T
	if err := common.ParseJSONBytesStrict(body, &item); err != nil {
		return nil, common.NewValidationError(fmt.Sprintf("invalid %s: %v", s.name, err))
	}
	return s.Create(ctx, item)
}

// UpdateFromJSON 解析請求內容後更新
func (s *Store[T]) UpdateFromJSON(ctx context.Context, id string, body []byte) (interface{}, error) {
	var item T
	if err := common.ParseJSONBytesStrict(body, &item); err != nil {
		return nil, common.NewValidationError(fmt.Sprintf("invalid %s: %v", s.name, err))
	}
	return s.Update(ctx, id, item)
}

func (s *Store[T]) indexOf(id string) int {
	for i := range s.items {
		if s.items[i].EntityID() == id {
			return i
		}
	}
	return -1
}

func (s *Store[T]) saveLocked(ctx context.Context) error {
	if err := storage.SaveJSON(ctx, s.kv, s.key, s.items); err != nil {
		return fmt.Errorf("persist %s: %w", s.name, err)
	}
	return nil
}

func validate(item interface{}) error {
	if v, ok := item.(validator); ok {
		return v.Validate()
	}
	return nil
}
