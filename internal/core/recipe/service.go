package recipe

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"recipe-manager/internal/core/ingest"
	"recipe-manager/internal/infrastructure/search"
	"recipe-manager/internal/infrastructure/storage"
	"recipe-manager/internal/pkg/common"

	"go.uber.org/zap"
)

var (
	// ErrNotFound 食譜不存在
	ErrNotFound = errors.New("recipe not found")
	// ErrConflict 已有相同標題的食譜
	ErrConflict = errors.New("recipe with the same title already exists")
)

// ImportSummary 匯入結果
type ImportSummary struct {
	Added      int      `json:"added"`
	Duplicates int      `json:"duplicates"`
	Recipes    []Recipe `json:"recipes"`
}

// Service 食譜儲存服務；每次變更後整批寫回 app.recipes.v1
type Service struct {
	mu      sync.RWMutex
	kv      storage.KV
	index   search.Index
	recipes []Recipe
}

// NewService 載入既有食譜並重建搜尋索引；index 可為 nil
func NewService(ctx context.Context, kv storage.KV, index search.Index) (*Service, error) {
	s := &Service{kv: kv, index: index}
	if _, err := storage.LoadJSON(ctx, kv, storage.KeyRecipes, &s.recipes); err != nil {
		return nil, fmt.Errorf("load recipes: %w", err)
	}
	for i := range s.recipes {
		s.recipes[i] = Sanitize(s.recipes[i])
	}
	s.mirror(ctx, s.recipes...)
	common.LogInfo("食譜已載入", zap.Int("count", len(s.recipes)))
	return s, nil
}

// Import 匯入草稿；標題已存在時保留既有食譜，只補上缺少的 extra 鍵
func (s *Service) Import(ctx context.Context, drafts []ingest.Draft) (ImportSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.snapshotLocked()
	summary := ImportSummary{Recipes: []Recipe{}}
	var touched []Recipe
	for _, d := range drafts {
		r := Sanitize(FromDraft(d))
		if i := s.liveIndexByKey(r.Key(), ""); i >= 0 {
			s.recipes[i].Extra = mergeExtra(s.recipes[i].Extra, r.Extra, false)
			touched = append(touched, s.recipes[i])
			summary.Duplicates++
			common.LogDebug("略過重複食譜", zap.String("title", r.Title), zap.String("existing", s.recipes[i].ID))
			continue
		}
		s.recipes = append(s.recipes, r)
		touched = append(touched, r)
		summary.Recipes = append(summary.Recipes, r)
		summary.Added++
	}
	if len(touched) == 0 {
		return summary, nil
	}
	if err := s.commitLocked(ctx, prev); err != nil {
		return ImportSummary{Recipes: []Recipe{}}, err
	}
	s.mirror(ctx, touched...)

	common.LogInfo("食譜匯入完成",
		zap.Int("added", summary.Added),
		zap.Int("duplicates", summary.Duplicates),
	)
	return summary, nil
}

// Add 新增食譜；標題與既有食譜相同時合併進既有紀錄
func (s *Service) Add(ctx context.Context, r Recipe) (Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r.ID = ""
	r.DeletedAt = nil
	r = Sanitize(r)
	prev := s.snapshotLocked()
	if i := s.liveIndexByKey(r.Key(), ""); i >= 0 {
		merged := mergeInto(s.recipes[i], r)
		s.recipes[i] = merged
		r = merged
	} else {
		s.recipes = append(s.recipes, r)
	}
	if err := s.commitLocked(ctx, prev); err != nil {
		return Recipe{}, err
	}
	s.mirror(ctx, r)
	return r, nil
}

// Update 更新食譜內容；改名後與另一份食譜同標題時，併入那一份並移除原紀錄
func (s *Service) Update(ctx context.Context, id string, r Recipe) (Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexByID(id)
	if i < 0 || s.recipes[i].Deleted() {
		return Recipe{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	current := s.recipes[i]
	r.ID = current.ID
	r.CreatedAt = current.CreatedAt
	r.DeletedAt = nil
	r = Sanitize(r)

	prev := s.snapshotLocked()
	removed := ""
	if j := s.liveIndexByKey(r.Key(), current.ID); j >= 0 {
		r.Extra = mergeExtra(current.Extra, r.Extra, true)
		merged := mergeInto(s.recipes[j], r)
		s.recipes[j] = merged
		s.recipes = append(s.recipes[:i], s.recipes[i+1:]...)
		removed = current.ID
		r = merged
	} else {
		r.Extra = mergeExtra(current.Extra, r.Extra, true)
		s.recipes[i] = r
	}
	if err := s.commitLocked(ctx, prev); err != nil {
		return Recipe{}, err
	}
	if removed != "" {
		s.mirror(ctx, tombstone(removed))
		common.LogInfo("更新後標題重複，已合併", zap.String("from", removed), zap.String("into", r.ID))
	}
	s.mirror(ctx, r)
	return r, nil
}

// mergeInto incoming 的內容覆蓋 existing，保留 existing 的 id 與建立時間，extra 合併
func mergeInto(existing, incoming Recipe) Recipe {
	out := incoming
	out.ID = existing.ID
	out.CreatedAt = existing.CreatedAt
	out.DeletedAt = nil
	out.Extra = mergeExtra(existing.Extra, incoming.Extra, true)
	return out
}

// Get 依 id 取得（含已刪除）
func (s *Service) Get(ctx context.Context, id string) (Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexByID(id); i >= 0 {
		return s.recipes[i], nil
	}
	return Recipe{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// List 依建立時間由新到舊列出
func (s *Service) List(ctx context.Context, includeDeleted bool) []Recipe {
	s.mu.RLock()
	out := make([]Recipe, 0, len(s.recipes))
	for _, r := range s.recipes {
		if includeDeleted || !r.Deleted() {
			out = append(out, r)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// Search 以搜尋索引查詢，只回傳仍存在且未刪除的食譜
func (s *Service) Search(ctx context.Context, query string, limit int) ([]Recipe, error) {
	if s.index == nil {
		return nil, errors.New("search index is not configured")
	}
	ids, err := s.index.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Recipe, 0, len(ids))
	for _, id := range ids {
		if i := s.indexByID(id); i >= 0 && !s.recipes[i].Deleted() {
			out = append(out, s.recipes[i])
		}
	}
	return out, nil
}

// Delete 軟刪除；已刪除時不做任何事
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.mutate(ctx, id, func(r *Recipe) error {
		if r.Deleted() {
			return nil
		}
		now := time.Now().UTC().Truncate(time.Second)
		r.DeletedAt = &now
		return nil
	})
}

// Restore 還原軟刪除的食譜；已有同標題的食譜時回傳 ErrConflict
func (s *Service) Restore(ctx context.Context, id string) (Recipe, error) {
	var restored Recipe
	err := s.mutate(ctx, id, func(r *Recipe) error {
		if r.Deleted() {
			if j := s.liveIndexByKey(r.Key(), r.ID); j >= 0 {
				return fmt.Errorf("%w: %q", ErrConflict, r.Title)
			}
			r.DeletedAt = nil
		}
		restored = *r
		return nil
	})
	return restored, err
}

// SetFavorite 設定最愛
func (s *Service) SetFavorite(ctx context.Context, id string, favorite bool) (Recipe, error) {
	var updated Recipe
	err := s.mutate(ctx, id, func(r *Recipe) error {
		if r.Deleted() {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		r.Favorite = favorite
		updated = *r
		return nil
	})
	return updated, err
}

// SetRating 設定評分，0 到 5
func (s *Service) SetRating(ctx context.Context, id string, rating int) (Recipe, error) {
	if rating < 0 || rating > MaxRating {
		return Recipe{}, common.NewValidationError(fmt.Sprintf("rating must be between 0 and %d", MaxRating))
	}
	var updated Recipe
	err := s.mutate(ctx, id, func(r *Recipe) error {
		if r.Deleted() {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		r.Rating = rating
		updated = *r
		return nil
	})
	return updated, err
}

// Purge 永久刪除
func (s *Service) Purge(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexByID(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	prev := s.snapshotLocked()
	s.recipes = append(s.recipes[:i], s.recipes[i+1:]...)
	if err := s.commitLocked(ctx, prev); err != nil {
		return err
	}
	s.mirror(ctx, tombstone(id))
	return nil
}

// Count 未刪除的食譜數
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, r := range s.recipes {
		if !r.Deleted() {
			n++
		}
	}
	return n
}

func (s *Service) mutate(ctx context.Context, id string, fn func(r *Recipe) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexByID(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	r := s.recipes[i]
	if err := fn(&r); err != nil {
		return err
	}
	prev := s.snapshotLocked()
	s.recipes[i] = r
	if err := s.commitLocked(ctx, prev); err != nil {
		return err
	}
	s.mirror(ctx, r)
	return nil
}

func (s *Service) indexByID(id string) int {
	for i := range s.recipes {
		if s.recipes[i].ID == id {
			return i
		}
	}
	return -1
}

// liveIndexByKey 找出標題鍵相同且未刪除的食譜，略過 exceptID
func (s *Service) liveIndexByKey(key, exceptID string) int {
	for i := range s.recipes {
		r := &s.recipes[i]
		if !r.Deleted() && r.ID != exceptID && r.Key() == key {
			return i
		}
	}
	return -1
}

// snapshotLocked 複製目前的切片
func (s *Service) snapshotLocked() []Recipe {
	return slices.Clone(s.recipes)
}

// commitLocked 寫回儲存；失敗時還原成 prev
func (s *Service) commitLocked(ctx context.Context, prev []Recipe) error {
	if err := s.saveLocked(ctx); err != nil {
		s.recipes = prev
		return err
	}
	return nil
}

func (s *Service) saveLocked(ctx context.Context) error {
	if err := storage.SaveJSON(ctx, s.kv, storage.KeyRecipes, s.recipes); err != nil {
		return fmt.Errorf("persist recipes: %w", err)
	}
	return nil
}

// mirror 同步到搜尋索引；失敗只記錄，不影響儲存結果
func (s *Service) mirror(ctx context.Context, recipes ...Recipe) {
	if s.index == nil || len(recipes) == 0 {
		return
	}
	docs := make([]search.Document, len(recipes))
	for i, r := range recipes {
		docs[i] = r.document()
	}
	if err := s.index.Upsert(ctx, docs...); err != nil {
		common.LogWarn("搜尋索引同步失敗", zap.Int("documents", len(docs)), zap.Error(err))
	}
}

func tombstone(id string) Recipe {
	now := time.Now().UTC()
	return Recipe{ID: id, DeletedAt: &now}
}
