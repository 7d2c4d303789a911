package nutrition

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"recipe-manager/internal/core/cache"
	"recipe-manager/internal/pkg/common"

	"go.uber.org/zap"
)

// Service 營養估算服務，以記憶體快取包裝 Estimate
type Service struct {
	cache *cache.Manager
}

// NewService 創建營養估算服務；cacheManager 可為 nil
func NewService(cacheManager *cache.Manager) *Service {
	return &Service{cache: cacheManager}
}

// Estimate 估算營養素，相同請求命中快取
func (s *Service) Estimate(ctx context.Context, req Request) (Result, error) {
	if len(req.Lines) == 0 {
		return Result{}, common.NewValidationError("ingr is required")
	}

	key := requestKey(req)
	if data, err := s.cache.Get(ctx, key); err == nil {
		var cached Result
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
		common.LogWarn("營養快取內容無法解析", zap.String("key", key))
	} else if !errors.Is(err, common.ErrCacheMiss) && !errors.Is(err, common.ErrCacheDisabled) {
		return Result{}, err
	}

	res := Estimate(req)
	common.LogDebug("營養估算完成",
		zap.Int("lines", len(req.Lines)),
		zap.Int("unknown", len(res.Unknown)),
		zap.Float64("coverage", res.Coverage),
	)

	if data, err := json.Marshal(res); err == nil {
		if err := s.cache.Set(ctx, key, data); err != nil {
			common.LogWarn("營養快取寫入失敗", zap.Error(err))
		}
	}
	return res, nil
}

// Stats 快取統計
func (s *Service) Stats() map[string]interface{} {
	return s.cache.GetStats()
}

func requestKey(req Request) string {
	yields, _ := json.Marshal(req.Yields)
	servings, _ := json.Marshal(req.Servings)
	return cache.Key(
		"nutrition",
		strings.Join(req.Lines, "\n"),
		string(yields),
		string(servings),
		strconv.FormatFloat(float64(req.YieldQty), 'f', -1, 64),
		strings.ToLower(req.YieldUnit),
		strings.ToLower(req.PrepMethod),
	)
}
