package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recipe-manager/internal/infrastructure/config"
	"recipe-manager/internal/pkg/common"
)

const defaultDedupWindow = time.Second

// dedupCache 請求指紋與最後出現時間
type dedupCache struct {
	mu       sync.Mutex
	window   time.Duration
	requests map[string]time.Time
}

// seen 記錄指紋，回傳是否在窗口內重複
func (d *dedupCache) seen(fingerprint string, now time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if last, ok := d.requests[fingerprint]; ok && now.Sub(last) <= d.window {
		return true
	}
	d.requests[fingerprint] = now
	return false
}

// prune 移除過期指紋
func (d *dedupCache) prune(now time.Time) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	removed := 0
	for k, t := range d.requests {
		if now.Sub(t) > 10*d.window {
			delete(d.requests, k)
			removed++
		}
	}
	return removed
}

// Deduplication 擋下窗口內重複的寫入請求（POST/PUT）。
// 指紋為方法、路徑與請求體雜湊；重複的匯入不會排入佇列兩次。
func Deduplication(cfg *config.Config) gin.HandlerFunc {
	window := defaultDedupWindow
	if cfg != nil && cfg.DedupWindow > 0 {
		window = cfg.DedupWindow
	}
	cache := &dedupCache{window: window, requests: make(map[string]time.Time)}

	// 定期清理
	go func() {
		ticker := time.NewTicker(10 * window)
		defer ticker.Stop()
		for now := range ticker.C {
			if n := cache.prune(now); n > 0 {
				common.LogDebug("清理過期請求指紋", zap.Int("removed", n))
			}
		}
	}()

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut {
			c.Next()
			return
		}

		fingerprint := c.Request.Method + ":" + c.Request.URL.RequestURI()
		if c.Request.Body != nil {
			body, err := io.ReadAll(c.Request.Body)
			if err != nil {
				common.WriteError(c, common.ErrInvalidRequest.Wrap(fmt.Errorf("read request body: %w", err)), false)
				return
			}
			hash := sha256.Sum256(body)
			fingerprint += ":" + hex.EncodeToString(hash[:])

			// 恢復請求體
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}

		if cache.seen(fingerprint, time.Now()) {
			common.LogWarn("重複請求",
				zap.String("path", c.Request.URL.Path),
				zap.String("ip", c.ClientIP()),
			)
			common.WriteError(c, common.ErrTooManyRequests.Wrap(fmt.Errorf("duplicate request within %s", window)), false)
			return
		}

		c.Next()
	}
}
