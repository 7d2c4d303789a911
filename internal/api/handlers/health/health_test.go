package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"recipe-manager/internal/core/queue"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func ok(ctx context.Context) error { return nil }

func serve(h *Handler, path string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", h.HealthCheck)
	r.GET("/ready", h.ReadinessCheck)
	r.GET("/live", h.LivenessCheck)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealthIncludesQueue(t *testing.T) {
	h := NewHandler("1.2.3", func() *queue.Status {
		return &queue.Status{QueueLength: 2, MaxQueueSize: 8}
	})
	w := serve(h, "/health")
	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "1.2.3", resp.Version)
	require.NotNil(t, resp.Queue)
	assert.Equal(t, 2, resp.Queue.QueueLength)
}

func TestReadiness(t *testing.T) {
	h := NewHandler("", nil, Check{"kv", pingFunc(ok)}, Check{"blobs", pingFunc(ok)})
	w := serve(h, "/ready")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ready","checks":{"kv":"ok","blobs":"ok"}}`, w.Body.String())

	h = NewHandler("", nil, Check{"kv", pingFunc(ok)}, Check{"search", pingFunc(func(ctx context.Context) error {
		return errors.New("connection refused")
	})})
	w = serve(h, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
}

func TestLiveness(t *testing.T) {
	w := serve(NewHandler("", nil), "/live")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"alive"}`, w.Body.String())
}
