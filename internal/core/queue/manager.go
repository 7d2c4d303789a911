// Package queue 以單一 worker 依序執行匯入工作，一次只解析一批檔案。
package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"recipe-manager/internal/infrastructure/config"
	"recipe-manager/internal/pkg/common"

	"go.uber.org/zap"
)

// DefaultMaxSize 未設定時的佇列長度
const DefaultMaxSize = 16

// ErrClosed 佇列已關閉
var ErrClosed = errors.New("queue manager is closed")

// JobFunc 佇列中執行的工作
type JobFunc func(ctx context.Context) (interface{}, error)

// Request 佇列請求
type Request struct {
	Context  context.Context
	Name     string
	Run      JobFunc
	Result   chan Result
	Enqueued time.Time
}

// Result 處理結果
type Result struct {
	Value interface{}
	Error error
}

// Status 佇列狀態
type Status struct {
	QueueLength    int  `json:"queue_length"`
	ProcessedCount int  `json:"processed_count"`
	FailedCount    int  `json:"failed_count"`
	MaxQueueSize   int  `json:"max_queue_size"`
	Busy           bool `json:"busy"`
}

// Manager 佇列管理器
type Manager struct {
	maxSize   int
	timeout   time.Duration
	queue     chan *Request
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
	processed int64
	failed    int64
	busy      int32
}

// NewManager 創建佇列管理器並啟動 worker
func NewManager(cfg config.QueueConfig) *Manager {
	size := cfg.MaxSize
	if size <= 0 {
		size = DefaultMaxSize
	}
	m := &Manager{
		maxSize: size,
		timeout: cfg.Timeout,
		queue:   make(chan *Request, size),
		done:    make(chan struct{}),
	}
	m.wg.Add(1)
	go m.worker()
	return m
}

// Enqueue 將工作加入佇列；佇列已滿時立即回傳 ErrQueueFull
func (m *Manager) Enqueue(ctx context.Context, name string, run JobFunc) (<-chan Result, error) {
	select {
	case <-m.done:
		return nil, ErrClosed
	default:
	}

	req := &Request{
		Context:  ctx,
		Name:     name,
		Run:      run,
		Result:   make(chan Result, 1),
		Enqueued: time.Now(),
	}
	select {
	case m.queue <- req:
		common.LogInfo("匯入工作已加入佇列",
			zap.String("job", name),
			zap.Int("queue_length", len(m.queue)),
			zap.Int("max_queue_size", m.maxSize),
		)
		return req.Result, nil
	default:
		return nil, common.ErrQueueFull.Wrap(fmt.Errorf("queue is full (%d)", m.maxSize))
	}
}

// Submit 加入佇列並等待結果
func (m *Manager) Submit(ctx context.Context, name string, run JobFunc) (interface{}, error) {
	ch, err := m.Enqueue(ctx, name, run)
	if err != nil {
		return nil, err
	}
	select {
	case res := <-ch:
		return res.Value, res.Error
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Status 取得佇列狀態
func (m *Manager) Status() *Status {
	return &Status{
		QueueLength:    len(m.queue),
		ProcessedCount: int(atomic.LoadInt64(&m.processed)),
		FailedCount:    int(atomic.LoadInt64(&m.failed)),
		MaxQueueSize:   m.maxSize,
		Busy:           atomic.LoadInt32(&m.busy) == 1,
	}
}

// Close 停止 worker；尚未執行的工作回傳 ErrClosed
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		close(m.done)
		m.wg.Wait()
		for {
			select {
			case req := <-m.queue:
				req.Result <- Result{Error: ErrClosed}
			default:
				return
			}
		}
	})
}

func (m *Manager) worker() {
	defer m.wg.Done()
	for {
		select {
		case <-m.done:
			return
		case req := <-m.queue:
			m.process(req)
		}
	}
}

func (m *Manager) process(req *Request) {
	// 呼叫端已放棄時不執行
	if err := req.Context.Err(); err != nil {
		req.Result <- Result{Error: err}
		atomic.AddInt64(&m.failed, 1)
		return
	}

	ctx := req.Context
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	atomic.StoreInt32(&m.busy, 1)
	defer atomic.StoreInt32(&m.busy, 0)

	start := time.Now()
	value, err := m.run(ctx, req)
	if err != nil {
		atomic.AddInt64(&m.failed, 1)
		common.LogWarn("匯入工作失敗", zap.String("job", req.Name), zap.Error(err))
	} else {
		atomic.AddInt64(&m.processed, 1)
	}
	common.LogInfo("匯入工作完成",
		zap.String("job", req.Name),
		zap.Duration("等待", start.Sub(req.Enqueued)),
		zap.Duration("耗時", time.Since(start)),
	)
	req.Result <- Result{Value: value, Error: err}
}

func (m *Manager) run(ctx context.Context, req *Request) (value interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %s panicked: %v", req.Name, r)
		}
	}()
	return req.Run(ctx)
}
