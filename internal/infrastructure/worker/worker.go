package worker

import (
	"context"
	"sync"
	"time"

	"github.com/stwebyy/rally-track-sub001/pkg/logger"
)

// Job は定期実行されるバックグラウンドジョブを表します
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Manager はバックグラウンドジョブのライフサイクルを管理します
type Manager struct {
	jobs   []Job
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewManager は新しいManagerを作成します
func NewManager() *Manager {
	return &Manager{}
}

// Register はジョブを登録します。Start前に呼び出してください
func (m *Manager) Register(job Job) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs = append(m.jobs, job)
}

// Start は登録済みジョブの定期実行を開始します
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ctx, m.cancel = context.WithCancel(ctx)

	for _, job := range m.jobs {
		m.wg.Add(1)
		go m.runLoop(ctx, job)
	}

	logger.Info(ctx, "background workers started", "jobs", len(m.jobs))
}

// runLoop はジョブを間隔実行します。パニックはログに残して継続します
func (m *Manager) runLoop(ctx context.Context, job Job) {
	defer m.wg.Done()

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.runOnce(ctx, job)
		}
	}
}

func (m *Manager) runOnce(ctx context.Context, job Job) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error(ctx, "background job panicked", "job", job.Name, "panic", r)
		}
	}()

	start := time.Now()
	if err := job.Run(ctx); err != nil {
		logger.Error(ctx, "background job failed",
			"job", job.Name,
			"duration", time.Since(start).String(),
			"error", err.Error(),
		)
		return
	}

	logger.Debug(ctx, "background job completed",
		"job", job.Name,
		"duration", time.Since(start).String(),
	)
}

// Stop はジョブの実行を停止し、実行中のジョブの完了を待ちます
func (m *Manager) Stop() {
	m.mu.Lock()
	cancel := m.cancel
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	m.wg.Wait()
}
