package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/stwebyy/rally-track-sub001/internal/domain/service"
	"github.com/stwebyy/rally-track-sub001/pkg/logger"
)

// ExpirySweeper は期限切れセッションの一括失敗処理を提供します
type ExpirySweeper interface {
	SweepExpired(ctx context.Context) (int, error)
}

// NewSessionExpiryJob は期限切れアップロードセッションを定期的に
// failedへ遷移させるジョブを作成します。読み取り時の遅延判定を補完し、
// 二度とアクセスされないセッションも確実に終端させます。
func NewSessionExpiryJob(interval time.Duration, sweeper ExpirySweeper) Job {
	return Job{
		Name:     "upload_session_expiry",
		Interval: interval,
		Run: func(ctx context.Context) error {
			count, err := sweeper.SweepExpired(ctx)
			if err != nil {
				return fmt.Errorf("failed to sweep expired sessions: %w", err)
			}
			if count > 0 {
				logger.Info(ctx, "expired upload sessions swept", "count", count)
			}
			return nil
		},
	}
}

// HealthChecker は依存コンポーネントの疎通確認を提供します
type HealthChecker interface {
	Health(ctx context.Context) error
}

// NewHealthCheckJob は依存コンポーネントの疎通を定期確認するジョブを作成します
func NewHealthCheckJob(name string, interval time.Duration, checker HealthChecker) Job {
	return Job{
		Name:     name + "_health",
		Interval: interval,
		Run: func(ctx context.Context) error {
			if err := checker.Health(ctx); err != nil {
				return fmt.Errorf("%s health check failed: %w", name, err)
			}
			return nil
		},
	}
}

// NewProviderHealthJob はプロバイダーの認証・クォータ状態を定期確認するジョブを作成します
func NewProviderHealthJob(interval time.Duration, provider service.VideoProvider) Job {
	return Job{
		Name:     "provider_health",
		Interval: interval,
		Run: func(ctx context.Context) error {
			status, err := provider.CheckAuth(ctx)
			if err != nil {
				return fmt.Errorf("provider auth check failed: %w", err)
			}
			if !status.Valid {
				logger.Warn(ctx, "provider credentials are invalid")
				return nil
			}
			if status.QuotaRemaining >= 0 {
				logger.Debug(ctx, "provider quota", "remaining_bytes", status.QuotaRemaining)
			}
			return nil
		},
	}
}
