package command

import (
	"context"

	"github.com/stwebyy/rally-track-sub001/internal/domain/repository"
	"github.com/stwebyy/rally-track-sub001/pkg/logger"
)

// 1回の掃き出しで処理する最大セッション数
const expireSweepBatchSize = 100

// ExpireSessionsUsecase は期限切れセッションの一括失敗処理ユースケースです
// 読み取り時の遅延期限判定を補完するバックグラウンド処理として動作します
type ExpireSessionsUsecase struct {
	sessionRepo   repository.UploadSessionRepository
	progressStore repository.UploadProgressStore
	txManager     repository.TransactionManager
}

// NewExpireSessionsUsecase は新しいExpireSessionsUsecaseを作成します
func NewExpireSessionsUsecase(
	sessionRepo repository.UploadSessionRepository,
	progressStore repository.UploadProgressStore,
	txManager repository.TransactionManager,
) *ExpireSessionsUsecase {
	return &ExpireSessionsUsecase{
		sessionRepo:   sessionRepo,
		progressStore: progressStore,
		txManager:     txManager,
	}
}

// SweepExpired は期限切れかつ非終端のセッションをfailedへ遷移させ、
// 遷移させた件数を返します
func (u *ExpireSessionsUsecase) SweepExpired(ctx context.Context) (int, error) {
	sessions, err := u.sessionRepo.FindExpired(ctx, expireSweepBatchSize)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, session := range sessions {
		transitioned := false
		err := u.txManager.WithTransaction(ctx, func(ctx context.Context) error {
			found, err := u.sessionRepo.FindByOwnerForUpdate(ctx, session.ID, session.OwnerID)
			if err != nil {
				return err
			}
			// 検索から遷移までの間に状態が変わっていたら何もしない
			if found.IsTerminal() || !found.IsExpired() {
				return nil
			}
			if err := found.Expire(); err != nil {
				return err
			}
			if err := u.sessionRepo.Update(ctx, found); err != nil {
				return err
			}
			transitioned = true
			return nil
		})
		if err != nil {
			logger.Warn(ctx, "failed to expire upload session",
				"upload_session_id", session.ID.String(),
				"error", err.Error(),
			)
			continue
		}
		if !transitioned {
			continue
		}

		if err := u.progressStore.Clear(ctx, session.ID); err != nil {
			logger.Warn(ctx, "failed to clear upload progress cache",
				"upload_session_id", session.ID.String(),
				"error", err.Error(),
			)
		}
		count++
	}

	return count, nil
}
