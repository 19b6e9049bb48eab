package query

import (
	"context"

	"github.com/google/uuid"

	"github.com/stwebyy/rally-track-sub001/internal/domain/entity"
	"github.com/stwebyy/rally-track-sub001/internal/domain/repository"
	"github.com/stwebyy/rally-track-sub001/pkg/logger"
)

// GetUploadStatusInput はアップロード状態取得の入力です
type GetUploadStatusInput struct {
	SessionID uuid.UUID
	OwnerID   uuid.UUID
}

// GetUploadStatusOutput はアップロード状態取得の出力です
type GetUploadStatusOutput struct {
	Session            *entity.UploadSession
	UploadedBytes      int64
	ProgressPercentage int
}

// GetUploadStatusUsecase はアップロードセッションの状態参照ユースケースです
// 期限切れを読み取り時に検知した場合、その場でfailedへ遷移させてから返します
type GetUploadStatusUsecase struct {
	sessionRepo   repository.UploadSessionRepository
	progressStore repository.UploadProgressStore
	txManager     repository.TransactionManager
}

// NewGetUploadStatusUsecase は新しいGetUploadStatusUsecaseを作成します
func NewGetUploadStatusUsecase(
	sessionRepo repository.UploadSessionRepository,
	progressStore repository.UploadProgressStore,
	txManager repository.TransactionManager,
) *GetUploadStatusUsecase {
	return &GetUploadStatusUsecase{
		sessionRepo:   sessionRepo,
		progressStore: progressStore,
		txManager:     txManager,
	}
}

// Execute はセッションの現在状態と進捗を返します
func (u *GetUploadStatusUsecase) Execute(ctx context.Context, input GetUploadStatusInput) (*GetUploadStatusOutput, error) {
	session, err := u.sessionRepo.FindByOwner(ctx, input.SessionID, input.OwnerID)
	if err != nil {
		return nil, err
	}

	if !session.IsTerminal() && session.IsExpired() {
		expired, err := u.expireSession(ctx, input.SessionID, input.OwnerID)
		if err != nil {
			return nil, err
		}
		session = expired
	}

	uploadedBytes := session.UploadedBytes

	// 進捗キャッシュの方が新しい場合はそちらを表示に使います（表示のみ、保存値は不変）
	if !session.IsTerminal() {
		if cached, found, err := u.progressStore.Get(ctx, session.ID); err != nil {
			logger.Warn(ctx, "failed to read upload progress cache",
				"upload_session_id", session.ID.String(),
				"error", err.Error(),
			)
		} else if found && cached > uploadedBytes {
			uploadedBytes = cached
		}
	}

	display := *session
	display.UploadedBytes = uploadedBytes

	return &GetUploadStatusOutput{
		Session:            session,
		UploadedBytes:      uploadedBytes,
		ProgressPercentage: display.ProgressPercentage(),
	}, nil
}

// expireSession は期限切れセッションをfailedへ遷移させて返します
func (u *GetUploadStatusUsecase) expireSession(ctx context.Context, sessionID, ownerID uuid.UUID) (*entity.UploadSession, error) {
	var session *entity.UploadSession
	err := u.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		found, err := u.sessionRepo.FindByOwnerForUpdate(ctx, sessionID, ownerID)
		if err != nil {
			return err
		}
		if !found.IsTerminal() && found.IsExpired() {
			if err := found.Expire(); err != nil {
				return err
			}
			if err := u.sessionRepo.Update(ctx, found); err != nil {
				return err
			}
		}
		session = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := u.progressStore.Clear(ctx, sessionID); err != nil {
		logger.Warn(ctx, "failed to clear upload progress cache",
			"upload_session_id", sessionID.String(),
			"error", err.Error(),
		)
	}

	return session, nil
}
