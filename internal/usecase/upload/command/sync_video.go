package command

import (
	"context"

	"github.com/google/uuid"

	"github.com/stwebyy/rally-track-sub001/internal/domain/entity"
	"github.com/stwebyy/rally-track-sub001/internal/domain/repository"
	"github.com/stwebyy/rally-track-sub001/internal/domain/service"
	"github.com/stwebyy/rally-track-sub001/pkg/apperror"
	"github.com/stwebyy/rally-track-sub001/pkg/logger"
)

// SyncVideoInput は動画ID同期の入力です
type SyncVideoInput struct {
	SessionID uuid.UUID
	OwnerID   uuid.UUID
}

// SyncVideoOutput は動画ID同期の出力です
// プロバイダー側の処理が未完了の場合はSynced=falseで正常応答します
type SyncVideoOutput struct {
	Synced  bool
	VideoID string
	Session *entity.UploadSession
}

// SyncVideoUsecase はプロバイダーに動画IDを照会してセッションを確定させる
// ユースケースです。同一セッションへの同期はプロセス内で直列化されます
type SyncVideoUsecase struct {
	sessionRepo   repository.UploadSessionRepository
	progressStore repository.UploadProgressStore
	txManager     repository.TransactionManager
	provider      service.VideoProvider
	registry      *syncRegistry
}

// NewSyncVideoUsecase は新しいSyncVideoUsecaseを作成します
func NewSyncVideoUsecase(
	sessionRepo repository.UploadSessionRepository,
	progressStore repository.UploadProgressStore,
	txManager repository.TransactionManager,
	provider service.VideoProvider,
) *SyncVideoUsecase {
	return &SyncVideoUsecase{
		sessionRepo:   sessionRepo,
		progressStore: progressStore,
		txManager:     txManager,
		provider:      provider,
		registry:      newSyncRegistry(),
	}
}

// Execute はプロバイダーにアップロード結果を照会し、確定していれば
// セッションを完了へ、恒久的エラーであれば失敗へ遷移させます
func (u *SyncVideoUsecase) Execute(ctx context.Context, input SyncVideoInput) (*SyncVideoOutput, error) {
	if !u.registry.begin(input.SessionID) {
		return nil, apperror.NewSyncInProgressError(input.SessionID)
	}
	defer u.registry.end(input.SessionID)

	session, err := u.sessionRepo.FindByOwner(ctx, input.SessionID, input.OwnerID)
	if err != nil {
		return nil, err
	}

	// 既に完了済みなら記録済みの動画IDを返すだけです（冪等）
	if session.IsCompleted() && session.ExternalVideoID != nil {
		return &SyncVideoOutput{
			Synced:  true,
			VideoID: *session.ExternalVideoID,
			Session: session,
		}, nil
	}

	if session.IsFailed() {
		return nil, terminalStateError(session)
	}

	if session.IsExpired() {
		if err := u.failSession(ctx, input, entity.SessionExpiredMessage); err != nil {
			return nil, err
		}
		return nil, apperror.NewSessionExpiredError()
	}

	// 行ロックを長時間保持しないよう、プロバイダー照会はトランザクション外で行います
	outcome, err := u.provider.QueryUpload(ctx, session.ExternalUploadURL)
	if err != nil {
		if service.IsPermanentProviderError(err) {
			if failErr := u.failSession(ctx, input, err.Error()); failErr != nil {
				return nil, failErr
			}
			return nil, apperror.NewProviderError("provider reported a permanent upload failure", err)
		}
		return nil, apperror.NewProviderUnavailableError(err)
	}

	if !outcome.Done {
		return &SyncVideoOutput{
			Synced:  false,
			Session: session,
		}, nil
	}

	var updated *entity.UploadSession
	err = u.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		found, err := u.sessionRepo.FindByOwnerForUpdate(ctx, input.SessionID, input.OwnerID)
		if err != nil {
			return err
		}

		// 照会中に別経路で確定していた場合はその結果を尊重する
		if found.IsCompleted() && found.ExternalVideoID != nil {
			updated = found
			return nil
		}
		if found.IsTerminal() {
			return terminalStateError(found)
		}

		if err := found.Complete(outcome.VideoID); err != nil {
			return mapEntityError(err)
		}
		if err := u.sessionRepo.Update(ctx, found); err != nil {
			return err
		}

		updated = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.clearProgressCache(ctx, updated.ID)

	logger.Info(ctx, "upload session completed",
		"upload_session_id", updated.ID.String(),
		"video_id", outcome.VideoID,
	)

	return &SyncVideoOutput{
		Synced:  true,
		VideoID: *updated.ExternalVideoID,
		Session: updated,
	}, nil
}

// failSession はセッションを失敗状態へ遷移させて永続化します
func (u *SyncVideoUsecase) failSession(ctx context.Context, input SyncVideoInput, message string) error {
	err := u.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		found, err := u.sessionRepo.FindByOwnerForUpdate(ctx, input.SessionID, input.OwnerID)
		if err != nil {
			return err
		}
		if found.IsTerminal() {
			// 既に終端状態なら上書きしない
			return nil
		}
		if err := found.Fail(message); err != nil {
			return mapEntityError(err)
		}
		return u.sessionRepo.Update(ctx, found)
	})
	if err != nil {
		return err
	}

	u.clearProgressCache(ctx, input.SessionID)
	return nil
}

func (u *SyncVideoUsecase) clearProgressCache(ctx context.Context, sessionID uuid.UUID) {
	if err := u.progressStore.Clear(ctx, sessionID); err != nil {
		logger.Warn(ctx, "failed to clear upload progress cache",
			"upload_session_id", sessionID.String(),
			"error", err.Error(),
		)
	}
}
