package command

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/stwebyy/rally-track-sub001/internal/domain/entity"
	"github.com/stwebyy/rally-track-sub001/internal/domain/repository"
	"github.com/stwebyy/rally-track-sub001/pkg/apperror"
	"github.com/stwebyy/rally-track-sub001/pkg/logger"
)

// ReportProgressInput は進捗報告の入力です
type ReportProgressInput struct {
	SessionID     uuid.UUID
	OwnerID       uuid.UUID
	UploadedBytes int64
}

// ReportProgressOutput は進捗報告の出力です
type ReportProgressOutput struct {
	Session *entity.UploadSession
}

// ReportProgressUsecase はアップロード進捗報告ユースケースです
// 同一セッションへの並行報告は行ロックで直列化され、バイト数は単調に進みます
type ReportProgressUsecase struct {
	sessionRepo   repository.UploadSessionRepository
	progressStore repository.UploadProgressStore
	txManager     repository.TransactionManager
}

// NewReportProgressUsecase は新しいReportProgressUsecaseを作成します
func NewReportProgressUsecase(
	sessionRepo repository.UploadSessionRepository,
	progressStore repository.UploadProgressStore,
	txManager repository.TransactionManager,
) *ReportProgressUsecase {
	return &ReportProgressUsecase{
		sessionRepo:   sessionRepo,
		progressStore: progressStore,
		txManager:     txManager,
	}
}

// Execute は進捗を記録します。期限切れセッションへの報告は
// そのセッションを失敗状態へ遷移させた上でエラーを返します
func (u *ReportProgressUsecase) Execute(ctx context.Context, input ReportProgressInput) (*ReportProgressOutput, error) {
	if input.UploadedBytes < 0 {
		return nil, apperror.NewValidationError("uploaded bytes must not be negative", []apperror.FieldError{
			{Field: "uploaded_bytes", Message: "must be greater than or equal to 0"},
		})
	}

	var session *entity.UploadSession
	var expired bool

	// 期限切れ遷移もこのトランザクションでコミットするため、
	// クロージャはエラーではなくexpiredフラグで期限切れを伝えます
	err := u.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		found, err := u.sessionRepo.FindByOwnerForUpdate(ctx, input.SessionID, input.OwnerID)
		if err != nil {
			return err
		}

		if found.IsTerminal() {
			return terminalStateError(found)
		}

		if found.IsExpired() {
			if err := found.Expire(); err != nil {
				return mapEntityError(err)
			}
			if err := u.sessionRepo.Update(ctx, found); err != nil {
				return err
			}
			session = found
			expired = true
			return nil
		}

		if err := found.RecordProgress(input.UploadedBytes); err != nil {
			return mapEntityError(err)
		}

		if err := u.sessionRepo.Update(ctx, found); err != nil {
			return err
		}

		session = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	if expired {
		u.clearProgressCache(ctx, session.ID)
		return nil, apperror.NewSessionExpiredError()
	}

	// キャッシュへのミラーは補助的なので失敗しても進捗報告は成功扱い
	if err := u.progressStore.Set(ctx, session.ID, session.UploadedBytes); err != nil {
		logger.Warn(ctx, "failed to mirror upload progress to cache",
			"upload_session_id", session.ID.String(),
			"error", err.Error(),
		)
	}

	return &ReportProgressOutput{Session: session}, nil
}

func (u *ReportProgressUsecase) clearProgressCache(ctx context.Context, sessionID uuid.UUID) {
	if err := u.progressStore.Clear(ctx, sessionID); err != nil {
		logger.Warn(ctx, "failed to clear upload progress cache",
			"upload_session_id", sessionID.String(),
			"error", err.Error(),
		)
	}
}

// terminalStateError は終端状態のセッションへの操作に対するエラーを返します
// 期限切れによる失敗はSESSION_EXPIREDとして報告し、クライアントに再作成を促します
func terminalStateError(session *entity.UploadSession) error {
	if session.IsExpiredFailure() {
		return apperror.NewSessionExpiredError()
	}
	if session.IsCompleted() {
		return apperror.NewConflictError("upload session is already completed")
	}
	return apperror.NewConflictError("upload session has already failed")
}

// mapEntityError はentityのセンチネルエラーをアプリケーションエラーへ写像します
func mapEntityError(err error) error {
	switch {
	case errors.Is(err, entity.ErrUploadSessionExpired):
		return apperror.NewSessionExpiredError()
	case errors.Is(err, entity.ErrUploadSessionCompleted):
		return apperror.NewConflictError("upload session is already completed")
	case errors.Is(err, entity.ErrUploadSessionFailed):
		return apperror.NewConflictError("upload session has already failed")
	case errors.Is(err, entity.ErrNegativeUploadedBytes):
		return apperror.NewValidationError("uploaded bytes must not be negative", nil)
	default:
		return err
	}
}
