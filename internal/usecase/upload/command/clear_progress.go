package command

import (
	"context"

	"github.com/google/uuid"

	"github.com/stwebyy/rally-track-sub001/internal/domain/repository"
)

// ClearProgressInput は進捗キャッシュ削除の入力です
type ClearProgressInput struct {
	SessionID uuid.UUID
	OwnerID   uuid.UUID
}

// ClearProgressUsecase は進捗キャッシュの明示的な削除ユースケースです
// クライアントがセッションを放棄した際の後始末に使います
type ClearProgressUsecase struct {
	sessionRepo   repository.UploadSessionRepository
	progressStore repository.UploadProgressStore
}

// NewClearProgressUsecase は新しいClearProgressUsecaseを作成します
func NewClearProgressUsecase(
	sessionRepo repository.UploadSessionRepository,
	progressStore repository.UploadProgressStore,
) *ClearProgressUsecase {
	return &ClearProgressUsecase{
		sessionRepo:   sessionRepo,
		progressStore: progressStore,
	}
}

// Execute はセッションの進捗キャッシュを削除します。
// エントリが存在しない場合も成功として扱います（冪等）
func (u *ClearProgressUsecase) Execute(ctx context.Context, input ClearProgressInput) error {
	// 所有権の確認のためにセッションの存在を検証する
	if _, err := u.sessionRepo.FindByOwner(ctx, input.SessionID, input.OwnerID); err != nil {
		return err
	}

	return u.progressStore.Clear(ctx, input.SessionID)
}
