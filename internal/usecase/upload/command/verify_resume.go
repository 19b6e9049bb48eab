package command

import (
	"context"

	"github.com/google/uuid"

	"github.com/stwebyy/rally-track-sub001/internal/domain/entity"
	"github.com/stwebyy/rally-track-sub001/internal/domain/repository"
	"github.com/stwebyy/rally-track-sub001/pkg/apperror"
)

// VerifyResumeInput はアップロード再開検証の入力です
// FileName/FileSizeはクライアントが再選択したファイルの情報です
type VerifyResumeInput struct {
	SessionID uuid.UUID
	OwnerID   uuid.UUID
	FileName  string
	FileSize  int64
}

// VerifyResumeOutput はアップロード再開検証の出力です
type VerifyResumeOutput struct {
	Session     *entity.UploadSession
	ResumeFrom  int64  // 再開位置（受信済みバイト数）
	UploadURL   string // プロバイダーのアップロードURL
}

// VerifyResumeUsecase はブラウザ再訪時のアップロード再開を検証するユースケースです
// 再選択されたファイルが作成時のファイルと一致する場合のみ再開を許可します
type VerifyResumeUsecase struct {
	sessionRepo repository.UploadSessionRepository
	txManager   repository.TransactionManager
}

// NewVerifyResumeUsecase は新しいVerifyResumeUsecaseを作成します
func NewVerifyResumeUsecase(
	sessionRepo repository.UploadSessionRepository,
	txManager repository.TransactionManager,
) *VerifyResumeUsecase {
	return &VerifyResumeUsecase{
		sessionRepo: sessionRepo,
		txManager:   txManager,
	}
}

// Execute は再開可否を検証し、許可する場合は再開位置を返します
func (u *VerifyResumeUsecase) Execute(ctx context.Context, input VerifyResumeInput) (*VerifyResumeOutput, error) {
	session, err := u.sessionRepo.FindByOwner(ctx, input.SessionID, input.OwnerID)
	if err != nil {
		return nil, err
	}

	if session.IsTerminal() {
		return nil, terminalStateError(session)
	}

	if session.IsExpired() {
		if err := u.expireSession(ctx, input.SessionID, input.OwnerID); err != nil {
			return nil, err
		}
		return nil, apperror.NewSessionExpiredError()
	}

	if !session.MatchesFile(input.FileName, input.FileSize) {
		return nil, apperror.NewFileMismatchError(
			session.ID,
			session.FileName, session.FileSize,
			input.FileName, input.FileSize,
		)
	}

	return &VerifyResumeOutput{
		Session:    session,
		ResumeFrom: session.UploadedBytes,
		UploadURL:  session.ExternalUploadURL,
	}, nil
}

// expireSession は期限切れセッションを失敗状態へ遷移させて永続化します
func (u *VerifyResumeUsecase) expireSession(ctx context.Context, sessionID, ownerID uuid.UUID) error {
	return u.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		found, err := u.sessionRepo.FindByOwnerForUpdate(ctx, sessionID, ownerID)
		if err != nil {
			return err
		}
		if found.IsTerminal() {
			return nil
		}
		if err := found.Expire(); err != nil {
			return mapEntityError(err)
		}
		return u.sessionRepo.Update(ctx, found)
	})
}
