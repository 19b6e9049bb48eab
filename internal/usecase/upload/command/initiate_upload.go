package command

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/stwebyy/rally-track-sub001/internal/domain/entity"
	"github.com/stwebyy/rally-track-sub001/internal/domain/repository"
	"github.com/stwebyy/rally-track-sub001/internal/domain/service"
	"github.com/stwebyy/rally-track-sub001/pkg/apperror"
	"github.com/stwebyy/rally-track-sub001/pkg/logger"
)

// InitiateUploadInput はアップロードセッション作成の入力です
type InitiateUploadInput struct {
	OwnerID  uuid.UUID
	FileName string
	FileSize int64
	Metadata map[string]string
}

// InitiateUploadOutput はアップロードセッション作成の出力です
type InitiateUploadOutput struct {
	Session *entity.UploadSession
}

// InitiateUploadUsecase はアップロードセッション作成ユースケースです
type InitiateUploadUsecase struct {
	sessionRepo   repository.UploadSessionRepository
	progressStore repository.UploadProgressStore
	provider      service.VideoProvider
	sessionTTL    time.Duration
	maxFileSize   int64
}

// NewInitiateUploadUsecase は新しいInitiateUploadUsecaseを作成します
func NewInitiateUploadUsecase(
	sessionRepo repository.UploadSessionRepository,
	progressStore repository.UploadProgressStore,
	provider service.VideoProvider,
	sessionTTL time.Duration,
	maxFileSize int64,
) *InitiateUploadUsecase {
	if maxFileSize <= 0 {
		maxFileSize = entity.MaxFileSize
	}
	return &InitiateUploadUsecase{
		sessionRepo:   sessionRepo,
		progressStore: progressStore,
		provider:      provider,
		sessionTTL:    sessionTTL,
		maxFileSize:   maxFileSize,
	}
}

// Execute はプロバイダーにアップロードURLを発行させ、セッションを永続化します
func (u *InitiateUploadUsecase) Execute(ctx context.Context, input InitiateUploadInput) (*InitiateUploadOutput, error) {
	if input.FileSize < 0 {
		return nil, apperror.NewValidationError("file size must not be negative", []apperror.FieldError{
			{Field: "file_size", Message: "must be greater than or equal to 0"},
		})
	}
	if input.FileSize > u.maxFileSize {
		return nil, apperror.NewValidationError("file size exceeds the maximum allowed size", []apperror.FieldError{
			{Field: "file_size", Message: fmt.Sprintf("must be at most %d bytes", u.maxFileSize)},
		})
	}

	grant, err := u.provider.CreateUpload(ctx, service.CreateUploadRequest{
		FileName: input.FileName,
		FileSize: input.FileSize,
		Metadata: input.Metadata,
	})
	if err != nil {
		if service.IsQuotaExceeded(err) {
			return nil, apperror.NewQuotaExceededError("provider upload quota exceeded")
		}
		if service.IsPermanentProviderError(err) {
			return nil, apperror.NewProviderError("failed to create provider upload", err)
		}
		return nil, apperror.NewProviderUnavailableError(err)
	}

	expiresAt := grant.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(u.sessionTTL)
	}

	session := entity.NewUploadSession(
		input.OwnerID,
		input.FileName,
		input.FileSize,
		grant.UploadURL,
		expiresAt,
		input.Metadata,
	)

	if err := u.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	// 進捗キャッシュは補助的なレイヤーなので、書き込み失敗でセッション作成を巻き戻さない
	if err := u.progressStore.Set(ctx, session.ID, 0); err != nil {
		logger.Warn(ctx, "failed to seed upload progress cache",
			"upload_session_id", session.ID.String(),
			"error", err.Error(),
		)
	}

	logger.Info(ctx, "upload session created",
		"upload_session_id", session.ID.String(),
		"file_size", session.FileSize,
		"expires_at", session.ExpiresAt,
	)

	return &InitiateUploadOutput{Session: session}, nil
}
