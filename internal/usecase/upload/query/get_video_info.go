package query

import (
	"context"

	"github.com/google/uuid"

	"github.com/stwebyy/rally-track-sub001/internal/domain/repository"
	"github.com/stwebyy/rally-track-sub001/internal/domain/service"
	"github.com/stwebyy/rally-track-sub001/pkg/apperror"
)

// GetVideoInfoInput は公開動画情報取得の入力です
type GetVideoInfoInput struct {
	SessionID uuid.UUID
	OwnerID   uuid.UUID
}

// GetVideoInfoOutput は公開動画情報取得の出力です
type GetVideoInfoOutput struct {
	Video *service.VideoInfo
}

// GetVideoInfoUsecase は完了済みセッションに紐づく動画情報の取得ユースケースです
type GetVideoInfoUsecase struct {
	sessionRepo repository.UploadSessionRepository
	provider    service.VideoProvider
}

// NewGetVideoInfoUsecase は新しいGetVideoInfoUsecaseを作成します
func NewGetVideoInfoUsecase(
	sessionRepo repository.UploadSessionRepository,
	provider service.VideoProvider,
) *GetVideoInfoUsecase {
	return &GetVideoInfoUsecase{
		sessionRepo: sessionRepo,
		provider:    provider,
	}
}

// Execute はセッションに紐づくプロバイダー側の動画情報を取得します
func (u *GetVideoInfoUsecase) Execute(ctx context.Context, input GetVideoInfoInput) (*GetVideoInfoOutput, error) {
	session, err := u.sessionRepo.FindByOwner(ctx, input.SessionID, input.OwnerID)
	if err != nil {
		return nil, err
	}

	if !session.IsCompleted() || session.ExternalVideoID == nil {
		return nil, apperror.NewConflictError("upload session has no published video")
	}

	video, err := u.provider.GetVideo(ctx, *session.ExternalVideoID)
	if err != nil {
		if service.IsPermanentProviderError(err) {
			return nil, apperror.NewProviderError("failed to fetch video info", err)
		}
		return nil, apperror.NewProviderUnavailableError(err)
	}
	if video == nil {
		return nil, apperror.NewNotFoundError("video")
	}

	return &GetVideoInfoOutput{Video: video}, nil
}
