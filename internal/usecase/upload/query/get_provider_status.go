package query

import (
	"context"

	"github.com/stwebyy/rally-track-sub001/internal/domain/service"
	"github.com/stwebyy/rally-track-sub001/pkg/apperror"
)

// GetProviderStatusOutput はプロバイダー接続状態の出力です
type GetProviderStatusOutput struct {
	Valid          bool
	QuotaRemaining int64
}

// GetProviderStatusUsecase はプロバイダーの認証・クォータ状態を確認する
// ユースケースです。アップロード開始前のプリフライトとして使われます
type GetProviderStatusUsecase struct {
	provider service.VideoProvider
}

// NewGetProviderStatusUsecase は新しいGetProviderStatusUsecaseを作成します
func NewGetProviderStatusUsecase(provider service.VideoProvider) *GetProviderStatusUsecase {
	return &GetProviderStatusUsecase{provider: provider}
}

// Execute はプロバイダーの認証・クォータ状態を返します
func (u *GetProviderStatusUsecase) Execute(ctx context.Context) (*GetProviderStatusOutput, error) {
	status, err := u.provider.CheckAuth(ctx)
	if err != nil {
		return nil, apperror.NewProviderUnavailableError(err)
	}

	return &GetProviderStatusOutput{
		Valid:          status.Valid,
		QuotaRemaining: status.QuotaRemaining,
	}, nil
}
