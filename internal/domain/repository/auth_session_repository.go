package repository

import (
	"context"

	"github.com/stwebyy/rally-track-sub001/internal/domain/entity"
)

// AuthSessionRepository は認証セッションの保存インターフェースを定義します
type AuthSessionRepository interface {
	// FindByID はセッションIDで認証セッションを検索します
	FindByID(ctx context.Context, id string) (*entity.AuthSession, error)

	// Save は認証セッションを保存します
	Save(ctx context.Context, session *entity.AuthSession) error

	// Delete は認証セッションを削除します
	Delete(ctx context.Context, id string) error
}
