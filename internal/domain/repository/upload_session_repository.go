package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/stwebyy/rally-track-sub001/internal/domain/entity"
)

// UploadSessionRepository はアップロードセッションの永続化インターフェースを定義します
// 読み書きは常に (id, owner_id) の組でスコープされ、他人のセッションは
// 存在しないセッションと区別できません
type UploadSessionRepository interface {
	// Create はアップロードセッションを作成します
	Create(ctx context.Context, session *entity.UploadSession) error

	// FindByOwner はIDと所有者でアップロードセッションを検索します
	FindByOwner(ctx context.Context, id, ownerID uuid.UUID) (*entity.UploadSession, error)

	// FindByOwnerForUpdate は行ロックを取得してアップロードセッションを検索します
	// トランザクション内で使用し、同一セッションへの並行更新を直列化します
	FindByOwnerForUpdate(ctx context.Context, id, ownerID uuid.UUID) (*entity.UploadSession, error)

	// Update はアップロードセッションの可変フィールドを更新します
	// updated_atは同一文の中で現在時刻に進みます
	Update(ctx context.Context, session *entity.UploadSession) error

	// FindExpired は期限切れかつ非終端のセッションを検索します（掃き出しジョブ用）
	FindExpired(ctx context.Context, limit int) ([]*entity.UploadSession, error)
}
