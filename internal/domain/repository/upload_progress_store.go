package repository

import (
	"context"

	"github.com/google/uuid"
)

// UploadProgressStore は一時的な進捗記録のインターフェースを定義します
// セッション作成時に登録され、終端状態または明示的なクリアで削除されます
// 永続的なセッションレコードとは独立しており、クリアしても履歴は残ります
type UploadProgressStore interface {
	// Set はアップロード済みバイト数を記録します
	Set(ctx context.Context, sessionID uuid.UUID, uploadedBytes int64) error

	// Get はアップロード済みバイト数を取得します
	// エントリが存在しない場合はfound=falseを返します
	Get(ctx context.Context, sessionID uuid.UUID) (uploadedBytes int64, found bool, err error)

	// Clear は進捗エントリを削除します。存在しないエントリの削除は成功扱いです（冪等）
	Clear(ctx context.Context, sessionID uuid.UUID) error
}
