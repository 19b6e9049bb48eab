package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/stwebyy/rally-track-sub001/internal/domain/repository"
)

// ProgressStore はアップロード進捗の一時キャッシュを提供します。
// 真実の値はPostgreSQLのセッション行であり、ここは高頻度な
// 進捗参照のための揮発レイヤーです。消失しても機能に影響しません。
type ProgressStore struct {
	client *RedisClient
	ttl    time.Duration
}

// NewProgressStore は新しいProgressStoreを作成します
func NewProgressStore(client *RedisClient, ttl time.Duration) *ProgressStore {
	return &ProgressStore{
		client: client,
		ttl:    ttl,
	}
}

var _ repository.UploadProgressStore = (*ProgressStore)(nil)

// Set はセッションの受信済みバイト数を記録します
func (s *ProgressStore) Set(ctx context.Context, sessionID uuid.UUID, uploadedBytes int64) error {
	key := UploadProgressKey(sessionID.String())
	if err := s.client.Client().Set(ctx, key, uploadedBytes, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set upload progress: %w", err)
	}
	return nil
}

// Get はセッションの受信済みバイト数を取得します。
// エントリが存在しない場合は found=false を返します。
func (s *ProgressStore) Get(ctx context.Context, sessionID uuid.UUID) (int64, bool, error) {
	key := UploadProgressKey(sessionID.String())
	val, err := s.client.Client().Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to get upload progress: %w", err)
	}

	bytes, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("failed to parse upload progress: %w", err)
	}

	return bytes, true, nil
}

// Clear はセッションの進捗エントリを削除します。
// 存在しないエントリの削除もエラーにしません。
func (s *ProgressStore) Clear(ctx context.Context, sessionID uuid.UUID) error {
	key := UploadProgressKey(sessionID.String())
	if err := s.client.Client().Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to clear upload progress: %w", err)
	}
	return nil
}
