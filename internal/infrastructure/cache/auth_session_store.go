package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stwebyy/rally-track-sub001/internal/domain/entity"
	"github.com/stwebyy/rally-track-sub001/internal/domain/repository"
	"github.com/stwebyy/rally-track-sub001/pkg/apperror"
)

// AuthSessionStore はRedisを使った認証セッションの永続化を提供します
type AuthSessionStore struct {
	client *RedisClient
	ttl    time.Duration
}

// NewAuthSessionStore は新しいAuthSessionStoreを作成します
func NewAuthSessionStore(client *RedisClient, ttl time.Duration) *AuthSessionStore {
	return &AuthSessionStore{
		client: client,
		ttl:    ttl,
	}
}

var _ repository.AuthSessionRepository = (*AuthSessionStore)(nil)

// FindByID はセッションIDから認証セッションを取得します
func (s *AuthSessionStore) FindByID(ctx context.Context, sessionID string) (*entity.AuthSession, error) {
	data, err := s.client.Client().Get(ctx, AuthSessionKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperror.NewUnauthorizedError("session not found")
		}
		return nil, fmt.Errorf("failed to get auth session: %w", err)
	}

	var session entity.AuthSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal auth session: %w", err)
	}

	if session.IsExpired() {
		// 期限切れセッションは削除して未認証扱いにする
		_ = s.Delete(ctx, sessionID)
		return nil, apperror.NewUnauthorizedError("session expired")
	}

	return &session, nil
}

// Save は認証セッションを保存します
func (s *AuthSessionStore) Save(ctx context.Context, session *entity.AuthSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal auth session: %w", err)
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		ttl = s.ttl
	}

	if err := s.client.Client().Set(ctx, AuthSessionKey(session.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save auth session: %w", err)
	}

	return nil
}

// Delete は認証セッションを削除します
func (s *AuthSessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Client().Del(ctx, AuthSessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete auth session: %w", err)
	}
	return nil
}
