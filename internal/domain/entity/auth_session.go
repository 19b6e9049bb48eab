package entity

import (
	"time"

	"github.com/google/uuid"
)

// AuthSession はブラウザの認証セッションを表します
// ログイン・登録のフローは別システムの責務で、ここでは識別の解決にのみ使います
type AuthSession struct {
	ID         string
	UserID     uuid.UUID
	UserAgent  string
	IPAddress  string
	CreatedAt  time.Time
	ExpiresAt  time.Time
	LastUsedAt time.Time
}

// IsExpired はセッションが期限切れかどうかを判定します
func (s *AuthSession) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Refresh は最終利用時刻を更新します（スライディングウィンドウ）
func (s *AuthSession) Refresh() {
	s.LastUsedAt = time.Now()
}
