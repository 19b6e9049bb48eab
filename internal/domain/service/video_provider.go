package service

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// CreateUploadRequest はアップロード開始をプロバイダーに依頼するリクエストです
type CreateUploadRequest struct {
	FileName string
	FileSize int64
	Metadata map[string]string
}

// UploadGrant はプロバイダーが発行したアップロード許可を表します
type UploadGrant struct {
	UploadURL string
	ExpiresAt time.Time
}

// UploadOutcome は発行済みアップロードURLに対する結果照会の応答です
// プロバイダーは結果整合なので、完了までDone=falseが続くことがあります
type UploadOutcome struct {
	Done    bool
	VideoID string
}

// VideoInfo はプロバイダー側の動画情報を表します
type VideoInfo struct {
	VideoID     string
	Title       string
	Status      string
	Duration    time.Duration
	PublishedAt *time.Time
}

// AuthStatus はプロバイダーに対する認証・クォータ状態を表します
type AuthStatus struct {
	Valid          bool
	QuotaRemaining int64 // 残りアップロード可能バイト数。負値は無制限
}

// VideoProvider は外部動画ホスティングプロバイダーへのインターフェースを定義します
// バイト列そのものの転送はクライアントがUploadURLへ直接行うため、ここには含まれません
type VideoProvider interface {
	// CreateUpload はアップロードセッション用のURLと期限を発行します
	CreateUpload(ctx context.Context, req CreateUploadRequest) (*UploadGrant, error)

	// QueryUpload は発行済みアップロードURLの結果を照会します
	QueryUpload(ctx context.Context, uploadURL string) (*UploadOutcome, error)

	// GetVideo は動画情報を取得します。存在しない場合は (nil, nil) を返します
	GetVideo(ctx context.Context, videoID string) (*VideoInfo, error)

	// CheckAuth は認証・クォータ状態を確認します（セッションに依存しないプローブ）
	CheckAuth(ctx context.Context) (*AuthStatus, error)
}

// ProviderError はプロバイダー呼び出しの失敗を表します
// Permanentがtrueの場合のみセッションをfailedへ遷移させます
type ProviderError struct {
	StatusCode int
	Code       string
	Message    string
	Permanent  bool
}

// Error はerrorインターフェースを実装します
func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error %s (status=%d, permanent=%t): %s", e.Code, e.StatusCode, e.Permanent, e.Message)
}

// IsPermanentProviderError はリトライしても回復しないプロバイダーエラーかを判定します
func IsPermanentProviderError(err error) bool {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Permanent
	}
	return false
}

// IsQuotaExceeded はクォータ超過エラーかを判定します
func IsQuotaExceeded(err error) bool {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Code == "QUOTA_EXCEEDED"
	}
	return false
}
