package cache

import "fmt"

// Redisキーの命名規則を一元管理します。
// プレフィックスで用途を分離し、キーの衝突を防ぎます。

// AuthSessionKey は認証セッションのキーを生成します
func AuthSessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

// UserSessionsKey はユーザーのセッション一覧のキーを生成します
func UserSessionsKey(userID string) string {
	return fmt.Sprintf("user_sessions:%s", userID)
}

// UploadProgressKey はアップロード進捗のキーを生成します
func UploadProgressKey(sessionID string) string {
	return fmt.Sprintf("upload:progress:%s", sessionID)
}

// RateLimitKey はレート制限のキーを生成します
func RateLimitKey(scope, identifier string) string {
	return fmt.Sprintf("ratelimit:%s:%s", scope, identifier)
}
