package entity

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
)

// アップロードセッションステータス
type UploadSessionStatus string

const (
	UploadSessionStatusUploading  UploadSessionStatus = "uploading"
	UploadSessionStatusProcessing UploadSessionStatus = "processing"
	UploadSessionStatusCompleted  UploadSessionStatus = "completed"
	UploadSessionStatusFailed     UploadSessionStatus = "failed"
)

// アップロード関連定数
const (
	MaxFileSize = 10 * 1024 * 1024 * 1024 // 10GB

	// SessionExpiredMessage は期限切れ遷移時に設定される固定メッセージです
	SessionExpiredMessage = "Session expired"
)

// アップロードセッション関連エラー
var (
	ErrUploadSessionExpired   = errors.New("upload session expired")
	ErrUploadSessionCompleted = errors.New("upload session already completed")
	ErrUploadSessionFailed    = errors.New("upload session already failed")
	ErrUploadSessionTerminal  = errors.New("upload session is in a terminal state")
	ErrNegativeUploadedBytes  = errors.New("uploaded bytes must not be negative")
)

// UploadSession はアップロードセッションエンティティです
// 1つの動画ファイルを外部ホスティングプロバイダーへ転送する1回の試行を表します
type UploadSession struct {
	ID                uuid.UUID
	OwnerID           uuid.UUID // 所有者ID。全ての読み書きはこのIDでスコープされる
	FileName          string    // 作成時に固定、以後不変
	FileSize          int64     // バイト。作成時に固定
	UploadedBytes     int64     // 単調非減少
	Status            UploadSessionStatus
	ExternalVideoID   *string // プロバイダー側の動画ID。完了時のみ設定
	ExternalUploadURL string  // プロバイダーが発行したアップロードURL。発行後不変
	Metadata          map[string]string
	ErrorMessage      *string // failed時のみ設定
	ExpiresAt         time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewUploadSession は新しいアップロードセッションを作成します
// 期限とアップロードURLはプロバイダーのグラントから渡されます
func NewUploadSession(
	ownerID uuid.UUID,
	fileName string,
	fileSize int64,
	uploadURL string,
	expiresAt time.Time,
	metadata map[string]string,
) *UploadSession {
	now := time.Now()
	return &UploadSession{
		ID:                uuid.New(),
		OwnerID:           ownerID,
		FileName:          fileName,
		FileSize:          fileSize,
		UploadedBytes:     0,
		Status:            UploadSessionStatusUploading,
		ExternalUploadURL: uploadURL,
		Metadata:          metadata,
		ExpiresAt:         expiresAt,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// ReconstructUploadSession はDBからアップロードセッションを復元します
func ReconstructUploadSession(
	id uuid.UUID,
	ownerID uuid.UUID,
	fileName string,
	fileSize int64,
	uploadedBytes int64,
	status UploadSessionStatus,
	externalVideoID *string,
	externalUploadURL string,
	metadata map[string]string,
	errorMessage *string,
	expiresAt time.Time,
	createdAt time.Time,
	updatedAt time.Time,
) *UploadSession {
	return &UploadSession{
		ID:                id,
		OwnerID:           ownerID,
		FileName:          fileName,
		FileSize:          fileSize,
		UploadedBytes:     uploadedBytes,
		Status:            status,
		ExternalVideoID:   externalVideoID,
		ExternalUploadURL: externalUploadURL,
		Metadata:          metadata,
		ErrorMessage:      errorMessage,
		ExpiresAt:         expiresAt,
		CreatedAt:         createdAt,
		UpdatedAt:         updatedAt,
	}
}

// RecordProgress はアップロード済みバイト数を記録します
// 保存済みより小さい値は古いリトライとして無視し、保存値を維持します
// 全バイト受信済みになるとprocessingへ遷移します
func (s *UploadSession) RecordProgress(uploadedBytes int64) error {
	if uploadedBytes < 0 {
		return ErrNegativeUploadedBytes
	}
	if s.IsTerminal() {
		return s.terminalError()
	}

	if uploadedBytes > s.UploadedBytes {
		s.UploadedBytes = uploadedBytes
	}

	if s.UploadedBytes >= s.FileSize {
		s.Status = UploadSessionStatusProcessing
	} else {
		s.Status = UploadSessionStatusUploading
	}

	s.UpdatedAt = time.Now()
	return nil
}

// Complete はプロバイダー側の動画IDを記録してセッションを完了状態にします
func (s *UploadSession) Complete(videoID string) error {
	if s.IsTerminal() {
		return s.terminalError()
	}
	if s.IsExpired() {
		return ErrUploadSessionExpired
	}

	s.ExternalVideoID = &videoID
	s.Status = UploadSessionStatusCompleted
	s.ErrorMessage = nil
	s.UpdatedAt = time.Now()
	return nil
}

// Fail はセッションを失敗状態にします
// 既に終端状態の場合は何も変更しません（冪等）
func (s *UploadSession) Fail(message string) error {
	if s.IsTerminal() {
		return s.terminalError()
	}

	s.Status = UploadSessionStatusFailed
	s.ErrorMessage = &message
	s.UpdatedAt = time.Now()
	return nil
}

// Expire はセッションを期限切れとして失敗状態にします
func (s *UploadSession) Expire() error {
	return s.Fail(SessionExpiredMessage)
}

// IsExpired は期限を過ぎているかどうかを判定します
func (s *UploadSession) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// IsTerminal は終端状態（completed / failed）かどうかを判定します
func (s *UploadSession) IsTerminal() bool {
	return s.Status == UploadSessionStatusCompleted || s.Status == UploadSessionStatusFailed
}

// IsUploading はアップロード中かどうかを判定します
func (s *UploadSession) IsUploading() bool {
	return s.Status == UploadSessionStatusUploading
}

// IsProcessing は全バイト受信済みでプロバイダーの確定待ちかどうかを判定します
func (s *UploadSession) IsProcessing() bool {
	return s.Status == UploadSessionStatusProcessing
}

// IsCompleted は完了済みかどうかを判定します
func (s *UploadSession) IsCompleted() bool {
	return s.Status == UploadSessionStatusCompleted
}

// IsFailed は失敗済みかどうかを判定します
func (s *UploadSession) IsFailed() bool {
	return s.Status == UploadSessionStatusFailed
}

// IsExpiredFailure は期限切れによる失敗かどうかを判定します
func (s *UploadSession) IsExpiredFailure() bool {
	return s.IsFailed() && s.ErrorMessage != nil && *s.ErrorMessage == SessionExpiredMessage
}

// IsOwnedBy は指定ユーザーが所有者かどうかを判定します
func (s *UploadSession) IsOwnedBy(ownerID uuid.UUID) bool {
	return s.OwnerID == ownerID
}

// MatchesFile は再選択されたファイルが作成時のファイルと一致するかを判定します
func (s *UploadSession) MatchesFile(fileName string, fileSize int64) bool {
	return s.FileName == fileName && s.FileSize == fileSize
}

// ProgressPercentage は表示用の進捗率を返します（0-100）
// FileSizeが0の場合は0。保存されたバイト数自体はクランプされません
func (s *UploadSession) ProgressPercentage() int {
	if s.FileSize <= 0 {
		return 0
	}

	pct := int(math.Round(float64(s.UploadedBytes) / float64(s.FileSize) * 100))
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return pct
}

// terminalError は現在の終端状態に対応するエラーを返します
func (s *UploadSession) terminalError() error {
	switch s.Status {
	case UploadSessionStatusCompleted:
		return ErrUploadSessionCompleted
	case UploadSessionStatusFailed:
		return ErrUploadSessionFailed
	default:
		return ErrUploadSessionTerminal
	}
}
