package response

import (
	"time"

	"github.com/stwebyy/rally-track-sub001/internal/domain/entity"
	"github.com/stwebyy/rally-track-sub001/internal/domain/service"
)

// UploadSessionResponse はアップロードセッションのレスポンスです
type UploadSessionResponse struct {
	ID                 string            `json:"id"`
	FileName           string            `json:"file_name"`
	FileSize           int64             `json:"file_size"`
	UploadedBytes      int64             `json:"uploaded_bytes"`
	ProgressPercentage int               `json:"progress_percentage"`
	Status             string            `json:"status"`
	UploadURL          string            `json:"upload_url,omitempty"`
	VideoID            *string           `json:"video_id,omitempty"`
	Metadata           map[string]string `json:"metadata,omitempty"`
	ErrorMessage       *string           `json:"error_message,omitempty"`
	ExpiresAt          time.Time         `json:"expires_at"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// NewUploadSessionResponse はエンティティからレスポンスを作成します
func NewUploadSessionResponse(session *entity.UploadSession) *UploadSessionResponse {
	return &UploadSessionResponse{
		ID:                 session.ID.String(),
		FileName:           session.FileName,
		FileSize:           session.FileSize,
		UploadedBytes:      session.UploadedBytes,
		ProgressPercentage: session.ProgressPercentage(),
		Status:             string(session.Status),
		UploadURL:          session.ExternalUploadURL,
		VideoID:            session.ExternalVideoID,
		Metadata:           session.Metadata,
		ErrorMessage:       session.ErrorMessage,
		ExpiresAt:          session.ExpiresAt,
		CreatedAt:          session.CreatedAt,
		UpdatedAt:          session.UpdatedAt,
	}
}

// UploadStatusResponse はアップロード状態参照のレスポンスです
// 進捗キャッシュにより永続化値より新しいバイト数を返すことがあります
type UploadStatusResponse struct {
	ID                 string    `json:"id"`
	FileName           string    `json:"file_name"`
	FileSize           int64     `json:"file_size"`
	UploadedBytes      int64     `json:"uploaded_bytes"`
	ProgressPercentage int       `json:"progress_percentage"`
	Status             string    `json:"status"`
	IsExpired          bool      `json:"is_expired"`
	VideoID            *string   `json:"video_id,omitempty"`
	ErrorMessage       *string   `json:"error_message,omitempty"`
	ExpiresAt          time.Time `json:"expires_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// NewUploadStatusResponse は状態参照のレスポンスを作成します
func NewUploadStatusResponse(session *entity.UploadSession, uploadedBytes int64, percentage int) *UploadStatusResponse {
	return &UploadStatusResponse{
		ID:                 session.ID.String(),
		FileName:           session.FileName,
		FileSize:           session.FileSize,
		UploadedBytes:      uploadedBytes,
		ProgressPercentage: percentage,
		Status:             string(session.Status),
		IsExpired:          session.IsExpired(),
		VideoID:            session.ExternalVideoID,
		ErrorMessage:       session.ErrorMessage,
		ExpiresAt:          session.ExpiresAt,
		UpdatedAt:          session.UpdatedAt,
	}
}

// SyncVideoResponse は動画ID同期のレスポンスです
type SyncVideoResponse struct {
	Synced  bool   `json:"synced"`
	VideoID string `json:"video_id,omitempty"`
	Status  string `json:"status"`
}

// VerifyResumeResponse はアップロード再開検証のレスポンスです
type VerifyResumeResponse struct {
	ResumeFrom int64     `json:"resume_from"`
	UploadURL  string    `json:"upload_url"`
	Status     string    `json:"status"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// VideoInfoResponse は公開動画情報のレスポンスです
type VideoInfoResponse struct {
	VideoID         string     `json:"video_id"`
	Title           string     `json:"title"`
	Status          string     `json:"status"`
	DurationSeconds int64      `json:"duration_seconds"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
}

// NewVideoInfoResponse はプロバイダーの動画情報からレスポンスを作成します
func NewVideoInfoResponse(video *service.VideoInfo) *VideoInfoResponse {
	return &VideoInfoResponse{
		VideoID:         video.VideoID,
		Title:           video.Title,
		Status:          video.Status,
		DurationSeconds: int64(video.Duration.Seconds()),
		PublishedAt:     video.PublishedAt,
	}
}

// ProviderStatusResponse はプロバイダー接続状態のレスポンスです
type ProviderStatusResponse struct {
	Valid          bool  `json:"valid"`
	QuotaRemaining int64 `json:"quota_remaining"`
}
