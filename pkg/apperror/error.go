package apperror

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// ErrorCode はエラーコードを表します
type ErrorCode string

const (
	CodeValidationError    ErrorCode = "VALIDATION_ERROR"
	CodeInvalidRequest     ErrorCode = "INVALID_REQUEST"
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeNotFound           ErrorCode = "NOT_FOUND"
	CodeConflict           ErrorCode = "CONFLICT"
	CodeFileMismatch       ErrorCode = "FILE_MISMATCH"
	CodeSessionExpired     ErrorCode = "SESSION_EXPIRED"
	CodeSyncInProgress     ErrorCode = "SYNC_IN_PROGRESS"
	CodeQuotaExceeded      ErrorCode = "QUOTA_EXCEEDED"
	CodeProviderError      ErrorCode = "PROVIDER_ERROR"
	CodeRateLimitExceeded  ErrorCode = "RATE_LIMIT_EXCEEDED"
	CodeInternalError      ErrorCode = "INTERNAL_ERROR"
	CodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
)

// AppError はアプリケーションエラーを表します
type AppError struct {
	Code       ErrorCode    `json:"code"`
	Message    string       `json:"message"`
	Details    []FieldError `json:"details,omitempty"`
	HTTPStatus int          `json:"-"`
	Err        error        `json:"-"`
}

// FieldError はフィールドエラーを表します
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error はerrorインターフェースを実装します
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap は元のエラーを返します
func (e *AppError) Unwrap() error {
	return e.Err
}

// HasCode はエラーが特定のコードかどうかを判定します
func (e *AppError) HasCode(code ErrorCode) bool {
	return e.Code == code
}

// NewValidationError はバリデーションエラーを作成します
func NewValidationError(message string, details []FieldError) *AppError {
	return &AppError{
		Code:       CodeValidationError,
		Message:    message,
		Details:    details,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewInvalidRequestError は不正リクエストエラーを作成します
func NewInvalidRequestError(message string) *AppError {
	return &AppError{
		Code:       CodeInvalidRequest,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewUnauthorizedError は認証エラーを作成します
func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NewNotFoundError はリソース不在エラーを作成します
// 他人が所有するリソースも同一のエラーになります（存在の漏洩防止）
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
	}
}

// NewConflictError は競合エラーを作成します
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// NewFileMismatchError はファイル再選択不一致エラーを作成します
// 再開時に選択されたファイルがセッション作成時のファイルと一致しない場合、
// 両方のファイル情報とセッションIDをDetailsに載せて返します
func NewFileMismatchError(sessionID uuid.UUID, expectedName string, expectedSize int64, actualName string, actualSize int64) *AppError {
	return &AppError{
		Code:    CodeFileMismatch,
		Message: "selected file does not match the file this upload session was created for",
		Details: []FieldError{
			{Field: "session_id", Message: sessionID.String()},
			{Field: "expected_file_name", Message: expectedName},
			{Field: "expected_file_size", Message: fmt.Sprintf("%d", expectedSize)},
			{Field: "actual_file_name", Message: actualName},
			{Field: "actual_file_size", Message: fmt.Sprintf("%d", actualSize)},
		},
		HTTPStatus: http.StatusConflict,
	}
}

// NewSessionExpiredError はアップロードセッション期限切れエラーを作成します
func NewSessionExpiredError() *AppError {
	return &AppError{
		Code:       CodeSessionExpired,
		Message:    "upload session has expired",
		HTTPStatus: http.StatusGone,
	}
}

// NewSyncInProgressError は動画ID同期の重複実行エラーを作成します
func NewSyncInProgressError(sessionID uuid.UUID) *AppError {
	return &AppError{
		Code:       CodeSyncInProgress,
		Message:    "sync already in progress for this upload session",
		Details:    []FieldError{{Field: "session_id", Message: sessionID.String()}},
		HTTPStatus: http.StatusConflict,
	}
}

// NewQuotaExceededError はクォータ超過エラーを作成します
func NewQuotaExceededError(message string) *AppError {
	return &AppError{
		Code:       CodeQuotaExceeded,
		Message:    message,
		HTTPStatus: http.StatusForbidden,
	}
}

// NewProviderError は外部プロバイダーの恒久的エラーを作成します
func NewProviderError(message string, err error) *AppError {
	return &AppError{
		Code:       CodeProviderError,
		Message:    message,
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

// NewProviderUnavailableError は外部プロバイダーの一時的エラーを作成します
// セッションの状態は変更されず、呼び出し元はリトライ可能です
func NewProviderUnavailableError(err error) *AppError {
	return &AppError{
		Code:       CodeServiceUnavailable,
		Message:    "video provider temporarily unavailable",
		HTTPStatus: http.StatusServiceUnavailable,
		Err:        err,
	}
}

// NewTooManyRequestsError はレート制限エラーを作成します
func NewTooManyRequestsError(message string) *AppError {
	return &AppError{
		Code:       CodeRateLimitExceeded,
		Message:    message,
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// NewInternalError は内部エラーを作成します
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:       CodeInternalError,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewServiceUnavailableError はサービス利用不可エラーを作成します
func NewServiceUnavailableError(message string) *AppError {
	return &AppError{
		Code:       CodeServiceUnavailable,
		Message:    message,
		HTTPStatus: http.StatusServiceUnavailable,
	}
}

// IsNotFound はリソース不在エラーかどうかを判定します
func IsNotFound(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == CodeNotFound
	}
	return false
}

// IsSessionExpired はセッション期限切れエラーかどうかを判定します
func IsSessionExpired(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == CodeSessionExpired
	}
	return false
}

// IsFileMismatch はファイル不一致エラーかどうかを判定します
func IsFileMismatch(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code == CodeFileMismatch
	}
	return false
}
