package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/stwebyy/rally-track-sub001/pkg/apperror"
)

// echoコンテキストのキー
const (
	ContextKeyUserID        = "user_id"
	ContextKeyAuthSessionID = "auth_session_id"
)

// GetUserUUID は認証済みユーザーのIDを取得します
func GetUserUUID(c echo.Context) (uuid.UUID, error) {
	raw := c.Get(ContextKeyUserID)
	if raw == nil {
		return uuid.Nil, apperror.NewUnauthorizedError("authentication required")
	}

	userID, ok := raw.(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, apperror.NewUnauthorizedError("authentication required")
	}

	return userID, nil
}
