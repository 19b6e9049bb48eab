package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/stwebyy/rally-track-sub001/internal/domain/repository"
	"github.com/stwebyy/rally-track-sub001/pkg/apperror"
	"github.com/stwebyy/rally-track-sub001/pkg/logger"
)

// セッションクッキー名
const SessionCookieName = "session_id"

// SessionAuthMiddleware はクッキーの認証セッションを検証するミドルウェアです
type SessionAuthMiddleware struct {
	authSessionRepo repository.AuthSessionRepository
}

// NewSessionAuthMiddleware は新しいSessionAuthMiddlewareを作成します
func NewSessionAuthMiddleware(authSessionRepo repository.AuthSessionRepository) *SessionAuthMiddleware {
	return &SessionAuthMiddleware{authSessionRepo: authSessionRepo}
}

// Authenticate はリクエストの認証を行い、ユーザーIDをコンテキストに載せます
func (m *SessionAuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(SessionCookieName)
		if err != nil || cookie.Value == "" {
			return apperror.NewUnauthorizedError("authentication required")
		}

		session, err := m.authSessionRepo.FindByID(c.Request().Context(), cookie.Value)
		if err != nil {
			return err
		}

		c.Set(ContextKeyUserID, session.UserID)
		c.Set(ContextKeyAuthSessionID, session.ID)

		// 最終利用時刻のスライディング更新。失敗しても認証自体は通す
		session.Refresh()
		if err := m.authSessionRepo.Save(c.Request().Context(), session); err != nil {
			logger.Warn(c.Request().Context(), "failed to refresh auth session", "error", err.Error())
		}

		ctx := logger.ContextWithUserID(c.Request().Context(), session.UserID.String())
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}
