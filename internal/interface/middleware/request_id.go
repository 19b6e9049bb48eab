package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/stwebyy/rally-track-sub001/pkg/logger"
)

// リクエストIDヘッダー名
const RequestIDHeader = "X-Request-ID"

// RequestID はリクエストIDを採番してコンテキストとレスポンスヘッダーに載せます
// クライアントから渡された場合はその値を使います
func RequestID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Response().Header().Set(RequestIDHeader, requestID)

		ctx := logger.ContextWithRequestID(c.Request().Context(), requestID)
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}
