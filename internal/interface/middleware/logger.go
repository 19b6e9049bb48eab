package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/stwebyy/rally-track-sub001/pkg/logger"
)

// RequestLogger はリクエストごとのアクセスログを出力します
func RequestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		err := next(c)

		ctx := c.Request().Context()
		status := c.Response().Status
		args := []any{
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"remote_ip", c.RealIP(),
		}

		switch {
		case status >= 500:
			logger.Error(ctx, "request completed", args...)
		case status >= 400:
			logger.Warn(ctx, "request completed", args...)
		default:
			logger.Info(ctx, "request completed", args...)
		}

		return err
	}
}
