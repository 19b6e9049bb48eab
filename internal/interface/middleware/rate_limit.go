package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/stwebyy/rally-track-sub001/internal/infrastructure/cache"
	"github.com/stwebyy/rally-track-sub001/pkg/apperror"
	"github.com/stwebyy/rally-track-sub001/pkg/logger"
)

// レート制限スコープ
const (
	RateLimitScopeAPI      = "api"
	RateLimitScopeProgress = "progress"
)

// RateLimitMiddleware はRedisベースのレート制限ミドルウェアです
type RateLimitMiddleware struct {
	limiter *cache.RateLimiter
}

// NewRateLimitMiddleware は新しいRateLimitMiddlewareを作成します
func NewRateLimitMiddleware(limiter *cache.RateLimiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{limiter: limiter}
}

// ByIP はIPアドレス単位でレート制限します
func (m *RateLimitMiddleware) ByIP(scope string, limit int64, window time.Duration) echo.MiddlewareFunc {
	return m.limit(scope, limit, window, func(c echo.Context) string {
		return c.RealIP()
	})
}

// ByUser は認証済みユーザー単位でレート制限します
// 未認証リクエストはIPアドレスで制限します
func (m *RateLimitMiddleware) ByUser(scope string, limit int64, window time.Duration) echo.MiddlewareFunc {
	return m.limit(scope, limit, window, func(c echo.Context) string {
		if userID, err := GetUserUUID(c); err == nil {
			return userID.String()
		}
		return c.RealIP()
	})
}

func (m *RateLimitMiddleware) limit(scope string, limit int64, window time.Duration, identify func(c echo.Context) string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			result, err := m.limiter.Allow(ctx, scope, identify(c), limit, window)
			if err != nil {
				// レート制限の障害でリクエストを止めない
				logger.Warn(ctx, "rate limiter unavailable", "error", err.Error())
				return next(c)
			}

			if !result.Allowed {
				if result.RetryAfter > 0 {
					c.Response().Header().Set("Retry-After", result.RetryAfter.Round(time.Second).String())
				}
				return apperror.NewTooManyRequestsError("too many requests")
			}

			return next(c)
		}
	}
}
