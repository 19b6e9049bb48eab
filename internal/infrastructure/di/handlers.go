package di

import (
	"github.com/stwebyy/rally-track-sub001/internal/interface/handler"
	"github.com/stwebyy/rally-track-sub001/internal/interface/middleware"
	"github.com/stwebyy/rally-track-sub001/internal/interface/router"
)

// NewRouterHandlers はルーティング用のハンドラー群を作成します
func NewRouterHandlers(c *Container, u *Usecases) router.Handlers {
	return router.Handlers{
		Upload: handler.NewUploadHandler(
			u.InitiateUpload,
			u.ReportProgress,
			u.SyncVideo,
			u.VerifyResume,
			u.ClearProgress,
			u.GetUploadStatus,
			u.GetVideoInfo,
			u.GetProviderStatus,
		),
		Health: handler.NewHealthHandler(map[string]handler.HealthChecker{
			"postgres": c.Postgres,
			"redis":    c.Redis,
		}),
	}
}

// NewRouterMiddlewares はルーティング用のミドルウェア群を作成します
func NewRouterMiddlewares(c *Container) router.Middlewares {
	return router.Middlewares{
		SessionAuth: middleware.NewSessionAuthMiddleware(c.AuthSessionStore),
		RateLimit:   middleware.NewRateLimitMiddleware(c.RateLimiter),
	}
}
