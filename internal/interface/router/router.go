package router

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/stwebyy/rally-track-sub001/internal/interface/handler"
	"github.com/stwebyy/rally-track-sub001/internal/interface/middleware"
)

// Handlers はルーティング対象のハンドラー群です
type Handlers struct {
	Upload *handler.UploadHandler
	Health *handler.HealthHandler
}

// Middlewares はルーティングで使うミドルウェア群です
type Middlewares struct {
	SessionAuth *middleware.SessionAuthMiddleware
	RateLimit   *middleware.RateLimitMiddleware
}

// Setup はルーティングを設定します
func Setup(e *echo.Echo, h Handlers, m Middlewares) {
	e.GET("/health", h.Health.Health)
	e.GET("/ready", h.Health.Ready)

	api := e.Group("/api/v1")
	api.Use(m.SessionAuth.Authenticate)
	api.Use(m.RateLimit.ByUser(middleware.RateLimitScopeAPI, 300, time.Minute))

	uploads := api.Group("/uploads")
	uploads.POST("", h.Upload.Initiate)
	uploads.GET("/provider/status", h.Upload.GetProviderStatus)
	uploads.GET("/:sessionId", h.Upload.GetStatus)
	uploads.POST("/:sessionId/progress", h.Upload.ReportProgress,
		m.RateLimit.ByUser(middleware.RateLimitScopeProgress, 120, time.Minute))
	uploads.DELETE("/:sessionId/progress", h.Upload.ClearProgress)
	uploads.POST("/:sessionId/sync", h.Upload.SyncVideo)
	uploads.POST("/:sessionId/resume", h.Upload.VerifyResume)
	uploads.GET("/:sessionId/video", h.Upload.GetVideoInfo)
}
