package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/stwebyy/rally-track-sub001/internal/interface/presenter"
)

// HealthChecker は依存コンポーネントの疎通確認を提供します
type HealthChecker interface {
	Health(ctx context.Context) error
}

// HealthHandler はヘルスチェックのHTTPハンドラーです
type HealthHandler struct {
	checkers map[string]HealthChecker
}

// NewHealthHandler は新しいHealthHandlerを作成します
func NewHealthHandler(checkers map[string]HealthChecker) *HealthHandler {
	return &HealthHandler{checkers: checkers}
}

// Health はプロセスの生存確認に応答します
// GET /health
func (h *HealthHandler) Health(c echo.Context) error {
	return presenter.OK(c, map[string]string{"status": "ok"})
}

// Ready は依存コンポーネントの疎通を確認して応答します
// GET /ready
func (h *HealthHandler) Ready(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	components := make(map[string]string, len(h.checkers))
	healthy := true

	for name, checker := range h.checkers {
		if err := checker.Health(ctx); err != nil {
			components[name] = "unavailable"
			healthy = false
			continue
		}
		components[name] = "ok"
	}

	status := http.StatusOK
	overall := "ok"
	if !healthy {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}

	return c.JSON(status, map[string]any{
		"status":     overall,
		"components": components,
	})
}
