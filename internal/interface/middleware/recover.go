package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/labstack/echo/v4"

	"github.com/stwebyy/rally-track-sub001/pkg/apperror"
	"github.com/stwebyy/rally-track-sub001/pkg/logger"
)

// Recover はハンドラーのパニックを捕捉して500レスポンスに変換します
func Recover(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error(c.Request().Context(), "panic recovered",
					"panic", fmt.Sprintf("%v", r),
					"stack", string(debug.Stack()),
				)
				err = apperror.NewInternalError(fmt.Errorf("panic: %v", r))
			}
		}()
		return next(c)
	}
}
