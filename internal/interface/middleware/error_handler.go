package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/stwebyy/rally-track-sub001/internal/interface/presenter"
	"github.com/stwebyy/rally-track-sub001/pkg/apperror"
	"github.com/stwebyy/rally-track-sub001/pkg/logger"
)

// ErrorHandler はエラーを統一フォーマットのレスポンスに変換します
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	ctx := c.Request().Context()

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		if appErr.HTTPStatus >= http.StatusInternalServerError {
			logger.WithError(ctx, err).Error("request failed")
		} else {
			logger.Debug(ctx, "request rejected", "code", string(appErr.Code), "error", err.Error())
		}
		if err := presenter.Error(c, appErr); err != nil {
			logger.WithError(ctx, err).Error("failed to write error response")
		}
		return
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		message := http.StatusText(echoErr.Code)
		if msg, ok := echoErr.Message.(string); ok {
			message = msg
		}
		appErr = &apperror.AppError{
			Code:       apperror.CodeInvalidRequest,
			Message:    message,
			HTTPStatus: echoErr.Code,
		}
		if echoErr.Code == http.StatusNotFound {
			appErr.Code = apperror.CodeNotFound
		}
		if err := presenter.Error(c, appErr); err != nil {
			logger.WithError(ctx, err).Error("failed to write error response")
		}
		return
	}

	logger.WithError(ctx, err).Error("unexpected error")
	if err := presenter.Error(c, apperror.NewInternalError(err)); err != nil {
		logger.WithError(ctx, err).Error("failed to write error response")
	}
}
