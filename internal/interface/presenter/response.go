package presenter

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/stwebyy/rally-track-sub001/pkg/apperror"
)

// SuccessResponse は成功レスポンスのエンベロープです
type SuccessResponse struct {
	Data any `json:"data"`
	Meta any `json:"meta,omitempty"`
}

// ErrorResponse はエラーレスポンスのエンベロープです
type ErrorResponse struct {
	Error *apperror.AppError `json:"error"`
}

// JSON は成功レスポンスを返します
func JSON(c echo.Context, status int, data any) error {
	return c.JSON(status, SuccessResponse{Data: data})
}

// OK は200レスポンスを返します
func OK(c echo.Context, data any) error {
	return JSON(c, http.StatusOK, data)
}

// Created は201レスポンスを返します
func Created(c echo.Context, data any) error {
	return JSON(c, http.StatusCreated, data)
}

// NoContent は204レスポンスを返します
func NoContent(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

// Error はアプリケーションエラーをレスポンスに変換します
func Error(c echo.Context, err *apperror.AppError) error {
	return c.JSON(err.HTTPStatus, ErrorResponse{Error: err})
}
