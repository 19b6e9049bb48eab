package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/stwebyy/rally-track-sub001/internal/interface/dto/request"
	"github.com/stwebyy/rally-track-sub001/internal/interface/dto/response"
	"github.com/stwebyy/rally-track-sub001/internal/interface/middleware"
	"github.com/stwebyy/rally-track-sub001/internal/interface/presenter"
	"github.com/stwebyy/rally-track-sub001/internal/usecase/upload/command"
	"github.com/stwebyy/rally-track-sub001/internal/usecase/upload/query"
	"github.com/stwebyy/rally-track-sub001/pkg/apperror"
	"github.com/stwebyy/rally-track-sub001/pkg/logger"
)

// UploadHandler はアップロードセッション関連のHTTPハンドラーです
type UploadHandler struct {
	initiateUpload    *command.InitiateUploadUsecase
	reportProgress    *command.ReportProgressUsecase
	syncVideo         *command.SyncVideoUsecase
	verifyResume      *command.VerifyResumeUsecase
	clearProgress     *command.ClearProgressUsecase
	getUploadStatus   *query.GetUploadStatusUsecase
	getVideoInfo      *query.GetVideoInfoUsecase
	getProviderStatus *query.GetProviderStatusUsecase
}

// NewUploadHandler は新しいUploadHandlerを作成します
func NewUploadHandler(
	initiateUpload *command.InitiateUploadUsecase,
	reportProgress *command.ReportProgressUsecase,
	syncVideo *command.SyncVideoUsecase,
	verifyResume *command.VerifyResumeUsecase,
	clearProgress *command.ClearProgressUsecase,
	getUploadStatus *query.GetUploadStatusUsecase,
	getVideoInfo *query.GetVideoInfoUsecase,
	getProviderStatus *query.GetProviderStatusUsecase,
) *UploadHandler {
	return &UploadHandler{
		initiateUpload:    initiateUpload,
		reportProgress:    reportProgress,
		syncVideo:         syncVideo,
		verifyResume:      verifyResume,
		clearProgress:     clearProgress,
		getUploadStatus:   getUploadStatus,
		getVideoInfo:      getVideoInfo,
		getProviderStatus: getProviderStatus,
	}
}

// Initiate はアップロードセッションを作成します
// POST /api/v1/uploads
func (h *UploadHandler) Initiate(c echo.Context) error {
	userID, err := middleware.GetUserUUID(c)
	if err != nil {
		return err
	}

	var req request.InitiateUploadRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewInvalidRequestError("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.initiateUpload.Execute(c.Request().Context(), command.InitiateUploadInput{
		OwnerID:  userID,
		FileName: req.FileName,
		FileSize: req.FileSize,
		Metadata: req.Metadata,
	})
	if err != nil {
		return err
	}

	return presenter.Created(c, response.NewUploadSessionResponse(output.Session))
}

// ReportProgress はアップロード進捗を記録します
// POST /api/v1/uploads/:sessionId/progress
func (h *UploadHandler) ReportProgress(c echo.Context) error {
	userID, err := middleware.GetUserUUID(c)
	if err != nil {
		return err
	}

	sessionID, err := parseSessionID(c)
	if err != nil {
		return err
	}

	var req request.ReportProgressRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewInvalidRequestError("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := logger.ContextWithSessionID(c.Request().Context(), sessionID.String())

	output, err := h.reportProgress.Execute(ctx, command.ReportProgressInput{
		SessionID:     sessionID,
		OwnerID:       userID,
		UploadedBytes: *req.UploadedBytes,
	})
	if err != nil {
		return err
	}

	session := output.Session
	return presenter.OK(c, response.NewUploadStatusResponse(session, session.UploadedBytes, session.ProgressPercentage()))
}

// GetStatus はアップロードセッションの状態を返します
// GET /api/v1/uploads/:sessionId
func (h *UploadHandler) GetStatus(c echo.Context) error {
	userID, err := middleware.GetUserUUID(c)
	if err != nil {
		return err
	}

	sessionID, err := parseSessionID(c)
	if err != nil {
		return err
	}

	output, err := h.getUploadStatus.Execute(c.Request().Context(), query.GetUploadStatusInput{
		SessionID: sessionID,
		OwnerID:   userID,
	})
	if err != nil {
		return err
	}

	return presenter.OK(c, response.NewUploadStatusResponse(output.Session, output.UploadedBytes, output.ProgressPercentage))
}

// SyncVideo はプロバイダーに動画IDを照会してセッションを確定させます
// POST /api/v1/uploads/:sessionId/sync
func (h *UploadHandler) SyncVideo(c echo.Context) error {
	userID, err := middleware.GetUserUUID(c)
	if err != nil {
		return err
	}

	sessionID, err := parseSessionID(c)
	if err != nil {
		return err
	}

	ctx := logger.ContextWithSessionID(c.Request().Context(), sessionID.String())

	output, err := h.syncVideo.Execute(ctx, command.SyncVideoInput{
		SessionID: sessionID,
		OwnerID:   userID,
	})
	if err != nil {
		return err
	}

	return presenter.OK(c, &response.SyncVideoResponse{
		Synced:  output.Synced,
		VideoID: output.VideoID,
		Status:  string(output.Session.Status),
	})
}

// VerifyResume はアップロード再開の可否を検証します
// POST /api/v1/uploads/:sessionId/resume
func (h *UploadHandler) VerifyResume(c echo.Context) error {
	userID, err := middleware.GetUserUUID(c)
	if err != nil {
		return err
	}

	sessionID, err := parseSessionID(c)
	if err != nil {
		return err
	}

	var req request.VerifyResumeRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewInvalidRequestError("invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.verifyResume.Execute(c.Request().Context(), command.VerifyResumeInput{
		SessionID: sessionID,
		OwnerID:   userID,
		FileName:  req.FileName,
		FileSize:  req.FileSize,
	})
	if err != nil {
		return err
	}

	return presenter.OK(c, &response.VerifyResumeResponse{
		ResumeFrom: output.ResumeFrom,
		UploadURL:  output.UploadURL,
		Status:     string(output.Session.Status),
		ExpiresAt:  output.Session.ExpiresAt,
	})
}

// ClearProgress はセッションの進捗キャッシュを削除します
// DELETE /api/v1/uploads/:sessionId/progress
func (h *UploadHandler) ClearProgress(c echo.Context) error {
	userID, err := middleware.GetUserUUID(c)
	if err != nil {
		return err
	}

	sessionID, err := parseSessionID(c)
	if err != nil {
		return err
	}

	if err := h.clearProgress.Execute(c.Request().Context(), command.ClearProgressInput{
		SessionID: sessionID,
		OwnerID:   userID,
	}); err != nil {
		return err
	}

	return presenter.NoContent(c)
}

// GetVideoInfo は完了済みセッションに紐づく動画情報を返します
// GET /api/v1/uploads/:sessionId/video
func (h *UploadHandler) GetVideoInfo(c echo.Context) error {
	userID, err := middleware.GetUserUUID(c)
	if err != nil {
		return err
	}

	sessionID, err := parseSessionID(c)
	if err != nil {
		return err
	}

	output, err := h.getVideoInfo.Execute(c.Request().Context(), query.GetVideoInfoInput{
		SessionID: sessionID,
		OwnerID:   userID,
	})
	if err != nil {
		return err
	}

	return presenter.OK(c, response.NewVideoInfoResponse(output.Video))
}

// GetProviderStatus はプロバイダーの認証・クォータ状態を返します
// GET /api/v1/uploads/provider/status
func (h *UploadHandler) GetProviderStatus(c echo.Context) error {
	if _, err := middleware.GetUserUUID(c); err != nil {
		return err
	}

	output, err := h.getProviderStatus.Execute(c.Request().Context())
	if err != nil {
		return err
	}

	return presenter.OK(c, &response.ProviderStatusResponse{
		Valid:          output.Valid,
		QuotaRemaining: output.QuotaRemaining,
	})
}

// parseSessionID はパスパラメータのセッションIDを検証します
func parseSessionID(c echo.Context) (uuid.UUID, error) {
	sessionID, err := uuid.Parse(c.Param("sessionId"))
	if err != nil {
		return uuid.Nil, apperror.NewInvalidRequestError("invalid session id")
	}
	return sessionID, nil
}
