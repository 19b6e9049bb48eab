package di

import (
	"github.com/stwebyy/rally-track-sub001/internal/usecase/upload/command"
	"github.com/stwebyy/rally-track-sub001/internal/usecase/upload/query"
)

// Usecases はアプリケーションのユースケース群を束ねます
type Usecases struct {
	InitiateUpload    *command.InitiateUploadUsecase
	ReportProgress    *command.ReportProgressUsecase
	SyncVideo         *command.SyncVideoUsecase
	VerifyResume      *command.VerifyResumeUsecase
	ClearProgress     *command.ClearProgressUsecase
	ExpireSessions    *command.ExpireSessionsUsecase
	GetUploadStatus   *query.GetUploadStatusUsecase
	GetVideoInfo      *query.GetVideoInfoUsecase
	GetProviderStatus *query.GetProviderStatusUsecase
}

// NewUsecases はユースケース群を作成します
func NewUsecases(c *Container) *Usecases {
	return &Usecases{
		InitiateUpload: command.NewInitiateUploadUsecase(
			c.UploadSessionRepo,
			c.ProgressStore,
			c.VideoProvider,
			c.Config.Upload.SessionTTL,
			c.Config.Upload.MaxFileSize,
		),
		ReportProgress: command.NewReportProgressUsecase(
			c.UploadSessionRepo,
			c.ProgressStore,
			c.TxManager,
		),
		SyncVideo: command.NewSyncVideoUsecase(
			c.UploadSessionRepo,
			c.ProgressStore,
			c.TxManager,
			c.VideoProvider,
		),
		VerifyResume: command.NewVerifyResumeUsecase(
			c.UploadSessionRepo,
			c.TxManager,
		),
		ClearProgress: command.NewClearProgressUsecase(
			c.UploadSessionRepo,
			c.ProgressStore,
		),
		ExpireSessions: command.NewExpireSessionsUsecase(
			c.UploadSessionRepo,
			c.ProgressStore,
			c.TxManager,
		),
		GetUploadStatus: query.NewGetUploadStatusUsecase(
			c.UploadSessionRepo,
			c.ProgressStore,
			c.TxManager,
		),
		GetVideoInfo: query.NewGetVideoInfoUsecase(
			c.UploadSessionRepo,
			c.VideoProvider,
		),
		GetProviderStatus: query.NewGetProviderStatusUsecase(c.VideoProvider),
	}
}
