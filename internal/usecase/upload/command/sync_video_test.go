package command

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stwebyy/rally-track-sub001/internal/domain/entity"
	"github.com/stwebyy/rally-track-sub001/internal/domain/service"
	"github.com/stwebyy/rally-track-sub001/pkg/apperror"
	"github.com/stwebyy/rally-track-sub001/tests/testutil/mocks"
)

func newProcessingSession(ownerID uuid.UUID) *entity.UploadSession {
	session := newTestSession(ownerID, 1000, time.Now().Add(time.Hour))
	if err := session.RecordProgress(1000); err != nil {
		panic(err)
	}
	return session
}

func TestSyncVideoUsecase_Execute_CompletesSession(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	session := newProcessingSession(ownerID)

	sessionRepo := mocks.NewUploadSessionRepositoryMock(t)
	progressStore := mocks.NewUploadProgressStoreMock(t)
	txManager := mocks.NewTransactionManagerMock(t)
	provider := mocks.NewVideoProviderMock(t)

	sessionRepo.On("FindByOwner", mock.Anything, session.ID, ownerID).Return(session, nil)
	provider.On("QueryUpload", mock.Anything, session.ExternalUploadURL).
		Return(&service.UploadOutcome{Done: true, VideoID: "video-123"}, nil)
	sessionRepo.On("FindByOwnerForUpdate", mock.Anything, session.ID, ownerID).Return(session, nil)
	sessionRepo.On("Update", mock.Anything, session).Return(nil)
	progressStore.On("Clear", mock.Anything, session.ID).Return(nil)

	usecase := NewSyncVideoUsecase(sessionRepo, progressStore, txManager, provider)

	output, err := usecase.Execute(ctx, SyncVideoInput{SessionID: session.ID, OwnerID: ownerID})

	require.NoError(t, err)
	assert.True(t, output.Synced)
	assert.Equal(t, "video-123", output.VideoID)
	assert.Equal(t, entity.UploadSessionStatusCompleted, session.Status)
}

func TestSyncVideoUsecase_Execute_PendingOutcomeIsNotAnError(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	session := newProcessingSession(ownerID)

	sessionRepo := mocks.NewUploadSessionRepositoryMock(t)
	progressStore := mocks.NewUploadProgressStoreMock(t)
	txManager := mocks.NewTransactionManagerMock(t)
	provider := mocks.NewVideoProviderMock(t)

	sessionRepo.On("FindByOwner", mock.Anything, session.ID, ownerID).Return(session, nil)
	provider.On("QueryUpload", mock.Anything, session.ExternalUploadURL).
		Return(&service.UploadOutcome{Done: false}, nil)

	usecase := NewSyncVideoUsecase(sessionRepo, progressStore, txManager, provider)

	output, err := usecase.Execute(ctx, SyncVideoInput{SessionID: session.ID, OwnerID: ownerID})

	require.NoError(t, err)
	assert.False(t, output.Synced)
	assert.Equal(t, entity.UploadSessionStatusProcessing, session.Status)
}

func TestSyncVideoUsecase_Execute_AlreadyCompletedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	session := newProcessingSession(ownerID)
	require.NoError(t, session.Complete("video-123"))

	sessionRepo := mocks.NewUploadSessionRepositoryMock(t)
	progressStore := mocks.NewUploadProgressStoreMock(t)
	txManager := mocks.NewTransactionManagerMock(t)
	provider := mocks.NewVideoProviderMock(t)

	sessionRepo.On("FindByOwner", mock.Anything, session.ID, ownerID).Return(session, nil)

	usecase := NewSyncVideoUsecase(sessionRepo, progressStore, txManager, provider)

	output, err := usecase.Execute(ctx, SyncVideoInput{SessionID: session.ID, OwnerID: ownerID})

	require.NoError(t, err)
	assert.True(t, output.Synced)
	assert.Equal(t, "video-123", output.VideoID)
}

func TestSyncVideoUsecase_Execute_PermanentProviderErrorFailsSession(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	session := newProcessingSession(ownerID)

	providerErr := &service.ProviderError{
		StatusCode: 403,
		Code:       "UPLOAD_REJECTED",
		Message:    "upload was rejected",
		Permanent:  true,
	}

	sessionRepo := mocks.NewUploadSessionRepositoryMock(t)
	progressStore := mocks.NewUploadProgressStoreMock(t)
	txManager := mocks.NewTransactionManagerMock(t)
	provider := mocks.NewVideoProviderMock(t)

	sessionRepo.On("FindByOwner", mock.Anything, session.ID, ownerID).Return(session, nil)
	provider.On("QueryUpload", mock.Anything, session.ExternalUploadURL).Return(nil, providerErr)
	sessionRepo.On("FindByOwnerForUpdate", mock.Anything, session.ID, ownerID).Return(session, nil)
	sessionRepo.On("Update", mock.Anything, session).Return(nil)
	progressStore.On("Clear", mock.Anything, session.ID).Return(nil)

	usecase := NewSyncVideoUsecase(sessionRepo, progressStore, txManager, provider)

	_, err := usecase.Execute(ctx, SyncVideoInput{SessionID: session.ID, OwnerID: ownerID})

	require.Error(t, err)
	appErr, ok := err.(*apperror.AppError)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeProviderError, appErr.Code)
	assert.Equal(t, entity.UploadSessionStatusFailed, session.Status)
}

func TestSyncVideoUsecase_Execute_TransientProviderErrorKeepsSession(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	session := newProcessingSession(ownerID)

	providerErr := &service.ProviderError{
		StatusCode: 503,
		Code:       "BACKEND_UNAVAILABLE",
		Message:    "try again later",
		Permanent:  false,
	}

	sessionRepo := mocks.NewUploadSessionRepositoryMock(t)
	progressStore := mocks.NewUploadProgressStoreMock(t)
	txManager := mocks.NewTransactionManagerMock(t)
	provider := mocks.NewVideoProviderMock(t)

	sessionRepo.On("FindByOwner", mock.Anything, session.ID, ownerID).Return(session, nil)
	provider.On("QueryUpload", mock.Anything, session.ExternalUploadURL).Return(nil, providerErr)

	usecase := NewSyncVideoUsecase(sessionRepo, progressStore, txManager, provider)

	_, err := usecase.Execute(ctx, SyncVideoInput{SessionID: session.ID, OwnerID: ownerID})

	require.Error(t, err)
	appErr, ok := err.(*apperror.AppError)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeServiceUnavailable, appErr.Code)
	// 一時的エラーではセッションの状態は変わらない
	assert.Equal(t, entity.UploadSessionStatusProcessing, session.Status)
}

func TestSyncVideoUsecase_Execute_ConcurrentSyncRejected(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	session := newProcessingSession(ownerID)

	blockProvider := make(chan struct{})
	providerStarted := make(chan struct{})

	sessionRepo := mocks.NewUploadSessionRepositoryMock(t)
	progressStore := mocks.NewUploadProgressStoreMock(t)
	txManager := mocks.NewTransactionManagerMock(t)
	provider := mocks.NewVideoProviderMock(t)

	sessionRepo.On("FindByOwner", mock.Anything, session.ID, ownerID).Return(session, nil)
	provider.On("QueryUpload", mock.Anything, session.ExternalUploadURL).
		Run(func(args mock.Arguments) {
			close(providerStarted)
			<-blockProvider
		}).
		Return(&service.UploadOutcome{Done: false}, nil)

	usecase := NewSyncVideoUsecase(sessionRepo, progressStore, txManager, provider)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := usecase.Execute(ctx, SyncVideoInput{SessionID: session.ID, OwnerID: ownerID})
		assert.NoError(t, err)
	}()

	<-providerStarted

	_, err := usecase.Execute(ctx, SyncVideoInput{SessionID: session.ID, OwnerID: ownerID})
	require.Error(t, err)
	appErr, ok := err.(*apperror.AppError)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeSyncInProgress, appErr.Code)

	close(blockProvider)
	wg.Wait()
}

func TestSyncVideoUsecase_Execute_ExpiredSessionFails(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	session := newTestSession(ownerID, 1000, time.Now().Add(-time.Minute))

	sessionRepo := mocks.NewUploadSessionRepositoryMock(t)
	progressStore := mocks.NewUploadProgressStoreMock(t)
	txManager := mocks.NewTransactionManagerMock(t)
	provider := mocks.NewVideoProviderMock(t)

	sessionRepo.On("FindByOwner", mock.Anything, session.ID, ownerID).Return(session, nil)
	sessionRepo.On("FindByOwnerForUpdate", mock.Anything, session.ID, ownerID).Return(session, nil)
	sessionRepo.On("Update", mock.Anything, session).Return(nil)
	progressStore.On("Clear", mock.Anything, session.ID).Return(nil)

	usecase := NewSyncVideoUsecase(sessionRepo, progressStore, txManager, provider)

	_, err := usecase.Execute(ctx, SyncVideoInput{SessionID: session.ID, OwnerID: ownerID})

	require.Error(t, err)
	assert.True(t, apperror.IsSessionExpired(err))
	assert.True(t, session.IsExpiredFailure())
}
