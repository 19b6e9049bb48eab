package command

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stwebyy/rally-track-sub001/internal/domain/entity"
	"github.com/stwebyy/rally-track-sub001/pkg/apperror"
	"github.com/stwebyy/rally-track-sub001/tests/testutil/mocks"
)

func newTestSession(ownerID uuid.UUID, fileSize int64, expiresAt time.Time) *entity.UploadSession {
	return entity.NewUploadSession(ownerID, "match_20260830.mp4", fileSize, "https://upload.example.com/u/abc", expiresAt, nil)
}

func TestReportProgressUsecase_Execute_RecordsProgress(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	session := newTestSession(ownerID, 1000, time.Now().Add(time.Hour))

	sessionRepo := mocks.NewUploadSessionRepositoryMock(t)
	progressStore := mocks.NewUploadProgressStoreMock(t)
	txManager := mocks.NewTransactionManagerMock(t)

	sessionRepo.On("FindByOwnerForUpdate", mock.Anything, session.ID, ownerID).Return(session, nil)
	sessionRepo.On("Update", mock.Anything, session).Return(nil)
	progressStore.On("Set", mock.Anything, session.ID, int64(400)).Return(nil)

	usecase := NewReportProgressUsecase(sessionRepo, progressStore, txManager)

	output, err := usecase.Execute(ctx, ReportProgressInput{
		SessionID:     session.ID,
		OwnerID:       ownerID,
		UploadedBytes: 400,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(400), output.Session.UploadedBytes)
	assert.Equal(t, entity.UploadSessionStatusUploading, output.Session.Status)
}

func TestReportProgressUsecase_Execute_AllBytesMovesToProcessing(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	session := newTestSession(ownerID, 1000, time.Now().Add(time.Hour))

	sessionRepo := mocks.NewUploadSessionRepositoryMock(t)
	progressStore := mocks.NewUploadProgressStoreMock(t)
	txManager := mocks.NewTransactionManagerMock(t)

	sessionRepo.On("FindByOwnerForUpdate", mock.Anything, session.ID, ownerID).Return(session, nil)
	sessionRepo.On("Update", mock.Anything, session).Return(nil)
	progressStore.On("Set", mock.Anything, session.ID, int64(1000)).Return(nil)

	usecase := NewReportProgressUsecase(sessionRepo, progressStore, txManager)

	output, err := usecase.Execute(ctx, ReportProgressInput{
		SessionID:     session.ID,
		OwnerID:       ownerID,
		UploadedBytes: 1000,
	})

	require.NoError(t, err)
	assert.Equal(t, entity.UploadSessionStatusProcessing, output.Session.Status)
}

func TestReportProgressUsecase_Execute_StaleReportKeepsStoredBytes(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	session := newTestSession(ownerID, 1000, time.Now().Add(time.Hour))
	require.NoError(t, session.RecordProgress(600))

	sessionRepo := mocks.NewUploadSessionRepositoryMock(t)
	progressStore := mocks.NewUploadProgressStoreMock(t)
	txManager := mocks.NewTransactionManagerMock(t)

	sessionRepo.On("FindByOwnerForUpdate", mock.Anything, session.ID, ownerID).Return(session, nil)
	sessionRepo.On("Update", mock.Anything, session).Return(nil)
	progressStore.On("Set", mock.Anything, session.ID, int64(600)).Return(nil)

	usecase := NewReportProgressUsecase(sessionRepo, progressStore, txManager)

	output, err := usecase.Execute(ctx, ReportProgressInput{
		SessionID:     session.ID,
		OwnerID:       ownerID,
		UploadedBytes: 300,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(600), output.Session.UploadedBytes)
}

func TestReportProgressUsecase_Execute_NegativeBytesRejected(t *testing.T) {
	ctx := context.Background()

	sessionRepo := mocks.NewUploadSessionRepositoryMock(t)
	progressStore := mocks.NewUploadProgressStoreMock(t)
	txManager := mocks.NewTransactionManagerMock(t)

	usecase := NewReportProgressUsecase(sessionRepo, progressStore, txManager)

	_, err := usecase.Execute(ctx, ReportProgressInput{
		SessionID:     uuid.New(),
		OwnerID:       uuid.New(),
		UploadedBytes: -1,
	})

	require.Error(t, err)
	appErr, ok := err.(*apperror.AppError)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidationError, appErr.Code)
}

func TestReportProgressUsecase_Execute_ExpiredSessionFailsAndRejects(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	session := newTestSession(ownerID, 1000, time.Now().Add(-time.Minute))

	sessionRepo := mocks.NewUploadSessionRepositoryMock(t)
	progressStore := mocks.NewUploadProgressStoreMock(t)
	txManager := mocks.NewTransactionManagerMock(t)

	sessionRepo.On("FindByOwnerForUpdate", mock.Anything, session.ID, ownerID).Return(session, nil)
	sessionRepo.On("Update", mock.Anything, session).Return(nil)
	progressStore.On("Clear", mock.Anything, session.ID).Return(nil)

	usecase := NewReportProgressUsecase(sessionRepo, progressStore, txManager)

	_, err := usecase.Execute(ctx, ReportProgressInput{
		SessionID:     session.ID,
		OwnerID:       ownerID,
		UploadedBytes: 500,
	})

	require.Error(t, err)
	assert.True(t, apperror.IsSessionExpired(err))
	assert.Equal(t, entity.UploadSessionStatusFailed, session.Status)
	require.NotNil(t, session.ErrorMessage)
	assert.Equal(t, entity.SessionExpiredMessage, *session.ErrorMessage)
	// 期限前に記録済みだったバイト数は保持される
	assert.Equal(t, int64(0), session.UploadedBytes)
}

func TestReportProgressUsecase_Execute_CompletedSessionConflicts(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	session := newTestSession(ownerID, 1000, time.Now().Add(time.Hour))
	require.NoError(t, session.RecordProgress(1000))
	require.NoError(t, session.Complete("video-123"))

	sessionRepo := mocks.NewUploadSessionRepositoryMock(t)
	progressStore := mocks.NewUploadProgressStoreMock(t)
	txManager := mocks.NewTransactionManagerMock(t)

	sessionRepo.On("FindByOwnerForUpdate", mock.Anything, session.ID, ownerID).Return(session, nil)

	usecase := NewReportProgressUsecase(sessionRepo, progressStore, txManager)

	_, err := usecase.Execute(ctx, ReportProgressInput{
		SessionID:     session.ID,
		OwnerID:       ownerID,
		UploadedBytes: 1000,
	})

	require.Error(t, err)
	appErr, ok := err.(*apperror.AppError)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeConflict, appErr.Code)
}

func TestReportProgressUsecase_Execute_ExpiredFailureReportsSessionExpired(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	session := newTestSession(ownerID, 1000, time.Now().Add(-time.Minute))
	require.NoError(t, session.Expire())

	sessionRepo := mocks.NewUploadSessionRepositoryMock(t)
	progressStore := mocks.NewUploadProgressStoreMock(t)
	txManager := mocks.NewTransactionManagerMock(t)

	sessionRepo.On("FindByOwnerForUpdate", mock.Anything, session.ID, ownerID).Return(session, nil)

	usecase := NewReportProgressUsecase(sessionRepo, progressStore, txManager)

	_, err := usecase.Execute(ctx, ReportProgressInput{
		SessionID:     session.ID,
		OwnerID:       ownerID,
		UploadedBytes: 500,
	})

	require.Error(t, err)
	assert.True(t, apperror.IsSessionExpired(err))
}

// rollbackSessionStore はクロージャがエラーを返したときに書き込みを破棄する、
// 本番のトランザクション制御と同じコミット/ロールバック規則を持つフェイクです
type rollbackSessionStore struct {
	durable entity.UploadSession
	staged  *entity.UploadSession
}

func newRollbackSessionStore(session *entity.UploadSession) *rollbackSessionStore {
	return &rollbackSessionStore{durable: *session}
}

func (s *rollbackSessionStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s.staged = nil
	if err := fn(ctx); err != nil {
		s.staged = nil
		return err
	}
	if s.staged != nil {
		s.durable = *s.staged
		s.staged = nil
	}
	return nil
}

func (s *rollbackSessionStore) Create(ctx context.Context, session *entity.UploadSession) error {
	s.durable = *session
	return nil
}

func (s *rollbackSessionStore) FindByOwner(ctx context.Context, id, ownerID uuid.UUID) (*entity.UploadSession, error) {
	return s.FindByOwnerForUpdate(ctx, id, ownerID)
}

func (s *rollbackSessionStore) FindByOwnerForUpdate(ctx context.Context, id, ownerID uuid.UUID) (*entity.UploadSession, error) {
	if s.durable.ID != id || s.durable.OwnerID != ownerID {
		return nil, apperror.NewNotFoundError("upload session")
	}
	found := s.durable
	return &found, nil
}

func (s *rollbackSessionStore) Update(ctx context.Context, session *entity.UploadSession) error {
	staged := *session
	s.staged = &staged
	return nil
}

func (s *rollbackSessionStore) FindExpired(ctx context.Context, limit int) ([]*entity.UploadSession, error) {
	return nil, nil
}

func TestReportProgressUsecase_Execute_ExpiredTransitionIsCommitted(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	session := newTestSession(ownerID, 1000, time.Now().Add(-time.Minute))

	store := newRollbackSessionStore(session)
	progressStore := mocks.NewUploadProgressStoreMock(t)
	progressStore.On("Clear", mock.Anything, session.ID).Return(nil)

	usecase := NewReportProgressUsecase(store, progressStore, store)

	_, err := usecase.Execute(ctx, ReportProgressInput{
		SessionID:     session.ID,
		OwnerID:       ownerID,
		UploadedBytes: 500,
	})

	require.Error(t, err)
	assert.True(t, apperror.IsSessionExpired(err))

	// ロールバック規則の下でもfailedへの遷移が永続化されていること
	durable, findErr := store.FindByOwner(ctx, session.ID, ownerID)
	require.NoError(t, findErr)
	assert.Equal(t, entity.UploadSessionStatusFailed, durable.Status)
	require.NotNil(t, durable.ErrorMessage)
	assert.Equal(t, entity.SessionExpiredMessage, *durable.ErrorMessage)
}

func TestReportProgressUsecase_Execute_NotFoundForOtherOwner(t *testing.T) {
	ctx := context.Background()
	sessionID := uuid.New()
	otherOwner := uuid.New()

	sessionRepo := mocks.NewUploadSessionRepositoryMock(t)
	progressStore := mocks.NewUploadProgressStoreMock(t)
	txManager := mocks.NewTransactionManagerMock(t)

	sessionRepo.On("FindByOwnerForUpdate", mock.Anything, sessionID, otherOwner).
		Return(nil, apperror.NewNotFoundError("upload session"))

	usecase := NewReportProgressUsecase(sessionRepo, progressStore, txManager)

	_, err := usecase.Execute(ctx, ReportProgressInput{
		SessionID:     sessionID,
		OwnerID:       otherOwner,
		UploadedBytes: 100,
	})

	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}
