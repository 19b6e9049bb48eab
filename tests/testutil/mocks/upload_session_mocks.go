package mocks

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/stwebyy/rally-track-sub001/internal/domain/entity"
)

// UploadSessionRepositoryMock はUploadSessionRepositoryのモックです
type UploadSessionRepositoryMock struct {
	mock.Mock
}

// NewUploadSessionRepositoryMock は新しいUploadSessionRepositoryMockを作成します
func NewUploadSessionRepositoryMock(t *testing.T) *UploadSessionRepositoryMock {
	m := &UploadSessionRepositoryMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *UploadSessionRepositoryMock) Create(ctx context.Context, session *entity.UploadSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *UploadSessionRepositoryMock) FindByOwner(ctx context.Context, id, ownerID uuid.UUID) (*entity.UploadSession, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.UploadSession), args.Error(1)
}

func (m *UploadSessionRepositoryMock) FindByOwnerForUpdate(ctx context.Context, id, ownerID uuid.UUID) (*entity.UploadSession, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.UploadSession), args.Error(1)
}

func (m *UploadSessionRepositoryMock) Update(ctx context.Context, session *entity.UploadSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *UploadSessionRepositoryMock) FindExpired(ctx context.Context, limit int) ([]*entity.UploadSession, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.UploadSession), args.Error(1)
}
