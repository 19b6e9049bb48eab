package mocks

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// UploadProgressStoreMock はUploadProgressStoreのモックです
type UploadProgressStoreMock struct {
	mock.Mock
}

// NewUploadProgressStoreMock は新しいUploadProgressStoreMockを作成します
func NewUploadProgressStoreMock(t *testing.T) *UploadProgressStoreMock {
	m := &UploadProgressStoreMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *UploadProgressStoreMock) Set(ctx context.Context, sessionID uuid.UUID, uploadedBytes int64) error {
	args := m.Called(ctx, sessionID, uploadedBytes)
	return args.Error(0)
}

func (m *UploadProgressStoreMock) Get(ctx context.Context, sessionID uuid.UUID) (int64, bool, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *UploadProgressStoreMock) Clear(ctx context.Context, sessionID uuid.UUID) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}
