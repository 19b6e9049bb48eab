package mocks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/stwebyy/rally-track-sub001/internal/domain/service"
)

// VideoProviderMock はVideoProviderのモックです
type VideoProviderMock struct {
	mock.Mock
}

// NewVideoProviderMock は新しいVideoProviderMockを作成します
func NewVideoProviderMock(t *testing.T) *VideoProviderMock {
	m := &VideoProviderMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *VideoProviderMock) CreateUpload(ctx context.Context, req service.CreateUploadRequest) (*service.UploadGrant, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UploadGrant), args.Error(1)
}

func (m *VideoProviderMock) QueryUpload(ctx context.Context, uploadURL string) (*service.UploadOutcome, error) {
	args := m.Called(ctx, uploadURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UploadOutcome), args.Error(1)
}

func (m *VideoProviderMock) GetVideo(ctx context.Context, videoID string) (*service.VideoInfo, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.VideoInfo), args.Error(1)
}

func (m *VideoProviderMock) CheckAuth(ctx context.Context) (*service.AuthStatus, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthStatus), args.Error(1)
}
