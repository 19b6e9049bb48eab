package mocks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/stwebyy/rally-track-sub001/internal/domain/entity"
)

// AuthSessionRepositoryMock はAuthSessionRepositoryのモックです
type AuthSessionRepositoryMock struct {
	mock.Mock
}

// NewAuthSessionRepositoryMock は新しいAuthSessionRepositoryMockを作成します
func NewAuthSessionRepositoryMock(t *testing.T) *AuthSessionRepositoryMock {
	m := &AuthSessionRepositoryMock{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *AuthSessionRepositoryMock) FindByID(ctx context.Context, sessionID string) (*entity.AuthSession, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AuthSession), args.Error(1)
}

func (m *AuthSessionRepositoryMock) Save(ctx context.Context, session *entity.AuthSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *AuthSessionRepositoryMock) Delete(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}
