package mocks

import (
	"context"
	"testing"
)

// TransactionManagerMock はTransactionManagerのモックです
// トランザクション境界を張らずに関数をそのまま実行します
type TransactionManagerMock struct{}

// NewTransactionManagerMock は新しいTransactionManagerMockを作成します
func NewTransactionManagerMock(t *testing.T) *TransactionManagerMock {
	t.Helper()
	return &TransactionManagerMock{}
}

func (m *TransactionManagerMock) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
