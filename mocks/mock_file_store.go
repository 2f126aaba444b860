package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"loandocs/internal/port"
)

// MockFileStore is a mock implementation of port.FileStore.
type MockFileStore struct {
	mock.Mock
}

func (m *MockFileStore) Save(ctx context.Context, input port.SaveInput) error {
	args := m.Called(ctx, input)
	return args.Error(0)
}

func (m *MockFileStore) LocalPath(ctx context.Context, key string) (string, func(), error) {
	args := m.Called(ctx, key)
	cleanup := func() {}
	if fn, ok := args.Get(1).(func()); ok && fn != nil {
		cleanup = fn
	}
	return args.String(0), cleanup, args.Error(2)
}

func (m *MockFileStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
