package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"loandocs/internal/domain"
)

// MockTextRecovery is a mock implementation of port.TextRecovery.
type MockTextRecovery struct {
	mock.Mock
}

func (m *MockTextRecovery) RecoverText(ctx context.Context, path string, fileType domain.FileType) (string, error) {
	args := m.Called(ctx, path, fileType)
	return args.String(0), args.Error(1)
}
