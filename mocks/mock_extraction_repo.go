package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"loandocs/internal/domain"
)

// MockExtractionRepo is a mock implementation of port.ExtractionRepository.
type MockExtractionRepo struct {
	mock.Mock
}

func (m *MockExtractionRepo) Create(ctx context.Context, rec *domain.ExtractionRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockExtractionRepo) GetByDocumentID(ctx context.Context, documentID int64) (*domain.ExtractionRecord, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractionRecord), args.Error(1)
}

func (m *MockExtractionRepo) Update(ctx context.Context, rec *domain.ExtractionRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockExtractionRepo) DeleteByDocumentID(ctx context.Context, documentID int64) error {
	args := m.Called(ctx, documentID)
	return args.Error(0)
}

func (m *MockExtractionRepo) ListCompleted(ctx context.Context) ([]domain.CompletedExtraction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CompletedExtraction), args.Error(1)
}
