package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"loandocs/internal/domain"
)

// MockExtractionService is a mock implementation of service.ExtractionService.
type MockExtractionService struct {
	mock.Mock
}

func (m *MockExtractionService) Process(ctx context.Context, documentID int64) (*domain.ExtractionRecord, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractionRecord), args.Error(1)
}

func (m *MockExtractionService) Reprocess(ctx context.Context, documentID int64) (*domain.ExtractionRecord, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractionRecord), args.Error(1)
}

func (m *MockExtractionService) GetByDocumentID(ctx context.Context, documentID int64) (*domain.ExtractionRecord, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractionRecord), args.Error(1)
}

func (m *MockExtractionService) UpdateFields(ctx context.Context, documentID int64, fields *domain.ExtractionFields) (*domain.ExtractionRecord, error) {
	args := m.Called(ctx, documentID, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractionRecord), args.Error(1)
}

func (m *MockExtractionService) ListCompleted(ctx context.Context) ([]domain.CompletedExtraction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CompletedExtraction), args.Error(1)
}

func (m *MockExtractionService) ProcessClaimed(ctx context.Context, doc *domain.Document) {
	m.Called(ctx, doc)
}
