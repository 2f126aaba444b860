package port

import (
	"context"

	"loandocs/internal/domain"
)

// ExtractionRepository defines the contract for extraction record persistence.
type ExtractionRepository interface {
	Create(ctx context.Context, rec *domain.ExtractionRecord) error
	GetByDocumentID(ctx context.Context, documentID int64) (*domain.ExtractionRecord, error)
	Update(ctx context.Context, rec *domain.ExtractionRecord) error
	DeleteByDocumentID(ctx context.Context, documentID int64) error
	ListCompleted(ctx context.Context) ([]domain.CompletedExtraction, error)
}
