package port

import (
	"context"

	"loandocs/internal/domain"
)

// DocumentRepository defines the contract for document persistence.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id int64) (*domain.Document, error)
	List(ctx context.Context, offset, limit int) ([]domain.Document, int, error)
	ListByStatus(ctx context.Context, status domain.DocumentStatus, offset, limit int) ([]domain.Document, int, error)
	UpdateStatus(ctx context.Context, id int64, status domain.DocumentStatus) error
	UpdateReport(ctx context.Context, doc *domain.Document) error
	ClaimPending(ctx context.Context, limit int) ([]domain.Document, error)
	Delete(ctx context.Context, id int64) error
}
