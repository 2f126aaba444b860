package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"loandocs/internal/domain"
	"loandocs/internal/port"
)

type documentRepo struct {
	db *sqlx.DB
}

// NewDocumentRepo creates a new PostgreSQL-backed DocumentRepository.
func NewDocumentRepo(db *sqlx.DB) port.DocumentRepository {
	return &documentRepo{db: db}
}

func (r *documentRepo) Create(ctx context.Context, doc *domain.Document) error {
	now := time.Now().UTC()
	doc.UploadedAt = now
	doc.UpdatedAt = now
	if doc.Status == "" {
		doc.Status = domain.DocumentStatusUploaded
	}

	query := `INSERT INTO documents (
		filename, storage_key, file_type, file_size, status,
		reviewer_notes, report_data, uploaded_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5,
		$6, $7, $8, $9
	) RETURNING id`

	err := r.db.GetContext(ctx, &doc.ID, query,
		doc.Filename, doc.StorageKey, doc.FileType, doc.FileSize, doc.Status,
		doc.ReviewerNotes, doc.ReportData, doc.UploadedAt, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("documentRepo.Create: %w", err)
	}
	return nil
}

func (r *documentRepo) GetByID(ctx context.Context, id int64) (*domain.Document, error) {
	var doc domain.Document
	err := r.db.GetContext(ctx, &doc,
		"SELECT * FROM documents WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("documentRepo.GetByID: %w", err)
	}
	return &doc, nil
}

func (r *documentRepo) List(ctx context.Context, offset, limit int) ([]domain.Document, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM documents")
	if err != nil {
		return nil, 0, fmt.Errorf("documentRepo.List count: %w", err)
	}

	var docs []domain.Document
	err = r.db.SelectContext(ctx, &docs,
		`SELECT * FROM documents
		 ORDER BY uploaded_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("documentRepo.List: %w", err)
	}
	return docs, total, nil
}

func (r *documentRepo) ListByStatus(ctx context.Context, status domain.DocumentStatus, offset, limit int) ([]domain.Document, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM documents WHERE status = $1", status)
	if err != nil {
		return nil, 0, fmt.Errorf("documentRepo.ListByStatus count: %w", err)
	}

	var docs []domain.Document
	err = r.db.SelectContext(ctx, &docs,
		`SELECT * FROM documents WHERE status = $1
		 ORDER BY uploaded_at DESC LIMIT $2 OFFSET $3`,
		status, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("documentRepo.ListByStatus: %w", err)
	}
	return docs, total, nil
}

func (r *documentRepo) UpdateStatus(ctx context.Context, id int64, status domain.DocumentStatus) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE documents SET status = $1, updated_at = $2 WHERE id = $3",
		status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("documentRepo.UpdateStatus: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

func (r *documentRepo) UpdateReport(ctx context.Context, doc *domain.Document) error {
	doc.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE documents SET
			reviewer_notes = $1, report_data = $2, updated_at = $3
		 WHERE id = $4`,
		doc.ReviewerNotes, doc.ReportData, doc.UpdatedAt, doc.ID)
	if err != nil {
		return fmt.Errorf("documentRepo.UpdateReport: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

// ClaimPending atomically picks up to limit uploaded documents and marks
// them processing. FOR UPDATE SKIP LOCKED keeps concurrent workers from
// claiming the same rows.
func (r *documentRepo) ClaimPending(ctx context.Context, limit int) ([]domain.Document, error) {
	var docs []domain.Document
	err := r.db.SelectContext(ctx, &docs,
		`UPDATE documents SET status = $1, updated_at = $2
		 WHERE id IN (
			SELECT id FROM documents
			WHERE status = $3
			ORDER BY uploaded_at
			LIMIT $4
			FOR UPDATE SKIP LOCKED
		 )
		 RETURNING *`,
		domain.DocumentStatusProcessing, time.Now().UTC(),
		domain.DocumentStatusUploaded, limit)
	if err != nil {
		return nil, fmt.Errorf("documentRepo.ClaimPending: %w", err)
	}
	return docs, nil
}

func (r *documentRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM documents WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("documentRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}
