package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"loandocs/internal/domain"
	"loandocs/internal/port"
)

type extractionRepo struct {
	db *sqlx.DB
}

// NewExtractionRepo creates a new PostgreSQL-backed ExtractionRepository.
func NewExtractionRepo(db *sqlx.DB) port.ExtractionRepository {
	return &extractionRepo{db: db}
}

func (r *extractionRepo) Create(ctx context.Context, rec *domain.ExtractionRecord) error {
	if rec.ExtractedAt.IsZero() {
		rec.ExtractedAt = time.Now().UTC()
	}

	query := `INSERT INTO document_extractions (
		document_id, company_name, business_number, ceo_name,
		establishment_date, industry, address,
		revenue, operating_profit, net_profit,
		total_assets, total_liabilities, equity,
		employee_count, main_products, loan_amount, loan_purpose,
		extracted_at, extraction_method
	) VALUES (
		$1, $2, $3, $4,
		$5, $6, $7,
		$8, $9, $10,
		$11, $12, $13,
		$14, $15, $16, $17,
		$18, $19
	) RETURNING id`

	err := r.db.GetContext(ctx, &rec.ID, query,
		rec.DocumentID, rec.CompanyName, rec.BusinessNumber, rec.CEOName,
		rec.EstablishmentDate, rec.Industry, rec.Address,
		rec.Revenue, rec.OperatingProfit, rec.NetProfit,
		rec.TotalAssets, rec.TotalLiabilities, rec.Equity,
		rec.EmployeeCount, rec.MainProducts, rec.LoanAmount, rec.LoanPurpose,
		rec.ExtractedAt, rec.ExtractionMethod)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") && strings.Contains(err.Error(), "document_id") {
			return domain.ErrAlreadyExtracted
		}
		return fmt.Errorf("extractionRepo.Create: %w", err)
	}
	return nil
}

func (r *extractionRepo) GetByDocumentID(ctx context.Context, documentID int64) (*domain.ExtractionRecord, error) {
	var rec domain.ExtractionRecord
	err := r.db.GetContext(ctx, &rec,
		"SELECT * FROM document_extractions WHERE document_id = $1", documentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrExtractionNotFound
		}
		return nil, fmt.Errorf("extractionRepo.GetByDocumentID: %w", err)
	}
	return &rec, nil
}

func (r *extractionRepo) Update(ctx context.Context, rec *domain.ExtractionRecord) error {
	rec.ExtractedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE document_extractions SET
			company_name = $1, business_number = $2, ceo_name = $3,
			establishment_date = $4, industry = $5, address = $6,
			revenue = $7, operating_profit = $8, net_profit = $9,
			total_assets = $10, total_liabilities = $11, equity = $12,
			employee_count = $13, main_products = $14,
			loan_amount = $15, loan_purpose = $16,
			extracted_at = $17, extraction_method = $18
		 WHERE document_id = $19`,
		rec.CompanyName, rec.BusinessNumber, rec.CEOName,
		rec.EstablishmentDate, rec.Industry, rec.Address,
		rec.Revenue, rec.OperatingProfit, rec.NetProfit,
		rec.TotalAssets, rec.TotalLiabilities, rec.Equity,
		rec.EmployeeCount, rec.MainProducts,
		rec.LoanAmount, rec.LoanPurpose,
		rec.ExtractedAt, rec.ExtractionMethod,
		rec.DocumentID)
	if err != nil {
		return fmt.Errorf("extractionRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrExtractionNotFound
	}
	return nil
}

func (r *extractionRepo) DeleteByDocumentID(ctx context.Context, documentID int64) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM document_extractions WHERE document_id = $1", documentID)
	if err != nil {
		return fmt.Errorf("extractionRepo.DeleteByDocumentID: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrExtractionNotFound
	}
	return nil
}

func (r *extractionRepo) ListCompleted(ctx context.Context) ([]domain.CompletedExtraction, error) {
	var recs []domain.CompletedExtraction
	err := r.db.SelectContext(ctx, &recs,
		`SELECT e.*, d.filename, d.uploaded_at FROM document_extractions e
		 JOIN documents d ON d.id = e.document_id
		 WHERE d.status = $1
		 ORDER BY e.extracted_at DESC`,
		domain.DocumentStatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("extractionRepo.ListCompleted: %w", err)
	}
	return recs, nil
}
