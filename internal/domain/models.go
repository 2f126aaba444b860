package domain

import (
	"time"
)

// Document represents an uploaded source file and its extraction lifecycle.
type Document struct {
	ID            int64          `db:"id" json:"id"`
	Filename      string         `db:"filename" json:"filename"`
	StorageKey    string         `db:"storage_key" json:"storage_key"`
	FileType      FileType       `db:"file_type" json:"file_type"`
	FileSize      int64          `db:"file_size" json:"file_size"`
	Status        DocumentStatus `db:"status" json:"status"`
	ReviewerNotes *string        `db:"reviewer_notes" json:"reviewer_notes"`
	ReportData    *string        `db:"report_data" json:"report_data"`
	UploadedAt    time.Time      `db:"uploaded_at" json:"uploaded_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}

// ExtractionFields is the fixed structured-field schema produced by the
// extraction stage. Every field is optional; a field the model could not
// determine is nil, never omitted from the persisted snapshot.
type ExtractionFields struct {
	CompanyName       *string  `json:"company_name"`
	BusinessNumber    *string  `json:"business_number"`
	CEOName           *string  `json:"ceo_name"`
	EstablishmentDate *string  `json:"establishment_date"`
	Industry          *string  `json:"industry"`
	Address           *string  `json:"address"`
	Revenue           *float64 `json:"revenue"`
	OperatingProfit   *float64 `json:"operating_profit"`
	NetProfit         *float64 `json:"net_profit"`
	TotalAssets       *float64 `json:"total_assets"`
	TotalLiabilities  *float64 `json:"total_liabilities"`
	Equity            *float64 `json:"equity"`
	EmployeeCount     *int     `json:"employee_count"`
	MainProducts      *string  `json:"main_products"`
	LoanPurpose       *string  `json:"loan_purpose"`
	LoanAmount        *float64 `json:"loan_amount"`
}

// ExtractionRecord holds the structured company/financial fields derived from
// a Document. At most one record exists per document; the unique constraint on
// DocumentID is enforced at the database layer.
type ExtractionRecord struct {
	ID         int64 `db:"id" json:"id"`
	DocumentID int64 `db:"document_id" json:"document_id"`

	CompanyName       *string  `db:"company_name" json:"company_name"`
	BusinessNumber    *string  `db:"business_number" json:"business_number"`
	CEOName           *string  `db:"ceo_name" json:"ceo_name"`
	EstablishmentDate *string  `db:"establishment_date" json:"establishment_date"`
	Industry          *string  `db:"industry" json:"industry"`
	Address           *string  `db:"address" json:"address"`
	Revenue           *float64 `db:"revenue" json:"revenue"`
	OperatingProfit   *float64 `db:"operating_profit" json:"operating_profit"`
	NetProfit         *float64 `db:"net_profit" json:"net_profit"`
	TotalAssets       *float64 `db:"total_assets" json:"total_assets"`
	TotalLiabilities  *float64 `db:"total_liabilities" json:"total_liabilities"`
	Equity            *float64 `db:"equity" json:"equity"`
	EmployeeCount     *int     `db:"employee_count" json:"employee_count"`
	MainProducts      *string  `db:"main_products" json:"main_products"`
	LoanPurpose       *string  `db:"loan_purpose" json:"loan_purpose"`
	LoanAmount        *float64 `db:"loan_amount" json:"loan_amount"`

	ExtractedAt      time.Time `db:"extracted_at" json:"extracted_at"`
	ExtractionMethod string    `db:"extraction_method" json:"extraction_method"`
}

// CompletedExtraction joins an extraction record with its source document
// for listing and export.
type CompletedExtraction struct {
	ExtractionRecord
	Filename   string    `db:"filename" json:"filename"`
	UploadedAt time.Time `db:"uploaded_at" json:"uploaded_at"`
}

// ApplyFields copies a field snapshot onto the record.
func (r *ExtractionRecord) ApplyFields(f *ExtractionFields) {
	r.CompanyName = f.CompanyName
	r.BusinessNumber = f.BusinessNumber
	r.CEOName = f.CEOName
	r.EstablishmentDate = f.EstablishmentDate
	r.Industry = f.Industry
	r.Address = f.Address
	r.Revenue = f.Revenue
	r.OperatingProfit = f.OperatingProfit
	r.NetProfit = f.NetProfit
	r.TotalAssets = f.TotalAssets
	r.TotalLiabilities = f.TotalLiabilities
	r.Equity = f.Equity
	r.EmployeeCount = f.EmployeeCount
	r.MainProducts = f.MainProducts
	r.LoanPurpose = f.LoanPurpose
	r.LoanAmount = f.LoanAmount
}
