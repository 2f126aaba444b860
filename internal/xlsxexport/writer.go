// Package xlsxexport renders completed extractions as an Excel workbook
// for credit reviewers.
package xlsxexport

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"loandocs/internal/domain"
)

const sheetName = "Extractions"

var headers = []string{
	"Document ID", "Filename", "Uploaded At",
	"Company Name", "Business Number", "CEO Name",
	"Establishment Date", "Industry", "Address",
	"Revenue", "Operating Profit", "Net Profit",
	"Total Assets", "Total Liabilities", "Equity",
	"Employee Count", "Main Products", "Loan Amount", "Loan Purpose",
	"Extracted At", "Method",
}

// Write renders the rows as an xlsx workbook onto w.
func Write(w io.Writer, rows []domain.CompletedExtraction) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("removing default sheet: %w", err)
	}

	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, row := range rows {
		values := []interface{}{
			row.DocumentID, row.Filename, row.UploadedAt.Format("2006-01-02 15:04:05"),
			deref(row.CompanyName), deref(row.BusinessNumber), deref(row.CEOName),
			deref(row.EstablishmentDate), deref(row.Industry), deref(row.Address),
			deref(row.Revenue), deref(row.OperatingProfit), deref(row.NetProfit),
			deref(row.TotalAssets), deref(row.TotalLiabilities), deref(row.Equity),
			deref(row.EmployeeCount), deref(row.MainProducts),
			deref(row.LoanAmount), deref(row.LoanPurpose),
			row.ExtractedAt.Format("2006-01-02 15:04:05"), row.ExtractionMethod,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("row cell: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return fmt.Errorf("writing row %d: %w", i+1, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// deref unwraps an optional field for cell rendering; nil becomes an
// empty cell.
func deref[T any](p *T) interface{} {
	if p == nil {
		return ""
	}
	return *p
}
