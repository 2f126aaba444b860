package parser

import "fmt"

// SystemPrompt instructs the model to act as a credit-review document
// analyst and to respond with JSON only.
const SystemPrompt = `You are a document analyst for a corporate loan credit review system. You extract structured fields from OCR text of business documents such as business registration certificates, financial statements, and loan applications. The text may be in Korean or English and may contain OCR noise. Respond with a single JSON object and nothing else.`

// DefaultDocumentType is the document type hint used when the caller
// does not supply one.
const DefaultDocumentType = "corporate loan application"

// ExtractionPrompt builds the user prompt for a field extraction request
// from recovered document text. documentType is a free-text hint that
// steers the extraction without changing the field schema.
func ExtractionPrompt(text, documentType string) string {
	if documentType == "" {
		documentType = DefaultDocumentType
	}
	return fmt.Sprintf(`The text below was recovered by OCR from a %s. Extract the following fields from it. Return a JSON object with exactly these keys:

- company_name: registered company name (string)
- business_number: business registration number (string)
- ceo_name: name of the CEO or representative (string)
- establishment_date: date the company was established, YYYY-MM-DD if possible (string)
- industry: industry or business category (string)
- address: registered company address (string)
- revenue: annual revenue (number)
- operating_profit: operating profit (number)
- net_profit: net profit (number)
- total_assets: total assets (number)
- total_liabilities: total liabilities (number)
- equity: total equity (number)
- employee_count: number of employees (number)
- main_products: main products or services (string)
- loan_amount: requested loan amount (number)
- loan_purpose: stated purpose of the loan (string)

Rules:
- Use null for any field that is not present in the text.
- Monetary fields must be plain numbers without currency symbols or thousands separators.
- Do not invent values. Only extract what the text supports.

Document text:
%s`, documentType, text)
}
