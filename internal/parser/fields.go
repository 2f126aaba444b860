package parser

import (
	"encoding/json"
	"strconv"
	"strings"

	"loandocs/internal/domain"
)

// rawFields mirrors the JSON object the model returns. Every field is
// kept raw so type drift in the response (numbers as strings, strings
// as numbers) is coerced per field instead of failing the whole decode.
type rawFields struct {
	CompanyName       json.RawMessage `json:"company_name"`
	BusinessNumber    json.RawMessage `json:"business_number"`
	CEOName           json.RawMessage `json:"ceo_name"`
	EstablishmentDate json.RawMessage `json:"establishment_date"`
	Industry          json.RawMessage `json:"industry"`
	Address           json.RawMessage `json:"address"`
	Revenue           json.RawMessage `json:"revenue"`
	OperatingProfit   json.RawMessage `json:"operating_profit"`
	NetProfit         json.RawMessage `json:"net_profit"`
	TotalAssets       json.RawMessage `json:"total_assets"`
	TotalLiabilities  json.RawMessage `json:"total_liabilities"`
	Equity            json.RawMessage `json:"equity"`
	EmployeeCount     json.RawMessage `json:"employee_count"`
	MainProducts      json.RawMessage `json:"main_products"`
	LoanAmount        json.RawMessage `json:"loan_amount"`
	LoanPurpose       json.RawMessage `json:"loan_purpose"`
}

// DecodeFields parses the model's response content into extraction
// fields. Code fences around the JSON are stripped first. A response
// that is not a JSON object yields a MalformedResponseError; an
// individual field of the wrong shape is dropped to nil.
func DecodeFields(content string) (*domain.ExtractionFields, error) {
	cleaned := StripCodeFences(content)
	if cleaned == "" {
		return nil, ErrEmptyResponse
	}

	var raw rawFields
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, &MalformedResponseError{Content: content, Err: err}
	}

	return &domain.ExtractionFields{
		CompanyName:       asString(raw.CompanyName),
		BusinessNumber:    asString(raw.BusinessNumber),
		CEOName:           asString(raw.CEOName),
		EstablishmentDate: asString(raw.EstablishmentDate),
		Industry:          asString(raw.Industry),
		Address:           asString(raw.Address),
		Revenue:           asNumber(raw.Revenue),
		OperatingProfit:   asNumber(raw.OperatingProfit),
		NetProfit:         asNumber(raw.NetProfit),
		TotalAssets:       asNumber(raw.TotalAssets),
		TotalLiabilities:  asNumber(raw.TotalLiabilities),
		Equity:            asNumber(raw.Equity),
		EmployeeCount:     asInt(raw.EmployeeCount),
		MainProducts:      asString(raw.MainProducts),
		LoanAmount:        asNumber(raw.LoanAmount),
		LoanPurpose:       asString(raw.LoanPurpose),
	}, nil
}

// StripCodeFences removes a surrounding markdown code fence from the
// response content, with or without a language tag.
func StripCodeFences(content string) string {
	s := strings.TrimSpace(content)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		// Drop the language tag line ("json", "JSON", or empty).
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func asString(raw json.RawMessage) *string {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		return &s
	}
	// Numbers sometimes arrive where a string belongs; keep their literal.
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		s = strconv.FormatFloat(n, 'f', -1, 64)
		return &s
	}
	return nil
}

func asNumber(raw json.RawMessage) *float64 {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return &n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	n, ok := parseNumeric(s)
	if !ok {
		return nil
	}
	return &n
}

func asInt(raw json.RawMessage) *int {
	n := asNumber(raw)
	if n == nil {
		return nil
	}
	i := int(*n)
	return &i
}

// parseNumeric parses a numeric string that may carry thousands
// separators, surrounding whitespace, or a currency marker.
func parseNumeric(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	for _, marker := range []string{",", "₩", "$", "원", "KRW", "USD"} {
		s = strings.ReplaceAll(s, marker, "")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
