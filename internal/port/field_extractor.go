package port

import (
	"context"

	"loandocs/internal/domain"
)

// ExtractInput carries the recovered text for field extraction.
// DocumentType is a free-text hint (e.g. "corporate loan application")
// that steers extraction without changing the output schema.
type ExtractInput struct {
	Text         string
	DocumentType string
}

// ExtractOutput carries the structured result of an LLM field extraction.
type ExtractOutput struct {
	Fields     *domain.ExtractionFields
	ModelUsed  string
	PromptUsed string
}

// FieldExtractor abstracts LLM-based structured field extraction from
// recovered document text.
type FieldExtractor interface {
	Extract(ctx context.Context, input ExtractInput) (*ExtractOutput, error)
}
