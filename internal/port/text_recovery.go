package port

import (
	"context"

	"loandocs/internal/domain"
)

// TextRecovery abstracts OCR-based text recovery from a stored document.
type TextRecovery interface {
	RecoverText(ctx context.Context, path string, fileType domain.FileType) (string, error)
}
