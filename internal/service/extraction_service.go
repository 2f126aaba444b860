package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"loandocs/internal/domain"
	"loandocs/internal/ocr"
	"loandocs/internal/port"
)

// documentTypeLabel is the hint passed to the field extractor; every
// document in this system is a corporate loan application package.
const documentTypeLabel = "corporate loan application"

// ExtractionService orchestrates the recovery and extraction pipeline
// for a document and manages its extraction record.
type ExtractionService interface {
	// Process runs the pipeline for a document. If an extraction record
	// already exists the call is a no-op that returns the existing record.
	Process(ctx context.Context, documentID int64) (*domain.ExtractionRecord, error)
	// Reprocess discards any existing extraction record and runs the
	// pipeline again from the stored file.
	Reprocess(ctx context.Context, documentID int64) (*domain.ExtractionRecord, error)
	GetByDocumentID(ctx context.Context, documentID int64) (*domain.ExtractionRecord, error)
	// UpdateFields applies a manual edit to an existing extraction record.
	UpdateFields(ctx context.Context, documentID int64, fields *domain.ExtractionFields) (*domain.ExtractionRecord, error)
	ListCompleted(ctx context.Context) ([]domain.CompletedExtraction, error)
	// ProcessClaimed runs the pipeline for a document already marked
	// processing by the queue worker. Errors are logged, not returned.
	ProcessClaimed(ctx context.Context, doc *domain.Document)
}

type extractionService struct {
	docRepo   port.DocumentRepository
	extRepo   port.ExtractionRepository
	files     port.FileStore
	recovery  port.TextRecovery
	extractor port.FieldExtractor
}

// NewExtractionService creates a new ExtractionService implementation.
func NewExtractionService(
	docRepo port.DocumentRepository,
	extRepo port.ExtractionRepository,
	files port.FileStore,
	recovery port.TextRecovery,
	extractor port.FieldExtractor,
) ExtractionService {
	return &extractionService{
		docRepo:   docRepo,
		extRepo:   extRepo,
		files:     files,
		recovery:  recovery,
		extractor: extractor,
	}
}

func (s *extractionService) Process(ctx context.Context, documentID int64) (*domain.ExtractionRecord, error) {
	doc, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}

	// Existing record means the work is already done; processing again
	// would burn an LLM call for nothing.
	if rec, err := s.extRepo.GetByDocumentID(ctx, documentID); err == nil {
		log.Printf("extractionService.Process: document %d already extracted, skipping", documentID)
		return rec, nil
	} else if !errors.Is(err, domain.ErrExtractionNotFound) {
		return nil, err
	}

	if err := s.docRepo.UpdateStatus(ctx, doc.ID, domain.DocumentStatusProcessing); err != nil {
		return nil, err
	}
	doc.Status = domain.DocumentStatusProcessing

	return s.runPipeline(ctx, doc)
}

func (s *extractionService) Reprocess(ctx context.Context, documentID int64) (*domain.ExtractionRecord, error) {
	doc, err := s.docRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}

	if err := s.extRepo.DeleteByDocumentID(ctx, documentID); err != nil && !errors.Is(err, domain.ErrExtractionNotFound) {
		return nil, err
	}

	if err := s.docRepo.UpdateStatus(ctx, doc.ID, domain.DocumentStatusProcessing); err != nil {
		return nil, err
	}
	doc.Status = domain.DocumentStatusProcessing

	return s.runPipeline(ctx, doc)
}

func (s *extractionService) GetByDocumentID(ctx context.Context, documentID int64) (*domain.ExtractionRecord, error) {
	if _, err := s.docRepo.GetByID(ctx, documentID); err != nil {
		return nil, err
	}
	return s.extRepo.GetByDocumentID(ctx, documentID)
}

func (s *extractionService) UpdateFields(ctx context.Context, documentID int64, fields *domain.ExtractionFields) (*domain.ExtractionRecord, error) {
	rec, err := s.extRepo.GetByDocumentID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	rec.ApplyFields(fields)
	rec.ExtractionMethod = domain.ExtractionMethodManual
	if err := s.extRepo.Update(ctx, rec); err != nil {
		return nil, err
	}
	log.Printf("extractionService.UpdateFields: manual edit saved for document %d", documentID)
	return rec, nil
}

func (s *extractionService) ListCompleted(ctx context.Context) ([]domain.CompletedExtraction, error) {
	return s.extRepo.ListCompleted(ctx)
}

func (s *extractionService) ProcessClaimed(ctx context.Context, doc *domain.Document) {
	if rec, err := s.extRepo.GetByDocumentID(ctx, doc.ID); err == nil && rec != nil {
		// A concurrent trigger finished first; just settle the status.
		if err := s.docRepo.UpdateStatus(ctx, doc.ID, domain.DocumentStatusCompleted); err != nil {
			log.Printf("extractionService.ProcessClaimed: settling status for %d: %v", doc.ID, err)
		}
		return
	}
	if _, err := s.runPipeline(ctx, doc); err != nil {
		log.Printf("extractionService.ProcessClaimed: document %d: %v", doc.ID, err)
	}
}

// runPipeline executes recovery and extraction for a document that is
// already in processing status, committing the terminal status before
// returning.
func (s *extractionService) runPipeline(ctx context.Context, doc *domain.Document) (*domain.ExtractionRecord, error) {
	path, cleanup, err := s.files.LocalPath(ctx, doc.StorageKey)
	if err != nil {
		return nil, s.failProcessing(ctx, doc, fmt.Errorf("locating stored file: %w", err))
	}
	defer cleanup()

	text, err := s.recovery.RecoverText(ctx, path, doc.FileType)
	if err != nil {
		return nil, s.failProcessing(ctx, doc, fmt.Errorf("recovering text: %w", err))
	}
	if !hasRecoveredContent(text) {
		return nil, s.failProcessing(ctx, doc, domain.ErrEmptyExtraction)
	}

	output, err := s.extractor.Extract(ctx, port.ExtractInput{
		Text:         text,
		DocumentType: documentTypeLabel,
	})
	if err != nil {
		return nil, s.failProcessing(ctx, doc, fmt.Errorf("extracting fields: %w", err))
	}

	rec := &domain.ExtractionRecord{
		DocumentID:       doc.ID,
		ExtractionMethod: domain.ExtractionMethodPipeline,
	}
	rec.ApplyFields(output.Fields)

	if err := s.extRepo.Create(ctx, rec); err != nil {
		if errors.Is(err, domain.ErrAlreadyExtracted) {
			// Lost the insert race; the first writer's record stands.
			winner, getErr := s.extRepo.GetByDocumentID(ctx, doc.ID)
			if getErr != nil {
				return nil, s.failProcessing(ctx, doc, getErr)
			}
			if err := s.docRepo.UpdateStatus(ctx, doc.ID, domain.DocumentStatusCompleted); err != nil {
				log.Printf("extractionService.runPipeline: settling status for %d: %v", doc.ID, err)
			}
			return winner, nil
		}
		return nil, s.failProcessing(ctx, doc, fmt.Errorf("saving extraction: %w", err))
	}

	if err := s.docRepo.UpdateStatus(ctx, doc.ID, domain.DocumentStatusCompleted); err != nil {
		log.Printf("extractionService.runPipeline: marking %d completed: %v", doc.ID, err)
	}
	doc.Status = domain.DocumentStatusCompleted

	log.Printf("extractionService.runPipeline: document %d extracted with model %s", doc.ID, output.ModelUsed)
	return rec, nil
}

// failProcessing commits the failed status and wraps the cause as a
// ValidationError when the caller can fix the input, or a
// ProcessingError otherwise.
func (s *extractionService) failProcessing(ctx context.Context, doc *domain.Document, cause error) error {
	log.Printf("extractionService: document %d failed: %v", doc.ID, cause)
	if err := s.docRepo.UpdateStatus(ctx, doc.ID, domain.DocumentStatusFailed); err != nil {
		log.Printf("extractionService: marking %d failed: %v", doc.ID, err)
	}
	doc.Status = domain.DocumentStatusFailed
	if isCallerFixable(cause) {
		return &domain.ValidationError{Err: cause}
	}
	return &domain.ProcessingError{Err: cause}
}

// isCallerFixable reports whether a pipeline failure is caused by the
// input itself rather than a transient or provider-side fault.
func isCallerFixable(err error) bool {
	return errors.Is(err, domain.ErrEmptyExtraction) ||
		errors.Is(err, ocr.ErrUnsupportedFormat) ||
		errors.Is(err, ocr.ErrFileNotFound)
}

// hasRecoveredContent reports whether recovered text contains anything
// beyond page markers and whitespace.
func hasRecoveredContent(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "--- Page ") && strings.HasSuffix(line, " ---") {
			continue
		}
		return true
	}
	return false
}
