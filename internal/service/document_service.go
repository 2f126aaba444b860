package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"loandocs/internal/domain"
	"loandocs/internal/port"
)

// UploadDocumentInput is the DTO for uploading a new document.
type UploadDocumentInput struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UpdateReportInput is the DTO for attaching reviewer notes and report
// data to a document.
type UpdateReportInput struct {
	DocumentID    int64
	ReviewerNotes *string
	ReportData    *string
}

// DocumentService defines the document lifecycle contract.
type DocumentService interface {
	Upload(ctx context.Context, input *UploadDocumentInput) (*domain.Document, error)
	GetByID(ctx context.Context, id int64) (*domain.Document, error)
	List(ctx context.Context, status *domain.DocumentStatus, offset, limit int) ([]domain.Document, int, error)
	UpdateReport(ctx context.Context, input *UpdateReportInput) (*domain.Document, error)
	Delete(ctx context.Context, id int64) error
}

type documentService struct {
	docRepo     port.DocumentRepository
	files       port.FileStore
	maxFileSize int64
}

// NewDocumentService creates a new DocumentService implementation.
// maxFileSize is in bytes; zero disables the size check.
func NewDocumentService(docRepo port.DocumentRepository, files port.FileStore, maxFileSize int64) DocumentService {
	return &documentService{
		docRepo:     docRepo,
		files:       files,
		maxFileSize: maxFileSize,
	}
}

func (s *documentService) Upload(ctx context.Context, input *UploadDocumentInput) (*domain.Document, error) {
	fileType, err := resolveFileType(input.Filename, input.ContentType)
	if err != nil {
		return nil, &domain.ValidationError{Err: err}
	}
	if s.maxFileSize > 0 && input.Size > s.maxFileSize {
		return nil, &domain.ValidationError{
			Err: fmt.Errorf("%w: %d bytes (max %d)", domain.ErrFileTooLarge, input.Size, s.maxFileSize),
		}
	}

	// Magic-byte check so a mislabeled file cannot slip past the
	// extension and header validation.
	head := make([]byte, 512)
	n, err := io.ReadFull(input.Body, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("reading file header: %w", err)
	}
	detected := http.DetectContentType(head[:n])
	if sniffed, ok := domain.AllowedContentTypes[detected]; !ok || sniffed != fileType {
		return nil, &domain.ValidationError{
			Err: fmt.Errorf("%w: detected content type %q", domain.ErrUnsupportedFileType, detected),
		}
	}
	body := io.MultiReader(bytes.NewReader(head[:n]), input.Body)

	key := uuid.NewString() + strings.ToLower(filepath.Ext(input.Filename))
	if err := s.files.Save(ctx, port.SaveInput{
		Key:         key,
		Body:        body,
		ContentType: input.ContentType,
		Size:        input.Size,
	}); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}

	doc := &domain.Document{
		Filename:   input.Filename,
		StorageKey: key,
		FileType:   fileType,
		FileSize:   input.Size,
		Status:     domain.DocumentStatusUploaded,
	}
	if err := s.docRepo.Create(ctx, doc); err != nil {
		if delErr := s.files.Delete(ctx, key); delErr != nil {
			log.Printf("documentService.Upload: cleanup of %s after failed create: %v", key, delErr)
		}
		return nil, err
	}

	log.Printf("documentService.Upload: stored document %d (%s, %d bytes)", doc.ID, doc.Filename, doc.FileSize)
	return doc, nil
}

func (s *documentService) GetByID(ctx context.Context, id int64) (*domain.Document, error) {
	return s.docRepo.GetByID(ctx, id)
}

func (s *documentService) List(ctx context.Context, status *domain.DocumentStatus, offset, limit int) ([]domain.Document, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	if status != nil {
		return s.docRepo.ListByStatus(ctx, *status, offset, limit)
	}
	return s.docRepo.List(ctx, offset, limit)
}

func (s *documentService) UpdateReport(ctx context.Context, input *UpdateReportInput) (*domain.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, input.DocumentID)
	if err != nil {
		return nil, err
	}
	if input.ReviewerNotes != nil {
		doc.ReviewerNotes = input.ReviewerNotes
	}
	if input.ReportData != nil {
		doc.ReportData = input.ReportData
	}
	if err := s.docRepo.UpdateReport(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *documentService) Delete(ctx context.Context, id int64) error {
	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	// Extraction rows go with the document via ON DELETE CASCADE.
	if err := s.docRepo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.files.Delete(ctx, doc.StorageKey); err != nil {
		log.Printf("documentService.Delete: removing stored file %s: %v", doc.StorageKey, err)
	}
	return nil
}

// resolveFileType validates the upload's extension and content type and
// returns the canonical file type.
func resolveFileType(filename, contentType string) (domain.FileType, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	fileType, ok := domain.AllowedExtensions[ext]
	if !ok {
		return "", fmt.Errorf("%w: extension %q", domain.ErrUnsupportedFileType, ext)
	}
	if contentType != "" {
		expected, ok := domain.AllowedContentTypes[contentType]
		if !ok {
			return "", fmt.Errorf("%w: content type %q", domain.ErrUnsupportedFileType, contentType)
		}
		if expected != fileType {
			return "", fmt.Errorf("%w: content type %q does not match extension %q",
				domain.ErrUnsupportedFileType, contentType, ext)
		}
	}
	return fileType, nil
}
