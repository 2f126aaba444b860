package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDocumentNotFound    = errors.New("document not found")
	ErrExtractionNotFound  = errors.New("extraction record not found")
	ErrAlreadyExtracted    = errors.New("extraction record already exists for this document")
	ErrEmptyExtraction     = errors.New("no text could be recovered from the document")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed        = errors.New("file upload to storage failed")
)

// ValidationError marks a pipeline failure the caller can fix by changing the
// input (unsupported format, missing or unreadable source, no recoverable
// text). Retrying without a new source file will fail again.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ProcessingError marks a transient or provider-side pipeline failure.
// Re-invoking extraction with the same input may succeed.
type ProcessingError struct {
	Err error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("processing: %v", e.Err)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}
