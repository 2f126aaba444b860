package ocr

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is returned when the file type has no recovery path.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrFileNotFound is returned when the source file does not exist on disk.
	ErrFileNotFound = errors.New("source file not found")
)

// RecoveryError wraps a failure in the text recovery pipeline with the
// stage that produced it.
type RecoveryError struct {
	Stage string
	Err   error
}

func (e *RecoveryError) Error() string {
	return fmt.Sprintf("text recovery failed at %s: %v", e.Stage, e.Err)
}

func (e *RecoveryError) Unwrap() error {
	return e.Err
}
