// Package tesseract provides the production OCR engine backed by
// Tesseract via gosseract. It requires libtesseract and the language
// data files to be installed on the host.
package tesseract

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Engine wraps a gosseract client. It is not safe for concurrent use;
// callers create one engine per recovery run.
type Engine struct {
	client *gosseract.Client
}

// New creates a Tesseract engine for the given languages
// (e.g. "kor+eng").
func New(languages string) (*Engine, error) {
	client := gosseract.NewClient()
	langs := strings.Split(languages, "+")
	if err := client.SetLanguage(langs...); err != nil {
		client.Close()
		return nil, fmt.Errorf("set tesseract languages %q: %w", languages, err)
	}
	return &Engine{client: client}, nil
}

// Recognize runs OCR on a single page image.
func (e *Engine) Recognize(image []byte) (string, error) {
	if err := e.client.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := e.client.Text()
	if err != nil {
		return "", fmt.Errorf("recognize: %w", err)
	}
	return text, nil
}

// Close releases the underlying Tesseract client.
func (e *Engine) Close() error {
	return e.client.Close()
}
