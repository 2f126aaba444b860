package ocr

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"loandocs/internal/domain"
)

// Config holds the settings for a text recovery run.
type Config struct {
	// Pdftoppm is the path to the pdftoppm binary used to rasterize PDFs.
	Pdftoppm string
	// Languages is the Tesseract language spec, e.g. "kor+eng".
	Languages string
	// DPI is the rasterization resolution for PDF pages.
	DPI int
	// MaxPages caps the number of PDF pages rasterized. Zero means no cap.
	MaxPages int
	// Timeout bounds a full recovery run. Zero means no bound.
	Timeout time.Duration
}

// EngineFactory creates a recognition engine for a single recovery run.
type EngineFactory func() (Engine, error)

// Extractor recovers text from uploaded documents. PDFs are rasterized
// page by page with pdftoppm; images go straight to recognition. Every
// page image is preprocessed before it reaches the engine.
type Extractor struct {
	cfg       Config
	runner    Runner
	newEngine EngineFactory
}

// NewExtractor creates a text extractor with the given engine factory.
func NewExtractor(cfg Config, newEngine EngineFactory) *Extractor {
	return NewExtractorWithRunner(cfg, ExecRunner{}, newEngine)
}

// NewExtractorWithRunner creates a text extractor with a custom command
// runner, used by tests to fake pdftoppm.
func NewExtractorWithRunner(cfg Config, runner Runner, newEngine EngineFactory) *Extractor {
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &Extractor{cfg: cfg, runner: runner, newEngine: newEngine}
}

// RecoverText runs the full recovery pipeline for the file at path.
// PDF output concatenates all pages in order, each introduced by a
// "--- Page N ---" marker; pages that fail recognition contribute an
// empty section rather than failing the run. Still images return the
// recognized text directly.
func (e *Extractor) RecoverText(ctx context.Context, path string, fileType domain.FileType) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}

	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}

	engine, err := e.newEngine()
	if err != nil {
		return "", &RecoveryError{Stage: "engine init", Err: err}
	}
	defer engine.Close()

	switch fileType {
	case domain.FileTypePDF:
		return e.recoverPDF(ctx, path, engine)
	case domain.FileTypeJPG, domain.FileTypePNG:
		return e.recoverImage(path, engine)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, fileType)
	}
}

func (e *Extractor) recoverPDF(ctx context.Context, path string, engine Engine) (string, error) {
	tmpDir, err := os.MkdirTemp("", "loandocs-ocr-*")
	if err != nil {
		return "", &RecoveryError{Stage: "rasterize", Err: err}
	}
	defer os.RemoveAll(tmpDir)

	prefix := filepath.Join(tmpDir, "page")
	args := []string{"-png", "-r", strconv.Itoa(e.cfg.DPI)}
	if e.cfg.MaxPages > 0 {
		args = append(args, "-l", strconv.Itoa(e.cfg.MaxPages))
	}
	args = append(args, path, prefix)

	if _, err := e.runner.Run(ctx, e.cfg.Pdftoppm, args...); err != nil {
		return "", &RecoveryError{Stage: "rasterize", Err: err}
	}

	pages, err := filepath.Glob(prefix + "-*.png")
	if err != nil {
		return "", &RecoveryError{Stage: "rasterize", Err: err}
	}
	if len(pages) == 0 {
		return "", &RecoveryError{Stage: "rasterize", Err: fmt.Errorf("pdftoppm produced no pages for %s", path)}
	}
	// pdftoppm zero-pads page numbers, so lexical order is page order.
	sort.Strings(pages)

	var sb strings.Builder
	for i, pagePath := range pages {
		if err := ctx.Err(); err != nil {
			return "", &RecoveryError{Stage: "recognize", Err: err}
		}
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "--- Page %d ---\n", i+1)

		text, err := e.recognizePage(pagePath, engine)
		if err != nil {
			log.Printf("ocr.Extractor.recoverPDF: page %d of %s failed: %v", i+1, filepath.Base(path), err)
			continue
		}
		sb.WriteString(strings.TrimSpace(text))
	}
	return sb.String(), nil
}

func (e *Extractor) recoverImage(path string, engine Engine) (string, error) {
	text, err := e.recognizePage(path, engine)
	if err != nil {
		return "", &RecoveryError{Stage: "recognize", Err: err}
	}
	return strings.TrimSpace(text), nil
}

func (e *Extractor) recognizePage(path string, engine Engine) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	processed, err := Preprocess(data)
	if err != nil {
		return "", err
	}
	return engine.Recognize(processed)
}
