package ocr_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loandocs/internal/domain"
	"loandocs/internal/ocr"
)

// fakeRunner simulates pdftoppm by writing page PNGs next to the
// requested output prefix.
type fakeRunner struct {
	pages int
	err   error
	args  []string
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.args = args
	if f.err != nil {
		return nil, f.err
	}
	prefix := args[len(args)-1]
	for i := 1; i <= f.pages; i++ {
		path := fmt.Sprintf("%s-%02d.png", prefix, i)
		if err := os.WriteFile(path, testPagePNG(), 0o644); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

// fakeEngine returns queued recognition results in call order.
type fakeEngine struct {
	texts  []string
	errs   []error
	calls  int
	closed bool
}

func (f *fakeEngine) Recognize(image []byte) (string, error) {
	i := f.calls
	f.calls++
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	if err != nil {
		return "", err
	}
	if i < len(f.texts) {
		return f.texts[i], nil
	}
	return "", nil
}

func (f *fakeEngine) Close() error {
	f.closed = true
	return nil
}

// testPagePNG renders a small grayscale page with dark and light regions
// so preprocessing has a real histogram to threshold.
func testPagePNG() []byte {
	img := image.NewGray(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			if x < 8 {
				img.SetGray(x, y, color.Gray{Y: 30})
			} else {
				img.SetGray(x, y, color.Gray{Y: 220})
			}
		}
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

func writeTestFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func newTestExtractor(runner ocr.Runner, engine ocr.Engine) *ocr.Extractor {
	return ocr.NewExtractorWithRunner(ocr.Config{DPI: 150}, runner, func() (ocr.Engine, error) {
		return engine, nil
	})
}

func TestRecoverText_PDFMultiPage(t *testing.T) {
	path := writeTestFile(t, "doc.pdf", []byte("%PDF-1.4"))
	runner := &fakeRunner{pages: 2}
	engine := &fakeEngine{texts: []string{"first page text", "second page text"}}

	text, err := newTestExtractor(runner, engine).RecoverText(context.Background(), path, domain.FileTypePDF)
	require.NoError(t, err)

	assert.Contains(t, text, "--- Page 1 ---\nfirst page text")
	assert.Contains(t, text, "--- Page 2 ---\nsecond page text")
	assert.True(t, engine.closed)
	assert.Contains(t, runner.args, "-png")
	assert.Contains(t, runner.args, "150")
}

func TestRecoverText_PDFFailedPageKeepsMarker(t *testing.T) {
	path := writeTestFile(t, "doc.pdf", []byte("%PDF-1.4"))
	runner := &fakeRunner{pages: 3}
	engine := &fakeEngine{
		texts: []string{"page one", "", "page three"},
		errs:  []error{nil, errors.New("glyph soup"), nil},
	}

	text, err := newTestExtractor(runner, engine).RecoverText(context.Background(), path, domain.FileTypePDF)
	require.NoError(t, err)

	// The failed page still contributes its marker with no text after it.
	assert.Contains(t, text, "--- Page 1 ---\npage one")
	assert.Contains(t, text, "--- Page 2 ---")
	assert.Contains(t, text, "--- Page 3 ---\npage three")
	assert.Equal(t, 3, strings.Count(text, "--- Page "))
}

func TestRecoverText_PDFRasterizeFailure(t *testing.T) {
	path := writeTestFile(t, "doc.pdf", []byte("%PDF-1.4"))
	runner := &fakeRunner{err: errors.New("pdftoppm: command not found")}
	engine := &fakeEngine{}

	_, err := newTestExtractor(runner, engine).RecoverText(context.Background(), path, domain.FileTypePDF)

	var recErr *ocr.RecoveryError
	require.ErrorAs(t, err, &recErr)
	assert.Equal(t, "rasterize", recErr.Stage)
}

func TestRecoverText_PDFNoPagesProduced(t *testing.T) {
	path := writeTestFile(t, "doc.pdf", []byte("%PDF-1.4"))
	runner := &fakeRunner{pages: 0}
	engine := &fakeEngine{}

	_, err := newTestExtractor(runner, engine).RecoverText(context.Background(), path, domain.FileTypePDF)

	var recErr *ocr.RecoveryError
	require.ErrorAs(t, err, &recErr)
	assert.Equal(t, "rasterize", recErr.Stage)
}

func TestRecoverText_ImageSinglePass(t *testing.T) {
	path := writeTestFile(t, "scan.png", testPagePNG())
	runner := &fakeRunner{}
	engine := &fakeEngine{texts: []string{"image text"}}

	text, err := newTestExtractor(runner, engine).RecoverText(context.Background(), path, domain.FileTypePNG)
	require.NoError(t, err)
	assert.Equal(t, "image text", text)
	// pdftoppm never runs for images.
	assert.Nil(t, runner.args)
}

func TestRecoverText_ImageEngineFailure(t *testing.T) {
	path := writeTestFile(t, "scan.png", testPagePNG())
	engine := &fakeEngine{errs: []error{errors.New("no text")}}

	_, err := newTestExtractor(&fakeRunner{}, engine).RecoverText(context.Background(), path, domain.FileTypePNG)

	var recErr *ocr.RecoveryError
	require.ErrorAs(t, err, &recErr)
	assert.Equal(t, "recognize", recErr.Stage)
}

func TestRecoverText_FileMissing(t *testing.T) {
	ext := newTestExtractor(&fakeRunner{}, &fakeEngine{})
	_, err := ext.RecoverText(context.Background(), "/nonexistent/file.pdf", domain.FileTypePDF)
	assert.ErrorIs(t, err, ocr.ErrFileNotFound)
}

func TestRecoverText_UnsupportedFormat(t *testing.T) {
	path := writeTestFile(t, "weird.tiff", []byte("II*"))
	ext := newTestExtractor(&fakeRunner{}, &fakeEngine{})
	_, err := ext.RecoverText(context.Background(), path, domain.FileType("tiff"))
	assert.ErrorIs(t, err, ocr.ErrUnsupportedFormat)
}

func TestRecoverText_MaxPagesFlag(t *testing.T) {
	path := writeTestFile(t, "doc.pdf", []byte("%PDF-1.4"))
	runner := &fakeRunner{pages: 1}
	engine := &fakeEngine{texts: []string{"page"}}

	ext := ocr.NewExtractorWithRunner(ocr.Config{DPI: 150, MaxPages: 5}, runner, func() (ocr.Engine, error) {
		return engine, nil
	})
	_, err := ext.RecoverText(context.Background(), path, domain.FileTypePDF)
	require.NoError(t, err)
	assert.Contains(t, runner.args, "-l")
	assert.Contains(t, runner.args, "5")
}
