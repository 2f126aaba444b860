package ocr

// Engine recognizes text in a single rendered page image.
// The production implementation wraps Tesseract; tests substitute a fake.
type Engine interface {
	Recognize(image []byte) (string, error)
	Close() error
}
