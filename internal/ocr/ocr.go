// Package ocr wraps an external text-extraction engine and turns its noisy
// output into normalized amounts and status tokens.
package ocr

import (
	"context"
	"fmt"
	"image"
)

// TextExtractor reads the text content of a cropped region. Implementations
// are expected to be slow and fallible; callers bound them with a context.
type TextExtractor interface {
	ExtractText(ctx context.Context, img image.Image) ([]string, error)
}

// NewExtractor creates an engine for the given variant.
func NewExtractor(variant string) (TextExtractor, error) {
	switch variant {
	case "tesseract", "":
		return NewTesseract(), nil
	case "easyocr":
		return nil, fmt.Errorf("easyocr engine not yet implemented")
	default:
		return nil, fmt.Errorf("unknown ocr engine: %s", variant)
	}
}
