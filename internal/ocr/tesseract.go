package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract extracts text from raster images via the gosseract client. A
// fresh client is created per call because gosseract clients are not safe
// for concurrent use.
type Tesseract struct {
	languages []string
}

func NewTesseract(languages []string) *Tesseract {
	if len(languages) == 0 {
		languages = []string{"eng"}
	}
	return &Tesseract{languages: languages}
}

// ImageText runs OCR over an encoded image (PNG or JPEG bytes) and returns
// the recognized text.
func (t *Tesseract) ImageText(ctx context.Context, img []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c := gosseract.NewClient()
	defer c.Close()

	if err := c.SetLanguage(t.languages...); err != nil {
		return "", fmt.Errorf("set languages: %w", err)
	}
	if err := c.SetImageFromBytes(img); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// CheckInstallation reports whether a usable tesseract runtime is present.
func CheckInstallation() error {
	if v := gosseract.Version(); v == "" {
		return fmt.Errorf("tesseract library not available")
	}
	return nil
}
