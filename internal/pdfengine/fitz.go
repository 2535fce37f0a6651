package pdfengine

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/rs/zerolog/log"
)

// PageSize describes one page's media box in PDF points (72 dpi).
type PageSize struct {
	Index  int     `json:"index"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PageCount returns the number of pages in the document at path.
func PageCount(path string) (int, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	return doc.NumPage(), nil
}

// PageSizes returns per-page dimensions in points for the document at path.
func PageSizes(path string) ([]PageSize, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	return pageSizes(doc)
}

// PageSizesFromBytes is PageSizes for an in-memory document.
func PageSizesFromBytes(data []byte) ([]PageSize, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	return pageSizes(doc)
}

func pageSizes(doc *fitz.Document) ([]PageSize, error) {
	sizes := make([]PageSize, 0, doc.NumPage())
	for i := 0; i < doc.NumPage(); i++ {
		bound, err := doc.Bound(i)
		if err != nil {
			return nil, fmt.Errorf("failed to read bounds of page %d: %w", i, err)
		}
		sizes = append(sizes, PageSize{
			Index:  i,
			Width:  float64(bound.Dx()),
			Height: float64(bound.Dy()),
		})
	}
	return sizes, nil
}

// RenderPageImage rasterizes one page (0-based) at the given DPI.
func RenderPageImage(path string, pageIndex int, dpi float64) (image.Image, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	if pageIndex < 0 || pageIndex >= doc.NumPage() {
		return nil, fmt.Errorf("page %d out of range (document has %d pages)", pageIndex, doc.NumPage())
	}

	img, err := doc.ImageDPI(pageIndex, dpi)
	if err != nil {
		return nil, fmt.Errorf("failed to render page %d: %w", pageIndex, err)
	}
	return img, nil
}

// RenderPageJPEG rasterizes one page (0-based) and encodes it as JPEG.
func RenderPageJPEG(path string, pageIndex int, dpi float64, quality int) ([]byte, error) {
	img, err := RenderPageImage(path, pageIndex, dpi)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}

	log.Debug().
		Int("page", pageIndex+1).
		Int("jpeg_size", buf.Len()).
		Int("quality", quality).
		Float64("dpi", dpi).
		Msg("encoded page as JPEG")

	return buf.Bytes(), nil
}

// ExtractPageText extracts the text of one page (0-based). Leading and
// trailing whitespace is preserved for the caller to normalize.
func ExtractPageText(path string, pageIndex int) (string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	if pageIndex < 0 || pageIndex >= doc.NumPage() {
		return "", fmt.Errorf("page %d out of range (document has %d pages)", pageIndex, doc.NumPage())
	}

	text, err := doc.Text(pageIndex)
	if err != nil {
		return "", fmt.Errorf("failed to extract text from page %d: %w", pageIndex, err)
	}
	return text, nil
}

// ExtractText extracts text for every page, pages joined by a blank line.
func ExtractText(path string) (string, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var result strings.Builder
	for i := 0; i < doc.NumPage(); i++ {
		text, err := doc.Text(i)
		if err != nil {
			log.Warn().Err(err).Int("page", i+1).Msg("failed to extract text from page")
			continue
		}
		if i > 0 {
			result.WriteString("\n\n")
		}
		result.WriteString(text)
	}
	return result.String(), nil
}
