package convert

import (
	"context"
	"fmt"
	"strings"

	"github.com/local/docsmith/internal/pdfengine"
)

func runOCR(ctx context.Context, x *execCtx) (*Result, error) {
	if x.d.ocr == nil {
		return nil, fmt.Errorf("ocr engine not configured")
	}

	f := x.files[0]
	outName := baseName(sanitizeFilename(f.Name)) + ".txt"

	if !isPDF(f) {
		text, err := x.d.ocr.ImageText(ctx, f.Data)
		if err != nil {
			return nil, err
		}
		return &Result{Artifacts: []Artifact{{Name: outName, Data: []byte(text)}}, ContentType: "text/plain; charset=utf-8"}, nil
	}

	// PDFs are rasterized page by page before recognition. Nothing is
	// persisted; rasters live in the scratch dir only.
	in, err := x.writeInput(f)
	if err != nil {
		return nil, err
	}
	count, err := pdfengine.PageCount(in)
	if err != nil {
		return nil, err
	}

	pages := make([]string, 0, count)
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		raster, err := pdfengine.RenderPageJPEG(in, i, float64(x.d.ocrDPI), 95)
		if err != nil {
			return nil, err
		}
		text, err := x.d.ocr.ImageText(ctx, raster)
		if err != nil {
			return nil, fmt.Errorf("ocr page %d: %w", i+1, err)
		}
		pages = append(pages, strings.TrimSpace(text))
	}

	out := strings.Join(pages, "\n\n")
	return &Result{Artifacts: []Artifact{{Name: outName, Data: []byte(out)}}, ContentType: "text/plain; charset=utf-8"}, nil
}
