package convert

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	"image/png"
	"os"

	"github.com/local/docsmith/internal/overlay"
	"github.com/local/docsmith/internal/pdfengine"
)

func runWatermark(ctx context.Context, x *execCtx) (*Result, error) {
	f := x.files[0]
	text := x.param(ParamWatermarkText)

	if isPDF(f) {
		return watermarkPDF(x, f, text)
	}
	return watermarkImage(f, text)
}

// watermarkPDF stamps a rasterized, rotated, semi-transparent text layer
// centered on every page. The layer is rasterized because the stamping
// capability does not guarantee vector text with rotation and opacity
// compositing; form-fill overlays keep native text insertion.
func watermarkPDF(x *execCtx, f File, text string) (*Result, error) {
	in, err := x.writeInput(f)
	if err != nil {
		return nil, err
	}
	sizes, err := pdfengine.PageSizes(in)
	if err != nil {
		return nil, err
	}

	for _, ps := range sizes {
		layer, scale, err := overlay.WatermarkLayer(text, ps.Width, ps.Height)
		if err != nil {
			return nil, err
		}

		var buf bytes.Buffer
		if err := png.Encode(&buf, layer); err != nil {
			return nil, fmt.Errorf("failed to encode watermark layer: %w", err)
		}
		layerPath := x.scratchPath(fmt.Sprintf("wm_%04d.png", ps.Index))
		if err := os.WriteFile(layerPath, buf.Bytes(), 0o644); err != nil {
			return nil, err
		}

		if err := pdfengine.StampImageCentered(in, layerPath, ps.Index+1, scale); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(in)
	if err != nil {
		return nil, err
	}
	outName := baseName(sanitizeFilename(f.Name)) + "_watermarked.pdf"
	return &Result{Artifacts: []Artifact{{Name: outName, Data: data}}, ContentType: "application/pdf"}, nil
}

func watermarkImage(f File, text string) (*Result, error) {
	outName := baseName(sanitizeFilename(f.Name)) + "_watermarked" + f.Ext()

	switch f.Ext() {
	case ".jpg", ".jpeg":
		img, err := jpeg.Decode(bytes.NewReader(f.Data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode JPEG: %w", err)
		}
		marked, err := overlay.WatermarkImage(img, text)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, marked, &jpeg.Options{Quality: 90}); err != nil {
			return nil, fmt.Errorf("failed to encode JPEG: %w", err)
		}
		return &Result{Artifacts: []Artifact{{Name: outName, Data: buf.Bytes()}}, ContentType: "image/jpeg"}, nil
	case ".png":
		img, err := png.Decode(bytes.NewReader(f.Data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode PNG: %w", err)
		}
		marked, err := overlay.WatermarkImage(img, text)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, marked); err != nil {
			return nil, fmt.Errorf("failed to encode PNG: %w", err)
		}
		return &Result{Artifacts: []Artifact{{Name: outName, Data: buf.Bytes()}}, ContentType: "image/png"}, nil
	default:
		return nil, fmt.Errorf("no image codec for %s", f.Ext())
	}
}
