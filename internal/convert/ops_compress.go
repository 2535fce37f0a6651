package convert

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	"image/png"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/local/docsmith/internal/pdfengine"
)

func runCompress(ctx context.Context, x *execCtx) (*Result, error) {
	f := x.files[0]
	profile := ResolveProfile(x.param(ParamCompressionLevel))
	log.Debug().Str("level", x.param(ParamCompressionLevel)).Str("tier", profile.Tier).Msg("resolved compression profile")

	if isPDF(f) {
		return compressPDF(x, f, profile)
	}
	return compressImage(f, profile)
}

// compressPDF re-renders every page as a JPEG at the profile's resolution
// and rebuilds the document from those rasters.
func compressPDF(x *execCtx, f File, profile Profile) (*Result, error) {
	in, err := x.writeInput(f)
	if err != nil {
		return nil, err
	}
	count, err := pdfengine.PageCount(in)
	if err != nil {
		return nil, err
	}

	pagePaths := make([]string, 0, count)
	for i := 0; i < count; i++ {
		jpg, err := pdfengine.RenderPageJPEG(in, i, float64(profile.RasterDPI), profile.PDFJPEGQuality)
		if err != nil {
			return nil, err
		}
		p := x.scratchPath(fmt.Sprintf("cpage_%04d.jpg", i+1))
		if err := os.WriteFile(p, jpg, 0o644); err != nil {
			return nil, err
		}
		pagePaths = append(pagePaths, p)
	}

	outName := baseName(sanitizeFilename(f.Name)) + "_compressed.pdf"
	out := x.scratchPath(outName)
	if err := pdfengine.ImagesToPDF(pagePaths, out); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(out)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("tier", profile.Tier).
		Int("pages", count).
		Int("in_bytes", len(f.Data)).
		Int("out_bytes", len(data)).
		Msg("compressed pdf")
	return &Result{Artifacts: []Artifact{{Name: outName, Data: data}}, ContentType: "application/pdf"}, nil
}

func compressImage(f File, profile Profile) (*Result, error) {
	outName := baseName(sanitizeFilename(f.Name)) + "_compressed" + f.Ext()

	var buf bytes.Buffer
	switch f.Ext() {
	case ".jpg", ".jpeg":
		img, err := jpeg.Decode(bytes.NewReader(f.Data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode JPEG: %w", err)
		}
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: profile.ImageQuality}); err != nil {
			return nil, fmt.Errorf("failed to encode JPEG: %w", err)
		}
		return &Result{Artifacts: []Artifact{{Name: outName, Data: buf.Bytes()}}, ContentType: "image/jpeg"}, nil
	case ".png":
		img, err := png.Decode(bytes.NewReader(f.Data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode PNG: %w", err)
		}
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		if err := enc.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("failed to encode PNG: %w", err)
		}
		return &Result{Artifacts: []Artifact{{Name: outName, Data: buf.Bytes()}}, ContentType: "image/png"}, nil
	default:
		return nil, fmt.Errorf("no image encoder for %s", f.Ext())
	}
}
