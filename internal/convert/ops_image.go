package convert

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"os"

	"github.com/local/docsmith/internal/pdfengine"
)

func runImageToPDF(ctx context.Context, x *execCtx) (*Result, error) {
	paths := make([]string, 0, len(x.files))
	for i, f := range x.files {
		p := x.scratchPath(fmt.Sprintf("%03d_%s", i, sanitizeFilename(f.Name)))
		if err := os.WriteFile(p, f.Data, 0o644); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}

	outName := "images.pdf"
	if len(x.files) == 1 {
		outName = baseName(sanitizeFilename(x.files[0].Name)) + ".pdf"
	}
	out := x.scratchPath(outName)
	if err := pdfengine.ImagesToPDF(paths, out); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(out)
	if err != nil {
		return nil, err
	}
	return &Result{Artifacts: []Artifact{{Name: outName, Data: data}}, ContentType: "application/pdf"}, nil
}

func runPDFToImageArchive(ctx context.Context, x *execCtx) (*Result, error) {
	f := x.files[0]
	in, err := x.writeInput(f)
	if err != nil {
		return nil, err
	}

	count, err := pdfengine.PageCount(in)
	if err != nil {
		return nil, err
	}

	artifacts := make([]Artifact, 0, count)
	for i := 0; i < count; i++ {
		jpg, err := pdfengine.RenderPageJPEG(in, i, 150, 90)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, Artifact{Name: fmt.Sprintf("page_%d.jpg", i+1), Data: jpg})
	}

	return &Result{
		Artifacts:    artifacts,
		ArchiveName:  baseName(sanitizeFilename(f.Name)) + ".zip",
		ForceArchive: true,
	}, nil
}

func runJPGToPNG(ctx context.Context, x *execCtx) (*Result, error) {
	f := x.files[0]
	img, err := jpeg.Decode(bytes.NewReader(f.Data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode JPEG: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}

	outName := baseName(sanitizeFilename(f.Name)) + ".png"
	return &Result{Artifacts: []Artifact{{Name: outName, Data: buf.Bytes()}}, ContentType: "image/png"}, nil
}

func runPNGToJPG(ctx context.Context, x *execCtx) (*Result, error) {
	f := x.files[0]
	img, err := png.Decode(bytes.NewReader(f.Data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode PNG: %w", err)
	}

	// JPEG has no alpha channel; flatten onto white before encoding.
	flat := flattenToRGB(img)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, flat, &jpeg.Options{Quality: 90}); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}

	outName := baseName(sanitizeFilename(f.Name)) + ".jpg"
	return &Result{Artifacts: []Artifact{{Name: outName, Data: buf.Bytes()}}, ContentType: "image/jpeg"}, nil
}

func flattenToRGB(img image.Image) image.Image {
	bounds := img.Bounds()
	flat := image.NewRGBA(bounds)
	draw.Draw(flat, bounds, image.White, image.Point{}, draw.Src)
	draw.Draw(flat, bounds, img, bounds.Min, draw.Over)
	return flat
}
