package convert

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/local/docsmith/internal/pdfengine"
)

func runDocumentToPDF(ctx context.Context, x *execCtx) (*Result, error) {
	if x.d.docs == nil {
		return nil, fmt.Errorf("document converter not configured")
	}

	f := x.files[0]
	in, err := x.writeInput(f)
	if err != nil {
		return nil, err
	}

	outPath, err := x.d.docs.ConvertToPDF(ctx, in, x.scratch)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		return nil, err
	}

	outName := baseName(sanitizeFilename(f.Name)) + ".pdf"
	return &Result{Artifacts: []Artifact{{Name: outName, Data: data}}, ContentType: "application/pdf"}, nil
}

func runPDFToDocument(ctx context.Context, x *execCtx) (*Result, error) {
	f := x.files[0]
	in, err := x.writeInput(f)
	if err != nil {
		return nil, err
	}

	count, err := pdfengine.PageCount(in)
	if err != nil {
		return nil, err
	}

	// One paragraph per text line, pages separated by a blank line. A blank
	// page still contributes one empty paragraph so the page count stays
	// visible in the output.
	paragraphs := make([]string, 0, count)
	for i := 0; i < count; i++ {
		text, err := pdfengine.ExtractPageText(in, i)
		if err != nil {
			return nil, err
		}
		paragraphs = append(paragraphs, normalizePageText(text))
	}

	out := strings.Join(paragraphs, "\n\n") + "\n"
	outName := baseName(sanitizeFilename(f.Name)) + ".txt"
	return &Result{Artifacts: []Artifact{{Name: outName, Data: []byte(out)}}, ContentType: "text/plain; charset=utf-8"}, nil
}

// normalizePageText collapses a page's raw extraction into trimmed,
// non-empty lines. An empty page normalizes to the empty string.
func normalizePageText(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			lines = append(lines, t)
		}
	}
	return strings.Join(lines, "\n")
}
