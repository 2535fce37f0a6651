package convert

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/local/docsmith/internal/pdfengine"
)

func runMerge(ctx context.Context, x *execCtx) (*Result, error) {
	paths := make([]string, 0, len(x.files))
	for i, f := range x.files {
		// index prefix keeps submission order and avoids name collisions
		p := x.scratchPath(fmt.Sprintf("%03d_%s", i, sanitizeFilename(f.Name)))
		if err := os.WriteFile(p, f.Data, 0o644); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}

	out := x.scratchPath("merged.pdf")
	if err := pdfengine.MergeFiles(paths, out); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(out)
	if err != nil {
		return nil, err
	}
	return &Result{Artifacts: []Artifact{{Name: "merged.pdf", Data: data}}, ContentType: "application/pdf"}, nil
}

func runProtect(ctx context.Context, x *execCtx) (*Result, error) {
	in, err := x.writeInput(x.files[0])
	if err != nil {
		return nil, err
	}
	out := x.scratchPath("protected.pdf")
	if err := pdfengine.Encrypt(in, out, x.param(ParamPassword)); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(out)
	if err != nil {
		return nil, err
	}
	return &Result{Artifacts: []Artifact{{Name: "protected.pdf", Data: data}}, ContentType: "application/pdf"}, nil
}

func runRemovePages(ctx context.Context, x *execCtx) (*Result, error) {
	f := x.files[0]
	in, err := x.writeInput(f)
	if err != nil {
		return nil, err
	}

	count, err := pdfengine.PageCount(in)
	if err != nil {
		return nil, err
	}

	sel := ParsePageSelection(x.param(ParamRemovePages), count)
	pages := sel.InRange(count)
	outName := baseName(sanitizeFilename(f.Name)) + "_removed.pdf"

	// Nothing valid selected means remove nothing; hand the document back.
	if len(pages) == 0 {
		log.Debug().Str("expr", x.param(ParamRemovePages)).Int("page_count", count).Msg("page selection resolved to empty set")
		return &Result{Artifacts: []Artifact{{Name: outName, Data: f.Data}}, ContentType: "application/pdf"}, nil
	}

	out := x.scratchPath(outName)
	if err := pdfengine.RemovePages(in, out, pages); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(out)
	if err != nil {
		return nil, err
	}
	return &Result{Artifacts: []Artifact{{Name: outName, Data: data}}, ContentType: "application/pdf"}, nil
}
