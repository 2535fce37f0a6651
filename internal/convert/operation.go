package convert

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/local/docsmith/internal/metrics"
)

// File is one uploaded input, transient to the request.
type File struct {
	Name string
	Data []byte
}

// Ext returns the declared extension, lowercased, with the leading dot.
func (f File) Ext() string {
	return strings.ToLower(filepath.Ext(f.Name))
}

// Request is a dispatch call: operation name, ordered files, form parameters.
type Request struct {
	Operation string
	Files     []File
	Params    map[string]string
}

// Param returns a trimmed parameter value.
func (r Request) Param(name string) string {
	return strings.TrimSpace(r.Params[name])
}

// Arity declares how many inputs an operation takes.
type Arity int

const (
	// Single operations use the first supplied file; extras are ignored
	// unless the operation opts into consuming all of them.
	Single Arity = iota
	// Multiple operations accept one or more files, all validated.
	Multiple
)

// Operation is one immutable catalog entry. The catalog is built once at
// construction and never mutated, so concurrent reads need no locking.
type Operation struct {
	Name     string
	Arity    Arity
	Accepts  []string // lowercased extensions with dot
	Requires []string // required non-empty parameter names
	// ConsumesAll marks the documented arity exception: a Single operation
	// that consumes every supplied file as ordered input (image_to_pdf).
	ConsumesAll bool

	run func(ctx context.Context, x *execCtx) (*Result, error)
}

func (op Operation) accepts(ext string) bool {
	for _, a := range op.Accepts {
		if a == ext {
			return true
		}
	}
	return false
}

// DocConverter models the delegated document-model capability (LibreOffice).
type DocConverter interface {
	ConvertToPDF(ctx context.Context, inputPath, outDir string) (string, error)
}

// OCREngine models the delegated OCR capability.
type OCREngine interface {
	ImageText(ctx context.Context, img []byte) (string, error)
}

// Options wires the dispatcher's delegated capabilities.
type Options struct {
	Docs   DocConverter
	OCR    OCREngine
	OCRDPI int
}

// Dispatcher routes requests against the static operation catalog.
type Dispatcher struct {
	catalog map[string]Operation
	docs    DocConverter
	ocr     OCREngine
	ocrDPI  int
}

// New builds a dispatcher with the full operation catalog.
func New(opts Options) *Dispatcher {
	d := &Dispatcher{
		docs:   opts.Docs,
		ocr:    opts.OCR,
		ocrDPI: opts.OCRDPI,
	}
	if d.ocrDPI <= 0 {
		d.ocrDPI = 300
	}
	d.catalog = buildCatalog()
	return d
}

// Operations returns the catalog's operation names, for diagnostics.
func (d *Dispatcher) Operations() []string {
	out := make([]string, 0, len(d.catalog))
	for name := range d.catalog {
		out = append(out, name)
	}
	return out
}

// execCtx is the request-scoped working state handed to operation handlers.
// Everything here dies with the request; the scratch dir is removed on every
// return path.
type execCtx struct {
	d       *Dispatcher
	scratch string
	files   []File
	params  map[string]string
}

func (x *execCtx) param(name string) string { return strings.TrimSpace(x.params[name]) }

// writeInput persists one uploaded file into the scratch dir and returns its path.
func (x *execCtx) writeInput(f File) (string, error) {
	p := filepath.Join(x.scratch, sanitizeFilename(f.Name))
	if err := os.WriteFile(p, f.Data, 0o644); err != nil {
		return "", err
	}
	return p, nil
}

// scratchPath joins a name onto the scratch dir.
func (x *execCtx) scratchPath(name string) string { return filepath.Join(x.scratch, name) }

// Dispatch validates and executes one conversion request. Validation errors
// are returned before any codec call; codec failures come back wrapped in
// ConversionError and never leave partial output behind.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (*Result, error) {
	if len(req.Files) == 0 {
		return nil, &NoInputError{}
	}

	op, ok := d.catalog[req.Operation]
	if !ok {
		return nil, &UnsupportedOperationError{Name: req.Operation}
	}

	// Extension validation before anything touches a codec.
	checked := req.Files
	if op.Arity == Single && !op.ConsumesAll {
		checked = req.Files[:1]
	}
	for _, f := range checked {
		if !op.accepts(f.Ext()) {
			return nil, &UnsupportedFileTypeError{Filename: f.Name, Expected: op.Accepts}
		}
	}

	for _, p := range op.Requires {
		if strings.TrimSpace(req.Params[p]) == "" {
			return nil, &MissingParameterError{Name: p}
		}
	}

	scratch, err := os.MkdirTemp("", "docsmith-*")
	if err != nil {
		return nil, &ConversionError{Operation: op.Name, Err: err}
	}
	defer func() {
		if rmErr := os.RemoveAll(scratch); rmErr != nil {
			log.Warn().Err(rmErr).Str("dir", scratch).Msg("failed to remove scratch dir")
		}
	}()

	x := &execCtx{d: d, scratch: scratch, files: checked, params: req.Params}

	start := time.Now()
	res, err := op.run(ctx, x)
	if err != nil {
		metrics.ObserveConversion(op.Name, "error", time.Since(start))
		log.Error().Err(err).Str("operation", op.Name).Int("files", len(checked)).Msg("conversion failed")
		return nil, &ConversionError{Operation: op.Name, Err: err}
	}

	metrics.ObserveConversion(op.Name, "success", time.Since(start))
	log.Info().
		Str("operation", op.Name).
		Int("files", len(checked)).
		Int("artifacts", len(res.Artifacts)).
		Dur("duration", time.Since(start)).
		Msg("conversion complete")
	return res, nil
}
