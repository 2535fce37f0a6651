package convert

import (
	"archive/zip"
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Artifact is one produced output file.
type Artifact struct {
	Name string
	Data []byte
}

// Result is what an operation hands back: one or more artifacts plus a
// content-type hint for the single-artifact case.
type Result struct {
	Artifacts   []Artifact
	ContentType string
	// ArchiveName overrides the default archive name when the result is
	// packaged (pdf_to_image_archive names the zip after the input).
	ArchiveName string
	// ForceArchive packages the result even when it holds a single
	// artifact, so a one-page pdf_to_image_archive still yields a zip.
	ForceArchive bool
}

// Collapse decides single-artifact vs archive. One artifact is returned
// as-is; several are packaged into a zip in artifact order.
func (r *Result) Collapse() (name string, data []byte, contentType string, err error) {
	if len(r.Artifacts) == 0 {
		return "", nil, "", fmt.Errorf("operation produced no output")
	}
	if len(r.Artifacts) == 1 && !r.ForceArchive {
		a := r.Artifacts[0]
		ct := r.ContentType
		if ct == "" {
			ct = contentTypeFor(a.Name)
		}
		return a.Name, a.Data, ct, nil
	}

	archiveName := r.ArchiveName
	if archiveName == "" {
		archiveName = "converted_files.zip"
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, a := range r.Artifacts {
		w, werr := zw.Create(a.Name)
		if werr != nil {
			return "", nil, "", fmt.Errorf("archive entry %s: %w", a.Name, werr)
		}
		if _, werr := w.Write(a.Data); werr != nil {
			return "", nil, "", fmt.Errorf("archive write %s: %w", a.Name, werr)
		}
	}
	if err := zw.Close(); err != nil {
		return "", nil, "", fmt.Errorf("archive close: %w", err)
	}
	return archiveName, buf.Bytes(), "application/zip", nil
}

func contentTypeFor(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".txt":
		return "text/plain; charset=utf-8"
	case ".zip":
		return "application/zip"
	default:
		return "application/octet-stream"
	}
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// sanitizeFilename keeps only the base name and replaces anything outside a
// conservative allowlist. Uploaded names are never used to build paths
// outside the request's scratch directory.
func sanitizeFilename(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	base = unsafeFilenameChars.ReplaceAllString(base, "_")
	base = strings.Trim(base, "._")
	if base == "" {
		base = "upload"
	}
	return base
}

// baseName strips the extension off a (sanitized) file name.
func baseName(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
