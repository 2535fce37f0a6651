package filetype

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog/log"
)

// Kind groups the formats the service operates on.
type Kind string

const (
	KindPDF      Kind = "pdf"
	KindImage    Kind = "image"
	KindDocument Kind = "document"
	KindUnknown  Kind = "unknown"
)

// FileTypeInfo contains detected file type information
type FileTypeInfo struct {
	MIMEType    string
	Extension   string
	Kind        Kind
	Supported   bool
	Description string
}

// Detector identifies upload content by magic bytes, not by filename.
type Detector struct{}

func New() *Detector {
	return &Detector{}
}

// Detect sniffs data and returns what the bytes actually are. name is only
// consulted to disambiguate container formats (ZIP-based and OLE-based
// office files share magic bytes across many formats).
func (d *Detector) Detect(name string, data []byte) *FileTypeInfo {
	mtype := mimetype.Detect(data)
	mimeType := mtype.String()
	extension := mtype.Extension()
	if i := strings.IndexByte(mimeType, ';'); i > 0 {
		mimeType = mimeType[:i]
	}

	declared := strings.ToLower(filepath.Ext(name))

	// ZIP-based office formats share the ZIP magic number.
	if mimeType == "application/zip" || strings.Contains(mimeType, "application/x-zip") {
		switch declared {
		case ".docx":
			mimeType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
			extension = ".docx"
		case ".odt":
			mimeType = "application/vnd.oasis.opendocument.text"
			extension = ".odt"
		default:
			log.Debug().Str("ext", declared).Msg("ZIP content with unrecognized extension")
		}
	}

	// Legacy .doc is an OLE/CFB container.
	if mimeType == "application/x-ole-storage" || mimeType == "application/x-cfb" {
		if declared == ".doc" {
			mimeType = "application/msword"
			extension = ".doc"
		}
	}

	info := &FileTypeInfo{MIMEType: mimeType, Extension: extension}
	d.classify(info)
	return info
}

// classify maps a MIME type onto the service's format groups.
func (d *Detector) classify(info *FileTypeInfo) {
	switch {
	case info.MIMEType == "application/pdf":
		info.Kind = KindPDF
		info.Supported = true
		info.Description = "PDF document"

	case info.MIMEType == "image/jpeg" || info.MIMEType == "image/png":
		info.Kind = KindImage
		info.Supported = true
		info.Description = "Raster image"

	case strings.HasPrefix(info.MIMEType, "text/"):
		info.Kind = KindDocument
		info.Supported = true
		info.Description = "Plain text file"

	case info.MIMEType == "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		info.MIMEType == "application/msword":
		info.Kind = KindDocument
		info.Supported = true
		info.Description = "Microsoft Word document"

	case info.MIMEType == "application/vnd.oasis.opendocument.text":
		info.Kind = KindDocument
		info.Supported = true
		info.Description = "OpenDocument text"

	case info.MIMEType == "application/rtf", info.MIMEType == "text/rtf":
		info.Kind = KindDocument
		info.Supported = true
		info.Description = "Rich Text Format"

	default:
		info.Kind = KindUnknown
		info.Supported = false
		info.Description = fmt.Sprintf("Unsupported file type: %s", info.MIMEType)
	}
}

// kindForExt maps a declared filename extension onto a format group.
func kindForExt(ext string) Kind {
	switch strings.ToLower(ext) {
	case ".pdf":
		return KindPDF
	case ".jpg", ".jpeg", ".png":
		return KindImage
	case ".txt", ".docx", ".doc", ".odt", ".rtf":
		return KindDocument
	default:
		return KindUnknown
	}
}

// Matches reports whether the sniffed content is plausible for the filename's
// declared extension. A renamed executable claiming to be a PDF fails here
// before any converter sees it. Extensions outside the service's format
// groups pass through, per-operation validation rejects those with a better
// message.
func (d *Detector) Matches(name string, data []byte) bool {
	declared := kindForExt(filepath.Ext(name))
	if declared == KindUnknown {
		return true
	}
	info := d.Detect(name, data)
	if !info.Supported {
		return false
	}
	if info.Kind != declared {
		log.Warn().Str("file", name).Str("mime", info.MIMEType).
			Str("declared", string(declared)).Str("sniffed", string(info.Kind)).
			Msg("Declared extension does not match content")
		return false
	}
	return true
}
