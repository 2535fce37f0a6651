package filetype

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

func TestDetectPDF(t *testing.T) {
	d := New()
	info := d.Detect("doc.pdf", []byte("%PDF-1.7\n1 0 obj\n"))

	assert.Equal(t, "application/pdf", info.MIMEType)
	assert.Equal(t, KindPDF, info.Kind)
	assert.True(t, info.Supported)
}

func TestDetectPNG(t *testing.T) {
	d := New()
	info := d.Detect("pic.png", pngBytes(t))

	assert.Equal(t, "image/png", info.MIMEType)
	assert.Equal(t, KindImage, info.Kind)
	assert.True(t, info.Supported)
}

func TestDetectPlainText(t *testing.T) {
	d := New()
	info := d.Detect("notes.txt", []byte("just some notes\n"))

	assert.Equal(t, KindDocument, info.Kind)
	assert.True(t, info.Supported)
}

func TestDetectUnknownBinary(t *testing.T) {
	d := New()
	info := d.Detect("prog.bin", []byte{0x7f, 'E', 'L', 'F', 2, 1, 1, 0, 0, 0})

	assert.Equal(t, KindUnknown, info.Kind)
	assert.False(t, info.Supported)
}

func TestMatchesAgreeingContent(t *testing.T) {
	d := New()
	assert.True(t, d.Matches("doc.pdf", []byte("%PDF-1.4\n")))
	assert.True(t, d.Matches("pic.png", pngBytes(t)))
	assert.True(t, d.Matches("notes.txt", []byte("hello\n")))
}

func TestMatchesRejectsMismatchedContent(t *testing.T) {
	d := New()
	// PNG bytes pretending to be a PDF.
	assert.False(t, d.Matches("doc.pdf", pngBytes(t)))
	// ELF pretending to be an image.
	assert.False(t, d.Matches("pic.jpg", []byte{0x7f, 'E', 'L', 'F', 2, 1, 1, 0}))
}

func TestMatchesPassesThroughUnknownExtensions(t *testing.T) {
	d := New()
	// Per-operation validation owns rejection for extensions outside the
	// service's format groups.
	assert.True(t, d.Matches("data.xyz", []byte("whatever")))
}
