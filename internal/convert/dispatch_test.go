package convert

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJPEG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	img.Set(2, 2, color.NRGBA{R: 255, A: 128})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDispatchNoInput(t *testing.T) {
	d := New(Options{})
	_, err := d.Dispatch(context.Background(), Request{Operation: "merge"})

	var noInput *NoInputError
	require.ErrorAs(t, err, &noInput)
	assert.True(t, IsClientError(err))
}

func TestDispatchUnknownOperation(t *testing.T) {
	d := New(Options{})
	_, err := d.Dispatch(context.Background(), Request{
		Operation: "rotate",
		Files:     []File{{Name: "a.pdf", Data: []byte("x")}},
	})

	var unsupported *UnsupportedOperationError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "rotate", unsupported.Name)
	assert.True(t, IsClientError(err))
}

func TestDispatchRejectsWrongExtension(t *testing.T) {
	d := New(Options{})
	_, err := d.Dispatch(context.Background(), Request{
		Operation: "protect",
		Files:     []File{{Name: "notes.txt", Data: []byte("x")}},
		Params:    map[string]string{ParamPassword: "s3cret"},
	})

	var wrongType *UnsupportedFileTypeError
	require.ErrorAs(t, err, &wrongType)
	assert.Equal(t, "notes.txt", wrongType.Filename)
	assert.True(t, IsClientError(err))
}

func TestDispatchMultipleArityValidatesEveryFile(t *testing.T) {
	d := New(Options{})
	_, err := d.Dispatch(context.Background(), Request{
		Operation: "merge",
		Files: []File{
			{Name: "a.pdf", Data: []byte("x")},
			{Name: "b.png", Data: []byte("x")},
		},
	})

	var wrongType *UnsupportedFileTypeError
	require.ErrorAs(t, err, &wrongType)
	assert.Equal(t, "b.png", wrongType.Filename)
}

func TestDispatchMissingRequiredParameter(t *testing.T) {
	d := New(Options{})
	for op, param := range map[string]string{
		"protect":      ParamPassword,
		"remove_pages": ParamRemovePages,
		"compress":     ParamCompressionLevel,
		"watermark":    ParamWatermarkText,
	} {
		_, err := d.Dispatch(context.Background(), Request{
			Operation: op,
			Files:     []File{{Name: "a.pdf", Data: []byte("x")}},
		})

		var missing *MissingParameterError
		require.ErrorAs(t, err, &missing, "operation %s", op)
		assert.Equal(t, param, missing.Name)
		assert.True(t, IsClientError(err))
	}
}

func TestDispatchBlankParameterCountsAsMissing(t *testing.T) {
	d := New(Options{})
	_, err := d.Dispatch(context.Background(), Request{
		Operation: "protect",
		Files:     []File{{Name: "a.pdf", Data: []byte("x")}},
		Params:    map[string]string{ParamPassword: "   "},
	})

	var missing *MissingParameterError
	require.ErrorAs(t, err, &missing)
}

func TestDispatchSingleArityIgnoresExtraFiles(t *testing.T) {
	d := New(Options{})
	res, err := d.Dispatch(context.Background(), Request{
		Operation: "jpg_to_png",
		Files: []File{
			{Name: "photo.jpg", Data: testJPEG(t)},
			{Name: "ignored.exe", Data: []byte("junk")},
		},
	})
	require.NoError(t, err)
	require.Len(t, res.Artifacts, 1)
	assert.Equal(t, "photo.png", res.Artifacts[0].Name)
}

func TestDispatchJPGToPNG(t *testing.T) {
	d := New(Options{})
	res, err := d.Dispatch(context.Background(), Request{
		Operation: "jpg_to_png",
		Files:     []File{{Name: "photo.jpg", Data: testJPEG(t)}},
	})
	require.NoError(t, err)

	name, data, contentType, err := res.Collapse()
	require.NoError(t, err)
	assert.Equal(t, "photo.png", name)
	assert.Equal(t, "image/png", contentType)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dx())
}

func TestDispatchPNGToJPGFlattensAlpha(t *testing.T) {
	d := New(Options{})
	res, err := d.Dispatch(context.Background(), Request{
		Operation: "png_to_jpg",
		Files:     []File{{Name: "logo.png", Data: testPNG(t)}},
	})
	require.NoError(t, err)

	name, data, _, err := res.Collapse()
	require.NoError(t, err)
	assert.Equal(t, "logo.jpg", name)

	img, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 8, img.Bounds().Dy())
}

func TestDispatchCorruptImageIsConversionError(t *testing.T) {
	d := New(Options{})
	_, err := d.Dispatch(context.Background(), Request{
		Operation: "jpg_to_png",
		Files:     []File{{Name: "broken.jpg", Data: []byte("not a jpeg")}},
	})

	var conv *ConversionError
	require.ErrorAs(t, err, &conv)
	assert.Equal(t, "jpg_to_png", conv.Operation)
	assert.False(t, IsClientError(err))
	assert.NotNil(t, conv.Err)
}

func TestOperationsCatalogComplete(t *testing.T) {
	d := New(Options{})
	ops := d.Operations()
	for _, want := range []string{
		"merge", "protect", "remove_pages", "document_to_pdf", "pdf_to_document",
		"image_to_pdf", "pdf_to_image_archive", "jpg_to_png", "png_to_jpg",
		"compress", "watermark", "ocr",
	} {
		assert.Contains(t, ops, want)
	}
}
