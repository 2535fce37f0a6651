package convert

// Form parameter names, matching the upload form's vocabulary.
const (
	ParamPassword         = "password"
	ParamRemovePages      = "remove_pages_input"
	ParamCompressionLevel = "compression_level"
	ParamWatermarkText    = "watermark_text_value"
)

var (
	pdfExts   = []string{".pdf"}
	imageExts = []string{".jpg", ".jpeg", ".png"}
	docExts   = []string{".txt", ".docx", ".doc", ".odt", ".rtf"}
	mixedExts = []string{".pdf", ".jpg", ".jpeg", ".png"}
)

// buildCatalog returns the static operation catalog. Descriptors are values;
// nothing mutates the map after construction.
func buildCatalog() map[string]Operation {
	ops := []Operation{
		{Name: "merge", Arity: Multiple, Accepts: pdfExts, run: runMerge},
		{Name: "protect", Arity: Single, Accepts: pdfExts, Requires: []string{ParamPassword}, run: runProtect},
		{Name: "remove_pages", Arity: Single, Accepts: pdfExts, Requires: []string{ParamRemovePages}, run: runRemovePages},
		{Name: "document_to_pdf", Arity: Single, Accepts: docExts, run: runDocumentToPDF},
		{Name: "pdf_to_document", Arity: Single, Accepts: pdfExts, run: runPDFToDocument},
		{Name: "image_to_pdf", Arity: Single, Accepts: imageExts, ConsumesAll: true, run: runImageToPDF},
		{Name: "pdf_to_image_archive", Arity: Single, Accepts: pdfExts, run: runPDFToImageArchive},
		{Name: "jpg_to_png", Arity: Single, Accepts: []string{".jpg", ".jpeg"}, run: runJPGToPNG},
		{Name: "png_to_jpg", Arity: Single, Accepts: []string{".png"}, run: runPNGToJPG},
		{Name: "compress", Arity: Single, Accepts: mixedExts, Requires: []string{ParamCompressionLevel}, run: runCompress},
		{Name: "watermark", Arity: Single, Accepts: mixedExts, Requires: []string{ParamWatermarkText}, run: runWatermark},
		{Name: "ocr", Arity: Single, Accepts: mixedExts, run: runOCR},
	}

	m := make(map[string]Operation, len(ops))
	for _, op := range ops {
		m[op.Name] = op
	}
	return m
}

func isPDF(f File) bool { return f.Ext() == ".pdf" }
