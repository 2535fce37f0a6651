package pdfengine

import (
	"fmt"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// MergeFiles concatenates the given PDFs into outPath, pages in input order.
func MergeFiles(inPaths []string, outPath string) error {
	conf := model.NewDefaultConfiguration()
	if err := api.MergeCreateFile(inPaths, outPath, false, conf); err != nil {
		return fmt.Errorf("merge failed: %w", err)
	}
	return nil
}

// Encrypt writes an encrypted copy of inPath to outPath using password for
// both user and owner passwords.
func Encrypt(inPath, outPath, password string) error {
	conf := model.NewDefaultConfiguration()
	conf.UserPW = password
	conf.OwnerPW = password
	if err := api.EncryptFile(inPath, outPath, conf); err != nil {
		return fmt.Errorf("encrypt failed: %w", err)
	}
	return nil
}

// RemovePages removes the given 1-based pages from inPath in a single pass.
// Page numbers are resolved against the document as it was on disk, never
// against intermediate state.
func RemovePages(inPath, outPath string, pages []int) error {
	if len(pages) == 0 {
		return fmt.Errorf("no pages selected")
	}
	sel := make([]string, 0, len(pages))
	for _, p := range pages {
		sel = append(sel, strconv.Itoa(p))
	}
	conf := model.NewDefaultConfiguration()
	if err := api.RemovePagesFile(inPath, outPath, sel, conf); err != nil {
		return fmt.Errorf("remove pages failed: %w", err)
	}
	return nil
}

// ImagesToPDF builds a PDF with one page per input image, in input order.
func ImagesToPDF(imgPaths []string, outPath string) error {
	conf := model.NewDefaultConfiguration()
	if err := api.ImportImagesFile(imgPaths, outPath, nil, conf); err != nil {
		return fmt.Errorf("image import failed: %w", err)
	}
	return nil
}

// Optimize rewrites inPath to outPath with pdfcpu's optimizer.
func Optimize(inPath, outPath string) error {
	conf := model.NewDefaultConfiguration()
	if err := api.OptimizeFile(inPath, outPath, conf); err != nil {
		return fmt.Errorf("optimize failed: %w", err)
	}
	return nil
}

// StampText draws filled text on one page (1-based) at an absolute position,
// in place. x and yFromBottom are in PDF points anchored at the page's
// bottom-left corner; hexColor is "#rrggbb".
func StampText(path string, page int, x, yFromBottom float64, text string, points float64, hexColor string) error {
	desc := fmt.Sprintf("fontname:Helvetica, points:%d, scale:1 abs, pos:bl, rot:0, op:1, fillcolor:%s", int(points+0.5), hexColor)
	wm, err := pdfcpu.ParseTextWatermarkDetails(text, desc, true, types.POINTS)
	if err != nil {
		return fmt.Errorf("failed to build text stamp: %w", err)
	}
	wm.Dx = x
	wm.Dy = yFromBottom

	conf := model.NewDefaultConfiguration()
	pages := []string{strconv.Itoa(page)}
	if err := api.AddWatermarksFile(path, "", pages, wm, conf); err != nil {
		return fmt.Errorf("text stamp failed: %w", err)
	}
	return nil
}

// StampImageCentered stamps a PNG/JPEG centered on one page (1-based), in
// place. scale is an absolute factor applied to the image's intrinsic size
// (1 px = 1 pt at scale 1).
func StampImageCentered(path, imgPath string, page int, scale float64) error {
	desc := fmt.Sprintf("scale:%.4f abs, pos:c, rot:0, op:1", scale)
	wm, err := pdfcpu.ParseImageWatermarkDetails(imgPath, desc, true, types.POINTS)
	if err != nil {
		return fmt.Errorf("failed to build image stamp: %w", err)
	}

	conf := model.NewDefaultConfiguration()
	pages := []string{strconv.Itoa(page)}
	if err := api.AddWatermarksFile(path, "", pages, wm, conf); err != nil {
		return fmt.Errorf("image stamp failed: %w", err)
	}
	return nil
}
