package overlay

import (
	"errors"
	"image"
	"image/color"
	stddraw "image/draw"
	"math"
	"strings"
	"sync"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"
)

const (
	// watermarkAngle tilts the mark diagonally across the page.
	watermarkAngle = 45.0
	// watermarkSpan sizes the text to a fraction of the page diagonal.
	watermarkSpan = 0.7
	// layerPxPerPt oversamples the rasterized layer so the stamped result
	// stays crisp after scaling back to page units.
	layerPxPerPt = 2.0
)

var watermarkTint = color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0x40}

var (
	sharedOnce sync.Once
	shared     *Measurer
)

func sharedMeasurer() *Measurer {
	sharedOnce.Do(func() { shared = NewMeasurer() })
	return shared
}

// WatermarkLayer rasterizes the watermark text as a rotated translucent
// layer sized for a page of pageW x pageH (page units). The returned scale
// converts layer pixels back to page units when the layer is stamped.
func WatermarkLayer(text string, pageW, pageH float64) (*image.NRGBA, float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, 0, errors.New("empty watermark text")
	}

	m := sharedMeasurer()
	size := 48.0
	if w := m.Width(text, size); w > 0 {
		size *= watermarkSpan * math.Hypot(pageW, pageH) / w
	}
	if size < 12 {
		size = 12
	}
	if size > 240 {
		size = 240
	}

	layer := renderTextLayer(m, text, size*layerPxPerPt, watermarkTint)
	if layer == nil {
		return nil, 0, errors.New("watermark face unavailable")
	}
	return rotateLayer(layer, watermarkAngle), 1 / layerPxPerPt, nil
}

// WatermarkImage composites the watermark text over a raster image,
// centered and rotated the same way the page variant is.
func WatermarkImage(src image.Image, text string) (image.Image, error) {
	b := src.Bounds()
	base := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	stddraw.Draw(base, base.Bounds(), src, b.Min, stddraw.Src)

	layer, scale, err := WatermarkLayer(text, float64(b.Dx()), float64(b.Dy()))
	if err != nil {
		return nil, err
	}
	lw := int(float64(layer.Bounds().Dx()) * scale)
	lh := int(float64(layer.Bounds().Dy()) * scale)
	if lw < 1 || lh < 1 {
		return base, nil
	}
	x0 := (b.Dx() - lw) / 2
	y0 := (b.Dy() - lh) / 2
	xdraw.BiLinear.Scale(base, image.Rect(x0, y0, x0+lw, y0+lh), layer, layer.Bounds(), xdraw.Over, nil)
	return base, nil
}

func renderTextLayer(m *Measurer, text string, sizePx float64, col color.NRGBA) *image.NRGBA {
	face := m.face(sizePx)
	if face == nil {
		return nil
	}
	w := m.Width(text, sizePx)
	met := face.Metrics()
	ascent := float64(met.Ascent) / 64
	height := float64(met.Height) / 64

	img := image.NewNRGBA(image.Rect(0, 0, int(math.Ceil(w))+4, int(math.Ceil(height))+4))
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(2, int(math.Round(ascent))+2),
	}
	m.mu.Lock()
	d.DrawString(text)
	m.mu.Unlock()
	return img
}

// rotateLayer rotates src counterclockwise by deg degrees around its center,
// expanding the canvas so nothing is clipped.
func rotateLayer(src *image.NRGBA, deg float64) *image.NRGBA {
	rad := deg * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	sw := float64(src.Bounds().Dx())
	sh := float64(src.Bounds().Dy())
	dw := math.Abs(sw*cos) + math.Abs(sh*sin)
	dh := math.Abs(sw*sin) + math.Abs(sh*cos)

	dst := image.NewNRGBA(image.Rect(0, 0, int(math.Ceil(dw)), int(math.Ceil(dh))))
	cx, cy := sw/2, sh/2
	aff := f64.Aff3{
		cos, -sin, dw/2 - cos*cx + sin*cy,
		sin, cos, dh/2 - sin*cx - cos*cy,
	}
	xdraw.BiLinear.Transform(dst, aff, src, src.Bounds(), xdraw.Over, nil)
	return dst
}
