package overlay

import (
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Measurer reports rendered text widths using a bundled regular face. Faces
// are cached per point size; the zero value is not usable, call NewMeasurer.
type Measurer struct {
	mu    sync.Mutex
	fnt   *opentype.Font
	faces map[int]font.Face
}

func NewMeasurer() *Measurer {
	m := &Measurer{faces: make(map[int]font.Face)}
	fnt, err := opentype.Parse(goregular.TTF)
	if err == nil {
		m.fnt = fnt
	}
	return m
}

// Width returns the advance width of text at size points. When the face
// cannot be built it falls back to a character-count estimate so overlay
// placement degrades instead of failing.
func (m *Measurer) Width(text string, size float64) float64 {
	face := m.face(size)
	if face == nil {
		return ApproxWidth(text, size)
	}
	m.mu.Lock()
	adv := font.MeasureString(face, text)
	m.mu.Unlock()
	return float64(adv) / 64.0
}

func (m *Measurer) face(size float64) font.Face {
	if m.fnt == nil {
		return nil
	}
	key := int(math.Round(size))
	if key < 1 {
		key = 1
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if f, ok := m.faces[key]; ok {
		return f
	}
	f, err := opentype.NewFace(m.fnt, &opentype.FaceOptions{
		Size:    float64(key),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil
	}
	m.faces[key] = f
	return f
}
