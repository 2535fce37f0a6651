package overlay

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// DefaultFontSize is used when an instruction carries no font size.
const DefaultFontSize = 12.0

// baselineFactor nudges text down so the normalized point behaves as a
// top-left anchor instead of a baseline.
const baselineFactor = 0.75

// Instruction is one client-submitted text overlay. Coordinates are
// normalized to [0,1] relative to the target page's width and height so the
// client can work at any zoom.
type Instruction struct {
	Page     int     `json:"page"` // 0-based page index
	X        float64 `json:"x"`    // normalized from left
	Y        float64 `json:"y"`    // normalized from top
	Text     string  `json:"text"`
	FontSize float64 `json:"font_size,omitempty"` // points
	Color    string  `json:"color,omitempty"`     // "#rrggbb"
	Align    string  `json:"align,omitempty"`     // left|center|right
}

// Size returns the effective font size in points.
func (in Instruction) Size() float64 {
	if in.FontSize > 0 {
		return in.FontSize
	}
	return DefaultFontSize
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ResolveAnchor converts an instruction into the absolute draw point in page
// space (origin top-left, y growing down, units are page units). The
// returned y is the text baseline after the top-left anchor correction.
// measure reports rendered text width at a font size; it is consulted only
// for center and right alignment.
func ResolveAnchor(in Instruction, pageW, pageH float64, measure func(text string, size float64) float64) (x, y float64) {
	size := in.Size()
	x = clamp01(in.X) * pageW
	y = clamp01(in.Y)*pageH + size*baselineFactor

	switch strings.ToLower(in.Align) {
	case "center":
		x -= measure(in.Text, size) / 2
	case "right":
		x -= measure(in.Text, size)
	}
	return x, y
}

// ApproxWidth estimates rendered text width when no measurement capability
// is available.
func ApproxWidth(text string, size float64) float64 {
	return float64(len([]rune(text))) * size * 0.5
}

// ParseHexColor parses "#rrggbb" (leading '#' optional). Invalid input
// yields black, matching the editor's default, never an error.
func ParseHexColor(s string) color.NRGBA {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 {
		return color.NRGBA{A: 0xff}
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{A: 0xff}
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}

// HexColor renders a color as the "#rrggbb" form the stamping layer expects.
func HexColor(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
