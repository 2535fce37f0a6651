package overlay

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/local/docsmith/internal/metrics"
	"github.com/local/docsmith/internal/pdfengine"
)

// Engine stamps overlay instructions onto PDF pages. A single Engine is safe
// for concurrent use.
type Engine struct {
	meas *Measurer
}

func NewEngine() *Engine {
	return &Engine{meas: NewMeasurer()}
}

// Apply stamps each instruction onto the document at path in submission
// order and returns how many were applied. Instructions with empty text or
// an out-of-range page are skipped, and a drawing failure on one item never
// aborts the rest.
func (e *Engine) Apply(path string, pages []pdfengine.PageSize, instrs []Instruction) int {
	applied := 0
	for i, in := range instrs {
		if strings.TrimSpace(in.Text) == "" {
			metrics.IncOverlay("skipped")
			continue
		}
		if in.Page < 0 || in.Page >= len(pages) {
			metrics.IncOverlay("dropped")
			log.Warn().Int("item", i).Int("page", in.Page).Int("page_count", len(pages)).
				Msg("Overlay page out of range, dropping item")
			continue
		}

		ps := pages[in.Page]
		x, y := ResolveAnchor(in, ps.Width, ps.Height, e.meas.Width)
		hex := HexColor(ParseHexColor(in.Color))

		// Stamps anchor from the bottom-left of the page.
		if err := pdfengine.StampText(path, in.Page+1, x, ps.Height-y, in.Text, in.Size(), hex); err != nil {
			metrics.IncOverlay("failed")
			log.Error().Err(err).Int("item", i).Int("page", in.Page).Msg("Overlay stamp failed, skipping item")
			continue
		}
		metrics.IncOverlay("applied")
		applied++
	}
	return applied
}
