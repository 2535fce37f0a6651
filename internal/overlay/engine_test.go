package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/local/docsmith/internal/pdfengine"
)

func TestApplySkipsEmptyText(t *testing.T) {
	e := NewEngine()
	pages := []pdfengine.PageSize{{Index: 0, Width: 612, Height: 792}}

	// Blank items are filtered before any document access, so a path that
	// does not exist must stay untouched.
	applied := e.Apply("does-not-exist.pdf", pages, []Instruction{
		{Page: 0, Text: ""},
		{Page: 0, Text: "   "},
	})
	assert.Zero(t, applied)
}

func TestApplyDropsOutOfRangePages(t *testing.T) {
	e := NewEngine()
	pages := []pdfengine.PageSize{{Index: 0, Width: 612, Height: 792}}

	applied := e.Apply("does-not-exist.pdf", pages, []Instruction{
		{Page: -1, Text: "too low"},
		{Page: 1, Text: "past the end"},
		{Page: 99, Text: "way past"},
	})
	assert.Zero(t, applied)
}

func TestApplyEmptyInstructionList(t *testing.T) {
	e := NewEngine()
	pages := []pdfengine.PageSize{{Index: 0, Width: 612, Height: 792}}

	assert.Zero(t, e.Apply("does-not-exist.pdf", pages, nil))
}

func TestApplyOneBadItemDoesNotAbortTheRest(t *testing.T) {
	e := NewEngine()
	pages := []pdfengine.PageSize{{Index: 0, Width: 612, Height: 792}}

	// The drawable item fails against a missing file, but the batch still
	// walks every instruction instead of bailing on the first problem.
	applied := e.Apply("does-not-exist.pdf", pages, []Instruction{
		{Page: 5, Text: "dropped"},
		{Page: 0, Text: "fails to stamp"},
		{Page: 0, Text: " "},
	})
	assert.Zero(t, applied)
}
