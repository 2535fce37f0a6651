package convert

import (
	"sort"
	"strconv"
	"strings"
)

// PageSelection is a set of 1-based page numbers.
type PageSelection map[int]struct{}

// ParsePageSelection parses a comma-separated page expression into the set
// of selected pages within [1, pageCount]. Tokens are unsigned integers or
// inclusive ranges "a-b" (order-insensitive: "7-5" means 5,6,7). Malformed
// tokens are skipped; one bad token never fails the whole expression. Empty
// input yields the empty set. Ranges are clipped to the document before
// expansion, so the set never grows past pageCount no matter how large a
// span the caller submits.
func ParsePageSelection(expr string, pageCount int) PageSelection {
	sel := PageSelection{}
	for _, token := range strings.Split(expr, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if a, b, ok := strings.Cut(token, "-"); ok {
			lo, err1 := strconv.Atoi(strings.TrimSpace(a))
			hi, err2 := strconv.Atoi(strings.TrimSpace(b))
			if err1 != nil || err2 != nil || lo < 0 || hi < 0 {
				continue
			}
			if lo > hi {
				lo, hi = hi, lo
			}
			if lo < 1 {
				lo = 1
			}
			if hi > pageCount {
				hi = pageCount
			}
			for p := lo; p <= hi; p++ {
				sel[p] = struct{}{}
			}
			continue
		}
		p, err := strconv.Atoi(token)
		if err != nil || p < 1 || p > pageCount {
			continue
		}
		sel[p] = struct{}{}
	}
	return sel
}

// Contains reports whether page is in the selection.
func (s PageSelection) Contains(page int) bool {
	_, ok := s[page]
	return ok
}

// InRange returns the selected pages within [1, pageCount], sorted.
// Out-of-range numbers are silently dropped, never an error.
func (s PageSelection) InRange(pageCount int) []int {
	out := make([]int, 0, len(s))
	for p := range s {
		if p >= 1 && p <= pageCount {
			out = append(out, p)
		}
	}
	sort.Ints(out)
	return out
}
