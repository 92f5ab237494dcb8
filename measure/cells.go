package measure

import (
	"unicode"

	"golang.org/x/text/width"
)

// Cells measures text as a grid of fixed-width cells. East Asian wide and
// fullwidth runes take two cells, control and combining runes take none.
type Cells struct {
	CellWidth float64
}

// Width implements Measurer.
func (c Cells) Width(s string) float64 {
	n := 0
	for _, r := range s {
		n += RuneCells(r)
	}
	return float64(n) * c.CellWidth
}

// RuneCells returns the number of cells r occupies.
func RuneCells(r rune) int {
	if unicode.IsControl(r) || unicode.Is(unicode.Mn, r) {
		return 0
	}
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	default:
		return 1
	}
}
