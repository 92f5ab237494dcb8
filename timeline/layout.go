package timeline

import "github.com/gogpu/framedbg/measure"

// Bar geometry in pixels.
const (
	pipPaddingY = 8
	pipRadius   = 5
	barPadding  = 4
	barHeight   = 24
	barBorder   = 1

	// minSectionWidth is the floor for any section.
	minSectionWidth = 20

	// skimPasses caps the redistribution loop in Allocate.
	skimPasses = 10

	// minSkim is the smallest width moved between siblings in one step.
	minSkim = 0.1
)

// MinBarSize is the width of a label bar holding text.
func MinBarSize(m measure.Measurer, text string) float64 {
	return m.Width(text) + barBorder*2 + barPadding*2
}

// MinSectionSize is the narrowest width s can be drawn at. A named section
// fits its "+ name" label; an expanded branch also fits the minimums of
// its children. Collapsed branches count only their own label.
func MinSectionSize(s *Section, m measure.Measurer) float64 {
	w := float64(minSectionWidth)
	if s.Name != "" {
		w = max(w, MinBarSize(m, "+ "+s.Name))
	}
	if len(s.Subsections) == 0 || !s.Expanded {
		return w
	}

	children := 0.0
	for _, sub := range s.Subsections {
		children += MinSectionSize(sub, m)
	}
	return max(w, children)
}

// Allocate divides avail pixels between siblings with the given minimum
// widths.
//
// With room to spare every width is scaled up by the same factor. When
// avail is short, all widths are scaled down and each sibling left below
// its minimum skims equal shares from siblings with slack, for at most ten
// passes. Siblings that cannot be lifted stay below their minimum. The
// widths then still sum to avail and none is negative.
//
// A non-positive avail yields the minimums unchanged. No siblings yield nil.
func Allocate(minWidths []float64, avail float64) []float64 {
	n := len(minWidths)
	if n == 0 {
		return nil
	}

	mins := make([]float64, n)
	total := 0.0
	for i, w := range minWidths {
		mins[i] = max(0, w)
		total += mins[i]
	}
	widths := make([]float64, n)

	if avail <= 0 {
		copy(widths, mins)
		return widths
	}
	if total <= 0 {
		for i := range widths {
			widths[i] = avail / float64(n)
		}
		return widths
	}

	scale := avail / total
	for i := range widths {
		widths[i] = mins[i] * scale
	}
	if total < avail {
		return widths
	}

	for i := range widths {
		if widths[i] >= mins[i] || n == 1 {
			continue
		}
		skim(widths, mins, i)
	}

	for i := range widths {
		widths[i] = max(0, widths[i])
	}
	return widths
}

// skim lifts widths[i] towards mins[i] by taking width from siblings above
// their minimum.
func skim(widths, mins []float64, i int) {
	n := len(widths)
	missing := mins[i] - widths[i]
	share := missing / float64(n-1)

	for pass := 1; pass < skimPasses; pass++ {
		slack := false
		for j := 0; j < n; {
			if j == i {
				j++
				continue
			}
			if widths[j] > mins[j] {
				avail := widths[j] - mins[j]
				delta := max(minSkim, min(avail, share))
				widths[i] += delta
				widths[j] -= delta
				missing -= delta

				// Sibling j ran dry: spread what is left over the others
				// and start over.
				if avail < share {
					share = missing / float64(n-1)
					j = 0
					continue
				}
				slack = true
			}
			j++
		}
		if !slack || missing <= 0 {
			return
		}
	}
}

// layout returns the widths of s's children as fractions of width.
func layout(s *Section, m measure.Measurer, width float64) []float64 {
	if width <= 0 {
		return make([]float64, len(s.Subsections))
	}
	mins := make([]float64, len(s.Subsections))
	for i, sub := range s.Subsections {
		mins[i] = MinSectionSize(sub, m)
	}
	widths := Allocate(mins, width)
	for i := range widths {
		widths[i] /= width
	}
	return widths
}
