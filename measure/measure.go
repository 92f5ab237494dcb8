// Package measure computes the pixel width of timeline labels.
//
// Two implementations are provided: GoText shapes text with HarfBuzz via
// go-text/typesetting, which matches what the rasterizer draws, and Cells
// counts fixed-width cells, which is deterministic and needs no font.
package measure

// Measurer returns the advance width of a string in pixels.
type Measurer interface {
	Width(s string) float64
}
