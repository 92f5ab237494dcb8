package drawlist

import "image/color"

// Point is a position in canvas pixels.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Rect is an axis-aligned rectangle. Width and height may be negative
// after arithmetic; Empty reports such rectangles.
type Rect struct {
	X, Y, W, H float64
}

// R is shorthand for Rect{x, y, w, h}.
func R(x, y, w, h float64) Rect { return Rect{X: x, Y: y, W: w, H: h} }

// Right returns X+W.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns Y+H.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Empty reports whether r covers no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Contains reports whether (x, y) lies inside r. The left and top edges
// are inclusive, the right and bottom edges exclusive.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Span returns the horizontal slice of r starting at fraction start of its
// width and spanning fraction width of it.
func (r Rect) Span(start, width float64) Rect {
	return Rect{X: r.X + r.W*start, Y: r.Y, W: r.W * width, H: r.H}
}

// Inset shrinks r by d on every side.
func (r Rect) Inset(d float64) Rect {
	return Rect{X: r.X + d, Y: r.Y + d, W: r.W - 2*d, H: r.H - 2*d}
}

// Intersect returns the overlap of r and o, or an empty rect.
func (r Rect) Intersect(o Rect) Rect {
	x0, y0 := max(r.X, o.X), max(r.Y, o.Y)
	x1, y1 := min(r.Right(), o.Right()), min(r.Bottom(), o.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Named colours used by the timeline.
var (
	Transparent = color.NRGBA{}
	Black       = color.NRGBA{A: 255}
	White       = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	Blue        = color.NRGBA{B: 255, A: 255}
	Red         = color.NRGBA{R: 255, A: 255}
	Lime        = color.NRGBA{G: 255, A: 255}
	LightGreen  = color.NRGBA{R: 144, G: 238, B: 144, A: 255}
	LightYellow = color.NRGBA{R: 255, G: 255, B: 224, A: 255}
	Crimson     = color.NRGBA{R: 220, G: 20, B: 60, A: 255}
	Orchid      = color.NRGBA{R: 218, G: 112, B: 214, A: 255}
	Silver      = color.NRGBA{R: 192, G: 192, B: 192, A: 255}
	Tomato      = color.NRGBA{R: 255, G: 99, B: 71, A: 255}
	Azure       = color.NRGBA{R: 240, G: 255, B: 255, A: 255}
	LightBack   = color.NRGBA{R: 235, G: 235, B: 235, A: 255}
	DarkBack    = color.NRGBA{R: 200, G: 200, B: 200, A: 255}
	GuideLine   = color.NRGBA{R: 230, G: 230, B: 230, A: 255}
)
