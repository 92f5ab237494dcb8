package timeline

import "math"

// wayCloser is how much nearer a pip must be to beat a usage-marked one.
const wayCloser = 20

// FindDraw returns the draw whose pip is nearest to client x coordinate
// x, using positions from the last paint. Only visible pips in the leaf
// under x are considered.
//
// On each side of x the nearest pip wins, except that a pip marked by the
// highlighted resource is preferred over an unmarked one unless the
// unmarked pip is more than 20 pixels closer. Between the two sides the
// smaller distance wins, with ties going right.
func (b *Bar) FindDraw(x float64) (DrawCall, bool) {
	f := finder{x: x, dleft: -1, dright: -1}
	f.walk(b.root)

	switch {
	case f.left == nil && f.right == nil:
		return DrawCall{}, false
	case f.left == nil:
		return *f.right, true
	case f.right == nil:
		return *f.left, true
	}

	if math.Abs(x-f.dleft) < math.Abs(x-f.dright) {
		return *f.left, true
	}
	return *f.right, true
}

type finder struct {
	x float64

	left, right   *DrawCall
	dleft, dright float64
	uleft, uright bool
}

func (f *finder) done() bool { return f.left != nil && f.right != nil }

func (f *finder) walk(s *Section) {
	if s == nil {
		return
	}

	for _, sub := range s.Subsections {
		f.walk(sub)
		if f.done() {
			return
		}
	}

	if f.x < s.rect.X || f.x >= s.rect.Right() || len(s.Draws) == 0 {
		return
	}

	for i, p := range s.pips {
		if !p.visible || i >= len(s.Draws) {
			continue
		}
		if p.x <= f.x {
			if f.left == nil ||
				(p.x > f.dleft && p.used == f.uleft) ||
				p.x > f.dleft+wayCloser ||
				(p.used && !f.uleft) {
				f.left, f.dleft, f.uleft = &s.Draws[i], p.x, p.used
			}
		} else {
			if f.right == nil ||
				(p.x < f.dright && p.used == f.uright) ||
				p.x < f.dright-wayCloser ||
				(p.used && !f.uright) {
				f.right, f.dright, f.uright = &s.Draws[i], p.x, p.used
			}
		}
	}
}

// EventX returns the pip position of eid from the last paint.
func (b *Bar) EventX(eid uint32) (float64, bool) {
	return eventX(b.root, eid)
}

func eventX(s *Section, eid uint32) (float64, bool) {
	if s == nil {
		return 0, false
	}
	for _, sub := range s.Subsections {
		if x, ok := eventX(sub, eid); ok {
			return x, true
		}
	}
	for i, p := range s.pips {
		if i < len(s.Draws) && s.Draws[i].EventID == eid {
			return p.x, true
		}
	}
	return 0, false
}

// Click handles a click at (x, y). A click on a visible branch label
// toggles its expansion and selects nothing. Otherwise the draw chosen by
// FindDraw is returned.
func (b *Bar) Click(x, y float64) (DrawCall, bool) {
	if toggle(b.root, x, y) {
		return DrawCall{}, false
	}
	return b.FindDraw(x)
}

func toggle(s *Section, x, y float64) bool {
	if s == nil {
		return false
	}
	if !s.IsLeaf() && s.rect.Contains(x, y) {
		s.Expanded = !s.Expanded
		return true
	}
	for _, sub := range s.Subsections {
		if toggle(sub, x, y) {
			return true
		}
	}
	return false
}
