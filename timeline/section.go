package timeline

import (
	"image/color"

	"github.com/gogpu/framedbg"
	"github.com/gogpu/framedbg/drawlist"
)

// Section is a node of the timeline tree. A branch is a marker region
// with Subsections; a leaf holds a run of Draws. Leaves never have
// subsections and branches never have draws.
type Section struct {
	Name      string
	Color     color.NRGBA
	TextColor color.NRGBA
	Expanded  bool

	Subsections []*Section
	Draws       []DrawCall

	// Per-draw results of the last paint, parallel to Draws.
	pips []pip

	// Label bar of a branch, background strip of a leaf. Zero height when
	// the section was hidden in the last paint.
	rect drawlist.Rect
}

type pip struct {
	x       float64
	used    bool
	visible bool
}

// IsLeaf reports whether s holds draws.
func (s *Section) IsLeaf() bool { return s.Draws != nil }

// Rect returns the area s occupied in the last paint.
func (s *Section) Rect() drawlist.Rect { return s.rect }

// Walk calls fn for s and every descendant, depth first. Returning false
// from fn skips the children of that section.
func (s *Section) Walk(fn func(*Section) bool) {
	if s == nil || !fn(s) {
		return
	}
	for _, sub := range s.Subsections {
		sub.Walk(fn)
	}
}

// Find returns the first branch named name.
func (s *Section) Find(name string) *Section {
	var found *Section
	s.Walk(func(n *Section) bool {
		if found == nil && !n.IsLeaf() && n.Name == name {
			found = n
		}
		return found == nil
	})
	return found
}

// ExpandAll sets Expanded on every branch below s.
func (s *Section) ExpandAll(expanded bool) {
	s.Walk(func(n *Section) bool {
		if !n.IsLeaf() {
			n.Expanded = expanded
		}
		return true
	})
}

// Gather builds the section tree for draws. The returned root is an
// unnamed branch.
//
// Set-marker and present events are skipped, as are marker regions hidden
// by cfg. A push marker or multi-draw becomes a branch built from its
// children; runs of other draws become leaves.
func Gather(draws []DrawCall, cfg framedbg.TimelineConfig) *Section {
	var groups [][]DrawCall

	for _, d := range draws {
		if d.Any(FlagSetMarker | FlagPresent) {
			continue
		}
		if ShouldHide(&d, cfg) {
			continue
		}

		grouping := d.Any(FlagPushMarker | FlagMultiDraw)
		start := grouping || len(groups) == 0
		if !start {
			last := groups[len(groups)-1]
			start = len(last) == 1 && last[0].Any(FlagPushMarker|FlagMultiDraw)
		}
		if start {
			groups = append(groups, nil)
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], d)
	}

	root := &Section{Subsections: make([]*Section, 0, len(groups))}
	for _, g := range groups {
		var sec *Section
		if len(g) == 1 && g[0].Any(FlagPushMarker|FlagMultiDraw) {
			sec = Gather(g[0].Children, cfg)
			sec.Name = g[0].Name
			if cfg.ApplyColours {
				sec.Color = g[0].MarkerColor
				sec.TextColor = g[0].TextColor(drawlist.Black)
			} else {
				sec.Color = drawlist.Transparent
				sec.TextColor = drawlist.Black
			}
		} else {
			sec = &Section{Draws: g, pips: make([]pip, len(g))}
		}
		root.Subsections = append(root.Subsections, sec)
	}
	return root
}

// ShouldHide reports whether a marker region is hidden by cfg: empty
// regions with HideEmptyMarkers, and regions holding only API-call events
// with HideAPICalls.
func ShouldHide(d *DrawCall, cfg framedbg.TimelineConfig) bool {
	if !d.Has(FlagPushMarker) {
		return false
	}

	if cfg.HideEmptyMarkers {
		allHidden := true
		for i := range d.Children {
			if !ShouldHide(&d.Children[i], cfg) {
				allHidden = false
				break
			}
		}
		if allHidden {
			return true
		}
	}

	if cfg.HideAPICalls {
		if len(d.Children) == 0 {
			return false
		}
		for i := range d.Children {
			c := &d.Children[i]
			if ShouldHide(c, cfg) {
				continue
			}
			if !c.Has(FlagAPICalls) {
				return false
			}
		}
		return true
	}

	return false
}
