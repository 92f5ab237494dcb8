package timeline

import (
	"image/color"
	"math"

	"github.com/gogpu/framedbg"
	"github.com/gogpu/framedbg/drawlist"
)

// pipKind selects how drawPip marks a draw.
type pipKind int

const (
	pipCircle pipKind = iota
	pipFilled
	pipOutline
	pipLeftHalf
	pipRightHalf
	pipFilledQuiet
	pipOutlineQuiet

	// pipHidden computes the position without drawing.
	pipHidden pipKind = 999
)

// Render paints the bar at the given size and plays it back to backend.
// The first failure is logged; later ones are silent until a paint
// succeeds again.
func (b *Bar) Render(backend drawlist.Backend, width, height int) error {
	rec := drawlist.NewRecorder(width, height)
	b.Paint(rec)
	if err := rec.Finish().Playback(backend); err != nil {
		if !b.failedPaint {
			framedbg.Logger().Warn("timeline: failed to paint",
				"width", width, "height", height, "err", err)
			b.failedPaint = true
		}
		return err
	}
	b.failedPaint = false
	return nil
}

// Paint records the bar into rec, using the recorder's size as the client
// area. Pip positions are remembered for FindDraw.
func (b *Bar) Paint(rec *drawlist.Recorder) {
	w, h := float64(rec.Width()), float64(rec.Height())
	if w <= 0 || h <= 0 {
		return
	}
	b.width = w

	client := drawlist.R(0, 0, w, h)
	rect := client.Inset(4)
	rect.W *= b.zoom
	rect.X -= math.Trunc(rect.W * b.scroll)

	rec.Clear(drawlist.White)

	legendY := client.Bottom() - pipRadius*6
	legend := drawlist.R(client.X+1, legendY, client.W-2, pipRadius*6-2)
	rec.FillRect(legend, drawlist.Azure)
	rec.Line(drawlist.Pt(client.X, legendY), drawlist.Pt(client.Right(), legendY), drawlist.Black, 2)
	rec.StrokeRect(drawlist.R(client.X, client.Y, client.W-1, client.H-1), drawlist.Black, 2)

	b.resetPips()
	b.paintLegend(rec, legend)

	b.currentMarker = drawlist.Pt(-1, -1)
	b.ranges = b.ranges[:0]

	if b.loaded {
		rec.Line(drawlist.Pt(rect.X, rect.Y), drawlist.Pt(rect.Right(), rect.Y), drawlist.Black, 2)

		child := rect
		child.Y++

		b.resetPips()
		if b.root != nil {
			b.paintSection(rec, 1, child, b.root, true, child.Y)
		}
	}

	if b.currentMarker.X >= 0 {
		rec.Line(b.currentMarker, drawlist.Pt(b.currentMarker.X, legendY-2), drawlist.DarkBack, 2)
	}
	if b.showHover {
		rec.Line(drawlist.Pt(b.hover.X, 0), drawlist.Pt(b.hover.X, h), drawlist.Red, 2)
	}
}

func (b *Bar) resetPips() {
	b.lastPipX = [3]float64{-100, -100, -100}
}

// paintLegend explains the pip colours along the bottom strip.
func (b *Bar) paintLegend(rec *drawlist.Recorder, r drawlist.Rect) {
	size := b.cfg.FontSize

	if b.hasHistory {
		rec.Text("Pixel history for "+b.historyTex, r.X, r.Y+2, size, drawlist.Black)
		return
	}
	if b.highlightID == NullResource {
		return
	}

	x := r.X
	entry := func(label, measured string, col color.NRGBA) {
		rec.Text(label, x, r.Y+2, size, drawlist.Black)
		x += math.Ceil(b.measure.Width(measured))
		x += pipRadius

		at := drawlist.R(x, r.Y-pipRadius, pipRadius*2, pipRadius*2)
		b.drawPip(rec, drawlist.Black, at, pipOutline, 0, 1, 0, 1)
		b.drawPip(rec, col, at, pipFilled, 0, 1, 0, 1)

		x += pipRadius * 3
	}

	entry(b.highlightName+" Reads", b.highlightName+" Reads", drawlist.Lime)
	entry(", Clears ", ", Clears ", drawlist.Silver)
	if b.barriers {
		entry(", Barriers ", ", Barriers ", drawlist.Tomato)
	}
	entry(" and Writes  ", " and Writes", drawlist.Orchid)
}

// drawPip marks draw idx of n inside the span [start, start+seg) of rect
// and returns the pip's centre x.
//
// Filled and outlined triangles closer than a pip width to the previous
// one of the same kind are skipped so dense ranges stay readable.
func (b *Bar) drawPip(rec *drawlist.Recorder, col color.NRGBA, rect drawlist.Rect,
	kind pipKind, idx, n int, start, seg float64) float64 {
	sub := rect.Span(start, seg)
	sub.X += pipRadius
	sub.Y += pipPaddingY
	sub.W -= pipRadius * 2

	delta := float64(idx+1) / float64(n+1)
	x := sub.X - pipRadius + delta*math.Max(0, sub.W)
	y := sub.Y
	w, h := float64(pipRadius*2), float64(pipRadius*2)

	switch kind {
	case pipCircle:
		rec.FillEllipse(drawlist.R(x, y, w, h), col)
	case pipHidden:
	default:
		h += 2
		w += 4
		x -= 2

		tri := []drawlist.Point{
			drawlist.Pt(x, y+h-2),
			drawlist.Pt(x+w, y+h-2),
			drawlist.Pt(x+w/2, y+2),
		}
		update := true
		slot := kind
		switch kind {
		case pipLeftHalf:
			tri[1] = drawlist.Pt(x+w/2, y+h-2)
			update = false
			slot = pipFilled
		case pipRightHalf:
			tri[0] = drawlist.Pt(x+w/2, y+h-2)
			slot = pipFilled
		case pipFilledQuiet:
			update = false
			slot = pipFilled
		case pipOutlineQuiet:
			update = false
			slot = pipOutline
		}

		if x-b.lastPipX[slot] > pipRadius*2 {
			if slot == pipOutline {
				rec.StrokePolygon(tri, col, 2)
			} else {
				rec.FillPolygon(tri, col)
			}
			if update {
				b.lastPipX[slot] = x
			}
		}
	}

	return x + w/2
}

// drawBar draws the label bar of a branch and returns the area below it
// for the branch's children.
func (b *Bar) drawBar(rec *drawlist.Recorder, back, fore color.NRGBA, rect drawlist.Rect,
	start, seg float64, text string, visible bool) drawlist.Rect {
	sub := rect.Span(start, seg)
	sub.H = barHeight

	if visible && b.showHover && sub.Contains(b.hover.X, b.hover.Y) &&
		b.hover.Y < float64(rec.Height())-pipRadius*6 {
		back = drawlist.LightYellow
		fore = drawlist.Black
	}

	if visible {
		rec.FillRect(sub, back)
		rec.StrokeRect(sub, drawlist.Black, barBorder)

		guideEnd := rect.Bottom() - pipRadius*6
		rec.Line(drawlist.Pt(sub.X, sub.Bottom()), drawlist.Pt(sub.X, guideEnd), drawlist.GuideLine, 1)
		rec.Line(drawlist.Pt(sub.Right(), sub.Bottom()), drawlist.Pt(sub.Right(), guideEnd), drawlist.GuideLine, 1)
	}

	// Keep the label on screen while the bar scrolls off to the left.
	left := sub.X + barPadding
	if left < barPadding {
		textW := b.measure.Width(text)
		left = math.Min(barPadding, math.Max(sub.Right()-barPadding*2-textW, left))
	}

	textRect := drawlist.R(left, sub.Y+barPadding, sub.W-barPadding*2, sub.H-barPadding)
	textRect.H = math.Min(textRect.H, rect.H-pipRadius*6)

	if visible {
		rec.SetClip(textRect)
		rec.Text(text, textRect.X, textRect.Y, b.cfg.FontSize, fore)
		rec.ResetClip()
	}

	return drawlist.R(sub.X, sub.Y+sub.H, sub.W, rect.H-sub.H)
}

var (
	gradientTop    = drawlist.DarkBack
	gradientBottom = color.NRGBA{R: drawlist.DarkBack.R, G: drawlist.DarkBack.G, B: drawlist.DarkBack.B}
)

// paintSection lays out the children of s inside rect and paints them.
// Hidden sections still get pip positions so FindDraw and EventX work
// against collapsed regions.
func (b *Bar) paintSection(rec *drawlist.Recorder, depth int, rect drawlist.Rect,
	s *Section, visible bool, lastVisibleY float64) {
	widths := layout(s, b.measure, rect.W)

	clip := rect
	clip.H -= pipRadius * 6

	start := 0.0
	for i, sub := range s.Subsections {
		if sub.IsLeaf() {
			b.paintLeaf(rec, rect, clip, sub, start, widths[i], visible, lastVisibleY)
			start += widths[i]
			continue
		}

		col, textCol := drawlist.LightBack, drawlist.Black
		if depth%2 != 0 {
			col = drawlist.DarkBack
		}
		if sub.Color.A > 0 {
			col, textCol = sub.Color, sub.TextColor
		}

		label := "+ " + sub.Name
		if sub.Expanded {
			label = "- " + sub.Name
		}

		rec.SetClip(clip)
		child := b.drawBar(rec, col, textCol, rect, start, widths[i], label, visible)
		rec.ResetClip()

		nextY := lastVisibleY
		if visible {
			nextY = child.Y
		}
		b.paintSection(rec, depth+1, child, sub, visible && sub.Expanded, nextY)

		if visible && sub.Expanded && len(sub.Subsections) == 0 {
			back := child
			back.Y += barBorder / 2.0
			back.H = barHeight
			rec.SetClip(clip)
			rec.GradientRect(back, gradientTop, gradientBottom)
			rec.ResetClip()
		}

		sub.rect = child
		sub.rect.Y = rect.Y
		sub.rect.H = child.Y - rect.Y
		if !visible {
			sub.rect.H = 0
		}

		start += widths[i]
	}
}

// paintLeaf paints the draws of leaf s as pips, with resource usage or
// pixel history marks along the bottom of rect.
func (b *Bar) paintLeaf(rec *drawlist.Recorder, rect, clip drawlist.Rect, s *Section,
	start, seg float64, visible bool, lastVisibleY float64) {
	back := rect.Span(start, seg)
	back.Y += barBorder / 2.0
	back.H = barHeight

	if visible {
		rec.SetClip(clip)
		rec.GradientRect(back, gradientTop, gradientBottom)
		rec.ResetClip()
	}

	n := len(s.Draws)
	if len(s.pips) != n {
		s.pips = make([]pip, n)
	}

	marks := rect
	marks.Y = rect.Bottom() - pipRadius*4
	marks.H = pipRadius * 2

	// Outlines first so the fills land on top.
	for d := range s.Draws {
		draw := &s.Draws[d]
		switch {
		case b.hasHistory:
			for _, m := range b.history {
				if m.EventID == draw.EventID {
					b.drawPip(rec, drawlist.Black, marks, pipOutline, d, n, start, seg)
				}
			}
		case b.usage != nil:
			for _, u := range b.usage {
				if !u.touches(draw) {
					continue
				}
				kind := pipOutline
				if u.Usage == UsageBarrier {
					kind = pipOutlineQuiet
				}
				b.drawPip(rec, drawlist.Black, marks, kind, d, n, start, seg)
			}
		}
		s.pips[d].used = false
		s.pips[d].visible = visible
	}

	for d := range s.Draws {
		draw := &s.Draws[d]
		switch {
		case b.hasHistory:
			for _, m := range b.history {
				if m.EventID != draw.EventID {
					continue
				}
				if m.Passed() {
					b.drawPip(rec, drawlist.Lime, marks, pipFilled, d, n, start, seg)
					b.markWrite(draw.EventID)
				} else {
					b.drawPip(rec, drawlist.Crimson, marks, pipFilled, d, n, start, seg)
					b.markRead(draw.EventID)
				}
				s.pips[d].used = true
			}
		case b.usage != nil:
			for _, u := range b.usage {
				if !u.touches(draw) {
					continue
				}
				class := Classify(u.Usage)
				switch class {
				case ClassReadWrite:
					b.drawPip(rec, drawlist.Orchid, marks, pipLeftHalf, d, n, start, seg)
					b.drawPip(rec, drawlist.Lime, marks, pipRightHalf, d, n, start, seg)
				case ClassBarrier:
					b.drawPip(rec, class.Color(), marks, pipFilledQuiet, d, n, start, seg)
				default:
					b.drawPip(rec, class.Color(), marks, pipFilled, d, n, start, seg)
				}
				if class.Writes() {
					b.markWrite(draw.EventID)
				} else {
					b.markRead(draw.EventID)
				}
				s.pips[d].used = true
			}
		}
	}

	highlight := -1
	if visible {
		rec.SetClip(clip)
	}
	for d := range s.Draws {
		if s.Draws[d].EventID == b.current {
			highlight = d
		}
		switch {
		case !visible:
			s.pips[d].x = b.drawPip(rec, drawlist.Blue, rect, pipHidden, d, n, start, seg)
		case s.Draws[d].EventID != b.current:
			s.pips[d].x = b.drawPip(rec, drawlist.Blue, rect, pipCircle, d, n, start, seg)
		}
	}

	if highlight >= 0 {
		sub := rect.Span(start, seg)
		sub.X += pipRadius
		sub.W -= pipRadius * 2
		delta := float64(highlight+1) / float64(n+1)
		b.currentMarker = drawlist.Pt(sub.X+delta*math.Max(0, sub.W), lastVisibleY)

		if visible {
			s.pips[highlight].x = b.drawPip(rec, drawlist.LightGreen, rect, pipCircle, highlight, n, start, seg)
		}
	}
	if visible {
		rec.ResetClip()
	}

	s.rect = back
	if !visible {
		s.rect.H = 0
	}
}
