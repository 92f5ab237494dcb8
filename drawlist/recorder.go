package drawlist

import "image/color"

// Recorder captures drawing operations as commands.
//
// The Recorder is not safe for concurrent use.
type Recorder struct {
	width, height int
	commands      []Command
	clip          *Rect
}

// NewRecorder creates a Recorder for a canvas of the given size.
func NewRecorder(width, height int) *Recorder {
	return &Recorder{
		width:    width,
		height:   height,
		commands: make([]Command, 0, 256),
	}
}

// Width returns the canvas width.
func (r *Recorder) Width() int { return r.width }

// Height returns the canvas height.
func (r *Recorder) Height() int { return r.height }

// Len returns the number of commands recorded so far.
func (r *Recorder) Len() int { return len(r.commands) }

// Finish returns the recorded List. The Recorder should not be used again.
func (r *Recorder) Finish() *List {
	return &List{width: r.width, height: r.height, commands: r.commands}
}

// Clip returns the active clip, if any.
func (r *Recorder) Clip() (Rect, bool) {
	if r.clip == nil {
		return Rect{}, false
	}
	return *r.clip, true
}

// Clear fills the canvas with c.
func (r *Recorder) Clear(c color.NRGBA) {
	r.commands = append(r.commands, ClearCommand{Color: c})
}

// SetClip restricts drawing to rect.
func (r *Recorder) SetClip(rect Rect) {
	r.clip = &rect
	r.commands = append(r.commands, SetClipCommand{Rect: rect})
}

// ResetClip removes the clip. It records nothing if no clip is set.
func (r *Recorder) ResetClip() {
	if r.clip == nil {
		return
	}
	r.clip = nil
	r.commands = append(r.commands, ClearClipCommand{})
}

// FillRect fills rect. Empty rectangles are dropped.
func (r *Recorder) FillRect(rect Rect, c color.NRGBA) {
	if rect.Empty() {
		return
	}
	r.commands = append(r.commands, FillRectCommand{Rect: rect, Color: c})
}

// StrokeRect outlines rect.
func (r *Recorder) StrokeRect(rect Rect, c color.NRGBA, width float64) {
	r.commands = append(r.commands, StrokeRectCommand{Rect: rect, Color: c, Width: width})
}

// GradientRect fills rect with a vertical gradient from top to bottom.
func (r *Recorder) GradientRect(rect Rect, top, bottom color.NRGBA) {
	if rect.Empty() {
		return
	}
	r.commands = append(r.commands, GradientRectCommand{Rect: rect, Top: top, Bottom: bottom})
}

// Line draws a line from a to b.
func (r *Recorder) Line(a, b Point, c color.NRGBA, width float64) {
	r.commands = append(r.commands, LineCommand{From: a, To: b, Color: c, Width: width})
}

// FillPolygon fills the polygon through pts.
func (r *Recorder) FillPolygon(pts []Point, c color.NRGBA) {
	if len(pts) < 3 {
		return
	}
	r.commands = append(r.commands, FillPolygonCommand{Points: append([]Point(nil), pts...), Color: c})
}

// StrokePolygon outlines the polygon through pts.
func (r *Recorder) StrokePolygon(pts []Point, c color.NRGBA, width float64) {
	if len(pts) < 2 {
		return
	}
	r.commands = append(r.commands, StrokePolygonCommand{Points: append([]Point(nil), pts...), Color: c, Width: width})
}

// FillEllipse fills the ellipse inscribed in rect.
func (r *Recorder) FillEllipse(rect Rect, c color.NRGBA) {
	if rect.Empty() {
		return
	}
	r.commands = append(r.commands, FillEllipseCommand{Rect: rect, Color: c})
}

// Text draws s with its top-left corner at (x, y).
func (r *Recorder) Text(s string, x, y, size float64, c color.NRGBA) {
	if s == "" {
		return
	}
	r.commands = append(r.commands, TextCommand{Text: s, X: x, Y: y, Size: size, Color: c})
}

// List is an immutable sequence of recorded commands.
type List struct {
	width, height int
	commands      []Command
}

// Width returns the canvas width.
func (l *List) Width() int { return l.width }

// Height returns the canvas height.
func (l *List) Height() int { return l.height }

// Commands returns the recorded commands.
func (l *List) Commands() []Command { return l.commands }

// Count returns how many commands of type t the list holds.
func (l *List) Count(t CommandType) int {
	n := 0
	for _, c := range l.commands {
		if c.Type() == t {
			n++
		}
	}
	return n
}

// Playback replays the list to backend. If Begin fails nothing is drawn
// and its error is returned.
func (l *List) Playback(backend Backend) error {
	if err := backend.Begin(l.width, l.height); err != nil {
		return err
	}

	for _, cmd := range l.commands {
		switch c := cmd.(type) {
		case ClearCommand:
			backend.Clear(c.Color)
		case SetClipCommand:
			backend.SetClip(c.Rect)
		case ClearClipCommand:
			backend.ClearClip()
		case FillRectCommand:
			backend.FillRect(c.Rect, c.Color)
		case StrokeRectCommand:
			backend.StrokeRect(c.Rect, c.Color, c.Width)
		case GradientRectCommand:
			backend.GradientRect(c.Rect, c.Top, c.Bottom)
		case LineCommand:
			backend.Line(c.From, c.To, c.Color, c.Width)
		case FillPolygonCommand:
			backend.FillPolygon(c.Points, c.Color)
		case StrokePolygonCommand:
			backend.StrokePolygon(c.Points, c.Color, c.Width)
		case FillEllipseCommand:
			backend.FillEllipse(c.Rect, c.Color)
		case TextCommand:
			backend.Text(c.Text, c.X, c.Y, c.Size, c.Color)
		}
	}

	return backend.End()
}
