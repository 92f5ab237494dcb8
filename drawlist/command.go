package drawlist

import "image/color"

// CommandType identifies the type of a command.
type CommandType uint8

const (
	CmdClear CommandType = iota
	CmdSetClip
	CmdClearClip
	CmdFillRect
	CmdStrokeRect
	CmdGradientRect
	CmdLine
	CmdFillPolygon
	CmdStrokePolygon
	CmdFillEllipse
	CmdText
)

var commandTypeNames = [...]string{
	CmdClear:         "Clear",
	CmdSetClip:       "SetClip",
	CmdClearClip:     "ClearClip",
	CmdFillRect:      "FillRect",
	CmdStrokeRect:    "StrokeRect",
	CmdGradientRect:  "GradientRect",
	CmdLine:          "Line",
	CmdFillPolygon:   "FillPolygon",
	CmdStrokePolygon: "StrokePolygon",
	CmdFillEllipse:   "FillEllipse",
	CmdText:          "Text",
}

// String returns the string representation of a CommandType.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// Command is implemented by all command types.
type Command interface {
	Type() CommandType
}

// ClearCommand fills the whole canvas, ignoring the clip.
type ClearCommand struct {
	Color color.NRGBA
}

func (ClearCommand) Type() CommandType { return CmdClear }

// SetClipCommand restricts drawing to Rect until the next clip command.
type SetClipCommand struct {
	Rect Rect
}

func (SetClipCommand) Type() CommandType { return CmdSetClip }

// ClearClipCommand removes the clip.
type ClearClipCommand struct{}

func (ClearClipCommand) Type() CommandType { return CmdClearClip }

// FillRectCommand fills a rectangle.
type FillRectCommand struct {
	Rect  Rect
	Color color.NRGBA
}

func (FillRectCommand) Type() CommandType { return CmdFillRect }

// StrokeRectCommand outlines a rectangle.
type StrokeRectCommand struct {
	Rect  Rect
	Color color.NRGBA
	Width float64
}

func (StrokeRectCommand) Type() CommandType { return CmdStrokeRect }

// GradientRectCommand fills a rectangle with a vertical gradient.
type GradientRectCommand struct {
	Rect   Rect
	Top    color.NRGBA
	Bottom color.NRGBA
}

func (GradientRectCommand) Type() CommandType { return CmdGradientRect }

// LineCommand draws a straight line.
type LineCommand struct {
	From, To Point
	Color    color.NRGBA
	Width    float64
}

func (LineCommand) Type() CommandType { return CmdLine }

// FillPolygonCommand fills a closed polygon.
type FillPolygonCommand struct {
	Points []Point
	Color  color.NRGBA
}

func (FillPolygonCommand) Type() CommandType { return CmdFillPolygon }

// StrokePolygonCommand outlines a closed polygon.
type StrokePolygonCommand struct {
	Points []Point
	Color  color.NRGBA
	Width  float64
}

func (StrokePolygonCommand) Type() CommandType { return CmdStrokePolygon }

// FillEllipseCommand fills the ellipse inscribed in Rect.
type FillEllipseCommand struct {
	Rect  Rect
	Color color.NRGBA
}

func (FillEllipseCommand) Type() CommandType { return CmdFillEllipse }

// TextCommand draws a single line of text with its top-left corner at
// (X, Y).
type TextCommand struct {
	Text  string
	X, Y  float64
	Size  float64
	Color color.NRGBA
}

func (TextCommand) Type() CommandType { return CmdText }
