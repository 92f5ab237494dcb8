package timeline

import (
	"fmt"
	"image/color"
	"strings"
)

// DrawFlags describe what a draw call is.
type DrawFlags uint32

const (
	FlagClear DrawFlags = 1 << iota
	FlagDrawcall
	FlagDispatch
	FlagCmdList
	FlagSetMarker
	FlagPushMarker
	FlagPopMarker
	FlagPresent
	FlagMultiDraw
	FlagCopy
	FlagResolve
	FlagGenMips
	FlagAPICalls
)

var flagNames = []struct {
	flag DrawFlags
	name string
}{
	{FlagClear, "clear"},
	{FlagDrawcall, "drawcall"},
	{FlagDispatch, "dispatch"},
	{FlagCmdList, "cmd_list"},
	{FlagSetMarker, "set_marker"},
	{FlagPushMarker, "push_marker"},
	{FlagPopMarker, "pop_marker"},
	{FlagPresent, "present"},
	{FlagMultiDraw, "multi_draw"},
	{FlagCopy, "copy"},
	{FlagResolve, "resolve"},
	{FlagGenMips, "gen_mips"},
	{FlagAPICalls, "api_calls"},
}

// String returns the flag names joined with "|".
func (f DrawFlags) String() string {
	if f == 0 {
		return "none"
	}
	var parts []string
	for _, fn := range flagNames {
		if f&fn.flag != 0 {
			parts = append(parts, fn.name)
			f &^= fn.flag
		}
	}
	if f != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", uint32(f)))
	}
	return strings.Join(parts, "|")
}

// ParseDrawFlags combines flag names as printed by DrawFlags.String.
func ParseDrawFlags(names []string) (DrawFlags, error) {
	var f DrawFlags
next:
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		for _, fn := range flagNames {
			if fn.name == n {
				f |= fn.flag
				continue next
			}
		}
		return 0, fmt.Errorf("timeline: unknown draw flag %q", n)
	}
	return f, nil
}

// APIEvent is one API call recorded against a draw call.
type APIEvent struct {
	EventID     uint32
	Description string
}

// DrawCall is a node of the frame's draw-call tree.
type DrawCall struct {
	EventID uint32
	Name    string
	Flags   DrawFlags

	// MarkerColor is the colour of a marker region. Alpha 0 means none.
	MarkerColor color.NRGBA

	Children []DrawCall
	Events   []APIEvent
}

// Has reports whether all bits of f are set.
func (d *DrawCall) Has(f DrawFlags) bool { return d.Flags&f == f }

// Any reports whether any bit of f is set.
func (d *DrawCall) Any(f DrawFlags) bool { return d.Flags&f != 0 }

// TextColor picks a label colour readable on MarkerColor. def is returned
// when the draw carries no marker colour or def already contrasts.
func (d *DrawCall) TextColor(def color.NRGBA) color.NRGBA {
	if d.MarkerColor.A == 0 {
		return def
	}
	backDark := luminance(d.MarkerColor) < 0.5
	textDark := luminance(def) < 0.5
	if backDark != textDark {
		return def
	}
	if backDark {
		return color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	}
	return color.NRGBA{A: 255}
}

// luminance returns the Rec. 709 relative luminance of c in [0, 1].
func luminance(c color.NRGBA) float64 {
	return (0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)) / 255
}

// Visit calls fn for every draw in the tree in depth-first order.
func Visit(draws []DrawCall, fn func(d *DrawCall)) {
	for i := range draws {
		fn(&draws[i])
		Visit(draws[i].Children, fn)
	}
}

// FindEvent returns the draw with the given event id.
func FindEvent(draws []DrawCall, eid uint32) (*DrawCall, bool) {
	var found *DrawCall
	Visit(draws, func(d *DrawCall) {
		if found == nil && d.EventID == eid {
			found = d
		}
	})
	return found, found != nil
}
