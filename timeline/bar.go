package timeline

import (
	"fmt"
	"math"

	"github.com/gogpu/framedbg"
	"github.com/gogpu/framedbg/drawlist"
	"github.com/gogpu/framedbg/measure"
)

// Bar is the timeline of one loaded frame.
type Bar struct {
	cfg      framedbg.TimelineConfig
	measure  measure.Measurer
	barriers bool

	loaded  bool
	frame   uint32
	root    *Section
	current uint32

	zoom   float64
	scroll float64
	width  float64

	highlightID   ResourceID
	highlightName string
	usage         []EventUsage

	hasHistory bool
	historyTex string
	historyX   int
	historyY   int
	history    []PixelModification

	hover     drawlist.Point
	showHover bool

	currentMarker drawlist.Point
	ranges        []Range
	lastPipX      [3]float64

	failedPaint bool
}

// New creates an empty Bar.
func New(opts ...Option) *Bar {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	m := o.measurer
	if m == nil {
		gt, err := measure.NewGoText(o.cfg.FontSize)
		if err != nil {
			framedbg.Logger().Warn("timeline: font unavailable, measuring in cells", "err", err)
			m = measure.Cells{CellWidth: o.cfg.FontSize * 0.6}
		} else {
			m = gt
		}
	}

	return &Bar{
		cfg:           o.cfg,
		measure:       m,
		barriers:      o.barriers,
		zoom:          1,
		currentMarker: drawlist.Pt(-1, -1),
	}
}

// OnLogLoaded rebuilds the section tree for a newly loaded frame and
// resets zoom.
func (b *Bar) OnLogLoaded(frame uint32, draws []DrawCall) {
	b.loaded = true
	b.frame = frame
	b.root = Gather(draws, b.cfg)
	b.setZoom(1, 0)
	framedbg.Logger().Info("timeline: log loaded",
		"frame", frame, "sections", len(b.root.Subsections))
}

// OnLogClosed drops the section tree and any highlight.
func (b *Bar) OnLogClosed() {
	b.loaded = false
	b.root = nil
	b.current = 0
	b.highlightID = NullResource
	b.highlightName = ""
	b.usage = nil
	b.ClearHistory()
	b.ranges = b.ranges[:0]
	b.setZoom(1, 0)
	framedbg.Logger().Info("timeline: log closed")
}

// OnEventSelected moves the current-event marker.
func (b *Bar) OnEventSelected(eid uint32) {
	b.current = eid
}

// Loaded reports whether a frame is loaded.
func (b *Bar) Loaded() bool { return b.loaded }

// Root returns the section tree, or nil when no frame is loaded.
func (b *Bar) Root() *Section { return b.root }

// CurrentEvent returns the selected event id.
func (b *Bar) CurrentEvent() uint32 { return b.current }

// Title returns the window title for the bar.
func (b *Bar) Title() string {
	if !b.loaded {
		return "Timeline"
	}
	return fmt.Sprintf("Timeline - Frame #%d", b.frame)
}

// HighlightResource marks the events in usage as touching the resource id.
// Pass NullResource to clear.
func (b *Bar) HighlightResource(id ResourceID, name string, usage []EventUsage) {
	b.highlightID = id
	b.highlightName = name
	if id == NullResource {
		b.usage = nil
		return
	}
	b.usage = append([]EventUsage(nil), usage...)
}

// Highlight returns the highlighted resource.
func (b *Bar) Highlight() (ResourceID, string) { return b.highlightID, b.highlightName }

// HighlightHistory shows a pixel history instead of resource usage.
func (b *Bar) HighlightHistory(texture string, x, y int, mods []PixelModification) {
	b.hasHistory = true
	b.historyTex = texture
	b.historyX, b.historyY = x, y
	b.history = append([]PixelModification(nil), mods...)
}

// ClearHistory removes the pixel history highlight.
func (b *Bar) ClearHistory() {
	b.hasHistory = false
	b.historyTex = ""
	b.history = nil
}

// Ranges returns the write-to-read ranges found by the last paint.
func (b *Bar) Ranges() []Range {
	return append([]Range(nil), b.ranges...)
}

// CurrentMarker returns where the last paint placed the current-event
// marker.
func (b *Bar) CurrentMarker() (drawlist.Point, bool) {
	return b.currentMarker, b.currentMarker.X >= 0
}

// Hover moves the hover marker to (x, y).
func (b *Bar) Hover(x, y float64) {
	b.hover = drawlist.Pt(x, y)
	b.showHover = true
}

// Leave hides the hover marker.
func (b *Bar) Leave() {
	b.hover = drawlist.Point{}
	b.showHover = false
}

// Zoom returns the zoom factor, at least 1.
func (b *Bar) Zoom() float64 { return b.zoom }

// Scroll returns the scroll position as a fraction of the zoomed width.
func (b *Bar) Scroll() float64 { return b.scroll }

// SetScroll sets the scroll position, clamped to the zoomed range.
func (b *Bar) SetScroll(pos float64) {
	b.scroll = clampScroll(pos, b.zoom)
}

// Wheel zooms by a wheel delta around client x coordinate x. The point
// under x stays in place.
func (b *Bar) Wheel(delta, x float64) {
	z := math.Log(b.zoom) + delta/b.cfg.ZoomStep
	at := 0.0
	if b.width > 0 {
		at = x / b.width
	}
	b.setZoom(math.Max(1, math.Exp(z)), at)
}

// setZoom changes zoom keeping the fraction at of the client width over
// the same content.
func (b *Bar) setZoom(zoom, at float64) {
	prev := b.scroll + at/b.zoom
	b.zoom = math.Max(1, zoom)
	b.scroll = clampScroll(prev-at/b.zoom, b.zoom)
}

func clampScroll(pos, zoom float64) float64 {
	if zoom <= 1 {
		return 0
	}
	return math.Max(0, math.Min(1-1/zoom, pos))
}
