package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/gogpu/framedbg/drawlist"
	"github.com/gogpu/framedbg/internal/cache"
)

// maxFaces bounds the number of font sizes kept open per backend.
const maxFaces = 16

// ErrCanvasTooLarge is returned by Begin when the requested canvas cannot
// be allocated. The backend then holds a 1x1 black image.
var ErrCanvasTooLarge = errors.New("raster: canvas too large")

func init() {
	drawlist.Register("raster", func() drawlist.Backend { return New() })
}

var (
	monoOnce sync.Once
	monoFont *opentype.Font
	monoErr  error
)

func parseMono() (*opentype.Font, error) {
	monoOnce.Do(func() {
		monoFont, monoErr = opentype.Parse(gomono.TTF)
	})
	return monoFont, monoErr
}

// Backend rasterizes a drawlist.List into an *image.RGBA.
//
// Shapes are rendered with golang.org/x/image/vector into a canvas-sized
// coverage mask which is then composited through the active clip.
type Backend struct {
	opts options

	img  *image.RGBA
	mask *image.Alpha
	clip image.Rectangle
	rast vector.Rasterizer

	faces *cache.LRU[float64, font.Face]
}

// New creates a raster backend.
func New(opts ...Option) *Backend {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Backend{
		opts:  o,
		img:   image.NewRGBA(image.Rect(0, 0, 1, 1)),
		faces: cache.NewLRU[float64, font.Face](maxFaces),
	}
}

// Image returns the rendered image.
func (b *Backend) Image() *image.RGBA { return b.img }

// WritePNG encodes the rendered image as PNG.
func (b *Backend) WritePNG(w io.Writer) error {
	return png.Encode(w, b.img)
}

// SavePNG writes the rendered image to path.
func (b *Backend) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("raster: %w", err)
	}
	if err := b.WritePNG(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("raster: encode %s: %w", path, err)
	}
	return f.Close()
}

// Begin allocates a fresh canvas.
func (b *Backend) Begin(width, height int) error {
	if width <= 0 || height <= 0 || width > b.opts.maxPixels/height {
		b.img = image.NewRGBA(image.Rect(0, 0, 1, 1))
		b.img.Set(0, 0, color.Black)
		b.mask = nil
		b.clip = image.Rectangle{}
		return fmt.Errorf("%w: %dx%d", ErrCanvasTooLarge, width, height)
	}
	bounds := image.Rect(0, 0, width, height)
	b.img = image.NewRGBA(bounds)
	b.mask = image.NewAlpha(bounds)
	b.clip = bounds
	return nil
}

// End finishes the frame.
func (b *Backend) End() error { return nil }

// Clear fills the whole canvas, ignoring the clip.
func (b *Backend) Clear(c color.NRGBA) {
	draw.Draw(b.img, b.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// SetClip restricts drawing to the pixels covered by r.
func (b *Backend) SetClip(r drawlist.Rect) {
	b.clip = pixelRect(r).Intersect(b.img.Bounds())
}

// ClearClip restores the full canvas as drawing area.
func (b *Backend) ClearClip() {
	b.clip = b.img.Bounds()
}

// FillRect fills r.
func (b *Backend) FillRect(r drawlist.Rect, c color.NRGBA) {
	b.fill(c, func(z *vector.Rasterizer) {
		rectPath(z, r, false)
	})
}

// StrokeRect outlines r with a stroke centred on its edges.
func (b *Backend) StrokeRect(r drawlist.Rect, c color.NRGBA, width float64) {
	if width <= 0 {
		width = 1
	}
	outer := r.Inset(-width / 2)
	inner := r.Inset(width / 2)
	b.fill(c, func(z *vector.Rasterizer) {
		rectPath(z, outer, false)
		if !inner.Empty() {
			rectPath(z, inner, true)
		}
	})
}

// GradientRect fills r with a vertical gradient.
func (b *Backend) GradientRect(r drawlist.Rect, top, bottom color.NRGBA) {
	area := pixelRect(r).Intersect(b.clip)
	if area.Empty() {
		return
	}
	for y := area.Min.Y; y < area.Max.Y; y++ {
		t := 0.0
		if r.H > 1 {
			t = (float64(y) + 0.5 - r.Y) / r.H
		}
		row := image.Rect(area.Min.X, y, area.Max.X, y+1)
		draw.Draw(b.img, row, image.NewUniform(lerp(top, bottom, t)), image.Point{}, draw.Over)
	}
}

// Line strokes the segment from p to q.
func (b *Backend) Line(p, q drawlist.Point, c color.NRGBA, width float64) {
	b.fill(c, func(z *vector.Rasterizer) {
		segmentPath(z, p, q, width)
	})
}

// FillPolygon fills the polygon through pts.
func (b *Backend) FillPolygon(pts []drawlist.Point, c color.NRGBA) {
	if len(pts) < 3 {
		return
	}
	b.fill(c, func(z *vector.Rasterizer) {
		z.MoveTo(float32(pts[0].X), float32(pts[0].Y))
		for _, p := range pts[1:] {
			z.LineTo(float32(p.X), float32(p.Y))
		}
		z.ClosePath()
	})
}

// StrokePolygon outlines the closed polygon through pts.
func (b *Backend) StrokePolygon(pts []drawlist.Point, c color.NRGBA, width float64) {
	if len(pts) < 2 {
		return
	}
	b.fill(c, func(z *vector.Rasterizer) {
		for i, p := range pts {
			segmentPath(z, p, pts[(i+1)%len(pts)], width)
		}
	})
}

// kappa places cubic control points for a quarter ellipse.
const kappa = 0.5522847498

// FillEllipse fills the ellipse inscribed in r.
func (b *Backend) FillEllipse(r drawlist.Rect, c color.NRGBA) {
	if r.Empty() {
		return
	}
	cx, cy := float32(r.X+r.W/2), float32(r.Y+r.H/2)
	rx, ry := float32(r.W/2), float32(r.H/2)
	kx, ky := rx*kappa, ry*kappa
	b.fill(c, func(z *vector.Rasterizer) {
		z.MoveTo(cx+rx, cy)
		z.CubeTo(cx+rx, cy+ky, cx+kx, cy+ry, cx, cy+ry)
		z.CubeTo(cx-kx, cy+ry, cx-rx, cy+ky, cx-rx, cy)
		z.CubeTo(cx-rx, cy-ky, cx-kx, cy-ry, cx, cy-ry)
		z.CubeTo(cx+kx, cy-ry, cx+rx, cy-ky, cx+rx, cy)
		z.ClosePath()
	})
}

// Text draws s in Go Mono with its top-left corner at (x, y).
func (b *Backend) Text(s string, x, y, size float64, c color.NRGBA) {
	if s == "" || b.clip.Empty() {
		return
	}
	face, err := b.face(size)
	if err != nil {
		return
	}
	dst, ok := b.img.SubImage(b.clip).(*image.RGBA)
	if !ok {
		return
	}
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y*64) + face.Metrics().Ascent},
	}
	d.DrawString(s)
}

func (b *Backend) face(size float64) (font.Face, error) {
	if size <= 0 {
		size = b.opts.fontSize
	}
	if f, ok := b.faces.Get(size); ok {
		return f, nil
	}
	mono, err := parseMono()
	if err != nil {
		return nil, err
	}
	f, err := opentype.NewFace(mono, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	b.faces.Add(size, f)
	return f, nil
}

// fill rasterizes the path built by build into the coverage mask and
// composites c through it within the clip.
func (b *Backend) fill(c color.NRGBA, build func(z *vector.Rasterizer)) {
	if b.mask == nil || b.clip.Empty() || c.A == 0 {
		return
	}
	bounds := b.img.Bounds()
	b.rast.Reset(bounds.Dx(), bounds.Dy())
	b.rast.DrawOp = draw.Src
	build(&b.rast)
	b.rast.Draw(b.mask, bounds, image.Opaque, image.Point{})
	draw.DrawMask(b.img, b.clip, image.NewUniform(c), image.Point{}, b.mask, b.clip.Min, draw.Over)
}

func rectPath(z *vector.Rasterizer, r drawlist.Rect, reverse bool) {
	x0, y0 := float32(r.X), float32(r.Y)
	x1, y1 := float32(r.Right()), float32(r.Bottom())
	z.MoveTo(x0, y0)
	if reverse {
		z.LineTo(x0, y1)
		z.LineTo(x1, y1)
		z.LineTo(x1, y0)
	} else {
		z.LineTo(x1, y0)
		z.LineTo(x1, y1)
		z.LineTo(x0, y1)
	}
	z.ClosePath()
}

// segmentPath adds a quad covering the segment p-q. All quads share the
// same winding so overlapping segments do not cancel.
func segmentPath(z *vector.Rasterizer, p, q drawlist.Point, width float64) {
	if width <= 0 {
		width = 1
	}
	dx, dy := q.X-p.X, q.Y-p.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return
	}
	nx, ny := -dy/l*width/2, dx/l*width/2
	z.MoveTo(float32(p.X+nx), float32(p.Y+ny))
	z.LineTo(float32(q.X+nx), float32(q.Y+ny))
	z.LineTo(float32(q.X-nx), float32(q.Y-ny))
	z.LineTo(float32(p.X-nx), float32(p.Y-ny))
	z.ClosePath()
}

func pixelRect(r drawlist.Rect) image.Rectangle {
	return image.Rect(
		int(math.Floor(r.X)), int(math.Floor(r.Y)),
		int(math.Ceil(r.Right())), int(math.Ceil(r.Bottom())),
	)
}

func lerp(a, b color.NRGBA, t float64) color.NRGBA {
	t = math.Max(0, math.Min(1, t))
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return color.NRGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}
