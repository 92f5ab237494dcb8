package raster

import (
	"bytes"
	"errors"
	"image/color"
	"image/png"
	"testing"

	"github.com/gogpu/framedbg/drawlist"
)

func render(t *testing.T, w, h int, draw func(rec *drawlist.Recorder)) *Backend {
	t.Helper()
	rec := drawlist.NewRecorder(w, h)
	draw(rec)
	b := New()
	if err := rec.Finish().Playback(b); err != nil {
		t.Fatalf("Playback() error = %v", err)
	}
	return b
}

func rgba(b *Backend, x, y int) color.RGBA {
	return b.Image().RGBAAt(x, y)
}

func TestFillRect(t *testing.T) {
	b := render(t, 20, 20, func(rec *drawlist.Recorder) {
		rec.Clear(drawlist.White)
		rec.FillRect(drawlist.R(5, 5, 10, 10), drawlist.Blue)
	})
	if got := rgba(b, 10, 10); got != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("inside = %v, want blue", got)
	}
	if got := rgba(b, 2, 2); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("outside = %v, want white", got)
	}
}

func TestClipLimitsDrawing(t *testing.T) {
	b := render(t, 20, 20, func(rec *drawlist.Recorder) {
		rec.Clear(drawlist.White)
		rec.SetClip(drawlist.R(0, 0, 10, 20))
		rec.FillRect(drawlist.R(0, 0, 20, 20), drawlist.Red)
		rec.ResetClip()
		rec.FillRect(drawlist.R(15, 0, 5, 5), drawlist.Blue)
	})
	if got := rgba(b, 5, 10); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("clipped-in = %v, want red", got)
	}
	if got := rgba(b, 15, 10); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("clipped-out = %v, want white", got)
	}
	if got := rgba(b, 17, 2); got != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("after ResetClip = %v, want blue", got)
	}
}

func TestStrokeRectLeavesInterior(t *testing.T) {
	b := render(t, 20, 20, func(rec *drawlist.Recorder) {
		rec.Clear(drawlist.White)
		rec.StrokeRect(drawlist.R(2, 2, 16, 16), drawlist.Black, 2)
	})
	if got := rgba(b, 10, 10); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("interior = %v, want white", got)
	}
	if got := rgba(b, 2, 10); got != (color.RGBA{A: 255}) {
		t.Errorf("edge = %v, want black", got)
	}
}

func TestEllipseAndGradient(t *testing.T) {
	b := render(t, 40, 20, func(rec *drawlist.Recorder) {
		rec.Clear(drawlist.White)
		rec.FillEllipse(drawlist.R(0, 0, 20, 20), drawlist.Blue)
		rec.GradientRect(drawlist.R(20, 0, 20, 20), drawlist.Black, drawlist.White)
	})
	if got := rgba(b, 10, 10); got != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("ellipse centre = %v, want blue", got)
	}
	if got := rgba(b, 0, 0); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("ellipse corner = %v, want white", got)
	}
	top, bottom := rgba(b, 30, 0), rgba(b, 30, 19)
	if top.R >= bottom.R {
		t.Errorf("gradient top %v not darker than bottom %v", top, bottom)
	}
}

func TestTextDrawsPixels(t *testing.T) {
	b := render(t, 60, 20, func(rec *drawlist.Recorder) {
		rec.Clear(drawlist.White)
		rec.Text("Draw", 2, 2, 12, drawlist.Black)
	})
	img := b.Image()
	dark := 0
	for y := 0; y < 20; y++ {
		for x := 0; x < 60; x++ {
			if img.RGBAAt(x, y).R < 128 {
				dark++
			}
		}
	}
	if dark == 0 {
		t.Error("Text() drew no pixels")
	}
}

func TestBeginTooLarge(t *testing.T) {
	b := New(WithMaxPixels(100))
	err := b.Begin(20, 20)
	if !errors.Is(err, ErrCanvasTooLarge) {
		t.Fatalf("Begin() error = %v, want ErrCanvasTooLarge", err)
	}
	img := b.Image()
	if img.Bounds().Dx() != 1 || img.Bounds().Dy() != 1 {
		t.Errorf("fallback bounds = %v, want 1x1", img.Bounds())
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{A: 255}) {
		t.Errorf("fallback pixel = %v, want black", got)
	}
	// Drawing after a failed Begin must not panic.
	b.FillRect(drawlist.R(0, 0, 5, 5), drawlist.Red)
	b.Text("x", 0, 0, 10, drawlist.Red)
}

func TestWritePNG(t *testing.T) {
	b := render(t, 8, 4, func(rec *drawlist.Recorder) {
		rec.Clear(drawlist.Azure)
	})
	var buf bytes.Buffer
	if err := b.WritePNG(&buf); err != nil {
		t.Fatalf("WritePNG() error = %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if img.Bounds().Dx() != 8 || img.Bounds().Dy() != 4 {
		t.Errorf("decoded bounds = %v", img.Bounds())
	}
}

func TestRegisteredAsRaster(t *testing.T) {
	be, err := drawlist.NewBackend("raster")
	if err != nil {
		t.Fatalf("NewBackend(raster) error = %v", err)
	}
	if _, ok := be.(*Backend); !ok {
		t.Errorf("NewBackend(raster) = %T, want *Backend", be)
	}
}
