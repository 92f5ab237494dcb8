package static

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/framedbg/drawlist"
	"github.com/gogpu/framedbg/replay"
	"github.com/gogpu/framedbg/timeline"
)

func loadFixture(t *testing.T) *Engine {
	t.Helper()
	e, err := Load("testdata/frame.yaml")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return e
}

func TestLoadDraws(t *testing.T) {
	e := loadFixture(t)
	f, err := e.DrawCalls(context.Background())
	if err != nil {
		t.Fatalf("DrawCalls() error = %v", err)
	}
	if f.Number != 12 {
		t.Errorf("Number = %d, want 12", f.Number)
	}
	if len(f.Draws) != 6 {
		t.Fatalf("len(Draws) = %d, want 6", len(f.Draws))
	}

	shadow := f.Draws[1]
	if !shadow.Has(timeline.FlagPushMarker) {
		t.Errorf("Flags = %v, want push_marker", shadow.Flags)
	}
	if want, _ := drawlist.ParseHex("#3c78d8"); shadow.MarkerColor != want {
		t.Errorf("MarkerColor = %v, want %v", shadow.MarkerColor, want)
	}
	if len(shadow.Children) != 3 {
		t.Fatalf("len(Children) = %d, want 3", len(shadow.Children))
	}
	if ev := shadow.Children[0].Events; len(ev) != 2 || ev[0].Description != "SetPipeline(shadow)" {
		t.Errorf("Events = %+v", ev)
	}

	d, ok := timeline.FindEvent(f.Draws, 4)
	if !ok || d.Name != "DrawIndexed(1536)" {
		t.Errorf("FindEvent(4) = %+v, %v", d, ok)
	}
}

func TestUsage(t *testing.T) {
	e := loadFixture(t)
	got, err := e.Usage(context.Background(), 7)
	if err != nil {
		t.Fatalf("Usage() error = %v", err)
	}
	want := []timeline.EventUsage{
		{EventID: 1, Usage: timeline.UsageClear},
		{EventID: 6, Usage: timeline.UsageColourTarget},
		{EventID: 8, Usage: timeline.UsageCSResource},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Usage() mismatch (-want +got):\n%s", diff)
	}

	none, err := e.Usage(context.Background(), 99)
	if err != nil || len(none) != 0 {
		t.Errorf("Usage(99) = %v, %v, want empty", none, err)
	}
}

func TestTextures(t *testing.T) {
	e := loadFixture(t)
	tex, err := e.Texture(context.Background(), 9)
	if err != nil {
		t.Fatalf("Texture() error = %v", err)
	}
	if tex.Format != gputypes.TextureFormatDepth24PlusStencil8 {
		t.Errorf("Format = %v, want depth24plus-stencil8", tex.Format)
	}
	if tex.Size.Width != 64 || tex.Size.Height != 32 || tex.Size.DepthOrArrayLayers != 1 {
		t.Errorf("Size = %+v", tex.Size)
	}
	if _, err := e.Texture(context.Background(), 1); !errors.Is(err, ErrNoTexture) {
		t.Errorf("Texture(1) error = %v, want ErrNoTexture", err)
	}
	if got, ok := e.TextureByName("Albedo"); !ok || got.ID != 5 {
		t.Errorf("TextureByName(Albedo) = %+v, %v", got, ok)
	}
}

func TestPixelHistory(t *testing.T) {
	e := loadFixture(t)
	mods, err := e.PixelHistory(context.Background(), 7, 10, 4)
	if err != nil {
		t.Fatalf("PixelHistory() error = %v", err)
	}
	if len(mods) != 3 {
		t.Fatalf("len(mods) = %d, want 3", len(mods))
	}
	if !mods[0].Passed() || mods[1].Passed() || !mods[1].DepthTestFailed || !mods[2].Passed() {
		t.Errorf("pass flags = %v %v %v", mods[0].Passed(), mods[1].Passed(), mods[2].Passed())
	}
	if mods[2].PostMod.Color[0] != 1 || mods[2].PostMod.Depth != 0.25 || mods[2].PostMod.Stencil != 1 {
		t.Errorf("PostMod = %+v", mods[2].PostMod)
	}

	if got, err := e.PixelHistory(context.Background(), 7, 0, 0); err != nil || len(got) != 0 {
		t.Errorf("PixelHistory(untouched) = %v, %v", got, err)
	}
	if _, err := e.PixelHistory(context.Background(), 3, 0, 0); !errors.Is(err, ErrNoTexture) {
		t.Errorf("PixelHistory(unknown) error = %v, want ErrNoTexture", err)
	}
}

func TestDebugTrace(t *testing.T) {
	e := loadFixture(t)
	ctx := context.Background()

	tr, err := e.DebugTrace(ctx, replay.DebugRequest{EventID: 6, Stage: replay.StagePixel})
	if err != nil {
		t.Fatalf("DebugTrace() error = %v", err)
	}
	if len(tr.States) != 4 {
		t.Fatalf("len(States) = %d, want 4", len(tr.States))
	}
	if got := tr.Inputs[0].Value.F(1); got != 0.25 {
		t.Errorf("v0.y = %v, want 0.25", got)
	}
	if tr.CBuffers[0].Name != "Params" || tr.CBuffers[0].Variables[0].Value.F(1) != 0.5 {
		t.Errorf("CBuffers = %+v", tr.CBuffers)
	}
	r1 := tr.States[2].Registers[1]
	if r1.Value.I(0) != -3 || r1.Value.I(2) != 16 {
		t.Errorf("r1 = %d %d, want -3 16", r1.Value.I(0), r1.Value.I(2))
	}
	if r1.Columns != 4 || r1.Rows != 1 {
		t.Errorf("r1 shape = %dx%d, want 1x4", r1.Rows, r1.Columns)
	}
	if len(tr.States[2].IndexableTemps) != 1 || tr.States[2].IndexableTemps[0][1].Value.U(3) != 8 {
		t.Errorf("IndexableTemps = %+v", tr.States[2].IndexableTemps)
	}

	if _, err := e.DebugTrace(ctx, replay.DebugRequest{EventID: 8, Stage: replay.StageCompute}); !errors.Is(err, ErrNoShader) {
		t.Errorf("DebugTrace(no trace) error = %v, want ErrNoShader", err)
	}
	if _, err := e.Shader(ctx, 6, replay.StageVertex); !errors.Is(err, ErrNoShader) {
		t.Errorf("Shader(wrong stage) error = %v, want ErrNoShader", err)
	}
	if src, err := e.Shader(ctx, 8, replay.StageCompute); err != nil || src == "" {
		t.Errorf("Shader(8) = %q, %v", src, err)
	}
}

func TestCanceledContext(t *testing.T) {
	e := loadFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := e.DrawCalls(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("DrawCalls() error = %v, want context.Canceled", err)
	}
}

func TestConvertVar(t *testing.T) {
	tests := []struct {
		name    string
		in      varDoc
		wantErr bool
	}{
		{name: "double", in: varDoc{Name: "d", Type: "double", Value: []string{"1.5", "-2"}}},
		{name: "bad type", in: varDoc{Name: "b", Type: "half", Value: []string{"1"}}, wantErr: true},
		{name: "bad value", in: varDoc{Name: "b", Value: []string{"one"}}, wantErr: true},
		{name: "too wide", in: varDoc{Name: "b", Type: "double", Value: make([]string, 9)}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := convertVar(tt.in)
			if (err != nil) != tt.wantErr {
				t.Errorf("convertVar() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	v, err := convertVar(varDoc{Name: "d", Type: "double", Value: []string{"1.5", "-2"}})
	if err != nil {
		t.Fatal(err)
	}
	if v.Value.D(0) != 1.5 || v.Value.D(1) != -2 {
		t.Errorf("D() = %v %v, want 1.5 -2", v.Value.D(0), v.Value.D(1))
	}

	m, err := convertVar(varDoc{Name: "m", Rows: 2, Value: []string{"1", "2", "3", "4"}})
	if err != nil {
		t.Fatal(err)
	}
	if m.Rows != 2 || m.Columns != 2 || m.Value.Lanes[3] != math.Float32bits(4) {
		t.Errorf("matrix = %+v", m)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"yaml", "draws: ["},
		{"flag", "draws: [{eid: 1, flags: [bogus]}]"},
		{"colour", "draws: [{eid: 1, flags: [push_marker], color: nope}]"},
		{"usage", "usage: {1: [{eid: 1, usage: Sideways}]}"},
		{"format", "textures: [{id: 1, name: t, format: astc}]"},
		{"stage", "shaders: [{eid: 1, stage: geometry}]"},
		{"test", "history: [{texture: 1, mods: [{eid: 1, failed: [bad_luck]}]}]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.doc)); err == nil {
				t.Error("Parse() error = nil")
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load("testdata/missing.yaml"); err == nil {
		t.Error("Load(missing) error = nil")
	}
}
