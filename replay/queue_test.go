package replay

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/framedbg"
	"github.com/gogpu/framedbg/shaderdbg"
	"github.com/gogpu/framedbg/timeline"
)

const testShader = `
@fragment
fn main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0, 0.0, 0.0, 1.0);
}
`

type fakeEngine struct {
	mu         sync.Mutex
	usageCalls int
	order      []string

	// gate blocks Usage until closed, when set.
	gate chan struct{}
	// started is signalled once Usage is running.
	started chan struct{}
	once    sync.Once
}

func (f *fakeEngine) log(s string) {
	f.mu.Lock()
	f.order = append(f.order, s)
	f.mu.Unlock()
}

func (f *fakeEngine) DrawCalls(context.Context) (Frame, error) {
	f.log("draws")
	return Frame{Number: 3, Draws: []timeline.DrawCall{{EventID: 1, Name: "Draw", Flags: timeline.FlagDrawcall}}}, nil
}

func (f *fakeEngine) DebugTrace(_ context.Context, req DebugRequest) (*shaderdbg.Trace, error) {
	f.log("trace")
	if req.EventID == 0 {
		return &shaderdbg.Trace{}, nil
	}
	return &shaderdbg.Trace{States: []shaderdbg.State{{NextInstruction: 0}, {NextInstruction: 1}}}, nil
}

func (f *fakeEngine) Shader(context.Context, uint32, Stage) (string, error) {
	f.log("shader")
	return testShader, nil
}

func (f *fakeEngine) Usage(ctx context.Context, id timeline.ResourceID) ([]timeline.EventUsage, error) {
	f.mu.Lock()
	f.usageCalls++
	f.mu.Unlock()
	f.log("usage")
	if f.started != nil {
		f.once.Do(func() { close(f.started) })
	}
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return []timeline.EventUsage{{EventID: 1, Usage: timeline.UsageColourTarget}}, nil
}

func (f *fakeEngine) PixelHistory(context.Context, timeline.ResourceID, int, int) ([]timeline.PixelModification, error) {
	f.log("history")
	return []timeline.PixelModification{{EventID: 1}}, nil
}

func (f *fakeEngine) Texture(_ context.Context, id timeline.ResourceID) (Texture, error) {
	f.log("texture")
	if id != 7 {
		return Texture{}, errors.New("no such texture")
	}
	return Texture{ID: 7, Name: "Backbuffer", Format: gputypes.TextureFormatRGBA8Unorm,
		Size: gputypes.Extent3D{Width: 4, Height: 4, DepthOrArrayLayers: 1}}, nil
}

var ctx = context.Background()

func recv(t *testing.T, q *Queue) Result {
	t.Helper()
	select {
	case r := <-q.Results():
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for result")
	}
	return Result{}
}

func TestQueueDrawCalls(t *testing.T) {
	q := NewQueue(&fakeEngine{})
	defer q.Close()

	if err := q.DrawCalls(ctx); err != nil {
		t.Fatalf("DrawCalls() error = %v", err)
	}
	r := recv(t, q)
	if r.Kind != KindDrawCalls {
		t.Errorf("Kind = %v, want %v", r.Kind, KindDrawCalls)
	}
	if err := r.Check(q.Generation()); err != nil {
		t.Fatalf("Check() = %v", err)
	}
	f, ok := r.Value.(Frame)
	if !ok || f.Number != 3 || len(f.Draws) != 1 {
		t.Errorf("Value = %#v, want frame 3 with one draw", r.Value)
	}
}

func TestQueueOrder(t *testing.T) {
	e := &fakeEngine{}
	q := NewQueue(e)
	defer q.Close()

	_ = q.DrawCalls(ctx)
	_ = q.Texture(ctx, 7)
	_ = q.PixelHistory(ctx, 7, 1, 1)
	for i := 0; i < 3; i++ {
		recv(t, q)
	}

	want := []string{"draws", "texture", "texture", "history"}
	e.mu.Lock()
	defer e.mu.Unlock()
	if diff := cmp.Diff(want, e.order); diff != "" {
		t.Errorf("engine call order mismatch (-want +got):\n%s", diff)
	}
}

func TestQueueStale(t *testing.T) {
	q := NewQueue(&fakeEngine{})
	defer q.Close()

	g0 := q.Generation()
	_ = q.DrawCalls(ctx)
	g1 := q.Advance()
	if g1 == g0 {
		t.Fatalf("Advance() = %d, want a new generation", g1)
	}

	r := recv(t, q)
	if r.Gen != g0 {
		t.Errorf("Gen = %d, want %d", r.Gen, g0)
	}
	if err := r.Check(q.Generation()); !errors.Is(err, ErrStale) {
		t.Errorf("Check() = %v, want ErrStale", err)
	}
}

func TestQueueDebug(t *testing.T) {
	q := NewQueue(&fakeEngine{})
	defer q.Close()

	_ = q.Debug(ctx, 7, DebugRequest{EventID: 1, Stage: StagePixel, X: 2, Y: 2})
	r := recv(t, q)
	if err := r.Check(q.Generation()); err != nil {
		t.Fatalf("Check() = %v", err)
	}
	d, ok := r.Value.(*Debug)
	if !ok {
		t.Fatalf("Value = %T, want *Debug", r.Value)
	}
	if len(d.Trace.States) != 2 {
		t.Errorf("len(States) = %d, want 2", len(d.Trace.States))
	}
	if d.Listing == nil || d.Listing.Count() == 0 {
		t.Errorf("Listing has no numbered instructions")
	}
	if r.Seq != 7 {
		t.Errorf("Seq = %d, want 7", r.Seq)
	}
	if d.Request.X != 2 {
		t.Errorf("Request.X = %d, want 2", d.Request.X)
	}
}

func TestQueueDebugEmptyTrace(t *testing.T) {
	q := NewQueue(&fakeEngine{})
	defer q.Close()

	_ = q.Debug(ctx, 3, DebugRequest{EventID: 0})
	r := recv(t, q)
	if r.Seq != 3 {
		t.Errorf("Seq = %d, want 3", r.Seq)
	}
	if !errors.Is(r.Err, framedbg.ErrEmptyTrace) {
		t.Errorf("Err = %v, want ErrEmptyTrace", r.Err)
	}
}

func TestQueuePixelHistory(t *testing.T) {
	tests := []struct {
		name    string
		tex     timeline.ResourceID
		x, y    int
		wantErr bool
	}{
		{"inside", 7, 3, 0, false},
		{"outside", 7, 4, 0, true},
		{"negative", 7, -1, 0, true},
		{"unknown texture", 9, 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewQueue(&fakeEngine{})
			defer q.Close()

			_ = q.PixelHistory(ctx, tt.tex, tt.x, tt.y)
			r := recv(t, q)
			if (r.Err != nil) != tt.wantErr {
				t.Fatalf("Err = %v, wantErr %v", r.Err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			h := r.Value.(*HistoryResult)
			if h.Texture.Name != "Backbuffer" || len(h.Mods) != 1 {
				t.Errorf("Value = %+v", h)
			}
		})
	}
}

func TestQueueUsageShared(t *testing.T) {
	e := &fakeEngine{gate: make(chan struct{}), started: make(chan struct{})}
	q := NewQueue(e)
	defer q.Close()

	if err := q.Usage(ctx, 5, "Albedo"); err != nil {
		t.Fatalf("Usage() error = %v", err)
	}
	<-e.started
	if err := q.Usage(ctx, 5, "Albedo"); err != nil {
		t.Fatalf("Usage() error = %v", err)
	}
	close(e.gate)

	for i := 0; i < 2; i++ {
		r := recv(t, q)
		if r.Kind != KindUsage || r.Err != nil {
			t.Fatalf("result %d = %+v", i, r)
		}
		u := r.Value.(*UsageResult)
		if u.ID != 5 || u.Name != "Albedo" || len(u.Usage) != 1 {
			t.Errorf("result %d value = %+v", i, u)
		}
		if !r.Shared {
			t.Errorf("result %d Shared = false, want true", i)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.usageCalls != 1 {
		t.Errorf("engine Usage calls = %d, want 1", e.usageCalls)
	}
}

func TestQueueSubmit(t *testing.T) {
	q := NewQueue(&fakeEngine{}, WithQueueDepth(1))
	defer q.Close()

	var ran atomic.Bool
	err := q.Submit(ctx, func(ctx context.Context, e Engine) (any, error) {
		ran.Store(true)
		return 42, nil
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	r := recv(t, q)
	if r.Kind != KindFunc || r.Value != 42 || !ran.Load() {
		t.Errorf("result = %+v", r)
	}
}

func TestQueueDrain(t *testing.T) {
	q := NewQueue(&fakeEngine{})
	defer q.Close()

	if got := q.Drain(); len(got) != 0 {
		t.Errorf("Drain() on idle queue = %d results, want 0", len(got))
	}

	done := make(chan struct{})
	_ = q.DrawCalls(ctx)
	_ = q.Submit(ctx, func(context.Context, Engine) (any, error) {
		close(done)
		return nil, nil
	})
	<-done

	deadline := time.Now().Add(5 * time.Second)
	var got []Result
	for len(got) < 2 && time.Now().Before(deadline) {
		got = append(got, q.Drain()...)
		time.Sleep(time.Millisecond)
	}
	if len(got) != 2 {
		t.Fatalf("Drain() = %d results, want 2", len(got))
	}
	if got[0].Kind != KindDrawCalls || got[1].Kind != KindFunc {
		t.Errorf("Drain() kinds = %v, %v", got[0].Kind, got[1].Kind)
	}
}

func TestQueueClose(t *testing.T) {
	e := &fakeEngine{gate: make(chan struct{}), started: make(chan struct{})}
	q := NewQueue(e)

	_ = q.Usage(ctx, 1, "x")
	<-e.started
	if err := q.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
	if err := q.DrawCalls(ctx); !errors.Is(err, ErrQueueClosed) {
		t.Errorf("DrawCalls() after Close = %v, want ErrQueueClosed", err)
	}
	if err := q.Usage(ctx, 1, "x"); !errors.Is(err, ErrQueueClosed) {
		t.Errorf("Usage() after Close = %v, want ErrQueueClosed", err)
	}
}

func TestParseStage(t *testing.T) {
	tests := []struct {
		in      string
		want    Stage
		wantErr bool
	}{
		{"vertex", StageVertex, false},
		{"Pixel", StagePixel, false},
		{"fragment", StagePixel, false},
		{"compute", StageCompute, false},
		{"geometry", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseStage(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseStage(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseStage(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if s := Stage(9).String(); s != "Stage(9)" {
		t.Errorf("Stage(9).String() = %q", s)
	}
}
