package replay

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/gogpu/framedbg"
	"github.com/gogpu/framedbg/disasm"
	"github.com/gogpu/framedbg/shaderdbg"
	"github.com/gogpu/framedbg/timeline"
)

var (
	// ErrQueueClosed is returned when submitting to a closed Queue.
	ErrQueueClosed = errors.New("replay: queue closed")

	// ErrStale marks a result from an older generation.
	ErrStale = errors.New("replay: stale result")
)

// Generation identifies the capture a request was made against.
type Generation uint64

// Kind is the type of a request.
type Kind uint8

const (
	KindFunc Kind = iota
	KindDrawCalls
	KindDebug
	KindUsage
	KindPixelHistory
	KindTexture
)

var kindNames = [...]string{"func", "draw-calls", "debug", "usage", "pixel-history", "texture"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Result is the outcome of one request.
type Result struct {
	Gen  Generation
	Kind Kind

	// Value holds Frame, *Debug, *UsageResult, *HistoryResult or Texture
	// depending on Kind.
	Value any
	Err   error

	// Shared is set when a de-duplicated usage query answered more than
	// one request.
	Shared bool

	// Seq is the caller's sequence number of a debug request.
	Seq uint64
}

// Check returns ErrStale if r was made against a generation other than
// current, else r.Err.
func (r Result) Check(current Generation) error {
	if r.Gen != current {
		return fmt.Errorf("%w: %s from generation %d, now %d", ErrStale, r.Kind, r.Gen, current)
	}
	return r.Err
}

// Debug is the value of a KindDebug result.
type Debug struct {
	Request DebugRequest
	Trace   *shaderdbg.Trace
	Listing *disasm.Listing
}

// UsageResult is the value of a KindUsage result.
type UsageResult struct {
	ID    timeline.ResourceID
	Name  string
	Usage []timeline.EventUsage
}

// HistoryResult is the value of a KindPixelHistory result.
type HistoryResult struct {
	Texture Texture
	X, Y    int
	Mods    []timeline.PixelModification
}

type job struct {
	gen   Generation
	kind  Kind
	seq   uint64
	fn    func(ctx context.Context, e Engine) (any, error)
	reply chan Result
}

// Queue serializes engine calls on one worker goroutine.
type Queue struct {
	engine Engine

	jobs    chan job
	results chan Result

	ctx    context.Context
	cancel context.CancelFunc
	group  *errgroup.Group

	usage singleflight.Group
	gen   atomic.Uint64

	mu     sync.RWMutex
	closed bool
}

// NewQueue starts a worker for e. Close stops it.
func NewQueue(e Engine, opts ...Option) *Queue {
	o := queueOptions{depth: DefaultQueueDepth}
	for _, opt := range opts {
		opt(&o)
	}

	ctx, cancel := context.WithCancel(context.Background())
	group, gctx := errgroup.WithContext(ctx)

	q := &Queue{
		engine:  e,
		jobs:    make(chan job, o.depth),
		results: make(chan Result, o.depth),
		ctx:     gctx,
		cancel:  cancel,
		group:   group,
	}
	group.Go(func() error { return q.run(gctx) })
	return q
}

func (q *Queue) run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case j := <-q.jobs:
			v, err := j.fn(ctx, q.engine)
			r := Result{Gen: j.gen, Kind: j.kind, Value: v, Err: err, Seq: j.seq}
			if j.reply != nil {
				j.reply <- r
				continue
			}
			q.deliver(r)
		}
	}
}

func (q *Queue) deliver(r Result) {
	select {
	case q.results <- r:
		framedbg.Logger().Debug("replay: result ready",
			"kind", r.Kind.String(), "generation", uint64(r.Gen), "err", r.Err)
	case <-q.ctx.Done():
	}
}

// Generation returns the current generation.
func (q *Queue) Generation() Generation { return Generation(q.gen.Load()) }

// Advance starts a new generation. Results of requests submitted before
// the call become stale.
func (q *Queue) Advance() Generation { return Generation(q.gen.Add(1)) }

// Results returns the channel results are posted on. It is never closed.
func (q *Queue) Results() <-chan Result { return q.results }

// Drain returns the results posted so far without blocking.
func (q *Queue) Drain() []Result {
	var out []Result
	for {
		select {
		case r := <-q.results:
			out = append(out, r)
		default:
			return out
		}
	}
}

// Submit queues fn under the current generation. Its result is posted as
// KindFunc. ctx bounds the wait for buffer space, not the call itself.
func (q *Queue) Submit(ctx context.Context, fn func(ctx context.Context, e Engine) (any, error)) error {
	return q.enqueue(ctx, job{gen: q.Generation(), kind: KindFunc, fn: fn})
}

func (q *Queue) enqueue(ctx context.Context, j job) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.jobs <- j:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-q.ctx.Done():
		return ErrQueueClosed
	}
}

// DrawCalls requests the frame's draw-call tree.
func (q *Queue) DrawCalls(ctx context.Context) error {
	return q.enqueue(ctx, job{gen: q.Generation(), kind: KindDrawCalls,
		fn: func(ctx context.Context, e Engine) (any, error) {
			return e.DrawCalls(ctx)
		}})
}

// Debug requests a shader trace together with the listing it steps
// through. seq is returned in Result.Seq so the caller can tell which of
// its requests a trace answers.
func (q *Queue) Debug(ctx context.Context, seq uint64, req DebugRequest) error {
	return q.enqueue(ctx, job{gen: q.Generation(), kind: KindDebug, seq: seq,
		fn: func(ctx context.Context, e Engine) (any, error) {
			trace, err := e.DebugTrace(ctx, req)
			if err != nil {
				return nil, err
			}
			if err := trace.Validate(); err != nil {
				return nil, err
			}
			src, err := e.Shader(ctx, req.EventID, req.Stage)
			if err != nil {
				return nil, err
			}
			listing, err := disasm.CompileWGSL(src)
			if err != nil {
				return nil, err
			}
			return &Debug{Request: req, Trace: trace, Listing: listing}, nil
		}})
}

// PixelHistory requests the history of pixel (x, y) of texture tex.
func (q *Queue) PixelHistory(ctx context.Context, tex timeline.ResourceID, x, y int) error {
	return q.enqueue(ctx, job{gen: q.Generation(), kind: KindPixelHistory,
		fn: func(ctx context.Context, e Engine) (any, error) {
			t, err := e.Texture(ctx, tex)
			if err != nil {
				return nil, err
			}
			if !t.Contains(x, y) {
				return nil, fmt.Errorf("replay: pixel (%d, %d) outside %s", x, y, t.Name)
			}
			mods, err := e.PixelHistory(ctx, tex, x, y)
			if err != nil {
				return nil, err
			}
			return &HistoryResult{Texture: t, X: x, Y: y, Mods: mods}, nil
		}})
}

// Texture requests a texture description.
func (q *Queue) Texture(ctx context.Context, id timeline.ResourceID) error {
	return q.enqueue(ctx, job{gen: q.Generation(), kind: KindTexture,
		fn: func(ctx context.Context, e Engine) (any, error) {
			return e.Texture(ctx, id)
		}})
}

// Usage requests the events using resource id. Requests for the same
// resource made while one is in flight share its engine call; each still
// receives a result.
func (q *Queue) Usage(ctx context.Context, id timeline.ResourceID, name string) error {
	q.mu.RLock()
	closed := q.closed
	q.mu.RUnlock()
	if closed {
		return ErrQueueClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	gen := q.Generation()
	key := strconv.FormatUint(uint64(gen), 10) + "/" + strconv.FormatUint(uint64(id), 10)
	ch := q.usage.DoChan(key, func() (any, error) {
		reply := make(chan Result, 1)
		err := q.enqueue(q.ctx, job{gen: gen, kind: KindUsage, reply: reply,
			fn: func(ctx context.Context, e Engine) (any, error) {
				return e.Usage(ctx, id)
			}})
		if err != nil {
			return nil, err
		}
		select {
		case r := <-reply:
			return r.Value, r.Err
		case <-q.ctx.Done():
			return nil, ErrQueueClosed
		}
	})

	go func() {
		res := <-ch
		r := Result{Gen: gen, Kind: KindUsage, Err: res.Err, Shared: res.Shared}
		if res.Err == nil {
			usage, _ := res.Val.([]timeline.EventUsage)
			r.Value = &UsageResult{ID: id, Name: name, Usage: usage}
		}
		q.deliver(r)
	}()
	return nil
}

// Close stops the worker. Pending requests are dropped.
func (q *Queue) Close() error {
	q.cancel()
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	return q.group.Wait()
}
