package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/gogpu/framedbg"
	"github.com/gogpu/framedbg/disasm"
	"github.com/gogpu/framedbg/replay"
	"github.com/gogpu/framedbg/shaderdbg"
	"github.com/gogpu/framedbg/timeline"
)

// ErrNoEngine is returned by New without WithEngine.
var ErrNoEngine = errors.New("session: no replay engine")

// Controller is a debugging session over one replay engine.
type Controller struct {
	cfg   framedbg.Config
	queue *replay.Queue

	stepper  *shaderdbg.Stepper
	resolver *shaderdbg.Resolver
	watch    shaderdbg.Watch
	bar      *timeline.Bar

	loaded  bool
	frame   replay.Frame
	current uint32

	request replay.DebugRequest
	listing *disasm.Listing

	// debugSeq numbers debug requests; pending is the one whose trace is
	// still wanted, zero when none is.
	debugSeq uint64
	pending  uint64
}

// New creates a Controller and starts its request queue.
func New(opts ...Option) (*Controller, error) {
	o := options{cfg: framedbg.DefaultConfig()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.engine == nil {
		return nil, ErrNoEngine
	}

	barOpts := []timeline.Option{timeline.WithConfig(o.cfg.Timeline)}
	if o.measurer != nil {
		barOpts = append(barOpts, timeline.WithMeasurer(o.measurer))
	}

	stepper := shaderdbg.NewStepper(nil)
	return &Controller{
		cfg:      o.cfg,
		queue:    replay.NewQueue(o.engine, o.queue...),
		stepper:  stepper,
		resolver: shaderdbg.NewResolver(stepper, o.cfg),
		bar:      timeline.New(barOpts...),
	}, nil
}

// Close stops the request queue.
func (c *Controller) Close() error { return c.queue.Close() }

// Config returns the preferences in use.
func (c *Controller) Config() framedbg.Config { return c.cfg }

// Bar returns the timeline.
func (c *Controller) Bar() *timeline.Bar { return c.bar }

// Stepper returns the shader stepper.
func (c *Controller) Stepper() *shaderdbg.Stepper { return c.stepper }

// Resolver returns the register resolver.
func (c *Controller) Resolver() *shaderdbg.Resolver { return c.resolver }

// Generation returns the generation new requests are made under.
func (c *Controller) Generation() replay.Generation { return c.queue.Generation() }

// Loaded reports whether a capture's draw calls have arrived.
func (c *Controller) Loaded() bool { return c.loaded }

// Frame returns the loaded frame.
func (c *Controller) Frame() replay.Frame { return c.frame }

// CurrentEvent returns the selected event id.
func (c *Controller) CurrentEvent() uint32 { return c.current }

// OnLogLoaded starts a new generation and requests the draw-call tree.
// State derived from the previous capture is dropped; the timeline is
// rebuilt when the result is applied.
func (c *Controller) OnLogLoaded(ctx context.Context) error {
	gen := c.queue.Advance()
	c.loaded = false
	c.frame = replay.Frame{}
	c.current = 0
	c.endDebug()
	framedbg.Logger().Info("session: capture opened", "generation", uint64(gen))
	return c.queue.DrawCalls(ctx)
}

// OnLogClosed drops all session state. Results still in flight become
// stale.
func (c *Controller) OnLogClosed() {
	gen := c.queue.Advance()
	c.loaded = false
	c.frame = replay.Frame{}
	c.current = 0
	c.bar.OnLogClosed()
	c.endDebug()
	framedbg.Logger().Info("session: capture closed", "generation", uint64(gen))
}

// OnEventSelected moves the current event.
func (c *Controller) OnEventSelected(eid uint32) {
	c.current = eid
	c.bar.OnEventSelected(eid)
}

// SelectAt selects the draw nearest x on the timeline.
func (c *Controller) SelectAt(x float64) (timeline.DrawCall, bool) {
	d, ok := c.bar.FindDraw(x)
	if ok {
		c.OnEventSelected(d.EventID)
	}
	return d, ok
}

// DebugShader requests a trace of the invocation req describes.
func (c *Controller) DebugShader(ctx context.Context, req replay.DebugRequest) error {
	if !c.loaded {
		return framedbg.ErrNoLog
	}
	c.debugSeq++
	if err := c.queue.Debug(ctx, c.debugSeq, req); err != nil {
		return err
	}
	c.pending = c.debugSeq
	return nil
}

// HighlightResource requests the usage of id for the timeline.
// NullResource clears the highlight immediately.
func (c *Controller) HighlightResource(ctx context.Context, id timeline.ResourceID, name string) error {
	if id == timeline.NullResource {
		c.bar.HighlightResource(timeline.NullResource, "", nil)
		return nil
	}
	if !c.loaded {
		return framedbg.ErrNoLog
	}
	return c.queue.Usage(ctx, id, name)
}

// HighlightHistory requests the history of one pixel for the timeline.
func (c *Controller) HighlightHistory(ctx context.Context, tex timeline.ResourceID, x, y int) error {
	if !c.loaded {
		return framedbg.ErrNoLog
	}
	return c.queue.PixelHistory(ctx, tex, x, y)
}

// ClearHistory removes pixel history from the timeline.
func (c *Controller) ClearHistory() { c.bar.ClearHistory() }

// Pump applies every result that has arrived, without blocking. It
// returns the errors of failed requests joined together.
func (c *Controller) Pump() error {
	var errs []error
	for _, r := range c.queue.Drain() {
		if err := c.apply(r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Wait blocks for the next result and applies it. Stale results are
// dropped and waited past.
func (c *Controller) Wait(ctx context.Context) error {
	for {
		select {
		case r := <-c.queue.Results():
			if r.Gen != c.queue.Generation() {
				c.drop(r)
				continue
			}
			return c.apply(r)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (c *Controller) drop(r replay.Result) {
	framedbg.Logger().Debug("session: dropped stale result",
		"kind", r.Kind.String(), "generation", uint64(r.Gen), "seq", r.Seq)
}

// wanted reports whether r answers the pending debug request.
func (c *Controller) wanted(r replay.Result) bool {
	return c.pending != 0 && r.Seq == c.pending
}

func (c *Controller) apply(r replay.Result) error {
	if err := r.Check(c.queue.Generation()); err != nil {
		if errors.Is(err, replay.ErrStale) {
			c.drop(r)
			return nil
		}
		if r.Kind == replay.KindDebug {
			if !c.wanted(r) {
				c.drop(r)
				return nil
			}
			c.pending = 0
		}
		framedbg.Logger().Warn("session: request failed", "kind", r.Kind.String(), "err", err)
		return fmt.Errorf("session: %s: %w", r.Kind, err)
	}

	switch v := r.Value.(type) {
	case replay.Frame:
		c.loaded = true
		c.frame = v
		c.bar.OnLogLoaded(v.Number, v.Draws)
		if c.current != 0 {
			c.bar.OnEventSelected(c.current)
		}
	case *replay.Debug:
		if !c.wanted(r) {
			c.drop(r)
			return nil
		}
		c.pending = 0
		c.request = v.Request
		c.listing = v.Listing
		c.stepper.Attach(v.Trace)
		framedbg.Logger().Info("session: shader debug started",
			"event", v.Request.EventID, "stage", v.Request.Stage.String(),
			"states", len(v.Trace.States), "instructions", v.Listing.Count())
	case *replay.UsageResult:
		c.bar.HighlightResource(v.ID, v.Name, v.Usage)
	case *replay.HistoryResult:
		c.bar.HighlightHistory(v.Texture.Name, v.X, v.Y, v.Mods)
	default:
		framedbg.Logger().Debug("session: ignored result", "kind", r.Kind.String())
	}
	return nil
}
