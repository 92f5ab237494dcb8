// Command fdbg renders the timeline of a captured frame and drives a
// scripted shader debugging session against it.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/gogpu/framedbg"
	"github.com/gogpu/framedbg/drawlist"
	_ "github.com/gogpu/framedbg/drawlist/raster"
	"github.com/gogpu/framedbg/replay"
	"github.com/gogpu/framedbg/replay/static"
	"github.com/gogpu/framedbg/session"
	"github.com/gogpu/framedbg/shaderdbg"
)

type options struct {
	capture  string
	config   string
	output   string
	backend  string
	width    int
	height   int
	timeout  time.Duration
	verbose  bool
	listing  bool
	selectID uint32

	highlight string
	pixel     string

	debug   uint32
	stage   string
	at      string
	steps   int
	run     bool
	breaks  []int
	watches []string
}

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: fdbg --capture frame.yaml [options]\n\n")
		pflag.PrintDefaults()
	}

	var o options
	pflag.StringVarP(&o.capture, "capture", "c", "", "capture description (YAML)")
	pflag.StringVar(&o.config, "config", "", "preferences file (YAML)")
	pflag.StringVarP(&o.output, "output", "o", "timeline.png", "timeline image to write; empty to skip")
	pflag.StringVar(&o.backend, "backend", "raster", "drawing backend ("+strings.Join(drawlist.Backends(), ", ")+")")
	pflag.IntVar(&o.width, "width", 800, "timeline width")
	pflag.IntVar(&o.height, "height", 64, "timeline height")
	pflag.DurationVar(&o.timeout, "timeout", 30*time.Second, "limit for each replay request")
	pflag.BoolVarP(&o.verbose, "verbose", "v", false, "log to stderr")
	pflag.BoolVar(&o.listing, "listing", false, "print the shader listing")
	pflag.Uint32Var(&o.selectID, "select", 0, "select event id on the timeline")
	pflag.StringVar(&o.highlight, "highlight", "", "highlight usage of the named texture")
	pflag.StringVar(&o.pixel, "pixel", "", "show history of pixel X,Y of the highlighted texture")
	pflag.Uint32Var(&o.debug, "debug", 0, "debug the shader of event id")
	pflag.StringVar(&o.stage, "stage", "pixel", "shader stage to debug (vertex, pixel, compute)")
	pflag.StringVar(&o.at, "at", "0,0", "invocation to debug: X,Y for pixel, VERTEX,INSTANCE for vertex, GROUP.x,THREAD.x for compute")
	pflag.IntVar(&o.steps, "step", 0, "steps to take; negative steps back")
	pflag.BoolVar(&o.run, "run", false, "run to the next breakpoint or the end")
	pflag.IntSliceVar(&o.breaks, "break", nil, "instruction breakpoints")
	pflag.StringArrayVar(&o.watches, "watch", nil, "watch expression (repeatable)")
	help := pflag.BoolP("help", "h", false, "show this help")
	pflag.Parse()

	if *help || o.capture == "" {
		pflag.Usage()
		if !*help {
			os.Exit(2)
		}
		return
	}

	if o.verbose {
		framedbg.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	if err := run(context.Background(), o); err != nil {
		log.Fatalf("fdbg: %v", err)
	}
}

func run(ctx context.Context, o options) error {
	cfg := framedbg.DefaultConfig()
	if o.config != "" {
		var err error
		if cfg, err = framedbg.LoadConfig(o.config); err != nil {
			return err
		}
	}

	engine, err := static.Load(o.capture)
	if err != nil {
		return err
	}
	c, err := session.New(session.WithEngine(engine), session.WithConfig(cfg))
	if err != nil {
		return err
	}
	defer c.Close()

	if err := request(ctx, o.timeout, c, c.OnLogLoaded); err != nil {
		return err
	}
	if o.selectID != 0 {
		c.OnEventSelected(o.selectID)
	}

	if o.highlight != "" {
		tex, ok := engine.TextureByName(o.highlight)
		if !ok {
			return fmt.Errorf("no texture named %q", o.highlight)
		}
		err := request(ctx, o.timeout, c, func(ctx context.Context) error {
			return c.HighlightResource(ctx, tex.ID, tex.Name)
		})
		if err != nil {
			return err
		}
		if o.pixel != "" {
			x, y, err := parsePair(o.pixel)
			if err != nil {
				return fmt.Errorf("--pixel: %w", err)
			}
			err = request(ctx, o.timeout, c, func(ctx context.Context) error {
				return c.HighlightHistory(ctx, tex.ID, x, y)
			})
			if err != nil {
				return err
			}
		}
	}

	if o.output != "" {
		if err := render(c, o); err != nil {
			return err
		}
	}

	if o.debug != 0 {
		return debug(ctx, c, o)
	}
	return nil
}

// request issues one queue request and applies its result.
func request(ctx context.Context, timeout time.Duration, c *session.Controller, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		return err
	}
	return c.Wait(ctx)
}

func render(c *session.Controller, o options) error {
	backend, err := drawlist.NewBackend(o.backend)
	if err != nil {
		return err
	}
	if err := c.Bar().Render(backend, o.width, o.height); err != nil {
		return err
	}
	saver, ok := backend.(interface{ SavePNG(string) error })
	if !ok {
		return fmt.Errorf("backend %q cannot write images", o.backend)
	}
	if err := saver.SavePNG(o.output); err != nil {
		return err
	}
	fmt.Printf("%s: %s (%dx%d)\n", c.Bar().Title(), o.output, o.width, o.height)
	return nil
}

func debug(ctx context.Context, c *session.Controller, o options) error {
	req, err := debugRequest(o)
	if err != nil {
		return err
	}
	err = request(ctx, o.timeout, c, func(ctx context.Context) error {
		return c.DebugShader(ctx, req)
	})
	if err != nil {
		return err
	}

	for _, n := range o.breaks {
		c.ToggleBreakpoint(n)
	}
	for _, w := range o.watches {
		c.AddWatch(w)
	}

	for i := 0; i < o.steps; i++ {
		c.StepNext()
	}
	for i := 0; i > o.steps; i-- {
		c.StepBack()
	}
	if o.run {
		c.Run()
	}

	if o.listing {
		bps := c.Stepper().Breakpoints()
		cur := c.CurrentLine()
		for i, l := range c.Listing().Lines() {
			mark := "  "
			if n, ok := shaderdbg.ParseInstructionNumber(l); ok && bps.Has(n) {
				mark = "* "
			}
			if i == cur {
				mark = "> "
			}
			fmt.Println(mark + l)
		}
	}

	inst, done := c.Stepper().Current()
	state := "running"
	if done {
		state = "finished"
	}
	fmt.Printf("step %d/%d, instruction %d (%s)\n",
		c.Stepper().CurrentStep(), c.Stepper().Len()-1, inst, state)
	if n, ok := c.NextBreakpoint(); ok {
		fmt.Printf("next breakpoint: instruction %d\n", n)
	}
	for _, w := range c.Watches() {
		fmt.Printf("  %-16s %s\n", w.Expr, w.Value)
	}
	return nil
}

func debugRequest(o options) (replay.DebugRequest, error) {
	stage, err := replay.ParseStage(o.stage)
	if err != nil {
		return replay.DebugRequest{}, err
	}
	a, b, err := parsePair(o.at)
	if err != nil {
		return replay.DebugRequest{}, fmt.Errorf("--at: %w", err)
	}
	if a < 0 || b < 0 {
		return replay.DebugRequest{}, fmt.Errorf("--at: negative coordinate in %q", o.at)
	}

	req := replay.DebugRequest{EventID: o.debug, Stage: stage}
	switch stage {
	case replay.StageVertex:
		req.Vertex, req.Instance = uint32(a), uint32(b)
	case replay.StagePixel:
		req.X, req.Y = uint32(a), uint32(b)
	case replay.StageCompute:
		req.Group[0], req.Thread[0] = uint32(a), uint32(b)
	}
	return req, nil
}

func parsePair(s string) (int, int, error) {
	first, second, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("want A,B, got %q", s)
	}
	a, err := strconv.Atoi(strings.TrimSpace(first))
	if err != nil {
		return 0, 0, err
	}
	b, err := strconv.Atoi(strings.TrimSpace(second))
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}
