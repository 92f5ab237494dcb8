package static

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/gogpu/gputypes"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/framedbg"
	"github.com/gogpu/framedbg/drawlist"
	"github.com/gogpu/framedbg/replay"
	"github.com/gogpu/framedbg/shaderdbg"
	"github.com/gogpu/framedbg/timeline"
)

var (
	// ErrNoShader is returned when no shader or trace is recorded for an
	// event and stage.
	ErrNoShader = errors.New("static: no shader for event")

	// ErrNoTexture is returned for an unknown texture id.
	ErrNoTexture = errors.New("static: no such texture")
)

// Engine serves a capture loaded from YAML. It is safe for concurrent
// use; nothing is mutated after Parse.
type Engine struct {
	frame    replay.Frame
	usage    map[timeline.ResourceID][]timeline.EventUsage
	textures map[timeline.ResourceID]replay.Texture
	history  map[historyKey][]timeline.PixelModification
	shaders  map[shaderKey]shaderEntry
}

type historyKey struct {
	tex  timeline.ResourceID
	x, y int
}

type shaderKey struct {
	eid   uint32
	stage replay.Stage
}

type shaderEntry struct {
	source string
	trace  *shaderdbg.Trace
}

var _ replay.Engine = (*Engine)(nil)

// Load reads and parses the capture at path.
func Load(path string) (*Engine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("static: %w", err)
	}
	e, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	framedbg.Logger().Info("static: capture loaded", "path", path,
		"frame", e.frame.Number, "draws", len(e.frame.Draws))
	return e, nil
}

// Parse builds an Engine from YAML.
func Parse(data []byte) (*Engine, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("static: parse: %w", err)
	}

	e := &Engine{
		usage:    make(map[timeline.ResourceID][]timeline.EventUsage),
		textures: make(map[timeline.ResourceID]replay.Texture),
		history:  make(map[historyKey][]timeline.PixelModification),
		shaders:  make(map[shaderKey]shaderEntry),
	}
	e.frame.Number = doc.Frame

	draws, err := convertDraws(doc.Draws)
	if err != nil {
		return nil, err
	}
	e.frame.Draws = draws

	for id, uses := range doc.Usage {
		list := make([]timeline.EventUsage, 0, len(uses))
		for _, u := range uses {
			usage, err := timeline.ParseResourceUsage(u.Usage)
			if err != nil {
				return nil, fmt.Errorf("static: resource %d: %w", id, err)
			}
			list = append(list, timeline.EventUsage{EventID: u.EID, Usage: usage})
		}
		e.usage[timeline.ResourceID(id)] = list
	}

	for _, t := range doc.Textures {
		format, err := parseFormat(t.Format)
		if err != nil {
			return nil, fmt.Errorf("static: texture %q: %w", t.Name, err)
		}
		e.textures[timeline.ResourceID(t.ID)] = replay.Texture{
			ID:     timeline.ResourceID(t.ID),
			Name:   t.Name,
			Format: format,
			Size:   gputypes.Extent3D{Width: t.Width, Height: t.Height, DepthOrArrayLayers: 1},
		}
	}

	for _, h := range doc.History {
		key := historyKey{tex: timeline.ResourceID(h.Texture), x: h.X, y: h.Y}
		mods := make([]timeline.PixelModification, 0, len(h.Mods))
		for _, m := range h.Mods {
			mod, err := convertMod(m)
			if err != nil {
				return nil, err
			}
			mods = append(mods, mod)
		}
		e.history[key] = mods
	}

	for _, s := range doc.Shaders {
		stage, err := replay.ParseStage(s.Stage)
		if err != nil {
			return nil, fmt.Errorf("static: shader at %d: %w", s.EID, err)
		}
		entry := shaderEntry{source: s.WGSL}
		if s.Trace != nil {
			trace, err := convertTrace(s.Trace)
			if err != nil {
				return nil, fmt.Errorf("static: trace at %d: %w", s.EID, err)
			}
			entry.trace = trace
		}
		e.shaders[shaderKey{eid: s.EID, stage: stage}] = entry
	}
	return e, nil
}

// DrawCalls implements replay.Engine.
func (e *Engine) DrawCalls(ctx context.Context) (replay.Frame, error) {
	if err := ctx.Err(); err != nil {
		return replay.Frame{}, err
	}
	return e.frame, nil
}

// DebugTrace implements replay.Engine. The recorded trace is returned for
// any invocation of the event's shader.
func (e *Engine) DebugTrace(ctx context.Context, req replay.DebugRequest) (*shaderdbg.Trace, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s, ok := e.shaders[shaderKey{eid: req.EventID, stage: req.Stage}]
	if !ok || s.trace == nil {
		return nil, fmt.Errorf("%w %d (%s)", ErrNoShader, req.EventID, req.Stage)
	}
	return s.trace, nil
}

// Shader implements replay.Engine.
func (e *Engine) Shader(ctx context.Context, eid uint32, stage replay.Stage) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s, ok := e.shaders[shaderKey{eid: eid, stage: stage}]
	if !ok || s.source == "" {
		return "", fmt.Errorf("%w %d (%s)", ErrNoShader, eid, stage)
	}
	return s.source, nil
}

// Usage implements replay.Engine. Unknown resources have no usage.
func (e *Engine) Usage(ctx context.Context, id timeline.ResourceID) ([]timeline.EventUsage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.usage[id], nil
}

// PixelHistory implements replay.Engine.
func (e *Engine) PixelHistory(ctx context.Context, tex timeline.ResourceID, x, y int) ([]timeline.PixelModification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, ok := e.textures[tex]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrNoTexture, tex)
	}
	return e.history[historyKey{tex: tex, x: x, y: y}], nil
}

// Texture implements replay.Engine.
func (e *Engine) Texture(ctx context.Context, id timeline.ResourceID) (replay.Texture, error) {
	if err := ctx.Err(); err != nil {
		return replay.Texture{}, err
	}
	t, ok := e.textures[id]
	if !ok {
		return replay.Texture{}, fmt.Errorf("%w: %d", ErrNoTexture, id)
	}
	return t, nil
}

// TextureByName looks a texture up by name.
func (e *Engine) TextureByName(name string) (replay.Texture, bool) {
	for _, t := range e.textures {
		if t.Name == name {
			return t, true
		}
	}
	return replay.Texture{}, false
}

func convertDraws(in []drawDoc) ([]timeline.DrawCall, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]timeline.DrawCall, 0, len(in))
	for _, d := range in {
		flags, err := timeline.ParseDrawFlags(d.Flags)
		if err != nil {
			return nil, fmt.Errorf("static: draw %d: %w", d.EID, err)
		}
		dc := timeline.DrawCall{EventID: d.EID, Name: d.Name, Flags: flags}
		if d.Color != "" {
			c, err := drawlist.ParseHex(d.Color)
			if err != nil {
				return nil, fmt.Errorf("static: draw %d: %w", d.EID, err)
			}
			dc.MarkerColor = c
		}
		for _, ev := range d.Events {
			dc.Events = append(dc.Events, timeline.APIEvent{EventID: ev.EID, Description: ev.Description})
		}
		children, err := convertDraws(d.Children)
		if err != nil {
			return nil, err
		}
		dc.Children = children
		out = append(out, dc)
	}
	return out, nil
}

var formats = map[string]gputypes.TextureFormat{
	"rgba8unorm":           gputypes.TextureFormatRGBA8Unorm,
	"rgba8unorm-srgb":      gputypes.TextureFormatRGBA8UnormSrgb,
	"bgra8unorm":           gputypes.TextureFormatBGRA8Unorm,
	"bgra8unorm-srgb":      gputypes.TextureFormatBGRA8UnormSrgb,
	"r8unorm":              gputypes.TextureFormatR8Unorm,
	"r32float":             gputypes.TextureFormatR32Float,
	"rg32float":            gputypes.TextureFormatRG32Float,
	"rgba32float":          gputypes.TextureFormatRGBA32Float,
	"depth24plus-stencil8": gputypes.TextureFormatDepth24PlusStencil8,
}

func parseFormat(s string) (gputypes.TextureFormat, error) {
	if s == "" {
		return gputypes.TextureFormatRGBA8Unorm, nil
	}
	f, ok := formats[strings.ToLower(s)]
	if !ok {
		return gputypes.TextureFormatUndefined, fmt.Errorf("unknown format %q", s)
	}
	return f, nil
}

func convertMod(m modDoc) (timeline.PixelModification, error) {
	mod := timeline.PixelModification{
		EventID: m.EID,
		PreMod:  timeline.ModValue{Color: m.Pre.Color, Depth: m.Pre.Depth, Stencil: m.Pre.Stencil},
		PostMod: timeline.ModValue{Color: m.Post.Color, Depth: m.Post.Depth, Stencil: m.Post.Stencil},
	}
	for _, f := range m.Failed {
		switch f {
		case "unbound_ps":
			mod.UnboundPS = true
		case "sample_masked":
			mod.SampleMasked = true
		case "backface_culled":
			mod.BackfaceCulled = true
		case "depth_clipped":
			mod.DepthClipped = true
		case "view_clipped":
			mod.ViewClipped = true
		case "scissor_clipped":
			mod.ScissorClipped = true
		case "shader_discarded":
			mod.ShaderDiscarded = true
		case "depth_test_failed":
			mod.DepthTestFailed = true
		case "stencil_test_failed":
			mod.StencilTestFailed = true
		case "predication_skipped":
			mod.PredicationSkipped = true
		default:
			return mod, fmt.Errorf("static: event %d: unknown test %q", m.EID, f)
		}
	}
	return mod, nil
}

func convertTrace(t *traceDoc) (*shaderdbg.Trace, error) {
	trace := &shaderdbg.Trace{}
	var err error
	if trace.Inputs, err = convertVars(t.Inputs); err != nil {
		return nil, err
	}
	for _, cb := range t.CBuffers {
		vars, err := convertVars(cb.Variables)
		if err != nil {
			return nil, err
		}
		trace.CBuffers = append(trace.CBuffers, shaderdbg.CBuffer{Name: cb.Name, Variables: vars})
	}
	for i, s := range t.States {
		st := shaderdbg.State{NextInstruction: s.Next}
		if st.Registers, err = convertVars(s.Registers); err != nil {
			return nil, fmt.Errorf("state %d: %w", i, err)
		}
		if st.Outputs, err = convertVars(s.Outputs); err != nil {
			return nil, fmt.Errorf("state %d: %w", i, err)
		}
		for _, arr := range s.Indexable {
			vars, err := convertVars(arr)
			if err != nil {
				return nil, fmt.Errorf("state %d: %w", i, err)
			}
			st.IndexableTemps = append(st.IndexableTemps, vars)
		}
		trace.States = append(trace.States, st)
	}
	return trace, nil
}

func convertVars(in []varDoc) ([]shaderdbg.ShaderVariable, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]shaderdbg.ShaderVariable, 0, len(in))
	for _, v := range in {
		sv, err := convertVar(v)
		if err != nil {
			return nil, err
		}
		out = append(out, sv)
	}
	return out, nil
}

func convertVar(v varDoc) (shaderdbg.ShaderVariable, error) {
	sv := shaderdbg.ShaderVariable{Name: v.Name, Rows: v.Rows, Columns: v.Columns}
	if sv.Rows == 0 {
		sv.Rows = 1
	}
	if sv.Columns == 0 {
		sv.Columns = len(v.Value)
		if sv.Rows > 1 && sv.Columns > 0 {
			sv.Columns /= sv.Rows
		}
	}

	width := 1
	switch strings.ToLower(v.Type) {
	case "", "float":
		sv.Type = shaderdbg.VarFloat
	case "int":
		sv.Type = shaderdbg.VarInt
	case "uint":
		sv.Type = shaderdbg.VarUInt
	case "double":
		sv.Type = shaderdbg.VarDouble
		width = 2
	default:
		return sv, fmt.Errorf("variable %q: unknown type %q", v.Name, v.Type)
	}
	if len(v.Value)*width > shaderdbg.MaxLanes {
		return sv, fmt.Errorf("variable %q: %d components do not fit", v.Name, len(v.Value))
	}

	for i, s := range v.Value {
		switch sv.Type {
		case shaderdbg.VarFloat:
			f, err := strconv.ParseFloat(s, 32)
			if err != nil {
				return sv, fmt.Errorf("variable %q: %w", v.Name, err)
			}
			sv.Value.Lanes[i] = math.Float32bits(float32(f))
		case shaderdbg.VarInt:
			n, err := strconv.ParseInt(s, 0, 32)
			if err != nil {
				return sv, fmt.Errorf("variable %q: %w", v.Name, err)
			}
			sv.Value.Lanes[i] = uint32(int32(n))
		case shaderdbg.VarUInt:
			n, err := strconv.ParseUint(s, 0, 32)
			if err != nil {
				return sv, fmt.Errorf("variable %q: %w", v.Name, err)
			}
			sv.Value.Lanes[i] = uint32(n)
		case shaderdbg.VarDouble:
			d, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return sv, fmt.Errorf("variable %q: %w", v.Name, err)
			}
			bits := math.Float64bits(d)
			sv.Value.Lanes[2*i] = uint32(bits)
			sv.Value.Lanes[2*i+1] = uint32(bits >> 32)
		}
	}

	members, err := convertVars(v.Members)
	if err != nil {
		return sv, err
	}
	sv.Members = members
	return sv, nil
}
