package replay

import (
	"context"
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/framedbg/shaderdbg"
	"github.com/gogpu/framedbg/timeline"
)

// Stage is a programmable pipeline stage.
type Stage uint8

const (
	StageVertex Stage = iota
	StagePixel
	StageCompute
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StagePixel:
		return "pixel"
	case StageCompute:
		return "compute"
	}
	return fmt.Sprintf("Stage(%d)", uint8(s))
}

// ParseStage is the inverse of Stage.String. "fragment" is accepted for
// the pixel stage.
func ParseStage(s string) (Stage, error) {
	switch strings.ToLower(s) {
	case "vertex":
		return StageVertex, nil
	case "pixel", "fragment":
		return StagePixel, nil
	case "compute":
		return StageCompute, nil
	}
	return 0, fmt.Errorf("replay: unknown stage %q", s)
}

// Frame is the draw-call tree of a loaded capture.
type Frame struct {
	Number uint32
	Draws  []timeline.DrawCall
}

// Texture describes a texture resource.
type Texture struct {
	ID     timeline.ResourceID
	Name   string
	Format gputypes.TextureFormat
	Size   gputypes.Extent3D
}

// Contains reports whether pixel (x, y) lies inside the top mip.
func (t Texture) Contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < int(t.Size.Width) && y < int(t.Size.Height)
}

// DebugRequest selects the shader invocation to trace.
type DebugRequest struct {
	EventID uint32
	Stage   Stage

	// Vertex stage.
	Vertex, Instance uint32

	// Pixel stage.
	X, Y uint32

	// Compute stage.
	Group, Thread [3]uint32
}

// Engine is the replay engine.
type Engine interface {
	// DrawCalls returns the frame's draw-call tree.
	DrawCalls(ctx context.Context) (Frame, error)

	// DebugTrace records a shader execution trace.
	DebugTrace(ctx context.Context, req DebugRequest) (*shaderdbg.Trace, error)

	// Shader returns the WGSL source of the shader bound to stage at eid.
	Shader(ctx context.Context, eid uint32, stage Stage) (string, error)

	// Usage lists the events that use a resource.
	Usage(ctx context.Context, id timeline.ResourceID) ([]timeline.EventUsage, error)

	// PixelHistory lists the events that modified a pixel.
	PixelHistory(ctx context.Context, tex timeline.ResourceID, x, y int) ([]timeline.PixelModification, error)

	// Texture describes a texture.
	Texture(ctx context.Context, id timeline.ResourceID) (Texture, error)
}
