package timeline

import (
	"fmt"
	"image/color"

	"github.com/gogpu/framedbg/drawlist"
)

// ResourceID identifies a GPU resource in a capture. NullResource is the
// zero id.
type ResourceID uint64

// NullResource is no resource.
const NullResource ResourceID = 0

// ResourceUsage is how an event used a resource.
type ResourceUsage uint8

const (
	UsageNone ResourceUsage = iota
	UsageIndexBuffer
	UsageVertexBuffer
	UsageVSConstants
	UsageHSConstants
	UsageDSConstants
	UsageGSConstants
	UsagePSConstants
	UsageCSConstants
	UsageAllConstants
	UsageSO
	UsageVSResource
	UsageHSResource
	UsageDSResource
	UsageGSResource
	UsagePSResource
	UsageCSResource
	UsageAllResource
	UsageVSRWResource
	UsageHSRWResource
	UsageDSRWResource
	UsageGSRWResource
	UsagePSRWResource
	UsageCSRWResource
	UsageAllRWResource
	UsageInputTarget
	UsageColourTarget
	UsageDepthStencilTarget
	UsageClear
	UsageGenMips
	UsageResolve
	UsageResolveSrc
	UsageResolveDst
	UsageCopy
	UsageCopySrc
	UsageCopyDst
	UsageBarrier
)

var usageNames = [...]string{
	"None", "IndexBuffer", "VertexBuffer",
	"VS_Constants", "HS_Constants", "DS_Constants", "GS_Constants", "PS_Constants", "CS_Constants", "All_Constants",
	"SO",
	"VS_Resource", "HS_Resource", "DS_Resource", "GS_Resource", "PS_Resource", "CS_Resource", "All_Resource",
	"VS_RWResource", "HS_RWResource", "DS_RWResource", "GS_RWResource", "PS_RWResource", "CS_RWResource", "All_RWResource",
	"InputTarget", "ColourTarget", "DepthStencilTarget",
	"Clear", "GenMips", "Resolve", "ResolveSrc", "ResolveDst", "Copy", "CopySrc", "CopyDst", "Barrier",
}

func (u ResourceUsage) String() string {
	if int(u) < len(usageNames) {
		return usageNames[u]
	}
	return fmt.Sprintf("ResourceUsage(%d)", uint8(u))
}

// ParseResourceUsage is the inverse of ResourceUsage.String.
func ParseResourceUsage(s string) (ResourceUsage, error) {
	for i, n := range usageNames {
		if n == s {
			return ResourceUsage(i), nil
		}
	}
	return UsageNone, fmt.Errorf("timeline: unknown resource usage %q", s)
}

// EventUsage records that an event used a resource.
type EventUsage struct {
	EventID uint32
	Usage   ResourceUsage
}

// UsageClass groups usages by how the timeline marks them.
type UsageClass uint8

const (
	ClassRead UsageClass = iota
	ClassReadWrite
	ClassWrite
	ClassClear
	ClassBarrier
)

// Classify maps a usage to its UsageClass.
func Classify(u ResourceUsage) UsageClass {
	switch {
	case u >= UsageVSRWResource && u <= UsageAllRWResource,
		u == UsageGenMips, u == UsageCopy, u == UsageResolve:
		return ClassReadWrite
	case u == UsageSO, u == UsageDepthStencilTarget, u == UsageColourTarget,
		u == UsageCopyDst, u == UsageResolveDst:
		return ClassWrite
	case u == UsageClear:
		return ClassClear
	case u == UsageBarrier:
		return ClassBarrier
	}
	return ClassRead
}

// Writes reports whether the class modifies the resource.
func (c UsageClass) Writes() bool { return c != ClassRead }

// Color returns the pip colour of the class. Read/write pips are split;
// Color returns the write half.
func (c UsageClass) Color() color.NRGBA {
	switch c {
	case ClassReadWrite, ClassWrite:
		return drawlist.Orchid
	case ClassClear:
		return drawlist.Silver
	case ClassBarrier:
		return drawlist.Tomato
	}
	return drawlist.Lime
}

// touches reports whether u applies to d: either the same event, or an
// event inside the API-call range that d collapses.
func (u EventUsage) touches(d *DrawCall) bool {
	if u.EventID == d.EventID {
		return true
	}
	return u.EventID < d.EventID && len(d.Events) > 0 && u.EventID >= d.Events[0].EventID
}

// ModValue is a pixel value before or after an event.
type ModValue struct {
	Color   [4]float32
	Depth   float32
	Stencil int32
}

// PixelModification is one entry of a pixel history.
type PixelModification struct {
	EventID uint32

	UnboundPS          bool
	SampleMasked       bool
	BackfaceCulled     bool
	DepthClipped       bool
	ViewClipped        bool
	ScissorClipped     bool
	ShaderDiscarded    bool
	DepthTestFailed    bool
	StencilTestFailed  bool
	PredicationSkipped bool

	PreMod, PostMod ModValue
}

// Passed reports whether the fragment survived every test.
func (m PixelModification) Passed() bool {
	return !m.SampleMasked && !m.BackfaceCulled && !m.DepthClipped &&
		!m.ViewClipped && !m.ScissorClipped && !m.ShaderDiscarded &&
		!m.DepthTestFailed && !m.StencilTestFailed && !m.PredicationSkipped
}

// Range is a span of events between a write and the reads that follow it.
// Last is MaxEID for a write not yet followed by a read.
type Range struct {
	First, Last uint32
}

// MaxEID is the Last of an open range.
const MaxEID uint32 = 100000000

func (b *Bar) markWrite(eid uint32) {
	if n := len(b.ranges); n == 0 || b.ranges[n-1].Last < MaxEID {
		b.ranges = append(b.ranges, Range{First: eid, Last: MaxEID})
	}
}

func (b *Bar) markRead(eid uint32) {
	if n := len(b.ranges); n == 0 {
		b.ranges = append(b.ranges, Range{First: 0, Last: eid})
	} else {
		b.ranges[n-1].Last = eid
	}
}
