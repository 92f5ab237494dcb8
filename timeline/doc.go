// Package timeline lays out a frame's draw calls as a horizontal bar of
// nested marker sections and records it into a drawlist.
//
// A Section tree is built from the draw-call hierarchy with Gather. Each
// level divides its parent's width between its children with Allocate:
// widths grow proportionally when there is room, and when there is not,
// slack is skimmed from siblings above their minimum to lift those below
// it. The Bar type owns the tree together with zoom, scroll and resource
// highlights, paints it with Paint, and maps clicks back to draw calls
// with FindDraw.
//
// A Bar is owned by a single goroutine; it is not safe for concurrent use.
package timeline
