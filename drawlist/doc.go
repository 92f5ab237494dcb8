// Package drawlist records 2D drawing commands for later playback.
//
// The timeline does not paint pixels. It records what it would draw into
// a List of typed commands, which can be inspected by tests or replayed to
// any Backend. Backends register themselves by name, following the
// database/sql driver pattern:
//
//	import _ "github.com/gogpu/framedbg/drawlist/raster"
//
//	rec := drawlist.NewRecorder(800, 120)
//	rec.FillRect(drawlist.R(4, 4, 100, 24), drawlist.LightBack)
//	list := rec.Finish()
//
//	backend, _ := drawlist.NewBackend("raster")
//	err := list.Playback(backend)
package drawlist
