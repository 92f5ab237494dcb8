// Package framedbg holds the non-GUI core of a graphics frame debugger.
//
// # Overview
//
// A frame debugger replays a captured frame and lets the user inspect it.
// framedbg contains the pieces of that tool that are pure data logic:
//   - shaderdbg: a cursor over a precomputed shader debug trace, with
//     breakpoints, run-to semantics and register watch expressions
//   - timeline: the draw-call section tree of a frame, its proportional
//     width allocation, and nearest draw-call lookup for clicks
//   - drawlist: the command list the timeline paints into
//   - replay: the boundary to the external replay engine
//   - session: the controller that owns all of the above for one session
//
// # Threading
//
// Sections, trace cursors and watch lists are owned by a single goroutine
// (the UI goroutine). Only the replay queue runs work elsewhere, and its
// results are handed back to the owner before anything is mutated.
//
// # Logging
//
// framedbg is silent by default. Use SetLogger to route its diagnostics to
// a slog handler.
package framedbg

// Version is the current version of the library.
const Version = "0.1.0"
