// Package replay is the boundary to the capture replay engine.
//
// Engine answers draw-call, shader-trace, resource-usage and pixel-history
// queries. The engine is slow and not re-entrant, so calls go through a
// Queue: a single worker goroutine runs them in submission order and
// posts each Result back for the owning goroutine to apply. Every request
// carries the Queue's Generation at submission time; the owner advances
// the generation when a capture is loaded or closed and discards results
// from older generations.
package replay
