// Package session ties the shader stepper, the watch list and the timeline
// to a replay engine.
//
// A Controller is owned by one goroutine. Requests that need the engine
// go through a replay.Queue; their results are applied by Pump or Wait on
// the owner goroutine, after a generation check drops anything that was
// requested against a capture that has since been closed or reloaded.
package session
