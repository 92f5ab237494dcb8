package framedbg

import "errors"

// Sentinel errors shared across sub-packages.
var (
	// ErrNoTrace is returned when a debugging operation needs a trace and
	// none is attached.
	ErrNoTrace = errors.New("framedbg: no debug trace")

	// ErrEmptyTrace is returned when a trace has no states.
	ErrEmptyTrace = errors.New("framedbg: trace has no states")

	// ErrNoLog is returned when an operation needs a loaded capture.
	ErrNoLog = errors.New("framedbg: no capture loaded")
)
