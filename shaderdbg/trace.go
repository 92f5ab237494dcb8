package shaderdbg

import "github.com/gogpu/framedbg"

// State is the machine state immediately before executing NextInstruction.
type State struct {
	NextInstruction uint32
	Registers       []ShaderVariable
	IndexableTemps  [][]ShaderVariable
	Outputs         []ShaderVariable
}

// CBuffer is a named block of constants.
type CBuffer struct {
	Name      string
	Variables []ShaderVariable
}

// Trace is the full result of a shader debug request. It is immutable once
// built; CBuffers and Inputs are the same for every state.
type Trace struct {
	States   []State
	CBuffers []CBuffer
	Inputs   []ShaderVariable
}

// Validate reports whether the trace can be stepped.
func (t *Trace) Validate() error {
	if t == nil {
		return framedbg.ErrNoTrace
	}
	if len(t.States) == 0 {
		return framedbg.ErrEmptyTrace
	}
	return nil
}
