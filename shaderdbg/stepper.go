package shaderdbg

import (
	"fmt"
	"strings"

	"github.com/gogpu/framedbg"
)

// noTarget disables the instruction stop condition of runTo.
const noTarget = -1

// Stepper is a cursor over the states of a Trace.
//
// A Stepper is Idle when it has no trace: every operation is a no-op and
// stepping returns false. Attaching a non-empty trace makes it Active with
// the cursor at step 0. The cursor never leaves [0, len(States)-1].
//
// The Stepper is not safe for concurrent use; it belongs to the goroutine
// that drives the debugging session.
type Stepper struct {
	trace       *Trace
	step        int
	breakpoints Breakpoints
}

// NewStepper returns a Stepper over t. A nil or empty trace gives an Idle
// Stepper.
func NewStepper(t *Trace) *Stepper {
	s := &Stepper{}
	s.Attach(t)
	return s
}

// Attach replaces the trace and resets the cursor to 0. Breakpoints are
// kept: they are keyed by instruction, not by trace.
func (s *Stepper) Attach(t *Trace) {
	s.step = 0
	if t.Validate() != nil {
		s.trace = nil
		return
	}
	s.trace = t
	framedbg.Logger().Info("shaderdbg: trace attached", "states", len(t.States))
}

// Detach drops the trace and breakpoints, returning to Idle.
func (s *Stepper) Detach() {
	s.trace = nil
	s.step = 0
	s.breakpoints.Clear()
}

// Active reports whether a trace is attached.
func (s *Stepper) Active() bool { return s.trace != nil }

// Trace returns the attached trace, or nil when Idle.
func (s *Stepper) Trace() *Trace { return s.trace }

// Len returns the number of states, 0 when Idle.
func (s *Stepper) Len() int {
	if s.trace == nil {
		return 0
	}
	return len(s.trace.States)
}

// CurrentStep returns the cursor position.
func (s *Stepper) CurrentStep() int { return s.step }

// State returns the current state, or nil when Idle.
func (s *Stepper) State() *State {
	if s.trace == nil {
		return nil
	}
	return &s.trace.States[s.step]
}

// Breakpoints returns the session breakpoints.
func (s *Stepper) Breakpoints() *Breakpoints { return &s.breakpoints }

// Reset moves the cursor back to step 0.
func (s *Stepper) Reset() { s.step = 0 }

// Current returns the instruction to highlight in the listing. On the last
// state the trace has finished: the instruction is the last one executed
// and done is true.
func (s *Stepper) Current() (instruction uint32, done bool) {
	st := s.State()
	if st == nil {
		return 0, false
	}
	inst := st.NextInstruction
	if s.step == len(s.trace.States)-1 {
		if inst > 0 {
			inst--
		}
		return inst, true
	}
	return inst, false
}

// StepNext advances one state. It returns false at the last state.
func (s *Stepper) StepNext() bool {
	if s.trace == nil || s.step+1 >= len(s.trace.States) {
		return false
	}
	s.step++
	return true
}

// StepBack retreats one state. It returns false at step 0.
func (s *Stepper) StepBack() bool {
	if s.trace == nil || s.step == 0 {
		return false
	}
	s.step--
	return true
}

// RunForward advances until a breakpoint (ignoring the starting state) or
// the last state.
func (s *Stepper) RunForward() bool {
	return s.runTo(noTarget, 1)
}

// RunBackward retreats until a breakpoint (ignoring the starting state) or
// step 0.
func (s *Stepper) RunBackward() bool {
	return s.runTo(noTarget, -1)
}

// RunToInstruction advances until a state is about to execute target, a
// breakpoint is hit, or the last state is reached, whichever comes first.
// The starting state counts for target but never for breakpoints.
func (s *Stepper) RunToInstruction(target uint32) bool {
	return s.runTo(int64(target), 1)
}

// runTo scans in direction inc and reports whether the cursor moved.
func (s *Stepper) runTo(target int64, inc int) bool {
	if s.trace == nil {
		return false
	}
	states := s.trace.States
	start := s.step
	step := start
	reason := "boundary"

	for {
		next := int64(states[step].NextInstruction)
		if next == target {
			reason = "target"
			break
		}
		if step != start && s.breakpoints.Has(int(next)) {
			reason = "breakpoint"
			break
		}
		if step+inc < 0 || step+inc >= len(states) {
			break
		}
		step += inc
	}

	s.step = step
	framedbg.Logger().Debug("shaderdbg: run stopped",
		"from", start, "to", step, "reason", reason)
	return step != start
}

// ToggleBreakpointAtLine toggles the breakpoint of the instruction shown on
// listing line idx. Lines without an instruction number (wrapped operands,
// comments) belong to the nearest numbered line above them. It returns the
// instruction and whether it is now set; ok is false if no numbered line
// was found.
func (s *Stepper) ToggleBreakpointAtLine(lines []string, idx int) (instruction int, set, ok bool) {
	if idx >= len(lines) {
		idx = len(lines) - 1
	}
	for i := idx; i >= 0; i-- {
		if n, found := ParseInstructionNumber(lines[i]); found {
			return n, s.breakpoints.Toggle(n), true
		}
	}
	return 0, false, false
}

// RunToLine runs forward to the instruction on listing line idx, or to the
// first numbered line after it when idx itself has no number.
func (s *Stepper) RunToLine(lines []string, idx int) bool {
	if s.trace == nil || idx < 0 {
		return false
	}
	for i := idx; i < len(lines); i++ {
		if n, ok := ParseInstructionNumber(lines[i]); ok {
			return s.RunToInstruction(uint32(n))
		}
	}
	return false
}

// CurrentLine returns the index of the listing line for Current, or -1.
func (s *Stepper) CurrentLine(lines []string) int {
	if s.trace == nil {
		return -1
	}
	inst, _ := s.Current()
	prefix := fmt.Sprintf("%d:", inst)
	for i, l := range lines {
		if strings.HasPrefix(strings.TrimSpace(l), prefix) {
			return i
		}
	}
	return -1
}
