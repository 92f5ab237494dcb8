package session

import (
	"github.com/gogpu/framedbg"
	"github.com/gogpu/framedbg/disasm"
	"github.com/gogpu/framedbg/replay"
	"github.com/gogpu/framedbg/shaderdbg"
)

// Debugging reports whether a shader trace is attached.
func (c *Controller) Debugging() bool { return c.stepper.Active() }

// Request returns the invocation being debugged.
func (c *Controller) Request() replay.DebugRequest { return c.request }

// Listing returns the disassembly being stepped through, or nil.
func (c *Controller) Listing() *disasm.Listing { return c.listing }

// EndDebug detaches the trace and clears breakpoints. Watch expressions
// are kept for the next trace.
func (c *Controller) EndDebug() { c.endDebug() }

func (c *Controller) endDebug() {
	c.stepper.Detach()
	c.listing = nil
	c.request = replay.DebugRequest{}
	c.pending = 0
}

func (c *Controller) lines() []string {
	if c.listing == nil {
		return nil
	}
	return c.listing.Lines()
}

// StepNext advances one state.
func (c *Controller) StepNext() bool { return c.stepper.StepNext() }

// StepBack retreats one state.
func (c *Controller) StepBack() bool { return c.stepper.StepBack() }

// Run advances to the next breakpoint or the end of the trace.
func (c *Controller) Run() bool { return c.stepper.RunForward() }

// RunBack retreats to the previous breakpoint or the start of the trace.
func (c *Controller) RunBack() bool { return c.stepper.RunBackward() }

// RunToLine runs forward to the instruction on listing line idx.
func (c *Controller) RunToLine(idx int) bool {
	return c.stepper.RunToLine(c.lines(), idx)
}

// RunToInstruction runs forward to instruction n.
func (c *Controller) RunToInstruction(n uint32) bool {
	return c.stepper.RunToInstruction(n)
}

// ToggleBreakpointAtLine toggles the breakpoint for listing line idx.
func (c *Controller) ToggleBreakpointAtLine(idx int) (instruction int, set, ok bool) {
	instruction, set, ok = c.stepper.ToggleBreakpointAtLine(c.lines(), idx)
	if ok {
		framedbg.Logger().Debug("session: breakpoint toggled", "instruction", instruction, "set", set)
	}
	return instruction, set, ok
}

// ToggleBreakpoint toggles the breakpoint on instruction n.
func (c *Controller) ToggleBreakpoint(n int) bool {
	return c.stepper.Breakpoints().Toggle(n)
}

// NextBreakpoint returns the first breakpoint after the current
// instruction.
func (c *Controller) NextBreakpoint() (int, bool) {
	inst, _ := c.stepper.Current()
	return c.stepper.Breakpoints().Next(int(inst))
}

// CurrentLine returns the listing line of the current instruction, or -1.
func (c *Controller) CurrentLine() int { return c.stepper.CurrentLine(c.lines()) }

// AddWatch appends a watch expression.
func (c *Controller) AddWatch(expr string) bool { return c.watch.Add(expr) }

// SetWatch replaces watch expression i.
func (c *Controller) SetWatch(i int, expr string) bool { return c.watch.Set(i, expr) }

// RemoveWatch deletes watch expression i.
func (c *Controller) RemoveWatch(i int) bool { return c.watch.Remove(i) }

// Watches evaluates the watch list at the current state.
func (c *Controller) Watches() []shaderdbg.WatchValue { return c.watch.Evaluate(c.resolver) }

// Panels returns the register panels at the current state.
func (c *Controller) Panels() shaderdbg.Panels { return c.resolver.Panels() }

// Tooltip describes the register named by a hovered word.
func (c *Controller) Tooltip(word string) (string, bool) {
	return c.resolver.TooltipForWord(word)
}
