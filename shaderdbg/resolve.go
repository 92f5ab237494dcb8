package shaderdbg

import (
	"errors"
	"strings"

	"github.com/gogpu/framedbg"
)

// ErrorText is shown in place of a value that cannot be evaluated.
const ErrorText = "Error evaluating expression"

// Resolver evaluates register expressions against the current state of a
// Stepper.
type Resolver struct {
	stepper     *Stepper
	format      Formatter
	displayInts bool
}

// NewResolver returns a Resolver reading from s.
func NewResolver(s *Stepper, cfg framedbg.Config) *Resolver {
	return &Resolver{
		stepper:     s,
		format:      NewFormatter(cfg.Formatter),
		displayInts: cfg.DisplayInts,
	}
}

// Formatter returns the float formatter in use.
func (r *Resolver) Formatter() Formatter { return r.format }

// SetDisplayInts switches the default cast between int and float.
func (r *Resolver) SetDisplayInts(v bool) { r.displayInts = v }

// DisplayInts reports whether int is the default cast.
func (r *Resolver) DisplayInts() bool { return r.displayInts }

// Variables returns the register file for cat at the current step. array
// selects the indexable temp array or the constant buffer.
func (r *Resolver) Variables(cat Category, array int) ([]ShaderVariable, bool) {
	st := r.stepper.State()
	if st == nil {
		return nil, false
	}
	array = max(0, array)
	tr := r.stepper.Trace()

	switch cat {
	case CategoryTemporaries:
		return st.Registers, true
	case CategoryIndexTemporaries:
		if array < len(st.IndexableTemps) {
			return st.IndexableTemps[array], true
		}
	case CategoryInputs:
		return tr.Inputs, true
	case CategoryConstants:
		if array < len(tr.CBuffers) {
			return tr.CBuffers[array].Variables, true
		}
	case CategoryOutputs:
		return st.Outputs, true
	}
	return nil, false
}

// Lookup returns the variable an expression refers to.
func (r *Resolver) Lookup(e Expression) (*ShaderVariable, error) {
	vars, ok := r.Variables(e.Category, e.Array)
	if !ok {
		if !r.stepper.Active() {
			return nil, framedbg.ErrNoTrace
		}
		return nil, ErrRegisterRange
	}
	if e.Index < 0 || e.Index >= len(vars) {
		return nil, ErrRegisterRange
	}
	return &vars[e.Index], nil
}

// Evaluate parses and formats expr. Values are joined with ", " in swizzle
// order.
func (r *Resolver) Evaluate(expr string) (string, error) {
	e, err := ParseExpression(expr)
	if err != nil {
		return "", err
	}

	v, err := r.Lookup(e)
	if err != nil {
		return "", &ExpressionError{Expr: expr, Err: err}
	}

	cast := e.Cast
	if cast == CastNone {
		cast = CastFloat
		if r.displayInts {
			cast = CastInt
		}
	}

	swizzle := e.Swizzle
	if swizzle == "" {
		swizzle = "xyzw"[:max(1, min(v.Columns, 4))]
		if cast == CastDouble && len(swizzle) > 2 {
			swizzle = "xy"
		}
	}

	var b strings.Builder
	for i := 0; i < len(swizzle); i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(r.format.Lane(v.Value, swizzleLane(swizzle[i]), cast))
	}
	return b.String(), nil
}

// Resolve is Evaluate for display: failures become ErrorText.
func (r *Resolver) Resolve(expr string) string {
	s, err := r.Evaluate(expr)
	if err != nil {
		if !errors.Is(err, framedbg.ErrNoTrace) {
			framedbg.Logger().Debug("shaderdbg: watch expression failed", "expr", expr, "err", err)
		}
		return ErrorText
	}
	return s
}
