package shaderdbg

import (
	"fmt"
	"strings"
)

// WatchValue is one evaluated row of the watch panel.
type WatchValue struct {
	Expr  string
	Type  string
	Value string
}

// Watch is the ordered list of user watch expressions. It lives for the
// debugging session and is re-evaluated after every step.
type Watch struct {
	exprs []string
}

// Add appends an expression. Blank input is ignored.
func (w *Watch) Add(expr string) bool {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return false
	}
	w.exprs = append(w.exprs, expr)
	return true
}

// Set replaces expression i. A blank expression removes it.
func (w *Watch) Set(i int, expr string) bool {
	if i < 0 || i >= len(w.exprs) {
		return false
	}
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return w.Remove(i)
	}
	w.exprs[i] = expr
	return true
}

// Remove deletes expression i.
func (w *Watch) Remove(i int) bool {
	if i < 0 || i >= len(w.exprs) {
		return false
	}
	w.exprs = append(w.exprs[:i], w.exprs[i+1:]...)
	return true
}

// Exprs returns a copy of the expressions.
func (w *Watch) Exprs() []string {
	return append([]string(nil), w.exprs...)
}

// Len returns the number of expressions.
func (w *Watch) Len() int { return len(w.exprs) }

// Evaluate resolves every expression against r.
func (w *Watch) Evaluate(r *Resolver) []WatchValue {
	out := make([]WatchValue, len(w.exprs))
	for i, e := range w.exprs {
		out[i] = WatchValue{Expr: e, Type: "register", Value: r.Resolve(e)}
	}
	return out
}

// PanelRow is one row of the constants or variables panel.
type PanelRow struct {
	Name     string
	Type     string
	Value    string
	Children []PanelRow
}

// Panels holds the register panels for the current step.
type Panels struct {
	Constants []PanelRow
	Variables []PanelRow
	Indexable []PanelRow
}

// Panels builds the constants, variables and indexable temp rows.
// Constant buffer variables with no rows or columns are skipped.
func (r *Resolver) Panels() Panels {
	var p Panels
	st := r.stepper.State()
	if st == nil {
		return p
	}
	tr := r.stepper.Trace()
	fm := r.format

	for _, cb := range tr.CBuffers {
		for _, v := range cb.Variables {
			if v.Rows == 0 && v.Columns == 0 {
				continue
			}
			p.Constants = append(p.Constants, PanelRow{
				Name: v.Name, Type: "cbuffer", Value: fm.StringRep(v, false, r.displayInts),
			})
		}
	}
	for _, v := range tr.Inputs {
		p.Constants = append(p.Constants, PanelRow{
			Name: v.Name, Type: v.Type.String() + " input", Value: fm.StringRep(v, true, r.displayInts),
		})
	}

	for _, v := range st.Registers {
		p.Variables = append(p.Variables, PanelRow{
			Name: v.Name, Type: "register", Value: fm.StringRep(v, false, r.displayInts),
		})
	}
	for _, v := range st.Outputs {
		p.Variables = append(p.Variables, PanelRow{
			Name: v.Name, Type: "register", Value: fm.StringRep(v, false, r.displayInts),
		})
	}

	for i, arr := range st.IndexableTemps {
		row := PanelRow{Name: fmt.Sprintf("x%d", i), Type: "indexable"}
		for _, v := range arr {
			row.Children = append(row.Children, PanelRow{
				Name: v.Name, Type: "indexable", Value: fm.StringRep(v, false, r.displayInts),
			})
		}
		p.Indexable = append(p.Indexable, row)
	}
	return p
}
