package shaderdbg

import (
	"fmt"
	"strings"
)

// Tooltip renders the hover table for v: its four lanes as float, uint,
// int and hex.
func (fm Formatter) Tooltip(v ShaderVariable) string {
	var b strings.Builder
	b.WriteString(v.Name)
	b.WriteByte('\n')
	b.WriteString("                 X          Y          Z          W \n")
	b.WriteString("----------------------------------------------------\n")

	fmt.Fprintf(&b, "float | %10s %10s %10s %10s\n",
		fm.Format(float64(v.Value.F(0))), fm.Format(float64(v.Value.F(1))),
		fm.Format(float64(v.Value.F(2))), fm.Format(float64(v.Value.F(3))))
	fmt.Fprintf(&b, "uint  | %10d %10d %10d %10d\n",
		v.Value.U(0), v.Value.U(1), v.Value.U(2), v.Value.U(3))
	fmt.Fprintf(&b, "int   | %10d %10d %10d %10d\n",
		v.Value.I(0), v.Value.I(1), v.Value.I(2), v.Value.I(3))
	fmt.Fprintf(&b, "hex   |   %08X   %08X   %08X   %08X",
		v.Value.U(0), v.Value.U(1), v.Value.U(2), v.Value.U(3))
	return b.String()
}

// TooltipForWord returns the hover table for a register word such as "r2",
// or false if the word is not a register in range.
func (r *Resolver) TooltipForWord(word string) (string, bool) {
	cat, idx, ok := RegisterFromWord(word)
	if !ok {
		return "", false
	}
	vars, ok := r.Variables(cat, 0)
	if !ok || idx >= len(vars) {
		return "", false
	}
	return r.format.Tooltip(vars[idx]), true
}
