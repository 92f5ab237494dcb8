package shaderdbg

import (
	"strconv"
	"strings"

	"github.com/google/btree"
)

// breakpointDegree is the btree node degree; sets are small.
const breakpointDegree = 4

// Breakpoints is an ordered set of instruction numbers. The zero value is
// empty and ready to use.
type Breakpoints struct {
	set *btree.BTreeG[int]
}

// Toggle adds n if absent or removes it if present. It reports whether n
// is set afterwards.
func (b *Breakpoints) Toggle(n int) bool {
	if b.set == nil {
		b.set = btree.NewOrderedG[int](breakpointDegree)
	}
	if _, found := b.set.Delete(n); found {
		return false
	}
	b.set.ReplaceOrInsert(n)
	return true
}

// Has reports whether instruction n has a breakpoint.
func (b *Breakpoints) Has(n int) bool {
	return b.set != nil && b.set.Has(n)
}

// Len returns the number of breakpoints.
func (b *Breakpoints) Len() int {
	if b.set == nil {
		return 0
	}
	return b.set.Len()
}

// Clear removes every breakpoint.
func (b *Breakpoints) Clear() { b.set = nil }

// List returns the breakpoints in ascending order.
func (b *Breakpoints) List() []int {
	out := make([]int, 0, b.Len())
	if b.set != nil {
		b.set.Ascend(func(n int) bool {
			out = append(out, n)
			return true
		})
	}
	return out
}

// Next returns the first breakpoint after instruction n.
func (b *Breakpoints) Next(n int) (int, bool) {
	if b.set == nil {
		return 0, false
	}
	next, ok := 0, false
	b.set.AscendGreaterOrEqual(n+1, func(m int) bool {
		next, ok = m, true
		return false
	})
	return next, ok
}

// ParseInstructionNumber extracts N from a disassembly line of the form
// "<N>: ...". Leading whitespace is ignored. Lines without a non-negative
// numeric prefix, such as declarations or wrapped operands, return false.
func ParseInstructionNumber(line string) (int, bool) {
	trimmed := strings.TrimSpace(line)
	colon := strings.IndexByte(trimmed, ':')
	if colon <= 0 {
		return 0, false
	}
	n, err := strconv.Atoi(trimmed[:colon])
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
