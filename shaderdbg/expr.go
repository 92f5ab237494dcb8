package shaderdbg

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Cast selects how register lanes are interpreted when formatted.
type Cast byte

const (
	CastNone   Cast = 0
	CastInt    Cast = 'i'
	CastFloat  Cast = 'f'
	CastUInt   Cast = 'u'
	CastHex    Cast = 'x'
	CastBinary Cast = 'b'
	CastDouble Cast = 'd'
)

// Category is the register file an expression refers to.
type Category uint8

const (
	CategoryUnknown Category = iota
	CategoryTemporaries
	CategoryIndexTemporaries
	CategoryInputs
	CategoryConstants
	CategoryOutputs
)

var (
	// ErrBadExpression is returned for text that is not a register expression.
	ErrBadExpression = errors.New("shaderdbg: malformed register expression")

	// ErrRegisterRange is returned when a register or array index is out
	// of range for the current state.
	ErrRegisterRange = errors.New("shaderdbg: register index out of range")
)

// ExpressionError describes why an expression could not be evaluated.
type ExpressionError struct {
	Expr string
	Err  error
}

func (e *ExpressionError) Error() string {
	return fmt.Sprintf("%v: %q", e.Err, e.Expr)
}

func (e *ExpressionError) Unwrap() error { return e.Err }

var (
	registerExpr  = regexp.MustCompile(`^([rvo])([0-9]+)(?:\.([xyzwrgba]{1,4}))?(?:,([xfiudb]))?$`)
	indexableExpr = regexp.MustCompile(`^x([0-9]+)\[([0-9]+)\](?:\.([xyzwrgba]{1,4}))?(?:,([xfiudb]))?$`)
)

// Expression is a parsed register reference.
type Expression struct {
	Category Category

	// Array selects the indexable temp array; 0 for other categories.
	Array int

	// Index selects the register within the category.
	Index int

	// Swizzle is empty when the expression had none.
	Swizzle string

	// Cast is CastNone when the expression had none.
	Cast Cast
}

// ParseExpression parses a watch expression. Surrounding whitespace is
// ignored.
func ParseExpression(s string) (Expression, error) {
	s = strings.TrimSpace(s)

	var e Expression
	var idx string
	if m := registerExpr.FindStringSubmatch(s); m != nil {
		switch m[1] {
		case "r":
			e.Category = CategoryTemporaries
		case "v":
			e.Category = CategoryInputs
		case "o":
			e.Category = CategoryOutputs
		}
		idx, e.Swizzle = m[2], m[3]
		if m[4] != "" {
			e.Cast = Cast(m[4][0])
		}
	} else if m := indexableExpr.FindStringSubmatch(s); m != nil {
		arr, err := strconv.Atoi(m[1])
		if err != nil {
			return Expression{}, &ExpressionError{Expr: s, Err: ErrBadExpression}
		}
		e.Category = CategoryIndexTemporaries
		e.Array = arr
		idx, e.Swizzle = m[2], m[3]
		if m[4] != "" {
			e.Cast = Cast(m[4][0])
		}
	} else {
		return Expression{}, &ExpressionError{Expr: s, Err: ErrBadExpression}
	}

	n, err := strconv.Atoi(idx)
	if err != nil {
		return Expression{}, &ExpressionError{Expr: s, Err: ErrBadExpression}
	}
	e.Index = n
	return e, nil
}

// swizzleLane maps a swizzle character to its lane.
func swizzleLane(c byte) int {
	switch c {
	case 'y', 'g':
		return 1
	case 'z', 'b':
		return 2
	case 'w', 'a':
		return 3
	default:
		return 0
	}
}

// RegisterFromWord maps a hovered word such as "r3" or "v0" to a register.
// Words with trailing text ("v0foo") or other prefixes are rejected.
func RegisterFromWord(word string) (Category, int, bool) {
	if len(word) < 2 {
		return CategoryUnknown, -1, false
	}
	var cat Category
	switch word[0] {
	case 'r':
		cat = CategoryTemporaries
	case 'v':
		cat = CategoryInputs
	case 'o':
		cat = CategoryOutputs
	default:
		return CategoryUnknown, -1, false
	}
	n, err := strconv.Atoi(word[1:])
	if err != nil || n < 0 || strconv.Itoa(n) != word[1:] {
		return CategoryUnknown, -1, false
	}
	return cat, n, true
}
