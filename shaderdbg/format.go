package shaderdbg

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gogpu/framedbg"
)

// Formatter prints floating point values the way the register panels
// show them: fixed notation with MaxFigures decimals, trailing zeros
// trimmed down to MinFigures, and exponent notation for magnitudes below
// 10^-NegExp or above 10^PosExp.
type Formatter struct {
	minFigures int
	maxFigures int
	negValue   float64
	posValue   float64
}

// NewFormatter builds a Formatter from config.
func NewFormatter(cfg framedbg.FormatterConfig) Formatter {
	return Formatter{
		minFigures: max(0, cfg.MinFigures),
		maxFigures: max(2, cfg.MaxFigures),
		negValue:   math.Pow(10, -float64(max(0, cfg.NegExp))),
		posValue:   math.Pow(10, float64(max(0, cfg.PosExp))),
	}
}

// DefaultFormatter uses the default config.
func DefaultFormatter() Formatter {
	return NewFormatter(framedbg.DefaultConfig().Formatter)
}

// Format returns the display string for f.
func (fm Formatter) Format(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	}

	if f != 0 && (math.Abs(f) < fm.negValue || math.Abs(f) > fm.posValue) {
		return strconv.FormatFloat(f, 'E', fm.maxFigures, 64)
	}

	s := strconv.FormatFloat(f, 'f', fm.maxFigures, 64)
	dot := strings.LastIndexByte(s, '.')
	if dot < 0 {
		return s
	}
	keep := dot + fm.minFigures
	end := len(s)
	for end-1 > keep && s[end-1] == '0' {
		end--
	}
	if fm.minFigures == 0 && end-1 == dot {
		end = dot
	}
	return s[:end]
}

// Lane formats lane (or double) index i of v with the given cast.
func (fm Formatter) Lane(v ShaderValue, i int, c Cast) string {
	switch c {
	case CastInt:
		return strconv.FormatInt(int64(v.I(i)), 10)
	case CastUInt:
		return strconv.FormatUint(uint64(v.U(i)), 10)
	case CastHex:
		return fmt.Sprintf("0x%08X", v.U(i))
	case CastBinary:
		return fmt.Sprintf("%032b", v.U(i))
	case CastDouble:
		if i < 2 {
			return fm.Format(v.D(i))
		}
		return "-"
	default:
		return fm.Format(float64(v.F(i)))
	}
}

// Row formats row r of v, one value per declared column, as type t.
func (fm Formatter) Row(v ShaderVariable, r int, t VarType) string {
	cols := max(1, min(v.Columns, 4))
	parts := make([]string, cols)
	for c := range cols {
		lane := r*4 + c
		switch t {
		case VarInt:
			parts[c] = fm.Lane(v.Value, lane, CastInt)
		case VarUInt:
			parts[c] = fm.Lane(v.Value, lane, CastUInt)
		case VarDouble:
			parts[c] = fm.Format(v.Value.D(lane))
		default:
			parts[c] = fm.Lane(v.Value, lane, CastFloat)
		}
	}
	return strings.Join(parts, ", ")
}

// StringRep is the one-line value shown in the register panels. With
// useType the declared int/uint type is honoured; displayInts forces int.
func (fm Formatter) StringRep(v ShaderVariable, useType, displayInts bool) string {
	if displayInts || (useType && v.Type == VarInt) {
		return fm.Row(v, 0, VarInt)
	}
	if useType && v.Type == VarUInt {
		return fm.Row(v, 0, VarUInt)
	}
	return fm.Row(v, 0, VarFloat)
}
