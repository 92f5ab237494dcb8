package shaderdbg

import (
	"math"
	"testing"

	"github.com/gogpu/framedbg"
)

func TestFormatterFormat(t *testing.T) {
	fm := DefaultFormatter()
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{1, "1.00"},
		{0.5, "0.50"},
		{-3.25, "-3.25"},
		{1.23456789, "1.23457"},
		{100, "100.00"},
		{1e8, "1.00000E+08"},
		{1e-6, "1.00000E-06"},
		{math.NaN(), "NaN"},
		{math.Inf(1), "Inf"},
		{math.Inf(-1), "-Inf"},
	}
	for _, tt := range tests {
		if got := fm.Format(tt.in); got != tt.want {
			t.Errorf("Format(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatterMinFiguresZero(t *testing.T) {
	fm := NewFormatter(framedbg.FormatterConfig{MinFigures: 0, MaxFigures: 3, NegExp: 5, PosExp: 7})
	if got := fm.Format(2); got != "2" {
		t.Errorf("Format(2) = %q, want %q", got, "2")
	}
	if got := fm.Format(2.5); got != "2.5" {
		t.Errorf("Format(2.5) = %q, want %q", got, "2.5")
	}
}

func TestStringRep(t *testing.T) {
	fm := DefaultFormatter()
	u := ShaderVariable{Name: "c", Columns: 2, Type: VarUInt, Value: UIntValue(3, 4)}

	if got := fm.StringRep(u, true, false); got != "3, 4" {
		t.Errorf("StringRep(useType) = %q, want %q", got, "3, 4")
	}
	if got := fm.StringRep(u, false, true); got != "3, 4" {
		t.Errorf("StringRep(displayInts) = %q, want %q", got, "3, 4")
	}
	f := ShaderVariable{Name: "f", Columns: 1, Value: FloatValue(1.5)}
	if got := fm.StringRep(f, true, false); got != "1.50" {
		t.Errorf("StringRep(float) = %q, want %q", got, "1.50")
	}
}

func TestShaderValueOutOfRange(t *testing.T) {
	v := UIntValue(1, 2)
	if v.U(-1) != 0 || v.U(MaxLanes) != 0 {
		t.Error("out of range lanes did not read as zero")
	}
	if v.D(8) != 0 {
		t.Error("out of range double did not read as zero")
	}
}
