package disasm

import (
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/framedbg/shaderdbg"
)

// module assembles a SPIR-V binary from instructions given as opcode
// followed by operand words.
func module(insts ...[]uint32) []byte {
	words := []uint32{spirvMagic, 0x00010300, 0, 16, 0}
	for _, in := range insts {
		words = append(words, uint32(len(in))<<16|in[0])
		words = append(words, in[1:]...)
	}
	out := make([]byte, len(words)*4)
	for i, w := range words {
		binary.LittleEndian.PutUint32(out[i*4:], w)
	}
	return out
}

// str packs s as a nul-terminated literal string.
func str(s string) []uint32 {
	b := append([]byte(s), 0)
	for len(b)%4 != 0 {
		b = append(b, 0)
	}
	w := make([]uint32, len(b)/4)
	for i := range w {
		w[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	return w
}

func testModule() []byte {
	return module(
		[]uint32{opCapability, 1},
		[]uint32{opMemoryModel, 0, 1},
		append([]uint32{opEntryPoint, 4, 5}, append(str("main"), 9)...),
		append([]uint32{opName, 5}, str("main")...),
		[]uint32{19, 1},              // %1 = OpTypeVoid
		[]uint32{33, 2, 1},           // %2 = OpTypeFunction %1
		[]uint32{opTypeFloat, 3, 32}, // %3 = OpTypeFloat 32
		[]uint32{opConstant, 3, 6, 0x3f800000},
		[]uint32{opFunction, 1, 5, 0, 2},
		[]uint32{opLabel, 7},
		[]uint32{129, 3, 8, 6, 6},  // %8 = OpFAdd %3 %6 %6
		[]uint32{133, 3, 10, 8, 6}, // %10 = OpFMul %3 %8 %6
		[]uint32{253},              // OpReturn
		[]uint32{opFunctionEnd},
	)
}

func TestFromSPIRV(t *testing.T) {
	l, err := FromSPIRV(testModule())
	if err != nil {
		t.Fatalf("FromSPIRV() error = %v", err)
	}
	if l.Count() != 3 {
		t.Errorf("Count() = %d, want 3", l.Count())
	}

	text := l.String()
	for _, want := range []string{
		"OpCapability Shader",
		"OpMemoryModel Logical GLSL450",
		`OpEntryPoint Fragment %5 "main" %9`,
		`OpName %5 "main"`,
		"%3 = OpTypeFloat 32",
		"%6 = OpConstant %3 1065353216",
		"%5 = OpFunction %1 None %2",
		"   0: %8 = OpFAdd %3 %6 %6",
		"   1: %10 = OpFMul %3 %8 %6",
		"   2: OpReturn",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("listing missing %q\n%s", want, text)
		}
	}
}

func TestOnlyFunctionBodiesAreNumbered(t *testing.T) {
	l, err := FromSPIRV(testModule())
	if err != nil {
		t.Fatalf("FromSPIRV() error = %v", err)
	}
	var numbered []int
	for _, line := range l.Lines() {
		if n, ok := shaderdbg.ParseInstructionNumber(line); ok {
			numbered = append(numbered, n)
			continue
		}
		if strings.Contains(line, "OpFAdd") || strings.Contains(line, "OpReturn") {
			t.Errorf("body line %q has no instruction number", line)
		}
	}
	if len(numbered) != 3 || numbered[0] != 0 || numbered[2] != 2 {
		t.Errorf("numbered instructions = %v, want [0 1 2]", numbered)
	}
}

func TestFromSPIRVInvalid(t *testing.T) {
	good := testModule()
	badMagic := append([]byte(nil), good...)
	badMagic[0] = 0
	truncated := binary.LittleEndian.AppendUint32(append([]byte(nil), good...), 5<<16|253)
	// "main" fills its word exactly, so the terminating nul word is missing.
	unterminated := module(
		[]uint32{opCapability, 1},
		[]uint32{opEntryPoint, 4, 1, 0x6e69616d},
	)

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"short", []byte{3, 2, 0x23, 7}},
		{"bad magic", badMagic},
		{"truncated instruction", truncated},
		{"unterminated entry point name", unterminated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromSPIRV(tt.data); !errors.Is(err, ErrInvalidSPIRV) {
				t.Errorf("FromSPIRV() error = %v, want ErrInvalidSPIRV", err)
			}
		})
	}
}

func TestCompileWGSL(t *testing.T) {
	src := `
@fragment
fn main(@location(0) color: vec4<f32>) -> @location(0) vec4<f32> {
    return color * 2.0;
}
`
	l, err := CompileWGSL(src)
	if err != nil {
		t.Fatalf("CompileWGSL() error = %v", err)
	}
	if l.Count() == 0 {
		t.Fatalf("Count() = 0, listing:\n%s", l)
	}
	if !strings.Contains(l.String(), "OpEntryPoint Fragment") {
		t.Errorf("listing has no fragment entry point:\n%s", l)
	}
}

func TestCompileWGSLError(t *testing.T) {
	if _, err := CompileWGSL("fn ("); err == nil {
		t.Error("CompileWGSL(bad source) error = nil")
	}
}
