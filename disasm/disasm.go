package disasm

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/spirv"

	"github.com/gogpu/framedbg"
)

const spirvMagic = 0x07230203

// ErrInvalidSPIRV is returned for binaries that are not well-formed SPIR-V.
var ErrInvalidSPIRV = errors.New("disasm: invalid SPIR-V")

// Listing is a disassembled shader.
type Listing struct {
	lines []string
	count int
}

// Lines returns the listing text, one entry per line.
func (l *Listing) Lines() []string { return l.lines }

// Count returns the number of numbered (executable) instructions.
func (l *Listing) Count() int { return l.count }

// String joins the lines with newlines.
func (l *Listing) String() string { return strings.Join(l.lines, "\n") }

// CompileWGSL compiles WGSL source with naga and disassembles the result.
// IR validation is skipped; the listing is for inspection only.
func CompileWGSL(src string) (*Listing, error) {
	spv, err := naga.CompileWithOptions(src, naga.CompileOptions{
		SPIRVVersion: spirv.Version1_3,
	})
	if err != nil {
		return nil, fmt.Errorf("disasm: compile: %w", err)
	}
	return FromSPIRV(spv)
}

// FromSPIRV disassembles a SPIR-V binary.
func FromSPIRV(data []byte) (*Listing, error) {
	if len(data) < 20 || len(data)%4 != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidSPIRV, len(data))
	}
	if magic := binary.LittleEndian.Uint32(data); magic != spirvMagic {
		return nil, fmt.Errorf("%w: magic 0x%08X", ErrInvalidSPIRV, magic)
	}

	version := binary.LittleEndian.Uint32(data[4:])
	l := &Listing{
		lines: []string{
			"; SPIR-V",
			fmt.Sprintf("; Version: %d.%d", (version>>16)&0xFF, (version>>8)&0xFF),
			fmt.Sprintf("; Bound: %d", binary.LittleEndian.Uint32(data[12:])),
		},
	}

	inFunction := false
	for offset := 20; offset < len(data); {
		word := binary.LittleEndian.Uint32(data[offset:])
		op := uint16(word & 0xFFFF)
		wordCount := int(word >> 16)
		if wordCount == 0 || offset+wordCount*4 > len(data) {
			return nil, fmt.Errorf("%w: word count %d at offset 0x%X", ErrInvalidSPIRV, wordCount, offset)
		}

		ops := make([]uint32, wordCount-1)
		for i := range ops {
			ops[i] = binary.LittleEndian.Uint32(data[offset+4+i*4:])
		}
		text, err := format(op, ops)
		if err != nil {
			return nil, fmt.Errorf("%w: %s at offset 0x%X: %v", ErrInvalidSPIRV, opcodeName(op), offset, err)
		}

		switch {
		case op == opFunction:
			if len(l.lines) > 3 {
				l.lines = append(l.lines, "")
			}
			l.lines = append(l.lines, "      "+text)
			inFunction = true
		case op == opFunctionEnd:
			l.lines = append(l.lines, "      "+text)
			inFunction = false
		case inFunction && op != opFunctionParam && op != opLabel:
			l.lines = append(l.lines, fmt.Sprintf("%4d: %s", l.count, text))
			l.count++
		default:
			l.lines = append(l.lines, "      "+text)
		}
		offset += wordCount * 4
	}

	framedbg.Logger().Debug("disasm: listing built",
		"instructions", l.count, "lines", len(l.lines))
	return l, nil
}

var errShortOperands = errors.New("too few operands")

func id(n uint32) string { return "%" + strconv.FormatUint(uint64(n), 10) }

// format renders one instruction. ops excludes the opcode word.
func format(op uint16, ops []uint32) (string, error) {
	var sb strings.Builder

	switch kindOf(op) {
	case resultOnly:
		if len(ops) < 1 {
			return "", errShortOperands
		}
		sb.WriteString(id(ops[0]) + " = " + opcodeName(op))
		ops = ops[1:]
	case typedResult:
		if len(ops) < 2 {
			return "", errShortOperands
		}
		sb.WriteString(id(ops[1]) + " = " + opcodeName(op) + " " + id(ops[0]))
		ops = ops[2:]
	default:
		sb.WriteString(opcodeName(op))
	}

	args, err := operands(op, ops)
	if err != nil {
		return "", err
	}
	for _, a := range args {
		sb.WriteByte(' ')
		sb.WriteString(a)
	}
	return sb.String(), nil
}

// operands renders the operands after the result type and id.
func operands(op uint16, ops []uint32) ([]string, error) {
	need := func(n int) error {
		if len(ops) < n {
			return errShortOperands
		}
		return nil
	}

	switch op {
	case opCapability:
		if err := need(1); err != nil {
			return nil, err
		}
		return []string{lookup(capabilities, ops[0])}, nil

	case opName, opExtInstImport, opString, opExtension:
		if op == opName {
			if err := need(1); err != nil {
				return nil, err
			}
			return []string{id(ops[0]), strconv.Quote(literalString(ops[1:]))}, nil
		}
		return []string{strconv.Quote(literalString(ops))}, nil

	case opMemberName:
		if err := need(2); err != nil {
			return nil, err
		}
		return []string{id(ops[0]), strconv.FormatUint(uint64(ops[1]), 10), strconv.Quote(literalString(ops[2:]))}, nil

	case opMemoryModel:
		if err := need(2); err != nil {
			return nil, err
		}
		addr := map[uint32]string{0: "Logical", 1: "Physical32", 2: "Physical64"}
		mem := map[uint32]string{0: "Simple", 1: "GLSL450", 2: "OpenCL", 3: "Vulkan"}
		return []string{lookup(addr, ops[0]), lookup(mem, ops[1])}, nil

	case opEntryPoint:
		if err := need(2); err != nil {
			return nil, err
		}
		name := literalString(ops[2:])
		rest := 2 + stringWords(name)
		if rest > len(ops) {
			return nil, errShortOperands
		}
		out := []string{lookup(executionModels, ops[0]), id(ops[1]), strconv.Quote(name)}
		for _, v := range ops[rest:] {
			out = append(out, id(v))
		}
		return out, nil

	case opExecutionMode:
		if err := need(2); err != nil {
			return nil, err
		}
		return append([]string{id(ops[0]), lookup(executionModes, ops[1])}, literals(ops[2:])...), nil

	case opSource:
		return literals(ops), nil

	case opDecorate:
		if err := need(2); err != nil {
			return nil, err
		}
		out := []string{id(ops[0]), lookup(decorations, ops[1])}
		if ops[1] == 11 && len(ops) > 2 {
			return append(out, lookup(builtins, ops[2])), nil
		}
		return append(out, literals(ops[2:])...), nil

	case opMemberDecorate:
		if err := need(3); err != nil {
			return nil, err
		}
		out := []string{id(ops[0]), strconv.FormatUint(uint64(ops[1]), 10), lookup(decorations, ops[2])}
		if ops[2] == 11 && len(ops) > 3 {
			return append(out, lookup(builtins, ops[3])), nil
		}
		return append(out, literals(ops[3:])...), nil

	case opTypeInt:
		return literals(ops), nil

	case opTypeFloat:
		return literals(ops), nil

	case opTypeVector, opTypeMatrix:
		if err := need(2); err != nil {
			return nil, err
		}
		return []string{id(ops[0]), strconv.FormatUint(uint64(ops[1]), 10)}, nil

	case opTypePointer:
		if err := need(2); err != nil {
			return nil, err
		}
		return []string{lookup(storageClasses, ops[0]), id(ops[1])}, nil

	case opConstant:
		return literals(ops), nil

	case opVariable:
		if err := need(1); err != nil {
			return nil, err
		}
		return append([]string{lookup(storageClasses, ops[0])}, ids(ops[1:])...), nil

	case opFunction:
		if err := need(2); err != nil {
			return nil, err
		}
		return []string{functionControl(ops[0]), id(ops[1])}, nil

	case opExtInst:
		if err := need(2); err != nil {
			return nil, err
		}
		return append([]string{id(ops[0]), strconv.FormatUint(uint64(ops[1]), 10)}, ids(ops[2:])...), nil

	case opCompositeExtract:
		if err := need(1); err != nil {
			return nil, err
		}
		return append([]string{id(ops[0])}, literals(ops[1:])...), nil

	case opCompositeInsert:
		if err := need(2); err != nil {
			return nil, err
		}
		return append(ids(ops[:2]), literals(ops[2:])...), nil

	case opVectorShuffle:
		if err := need(2); err != nil {
			return nil, err
		}
		return append(ids(ops[:2]), literals(ops[2:])...), nil

	case opSelectionMerge:
		if err := need(1); err != nil {
			return nil, err
		}
		return []string{id(ops[0]), "None"}, nil

	case opLoopMerge:
		if err := need(2); err != nil {
			return nil, err
		}
		return []string{id(ops[0]), id(ops[1]), "None"}, nil
	}

	return ids(ops), nil
}

func ids(ops []uint32) []string {
	out := make([]string, len(ops))
	for i, v := range ops {
		out[i] = id(v)
	}
	return out
}

func literals(ops []uint32) []string {
	out := make([]string, len(ops))
	for i, v := range ops {
		out[i] = strconv.FormatUint(uint64(v), 10)
	}
	return out
}

func functionControl(v uint32) string {
	switch v {
	case 0:
		return "None"
	case 1:
		return "Inline"
	case 2:
		return "DontInline"
	case 4:
		return "Pure"
	case 8:
		return "Const"
	}
	return strconv.FormatUint(uint64(v), 10)
}

// literalString decodes a nul-terminated UTF-8 string packed into words.
func literalString(ops []uint32) string {
	var sb strings.Builder
	for _, w := range ops {
		for shift := 0; shift < 32; shift += 8 {
			b := byte(w >> shift)
			if b == 0 {
				return sb.String()
			}
			sb.WriteByte(b)
		}
	}
	return sb.String()
}

// stringWords returns how many words a literal string of s occupies.
func stringWords(s string) int {
	return len(s)/4 + 1
}
