// Package disasm produces the numbered instruction listing that the shader
// stepper walks.
//
// Shaders are compiled from WGSL to SPIR-V with github.com/gogpu/naga and
// disassembled into text. Every instruction inside a function body gets a
// "%4d: " prefix carrying its instruction number; module-level declarations
// and function headers are printed without one:
//
//	l, err := disasm.CompileWGSL(src)
//	if err != nil {
//		return err
//	}
//	for _, line := range l.Lines() {
//		fmt.Println(line)
//	}
package disasm
