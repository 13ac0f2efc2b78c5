package bytecode

import (
	"fmt"
	"strings"
)

// Disassemble renders code as one line per instruction, index-prefixed,
// under a header line; DisassembleModule uses it for `compilador
// --dump-bytecode`, and DisassembleRange (the debugger's `dis` command)
// renders each instruction through the same Instr.String (grounded on
// db47h-ngaro's cmd/retro/dump.go disassembler shared across its own dump
// flag and its debugger).
func Disassemble(code *CodeBlock) string {
	var b strings.Builder
	fmt.Fprintf(&b, "; %s (params=%d locals=%d este=%v)\n", code.CodeID, code.NParams, code.NLocals, code.HasEste)
	for ip, instr := range code.Instrs {
		fmt.Fprintf(&b, "%4d  %s\n", ip, instr.String())
	}
	return b.String()
}

// DisassembleRange renders at most n instructions starting at ip (the
// debugger's `dis [n]` command), clamping to the code block's length.
func DisassembleRange(code *CodeBlock, ip, n int) string {
	if n <= 0 {
		n = 8
	}
	end := ip + n
	if end > len(code.Instrs) {
		end = len(code.Instrs)
	}
	var b strings.Builder
	for i := ip; i < end; i++ {
		fmt.Fprintf(&b, "%4d  %s\n", i, code.Instrs[i].String())
	}
	return b.String()
}

// DisassembleModule renders every method's code block in Module.Methods
// order, for `compilador --dump-bytecode`.
func DisassembleModule(mod *Module) string {
	var b strings.Builder
	fmt.Fprintf(&b, "; constantes (%d)\n", len(mod.Consts))
	for i, c := range mod.Consts {
		fmt.Fprintf(&b, ";   %4d  %s\n", i, c)
	}
	for _, mr := range mod.Methods {
		b.WriteString(Disassemble(mr.Code))
		b.WriteString("\n")
	}
	return b.String()
}
