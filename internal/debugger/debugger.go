package debugger

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/brlang/compilador/internal/bytecode"
	"github.com/brlang/compilador/internal/vm"
)

// Debugger drives a *vm.VM through its Hook: before every instruction
// the VM calls back in, and onInstr decides whether the step flag or a
// breakpoint match means this is a pause point, running a
// read-eval-print loop over In if so (spec.md §4.9). The VM's own
// dispatch loop knows nothing about any of this.
type Debugger struct {
	VM *vm.VM

	in  *bufio.Scanner
	out io.Writer

	stepFlag    bool
	breakpoints map[string]map[int]bool
	quit        bool
}

// New attaches a Debugger to vmInst, reading commands from in and
// writing prompts/output to out (SPEC_FULL.md §4 "REPL line editing via
// bufio.Scanner", grounded on db47h-ngaro's cmd/retro/term.go buffered-
// reader pattern rather than a raw-terminal library — step-into-only
// debugging never needs cursor movement).
func New(vmInst *vm.VM, in io.Reader, out io.Writer) *Debugger {
	d := &Debugger{
		VM:          vmInst,
		in:          bufio.NewScanner(in),
		out:         out,
		breakpoints: make(map[string]map[int]bool),
	}
	vmInst.Hook = d.onInstr
	return d
}

// AddBreakpoint marks (codeID, ip) as a pause point. codeID "" defaults
// to the current frame's code_id at call time (`bp add <ip>`, spec.md
// §4.9).
func (d *Debugger) AddBreakpoint(codeID string, ip int) {
	if codeID == "" {
		if fr := d.VM.CurrentFrame(); fr != nil {
			codeID = fr.Code.CodeID
		}
	}
	if d.breakpoints[codeID] == nil {
		d.breakpoints[codeID] = make(map[int]bool)
	}
	d.breakpoints[codeID][ip] = true
}

func (d *Debugger) DelBreakpoint(codeID string, ip int) {
	if codeID == "" {
		if fr := d.VM.CurrentFrame(); fr != nil {
			codeID = fr.Code.CodeID
		}
	}
	delete(d.breakpoints[codeID], ip)
}

// ListBreakpoints returns every breakpoint, optionally filtered to
// codeID ("" lists all, `bp list`).
func (d *Debugger) ListBreakpoints(codeID string) []Breakpoint {
	var out []Breakpoint
	for cid, ips := range d.breakpoints {
		if codeID != "" && cid != codeID {
			continue
		}
		for ip := range ips {
			out = append(out, Breakpoint{CodeID: cid, IP: ip})
		}
	}
	return out
}

// LoadSession pre-loads bps into the breakpoint set (the `--bp-file`
// driver flag, SPEC_FULL.md §1).
func (d *Debugger) LoadSession(bps []Breakpoint) {
	for _, bp := range bps {
		d.AddBreakpoint(bp.CodeID, bp.IP)
	}
}

func (d *Debugger) hasBreakpoint(codeID string, ip int) bool {
	return d.breakpoints[codeID] != nil && d.breakpoints[codeID][ip]
}

// Run drives the VM to completion starting at codeID with args,
// pausing into the REPL wherever onInstr decides to.
func (d *Debugger) Run(codeID string, args []vm.Value) error {
	if err := d.VM.Start(codeID, args); err != nil {
		return err
	}
	for {
		if d.quit {
			return nil
		}
		done, err := d.VM.Step()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// onInstr is the VM.Hook callback: it runs before every instruction and
// decides, from the step flag and breakpoint set, whether to block on a
// REPL (spec.md §4.9 "Before each instruction, if the step flag is set
// OR (code_id, ip) ∈ breakpoints, execution pauses").
func (d *Debugger) onInstr(vmInst *vm.VM, instr bytecode.Instr) {
	fr := vmInst.CurrentFrame()
	if fr == nil {
		return
	}
	if !d.stepFlag && !d.hasBreakpoint(fr.Code.CodeID, fr.IP) {
		return
	}
	d.repl(fr, instr)
}

func (d *Debugger) repl(fr *vm.Frame, instr bytecode.Instr) {
	fmt.Fprintf(d.out, "%s:%d  %s\n", fr.Code.CodeID, fr.IP, instr)
	for {
		fmt.Fprint(d.out, "(dbg) ")
		if !d.in.Scan() {
			d.quit = true
			return
		}
		line := strings.TrimSpace(d.in.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "c", "cont":
			d.stepFlag = false
			return
		case "s", "step", "n":
			d.stepFlag = true
			return
		case "p":
			d.printStack()
		case "vars":
			d.printVars(fr)
		case "v":
			if len(fields) < 2 {
				fmt.Fprintln(d.out, "uso: v <nome>")
				continue
			}
			d.printVar(fr, fields[1])
		case "dis":
			n := 8
			if len(fields) > 1 {
				if parsed, err := strconv.Atoi(fields[1]); err == nil {
					n = parsed
				}
			}
			fmt.Fprint(d.out, bytecode.DisassembleRange(fr.Code, fr.IP, n))
		case "where":
			fmt.Fprintf(d.out, "%s:%d  %s\n", fr.Code.CodeID, fr.IP, instr)
		case "bp":
			d.bpCommand(fields[1:])
		case "help":
			d.printHelp()
		case "q":
			d.quit = true
			return
		default:
			fmt.Fprintf(d.out, "comando desconhecido: %s (digite 'help')\n", fields[0])
		}
	}
}

func (d *Debugger) bpCommand(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(d.out, "uso: bp add|del|list [code_id] <ip>")
		return
	}
	switch args[0] {
	case "add", "del":
		codeID, ip, ok := parseBPTarget(args[1:])
		if !ok {
			fmt.Fprintln(d.out, "uso: bp add|del [code_id] <ip>")
			return
		}
		if args[0] == "add" {
			d.AddBreakpoint(codeID, ip)
		} else {
			d.DelBreakpoint(codeID, ip)
		}
	case "list":
		codeID := ""
		if len(args) > 1 {
			codeID = args[1]
		}
		for _, bp := range d.ListBreakpoints(codeID) {
			fmt.Fprintf(d.out, "  %s:%d\n", bp.CodeID, bp.IP)
		}
	default:
		fmt.Fprintln(d.out, "uso: bp add|del|list [code_id] <ip>")
	}
}

// parseBPTarget accepts either "<ip>" (current code_id) or "<code_id>
// <ip>".
func parseBPTarget(args []string) (codeID string, ip int, ok bool) {
	switch len(args) {
	case 1:
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return "", 0, false
		}
		return "", n, true
	case 2:
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return "", 0, false
		}
		return args[0], n, true
	default:
		return "", 0, false
	}
}

func (d *Debugger) printStack() {
	stack := d.VM.StackSnapshot()
	fmt.Fprintf(d.out, "pilha (%d valores, fundo -> topo):\n", len(stack))
	for i, v := range stack {
		fmt.Fprintf(d.out, "  [%d] %s\n", i, v.ToText())
	}
}

func (d *Debugger) printVars(fr *vm.Frame) {
	for slot, name := range fr.Code.LocalNames {
		if name == "" || slot >= len(fr.Locals) {
			continue
		}
		fmt.Fprintf(d.out, "  %s = %s\n", name, fr.Locals[slot].ToText())
	}
}

func (d *Debugger) printVar(fr *vm.Frame, name string) {
	for slot, n := range fr.Code.LocalNames {
		if n == name && slot < len(fr.Locals) {
			fmt.Fprintf(d.out, "  %s = %s\n", name, fr.Locals[slot].ToText())
			return
		}
	}
	fmt.Fprintf(d.out, "variável não encontrada: %s\n", name)
}

func (d *Debugger) printHelp() {
	fmt.Fprint(d.out, `comandos:
  c, cont            continua a execução
  s, step, n         executa uma instrução
  p                  imprime a pilha de operandos
  vars               lista variáveis visíveis
  v <nome>           imprime uma variável
  dis [n]            desmonta as próximas n instruções (padrão 8)
  where              mostra code_id, ip e a instrução atual
  bp add [id] <ip>   adiciona um ponto de parada
  bp del [id] <ip>   remove um ponto de parada
  bp list [id]       lista pontos de parada
  q                  encerra a sessão
`)
}
