package vm

import (
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/brlang/compilador/internal/bytecode"
)

// VM is one execution of a *bytecode.Module: an operand stack, a call
// stack of frames, the module's resolved runtime class table, and the
// output sink `imprima` writes to. Construct with New, which also runs
// the module's static initializer.
type VM struct {
	Module  *bytecode.Module
	Classes []*ClassInfo

	Stack  []Value
	Frames []*Frame

	Out io.Writer
	Log *logrus.Logger

	// Hook, when set, is called before every instruction with the VM and
	// the instruction about to execute; the debugger installs one to
	// implement breakpoints/stepping (spec.md §4.9) without the VM's own
	// dispatch loop needing to know anything about debugger state.
	Hook func(vm *VM, instr bytecode.Instr)
}

// New builds a VM over mod and runs its static initializer
// ("global:init") to completion before returning (spec.md §9 "Globals
// and static initialization" — statics must be live before any other
// code block runs).
func New(mod *bytecode.Module, out io.Writer, log *logrus.Logger) (*VM, error) {
	if log == nil {
		log = logrus.New()
	}
	vm := &VM{
		Module:  mod,
		Classes: buildClasses(mod),
		Out:     out,
		Log:     log,
	}
	initIdx := mod.FindMethod(mod.GlobalInitCodeID)
	if initIdx == -1 {
		return nil, errors.Errorf("módulo sem bloco de inicialização estática %q", mod.GlobalInitCodeID)
	}
	if err := vm.callByIndex(initIdx, nil); err != nil {
		return nil, errors.Wrap(err, "inicialização estática")
	}
	return vm, nil
}

// Run executes the module's entry point (spec.md §4.9 "global") to
// completion.
func (vm *VM) Run() error {
	entryIdx := vm.Module.FindMethod(vm.Module.EntryCodeID)
	if entryIdx == -1 {
		return errors.Errorf("módulo sem ponto de entrada %q", vm.Module.EntryCodeID)
	}
	return vm.callByIndex(entryIdx, nil)
}

// RunFunction executes the zero-argument method/function named by
// codeID instead of the module's default entry point, backing the
// driver's `--executar-funcao` flag (SPEC_FULL.md §1, spec.md §6).
func (vm *VM) RunFunction(codeID string) error {
	idx := vm.Module.FindMethod(codeID)
	if idx == -1 {
		return errors.Errorf("função/método %q não encontrado no módulo", codeID)
	}
	return vm.callByIndex(idx, nil)
}

// callByIndex pushes a frame for methods[idx], copies args into its
// locals, and runs to completion (frame count back to its entry depth)
// before returning — the synchronous call convention every opcode-level
// CALL_* also uses, just driven directly instead of through the operand
// stack (used for the static initializer and the driver's two top-level
// entry points).
func (vm *VM) callByIndex(idx int, args []Value) error {
	code := vm.Module.Methods[idx].Code
	fr := newFrame(code)
	copy(fr.Locals, args)
	baseDepth := len(vm.Frames)
	vm.Frames = append(vm.Frames, fr)

	for len(vm.Frames) > baseDepth {
		if err := vm.step(); err != nil {
			return err
		}
	}
	return nil
}

// Start pushes the frame for the module's entry point (or a selected
// function/method) without running it, for the debugger's
// instruction-at-a-time driver (spec.md §4.9).
func (vm *VM) Start(codeID string, args []Value) error {
	idx := vm.Module.FindMethod(codeID)
	if idx == -1 {
		return errors.Errorf("bloco de código %q não encontrado", codeID)
	}
	code := vm.Module.Methods[idx].Code
	fr := newFrame(code)
	copy(fr.Locals, args)
	vm.Frames = append(vm.Frames, fr)
	return nil
}

// Step executes exactly one instruction of the current top frame. It
// reports done=true once the frame stack empties (the running program
// has returned from its entry point).
func (vm *VM) Step() (done bool, err error) {
	if len(vm.Frames) == 0 {
		return true, nil
	}
	if err := vm.step(); err != nil {
		return false, err
	}
	return len(vm.Frames) == 0, nil
}

// CurrentFrame returns the top-of-call-stack frame, or nil if the VM
// isn't mid-execution.
func (vm *VM) CurrentFrame() *Frame {
	if len(vm.Frames) == 0 {
		return nil
	}
	return vm.Frames[len(vm.Frames)-1]
}

// StackSnapshot returns a copy of the operand stack, bottom to top
// (spec.md §4.9's `p` debugger command).
func (vm *VM) StackSnapshot() []Value {
	return append([]Value(nil), vm.Stack...)
}

func (vm *VM) push(v Value) { vm.Stack = append(vm.Stack, v) }

func (vm *VM) pop() (Value, error) {
	if len(vm.Stack) == 0 {
		return Value{}, vm.fault("pilha de operandos vazia")
	}
	v := vm.Stack[len(vm.Stack)-1]
	vm.Stack = vm.Stack[:len(vm.Stack)-1]
	return v, nil
}

func (vm *VM) popN(n int) ([]Value, error) {
	if len(vm.Stack) < n {
		return nil, vm.fault("pilha de operandos insuficiente: esperava %d valores", n)
	}
	out := append([]Value(nil), vm.Stack[len(vm.Stack)-n:]...)
	vm.Stack = vm.Stack[:len(vm.Stack)-n]
	return out, nil
}
