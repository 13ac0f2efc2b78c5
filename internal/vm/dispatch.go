package vm

import (
	"fmt"
	"unicode/utf8"

	"github.com/brlang/compilador/internal/bytecode"
)

// step executes exactly one instruction of the current top frame,
// advancing its IP (or replacing it, for jumps and calls) — the same
// recover-free, switch-on-opcode shape as db47h-ngaro's
// Instance.Run loop, generalized to a frame stack instead of a single
// flat image. callByIndex (behind New, Run and RunFunction) loops this
// until the frame it pushed has returned; Step calls it once.
func (vm *VM) step() error {
	fr := vm.Frames[len(vm.Frames)-1]
	if fr.IP < 0 || fr.IP >= len(fr.Code.Instrs) {
		return vm.fault("ponteiro de instrução fora do alcance: %d", fr.IP)
	}
	instr := fr.Code.Instrs[fr.IP]
	if vm.Hook != nil {
		vm.Hook(vm, instr)
	}
	fr.IP++

	switch instr.Op {
	case bytecode.OpLoadConstInt:
		c, err := vm.constAt(instr.A)
		if err != nil {
			return err
		}
		vm.push(IntVal(c.IntVal))
	case bytecode.OpLoadConstDecimal:
		c, err := vm.constAt(instr.A)
		if err != nil {
			return err
		}
		vm.push(FloatVal(c.FloatVal))
	case bytecode.OpLoadConstText:
		c, err := vm.constAt(instr.A)
		if err != nil {
			return err
		}
		vm.push(TextVal(c.TextVal))
	case bytecode.OpLoadConstEnum:
		c, err := vm.constAt(instr.A)
		if err != nil {
			return err
		}
		vm.push(EnumVal(c.TextVal, int64(instr.B)))
	case bytecode.OpLoadBool:
		vm.push(BoolVal(instr.A != 0))
	case bytecode.OpLoadNull:
		vm.push(Null())

	case bytecode.OpLoadLocal:
		if instr.A < 0 || instr.A >= len(fr.Locals) {
			return vm.fault("slot local fora do alcance: %d", instr.A)
		}
		vm.push(fr.Locals[instr.A])
	case bytecode.OpStoreLocal:
		v, err := vm.pop()
		if err != nil {
			return err
		}
		if instr.A < 0 || instr.A >= len(fr.Locals) {
			return vm.fault("slot local fora do alcance: %d", instr.A)
		}
		fr.Locals[instr.A] = v

	case bytecode.OpLoadStatic:
		ci, err := vm.classAt(instr.A)
		if err != nil {
			return err
		}
		v, ok := lookupStatic(ci, instr.Str)
		if !ok {
			return vm.fault("campo estático %s.%s não encontrado", ci.FQN, instr.Str)
		}
		vm.push(v)
	case bytecode.OpStoreStatic:
		v, err := vm.pop()
		if err != nil {
			return err
		}
		ci, err := vm.classAt(instr.A)
		if err != nil {
			return err
		}
		ci.Statics[instr.Str] = v

	case bytecode.OpNew:
		if err := vm.execNew(instr); err != nil {
			return err
		}

	case bytecode.OpLoadField, bytecode.OpLoadProp:
		obj, err := vm.popObject()
		if err != nil {
			return err
		}
		v, ok := obj.Fields[instr.Str]
		if !ok {
			return vm.fault("campo %s não encontrado em %s", instr.Str, obj.Class.FQN)
		}
		vm.push(v)
	case bytecode.OpStoreField, bytecode.OpStoreProp:
		v, err := vm.pop()
		if err != nil {
			return err
		}
		obj, err := vm.popObject()
		if err != nil {
			return err
		}
		obj.Fields[instr.Str] = v

	case bytecode.OpNewArray:
		spelling := ""
		if c, err := vm.constAt(instr.A); err == nil {
			spelling = c.TextVal
		}
		vm.push(ArrayVal(&Array{ElemType: spelling, Items: make([]Value, instr.B)}))
	case bytecode.OpLoadIndex:
		idx, err := vm.pop()
		if err != nil {
			return err
		}
		arr, err := vm.pop()
		if err != nil {
			return err
		}
		if arr.Kind != KindArray || arr.Arr == nil {
			return vm.fault("acesso a índice em vetor nulo")
		}
		vm.push(arr.Arr.Items[idx.I])
	case bytecode.OpStoreIndex:
		val, err := vm.pop()
		if err != nil {
			return err
		}
		idx, err := vm.pop()
		if err != nil {
			return err
		}
		arr, err := vm.pop()
		if err != nil {
			return err
		}
		if arr.Kind != KindArray || arr.Arr == nil {
			return vm.fault("acesso a índice em vetor nulo")
		}
		arr.Arr.Items[idx.I] = val
	case bytecode.OpArrayLen:
		v, err := vm.pop()
		if err != nil {
			return err
		}
		switch v.Kind {
		case KindArray:
			if v.Arr == nil {
				return vm.fault("tamanho de vetor nulo")
			}
			vm.push(IntVal(int64(len(v.Arr.Items))))
		case KindText:
			vm.push(IntVal(int64(utf8.RuneCountInString(v.S))))
		default:
			return vm.fault("tamanho/comprimento em tipo inválido: %s", v.Kind)
		}
	case bytecode.OpCheckBounds:
		if len(vm.Stack) < 2 {
			return vm.fault("pilha insuficiente para verificação de limites")
		}
		arr := vm.Stack[len(vm.Stack)-2]
		idx := vm.Stack[len(vm.Stack)-1]
		if arr.Kind != KindArray || arr.Arr == nil {
			return vm.fault("acesso a índice em vetor nulo")
		}
		if idx.Kind != KindInt {
			return vm.fault("índice com tipo inválido: %s", idx.Kind)
		}
		if idx.I < 0 || idx.I >= int64(len(arr.Arr.Items)) {
			return vm.fault("índice fora dos limites: %d (tamanho %d)", idx.I, len(arr.Arr.Items))
		}

	case bytecode.OpAddI, bytecode.OpSubI, bytecode.OpMulI, bytecode.OpDivI, bytecode.OpModI:
		if err := vm.arithInt(instr.Op); err != nil {
			return err
		}
	case bytecode.OpAddD, bytecode.OpSubD, bytecode.OpMulD, bytecode.OpDivD, bytecode.OpModD:
		if err := vm.arithFloat(instr.Op); err != nil {
			return err
		}
	case bytecode.OpNeg:
		v, err := vm.pop()
		if err != nil {
			return err
		}
		switch v.Kind {
		case KindInt:
			vm.push(IntVal(-v.I))
		case KindFloat:
			vm.push(FloatVal(-v.F))
		default:
			return vm.fault("operador unário - em tipo inválido: %s", v.Kind)
		}
	case bytecode.OpNot:
		v, err := vm.pop()
		if err != nil {
			return err
		}
		if v.Kind != KindBool {
			return vm.fault("operador ! em tipo não booleano: %s", v.Kind)
		}
		vm.push(BoolVal(!v.Bool()))
	case bytecode.OpIntToFloat:
		v, err := vm.pop()
		if err != nil {
			return err
		}
		if v.Kind != KindInt {
			return vm.fault("INT_TO_FLOAT em tipo não inteiro: %s", v.Kind)
		}
		vm.push(FloatVal(float64(v.I)))

	case bytecode.OpEq, bytecode.OpNe, bytecode.OpLt, bytecode.OpLe, bytecode.OpGt, bytecode.OpGe:
		if err := vm.compare(instr.Op); err != nil {
			return err
		}

	case bytecode.OpAnd:
		b, a, err := vm.popTwo()
		if err != nil {
			return err
		}
		if a.Kind != KindBool || b.Kind != KindBool {
			return vm.fault("AND em tipo não booleano")
		}
		vm.push(BoolVal(a.Bool() && b.Bool()))
	case bytecode.OpOr:
		b, a, err := vm.popTwo()
		if err != nil {
			return err
		}
		if a.Kind != KindBool || b.Kind != KindBool {
			return vm.fault("OR em tipo não booleano")
		}
		vm.push(BoolVal(a.Bool() || b.Bool()))

	case bytecode.OpJmp:
		fr.IP = instr.A
	case bytecode.OpJmpIfFalse:
		v, err := vm.pop()
		if err != nil {
			return err
		}
		if v.Kind != KindBool {
			return vm.fault("condição de salto com tipo não booleano: %s", v.Kind)
		}
		if !v.Bool() {
			fr.IP = instr.A
		}
	case bytecode.OpJmpIfTrue:
		v, err := vm.pop()
		if err != nil {
			return err
		}
		if v.Kind != KindBool {
			return vm.fault("condição de salto com tipo não booleano: %s", v.Kind)
		}
		if v.Bool() {
			fr.IP = instr.A
		}

	case bytecode.OpCallFunc, bytecode.OpCallStatic, bytecode.OpCallBase:
		if instr.A < 0 || instr.A >= len(vm.Module.Methods) {
			return vm.fault("índice de método fora do alcance: %d", instr.A)
		}
		if err := vm.doCall(vm.Module.Methods[instr.A].Code, instr.B); err != nil {
			return err
		}
	case bytecode.OpCallMethod:
		if err := vm.execCallMethod(instr); err != nil {
			return err
		}

	case bytecode.OpRet:
		if err := vm.execReturn(true); err != nil {
			return err
		}
	case bytecode.OpRetVoid:
		if err := vm.execReturn(false); err != nil {
			return err
		}

	case bytecode.OpPrint:
		v, err := vm.pop()
		if err != nil {
			return err
		}
		if v.Kind != KindText {
			return vm.fault("PRINT recebeu valor não textual: %s", v.Kind)
		}
		if vm.Out != nil {
			fmt.Fprintln(vm.Out, v.S)
		}

	case bytecode.OpConcat:
		b, a, err := vm.popTwo()
		if err != nil {
			return err
		}
		if a.Kind != KindText || b.Kind != KindText {
			return vm.fault("CONCAT em operando não textual")
		}
		vm.push(TextVal(a.S + b.S))
	case bytecode.OpToText:
		v, err := vm.pop()
		if err != nil {
			return err
		}
		vm.push(TextVal(v.ToText()))

	case bytecode.OpPop:
		if _, err := vm.pop(); err != nil {
			return err
		}
	case bytecode.OpDup:
		if len(vm.Stack) == 0 {
			return vm.fault("DUP em pilha vazia")
		}
		vm.push(vm.Stack[len(vm.Stack)-1])

	default:
		return vm.fault("opcode não implementado: %s", instr.Op)
	}
	return nil
}

func (vm *VM) constAt(idx int) (bytecode.Const, error) {
	if idx < 0 || idx >= len(vm.Module.Consts) {
		return bytecode.Const{}, vm.fault("índice de constante fora do alcance: %d", idx)
	}
	return vm.Module.Consts[idx], nil
}

func (vm *VM) classAt(idx int) (*ClassInfo, error) {
	if idx < 0 || idx >= len(vm.Classes) {
		return nil, vm.fault("índice de classe fora do alcance: %d", idx)
	}
	return vm.Classes[idx], nil
}

func (vm *VM) popObject() (*Object, error) {
	v, err := vm.pop()
	if err != nil {
		return nil, err
	}
	if v.Kind != KindObject || v.Obj == nil {
		return nil, vm.fault("acesso a membro em referência nula")
	}
	return v.Obj, nil
}

// popTwo pops the top two stack values, returning (top, second-from-top)
// — i.e. (right-hand operand, left-hand operand) for a binary op whose
// operands were pushed left-then-right.
func (vm *VM) popTwo() (top, second Value, err error) {
	vals, err := vm.popN(2)
	if err != nil {
		return Value{}, Value{}, err
	}
	return vals[1], vals[0], nil
}

// lookupStatic walks ci's base chain for a static field, the runtime
// mirror of symtab.ClassInfo.LookupMember's inherited-member search.
func lookupStatic(ci *ClassInfo, name string) (Value, bool) {
	for c := ci; c != nil; c = c.Base {
		if v, ok := c.Statics[name]; ok {
			return v, true
		}
	}
	return Value{}, false
}

func (vm *VM) execNew(instr bytecode.Instr) error {
	args, err := vm.popN(instr.B)
	if err != nil {
		return err
	}
	ci, err := vm.classAt(instr.A)
	if err != nil {
		return err
	}
	if ci.Abstract {
		return vm.fault("não é possível instanciar classe abstrata %s", ci.FQN)
	}
	ctorIdx, ok := ci.Record.Constructors[instr.B]
	if !ok {
		return vm.fault("construtor de %s com %d argumento(s) não encontrado", ci.FQN, instr.B)
	}
	obj := &Object{Class: ci, Fields: ci.defaultFieldValues(vm.Module)}
	code := vm.Module.Methods[ctorIdx].Code
	fr := newFrame(code)
	fr.Locals[0] = ObjectVal(obj)
	copy(fr.Locals[1:], args)
	ret := ObjectVal(obj)
	fr.returnOverride = &ret
	vm.Frames = append(vm.Frames, fr)
	return nil
}

// doCall pops argc arguments (plus one more for este, when code.HasEste)
// and pushes a new frame over them — the shared call path for
// CALL_FUNC, CALL_STATIC, and CALL_BASE (spec.md §4.8's calling
// convention, see CodeBlock.HasEste's doc comment).
func (vm *VM) doCall(code *bytecode.CodeBlock, argc int) error {
	args, err := vm.popN(argc)
	if err != nil {
		return err
	}
	fr := newFrame(code)
	if code.HasEste {
		recv, err := vm.pop()
		if err != nil {
			return err
		}
		fr.Locals[0] = recv
		copy(fr.Locals[1:], args)
	} else {
		copy(fr.Locals, args)
	}
	vm.Frames = append(vm.Frames, fr)
	return nil
}

func (vm *VM) execCallMethod(instr bytecode.Instr) error {
	args, err := vm.popN(instr.B)
	if err != nil {
		return err
	}
	recv, err := vm.pop()
	if err != nil {
		return err
	}
	if recv.Kind != KindObject || recv.Obj == nil {
		return vm.fault("chamada de método virtual em referência nula")
	}
	vtable := recv.Obj.Class.Record.Vtable
	if instr.A < 0 || instr.A >= len(vtable) {
		return vm.fault("slot de vtable fora do alcance: %d", instr.A)
	}
	methodIdx := vtable[instr.A].MethodIdx
	if methodIdx < 0 || methodIdx >= len(vm.Module.Methods) {
		return vm.fault("método não encontrado em vtable (slot %d)", instr.A)
	}
	code := vm.Module.Methods[methodIdx].Code
	fr := newFrame(code)
	fr.Locals[0] = recv
	copy(fr.Locals[1:], args)
	vm.Frames = append(vm.Frames, fr)
	return nil
}

func (vm *VM) execReturn(hasValue bool) error {
	fr := vm.Frames[len(vm.Frames)-1]
	vm.Frames = vm.Frames[:len(vm.Frames)-1]
	if fr.returnOverride != nil {
		if hasValue {
			if _, err := vm.pop(); err != nil {
				return err
			}
		}
		vm.push(*fr.returnOverride)
	}
	return nil
}
