package vm

import "github.com/brlang/compilador/internal/bytecode"

// arithInt pops two KindInt operands (left pushed before right, per
// emitter_expr.go's prepareNumericOperands) and pushes the op's integer
// result (spec.md §4.8's "type tag mismatch" / "division or modulo by
// zero" failure modes).
func (vm *VM) arithInt(op bytecode.Op) error {
	right, left, err := vm.popTwo()
	if err != nil {
		return err
	}
	if left.Kind != KindInt || right.Kind != KindInt {
		return vm.fault("operação aritmética inteira em operando não inteiro")
	}
	switch op {
	case bytecode.OpAddI:
		vm.push(IntVal(left.I + right.I))
	case bytecode.OpSubI:
		vm.push(IntVal(left.I - right.I))
	case bytecode.OpMulI:
		vm.push(IntVal(left.I * right.I))
	case bytecode.OpDivI:
		if right.I == 0 {
			return vm.fault("divisão por zero")
		}
		vm.push(IntVal(left.I / right.I))
	case bytecode.OpModI:
		if right.I == 0 {
			return vm.fault("módulo por zero")
		}
		vm.push(IntVal(left.I % right.I))
	}
	return nil
}

// arithFloat is arithInt's float64 counterpart, backing both decimal and
// duplo (DESIGN.md's Open Question decision: both share the float64
// runtime representation, distinguished only at the type-checker level).
func (vm *VM) arithFloat(op bytecode.Op) error {
	right, left, err := vm.popTwo()
	if err != nil {
		return err
	}
	if left.Kind != KindFloat || right.Kind != KindFloat {
		return vm.fault("operação aritmética decimal em operando não decimal")
	}
	switch op {
	case bytecode.OpAddD:
		vm.push(FloatVal(left.F + right.F))
	case bytecode.OpSubD:
		vm.push(FloatVal(left.F - right.F))
	case bytecode.OpMulD:
		vm.push(FloatVal(left.F * right.F))
	case bytecode.OpDivD:
		if right.F == 0 {
			return vm.fault("divisão por zero")
		}
		vm.push(FloatVal(left.F / right.F))
	case bytecode.OpModD:
		if right.F == 0 {
			return vm.fault("módulo por zero")
		}
		vm.push(FloatVal(modFloat(left.F, right.F)))
	}
	return nil
}

func modFloat(a, b float64) float64 {
	return a - b*float64(int64(a/b))
}

// compare implements EQ/NE/LT/LE/GT/GE across int, float, text, and bool
// operands (spec.md §4.6's Compare op group). Ordering comparisons
// (LT/LE/GT/GE) only accept the two numeric kinds.
func (vm *VM) compare(op bytecode.Op) error {
	right, left, err := vm.popTwo()
	if err != nil {
		return err
	}
	switch op {
	case bytecode.OpEq:
		vm.push(BoolVal(valuesEqual(left, right)))
		return nil
	case bytecode.OpNe:
		vm.push(BoolVal(!valuesEqual(left, right)))
		return nil
	}

	lf, lok := numericAsFloat(left)
	rf, rok := numericAsFloat(right)
	if !lok || !rok {
		return vm.fault("comparação de ordem em operando não numérico")
	}
	switch op {
	case bytecode.OpLt:
		vm.push(BoolVal(lf < rf))
	case bytecode.OpLe:
		vm.push(BoolVal(lf <= rf))
	case bytecode.OpGt:
		vm.push(BoolVal(lf > rf))
	case bytecode.OpGe:
		vm.push(BoolVal(lf >= rf))
	}
	return nil
}

func numericAsFloat(v Value) (float64, bool) {
	switch v.Kind {
	case KindInt:
		return float64(v.I), true
	case KindFloat:
		return v.F, true
	default:
		return 0, false
	}
}

func valuesEqual(a, b Value) bool {
	if a.Kind == KindNull || b.Kind == KindNull {
		return a.Kind == b.Kind
	}
	switch a.Kind {
	case KindInt:
		if bf, ok := numericAsFloat(b); ok {
			return float64(a.I) == bf
		}
		return false
	case KindFloat:
		if bf, ok := numericAsFloat(b); ok {
			return a.F == bf
		}
		return false
	case KindBool:
		return b.Kind == KindBool && a.I == b.I
	case KindText:
		return b.Kind == KindText && a.S == b.S
	case KindObject:
		return b.Kind == KindObject && a.Obj == b.Obj
	case KindArray:
		return b.Kind == KindArray && a.Arr == b.Arr
	case KindEnum:
		return b.Kind == KindEnum && a.S == b.S && a.I == b.I
	default:
		return false
	}
}
