package bytecode

import (
	"github.com/brlang/compilador/internal/lexer"
	"github.com/brlang/compilador/internal/parser/ast"
	"github.com/brlang/compilador/internal/semantic/types"
	"github.com/brlang/compilador/internal/symtab"
)

// lowerExpr emits the instructions that leave expr's value on top of the
// operand stack. A type switch over ast.Expr, the same shape the
// teacher's Builder.buildExpr uses, rather than a second Visitor
// implementation — the emitter already needs the checker's resolved
// symbol/type side tables for every node, so there's no traversal logic
// left for a Visitor method to usefully own beyond the switch itself.
func (f *funcCtx) lowerExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.LiteralExpr:
		f.lowerLiteral(e)
	case *ast.IdentifierExpr:
		f.lowerIdentifier(e)
	case *ast.EsteExpr:
		f.emit(Instr{Op: OpLoadLocal, A: f.esteSlot()})
	case *ast.MemberExpr:
		f.lowerMemberRead(e)
	case *ast.CallExpr:
		f.lowerCall(e)
	case *ast.NewExpr:
		f.lowerNew(e)
	case *ast.IndexExpr:
		f.lowerExpr(e.Array)
		f.lowerExpr(e.Index)
		f.emit(Instr{Op: OpCheckBounds})
		f.emit(Instr{Op: OpLoadIndex})
	case *ast.ArrayLiteralExpr:
		f.lowerArrayLiteral(e)
	case *ast.BinaryExpr:
		f.lowerBinary(e)
	case *ast.UnaryExpr:
		f.lowerUnary(e)
	case *ast.LogicalExpr:
		f.lowerLogical(e)
	case *ast.GroupingExpr:
		f.lowerExpr(e.Inner)
	case *ast.ToTextExpr:
		f.lowerExpr(e.Inner)
		f.emit(Instr{Op: OpToText})
	case *ast.InterpolatedExpr:
		// internal/interpolation rewrites every InterpolatedExpr into a
		// BinaryExpr/ToTextExpr concatenation chain before the program
		// reaches the checker or the emitter (spec.md §4: lexer → parser
		// → interpolation expansion → resolution/type-check → bytecode).
		// Reaching this case means that pass was skipped upstream.
		f.em.error(e.Pos(), "expressão interpolada não expandida chegou ao emissor de bytecode")
		f.emit(Instr{Op: OpLoadConstText, A: f.em.internText("")})
	default:
		f.em.error(expr.Pos(), "tipo de expressão não suportado pelo emissor: %T", expr)
	}
}

func (f *funcCtx) lowerLiteral(e *ast.LiteralExpr) {
	switch e.Token.Type {
	case lexer.TokenInteger:
		f.emit(Instr{Op: OpLoadConstInt, A: f.em.internInt(e.Value.(int64))})
	case lexer.TokenDecimal:
		f.emit(Instr{Op: OpLoadConstDecimal, A: f.em.internFloat(e.Value.(float64), false)})
	case lexer.TokenDouble:
		f.emit(Instr{Op: OpLoadConstDecimal, A: f.em.internFloat(e.Value.(float64), true)})
	case lexer.TokenString:
		f.emit(Instr{Op: OpLoadConstText, A: f.em.internText(e.Value.(string))})
	case lexer.TokenTrue:
		f.emit(Instr{Op: OpLoadBool, A: 1})
	case lexer.TokenFalse:
		f.emit(Instr{Op: OpLoadBool, A: 0})
	default:
		f.em.error(e.Pos(), "literal de tipo desconhecido no emissor")
	}
}

func (f *funcCtx) lowerIdentifier(e *ast.IdentifierExpr) {
	if slot, ok := f.resolveLocal(e.Name); ok {
		f.emit(Instr{Op: OpLoadLocal, A: slot})
		return
	}

	sym := f.em.checker.GetExprSymbol(e)
	if sym == nil {
		f.em.error(e.Pos(), "identificador não resolvido no emissor: %s", e.Name)
		return
	}
	switch sym.Kind {
	case symtab.SymbolField:
		if sym.Static {
			f.emit(Instr{Op: OpLoadStatic, A: f.em.classIdxByFQN[f.em.ownerClass[sym]], Str: sym.Name})
		} else {
			f.emit(Instr{Op: OpLoadLocal, A: f.esteSlot()})
			f.emit(Instr{Op: OpLoadField, Str: sym.Name})
		}
	case symtab.SymbolProperty:
		f.lowerPropertyGet(sym, nil)
	default:
		f.em.error(e.Pos(), "identificador %s não é uma variável, campo ou propriedade", e.Name)
	}
}

// lowerMemberRead lowers `object.Member` as an rvalue.
func (f *funcCtx) lowerMemberRead(e *ast.MemberExpr) {
	if e.Member == "tamanho" || e.Member == "comprimento" {
		objType := f.em.checker.GetExprType(e.Object)
		switch objType.(type) {
		case *types.ArrayType, *types.TextoType:
			f.lowerExpr(e.Object)
			f.emit(Instr{Op: OpArrayLen})
			return
		}
	}

	sym := f.em.checker.GetExprSymbol(e)
	if sym == nil {
		f.em.error(e.Pos(), "membro não resolvido no emissor: %s", e.Member)
		return
	}
	if sym.Kind == symtab.SymbolEnumMember {
		f.lowerEnumMember(e, sym)
		return
	}

	ownerIdx, isStatic := f.memberOwner(e.Object, sym)
	switch sym.Kind {
	case symtab.SymbolField:
		if isStatic {
			f.emit(Instr{Op: OpLoadStatic, A: ownerIdx, Str: sym.Name})
		} else {
			f.lowerExpr(e.Object)
			f.emit(Instr{Op: OpLoadField, Str: sym.Name})
		}
	case symtab.SymbolProperty:
		f.lowerPropertyGet(sym, e.Object)
	default:
		f.em.error(e.Pos(), "membro %s não é um campo ou propriedade", e.Member)
	}
}

func (f *funcCtx) lowerEnumMember(e *ast.MemberExpr, member *symtab.Symbol) {
	enumType, ok := f.em.checker.GetExprType(e).(*types.EnumType)
	if !ok {
		f.em.error(e.Pos(), "membro de enumeração com tipo inesperado")
		return
	}
	ordinal := enumType.MemberIndex(member.Name)
	f.emit(Instr{Op: OpLoadConstEnum, A: f.em.internTypeDesc(enumType.FQN), B: ordinal})
}

// memberOwner resolves the class index a field/property access should
// use (LOAD_STATIC's class index, or the declared type backing a vtable
// lookup), and whether the member is static.
func (f *funcCtx) memberOwner(object ast.Expr, sym *symtab.Symbol) (int, bool) {
	if sym.Static {
		owner := f.em.ownerClass[sym]
		return f.em.classIdxByFQN[owner], true
	}
	objType := f.em.checker.GetExprType(object)
	if ct, ok := objType.(*types.ClassType); ok {
		return f.em.classIdxByFQN[ct.FQN], false
	}
	return -1, false
}

// lowerPropertyGet emits a getter call. object is nil for an implicit
// `este` access (a bare property name used inside its own class).
func (f *funcCtx) lowerPropertyGet(prop *symtab.Symbol, object ast.Expr) {
	classIdx, isStatic := f.propertyOwnerIdx(prop, object)
	rec := &f.em.classes[classIdx]
	name := "obter_" + prop.Name
	if isStatic {
		f.emit(Instr{Op: OpCallStatic, A: rec.StaticMethods[name], B: 0})
		return
	}
	if object != nil {
		f.lowerExpr(object)
	} else {
		f.emit(Instr{Op: OpLoadLocal, A: f.esteSlot()})
	}
	if slot, ok := findVtableSlot(rec.Vtable, name); ok {
		f.emit(Instr{Op: OpCallMethod, A: slot, B: 0})
	} else {
		f.emit(Instr{Op: OpCallStatic, A: rec.Methods[name], B: 0})
	}
}

func (f *funcCtx) propertyOwnerIdx(prop *symtab.Symbol, object ast.Expr) (int, bool) {
	if prop.Static {
		return f.em.classIdxByFQN[f.em.ownerClass[prop]], true
	}
	if object == nil {
		return f.em.classIdxByFQN[f.class.FQN], false
	}
	if ct, ok := f.em.checker.GetExprType(object).(*types.ClassType); ok {
		return f.em.classIdxByFQN[ct.FQN], false
	}
	return f.em.classIdxByFQN[f.em.ownerClass[prop]], false
}

func (f *funcCtx) lowerCall(e *ast.CallExpr) {
	switch callee := e.Callee.(type) {
	case *ast.IdentifierExpr:
		fn := f.em.checker.LookupFunction(callee.Name)
		if fn == nil {
			f.em.error(e.Pos(), "função não resolvida no emissor: %s", callee.Name)
			return
		}
		for _, a := range e.Args {
			f.lowerExpr(a)
		}
		f.emit(Instr{Op: OpCallFunc, A: f.em.methodSlot[fn], B: len(e.Args)})
	case *ast.MemberExpr:
		method := f.em.checker.GetCalleeMethod(callee)
		if method == nil {
			f.em.error(e.Pos(), "chamada de método não resolvida no emissor")
			return
		}
		classIdx, isStatic := f.memberOwner(callee.Object, method)
		rec := &f.em.classes[classIdx]
		if isStatic {
			for _, a := range e.Args {
				f.lowerExpr(a)
			}
			f.emit(Instr{Op: OpCallStatic, A: rec.StaticMethods[method.Name], B: len(e.Args)})
			return
		}
		f.lowerExpr(callee.Object)
		for _, a := range e.Args {
			f.lowerExpr(a)
		}
		if slot, ok := findVtableSlot(rec.Vtable, method.Name); ok {
			f.emit(Instr{Op: OpCallMethod, A: slot, B: len(e.Args)})
		} else {
			f.emit(Instr{Op: OpCallStatic, A: rec.Methods[method.Name], B: len(e.Args)})
		}
	default:
		f.em.error(e.Pos(), "expressão de chamada não suportada pelo emissor")
	}
}

func (f *funcCtx) lowerNew(e *ast.NewExpr) {
	classType, ok := f.em.checker.GetExprType(e).(*types.ClassType)
	if !ok {
		f.em.error(e.Pos(), "novo() com tipo inválido")
		return
	}
	classIdx := f.em.classIdxByFQN[classType.FQN]
	for _, a := range e.Args {
		f.lowerExpr(a)
	}
	f.emit(Instr{Op: OpNew, A: classIdx, B: len(e.Args)})
}

func (f *funcCtx) lowerArrayLiteral(e *ast.ArrayLiteralExpr) {
	arrType, _ := f.em.checker.GetExprType(e).(*types.ArrayType)
	elemDesc := 0
	if arrType != nil {
		elemDesc = f.em.internTypeDesc(arrType.Elem.String())
	}
	f.emit(Instr{Op: OpNewArray, A: elemDesc, B: len(e.Elements)})
	for i, elem := range e.Elements {
		f.emit(Instr{Op: OpDup})
		f.emit(Instr{Op: OpLoadConstInt, A: f.em.internInt(int64(i))})
		f.emit(Instr{Op: OpCheckBounds})
		f.lowerExpr(elem)
		f.emit(Instr{Op: OpStoreIndex})
	}
}

// prepareNumericOperands lowers both operands and reports which opcode
// family (integer or float) a binary arithmetic operator lowers to,
// widening an inteiro operand to float64
// with INT_TO_FLOAT when the other operand is decimal or duplo (spec.md
// §4.5's widening rule, given concrete runtime form here).
func (f *funcCtx) prepareNumericOperands(left, right ast.Expr) (isFloat bool) {
	lt := f.em.checker.GetExprType(left)
	rt := f.em.checker.GetExprType(right)
	_, lInt := lt.(*types.InteiroType)
	_, rInt := rt.(*types.InteiroType)
	isFloat = types.IsNumeric(lt) && types.IsNumeric(rt) && !(lInt && rInt)

	f.lowerExpr(left)
	if isFloat && lInt {
		f.emit(Instr{Op: OpIntToFloat})
	}
	f.lowerExpr(right)
	if isFloat && rInt {
		f.emit(Instr{Op: OpIntToFloat})
	}
	return isFloat
}

func (f *funcCtx) lowerBinary(e *ast.BinaryExpr) {
	leftType := f.em.checker.GetExprType(e.Left)
	rightType := f.em.checker.GetExprType(e.Right)
	_, leftTexto := leftType.(*types.TextoType)
	_, rightTexto := rightType.(*types.TextoType)

	switch e.Operator.Type {
	case lexer.TokenPlus:
		if leftTexto || rightTexto {
			f.lowerExpr(e.Left)
			if !leftTexto {
				f.emit(Instr{Op: OpToText})
			}
			f.lowerExpr(e.Right)
			if !rightTexto {
				f.emit(Instr{Op: OpToText})
			}
			f.emit(Instr{Op: OpConcat})
			return
		}
		isFloat := f.prepareNumericOperands(e.Left, e.Right)
		if isFloat {
			f.emit(Instr{Op: OpAddD})
		} else {
			f.emit(Instr{Op: OpAddI})
		}
	case lexer.TokenMinus:
		f.emitArith(e.Left, e.Right, OpSubI, OpSubD)
	case lexer.TokenStar:
		f.emitArith(e.Left, e.Right, OpMulI, OpMulD)
	case lexer.TokenSlash:
		f.emitArith(e.Left, e.Right, OpDivI, OpDivD)
	case lexer.TokenPercent:
		f.emitArith(e.Left, e.Right, OpModI, OpModD)
	case lexer.TokenEqual:
		f.lowerExpr(e.Left)
		f.lowerExpr(e.Right)
		f.emit(Instr{Op: OpEq})
	case lexer.TokenNotEqual:
		f.lowerExpr(e.Left)
		f.lowerExpr(e.Right)
		f.emit(Instr{Op: OpNe})
	case lexer.TokenLess:
		f.lowerExpr(e.Left)
		f.lowerExpr(e.Right)
		f.emit(Instr{Op: OpLt})
	case lexer.TokenLessEqual:
		f.lowerExpr(e.Left)
		f.lowerExpr(e.Right)
		f.emit(Instr{Op: OpLe})
	case lexer.TokenGreater:
		f.lowerExpr(e.Left)
		f.lowerExpr(e.Right)
		f.emit(Instr{Op: OpGt})
	case lexer.TokenGreaterEqual:
		f.lowerExpr(e.Left)
		f.lowerExpr(e.Right)
		f.emit(Instr{Op: OpGe})
	default:
		f.em.error(e.Pos(), "operador binário não suportado pelo emissor: %s", e.Operator.Lexeme)
	}
}

func (f *funcCtx) emitArith(left, right ast.Expr, intOp, floatOp Op) {
	isFloat := f.prepareNumericOperands(left, right)
	if isFloat {
		f.emit(Instr{Op: floatOp})
	} else {
		f.emit(Instr{Op: intOp})
	}
}

func (f *funcCtx) lowerUnary(e *ast.UnaryExpr) {
	f.lowerExpr(e.Operand)
	switch e.Operator.Type {
	case lexer.TokenMinus:
		f.emit(Instr{Op: OpNeg})
	case lexer.TokenNot:
		f.emit(Instr{Op: OpNot})
	default:
		f.em.error(e.Pos(), "operador unário não suportado pelo emissor: %s", e.Operator.Lexeme)
	}
}

// lowerLogical lowers `&&`/`||` via jumps rather than dedicated opcodes,
// so evaluation short-circuits (spec.md §4.6).
func (f *funcCtx) lowerLogical(e *ast.LogicalExpr) {
	f.lowerExpr(e.Left)
	switch e.Operator.Type {
	case lexer.TokenAndAnd:
		f.emit(Instr{Op: OpDup})
		jfalse := f.emit(Instr{Op: OpJmpIfFalse})
		f.emit(Instr{Op: OpPop})
		f.lowerExpr(e.Right)
		f.patchJump(jfalse, f.here())
	case lexer.TokenOrOr:
		f.emit(Instr{Op: OpDup})
		jtrue := f.emit(Instr{Op: OpJmpIfTrue})
		f.emit(Instr{Op: OpPop})
		f.lowerExpr(e.Right)
		f.patchJump(jtrue, f.here())
	default:
		f.em.error(e.Pos(), "operador lógico não suportado pelo emissor: %s", e.Operator.Lexeme)
	}
}
