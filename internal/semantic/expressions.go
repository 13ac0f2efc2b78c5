package semantic

import (
	"github.com/brlang/compilador/internal/lexer"
	"github.com/brlang/compilador/internal/parser/ast"
	"github.com/brlang/compilador/internal/semantic/types"
	"github.com/brlang/compilador/internal/symtab"
)

// Expression visitor methods. Every method records the computed type in
// c.exprTypes before returning it, so a later pass (the bytecode emitter)
// can look a node's type up without re-deriving it.

func (c *Checker) VisitLiteralExpr(e *ast.LiteralExpr) (interface{}, error) {
	var t types.Type
	switch e.Token.Type {
	case lexer.TokenInteger:
		t = &types.InteiroType{}
	case lexer.TokenDecimal:
		t = &types.DecimalType{}
	case lexer.TokenDouble:
		t = &types.DuploType{}
	case lexer.TokenString:
		t = &types.TextoType{}
	case lexer.TokenTrue, lexer.TokenFalse:
		t = &types.BooleanoType{}
	default:
		c.error(e.Token.Position, "literal de tipo desconhecido")
		t = &types.InvalidType{}
	}
	c.exprTypes[e] = t
	return t, nil
}

func (c *Checker) VisitIdentifierExpr(e *ast.IdentifierExpr) (interface{}, error) {
	sym := c.scope.Lookup(e.Name)
	if sym == nil && c.currentClass != nil {
		// Unqualified member reference inside a method body — `idade`
		// instead of `este.idade` (spec.md §4.4 allows both).
		sym = c.currentClass.LookupMember(e.Name)
	}
	if sym == nil {
		sym = c.lookupTypeName(e.Name, e.Pos())
		if sym == nil {
			c.exprTypes[e] = &types.InvalidType{}
			return &types.InvalidType{}, nil
		}
	}
	switch sym.Kind {
	case symtab.SymbolClass:
		// A bare class name is only meaningful as the left side of a
		// static member access (`Classe.Campo`); VisitMemberExpr is what
		// actually enforces that. Standing alone (e.g. assigned to a
		// variable) it fails the normal assignability check instead of
		// getting a bespoke error here.
		t := c.classTypeOf(sym)
		c.exprTypes[e] = t
		c.exprSymbols[e] = sym
		return t, nil
	case symtab.SymbolInterface, symtab.SymbolFunction:
		c.error(e.Pos(), "%s não pode ser usado como valor aqui", e.Name)
		c.exprTypes[e] = &types.InvalidType{}
		return &types.InvalidType{}, nil
	}
	t := sym.Type
	if t == nil {
		t = &types.InvalidType{}
	}
	c.exprTypes[e] = t
	c.exprSymbols[e] = sym
	return t, nil
}

func (c *Checker) VisitEsteExpr(e *ast.EsteExpr) (interface{}, error) {
	if c.currentClass == nil {
		c.error(e.Pos(), "este só pode ser usado dentro de um método ou construtor de instância")
		c.exprTypes[e] = &types.InvalidType{}
		return &types.InvalidType{}, nil
	}
	t := c.classTypeOf(c.currentClass)
	c.exprTypes[e] = t
	return t, nil
}

func (c *Checker) VisitMemberExpr(e *ast.MemberExpr) (interface{}, error) {
	objType := c.typeOfExpr(e.Object)

	// `Cor.Vermelho` parses to the same MemberExpr shape as an instance
	// member access (the parser doesn't special-case enum names), so an
	// enum-typed object here means Member names one of its members rather
	// than a field/property/method.
	if enumType, ok := objType.(*types.EnumType); ok {
		enumSym := c.lookupTypeName(enumType.FQN, e.Pos())
		if enumSym == nil {
			c.exprTypes[e] = &types.InvalidType{}
			return &types.InvalidType{}, nil
		}
		for _, m := range enumSym.Enum.Members {
			if m.Name == e.Member {
				c.exprTypes[e] = enumType
				c.exprSymbols[e] = m
				return enumType, nil
			}
		}
		c.error(e.Pos(), "%s não tem membro %s", enumType.FQN, e.Member)
		c.exprTypes[e] = &types.InvalidType{}
		return &types.InvalidType{}, nil
	}

	// `.tamanho`/`.comprimento` on an array or texto value (spec.md §3
	// Non-goals: "standard library beyond a handful of built-ins ...
	// array .tamanho/.comprimento, texto.comprimento/.tamanho"). Neither
	// has a declared class, so this has to be special-cased ahead of the
	// class-member lookup below rather than routed through it.
	if e.Member == "tamanho" || e.Member == "comprimento" {
		switch objType.(type) {
		case *types.ArrayType, *types.TextoType:
			t := &types.InteiroType{}
			c.exprTypes[e] = t
			return t, nil
		}
	}

	classType, ok := objType.(*types.ClassType)
	if !ok {
		if _, isInvalid := objType.(*types.InvalidType); !isInvalid {
			c.error(e.Object.Pos(), "%s não é uma instância de classe", objType)
		}
		c.exprTypes[e] = &types.InvalidType{}
		return &types.InvalidType{}, nil
	}

	classSym := c.lookupTypeName(classType.FQN, e.Pos())
	if classSym == nil {
		c.exprTypes[e] = &types.InvalidType{}
		return &types.InvalidType{}, nil
	}
	member := classSym.LookupMember(e.Member)
	if member == nil {
		c.error(e.Pos(), "%s não tem membro %s", classType.FQN, e.Member)
		c.exprTypes[e] = &types.InvalidType{}
		return &types.InvalidType{}, nil
	}

	var t types.Type
	switch member.Kind {
	case symtab.SymbolMethod:
		// Recorded so VisitCallExpr can find the method symbol again when
		// this MemberExpr is the callee half of a call, without a second
		// member lookup. As a bare (non-called) expression, a method's
		// type is its return type — referencing a method without calling
		// it has no other meaningful static type in this language.
		c.calleeMethods[e] = member
		t = member.Type
	default:
		t = member.Type
	}
	if t == nil {
		t = &types.InvalidType{}
	}
	c.exprTypes[e] = t
	c.exprSymbols[e] = member
	return t, nil
}

func (c *Checker) VisitCallExpr(e *ast.CallExpr) (interface{}, error) {
	calleeType := c.typeOfExpr(e.Callee)

	var params []types.Type
	var defaults []ast.Expr
	var returnType types.Type
	switch callee := e.Callee.(type) {
	case *ast.MemberExpr:
		method, ok := c.calleeMethods[callee]
		if !ok {
			if _, invalid := calleeType.(*types.InvalidType); !invalid {
				c.error(e.Callee.Pos(), "expressão não é chamável")
			}
			c.exprTypes[e] = &types.InvalidType{}
			return &types.InvalidType{}, nil
		}
		params = method.Params
		defaults = method.ParamDefaults
		returnType = method.Type
	case *ast.IdentifierExpr:
		// A bare identifier naming a top-level function resolves via
		// VisitIdentifierExpr straight to SymbolFunction, which that
		// visitor rejects as "cannot be used as a value" — so a direct
		// call needs its own lookup path here instead.
		sym := c.lookupFunctionByName(callee.Name, callee.Pos())
		if sym == nil {
			if _, invalid := calleeType.(*types.InvalidType); !invalid {
				c.error(e.Callee.Pos(), "expressão não é chamável")
			}
			c.exprTypes[e] = &types.InvalidType{}
			return &types.InvalidType{}, nil
		}
		params = sym.Params
		defaults = sym.ParamDefaults
		returnType = sym.Type
	default:
		if _, invalid := calleeType.(*types.InvalidType); !invalid {
			c.error(e.Callee.Pos(), "expressão não é chamável")
		}
		c.exprTypes[e] = &types.InvalidType{}
		return &types.InvalidType{}, nil
	}

	e.Args = c.resolveCallArgs(e.Pos(), params, defaults, e.Args)

	n := len(e.Args)
	if len(params) < n {
		n = len(params)
	}
	for i := 0; i < n; i++ {
		argType := c.typeOfExpr(e.Args[i])
		c.assignable(argType, params[i], e.Args[i].Pos())
	}
	for i := n; i < len(e.Args); i++ {
		c.typeOfExpr(e.Args[i])
	}

	if returnType == nil {
		returnType = &types.VazioType{}
	}
	c.exprTypes[e] = returnType
	return returnType, nil
}

// resolveCallArgs validates argc against params/defaults (spec.md §4.5:
// once a parameter has a default, every later one does too, so the
// valid range is [minRequired, len(params)]) and appends the missing
// tail's default literal expressions to args, so that by the time the
// bytecode emitter walks the call's Args it always sees a fixed argc
// equal to len(params) (spec.md §9 "Optional parameters. Resolved at
// the call site by the compiler ... by appending default literal
// expressions").
func (c *Checker) resolveCallArgs(pos lexer.Position, params []types.Type, defaults []ast.Expr, args []ast.Expr) []ast.Expr {
	minRequired := len(params)
	for i, d := range defaults {
		if d != nil {
			minRequired = i
			break
		}
	}
	if len(args) < minRequired || len(args) > len(params) {
		if minRequired == len(params) {
			c.error(pos, "esperava %d argumento(s), recebeu %d", len(params), len(args))
		} else {
			c.error(pos, "esperava entre %d e %d argumento(s), recebeu %d", minRequired, len(params), len(args))
		}
		return args
	}
	for i := len(args); i < len(params); i++ {
		args = append(args, defaults[i])
	}
	return args
}

func (c *Checker) lookupFunctionByName(name string, pos lexer.Position) *symtab.Symbol {
	sym := c.global.LookupLocal(name)
	if sym == nil {
		sym = c.lookupTypeName(name, pos)
	}
	if sym == nil || sym.Kind != symtab.SymbolFunction {
		return nil
	}
	return sym
}

func (c *Checker) VisitNewExpr(e *ast.NewExpr) (interface{}, error) {
	t := c.resolveType(e.Type)
	classType, ok := t.(*types.ClassType)
	if !ok {
		c.exprTypes[e] = &types.InvalidType{}
		return &types.InvalidType{}, nil
	}
	classSym := c.lookupTypeName(classType.FQN, e.Pos())
	if classSym == nil {
		c.exprTypes[e] = &types.InvalidType{}
		return &types.InvalidType{}, nil
	}
	if classSym.Class.Abstract {
		c.error(e.Pos(), "não é possível instanciar a classe abstrata %s", classType.FQN)
	}

	ctor := c.resolveConstructor(classSym, len(e.Args))
	var params []types.Type
	if ctor != nil {
		params = ctor.Params
		e.Args = c.resolveCallArgs(e.Pos(), params, ctor.ParamDefaults, e.Args)
	} else if len(e.Args) != 0 {
		c.error(e.Pos(), "%s não tem construtor com %d argumento(s)", classType.FQN, len(e.Args))
	}
	n := len(e.Args)
	if len(params) < n {
		n = len(params)
	}
	for i := 0; i < n; i++ {
		argType := c.typeOfExpr(e.Args[i])
		c.assignable(argType, params[i], e.Args[i].Pos())
	}
	for i := n; i < len(e.Args); i++ {
		c.typeOfExpr(e.Args[i])
	}

	c.exprTypes[e] = classType
	return classType, nil
}

// resolveConstructor picks the constructor overload whose parameter
// list accepts argc arguments — between its MinRequiredParams() and
// len(Params), inclusive, to admit a call that omits trailing optional
// parameters (spec.md §4.5/§9). This language allows only one
// constructor list per class in the grammar today (parseClassMember
// appends every `ClasseNome(...) {...}` it sees to Constructors, so
// overloading by arity already falls out of that), so the first
// matching entry wins.
func (c *Checker) resolveConstructor(classSym *symtab.Symbol, argc int) *symtab.Symbol {
	for _, ctor := range classSym.Class.Constructors {
		if argc >= ctor.MinRequiredParams() && argc <= len(ctor.Params) {
			return ctor
		}
	}
	if len(classSym.Class.Constructors) == 0 && argc == 0 {
		return nil // implicit default constructor
	}
	return nil
}

func (c *Checker) VisitIndexExpr(e *ast.IndexExpr) (interface{}, error) {
	arrType := c.typeOfExpr(e.Array)
	indexType := c.typeOfExpr(e.Index)
	if !(&types.InteiroType{}).Equals(indexType) {
		c.error(e.Index.Pos(), "índice de vetor deve ser inteiro")
	}
	arr, ok := arrType.(*types.ArrayType)
	if !ok {
		if _, invalid := arrType.(*types.InvalidType); !invalid {
			c.error(e.Array.Pos(), "%s não é um vetor", arrType)
		}
		c.exprTypes[e] = &types.InvalidType{}
		return &types.InvalidType{}, nil
	}
	c.exprTypes[e] = arr.Elem
	return arr.Elem, nil
}

func (c *Checker) VisitArrayLiteralExpr(e *ast.ArrayLiteralExpr) (interface{}, error) {
	if len(e.Elements) == 0 {
		c.error(e.Pos(), "não é possível inferir o tipo de um vetor literal vazio")
		t := &types.ArrayType{Elem: &types.InvalidType{}}
		c.exprTypes[e] = t
		return t, nil
	}
	elemType := c.typeOfExpr(e.Elements[0])
	for _, elem := range e.Elements[1:] {
		et := c.typeOfExpr(elem)
		c.assignable(et, elemType, elem.Pos())
	}
	t := &types.ArrayType{Elem: elemType}
	c.exprTypes[e] = t
	return t, nil
}

func (c *Checker) VisitBinaryExpr(e *ast.BinaryExpr) (interface{}, error) {
	left := c.typeOfExpr(e.Left)
	right := c.typeOfExpr(e.Right)

	var result types.Type
	switch e.Operator.Type {
	case lexer.TokenPlus:
		// `+` also means text concatenation (spec.md §4.5): texto + X (or
		// X + texto) is texto for any X. No ToTextExpr node is inserted
		// here; the bytecode emitter adds the TO_TEXT for the non-text
		// operand from the types recorded in exprTypes.
		_, leftTexto := left.(*types.TextoType)
		_, rightTexto := right.(*types.TextoType)
		switch {
		case leftTexto || rightTexto:
			result = &types.TextoType{}
		case types.IsNumeric(left) && types.IsNumeric(right):
			common, ok := types.CommonNumeric(left, right)
			if !ok {
				c.error(e.Operator.Position, "tipos incompatíveis em operação aritmética: %s e %s", left, right)
				common = &types.InvalidType{}
			}
			result = common
		default:
			c.error(e.Operator.Position, "operador + requer operandos numéricos ou texto")
			result = &types.InvalidType{}
		}

	case lexer.TokenMinus, lexer.TokenStar, lexer.TokenSlash, lexer.TokenPercent:
		if !types.IsNumeric(left) || !types.IsNumeric(right) {
			c.error(e.Operator.Position, "operador %s requer operandos numéricos", e.Operator.Lexeme)
			result = &types.InvalidType{}
		} else if common, ok := types.CommonNumeric(left, right); ok {
			result = common
		} else {
			c.error(e.Operator.Position, "tipos incompatíveis em operação aritmética: %s e %s", left, right)
			result = &types.InvalidType{}
		}

	case lexer.TokenEqual, lexer.TokenNotEqual:
		if !left.Equals(right) && !types.IsNumeric(left) && !types.IsNumeric(right) {
			c.error(e.Operator.Position, "não é possível comparar %s e %s", left, right)
		} else if types.IsNumeric(left) && types.IsNumeric(right) {
			if _, ok := types.CommonNumeric(left, right); !ok {
				c.error(e.Operator.Position, "não é possível comparar %s e %s", left, right)
			}
		}
		result = &types.BooleanoType{}

	case lexer.TokenLess, lexer.TokenLessEqual, lexer.TokenGreater, lexer.TokenGreaterEqual:
		if !types.IsNumeric(left) || !types.IsNumeric(right) {
			c.error(e.Operator.Position, "operadores relacionais requerem operandos numéricos")
		} else if _, ok := types.CommonNumeric(left, right); !ok {
			c.error(e.Operator.Position, "não é possível comparar %s e %s", left, right)
		}
		result = &types.BooleanoType{}

	default:
		c.error(e.Operator.Position, "operador binário desconhecido: %s", e.Operator.Lexeme)
		result = &types.InvalidType{}
	}

	c.exprTypes[e] = result
	return result, nil
}

func (c *Checker) VisitLogicalExpr(e *ast.LogicalExpr) (interface{}, error) {
	left := c.typeOfExpr(e.Left)
	right := c.typeOfExpr(e.Right)
	if !(&types.BooleanoType{}).Equals(left) {
		c.error(e.Left.Pos(), "operando esquerdo de %s deve ser booleano", e.Operator.Lexeme)
	}
	if !(&types.BooleanoType{}).Equals(right) {
		c.error(e.Right.Pos(), "operando direito de %s deve ser booleano", e.Operator.Lexeme)
	}
	t := &types.BooleanoType{}
	c.exprTypes[e] = t
	return t, nil
}

func (c *Checker) VisitUnaryExpr(e *ast.UnaryExpr) (interface{}, error) {
	operandType := c.typeOfExpr(e.Operand)
	var t types.Type
	switch e.Operator.Type {
	case lexer.TokenMinus:
		if !types.IsNumeric(operandType) {
			c.error(e.Operator.Position, "unário - requer operando numérico")
			t = &types.InvalidType{}
		} else {
			t = operandType
		}
	case lexer.TokenNot:
		if !(&types.BooleanoType{}).Equals(operandType) {
			c.error(e.Operator.Position, "unário ! requer operando booleano")
			t = &types.InvalidType{}
		} else {
			t = &types.BooleanoType{}
		}
	default:
		c.error(e.Operator.Position, "operador unário desconhecido: %s", e.Operator.Lexeme)
		t = &types.InvalidType{}
	}
	c.exprTypes[e] = t
	return t, nil
}

func (c *Checker) VisitGroupingExpr(e *ast.GroupingExpr) (interface{}, error) {
	t := c.typeOfExpr(e.Inner)
	c.exprTypes[e] = t
	return t, nil
}

func (c *Checker) VisitInterpolatedExpr(e *ast.InterpolatedExpr) (interface{}, error) {
	// Every InterpolatedExpr is rewritten by internal/interpolation before
	// a file reaches the checker (spec.md §4: lexer → parser →
	// interpolation expansion → resolution/type-check). Reaching this
	// method means that pass was skipped; treat it as plain text so
	// checking can still proceed.
	t := &types.TextoType{}
	c.exprTypes[e] = t
	return t, nil
}

func (c *Checker) VisitToTextExpr(e *ast.ToTextExpr) (interface{}, error) {
	c.typeOfExpr(e.Inner)
	t := &types.TextoType{}
	c.exprTypes[e] = t
	return t, nil
}
