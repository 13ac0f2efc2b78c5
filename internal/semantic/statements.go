package semantic

import (
	"github.com/brlang/compilador/internal/lexer"
	"github.com/brlang/compilador/internal/parser/ast"
	"github.com/brlang/compilador/internal/semantic/types"
	"github.com/brlang/compilador/internal/symtab"
)

func (c *Checker) VisitExprStmt(s *ast.ExprStmt) error {
	c.typeOfExpr(s.X)
	if _, ok := s.X.(*ast.CallExpr); !ok {
		if _, ok := s.X.(*ast.NewExpr); !ok {
			c.warn(s.Pos(), "expressão usada como instrução não tem efeito")
		}
	}
	return nil
}

func (c *Checker) VisitVarDeclStmt(s *ast.VarDeclStmt) error {
	var declared types.Type
	var initType types.Type
	if s.Initializer != nil {
		initType = c.typeOfExpr(s.Initializer)
	}

	if s.Type != nil {
		declared = c.resolveType(s.Type)
		if s.Initializer != nil {
			c.assignable(initType, declared, s.Initializer.Pos())
		}
	} else if s.Initializer != nil {
		declared = initType
	} else {
		c.error(s.Pos(), "declaração var precisa de um valor inicial para inferir o tipo")
		declared = &types.InvalidType{}
	}

	sym := &symtab.Symbol{Name: s.Name, Kind: symtab.SymbolVariable, Type: declared, Pos: s.Pos()}
	if err := c.scope.Define(sym); err != nil {
		c.error(s.Pos(), "%v", err)
	}
	return nil
}

func (c *Checker) VisitAssignStmt(s *ast.AssignStmt) error {
	targetType := c.typeOfExpr(s.Target)
	valueType := c.typeOfExpr(s.Value)

	switch target := s.Target.(type) {
	case *ast.IdentifierExpr:
		sym := c.scope.Lookup(target.Name)
		if sym == nil && c.currentClass != nil {
			sym = c.currentClass.LookupMember(target.Name)
		}
		if sym != nil && !sym.CanAssign() {
			c.error(s.Target.Pos(), "não é possível atribuir a %s", target.Name)
		}
		if sym != nil && sym.Kind == symtab.SymbolProperty {
			c.checkPropertySettable(sym, s.Target.Pos())
		}
	case *ast.MemberExpr:
		if objType, ok := c.typeOfExpr(target.Object).(*types.ClassType); ok {
			if classSym := c.lookupTypeName(objType.FQN, target.Pos()); classSym != nil {
				if member := classSym.LookupMember(target.Member); member != nil {
					if !member.CanAssign() {
						c.error(target.Pos(), "não é possível atribuir a %s", target.Member)
					}
					if member.Kind == symtab.SymbolProperty {
						c.checkPropertySettable(member, target.Pos())
					}
				}
			}
		}
	case *ast.IndexExpr:
		// array element assignment is always a valid lvalue
	default:
		c.error(s.Target.Pos(), "alvo de atribuição inválido")
	}

	c.assignable(valueType, targetType, s.Value.Pos())
	return nil
}

func (c *Checker) checkPropertySettable(sym *symtab.Symbol, pos lexer.Position) {
	decl, ok := sym.Decl.(*ast.PropertyDecl)
	if !ok {
		return
	}
	if !decl.HasSetter {
		c.error(pos, "propriedade %s não tem definir e não pode ser atribuída", sym.Name)
	}
}

func (c *Checker) VisitPrintStmt(s *ast.PrintStmt) error {
	c.typeOfExpr(s.Value)
	return nil
}

func (c *Checker) VisitIfStmt(s *ast.IfStmt) error {
	condType := c.typeOfExpr(s.Cond)
	if !(&types.BooleanoType{}).Equals(condType) {
		c.error(s.Cond.Pos(), "condição de se deve ser booleana")
	}
	_ = s.Then.Accept(c)
	if s.Else != nil {
		_ = s.Else.Accept(c)
	}
	return nil
}

func (c *Checker) VisitWhileStmt(s *ast.WhileStmt) error {
	condType := c.typeOfExpr(s.Cond)
	if !(&types.BooleanoType{}).Equals(condType) {
		c.error(s.Cond.Pos(), "condição de enquanto deve ser booleana")
	}
	c.enterScope(symtab.ScopeLoop)
	_ = s.Body.Accept(c)
	c.exitScope()
	return nil
}

func (c *Checker) VisitForStmt(s *ast.ForStmt) error {
	c.enterScope(symtab.ScopeLoop)
	if s.Init != nil {
		_ = s.Init.Accept(c)
	}
	if s.Cond != nil {
		condType := c.typeOfExpr(s.Cond)
		if !(&types.BooleanoType{}).Equals(condType) {
			c.error(s.Cond.Pos(), "condição de para deve ser booleana")
		}
	}
	if s.Step != nil {
		_ = s.Step.Accept(c)
	}
	_ = s.Body.Accept(c)
	c.exitScope()
	return nil
}

func (c *Checker) VisitReturnStmt(s *ast.ReturnStmt) error {
	expected := c.currentReturn
	if expected == nil {
		expected = &types.VazioType{}
	}
	if s.Value != nil {
		if c.inConstructor {
			c.error(s.Pos(), "construtor não pode retornar um valor")
		}
		valueType := c.typeOfExpr(s.Value)
		c.assignable(valueType, expected, s.Value.Pos())
	} else if !(&types.VazioType{}).Equals(expected) {
		c.error(s.Pos(), "esperava um valor de retorno do tipo %s", expected)
	}
	return nil
}

func (c *Checker) VisitBlockStmt(s *ast.BlockStmt) error {
	c.enterScope(symtab.ScopeBlock)
	for _, stmt := range s.Stmts {
		_ = stmt.Accept(c)
	}
	c.exitScope()
	return nil
}
