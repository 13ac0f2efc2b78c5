package bytecode

import (
	"github.com/brlang/compilador/internal/parser/ast"
	"github.com/brlang/compilador/internal/semantic/types"
	"github.com/brlang/compilador/internal/symtab"
)

func (f *funcCtx) lowerBlock(b *ast.BlockStmt) {
	if b == nil {
		return
	}
	f.pushScope()
	for _, s := range b.Stmts {
		f.lowerStmt(s)
	}
	f.popScope()
}

func (f *funcCtx) lowerStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		f.lowerExpr(s.X)
		if _, void := f.em.checker.GetExprType(s.X).(*types.VazioType); !void {
			f.emit(Instr{Op: OpPop})
		}
	case *ast.VarDeclStmt:
		f.lowerVarDecl(s)
	case *ast.AssignStmt:
		f.lowerAssign(s)
	case *ast.PrintStmt:
		f.lowerPrint(s)
	case *ast.IfStmt:
		f.lowerIf(s)
	case *ast.WhileStmt:
		f.lowerWhile(s)
	case *ast.ForStmt:
		f.lowerFor(s)
	case *ast.ReturnStmt:
		f.lowerReturn(s)
	case *ast.BlockStmt:
		f.lowerBlock(s)
	default:
		f.em.error(stmt.Pos(), "tipo de instrução não suportado pelo emissor: %T", stmt)
	}
}

func (f *funcCtx) lowerVarDecl(s *ast.VarDeclStmt) {
	if s.Initializer != nil {
		f.lowerExpr(s.Initializer)
	} else {
		f.emit(Instr{Op: OpLoadNull})
	}
	slot := f.declareLocal(s.Name)
	f.emit(Instr{Op: OpStoreLocal, A: slot})
}

func (f *funcCtx) lowerPrint(s *ast.PrintStmt) {
	f.lowerExpr(s.Value)
	if _, texto := f.em.checker.GetExprType(s.Value).(*types.TextoType); !texto {
		f.emit(Instr{Op: OpToText})
	}
	f.emit(Instr{Op: OpPrint})
}

func (f *funcCtx) lowerAssign(s *ast.AssignStmt) {
	switch t := s.Target.(type) {
	case *ast.IdentifierExpr:
		if slot, ok := f.resolveLocal(t.Name); ok {
			f.lowerExpr(s.Value)
			f.emit(Instr{Op: OpStoreLocal, A: slot})
			return
		}
		sym := f.em.checker.GetExprSymbol(t)
		if sym == nil {
			f.em.error(t.Pos(), "alvo de atribuição não resolvido: %s", t.Name)
			return
		}
		switch sym.Kind {
		case symtab.SymbolField:
			if sym.Static {
				f.lowerExpr(s.Value)
				f.emit(Instr{Op: OpStoreStatic, A: f.em.classIdxByFQN[f.em.ownerClass[sym]], Str: sym.Name})
			} else {
				f.emit(Instr{Op: OpLoadLocal, A: f.esteSlot()})
				f.lowerExpr(s.Value)
				f.emit(Instr{Op: OpStoreField, Str: sym.Name})
			}
		case symtab.SymbolProperty:
			f.lowerPropertySet(sym, nil, s.Value)
		default:
			f.em.error(t.Pos(), "alvo de atribuição inválido: %s", t.Name)
		}
	case *ast.MemberExpr:
		if t.Member == "tamanho" || t.Member == "comprimento" {
			f.em.error(t.Pos(), "%s é somente leitura", t.Member)
			return
		}
		sym := f.em.checker.GetExprSymbol(t)
		if sym == nil {
			f.em.error(t.Pos(), "alvo de atribuição não resolvido: %s", t.Member)
			return
		}
		ownerIdx, isStatic := f.memberOwner(t.Object, sym)
		switch sym.Kind {
		case symtab.SymbolField:
			if isStatic {
				f.lowerExpr(s.Value)
				f.emit(Instr{Op: OpStoreStatic, A: ownerIdx, Str: sym.Name})
			} else {
				f.lowerExpr(t.Object)
				f.lowerExpr(s.Value)
				f.emit(Instr{Op: OpStoreField, Str: sym.Name})
			}
		case symtab.SymbolProperty:
			f.lowerPropertySet(sym, t.Object, s.Value)
		default:
			f.em.error(t.Pos(), "alvo de atribuição inválido: %s", t.Member)
		}
	case *ast.IndexExpr:
		f.lowerExpr(t.Array)
		f.lowerExpr(t.Index)
		f.emit(Instr{Op: OpCheckBounds})
		f.lowerExpr(s.Value)
		f.emit(Instr{Op: OpStoreIndex})
	default:
		f.em.error(s.Pos(), "alvo de atribuição não suportado pelo emissor: %T", s.Target)
	}
}

// lowerPropertySet emits a setter call. object is nil for an implicit
// `este` access.
func (f *funcCtx) lowerPropertySet(prop *symtab.Symbol, object ast.Expr, value ast.Expr) {
	classIdx, isStatic := f.propertyOwnerIdx(prop, object)
	rec := &f.em.classes[classIdx]
	name := "definir_" + prop.Name
	if isStatic {
		f.lowerExpr(value)
		f.emit(Instr{Op: OpCallStatic, A: rec.StaticMethods[name], B: 1})
		return
	}
	if object != nil {
		f.lowerExpr(object)
	} else {
		f.emit(Instr{Op: OpLoadLocal, A: f.esteSlot()})
	}
	f.lowerExpr(value)
	if slot, ok := findVtableSlot(rec.Vtable, name); ok {
		f.emit(Instr{Op: OpCallMethod, A: slot, B: 1})
	} else {
		f.emit(Instr{Op: OpCallStatic, A: rec.Methods[name], B: 1})
	}
}

func (f *funcCtx) lowerIf(s *ast.IfStmt) {
	f.lowerExpr(s.Cond)
	jfalse := f.emit(Instr{Op: OpJmpIfFalse})
	f.lowerBlock(s.Then)
	if s.Else == nil {
		f.patchJump(jfalse, f.here())
		return
	}
	jend := f.emit(Instr{Op: OpJmp})
	f.patchJump(jfalse, f.here())
	f.lowerStmt(s.Else)
	f.patchJump(jend, f.here())
}

func (f *funcCtx) lowerWhile(s *ast.WhileStmt) {
	loopStart := f.here()
	f.lowerExpr(s.Cond)
	jend := f.emit(Instr{Op: OpJmpIfFalse})
	f.lowerBlock(s.Body)
	f.emit(Instr{Op: OpJmp, A: loopStart})
	f.patchJump(jend, f.here())
}

func (f *funcCtx) lowerFor(s *ast.ForStmt) {
	f.pushScope()
	if s.Init != nil {
		f.lowerStmt(s.Init)
	}
	loopStart := f.here()
	var jend int
	hasCond := s.Cond != nil
	if hasCond {
		f.lowerExpr(s.Cond)
		jend = f.emit(Instr{Op: OpJmpIfFalse})
	}
	f.lowerBlock(s.Body)
	if s.Step != nil {
		f.lowerStmt(s.Step)
	}
	f.emit(Instr{Op: OpJmp, A: loopStart})
	if hasCond {
		f.patchJump(jend, f.here())
	}
	f.popScope()
}

func (f *funcCtx) lowerReturn(s *ast.ReturnStmt) {
	if s.Value != nil {
		f.lowerExpr(s.Value)
		f.emit(Instr{Op: OpRet})
	} else {
		f.emit(Instr{Op: OpRetVoid})
	}
}
