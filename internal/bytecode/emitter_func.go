package bytecode

import (
	"github.com/brlang/compilador/internal/parser/ast"
	"github.com/brlang/compilador/internal/symtab"
)

// funcCtx is the per-code-block lowering state: where the current
// instruction stream lives, and how a local name maps to a frame slot.
// One funcCtx exists per method/constructor/function/accessor body being
// emitted — mirroring the teacher Builder's currentFunc/currentBlock,
// simplified because this is a stack machine with one linear instruction
// list per code block rather than a basic-block graph.
//
// Slots are resolved by NAME through a stack of scopes, the same lexical
// shape internal/symtab.Scope gives the checker, rather than by the
// checker's *symtab.Symbol pointers: the checker's parameter/local
// symbols are scoped to a single Check() call and don't outlive it, so
// the emitter can't use their identity as a map key across its own,
// later pass — it re-derives frame layout from the same source names
// instead.
type funcCtx struct {
	em       *Emitter
	code     *CodeBlock
	class    *symtab.Symbol // enclosing class symbol, nil outside a class body

	scopes   []map[string]int
	nextSlot int
}

func (em *Emitter) newFuncCtx(code *CodeBlock, classSym *symtab.Symbol) *funcCtx {
	f := &funcCtx{em: em, code: code, class: classSym}
	f.pushScope()
	return f
}

func (f *funcCtx) pushScope() { f.scopes = append(f.scopes, make(map[string]int)) }
func (f *funcCtx) popScope()  { f.scopes = f.scopes[:len(f.scopes)-1] }

func (f *funcCtx) emit(instr Instr) int {
	f.code.Instrs = append(f.code.Instrs, instr)
	return len(f.code.Instrs) - 1
}

// here returns the index the NEXT emitted instruction will occupy —
// used as a jump target before that instruction exists yet.
func (f *funcCtx) here() int { return len(f.code.Instrs) }

func (f *funcCtx) patchJump(instrIdx int, target int) {
	f.code.Instrs[instrIdx].A = target
}

// bumpNLocals tracks the high-water mark of frame slots used, counting
// este and the parameters as slots 0..N too — the VM allocates one frame
// array of this size per call (spec.md §4.8).
func (f *funcCtx) bumpNLocals() {
	if f.nextSlot > f.code.NLocals {
		f.code.NLocals = f.nextSlot
	}
}

func (f *funcCtx) declareParam(name string) {
	f.scopes[0][name] = f.nextSlot
	f.nameSlot(f.nextSlot, name)
	f.nextSlot++
	f.code.NParams++
	f.bumpNLocals()
}

func (f *funcCtx) allocEste() {
	f.nameSlot(f.nextSlot, "este")
	f.nextSlot++
	f.code.HasEste = true
	f.bumpNLocals()
}

func (f *funcCtx) esteSlot() int { return 0 }

func (f *funcCtx) declareLocal(name string) int {
	slot := f.nextSlot
	f.scopes[len(f.scopes)-1][name] = slot
	f.nameSlot(slot, name)
	f.nextSlot++
	f.bumpNLocals()
	return slot
}

// nameSlot records slot's source name for the debugger's `vars`/`v
// <name>` commands (CodeBlock.LocalNames's doc comment) — never
// consulted by the VM's own dispatch loop.
func (f *funcCtx) nameSlot(slot int, name string) {
	for len(f.code.LocalNames) <= slot {
		f.code.LocalNames = append(f.code.LocalNames, "")
	}
	f.code.LocalNames[slot] = name
}

// resolveLocal looks up name in the innermost-first scope chain, used for
// every IdentifierExpr the checker bound to a SymbolVariable or
// SymbolParameter.
func (f *funcCtx) resolveLocal(name string) (int, bool) {
	for i := len(f.scopes) - 1; i >= 0; i-- {
		if slot, ok := f.scopes[i][name]; ok {
			return slot, true
		}
	}
	return 0, false
}

// emitClassBodies runs the instruction-emission phase for every class's
// constructors, methods, and property accessors, in the same
// base-before-derived order layoutClasses used (not load-bearing for
// correctness at this phase, but keeps disassembly output stable).
func (em *Emitter) emitClassBodies(classSyms []*symtab.Symbol) {
	for _, sym := range classSyms {
		d := sym.Decl.(*ast.ClassDecl)

		if len(d.Constructors) == 0 {
			em.emitDefaultConstructor(sym)
		}
		for _, ctor := range d.Constructors {
			em.emitConstructor(sym, ctor)
		}
		for _, m := range d.Methods {
			if m.Abstract {
				continue
			}
			em.emitMethod(sym, m)
		}
		for _, p := range d.Properties {
			em.emitProperty(sym, p)
		}
	}
}

func (em *Emitter) methodRecordFor(sym *symtab.Symbol) *MethodRecord {
	return &em.methods[em.methodSlot[sym]]
}

func (em *Emitter) emitMethod(classSym *symtab.Symbol, m *ast.MethodDecl) {
	msym := classSym.Class.Methods[m.Name]
	rec := em.methodRecordFor(msym)
	f := em.newFuncCtx(rec.Code, classSym)
	if !m.Static {
		f.allocEste()
	}
	for _, p := range m.Signature.Params {
		f.declareParam(p.Name)
	}
	f.lowerBlock(m.Body)
	f.finish()
}

func (em *Emitter) emitConstructor(classSym *symtab.Symbol, ctor *ast.ConstructorDecl) {
	var csym *symtab.Symbol
	for _, s := range classSym.Class.Constructors {
		if s.Decl == ctor {
			csym = s
			break
		}
	}
	rec := em.methodRecordFor(csym)
	f := em.newFuncCtx(rec.Code, classSym)
	f.allocEste()
	for _, p := range ctor.Signature.Params {
		f.declareParam(p.Name)
	}

	if ctor.BaseArgs != nil && classSym.Class.Base != nil {
		f.emit(Instr{Op: OpLoadLocal, A: f.esteSlot()})
		for _, a := range ctor.BaseArgs {
			f.lowerExpr(a)
		}
		baseIdx := em.classIdxByFQN[classSym.Class.Base.FQN]
		if baseCtorIdx, ok := em.classes[baseIdx].Constructors[len(ctor.BaseArgs)]; ok {
			f.emit(Instr{Op: OpCallBase, A: baseCtorIdx, B: len(ctor.BaseArgs)})
			f.emit(Instr{Op: OpPop})
		}
	} else if classSym.Class.Base != nil {
		f.emit(Instr{Op: OpLoadLocal, A: f.esteSlot()})
		baseIdx := em.classIdxByFQN[classSym.Class.Base.FQN]
		if baseCtorIdx, ok := em.classes[baseIdx].Constructors[0]; ok {
			f.emit(Instr{Op: OpCallBase, A: baseCtorIdx, B: 0})
			f.emit(Instr{Op: OpPop})
		}
	}

	f.emitFieldInitializers(classSym)
	f.lowerBlock(ctor.Body)
	f.finish()
}

func (em *Emitter) emitDefaultConstructor(classSym *symtab.Symbol) {
	rec := &em.methods[em.classes[em.classIdxByFQN[classSym.FQN]].Constructors[0]]
	f := em.newFuncCtx(rec.Code, classSym)
	f.allocEste()
	if classSym.Class.Base != nil {
		f.emit(Instr{Op: OpLoadLocal, A: f.esteSlot()})
		baseIdx := em.classIdxByFQN[classSym.Class.Base.FQN]
		if baseCtorIdx, ok := em.classes[baseIdx].Constructors[0]; ok {
			f.emit(Instr{Op: OpCallBase, A: baseCtorIdx, B: 0})
			f.emit(Instr{Op: OpPop})
		}
	}
	f.emitFieldInitializers(classSym)
	f.finish()
}

// emitFieldInitializers emits `este.Campo = <inicializador>;` for every
// field (and auto-property backing field) declared with an initializer
// directly on classSym, run at the top of every constructor body (spec.md
// §4.5 "field initializers run before the constructor body, after the
// base call").
func (f *funcCtx) emitFieldInitializers(classSym *symtab.Symbol) {
	d := classSym.Decl.(*ast.ClassDecl)
	for _, fd := range d.Fields {
		if fd.Initializer == nil || fd.Static {
			continue
		}
		f.emit(Instr{Op: OpLoadLocal, A: f.esteSlot()})
		f.lowerExpr(fd.Initializer)
		f.emit(Instr{Op: OpStoreField, Str: fd.Name})
	}
	for _, p := range d.Properties {
		if p.Initializer == nil || p.Static || !p.IsAuto() {
			continue
		}
		f.emit(Instr{Op: OpLoadLocal, A: f.esteSlot()})
		f.lowerExpr(p.Initializer)
		f.emit(Instr{Op: OpStoreField, Str: autoBackingName(p.Name)})
	}
}

func (em *Emitter) emitProperty(classSym *symtab.Symbol, p *ast.PropertyDecl) {
	psym := classSym.Class.Properties[p.Name]
	if p.HasGetter {
		rec := &em.methods[em.propGetterSlot[psym]]
		f := em.newFuncCtx(rec.Code, classSym)
		if !p.Static {
			f.allocEste()
		}
		if p.IsAuto() {
			if !p.Static {
				f.emit(Instr{Op: OpLoadLocal, A: f.esteSlot()})
				f.emit(Instr{Op: OpLoadField, Str: autoBackingName(p.Name)})
			} else {
				f.emit(Instr{Op: OpLoadStatic, A: f.em.classIdxByFQN[classSym.FQN], Str: autoBackingName(p.Name)})
			}
			f.emit(Instr{Op: OpRet})
		} else {
			f.lowerBlock(p.GetterBody)
		}
		f.finish()
	}
	if p.HasSetter {
		rec := &em.methods[em.propSetterSlot[psym]]
		f := em.newFuncCtx(rec.Code, classSym)
		if !p.Static {
			f.allocEste()
		}
		f.declareParam("valor")
		if p.IsAuto() {
			valorSlot, _ := f.resolveLocal("valor")
			if !p.Static {
				f.emit(Instr{Op: OpLoadLocal, A: f.esteSlot()})
				f.emit(Instr{Op: OpLoadLocal, A: valorSlot})
				f.emit(Instr{Op: OpStoreField, Str: autoBackingName(p.Name)})
			} else {
				f.emit(Instr{Op: OpLoadLocal, A: valorSlot})
				f.emit(Instr{Op: OpStoreStatic, A: f.em.classIdxByFQN[classSym.FQN], Str: autoBackingName(p.Name)})
			}
			f.emit(Instr{Op: OpRetVoid})
		} else {
			f.lowerBlock(p.SetterBody)
		}
		f.finish()
	}
}

func (em *Emitter) emitFunctionBodies() {
	for _, sym := range em.checker.FQNs() {
		if sym.Kind != symtab.SymbolFunction {
			continue
		}
		d := sym.Decl.(*ast.FuncDecl)
		rec := em.methodRecordFor(sym)
		f := em.newFuncCtx(rec.Code, nil)
		for _, p := range d.Signature.Params {
			f.declareParam(p.Name)
		}
		f.lowerBlock(d.Body)
		f.finish()
	}
}

// finish appends an implicit RET_VOID at the end of every code block whose
// last instruction isn't already a return, so a `vazio` function/method
// that falls off the end behaves like an explicit `retorne;` (spec.md
// §4.5).
func (f *funcCtx) finish() {
	if len(f.code.Instrs) == 0 || !isReturn(f.code.Instrs[len(f.code.Instrs)-1].Op) {
		f.emit(Instr{Op: OpRetVoid})
	}
}

func isReturn(op Op) bool { return op == OpRet || op == OpRetVoid }

// emitGlobalInit emits the synthesized "global:init" code block: every
// static field/property initializer across every class, in class layout
// order, run once before "global" (spec.md §9 "Globals and static
// initialization").
func (em *Emitter) emitGlobalInit(classSyms []*symtab.Symbol) {
	code := &CodeBlock{CodeID: "global:init"}
	f := em.newFuncCtx(code, nil)
	for _, sym := range classSyms {
		classIdx := em.classIdxByFQN[sym.FQN]
		d := sym.Decl.(*ast.ClassDecl)
		for _, fd := range d.Fields {
			if !fd.Static || fd.Initializer == nil {
				continue
			}
			f.lowerExpr(fd.Initializer)
			f.emit(Instr{Op: OpStoreStatic, A: classIdx, Str: fd.Name})
		}
		for _, p := range d.Properties {
			if !p.Static || p.Initializer == nil || !p.IsAuto() {
				continue
			}
			f.lowerExpr(p.Initializer)
			f.emit(Instr{Op: OpStoreStatic, A: classIdx, Str: autoBackingName(p.Name)})
		}
	}
	f.emit(Instr{Op: OpRetVoid})
	em.methods = append(em.methods, MethodRecord{Signature: "global:init", Code: code})
}

// emitModuleEntry emits the synthesized "global" code block: every
// top-level statement across every file, concatenated in file order
// (spec.md §4.9 "Module entry point").
func (em *Emitter) emitModuleEntry(prog *ast.Program) int {
	code := &CodeBlock{CodeID: "global"}
	f := em.newFuncCtx(code, nil)
	for _, file := range prog.Files {
		for _, s := range file.Stmts {
			f.lowerStmt(s)
		}
	}
	f.emit(Instr{Op: OpRetVoid})
	idx := len(em.methods)
	em.methods = append(em.methods, MethodRecord{Signature: "global", Code: code})
	return idx
}
