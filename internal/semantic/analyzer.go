// Package semantic implements name/namespace resolution and static type
// checking over the parsed AST.
//
// SEMANTIC ANALYSIS:
// After parsing (and interpolation expansion) we have a syntactically
// correct AST, but it might not be semantically valid. This package
// checks:
//  1. Name resolution — is every name defined before use, and is it the
//     kind of thing it's used as (a class where a class is expected, a
//     value where a value is expected)?
//  2. Namespace resolution — espaco blocks give each declaration its
//     fully qualified name; a name written in source resolves by exact
//     FQN first, then by simple name in the global scope. usando
//     declarations are parsed but not consulted here.
//  3. Class hierarchy — base-class and interface-implementation edges
//     are resolved, and base-class chains are checked for cycles.
//  4. Type checking — do operations, assignments, calls, and returns use
//     compatible types (inteiro/decimal/duplo widening, no enum
//     cross-mixing, text `+` coercion)?
//
// DESIGN PHILOSOPHY (matching the teacher's analyzer):
//   - Collect every error, never stop at the first one.
//   - Traverse with the AST's own Visitor interface.
//   - Build the symbol table while checking, in two passes: a declare
//     pass that registers every namespace-level name (so forward
//     references across classes/functions work regardless of file
//     order), then a check pass that walks every body.
//   - Annotate expression types in a side table (exprTypes) rather than
//     mutating the AST, so the tree stays reusable across tooling (the
//     debugger's expression evaluator, in particular).
package semantic

import (
	"fmt"

	"github.com/brlang/compilador/internal/diag"
	"github.com/brlang/compilador/internal/lexer"
	"github.com/brlang/compilador/internal/parser/ast"
	"github.com/brlang/compilador/internal/semantic/types"
	"github.com/brlang/compilador/internal/symtab"
)

const stage = "semantico"

// Checker performs name resolution and type checking on a *ast.Program.
//
// DESIGN CHOICE: implement ast.Visitor to traverse declarations,
// statements and expressions uniformly, rather than a family of
// type-switch functions — the same tradeoff the teacher's Analyzer
// makes, for the same reasons (separation of AST shape from analysis,
// and a single dispatch point per node kind).
type Checker struct {
	bag diag.Bag

	// global holds every namespace-level declaration (classes,
	// interfaces, enums, functions), keyed by its SIMPLE name. A name
	// that collides across namespaces must be referred to by its dotted
	// FQN in source, which resolveType/resolveTypeName falls back to
	// checking against fqns.
	global *symtab.Scope
	fqns   map[string]*symtab.Symbol

	scope *symtab.Scope

	exprTypes map[ast.Expr]types.Type

	// calleeMethods records the method symbol resolved for the callee
	// half of an `obj.metodo(...)` call (keyed by the MemberExpr node),
	// so VisitCallExpr can check arity/argument types against it without
	// a second member lookup. There is no MethodRefType in the types
	// package — a method reference isn't a value this language can name
	// outside of an immediate call, so it never needs to satisfy
	// types.Type.
	calleeMethods map[ast.Expr]*symtab.Symbol

	// exprSymbols records, for every IdentifierExpr and MemberExpr that
	// resolved to a named declaration (as opposed to a computed value),
	// which symbol it bound to — the bytecode emitter (internal/bytecode)
	// uses this instead of re-running name resolution to decide between
	// LOAD_LOCAL/LOAD_STATIC/LOAD_FIELD and a property getter call for the
	// same node shape.
	exprSymbols map[ast.Expr]*symtab.Symbol

	currentClass  *symtab.Symbol // non-nil while checking a class's members
	currentReturn types.Type     // expected return type of the enclosing function/method/constructor
	inConstructor bool
}

// New creates a Checker ready to Check a freshly parsed program.
func New() *Checker {
	global := symtab.NewScope(symtab.ScopeGlobal, nil)
	return &Checker{
		global:        global,
		scope:         global,
		fqns:          make(map[string]*symtab.Symbol),
		exprTypes:     make(map[ast.Expr]types.Type),
		calleeMethods: make(map[ast.Expr]*symtab.Symbol),
		exprSymbols:   make(map[ast.Expr]*symtab.Symbol),
	}
}

// Check runs name resolution and type checking over every file in prog
// and returns the accumulated diagnostics (empty if the program is
// well-formed).
func (c *Checker) Check(prog *ast.Program) []error {
	for _, file := range prog.Files {
		c.declareFile(file, "")
	}
	c.linkClassHierarchy()

	for _, file := range prog.Files {
		c.checkFile(file)
	}

	return c.errorsOnly()
}

func (c *Checker) errorsOnly() []error {
	out := make([]error, 0, len(c.bag.Errors()))
	for _, e := range c.bag.Sorted() {
		if e.Severity == diag.SeverityError {
			out = append(out, e)
		}
	}
	return out
}

// Diagnostics returns every diagnostic raised, including warnings —
// callers that want to print both (the CLI driver) use this instead of
// the []error Check returns.
func (c *Checker) Diagnostics() []*diag.Error { return c.bag.Sorted() }

func (c *Checker) error(pos lexer.Position, format string, args ...interface{}) {
	c.bag.Addf(stage, pos, format, args...)
}

func (c *Checker) warn(pos lexer.Position, format string, args ...interface{}) {
	c.bag.Add(diag.Warning(stage, pos, fmt.Sprintf(format, args...)))
}

// --- declare pass -----------------------------------------------------

// declareFile registers every namespace-level declaration in file,
// recursing into its espaco blocks, before any body is checked — so a
// class can reference another declared later in the same file, or in a
// different file of the same program.
func (c *Checker) declareFile(file *ast.File, _ string) {
	for _, decl := range file.Decls {
		c.declareDecl(decl, "")
	}
	for _, ns := range file.Namespaces {
		for _, decl := range ns.Decls {
			c.declareDecl(decl, ns.Path)
		}
	}
}

func (c *Checker) declareDecl(decl ast.Decl, namespace string) {
	switch d := decl.(type) {
	case *ast.ClassDecl:
		c.declareClass(d, namespace)
	case *ast.InterfaceDecl:
		c.declareInterface(d, namespace)
	case *ast.EnumDecl:
		c.declareEnum(d, namespace)
	case *ast.FuncDecl:
		c.declareFunc(d, namespace)
	}
}

func fqnOf(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + "." + name
}

func (c *Checker) defineGlobal(sym *symtab.Symbol, fqn string) {
	sym.FQN = fqn
	if err := c.global.Define(sym); err != nil {
		// A same-simple-name collision across namespaces is allowed —
		// only register it for unqualified lookup if it's the first
		// with that simple name; the FQN registry still finds every one.
		c.warn(sym.Pos, "%s está sombreado por outra declaração de mesmo nome; use o nome qualificado %s", sym.Name, fqn)
	}
	if existing, ok := c.fqns[fqn]; ok {
		c.error(sym.Pos, "%s já foi declarado em %s", fqn, existing.Pos.String())
		return
	}
	c.fqns[fqn] = sym
}

func (c *Checker) declareClass(d *ast.ClassDecl, namespace string) {
	fqn := fqnOf(namespace, d.Name)
	sym := &symtab.Symbol{
		Name:   d.Name,
		Kind:   symtab.SymbolClass,
		Pos:    d.Pos(),
		Access: d.Access,
		Static: d.Static,
		Decl:   d,
		Class: &symtab.ClassInfo{
			Abstract:   d.Abstract,
			Fields:     make(map[string]*symtab.Symbol),
			Properties: make(map[string]*symtab.Symbol),
			Methods:    make(map[string]*symtab.Symbol),
		},
	}
	c.defineGlobal(sym, fqn)

	for _, f := range d.Fields {
		fieldSym := &symtab.Symbol{
			Name: f.Name, Kind: symtab.SymbolField, Pos: f.Pos(),
			Access: f.Access, Static: f.Static, Decl: f,
		}
		sym.Class.Fields[f.Name] = fieldSym
	}
	for _, p := range d.Properties {
		propSym := &symtab.Symbol{
			Name: p.Name, Kind: symtab.SymbolProperty, Pos: p.Pos(),
			Access: p.Access, Static: p.Static, Decl: p,
		}
		sym.Class.Properties[p.Name] = propSym
	}
	for _, m := range d.Methods {
		methodSym := &symtab.Symbol{
			Name: m.Name, Kind: symtab.SymbolMethod, Pos: m.Pos(),
			Access: m.Access, Static: m.Static, Decl: m,
		}
		sym.Class.Methods[m.Name] = methodSym
	}
	for _, ctor := range d.Constructors {
		ctorSym := &symtab.Symbol{
			Name: d.Name, Kind: symtab.SymbolConstructor, Pos: ctor.Pos(),
			Access: ctor.Access, Decl: ctor,
		}
		sym.Class.Constructors = append(sym.Class.Constructors, ctorSym)
	}
}

func (c *Checker) declareInterface(d *ast.InterfaceDecl, namespace string) {
	fqn := fqnOf(namespace, d.Name)
	sym := &symtab.Symbol{
		Name: d.Name, Kind: symtab.SymbolInterface, Pos: d.Pos(), Access: d.Access, Decl: d,
		Interface: &symtab.InterfaceInfo{Methods: make(map[string]*symtab.Symbol)},
	}
	for _, m := range d.Methods {
		sym.Interface.Methods[m.Name] = &symtab.Symbol{
			Name: m.Name, Kind: symtab.SymbolMethod, Pos: m.Pos(), Decl: m,
		}
	}
	c.defineGlobal(sym, fqn)
}

func (c *Checker) declareEnum(d *ast.EnumDecl, namespace string) {
	fqn := fqnOf(namespace, d.Name)
	enumType := &types.EnumType{FQN: fqn, Members: append([]string(nil), d.Members...)}
	sym := &symtab.Symbol{
		Name: d.Name, Kind: symtab.SymbolEnum, Pos: d.Pos(), Access: d.Access, Decl: d, Type: enumType,
		Enum: &symtab.EnumInfo{},
	}
	for i, m := range d.Members {
		sym.Enum.Members = append(sym.Enum.Members, &symtab.Symbol{
			Name: m, Kind: symtab.SymbolEnumMember, Pos: d.Pos(), Type: enumType, Index: i, Constant: true,
		})
	}
	c.defineGlobal(sym, fqn)
}

func (c *Checker) declareFunc(d *ast.FuncDecl, namespace string) {
	fqn := fqnOf(namespace, d.Name)
	sym := &symtab.Symbol{
		Name: d.Name, Kind: symtab.SymbolFunction, Pos: d.Pos(), Access: d.Access, Decl: d,
	}
	c.defineGlobal(sym, fqn)
}

// linkClassHierarchy resolves every class's Base/Interfaces from the
// TypeExpr the parser recorded, now that all namespace-level names are
// known — an interface named first after ':' joins Interfaces — then
// checks for inheritance cycles (spec.md §4.4). Interfaces carry no base
// list, so there is no interface-extension edge to resolve or check.
func (c *Checker) linkClassHierarchy() {
	for _, sym := range c.fqns {
		if sym.Kind != symtab.SymbolClass {
			continue
		}
		d := sym.Decl.(*ast.ClassDecl)
		if d.Base != nil {
			baseSym := c.lookupTypeName(d.Base.Name, d.Base.Pos())
			if baseSym == nil {
				continue
			}
			switch baseSym.Kind {
			case symtab.SymbolClass:
				sym.Class.Base = baseSym
			case symtab.SymbolInterface:
				sym.Class.Interfaces = append(sym.Class.Interfaces, baseSym)
			default:
				c.error(d.Base.Pos(), "%s não é uma classe", d.Base.Name)
				continue
			}
		}
		for _, ifaceExpr := range d.Interfaces {
			ifaceSym := c.lookupTypeName(ifaceExpr.Name, ifaceExpr.Pos())
			if ifaceSym == nil {
				continue
			}
			if ifaceSym.Kind != symtab.SymbolInterface {
				c.error(ifaceExpr.Pos(), "%s não é uma interface", ifaceExpr.Name)
				continue
			}
			sym.Class.Interfaces = append(sym.Class.Interfaces, ifaceSym)
		}
	}

	for _, sym := range c.fqns {
		if sym.Kind == symtab.SymbolClass {
			c.checkClassCycle(sym, map[string]bool{})
		}
	}
}

func (c *Checker) checkClassCycle(sym *symtab.Symbol, seen map[string]bool) {
	if sym.Class == nil || sym.Class.Base == nil {
		return
	}
	if seen[sym.FQN] {
		c.error(sym.Pos, "herança cíclica detectada envolvendo %s", sym.FQN)
		sym.Class.Base = nil // break the cycle so later passes don't loop forever
		return
	}
	seen[sym.FQN] = true
	c.checkClassCycle(sym.Class.Base, seen)
}

// lookupTypeName resolves a (possibly dotted) class/interface/enum name
// written in source to its declared symbol: first by exact FQN, then by
// simple (unqualified) name in the global scope.
func (c *Checker) lookupTypeName(name string, pos lexer.Position) *symtab.Symbol {
	if sym, ok := c.fqns[name]; ok {
		return sym
	}
	if sym := c.global.LookupLocal(name); sym != nil {
		return sym
	}
	c.error(pos, "tipo não definido: %s", name)
	return nil
}

// --- type resolution ---------------------------------------------------

// resolveType converts a parsed *ast.TypeExpr into a types.Type, looking
// up class/interface/enum names in the global registry.
func (c *Checker) resolveType(te *ast.TypeExpr) types.Type {
	if te == nil {
		return &types.VazioType{}
	}
	if te.IsArray {
		return &types.ArrayType{Elem: c.resolveType(te.Elem)}
	}
	switch te.Name {
	case "inteiro":
		return &types.InteiroType{}
	case "decimal":
		return &types.DecimalType{}
	case "duplo":
		return &types.DuploType{}
	case "booleano":
		return &types.BooleanoType{}
	case "texto":
		return &types.TextoType{}
	case "vazio":
		return &types.VazioType{}
	}

	sym := c.lookupTypeName(te.Name, te.Pos())
	if sym == nil {
		return &types.InvalidType{}
	}
	switch sym.Kind {
	case symtab.SymbolClass:
		return c.classTypeOf(sym)
	case symtab.SymbolInterface:
		return c.interfaceTypeOf(sym)
	case symtab.SymbolEnum:
		return sym.Type
	default:
		c.error(te.Pos(), "%s não é um tipo", te.Name)
		return &types.InvalidType{}
	}
}

func (c *Checker) classTypeOf(sym *symtab.Symbol) *types.ClassType {
	ct := &types.ClassType{FQN: sym.FQN}
	if sym.Class.Base != nil {
		ct.Base = c.classTypeOf(sym.Class.Base)
	}
	for _, i := range sym.Class.Interfaces {
		ct.Interfaces = append(ct.Interfaces, c.interfaceTypeOf(i))
	}
	return ct
}

func (c *Checker) interfaceTypeOf(sym *symtab.Symbol) *types.InterfaceType {
	it := &types.InterfaceType{FQN: sym.FQN}
	return it
}

// assignable reports whether valueType can be used where targetType is
// expected, recording an error at pos if not.
func (c *Checker) assignable(valueType, targetType types.Type, pos lexer.Position) bool {
	if valueType.AssignableTo(targetType) {
		return true
	}
	c.error(pos, "não é possível atribuir %s a %s", valueType, targetType)
	return false
}

// GetExprType returns the type computed for expr during Check, or
// InvalidType if expr was never visited (e.g. it's in a file not passed
// to Check).
func (c *Checker) GetExprType(expr ast.Expr) types.Type {
	if t, ok := c.exprTypes[expr]; ok {
		return t
	}
	return &types.InvalidType{}
}

// GetExprSymbol returns the symbol expr resolved to during Check (an
// IdentifierExpr naming a local/parameter/field/property/enum-member, or a
// MemberExpr naming a field/property/method), or nil if expr names none
// (a computed value, e.g. the result of a call or an arithmetic
// expression has no bound symbol).
func (c *Checker) GetExprSymbol(expr ast.Expr) *symtab.Symbol {
	return c.exprSymbols[expr]
}

// GetCalleeMethod returns the method symbol a CallExpr's MemberExpr callee
// resolved to (see calleeMethods), or nil if e isn't a call callee (a
// plain field/property access, or a call whose checking failed).
func (c *Checker) GetCalleeMethod(e *ast.MemberExpr) *symtab.Symbol {
	return c.calleeMethods[e]
}

// LookupFunction resolves a bare top-level function name the same way the
// checker's own call-expression handling does, for the emitter's
// CallExpr-with-IdentifierExpr-callee lowering.
func (c *Checker) LookupFunction(name string) *symtab.Symbol {
	return c.lookupFunctionByName(name, lexer.Position{})
}

// FQNs returns every namespace-level declaration symbol keyed by its
// fully qualified name, populated by the declare pass. The bytecode
// emitter walks this (sorted, for determinism) to lay out the module's
// class table, method table, and constant pool — Check must have run
// first.
func (c *Checker) FQNs() map[string]*symtab.Symbol { return c.fqns }

// GlobalScope returns the top-level scope, used by the emitter to find
// free functions and enum declarations by simple name.
func (c *Checker) GlobalScope() *symtab.Scope { return c.global }

// --- check pass: files, declarations -----------------------------------

func (c *Checker) checkFile(file *ast.File) {
	for _, decl := range file.Decls {
		_ = decl.Accept(c)
	}
	for _, ns := range file.Namespaces {
		for _, decl := range ns.Decls {
			_ = decl.Accept(c)
		}
	}
	if len(file.Stmts) > 0 {
		c.enterScope(symtab.ScopeFunction)
		c.currentReturn = &types.VazioType{}
		for _, s := range file.Stmts {
			_ = s.Accept(c)
		}
		c.exitScope()
	}
}

func (c *Checker) VisitClassDecl(d *ast.ClassDecl) error {
	sym := c.mustLookupDeclared(d.Name, d.Pos())
	if sym == nil {
		return nil
	}
	prevClass := c.currentClass
	c.currentClass = sym
	c.enterScope(symtab.ScopeClass)
	c.scope.Class = sym

	for _, f := range d.Fields {
		fieldSym := sym.Class.Fields[f.Name]
		fieldSym.Type = c.resolveType(f.Type)
		if f.Initializer != nil {
			initType := c.typeOfExpr(f.Initializer)
			c.assignable(initType, fieldSym.Type, f.Initializer.Pos())
		}
	}

	for _, p := range d.Properties {
		propSym := sym.Class.Properties[p.Name]
		propSym.Type = c.resolveType(p.Type)
		if p.Initializer != nil {
			initType := c.typeOfExpr(p.Initializer)
			c.assignable(initType, propSym.Type, p.Initializer.Pos())
		}
		if !p.IsAuto() {
			if p.GetterBody != nil {
				c.enterScope(symtab.ScopeFunction)
				c.currentReturn = propSym.Type
				_ = p.GetterBody.Accept(c)
				c.exitScope()
			}
			if p.SetterBody != nil {
				c.enterScope(symtab.ScopeFunction)
				c.currentReturn = &types.VazioType{}
				vSym := &symtab.Symbol{Name: "valor", Kind: symtab.SymbolParameter, Type: propSym.Type, Pos: p.Pos()}
				c.scope.Define(vSym)
				_ = p.SetterBody.Accept(c)
				c.exitScope()
			}
		}
	}

	for _, m := range d.Methods {
		c.checkMethod(sym, m)
	}

	for _, ctor := range d.Constructors {
		c.checkConstructor(sym, ctor)
	}

	c.checkInterfaceConformance(sym, d)

	c.exitScope()
	c.currentClass = prevClass
	return nil
}

func (c *Checker) mustLookupDeclared(name string, pos lexer.Position) *symtab.Symbol {
	if sym := c.global.LookupLocal(name); sym != nil {
		return sym
	}
	for _, sym := range c.fqns {
		if sym.Name == name {
			return sym
		}
	}
	c.error(pos, "declaração interna não encontrada para %s", name)
	return nil
}

func (c *Checker) checkMethod(classSym *symtab.Symbol, m *ast.MethodDecl) {
	methodSym := classSym.Class.Methods[m.Name]
	params := make([]types.Type, len(m.Signature.Params))
	defaults := make([]ast.Expr, len(m.Signature.Params))
	for i, p := range m.Signature.Params {
		params[i] = c.resolveType(p.Type)
		defaults[i] = p.Default
	}
	methodSym.Params = params
	methodSym.ParamDefaults = defaults
	methodSym.Type = c.resolveType(m.Signature.ReturnType)

	if m.Abstract {
		if !classSym.Class.Abstract {
			c.error(m.Pos(), "método abstrato %s só pode existir em uma classe abstrata", m.Name)
		}
		return
	}

	c.enterScope(symtab.ScopeFunction)
	c.scope.Function = methodSym
	c.currentReturn = methodSym.Type
	for i, p := range m.Signature.Params {
		c.scope.Define(&symtab.Symbol{Name: p.Name, Kind: symtab.SymbolParameter, Type: params[i], Pos: p.Pos(), Index: i})
	}
	if m.Body != nil {
		_ = m.Body.Accept(c)
	}
	c.exitScope()
}

func (c *Checker) checkConstructor(classSym *symtab.Symbol, ctor *ast.ConstructorDecl) {
	var ctorSym *symtab.Symbol
	for _, s := range classSym.Class.Constructors {
		if s.Decl == ctor {
			ctorSym = s
			break
		}
	}
	params := make([]types.Type, len(ctor.Signature.Params))
	defaults := make([]ast.Expr, len(ctor.Signature.Params))
	for i, p := range ctor.Signature.Params {
		params[i] = c.resolveType(p.Type)
		defaults[i] = p.Default
	}
	if ctorSym != nil {
		ctorSym.Params = params
		ctorSym.ParamDefaults = defaults
		ctorSym.Type = &types.VazioType{}
	}

	if ctor.BaseArgs != nil && classSym.Class.Base == nil {
		c.error(ctor.Pos(), "%s não tem classe base para invocar com : base(...)", classSym.Name)
	}

	c.enterScope(symtab.ScopeFunction)
	c.scope.Function = ctorSym
	c.currentReturn = &types.VazioType{}
	prevInCtor := c.inConstructor
	c.inConstructor = true
	for i, p := range ctor.Signature.Params {
		c.scope.Define(&symtab.Symbol{Name: p.Name, Kind: symtab.SymbolParameter, Type: params[i], Pos: p.Pos(), Index: i})
	}
	for _, arg := range ctor.BaseArgs {
		c.typeOfExpr(arg)
	}
	if ctor.Body != nil {
		_ = ctor.Body.Accept(c)
	}
	c.inConstructor = prevInCtor
	c.exitScope()
}

// checkInterfaceConformance verifies that sym's class has a method of each
// name every interface it claims requires (spec.md §4.4). Only the name is
// checked; parameter and return types are not compared with the
// interface's signature.
func (c *Checker) checkInterfaceConformance(sym *symtab.Symbol, d *ast.ClassDecl) {
	if sym.Class.Abstract {
		return
	}
	seen := map[string]bool{}
	var walk func(ifaceSym *symtab.Symbol)
	walk = func(ifaceSym *symtab.Symbol) {
		if ifaceSym == nil || ifaceSym.Interface == nil || seen[ifaceSym.FQN] {
			return
		}
		seen[ifaceSym.FQN] = true
		for name, m := range ifaceSym.Interface.Methods {
			impl := sym.LookupMember(name)
			if impl == nil || impl.Kind != symtab.SymbolMethod {
				c.error(d.Pos(), "%s não implementa o método %s exigido pela interface %s", sym.Name, name, ifaceSym.Name)
				continue
			}
			_ = m
		}
	}
	for _, ifaceSym := range sym.Class.Interfaces {
		walk(ifaceSym)
	}
}

func (c *Checker) VisitInterfaceDecl(d *ast.InterfaceDecl) error { return nil }

func (c *Checker) VisitEnumDecl(d *ast.EnumDecl) error { return nil }

func (c *Checker) VisitFuncDecl(d *ast.FuncDecl) error {
	sym := c.mustLookupDeclared(d.Name, d.Pos())
	if sym == nil {
		return nil
	}
	params := make([]types.Type, len(d.Signature.Params))
	defaults := make([]ast.Expr, len(d.Signature.Params))
	for i, p := range d.Signature.Params {
		params[i] = c.resolveType(p.Type)
		defaults[i] = p.Default
	}
	sym.Params = params
	sym.ParamDefaults = defaults
	sym.Type = c.resolveType(d.Signature.ReturnType)

	c.enterScope(symtab.ScopeFunction)
	c.scope.Function = sym
	c.currentReturn = sym.Type
	for i, p := range d.Signature.Params {
		c.scope.Define(&symtab.Symbol{Name: p.Name, Kind: symtab.SymbolParameter, Type: params[i], Pos: p.Pos(), Index: i})
	}
	if d.Body != nil {
		_ = d.Body.Accept(c)
	}
	c.exitScope()
	return nil
}

// --- scope helpers -------------------------------------------------------

func (c *Checker) enterScope(kind symtab.ScopeKind) { c.scope = symtab.NewScope(kind, c.scope) }

func (c *Checker) exitScope() {
	for _, unused := range c.scope.UnusedSymbols() {
		if unused.Kind == symtab.SymbolVariable {
			c.warn(unused.Pos, "variável %s declarada mas nunca usada", unused.Name)
		}
	}
	if c.scope.Parent != nil {
		c.scope = c.scope.Parent
	}
}

// typeOfExpr visits expr through the Checker's own Visitor implementation
// and unwraps the (interface{}, error) Accept contract down to a
// types.Type, recording it in exprTypes as a side effect.
func (c *Checker) typeOfExpr(expr ast.Expr) types.Type {
	result, _ := expr.Accept(c)
	t, ok := result.(types.Type)
	if !ok {
		return &types.InvalidType{}
	}
	return t
}
