package ast

import "github.com/brlang/compilador/internal/lexer"

// Access is the declared visibility of a class, member, or accessor.
type Access int

const (
	AccessPublic Access = iota
	AccessPrivate
	AccessProtected
)

func (a Access) String() string {
	switch a {
	case AccessPrivate:
		return "privado"
	case AccessProtected:
		return "protegido"
	default:
		return "publico"
	}
}

// Param is a single parameter of a method, constructor, or function.
// Invariant (spec.md §3): once a parameter has a default, every later
// parameter in the same list must also have one — enforced by the parser
// at the point it finishes a parameter list, not here.
type Param struct {
	BaseNode
	Name    string
	Type    *TypeExpr
	Default Expr // nil when the parameter is required
}

// Signature is shared shape for methods, constructors, and functions.
type Signature struct {
	Params     []*Param
	ReturnType *TypeExpr // nil means vazio (void); canonicalized by the parser
}

// FieldDecl is a class field: `privado inteiro idade = 0;`.
type FieldDecl struct {
	BaseNode
	Name        string
	Type        *TypeExpr
	Access      Access
	Static      bool
	Initializer Expr // nil when absent
}

// PropertyDecl is `Tipo Nome { obter; definir; }`, optionally with its own
// default initializer and per-accessor access modifiers stricter than the
// property's own (spec.md §4.2). HasGetter/HasSetter record which accessor
// stubs were written; when both bodies are the bare `obter;`/`definir;`
// form the property is an auto-property and the emitter synthesizes a
// backing field plus trivial accessor code blocks (spec.md §4.6, §9).
type PropertyDecl struct {
	BaseNode
	Name        string
	Type        *TypeExpr
	Access      Access
	Static      bool
	HasGetter   bool
	HasSetter   bool
	GetterAccess Access
	SetterAccess Access
	// GetterBody/SetterBody are nil for auto-properties (obter;/definir;)
	// and non-nil for a custom accessor body ({ ... }).
	GetterBody *BlockStmt
	SetterBody *BlockStmt
	Initializer Expr
}

func (p *PropertyDecl) IsAuto() bool {
	return p.GetterBody == nil && p.SetterBody == nil
}

// MethodDecl is an instance or static method.
type MethodDecl struct {
	BaseNode
	Name       string
	Signature  Signature
	Access     Access
	Static     bool
	Abstract   bool
	Virtual    bool // redefinível
	Override   bool // sobrescreve
	Body       *BlockStmt // nil when Abstract
}

// ConstructorDecl is `ClasseNome(params) : base(args) { ... }`.
type ConstructorDecl struct {
	BaseNode
	Access    Access
	Signature Signature
	BaseArgs  []Expr // nil when there's no `: base(...)`
	Body      *BlockStmt
}

// ClassDecl is a `classe` declaration.
type ClassDecl struct {
	BaseNode
	Name        string
	Access      Access
	Base        *TypeExpr // first name after ':' (a base class, or an interface the checker moves to the interface list); nil without ':'
	Interfaces  []*TypeExpr
	Static      bool
	Abstract    bool
	Fields      []*FieldDecl
	Properties  []*PropertyDecl
	Methods     []*MethodDecl
	Constructors []*ConstructorDecl
}

func (d *ClassDecl) stmtNode() {}
func (d *ClassDecl) declNode() {}
func (d *ClassDecl) Accept(v Visitor) error { return v.VisitClassDecl(d) }

// InterfaceDecl is an `interface` declaration: just method signatures.
type InterfaceDecl struct {
	BaseNode
	Name    string
	Access  Access
	Methods []*InterfaceMethod
}

type InterfaceMethod struct {
	BaseNode
	Name      string
	Signature Signature
}

func (d *InterfaceDecl) stmtNode() {}
func (d *InterfaceDecl) declNode() {}
func (d *InterfaceDecl) Accept(v Visitor) error { return v.VisitInterfaceDecl(d) }

// EnumDecl is an `enumeração` declaration: an ordered list of members whose
// values are their 0-based indices (spec.md §3).
type EnumDecl struct {
	BaseNode
	Name    string
	Access  Access
	Members []string
}

func (d *EnumDecl) stmtNode() {}
func (d *EnumDecl) declNode() {}
func (d *EnumDecl) Accept(v Visitor) error { return v.VisitEnumDecl(d) }

// FuncDecl is a top-level `função` declaration.
type FuncDecl struct {
	BaseNode
	Name      string
	Access    Access
	Signature Signature
	Body      *BlockStmt
}

func (d *FuncDecl) stmtNode() {}
func (d *FuncDecl) declNode() {}
func (d *FuncDecl) Accept(v Visitor) error { return v.VisitFuncDecl(d) }

// positionOf is a small helper used by the parser to build a BaseNode from
// a start/end token position pair without repeating the two-field literal
// at every call site.
func positionOf(start, end lexer.Position) BaseNode {
	return BaseNode{StartPos: start, EndPos: end}
}
