package ast

// ExprStmt is an expression used as a statement: a method call, mostly.
type ExprStmt struct {
	BaseNode
	X Expr
}

func (s *ExprStmt) stmtNode() {}
func (s *ExprStmt) Accept(v Visitor) error { return v.VisitExprStmt(s) }

// VarDeclStmt is `Tipo nome = inicial;` or `var nome = inicial;`. Type is
// nil when the declaration used `var` — the type checker fills in the
// inferred static type (spec.md §4.5).
type VarDeclStmt struct {
	BaseNode
	Name        string
	Type        *TypeExpr // nil for `var`
	Initializer Expr
}

func (s *VarDeclStmt) stmtNode() {}
func (s *VarDeclStmt) Accept(v Visitor) error { return v.VisitVarDeclStmt(s) }

// AssignStmt is `alvo = valor;` where alvo is an identifier, a member
// access (field or property), or an index expression. One node covers all
// three lvalue shapes; the emitter picks STORE_LOCAL/STORE_STATIC/
// STORE_FIELD/STORE_INDEX, or a property setter call, based on what the
// resolver bound Target to.
type AssignStmt struct {
	BaseNode
	Target Expr
	Value  Expr
}

func (s *AssignStmt) stmtNode() {}
func (s *AssignStmt) Accept(v Visitor) error { return v.VisitAssignStmt(s) }

// PrintStmt is `imprima(expr);`.
type PrintStmt struct {
	BaseNode
	Value Expr
}

func (s *PrintStmt) stmtNode() {}
func (s *PrintStmt) Accept(v Visitor) error { return v.VisitPrintStmt(s) }

// IfStmt is `se (cond) { ... } senão { ... }`. Else is nil when absent; a
// `senão se` chain is represented as Else holding the nested IfStmt
// directly, giving the standard "dangling else binds innermost"
// nesting the parser builds (spec.md §4.2).
type IfStmt struct {
	BaseNode
	Cond Expr
	Then *BlockStmt
	Else Stmt // *BlockStmt or *IfStmt, nil if absent
}

func (s *IfStmt) stmtNode() {}
func (s *IfStmt) Accept(v Visitor) error { return v.VisitIfStmt(s) }

// WhileStmt is `enquanto (cond) { ... }`.
type WhileStmt struct {
	BaseNode
	Cond Expr
	Body *BlockStmt
}

func (s *WhileStmt) stmtNode() {}
func (s *WhileStmt) Accept(v Visitor) error { return v.VisitWhileStmt(s) }

// ForStmt is the C-style `para (init; cond; step) { ... }` admitted by this
// spec (spec.md Open Questions: "para" is included with a C-style header).
type ForStmt struct {
	BaseNode
	Init Stmt // *VarDeclStmt, *AssignStmt, or *ExprStmt; nil if omitted
	Cond Expr // nil means "always true"
	Step Stmt // nil if omitted
	Body *BlockStmt
}

func (s *ForStmt) stmtNode() {}
func (s *ForStmt) Accept(v Visitor) error { return v.VisitForStmt(s) }

// ReturnStmt is `retorne;` or `retorne expr;`.
type ReturnStmt struct {
	BaseNode
	Value Expr // nil for a valueless return
}

func (s *ReturnStmt) stmtNode() {}
func (s *ReturnStmt) Accept(v Visitor) error { return v.VisitReturnStmt(s) }

// BlockStmt is `{ stmt* }`.
type BlockStmt struct {
	BaseNode
	Stmts []Stmt
}

func (s *BlockStmt) stmtNode() {}
func (s *BlockStmt) Accept(v Visitor) error { return v.VisitBlockStmt(s) }
