// Package ast defines the Abstract Syntax Tree node types produced by the
// parser and consumed by the interpolation expander, the resolver/type
// checker, and the bytecode emitter.
//
// Following the teacher compiler's design: Expr/Stmt/Decl are interfaces so
// the tree stays polymorphic, every node carries its start and end
// positions for diagnostics, and every node has an Accept method for the
// Visitor below. Declarations are also statements
// (a class body can't appear mid-expression, but file-level lists treat
// declarations and statements uniformly), mirroring the teacher's Decl
// embedding Stmt.
package ast

import (
	"github.com/brlang/compilador/internal/lexer"
)

// Node is the base interface implemented by every AST node.
type Node interface {
	Pos() lexer.Position
	End() lexer.Position
}

// Expr is any node that produces a value.
type Expr interface {
	Node
	Accept(v Visitor) (interface{}, error)
	exprNode()
}

// Stmt is any node that performs an action.
type Stmt interface {
	Node
	Accept(v Visitor) error
	stmtNode()
}

// Decl is a top-level or namespace-level declaration. Declarations are also
// Stmt so file-level lists can hold a uniform []Stmt when convenient, but
// the parser keeps a dedicated []Decl for the resolver's first pass.
type Decl interface {
	Stmt
	declNode()
}

// Visitor is the traversal interface for the whole tree, following the
// teacher's visitor pattern: one Accept method per node. The semantic
// checker implements it; the bytecode emitter switches on node types
// directly instead, and the interpolation expander rewrites a single
// InterpolatedExpr without walking the tree.
type Visitor interface {
	// Expressions
	VisitLiteralExpr(e *LiteralExpr) (interface{}, error)
	VisitIdentifierExpr(e *IdentifierExpr) (interface{}, error)
	VisitEsteExpr(e *EsteExpr) (interface{}, error)
	VisitMemberExpr(e *MemberExpr) (interface{}, error)
	VisitCallExpr(e *CallExpr) (interface{}, error)
	VisitNewExpr(e *NewExpr) (interface{}, error)
	VisitIndexExpr(e *IndexExpr) (interface{}, error)
	VisitArrayLiteralExpr(e *ArrayLiteralExpr) (interface{}, error)
	VisitBinaryExpr(e *BinaryExpr) (interface{}, error)
	VisitUnaryExpr(e *UnaryExpr) (interface{}, error)
	VisitLogicalExpr(e *LogicalExpr) (interface{}, error)
	VisitGroupingExpr(e *GroupingExpr) (interface{}, error)
	VisitInterpolatedExpr(e *InterpolatedExpr) (interface{}, error)
	VisitToTextExpr(e *ToTextExpr) (interface{}, error)

	// Statements
	VisitExprStmt(s *ExprStmt) error
	VisitVarDeclStmt(s *VarDeclStmt) error
	VisitAssignStmt(s *AssignStmt) error
	VisitPrintStmt(s *PrintStmt) error
	VisitIfStmt(s *IfStmt) error
	VisitWhileStmt(s *WhileStmt) error
	VisitForStmt(s *ForStmt) error
	VisitReturnStmt(s *ReturnStmt) error
	VisitBlockStmt(s *BlockStmt) error

	// Declarations
	VisitClassDecl(d *ClassDecl) error
	VisitInterfaceDecl(d *InterfaceDecl) error
	VisitEnumDecl(d *EnumDecl) error
	VisitFuncDecl(d *FuncDecl) error
}

// BaseNode supplies Pos/End for nodes whose span is just its two stored
// endpoints, saving every leaf node from repeating the same two methods.
type BaseNode struct {
	StartPos lexer.Position
	EndPos   lexer.Position
}

func (b *BaseNode) Pos() lexer.Position { return b.StartPos }
func (b *BaseNode) End() lexer.Position { return b.EndPos }

// UsingDecl is a `usando X.Y` import.
type UsingDecl struct {
	BaseNode
	Path string
}

// NamespaceBlock is an `espaco P { ... }` block. Namespaces are a naming
// device only (spec.md §3): declarations nested inside get FQN `P.Name`,
// but the block itself does not exist at runtime.
type NamespaceBlock struct {
	BaseNode
	Path  string
	Decls []Decl
}

// File is the AST of one source file, the parser's top-level production.
type File struct {
	Filename   string
	Usings     []*UsingDecl
	Namespaces []*NamespaceBlock
	Decls      []Decl   // top-level declarations outside any espaco block
	Stmts      []Stmt   // top-level statements, folded into the synthetic entry point
	Comments   []*Comment
}

// Comment is tracked separately from the syntax tree (teacher does the
// same): it has no bearing on semantics, only on tooling that wants it.
// The parser leaves File.Comments empty, since Lexer.Tokens drops comment
// tokens before parsing.
type Comment struct {
	Position lexer.Position
	Text     string
	IsBlock  bool
}

func (c *Comment) Pos() lexer.Position { return c.Position }
func (c *Comment) End() lexer.Position {
	return lexer.Position{
		Filename: c.Position.Filename,
		Line:     c.Position.Line,
		Column:   c.Position.Column + len(c.Text),
		Offset:   c.Position.Offset + len(c.Text),
	}
}

// Program is the merged AST produced by combining every File passed to the
// compiler in one invocation (spec.md §3: "Program... a mapping from fully
// qualified names to declarations").
type Program struct {
	Files []*File
}
