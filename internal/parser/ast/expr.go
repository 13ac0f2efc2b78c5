package ast

import "github.com/brlang/compilador/internal/lexer"

// LiteralExpr is a literal value: integer, decimal, double, text, boolean.
// As in the teacher compiler, the decoded value lives in Value (already
// parsed by the lexer/parser) rather than being re-parsed from Lexeme at
// every use.
type LiteralExpr struct {
	BaseNode
	Token lexer.Token
	Value interface{} // int64, float64 (decimal and duplo both), string, or bool
}

func (e *LiteralExpr) exprNode() {}
func (e *LiteralExpr) Accept(v Visitor) (interface{}, error) { return v.VisitLiteralExpr(e) }

// IdentifierExpr is a bare name: a local, a parameter, a field, a class, a
// function, or an enum member reference prior to resolution.
type IdentifierExpr struct {
	BaseNode
	Name string
}

func (e *IdentifierExpr) exprNode() {}
func (e *IdentifierExpr) Accept(v Visitor) (interface{}, error) { return v.VisitIdentifierExpr(e) }

// EsteExpr is `este` (self). Only legal inside instance methods/constructors
// (spec.md §4.5); enforced by the semantic analyzer, not the parser.
type EsteExpr struct {
	BaseNode
}

func (e *EsteExpr) exprNode() {}
func (e *EsteExpr) Accept(v Visitor) (interface{}, error) { return v.VisitEsteExpr(e) }

// MemberExpr is `object.Member`: a field read, a property read (dispatches
// through the getter), or the callee half of a method call.
type MemberExpr struct {
	BaseNode
	Object Expr
	Member string
}

func (e *MemberExpr) exprNode() {}
func (e *MemberExpr) Accept(v Visitor) (interface{}, error) { return v.VisitMemberExpr(e) }

// CallExpr is `callee(args...)`. Callee is an Expr (not restricted to an
// identifier) so both `foo(1)` and `obj.metodo(1)` share one node, the same
// tradeoff the teacher's CallExpr makes.
type CallExpr struct {
	BaseNode
	Callee Expr
	Args   []Expr
}

func (e *CallExpr) exprNode() {}
func (e *CallExpr) Accept(v Visitor) (interface{}, error) { return v.VisitCallExpr(e) }

// NewExpr is `novo Classe(args...)`.
type NewExpr struct {
	BaseNode
	Type *TypeExpr
	Args []Expr
}

func (e *NewExpr) exprNode() {}
func (e *NewExpr) Accept(v Visitor) (interface{}, error) { return v.VisitNewExpr(e) }

// IndexExpr is `array[index]`.
type IndexExpr struct {
	BaseNode
	Array Expr
	Index Expr
}

func (e *IndexExpr) exprNode() {}
func (e *IndexExpr) Accept(v Visitor) (interface{}, error) { return v.VisitIndexExpr(e) }

// ArrayLiteralExpr is `[e1, e2, ...]`.
type ArrayLiteralExpr struct {
	BaseNode
	Elements []Expr
}

func (e *ArrayLiteralExpr) exprNode() {}
func (e *ArrayLiteralExpr) Accept(v Visitor) (interface{}, error) { return v.VisitArrayLiteralExpr(e) }

// BinaryExpr covers arithmetic, comparison, and text concatenation — one
// node type for every `left op right` shape, distinguished by Operator.
type BinaryExpr struct {
	BaseNode
	Left     Expr
	Operator lexer.Token
	Right    Expr
}

func (e *BinaryExpr) exprNode() {}
func (e *BinaryExpr) Accept(v Visitor) (interface{}, error) { return v.VisitBinaryExpr(e) }

// LogicalExpr covers `&&`/`||`. Kept separate from BinaryExpr because these
// two lower to jumps (short-circuit), not to an arithmetic opcode
// (spec.md §4.6 "Short-circuit &&/|| lower to jumps, not to dedicated
// instructions").
type LogicalExpr struct {
	BaseNode
	Left     Expr
	Operator lexer.Token
	Right    Expr
}

func (e *LogicalExpr) exprNode() {}
func (e *LogicalExpr) Accept(v Visitor) (interface{}, error) { return v.VisitLogicalExpr(e) }

// UnaryExpr is `-x`, `!flag`.
type UnaryExpr struct {
	BaseNode
	Operator lexer.Token
	Operand  Expr
}

func (e *UnaryExpr) exprNode() {}
func (e *UnaryExpr) Accept(v Visitor) (interface{}, error) { return v.VisitUnaryExpr(e) }

// GroupingExpr is a parenthesized expression, kept as its own node (rather
// than discarded) so that Pos()/End() reflect the parentheses for
// diagnostics and round-tripping (spec.md §8 property 1).
type GroupingExpr struct {
	BaseNode
	Inner Expr
}

func (e *GroupingExpr) exprNode() {}
func (e *GroupingExpr) Accept(v Visitor) (interface{}, error) { return v.VisitGroupingExpr(e) }

// InterpolatedExpr is the raw `$"...{expr}..."` literal as the parser first
// sees it, before the interpolation expander (§4.3) rewrites it into a
// concatenation chain. RawBody is the lexer's unescaped-brace, undecoded
// literal text; the expander is what re-scans it.
type InterpolatedExpr struct {
	BaseNode
	RawBody string
}

func (e *InterpolatedExpr) exprNode() {}
func (e *InterpolatedExpr) Accept(v Visitor) (interface{}, error) { return v.VisitInterpolatedExpr(e) }

// ToTextExpr marks a point where a non-text value must be coerced to text
// via the built-in to-text operation — synthesized by the interpolation
// expander. A `+` concatenation with a texto operand (spec.md §4.5) gets
// no ToTextExpr node; the bytecode emitter adds its TO_TEXT from the
// checker's operand types.
type ToTextExpr struct {
	BaseNode
	Inner Expr
}

func (e *ToTextExpr) exprNode() {}
func (e *ToTextExpr) Accept(v Visitor) (interface{}, error) { return v.VisitToTextExpr(e) }
