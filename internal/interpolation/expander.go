// Package interpolation rewrites an interpolated string literal —
// `$"Ola, {nome}!"`, preserved by the lexer as one raw, undecoded token —
// into an ordinary expression tree: a chain of text concatenations with a
// ToTextExpr coercion wrapped around every `{expr}` substitution. Splitting
// out a dedicated pass (rather than handling interpolation inline in the
// parser) mirrors how the teacher compiler keeps each rewrite — constant
// folding, dead code elimination — a separate, independently testable step
// over the same AST shape (internal/optimizer in the teacher tree).
package interpolation

import (
	"strings"

	"github.com/brlang/compilador/internal/diag"
	"github.com/brlang/compilador/internal/lexer"
	"github.com/brlang/compilador/internal/parser"
	"github.com/brlang/compilador/internal/parser/ast"
)

const stage = "interpolacao"

// Expand rewrites e into a concatenation chain. A literal with no `{expr}`
// substitutions collapses to a single *ast.LiteralExpr; diagnostics are
// returned rather than panicking so a malformed substitution doesn't abort
// the rest of the file (spec.md §7).
func Expand(e *ast.InterpolatedExpr, filename string) (ast.Expr, []error) {
	var bag diag.Bag
	segs := split(e.RawBody)

	var result ast.Expr
	for _, seg := range segs {
		var piece ast.Expr
		if seg.isExpr {
			inner, errs := parseSubExpr(seg.text, filename, e.Pos())
			for _, err := range errs {
				bag.Addf(stage, e.Pos(), "substituição de interpolação inválida: %v", err)
			}
			if inner == nil {
				continue
			}
			piece = &ast.ToTextExpr{BaseNode: ast.BaseNode{StartPos: inner.Pos(), EndPos: inner.End()}, Inner: inner}
		} else {
			piece = &ast.LiteralExpr{
				BaseNode: ast.BaseNode{StartPos: e.Pos(), EndPos: e.End()},
				Token:    lexer.Token{Type: lexer.TokenString, Lexeme: seg.text, Position: e.Pos()},
				Value:    unescape(seg.text),
			}
		}
		result = concat(result, piece, e)
	}

	if result == nil {
		result = &ast.LiteralExpr{
			BaseNode: ast.BaseNode{StartPos: e.Pos(), EndPos: e.End()},
			Token:    lexer.Token{Type: lexer.TokenString, Position: e.Pos()},
			Value:    "",
		}
	}
	return result, toErrors(bag)
}

func toErrors(bag diag.Bag) []error {
	errs := make([]error, 0, len(bag.Errors()))
	for _, e := range bag.Errors() {
		errs = append(errs, e)
	}
	return errs
}

// concat folds piece onto the accumulated result with a synthetic `+`
// BinaryExpr; adjacent text constants are not folded into one literal,
// keeping this pass a pure syntactic rewrite (spec.md §4.3).
func concat(result, piece ast.Expr, e *ast.InterpolatedExpr) ast.Expr {
	if result == nil {
		return piece
	}
	plus := lexer.Token{Type: lexer.TokenPlus, Lexeme: "+", Position: e.Pos()}
	return &ast.BinaryExpr{
		BaseNode: ast.BaseNode{StartPos: result.Pos(), EndPos: piece.End()},
		Left:     result, Operator: plus, Right: piece,
	}
}

type segment struct {
	text   string
	isExpr bool
}

// split walks the raw body (escapes and `{{`/`}}` not yet decoded, exactly
// as the lexer left them) and separates it into alternating literal and
// `{expr}` segments. Brace depth inside an expr segment is tracked so a
// substitution may itself contain `{`/`}` (e.g. a nested array literal or
// block-bodied lambda is not in this language, but a nested property
// initializer list would be, so depth tracking is kept general).
func split(raw string) []segment {
	var segs []segment
	var lit strings.Builder
	runes := []rune(raw)
	i := 0
	flushLit := func() {
		if lit.Len() > 0 {
			segs = append(segs, segment{text: lit.String()})
			lit.Reset()
		}
	}
	for i < len(runes) {
		switch {
		case runes[i] == '{' && i+1 < len(runes) && runes[i+1] == '{':
			lit.WriteRune('{')
			i += 2
		case runes[i] == '}' && i+1 < len(runes) && runes[i+1] == '}':
			lit.WriteRune('}')
			i += 2
		case runes[i] == '{':
			flushLit()
			depth := 1
			start := i + 1
			j := start
		scanExpr:
			for j < len(runes) {
				switch runes[j] {
				case '{':
					depth++
				case '}':
					depth--
					if depth == 0 {
						break scanExpr
					}
				}
				j++
			}
			segs = append(segs, segment{text: string(runes[start:j]), isExpr: true})
			i = j + 1
		default:
			lit.WriteRune(runes[i])
			i++
		}
	}
	flushLit()
	return segs
}

// unescape decodes the escapes the lexer deliberately left untouched in
// literal spans of the raw interpolated body (spec.md §4.1: `\n \t \r \" \\
// \0`), matching what scanString decodes for an ordinary string literal.
func unescape(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		if runes[i] == '\\' && i+1 < len(runes) {
			i++
			switch runes[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			case '0':
				b.WriteByte(0)
			default:
				b.WriteRune(runes[i])
			}
			continue
		}
		b.WriteRune(runes[i])
	}
	return b.String()
}

// parseSubExpr re-lexes and re-parses the text inside a `{...}` substitution
// as a standalone expression, reusing the main expression parser rather
// than hand-rolling a second one (spec.md §4.3: "re-parsed using the same
// expression grammar").
func parseSubExpr(src, filename string, at lexer.Position) (ast.Expr, []error) {
	l := lexer.New(src, filename)
	p := parser.New(l)
	return p.ParseStandaloneExpr()
}
