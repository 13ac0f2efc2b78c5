package interpolation

import (
	"testing"

	"github.com/brlang/compilador/internal/lexer"
	"github.com/brlang/compilador/internal/parser"
	"github.com/brlang/compilador/internal/parser/ast"
)

func interpExprOf(t *testing.T, src string) *ast.InterpolatedExpr {
	t.Helper()
	l := lexer.New(src, "t.pr")
	p := parser.New(l)
	file, errs := p.ParseFile("t.pr")
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	print := file.Stmts[0].(*ast.PrintStmt)
	ie, ok := print.Value.(*ast.InterpolatedExpr)
	if !ok {
		t.Fatalf("print.Value = %T, want *ast.InterpolatedExpr", print.Value)
	}
	return ie
}

func TestExpandPureLiteral(t *testing.T) {
	ie := interpExprOf(t, `imprima($"ola mundo");`)
	result, errs := Expand(ie, "t.pr")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	lit, ok := result.(*ast.LiteralExpr)
	if !ok {
		t.Fatalf("result = %T, want *ast.LiteralExpr", result)
	}
	if lit.Value != "ola mundo" {
		t.Errorf("value = %q, want %q", lit.Value, "ola mundo")
	}
}

func TestExpandSingleSubstitution(t *testing.T) {
	ie := interpExprOf(t, `imprima($"Ola, {nome}!");`)
	result, errs := Expand(ie, "t.pr")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	// "Ola, " + toText(nome) + "!"  → ((lit + toText) + lit)
	outer, ok := result.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("result = %T, want *ast.BinaryExpr", result)
	}
	if outer.Operator.Type != lexer.TokenPlus {
		t.Fatalf("outer operator = %v, want +", outer.Operator.Type)
	}
	if _, ok := outer.Right.(*ast.LiteralExpr); !ok {
		t.Fatalf("outer.Right = %T, want *ast.LiteralExpr (\"!\")", outer.Right)
	}
	inner, ok := outer.Left.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("outer.Left = %T, want *ast.BinaryExpr", outer.Left)
	}
	lit, ok := inner.Left.(*ast.LiteralExpr)
	if !ok || lit.Value != "Ola, " {
		t.Fatalf("inner.Left = %+v, want literal \"Ola, \"", inner.Left)
	}
	toText, ok := inner.Right.(*ast.ToTextExpr)
	if !ok {
		t.Fatalf("inner.Right = %T, want *ast.ToTextExpr", inner.Right)
	}
	ident, ok := toText.Inner.(*ast.IdentifierExpr)
	if !ok || ident.Name != "nome" {
		t.Fatalf("toText.Inner = %+v, want identifier nome", toText.Inner)
	}
}

func TestExpandBraceEscapes(t *testing.T) {
	ie := interpExprOf(t, `imprima($"{{literal}} e {x}");`)
	result, errs := Expand(ie, "t.pr")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	outer := result.(*ast.BinaryExpr)
	lit := outer.Left.(*ast.LiteralExpr)
	if lit.Value != "{literal} e " {
		t.Errorf("literal span = %q, want %q", lit.Value, "{literal} e ")
	}
}

func TestExpandEscapeSequences(t *testing.T) {
	ie := interpExprOf(t, `imprima($"linha1\nlinha2");`)
	result, errs := Expand(ie, "t.pr")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	lit := result.(*ast.LiteralExpr)
	if lit.Value != "linha1\nlinha2" {
		t.Errorf("value = %q", lit.Value)
	}
}

func TestExpandNestedExpression(t *testing.T) {
	ie := interpExprOf(t, `imprima($"total: {a + b * 2}");`)
	result, errs := Expand(ie, "t.pr")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	outer := result.(*ast.BinaryExpr)
	toText := outer.Right.(*ast.ToTextExpr)
	if _, ok := toText.Inner.(*ast.BinaryExpr); !ok {
		t.Fatalf("toText.Inner = %T, want *ast.BinaryExpr (a + b*2)", toText.Inner)
	}
}

func TestExpandMalformedSubstitutionReportsError(t *testing.T) {
	ie := interpExprOf(t, `imprima($"valor: {1 +}");`)
	_, errs := Expand(ie, "t.pr")
	if len(errs) == 0 {
		t.Fatalf("expected an error for a malformed substitution body")
	}
}
