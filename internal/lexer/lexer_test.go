package lexer

import "testing"

func tokenTypes(toks []Token) []TokenType {
	out := make([]TokenType, 0, len(toks))
	for _, t := range toks {
		out = append(out, t.Type)
	}
	return out
}

func TestLexer_Keywords(t *testing.T) {
	l := New(`classe função se senão enquanto para retorne imprima var este base novo`, "t.pr")
	toks := l.Tokens()
	want := []TokenType{
		TokenClasse, TokenFuncao, TokenSe, TokenSenao, TokenEnquanto, TokenPara,
		TokenRetorne, TokenImprima, TokenVar, TokenEste, TokenBase, TokenNovo, TokenEOF,
	}
	got := tokenTypes(toks)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLexer_AccentedIdentifier(t *testing.T) {
	l := New(`função não_vazio`, "t.pr")
	toks := l.Tokens()
	if toks[0].Type != TokenFuncao {
		t.Fatalf("expected função keyword, got %v", toks[0])
	}
	if toks[1].Type != TokenIdentifier || toks[1].Lexeme != "não_vazio" {
		t.Fatalf("expected identifier não_vazio, got %v", toks[1])
	}
}

func TestLexer_Numbers(t *testing.T) {
	l := New(`42 19.90m 3.14`, "t.pr")
	toks := l.Tokens()
	if toks[0].Type != TokenInteger || toks[0].Lexeme != "42" {
		t.Fatalf("want integer 42, got %v", toks[0])
	}
	if toks[1].Type != TokenDecimal || toks[1].Lexeme != "19.90" {
		t.Fatalf("want decimal 19.90, got %v", toks[1])
	}
	if toks[2].Type != TokenDouble || toks[2].Lexeme != "3.14" {
		t.Fatalf("want double 3.14, got %v", toks[2])
	}
}

func TestLexer_StringEscapes(t *testing.T) {
	l := New(`"linha1\nlinha2\t\"citado\""`, "t.pr")
	tok := l.Next()
	if tok.Type != TokenString {
		t.Fatalf("want string token, got %v", tok)
	}
	want := "linha1\nlinha2\t\"citado\""
	if tok.Lexeme != want {
		t.Fatalf("got %q, want %q", tok.Lexeme, want)
	}
}

func TestLexer_InterpolatedStringSingleToken(t *testing.T) {
	l := New(`$"Ola {nome}, voce tem {idade+1} anos"`, "t.pr")
	tok := l.Next()
	if tok.Type != TokenInterpString {
		t.Fatalf("want interpolated string token, got %v", tok)
	}
	want := `Ola {nome}, voce tem {idade+1} anos`
	if tok.Lexeme != want {
		t.Fatalf("got %q, want %q", tok.Lexeme, want)
	}
}

func TestLexer_InterpolatedBraceEscape(t *testing.T) {
	l := New(`$"{{literal}} {x}"`, "t.pr")
	tok := l.Next()
	if tok.Lexeme != "{{literal}} {x}" {
		t.Fatalf("got %q", tok.Lexeme)
	}
}

func TestLexer_Operators(t *testing.T) {
	l := New(`== != <= >= && || => = < >`, "t.pr")
	got := tokenTypes(l.Tokens())
	want := []TokenType{
		TokenEqual, TokenNotEqual, TokenLessEqual, TokenGreaterEqual,
		TokenAndAnd, TokenOrOr, TokenArrow, TokenAssign, TokenLess, TokenGreater, TokenEOF,
	}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestLexer_Comments(t *testing.T) {
	l := New("inteiro a; // comentario\n/* bloco\nflat */ inteiro b;", "t.pr")
	got := tokenTypes(l.Tokens())
	want := []TokenType{
		TokenInteiro, TokenIdentifier, TokenSemicolon,
		TokenInteiro, TokenIdentifier, TokenSemicolon, TokenEOF,
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestLexer_MalformedInputReportsOffset(t *testing.T) {
	l := New("inteiro a = @;", "t.pr")
	l.Tokens()
	if len(l.Errors()) == 0 {
		t.Fatalf("expected a lexical error for '@'")
	}
}
