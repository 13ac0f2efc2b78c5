package parser

import (
	"testing"

	"github.com/brlang/compilador/internal/lexer"
)

func TestGetPrecedence(t *testing.T) {
	cases := []struct {
		tt   lexer.TokenType
		want Precedence
	}{
		{lexer.TokenOrOr, PrecOr},
		{lexer.TokenAndAnd, PrecAnd},
		{lexer.TokenEqual, PrecEquality},
		{lexer.TokenNotEqual, PrecEquality},
		{lexer.TokenLess, PrecRelational},
		{lexer.TokenGreaterEqual, PrecRelational},
		{lexer.TokenPlus, PrecAdditive},
		{lexer.TokenMinus, PrecAdditive},
		{lexer.TokenStar, PrecMultiplicative},
		{lexer.TokenSlash, PrecMultiplicative},
		{lexer.TokenPercent, PrecMultiplicative},
		{lexer.TokenSemicolon, PrecNone},
		{lexer.TokenIdentifier, PrecNone},
	}
	for _, c := range cases {
		if got := getPrecedence(c.tt); got != c.want {
			t.Errorf("getPrecedence(%v) = %v, want %v", c.tt, got, c.want)
		}
	}
}

func TestPrecedenceOrdering(t *testing.T) {
	if !(PrecOr < PrecAnd && PrecAnd < PrecEquality && PrecEquality < PrecRelational &&
		PrecRelational < PrecAdditive && PrecAdditive < PrecMultiplicative &&
		PrecMultiplicative < PrecUnary && PrecUnary < PrecCall && PrecCall < PrecPrimary) {
		t.Fatalf("precedence levels are not strictly increasing in spec order")
	}
}
