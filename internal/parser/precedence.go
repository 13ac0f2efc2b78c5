package parser

import "github.com/brlang/compilador/internal/lexer"

// Precedence levels, lowest to highest, exactly as spec.md §4.2 lists them:
// logical OR, logical AND, equality, relational, additive, multiplicative,
// unary, postfix member/call, atom.
type Precedence int

const (
	PrecNone Precedence = iota
	PrecOr
	PrecAnd
	PrecEquality
	PrecRelational
	PrecAdditive
	PrecMultiplicative
	PrecUnary
	PrecCall
	PrecPrimary
)

// getPrecedence returns the binding power of tt when it appears as an
// infix/postfix operator, following the teacher's table-driven approach
// rather than a long if-else chain.
func getPrecedence(tt lexer.TokenType) Precedence {
	switch tt {
	case lexer.TokenOrOr:
		return PrecOr
	case lexer.TokenAndAnd:
		return PrecAnd
	case lexer.TokenEqual, lexer.TokenNotEqual:
		return PrecEquality
	case lexer.TokenLess, lexer.TokenLessEqual, lexer.TokenGreater, lexer.TokenGreaterEqual:
		return PrecRelational
	case lexer.TokenPlus, lexer.TokenMinus:
		return PrecAdditive
	case lexer.TokenStar, lexer.TokenSlash, lexer.TokenPercent:
		return PrecMultiplicative
	case lexer.TokenDot, lexer.TokenLeftBracket, lexer.TokenLeftParen:
		return PrecCall
	default:
		return PrecNone
	}
}
