package ast

import "github.com/brlang/compilador/internal/lexer"

// TypeExpr is the parsed, pre-resolution spelling of a type reference:
// `inteiro`, `texto`, `Pessoa`, `A.B.Pessoa`, `inteiro[]`. The resolver
// (internal/semantic) turns this into a fully-qualified types.Type; the
// parser only needs to record what the programmer wrote and where.
type TypeExpr struct {
	BaseNode
	Name    string // primitive keyword spelling, or dotted class/interface/enum name
	IsArray bool
	Elem    *TypeExpr // set when IsArray
}

func (t *TypeExpr) String() string {
	if t.IsArray {
		return t.Elem.String() + "[]"
	}
	return t.Name
}

func primType(name string, pos lexer.Position) *TypeExpr {
	return &TypeExpr{BaseNode: BaseNode{StartPos: pos, EndPos: pos}, Name: name}
}
