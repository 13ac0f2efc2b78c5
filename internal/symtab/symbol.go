package symtab

import (
	"fmt"

	"github.com/brlang/compilador/internal/lexer"
	"github.com/brlang/compilador/internal/parser/ast"
	"github.com/brlang/compilador/internal/semantic/types"
)

// SymbolKind says what kind of named entity a Symbol represents.
type SymbolKind int

const (
	SymbolVariable SymbolKind = iota
	SymbolParameter
	SymbolField
	SymbolProperty
	SymbolMethod
	SymbolConstructor
	SymbolFunction
	SymbolClass
	SymbolInterface
	SymbolEnum
	SymbolEnumMember
	SymbolNamespace
	SymbolImport
)

func (sk SymbolKind) String() string {
	switch sk {
	case SymbolVariable:
		return "variavel"
	case SymbolParameter:
		return "parametro"
	case SymbolField:
		return "campo"
	case SymbolProperty:
		return "propriedade"
	case SymbolMethod:
		return "metodo"
	case SymbolConstructor:
		return "construtor"
	case SymbolFunction:
		return "funcao"
	case SymbolClass:
		return "classe"
	case SymbolInterface:
		return "interface"
	case SymbolEnum:
		return "enumeracao"
	case SymbolEnumMember:
		return "membro de enumeracao"
	case SymbolNamespace:
		return "espaco"
	case SymbolImport:
		return "importacao"
	default:
		return "desconhecido"
	}
}

// Symbol is any named entity the resolver tracks: a namespace, a class,
// an interface, an enum (and its members), a function, or — inside a
// class/function body — a field, a property, a method, a constructor, a
// parameter, or a local variable.
type Symbol struct {
	Name string

	// FQN is the fully qualified name (`App.Modelos.Pessoa`) for
	// namespace-level symbols; empty for locals/parameters/members, which
	// are only ever looked up unqualified or through a MemberExpr.
	FQN string

	Kind SymbolKind
	// Type is this symbol's value type for a variable/parameter/field/
	// property, or its RETURN type for a function/method/constructor
	// (vazio for a constructor). Parameter types live in Params instead,
	// since this language has no first-class function values to need a
	// combined function type for.
	Type types.Type
	// Params is this symbol's parameter types; meaningless for anything
	// that isn't a function/method/constructor.
	Params []types.Type
	// ParamDefaults holds, parallel to Params, each parameter's default
	// literal expression (nil for a required parameter). spec.md §3/§4.5/
	// §9: once a parameter has a default, every later one does too, so a
	// call supplying fewer than len(Params) arguments is resolved by
	// appending the missing tail's default expressions at the call site
	// (see semantic/expressions.go's VisitCallExpr/VisitNewExpr).
	ParamDefaults []ast.Expr
	Pos           lexer.Position
	Scope         *Scope
	Constant      bool
	Used          bool

	// Access is the declared visibility (publico/privado/protegido),
	// meaningful for fields, properties, methods, constructors, and the
	// class/interface/enum itself.
	Access ast.Access
	Static bool

	// Index is a parameter's ordinal or an enum member's ordinal value,
	// filled in by the resolver; it stays zero for every other kind of
	// symbol.
	Index int

	// Class holds class-specific metadata (inheritance, members, vtable
	// layout) when Kind == SymbolClass.
	Class *ClassInfo

	// Interface holds interface-specific metadata when Kind ==
	// SymbolInterface.
	Interface *InterfaceInfo

	// Enum holds the ordered member list when Kind == SymbolEnum.
	Enum *EnumInfo

	// Decl is the originating AST node, kept so the emitter doesn't need
	// a second pass over the tree to find a member's body.
	Decl ast.Node
}

// ClassInfo is the declaration-level metadata for a class: its base class
// symbol (nil for a root class), the interfaces it declares, and its own
// members keyed by name (not including inherited ones — the resolver
// walks Base to find those).
type ClassInfo struct {
	Base       *Symbol // *Symbol with Kind == SymbolClass, or nil
	Interfaces []*Symbol
	Abstract   bool
	Fields     map[string]*Symbol
	Properties map[string]*Symbol
	Methods    map[string]*Symbol
	Constructors []*Symbol
}

// InterfaceInfo is the declaration-level metadata for an interface.
type InterfaceInfo struct {
	Bases   []*Symbol // *Symbol with Kind == SymbolInterface
	Methods map[string]*Symbol
}

// EnumInfo is the declaration-level metadata for an enum.
type EnumInfo struct {
	Members []*Symbol // Kind == SymbolEnumMember, in declaration order
}

func (s *Symbol) String() string {
	typ := "?"
	if s.Type != nil {
		typ = s.Type.String()
	}
	return fmt.Sprintf("%s %s: %s em %s", s.Kind, s.Name, typ, s.Pos.String())
}

func (s *Symbol) IsGlobal() bool { return s.Scope != nil && s.Scope.IsGlobal() }
func (s *Symbol) IsLocal() bool  { return !s.IsGlobal() }

// CanAssign reports whether this symbol is a valid assignment target.
// Constants, functions, methods, classes/interfaces/enums, and constructors
// never are; variables, parameters, fields, and properties are (a
// get-only property is rejected by the checker at the point of
// assignment, not here, since that check needs the property's declared
// accessor set).
func (s *Symbol) CanAssign() bool {
	if s.Constant {
		return false
	}
	switch s.Kind {
	case SymbolVariable, SymbolParameter, SymbolField, SymbolProperty:
		return true
	default:
		return false
	}
}

func (s *Symbol) MarkUsed() { s.Used = true }

// MinRequiredParams returns how many leading parameters have no default.
// spec.md §4.5's "optional parameters may be omitted from the tail"
// invariant means the first defaulted parameter marks where the
// required prefix ends — everything before it is mandatory,
// everything from it on can be omitted at the call site.
func (s *Symbol) MinRequiredParams() int {
	for i, d := range s.ParamDefaults {
		if d != nil {
			return i
		}
	}
	return len(s.Params)
}

// LookupField looks up a direct (non-inherited) field, property, or
// method by name, preferring fields, then properties, then methods. The
// resolver does not reject a field and a method of the same class that
// share a name; when they do, this preference order decides which one is
// found.
func (s *Symbol) LookupField(name string) *Symbol {
	if s.Kind != SymbolClass || s.Class == nil {
		return nil
	}
	if f, ok := s.Class.Fields[name]; ok {
		return f
	}
	if p, ok := s.Class.Properties[name]; ok {
		return p
	}
	if m, ok := s.Class.Methods[name]; ok {
		return m
	}
	return nil
}

// LookupMember looks up name on this class or, failing that, walks Base
// — giving inherited-member lookup for free.
func (s *Symbol) LookupMember(name string) *Symbol {
	for cur := s; cur != nil; {
		if m := cur.LookupField(name); m != nil {
			return m
		}
		if cur.Class == nil {
			return nil
		}
		cur = cur.Class.Base
	}
	return nil
}
