// Package types implements the static type system checked by
// internal/semantic and consumed by internal/bytecode's emitter.
//
// DESIGN PHILOSOPHY: a small nominal type system — six primitives, plus
// class/interface/enum types named by their fully qualified name, plus a
// single-dimension-at-a-time array type. Widening is the only implicit
// conversion: inteiro widens to decimal and to duplo; nothing narrows
// implicitly, and decimal and duplo never implicitly convert to each other
// (distinct numeric kinds with distinct runtime representations, even
// though this implementation happens to back both with float64 — see
// DESIGN.md's Open Questions decisions).
//
// KEY DESIGN CHOICES (matching the teacher's type package):
// - Nominal typing for classes/interfaces/enums (class Pessoa != any
//   structurally identical class)
// - An explicit InvalidType rather than nil, so type checking can
//   continue accumulating diagnostics after a failure (spec.md §7)
// - Type inference for `var` from its initializer only, never bidirectional
package types

// Type is the interface every static type implements.
type Type interface {
	// String returns the surface-syntax spelling of the type.
	String() string

	// Equals reports whether this type is identical to other — same
	// primitive kind, same class/interface/enum FQN, or (for arrays)
	// equal element types.
	Equals(other Type) bool

	// AssignableTo reports whether a value of this type can be assigned
	// to, passed as, or returned as other — Equals plus the widening and
	// subtyping rules (spec.md §4.5).
	AssignableTo(other Type) bool

	kind() Kind
}

// Kind is a fast internal discriminant, mirroring the teacher's TypeKind.
type Kind int

const (
	KindInvalid Kind = iota
	KindVazio
	KindInteiro
	KindDecimal
	KindDuplo
	KindBooleano
	KindTexto
	KindClass
	KindInterface
	KindEnum
	KindArray
	KindNulo
)

// InvalidType is the result of a type error; type checking keeps going
// with it rather than aborting, the same tradeoff the teacher's
// InvalidType makes.
type InvalidType struct{}

func (i *InvalidType) String() string             { return "<invalido>" }
func (i *InvalidType) Equals(other Type) bool     { _, ok := other.(*InvalidType); return ok }
func (i *InvalidType) AssignableTo(other Type) bool { return true } // don't cascade errors
func (i *InvalidType) kind() Kind                 { return KindInvalid }

// VazioType is the `vazio` (void) return type; it has no values.
type VazioType struct{}

func (v *VazioType) String() string           { return "vazio" }
func (v *VazioType) Equals(other Type) bool   { _, ok := other.(*VazioType); return ok }
func (v *VazioType) AssignableTo(Type) bool   { return false }
func (v *VazioType) kind() Kind               { return KindVazio }

// InteiroType is `inteiro`, a 64-bit signed integer.
type InteiroType struct{}

func (t *InteiroType) String() string         { return "inteiro" }
func (t *InteiroType) Equals(other Type) bool { _, ok := other.(*InteiroType); return ok }
func (t *InteiroType) AssignableTo(other Type) bool {
	switch other.(type) {
	case *InteiroType, *DecimalType, *DuploType:
		return true
	}
	return false
}
func (t *InteiroType) kind() Kind { return KindInteiro }

// DecimalType is `decimal`, a fixed-point numeric type for money-like
// values (spec.md §3). It never implicitly converts to/from duplo.
type DecimalType struct{}

func (t *DecimalType) String() string         { return "decimal" }
func (t *DecimalType) Equals(other Type) bool { _, ok := other.(*DecimalType); return ok }
func (t *DecimalType) AssignableTo(other Type) bool {
	_, ok := other.(*DecimalType)
	return ok
}
func (t *DecimalType) kind() Kind { return KindDecimal }

// DuploType is `duplo`, an IEEE-754 double.
type DuploType struct{}

func (t *DuploType) String() string         { return "duplo" }
func (t *DuploType) Equals(other Type) bool { _, ok := other.(*DuploType); return ok }
func (t *DuploType) AssignableTo(other Type) bool {
	_, ok := other.(*DuploType)
	return ok
}
func (t *DuploType) kind() Kind { return KindDuplo }

// BooleanoType is `booleano`.
type BooleanoType struct{}

func (t *BooleanoType) String() string         { return "booleano" }
func (t *BooleanoType) Equals(other Type) bool { _, ok := other.(*BooleanoType); return ok }
func (t *BooleanoType) AssignableTo(other Type) bool {
	_, ok := other.(*BooleanoType)
	return ok
}
func (t *BooleanoType) kind() Kind { return KindBooleano }

// TextoType is `texto`, an immutable text value.
type TextoType struct{}

func (t *TextoType) String() string         { return "texto" }
func (t *TextoType) Equals(other Type) bool { _, ok := other.(*TextoType); return ok }
func (t *TextoType) AssignableTo(other Type) bool {
	_, ok := other.(*TextoType)
	return ok
}
func (t *TextoType) kind() Kind { return KindTexto }

// NuloType is the type of the `nulo` literal — assignable to any
// reference type (class, interface, array), never to a value type.
type NuloType struct{}

func (t *NuloType) String() string         { return "nulo" }
func (t *NuloType) Equals(other Type) bool { _, ok := other.(*NuloType); return ok }
func (t *NuloType) AssignableTo(other Type) bool {
	switch other.(type) {
	case *ClassType, *InterfaceType, *ArrayType:
		return true
	}
	return false
}
func (t *NuloType) kind() Kind { return KindNulo }

// ClassType names a declared class by its fully qualified name. Base is
// its direct superclass (nil for a root class); Interfaces lists the
// interfaces it implements directly (the resolver walks Base to collect
// transitively implemented ones).
type ClassType struct {
	FQN        string
	Base       *ClassType
	Interfaces []*InterfaceType
}

func (c *ClassType) String() string { return c.FQN }
func (c *ClassType) Equals(other Type) bool {
	o, ok := other.(*ClassType)
	return ok && o.FQN == c.FQN
}

// AssignableTo holds for the identical class, any ancestor class, or any
// interface implemented directly or transitively (spec.md §4.5: upcasting
// is implicit, downcasting is not permitted without an explicit cast
// operation, which this language does not have — so narrowing a reference
// always requires a new novo() or re-declaration).
func (c *ClassType) AssignableTo(other Type) bool {
	switch o := other.(type) {
	case *ClassType:
		for cur := c; cur != nil; cur = cur.Base {
			if cur.FQN == o.FQN {
				return true
			}
		}
		return false
	case *InterfaceType:
		return c.Implements(o)
	}
	return false
}

// Implements reports whether c implements iface directly or via a base
// class.
func (c *ClassType) Implements(iface *InterfaceType) bool {
	for cur := c; cur != nil; cur = cur.Base {
		for _, i := range cur.Interfaces {
			if i.FQN == iface.FQN || i.Extends(iface) {
				return true
			}
		}
	}
	return false
}

func (c *ClassType) kind() Kind { return KindClass }

// InterfaceType names a declared interface. Bases lists interfaces it
// extends, mirroring spec.md's allowance for interface inheritance.
type InterfaceType struct {
	FQN   string
	Bases []*InterfaceType
}

func (i *InterfaceType) String() string { return i.FQN }
func (i *InterfaceType) Equals(other Type) bool {
	o, ok := other.(*InterfaceType)
	return ok && o.FQN == i.FQN
}
func (i *InterfaceType) AssignableTo(other Type) bool {
	o, ok := other.(*InterfaceType)
	if !ok {
		return false
	}
	return i.FQN == o.FQN || i.Extends(o)
}

// Extends reports whether i transitively extends other.
func (i *InterfaceType) Extends(other *InterfaceType) bool {
	for _, b := range i.Bases {
		if b.FQN == other.FQN || b.Extends(other) {
			return true
		}
	}
	return false
}

func (i *InterfaceType) kind() Kind { return KindInterface }

// EnumType names a declared enumeration. Members are spelled in
// declaration order; a member's runtime value is its index (spec.md §3).
// Two different enum types never mix in a comparison or assignment, even
// if they share member names (spec.md §4.5 "no enum cross-mixing").
type EnumType struct {
	FQN     string
	Members []string
}

func (e *EnumType) String() string { return e.FQN }
func (e *EnumType) Equals(other Type) bool {
	o, ok := other.(*EnumType)
	return ok && o.FQN == e.FQN
}
func (e *EnumType) AssignableTo(other Type) bool { return e.Equals(other) }
func (e *EnumType) kind() Kind                   { return KindEnum }

// MemberIndex returns the ordinal of name, or -1 if it isn't a member.
func (e *EnumType) MemberIndex(name string) int {
	for i, m := range e.Members {
		if m == name {
			return i
		}
	}
	return -1
}

// ArrayType is `T[]`. This language has no fixed-size arrays — every array
// is a heap-allocated, bounds-checked, single-dimension sequence (spec.md
// §3); `T[][]` is simply an ArrayType whose Elem is itself an ArrayType.
type ArrayType struct {
	Elem Type
}

func (a *ArrayType) String() string { return a.Elem.String() + "[]" }
func (a *ArrayType) Equals(other Type) bool {
	o, ok := other.(*ArrayType)
	return ok && a.Elem.Equals(o.Elem)
}
func (a *ArrayType) AssignableTo(other Type) bool { return a.Equals(other) }
func (a *ArrayType) kind() Kind                   { return KindArray }

// IsNumeric reports whether t is inteiro, decimal, or duplo.
func IsNumeric(t Type) bool {
	switch t.(type) {
	case *InteiroType, *DecimalType, *DuploType:
		return true
	}
	return false
}

// IsReference reports whether t is a heap-allocated reference type
// (class, interface, array) as opposed to a value type.
func IsReference(t Type) bool {
	switch t.(type) {
	case *ClassType, *InterfaceType, *ArrayType:
		return true
	}
	return false
}

// CommonNumeric returns the widened type two numeric operand types share
// for a binary arithmetic operation, and false if they can't be combined
// without an explicit conversion this language doesn't provide (e.g.
// decimal and duplo together — spec.md §4.5).
func CommonNumeric(a, b Type) (Type, bool) {
	if a.Equals(b) {
		return a, true
	}
	_, aInt := a.(*InteiroType)
	_, bInt := b.(*InteiroType)
	if aInt && !bInt && IsNumeric(b) {
		return b, true
	}
	if bInt && !aInt && IsNumeric(a) {
		return a, true
	}
	return nil, false
}
