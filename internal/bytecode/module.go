package bytecode

import "fmt"

// ConstTag discriminates the payload of a ConstPool entry.
type ConstTag byte

const (
	ConstInt ConstTag = iota
	ConstDecimal
	ConstDuplo
	ConstText
	ConstTypeDesc
)

// Const is one constant pool entry (spec.md §4.6: "text, integer, decimal,
// and type-descriptor entries"). Only one of IntVal/FloatVal/TextVal is
// meaningful, selected by Tag; a type-descriptor entry reuses TextVal for
// its spelling (e.g. "Pessoa", "inteiro[]") since the VM resolves it by
// string lookup against the class table rather than keeping a separate
// parsed-type representation in the binary format.
type Const struct {
	Tag      ConstTag
	IntVal   int64
	FloatVal float64
	TextVal  string
}

func (c Const) String() string {
	switch c.Tag {
	case ConstInt:
		return fmt.Sprintf("int(%d)", c.IntVal)
	case ConstDecimal:
		return fmt.Sprintf("decimal(%v)", c.FloatVal)
	case ConstDuplo:
		return fmt.Sprintf("duplo(%v)", c.FloatVal)
	case ConstText:
		return fmt.Sprintf("text(%q)", c.TextVal)
	case ConstTypeDesc:
		return fmt.Sprintf("type(%s)", c.TextVal)
	default:
		return "const(?)"
	}
}

// CodeBlock is a sequence of instructions plus the frame-layout metadata
// the VM needs to set up a call (spec.md §4.6/§4.9): its local-slot and
// parameter counts, and its stable CodeID for the debugger.
type CodeBlock struct {
	CodeID  string
	NParams int
	NLocals int
	// HasEste marks a code block whose slot 0 is an implicit `este`
	// receiver ahead of its declared parameters — every instance method,
	// constructor, and base-call block; never a static method, free
	// function, or the module/static-init entry points. CALL_STATIC and
	// CALL_BASE consult it to know whether to pop one extra value (self)
	// off the operand stack before popping NParams arguments (spec.md
	// §4.6/§4.8's calling convention doesn't literally spell this bit out,
	// but it's what lets one CALL_STATIC opcode serve both plain private
	// methods and static methods without a second opcode).
	HasEste bool
	Instrs  []Instr
	// LocalNames maps a frame slot to the source name last bound to it
	// (este, a parameter, or a local), index-aligned with Locals at
	// runtime. Debug-only metadata: nothing in dispatch.go reads it:
	// the debugger's `vars`/`v <name>` commands do (spec.md §4.9).
	LocalNames []string
}

// FieldSlot is one entry in a class's field layout (spec.md §4.6: "list of
// field slots (name, type index)"). TypeConst indexes the constant pool's
// type-descriptor entry for the field's declared type.
type FieldSlot struct {
	Name      string
	TypeConst int
	Static    bool
}

// VTableEntry is one slot of a class's virtual method table: the method's
// simple name (spec.md's "method-key") and the index into Module.Methods
// of the code block current for that slot — a derived class's own entry
// when it overrides, the inherited one otherwise (spec.md §4.6 "ordered so
// that overrides occupy the inherited slot").
type VTableEntry struct {
	Name       string
	MethodIdx  int
}

// ClassRecord is one class-table entry (spec.md §4.6/§4.7).
type ClassRecord struct {
	FQN        string
	BaseIdx    int // -1 when this class has no base
	Fields     []FieldSlot
	Vtable     []VTableEntry
	// StaticMethods maps a static method's simple name to its index into
	// Module.Methods, for CALL_STATIC and LOAD_STATIC-adjacent direct
	// dispatch (static methods never occupy a vtable slot — spec.md §4.6
	// "Non-virtual ... methods use CALL_STATIC").
	StaticMethods map[string]int
	// Methods maps every instance method declared directly on this class
	// (virtual ones included) to its Module.Methods index; the emitter
	// uses it for CALL_STATIC dispatch of methods that have no vtable
	// slot. Inherited methods and property accessors are not listed.
	Methods map[string]int
	// Constructors maps a constructor's parameter count to its
	// Module.Methods index — this language resolves constructor overloads
	// by arity only (internal/semantic's resolveConstructor does the
	// same).
	Constructors map[int]int
	// Abstract mirrors spec.md §4.5: constructing an abstract class is a
	// (compile-time, enforced earlier) error; kept here too so the VM can
	// double-check defensively without re-deriving it.
	Abstract bool
}

// MethodRecord is one method-table entry: a code block plus the
// descriptive signature string the disassembler and debugger print
// (spec.md §4.6 "method table: each entry is a code block ... plus ...
// code_id").
type MethodRecord struct {
	Signature string
	Code      *CodeBlock
}

// Module is a fully lowered, linkable compilation unit: the constant pool,
// class table, and method table spec.md §4.6 describes, plus the
// synthesized module entry point and static initializer block.
type Module struct {
	Version int

	Consts  []Const
	Classes []ClassRecord
	Methods []MethodRecord

	// EntryCodeID names the module's top-level entry point code block
	// (code_id "global", spec.md §4.9), and GlobalInitCodeID names the
	// synthesized static-initializer block ("global:init") that runs
	// before it (spec.md §9 "Globals and static initialization").
	EntryCodeID     string
	GlobalInitCodeID string
}

// FindMethod returns the index of the method with the given code_id, or
// -1. Used by the interpreter driver to resolve --executar-funcao.
func (m *Module) FindMethod(codeID string) int {
	for i, mr := range m.Methods {
		if mr.Code != nil && mr.Code.CodeID == codeID {
			return i
		}
	}
	return -1
}

// FindClass returns the index of the class with the given FQN, or -1.
func (m *Module) FindClass(fqn string) int {
	for i, cr := range m.Classes {
		if cr.FQN == fqn {
			return i
		}
	}
	return -1
}
