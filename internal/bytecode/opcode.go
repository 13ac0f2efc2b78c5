// Package bytecode implements the linear, stack-based instruction set the
// typed AST is lowered to (spec.md §4.6), the constant-pool/class-table/
// method-table module container that holds it, and the "PBC1" binary
// persistence format for that container (spec.md §4.7).
//
// DESIGN PHILOSOPHY (matching the teacher's internal/ir.Instruction design,
// generalized from a three-address SSA form to a stack machine because
// spec.md §4.6 calls for one): instructions are a single concrete Op enum
// plus up to two integer operands and one string operand, rather than a
// family of per-opcode struct types — the same "simplify until it's just
// data" tradeoff the teacher's bytecode-adjacent packages make for a
// format that ultimately has to round-trip through a binary container.
package bytecode

import "fmt"

// Op is one VM instruction opcode (spec.md §4.6's instruction table).
type Op byte

const (
	OpLoadConstInt Op = iota
	OpLoadConstDecimal
	OpLoadConstText
	OpLoadConstEnum
	OpLoadBool
	OpLoadNull

	OpLoadLocal
	OpStoreLocal

	OpLoadStatic
	OpStoreStatic

	OpNew
	OpLoadField
	OpStoreField
	OpLoadProp
	OpStoreProp

	OpNewArray
	OpLoadIndex
	OpStoreIndex
	OpArrayLen

	OpAddI
	OpSubI
	OpMulI
	OpDivI
	OpModI
	OpAddD
	OpSubD
	OpMulD
	OpDivD
	OpModD
	OpNeg
	OpNot
	OpIntToFloat

	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe

	OpAnd
	OpOr

	OpJmp
	OpJmpIfFalse
	OpJmpIfTrue

	OpCallFunc
	OpCallMethod
	OpCallStatic
	OpCallBase
	OpRet
	OpRetVoid

	OpPrint

	OpConcat
	OpToText

	OpCheckBounds
	OpPop
	OpDup
)

var opNames = map[Op]string{
	OpLoadConstInt:     "LOAD_CONST_INT",
	OpLoadConstDecimal: "LOAD_CONST_DECIMAL",
	OpLoadConstText:    "LOAD_CONST_TEXT",
	OpLoadConstEnum:    "LOAD_CONST_ENUM",
	OpLoadBool:         "LOAD_BOOL",
	OpLoadNull:         "LOAD_NULL",
	OpLoadLocal:        "LOAD_LOCAL",
	OpStoreLocal:       "STORE_LOCAL",
	OpLoadStatic:       "LOAD_STATIC",
	OpStoreStatic:      "STORE_STATIC",
	OpNew:              "NEW",
	OpLoadField:        "LOAD_FIELD",
	OpStoreField:       "STORE_FIELD",
	OpLoadProp:         "LOAD_PROP",
	OpStoreProp:        "STORE_PROP",
	OpNewArray:         "NEW_ARRAY",
	OpLoadIndex:        "LOAD_INDEX",
	OpStoreIndex:       "STORE_INDEX",
	OpArrayLen:         "ARRAY_LEN",
	OpAddI:             "ADD_I",
	OpSubI:             "SUB_I",
	OpMulI:             "MUL_I",
	OpDivI:             "DIV_I",
	OpModI:             "MOD_I",
	OpAddD:             "ADD_D",
	OpSubD:             "SUB_D",
	OpMulD:             "MUL_D",
	OpDivD:             "DIV_D",
	OpModD:             "MOD_D",
	OpNeg:              "NEG",
	OpNot:              "NOT",
	OpIntToFloat:       "INT_TO_FLOAT",
	OpEq:               "EQ",
	OpNe:               "NE",
	OpLt:               "LT",
	OpLe:               "LE",
	OpGt:               "GT",
	OpGe:               "GE",
	OpAnd:              "AND",
	OpOr:               "OR",
	OpJmp:              "JMP",
	OpJmpIfFalse:       "JMP_IF_FALSE",
	OpJmpIfTrue:        "JMP_IF_TRUE",
	OpCallFunc:         "CALL_FUNC",
	OpCallMethod:       "CALL_METHOD",
	OpCallStatic:       "CALL_STATIC",
	OpCallBase:         "CALL_BASE",
	OpRet:              "RET",
	OpRetVoid:          "RET_VOID",
	OpPrint:            "PRINT",
	OpConcat:           "CONCAT",
	OpToText:           "TO_TEXT",
	OpCheckBounds:      "CHECK_BOUNDS",
	OpPop:              "POP",
	OpDup:              "DUP",
}

func (op Op) String() string {
	if name, ok := opNames[op]; ok {
		return name
	}
	return fmt.Sprintf("OP(%d)", byte(op))
}

// Instr is a single bytecode instruction. Which of A, B, and Str are
// meaningful depends on Op:
//   - LOAD_CONST_INT / LOAD_CONST_DECIMAL / LOAD_CONST_TEXT: A is a
//     constant pool index.
//   - LOAD_CONST_ENUM: A is the constant pool index of the enum's
//     type-descriptor entry, B is the member's ordinal.
//   - LOAD_LOCAL / STORE_LOCAL: A is the frame-local slot index.
//   - LOAD_BOOL: A is 0 or 1.
//   - LOAD_STATIC / STORE_STATIC: A is the class's index in
//     Module.Classes, Str is the static field's name.
//   - NEW: A is the class's index in Module.Classes, B is argc.
//   - NEW_ARRAY: A is a constant-pool type-descriptor index (the element
//     type, carried for disassembly/diagnostics only), B is the element
//     count.
//   - LOAD_FIELD / STORE_FIELD / LOAD_PROP / STORE_PROP: Str is the
//     field/property name, looked up against the runtime object's class
//     record rather than interned as a text constant.
//   - CALL_FUNC / CALL_METHOD / CALL_STATIC / CALL_BASE: A is a
//     method-table index (CALL_METHOD: a vtable slot index instead), B
//     is argc.
//   - JMP / JMP_IF_FALSE / JMP_IF_TRUE: A is the absolute instruction
//     index to jump to.
//   - RET: no operands; the return value (if any) is already on the
//     stack (RET_VOID for a valueless return, keeping the two cases from
//     needing a sentinel "no value" stack slot).
//   - INT_TO_FLOAT: no operands; coerces the inteiro on top of the stack
//     to the float64 representation decimal and duplo both use (spec.md's
//     widening rule, applied at the point a mixed inteiro/decimal-or-duplo
//     expression needs a common runtime representation — see DESIGN.md's
//     decimal-vs-duplo Open Question decision).
type Instr struct {
	Op  Op
	A   int
	B   int
	Str string
}

func (i Instr) String() string {
	switch i.Op {
	case OpLoadLocal, OpStoreLocal, OpLoadConstInt, OpLoadConstDecimal, OpLoadConstText,
		OpLoadBool, OpJmp, OpJmpIfFalse, OpJmpIfTrue:
		return fmt.Sprintf("%-14s %d", i.Op, i.A)
	case OpLoadStatic, OpStoreStatic:
		return fmt.Sprintf("%-14s %d, %s", i.Op, i.A, i.Str)
	case OpNew, OpCallMethod, OpCallBase, OpCallFunc, OpCallStatic, OpNewArray, OpLoadConstEnum:
		return fmt.Sprintf("%-14s %d, %d", i.Op, i.A, i.B)
	case OpLoadField, OpStoreField, OpLoadProp, OpStoreProp:
		return fmt.Sprintf("%-14s %s", i.Op, i.Str)
	default:
		return i.Op.String()
	}
}
