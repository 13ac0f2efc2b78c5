package vm

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brlang/compilador/internal/bytecode"
)

// arithModule's "global" computes (3 + 4) * 2 and prints it as text,
// exercising constants, ADD_I/MUL_I, TO_TEXT, and PRINT.
func arithModule() *bytecode.Module {
	return &bytecode.Module{
		Version: 1,
		Consts: []bytecode.Const{
			{Tag: bytecode.ConstInt, IntVal: 3},
			{Tag: bytecode.ConstInt, IntVal: 4},
			{Tag: bytecode.ConstInt, IntVal: 2},
		},
		Methods: []bytecode.MethodRecord{
			{Signature: "global:init", Code: &bytecode.CodeBlock{
				CodeID: "global:init",
				Instrs: []bytecode.Instr{{Op: bytecode.OpRetVoid}},
			}},
			{Signature: "global", Code: &bytecode.CodeBlock{
				CodeID: "global",
				Instrs: []bytecode.Instr{
					{Op: bytecode.OpLoadConstInt, A: 0},
					{Op: bytecode.OpLoadConstInt, A: 1},
					{Op: bytecode.OpAddI},
					{Op: bytecode.OpLoadConstInt, A: 2},
					{Op: bytecode.OpMulI},
					{Op: bytecode.OpToText},
					{Op: bytecode.OpPrint},
					{Op: bytecode.OpRetVoid},
				},
			}},
		},
		EntryCodeID:      "global",
		GlobalInitCodeID: "global:init",
	}
}

func TestRunPrintsArithmeticResult(t *testing.T) {
	var out bytes.Buffer
	machine, err := New(arithModule(), &out, logrus.New())
	require.NoError(t, err)

	require.NoError(t, machine.Run())
	assert.Equal(t, "14\n", out.String())
}

func TestDivisionByZeroFaults(t *testing.T) {
	mod := arithModule()
	zero := len(mod.Consts)
	mod.Consts = append(mod.Consts, bytecode.Const{Tag: bytecode.ConstInt, IntVal: 0})
	mod.Methods[1].Code.Instrs = []bytecode.Instr{
		{Op: bytecode.OpLoadConstInt, A: 0},
		{Op: bytecode.OpLoadConstInt, A: zero},
		{Op: bytecode.OpDivI},
		{Op: bytecode.OpRetVoid},
	}

	var out bytes.Buffer
	machine, err := New(mod, &out, logrus.New())
	require.NoError(t, err)

	err = machine.Run()
	assert.Error(t, err)
}

func TestStepAdvancesOneInstructionAtATime(t *testing.T) {
	mod := arithModule()
	var out bytes.Buffer
	machine, err := New(mod, &out, logrus.New())
	require.NoError(t, err)

	require.NoError(t, machine.Start("global", nil))
	steps := 0
	for {
		done, err := machine.Step()
		require.NoError(t, err)
		steps++
		if done {
			break
		}
	}
	assert.Equal(t, len(mod.Methods[1].Code.Instrs), steps)
	assert.Equal(t, "14\n", out.String())
}

func TestNewBuildsObjectWithDefaultFields(t *testing.T) {
	mod := &bytecode.Module{
		Version: 1,
		Consts: []bytecode.Const{
			{Tag: bytecode.ConstTypeDesc, TextVal: "inteiro"},
		},
		Classes: []bytecode.ClassRecord{{
			FQN:           "Pessoa",
			BaseIdx:       -1,
			Fields:        []bytecode.FieldSlot{{Name: "idade", TypeConst: 0}},
			StaticMethods: map[string]int{},
			Methods:       map[string]int{},
			Constructors:  map[int]int{0: 2},
		}},
		Methods: []bytecode.MethodRecord{
			{Signature: "global:init", Code: &bytecode.CodeBlock{
				CodeID: "global:init", Instrs: []bytecode.Instr{{Op: bytecode.OpRetVoid}},
			}},
			{Signature: "global", Code: &bytecode.CodeBlock{
				CodeID: "global",
				Instrs: []bytecode.Instr{
					{Op: bytecode.OpNew, A: 0, B: 0},
					{Op: bytecode.OpLoadField, Str: "idade"},
					{Op: bytecode.OpToText},
					{Op: bytecode.OpPrint},
					{Op: bytecode.OpRetVoid},
				},
			}},
			{Signature: "ctor:Pessoa", Code: &bytecode.CodeBlock{
				CodeID: "ctor:Pessoa", NLocals: 1, HasEste: true,
				Instrs: []bytecode.Instr{{Op: bytecode.OpRetVoid}},
			}},
		},
		EntryCodeID:      "global",
		GlobalInitCodeID: "global:init",
	}

	var out bytes.Buffer
	machine, err := New(mod, &out, logrus.New())
	require.NoError(t, err)
	require.NoError(t, machine.Run())
	assert.Equal(t, "0\n", out.String())
}
