package bytecode

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sampleModule hand-builds a tiny module (one class with a field, a
// constructor and a getter, and a "global" entry that prints a greeting)
// exercising every section of the binary format without needing the
// full lexer/parser/semantic/emitter pipeline.
func sampleModule() *Module {
	return &Module{
		Version: formatVersion,
		Consts: []Const{
			{Tag: ConstText, TextVal: "ola"},
			{Tag: ConstInt, IntVal: 7},
			{Tag: ConstTypeDesc, TextVal: "inteiro"},
		},
		Classes: []ClassRecord{
			{
				FQN:     "Pessoa",
				BaseIdx: -1,
				Fields:  []FieldSlot{{Name: "idade", TypeConst: 2}},
				Vtable:  []VTableEntry{{Name: "obter_idade", MethodIdx: 1}},
				StaticMethods: map[string]int{},
				Methods:       map[string]int{},
				Constructors:  map[int]int{0: 0},
			},
		},
		Methods: []MethodRecord{
			{
				Signature: "ctor:Pessoa",
				Code: &CodeBlock{
					CodeID: "ctor:Pessoa", NParams: 0, NLocals: 1, HasEste: true,
					LocalNames: []string{"este"},
					Instrs:     []Instr{{Op: OpRetVoid}},
				},
			},
			{
				Signature: "method:Pessoa::obter_idade",
				Code: &CodeBlock{
					CodeID: "method:Pessoa::obter_idade", NParams: 0, NLocals: 1, HasEste: true,
					LocalNames: []string{"este"},
					Instrs: []Instr{
						{Op: OpLoadLocal, A: 0},
						{Op: OpLoadField, Str: "idade"},
						{Op: OpRet},
					},
				},
			},
			{
				Signature: "global:init",
				Code: &CodeBlock{
					CodeID: "global:init", NParams: 0, NLocals: 0,
					Instrs: []Instr{{Op: OpRetVoid}},
				},
			},
			{
				Signature: "global",
				Code: &CodeBlock{
					CodeID: "global", NParams: 0, NLocals: 0,
					Instrs: []Instr{
						{Op: OpLoadConstText, A: 0},
						{Op: OpPrint},
						{Op: OpRetVoid},
					},
				},
			},
		},
		EntryCodeID:      "global",
		GlobalInitCodeID: "global:init",
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	mod := sampleModule()

	fs := afero.NewMemMapFs()
	require.NoError(t, WriteFile(fs, "/out/test.pbc", mod))

	got, err := ReadFile(fs, "/out/test.pbc")
	require.NoError(t, err)

	assert.Equal(t, mod.EntryCodeID, got.EntryCodeID)
	assert.Equal(t, mod.GlobalInitCodeID, got.GlobalInitCodeID)
	require.Len(t, got.Consts, 3)
	assert.Equal(t, "ola", got.Consts[0].TextVal)
	assert.Equal(t, int64(7), got.Consts[1].IntVal)

	require.Len(t, got.Classes, 1)
	assert.Equal(t, "Pessoa", got.Classes[0].FQN)
	assert.Equal(t, -1, got.Classes[0].BaseIdx)
	require.Len(t, got.Classes[0].Fields, 1)
	assert.Equal(t, "idade", got.Classes[0].Fields[0].Name)

	require.Len(t, got.Methods, 4)
	ctor := got.Methods[0]
	assert.Equal(t, "ctor:Pessoa", ctor.Code.CodeID)
	assert.True(t, ctor.Code.HasEste)
	assert.Equal(t, []string{"este"}, ctor.Code.LocalNames)
}

func TestReadFileRejectsBadMagic(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/bad.pbc", []byte("XXXX"), 0o644))

	_, err := ReadFile(fs, "/bad.pbc")
	assert.Error(t, err)
}

func TestDisassembleModule(t *testing.T) {
	out := DisassembleModule(sampleModule())
	assert.Contains(t, out, "global")
	assert.Contains(t, out, "PRINT")
	assert.Contains(t, out, "constantes")
}

func TestDisassembleRangeClampsLength(t *testing.T) {
	mod := sampleModule()
	code := mod.Methods[3].Code
	out := DisassembleRange(code, 0, 100)
	assert.Contains(t, out, "LOAD_CONST_TEXT")
	assert.Contains(t, out, "RET_VOID")
}
