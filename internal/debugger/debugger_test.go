package debugger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brlang/compilador/internal/bytecode"
	"github.com/brlang/compilador/internal/vm"
)

func twoStepModule() *bytecode.Module {
	return &bytecode.Module{
		Version: 1,
		Consts: []bytecode.Const{
			{Tag: bytecode.ConstText, TextVal: "oi"},
		},
		Methods: []bytecode.MethodRecord{
			{Signature: "global:init", Code: &bytecode.CodeBlock{
				CodeID: "global:init",
				Instrs: []bytecode.Instr{{Op: bytecode.OpRetVoid}},
			}},
			{Signature: "global", Code: &bytecode.CodeBlock{
				CodeID: "global",
				Instrs: []bytecode.Instr{
					{Op: bytecode.OpLoadConstText, A: 0},
					{Op: bytecode.OpPrint},
					{Op: bytecode.OpRetVoid},
				},
			}},
		},
		EntryCodeID:      "global",
		GlobalInitCodeID: "global:init",
	}
}

func TestBreakpointAddDelList(t *testing.T) {
	machine, err := vm.New(twoStepModule(), &bytes.Buffer{}, logrus.New())
	require.NoError(t, err)
	d := New(machine, strings.NewReader(""), &bytes.Buffer{})

	d.AddBreakpoint("global", 1)
	assert.True(t, d.hasBreakpoint("global", 1))
	assert.Len(t, d.ListBreakpoints("global"), 1)

	d.DelBreakpoint("global", 1)
	assert.False(t, d.hasBreakpoint("global", 1))
	assert.Empty(t, d.ListBreakpoints(""))
}

func TestRunPausesAtBreakpointThenContinues(t *testing.T) {
	machine, err := vm.New(twoStepModule(), &bytes.Buffer{}, logrus.New())
	require.NoError(t, err)

	var out bytes.Buffer
	in := strings.NewReader("where\nc\n")
	d := New(machine, in, &out)
	d.AddBreakpoint("global", 0)

	require.NoError(t, d.Run("global", nil))
	assert.Contains(t, out.String(), "global:0")
}

func TestStepCommandSinglesSteps(t *testing.T) {
	machine, err := vm.New(twoStepModule(), &bytes.Buffer{}, logrus.New())
	require.NoError(t, err)

	var out bytes.Buffer
	// One breakpoint at ip 0: step once (now paused again at ip 1 since
	// the step flag stays set), then continue to completion.
	in := strings.NewReader("s\nc\n")
	d := New(machine, in, &out)
	d.AddBreakpoint("global", 0)

	require.NoError(t, d.Run("global", nil))
	assert.Contains(t, out.String(), "global:1")
}

func TestBreakpointSessionRoundTrip(t *testing.T) {
	fs := afero.NewMemMapFs()
	bps := []Breakpoint{{CodeID: "global", IP: 1}, {CodeID: "func:Soma", IP: 3}}

	require.NoError(t, SaveBreakpoints(fs, "/bps.yaml", bps))
	got, err := LoadBreakpoints(fs, "/bps.yaml")
	require.NoError(t, err)
	assert.Equal(t, bps, got)
}
