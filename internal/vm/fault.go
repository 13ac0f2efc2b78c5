package vm

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// FrameSnapshot is one line of a Fault's stack trace: the code_id and
// instruction pointer a frame was at when the fault was raised (spec.md
// §4.8/§8 "value-stack snapshot"), formatted one per line the way the
// teacher's analyzer formats accumulated errors.
type FrameSnapshot struct {
	CodeID string
	IP     int
}

// Fault is a runtime error (spec.md §4.8's failure modes: type tag
// mismatch, division/modulo by zero, index out of bounds, method not
// found in vtable, null dereference). It always stops execution.
type Fault struct {
	Message string
	CodeID  string
	IP      int
	Stack   []Value
	Trace   []FrameSnapshot
}

func (f *Fault) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "falha de execução em %s:%d: %s", f.CodeID, f.IP, f.Message)
	if len(f.Trace) > 0 {
		b.WriteString("\npilha de chamadas:")
		for _, fr := range f.Trace {
			fmt.Fprintf(&b, "\n  %s:%d", fr.CodeID, fr.IP)
		}
	}
	return b.String()
}

// fault builds a *Fault from the VM's current state, wrapped with
// pkg/errors so a caller further up (the CLI driver) can still
// errors.Cause() down to it (db47h-ngaro's vm.Run uses the same
// recover-then-errors.Errorf shape, one level shallower since ngaro has
// no structured frame stack to snapshot).
func (vm *VM) fault(format string, args ...interface{}) error {
	f := &Fault{
		Message: fmt.Sprintf(format, args...),
		Stack:   append([]Value(nil), vm.Stack...),
	}
	for i := len(vm.Frames) - 1; i >= 0; i-- {
		fr := vm.Frames[i]
		f.Trace = append(f.Trace, FrameSnapshot{CodeID: fr.Code.CodeID, IP: fr.IP})
	}
	if len(vm.Frames) > 0 {
		top := vm.Frames[len(vm.Frames)-1]
		f.CodeID = top.Code.CodeID
		f.IP = top.IP
	}
	return errors.WithStack(f)
}
