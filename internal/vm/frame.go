package vm

import "github.com/brlang/compilador/internal/bytecode"

// Frame is one call-stack entry (spec.md §4.8: "current code block,
// instruction pointer, local slots, a reference to este ... and a
// back-pointer for return"). The back-pointer is implicit: frames live
// in VM.Frames, a slice used as a stack, so "the caller" is always the
// previous element.
type Frame struct {
	Code   *bytecode.CodeBlock
	IP     int
	Locals []Value

	// returnOverride, when non-nil, replaces whatever value this frame's
	// RET/RET_VOID would otherwise leave on the caller's stack. Used by
	// NEW: a constructor always RET_VOIDs, but `NEW class` itself must
	// leave the freshly allocated object on the stack (spec.md §4.8).
	returnOverride *Value
}

func newFrame(code *bytecode.CodeBlock) *Frame {
	return &Frame{Code: code, Locals: make([]Value, code.NLocals)}
}

// Este returns the frame's implicit receiver slot, or a null Value if
// the code block has none (a static method, free function, or the
// module/static-init entry points — spec.md §4.8 "null for static/
// top-level").
func (fr *Frame) Este() Value {
	if !fr.Code.HasEste {
		return Null()
	}
	return fr.Locals[0]
}
