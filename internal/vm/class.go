package vm

import "github.com/brlang/compilador/internal/bytecode"

// ClassInfo is the runtime counterpart of a bytecode.ClassRecord: the
// same shape, but with Base resolved to a live pointer and a Statics
// table for its class (`static`) fields and auto-property backing
// fields, populated once by running the module's "global:init" code
// block (spec.md §9 "Globals and static initialization").
type ClassInfo struct {
	FQN      string
	Base     *ClassInfo
	Record   *bytecode.ClassRecord
	Statics  map[string]Value
	Abstract bool
}

// defaultFieldValues returns a fresh field table for a new instance of
// ci, every declared instance field initialized to its type's zero value
// (spec.md §4.8 "NEW class allocates an object, runs field initializers
// in declaration order" — initializers overwrite these defaults, fields
// without one keep them).
func (ci *ClassInfo) defaultFieldValues(mod *bytecode.Module) map[string]Value {
	fields := make(map[string]Value, len(ci.Record.Fields))
	for _, fs := range ci.Record.Fields {
		if fs.Static {
			continue
		}
		spelling := ""
		if fs.TypeConst >= 0 && fs.TypeConst < len(mod.Consts) {
			spelling = mod.Consts[fs.TypeConst].TextVal
		}
		fields[fs.Name] = defaultValueForType(spelling)
	}
	return fields
}

// defaultValueForType returns the zero value for a type's declared
// spelling (as interned by bytecode.Emitter.internTypeDesc): primitives
// get their numeric/textual/boolean zero, everything else (classes,
// arrays, interfaces, enums) defaults to null, matching spec.md §4.5's
// reference-type semantics.
func defaultValueForType(spelling string) Value {
	switch spelling {
	case "inteiro":
		return IntVal(0)
	case "decimal", "duplo":
		return FloatVal(0)
	case "booleano":
		return BoolVal(false)
	case "texto":
		return TextVal("")
	default:
		return Null()
	}
}

// buildClasses mirrors mod.Classes into runtime ClassInfo records, base
// classes resolved to a live pointer rather than left as a BaseIdx. Every
// record is allocated before any base is linked, so the order of
// mod.Classes does not matter.
func buildClasses(mod *bytecode.Module) []*ClassInfo {
	infos := make([]*ClassInfo, len(mod.Classes))
	for i := range mod.Classes {
		rec := &mod.Classes[i]
		infos[i] = &ClassInfo{
			FQN:      rec.FQN,
			Record:   rec,
			Statics:  make(map[string]Value),
			Abstract: rec.Abstract,
		}
	}
	for i := range mod.Classes {
		if mod.Classes[i].BaseIdx >= 0 {
			infos[i].Base = infos[mod.Classes[i].BaseIdx]
		}
	}
	return infos
}
