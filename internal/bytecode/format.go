// This file implements the ".pbc" binary module container (spec.md §4.7):
// a versioned, length-prefixed encoding of a *Module that round-trips
// through disk via an afero.Fs, the way the teacher's own file-backed
// passes take a filesystem rather than calling os.* directly. Every
// decode error is wrapped with github.com/pkg/errors so a corrupt file
// reports the field that failed alongside the underlying io error,
// following db47h-ngaro's cmd/retro image loader.
package bytecode

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

const (
	magicPBC1 = "PBC1"
	formatVersion = 1
)

var byteOrder = binary.LittleEndian

// WriteFile encodes mod as a .pbc container and writes it to path on fs.
func WriteFile(fs afero.Fs, path string, mod *Module) error {
	var buf bytes.Buffer
	if err := Encode(&buf, mod); err != nil {
		return errors.Wrapf(err, "codificar módulo para %s", path)
	}
	if err := afero.WriteFile(fs, path, buf.Bytes(), 0o644); err != nil {
		return errors.Wrapf(err, "escrever %s", path)
	}
	return nil
}

// ReadFile reads and decodes a .pbc container from path on fs.
func ReadFile(fs afero.Fs, path string) (*Module, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "ler %s", path)
	}
	mod, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "decodificar módulo de %s", path)
	}
	return mod, nil
}

// Encode writes mod's binary form to w (spec.md §4.7's layout: magic,
// version, const pool, class table, method table, entry point id).
func Encode(w io.Writer, mod *Module) error {
	if err := writeString(w, magicPBC1); err != nil {
		return errors.Wrap(err, "magic")
	}
	if err := binary.Write(w, byteOrder, uint16(formatVersion)); err != nil {
		return errors.Wrap(err, "versão")
	}

	if err := binary.Write(w, byteOrder, uint32(len(mod.Consts))); err != nil {
		return errors.Wrap(err, "contagem do pool de constantes")
	}
	for i, c := range mod.Consts {
		if err := encodeConst(w, c); err != nil {
			return errors.Wrapf(err, "constante %d", i)
		}
	}

	if err := binary.Write(w, byteOrder, uint32(len(mod.Classes))); err != nil {
		return errors.Wrap(err, "contagem de classes")
	}
	for i, cr := range mod.Classes {
		if err := encodeClass(w, cr); err != nil {
			return errors.Wrapf(err, "classe %d (%s)", i, cr.FQN)
		}
	}

	if err := binary.Write(w, byteOrder, uint32(len(mod.Methods))); err != nil {
		return errors.Wrap(err, "contagem de métodos")
	}
	for i, mr := range mod.Methods {
		if err := encodeMethod(w, mr); err != nil {
			return errors.Wrapf(err, "método %d (%s)", i, mr.Signature)
		}
	}

	if err := writeString(w, mod.EntryCodeID); err != nil {
		return errors.Wrap(err, "entry_code_id")
	}
	if err := writeString(w, mod.GlobalInitCodeID); err != nil {
		return errors.Wrap(err, "global_init_code_id")
	}
	return nil
}

// Decode reads a .pbc container from r and validates it with
// validateModule (in-range constant/class/method operands, every vtable
// method existing, and entry_code_id resolving to a zero-parameter code
// block).
func Decode(r io.Reader) (*Module, error) {
	magic := make([]byte, len(magicPBC1))
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, errors.Wrap(err, "magic")
	}
	if string(magic) != magicPBC1 {
		return nil, errors.Errorf("assinatura inválida: %q", magic)
	}

	var version uint16
	if err := binary.Read(r, byteOrder, &version); err != nil {
		return nil, errors.Wrap(err, "versão")
	}
	if version != formatVersion {
		return nil, errors.Errorf("versão de módulo não suportada: %d", version)
	}

	mod := &Module{Version: int(version)}

	var constCount uint32
	if err := binary.Read(r, byteOrder, &constCount); err != nil {
		return nil, errors.Wrap(err, "contagem do pool de constantes")
	}
	mod.Consts = make([]Const, constCount)
	for i := range mod.Consts {
		c, err := decodeConst(r)
		if err != nil {
			return nil, errors.Wrapf(err, "constante %d", i)
		}
		mod.Consts[i] = c
	}

	var classCount uint32
	if err := binary.Read(r, byteOrder, &classCount); err != nil {
		return nil, errors.Wrap(err, "contagem de classes")
	}
	mod.Classes = make([]ClassRecord, classCount)
	for i := range mod.Classes {
		cr, err := decodeClass(r)
		if err != nil {
			return nil, errors.Wrapf(err, "classe %d", i)
		}
		mod.Classes[i] = cr
	}

	var methodCount uint32
	if err := binary.Read(r, byteOrder, &methodCount); err != nil {
		return nil, errors.Wrap(err, "contagem de métodos")
	}
	mod.Methods = make([]MethodRecord, methodCount)
	for i := range mod.Methods {
		mr, err := decodeMethod(r)
		if err != nil {
			return nil, errors.Wrapf(err, "método %d", i)
		}
		mod.Methods[i] = mr
	}

	entryID, err := readString(r)
	if err != nil {
		return nil, errors.Wrap(err, "entry_code_id")
	}
	mod.EntryCodeID = entryID

	initID, err := readString(r)
	if err != nil {
		return nil, errors.Wrap(err, "global_init_code_id")
	}
	mod.GlobalInitCodeID = initID

	if err := validateModule(mod); err != nil {
		return nil, err
	}
	return mod, nil
}

// validateModule checks the decoding invariants spec.md §4.7 requires:
// every vtable, method-map and constructor entry naming an existing
// method, the constant-pool, class-table and method-table operands of
// every instruction in range, and entry_code_id naming a zero-parameter
// code block. Jump targets, local-slot operands and CALL_METHOD vtable
// slots are not checked here. A failure here is fatal, per spec —
// callers must not run a module that fails validation.
func validateModule(mod *Module) error {
	methodOK := func(idx int) bool { return idx >= 0 && idx < len(mod.Methods) }

	for ci, cr := range mod.Classes {
		if cr.BaseIdx != -1 && (cr.BaseIdx < 0 || cr.BaseIdx >= len(mod.Classes)) {
			return errors.Errorf("classe %d: índice de base fora do alcance: %d", ci, cr.BaseIdx)
		}
		for _, v := range cr.Vtable {
			if !methodOK(v.MethodIdx) {
				return errors.Errorf("classe %d: entrada de vtable %q aponta para método inexistente %d", ci, v.Name, v.MethodIdx)
			}
		}
		for name, idx := range cr.Methods {
			if !methodOK(idx) {
				return errors.Errorf("classe %d: método %q aponta para índice inexistente %d", ci, name, idx)
			}
		}
		for name, idx := range cr.StaticMethods {
			if !methodOK(idx) {
				return errors.Errorf("classe %d: método estático %q aponta para índice inexistente %d", ci, name, idx)
			}
		}
		for arity, idx := range cr.Constructors {
			if !methodOK(idx) {
				return errors.Errorf("classe %d: construtor de aridade %d aponta para índice inexistente %d", ci, arity, idx)
			}
		}
	}

	for mi, mr := range mod.Methods {
		if mr.Code == nil {
			return errors.Errorf("método %d (%s): bloco de código ausente", mi, mr.Signature)
		}
		for ii, instr := range mr.Code.Instrs {
			if err := validateInstr(mod, instr); err != nil {
				return errors.Wrapf(err, "método %d (%s), instrução %d", mi, mr.Signature, ii)
			}
		}
	}

	entryIdx := mod.FindMethod(mod.EntryCodeID)
	if entryIdx == -1 {
		return errors.Errorf("entry_code_id %q não corresponde a nenhum método", mod.EntryCodeID)
	}
	if mod.Methods[entryIdx].Code.NParams != 0 {
		return errors.Errorf("entry_code_id %q deve ter zero parâmetros", mod.EntryCodeID)
	}
	return nil
}

func validateInstr(mod *Module, instr Instr) error {
	switch instr.Op {
	case OpLoadConstInt, OpLoadConstDecimal, OpLoadConstText:
		if instr.A < 0 || instr.A >= len(mod.Consts) {
			return errors.Errorf("índice de constante fora do alcance: %d", instr.A)
		}
	case OpLoadConstEnum, OpNewArray:
		if instr.A < 0 || instr.A >= len(mod.Consts) {
			return errors.Errorf("índice de constante fora do alcance: %d", instr.A)
		}
	case OpNew, OpLoadStatic, OpStoreStatic:
		if instr.A < 0 || instr.A >= len(mod.Classes) {
			return errors.Errorf("índice de classe fora do alcance: %d", instr.A)
		}
	case OpCallFunc, OpCallStatic, OpCallBase:
		if instr.A < 0 || instr.A >= len(mod.Methods) {
			return errors.Errorf("índice de método fora do alcance: %d", instr.A)
		}
	}
	return nil
}

func encodeConst(w io.Writer, c Const) error {
	if err := binary.Write(w, byteOrder, byte(c.Tag)); err != nil {
		return err
	}
	switch c.Tag {
	case ConstInt:
		return binary.Write(w, byteOrder, c.IntVal)
	case ConstDecimal, ConstDuplo:
		return binary.Write(w, byteOrder, c.FloatVal)
	case ConstText, ConstTypeDesc:
		return writeString(w, c.TextVal)
	default:
		return errors.Errorf("tag de constante desconhecida: %d", c.Tag)
	}
}

func decodeConst(r io.Reader) (Const, error) {
	var tagByte byte
	if err := binary.Read(r, byteOrder, &tagByte); err != nil {
		return Const{}, err
	}
	tag := ConstTag(tagByte)
	switch tag {
	case ConstInt:
		var v int64
		if err := binary.Read(r, byteOrder, &v); err != nil {
			return Const{}, err
		}
		return Const{Tag: tag, IntVal: v}, nil
	case ConstDecimal, ConstDuplo:
		var v float64
		if err := binary.Read(r, byteOrder, &v); err != nil {
			return Const{}, err
		}
		return Const{Tag: tag, FloatVal: v}, nil
	case ConstText, ConstTypeDesc:
		s, err := readString(r)
		if err != nil {
			return Const{}, err
		}
		return Const{Tag: tag, TextVal: s}, nil
	default:
		return Const{}, errors.Errorf("tag de constante desconhecida: %d", tag)
	}
}

func encodeClass(w io.Writer, cr ClassRecord) error {
	if err := writeString(w, cr.FQN); err != nil {
		return err
	}
	if err := binary.Write(w, byteOrder, int32(cr.BaseIdx)); err != nil {
		return err
	}
	if err := binary.Write(w, byteOrder, cr.Abstract); err != nil {
		return err
	}

	if err := binary.Write(w, byteOrder, uint32(len(cr.Fields))); err != nil {
		return err
	}
	for _, fs := range cr.Fields {
		if err := writeString(w, fs.Name); err != nil {
			return err
		}
		if err := binary.Write(w, byteOrder, int32(fs.TypeConst)); err != nil {
			return err
		}
		if err := binary.Write(w, byteOrder, fs.Static); err != nil {
			return err
		}
	}

	if err := binary.Write(w, byteOrder, uint32(len(cr.Vtable))); err != nil {
		return err
	}
	for _, v := range cr.Vtable {
		if err := writeString(w, v.Name); err != nil {
			return err
		}
		if err := binary.Write(w, byteOrder, int32(v.MethodIdx)); err != nil {
			return err
		}
	}

	if err := writeStringIntMap(w, cr.Methods); err != nil {
		return err
	}
	if err := writeStringIntMap(w, cr.StaticMethods); err != nil {
		return err
	}

	if err := binary.Write(w, byteOrder, uint32(len(cr.Constructors))); err != nil {
		return err
	}
	for arity, idx := range cr.Constructors {
		if err := binary.Write(w, byteOrder, int32(arity)); err != nil {
			return err
		}
		if err := binary.Write(w, byteOrder, int32(idx)); err != nil {
			return err
		}
	}
	return nil
}

func decodeClass(r io.Reader) (ClassRecord, error) {
	var cr ClassRecord
	var err error
	if cr.FQN, err = readString(r); err != nil {
		return cr, err
	}
	var baseIdx int32
	if err := binary.Read(r, byteOrder, &baseIdx); err != nil {
		return cr, err
	}
	cr.BaseIdx = int(baseIdx)
	if err := binary.Read(r, byteOrder, &cr.Abstract); err != nil {
		return cr, err
	}

	var fieldCount uint32
	if err := binary.Read(r, byteOrder, &fieldCount); err != nil {
		return cr, err
	}
	cr.Fields = make([]FieldSlot, fieldCount)
	for i := range cr.Fields {
		name, err := readString(r)
		if err != nil {
			return cr, err
		}
		var typeConst int32
		if err := binary.Read(r, byteOrder, &typeConst); err != nil {
			return cr, err
		}
		var static bool
		if err := binary.Read(r, byteOrder, &static); err != nil {
			return cr, err
		}
		cr.Fields[i] = FieldSlot{Name: name, TypeConst: int(typeConst), Static: static}
	}

	var vtableCount uint32
	if err := binary.Read(r, byteOrder, &vtableCount); err != nil {
		return cr, err
	}
	cr.Vtable = make([]VTableEntry, vtableCount)
	for i := range cr.Vtable {
		name, err := readString(r)
		if err != nil {
			return cr, err
		}
		var methodIdx int32
		if err := binary.Read(r, byteOrder, &methodIdx); err != nil {
			return cr, err
		}
		cr.Vtable[i] = VTableEntry{Name: name, MethodIdx: int(methodIdx)}
	}

	if cr.Methods, err = readStringIntMap(r); err != nil {
		return cr, err
	}
	if cr.StaticMethods, err = readStringIntMap(r); err != nil {
		return cr, err
	}

	var ctorCount uint32
	if err := binary.Read(r, byteOrder, &ctorCount); err != nil {
		return cr, err
	}
	cr.Constructors = make(map[int]int, ctorCount)
	for i := uint32(0); i < ctorCount; i++ {
		var arity, idx int32
		if err := binary.Read(r, byteOrder, &arity); err != nil {
			return cr, err
		}
		if err := binary.Read(r, byteOrder, &idx); err != nil {
			return cr, err
		}
		cr.Constructors[int(arity)] = int(idx)
	}
	return cr, nil
}

func encodeMethod(w io.Writer, mr MethodRecord) error {
	if err := writeString(w, mr.Signature); err != nil {
		return err
	}
	code := mr.Code
	if code == nil {
		code = &CodeBlock{}
	}
	if err := writeString(w, code.CodeID); err != nil {
		return err
	}
	if err := binary.Write(w, byteOrder, int32(code.NParams)); err != nil {
		return err
	}
	if err := binary.Write(w, byteOrder, int32(code.NLocals)); err != nil {
		return err
	}
	if err := binary.Write(w, byteOrder, code.HasEste); err != nil {
		return err
	}
	if err := binary.Write(w, byteOrder, uint32(len(code.LocalNames))); err != nil {
		return err
	}
	for _, name := range code.LocalNames {
		if err := writeString(w, name); err != nil {
			return err
		}
	}

	if err := binary.Write(w, byteOrder, uint32(len(code.Instrs))); err != nil {
		return err
	}
	for _, instr := range code.Instrs {
		if err := binary.Write(w, byteOrder, byte(instr.Op)); err != nil {
			return err
		}
		if err := binary.Write(w, byteOrder, int32(instr.A)); err != nil {
			return err
		}
		if err := binary.Write(w, byteOrder, int32(instr.B)); err != nil {
			return err
		}
		if err := writeString(w, instr.Str); err != nil {
			return err
		}
	}
	return nil
}

func decodeMethod(r io.Reader) (MethodRecord, error) {
	var mr MethodRecord
	var err error
	if mr.Signature, err = readString(r); err != nil {
		return mr, err
	}
	code := &CodeBlock{}
	if code.CodeID, err = readString(r); err != nil {
		return mr, err
	}
	var nparams, nlocals int32
	if err := binary.Read(r, byteOrder, &nparams); err != nil {
		return mr, err
	}
	if err := binary.Read(r, byteOrder, &nlocals); err != nil {
		return mr, err
	}
	code.NParams = int(nparams)
	code.NLocals = int(nlocals)
	if err := binary.Read(r, byteOrder, &code.HasEste); err != nil {
		return mr, err
	}

	var nameCount uint32
	if err := binary.Read(r, byteOrder, &nameCount); err != nil {
		return mr, err
	}
	code.LocalNames = make([]string, nameCount)
	for i := range code.LocalNames {
		name, err := readString(r)
		if err != nil {
			return mr, err
		}
		code.LocalNames[i] = name
	}

	var instrCount uint32
	if err := binary.Read(r, byteOrder, &instrCount); err != nil {
		return mr, err
	}
	code.Instrs = make([]Instr, instrCount)
	for i := range code.Instrs {
		var op byte
		if err := binary.Read(r, byteOrder, &op); err != nil {
			return mr, err
		}
		var a, b int32
		if err := binary.Read(r, byteOrder, &a); err != nil {
			return mr, err
		}
		if err := binary.Read(r, byteOrder, &b); err != nil {
			return mr, err
		}
		str, err := readString(r)
		if err != nil {
			return mr, err
		}
		code.Instrs[i] = Instr{Op: Op(op), A: int(a), B: int(b), Str: str}
	}
	mr.Code = code
	return mr, nil
}

func writeStringIntMap(w io.Writer, m map[string]int) error {
	if err := binary.Write(w, byteOrder, uint32(len(m))); err != nil {
		return err
	}
	for k, v := range m {
		if err := writeString(w, k); err != nil {
			return err
		}
		if err := binary.Write(w, byteOrder, int32(v)); err != nil {
			return err
		}
	}
	return nil
}

func readStringIntMap(r io.Reader) (map[string]int, error) {
	var count uint32
	if err := binary.Read(r, byteOrder, &count); err != nil {
		return nil, err
	}
	m := make(map[string]int, count)
	for i := uint32(0); i < count; i++ {
		k, err := readString(r)
		if err != nil {
			return nil, err
		}
		var v int32
		if err := binary.Read(r, byteOrder, &v); err != nil {
			return nil, err
		}
		m[k] = int(v)
	}
	return m, nil
}

func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, byteOrder, uint32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readString(r io.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, byteOrder, &n); err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}
