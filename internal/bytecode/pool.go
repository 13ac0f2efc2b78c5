package bytecode

import "fmt"

// internInt returns the constant pool index for integer value v, reusing
// an existing entry when one already holds it — the same small win the
// teacher's constant-folding optimizer goes for, just applied at the pool
// level instead of the AST level.
func (em *Emitter) internInt(v int64) int {
	return em.intern(ConstInt, fmt.Sprintf("i:%d", v), Const{Tag: ConstInt, IntVal: v})
}

func (em *Emitter) internFloat(v float64, duplo bool) int {
	tag := ConstDecimal
	prefix := "m"
	if duplo {
		tag = ConstDuplo
		prefix = "d"
	}
	return em.intern(tag, fmt.Sprintf("%s:%v", prefix, v), Const{Tag: tag, FloatVal: v})
}

func (em *Emitter) internText(v string) int {
	return em.intern(ConstText, "t:"+v, Const{Tag: ConstText, TextVal: v})
}

func (em *Emitter) internTypeDesc(spelling string) int {
	return em.intern(ConstTypeDesc, "y:"+spelling, Const{Tag: ConstTypeDesc, TextVal: spelling})
}

func (em *Emitter) intern(tag ConstTag, key string, c Const) int {
	if idx, ok := em.constKey[key]; ok {
		return idx
	}
	idx := len(em.consts)
	em.consts = append(em.consts, c)
	em.constKey[key] = idx
	return idx
}
