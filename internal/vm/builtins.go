package vm

// This file documents where spec.md's built-in surface actually lives at
// runtime (SPEC_FULL.md's package mapping names internal/vm/builtins.go
// as the built-ins' home, even though none of them needs a call-table
// entry of its own):
//
//   - `imprima(x)` lowers to TO_TEXT (when x isn't already texto) then
//     PRINT (dispatch.go's OpPrint case), writing to VM.Out.
//   - array `.tamanho`/`.comprimento` and `texto.tamanho`/`.comprimento`
//     both lower to ARRAY_LEN (dispatch.go's OpArrayLen case), which
//     tag-switches on the popped value the way the checker's
//     VisitMemberExpr special-cases the same two member names ahead of
//     its class-member lookup.
//   - numeric/text coercion lowers to TO_TEXT / INT_TO_FLOAT, no
//     separate builtin needed.
//
// None of these needs a name-indexed dispatch table: each is exactly one
// opcode, already wired into the main instruction switch.
