// Package diag defines the shared diagnostic type used by every compiler
// pass. Each pass accumulates diagnostics rather than stopping at the first
// one, the way the teacher analyzer accumulates []error — but every pass
// here shares one concrete type so the CLI can sort, filter and print them
// uniformly regardless of which pass raised them.
package diag

import (
	"fmt"
	"sort"

	"github.com/brlang/compilador/internal/lexer"
)

// Severity distinguishes a hard failure from an informational note.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "aviso"
	}
	return "erro"
}

// Error is one diagnostic: a position, a human-readable message, and the
// pass that raised it (lexico, sintatico, semantico, ...). Stage is purely
// informational — it does not change how the error is handled.
type Error struct {
	Pos      lexer.Position
	Stage    string
	Message  string
	Severity Severity
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Pos.String(), e.Stage, e.Message)
}

// New builds an error-severity diagnostic for the given stage.
func New(stage string, pos lexer.Position, format string, args ...interface{}) *Error {
	return &Error{Pos: pos, Stage: stage, Message: fmt.Sprintf(format, args...), Severity: SeverityError}
}

// Newf is an alias of New kept for call sites that read better with a
// printf-shaped name.
func Newf(stage string, pos lexer.Position, format string, args ...interface{}) *Error {
	return New(stage, pos, format, args...)
}

// Warning builds a warning-severity diagnostic.
func Warning(stage string, pos lexer.Position, format string, args ...interface{}) *Error {
	return &Error{Pos: pos, Stage: stage, Message: fmt.Sprintf(format, args...), Severity: SeverityWarning}
}

// Bag accumulates diagnostics across a pass.
//
// DESIGN CHOICE: a small owned slice rather than a channel or callback,
// mirroring the teacher's Analyzer.errors field — passes are single
// threaded (§5 of the spec: the pipeline is strictly sequential) so there
// is no need for anything fancier.
type Bag struct {
	items []*Error
}

func (b *Bag) Add(e *Error) { b.items = append(b.items, e) }

func (b *Bag) Addf(stage string, pos lexer.Position, format string, args ...interface{}) {
	b.Add(New(stage, pos, format, args...))
}

func (b *Bag) HasErrors() bool {
	for _, e := range b.items {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}

func (b *Bag) Errors() []*Error { return b.items }

// Sorted returns the diagnostics ordered by source position, which is how
// the compiler driver prints them so output is deterministic across runs.
func (b *Bag) Sorted() []*Error {
	out := make([]*Error, len(b.items))
	copy(out, b.items)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Pos.Filename != out[j].Pos.Filename {
			return out[i].Pos.Filename < out[j].Pos.Filename
		}
		if out[i].Pos.Line != out[j].Pos.Line {
			return out[i].Pos.Line < out[j].Pos.Line
		}
		return out[i].Pos.Column < out[j].Pos.Column
	})
	return out
}
