// Package frontend stands in for the external lexer/parser (§1 data flow:
// "frontend -> Symbol Table"). It does not parse real surface syntax —
// spec.md's Non-goals put surface syntax out of scope — but builds the
// same internal/types.Raw* records a real parser would produce, from a
// small literal source format, so internal/driver can be exercised
// end to end the way internal/parser.Processor feeds the teacher's
// internal/analyzer from a tokenized source file.
package frontend

import (
	"fmt"

	"github.com/BigBadE/Raven-Language-sub000/internal/driver"
	"github.com/BigBadE/Raven-Language-sub000/internal/types"
)

// Builder accumulates top-level declarations the way internal/parser's
// Processor accumulates statements, except each Add* call appends a
// fully-formed Raw record instead of re-deriving one from tokens.
type Builder struct {
	prog driver.Program
}

// New starts an empty program.
func New() *Builder {
	return &Builder{}
}

// Struct registers a struct declaration.
func (b *Builder) Struct(s *types.RawStruct) *Builder {
	b.prog.Structs = append(b.prog.Structs, s)
	return b
}

// Function registers a free function declaration.
func (b *Builder) Function(fn *types.RawFunction) *Builder {
	b.prog.Functions = append(b.prog.Functions, fn)
	return b
}

// Implementation registers an impl block.
func (b *Builder) Implementation(impl *types.RawImplementation) *Builder {
	b.prog.Implementations = append(b.prog.Implementations, impl)
	return b
}

// Entry names the function the driver should treat as the entry point.
func (b *Builder) Entry(name string) *Builder {
	b.prog.EntryFunction = name
	return b
}

// Build finishes the program, requiring at least one declaration.
func (b *Builder) Build() (*driver.Program, error) {
	if len(b.prog.Structs) == 0 && len(b.prog.Functions) == 0 && len(b.prog.Implementations) == 0 {
		return nil, fmt.Errorf("frontend: program has no declarations")
	}
	prog := b.prog
	return &prog, nil
}
