package types

import "fmt"

// Span pins a record or effect to the source text it came from. The lexer
// and parser are external collaborators (§1 Non-goals); this module only
// ever carries spans it was handed, it never computes them.
type Span struct {
	File    string
	Line    int
	Col     int
	EndLine int
	EndCol  int
}

func (s Span) String() string {
	if s.File == "" {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Col)
}
