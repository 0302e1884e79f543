package check

import (
	"github.com/BigBadE/Raven-Language-sub000/internal/diag"
	"github.com/BigBadE/Raven-Language-sub000/internal/types"
)

// coerceArgs implements §4.4's argument check-and-coerce: for each
// argument, assert is_of_type(actual, formal); if they match structurally
// but actual is concrete and formal is a trait, wrap the argument in a
// downcast effect.
func (c *Checker) coerceArgs(span types.Span, formals []types.Field, args []types.FinalizedEffect) ([]types.FinalizedEffect, error) {
	if len(formals) != len(args) {
		return nil, diag.New(diag.CodeArgCount, span, "expected %d arguments, got %d", len(formals), len(args))
	}

	out := make([]types.FinalizedEffect, len(args))
	for i, formal := range formals {
		actual := types.Strip(args[i].ReturnType(nil))
		formalType := types.Strip(formal.Type)

		formalIsTrait := c.isTrait(formalType)
		matches := false
		switch {
		case formalIsTrait:
			matches = c.Solver.Implements(actual, types.BaseName(formalType))
		default:
			matches = c.Solver.IsOfType(actual, formalType)
		}
		if !matches {
			return nil, diag.Mismatch(span, formalType.String(), actual.String())
		}

		if formalIsTrait && !c.isTrait(actual) {
			out[i] = types.FDowncast{Base: args[i], Target: formalType}
			continue
		}
		out[i] = args[i]
	}
	return out, nil
}

func (c *Checker) isTrait(t types.Type) bool {
	data, ok := c.Table.LookupStruct(types.BaseName(t))
	return ok && types.IsModifier(data.Modifiers, types.ModifierTrait)
}
