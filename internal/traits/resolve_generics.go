package traits

import (
	"fmt"

	"github.com/BigBadE/Raven-Language-sub000/internal/types"
)

// ResolveGenerics unifies a declared (possibly generic) parameter type
// against a concrete argument type, binding each Generic name it encounters
// to the concrete type standing in for it (§4.3 resolve_generics, used by
// the Type Checker's argument pass and the Generic Specializer's binding-map
// construction, §4.5).
//
// A name bound twice must bind to the same BaseName both times; anything
// else is a conflicting-binding error. A Generic's bounds are checked with
// IsOfType at bind time, not deferred.
func (s *Solver) ResolveGenerics(param, concrete types.Type, bindings map[string]types.Type) error {
	switch p := types.Strip(param).(type) {
	case types.Generic:
		if !s.IsOfType(concrete, p) {
			return fmt.Errorf("type %s does not satisfy bounds of %s", concrete.String(), p.String())
		}
		if existing, ok := bindings[p.Name]; ok {
			if types.BaseName(existing) != types.BaseName(concrete) {
				return fmt.Errorf("conflicting binding for %s: %s vs %s", p.Name, existing.String(), concrete.String())
			}
			return nil
		}
		bindings[p.Name] = concrete
		return nil

	case types.GenericType:
		c, ok := types.Strip(concrete).(types.GenericType)
		if !ok {
			return fmt.Errorf("expected generic type matching %s, got %s", p.String(), concrete.String())
		}
		if types.BaseName(p.Base) != types.BaseName(c.Base) {
			return fmt.Errorf("base mismatch: %s vs %s", p.String(), c.String())
		}
		if len(p.Args) != len(c.Args) {
			return fmt.Errorf("arity mismatch for %s: %d vs %d args", types.BaseName(p.Base), len(p.Args), len(c.Args))
		}
		for i := range p.Args {
			if err := s.ResolveGenerics(p.Args[i], c.Args[i], bindings); err != nil {
				return err
			}
		}
		return nil

	case types.Array:
		c, ok := types.Strip(concrete).(types.Array)
		if !ok {
			return fmt.Errorf("expected array type matching %s, got %s", p.String(), concrete.String())
		}
		return s.ResolveGenerics(p.Element, c.Element, bindings)

	default:
		// Concrete leaf (Struct): no generics to bind, just confirm identity.
		if types.BaseName(p) != types.BaseName(concrete) {
			return fmt.Errorf("type mismatch: expected %s, got %s", p.String(), concrete.String())
		}
		return nil
	}
}
