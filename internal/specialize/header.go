package specialize

import (
	"context"

	"github.com/BigBadE/Raven-Language-sub000/internal/types"
)

// SpecializeTraitHeader implements the optional header-only path (§4.5
// "Trait-header specialization"): when a virtual call's receiver type is
// itself a GenericType, the back-end still needs a vtable slot to exist,
// so a specialization is produced with an empty body instead of waiting on
// WaitForBody. internal/check probes for this method via an optional
// interface, since it is not part of the Specializer contract every
// caller needs. Like the ordinary body path, the resulting finalized
// function is pushed onto the Compilation Queue once its (empty) body is
// attached, so it still reaches the back-end.
func (s *Specializer) SpecializeTraitHeader(ctx context.Context, baseName string, bindings map[string]types.Type) (*types.CodelessFinalizedFunction, error) {
	fn, ok := s.Table.LookupFunction(baseName)
	if !ok {
		return fn, nil
	}
	if len(fn.Generics) == 0 {
		return fn, nil
	}

	argNames, err := bindingArgNames(fn.Generics, bindings)
	if err != nil {
		return nil, err
	}
	name := types.SpecializationName(baseName, argNames)

	if existing, ok := s.Table.LookupFunction(name); ok {
		return existing, nil
	}

	v, err, _ := s.funcGroup.Do(name, func() (any, error) {
		if existing, ok := s.Table.LookupFunction(name); ok {
			return existing, nil
		}
		cloned, err := s.cloneFunction(ctx, fn, name, bindings)
		if err != nil {
			return nil, err
		}
		if err := s.Table.AddFunction(cloned); err != nil {
			if existing, ok := s.Table.LookupFunction(name); ok {
				return existing, nil
			}
			return nil, err
		}
		empty := &types.FinalizedCodeBody{Label: "empty", Returns: true}
		s.Table.AttachBody(name, empty)
		if s.Queue != nil {
			s.Queue.Push(&types.FinalizedFunction{Codeless: cloned, Code: empty})
		}
		return cloned, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*types.CodelessFinalizedFunction), nil
}
