package specialize

import (
	"context"
	"fmt"

	"github.com/BigBadE/Raven-Language-sub000/internal/types"
)

// substituteType is the type-level half of §4.5's body specialization
// substitution rules, also reused by cloneFunction/SpecializeStruct for
// header substitution:
//   - Generic(name, _)      -> looked-up concrete type, or unchanged if absent.
//   - GenericType(base,args)-> a new struct specialization, recursively
//     obtained through this same specializer, flattened to a plain Struct.
//   - Reference(inner), Array(inner) -> recurse.
func (s *Specializer) substituteType(ctx context.Context, t types.Type, bindings map[string]types.Type) (types.Type, error) {
	switch tt := t.(type) {
	case types.Generic:
		if conc, ok := bindings[tt.Name]; ok {
			return conc, nil
		}
		return tt, nil

	case types.GenericType:
		base, err := s.substituteType(ctx, tt.Base, bindings)
		if err != nil {
			return nil, err
		}
		args := make([]types.Type, len(tt.Args))
		for i, a := range tt.Args {
			sub, err := s.substituteType(ctx, a, bindings)
			if err != nil {
				return nil, err
			}
			args[i] = sub
		}
		return s.flattenGenericType(ctx, base, args)

	case types.Reference:
		inner, err := s.substituteType(ctx, tt.Inner, bindings)
		if err != nil {
			return nil, err
		}
		return types.Reference{Inner: inner}, nil

	case types.Array:
		elem, err := s.substituteType(ctx, tt.Element, bindings)
		if err != nil {
			return nil, err
		}
		return types.Array{Element: elem}, nil

	default:
		return t, nil
	}
}

// flattenGenericType turns a fully-substituted GenericType into a plain
// Struct by specializing the target struct against its own generic
// parameters (testable property #1: no unflattened GenericType may reach
// the Compilation Queue).
func (s *Specializer) flattenGenericType(ctx context.Context, base types.Type, args []types.Type) (types.Type, error) {
	baseName := types.BaseName(base)
	baseFields, err := s.Table.WaitForFields(ctx, baseName)
	if err != nil {
		return nil, err
	}

	structBindings := map[string]types.Type{}
	for i, name := range genericNamesOf(baseFields) {
		if i < len(args) {
			structBindings[name] = args[i]
		}
	}

	fs, err := s.SpecializeStruct(ctx, baseName, structBindings)
	if err != nil {
		return nil, err
	}
	return types.Struct{Handle: fs.Data}, nil
}

// genericNamesOf returns a struct's unresolved generic parameter names in
// first-encountered field order; positional type arguments are matched
// against this order, not the order the generics are declared in (mirrors
// internal/check's helper of the same name;
// kept local to avoid check depending on specialize or vice versa).
func genericNamesOf(fs *types.FinalizedStruct) []string {
	var names []string
	seen := map[string]bool{}
	for _, f := range fs.Fields {
		if g, ok := f.Type.(types.Generic); ok && !seen[g.Name] {
			seen[g.Name] = true
			names = append(names, g.Name)
		}
	}
	return names
}

// substituteEffect walks a finalized effect tree, substituting every type
// it carries and, for FGenericMethodCall, re-dispatching to a direct
// FMethodCall once the receiver's concrete type is known (§8 scenario B:
// a generic-bound call in the original body becomes a direct call in the
// specialization).
func (s *Specializer) substituteEffect(ctx context.Context, e types.FinalizedEffect, bindings map[string]types.Type) (types.FinalizedEffect, error) {
	if e == nil {
		return nil, nil
	}

	switch v := e.(type) {
	case types.FConst:
		t, err := s.substituteType(ctx, v.Type, bindings)
		if err != nil {
			return nil, err
		}
		v.Type = t
		return v, nil

	case types.FLoadVariable:
		t, err := s.substituteType(ctx, v.Type, bindings)
		if err != nil {
			return nil, err
		}
		v.Type = t
		return v, nil

	case types.FCreateVariable:
		init, err := s.substituteEffect(ctx, v.Init, bindings)
		if err != nil {
			return nil, err
		}
		t, err := s.substituteType(ctx, v.Type, bindings)
		if err != nil {
			return nil, err
		}
		v.Init, v.Type = init, t
		return v, nil

	case types.FLoadField:
		base, err := s.substituteEffect(ctx, v.Base, bindings)
		if err != nil {
			return nil, err
		}
		t, err := s.substituteType(ctx, v.Type, bindings)
		if err != nil {
			return nil, err
		}
		v.Base, v.Type = base, t
		// The base's struct may have been specialized by substituting it
		// above (a GenericType flattens to a fresh Struct); repoint at the
		// specialized field layout so the field index still lines up.
		if fs, ok := s.Table.Fields(types.BaseName(types.Strip(base.ReturnType(nil)))); ok {
			v.Struct = fs
		}
		return v, nil

	case types.FStoreRef:
		target, err := s.substituteEffect(ctx, v.Target, bindings)
		if err != nil {
			return nil, err
		}
		value, err := s.substituteEffect(ctx, v.Value, bindings)
		if err != nil {
			return nil, err
		}
		v.Target, v.Value = target, value
		return v, nil

	case types.FHeapAllocate:
		t, err := s.substituteType(ctx, v.Type, bindings)
		if err != nil {
			return nil, err
		}
		v.Type = t
		return v, nil

	case types.FHeapStore:
		value, err := s.substituteEffect(ctx, v.Value, bindings)
		if err != nil {
			return nil, err
		}
		v.Value = value
		return v, nil

	case types.FStackStore:
		value, err := s.substituteEffect(ctx, v.Value, bindings)
		if err != nil {
			return nil, err
		}
		v.Value = value
		return v, nil

	case types.FMethodCall:
		args, err := s.substituteEffects(ctx, v.Args, bindings)
		if err != nil {
			return nil, err
		}
		v.Args = args
		return v, nil

	case types.FVirtualCall:
		args, err := s.substituteEffects(ctx, v.Args, bindings)
		if err != nil {
			return nil, err
		}
		v.Args = args
		return v, nil

	case types.FGenericMethodCall:
		args, err := s.substituteEffects(ctx, v.Args, bindings)
		if err != nil {
			return nil, err
		}
		if direct, ok := s.redispatchGeneric(v, args); ok {
			return direct, nil
		}
		v.Args = args
		return v, nil

	case types.FGenericVirtualCall:
		args, err := s.substituteEffects(ctx, v.Args, bindings)
		if err != nil {
			return nil, err
		}
		v.Args = args
		return v, nil

	case types.FDowncast:
		base, err := s.substituteEffect(ctx, v.Base, bindings)
		if err != nil {
			return nil, err
		}
		t, err := s.substituteType(ctx, v.Target, bindings)
		if err != nil {
			return nil, err
		}
		v.Base, v.Target = base, t
		return v, nil

	case types.FCreateStruct:
		t, err := s.substituteType(ctx, v.Type, bindings)
		if err != nil {
			return nil, err
		}
		fields := make([]types.IndexedEffect, len(v.Fields))
		for i, f := range v.Fields {
			sub, err := s.substituteEffect(ctx, f.Effect, bindings)
			if err != nil {
				return nil, err
			}
			fields[i] = types.IndexedEffect{Index: f.Index, Effect: sub}
		}
		v.Type, v.Fields = t, fields
		return v, nil

	case types.FCreateArray:
		elem, err := s.substituteType(ctx, v.Element, bindings)
		if err != nil {
			return nil, err
		}
		elements, err := s.substituteEffects(ctx, v.Elements, bindings)
		if err != nil {
			return nil, err
		}
		v.Element, v.Elements = elem, elements
		return v, nil

	case types.FCompareJump:
		cond, err := s.substituteEffect(ctx, v.Cond, bindings)
		if err != nil {
			return nil, err
		}
		v.Cond = cond
		return v, nil

	case types.FCodeBody:
		body, err := s.substituteBody(ctx, v.Body, bindings)
		if err != nil {
			return nil, err
		}
		v.Body = body
		return v, nil

	case types.FReturn:
		value, err := s.substituteEffect(ctx, v.Value, bindings)
		if err != nil {
			return nil, err
		}
		v.Value = value
		return v, nil

	case types.FJump, types.FNop:
		return v, nil

	default:
		return nil, fmt.Errorf("specialize: unhandled finalized effect %T", e)
	}
}

func (s *Specializer) substituteEffects(ctx context.Context, in []types.FinalizedEffect, bindings map[string]types.Type) ([]types.FinalizedEffect, error) {
	out := make([]types.FinalizedEffect, len(in))
	for i, e := range in {
		sub, err := s.substituteEffect(ctx, e, bindings)
		if err != nil {
			return nil, err
		}
		out[i] = sub
	}
	return out, nil
}

// redispatchGeneric turns a generic-bound method call into a direct call
// once the (already substituted) receiver's type is concrete (§8 scenario
// B). args[0] is the receiver, per the receiver-as-first-argument
// convention (§4.4).
func (s *Specializer) redispatchGeneric(call types.FGenericMethodCall, args []types.FinalizedEffect) (types.FinalizedEffect, bool) {
	if len(args) == 0 {
		return nil, false
	}
	recvType := types.Strip(args[0].ReturnType(nil))
	if _, stillGeneric := recvType.(types.Generic); stillGeneric {
		return nil, false
	}

	method := lastSegment(call.Func.Data.Name)
	qualified := fmt.Sprintf("%s.%s", types.BaseName(recvType), method)
	fn, ok := s.Table.LookupFunction(qualified)
	if !ok {
		return nil, false
	}
	return types.FMethodCall{Func: fn, Args: args}, true
}

func lastSegment(qualified string) string {
	for i := len(qualified) - 1; i >= 0; i-- {
		if qualified[i] == '.' {
			return qualified[i+1:]
		}
	}
	return qualified
}
