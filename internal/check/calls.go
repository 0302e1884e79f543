package check

import (
	"context"

	"github.com/BigBadE/Raven-Language-sub000/internal/diag"
	"github.com/BigBadE/Raven-Language-sub000/internal/types"
)

// ResolveMethodCall implements finalize.CallResolver: the method-call
// branch of §4.4's body phase. recv may be nil for a free function call.
func (c *Checker) ResolveMethodCall(ctx context.Context, vars *types.VarScope, span types.Span, recv types.FinalizedEffect, name string, args []types.FinalizedEffect, retHint types.Type) (types.FinalizedEffect, error) {
	if recv == nil {
		return c.resolveDirectCall(ctx, span, name, args, retHint)
	}

	recvType := types.Strip(recv.ReturnType(vars))
	allArgs := append([]types.FinalizedEffect{recv}, args...)

	if gen, ok := recvType.(types.Generic); ok {
		for _, bound := range gen.Bounds {
			qualified := qualifiedMethodName(bound, name)
			fn, ok := c.Table.LookupFunction(qualified)
			if !ok {
				continue
			}
			coerced, err := c.coerceArgs(span, fn.Arguments, allArgs)
			if err != nil {
				return nil, err
			}
			return types.FGenericMethodCall{TraitName: bound, Func: fn, Args: coerced}, nil
		}
		return nil, diag.New(diag.CodeUnknownMethod, span, "no bound of %q declares method %q", gen.Name, name)
	}

	baseName := types.BaseName(recvType)
	if data, ok := c.Table.LookupStruct(baseName); ok && types.IsModifier(data.Modifiers, types.ModifierTrait) {
		slot, fn, err := c.traitMethodSlot(span, data, name)
		if err != nil {
			return nil, err
		}
		coerced, err := c.coerceArgs(span, fn.Arguments, allArgs)
		if err != nil {
			return nil, err
		}
		return types.FVirtualCall{SlotIndex: slot, Func: fn, Args: coerced}, nil
	}

	qualified := qualifiedMethodName(baseName, name)
	fn, err := c.Table.GetFunction(ctx, span, qualified)
	if err != nil {
		return nil, err
	}
	return c.callDirect(ctx, span, fn, allArgs, retHint)
}

// resolveDirectCall handles a free function call (no receiver).
func (c *Checker) resolveDirectCall(ctx context.Context, span types.Span, name string, args []types.FinalizedEffect, retHint types.Type) (types.FinalizedEffect, error) {
	fn, ok := c.Table.LookupFunction(name)
	if !ok {
		return nil, diag.MissingSymbol(span, name)
	}
	return c.callDirect(ctx, span, fn, args, retHint)
}

// callDirect coerces arguments and, if the target is generic, triggers
// specialization (§4.5 triggering: "every direct method call whose target
// function has a non-empty generic list enters the specializer").
func (c *Checker) callDirect(ctx context.Context, span types.Span, fn *types.CodelessFinalizedFunction, args []types.FinalizedEffect, retHint types.Type) (types.FinalizedEffect, error) {
	if len(fn.Generics) == 0 {
		coerced, err := c.coerceArgs(span, fn.Arguments, args)
		if err != nil {
			return nil, err
		}
		return types.FMethodCall{Func: fn, Args: coerced}, nil
	}

	if c.Specializer == nil {
		return nil, diag.New(diag.CodeBoundsViolation, span, "generic function %q requires a specializer", fn.Data.Name)
	}

	bindings := map[string]types.Type{}
	for i, formal := range fn.Arguments {
		if i >= len(args) {
			break
		}
		if err := c.Solver.ResolveGenerics(formal.Type, args[i].ReturnType(nil), bindings); err != nil {
			return nil, diag.New(diag.CodeBoundsViolation, span, "%v", err)
		}
	}
	if retHint != nil && fn.ReturnType != nil {
		_ = c.Solver.ResolveGenerics(fn.ReturnType, retHint, bindings)
	}

	specialized, err := c.Specializer.SpecializeFunction(ctx, fn.Data.Name, bindings)
	if err != nil {
		return nil, err
	}
	coerced, err := c.coerceArgs(span, specialized.Arguments, args)
	if err != nil {
		return nil, err
	}
	return types.FMethodCall{Func: specialized, Args: coerced}, nil
}

// traitMethodSlot finds a trait method's position in its declared function
// list, used as the vtable slot index for a virtual call (§4.4).
func (c *Checker) traitMethodSlot(span types.Span, trait *types.StructData, method string) (int, *types.CodelessFinalizedFunction, error) {
	for i, fname := range trait.Functions {
		fn, ok := c.Table.LookupFunction(fname)
		if ok && fn.Data.Name == fname && lastSegment(fname) == method {
			return i, fn, nil
		}
	}
	return 0, nil, diag.New(diag.CodeUnknownMethod, span, "trait %q has no method %q", trait.Name, method)
}

// specializeTraitHeaderBestEffort kicks off a header-only specialization
// (§4.5 "Trait-header specialization") for a generic virtual call's target,
// so the back-end has a vtable slot to emit even though the call itself
// stays virtual. Best-effort: failures here don't fail the call, since the
// FGenericVirtualCall this supports doesn't carry a Func reference and the
// back-end can regenerate the slot lazily.
func (c *Checker) specializeTraitHeaderBestEffort(ctx context.Context, qualified string, gt types.GenericType) {
	th, ok := c.Specializer.(interface {
		SpecializeTraitHeader(ctx context.Context, baseName string, bindings map[string]types.Type) (*types.CodelessFinalizedFunction, error)
	})
	if !ok {
		return
	}
	fn, ok := c.Table.LookupFunction(qualified)
	if !ok || len(fn.Generics) == 0 {
		return
	}
	bindings := map[string]types.Type{}
	for i, g := range fn.Generics {
		if i < len(gt.Args) {
			bindings[g.Name] = gt.Args[i]
		}
	}
	go func() { _, _ = th.SpecializeTraitHeader(ctx, qualified, bindings) }()
}

func lastSegment(qualified string) string {
	for i := len(qualified) - 1; i >= 0; i-- {
		if qualified[i] == '.' {
			return qualified[i+1:]
		}
	}
	return qualified
}

// ResolveImplementationCall implements finalize.CallResolver: explicit
// `TraitName::method(recv, args...)` dispatch, and the target of lowered
// operator calls (§4.4 implementation call).
func (c *Checker) ResolveImplementationCall(ctx context.Context, vars *types.VarScope, span types.Span, recv types.FinalizedEffect, trait, method string, args []types.FinalizedEffect, retHint types.Type) (types.FinalizedEffect, error) {
	recvType := types.Strip(recv.ReturnType(vars))

	impls := c.Solver.FindImplementations(recvType, types.Struct{Handle: &types.StructData{Name: trait}})
	if len(impls) == 0 {
		return nil, diag.New(diag.CodeUnknownMethod, span, "no implementation of %q for %s", trait, recvType.String())
	}
	if len(impls) > 1 {
		return nil, diag.New(diag.CodeAmbiguousDispatch, span, "ambiguous dispatch: %d implementations of %q for %s", len(impls), trait, recvType.String())
	}
	impl := impls[0]

	qualified, ok := impl.Methods[method]
	if !ok {
		return nil, diag.New(diag.CodeUnknownMethod, span, "implementation of %q for %s has no method %q", trait, recvType.String(), method)
	}

	if gt, isGenericType := recvType.(types.GenericType); isGenericType {
		c.specializeTraitHeaderBestEffort(ctx, qualified, gt)
		return types.FGenericVirtualCall{TraitName: trait, Args: append([]types.FinalizedEffect{recv}, args...)}, nil
	}

	fn, ok := c.Table.LookupFunction(qualified)
	if !ok {
		return nil, diag.New(diag.CodeUnknownMethod, span, "impl method %q not registered", qualified)
	}
	allArgs := append([]types.FinalizedEffect{recv}, args...)
	coerced, err := c.coerceArgs(span, fn.Arguments, allArgs)
	if err != nil {
		return nil, err
	}
	return types.FMethodCall{Func: fn, Args: coerced}, nil
}
