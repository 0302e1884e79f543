// Package specialize implements the Generic Specializer (§4.5): producing a
// concrete, "degeneric'd" copy of a polymorphic function or struct bound to
// a specific set of type arguments. Grounded on the original's
// degeneric_function/degeneric_type/degeneric_struct
// (_examples/original_source/language/checker/src/degeneric.rs), translated
// from "lock Syntax, check the name, clone if absent" into Go's
// singleflight.Group — the real library closest in shape to the spec's
// "consult the Symbol Table; if present, return the existing handle"
// requirement (testable property #4), instead of hand-rolling a
// mutex-guarded in-flight map.
package specialize

import (
	"context"
	"fmt"

	"github.com/BigBadE/Raven-Language-sub000/internal/compqueue"
	"github.com/BigBadE/Raven-Language-sub000/internal/diag"
	"github.com/BigBadE/Raven-Language-sub000/internal/symtab"
	"github.com/BigBadE/Raven-Language-sub000/internal/types"
	"golang.org/x/sync/singleflight"
)

// Specializer answers "give me the specialization of this base name bound
// to these generics" requests, deduplicating concurrent requests for the
// same canonical name and scheduling body specialization to run
// asynchronously once the original's body is available. Once a
// specialization's body is attached, it is submitted to the Compilation
// Queue (§4.5 "The specialized function is then submitted to the
// Compilation Queue") — the same queue the driver pushes
// explicitly-declared functions to, so the back-end sees specializations
// in finalization order alongside everything else. Struct specializations
// have no queue analog: the Compilation Queue only carries finalized
// functions (§4.7), never structs.
type Specializer struct {
	Table *symtab.Table
	Queue *compqueue.Queue

	funcGroup   singleflight.Group
	structGroup singleflight.Group
}

// New builds a Specializer against a Symbol Table and the Compilation
// Queue that specialized function bodies are submitted to.
func New(table *symtab.Table, queue *compqueue.Queue) *Specializer {
	return &Specializer{Table: table, Queue: queue}
}

// SpecializeFunction implements internal/check's Specializer interface
// (§4.5 triggering, naming, resolution). Returns the existing handle
// immediately if this exact specialization was produced before.
func (s *Specializer) SpecializeFunction(ctx context.Context, baseName string, bindings map[string]types.Type) (*types.CodelessFinalizedFunction, error) {
	fn, ok := s.Table.LookupFunction(baseName)
	if !ok {
		return nil, diag.New(diag.CodeMissingSymbol, types.Span{}, "cannot specialize unknown function %q", baseName)
	}
	if len(fn.Generics) == 0 {
		return fn, nil
	}

	argNames, err := bindingArgNames(fn.Generics, bindings)
	if err != nil {
		return nil, diag.New(diag.CodeBoundsViolation, types.Span{}, "%v", err)
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

		go s.specializeBody(fn, cloned, bindings)
		return cloned, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*types.CodelessFinalizedFunction), nil
}

func (s *Specializer) cloneFunction(ctx context.Context, fn *types.CodelessFinalizedFunction, name string, bindings map[string]types.Type) (*types.CodelessFinalizedFunction, error) {
	data := &types.FunctionData{
		Modifiers: fn.Data.Modifiers,
		Attrs:     fn.Data.Attrs,
		Name:      name,
		Span:      fn.Data.Span,
	}

	args := make([]types.Field, len(fn.Arguments))
	for i, a := range fn.Arguments {
		sub, err := s.substituteType(ctx, a.Type, bindings)
		if err != nil {
			return nil, err
		}
		args[i] = types.Field{Name: a.Name, Type: sub}
	}

	var ret types.Type
	if fn.ReturnType != nil {
		sub, err := s.substituteType(ctx, fn.ReturnType, bindings)
		if err != nil {
			return nil, err
		}
		ret = sub
	}

	return &types.CodelessFinalizedFunction{
		Data:       data,
		Generics:   nil,
		Arguments:  args,
		ReturnType: ret,
	}, nil
}

// bindingArgNames returns the specialization's name components in declared
// generic-parameter order (§4.5 Naming: "argNames must already be in
// declared-generic-parameter order").
func bindingArgNames(generics []types.GenericParam, bindings map[string]types.Type) ([]string, error) {
	names := make([]string, len(generics))
	for i, g := range generics {
		t, ok := bindings[g.Name]
		if !ok {
			return nil, fmt.Errorf("invalid bounds: no binding resolved for generic parameter %q", g.Name)
		}
		names[i] = t.String()
	}
	return names, nil
}
