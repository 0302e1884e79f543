// Package resolve implements the Async Resolver (§4.2): the fetch protocol
// layered over the Symbol Table that lets a parser or checker goroutine ask
// for a name that may not exist yet, and simply block until it does (or
// until the table closes). No goroutine is spawned to perform the wait —
// the caller's own goroutine blocks on a channel receive, exactly as it
// would on a polled Future in the original Rust implementation
// (_examples/original_source/language/syntax/src/async_util.rs), except Go
// expresses "suspend" as a blocking select instead of a Future::poll
// returning Pending to an executor.
package resolve

import (
	"context"

	"github.com/BigBadE/Raven-Language-sub000/internal/diag"
	"github.com/BigBadE/Raven-Language-sub000/internal/symtab"
	"github.com/BigBadE/Raven-Language-sub000/internal/types"
)

// Scope carries the lookup context a fetch needs beyond the bare name: the
// file's import/alias table and the enclosing type or function's generic
// parameters (§4.2 lookup order).
type Scope struct {
	// Imports maps a local alias to the canonical (fully qualified) name it
	// stands for. A name absent from this map is looked up unqualified.
	Imports map[string]string
	// Generics are the generic parameters in scope (from the enclosing
	// struct or function header), checked only after the Symbol Table has
	// been searched and found nothing (§4.2 lookup order step 3).
	Generics []types.GenericParam
}

func (s Scope) canonicalize(name string) string {
	if mapped, ok := s.Imports[name]; ok {
		return mapped
	}
	return name
}

func (s Scope) findGeneric(name string) (types.Generic, bool) {
	for _, g := range s.Generics {
		if g.Name == name {
			return types.Generic{Name: g.Name, Bounds: g.Bounds}, true
		}
	}
	return types.Generic{}, false
}

// Resolver is the Async Resolver bound to one Symbol Table.
type Resolver struct {
	table *symtab.Table
}

// New builds a Resolver over the given table.
func New(table *symtab.Table) *Resolver {
	return &Resolver{table: table}
}

// ResolveType fetches a type by name, following the lookup order in §4.2:
// unqualified/aliased name in the Symbol Table, then the enclosing scope's
// generic bounds (yielding a Generic type), suspending on the Symbol Table
// only while neither has an answer yet and the table remains open.
func (r *Resolver) ResolveType(ctx context.Context, span types.Span, scope Scope, name string) (types.Type, error) {
	canonical := scope.canonicalize(name)

	for {
		if data, ok := r.table.LookupStruct(canonical); ok {
			return types.Struct{Handle: data}, nil
		}
		if g, ok := scope.findGeneric(name); ok {
			return g, nil
		}
		if r.table.Closed() {
			return nil, diag.MissingSymbol(span, name)
		}

		// Suspend until this name is added to the Symbol Table or the table
		// finishes, then re-check.
		_, err := r.table.GetStruct(ctx, span, canonical)
		if err != nil {
			if r.table.Closed() {
				if g, ok := scope.findGeneric(name); ok {
					return g, nil
				}
			}
			return nil, err
		}
	}
}

// ResolveFunction fetches a function header by name, suspending as
// ResolveType does. Functions have no generic-bound fallback: a bare name
// that resolves to a function is always a Symbol Table entry.
func (r *Resolver) ResolveFunction(ctx context.Context, span types.Span, scope Scope, name string) (*types.CodelessFinalizedFunction, error) {
	canonical := scope.canonicalize(name)
	return r.table.GetFunction(ctx, span, canonical)
}

// ResolveFields fetches a struct's resolved field list, suspending until
// the struct header exists and its fields have been attached.
func (r *Resolver) ResolveFields(ctx context.Context, name string) (*types.FinalizedStruct, error) {
	return r.table.WaitForFields(ctx, name)
}

// ResolveBody fetches a function's finalized body, suspending until the
// body phase has attached it (§4.2 suspension point 4, used by the
// Generic Specializer to await an original function's body before cloning
// it, §9).
func (r *Resolver) ResolveBody(ctx context.Context, name string) (*types.FinalizedCodeBody, error) {
	return r.table.WaitForBody(ctx, name)
}
