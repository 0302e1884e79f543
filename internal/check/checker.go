// Package check implements the Type Checker (§4.4): header and body phases
// over one parsed function or struct at a time. Header finalization runs
// eagerly right after parsing; body verification runs once the names it
// references are resolvable, via the Async Resolver (internal/resolve).
package check

import (
	"context"
	"fmt"

	"github.com/BigBadE/Raven-Language-sub000/internal/diag"
	"github.com/BigBadE/Raven-Language-sub000/internal/resolve"
	"github.com/BigBadE/Raven-Language-sub000/internal/symtab"
	"github.com/BigBadE/Raven-Language-sub000/internal/traits"
	"github.com/BigBadE/Raven-Language-sub000/internal/types"
)

// Specializer is the subset of internal/specialize.Specializer's contract
// the checker needs: trigger degenericization for a call or struct
// reference whose target still carries generics (§4.5 triggering). The
// interface lives here, not in internal/specialize, so check never imports
// specialize — specialize is wired in by whoever constructs both (the
// driver).
type Specializer interface {
	SpecializeFunction(ctx context.Context, baseName string, bindings map[string]types.Type) (*types.CodelessFinalizedFunction, error)
	SpecializeStruct(ctx context.Context, baseName string, bindings map[string]types.Type) (*types.FinalizedStruct, error)
}

// Checker holds the shared collaborators needed to finalize headers and
// bodies: the Symbol Table, the Async Resolver, the Trait Solver, and (once
// wired by the driver) the Generic Specializer.
type Checker struct {
	Table       *symtab.Table
	Resolver    *resolve.Resolver
	Solver      *traits.Solver
	Specializer Specializer
}

// New builds a Checker. Specializer may be set after construction
// (c.Specializer = ...) since the specializer and checker are mutually
// referential at the driver-wiring level.
func New(table *symtab.Table, resolver *resolve.Resolver, solver *traits.Solver) *Checker {
	return &Checker{Table: table, Resolver: resolver, Solver: solver}
}

// CheckStructHeader publishes a struct's header immediately (§4.1 lifecycle
// stage 1->2 for structs: there is no "codeless" struct stage, just header
// then fields).
func (c *Checker) CheckStructHeader(raw *types.RawStruct) (*types.StructData, error) {
	data := &types.StructData{
		Modifiers: raw.Modifiers,
		ID:        types.NextStructID(),
		Attrs:     raw.Attrs,
		Span:      raw.Span,
		Name:      raw.Name,
	}
	if err := c.Table.AddStruct(data); err != nil {
		return nil, err
	}
	return data, nil
}

// ResolveStructFields resolves and attaches a struct's field list (§4.1
// lifecycle stage for fields, runs after the header is already published so
// a field referencing the struct's own type can look it up).
func (c *Checker) ResolveStructFields(ctx context.Context, scope resolve.Scope, raw *types.RawStruct, data *types.StructData) (*types.FinalizedStruct, error) {
	fields := make([]types.Field, 0, len(raw.Fields))
	for _, f := range raw.Fields {
		t, err := c.resolveFieldType(ctx, scope, raw.Span, f)
		if err != nil {
			return nil, err
		}
		fields = append(fields, types.Field{Name: f.Name, Type: t})
	}

	fs := &types.FinalizedStruct{Data: data, Fields: fields, Generics: map[string]types.Type{}}
	c.Table.AttachFields(data.Name, fs)
	return fs, nil
}

func (c *Checker) resolveFieldType(ctx context.Context, scope resolve.Scope, span types.Span, arg types.RawArg) (types.Type, error) {
	base, err := c.Resolver.ResolveType(ctx, span, scope, arg.TypeName)
	if err != nil {
		return nil, err
	}
	if len(arg.TypeArgs) == 0 {
		return base, nil
	}
	args := make([]types.Type, len(arg.TypeArgs))
	for i, name := range arg.TypeArgs {
		t, err := c.Resolver.ResolveType(ctx, span, scope, name)
		if err != nil {
			return nil, err
		}
		args[i] = t
	}
	return types.GenericType{Base: base, Args: args}, nil
}

// CheckFunctionHeader resolves argument types, return type, and generic
// bounds through the resolver, then publishes the codeless finalized
// function to the Symbol Table (§4.4 header phase, §4.1 add).
func (c *Checker) CheckFunctionHeader(ctx context.Context, scope resolve.Scope, raw *types.RawFunction) (*types.CodelessFinalizedFunction, error) {
	generics := make([]types.GenericParam, len(raw.Generics))
	for i, g := range raw.Generics {
		generics[i] = types.GenericParam{Name: g.Name, Bounds: g.Bounds}
	}
	// Generic parameter names are visible to argument/return-type
	// resolution as Generic bounds in scope (§4.2 lookup order step 3).
	innerScope := scope
	innerScope.Generics = append(append([]types.GenericParam(nil), scope.Generics...), generics...)

	args := make([]types.Field, 0, len(raw.Arguments))
	for _, a := range raw.Arguments {
		t, err := c.resolveFieldType(ctx, innerScope, raw.Span, a)
		if err != nil {
			return nil, err
		}
		args = append(args, types.Field{Name: a.Name, Type: t})
	}

	var retType types.Type
	if raw.ReturnType != "" {
		t, err := c.Resolver.ResolveType(ctx, raw.Span, innerScope, raw.ReturnType)
		if err != nil {
			return nil, err
		}
		retType = t
	}

	codeless := &types.CodelessFinalizedFunction{
		Data:      &types.FunctionData{Modifiers: raw.Modifiers, Attrs: raw.Attrs, Name: raw.Name, Span: raw.Span},
		Generics:  generics,
		Arguments: args,
		ReturnType: retType,
	}
	if err := c.Table.AddFunction(codeless); err != nil {
		return nil, err
	}
	return codeless, nil
}

// qualifiedMethodName builds the "Type.method" lookup key used for direct
// method dispatch (§4.4: "look up the function by the Type::method
// qualified name").
func qualifiedMethodName(recvBase, method string) string {
	return fmt.Sprintf("%s.%s", recvBase, method)
}

func attrInt(attrs []types.Attribute, name string, def int) int {
	a, ok := types.Find(attrs, name)
	if !ok {
		return def
	}
	var v int
	if _, err := fmt.Sscanf(a.Value, "%d", &v); err != nil {
		return def
	}
	return v
}

func attrBool(attrs []types.Attribute, name string, def bool) bool {
	a, ok := types.Find(attrs, name)
	if !ok {
		return def
	}
	return a.Value == "true"
}

func missingField(span types.Span, typeName, field string) error {
	return diag.New(diag.CodeUnknownField, span, "type %q has no field %q", typeName, field)
}
