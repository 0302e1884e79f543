package check

import (
	"context"

	"github.com/BigBadE/Raven-Language-sub000/internal/diag"
	"github.com/BigBadE/Raven-Language-sub000/internal/types"
)

// ResolveStructType implements finalize.CallResolver: fetches a struct's
// finalized field layout for CreateStruct/Load lowering, triggering a
// struct specialization first when typeArgs make this a GenericType
// reference (§4.5 triggering: "every struct reference whose type is a
// GenericType enters on the struct side").
func (c *Checker) ResolveStructType(ctx context.Context, span types.Span, typeName string, typeArgs []types.Type) (*types.FinalizedStruct, error) {
	if len(typeArgs) == 0 {
		return c.Resolver.ResolveFields(ctx, typeName)
	}

	if c.Specializer == nil {
		return nil, diag.New(diag.CodeBoundsViolation, span, "generic struct %q requires a specializer", typeName)
	}

	baseFields, err := c.Resolver.ResolveFields(ctx, typeName)
	if err != nil {
		return nil, err
	}

	bindings := map[string]types.Type{}
	for i, name := range genericNamesOf(baseFields) {
		if i < len(typeArgs) {
			bindings[name] = typeArgs[i]
		}
	}
	return c.Specializer.SpecializeStruct(ctx, typeName, bindings)
}

// genericNamesOf returns a struct's unresolved generic parameter names in
// first-encountered field order; positional typeArgs are matched against
// this order, not the order the generics are declared in.
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
