package specialize

import (
	"context"

	"github.com/BigBadE/Raven-Language-sub000/internal/diag"
	"github.com/BigBadE/Raven-Language-sub000/internal/types"
)

// SpecializeStruct implements internal/check's Specializer interface (§4.5
// "Struct specialization. Analogous: clone, substitute every field's type,
// assign a fresh id, register."). bindings maps the struct's own generic
// parameter names (as returned by genericNamesOf) to concrete types.
func (s *Specializer) SpecializeStruct(ctx context.Context, baseName string, bindings map[string]types.Type) (*types.FinalizedStruct, error) {
	base, err := s.Table.WaitForFields(ctx, baseName)
	if err != nil {
		return nil, err
	}
	if len(bindings) == 0 {
		return base, nil
	}

	argNames := make([]string, 0, len(bindings))
	for _, name := range genericNamesOf(base) {
		if t, ok := bindings[name]; ok {
			argNames = append(argNames, t.String())
		}
	}
	name := types.SpecializationName(baseName, argNames)

	if existing, ok := s.Table.Fields(name); ok {
		return existing, nil
	}

	v, err, _ := s.structGroup.Do(name, func() (any, error) {
		if existing, ok := s.Table.Fields(name); ok {
			return existing, nil
		}

		data := &types.StructData{
			Modifiers: base.Data.Modifiers,
			ID:        types.NextStructID(),
			Attrs:     base.Data.Attrs,
			Span:      base.Data.Span,
			Name:      name,
			Functions: append([]string(nil), base.Data.Functions...),
		}
		if err := s.Table.AddStruct(data); err != nil {
			if existing, ok := s.Table.Fields(name); ok {
				return existing, nil
			}
			return nil, err
		}

		fields := make([]types.Field, len(base.Fields))
		for i, f := range base.Fields {
			sub, err := s.substituteType(ctx, f.Type, bindings)
			if err != nil {
				return nil, diag.New(diag.CodeBoundsViolation, data.Span, "specializing field %q of %q: %v", f.Name, name, err)
			}
			fields[i] = types.Field{Name: f.Name, Type: sub}
		}

		finalized := &types.FinalizedStruct{Data: data, Fields: fields, Generics: map[string]types.Type{}}
		s.Table.AttachFields(name, finalized)
		return finalized, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*types.FinalizedStruct), nil
}
