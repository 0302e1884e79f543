package traits

import (
	"testing"

	"github.com/BigBadE/Raven-Language-sub000/internal/symtab"
	"github.com/BigBadE/Raven-Language-sub000/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intType() types.Type {
	return types.Struct{Handle: &types.StructData{Name: "Int"}}
}

func TestIsOfTypeConcreteStructsMatchByBaseName(t *testing.T) {
	tab := symtab.New()
	s := New(tab)
	assert.True(t, s.IsOfType(intType(), intType()))
}

func TestIsOfTypeGenericBoundRequiresImplementation(t *testing.T) {
	tab := symtab.New()
	tab.BeginImplBlock()
	tab.EndImplBlock(symtab.Implementation{Trait: "Show", Base: intType()})
	s := New(tab)

	bound := types.Generic{Name: "T", Bounds: []string{"Show"}}
	assert.True(t, s.IsOfType(intType(), bound))

	strType := types.Struct{Handle: &types.StructData{Name: "Str"}}
	assert.False(t, s.IsOfType(strType, bound))
}

func TestIsOfTypeGenericTypePairwiseArgs(t *testing.T) {
	tab := symtab.New()
	s := New(tab)

	box := func(elem types.Type) types.Type {
		return types.GenericType{Base: types.Struct{Handle: &types.StructData{Name: "Box"}}, Args: []types.Type{elem}}
	}
	assert.True(t, s.IsOfType(box(intType()), box(intType())))

	strType := types.Struct{Handle: &types.StructData{Name: "Str"}}
	assert.False(t, s.IsOfType(box(intType()), box(strType)))
}

func TestSelfRecursiveBoundDoesNotOverflow(t *testing.T) {
	tab := symtab.New()
	tab.BeginImplBlock()
	tab.EndImplBlock(symtab.Implementation{
		Trait: "Add",
		Base:  intType(),
		Generics: []types.GenericParam{
			{Name: "Self", Bounds: []string{"Add"}},
		},
	})
	s := New(tab)

	bound := types.Generic{Name: "T", Bounds: []string{"Add"}}
	assert.True(t, s.IsOfType(intType(), bound))
}

func TestOverflowTreatedAsNotImplemented(t *testing.T) {
	tab := symtab.New()
	s := &Solver{table: tab, MaxDepth: 0, GoalCap: 0, cache: make(map[cacheKey]bool)}
	bound := types.Generic{Name: "T", Bounds: []string{"Show"}}
	assert.False(t, s.IsOfType(intType(), bound))
}

func TestFindImplementationsFiltersByBaseAndTargetArgs(t *testing.T) {
	tab := symtab.New()
	tab.BeginImplBlock()
	tab.EndImplBlock(symtab.Implementation{
		Trait:      "Add",
		Base:       intType(),
		TargetArgs: []types.Type{intType()},
	})
	s := New(tab)

	addTrait := types.GenericType{
		Base: types.Struct{Handle: &types.StructData{Name: "Add"}},
		Args: []types.Type{intType()},
	}
	found := s.FindImplementations(intType(), addTrait)
	require.Len(t, found, 1)
	assert.Equal(t, "Add", found[0].Trait)
}

func TestResolveGenericsBindsAndConflictsDetected(t *testing.T) {
	tab := symtab.New()
	s := New(tab)

	bindings := map[string]types.Type{}
	param := types.Generic{Name: "T"}
	require.NoError(t, s.ResolveGenerics(param, intType(), bindings))
	assert.Equal(t, "Int", bindings["T"].String())

	strType := types.Struct{Handle: &types.StructData{Name: "Str"}}
	err := s.ResolveGenerics(param, strType, bindings)
	require.Error(t, err)
}

func TestResolveGenericsStructuralGenericType(t *testing.T) {
	tab := symtab.New()
	s := New(tab)

	box := func(elem types.Type) types.Type {
		return types.GenericType{Base: types.Struct{Handle: &types.StructData{Name: "Box"}}, Args: []types.Type{elem}}
	}
	bindings := map[string]types.Type{}
	param := box(types.Generic{Name: "T"})
	require.NoError(t, s.ResolveGenerics(param, box(intType()), bindings))
	assert.Equal(t, "Int", bindings["T"].String())
}
