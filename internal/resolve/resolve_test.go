package resolve

import (
	"context"
	"testing"
	"time"

	"github.com/BigBadE/Raven-Language-sub000/internal/symtab"
	"github.com/BigBadE/Raven-Language-sub000/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTypeImmediate(t *testing.T) {
	tab := symtab.New()
	require.NoError(t, tab.AddStruct(&types.StructData{Name: "Int"}))
	r := New(tab)

	got, err := r.ResolveType(context.Background(), types.Span{}, Scope{}, "Int")
	require.NoError(t, err)
	assert.Equal(t, "Int", got.String())
}

func TestResolveTypeSuspendsThenResolves(t *testing.T) {
	tab := symtab.New()
	r := New(tab)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	resultCh := make(chan types.Type, 1)
	errCh := make(chan error, 1)
	go func() {
		got, err := r.ResolveType(ctx, types.Span{}, Scope{}, "Later")
		resultCh <- got
		errCh <- err
	}()

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, tab.AddStruct(&types.StructData{Name: "Later"}))

	select {
	case got := <-resultCh:
		require.NoError(t, <-errCh)
		assert.Equal(t, "Later", got.String())
	case <-time.After(time.Second):
		t.Fatal("ResolveType never woke up")
	}
}

func TestResolveTypeAliasedImport(t *testing.T) {
	tab := symtab.New()
	require.NoError(t, tab.AddStruct(&types.StructData{Name: "std.Int"}))
	r := New(tab)

	scope := Scope{Imports: map[string]string{"Int": "std.Int"}}
	got, err := r.ResolveType(context.Background(), types.Span{}, scope, "Int")
	require.NoError(t, err)
	assert.Equal(t, "std.Int", got.String())
}

func TestResolveTypeFallsBackToGenericBound(t *testing.T) {
	tab := symtab.New()
	r := New(tab)
	scope := Scope{Generics: []types.GenericParam{{Name: "T", Bounds: []string{"Show"}}}}

	got, err := r.ResolveType(context.Background(), types.Span{}, scope, "T")
	require.NoError(t, err)
	g, ok := got.(types.Generic)
	require.True(t, ok)
	assert.Equal(t, "T", g.Name)
	assert.Equal(t, []string{"Show"}, g.Bounds)
}

func TestResolveTypeMissingAfterFinishFails(t *testing.T) {
	tab := symtab.New()
	r := New(tab)
	tab.Finish()

	_, err := r.ResolveType(context.Background(), types.Span{}, Scope{}, "Ghost")
	require.Error(t, err)
}

func TestResolveEntryFunctionTimesOutIndependently(t *testing.T) {
	tab := symtab.New()
	r := New(tab)

	_, err := r.ResolveEntryFunction(context.Background(), "main", 20*time.Millisecond)
	require.Error(t, err)
}

func TestResolveEntryFunctionFound(t *testing.T) {
	tab := symtab.New()
	require.NoError(t, tab.AddFunction(&types.CodelessFinalizedFunction{
		Data: &types.FunctionData{Name: "main"},
	}))
	r := New(tab)

	fn, err := r.ResolveEntryFunction(context.Background(), "main", time.Second)
	require.NoError(t, err)
	assert.Equal(t, "main", fn.Data.Name)
}

func TestResolveImplementationsBlocksOnPendingCounter(t *testing.T) {
	tab := symtab.New()
	tab.BeginImplBlock()
	r := New(tab)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	resultCh := make(chan int, 1)
	go func() {
		impls, err := r.ResolveImplementations(ctx, "Show")
		require.NoError(t, err)
		resultCh <- len(impls)
	}()

	time.Sleep(10 * time.Millisecond)
	tab.EndImplBlock(symtab.Implementation{Trait: "Show"})

	select {
	case n := <-resultCh:
		assert.Equal(t, 1, n)
	case <-time.After(time.Second):
		t.Fatal("ResolveImplementations never woke up")
	}
}
