package specialize

import (
	"context"
	"testing"
	"time"

	"github.com/BigBadE/Raven-Language-sub000/internal/compqueue"
	"github.com/BigBadE/Raven-Language-sub000/internal/symtab"
	"github.com/BigBadE/Raven-Language-sub000/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func i64Type() types.Type { return types.Struct{Handle: &types.StructData{Name: "i64"}} }

func TestSpecializeFunctionWithoutGenericsReturnsSameHeader(t *testing.T) {
	tab := symtab.New()
	fn := &types.CodelessFinalizedFunction{Data: &types.FunctionData{Name: "main"}}
	require.NoError(t, tab.AddFunction(fn))

	s := New(tab, compqueue.New())
	got, err := s.SpecializeFunction(context.Background(), "main", nil)
	require.NoError(t, err)
	assert.Same(t, fn, got)
}

func TestSpecializeFunctionClonesAndNames(t *testing.T) {
	tab := symtab.New()
	require.NoError(t, tab.AddStruct(&types.StructData{Name: "i64"}))
	fn := &types.CodelessFinalizedFunction{
		Data:       &types.FunctionData{Name: "id"},
		Generics:   []types.GenericParam{{Name: "T"}},
		Arguments:  []types.Field{{Name: "x", Type: types.Generic{Name: "T"}}},
		ReturnType: types.Generic{Name: "T"},
	}
	require.NoError(t, tab.AddFunction(fn))
	tab.AttachBody("id", &types.FinalizedCodeBody{
		Label: "entry",
		Statements: []types.FinalizedStatement{
			{Kind: types.StmtReturn, Effect: types.FReturn{Value: types.FLoadVariable{Name: "x", Type: types.Generic{Name: "T"}}}},
		},
		Returns: true,
	})

	queue := compqueue.New()
	s := New(tab, queue)
	specialized, err := s.SpecializeFunction(context.Background(), "id", map[string]types.Type{"T": i64Type()})
	require.NoError(t, err)
	assert.Equal(t, "id$i64", specialized.Data.Name)
	assert.Empty(t, specialized.Generics)
	require.Len(t, specialized.Arguments, 1)
	assert.Equal(t, "i64", types.BaseName(specialized.Arguments[0].Type))
	assert.Equal(t, "i64", types.BaseName(specialized.ReturnType))

	// the specialized header is published immediately...
	_, ok := tab.LookupFunction("id$i64")
	require.True(t, ok)

	// ...and its body arrives asynchronously, substituted, and the
	// specialized function is submitted to the Compilation Queue. Await
	// rather than WaitForBody+Order: AttachBody wakes WaitForBody callers
	// before specializeBody goes on to call Queue.Push, so only Await on
	// the queue itself is guaranteed to observe the push.
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	queued, err := queue.Await(ctx, "id$i64")
	require.NoError(t, err, "specialized function must reach the Compilation Queue")
	ret := queued.Code.Statements[0].Effect.(types.FReturn)
	loaded := ret.Value.(types.FLoadVariable)
	assert.Equal(t, "i64", types.BaseName(loaded.Type))
}

func TestSpecializeFunctionDedupesSameBinding(t *testing.T) {
	tab := symtab.New()
	require.NoError(t, tab.AddStruct(&types.StructData{Name: "i64"}))
	fn := &types.CodelessFinalizedFunction{
		Data:      &types.FunctionData{Name: "id"},
		Generics:  []types.GenericParam{{Name: "T"}},
		Arguments: []types.Field{{Name: "x", Type: types.Generic{Name: "T"}}},
	}
	require.NoError(t, tab.AddFunction(fn))
	tab.AttachBody("id", &types.FinalizedCodeBody{Label: "entry", Returns: true})

	s := New(tab, compqueue.New())
	bindings := map[string]types.Type{"T": i64Type()}
	first, err := s.SpecializeFunction(context.Background(), "id", bindings)
	require.NoError(t, err)
	second, err := s.SpecializeFunction(context.Background(), "id", bindings)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestSpecializeFunctionRedispatchesGenericBoundCall(t *testing.T) {
	tab := symtab.New()
	require.NoError(t, tab.AddStruct(&types.StructData{Name: "i64"}))
	require.NoError(t, tab.AddStruct(&types.StructData{Name: "Add", Modifiers: uint8(types.ModifierTrait), Functions: []string{"Add.add"}}))
	require.NoError(t, tab.AddFunction(&types.CodelessFinalizedFunction{
		Data:      &types.FunctionData{Name: "Add.add"},
		Arguments: []types.Field{{Name: "self", Type: types.Generic{Name: "T", Bounds: []string{"Add"}}}, {Name: "other", Type: types.Generic{Name: "T", Bounds: []string{"Add"}}}},
		ReturnType: types.Generic{Name: "T", Bounds: []string{"Add"}},
	}))
	require.NoError(t, tab.AddFunction(&types.CodelessFinalizedFunction{
		Data:       &types.FunctionData{Name: "i64.add"},
		Arguments:  []types.Field{{Name: "self", Type: i64Type()}, {Name: "other", Type: i64Type()}},
		ReturnType: i64Type(),
	}))

	genericT := types.Generic{Name: "T", Bounds: []string{"Add"}}
	sum := &types.CodelessFinalizedFunction{
		Data:       &types.FunctionData{Name: "sum"},
		Generics:   []types.GenericParam{{Name: "T", Bounds: []string{"Add"}}},
		Arguments:  []types.Field{{Name: "a", Type: genericT}, {Name: "b", Type: genericT}},
		ReturnType: genericT,
	}
	require.NoError(t, tab.AddFunction(sum))

	call := types.FGenericMethodCall{
		TraitName: "Add",
		Func:      tabLookup(t, tab, "Add.add"),
		Args: []types.FinalizedEffect{
			types.FLoadVariable{Name: "a", Type: genericT},
			types.FLoadVariable{Name: "b", Type: genericT},
		},
	}
	tab.AttachBody("sum", &types.FinalizedCodeBody{
		Label:      "entry",
		Statements: []types.FinalizedStatement{{Kind: types.StmtReturn, Effect: types.FReturn{Value: call}}},
		Returns:    true,
	})

	s := New(tab, compqueue.New())
	specialized, err := s.SpecializeFunction(context.Background(), "sum", map[string]types.Type{"T": i64Type()})
	require.NoError(t, err)
	assert.Equal(t, "sum$i64", specialized.Data.Name)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	body, err := tab.WaitForBody(ctx, "sum$i64")
	require.NoError(t, err)

	ret := body.Statements[0].Effect.(types.FReturn)
	direct, ok := ret.Value.(types.FMethodCall)
	require.True(t, ok, "expected the generic-bound call to redispatch to a direct FMethodCall")
	assert.Equal(t, "i64.add", direct.Func.Data.Name)
}

func TestSpecializeStructClonesFieldsWithFreshID(t *testing.T) {
	tab := symtab.New()
	require.NoError(t, tab.AddStruct(&types.StructData{Name: "i64"}))
	boxData := &types.StructData{Name: "Box", ID: types.NextStructID()}
	require.NoError(t, tab.AddStruct(boxData))
	tab.AttachFields("Box", &types.FinalizedStruct{
		Data:   boxData,
		Fields: []types.Field{{Name: "value", Type: types.Generic{Name: "T"}}},
	})

	s := New(tab, compqueue.New())
	specialized, err := s.SpecializeStruct(context.Background(), "Box", map[string]types.Type{"T": i64Type()})
	require.NoError(t, err)
	assert.Equal(t, "Box$i64", specialized.Data.Name)
	assert.NotEqual(t, boxData.ID, specialized.Data.ID)
	require.Len(t, specialized.Fields, 1)
	assert.Equal(t, "i64", types.BaseName(specialized.Fields[0].Type))
}

func tabLookup(t *testing.T, tab *symtab.Table, name string) *types.CodelessFinalizedFunction {
	t.Helper()
	fn, ok := tab.LookupFunction(name)
	require.True(t, ok)
	return fn
}
