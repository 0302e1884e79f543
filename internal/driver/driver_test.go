package driver

import (
	"context"
	"testing"
	"time"

	"github.com/BigBadE/Raven-Language-sub000/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRunSpecializesGenericCall exercises spec.md §8 Scenario A end to end:
// `fn id<T>(x: T) -> T { return x; }` and `fn main() -> i64 { return
// id(42); }` should produce a specialization `id$i64`, `main` should call
// it directly with no generic effects remaining, and the queue should
// deliver `id$i64` before `main`.
func TestRunSpecializesGenericCall(t *testing.T) {
	idFn := &types.RawFunction{
		Name:       "id",
		Generics:   []types.RawGeneric{{Name: "T"}},
		Arguments:  []types.RawArg{{Name: "x", TypeName: "T"}},
		ReturnType: "T",
		Body: &types.CodeBody{
			Label:      "entry",
			Statements: []types.Statement{{Kind: types.StmtReturn, Effect: types.Return{Value: types.LoadVariable{Name: "x"}}}},
		},
	}
	mainFn := &types.RawFunction{
		Name:       "main",
		ReturnType: "i64",
		Body: &types.CodeBody{
			Label: "entry",
			Statements: []types.Statement{{Kind: types.StmtReturn, Effect: types.Return{
				Value: types.MethodCall{Name: "id", Args: []types.Effect{types.IntLiteral{Value: 42}}},
			}}},
		},
	}

	prog := &Program{
		Structs:       []*types.RawStruct{{Name: "i64"}},
		Functions:     []*types.RawFunction{idFn, mainFn},
		EntryFunction: "main",
	}

	d := New()
	d.Timeout = 5 * time.Second
	order, err := d.Run(context.Background(), prog)
	require.NoError(t, err)

	byName := map[string]*types.FinalizedFunction{}
	for _, fn := range order {
		byName[fn.Codeless.Data.Name] = fn
	}
	require.Contains(t, byName, "id$i64")
	require.Contains(t, byName, "main")

	idIdx, mainIdx := -1, -1
	for i, fn := range order {
		switch fn.Codeless.Data.Name {
		case "id$i64":
			idIdx = i
		case "main":
			mainIdx = i
		}
	}
	assert.Less(t, idIdx, mainIdx, "id$i64 must be delivered before main")

	mainRet := byName["main"].Code.Statements[0].Effect.(types.FReturn)
	call, ok := mainRet.Value.(types.FMethodCall)
	require.True(t, ok, "main's return value should be a direct method call")
	assert.Equal(t, "id$i64", call.Func.Data.Name)
}

// TestRunReportsMissingSymbolAfterFinish exercises spec.md §8 Scenario E: a
// call to an undeclared function must fail with a single "missing symbol"
// error and the process must not hang.
func TestRunReportsMissingSymbolAfterFinish(t *testing.T) {
	mainFn := &types.RawFunction{
		Name: "main",
		Body: &types.CodeBody{
			Label: "entry",
			Statements: []types.Statement{{Kind: types.StmtReturn, Effect: types.Return{
				Value: types.MethodCall{Name: "nonexistent"},
			}}},
		},
	}

	prog := &Program{Functions: []*types.RawFunction{mainFn}, EntryFunction: "main"}

	d := New()
	d.Timeout = 2 * time.Second
	d.EntryTimeout = 2 * time.Second
	_, err := d.Run(context.Background(), prog)
	require.Error(t, err)
}

// TestRunRejectsDuplicateImplementation exercises spec.md §8 Scenario F: two
// impl blocks supplying the same trait method for the same base type must
// fail rather than silently picking one (the second publish of "Box.add"
// collides in the Symbol Table).
func TestRunRejectsDuplicateImplementation(t *testing.T) {
	addMethod := func() *types.RawFunction {
		return &types.RawFunction{
			Name:       "add",
			Arguments:  []types.RawArg{{Name: "self", TypeName: "Box"}, {Name: "other", TypeName: "Box"}},
			ReturnType: "Box",
			Body: &types.CodeBody{
				Label:      "entry",
				Statements: []types.Statement{{Kind: types.StmtReturn, Effect: types.Return{Value: types.LoadVariable{Name: "self"}}}},
			},
		}
	}

	prog := &Program{
		Structs: []*types.RawStruct{{Name: "Box"}},
		Implementations: []*types.RawImplementation{
			{BaseType: "Box", TraitType: "Add", Functions: []*types.RawFunction{addMethod()}},
			{BaseType: "Box", TraitType: "Add", Functions: []*types.RawFunction{addMethod()}},
		},
	}

	d := New()
	d.Timeout = 2 * time.Second
	_, err := d.Run(context.Background(), prog)
	require.Error(t, err)
}
