package symtab

import (
	"context"
	"testing"
	"time"

	"github.com/BigBadE/Raven-Language-sub000/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddThenGetReturnsImmediately(t *testing.T) {
	tab := New()
	require.NoError(t, tab.AddStruct(&types.StructData{Name: "Int"}))

	got, ok := tab.LookupStruct("Int")
	require.True(t, ok)
	assert.Equal(t, "Int", got.Name)
}

func TestGetSuspendsUntilAdd(t *testing.T) {
	tab := New()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	resultCh := make(chan error, 1)
	go func() {
		_, err := tab.GetStruct(ctx, types.Span{}, "Pending")
		resultCh <- err
	}()

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, tab.AddStruct(&types.StructData{Name: "Pending"}))

	select {
	case err := <-resultCh:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("GetStruct never woke up")
	}
}

func TestFinishFailsPendingFetches(t *testing.T) {
	tab := New()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	resultCh := make(chan error, 1)
	go func() {
		_, err := tab.GetStruct(ctx, types.Span{}, "NeverComes")
		resultCh <- err
	}()

	time.Sleep(10 * time.Millisecond)
	tab.Finish()

	select {
	case err := <-resultCh:
		require.Error(t, err)
	case <-time.After(time.Second):
		t.Fatal("GetStruct never woke up after Finish")
	}
}

func TestDuplicateNonPoisonedIsError(t *testing.T) {
	tab := New()
	require.NoError(t, tab.AddStruct(&types.StructData{Name: "Bar"}))
	err := tab.AddStruct(&types.StructData{Name: "Bar"})
	require.Error(t, err)
}

func TestDuplicatePoisonedIsIdempotent(t *testing.T) {
	tab := New()
	poisonErr := &types.StructData{Name: "Bar", Poisoned: []error{context.DeadlineExceeded}}
	require.NoError(t, tab.AddStruct(poisonErr))
	require.NoError(t, tab.AddStruct(poisonErr))
}

func TestOperatorIndexedUnderOperationAttribute(t *testing.T) {
	tab := New()
	add := &types.StructData{
		Name:      "Add",
		Modifiers: uint8(types.ModifierTrait),
		Attrs:     []types.Attribute{{Name: "operation", Value: "{}+{}"}},
	}
	require.NoError(t, tab.AddStruct(add))

	name, ok := tab.OperatorTrait("{}+{}")
	require.True(t, ok)
	assert.Equal(t, "Add", name)
}

func TestImplementationsBlockWhileParserCounterNonZero(t *testing.T) {
	tab := New()
	tab.BeginImplBlock()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	resultCh := make(chan []Implementation, 1)
	go func() {
		impls, err := tab.Implementations(ctx, "Show")
		require.NoError(t, err)
		resultCh <- impls
	}()

	time.Sleep(10 * time.Millisecond)
	tab.EndImplBlock(Implementation{Trait: "Show", Base: types.Struct{Handle: &types.StructData{Name: "Int"}}})

	select {
	case impls := <-resultCh:
		require.Len(t, impls, 1)
	case <-time.After(time.Second):
		t.Fatal("Implementations never woke up")
	}
}
