package compqueue

import (
	"context"
	"testing"
	"time"

	"github.com/BigBadE/Raven-Language-sub000/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func finalizedFn(name string) *types.FinalizedFunction {
	return &types.FinalizedFunction{
		Codeless: &types.CodelessFinalizedFunction{Data: &types.FunctionData{Name: name}},
		Code:     &types.FinalizedCodeBody{Label: "entry"},
	}
}

func TestPushThenGetImmediate(t *testing.T) {
	q := New()
	q.Push(finalizedFn("main"))

	got, ok := q.Get("main")
	require.True(t, ok)
	assert.Equal(t, "main", got.Codeless.Data.Name)
}

func TestOrderPreservesPushOrder(t *testing.T) {
	q := New()
	q.Push(finalizedFn("id$i64"))
	q.Push(finalizedFn("main"))

	order := q.Order()
	require.Len(t, order, 2)
	assert.Equal(t, "id$i64", order[0].Codeless.Data.Name)
	assert.Equal(t, "main", order[1].Codeless.Data.Name)
}

func TestPushSameNameTwiceIsNoOp(t *testing.T) {
	q := New()
	q.Push(finalizedFn("main"))
	q.Push(finalizedFn("main"))
	assert.Len(t, q.Order(), 1)
}

func TestAwaitSuspendsUntilPush(t *testing.T) {
	q := New()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	resultCh := make(chan error, 1)
	go func() {
		_, err := q.Await(ctx, "main")
		resultCh <- err
	}()

	time.Sleep(10 * time.Millisecond)
	q.Push(finalizedFn("main"))

	select {
	case err := <-resultCh:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Await never woke up")
	}
}

func TestAwaitFailsAfterClose(t *testing.T) {
	q := New()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	resultCh := make(chan error, 1)
	go func() {
		_, err := q.Await(ctx, "never")
		resultCh <- err
	}()

	time.Sleep(10 * time.Millisecond)
	q.Close()

	select {
	case err := <-resultCh:
		require.Error(t, err)
	case <-time.After(time.Second):
		t.Fatal("Await never woke up after Close")
	}
}
