// Package compqueue implements the Compilation Queue (§4.7): a
// process-wide, order-preserving list of finalized functions plus a
// per-name waiter map, shaped identically to the Symbol Table's own
// waiter mechanism (internal/symtab) since both solve "notify whoever is
// blocked on this name once it shows up".
package compqueue

import (
	"context"
	"sync"

	"github.com/BigBadE/Raven-Language-sub000/internal/types"
)

// Queue receives finalized functions in the order they are produced and
// lets the driver block until a specific name (the entry function) has
// been delivered.
type Queue struct {
	mu       sync.Mutex
	order    []*types.FinalizedFunction
	byName   map[string]*types.FinalizedFunction
	waiters  map[string][]chan struct{}
	finalDone bool
}

// New creates an empty Compilation Queue.
func New() *Queue {
	return &Queue{
		byName:  make(map[string]*types.FinalizedFunction),
		waiters: make(map[string][]chan struct{}),
	}
}

// Push appends a finalized function, preserving finalization order (§5
// "the back-end's input order"), and wakes anyone waiting on its name.
// Pushing the same name twice is a no-op: a function is finalized once.
func (q *Queue) Push(fn *types.FinalizedFunction) {
	name := fn.Codeless.Data.Name

	q.mu.Lock()
	if _, exists := q.byName[name]; exists {
		q.mu.Unlock()
		return
	}
	q.byName[name] = fn
	q.order = append(q.order, fn)
	waiters := q.waiters[name]
	delete(q.waiters, name)
	q.mu.Unlock()

	for _, w := range waiters {
		close(w)
	}
}

// Order returns every finalized function delivered so far, in push order.
func (q *Queue) Order() []*types.FinalizedFunction {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]*types.FinalizedFunction(nil), q.order...)
}

// Get returns a previously pushed function by name.
func (q *Queue) Get(name string) (*types.FinalizedFunction, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	fn, ok := q.byName[name]
	return fn, ok
}

// Await blocks until name has been pushed, the queue is closed with
// nothing matching, or ctx is done — the driver's "main function compiled"
// wait (§5 suspension point 3).
func (q *Queue) Await(ctx context.Context, name string) (*types.FinalizedFunction, error) {
	for {
		q.mu.Lock()
		if fn, ok := q.byName[name]; ok {
			q.mu.Unlock()
			return fn, nil
		}
		if q.finalDone {
			q.mu.Unlock()
			return nil, context.Canceled
		}
		ch := make(chan struct{})
		q.waiters[name] = append(q.waiters[name], ch)
		q.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Close marks the queue as having received its final push, waking every
// remaining waiter so an Await for a name that will never arrive returns
// rather than hangs (mirrors symtab.Table.Finish).
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.finalDone {
		return
	}
	q.finalDone = true
	for name, ws := range q.waiters {
		for _, w := range ws {
			close(w)
		}
		delete(q.waiters, name)
	}
}
