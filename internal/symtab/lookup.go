package symtab

import (
	"context"

	"github.com/BigBadE/Raven-Language-sub000/internal/diag"
	"github.com/BigBadE/Raven-Language-sub000/internal/types"
)

// wakeLocked closes and removes every waiter channel registered for name.
// Must be called with t.mu held.
func (t *Table) wakeLocked(waiters map[string][]chan struct{}, name string) {
	for _, w := range waiters[name] {
		close(w)
	}
	delete(waiters, name)
}

// LookupStruct returns a struct header immediately if present.
func (t *Table) LookupStruct(name string) (*types.StructData, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	entry, ok := t.structs[name]
	if !ok {
		return nil, false
	}
	return entry.data, true
}

// LookupFunction returns a function header immediately if present.
func (t *Table) LookupFunction(name string) (*types.CodelessFinalizedFunction, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	entry, ok := t.funcs[name]
	if !ok {
		return nil, false
	}
	return entry.codeless, true
}

// GetStruct returns a struct header, suspending the calling goroutine until
// it is added or the table closes (§4.1 get, §4.2 fetch protocol steps 2-4).
func (t *Table) GetStruct(ctx context.Context, span types.Span, name string) (*types.StructData, error) {
	for {
		t.mu.Lock()
		if entry, ok := t.structs[name]; ok {
			t.mu.Unlock()
			return entry.data, nil
		}
		if t.closed {
			t.mu.Unlock()
			return nil, diag.MissingSymbol(span, name)
		}
		ch := make(chan struct{})
		t.structWaiters[name] = append(t.structWaiters[name], ch)
		t.mu.Unlock()

		select {
		case <-ch:
			// woken by add() or Finish(); loop to re-check.
		case <-ctx.Done():
			return nil, diag.New(diag.CodeMissingSymbol, span, "fetch for %q timed out: %v", name, ctx.Err())
		}
	}
}

// GetFunction returns a function header, suspending as GetStruct does.
func (t *Table) GetFunction(ctx context.Context, span types.Span, name string) (*types.CodelessFinalizedFunction, error) {
	for {
		t.mu.Lock()
		if entry, ok := t.funcs[name]; ok {
			t.mu.Unlock()
			return entry.codeless, nil
		}
		if t.closed {
			t.mu.Unlock()
			return nil, diag.MissingSymbol(span, name)
		}
		ch := make(chan struct{})
		t.funcWaiters[name] = append(t.funcWaiters[name], ch)
		t.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return nil, diag.New(diag.CodeMissingSymbol, span, "fetch for %q timed out: %v", name, ctx.Err())
		}
	}
}

// WaitForFields blocks until a struct's fields have been resolved, or ctx
// is done.
func (t *Table) WaitForFields(ctx context.Context, name string) (*types.FinalizedStruct, error) {
	for {
		if fs, ok := t.Fields(name); ok {
			return fs, nil
		}
		t.mu.Lock()
		entry, ok := t.structs[name]
		t.mu.Unlock()
		if !ok {
			return nil, diag.New(diag.CodeMissingSymbol, types.Span{}, "no such struct %q", name)
		}

		entry.mu.Lock()
		if entry.finalized != nil {
			fs := entry.finalized
			entry.mu.Unlock()
			return fs, nil
		}
		ch := make(chan struct{})
		entry.fieldsWaiters = append(entry.fieldsWaiters, ch)
		entry.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return nil, diag.New(diag.CodeMissingSymbol, types.Span{}, "fields for %q timed out: %v", name, ctx.Err())
		}
	}
}

// WaitForBody blocks until a function's original body is finalized — the
// "original body available" suspension point used by body specialization
// (§4.2 suspension point 4, §9).
func (t *Table) WaitForBody(ctx context.Context, name string) (*types.FinalizedCodeBody, error) {
	for {
		t.mu.Lock()
		entry, ok := t.funcs[name]
		t.mu.Unlock()
		if !ok {
			return nil, diag.New(diag.CodeMissingSymbol, types.Span{}, "no such function %q", name)
		}

		entry.mu.Lock()
		if entry.body != nil {
			b := entry.body
			entry.mu.Unlock()
			return b, nil
		}
		ch := make(chan struct{})
		entry.bodyWaiters = append(entry.bodyWaiters, ch)
		entry.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return nil, diag.New(diag.CodeMissingSymbol, types.Span{}, "body for %q timed out: %v", name, ctx.Err())
		}
	}
}

// Finish marks the table closed. Callable once; wakes every remaining
// waiter so they can observe absence (§4.1 finish, testable property #6).
func (t *Table) Finish() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.closed = true
	for name := range t.structWaiters {
		t.wakeLocked(t.structWaiters, name)
	}
	for name := range t.funcWaiters {
		t.wakeLocked(t.funcWaiters, name)
	}
	for _, w := range t.implWaiters {
		close(w)
	}
	t.implWaiters = nil
}

// Closed reports whether Finish has been called.
func (t *Table) Closed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}
