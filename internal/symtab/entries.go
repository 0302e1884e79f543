package symtab

import (
	"github.com/BigBadE/Raven-Language-sub000/internal/diag"
	"github.com/BigBadE/Raven-Language-sub000/internal/types"
)

// AddStruct installs a struct header, draining and waking its name's
// waiter list, and — if it is an operator — installing it under the
// operation key too (§4.1 add). Insertion is idempotent for two identical
// poisoned entries, but a duplicate non-poisoned insertion is an error
// (scenario F).
func (t *Table) AddStruct(data *types.StructData) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return diag.New(diag.CodeDuplicateSymbol, data.Span, "symbol table closed, cannot add %q", data.Name)
	}

	if existing, ok := t.structs[data.Name]; ok {
		if existing.data.IsPoisoned() && data.IsPoisoned() {
			return nil
		}
		return diag.Duplicate(data.Span, data.Name)
	}

	t.structs[data.Name] = &structEntry{data: data}

	if data.IsOperator() {
		if pattern, ok := types.Find(data.Attrs, "operation"); ok {
			t.operatorIndex[pattern.Value] = data.Name
			t.wakeLocked(t.structWaiters, pattern.Value)
		}
	}

	t.wakeLocked(t.structWaiters, data.Name)
	return nil
}

// AddFunction installs a function header (§4.1 add, §4.4 "publishes the
// codeless form").
func (t *Table) AddFunction(fn *types.CodelessFinalizedFunction) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	name := fn.Data.Name
	if t.closed {
		return diag.New(diag.CodeDuplicateSymbol, fn.Data.Span, "symbol table closed, cannot add %q", name)
	}

	if existing, ok := t.funcs[name]; ok {
		if existing.codeless.Data.IsPoisoned() && fn.Data.IsPoisoned() {
			return nil
		}
		return diag.Duplicate(fn.Data.Span, name)
	}

	t.funcs[name] = &funcEntry{codeless: fn}
	t.wakeLocked(t.funcWaiters, name)
	return nil
}

// AttachFields records a struct's resolved field list once the header has
// already been published, without touching the name waiter list (nobody
// suspends the Symbol Table itself on fields — only on the name existing).
func (t *Table) AttachFields(name string, finalized *types.FinalizedStruct) {
	t.mu.Lock()
	entry, ok := t.structs[name]
	t.mu.Unlock()
	if !ok {
		return
	}

	entry.mu.Lock()
	entry.finalized = finalized
	waiters := entry.fieldsWaiters
	entry.fieldsWaiters = nil
	entry.mu.Unlock()

	for _, w := range waiters {
		close(w)
	}
}

// Fields returns the resolved field list for a struct if available.
func (t *Table) Fields(name string) (*types.FinalizedStruct, bool) {
	t.mu.Lock()
	entry, ok := t.structs[name]
	t.mu.Unlock()
	if !ok {
		return nil, false
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.finalized, entry.finalized != nil
}

// AttachBody records a function's finalized body, waking anyone suspended
// in the Generic Specializer's "original body available" wait (§4.2
// suspension point 4, §9: body specialization always awaits an original
// body, never a circular cousin).
func (t *Table) AttachBody(name string, body *types.FinalizedCodeBody) {
	t.mu.Lock()
	entry, ok := t.funcs[name]
	t.mu.Unlock()
	if !ok {
		return
	}

	entry.mu.Lock()
	entry.body = body
	waiters := entry.bodyWaiters
	entry.bodyWaiters = nil
	entry.mu.Unlock()

	for _, w := range waiters {
		close(w)
	}
}

// Body returns a function's finalized body if the body phase has finished.
func (t *Table) Body(name string) (*types.FinalizedCodeBody, bool) {
	t.mu.Lock()
	entry, ok := t.funcs[name]
	t.mu.Unlock()
	if !ok {
		return nil, false
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.body, entry.body != nil
}
