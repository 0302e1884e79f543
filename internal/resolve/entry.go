package resolve

import (
	"context"
	"time"

	"github.com/BigBadE/Raven-Language-sub000/internal/diag"
	"github.com/BigBadE/Raven-Language-sub000/internal/types"
)

// DefaultEntryTimeout bounds how long the driver waits for the designated
// entry function to appear, independent of the global compile timeout
// (§4.2 "Cancellation & timeouts"): a missing entry point is the most
// user-visible failure mode, and should be reported on its own clock rather
// than only surfacing once the whole run times out.
const DefaultEntryTimeout = 5 * time.Second

// ResolveEntryFunction fetches the named entry function under its own
// timeout, layered independently of whatever deadline ctx already carries.
func (r *Resolver) ResolveEntryFunction(ctx context.Context, name string, timeout time.Duration) (*types.CodelessFinalizedFunction, error) {
	if timeout <= 0 {
		timeout = DefaultEntryTimeout
	}
	entryCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	fn, err := r.table.GetFunction(entryCtx, types.Span{}, name)
	if err != nil {
		return nil, diag.New(diag.CodeMissingSymbol, types.Span{}, "entry function %q not found: %v", name, err)
	}
	return fn, nil
}
