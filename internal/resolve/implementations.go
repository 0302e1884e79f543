package resolve

import (
	"context"

	"github.com/BigBadE/Raven-Language-sub000/internal/symtab"
)

// ResolveImplementations fetches every impl block declared for a trait.
// The fetch is pending for as long as the parser's impl-block counter is
// non-zero (§4.2 "Implementation fetch"): unlike a type or function fetch,
// this one waits for an exhaustive set, not just a first arrival, since a
// trait solve run against a partial impl set would give wrong answers.
func (r *Resolver) ResolveImplementations(ctx context.Context, trait string) ([]symtab.Implementation, error) {
	return r.table.Implementations(ctx, trait)
}
