package specialize

import (
	"context"
	"log/slog"

	"github.com/BigBadE/Raven-Language-sub000/internal/types"
)

// specializeBody runs asynchronously, waiting for the original function's
// finalized body before substituting every Generic and GenericType
// occurrence per the binding map, then submitting the specialized body
// (§4.5 "Body specialization ... waits for the original's finalized body to
// be available"). Once the specialized body is attached to the Symbol
// Table, the finalized function is pushed onto the Compilation Queue
// (§4.5 "The specialized function is then submitted to the Compilation
// Queue") so the back-end and any CompilationQueue.Await(name) caller see
// it. Errors are logged rather than returned: nothing is synchronously
// waiting on this goroutine except callers of
// CompilationQueue.Await(specialized.Data.Name), who will simply time out
// if the body never arrives.
func (s *Specializer) specializeBody(original, specialized *types.CodelessFinalizedFunction, bindings map[string]types.Type) {
	ctx := context.Background()
	body, err := s.Table.WaitForBody(ctx, original.Data.Name)
	if err != nil {
		slog.Error("specializing body: original body never arrived", "function", specialized.Data.Name, "error", err)
		return
	}

	newBody, err := s.substituteBody(ctx, body, bindings)
	if err != nil {
		slog.Error("specializing body", "function", specialized.Data.Name, "error", err)
		return
	}

	s.Table.AttachBody(specialized.Data.Name, newBody)
	if s.Queue != nil {
		s.Queue.Push(&types.FinalizedFunction{Codeless: specialized, Code: newBody})
	}
}

func (s *Specializer) substituteBody(ctx context.Context, body *types.FinalizedCodeBody, bindings map[string]types.Type) (*types.FinalizedCodeBody, error) {
	stmts := make([]types.FinalizedStatement, len(body.Statements))
	for i, stmt := range body.Statements {
		sub, err := s.substituteEffect(ctx, stmt.Effect, bindings)
		if err != nil {
			return nil, err
		}
		stmts[i] = types.FinalizedStatement{Kind: stmt.Kind, Effect: sub}
	}
	return &types.FinalizedCodeBody{Label: body.Label, Statements: stmts, Returns: body.Returns}, nil
}
