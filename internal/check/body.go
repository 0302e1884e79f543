package check

import (
	"context"

	"github.com/BigBadE/Raven-Language-sub000/internal/diag"
	"github.com/BigBadE/Raven-Language-sub000/internal/finalize"
	"github.com/BigBadE/Raven-Language-sub000/internal/types"
)

// CheckFunctionBody runs the body phase (§4.4): walks the raw effect tree
// via the Code-Body Finalizer, seeding the variable manager from the
// function's already-finalized arguments, and publishes the result to the
// Symbol Table (§4.2 suspension point 4 depends on this having run). The
// finalized body's "returns" flag is then checked against the function's
// declared return type (§4.4 "used to reject missing returns") before the
// body is published, so a caller can never observe a function that fails
// this check.
func (c *Checker) CheckFunctionBody(ctx context.Context, codeless *types.CodelessFinalizedFunction, raw *types.RawFunction) (*types.FinalizedCodeBody, error) {
	vars := types.NewVarScope()
	for _, arg := range codeless.Arguments {
		vars.Declare(arg.Name, arg.Type)
	}

	f := finalize.New(c)
	body, err := f.Body(ctx, vars, raw.Body)
	if err != nil {
		return nil, err
	}

	if err := checkReturns(codeless, body); err != nil {
		return nil, err
	}

	c.Table.AttachBody(codeless.Data.Name, body)
	return body, nil
}

// checkReturns enforces that a non-void function returns on every path and
// that a void function never returns a value (§4.4, §4.6 testable
// property #7).
func checkReturns(codeless *types.CodelessFinalizedFunction, body *types.FinalizedCodeBody) error {
	if codeless.ReturnType == nil {
		if returnsValue(body.Statements) {
			return diag.UnexpectedValue(codeless.Data.Span, codeless.Data.Name)
		}
		return nil
	}
	if !body.Returns {
		return diag.MissingReturn(codeless.Data.Span, codeless.Data.Name)
	}
	return nil
}

// returnsValue reports whether any Return statement reachable from stmts
// (including inside desugared control-construct sub-blocks) carries a
// value.
func returnsValue(stmts []types.FinalizedStatement) bool {
	for _, s := range stmts {
		switch eff := s.Effect.(type) {
		case types.FReturn:
			if eff.Value != nil {
				return true
			}
		case types.FCodeBody:
			if returnsValue(eff.Body.Statements) {
				return true
			}
		}
	}
	return false
}
