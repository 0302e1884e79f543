package finalize

import (
	"context"
	"testing"

	"github.com/BigBadE/Raven-Language-sub000/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noCalls is a CallResolver that is never expected to be invoked by these
// tests: every effect under test resolves without dispatching a call.
type noCalls struct{}

func (noCalls) ResolveMethodCall(context.Context, *types.VarScope, types.Span, types.FinalizedEffect, string, []types.FinalizedEffect, types.Type) (types.FinalizedEffect, error) {
	panic("unexpected call resolution")
}

func (noCalls) ResolveOperator(context.Context, *types.VarScope, types.Span, string, []types.FinalizedEffect) (types.FinalizedEffect, error) {
	panic("unexpected operator resolution")
}

func (noCalls) ResolveImplementationCall(context.Context, *types.VarScope, types.Span, types.FinalizedEffect, string, string, []types.FinalizedEffect, types.Type) (types.FinalizedEffect, error) {
	panic("unexpected implementation call resolution")
}

func (noCalls) Reassociate(*types.OperatorChain) (types.Effect, error) {
	panic("unexpected reassociation")
}

func (noCalls) ResolveStructType(context.Context, types.Span, string, []types.Type) (*types.FinalizedStruct, error) {
	panic("unexpected struct type resolution")
}

// desugaredIf builds the exact statement shape DesugarIf
// (internal/check/desugar.go) produces for `if cond { then } else { els }`:
// a CompareJump followed by the then- and else-branch CodeBodyEffects, then
// an unconditional trailing Jump to a shared end label. then and els are
// each given their own synthetic trailing Jump, exactly as the real
// desugaring does.
func desugaredIf(cond types.Effect, then, els []types.Statement) *types.CodeBody {
	const thenLabel, elseLabel, endLabel = "if_then", "if_else", "if_end"

	thenBody := &types.CodeBody{
		Label:      thenLabel,
		Statements: append(append([]types.Statement{}, then...), types.Statement{Kind: types.StmtLine, Effect: types.Jump{Label: endLabel}}),
	}
	elseBody := &types.CodeBody{
		Label:      elseLabel,
		Statements: append(append([]types.Statement{}, els...), types.Statement{Kind: types.StmtLine, Effect: types.Jump{Label: endLabel}}),
	}

	return &types.CodeBody{
		Label: "if_1",
		Statements: []types.Statement{
			{Kind: types.StmtLine, Effect: types.CompareJump{Cond: cond, ThenLabel: thenLabel, ElseLabel: elseLabel}},
			{Kind: types.StmtLine, Effect: types.CodeBodyEffect{Body: thenBody}},
			{Kind: types.StmtLine, Effect: types.CodeBodyEffect{Body: elseBody}},
			{Kind: types.StmtLine, Effect: types.Jump{Label: endLabel}},
		},
	}
}

func TestBodyReturnsTrueWhenBothIfBranchesReturn(t *testing.T) {
	f := New(noCalls{})
	body := desugaredIf(
		types.BoolLiteral{Value: true},
		[]types.Statement{{Kind: types.StmtReturn, Effect: types.Return{Value: types.IntLiteral{Value: 1}}}},
		[]types.Statement{{Kind: types.StmtReturn, Effect: types.Return{Value: types.IntLiteral{Value: 2}}}},
	)

	finalized, err := f.Body(context.Background(), types.NewVarScope(), body)
	require.NoError(t, err)
	assert.True(t, finalized.Returns, "both branches return, so the whole if/else must be reported as returning")
}

func TestBodyReturnsFalseWhenOnlyOneIfBranchReturns(t *testing.T) {
	f := New(noCalls{})
	body := desugaredIf(
		types.BoolLiteral{Value: true},
		[]types.Statement{{Kind: types.StmtReturn, Effect: types.Return{Value: types.IntLiteral{Value: 1}}}},
		nil,
	)

	finalized, err := f.Body(context.Background(), types.NewVarScope(), body)
	require.NoError(t, err)
	assert.False(t, finalized.Returns, "the else branch falls through, so the if/else must not be reported as returning")
}

func TestBodyReturnsTrueForBareTrailingReturn(t *testing.T) {
	f := New(noCalls{})
	body := &types.CodeBody{
		Label:      "entry",
		Statements: []types.Statement{{Kind: types.StmtReturn, Effect: types.Return{Value: types.IntLiteral{Value: 1}}}},
	}

	finalized, err := f.Body(context.Background(), types.NewVarScope(), body)
	require.NoError(t, err)
	assert.True(t, finalized.Returns)
}

func TestBodyReturnsFalseForEmptyBody(t *testing.T) {
	f := New(noCalls{})
	body := &types.CodeBody{Label: "entry"}

	finalized, err := f.Body(context.Background(), types.NewVarScope(), body)
	require.NoError(t, err)
	assert.False(t, finalized.Returns)
}
