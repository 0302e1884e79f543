package check

import (
	"fmt"
	"sync/atomic"

	"github.com/BigBadE/Raven-Language-sub000/internal/types"
)

// LabelCounter hands out unique block labels within one source file (§4.4
// "every generated block has a unique label drawn from a per-file
// counter").
type LabelCounter struct {
	n atomic.Uint64
}

// NewLabelCounter creates a fresh per-file counter.
func NewLabelCounter() *LabelCounter { return &LabelCounter{} }

// Next returns a fresh label with the given prefix, e.g. "if_3".
func (l *LabelCounter) Next(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, l.n.Add(1))
}

// DesugarIf lowers `if cond { then } else { els }` into a labeled
// compare-jump sequence (§4.4 control constructs). els may be nil.
func DesugarIf(lc *LabelCounter, cond types.Effect, then *types.CodeBody, els *types.CodeBody) *types.CodeBody {
	thenLabel := lc.Next("if_then")
	elseLabel := lc.Next("if_else")
	endLabel := lc.Next("if_end")

	then.Label = thenLabel
	then.Statements = append(then.Statements, types.Statement{Kind: types.StmtLine, Effect: types.Jump{Label: endLabel}})

	var elseBody *types.CodeBody
	if els != nil {
		els.Label = elseLabel
		els.Statements = append(els.Statements, types.Statement{Kind: types.StmtLine, Effect: types.Jump{Label: endLabel}})
		elseBody = els
	} else {
		elseBody = &types.CodeBody{Label: elseLabel, Statements: []types.Statement{{Kind: types.StmtLine, Effect: types.Jump{Label: endLabel}}}}
	}

	return &types.CodeBody{
		Label: lc.Next("if"),
		Statements: []types.Statement{
			{Kind: types.StmtLine, Effect: types.CompareJump{Cond: cond, ThenLabel: thenLabel, ElseLabel: elseLabel}},
			{Kind: types.StmtLine, Effect: types.CodeBodyEffect{Body: then}},
			{Kind: types.StmtLine, Effect: types.CodeBodyEffect{Body: elseBody}},
			{Kind: types.StmtLine, Effect: types.Jump{Label: endLabel}},
		},
	}
}

// DesugarWhile lowers `while cond { body }` into a labeled loop header and
// body block with compare-jumps (§4.4).
func DesugarWhile(lc *LabelCounter, cond types.Effect, body *types.CodeBody) *types.CodeBody {
	headerLabel := lc.Next("while_head")
	bodyLabel := lc.Next("while_body")
	endLabel := lc.Next("while_end")

	body.Label = bodyLabel
	body.Statements = append(body.Statements, types.Statement{Kind: types.StmtLine, Effect: types.Jump{Label: headerLabel}})

	header := &types.CodeBody{
		Label: headerLabel,
		Statements: []types.Statement{
			{Kind: types.StmtLine, Effect: types.CompareJump{Cond: cond, ThenLabel: bodyLabel, ElseLabel: endLabel}},
		},
	}

	return &types.CodeBody{
		Label: lc.Next("while"),
		Statements: []types.Statement{
			{Kind: types.StmtLine, Effect: types.CodeBodyEffect{Body: header}},
			{Kind: types.StmtLine, Effect: types.CodeBodyEffect{Body: body}},
			{Kind: types.StmtLine, Effect: types.Jump{Label: endLabel}},
		},
	}
}

// DesugarDoWhile lowers `do { body } while cond` — the body always runs
// once before the condition is tested (§4.4).
func DesugarDoWhile(lc *LabelCounter, body *types.CodeBody, cond types.Effect) *types.CodeBody {
	bodyLabel := lc.Next("dowhile_body")
	endLabel := lc.Next("dowhile_end")

	body.Label = bodyLabel
	body.Statements = append(body.Statements, types.Statement{Kind: types.StmtLine, Effect: types.CompareJump{Cond: cond, ThenLabel: bodyLabel, ElseLabel: endLabel}})

	return &types.CodeBody{
		Label: lc.Next("dowhile"),
		Statements: []types.Statement{
			{Kind: types.StmtLine, Effect: types.CodeBodyEffect{Body: body}},
			{Kind: types.StmtLine, Effect: types.Jump{Label: endLabel}},
		},
	}
}

// DesugarFor lowers `for x in iterable { body }` into a synthetic `$iter<id>`
// variable, a header block calling `Iter::has_next`, and a body block that
// prepends `Iter::next` (§4.4): "Each for creates a synthetic $iter<id>
// variable initialized from the iterable, a header block that calls
// Iter::has_next via implementation-call, a body block that prepends
// Iter::next, and end blocks."
func DesugarFor(lc *LabelCounter, elemVar string, iterable types.Effect, body *types.CodeBody) *types.CodeBody {
	iterVar := fmt.Sprintf("$iter%d", lc.n.Add(1))
	headerLabel := lc.Next("for_head")
	bodyLabel := lc.Next("for_body")
	endLabel := lc.Next("for_end")

	hasNext := types.ImplementationCall{
		Receiver: types.LoadVariable{Name: iterVar},
		Trait:    "Iter",
		Method:   "has_next",
	}
	next := types.ImplementationCall{
		Receiver: types.LoadVariable{Name: iterVar},
		Trait:    "Iter",
		Method:   "next",
	}

	body.Label = bodyLabel
	body.Statements = append([]types.Statement{
		{Kind: types.StmtLine, Effect: types.CreateVariable{Name: elemVar, Init: next}},
	}, body.Statements...)
	body.Statements = append(body.Statements, types.Statement{Kind: types.StmtLine, Effect: types.Jump{Label: headerLabel}})

	header := &types.CodeBody{
		Label: headerLabel,
		Statements: []types.Statement{
			{Kind: types.StmtLine, Effect: types.CompareJump{Cond: hasNext, ThenLabel: bodyLabel, ElseLabel: endLabel}},
		},
	}

	return &types.CodeBody{
		Label: lc.Next("for"),
		Statements: []types.Statement{
			{Kind: types.StmtLine, Effect: types.CreateVariable{Name: iterVar, Init: iterable}},
			{Kind: types.StmtLine, Effect: types.CodeBodyEffect{Body: header}},
			{Kind: types.StmtLine, Effect: types.CodeBodyEffect{Body: body}},
			{Kind: types.StmtLine, Effect: types.Jump{Label: endLabel}},
		},
	}
}
