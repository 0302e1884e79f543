// Package finalize implements the Code-Body Finalizer (§4.6): it lifts a
// raw effect tree to a finalized one, per-variant, the way
// `degeneric_effect`/`FinalizedEffects::degeneric` do in
// language/checker/src/degeneric.rs and language/syntax/src/code.rs. Call
// and operator resolution (method dispatch, trait dispatch, Pratt
// re-association) is the Type Checker's job (§4.4) — this package defers to
// a CallResolver for those variants so internal/check's call-resolution
// logic and internal/finalize's effect-lowering logic can each stay in
// their own file set without an import cycle.
package finalize

import (
	"context"

	"github.com/BigBadE/Raven-Language-sub000/internal/diag"
	"github.com/BigBadE/Raven-Language-sub000/internal/types"
)

// CallResolver is implemented by internal/check.Checker.
type CallResolver interface {
	ResolveMethodCall(ctx context.Context, vars *types.VarScope, span types.Span, recv types.FinalizedEffect, name string, args []types.FinalizedEffect, retHint types.Type) (types.FinalizedEffect, error)
	ResolveOperator(ctx context.Context, vars *types.VarScope, span types.Span, op string, args []types.FinalizedEffect) (types.FinalizedEffect, error)
	ResolveImplementationCall(ctx context.Context, vars *types.VarScope, span types.Span, recv types.FinalizedEffect, trait, method string, args []types.FinalizedEffect, retHint types.Type) (types.FinalizedEffect, error)
	// Reassociate rebuilds a flat operator chain before its operands are
	// finalized (§4.4, §9).
	Reassociate(chain *types.OperatorChain) (types.Effect, error)
	// ResolveStructType fetches a struct's finalized field layout for
	// CreateStruct lowering, specializing it first if it is generic.
	ResolveStructType(ctx context.Context, span types.Span, typeName string, typeArgs []types.Type) (*types.FinalizedStruct, error)
}

// Finalizer lowers raw effect trees, delegating calls/operators to a
// CallResolver.
type Finalizer struct {
	Calls CallResolver
}

// New builds a Finalizer bound to the given call resolver.
func New(calls CallResolver) *Finalizer {
	return &Finalizer{Calls: calls}
}

// Effect lowers one raw effect to its finalized form (§4.6 per-variant
// table). vars is the enclosing function's current variable scope.
func (f *Finalizer) Effect(ctx context.Context, vars *types.VarScope, raw types.Effect) (types.FinalizedEffect, error) {
	switch e := raw.(type) {
	case types.IntLiteral:
		return types.FHeapStore{Value: types.FConst{Kind: types.ConstInt, Int: e.Value, Type: intType()}}, nil
	case types.FloatLiteral:
		return types.FHeapStore{Value: types.FConst{Kind: types.ConstFloat, Float: e.Value, Type: floatType()}}, nil
	case types.BoolLiteral:
		return types.FHeapStore{Value: types.FConst{Kind: types.ConstBool, Bool: e.Value, Type: boolType()}}, nil
	case types.StringLiteral:
		return types.FHeapStore{Value: types.FConst{Kind: types.ConstString, Str: e.Value, Type: stringType()}}, nil
	case types.CharLiteral:
		return types.FHeapStore{Value: types.FConst{Kind: types.ConstChar, Char: e.Value, Type: charType()}}, nil

	case types.LoadVariable:
		t, ok := vars.Lookup(e.Name)
		if !ok {
			return nil, diag.New(diag.CodeMissingSymbol, types.Span{}, "no such variable %q", e.Name)
		}
		return types.FLoadVariable{Name: e.Name, Type: t}, nil

	case types.CreateVariable:
		init, err := f.Effect(ctx, vars, e.Init)
		if err != nil {
			return nil, err
		}
		t := init.ReturnType(vars)
		vars.Declare(e.Name, t)
		return types.FCreateVariable{Name: e.Name, Init: init, Type: t}, nil

	case types.Load:
		base, err := f.Effect(ctx, vars, e.Base)
		if err != nil {
			return nil, err
		}
		baseType := types.Strip(base.ReturnType(vars))
		fs, err := f.Calls.ResolveStructType(ctx, types.Span{}, types.BaseName(baseType), genericArgsOf(baseType))
		if err != nil {
			return nil, err
		}
		idx, ok := fs.FieldIndex(e.Field)
		if !ok {
			return nil, diag.New(diag.CodeUnknownField, types.Span{}, "type %q has no field %q", fs.Data.Name, e.Field)
		}
		return types.FLoadField{Base: base, Field: e.Field, Struct: fs, Type: types.Reference{Inner: fs.Fields[idx].Type}}, nil

	case types.Set:
		lhs, err := f.Effect(ctx, vars, e.LHS)
		if err != nil {
			return nil, err
		}
		rhs, err := f.Effect(ctx, vars, e.RHS)
		if err != nil {
			return nil, err
		}
		return types.FStoreRef{Target: lhs, Value: rhs}, nil

	case types.Operation:
		args, err := f.effects(ctx, vars, e.Args)
		if err != nil {
			return nil, err
		}
		return f.Calls.ResolveOperator(ctx, vars, e.Span, e.Op, args)

	case types.OperatorChain:
		rebuilt, err := f.Calls.Reassociate(&e)
		if err != nil {
			return nil, err
		}
		return f.Effect(ctx, vars, rebuilt)

	case types.MethodCall:
		var recv types.FinalizedEffect
		var err error
		if e.Receiver != nil {
			recv, err = f.Effect(ctx, vars, e.Receiver)
			if err != nil {
				return nil, err
			}
		}
		args, err := f.effects(ctx, vars, e.Args)
		if err != nil {
			return nil, err
		}
		return f.Calls.ResolveMethodCall(ctx, vars, e.Span, recv, e.Name, args, e.RetHint)

	case types.ImplementationCall:
		recv, err := f.Effect(ctx, vars, e.Receiver)
		if err != nil {
			return nil, err
		}
		args, err := f.effects(ctx, vars, e.Args)
		if err != nil {
			return nil, err
		}
		return f.Calls.ResolveImplementationCall(ctx, vars, e.Span, recv, e.Trait, e.Method, args, e.RetHint)

	case types.CreateStruct:
		fs, err := f.Calls.ResolveStructType(ctx, e.Span, e.TypeName, e.TypeArgs)
		if err != nil {
			return nil, err
		}
		indexed := make([]types.IndexedEffect, len(e.NamedArgs))
		for i, na := range e.NamedArgs {
			idx, ok := fs.FieldIndex(na.Name)
			if !ok {
				return nil, diag.New(diag.CodeUnknownField, e.Span, "type %q has no field %q", fs.Data.Name, na.Name)
			}
			val, err := f.Effect(ctx, vars, na.Val)
			if err != nil {
				return nil, err
			}
			indexed[i] = types.IndexedEffect{Index: idx, Effect: val}
		}
		return types.FCreateStruct{Type: types.Struct{Handle: fs.Data}, Fields: indexed}, nil

	case types.CreateArray:
		elems, err := f.effects(ctx, vars, e.Elements)
		if err != nil {
			return nil, err
		}
		var elemType types.Type
		if len(elems) > 0 {
			elemType = elems[0].ReturnType(vars)
		}
		return types.FCreateArray{Element: elemType, Elements: elems}, nil

	case types.Jump:
		return types.FJump{Label: e.Label}, nil

	case types.CompareJump:
		cond, err := f.Effect(ctx, vars, e.Cond)
		if err != nil {
			return nil, err
		}
		return types.FCompareJump{Cond: cond, ThenLabel: e.ThenLabel, ElseLabel: e.ElseLabel}, nil

	case types.CodeBodyEffect:
		body, err := f.Body(ctx, vars.Child(), e.Body)
		if err != nil {
			return nil, err
		}
		return types.FCodeBody{Body: body}, nil

	case types.Return:
		if e.Value == nil {
			return types.FReturn{}, nil
		}
		v, err := f.Effect(ctx, vars, e.Value)
		if err != nil {
			return nil, err
		}
		return types.FReturn{Value: v}, nil

	default:
		return nil, diag.New(diag.CodeUnknownOperation, types.Span{}, "unhandled raw effect %T", raw)
	}
}

// Body lowers a whole labeled statement block, computing the "returns"
// flag (§4.6, testable property #7: returns == true iff every path ends in
// a Return effect).
func (f *Finalizer) Body(ctx context.Context, vars *types.VarScope, body *types.CodeBody) (*types.FinalizedCodeBody, error) {
	stmts := make([]types.FinalizedStatement, len(body.Statements))
	for i, s := range body.Statements {
		fe, err := f.Effect(ctx, vars, s.Effect)
		if err != nil {
			return nil, err
		}
		stmts[i] = types.FinalizedStatement{Kind: s.Kind, Effect: fe}
	}
	return &types.FinalizedCodeBody{Label: body.Label, Statements: stmts, Returns: bodyReturns(stmts)}, nil
}

// bodyReturns looks at the last statement: a bare Return always closes
// every path; a nested code body closes every path iff it itself does
// (desugared control constructs route every branch through a shared tail).
// DesugarIf is special-cased: it always appends an unconditional
// Jump{endLabel} after its CompareJump/then/else triple, even when both
// branches already return, so the trailing Jump alone would otherwise mask
// an if/else that returns on every path (§4.6 testable property #7).
func bodyReturns(stmts []types.FinalizedStatement) bool {
	if len(stmts) == 0 {
		return false
	}
	if returns, ok := ifReturns(stmts); ok {
		return returns
	}
	last := stmts[len(stmts)-1]
	if last.Kind == types.StmtReturn {
		return true
	}
	if fcb, ok := last.Effect.(types.FCodeBody); ok {
		return fcb.Body.Returns
	}
	return false
}

// ifReturns recognizes DesugarIf's output shape — CompareJump, then a
// CodeBody, else a CodeBody, then an unconditional trailing Jump — and
// reports whether both branches return on every path. A while/for header
// also opens with a CompareJump, but always nested inside its own
// CodeBodyEffect rather than sitting as stmts[0] directly, so checking
// stmts[0] itself is enough to tell the shapes apart.
func ifReturns(stmts []types.FinalizedStatement) (returns bool, isIf bool) {
	if len(stmts) != 4 {
		return false, false
	}
	if _, ok := stmts[0].Effect.(types.FCompareJump); !ok {
		return false, false
	}
	thenBody, ok := stmts[1].Effect.(types.FCodeBody)
	if !ok {
		return false, false
	}
	elseBody, ok := stmts[2].Effect.(types.FCodeBody)
	if !ok {
		return false, false
	}
	if _, ok := stmts[3].Effect.(types.FJump); !ok {
		return false, false
	}
	return branchReturns(thenBody.Body) && branchReturns(elseBody.Body), true
}

// branchReturns reports whether an if/else branch returns on every path,
// looking past the unconditional Jump{endLabel} DesugarIf appends to every
// branch — that jump is unreachable on any path the branch already
// returned on, so it must not be the statement bodyReturns inspects.
func branchReturns(body *types.FinalizedCodeBody) bool {
	stmts := body.Statements
	if len(stmts) == 0 {
		return false
	}
	if _, ok := stmts[len(stmts)-1].Effect.(types.FJump); ok {
		if len(stmts) < 2 {
			return false
		}
		return bodyReturns(stmts[:len(stmts)-1])
	}
	return bodyReturns(stmts)
}

func (f *Finalizer) effects(ctx context.Context, vars *types.VarScope, raws []types.Effect) ([]types.FinalizedEffect, error) {
	out := make([]types.FinalizedEffect, len(raws))
	for i, r := range raws {
		fe, err := f.Effect(ctx, vars, r)
		if err != nil {
			return nil, err
		}
		out[i] = fe
	}
	return out, nil
}

func genericArgsOf(t types.Type) []types.Type {
	if gt, ok := t.(types.GenericType); ok {
		return gt.Args
	}
	return nil
}

func namedPrimitive(name string) types.Type { return types.Struct{Handle: &types.StructData{Name: name}} }

func intType() types.Type    { return namedPrimitive("i64") }
func floatType() types.Type  { return namedPrimitive("f64") }
func boolType() types.Type   { return namedPrimitive("bool") }
func stringType() types.Type { return namedPrimitive("str") }
func charType() types.Type   { return namedPrimitive("char") }
