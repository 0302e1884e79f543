package check

import (
	"context"

	"github.com/BigBadE/Raven-Language-sub000/internal/diag"
	"github.com/BigBadE/Raven-Language-sub000/internal/types"
)

// binaryPattern and variadicPattern build the "operation(...)" surface
// patterns an operator trait declares (§6 attribute table): a plain binary
// infix form, and the `{+}` repeatable form used for spliced variadic
// operators (§7 Supplemented Features, check_operator.rs).
func binaryPattern(op string) string   { return "{}" + op + "{}" }
func variadicPattern(op string) string { return "{}" + op + "{+}" }

// lookupOperatorTrait finds the trait struct registered for an operator
// token, preferring the variadic form when the caller has more than two
// operands (splicing).
func (c *Checker) lookupOperatorTrait(op string, argc int) (string, *types.StructData, bool) {
	if argc > 2 {
		if name, ok := c.Table.OperatorTrait(variadicPattern(op)); ok {
			data, _ := c.Table.LookupStruct(name)
			return name, data, true
		}
	}
	name, ok := c.Table.OperatorTrait(binaryPattern(op))
	if !ok {
		return "", nil, false
	}
	data, _ := c.Table.LookupStruct(name)
	return name, data, true
}

// ResolveOperator implements finalize.CallResolver: every surface operator
// is sugared into a call against its trait's sole declared method (§4.4,
// §9 "operator polymorphism is uniformly lowered to trait calls").
func (c *Checker) ResolveOperator(ctx context.Context, vars *types.VarScope, span types.Span, op string, args []types.FinalizedEffect) (types.FinalizedEffect, error) {
	traitName, data, ok := c.lookupOperatorTrait(op, len(args))
	if !ok {
		return nil, diag.New(diag.CodeUnknownOperation, span, "no trait declares operator %q", op)
	}
	if len(data.Functions) == 0 {
		return nil, diag.New(diag.CodeUnknownOperation, span, "operator trait %q declares no method", traitName)
	}
	method := lastSegment(data.Functions[0])

	if len(args) == 0 {
		return nil, diag.New(diag.CodeArgCount, span, "operator %q requires at least one operand", op)
	}
	return c.ResolveImplementationCall(ctx, vars, span, args[0], traitName, method, args[1:], nil)
}

// Reassociate rebuilds a flat operator chain into a properly nested tree
// using each operator's priority/parse_left attributes (§4.4 Pratt-style
// re-associator). It must run before the chain's operands are finalized,
// since priority decisions use the registered trait's attributes, not the
// surface token (§9).
func (c *Checker) Reassociate(chain *types.OperatorChain) (types.Effect, error) {
	if len(chain.Operands) == 0 {
		return nil, diag.New(diag.CodeArgCount, chain.Span, "empty operator chain")
	}
	if len(chain.Operators) != len(chain.Operands)-1 {
		return nil, diag.New(diag.CodeArgCount, chain.Span, "operator chain has %d operands and %d operators", len(chain.Operands), len(chain.Operators))
	}

	if allSame(chain.Operators) {
		if _, ok := c.Table.OperatorTrait(variadicPattern(chain.Operators[0])); ok && len(chain.Operands) > 2 {
			// All operands share one variadic operator: splice rather than
			// fold pairwise (§7 Supplemented Features).
			return types.Operation{Op: chain.Operators[0], Args: []types.Effect{combineOperands(chain.Operands)}, Span: chain.Span}, nil
		}
	}

	prio := make([]int, len(chain.Operators))
	left := make([]bool, len(chain.Operators))
	for i, op := range chain.Operators {
		_, data, ok := c.lookupOperatorTrait(op, 2)
		if !ok {
			return nil, diag.New(diag.CodeUnknownOperation, chain.Span, "no trait declares operator %q", op)
		}
		prio[i] = attrInt(data.Attrs, "priority", 0)
		left[i] = attrBool(data.Attrs, "parse_left", true)
	}

	result, _ := reassociate(chain.Operands, chain.Operators, prio, left, 0, 0, chain.Span)
	return result, nil
}

func allSame(ops []string) bool {
	for _, op := range ops {
		if op != ops[0] {
			return false
		}
	}
	return true
}

// reassociate is standard precedence-climbing over a flat operand/operator
// list: pos is the operand index to start from, minPrio is the lowest
// operator priority this call is allowed to consume. Returns the built
// subtree and the next unconsumed operand index.
func reassociate(operands []types.Effect, operators []string, prio []int, left []bool, pos, minPrio int, span types.Span) (types.Effect, int) {
	lhs := operands[pos]
	i := pos
	for i < len(operators) && prio[i] >= minPrio {
		op := operators[i]
		opPrio := prio[i]
		nextMin := opPrio + 1
		if !left[i] {
			nextMin = opPrio
		}
		rhs, next := reassociate(operands, operators, prio, left, i+1, nextMin, span)
		lhs = types.Operation{Op: op, Args: []types.Effect{lhs, rhs}, Span: span}
		i = next
	}
	return lhs, i
}

// combineOperands implements the `{+}` splicing rule (§7 Supplemented
// Features, check_operator.rs combine_operation): adjacent invocations of
// the same variadic operator collapse their operands into one array
// argument, e.g. a list literal `[1, 2, 3]` represented as repeated `{}`
// applications becomes a single CreateArray argument to the trait call.
func combineOperands(chain []types.Effect) types.Effect {
	return types.CreateArray{Elements: append([]types.Effect(nil), chain...)}
}
