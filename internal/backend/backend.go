// Package backend stands in for the external LLVM emitter (§1 data flow:
// "... -> Compilation Queue -> back-end"). spec.md's Non-goals put real
// target-machine code generation out of scope, so this renders a
// deterministic textual trace of what a code generator would have been
// handed, in Compilation Queue order: for each finalized function a header
// line, one flattened trace line per top-level body statement, and a
// closing brace. Grounded
// on the teacher's internal/prettyprinter, which renders ASTs back to
// text for the same "make the pipeline's output inspectable" reason.
package backend

import (
	"fmt"
	"io"
	"strings"

	"github.com/BigBadE/Raven-Language-sub000/internal/compqueue"
	"github.com/BigBadE/Raven-Language-sub000/internal/types"
)

// Emit writes a trace of every function the Compilation Queue delivered,
// in delivery order, to w.
func Emit(w io.Writer, q *compqueue.Queue) error {
	for _, fn := range q.Order() {
		if err := emitFunction(w, fn); err != nil {
			return err
		}
	}
	return nil
}

func emitFunction(w io.Writer, fn *types.FinalizedFunction) error {
	args := make([]string, len(fn.Codeless.Arguments))
	for i, a := range fn.Codeless.Arguments {
		args[i] = fmt.Sprintf("%s: %s", a.Name, types.BaseName(a.Type))
	}
	if _, err := fmt.Fprintf(w, "fn %s(%s) -> %s {\n", fn.Codeless.Data.Name, strings.Join(args, ", "), types.BaseName(fn.Codeless.ReturnType)); err != nil {
		return err
	}
	for _, stmt := range fn.Code.Statements {
		if _, err := fmt.Fprintf(w, "  %s\n", traceEffect(stmt.Effect)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "}")
	return err
}

// traceEffect flattens one finalized effect to a single trace line. It
// does not need to be exhaustive over every FinalizedEffect variant the
// way internal/specialize's substitution walk does: an unrecognized shape
// still renders, just generically, since this is a readable stand-in for
// a real code generator rather than one itself.
func traceEffect(e types.FinalizedEffect) string {
	switch v := e.(type) {
	case types.FReturn:
		return fmt.Sprintf("return %s", traceEffect(v.Value))
	case types.FConst:
		return fmt.Sprintf("const<%s>", types.BaseName(v.Type))
	case types.FLoadVariable:
		return fmt.Sprintf("load %s", v.Name)
	case types.FCreateVariable:
		return fmt.Sprintf("let %s = %s", v.Name, traceEffect(v.Init))
	case types.FMethodCall:
		return fmt.Sprintf("call %s(%s)", v.Func.Data.Name, traceArgs(v.Args))
	case types.FVirtualCall:
		return fmt.Sprintf("vcall[%d] %s(%s)", v.SlotIndex, v.Func.Data.Name, traceArgs(v.Args))
	case types.FGenericVirtualCall:
		return fmt.Sprintf("vcall[%d] <%s>(%s)", v.SlotIndex, v.TraitName, traceArgs(v.Args))
	case types.FGenericMethodCall:
		return fmt.Sprintf("gcall<%s> %s(%s)", v.TraitName, v.Func.Data.Name, traceArgs(v.Args))
	case types.FDowncast:
		return fmt.Sprintf("downcast %s as %s", traceEffect(v.Base), types.BaseName(v.Target))
	case types.FCreateStruct:
		return fmt.Sprintf("new %s", types.BaseName(v.Type))
	case types.FCreateArray:
		return fmt.Sprintf("array<%s>[%d]", types.BaseName(v.Element), len(v.Elements))
	case types.FNop:
		return "nop"
	default:
		return fmt.Sprintf("%T", e)
	}
}

func traceArgs(args []types.FinalizedEffect) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = traceEffect(a)
	}
	return strings.Join(parts, ", ")
}
