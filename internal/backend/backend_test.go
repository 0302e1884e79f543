package backend

import (
	"strings"
	"testing"

	"github.com/BigBadE/Raven-Language-sub000/internal/compqueue"
	"github.com/BigBadE/Raven-Language-sub000/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitRendersFunctionsInQueueOrder(t *testing.T) {
	q := compqueue.New()
	q.Push(&types.FinalizedFunction{
		Codeless: &types.CodelessFinalizedFunction{
			Data:       &types.FunctionData{Name: "id$i64"},
			Arguments:  []types.Field{{Name: "x", Type: types.Struct{Handle: &types.StructData{Name: "i64"}}}},
			ReturnType: types.Struct{Handle: &types.StructData{Name: "i64"}},
		},
		Code: &types.FinalizedCodeBody{
			Statements: []types.FinalizedStatement{
				{Kind: types.StmtReturn, Effect: types.FReturn{Value: types.FLoadVariable{Name: "x"}}},
			},
		},
	})

	var out strings.Builder
	require.NoError(t, Emit(&out, q))
	text := out.String()
	assert.Contains(t, text, "fn id$i64(x: i64) -> i64 {")
	assert.Contains(t, text, "return load x")
}
