package frontend

import (
	"context"
	"testing"

	"github.com/BigBadE/Raven-Language-sub000/internal/driver"
	"github.com/BigBadE/Raven-Language-sub000/internal/types"
	"github.com/stretchr/testify/require"
)

func TestBuilderProducesARunnableProgram(t *testing.T) {
	prog, err := New().
		Struct(&types.RawStruct{Name: "i64"}).
		Function(&types.RawFunction{
			Name:       "main",
			ReturnType: "i64",
			Body: &types.CodeBody{
				Label:      "entry",
				Statements: []types.Statement{{Kind: types.StmtReturn, Effect: types.Return{Value: types.IntLiteral{Value: 7}}}},
			},
		}).
		Entry("main").
		Build()
	require.NoError(t, err)

	d := driver.New()
	_, err = d.Run(context.Background(), prog)
	require.NoError(t, err)
}

func TestBuilderRejectsEmptyProgram(t *testing.T) {
	_, err := New().Build()
	require.Error(t, err)
}
