package frontend

import (
	"context"
	"testing"

	"github.com/BigBadE/Raven-Language-sub000/internal/driver"
	"github.com/BigBadE/Raven-Language-sub000/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const genericCallSource = `
struct i64

fn id<T>(x: T) -> T {
	return x;
}

fn main() -> i64 {
	return id(42);
}

entry main
`

func TestParseSourceDrivesGenericSpecializationEndToEnd(t *testing.T) {
	prog, err := ParseSource(genericCallSource)
	require.NoError(t, err)
	assert.Equal(t, "main", prog.EntryFunction)
	require.Len(t, prog.Structs, 1)
	require.Len(t, prog.Functions, 2)

	d := driver.New()
	order, err := d.Run(context.Background(), prog)
	require.NoError(t, err)

	var sawSpecialization bool
	for _, fn := range order {
		if fn.Codeless.Data.Name == "id$i64" {
			sawSpecialization = true
		}
	}
	assert.True(t, sawSpecialization)
}

const implSource = `
struct i64
struct Box

impl Add for Box {
	fn add(self: Box, other: Box) -> Box {
		return self;
	}
}

entry noop
fn noop() -> i64 {
	return 0;
}
`

func TestParseSourceParsesImplBlocks(t *testing.T) {
	prog, err := ParseSource(implSource)
	require.NoError(t, err)
	require.Len(t, prog.Implementations, 1)
	impl := prog.Implementations[0]
	assert.Equal(t, "Box", impl.BaseType)
	assert.Equal(t, "Add", impl.TraitType)
	require.Len(t, impl.Functions, 1)
	assert.Equal(t, "add", impl.Functions[0].Name)
	assert.Equal(t, types.StmtReturn, impl.Functions[0].Body.Statements[0].Kind)
}
