package buildfile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAppliesDefaults(t *testing.T) {
	f, err := Parse([]byte("sources:\n  - a.rvn\n  - b.rvn\nentry: main\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a.rvn", "b.rvn"}, f.Sources)
	assert.Equal(t, "main", f.Entry)
	assert.Equal(t, DefaultWorkers, f.Workers)
	assert.Equal(t, time.Duration(DefaultTimeoutSeconds)*time.Second, f.Timeout())
	assert.Equal(t, DefaultSolverMaxDepth, f.Solver.MaxDepth)
	assert.Equal(t, DefaultSolverMaxGoals, f.Solver.MaxGoals)
}

func TestParseHonorsExplicitValues(t *testing.T) {
	f, err := Parse([]byte(`
sources: [main.rvn]
workers: 8
timeoutSeconds: 60
solver:
  maxDepth: 10
  maxGoals: 100
`))
	require.NoError(t, err)
	assert.Equal(t, 8, f.Workers)
	assert.Equal(t, 60*time.Second, f.Timeout())
	assert.Equal(t, 10, f.Solver.MaxDepth)
	assert.Equal(t, 100, f.Solver.MaxGoals)
}

func TestParseRejectsEmptySourceList(t *testing.T) {
	_, err := Parse([]byte("entry: main\n"))
	require.Error(t, err)
}
