package tool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTool struct {
	name string
}

func (s staticTool) Name() string                { return s.name }
func (s staticTool) Description() string         { return "static test tool" }
func (s staticTool) InputSchema() map[string]any { return map[string]any{"type": "object"} }
func (s staticTool) Invoke(context.Context, map[string]any) (string, error) {
	return "ok", nil
}

func TestNewRegistry_RejectsDuplicateNames(t *testing.T) {
	t.Parallel()

	_, err := NewRegistry(staticTool{name: "a"}, staticTool{name: "a"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate tool name "a"`)
}

func TestRegistry_Lookup(t *testing.T) {
	t.Parallel()

	reg, err := NewRegistry(staticTool{name: "a"}, staticTool{name: "b"})
	require.NoError(t, err)

	got, ok := reg.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, "a", got.Name())

	_, ok = reg.Lookup("missing")
	assert.False(t, ok)
}

func TestRegistry_NamesSorted(t *testing.T) {
	t.Parallel()

	reg, err := NewRegistry(staticTool{name: "zeta"}, staticTool{name: "alpha"})
	require.NoError(t, err)

	assert.Equal(t, []string{"alpha", "zeta"}, reg.Names())
}

func TestRegistry_Specs(t *testing.T) {
	t.Parallel()

	reg, err := NewRegistry(staticTool{name: "a"})
	require.NoError(t, err)

	specs := reg.Specs()
	require.Len(t, specs, 1)
	assert.Equal(t, "a", specs[0].Name)
	assert.Equal(t, "static test tool", specs[0].Description)
	assert.NotNil(t, specs[0].InputSchema)
}

func TestRegistry_Empty(t *testing.T) {
	t.Parallel()

	reg, err := NewRegistry()
	require.NoError(t, err)
	assert.Empty(t, reg.Names())
	assert.Empty(t, reg.Specs())
}
