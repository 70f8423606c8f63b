package lazy

import (
	"testing"

	"github.com/dop251/goja"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShimTable(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"prototype"}, ShimKeys(KindFunction, false))
	assert.Empty(t, ShimKeys(KindCallable, false))
	assert.Empty(t, ShimKeys(KindObject, false))
	assert.Empty(t, ShimKeys(KindClass, false))

	for _, k := range Kinds() {
		assert.Subset(t, ShimKeys(k, true), ShimKeys(k, false), k.String())
	}
	assert.Subset(t, ShimKeys(KindFunction, true), []string{"length", "name", "prototype"})
	assert.Subset(t, ShimKeys(KindCallable, true), []string{"length", "name"})
	assert.Empty(t, ShimKeys(KindObject, true))

	assert.Nil(t, ShimKeys(Kind(42), false))
}

func TestShimKeysIsACopy(t *testing.T) {
	t.Parallel()

	keys := ShimKeys(KindFunction, false)
	require.NotEmpty(t, keys)
	keys[0] = "changed"
	assert.Equal(t, []string{"prototype"}, ShimKeys(KindFunction, false))
}

func TestBuildShimTableIsStable(t *testing.T) {
	t.Parallel()

	// a fresh inspection in another runtime finds the same keys
	table, err := buildShimTable(goja.New())
	require.NoError(t, err)
	assert.Equal(t, shimTable, table)
}

func TestParseKind(t *testing.T) {
	t.Parallel()

	for _, k := range Kinds() {
		parsed, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
	parsed, err := ParseKind("FUNC")
	require.NoError(t, err)
	assert.Equal(t, KindFunction, parsed)

	_, err = ParseKind("generator")
	assert.ErrorContains(t, err, `unknown lazy kind "generator"`)

	assert.Equal(t, "Kind(9)", Kind(9).String())
	assert.True(t, KindClass.ForcesConstruct())
	assert.False(t, KindFunction.ForcesConstruct())
}
