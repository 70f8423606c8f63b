package lazy

import (
	"testing"

	"github.com/dop251/goja"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactoryMake(t *testing.T) {
	t.Parallel()

	rt := goja.New()
	f, err := NewFactory(rt, nil)
	require.NoError(t, err)

	calls := 0
	factory := rt.ToValue(func(call goja.FunctionCall) goja.Value {
		calls++
		obj := rt.NewObject()
		require.NoError(t, obj.Set("first", call.Argument(0)))
		return obj
	})

	t.Run("plain", func(t *testing.T) {
		proxy, err := f.Make(KindObject, Modifiers{}, factory, false, rt.ToValue("a"))
		require.NoError(t, err)
		require.NoError(t, rt.Set("plain", proxy))
		assert.Equal(t, 0, calls)

		v, err := rt.RunString(`plain.first + typeof plain`)
		require.NoError(t, err)
		assert.Equal(t, "aobject", v.String())
		assert.Equal(t, 1, calls)
	})

	t.Run("revocable", func(t *testing.T) {
		pair, err := f.Make(KindCallable, Modifiers{Revocable: true}, factory, false, rt.ToValue("b"))
		require.NoError(t, err)
		require.NoError(t, rt.Set("pair", pair))

		v, err := rt.RunString(`pair.proxy.first`)
		require.NoError(t, err)
		assert.Equal(t, "b", v.String())

		_, err = rt.RunString(`pair.revoke(); pair.proxy.first`)
		require.Error(t, err)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := f.Make(Kind(7), Modifiers{}, factory, false)
		assert.ErrorContains(t, err, "unknown lazy kind")
	})
}

func TestFactoryCreators(t *testing.T) {
	t.Parallel()

	rt := goja.New()
	f, err := NewFactory(rt, nil)
	require.NoError(t, err)

	for _, k := range Kinds() {
		for _, mods := range []Modifiers{{}, {Frozen: true}, {Revocable: true}, {Frozen: true, Revocable: true}} {
			c := f.Creator(k, mods)
			require.NotNil(t, c, "%s %+v", k, mods)
			_, ok := goja.AssertFunction(c)
			assert.True(t, ok)

			frozen := c.Get("frozen").ToObject(rt)
			revocable := c.Get("revocable").ToObject(rt)
			assert.True(t, frozen.SameAs(f.Creator(k, Modifiers{Frozen: true, Revocable: mods.Revocable})))
			assert.True(t, revocable.SameAs(f.Creator(k, Modifiers{Frozen: mods.Frozen, Revocable: true})))
		}
	}
}

func TestFactoryIgnoresPatchedGlobals(t *testing.T) {
	t.Parallel()

	rt := goja.New()
	f, err := NewFactory(rt, nil)
	require.NoError(t, err)
	require.NoError(t, rt.Set("lazy", f.Creator(KindObject, Modifiers{})))

	v, err := rt.RunString(`
		Reflect.get = function () { return "patched"; };
		lazy(() => ({a: "real"}))().a;
	`)
	require.NoError(t, err)
	assert.Equal(t, "real", v.String())
}
