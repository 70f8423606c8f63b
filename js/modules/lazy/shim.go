package lazy

import (
	"fmt"

	"github.com/dop251/goja"
)

// shimEntry is the list of own property names that are non-configurable on a
// fresh empty carrier of one kind. The frozen entry inspects a frozen carrier,
// since freezing turns every own property non-configurable.
type shimEntry struct {
	plain  []string
	frozen []string
}

// shimTable is computed once, with a throwaway runtime, and never mutated.
//
//nolint:gochecknoglobals
var shimTable = mustBuildShimTable()

func mustBuildShimTable() [len(kinds)]shimEntry {
	table, err := buildShimTable(goja.New())
	if err != nil {
		panic(fmt.Errorf("building the lazy shim table: %w", err))
	}
	return table
}

func buildShimTable(rt *goja.Runtime) ([len(kinds)]shimEntry, error) {
	var table [len(kinds)]shimEntry

	r, err := newReflector(rt)
	if err != nil {
		return table, err
	}
	for _, k := range Kinds() {
		mk, err := carrierMaker(rt, k)
		if err != nil {
			return table, err
		}
		inspect := func(frozen bool) ([]string, error) {
			v, err := mk(goja.Undefined())
			if err != nil {
				return nil, err
			}
			if frozen {
				if _, err = r.freeze(goja.Undefined(), v); err != nil {
					return nil, err
				}
			}
			return r.nonConfigurable(v)
		}
		if table[k].plain, err = inspect(false); err != nil {
			return table, fmt.Errorf("inspecting %s: %w", k, err)
		}
		if table[k].frozen, err = inspect(true); err != nil {
			return table, fmt.Errorf("inspecting frozen %s: %w", k, err)
		}
	}
	return table, nil
}

func (e shimEntry) keys(frozen bool) []string {
	if frozen {
		return e.frozen
	}
	return e.plain
}

// ShimKeys returns the property names the proxies of the given kind answer
// from their carrier rather than from the backing value. The result is a
// copy.
func ShimKeys(k Kind, frozen bool) []string {
	if int(k) >= len(kinds) {
		return nil
	}
	keys := shimTable[k].keys(frozen)
	return append(make([]string, 0, len(keys)), keys...)
}

func containsKey(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}
