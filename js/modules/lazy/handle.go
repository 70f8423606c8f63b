package lazy

import (
	"github.com/dop251/goja"
)

// handle is the structural stand-in a proxy is built around. Once the
// backing value exists the carrier only answers for the shim keys and for
// the untrapped extensibility queries.
type handle struct {
	kind    Kind
	carrier *goja.Object
	value   *accessor
	// shim is shared with every handle of the same kind and must not be
	// modified.
	shim   []string
	frozen bool
}

func (h *handle) isShimKey(prop goja.Value) bool {
	if _, ok := prop.(*goja.Symbol); ok {
		return false
	}
	return containsKey(h.shim, prop.String())
}
