package modules

import (
	"errors"
	"fmt"

	"github.com/dop251/goja"
)

// ModuleSystem resolves require() calls against registered Go modules. Each
// module is instantiated once per ModuleSystem, so every require of the same
// name returns the same exports object.
type ModuleSystem struct {
	vu        VU
	registry  map[string]interface{}
	instances map[string]*goja.Object
}

// NewModuleSystem returns a ModuleSystem over the given registry, which is
// usually the result of GetJSModules.
func NewModuleSystem(vu VU, registry map[string]interface{}) *ModuleSystem {
	return &ModuleSystem{
		vu:        vu,
		registry:  registry,
		instances: make(map[string]*goja.Object),
	}
}

// Require is the actual call that implements require
func (ms *ModuleSystem) Require(specifier string) (*goja.Object, error) {
	if specifier == "" {
		return nil, errors.New("require() can't be used with an empty specifier")
	}
	if exports, ok := ms.instances[specifier]; ok {
		return exports, nil
	}

	mod, ok := ms.registry[specifier]
	if !ok {
		return nil, fmt.Errorf("unknown module: %s", specifier)
	}

	rt := ms.vu.Runtime()
	var exports *goja.Object
	if m, ok := mod.(Module); ok {
		exports = rt.ToValue(ToESModuleExports(m.NewModuleInstance(ms.vu).Exports())).ToObject(rt)
	} else {
		// plain Go values are exposed as they are
		exports = rt.ToValue(mod).ToObject(rt)
	}
	ms.instances[specifier] = exports
	return exports, nil
}
