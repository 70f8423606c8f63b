// Package lazy implements the k6/x/lazy module: proxies that stand in for a
// value and only call the function producing it on first use.
//
//	import lazy from "k6/x/lazy";
//
//	const client = lazy(makeClient)("https://example.com");
//	client.get("/"); // makeClient runs here, once
package lazy

import (
	"github.com/sirupsen/logrus"

	"github.com/liuxd6825/k6lazy/js/common"
	"github.com/liuxd6825/k6lazy/js/modules"
)

// ImportPath is the name scripts import the module by.
const ImportPath = "k6/x/lazy"

func init() {
	modules.Register(ImportPath, New())
}

type (
	// RootModule is the global module instance that will create module
	// instances for each VU.
	RootModule struct{}

	// ModuleInstance represents an instance of the JS module.
	ModuleInstance struct {
		vu      modules.VU
		factory *Factory
	}
)

var (
	_ modules.Module   = &RootModule{}
	_ modules.Instance = &ModuleInstance{}
)

// New returns a pointer to a new RootModule instance.
func New() *RootModule {
	return &RootModule{}
}

// NewModuleInstance implements the modules.Module interface to return
// a new instance for each VU.
func (*RootModule) NewModuleInstance(vu modules.VU) modules.Instance {
	var logger logrus.FieldLogger
	if env := vu.InitEnv(); env != nil {
		logger = env.Logger
	}
	f, err := NewFactory(vu.Runtime(), logger)
	if err != nil {
		common.Throw(vu.Runtime(), err)
	}
	return &ModuleInstance{vu: vu, factory: f}
}

// Factory gives Go code access to the instance's proxy factory.
func (mi *ModuleInstance) Factory() *Factory {
	return mi.factory
}

// Exports returns the exports of the lazy module.
func (mi *ModuleInstance) Exports() modules.Exports {
	named := make(map[string]interface{}, len(kinds))
	for _, k := range Kinds() {
		named[k.String()] = mi.factory.Creator(k, Modifiers{})
	}
	return modules.Exports{
		Default: mi.factory.Creator(KindCallable, Modifiers{}),
		Named:   named,
	}
}
