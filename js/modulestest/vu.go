// Package modulestest contains helpers to test JS modules outside of a full
// script run.
package modulestest

import (
	"context"

	"github.com/dop251/goja"

	"github.com/liuxd6825/k6lazy/js/common"
	"github.com/liuxd6825/k6lazy/js/modules"
)

var _ modules.VU = &VU{}

// VU is a modules.VU implementation meant to be used within tests
type VU struct {
	CtxField     context.Context
	InitEnvField *common.InitEnvironment
	RuntimeField *goja.Runtime
}

// Context returns internally set field to conform to modules.VU interface
func (m *VU) Context() context.Context {
	return m.CtxField
}

// InitEnv returns internally set field to conform to modules.VU interface
func (m *VU) InitEnv() *common.InitEnvironment {
	return m.InitEnvField
}

// Runtime returns internally set field to conform to modules.VU interface
func (m *VU) Runtime() *goja.Runtime {
	return m.RuntimeField
}
