package js

import (
	"context"

	"github.com/dop251/goja"

	"github.com/liuxd6825/k6lazy/js/common"
	"github.com/liuxd6825/k6lazy/js/modules"
)

type moduleVUImpl struct {
	ctx     context.Context
	initEnv *common.InitEnvironment
	runtime *goja.Runtime
}

var _ modules.VU = &moduleVUImpl{}

func (m *moduleVUImpl) Context() context.Context {
	return m.ctx
}

func (m *moduleVUImpl) InitEnv() *common.InitEnvironment {
	return m.initEnv
}

func (m *moduleVUImpl) Runtime() *goja.Runtime {
	return m.runtime
}
