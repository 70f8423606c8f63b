package modulestest

import (
	"github.com/dop251/goja"
	"github.com/spf13/afero"
)

// CompileFile compiles a JS file from fs as a [*goja.Program].
func CompileFile(fs afero.Fs, name string) (*goja.Program, error) {
	b, err := afero.ReadFile(fs, name)
	if err != nil {
		return nil, err
	}

	return goja.Compile(name, string(b), false)
}
