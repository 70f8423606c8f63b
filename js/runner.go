// Package js runs scripts against the registered Go modules.
package js

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"

	"github.com/dop251/goja"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/liuxd6825/k6lazy/errext"
	"github.com/liuxd6825/k6lazy/errext/exitcodes"
	"github.com/liuxd6825/k6lazy/js/common"
	"github.com/liuxd6825/k6lazy/js/modules"
)

// Runner executes one script in a fresh runtime. Scripts can `require` any
// module in Modules and log through `console`.
type Runner struct {
	Logger  logrus.FieldLogger
	FS      afero.Fs
	CWD     *url.URL
	Modules map[string]interface{}
}

// NewRunner returns a Runner reading scripts from fs, with every registered
// module available.
func NewRunner(logger logrus.FieldLogger, fs afero.Fs, cwd *url.URL) *Runner {
	return &Runner{
		Logger:  logger,
		FS:      fs,
		CWD:     cwd,
		Modules: modules.GetJSModules(),
	}
}

// Run loads, compiles and executes filename. The run is interrupted when
// ctx is done.
func (r *Runner) Run(ctx context.Context, filename string) error {
	initEnv := &common.InitEnvironment{
		Logger:      r.Logger,
		FileSystems: map[string]afero.Fs{"file": r.FS},
		CWD:         r.CWD,
	}
	path := initEnv.GetAbsFilePath(filename)

	src, err := afero.ReadFile(r.FS, path)
	if err != nil {
		return errext.WithExitCodeIfNone(
			errext.WithHint(err, "check that the script path is correct"), exitcodes.InvalidConfig)
	}
	prog, err := goja.Compile(filepath.Base(path), string(src), false)
	if err != nil {
		return errext.WithExitCodeIfNone(fmt.Errorf("compiling %s: %w", filename, err), exitcodes.ScriptException)
	}

	rt := goja.New()
	if err = r.setupGlobals(ctx, rt, initEnv); err != nil {
		return errext.WithExitCodeIfNone(err, exitcodes.GenericEngine)
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			rt.Interrupt(ctx.Err())
		case <-done:
		}
	}()

	r.Logger.WithField("script", path).Debug("Running script")
	_, err = rt.RunProgram(prog)
	return wrapRunError(err)
}

func (r *Runner) setupGlobals(ctx context.Context, rt *goja.Runtime, initEnv *common.InitEnvironment) error {
	vu := &moduleVUImpl{ctx: ctx, initEnv: initEnv, runtime: rt}
	ms := modules.NewModuleSystem(vu, r.Modules)

	if err := rt.Set("require", func(specifier goja.Value) *goja.Object {
		if common.IsNullish(specifier) {
			common.Throw(rt, errors.New("require() needs a module name"))
		}
		exports, err := ms.Require(specifier.String())
		if err != nil {
			common.Throw(rt, err)
		}
		return exports
	}); err != nil {
		return err
	}

	c, err := newConsole(r.Logger).object(rt)
	if err != nil {
		return err
	}
	return rt.Set("console", c)
}

func wrapRunError(err error) error {
	if err == nil {
		return nil
	}
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		return &errext.InterruptError{Reason: fmt.Sprint(interrupted.Value())}
	}
	var ex *goja.Exception
	if errors.As(err, &ex) {
		return errext.WithExitCodeIfNone(&scriptException{ex: ex}, exitcodes.ScriptException)
	}
	return err
}

// scriptException is an uncaught JS exception, with its stack trace.
type scriptException struct {
	ex *goja.Exception
}

var _ errext.Exception = &scriptException{}

func (s *scriptException) Error() string {
	return s.ex.Error()
}

func (s *scriptException) StackTrace() string {
	return s.ex.String()
}

func (s *scriptException) Unwrap() error {
	return s.ex
}
