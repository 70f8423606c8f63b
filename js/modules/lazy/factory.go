package lazy

import (
	"fmt"

	"github.com/dop251/goja"
	"github.com/sirupsen/logrus"
)

// Modifiers are the orthogonal behaviors a creation function can carry.
type Modifiers struct {
	// Frozen freezes the carrier right after it is built, so extensibility
	// queries fail before the backing value exists.
	Frozen bool
	// Revocable makes the creation function return {proxy, revoke}.
	Revocable bool
}

func (m Modifiers) index() int {
	i := 0
	if m.Frozen {
		i |= 1
	}
	if m.Revocable {
		i |= 2
	}
	return i
}

// newTargetWrapper turns a Go creation callback into a JS function that can
// tell `lazy(f)` from `new lazy(f)`.
//
//nolint:gochecknoglobals
var newTargetWrapper = goja.MustCompile("k6/x/lazy/creator.js", `(function (create) {
	return function lazy(factory) {
		return create(factory, new.target !== undefined);
	};
})`, true)

// Factory builds lazy proxies inside one runtime. It is not safe for
// concurrent use, same as the runtime itself.
type Factory struct {
	rt       *goja.Runtime
	logger   logrus.FieldLogger
	reflect  *reflector
	traps    *trapTable
	carriers [len(kinds)]goja.Callable
	creators [len(kinds)][4]*goja.Object
}

// NewFactory prepares the trap table and every creation function for rt.
func NewFactory(rt *goja.Runtime, logger logrus.FieldLogger) (*Factory, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	f := &Factory{rt: rt, logger: logger.WithField("module", "lazy")}

	var err error
	if f.reflect, err = newReflector(rt); err != nil {
		return nil, err
	}
	if f.traps, err = newTrapTable(rt, f.reflect); err != nil {
		return nil, err
	}
	for _, k := range Kinds() {
		if f.carriers[k], err = carrierMaker(rt, k); err != nil {
			return nil, err
		}
	}
	if err = f.buildCreators(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *Factory) buildCreators() error {
	v, err := f.rt.RunProgram(newTargetWrapper)
	if err != nil {
		return err
	}
	wrap, ok := goja.AssertFunction(v)
	if !ok {
		return fmt.Errorf("creator wrapper is %T, not a function", v.Export())
	}

	for _, k := range Kinds() {
		for i := range f.creators[k] {
			mods := Modifiers{Frozen: i&1 != 0, Revocable: i&2 != 0}
			creator, err := wrap(goja.Undefined(), f.rt.ToValue(f.create(k, mods)))
			if err != nil {
				return err
			}
			f.creators[k][i] = creator.ToObject(f.rt)
		}
	}

	// Asking for a modifier that is already on gives back the same creator.
	for _, k := range Kinds() {
		for i, creator := range f.creators[k] {
			if err := creator.Set("frozen", f.creators[k][i|1]); err != nil {
				return err
			}
			if err := creator.Set("revocable", f.creators[k][i|2]); err != nil {
				return err
			}
		}
	}

	def := f.Creator(KindCallable, Modifiers{})
	for _, k := range Kinds() {
		if err := def.Set(k.String(), f.Creator(k, Modifiers{})); err != nil {
			return err
		}
	}
	return nil
}

// Creator returns the JS creation function for the kind and modifiers:
// `creator(factory)(...args)` yields a proxy.
func (f *Factory) Creator(k Kind, mods Modifiers) *goja.Object {
	return f.creators[k][mods.index()]
}

// create is the Go side of a creation function. construct tells whether it
// was invoked with `new`.
func (f *Factory) create(k Kind, mods Modifiers) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		factory := call.Argument(0)
		if _, ok := goja.AssertFunction(factory); !ok {
			panic(f.rt.NewTypeError("lazy factory must be a function, got %s", factory))
		}
		construct := call.Argument(1).ToBoolean()

		return f.rt.ToValue(func(call goja.FunctionCall) goja.Value {
			v, err := f.Make(k, mods, factory, construct, call.Arguments...)
			if err != nil {
				throw(f.rt, err)
			}
			return v
		})
	}
}

// Make builds one handle and its proxy. The factory is not invoked until the
// first trap fires. For revocable modifiers the result is the runtime's
// {proxy, revoke} pair.
func (f *Factory) Make(
	k Kind, mods Modifiers, factory goja.Value, construct bool, args ...goja.Value,
) (goja.Value, error) {
	if int(k) >= len(kinds) {
		return nil, fmt.Errorf("unknown lazy kind %d", k)
	}
	construct = construct || k.ForcesConstruct()

	c, err := f.carriers[k](goja.Undefined())
	if err != nil {
		return nil, err
	}
	h := &handle{
		kind:    k,
		carrier: c.ToObject(f.rt),
		value:   newAccessor(f.rt, factory, construct, args),
		shim:    shimTable[k].keys(mods.Frozen),
		frozen:  mods.Frozen,
	}
	h.value.onSettle = f.settleLogger(k, construct)

	if h.frozen {
		if _, err = f.reflect.freeze(goja.Undefined(), h.carrier); err != nil {
			return nil, err
		}
	}

	handler, err := f.traps.bind(h)
	if err != nil {
		return nil, err
	}
	if mods.Revocable {
		return f.reflect.revocable(goja.Undefined(), h.carrier, handler)
	}
	proxy, err := f.rt.New(f.reflect.proxy, h.carrier, handler)
	if err != nil {
		return nil, err
	}
	return proxy, nil
}

func (f *Factory) settleLogger(k Kind, construct bool) func(error) {
	return func(err error) {
		logger := f.logger.WithFields(logrus.Fields{"kind": k.String(), "construct": construct})
		if err != nil {
			logger.WithError(err).Debug("lazy factory failed")
			return
		}
		logger.Debug("lazy value materialized")
	}
}
