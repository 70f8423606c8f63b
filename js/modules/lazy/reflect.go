package lazy

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/dop251/goja"
)

// The structural operations forwarded to the backing value. Each one is
// served by the Reflect function of the same name.
const (
	trapGetPrototypeOf           = "getPrototypeOf"
	trapSetPrototypeOf           = "setPrototypeOf"
	trapGetOwnPropertyDescriptor = "getOwnPropertyDescriptor"
	trapDefineProperty           = "defineProperty"
	trapHas                      = "has"
	trapGet                      = "get"
	trapSet                      = "set"
	trapDeleteProperty           = "deleteProperty"
	trapOwnKeys                  = "ownKeys"
	trapApply                    = "apply"
	trapConstruct                = "construct"
)

// isExtensible and preventExtensions are left to the carrier on purpose.
//
//nolint:gochecknoglobals
var forwardedTraps = []string{
	trapGetPrototypeOf,
	trapSetPrototypeOf,
	trapGetOwnPropertyDescriptor,
	trapDefineProperty,
	trapHas,
	trapGet,
	trapSet,
	trapDeleteProperty,
	trapOwnKeys,
	trapApply,
	trapConstruct,
}

// reflector holds the runtime's own reflection primitives, captured once so
// scripts patching the globals later do not change how proxies behave.
type reflector struct {
	rt        *goja.Runtime
	ops       map[string]goja.Callable
	freeze    goja.Callable
	ownNames  goja.Callable
	proxy     goja.Value
	revocable goja.Callable
}

func newReflector(rt *goja.Runtime) (*reflector, error) {
	r := &reflector{rt: rt, ops: make(map[string]goja.Callable, len(forwardedTraps))}

	reflectObj := rt.Get("Reflect")
	if reflectObj == nil || goja.IsUndefined(reflectObj) {
		return nil, errors.New("the runtime has no Reflect object")
	}
	for _, name := range forwardedTraps {
		fn, err := method(rt, reflectObj, name)
		if err != nil {
			return nil, err
		}
		r.ops[name] = fn
	}

	object := rt.Get("Object")
	var err error
	if r.freeze, err = method(rt, object, "freeze"); err != nil {
		return nil, err
	}
	if r.ownNames, err = method(rt, object, "getOwnPropertyNames"); err != nil {
		return nil, err
	}

	r.proxy = rt.Get("Proxy")
	if r.proxy == nil || goja.IsUndefined(r.proxy) {
		return nil, errors.New("the runtime has no Proxy constructor")
	}
	if r.revocable, err = method(rt, r.proxy, "revocable"); err != nil {
		return nil, err
	}
	return r, nil
}

func method(rt *goja.Runtime, v goja.Value, name string) (goja.Callable, error) {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil, fmt.Errorf("cannot read %q of %v", name, v)
	}
	fn, ok := goja.AssertFunction(v.ToObject(rt).Get(name))
	if !ok {
		return nil, fmt.Errorf("%q is not a function", name)
	}
	return fn, nil
}

// call invokes Reflect[op] with the given arguments.
func (r *reflector) call(op string, args ...goja.Value) (goja.Value, error) {
	return r.ops[op](goja.Undefined(), args...)
}

// nonConfigurable lists the own property names of v that report
// configurable: false, in the order the runtime enumerates them.
func (r *reflector) nonConfigurable(v goja.Value) ([]string, error) {
	names, err := r.ownNames(goja.Undefined(), v)
	if err != nil {
		return nil, err
	}
	var keys []string
	for _, name := range toValues(r.rt, names) {
		desc, err := r.call(trapGetOwnPropertyDescriptor, v, name)
		if err != nil {
			return nil, err
		}
		if goja.IsUndefined(desc) {
			continue
		}
		if !desc.ToObject(r.rt).Get("configurable").ToBoolean() {
			keys = append(keys, name.String())
		}
	}
	return keys, nil
}

// toValues unpacks an array-like JS value.
func toValues(rt *goja.Runtime, arr goja.Value) []goja.Value {
	obj := arr.ToObject(rt)
	n := obj.Get("length").ToInteger()
	values := make([]goja.Value, 0, n)
	for i := int64(0); i < n; i++ {
		values = append(values, obj.Get(strconv.FormatInt(i, 10)))
	}
	return values
}
