package lazy

import (
	"github.com/dop251/goja"
)

// trapTable is the handler logic shared by every proxy of a runtime. The
// traps live on one prototype object; each proxy gets a small handler that
// inherits from it and keeps its handle under a private symbol.
type trapTable struct {
	rt      *goja.Runtime
	reflect *reflector
	proto   *goja.Object
	slot    *goja.Symbol
}

func newTrapTable(rt *goja.Runtime, r *reflector) (*trapTable, error) {
	t := &trapTable{
		rt:      rt,
		reflect: r,
		proto:   rt.NewObject(),
		slot:    goja.NewSymbol("k6/x/lazy.handle"),
	}
	for _, op := range forwardedTraps {
		var fn func(goja.FunctionCall) goja.Value
		switch op {
		case trapOwnKeys:
			fn = t.ownKeys
		case trapGetOwnPropertyDescriptor:
			fn = t.getOwnPropertyDescriptor
		default:
			fn = t.forward(op)
		}
		if err := t.proto.Set(op, fn); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// bind creates the handler object for h.
func (t *trapTable) bind(h *handle) (*goja.Object, error) {
	handler := t.rt.NewObject()
	if err := handler.SetPrototype(t.proto); err != nil {
		return nil, err
	}
	err := handler.DefineDataPropertySymbol(t.slot, t.rt.ToValue(h), goja.FLAG_FALSE, goja.FLAG_FALSE, goja.FLAG_FALSE)
	if err != nil {
		return nil, err
	}
	return handler, nil
}

func (t *trapTable) handleOf(this goja.Value) *handle {
	if obj, ok := this.(*goja.Object); ok {
		if v := obj.GetSymbol(t.slot); v != nil {
			if h, ok := v.Export().(*handle); ok {
				return h
			}
		}
	}
	panic(t.rt.NewTypeError("lazy proxy trap called on a foreign handler"))
}

// backing returns the value behind h, creating it on first use.
func (t *trapTable) backing(h *handle) goja.Value {
	v, err := h.value.get()
	if err != nil {
		throw(t.rt, err)
	}
	return v
}

// forward performs Reflect[op] on the backing value in place of the carrier.
func (t *trapTable) forward(op string) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		h := t.handleOf(call.This)
		args := make([]goja.Value, len(call.Arguments))
		copy(args, call.Arguments)
		if len(args) == 0 {
			args = append(args, nil)
		}
		args[0] = t.backing(h)

		res, err := t.reflect.call(op, args...)
		if err != nil {
			throw(t.rt, err)
		}
		return res
	}
}

// ownKeys lists the backing value's own keys followed by any shim key it
// lacks, since the result must cover every non-configurable key of the
// carrier.
func (t *trapTable) ownKeys(call goja.FunctionCall) goja.Value {
	h := t.handleOf(call.This)
	res, err := t.reflect.call(trapOwnKeys, t.backing(h))
	if err != nil {
		throw(t.rt, err)
	}

	keys := toValues(t.rt, res)
	seen := make(map[string]struct{}, len(keys))
	out := make([]interface{}, 0, len(keys)+len(h.shim))
	for _, k := range keys {
		if _, ok := k.(*goja.Symbol); !ok {
			seen[k.String()] = struct{}{}
		}
		out = append(out, k)
	}
	for _, k := range h.shim {
		if _, ok := seen[k]; !ok {
			out = append(out, k)
		}
	}
	return t.rt.NewArray(out...)
}

// getOwnPropertyDescriptor answers shim keys from the carrier and everything
// else from the backing value. The backing value is created either way.
func (t *trapTable) getOwnPropertyDescriptor(call goja.FunctionCall) goja.Value {
	h := t.handleOf(call.This)
	backing := t.backing(h)
	prop := call.Argument(1)

	target := backing
	if h.isShimKey(prop) {
		target = h.carrier
	}
	desc, err := t.reflect.call(trapGetOwnPropertyDescriptor, target, prop)
	if err != nil {
		throw(t.rt, err)
	}
	return desc
}
