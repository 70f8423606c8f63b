package lazy

import (
	"github.com/dop251/goja"
)

type accessorState uint8

const (
	statePending accessorState = iota
	stateRunning
	stateReady
	stateFailed
)

// accessor is the call-once source of a backing value. It starts Pending with
// the factory and its arguments and moves to Ready (or Failed) on the first
// get. Like the runtime it belongs to it must only be used from one goroutine.
type accessor struct {
	rt        *goja.Runtime
	factory   goja.Value
	args      []goja.Value
	construct bool

	state accessorState
	value goja.Value
	err   error

	// onSettle, if set, is told about the single factory invocation.
	onSettle func(err error)
}

func newAccessor(rt *goja.Runtime, factory goja.Value, construct bool, args []goja.Value) *accessor {
	return &accessor{
		rt:        rt,
		factory:   factory,
		args:      append([]goja.Value(nil), args...),
		construct: construct,
	}
}

// get returns the backing value, invoking the factory if this is the first
// call. A failed invocation is never retried, the same error is returned.
func (a *accessor) get() (goja.Value, error) {
	switch a.state {
	case stateReady:
		return a.value, nil
	case stateFailed:
		return nil, a.err
	case stateRunning:
		return nil, newTypeError(a.rt, "lazy value was accessed while its factory was still running")
	}

	a.state = stateRunning
	v, err := a.invoke()
	// the factory and its arguments are not needed any more
	a.factory, a.args = nil, nil
	if err != nil {
		a.state, a.err = stateFailed, err
	} else {
		a.state, a.value = stateReady, v
	}
	if a.onSettle != nil {
		a.onSettle(err)
	}
	return v, err
}

func (a *accessor) invoke() (goja.Value, error) {
	if a.construct {
		obj, err := a.rt.New(a.factory, a.args...)
		if err != nil {
			return nil, err
		}
		return obj, nil
	}
	fn, ok := goja.AssertFunction(a.factory)
	if !ok {
		return nil, newTypeError(a.rt, "lazy factory is not a function")
	}
	return fn(goja.Undefined(), a.args...)
}
