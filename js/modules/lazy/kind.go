package lazy

import (
	"fmt"
	"strings"

	"github.com/dop251/goja"
)

// Kind is the shape of backing value a creation function is specialized for.
// It decides the empty carrier the proxy is built around and whether the
// factory is always invoked as a constructor.
type Kind uint8

// The supported backing-value kinds.
const (
	KindCallable Kind = iota // generic callable, `() => {}` carrier
	KindFunction             // named function, `function () {}` carrier
	KindObject               // plain object, `{}` carrier
	KindClass                // constructible, `{}` carrier, always `new`
)

type kindInfo struct {
	name string
	// source evaluates to a function returning a fresh empty carrier.
	source    string
	construct bool
}

//nolint:gochecknoglobals
var kinds = [...]kindInfo{
	KindCallable: {name: "arrow", source: `(function () { return () => {}; })`},
	KindFunction: {name: "func", source: `(function () { return function () {}; })`},
	KindObject:   {name: "obj", source: `(function () { return {}; })`},
	KindClass:    {name: "class", source: `(function () { return {}; })`, construct: true},
}

// carrierPrograms are compiled once; a *goja.Program can be run by any runtime.
//
//nolint:gochecknoglobals
var carrierPrograms = func() [len(kinds)]*goja.Program {
	var progs [len(kinds)]*goja.Program
	for k, info := range kinds {
		progs[k] = goja.MustCompile("k6/x/lazy/"+info.name+".js", info.source, true)
	}
	return progs
}()

// Kinds returns every supported kind, in registry order.
func Kinds() []Kind {
	return []Kind{KindCallable, KindFunction, KindObject, KindClass}
}

func (k Kind) String() string {
	if int(k) < len(kinds) {
		return kinds[k].name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ForcesConstruct reports whether the factory of this kind is always invoked
// with constructor semantics.
func (k Kind) ForcesConstruct() bool {
	return int(k) < len(kinds) && kinds[k].construct
}

// ParseKind returns the kind with the given export name.
func ParseKind(name string) (Kind, error) {
	for k, info := range kinds {
		if strings.EqualFold(info.name, name) {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown lazy kind %q", name)
}

// carrierMaker returns a callable producing fresh empty carriers of kind k
// inside rt.
func carrierMaker(rt *goja.Runtime, k Kind) (goja.Callable, error) {
	v, err := rt.RunProgram(carrierPrograms[k])
	if err != nil {
		return nil, err
	}
	fn, ok := goja.AssertFunction(v)
	if !ok {
		return nil, fmt.Errorf("carrier source for %s is not a function", k)
	}
	return fn, nil
}
