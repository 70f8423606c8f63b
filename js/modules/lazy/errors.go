package lazy

import (
	"errors"

	"github.com/dop251/goja"

	"github.com/liuxd6825/k6lazy/js/common"
)

// typeError carries a JS TypeError object through Go error returns.
type typeError struct {
	obj *goja.Object
}

func newTypeError(rt *goja.Runtime, msg string) error {
	return typeError{obj: rt.NewTypeError(msg)}
}

func (e typeError) Error() string {
	return e.obj.String()
}

// throw raises err in the JS runtime. Script exceptions, including the ones a
// factory threw, are rethrown as they are.
func throw(rt *goja.Runtime, err error) {
	var te typeError
	if errors.As(err, &te) {
		panic(te.obj)
	}
	common.Throw(rt, err)
}
