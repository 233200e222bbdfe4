package core

import (
	"fmt"

	"github.com/k14s/starlark-go/starlark"
)

// GoValue converts a Go value into its Starlark equivalent. Only the
// scalar boundary types (string, ints, floats, bool, nil) are
// representable; anything else is a conversion error at the seam, never
// a panic.
type GoValue struct {
	val interface{}
}

func NewGoValue(val interface{}) GoValue { return GoValue{val} }

func (e GoValue) AsStarlarkValue() (starlark.Value, error) {
	switch typedVal := e.val.(type) {
	case nil:
		return starlark.None, nil

	case bool:
		return starlark.Bool(typedVal), nil

	case string:
		return starlark.String(typedVal), nil

	case int:
		return starlark.MakeInt(typedVal), nil

	case int64:
		return starlark.MakeInt64(typedVal), nil

	case uint:
		return starlark.MakeUint(typedVal), nil

	case uint64:
		return starlark.MakeUint64(typedVal), nil

	case float64:
		return starlark.Float(typedVal), nil

	default:
		return starlark.None, fmt.Errorf(
			"unsupported type %T for conversion to script value", e.val)
	}
}
