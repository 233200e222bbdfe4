package core

import (
	"fmt"

	"github.com/k14s/starlark-go/starlark"
)

// StarlarkValue converts a Starlark value back into the Go scalar
// boundary set {string, int64, float64, bool, nil}. Collections are not
// part of the binding value model and are rejected.
type StarlarkValue struct {
	val starlark.Value
}

func NewStarlarkValue(val starlark.Value) StarlarkValue { return StarlarkValue{val} }

func (e StarlarkValue) AsGoValue() (interface{}, error) {
	switch typedVal := e.val.(type) {
	case nil, starlark.NoneType:
		return nil, nil

	case starlark.Bool:
		return bool(typedVal), nil

	case starlark.String:
		return string(typedVal), nil

	case starlark.Int:
		i, ok := typedVal.Int64()
		if !ok {
			return nil, fmt.Errorf("expected int to fit into int64")
		}
		return i, nil

	case starlark.Float:
		return float64(typedVal), nil

	default:
		return nil, fmt.Errorf(
			"unsupported script type %s for conversion to a binding value", e.val.Type())
	}
}

func (e StarlarkValue) AsString() (string, error) {
	if typedVal, ok := e.val.(starlark.String); ok {
		return string(typedVal), nil
	}
	return "", fmt.Errorf("expected string, but was %s", e.val.Type())
}
