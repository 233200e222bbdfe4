// Copyright 2026 The j2 Authors.
// SPDX-License-Identifier: Apache-2.0

// Package render hands resolved bindings and filters to the template
// engine. The engine itself (tag evaluation, loops, conditionals) is
// pongo2; this package owns only the seam.
package render

import (
	"fmt"

	"github.com/flosch/pongo2/v6"

	"github.com/yonasBSD/j2/pkg/script"
)

func init() {
	// Templates are plain text, not HTML.
	pongo2.SetAutoescape(false)
}

// Render renders templateSrc against the binding table, exposing every
// compiled function as a filter under its declared name.
func Render(templateSrc string, bindings map[string]interface{}, filters map[string]*script.CompiledFunc) (string, error) {
	for name, fn := range filters {
		err := registerFilter(name, fn)
		if err != nil {
			return "", fmt.Errorf("registering filter '%s': %s", name, err)
		}
	}

	tpl, err := pongo2.FromString(templateSrc)
	if err != nil {
		return "", fmt.Errorf("compiling template: %s", err)
	}

	out, err := tpl.Execute(pongo2.Context(bindings))
	if err != nil {
		return "", fmt.Errorf("rendering template: %s", err)
	}

	return out, nil
}

// registerFilter wraps a compiled function as a pongo2 filter. pongo2's
// filter registry is process-global; re-registration replaces the
// previous binding so each render invocation sees its own functions.
func registerFilter(name string, fn *script.CompiledFunc) error {
	adapted := adapt(name, fn)
	if pongo2.FilterExists(name) {
		return pongo2.ReplaceFilter(name, adapted)
	}
	return pongo2.RegisterFilter(name, adapted)
}

// adapt translates between template values and script values around a
// compiled function call. Filters run lazily: none of this executes
// unless the template references the filter. The piped-in value is the
// first argument; the filter parameter, when given, is the second.
func adapt(name string, fn *script.CompiledFunc) pongo2.FilterFunction {
	return func(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		args := []interface{}{in.Interface()}
		if !param.IsNil() {
			args = append(args, param.Interface())
		}

		result, err := fn.Call(args)
		if err != nil {
			return nil, &pongo2.Error{Sender: "filter:" + name, OrigError: err}
		}

		return pongo2.AsValue(result), nil
	}
}
