// Copyright 2026 The j2 Authors.
// SPDX-License-Identifier: Apache-2.0

// Package script evaluates configured Starlark sources: bare
// expressions and multi-statement scripts for variables, and named
// functions exposed to the template engine as filters.
package script

import (
	"fmt"
	"strings"

	"github.com/k14s/starlark-go/resolve"
	"github.com/k14s/starlark-go/starlark"
	"github.com/k14s/starlark-go/syntax"

	"github.com/yonasBSD/j2/pkg/script/core"
)

func init() {
	// TODO package globals
	resolve.AllowFloat = true
	resolve.AllowSet = true
	resolve.AllowLambda = true
	resolve.AllowNestedDef = true
	resolve.AllowBitwise = true
	resolve.AllowRecursion = true
	resolve.AllowGlobalReassign = true
}

// EvalExpr evaluates source in a fresh environment and returns the
// value of its trailing expression, converted to the Go scalar set.
// Source may be a single expression or a multi-statement script; a
// script with no trailing expression (or no statements at all) yields
// nil. name is used for error attribution only.
func EvalExpr(source, name string) (interface{}, error) {
	prefix, trailing, err := splitTrailingExpr(source, name)
	if err != nil {
		return nil, err
	}

	thread := &starlark.Thread{Name: name}

	globals, err := starlark.ExecFile(thread, name, prefix, nil)
	if err != nil {
		return nil, classifyErr(name, err)
	}

	if trailing == "" {
		return nil, nil
	}

	val, err := starlark.Eval(thread, name, trailing, globals)
	if err != nil {
		return nil, classifyErr(name, err)
	}

	goVal, err := core.NewStarlarkValue(val).AsGoValue()
	if err != nil {
		return nil, Error{Kind: RuntimeFailure, Name: name, Msg: err.Error()}
	}
	return goVal, nil
}

// CompiledFunc is a compiled script function callable with a fixed
// number of positional arguments.
type CompiledFunc struct {
	name string
	fn   *starlark.Function
}

func (f *CompiledFunc) Name() string   { return f.name }
func (f *CompiledFunc) NumParams() int { return f.fn.NumParams() }

// Call invokes the function with positional args, converting in and out
// of the script value space. The arity check happens before the call so
// mismatches are always reported as such.
func (f *CompiledFunc) Call(args []interface{}) (interface{}, error) {
	if len(args) != f.fn.NumParams() {
		return nil, Error{Kind: ArityMismatch, Name: f.name,
			Msg: fmt.Sprintf("expected %d argument(s), got %d", f.fn.NumParams(), len(args))}
	}

	tuple := make(starlark.Tuple, 0, len(args))
	for _, arg := range args {
		val, err := core.NewGoValue(arg).AsStarlarkValue()
		if err != nil {
			return nil, Error{Kind: RuntimeFailure, Name: f.name, Msg: err.Error()}
		}
		tuple = append(tuple, val)
	}

	thread := &starlark.Thread{Name: f.name}

	result, err := starlark.Call(thread, f.fn, tuple, nil)
	if err != nil {
		return nil, Error{Kind: RuntimeFailure, Name: f.name, Msg: err.Error()}
	}

	goVal, err := core.NewStarlarkValue(result).AsGoValue()
	if err != nil {
		return nil, Error{Kind: RuntimeFailure, Name: f.name, Msg: err.Error()}
	}
	return goVal, nil
}

// CompileFunction synthesizes and compiles `def name(params): body`.
// Mirroring expression evaluation, a trailing expression in the body
// becomes the function's return value.
func CompileFunction(name string, params []string, body string) (*CompiledFunc, error) {
	src, err := functionSource(name, params, body)
	if err != nil {
		return nil, err
	}

	thread := &starlark.Thread{Name: name}

	globals, err := starlark.ExecFile(thread, name, src, nil)
	if err != nil {
		return nil, classifyErr(name, err)
	}

	fn, ok := globals[name].(*starlark.Function)
	if !ok {
		return nil, Error{Kind: CompileFailure, Name: name,
			Msg: fmt.Sprintf("expected compiled source to define function '%s'", name)}
	}

	return &CompiledFunc{name: name, fn: fn}, nil
}

func functionSource(name string, params []string, body string) (string, error) {
	prefix, trailing, err := splitTrailingExpr(body, name)
	if err != nil {
		return "", err
	}

	lines := []string{fmt.Sprintf("def %s(%s):", name, strings.Join(params, ", "))}

	bodyEmpty := true
	if strings.TrimSpace(prefix) != "" {
		// Blank lines kept as-is: they may sit inside multi-line strings.
		for _, line := range strings.Split(strings.TrimRight(prefix, "\n"), "\n") {
			lines = append(lines, "    "+line)
		}
		bodyEmpty = false
	}

	if trailing != "" {
		// Parenthesized so multi-line expressions stay valid once indented.
		lines = append(lines, "    return ("+trailing+")")
		bodyEmpty = false
	}
	if bodyEmpty {
		lines = append(lines, "    pass")
	}

	return strings.Join(lines, "\n") + "\n", nil
}

// splitTrailingExpr parses source and, when its last top-level
// statement is an expression, splits the source at that statement's
// line. Top-level statements always start at column one, so a line
// boundary is a safe cut point.
func splitTrailingExpr(source, name string) (prefix, trailing string, err error) {
	if strings.TrimSpace(source) == "" {
		return "", "", nil
	}

	file, err := syntax.Parse(name, source, 0)
	if err != nil {
		return "", "", Error{Kind: CompileFailure, Name: name, Msg: err.Error()}
	}
	if len(file.Stmts) == 0 {
		return "", "", nil
	}

	last, ok := file.Stmts[len(file.Stmts)-1].(*syntax.ExprStmt)
	if !ok {
		return source, "", nil
	}

	start, _ := last.Span()
	offset := lineOffset(source, int(start.Line))
	return source[:offset], strings.TrimRight(source[offset:], "\n"), nil
}

func lineOffset(src string, line int) int {
	offset := 0
	for l := 1; l < line; l++ {
		i := strings.IndexByte(src[offset:], '\n')
		if i < 0 {
			return len(src)
		}
		offset += i + 1
	}
	return offset
}

func classifyErr(name string, err error) error {
	if evalErr, ok := err.(*starlark.EvalError); ok {
		return Error{Kind: RuntimeFailure, Name: name, Msg: evalErr.Msg}
	}
	return Error{Kind: CompileFailure, Name: name, Msg: err.Error()}
}
