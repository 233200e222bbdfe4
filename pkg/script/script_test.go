// Copyright 2026 The j2 Authors.
// SPDX-License-Identifier: Apache-2.0

package script_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yonasBSD/j2/pkg/script"
)

func TestEvalExprScalars(t *testing.T) {
	tests := []struct {
		source   string
		expected interface{}
	}{
		{`"alice"`, "alice"},
		{`1 + 2`, int64(3)},
		{`1.5 * 2`, float64(3.0)},
		{`1 < 2`, true},
		{`None`, nil},
		{`"a" + "b"`, "ab"},
	}

	for _, test := range tests {
		val, err := script.EvalExpr(test.source, "x")
		require.NoError(t, err, "source: %s", test.source)
		require.Equal(t, test.expected, val, "source: %s", test.source)
	}
}

func TestEvalExprEmptySourceYieldsNil(t *testing.T) {
	val, err := script.EvalExpr("", "x")
	require.NoError(t, err)
	require.Nil(t, val)

	val, err = script.EvalExpr("   \n  ", "x")
	require.NoError(t, err)
	require.Nil(t, val)
}

func TestEvalExprMultiStatement(t *testing.T) {
	source := `
base = "v"
major = 1
base + str(major)
`
	val, err := script.EvalExpr(source, "tag")
	require.NoError(t, err)
	require.Equal(t, "v1", val)
}

func TestEvalExprMultiStatementWithoutTrailingExpr(t *testing.T) {
	val, err := script.EvalExpr("x = 41\ny = x + 1\n", "x")
	require.NoError(t, err)
	require.Nil(t, val)
}

func TestEvalExprCompileFailure(t *testing.T) {
	_, err := script.EvalExpr(`"unterminated`, "bad")

	var scriptErr script.Error
	require.ErrorAs(t, err, &scriptErr)
	require.Equal(t, script.CompileFailure, scriptErr.Kind)
	require.Equal(t, "bad", scriptErr.Name)
}

func TestEvalExprRuntimeFailure(t *testing.T) {
	_, err := script.EvalExpr(`"abc".not_a_method()`, "bad")

	var scriptErr script.Error
	require.ErrorAs(t, err, &scriptErr)
	require.Equal(t, script.RuntimeFailure, scriptErr.Kind)
}

func TestEvalExprUnsupportedResultType(t *testing.T) {
	_, err := script.EvalExpr(`[1, 2, 3]`, "list")

	var scriptErr script.Error
	require.ErrorAs(t, err, &scriptErr)
	require.Equal(t, script.RuntimeFailure, scriptErr.Kind)
}

func TestCompileFunctionAndCall(t *testing.T) {
	fn, err := script.CompileFunction("shout", []string{"val"}, `val.upper() + "!"`)
	require.NoError(t, err)
	require.Equal(t, "shout", fn.Name())
	require.Equal(t, 1, fn.NumParams())

	result, err := fn.Call([]interface{}{"hey"})
	require.NoError(t, err)
	require.Equal(t, "HEY!", result)
}

func TestCompileFunctionMultiStatementBody(t *testing.T) {
	body := `
prefix = "v"
prefix + str(val)
`
	fn, err := script.CompileFunction("tag", []string{"val"}, body)
	require.NoError(t, err)

	result, err := fn.Call([]interface{}{int64(2)})
	require.NoError(t, err)
	require.Equal(t, "v2", result)
}

func TestCompileFunctionEmptyBody(t *testing.T) {
	fn, err := script.CompileFunction("noop", nil, "")
	require.NoError(t, err)
	require.Equal(t, 0, fn.NumParams())

	result, err := fn.Call(nil)
	require.NoError(t, err)
	require.Nil(t, result)
}

func TestCompileFunctionCompileFailure(t *testing.T) {
	_, err := script.CompileFunction("bad", nil, `def nested(`)

	var scriptErr script.Error
	require.ErrorAs(t, err, &scriptErr)
	require.Equal(t, script.CompileFailure, scriptErr.Kind)
}

func TestCallArityMismatch(t *testing.T) {
	fn, err := script.CompileFunction("once", []string{"a"}, `a`)
	require.NoError(t, err)

	_, err = fn.Call([]interface{}{"x", "y"})

	var scriptErr script.Error
	require.ErrorAs(t, err, &scriptErr)
	require.Equal(t, script.ArityMismatch, scriptErr.Kind)
	require.Equal(t, "once", scriptErr.Name)

	_, err = fn.Call(nil)
	require.ErrorAs(t, err, &scriptErr)
	require.Equal(t, script.ArityMismatch, scriptErr.Kind)
}

func TestCallZeroParams(t *testing.T) {
	fn, err := script.CompileFunction("answer", nil, `42`)
	require.NoError(t, err)

	result, err := fn.Call(nil)
	require.NoError(t, err)
	require.Equal(t, int64(42), result)

	_, err = fn.Call([]interface{}{"extra"})
	var scriptErr script.Error
	require.ErrorAs(t, err, &scriptErr)
	require.Equal(t, script.ArityMismatch, scriptErr.Kind)
}

func TestCallRuntimeFailure(t *testing.T) {
	fn, err := script.CompileFunction("div", []string{"a"}, `1 // a`)
	require.NoError(t, err)

	_, err = fn.Call([]interface{}{int64(0)})

	var scriptErr script.Error
	require.ErrorAs(t, err, &scriptErr)
	require.Equal(t, script.RuntimeFailure, scriptErr.Kind)
}

func TestCallUnsupportedArgType(t *testing.T) {
	fn, err := script.CompileFunction("id", []string{"a"}, `a`)
	require.NoError(t, err)

	_, err = fn.Call([]interface{}{struct{}{}})

	var scriptErr script.Error
	require.ErrorAs(t, err, &scriptErr)
	require.Equal(t, script.RuntimeFailure, scriptErr.Kind)
}
