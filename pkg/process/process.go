// Copyright 2026 The j2 Authors.
// SPDX-License-Identifier: Apache-2.0

// Package process executes configured shell commands and normalizes
// their output into binding values.
package process

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"
	"unicode"
)

// FallbackShell is used when neither the producer nor the global config
// names one.
const FallbackShell = "sh"

// ResolveShell applies the three-level shell precedence: per-producer
// override, then the config's default, then the fixed fallback. Pure;
// resolved before dispatch.
func ResolveShell(perVar, global string) string {
	if perVar != "" {
		return perVar
	}
	if global != "" {
		return global
	}
	return FallbackShell
}

// ShellSpec is the fully materialized execution plan for one command:
// which shell runs it, with what environment, from where.
type ShellSpec struct {
	Executable string
	Command    string
	Env        map[string]string
	Dir        string
}

// Runner executes shell specs. A zero Timeout means no limit.
type Runner struct {
	Timeout time.Duration
}

// Run executes spec's command through its shell and returns stdout with
// trailing whitespace trimmed. Leading and internal whitespace is
// preserved; output bytes are passed through as-is otherwise.
func (r Runner) Run(ctx context.Context, spec ShellSpec) (string, error) {
	out, err := r.runOne(ctx, spec, spec.Command)
	if err != nil {
		var procErr Error
		if errors.As(err, &procErr) {
			procErr.Index = -1
			return "", procErr
		}
		return "", err
	}
	return out, nil
}

// RunAll executes cmds sequentially against the same base spec and
// joins their outputs with a single newline. The first failure
// short-circuits the rest and carries that command's index.
func (r Runner) RunAll(ctx context.Context, base ShellSpec, cmds []string) (string, error) {
	var outputs []string
	for i, cmd := range cmds {
		out, err := r.runOne(ctx, base, cmd)
		if err != nil {
			var procErr Error
			if errors.As(err, &procErr) {
				procErr.Index = i
				return "", procErr
			}
			return "", err
		}
		outputs = append(outputs, out)
	}
	return strings.Join(outputs, "\n"), nil
}

func (r Runner) runOne(ctx context.Context, spec ShellSpec, cmdStr string) (string, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, spec.Executable, "-c", cmdStr)

	if spec.Dir != "" {
		cmd.Dir = spec.Dir
	}

	// Overrides merge over the ambient environment, never replace it.
	cmd.Env = os.Environ()
	for k, v := range spec.Env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", Error{Kind: Timeout, Msg: cmdStr}
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", Error{Kind: NonZeroExit, Code: exitErr.ExitCode(), Stderr: stderr.String()}
		}
		return "", Error{Kind: SpawnFailure, Msg: err.Error()}
	}

	return TrimTrailing(stdout.String()), nil
}

// TrimTrailing removes trailing whitespace only; leading and internal
// whitespace is part of the value.
func TrimTrailing(s string) string {
	return strings.TrimRightFunc(s, unicode.IsSpace)
}
