// Copyright 2026 The j2 Authors.
// SPDX-License-Identifier: Apache-2.0

// Package resolve turns declared producers into a binding table and a
// filter table. Value producers run concurrently on a bounded pool;
// the tables are assembled afterwards by a single-threaded merge in
// declaration order, which makes name collisions deterministic
// regardless of scheduling.
package resolve

import (
	"context"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/yonasBSD/j2/pkg/config"
	"github.com/yonasBSD/j2/pkg/process"
	"github.com/yonasBSD/j2/pkg/script"
)

const (
	BackendScript  = "script"
	BackendProcess = "process"
)

// Failure attributes one producer's error without affecting siblings.
type Failure struct {
	Name    string
	Index   int
	Backend string
	Err     error
}

// Result is "complete with failures": whatever resolved is in the
// tables, whatever did not is in Failures. Escalation is the caller's
// policy.
type Result struct {
	Bindings map[string]interface{}
	Filters  map[string]*script.CompiledFunc
	Failures []Failure
}

type Options struct {
	// Workers bounds the concurrent value-producer fan-out.
	// Defaults to NumCPU.
	Workers int

	// Per-command timeout applied by the process backend. Zero means
	// no limit.
	CommandTimeout time.Duration

	// ShuffleDispatch randomizes task start order. Results must not
	// depend on it; tests use it to assert determinism.
	ShuffleDispatch bool
}

type taskResult struct {
	value interface{}
	err   error
	ran   bool
}

// Resolve runs every producer in cfg and assembles the binding and
// filter tables. Function specs compile synchronously up front; value
// specs fan out to the pool. One producer's failure never cancels
// another: all dispatched tasks run to completion.
func Resolve(ctx context.Context, cfg *config.Config, opts Options) Result {
	res := Result{
		Bindings: map[string]interface{}{},
		Filters:  map[string]*script.CompiledFunc{},
	}

	results := make([]taskResult, len(cfg.Vars))

	for idx, spec := range cfg.Vars {
		if spec.Kind() != config.KindFunction {
			continue
		}
		fn, err := script.CompileFunction(spec.Function, spec.ParamNames(), spec.Script)
		if err != nil {
			results[idx] = taskResult{err: err, ran: true}
			continue
		}
		res.Filters[spec.Function] = fn
		results[idx] = taskResult{ran: true}
	}

	runner := process.Runner{Timeout: opts.CommandTimeout}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	sem := make(chan struct{}, workers)

	var wg sync.WaitGroup

	for _, idx := range dispatchOrder(len(cfg.Vars), opts.ShuffleDispatch) {
		spec := cfg.Vars[idx]

		switch spec.Kind() {
		case config.KindScript, config.KindCommand, config.KindCommands:
		default:
			continue
		}

		wg.Add(1)
		sem <- struct{}{}

		go func(idx int, spec config.VarSpec) {
			defer wg.Done()
			defer func() { <-sem }()

			// Each task writes only its own slot; the tables are not
			// touched until after the join.
			val, err := runOne(ctx, runner, cfg, spec)
			results[idx] = taskResult{value: val, err: err, ran: true}
		}(idx, spec)
	}

	wg.Wait()

	// Single-threaded merge in declaration order: the later of two
	// same-name producers wins, independent of completion timing.
	for idx, spec := range cfg.Vars {
		r := results[idx]
		if !r.ran {
			continue
		}
		if r.err != nil {
			res.Failures = append(res.Failures, Failure{
				Name:    spec.DisplayName(idx),
				Index:   idx,
				Backend: backendFor(spec),
				Err:     r.err,
			})
			continue
		}
		if spec.Kind() != config.KindFunction && spec.Name != "" {
			res.Bindings[spec.Name] = r.value
		}
	}

	return res
}

func runOne(ctx context.Context, runner process.Runner, cfg *config.Config, spec config.VarSpec) (interface{}, error) {
	switch spec.Kind() {
	case config.KindScript:
		return script.EvalExpr(spec.Script, spec.Name)

	case config.KindCommand:
		return runner.Run(ctx, shellSpec(cfg, spec, spec.Cmd))

	case config.KindCommands:
		return runner.RunAll(ctx, shellSpec(cfg, spec, ""), spec.Cmds)
	}
	return nil, nil
}

// shellSpec materializes the execution plan before the task runs;
// precedence resolution is pure.
func shellSpec(cfg *config.Config, spec config.VarSpec, cmd string) process.ShellSpec {
	return process.ShellSpec{
		Executable: process.ResolveShell(spec.Shell, cfg.DefaultShell),
		Command:    cmd,
		Env:        spec.Env,
		Dir:        spec.Cwd,
	}
}

func backendFor(spec config.VarSpec) string {
	switch spec.Kind() {
	case config.KindCommand, config.KindCommands:
		return BackendProcess
	default:
		return BackendScript
	}
}

func dispatchOrder(n int, shuffle bool) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	if shuffle {
		rand.Shuffle(n, func(i, j int) { order[i], order[j] = order[j], order[i] })
	}
	return order
}
