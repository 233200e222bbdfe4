// Copyright 2026 The j2 Authors.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
)

// Config mirrors the structure of the j2.yaml (or j2.toml) file.
type Config struct {
	// Shell used when a variable does not specify one.
	DefaultShell string `yaml:"default_shell" toml:"default_shell"`

	// When set, j2 refuses to run if its own version is older.
	MinimumVersion string `yaml:"minimum_version" toml:"minimum_version"`

	Vars []VarSpec `yaml:"vars" toml:"vars"`
}

// ArgSpec names a single parameter of a script function.
type ArgSpec struct {
	Name string `yaml:"name" toml:"name"`
}

// VarSpec describes one producer: a script variable, a command variable
// (single or multi), or a script function exposed as a template filter.
type VarSpec struct {
	// Name of the variable exposed to the template context.
	// Required for script/cmd/cmds variables; unnamed producers still
	// run but contribute no binding.
	Name string `yaml:"name" toml:"name"`

	// Function name to expose as a template filter. When set, Script is
	// the function body and Arguments its parameter list.
	Function string `yaml:"function" toml:"function"`

	Arguments []ArgSpec `yaml:"arguments" toml:"arguments"`

	// Script source (script variables and function bodies).
	Script string `yaml:"script" toml:"script"`

	// Single shell command to evaluate.
	Cmd string `yaml:"cmd" toml:"cmd"`

	// Multiple shell commands to evaluate and join.
	Cmds []string `yaml:"cmds" toml:"cmds"`

	// Per-variable overrides.
	Shell string            `yaml:"shell" toml:"shell"`
	Cwd   string            `yaml:"cwd" toml:"cwd"`
	Env   map[string]string `yaml:"env" toml:"env"`
}

type VarKind int

const (
	// KindInert producers declare nothing executable; they contribute no
	// binding and run nothing.
	KindInert VarKind = iota
	KindFunction
	KindScript
	KindCommand
	KindCommands
)

// Kind classifies a spec by which of its source fields is populated.
// Function wins over everything else since Script doubles as the body.
func (s VarSpec) Kind() VarKind {
	switch {
	case s.Function != "":
		return KindFunction
	case len(s.Cmds) > 0:
		return KindCommands
	case s.Cmd != "":
		return KindCommand
	case s.Script != "":
		return KindScript
	default:
		return KindInert
	}
}

// ParamNames flattens the declared argument list.
func (s VarSpec) ParamNames() []string {
	var names []string
	for _, arg := range s.Arguments {
		names = append(names, arg.Name)
	}
	return names
}

// DisplayName attributes a spec in error output: its declared name,
// its function name, or its position when unnamed.
func (s VarSpec) DisplayName(idx int) string {
	if s.Function != "" {
		return s.Function
	}
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("vars[%d]", idx)
}

// Validate rejects specs that populate more than one source field
// (a Function spec is exempt: its Script is the body).
func (c *Config) Validate() error {
	for i, spec := range c.Vars {
		if spec.Kind() == KindFunction {
			if spec.Function != "" && spec.Name != "" {
				return fmt.Errorf("vars[%d]: 'function' and 'name' are mutually exclusive", i)
			}
			continue
		}

		populated := 0
		if spec.Script != "" {
			populated++
		}
		if spec.Cmd != "" {
			populated++
		}
		if len(spec.Cmds) > 0 {
			populated++
		}
		if populated > 1 {
			return fmt.Errorf("%s: expected exactly one of script, cmd, cmds", spec.DisplayName(i))
		}
	}
	return nil
}
