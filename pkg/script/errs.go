// Copyright 2026 The j2 Authors.
// SPDX-License-Identifier: Apache-2.0

package script

import (
	"fmt"
)

type ErrorKind int

const (
	CompileFailure ErrorKind = iota
	RuntimeFailure
	ArityMismatch
)

func (k ErrorKind) String() string {
	switch k {
	case CompileFailure:
		return "compile failure"
	case RuntimeFailure:
		return "runtime failure"
	case ArityMismatch:
		return "arity mismatch"
	}
	return "unknown"
}

// Error is the script backend's error type. Name attributes the error
// to the producer or filter it came from.
type Error struct {
	Kind ErrorKind
	Name string
	Msg  string
}

var _ error = Error{}

func (e Error) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("script %s: %s", e.Kind, e.Msg)
	}
	return fmt.Sprintf("script %s in '%s': %s", e.Kind, e.Name, e.Msg)
}
