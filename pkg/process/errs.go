// Copyright 2026 The j2 Authors.
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"fmt"
	"strings"
)

type ErrorKind int

const (
	SpawnFailure ErrorKind = iota
	NonZeroExit
	Timeout
)

// Error is the process backend's error type. Index is the position of
// the failed command within a multi-command producer (-1 otherwise).
type Error struct {
	Kind   ErrorKind
	Code   int
	Stderr string
	Index  int
	Msg    string
}

var _ error = Error{}

func (e Error) Error() string {
	var desc string
	switch e.Kind {
	case SpawnFailure:
		desc = fmt.Sprintf("spawning shell: %s", e.Msg)
	case NonZeroExit:
		desc = fmt.Sprintf("command exited with code %d", e.Code)
		if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
			desc += fmt.Sprintf(": %s", stderr)
		}
	case Timeout:
		desc = fmt.Sprintf("command timed out: %s", e.Msg)
	default:
		desc = e.Msg
	}
	if e.Index >= 0 {
		return fmt.Sprintf("cmds[%d]: %s", e.Index, desc)
	}
	return desc
}
