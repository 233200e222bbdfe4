// Copyright 2026 The j2 Authors.
// SPDX-License-Identifier: Apache-2.0

package process_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/require"

	"github.com/yonasBSD/j2/pkg/process"
)

func TestResolveShellPrecedence(t *testing.T) {
	require.Equal(t, "zsh", process.ResolveShell("zsh", "bash"))
	require.Equal(t, "bash", process.ResolveShell("", "bash"))
	require.Equal(t, process.FallbackShell, process.ResolveShell("", ""))
}

func TestRunTrimsTrailingWhitespaceOnly(t *testing.T) {
	runner := process.Runner{}

	out, err := runner.Run(context.Background(), shSpec(`printf 'alice\n'`))
	require.NoError(t, err)
	require.Equal(t, "alice", out)

	out, err = runner.Run(context.Background(), shSpec(`printf 'line1\nline2\n'`))
	require.NoError(t, err)
	require.Equal(t, "line1\nline2", out)

	out, err = runner.Run(context.Background(), shSpec(`printf '  indented\n'`))
	require.NoError(t, err)
	require.Equal(t, "  indented", out)
}

func TestRunPassesUnicodeThrough(t *testing.T) {
	runner := process.Runner{}

	out, err := runner.Run(context.Background(), shSpec(`printf 'héllo wörld ✓\n'`))
	require.NoError(t, err)
	require.Equal(t, "héllo wörld ✓", out)
}

func TestRunNonZeroExit(t *testing.T) {
	runner := process.Runner{}

	_, err := runner.Run(context.Background(), shSpec(`echo oops >&2; exit 3`))

	var procErr process.Error
	require.ErrorAs(t, err, &procErr)
	require.Equal(t, process.NonZeroExit, procErr.Kind)
	require.Equal(t, 3, procErr.Code)
	require.Contains(t, procErr.Stderr, "oops")
}

func TestRunSpawnFailure(t *testing.T) {
	runner := process.Runner{}

	_, err := runner.Run(context.Background(), process.ShellSpec{
		Executable: "definitely-not-a-shell-binary",
		Command:    "echo hi",
	})

	var procErr process.Error
	require.ErrorAs(t, err, &procErr)
	require.Equal(t, process.SpawnFailure, procErr.Kind)
}

func TestRunTimeout(t *testing.T) {
	runner := process.Runner{Timeout: 50 * time.Millisecond}

	_, err := runner.Run(context.Background(), shSpec(`sleep 5`))

	var procErr process.Error
	require.ErrorAs(t, err, &procErr)
	require.Equal(t, process.Timeout, procErr.Kind)
}

func TestRunEnvMergesOverAmbient(t *testing.T) {
	t.Setenv("J2_TEST_AMBIENT", "ambient")

	runner := process.Runner{}
	spec := shSpec(`printf '%s %s' "$J2_TEST_AMBIENT" "$J2_TEST_OVERRIDE"`)
	spec.Env = map[string]string{"J2_TEST_OVERRIDE": "override"}

	out, err := runner.Run(context.Background(), spec)
	require.NoError(t, err)
	require.Equal(t, "ambient override", out)
}

func TestRunCwd(t *testing.T) {
	dir := t.TempDir()
	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)

	runner := process.Runner{}
	spec := shSpec(`pwd`)
	spec.Dir = dir

	out, err := runner.Run(context.Background(), spec)
	require.NoError(t, err)
	require.Equal(t, resolved, out)
}

func TestRunAllJoinsWithNewline(t *testing.T) {
	runner := process.Runner{}

	out, err := runner.RunAll(context.Background(), shSpec(""), []string{"echo a", "echo b"})
	require.NoError(t, err)
	require.Equal(t, "a\nb", out)
}

func TestRunAllShortCircuitsWithIndex(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "third-ran")

	runner := process.Runner{}
	cmds := []string{"echo first", "exit 7", "touch " + marker}

	_, err := runner.RunAll(context.Background(), shSpec(""), cmds)

	var procErr process.Error
	require.ErrorAs(t, err, &procErr)
	require.Equal(t, process.NonZeroExit, procErr.Kind)
	require.Equal(t, 7, procErr.Code)
	require.Equal(t, 1, procErr.Index)
	require.Contains(t, procErr.Error(), "cmds[1]")

	_, statErr := os.Stat(marker)
	require.True(t, os.IsNotExist(statErr), "third command should not have run")
}

func TestTrimTrailingInvariants(t *testing.T) {
	f := fuzz.New().NumElements(0, 20)

	for i := 0; i < 100; i++ {
		var body string
		f.Fuzz(&body)
		body = strings.TrimRightFunc(body, unicode.IsSpace)

		for _, suffix := range []string{"", "\n", "  \n\t ", "\r\n", " "} {
			trimmed := process.TrimTrailing(body + suffix)
			require.Equal(t, body, trimmed)
		}
	}
}

func shSpec(cmd string) process.ShellSpec {
	return process.ShellSpec{Executable: "sh", Command: cmd}
}
