// Copyright 2026 The j2 Authors.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"os"

	uierrs "github.com/cppforlife/go-cli-ui/errors"

	"github.com/yonasBSD/j2/pkg/cmd"
	cmdcore "github.com/yonasBSD/j2/pkg/cmd/core"
)

func main() {
	command := cmd.NewDefaultJ2Cmd()

	err := command.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "j2: Error: %s\n", uierrs.NewMultiLineError(err))

		var exitErr cmdcore.ExitErr
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
