package cmd

import (
	"github.com/cppforlife/cobrautil"
	"github.com/spf13/cobra"

	cmdrender "github.com/yonasBSD/j2/pkg/cmd/render"
	"github.com/yonasBSD/j2/pkg/version"
)

type J2Options struct{}

func NewDefaultJ2Options() *J2Options {
	return &J2Options{}
}

func NewDefaultJ2Cmd() *cobra.Command {
	return NewJ2Cmd(NewDefaultJ2Options())
}

func NewJ2Cmd(o *J2Options) *cobra.Command {
	cmd := cmdrender.NewCmd(cmdrender.NewOptions())

	cmd.Use = "j2"
	cmd.Aliases = nil
	cmd.Version = version.Version
	cmd.Short = "j2 renders templates from configured variables"
	cmd.Long = `j2 renders a template whose variables and filters are produced by the
declarative configuration (j2.yaml): inline scripts, shell commands, and
script functions exposed as template filters.`

	// Affects children as well
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	// Disable docs header
	cmd.DisableAutoGenTag = true

	cmd.AddCommand(NewVersionCmd(NewVersionOptions()))
	cmd.AddCommand(cmdrender.NewCmd(cmdrender.NewOptions()))

	// Reconfigure Commands
	cobrautil.VisitCommands(cmd, cobrautil.ReconfigureCmdWithSubcmd,
		cobrautil.DisallowExtraArgs, cobrautil.WrapRunEForCmd(cobrautil.ResolveFlagsForCmd))

	return cmd
}
