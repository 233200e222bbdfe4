package render

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	cmdcore "github.com/yonasBSD/j2/pkg/cmd/core"
	"github.com/yonasBSD/j2/pkg/config"
	"github.com/yonasBSD/j2/pkg/render"
	"github.com/yonasBSD/j2/pkg/resolve"
	"github.com/yonasBSD/j2/pkg/version"
)

type Options struct {
	TemplatePath string
	ConfigPath   string

	Strict         bool
	CommandTimeout time.Duration
	Workers        int
	Debug          bool
}

func NewOptions() *Options {
	return &Options{}
}

func NewCmd(o *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "render",
		Aliases: []string{"r"},
		Short:   "Render a template with variables and filters produced by the configuration",
		RunE:    func(_ *cobra.Command, _ []string) error { return o.Run() },
	}
	cmd.Flags().StringVarP(&o.TemplatePath, "template", "t", "",
		"Path to the template to render (required)")
	cmd.Flags().StringVar(&o.ConfigPath, "config", "",
		fmt.Sprintf("Path to the configuration (default '%s', falling back to '%s')",
			config.DefaultFileNameYAML, config.DefaultFileNameTOML))
	cmd.Flags().BoolVar(&o.Strict, "strict", false,
		"Fail (exit code 2) when any variable fails to resolve, even if the template rendered")
	cmd.Flags().DurationVar(&o.CommandTimeout, "command-timeout", 0,
		"Per-command timeout for cmd/cmds variables (0 means no limit)")
	cmd.Flags().IntVar(&o.Workers, "workers", 0,
		"Number of concurrent variable resolutions (default number of CPUs)")
	cmd.Flags().BoolVar(&o.Debug, "debug", false, "Enable debug output")
	return cmd
}

func (o *Options) Run() error {
	ui := cmdcore.NewPlainUI(o.Debug)
	t1 := time.Now()

	defer func() {
		ui.Debugf("total: %s\n", time.Since(t1))
	}()

	if o.TemplatePath == "" {
		return fmt.Errorf("expected template path to be non-empty (use --template)")
	}

	cfg, err := config.LoadFile(o.ConfigPath)
	if err != nil {
		return err
	}

	err = cfg.CheckVersion(version.Version)
	if err != nil {
		return err
	}

	templateBs, err := os.ReadFile(o.TemplatePath)
	if err != nil {
		return fmt.Errorf("reading template: %s", err)
	}

	out, failures, err := o.RunWithConfig(context.Background(), cfg, string(templateBs), ui)

	for _, failure := range failures {
		ui.Warnf("j2: Warning: resolving '%s' (%s): %s\n", failure.Name, failure.Backend, failure.Err)
	}

	if err != nil {
		return err
	}

	ui.Printf("%s\n", out)

	if o.Strict && len(failures) > 0 {
		return cmdcore.ExitErr{Code: 2,
			Err: fmt.Errorf("%d variable(s) failed to resolve (strict mode)", len(failures))}
	}

	return nil
}

// RunWithConfig resolves cfg's producers and renders templateSrc.
// Returned failures are per-producer and non-fatal; the error covers
// did-not-render cases only.
func (o *Options) RunWithConfig(ctx context.Context, cfg *config.Config, templateSrc string,
	ui cmdcore.PlainUI) (string, []resolve.Failure, error) {

	t1 := time.Now()

	res := resolve.Resolve(ctx, cfg, resolve.Options{
		Workers:        o.Workers,
		CommandTimeout: o.CommandTimeout,
	})

	ui.Debugf("resolve: %d binding(s), %d filter(s), %d failure(s) in %s\n",
		len(res.Bindings), len(res.Filters), len(res.Failures), time.Since(t1))

	if namedProducers(cfg) > 0 && len(res.Bindings) == 0 && len(res.Failures) > 0 {
		return "", res.Failures, fmt.Errorf("no variables could be resolved")
	}

	out, err := render.Render(templateSrc, res.Bindings, res.Filters)
	if err != nil {
		return "", res.Failures, err
	}

	return out, res.Failures, nil
}

func namedProducers(cfg *config.Config) int {
	count := 0
	for _, spec := range cfg.Vars {
		if spec.Kind() != config.KindFunction && spec.Kind() != config.KindInert && spec.Name != "" {
			count++
		}
	}
	return count
}
