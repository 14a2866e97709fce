package cli

import (
	"context"
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pcoview/pkg/config"
)

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		flags   renderFlags
		asJSON  bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "inspect [file.pco]",
		Short: "Show decoded codes and the connection graph",
		Long: `Inspect decodes every point's code and builds the connection graph
without drawing anything, so it also works on files where every point is
hidden.`,
		Example: `  pcoview inspect site.pco
  pcoview inspect site.pco --policy legacy --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			flags.noCache = noCache
			return c.runInspect(cmd.Context(), cmd.InOrStdin(), args[0], cfg, &flags, asJSON)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&flags.policy, "policy", "", "connection policy: canonical, legacy")
	fl.StringSliceVar(&flags.hide, "hide", nil, "hidden base codes, replacing the configured list")
	fl.BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	fl.BoolVar(&noCache, "no-cache", false, "disable the graph cache")
	return cmd
}

func (c *CLI) runInspect(ctx context.Context, stdin io.Reader, input string, cfg *config.Config, flags *renderFlags, asJSON bool) error {
	data, err := readInput(stdin, input)
	if err != nil {
		return err
	}
	opts, err := flags.options(cfg)
	if err != nil {
		return err
	}
	opts.Source = input
	opts.Input = data
	opts.Logger = c.Logger

	runner, err := c.newRunner(ctx, cfg, flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	ins, err := runner.Inspect(ctx, opts)
	if err != nil {
		return err
	}
	if asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(ins)
	}
	printInspection(ins)
	return nil
}
