package cli

import (
	stderrors "errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pcoview/internal/tui"
	"github.com/matzehuels/pcoview/pkg/code"
	"github.com/matzehuels/pcoview/pkg/graph"
	"github.com/matzehuels/pcoview/pkg/pipeline"
)

// viewCommand creates the interactive terminal viewer command.
func (c *CLI) viewCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "view [file.pco]",
		Short: "Browse a point file in the terminal",
		Long: `View draws the scheme in the terminal with braille dots.

Keys: +/- zoom, arrows or hjkl pan, 0 reset, t toggle labels, q quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			data, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			opts, err := flags.options(cfg)
			if err != nil {
				return err
			}
			opts.Source = args[0]
			opts.Input = data
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			points, err := pipeline.Read(opts)
			if err != nil {
				return err
			}
			if err := graph.CheckUnique(points); err != nil {
				return err
			}

			err = tui.Run(cmd.Context(), points, viewOptions(opts))
			if stderrors.Is(err, tea.ErrProgramKilled) {
				return cmd.Context().Err()
			}
			return err
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&flags.policy, "policy", "", "connection policy: canonical, legacy")
	fl.StringSliceVar(&flags.hide, "hide", nil, "hidden base codes, replacing the configured list")
	return cmd
}

func viewOptions(opts pipeline.Options) tui.Options {
	rules := opts.Rules()
	if rules == nil {
		rules = code.DefaultRules()
	}
	return tui.Options{Source: opts.Source, Rules: rules, Policy: opts.Policy}
}
