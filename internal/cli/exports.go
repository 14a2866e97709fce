package cli

import (
	stderrors "errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pcoview/pkg/exports"
)

// exportsCommand creates the export history command.
func (c *CLI) exportsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exports",
		Short: "Show files written by render",
		Long: `Show the export history. Every file written by render is recorded
unless --no-history is given. The history lives in
$XDG_DATA_HOME/pcoview/exports.jsonl, or in MongoDB when [history] url is set.`,
	}
	cmd.AddCommand(c.exportsLastCommand())
	cmd.AddCommand(c.exportsListCommand())
	return cmd
}

// exportsLastCommand creates the "exports last" subcommand.
func (c *CLI) exportsLastCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "last",
		Short: "Show the most recent export",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			store, err := c.newExportStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			rec, err := store.Last(ctx)
			if stderrors.Is(err, exports.ErrEmpty) {
				printInfo("No exports recorded yet")
				printNextStep("Render a file", "pcoview render site.pco")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, StyleTitle.Render("Last export"))
			printKeyValue("Path", rec.Path)
			printKeyValue("Format", rec.Format)
			if rec.Source != "" {
				printKeyValue("Source", rec.Source)
			}
			printKeyValue("Points", strconv.Itoa(rec.Points))
			printKeyValue("Edges", strconv.Itoa(rec.Edges))
			printKeyValue("Size", formatBytes(rec.Bytes))
			printKeyValue("Written", rec.CreatedAt.Local().Format("2006-01-02 15:04:05"))
			return nil
		},
	}
}

// exportsListCommand creates the "exports list" subcommand.
func (c *CLI) exportsListCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent exports, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			store, err := c.newExportStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.List(ctx, limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				printInfo("No exports recorded yet")
				return nil
			}
			printRecords(records)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of entries, 0 for all")
	return cmd
}
