package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/pcoview/internal/server"
	"github.com/matzehuels/pcoview/pkg/cache"
	"github.com/matzehuels/pcoview/pkg/pipeline"
)

// apiCachePrefix keeps API cache entries apart from CLI ones when both
// share a Redis instance.
const apiCachePrefix = "api:"

// serveCommand creates the HTTP API command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP rendering API",
		Long: `Serve exposes the pipeline over HTTP:

  GET  /healthz
  POST /v1/render?format=svg&width=800&height=600&policy=canonical
  POST /v1/inspect

Request bodies are .pco files. Defaults come from the config file.`,
		Example: `  pcoview serve --addr :9000
  curl --data-binary @site.pco 'localhost:9000/v1/render?format=png' > site.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}
			defaults, err := cfg.PipelineOptions()
			if err != nil {
				return err
			}
			ch, err := c.openCache(ctx, cfg, noCache)
			if err != nil {
				return err
			}
			runner := pipeline.NewRunner(ch, cache.NewScopedKeyer(nil, apiCachePrefix), c.Logger)
			defer runner.Close()

			printInfo("Listening on %s", addr)
			return server.New(runner, defaults, c.Logger).ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")
	return cmd
}
