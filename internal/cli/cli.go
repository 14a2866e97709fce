package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pcoview/pkg/buildinfo"
	"github.com/matzehuels/pcoview/pkg/cache"
	"github.com/matzehuels/pcoview/pkg/config"
	"github.com/matzehuels/pcoview/pkg/exports"
	"github.com/matzehuels/pcoview/pkg/observability"
	"github.com/matzehuels/pcoview/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "pcoview"

	// historyFile is the export history file under the data directory.
	historyFile = "exports.jsonl"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "pcoview draws survey point files as connected schemes",
		Long: `pcoview reads land-survey point files (.pco), decodes each point's code,
connects the points the codes link together and draws the result as a
scheme: points, connection lines and labels fitted to a viewport.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/pcoview/config.toml)")

	hooks := observability.NewLogHooks(c.Logger)
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetServerHooks(hooks)

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.exportsCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig resolves the settings for this invocation.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Resolve(c.configPath)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded config", "path", c.configPath)
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.openCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(ch, nil, c.Logger), nil
}

// openCache opens the configured cache. A local cache that cannot be
// located degrades to no caching.
func (c *CLI) openCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil && cfg.Cache.URL == "" {
		c.Logger.Warn("cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.Open(ctx, cfg.Cache.URL, dir)
}

// newExportStore opens the export history: MongoDB when configured, a
// local JSON-lines file otherwise.
func (c *CLI) newExportStore(ctx context.Context, cfg *config.Config) (exports.Store, error) {
	if cfg.History.URL != "" {
		ms, err := exports.NewMongoStore(ctx, cfg.History.URL, cfg.History.Database, cfg.History.Collection)
		if err != nil {
			return nil, err
		}
		return ms, nil
	}
	dir, err := dataDir()
	if err != nil {
		return nil, err
	}
	fs, err := exports.NewFileStore(filepath.Join(dir, historyFile))
	if err != nil {
		return nil, err
	}
	return fs, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/pcoview/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// dataDir returns the data directory using XDG standard
// (~/.local/share/pcoview/).
func dataDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName), nil
}
