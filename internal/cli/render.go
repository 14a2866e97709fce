package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pcoview/pkg/config"
	"github.com/matzehuels/pcoview/pkg/errors"
	"github.com/matzehuels/pcoview/pkg/exports"
	"github.com/matzehuels/pcoview/pkg/graph"
	"github.com/matzehuels/pcoview/pkg/layout"
	"github.com/matzehuels/pcoview/pkg/pipeline"
)

// stdinName is the input argument that reads from standard input.
const stdinName = "-"

// renderFlags holds the command-line flags shared by render, inspect and
// view. Zero values leave the config setting alone.
type renderFlags struct {
	output    string
	formats   string
	width     float64
	height    float64
	style     string
	policy    string
	hide      []string
	page      string
	scale     float64
	engine    string
	detailed  bool
	title     string
	noCache   bool
	refresh   bool
	noHistory bool
}

func (f *renderFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.output, "output", "o", "", "output file (single format) or base path (multiple)")
	fl.StringVarP(&f.formats, "format", "f", "", "output format(s): "+strings.Join(pipeline.Formats, ", ")+" (comma-separated)")
	f.registerScene(cmd)
	fl.StringVar(&f.style, "style", "", "style preset: scheme, print, mono")
	fl.StringVar(&f.page, "page", "", "PDF page: a4, a3, letter, with optional -landscape")
	fl.Float64Var(&f.scale, "scale", 0, "PNG pixel density")
	fl.StringVar(&f.engine, "engine", "", "layout engine for nodelink output: neato, fdp, circo")
	fl.BoolVar(&f.detailed, "detailed", false, "show point codes in dot/nodelink output")
	fl.StringVar(&f.title, "title", "", "document title (svg, pdf)")
	fl.BoolVar(&f.noCache, "no-cache", false, "disable the artifact cache")
	fl.BoolVar(&f.refresh, "refresh", false, "re-render even when cached")
	fl.BoolVar(&f.noHistory, "no-history", false, "do not record written files in the export history")
}

// registerScene adds the flags that change the scene itself.
func (f *renderFlags) registerScene(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.Float64Var(&f.width, "width", 0, "viewport width (default from config, 800)")
	fl.Float64Var(&f.height, "height", 0, "viewport height (default from config, 600)")
	fl.StringVar(&f.policy, "policy", "", "connection policy: canonical, legacy")
	fl.StringSliceVar(&f.hide, "hide", nil, "hidden base codes, replacing the configured list")
}

// options builds pipeline options from cfg with the flags applied on top.
func (f *renderFlags) options(cfg *config.Config) (pipeline.Options, error) {
	opts, err := cfg.PipelineOptions()
	if err != nil {
		return opts, err
	}
	if f.width != 0 {
		opts.Width = f.width
	}
	if f.height != 0 {
		opts.Height = f.height
	}
	if f.policy != "" {
		if opts.Policy, err = graph.ParsePolicy(f.policy); err != nil {
			return opts, err
		}
	}
	if f.hide != nil {
		opts.Hidden = f.hide
	}
	if f.formats != "" {
		opts.Formats = pipeline.ParseFormats(f.formats)
	}
	if f.style != "" {
		opts.Style = f.style
	}
	if f.page != "" {
		opts.Page = f.page
	}
	if f.scale != 0 {
		opts.Scale = f.scale
	}
	if f.engine != "" {
		opts.Engine = f.engine
	}
	opts.Detailed = f.detailed
	opts.Title = f.title
	opts.Refresh = f.refresh
	return opts, nil
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render [file.pco]",
		Short: "Render a point file to SVG, PNG, PDF, JSON or DOT",
		Long: `Render a point file as a scheme.

Without --output the files are written next to the input (site.pco becomes
site.svg). With several formats --output is used as the base path. Use "-"
to read from standard input; --output is then required.`,
		Example: `  pcoview render site.pco
  pcoview render site.pco -f svg,pdf --page a3-landscape
  pcoview render site.pco -f nodelink --detailed
  cat site.pco | pcoview render - -o plan.png --scale 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), cmd.InOrStdin(), args[0], cfg, &flags)
		},
	}
	flags.register(cmd)
	return cmd
}

func (c *CLI) runRender(ctx context.Context, stdin io.Reader, input string, cfg *config.Config, flags *renderFlags) error {
	if input == stdinName && flags.output == "" {
		return errors.New(errors.ErrCodeInvalidPath, "--output is required when reading from stdin")
	}
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
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg, flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinner(ctx, os.Stderr, "Rendering "+input)
	spinner.Start()
	result, err := runner.Execute(ctx, opts)
	spinner.Stop()
	if stderrors.Is(err, layout.ErrNoLayout) {
		printWarning("Nothing to draw")
		printDetail("Every point is hidden or the viewport is too small for the labels.")
	}
	if err != nil {
		return err
	}
	prog.done("Rendered " + input)

	paths := outputPaths(flags.output, input, opts.Formats)
	var written []string
	for _, format := range opts.Formats {
		path := paths[format]
		if err := writeFile(path, result.Artifacts[format]); err != nil {
			return err
		}
		written = append(written, path)
	}

	printSuccess("Rendered %s", input)
	printStats(result.Stats, result.CacheInfo.RenderHit)
	for _, p := range written {
		printFile(p)
	}
	if input != stdinName {
		printNewline()
		printNextStep("Browse it in the terminal", "pcoview view "+input)
	}

	if !flags.noHistory {
		c.recordExports(ctx, cfg, opts, result, paths)
	}
	return nil
}

// recordExports appends the written files to the export history. Failures
// are logged, not returned: the files are already on disk.
func (c *CLI) recordExports(ctx context.Context, cfg *config.Config, opts pipeline.Options, result *pipeline.Result, paths map[string]string) {
	store, err := c.newExportStore(ctx, cfg)
	if err != nil {
		c.Logger.Warn("export history unavailable", "err", err)
		return
	}
	defer store.Close()

	for _, format := range opts.Formats {
		path := paths[format]
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		rec := exports.NewRecord(path, opts.Source, format, result.Stats.Visible, result.Stats.Edges, len(result.Artifacts[format]))
		if err := store.Add(ctx, rec); err != nil {
			c.Logger.Warn("record export", "path", path, "err", err)
			return
		}
	}
}

// readInput reads the named file, or stdin for "-".
func readInput(stdin io.Reader, name string) ([]byte, error) {
	if name == stdinName {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read stdin")
		}
		return data, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "input file %s not found", name)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", name)
	}
	return data, nil
}

// basePath derives the base output path. Without an output it strips the
// extension from input; an output carrying a known format extension loses
// that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	if strings.HasSuffix(output, pipeline.Extension(pipeline.FormatNodelink)) {
		return strings.TrimSuffix(output, pipeline.Extension(pipeline.FormatNodelink))
	}
	ext := filepath.Ext(output)
	if slices.Contains(pipeline.Formats, strings.TrimPrefix(ext, ".")) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPaths maps every format to its file. A single format with an
// explicit output writes exactly there.
func outputPaths(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + pipeline.Extension(f)
	}
	return paths
}

func writeFile(path string, data []byte) error {
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
