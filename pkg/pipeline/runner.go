package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pcoview/pkg/cache"
	"github.com/matzehuels/pcoview/pkg/graph"
	"github.com/matzehuels/pcoview/pkg/observability"
	"github.com/matzehuels/pcoview/pkg/pco"
	"github.com/matzehuels/pcoview/pkg/scene"
)

// Runner executes the pipeline with caching. It holds no per-run state, so
// one Runner may serve concurrent requests with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching and a nil keyer
// selects cache.DefaultKeyer.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs read → assemble → render. An input with nothing to draw
// fails with an error wrapping layout.ErrNoLayout.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()

	result := &Result{InputHash: cache.Hash(opts.Input)}

	// Stage 1: Read
	start := time.Now()
	hooks.OnReadStart(ctx, opts.Source)
	points, err := Read(opts)
	result.Stats.ReadTime = time.Since(start)
	hooks.OnReadComplete(ctx, opts.Source, len(points), result.Stats.ReadTime, err)
	if err != nil {
		return nil, err
	}
	result.Points = points
	result.Stats.Points = len(points)

	// Stage 2: Assemble
	start = time.Now()
	hooks.OnAssembleStart(ctx, len(points))
	s, err := Assemble(points, opts.Width, opts.Height, opts)
	result.Stats.AssembleTime = time.Since(start)
	if err != nil {
		hooks.OnAssembleComplete(ctx, 0, 0, result.Stats.AssembleTime, err)
		return nil, err
	}
	hooks.OnAssembleComplete(ctx, len(s.Points), len(s.Edges), result.Stats.AssembleTime, nil)
	result.Scene = s
	result.Stats.Visible = len(s.Points)
	result.Stats.Hidden = s.Hidden
	result.Stats.Edges = len(s.Edges)

	opts.Logger.Info("assembled scene",
		"source", sourceName(opts),
		"points", len(points),
		"visible", len(s.Points),
		"edges", len(s.Edges),
		"duration", result.Stats.AssembleTime)

	// Stage 3: Render
	start = time.Now()
	hooks.OnRenderStart(ctx, opts.Formats)
	artifacts, info, err := r.RenderWithCacheInfo(ctx, result.InputHash, points, s, opts)
	result.Stats.RenderTime = time.Since(start)
	hooks.OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.CacheInfo = info

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", len(info.Hits),
		"duration", result.Stats.RenderTime)

	return result, nil
}

// RenderWithCacheInfo renders every requested format, serving what it can
// from the cache and rendering only the rest.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, inputHash string, points []pco.Point, s *scene.Scene, opts Options) (map[string][]byte, CacheInfo, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, CacheInfo{}, err
	}
	cacheHooks := observability.Cache()

	artifacts := make(map[string][]byte, len(opts.Formats))
	var info CacheInfo
	var missing []string
	for _, format := range opts.Formats {
		if !opts.Refresh {
			key := r.Keyer.ArtifactKey(inputHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				cacheHooks.OnCacheHit(ctx, "artifact")
				artifacts[format] = data
				info.Hits = append(info.Hits, format)
				continue
			} else if err != nil {
				opts.Logger.Warn("cache read failed", "format", format, "err", err)
			}
			cacheHooks.OnCacheMiss(ctx, "artifact")
		}
		missing = append(missing, format)
	}
	info.RenderHit = len(missing) == 0
	if info.RenderHit {
		return artifacts, info, nil
	}

	rendered, err := Render(ctx, points, s, missing, opts)
	if err != nil {
		return nil, info, err
	}
	for format, data := range rendered {
		artifacts[format] = data
		key := r.Keyer.ArtifactKey(inputHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			opts.Logger.Warn("cache write failed", "format", format, "err", err)
			continue
		}
		cacheHooks.OnCacheSet(ctx, "artifact", len(data))
	}
	return artifacts, info, nil
}

// BuildGraph returns the connection graph of the input without laying it
// out. The graph is cached by input hash, policy and hidden codes.
func (r *Runner) BuildGraph(ctx context.Context, points []pco.Point, inputHash string, opts Options) (*graph.Graph, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	cacheHooks := observability.Cache()
	key := r.Keyer.GraphKey(inputHash, opts.GraphKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if g, err := graph.Unmarshal(data); err == nil {
				cacheHooks.OnCacheHit(ctx, "graph")
				return g, true, nil
			}
		}
		cacheHooks.OnCacheMiss(ctx, "graph")
	}

	if err := graph.CheckUnique(points); err != nil {
		return nil, false, err
	}
	g, err := graph.Build(points, graph.VisibleBy(opts.rules), graph.WithPolicy(opts.Policy))
	if err != nil {
		return nil, false, err
	}
	if data, err := graph.Marshal(g); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLGraph); err == nil {
			cacheHooks.OnCacheSet(ctx, "graph", len(data))
		}
	}
	return g, false, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
