package pipeline

import (
	"context"

	"github.com/matzehuels/pcoview/pkg/cache"
	"github.com/matzehuels/pcoview/pkg/graph"
)

// Inspection is the decoded form of an input: every point with its parsed
// code, plus the connection graph.
type Inspection struct {
	Source   string           `json:"source,omitempty"`
	Policy   string           `json:"policy"`
	Points   []InspectedPoint `json:"points"`
	Graph    *graph.Graph     `json:"graph"`
	CacheHit bool             `json:"-"`
}

// InspectedPoint is one point with its decoded code.
type InspectedPoint struct {
	Number           int      `json:"number"`
	Code             string   `json:"code"`
	Base             string   `json:"base"`
	ChainsToPrevious bool     `json:"chains_to_previous,omitempty"`
	Targets          []int    `json:"targets,omitempty"`
	Resolved         []int    `json:"resolved,omitempty"`
	Hidden           bool     `json:"hidden,omitempty"`
	X                float64  `json:"x"`
	Y                float64  `json:"y"`
	Z                *float64 `json:"z,omitempty"`
}

// Inspect reads the input and decodes it without laying it out, so it
// succeeds on inputs with nothing visible.
func (r *Runner) Inspect(ctx context.Context, opts Options) (*Inspection, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	points, err := Read(opts)
	if err != nil {
		return nil, err
	}
	g, hit, err := r.BuildGraph(ctx, points, cache.Hash(opts.Input), opts)
	if err != nil {
		return nil, err
	}

	out := &Inspection{
		Source:   opts.Source,
		Policy:   opts.Policy.String(),
		Points:   make([]InspectedPoint, len(points)),
		Graph:    g,
		CacheHit: hit,
	}
	for i, p := range points {
		info := p.Info()
		out.Points[i] = InspectedPoint{
			Number:           p.Number,
			Code:             p.Code,
			Base:             info.Base,
			ChainsToPrevious: info.ChainsToPrevious,
			Targets:          info.Targets,
			Resolved:         g.ResolvedTargets(p.Number),
			Hidden:           opts.rules.IsHidden(info.Base),
			X:                p.X,
			Y:                p.Y,
			Z:                p.Z,
		}
	}
	opts.Logger.Debug("inspected input", "points", len(points), "edges", len(g.Edges), "cached", hit)
	return out, nil
}
