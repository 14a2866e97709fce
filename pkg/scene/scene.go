// Package scene assembles a renderable scene from survey points.
//
// [Assemble] ties the pipeline core together: it hides reserved
// classifications, builds the connection graph over the full point
// sequence, formats label text, fits the visible points into the viewport
// and joins every edge to the positions of its endpoints. The result is
// everything a renderer needs: circles, line segments and label lines.
//
// Assemble is a pure function. Identical inputs produce identical scenes.
package scene

import (
	"strconv"
	"strings"

	"github.com/matzehuels/pcoview/pkg/code"
	"github.com/matzehuels/pcoview/pkg/errors"
	"github.com/matzehuels/pcoview/pkg/graph"
	"github.com/matzehuels/pcoview/pkg/layout"
	"github.com/matzehuels/pcoview/pkg/pco"
)

// Measurer reports the footprint of label lines. Implementations must be
// safe for concurrent use when one Measurer is shared between calls.
type Measurer interface {
	Measure(lines []string) []layout.LineExtent
}

// Point is a visible point placed in the viewport.
type Point struct {
	pco.Point
	X     float64  `json:"x"`
	Y     float64  `json:"y"`
	Label []string `json:"label"`
}

// Edge joins two placed points.
type Edge struct {
	From *Point `json:"-"`
	To   *Point `json:"-"`
}

// Key returns the canonical pair of the edge.
func (e Edge) Key() graph.Edge { return graph.Key(e.From.Number, e.To.Number) }

// Scene is a fully positioned drawing.
type Scene struct {
	Width     float64       `json:"width"`
	Height    float64       `json:"height"`
	Points    []Point       `json:"points"`
	Edges     []Edge        `json:"-"`
	Adjacency map[int][]int `json:"adjacency"`

	// Hidden counts the points withheld by the visibility rules.
	Hidden int `json:"hidden"`

	Graph  *graph.Graph  `json:"-"`
	Layout layout.Result `json:"-"`
	Config layout.Config `json:"-"`
}

// PointByNumber returns the placed point with number n.
func (s *Scene) PointByNumber(n int) (*Point, bool) {
	for i := range s.Points {
		if s.Points[i].Number == n {
			return &s.Points[i], true
		}
	}
	return nil, false
}

// =============================================================================
// Options
// =============================================================================

// Option configures Assemble.
type Option func(*options)

type options struct {
	rules  *code.Rules
	policy graph.Policy
	layout layout.Config
}

// WithRules replaces the default visibility rules.
func WithRules(r *code.Rules) Option {
	return func(o *options) { o.rules = r }
}

// WithPolicy selects the connection rule variant.
func WithPolicy(p graph.Policy) Option {
	return func(o *options) { o.policy = p }
}

// WithLayout replaces the default drawing constants.
func WithLayout(c layout.Config) Option {
	return func(o *options) { o.layout = c }
}

// =============================================================================
// Assembly
// =============================================================================

// Assemble builds the scene for points in a width × height viewport.
//
// Repeated point numbers are rejected with an INVALID_INPUT error before any
// other work. When there is nothing to draw the error wraps
// layout.ErrNoLayout. A nil Measurer lays out points without labels.
func Assemble(points []pco.Point, width, height float64, m Measurer, opts ...Option) (*Scene, error) {
	o := options{rules: code.DefaultRules(), layout: layout.DefaultConfig()}
	for _, opt := range opts {
		opt(&o)
	}

	if err := graph.CheckUnique(points); err != nil {
		return nil, err
	}

	visibleFn := graph.VisibleBy(o.rules)
	g, err := graph.Build(points, visibleFn, graph.WithPolicy(o.policy))
	if err != nil {
		return nil, err
	}

	visible := make([]pco.Point, 0, len(points))
	for _, p := range points {
		if visibleFn(p) {
			visible = append(visible, p)
		}
	}

	labels := make(map[int][]string, len(visible))
	for _, p := range visible {
		labels[p.Number] = LabelLines(p, g.ResolvedTargets(p.Number))
	}
	var extents layout.ExtentsFunc
	if m != nil {
		extents = func(p pco.Point) []layout.LineExtent { return m.Measure(labels[p.Number]) }
	}

	fit, err := layout.Fit(visible, width, height, extents, o.layout)
	if err != nil {
		return nil, err
	}

	s := &Scene{
		Width:     width,
		Height:    height,
		Points:    make([]Point, len(visible)),
		Edges:     make([]Edge, 0, len(g.Edges)),
		Adjacency: g.Adjacency,
		Hidden:    len(points) - len(visible),
		Graph:     g,
		Layout:    fit,
		Config:    o.layout,
	}
	placed := make(map[int]*Point, len(visible))
	for i, p := range visible {
		pos := fit.Positions[p.Number]
		s.Points[i] = Point{Point: p, X: pos.X, Y: pos.Y, Label: labels[p.Number]}
		placed[p.Number] = &s.Points[i]
	}
	for _, e := range g.Edges {
		from, okA := placed[e.A]
		to, okB := placed[e.B]
		if !okA || !okB {
			return nil, errors.New(errors.ErrCodeInternal, "edge %v has an endpoint without a position", e)
		}
		s.Edges = append(s.Edges, Edge{From: from, To: to})
	}
	return s, nil
}

// LabelLines formats the label of a point. The first line is the point
// number. The second is the classification annotated with the resolved
// explicit targets ("10..7"); with no classification it falls back to the
// raw code, and it is omitted when both are empty.
func LabelLines(p pco.Point, resolved []int) []string {
	lines := []string{strconv.Itoa(p.Number)}
	base := p.Info().Base
	switch {
	case base != "":
		lines = append(lines, code.Info{Base: base, ChainsToPrevious: len(resolved) > 0, Targets: resolved}.String())
	case strings.TrimSpace(p.Code) != "":
		lines = append(lines, strings.TrimSpace(p.Code))
	}
	return lines
}
