package graph

import (
	stderrors "errors"

	"github.com/matzehuels/pcoview/pkg/code"
	"github.com/matzehuels/pcoview/pkg/errors"
	"github.com/matzehuels/pcoview/pkg/pco"
)

// ErrDuplicatePoint is returned when two points share a number. Target
// resolution is by number, so the input must be unique.
var ErrDuplicatePoint = stderrors.New("duplicate point number")

// Visible reports whether a point takes part in the graph.
type Visible func(pco.Point) bool

// VisibleBy returns the predicate hiding points whose classification is
// hidden by r. A nil r uses the reserved defaults.
func VisibleBy(r *code.Rules) Visible {
	return func(p pco.Point) bool { return !r.IsHidden(p.Info().Base) }
}

// CheckUnique returns a coded INVALID_INPUT error wrapping ErrDuplicatePoint
// when points repeat a number.
func CheckUnique(points []pco.Point) error {
	if dups := pco.DuplicateNumbers(points); len(dups) > 0 {
		return errors.Wrap(errors.ErrCodeInvalidInput, ErrDuplicatePoint, "point numbers %v appear more than once", dups)
	}
	return nil
}

// Build scans points in input order and returns their connection graph.
//
// Only points accepted by visible become nodes or edge endpoints; a nil
// predicate accepts every point. Targets naming unknown or invisible points
// are dropped silently. The points are never reordered, so the result
// depends on file order, not on point numbering.
func Build(points []pco.Point, visible Visible, opts ...Option) (*Graph, error) {
	var cfg buildConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if visible == nil {
		visible = func(pco.Point) bool { return true }
	}
	if err := CheckUnique(points); err != nil {
		return nil, err
	}

	b := newBuilder(points, visible, cfg.policy)
	b.scan()
	return b.graph(), nil
}

// =============================================================================
// Scan State
// =============================================================================

// builder owns all state of one Build call.
type builder struct {
	points []pco.Point
	infos  []code.Info
	shown  []bool
	policy Policy

	index   map[int]int    // point number -> index, visible points only
	anchors map[string]int // classification -> index of its chain anchor

	edges    []Edge
	seen     map[Edge]bool
	resolved map[int][]int
}

func newBuilder(points []pco.Point, visible Visible, policy Policy) *builder {
	b := &builder{
		points:   points,
		infos:    make([]code.Info, len(points)),
		shown:    make([]bool, len(points)),
		policy:   policy,
		index:    make(map[int]int, len(points)),
		anchors:  make(map[string]int),
		seen:     make(map[Edge]bool),
		resolved: make(map[int][]int),
	}
	for i, p := range points {
		b.infos[i] = p.Info()
		b.shown[i] = visible(p)
		if b.shown[i] {
			b.index[p.Number] = i
		}
	}
	return b
}

func (b *builder) scan() {
	for i, p := range b.points {
		info := b.infos[i]
		if !b.shown[i] {
			if b.policy.HiddenAnchors {
				b.setAnchor(info.Base, i)
			}
			continue
		}

		explicit := len(info.Targets) > 0
		if info.ChainsToPrevious && !(b.policy.SuppressAdjacentDuplicate && explicit) {
			if a, ok := b.anchors[info.Base]; ok {
				b.connect(a, i)
			}
		}

		backward := false
		for _, target := range info.Targets {
			j, ok := b.index[target]
			if !ok || j == i {
				continue
			}
			if b.policy.SuppressAdjacentDuplicate && target == p.Number-1 {
				continue
			}
			if j < i {
				backward = true
			}
			if b.connect(i, j) {
				b.resolved[p.Number] = append(b.resolved[p.Number], target)
			}
		}

		if backward && b.policy.ResetOnBackwardTarget {
			delete(b.anchors, info.Base)
			continue
		}
		b.setAnchor(info.Base, i)
	}
}

func (b *builder) setAnchor(base string, i int) {
	if _, ok := b.anchors[base]; ok && b.policy.KeepFirstAnchor {
		return
	}
	b.anchors[base] = i
}

// connect adds the edge between points i and j and reports whether the
// connection is part of the graph, including when it already was.
func (b *builder) connect(i, j int) bool {
	if !b.shown[i] || !b.shown[j] {
		return false
	}
	if b.policy.RequireDeclaredEndpoints && !(b.infos[i].HasDirective() && b.infos[j].HasDirective()) {
		return false
	}
	a, c := b.points[i].Number, b.points[j].Number
	if a == c {
		return false
	}
	e := Key(a, c)
	if !b.seen[e] {
		b.seen[e] = true
		b.edges = append(b.edges, e)
	}
	return true
}

func (b *builder) graph() *Graph {
	g := &Graph{
		Nodes: make([]int, 0, len(b.index)),
		Edges: b.edges,
	}
	for i, p := range b.points {
		if b.shown[i] {
			g.Nodes = append(g.Nodes, p.Number)
		}
	}
	if len(b.resolved) > 0 {
		g.Targets = b.resolved
	}
	g.index()
	return g
}
