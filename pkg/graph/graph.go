package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/matzehuels/pcoview/pkg/errors"
)

// =============================================================================
// Edge - Canonical Undirected Pair
// =============================================================================

// Edge is an undirected connection between two point numbers with A < B.
type Edge struct {
	A int `json:"a" bson:"a"`
	B int `json:"b" bson:"b"`
}

// Key returns the canonical edge for the pair.
func Key(a, b int) Edge {
	if a > b {
		a, b = b, a
	}
	return Edge{A: a, B: b}
}

// Other returns the endpoint opposite n, or false if n is not an endpoint.
func (e Edge) Other(n int) (int, bool) {
	switch n {
	case e.A:
		return e.B, true
	case e.B:
		return e.A, true
	}
	return 0, false
}

func (e Edge) String() string { return fmt.Sprintf("{%d,%d}", e.A, e.B) }

// =============================================================================
// Graph
// =============================================================================

// Graph is the connection graph over visible points.
type Graph struct {
	// Nodes lists visible point numbers in input order.
	Nodes []int `json:"nodes" bson:"nodes"`

	// Edges holds each connection once, in discovery order.
	Edges []Edge `json:"edges" bson:"edges"`

	// Adjacency maps every connected point to its sorted, distinct
	// neighbors. It is derived from Edges.
	Adjacency map[int][]int `json:"adjacency" bson:"-"`

	// Targets maps a point to the explicit targets of its code that became
	// edges, in code order.
	Targets map[int][]int `json:"targets,omitempty" bson:"-"`
}

// index rebuilds Adjacency from Edges.
func (g *Graph) index() {
	if g.Nodes == nil {
		g.Nodes = []int{}
	}
	if g.Edges == nil {
		g.Edges = []Edge{}
	}
	g.Adjacency = make(map[int][]int)
	for _, e := range g.Edges {
		g.Adjacency[e.A] = append(g.Adjacency[e.A], e.B)
		g.Adjacency[e.B] = append(g.Adjacency[e.B], e.A)
	}
	for n, ns := range g.Adjacency {
		slices.Sort(ns)
		g.Adjacency[n] = slices.Compact(ns)
	}
}

// Has reports whether a and b are connected.
func (g *Graph) Has(a, b int) bool {
	_, ok := slices.BinarySearch(g.Adjacency[a], b)
	return ok
}

// Neighbors returns the sorted neighbors of n.
func (g *Graph) Neighbors(n int) []int { return g.Adjacency[n] }

// ResolvedTargets returns the explicit targets of n that became edges.
func (g *Graph) ResolvedTargets(n int) []int { return g.Targets[n] }

// =============================================================================
// Serialization
// =============================================================================

// Marshal encodes g as indented JSON.
func Marshal(g *Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write encodes g as indented JSON to w.
func Write(g *Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Unmarshal decodes a graph and validates it. Adjacency is recomputed from
// the edges; a serialized adjacency is ignored.
func Unmarshal(data []byte) (*Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode graph")
	}
	if err := g.validate(); err != nil {
		return nil, err
	}
	g.index()
	return &g, nil
}

func (g *Graph) validate() error {
	nodes := make(map[int]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if nodes[n] {
			return errors.Wrap(errors.ErrCodeInvalidInput, ErrDuplicatePoint, "node %d listed twice", n)
		}
		nodes[n] = true
	}
	seen := make(map[Edge]bool, len(g.Edges))
	for _, e := range g.Edges {
		switch {
		case e.A >= e.B:
			return errors.New(errors.ErrCodeInvalidFormat, "edge %v is not canonical", e)
		case !nodes[e.A] || !nodes[e.B]:
			return errors.New(errors.ErrCodeInvalidFormat, "edge %v references unknown node", e)
		case seen[e]:
			return errors.New(errors.ErrCodeInvalidFormat, "edge %v listed twice", e)
		}
		seen[e] = true
	}
	return nil
}
