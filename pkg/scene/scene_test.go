package scene

import (
	stderrors "errors"
	"slices"
	"testing"

	"github.com/matzehuels/pcoview/pkg/code"
	"github.com/matzehuels/pcoview/pkg/errors"
	"github.com/matzehuels/pcoview/pkg/fonts"
	"github.com/matzehuels/pcoview/pkg/graph"
	"github.com/matzehuels/pcoview/pkg/layout"
	"github.com/matzehuels/pcoview/pkg/pco"
)

// grid measures each character as 10 × 18 pixels.
var grid = fonts.Monospace{Advance: 10, Ascent: 14, Descent: 4}

func survey() []pco.Point {
	return []pco.Point{
		{Number: 1, Code: "10", X: 100, Y: 200},
		{Number: 2, Code: "10..", X: 110, Y: 210},
		{Number: 3, Code: "701..2", X: 120, Y: 500},
		{Number: 4, Code: "10..1", X: 105, Y: 230},
		{Number: 5, Code: "", X: 90, Y: 205},
		{Number: 6, Code: "704", X: -500, Y: -500},
	}
}

func TestAssemble(t *testing.T) {
	s, err := Assemble(survey(), 800, 600, grid)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	var numbers []int
	for _, p := range s.Points {
		numbers = append(numbers, p.Number)
	}
	if !slices.Equal(numbers, []int{1, 2, 4, 5}) {
		t.Errorf("placed points = %v, want [1 2 4 5]", numbers)
	}
	if s.Hidden != 2 {
		t.Errorf("Hidden = %d, want 2", s.Hidden)
	}

	var keys []graph.Edge
	for _, e := range s.Edges {
		keys = append(keys, e.Key())
		if e.From.X != s.Layout.Positions[e.From.Number].X {
			t.Errorf("edge %v not joined to its position", e.Key())
		}
	}
	want := []graph.Edge{{A: 1, B: 2}, {A: 2, B: 4}, {A: 1, B: 4}}
	if !slices.Equal(keys, want) {
		t.Errorf("edges = %v, want %v", keys, want)
	}
	if !slices.Equal(s.Adjacency[1], []int{2, 4}) {
		t.Errorf("Adjacency[1] = %v", s.Adjacency[1])
	}
}

func TestAssembleHiddenExcludedFromBounds(t *testing.T) {
	with, err := Assemble(survey(), 800, 600, grid)
	if err != nil {
		t.Fatal(err)
	}
	var visible []pco.Point
	for _, p := range survey() {
		if !code.IsHidden(p.Info().Base) {
			visible = append(visible, p)
		}
	}
	without, err := Assemble(visible, 800, 600, grid)
	if err != nil {
		t.Fatal(err)
	}
	if with.Layout.Bounds != without.Layout.Bounds || with.Layout.Scale != without.Layout.Scale {
		t.Errorf("hidden points changed the fit: %+v vs %+v", with.Layout, without.Layout)
	}
}

func TestAssembleIdempotent(t *testing.T) {
	a, errA := Assemble(survey(), 640, 480, grid)
	b, errB := Assemble(survey(), 640, 480, grid)
	if errA != nil || errB != nil {
		t.Fatalf("Assemble: %v, %v", errA, errB)
	}
	if len(a.Points) != len(b.Points) || len(a.Edges) != len(b.Edges) {
		t.Fatal("scene sizes differ")
	}
	for i := range a.Points {
		if a.Points[i].X != b.Points[i].X || a.Points[i].Y != b.Points[i].Y {
			t.Errorf("point %d moved between runs", a.Points[i].Number)
		}
	}
	for i := range a.Edges {
		if a.Edges[i].Key() != b.Edges[i].Key() {
			t.Errorf("edge %d differs: %v vs %v", i, a.Edges[i].Key(), b.Edges[i].Key())
		}
	}
}

func TestAssembleLabels(t *testing.T) {
	s, err := Assemble(survey(), 800, 600, grid)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		number int
		want   []string
	}{
		{1, []string{"1", "10"}},
		{2, []string{"2", "10"}},
		{4, []string{"4", "10..1"}},
		{5, []string{"5"}},
	}
	for _, tt := range tests {
		p, ok := s.PointByNumber(tt.number)
		if !ok {
			t.Fatalf("point %d missing", tt.number)
		}
		if !slices.Equal(p.Label, tt.want) {
			t.Errorf("label of %d = %q, want %q", tt.number, p.Label, tt.want)
		}
	}
}

func TestLabelLines(t *testing.T) {
	tests := []struct {
		name     string
		point    pco.Point
		resolved []int
		want     []string
	}{
		{"base only", pco.Point{Number: 3, Code: "10"}, nil, []string{"3", "10"}},
		{"resolved target", pco.Point{Number: 8, Code: "10..7"}, []int{7}, []string{"8", "10..7"}},
		{"unresolved target", pco.Point{Number: 8, Code: "10..99"}, nil, []string{"8", "10"}},
		{"several targets", pco.Point{Number: 9, Code: "10..7.3"}, []int{7, 3}, []string{"9", "10..7.3"}},
		{"raw fallback", pco.Point{Number: 4, Code: "..5"}, nil, []string{"4", "..5"}},
		{"empty code", pco.Point{Number: 5}, nil, []string{"5"}},
		{"blank code", pco.Point{Number: 6, Code: "  "}, nil, []string{"6"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LabelLines(tt.point, tt.resolved); !slices.Equal(got, tt.want) {
				t.Errorf("LabelLines = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAssembleDuplicateNumbers(t *testing.T) {
	points := append(survey(), pco.Point{Number: 2, Code: "20", X: 1, Y: 1})
	_, err := Assemble(points, 800, 600, grid)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
	if !stderrors.Is(err, graph.ErrDuplicatePoint) {
		t.Errorf("err = %v should wrap ErrDuplicatePoint", err)
	}
}

func TestAssembleNoLayout(t *testing.T) {
	tests := []struct {
		name   string
		points []pco.Point
		w, h   float64
	}{
		{"only hidden", []pco.Point{{Number: 1, Code: "701"}, {Number: 2, Code: "706.."}}, 800, 600},
		{"empty", nil, 800, 600},
		{"zero viewport", survey(), 0, 600},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Assemble(tt.points, tt.w, tt.h, grid)
			if !stderrors.Is(err, layout.ErrNoLayout) {
				t.Errorf("err = %v, want ErrNoLayout", err)
			}
		})
	}
}

func TestAssembleOptions(t *testing.T) {
	points := survey()

	s, err := Assemble(points, 800, 600, nil, WithRules(code.NewRules("10")))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.PointByNumber(1); ok {
		t.Error("custom rules should hide classification 10")
	}
	if _, ok := s.PointByNumber(3); !ok {
		t.Error("custom rules should show 701")
	}

	s, err = Assemble(points, 800, 600, nil, WithPolicy(graph.Policy{KeepFirstAnchor: true}))
	if err != nil {
		t.Fatal(err)
	}
	if !s.Graph.Has(1, 4) || s.Graph.Has(2, 4) {
		t.Errorf("keep-first-anchor edges = %v", s.Graph.Edges)
	}

	cfg := layout.DefaultConfig()
	cfg.Margin = 40
	s, err = Assemble(points, 800, 600, nil, WithLayout(cfg))
	if err != nil {
		t.Fatal(err)
	}
	if s.Layout.Padding.Left != 44 {
		t.Errorf("Padding.Left = %v, want 44", s.Layout.Padding.Left)
	}
}
