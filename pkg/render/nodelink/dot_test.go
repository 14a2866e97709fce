package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/pcoview/pkg/graph"
	"github.com/matzehuels/pcoview/pkg/pco"
	"github.com/matzehuels/pcoview/pkg/scene"
)

func fixture(t *testing.T) ([]pco.Point, *graph.Graph) {
	t.Helper()
	points := []pco.Point{
		{Number: 1, Code: "10", X: 0, Y: 0},
		{Number: 2, Code: "10..", X: 5, Y: 5},
		{Number: 3, Code: "20", X: 9, Y: 1},
	}
	g, err := graph.Build(points, nil)
	if err != nil {
		t.Fatal(err)
	}
	return points, g
}

func TestToDOT(t *testing.T) {
	points, g := fixture(t)
	codes := map[int]string{}
	for _, p := range points {
		codes[p.Number] = p.Code
	}

	dot := ToDOT(g, codes, Options{})
	for _, want := range []string{"graph G {", "1 -- 2;", `3 [label="3", color=grey, fontcolor=grey];`} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "->") {
		t.Error("edges must be undirected")
	}
	if strings.Contains(dot, "pos=") {
		t.Error("positions only with a scene")
	}

	dot = ToDOT(g, codes, Options{Detailed: true})
	if !strings.Contains(dot, `label="2\n10.."`) {
		t.Errorf("detailed label missing:\n%s", dot)
	}
}

func TestToDOTPinned(t *testing.T) {
	points, g := fixture(t)
	s, err := scene.Assemble(points, 200, 100, nil)
	if err != nil {
		t.Fatal(err)
	}
	dot := ToDOT(g, nil, Options{Scene: s})
	if !strings.Contains(dot, "inputscale=72;") {
		t.Error("pinned layout should set inputscale")
	}
	if got := strings.Count(dot, "pos="); got != 3 {
		t.Errorf("pinned nodes = %d, want 3", got)
	}
	if !strings.Contains(dot, "!\"") {
		t.Error("positions must be pinned with '!'")
	}
}

func TestEngine(t *testing.T) {
	for _, name := range []string{"", "neato", "FDP", "circo"} {
		if _, err := engine(name); err != nil {
			t.Errorf("engine(%q): %v", name, err)
		}
	}
	if _, err := engine("dot2"); err == nil {
		t.Error("unknown engine accepted")
	}
}

func TestRenderSVG(t *testing.T) {
	_, g := fixture(t)
	svg, err := RenderSVG(context.Background(), ToDOT(g, nil, Options{}), EngineNeato)
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("output is not SVG")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 10.00 20.00" xmlns="x"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10.00 20.00" width="10" height="20">`) {
		t.Errorf("normalizeViewBox = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg>")); string(got) != "<svg>" {
		t.Errorf("no viewBox should pass through, got %s", got)
	}
}
