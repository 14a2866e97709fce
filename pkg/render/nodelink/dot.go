package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/pcoview/pkg/graph"
	"github.com/matzehuels/pcoview/pkg/render"
	"github.com/matzehuels/pcoview/pkg/scene"
)

// Layout engines accepted by RenderSVG.
const (
	EngineNeato = "neato"
	EngineFDP   = "fdp"
	EngineCirco = "circo"
)

// Engines lists the supported layout engines.
var Engines = []string{EngineNeato, EngineFDP, EngineCirco}

// Options configures topology diagram generation.
type Options struct {
	// Detailed adds the point code to node labels.
	// When false, only the point number is shown.
	Detailed bool

	// Scene pins every node to its scheme position. Without it the layout
	// engine places nodes freely.
	Scene *scene.Scene
}

// ToDOT converts a connection graph to Graphviz DOT format. Edges are
// undirected. The resulting DOT string can be rendered using [RenderSVG] or
// [RenderPDF].
func ToDOT(g *graph.Graph, codes map[int]string, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  overlap=false;\n")
	if opts.Scene != nil {
		buf.WriteString("  inputscale=72;\n")
		buf.WriteString("  splines=false;\n")
	}
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=12, width=0.3, fixedsize=false];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes {
		attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, codes[n], opts.Detailed))}
		if opts.Scene != nil {
			if p, ok := opts.Scene.PointByNumber(n); ok {
				// Graphviz y grows upward.
				attrs = append(attrs, fmt.Sprintf("pos=\"%.2f,%.2f!\"", p.X, opts.Scene.Height-p.Y))
			}
		}
		if len(g.Neighbors(n)) == 0 {
			attrs = append(attrs, "color=grey", "fontcolor=grey")
		}
		fmt.Fprintf(&buf, "  %d [%s];\n", n, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		fmt.Fprintf(&buf, "  %d -- %d;\n", e.A, e.B)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n int, code string, detailed bool) string {
	label := strconv.Itoa(n)
	if detailed && strings.TrimSpace(code) != "" {
		label += "\n" + strings.TrimSpace(code)
	}
	return label
}

func engine(name string) (graphviz.Layout, error) {
	switch strings.ToLower(name) {
	case "", EngineNeato:
		return graphviz.NEATO, nil
	case EngineFDP:
		return graphviz.FDP, nil
	case EngineCirco:
		return graphviz.CIRCO, nil
	default:
		return "", fmt.Errorf("unsupported layout engine %q", name)
	}
}

// RenderSVG renders a DOT graph to SVG using Graphviz with the named layout
// engine (default neato, which honors pinned positions).
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF].
func RenderSVG(ctx context.Context, dot, engineName string) ([]byte, error) {
	layout, err := engine(engineName)
	if err != nil {
		return nil, err
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(layout)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPDF].
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot, engineName string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot, engineName)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}
