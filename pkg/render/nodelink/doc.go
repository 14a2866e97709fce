// Package nodelink renders connection graphs as node-link diagrams.
//
// # Overview
//
// Where the scheme sinks draw points at their surveyed positions, this
// package exports the bare topology: every visible point is a node and
// every connection an undirected edge. It is useful for checking which
// codes produced which connections.
//
// # Usage
//
// Convert a graph to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(g, codes, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot, nodelink.EngineNeato)
//
// Passing the assembled scene in [Options] pins every node to its scheme
// position, so the diagram overlays the drawing:
//
//	dot := nodelink.ToDOT(g, codes, nodelink.Options{Scene: s})
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF conversion requires librsvg (rsvg-convert).
package nodelink
