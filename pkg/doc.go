// Package pkg holds the pcoview libraries.
//
// pcoview draws land-survey point files (.pco). Each point carries a short
// code that classifies it and may declare line connections to other points.
// The packages divide the work as follows:
//
//	[pco]        read .pco files into points
//	[code]       decode point codes; decide which classifications are hidden
//	[graph]      build the undirected connection graph
//	[layout]     fit visible points and their labels into a viewport
//	[scene]      tie the above together into a positioned drawing
//	[render]     styles, pages and the SVG/PNG/PDF/JSON/DOT sinks
//	[pipeline]   read → assemble → render with caching
//	[cache]      artifact caching (file, Redis)
//	[exports]    history of written files (JSON lines, MongoDB)
//	[config]     TOML settings
//
// # Quick Start
//
//	points, _ := pco.ReadFile("site.pco")
//	m, _ := fonts.NewMeasurer(18)
//	s, err := scene.Assemble(points, 800, 600, m)
//	if errors.Is(err, layout.ErrNoLayout) {
//	    return // nothing visible to draw
//	}
//	os.WriteFile("site.svg", sink.RenderSVG(s), 0o644)
package pkg
