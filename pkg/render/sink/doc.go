// Package sink provides output format renderers for assembled scenes.
//
// # Overview
//
// A "sink" transforms a [scene.Scene] into a final output format. Every
// sink draws in the same order: background, connection lines, point discs,
// then label lines to the lower right of each point.
//
//   - SVG: Scalable vector graphics with the label font embedded
//   - PNG: Raster image drawn in-process with fogleman/gg
//   - PDF: Fixed-size document (requires rsvg-convert)
//   - JSON: Positioned scene data for external tools
//
// Basic usage:
//
//	svg := sink.RenderSVG(s, sink.WithStyle(style))
//	png, err := sink.RenderPNG(s, sink.WithPNGStyle(style), sink.WithScale(2))
//	data, err := sink.RenderJSON(s)
//
// Label text is positioned with the scene's layout constants, the same ones
// used to reserve padding, so labels never leave the canvas.
//
// [scene.Scene]: github.com/matzehuels/pcoview/pkg/scene.Scene
package sink
