// Package render turns assembled scenes into output documents.
//
// # Overview
//
// Rendering is split by output technology:
//
//   - Drawing styles and format conversion (this package)
//   - Scheme drawings as SVG, PNG, PDF and JSON (in [sink] subpackage)
//   - Connection topology as Graphviz DOT and SVG (in [nodelink] subpackage)
//
// # Styles
//
// A [Style] holds the colors and stroke widths of a drawing. Named presets
// are available through [StyleByName]:
//
//	render.StyleScheme  // grey canvas, red points, blue lines
//	render.StylePrint   // white page for documents
//	render.StyleMono    // black on white
//
// # Format Conversion
//
// [ToPDF] converts SVG to PDF using the external rsvg-convert tool (from
// librsvg). PNG output is rasterized in-process by the sink package and
// needs no external tools.
//
//	svg := sink.RenderSVG(scene, sink.WithStyle(style))
//	pdf, err := render.ToPDF(ctx, svg)
//
// [sink]: github.com/matzehuels/pcoview/pkg/render/sink
// [nodelink]: github.com/matzehuels/pcoview/pkg/render/nodelink
package render
