package sink

import (
	"context"

	"github.com/matzehuels/pcoview/pkg/render"
	"github.com/matzehuels/pcoview/pkg/scene"
)

// PDFOption configures PDF rendering.
type PDFOption func(*pdfRenderer)

type pdfRenderer struct {
	svgOpts []SVGOption
}

// WithPDFSVGOptions passes options through to the underlying SVG renderer.
func WithPDFSVGOptions(opts ...SVGOption) PDFOption {
	return func(r *pdfRenderer) { r.svgOpts = opts }
}

// RenderPDF renders the scene as a one-page PDF via SVG conversion. The page
// takes the scene size, so assemble the scene at the page dimensions
// (for example render.PageA4) to get a standard document.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, s *scene.Scene, opts ...PDFOption) ([]byte, error) {
	r := pdfRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	svgOpts := append([]SVGOption{WithEmbeddedFont()}, r.svgOpts...)
	return render.ToPDF(ctx, RenderSVG(s, svgOpts...))
}
